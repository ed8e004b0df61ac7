package app

import (
	"encoding/json"
	"testing"

	"github.com/fymoney/weave"
	"github.com/fymoney/weave/coin"
	"github.com/fymoney/weave/errors"
	"github.com/fymoney/weave/store"
	"github.com/fymoney/weave/weavetest"
	"github.com/fymoney/weave/x/cash"
	"github.com/fymoney/weave/x/escrow"
	"github.com/fymoney/weave/x/sigs"
	"github.com/gogo/protobuf/proto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTxGetMsg(t *testing.T) {
	send := &cash.SendMsg{
		Source:      weavetest.NewCondition().Address(),
		Destination: weavetest.NewCondition().Address(),
		Amount:      coin.NewCoin(5, "FYM"),
	}
	claim := &escrow.ClaimMsg{
		Sender:        weavetest.NewCondition().Address(),
		RecipientHash: recipientHash("x"),
		Claimant:      weavetest.NewCondition().Address(),
	}

	cases := map[string]struct {
		tx      *Tx
		wantErr *errors.Error
		want    weave.Msg
	}{
		"send":         {tx: &Tx{SendMsg: send}, want: send},
		"claim":        {tx: &Tx{ClaimMsg: claim}, want: claim},
		"empty":        {tx: &Tx{}, wantErr: errors.ErrInput},
		"two messages": {tx: &Tx{SendMsg: send, ClaimMsg: claim}, wantErr: errors.ErrInput},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			msg, err := tc.tx.GetMsg()
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			assert.Equal(t, tc.want, msg)
		})
	}
}

func TestTxDecoderRoundTrip(t *testing.T) {
	key := weavetest.NewKey()
	tx := &Tx{CreateMsg: &escrow.CreateMsg{
		Sender:        weavetest.KeyCondition(key).Address(),
		RecipientHash: recipientHash("carol"),
		Amount:        coin.NewCoin(42, "FYM"),
		ExpiresAt:     1560000000,
	}}
	sig, err := sigs.SignTx(key, tx, chainID, 3)
	require.NoError(t, err)
	tx.Signatures = []*sigs.StdSignature{sig}

	raw, err := tx.Marshal()
	require.NoError(t, err)
	decoded, err := TxDecoder(raw)
	require.NoError(t, err)
	assert.Equal(t, tx, decoded)

	// Signatures are not part of the signed bytes.
	signBytes, err := tx.GetSignBytes()
	require.NoError(t, err)
	unsigned := &Tx{CreateMsg: tx.CreateMsg}
	want, err := unsigned.Marshal()
	require.NoError(t, err)
	assert.Equal(t, want, signBytes)
	assert.Len(t, tx.Signatures, 1)

	_, err = TxDecoder([]byte{0xff, 0xff})
	assert.Error(t, err)
}

func TestGenInitOptions(t *testing.T) {
	addr := weavetest.NewCondition().Address()
	raw, err := GenInitOptions([]string{"ABC", addr.String()})
	require.NoError(t, err)

	var opts weave.Options
	require.NoError(t, json.Unmarshal(raw, &opts))
	var accounts []cash.GenesisAccount
	require.NoError(t, opts.ReadOptions("cash", &accounts))
	require.Len(t, accounts, 1)
	assert.Equal(t, addr, accounts[0].Address)
	assert.Equal(t, coin.NewCoin(devSupply, "ABC"), accounts[0].Coins[0])

	// The generated state must be accepted by the node.
	require.NoError(t, Initializers().FromGenesis(opts, store.MemStore()))

	_, err = GenInitOptions([]string{"not a ticker"})
	assert.Error(t, err)
}

// Tagged as gogo protobuf generates codec.proto. A oneof member is
// encoded like an optional message field.
type pbSignature struct {
	Sequence  int64  `protobuf:"varint,1,opt,name=sequence,proto3"`
	Pubkey    []byte `protobuf:"bytes,2,opt,name=pubkey,proto3"`
	Signature []byte `protobuf:"bytes,3,opt,name=signature,proto3"`
}

func (m *pbSignature) Reset()         { *m = pbSignature{} }
func (m *pbSignature) String() string { return proto.CompactTextString(m) }
func (*pbSignature) ProtoMessage()    {}

type pbClaimMsg struct {
	Sender        []byte `protobuf:"bytes,1,opt,name=sender,proto3"`
	RecipientHash []byte `protobuf:"bytes,2,opt,name=recipient_hash,json=recipientHash,proto3"`
	Claimant      []byte `protobuf:"bytes,3,opt,name=claimant,proto3"`
}

func (m *pbClaimMsg) Reset()         { *m = pbClaimMsg{} }
func (m *pbClaimMsg) String() string { return proto.CompactTextString(m) }
func (*pbClaimMsg) ProtoMessage()    {}

type pbTx struct {
	Signatures []*pbSignature `protobuf:"bytes,1,rep,name=signatures,proto3"`
	ClaimMsg   *pbClaimMsg    `protobuf:"bytes,4,opt,name=claim_msg,json=claimMsg,proto3"`
}

func (m *pbTx) Reset()         { *m = pbTx{} }
func (m *pbTx) String() string { return proto.CompactTextString(m) }
func (*pbTx) ProtoMessage()    {}

func TestTxMatchesProtobufEncoding(t *testing.T) {
	key := weavetest.NewKey()
	claim := &escrow.ClaimMsg{
		Sender:        weavetest.NewCondition().Address(),
		RecipientHash: recipientHash("dave"),
		Claimant:      weavetest.KeyCondition(key).Address(),
	}
	tx := &Tx{ClaimMsg: claim}
	sig, err := sigs.SignTx(key, tx, chainID, 7)
	require.NoError(t, err)
	tx.Signatures = []*sigs.StdSignature{sig}

	got, err := tx.Marshal()
	require.NoError(t, err)
	want, err := proto.Marshal(&pbTx{
		Signatures: []*pbSignature{{
			Sequence:  sig.Sequence,
			Pubkey:    sig.Pubkey,
			Signature: sig.Signature,
		}},
		ClaimMsg: &pbClaimMsg{
			Sender:        claim.Sender,
			RecipientHash: claim.RecipientHash,
			Claimant:      claim.Claimant,
		},
	})
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
