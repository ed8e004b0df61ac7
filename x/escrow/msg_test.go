package escrow

import (
	"testing"

	"github.com/fymoney/weave"
	"github.com/fymoney/weave/coin"
	"github.com/fymoney/weave/errors"
	"github.com/fymoney/weave/weavetest"
	"github.com/fymoney/weave/weavetest/assert"
	"github.com/gogo/protobuf/proto"
)

func TestMsgValidate(t *testing.T) {
	sender := weavetest.RandomAddr(t)
	other := weavetest.RandomAddr(t)
	hash := identifierHash("bob@example.com")

	cases := map[string]struct {
		msg     weave.Msg
		wantErr *errors.Error
	}{
		"valid create": {
			msg: &CreateMsg{Sender: sender, RecipientHash: hash, Amount: coin.NewCoin(5, "FYM"), ExpiresAt: 1560000000},
		},
		"create zero amount": {
			msg:     &CreateMsg{Sender: sender, RecipientHash: hash, Amount: coin.NewCoin(0, "FYM"), ExpiresAt: 1560000000},
			wantErr: ErrInvalidAmount,
		},
		"create without asset": {
			msg:     &CreateMsg{Sender: sender, RecipientHash: hash, Amount: coin.Coin{Amount: 5}, ExpiresAt: 1560000000},
			wantErr: errors.ErrCurrency,
		},
		"create without expiration": {
			msg:     &CreateMsg{Sender: sender, RecipientHash: hash, Amount: coin.NewCoin(5, "FYM")},
			wantErr: ErrInvalidExpiration,
		},
		"create short hash": {
			msg:     &CreateMsg{Sender: sender, RecipientHash: hash[:31], Amount: coin.NewCoin(5, "FYM"), ExpiresAt: 1},
			wantErr: errors.ErrInput,
		},
		"create invalid sender": {
			msg:     &CreateMsg{RecipientHash: hash, Amount: coin.NewCoin(5, "FYM"), ExpiresAt: 1},
			wantErr: errors.ErrInput,
		},
		"valid claim": {
			msg: &ClaimMsg{Sender: sender, RecipientHash: hash, Claimant: other},
		},
		"claim without claimant": {
			msg:     &ClaimMsg{Sender: sender, RecipientHash: hash},
			wantErr: errors.ErrInput,
		},
		"valid reclaim": {
			msg: &ReclaimMsg{Sender: sender, RecipientHash: hash, Caller: sender},
		},
		"reclaim without hash": {
			msg:     &ReclaimMsg{Sender: sender, Caller: sender},
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.IsErr(t, tc.wantErr, tc.msg.Validate())
		})
	}
}

func TestMsgSerialization(t *testing.T) {
	sender := weavetest.RandomAddr(t)
	hash := identifierHash("bob@example.com")

	cases := map[string]struct {
		msg  weave.Msg
		path string
		dst  weave.Msg
	}{
		"create": {
			msg:  &CreateMsg{Sender: sender, RecipientHash: hash, Amount: coin.NewCoin(5, "FYM"), ExpiresAt: 1560000000},
			path: "escrow/create",
			dst:  &CreateMsg{},
		},
		"claim": {
			msg:  &ClaimMsg{Sender: sender, RecipientHash: hash, Claimant: weavetest.RandomAddr(t)},
			path: "escrow/claim",
			dst:  &ClaimMsg{},
		},
		"reclaim": {
			msg:  &ReclaimMsg{Sender: sender, RecipientHash: hash, Caller: sender},
			path: "escrow/reclaim",
			dst:  &ReclaimMsg{},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.path, tc.msg.Path())
			raw, err := tc.msg.Marshal()
			assert.Nil(t, err)
			assert.Nil(t, tc.dst.Unmarshal(raw))
			assert.Equal(t, tc.msg, tc.dst)
		})
	}
}

// The structs below are tagged the way gogo protobuf generates code for
// codec.proto. The hand written codecs must produce the same bytes.

type pbCoin struct {
	Asset  []byte `protobuf:"bytes,1,opt,name=asset,proto3"`
	Amount uint64 `protobuf:"varint,2,opt,name=amount,proto3"`
}

func (m *pbCoin) Reset()         { *m = pbCoin{} }
func (m *pbCoin) String() string { return proto.CompactTextString(m) }
func (*pbCoin) ProtoMessage()    {}

type pbCreateMsg struct {
	Sender        []byte  `protobuf:"bytes,1,opt,name=sender,proto3"`
	RecipientHash []byte  `protobuf:"bytes,2,opt,name=recipient_hash,json=recipientHash,proto3"`
	Amount        *pbCoin `protobuf:"bytes,3,opt,name=amount,proto3"`
	ExpiresAt     int64   `protobuf:"varint,4,opt,name=expires_at,json=expiresAt,proto3"`
}

func (m *pbCreateMsg) Reset()         { *m = pbCreateMsg{} }
func (m *pbCreateMsg) String() string { return proto.CompactTextString(m) }
func (*pbCreateMsg) ProtoMessage()    {}

// pbReleaseMsg is both ClaimMsg (party is the claimant) and ReclaimMsg
// (party is the caller).
type pbReleaseMsg struct {
	Sender        []byte `protobuf:"bytes,1,opt,name=sender,proto3"`
	RecipientHash []byte `protobuf:"bytes,2,opt,name=recipient_hash,json=recipientHash,proto3"`
	Party         []byte `protobuf:"bytes,3,opt,name=party,proto3"`
}

func (m *pbReleaseMsg) Reset()         { *m = pbReleaseMsg{} }
func (m *pbReleaseMsg) String() string { return proto.CompactTextString(m) }
func (*pbReleaseMsg) ProtoMessage()    {}

func TestMsgMatchesProtobufEncoding(t *testing.T) {
	sender := weavetest.RandomAddr(t)
	claimant := weavetest.RandomAddr(t)
	hash := identifierHash("bob@example.com")
	amount := coin.NewCoin(5, "FYM")

	cases := map[string]struct {
		msg weave.Msg
		pb  proto.Message
		dst weave.Msg
	}{
		"create": {
			msg: &CreateMsg{Sender: sender, RecipientHash: hash, Amount: amount, ExpiresAt: 1560000000},
			pb: &pbCreateMsg{
				Sender:        sender,
				RecipientHash: hash,
				Amount:        &pbCoin{Asset: amount.Asset, Amount: 5},
				ExpiresAt:     1560000000,
			},
			dst: &CreateMsg{},
		},
		"claim": {
			msg: &ClaimMsg{Sender: sender, RecipientHash: hash, Claimant: claimant},
			pb:  &pbReleaseMsg{Sender: sender, RecipientHash: hash, Party: claimant},
			dst: &ClaimMsg{},
		},
		"reclaim": {
			msg: &ReclaimMsg{Sender: sender, RecipientHash: hash, Caller: sender},
			pb:  &pbReleaseMsg{Sender: sender, RecipientHash: hash, Party: sender},
			dst: &ReclaimMsg{},
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := tc.msg.Marshal()
			assert.Nil(t, err)
			want, err := proto.Marshal(tc.pb)
			assert.Nil(t, err)
			assert.Equal(t, want, got)

			assert.Nil(t, tc.dst.Unmarshal(want))
			assert.Equal(t, tc.msg, tc.dst)
		})
	}
}
