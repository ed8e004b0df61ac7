package sigs

import (
	"context"
	"testing"

	"github.com/fymoney/weave"
	"github.com/fymoney/weave/errors"
	"github.com/fymoney/weave/store"
	"github.com/fymoney/weave/weavetest"
	"github.com/fymoney/weave/weavetest/assert"
	"github.com/stretchr/testify/require"
)

// signerHandler records the signers seen in the context.
type signerHandler struct {
	weavetest.Handler
	signers []weave.Condition
}

func (h *signerHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	h.signers = Authenticate{}.GetConditions(ctx)
	return h.Handler.Deliver(ctx, db, tx)
}

func TestDecorator(t *testing.T) {
	const chainID = "deco-chain"
	ctx := weave.WithChainID(context.Background(), chainID)
	key := weavetest.NewKey()
	db := store.MemStore()

	signed := NewStdTx([]byte("foo"))
	sig, err := SignTx(key, signed, chainID, 0)
	require.NoError(t, err)
	signed.Signatures = []*StdSignature{sig}

	unsigned := NewStdTx([]byte("bar"))

	h := &signerHandler{}
	_, err = NewDecorator().Deliver(ctx, db, signed, h)
	assert.Nil(t, err)
	assert.Equal(t, []weave.Condition{weavetest.KeyCondition(key)}, h.signers)
	if !(Authenticate{}).HasAddress(withSigners(ctx, h.signers), weavetest.KeyCondition(key).Address()) {
		t.Fatal("signer address not authenticated")
	}

	_, err = NewDecorator().Deliver(ctx, db, unsigned, h)
	assert.IsErr(t, errors.ErrUnauthorized, err)

	h = &signerHandler{}
	_, err = NewDecorator().AllowMissingSigs().Deliver(ctx, db, unsigned, h)
	assert.Nil(t, err)
	assert.Equal(t, 0, len(h.signers))

	// The same signature cannot be used twice.
	_, err = NewDecorator().Deliver(ctx, db, signed, h)
	assert.IsErr(t, ErrInvalidSequence, err)
}

func TestDecoratorCheckCharges(t *testing.T) {
	const chainID = "deco-chain"
	ctx := weave.WithChainID(context.Background(), chainID)
	key := weavetest.NewKey()

	tx := NewStdTx([]byte("foo"))
	sig, err := SignTx(key, tx, chainID, 0)
	require.NoError(t, err)
	tx.Signatures = []*StdSignature{sig}

	h := &weavetest.Handler{CheckResult: weave.CheckResult{GasAllocated: 10}}
	res, err := NewDecorator().Check(ctx, store.MemStore(), tx, h)
	require.NoError(t, err)
	assert.Equal(t, int64(10+signatureVerifyCost), res.GasAllocated)
}
