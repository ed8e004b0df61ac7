package app

import (
	"context"
	"testing"

	"github.com/fymoney/weave"
	"github.com/fymoney/weave/errors"
	"github.com/fymoney/weave/weavetest"
	"github.com/fymoney/weave/weavetest/assert"
	"github.com/fymoney/weave/x/utils"
)

// panicAtHeight panics if the context height is above the limit.
type panicAtHeight int64

func (p panicAtHeight) Check(ctx weave.Context, store weave.KVStore, tx weave.Tx, next weave.Checker) (*weave.CheckResult, error) {
	if val, _ := weave.GetHeight(ctx); val > int64(p) {
		panic("too high")
	}
	return next.Check(ctx, store, tx)
}

func (p panicAtHeight) Deliver(ctx weave.Context, store weave.KVStore, tx weave.Tx, next weave.Deliverer) (*weave.DeliverResult, error) {
	if val, _ := weave.GetHeight(ctx); val > int64(p) {
		panic("too high")
	}
	return next.Deliver(ctx, store, tx)
}

func TestChain(t *testing.T) {
	c1 := &weavetest.Decorator{}
	c2 := &weavetest.Decorator{}
	c3 := &weavetest.Decorator{}
	h := &weavetest.Handler{}

	stack := ChainDecorators(
		c1,
		utils.NewLogging(),
		utils.NewRecovery(),
		c2,
		panicAtHeight(6),
		c3,
		nil,
	).WithHandler(h)

	bg := context.Background()
	tx := &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "escrow/create"}}

	// make some calls, make sure it is fine
	_, err := stack.Check(bg, nil, tx)
	assert.Nil(t, err)
	ctx := weave.WithHeight(bg, 4)
	_, err = stack.Deliver(ctx, nil, tx)
	assert.Nil(t, err)

	assert.Equal(t, 2, c1.CallCount())
	assert.Equal(t, 2, c2.CallCount())
	assert.Equal(t, 2, c3.CallCount())
	assert.Equal(t, 2, h.CallCount())

	// now, let's trigger a panic
	ctx = weave.WithHeight(bg, 8)
	_, err = stack.Check(ctx, nil, tx)
	assert.IsErr(t, errors.ErrPanic, err)
	_, err = stack.Deliver(ctx, nil, tx)
	assert.IsErr(t, errors.ErrPanic, err)

	assert.Equal(t, 4, c1.CallCount())
	assert.Equal(t, 4, c2.CallCount())
	// the panic stops the calls before c3
	assert.Equal(t, 2, c3.CallCount())
	assert.Equal(t, 2, h.CallCount())
}
