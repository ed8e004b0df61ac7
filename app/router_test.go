package app

import (
	"context"
	"testing"

	"github.com/fymoney/weave/errors"
	"github.com/fymoney/weave/store"
	"github.com/fymoney/weave/weavetest"
	"github.com/fymoney/weave/weavetest/assert"
)

func TestRouter(t *testing.T) {
	r := NewRouter()

	good := &weavetest.Handler{}
	bad := &weavetest.Handler{DeliverErr: errors.ErrHuman}
	r.Handle(&weavetest.Msg{RoutePath: "escrow/good"}, good)
	r.Handle(&weavetest.Msg{RoutePath: "escrow/bad"}, bad)

	// make sure invalid registrations panic
	assert.Panics(t, func() { r.Handle(&weavetest.Msg{RoutePath: "escrow/good"}, good) })
	assert.Panics(t, func() { r.Handle(&weavetest.Msg{RoutePath: "l:7"}, good) })

	ctx := context.Background()
	db := store.MemStore()
	tx := func(path string) *weavetest.Tx {
		return &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: path}}
	}

	_, err := r.Check(ctx, db, tx("escrow/good"))
	assert.Nil(t, err)
	_, err = r.Deliver(ctx, db, tx("escrow/good"))
	assert.Nil(t, err)
	assert.Equal(t, 2, good.CallCount())

	_, err = r.Deliver(ctx, db, tx("escrow/bad"))
	assert.IsErr(t, errors.ErrHuman, err)
	assert.Equal(t, 1, bad.CallCount())

	_, err = r.Deliver(ctx, db, tx("escrow/missing"))
	assert.IsErr(t, errors.ErrNotFound, err)
	_, err = r.Check(ctx, db, tx("escrow/missing"))
	assert.IsErr(t, errors.ErrNotFound, err)

	_, err = r.Check(ctx, db, &weavetest.Tx{Err: errors.ErrInput})
	assert.IsErr(t, errors.ErrInput, err)

	assert.Equal(t, 2, good.CallCount())
}
