package escrow

import (
	"context"
	"crypto/sha256"
	"testing"
	"time"

	"github.com/fymoney/weave"
	"github.com/fymoney/weave/coin"
	"github.com/fymoney/weave/store"
	"github.com/fymoney/weave/weavetest"
	"github.com/fymoney/weave/weavetest/assert"
	"github.com/fymoney/weave/x/cash"
)

// identifierHash returns the recipient hash of an off chain identifier,
// for example an email address.
func identifierHash(identifier string) []byte {
	h := sha256.Sum256([]byte(identifier))
	return h[:]
}

var fym = coin.AssetID("FYM")

type fixture struct {
	db     weave.CacheableKVStore
	cash   cash.BaseController
	ctrl   *Controller
	sender weave.Condition
	now    time.Time
}

// newFixture returns a fresh state with the sender holding 5000 FYM.
func newFixture(t testing.TB) *fixture {
	t.Helper()
	f := &fixture{
		db:     store.MemStore(),
		cash:   cash.NewController(cash.NewBucket()),
		sender: weavetest.NewCondition(),
		now:    time.Unix(1560000000, 0),
	}
	f.ctrl = NewController(f.cash, NewBucket())
	assert.Nil(t, f.cash.Mint(f.db, f.sender.Address(), coin.NewCoin(5000, "FYM")))
	return f
}

// ctx returns a context with the block time shifted by d from the fixture
// time.
func (f *fixture) ctx(d time.Duration) weave.Context {
	return weave.WithBlockTime(context.Background(), f.now.Add(d))
}

func (f *fixture) auth() *weavetest.Auth {
	return &weavetest.Auth{Signer: f.sender}
}

func (f *fixture) expiresIn(d time.Duration) weave.UnixTime {
	return weave.AsUnixTime(f.now.Add(d))
}

func (f *fixture) balance(t testing.TB, addr weave.Address) uint64 {
	t.Helper()
	c, err := f.cash.Balance(f.db, addr, fym)
	assert.Nil(t, err)
	return c.Amount
}

// create opens an escrow that must succeed.
func (f *fixture) create(t testing.TB, hash []byte, amount uint64, d time.Duration) *Escrow {
	t.Helper()
	e, err := f.ctrl.CreateEscrow(f.ctx(0), f.db, f.auth(), f.sender.Address(), hash, coin.NewCoin(amount, "FYM"), f.expiresIn(d))
	assert.Nil(t, err)
	return e
}
