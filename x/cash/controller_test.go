package cash

import (
	"context"
	"math"
	"testing"

	"github.com/fymoney/weave"
	"github.com/fymoney/weave/coin"
	"github.com/fymoney/weave/errors"
	"github.com/fymoney/weave/store"
	"github.com/fymoney/weave/weavetest"
	"github.com/fymoney/weave/weavetest/assert"
)

func TestTransfer(t *testing.T) {
	alice := weavetest.NewCondition()
	bob := weavetest.NewCondition()
	fym := coin.AssetID("FYM")

	cases := map[string]struct {
		auth        *weavetest.Auth
		from, to    weave.Address
		amount      coin.Coin
		wantErr     *errors.Error
		wantAlice   uint64
		wantBob     uint64
		wantSkipBob bool
	}{
		"success": {
			auth:      &weavetest.Auth{Signer: alice},
			from:      alice.Address(),
			to:        bob.Address(),
			amount:    coin.NewCoin(300, "FYM"),
			wantAlice: 700,
			wantBob:   300,
		},
		"all of it": {
			auth:      &weavetest.Auth{Signer: alice},
			from:      alice.Address(),
			to:        bob.Address(),
			amount:    coin.NewCoin(1000, "FYM"),
			wantAlice: 0,
			wantBob:   1000,
		},
		"not authorized": {
			auth:      &weavetest.Auth{Signer: bob},
			from:      alice.Address(),
			to:        bob.Address(),
			amount:    coin.NewCoin(300, "FYM"),
			wantErr:   errors.ErrUnauthorized,
			wantAlice: 1000,
		},
		"insufficient funds": {
			auth:      &weavetest.Auth{Signer: alice},
			from:      alice.Address(),
			to:        bob.Address(),
			amount:    coin.NewCoin(1001, "FYM"),
			wantErr:   ErrInsufficientFunds,
			wantAlice: 1000,
		},
		"empty source account": {
			auth:      &weavetest.Auth{Signer: bob},
			from:      bob.Address(),
			to:        alice.Address(),
			amount:    coin.NewCoin(1, "FYM"),
			wantErr:   ErrInsufficientFunds,
			wantAlice: 1000,
		},
		"other asset": {
			auth:      &weavetest.Auth{Signer: alice},
			from:      alice.Address(),
			to:        bob.Address(),
			amount:    coin.NewCoin(1, "USD"),
			wantErr:   ErrInsufficientFunds,
			wantAlice: 1000,
		},
		"zero amount": {
			auth:      &weavetest.Auth{Signer: alice},
			from:      alice.Address(),
			to:        bob.Address(),
			amount:    coin.NewCoin(0, "FYM"),
			wantErr:   errors.ErrAmount,
			wantAlice: 1000,
		},
		"to self": {
			auth:        &weavetest.Auth{Signer: alice},
			from:        alice.Address(),
			to:          alice.Address(),
			amount:      coin.NewCoin(10, "FYM"),
			wantAlice:   1000,
			wantSkipBob: true,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			ctrl := NewController(NewBucket())
			assert.Nil(t, ctrl.Mint(db, alice.Address(), coin.NewCoin(1000, "FYM")))

			err := ctrl.Transfer(context.Background(), db, tc.auth, tc.from, tc.to, tc.amount)
			assert.IsErr(t, tc.wantErr, err)

			got, err := ctrl.Balance(db, alice.Address(), fym)
			assert.Nil(t, err)
			assert.Equal(t, tc.wantAlice, got.Amount)

			if tc.wantSkipBob {
				return
			}
			got, err = ctrl.Balance(db, bob.Address(), fym)
			assert.Nil(t, err)
			assert.Equal(t, tc.wantBob, got.Amount)
		})
	}
}

func TestTransferOverflow(t *testing.T) {
	alice := weavetest.NewCondition()
	bob := weavetest.NewCondition()
	db := store.MemStore()
	ctrl := NewController(NewBucket())
	assert.Nil(t, ctrl.Mint(db, alice.Address(), coin.NewCoin(10, "FYM")))
	assert.Nil(t, ctrl.Mint(db, bob.Address(), coin.NewCoin(math.MaxUint64, "FYM")))

	auth := &weavetest.Auth{Signer: alice}
	err := ctrl.Transfer(context.Background(), db, auth, alice.Address(), bob.Address(), coin.NewCoin(1, "FYM"))
	assert.IsErr(t, errors.ErrOverflow, err)

	// Nothing was moved.
	got, err := ctrl.Balance(db, alice.Address(), coin.AssetID("FYM"))
	assert.Nil(t, err)
	assert.Equal(t, uint64(10), got.Amount)
}

func TestOpenCloseAccount(t *testing.T) {
	owner := weavetest.RandomAddr(t)
	other := weavetest.NewCondition()
	fym := coin.AssetID("FYM")
	db := store.MemStore()
	ctrl := NewController(NewBucket())

	assert.Nil(t, ctrl.OpenAccount(db, owner, fym))
	assert.IsErr(t, errors.ErrDuplicate, ctrl.OpenAccount(db, owner, fym))

	assert.Nil(t, ctrl.Mint(db, other.Address(), coin.NewCoin(5, "FYM")))
	auth := &weavetest.Auth{Signer: other}
	assert.Nil(t, ctrl.Transfer(context.Background(), db, auth, other.Address(), owner, coin.NewCoin(5, "FYM")))
	assert.IsErr(t, ErrAccountNotEmpty, ctrl.CloseAccount(db, owner, fym))

	assert.IsErr(t, errors.ErrUnauthorized, ctrl.Transfer(context.Background(), db, auth, owner, other.Address(), coin.NewCoin(5, "FYM")))

	// The owner address has no known condition, authorize it directly.
	assert.Nil(t, ctrl.Transfer(context.Background(), db, addrAuth(owner), owner, other.Address(), coin.NewCoin(5, "FYM")))
	assert.Nil(t, ctrl.CloseAccount(db, owner, fym))
	assert.IsErr(t, errors.ErrNotFound, ctrl.CloseAccount(db, owner, fym))

	got, err := ctrl.Balance(db, owner, fym)
	assert.Nil(t, err)
	assert.Equal(t, uint64(0), got.Amount)
}

// addrAuth authorizes a single address that has no condition known to the
// test.
type addrAuth weave.Address

func (a addrAuth) GetConditions(weave.Context) []weave.Condition {
	return nil
}

func (a addrAuth) HasAddress(_ weave.Context, addr weave.Address) bool {
	return weave.Address(a).Equals(addr)
}

func TestWalletsQuery(t *testing.T) {
	alice := weavetest.RandomAddr(t)
	bob := weavetest.RandomAddr(t)
	db := store.MemStore()
	ctrl := NewController(NewBucket())
	assert.Nil(t, ctrl.Mint(db, alice, coin.NewCoin(1, "FYM")))
	assert.Nil(t, ctrl.Mint(db, alice, coin.NewCoin(2, "USD")))
	assert.Nil(t, ctrl.Mint(db, bob, coin.NewCoin(3, "FYM")))

	qr := weave.NewQueryRouter()
	RegisterQuery(qr)
	h := qr.Handler("/wallets")
	if h == nil {
		t.Fatal("wallets query not registered")
	}

	models, err := h.Query(db, weave.KeyQueryMod, AccountKey(bob, coin.AssetID("FYM")))
	assert.Nil(t, err)
	assert.Equal(t, 1, len(models))
	var c coin.Coin
	assert.Nil(t, c.Unmarshal(models[0].Value))
	assert.Equal(t, uint64(3), c.Amount)

	models, err = h.Query(db, weave.PrefixQueryMod, alice)
	assert.Nil(t, err)
	assert.Equal(t, 2, len(models))

	models, err = h.Query(db, weave.KeyQueryMod, AccountKey(bob, coin.AssetID("USD")))
	assert.Nil(t, err)
	assert.Equal(t, 0, len(models))
}
