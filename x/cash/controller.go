package cash

import (
	"github.com/fymoney/weave"
	"github.com/fymoney/weave/coin"
	"github.com/fymoney/weave/errors"
	"github.com/fymoney/weave/x"
)

// Controller is the asset transfer primitive. Other extensions use it to
// move funds between accounts.
type Controller interface {
	// Balance returns the amount held by an account. A missing account
	// holds nothing.
	Balance(db weave.ReadOnlyKVStore, owner, asset weave.Address) (coin.Coin, error)

	// Transfer moves the amount from one account to another. The source
	// address must be authorized by given authenticator.
	Transfer(ctx weave.Context, db weave.KVStore, auth x.Authenticator, from, to weave.Address, amount coin.Coin) error

	// OpenAccount creates an empty account. It fails if the account
	// already exists.
	OpenAccount(db weave.KVStore, owner, asset weave.Address) error

	// CloseAccount removes an empty account.
	CloseAccount(db weave.KVStore, owner, asset weave.Address) error

	// Mint credits an account with newly issued value.
	Mint(db weave.KVStore, to weave.Address, amount coin.Coin) error
}

// BaseController is the default Controller implementation.
type BaseController struct {
	bucket Bucket
}

var _ Controller = BaseController{}

// NewController returns a controller using given bucket to store the
// balances.
func NewController(bucket Bucket) BaseController {
	return BaseController{bucket: bucket}
}

func (c BaseController) Balance(db weave.ReadOnlyKVStore, owner, asset weave.Address) (coin.Coin, error) {
	balance, err := c.bucket.Get(db, owner, asset)
	if err != nil {
		return coin.Coin{}, err
	}
	if balance == nil {
		return coin.Coin{Asset: asset}, nil
	}
	return *balance, nil
}

func (c BaseController) Transfer(ctx weave.Context, db weave.KVStore, auth x.Authenticator, from, to weave.Address, amount coin.Coin) error {
	if !amount.IsPositive() {
		return errors.Wrap(errors.ErrAmount, "non positive transfer")
	}
	if err := amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	if err := to.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	if !auth.HasAddress(ctx, from) {
		return errors.Wrapf(errors.ErrUnauthorized, "transfer from %s", from)
	}

	src, err := c.bucket.Get(db, from, amount.Asset)
	if err != nil {
		return err
	}
	if src == nil {
		return errors.Wrapf(ErrInsufficientFunds, "empty account %s", from)
	}
	remaining, err := src.Subtract(amount)
	if err != nil {
		return errors.Wrapf(ErrInsufficientFunds, "have %d, need %d", src.Amount, amount.Amount)
	}
	if from.Equals(to) {
		return nil
	}

	dest, err := c.Balance(db, to, amount.Asset)
	if err != nil {
		return err
	}
	total, err := dest.Add(amount)
	if err != nil {
		return errors.Wrap(err, "destination")
	}

	if err := c.bucket.Save(db, from, remaining); err != nil {
		return errors.Wrap(err, "save source")
	}
	if err := c.bucket.Save(db, to, total); err != nil {
		return errors.Wrap(err, "save destination")
	}
	return nil
}

func (c BaseController) OpenAccount(db weave.KVStore, owner, asset weave.Address) error {
	existing, err := c.bucket.Get(db, owner, asset)
	if err != nil {
		return err
	}
	if existing != nil {
		return errors.Wrapf(errors.ErrDuplicate, "account %s", owner)
	}
	return c.bucket.Save(db, owner, coin.Coin{Asset: asset})
}

func (c BaseController) CloseAccount(db weave.KVStore, owner, asset weave.Address) error {
	existing, err := c.bucket.Get(db, owner, asset)
	if err != nil {
		return err
	}
	if existing == nil {
		return errors.Wrapf(errors.ErrNotFound, "account %s", owner)
	}
	if !existing.IsZero() {
		return errors.Wrapf(ErrAccountNotEmpty, "account %s holds %d", owner, existing.Amount)
	}
	return c.bucket.Delete(db, owner, asset)
}

func (c BaseController) Mint(db weave.KVStore, to weave.Address, amount coin.Coin) error {
	if err := amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	balance, err := c.Balance(db, to, amount.Asset)
	if err != nil {
		return err
	}
	total, err := balance.Add(amount)
	if err != nil {
		return err
	}
	return c.bucket.Save(db, to, total)
}
