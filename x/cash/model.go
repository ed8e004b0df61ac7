package cash

import (
	"github.com/fymoney/weave"
	"github.com/fymoney/weave/coin"
	"github.com/fymoney/weave/errors"
	"github.com/fymoney/weave/orm"
)

// BucketName is where account balances are stored.
const BucketName = "cash"

// Balance is the amount of a single asset held by an account. It is
// serialized as a coin.
type Balance struct {
	coin.Coin
}

var _ orm.CloneableData = (*Balance)(nil)

// Copy returns an independent copy of the balance.
func (b *Balance) Copy() orm.CloneableData {
	return &Balance{Coin: *b.Coin.Clone()}
}

// AccountKey returns the key of an account. The same key is used by the
// "/wallets" query.
func AccountKey(owner, asset weave.Address) []byte {
	key := make([]byte, 0, len(owner)+len(asset))
	key = append(key, owner...)
	return append(key, asset...)
}

// Bucket is a type-safe wrapper around orm.Bucket storing the balance of
// every (owner, asset) account.
type Bucket struct {
	orm.Bucket
}

// NewBucket returns a bucket storing account balances.
func NewBucket() Bucket {
	return Bucket{
		Bucket: orm.NewBucket(BucketName, orm.NewSimpleObj(nil, &Balance{})),
	}
}

// Get returns the balance of an account or nil if the account does not
// exist.
func (b Bucket) Get(db weave.ReadOnlyKVStore, owner, asset weave.Address) (*coin.Coin, error) {
	obj, err := b.Bucket.Get(db, AccountKey(owner, asset))
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, nil
	}
	balance, ok := obj.Value().(*Balance)
	if !ok {
		return nil, errors.WithType(errors.ErrModel, obj.Value())
	}
	if !balance.Asset.Equals(asset) {
		return nil, errors.Wrapf(errors.ErrCurrency, "account %s holds unexpected asset", owner)
	}
	return &balance.Coin, nil
}

// Save writes the balance of an account.
func (b Bucket) Save(db weave.KVStore, owner weave.Address, balance coin.Coin) error {
	if err := owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	obj := orm.NewSimpleObj(AccountKey(owner, balance.Asset), &Balance{Coin: balance})
	return errors.Wrap(b.Bucket.Save(db, obj), "balance")
}

// Delete removes an account.
func (b Bucket) Delete(db weave.KVStore, owner, asset weave.Address) error {
	return b.Bucket.Delete(db, AccountKey(owner, asset))
}
