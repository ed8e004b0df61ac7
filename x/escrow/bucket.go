package escrow

import (
	"github.com/fymoney/weave"
	"github.com/fymoney/weave/errors"
	"github.com/fymoney/weave/orm"
)

const bucketName = "esc"

// Bucket is a type-safe wrapper around orm.Bucket storing escrows. There
// is one record per sender and recipient hash pair, keyed by Key.
type Bucket struct {
	orm.Bucket
}

// NewBucket returns the escrow record store.
func NewBucket() Bucket {
	return Bucket{
		Bucket: orm.NewBucket(bucketName, orm.NewSimpleObj(nil, &Escrow{})),
	}
}

// Get returns the escrow created by sender for the recipient hash.
// ErrNotFound is returned if there is none.
func (b Bucket) Get(db weave.ReadOnlyKVStore, sender weave.Address, recipientHash []byte) (*Escrow, error) {
	obj, err := b.Bucket.Get(db, Key(sender, recipientHash))
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, errors.Wrap(errors.ErrNotFound, "escrow")
	}
	return asEscrow(obj)
}

func asEscrow(obj orm.Object) (*Escrow, error) {
	e, ok := obj.Value().(*Escrow)
	if !ok {
		return nil, errors.WithType(errors.ErrModel, obj.Value())
	}
	return e, nil
}

// Create inserts a new escrow. It fails with ErrAlreadyExists if an escrow
// with the same key is present.
func (b Bucket) Create(db weave.KVStore, e *Escrow) error {
	exists, err := b.Has(db, e.Key())
	if err != nil {
		return err
	}
	if exists {
		return errors.Wrap(ErrAlreadyExists, "escrow")
	}
	return b.Save(db, orm.NewSimpleObj(e.Key(), e))
}

// Update replaces a stored escrow if its current status is the expected
// one. This is a compare and swap on the status: an escrow that was
// changed since it was read is rejected with ErrEscrowNotActive (or
// ErrNotFound if it is gone). Only the status and a not yet bound
// recipient may change.
func (b Bucket) Update(db weave.KVStore, expected Status, e *Escrow) error {
	stored, err := b.Get(db, e.Sender, e.RecipientHash)
	if err != nil {
		return err
	}
	if stored.Status != expected {
		return errors.Wrapf(ErrEscrowNotActive, "status is %s, expected %s", stored.Status, expected)
	}
	if stored.Status.Terminal() && stored.Status != e.Status {
		return errors.Wrapf(errors.ErrImmutable, "status %s is terminal", stored.Status)
	}
	if stored.Recipient != nil && !stored.Recipient.Equals(e.Recipient) {
		return errors.Wrap(errors.ErrImmutable, "recipient already bound")
	}
	if !stored.Asset.Equals(e.Asset) ||
		!stored.Custody.Equals(e.Custody) ||
		stored.Amount != e.Amount ||
		stored.CreatedAt != e.CreatedAt ||
		stored.ExpiresAt != e.ExpiresAt ||
		stored.Nonce != e.Nonce {
		return errors.Wrap(errors.ErrImmutable, "escrow terms cannot change")
	}
	return b.Save(db, orm.NewSimpleObj(e.Key(), e))
}

// BySender returns all escrows created by sender, ordered by recipient
// hash.
func (b Bucket) BySender(db weave.ReadOnlyKVStore, sender weave.Address) ([]*Escrow, error) {
	if err := sender.Validate(); err != nil {
		return nil, errors.Wrap(err, "sender")
	}
	return b.scan(db, sender)
}

// All returns every stored escrow.
func (b Bucket) All(db weave.ReadOnlyKVStore) ([]*Escrow, error) {
	return b.scan(db, nil)
}

func (b Bucket) scan(db weave.ReadOnlyKVStore, prefix []byte) ([]*Escrow, error) {
	objs, err := b.PrefixScan(db, prefix)
	if err != nil {
		return nil, err
	}
	res := make([]*Escrow, 0, len(objs))
	for _, obj := range objs {
		e, err := asEscrow(obj)
		if err != nil {
			return nil, err
		}
		res = append(res, e)
	}
	return res, nil
}
