package sigs

import (
	"github.com/fymoney/weave"
	"github.com/fymoney/weave/errors"
	"github.com/fymoney/weave/orm"
	"golang.org/x/crypto/ed25519"
)

// BucketName is where we store the accounts
const BucketName = "sigs"

// UserData is the persistent state of a signer: its public key and the
// sequence expected for the next signature.
type UserData struct {
	Pubkey   ed25519.PublicKey
	Sequence int64
}

var _ orm.CloneableData = (*UserData)(nil)

func (u *UserData) Validate() error {
	if u.Sequence < 0 {
		return errors.Wrap(ErrInvalidSequence, "negative")
	}
	if len(u.Pubkey) != ed25519.PublicKeySize {
		return errors.Wrap(errors.ErrModel, "public key")
	}
	return nil
}

// Copy makes a new UserData with the same sequence
func (u *UserData) Copy() orm.CloneableData {
	return &UserData{
		Pubkey:   append(ed25519.PublicKey(nil), u.Pubkey...),
		Sequence: u.Sequence,
	}
}

// CheckAndIncrementSequence implements check and increment operation.
// If current sequence value is the same as given expected value then it is
// incremented. Otherwise an error is returned.
// Before incrementing the sequence, this function is testing for a value
// overflow.
func (u *UserData) CheckAndIncrementSequence(expected int64) error {
	if u.Sequence != expected {
		return errors.Wrapf(ErrInvalidSequence, "mismatch expected %d, got %d", expected, u.Sequence)
	}

	next := u.Sequence + 1

	// The greatest supported nonce value at client side is
	//   Number.MAX_SAFE_INTEGER = 9007199254740991 = 2^53 - 1
	const maxSequenceValue = (1 << 53) - 1
	if next <= 0 || next > maxSequenceValue {
		return errors.Wrap(errors.ErrOverflow, "sequence out of range")
	}
	u.Sequence = next
	return nil
}

func (u *UserData) Marshal() ([]byte, error) {
	w := weave.NewWireWriter()
	w.Bytes(1, u.Pubkey)
	w.Int64(2, u.Sequence)
	return w.Result()
}

func (u *UserData) Unmarshal(raw []byte) error {
	*u = UserData{}
	r := weave.NewWireReader(raw)
	for {
		ok, err := r.Next()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		switch r.Field() {
		case 1:
			b, err := r.Bytes()
			if err != nil {
				return err
			}
			u.Pubkey = b
		case 2:
			if u.Sequence, err = r.Int64(); err != nil {
				return err
			}
		}
	}
}

// Bucket is a type-safe wrapper around orm.Bucket storing UserData under
// the address of the signer condition.
type Bucket struct {
	orm.Bucket
}

// NewBucket creates the proper bucket for this extension
func NewBucket() Bucket {
	return Bucket{
		Bucket: orm.NewBucket(BucketName, orm.NewSimpleObj(nil, &UserData{})),
	}
}

// Get returns the user stored under given address or nil.
func (b Bucket) Get(db weave.ReadOnlyKVStore, addr weave.Address) (*UserData, error) {
	obj, err := b.Bucket.Get(db, addr)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, nil
	}
	u, ok := obj.Value().(*UserData)
	if !ok {
		return nil, errors.WithType(errors.ErrModel, obj.Value())
	}
	return u, nil
}

// GetOrCreate initializes a UserData if none exist for that key
func (b Bucket) GetOrCreate(db weave.ReadOnlyKVStore, pubkey ed25519.PublicKey) (*UserData, error) {
	u, err := b.Get(db, SigCondition(pubkey).Address())
	if err != nil {
		return nil, err
	}
	if u == nil {
		u = &UserData{Pubkey: pubkey}
	}
	return u, nil
}

// Save persists the user under the address of its public key.
func (b Bucket) Save(db weave.KVStore, u *UserData) error {
	return b.Bucket.Save(db, orm.NewSimpleObj(SigCondition(u.Pubkey).Address(), u))
}

// NextNonce returns the next numeric nonce value that should be used during a
// transaction signing.
func NextNonce(db weave.ReadOnlyKVStore, signer weave.Address) (int64, error) {
	u, err := NewBucket().Get(db, signer)
	if err != nil {
		return 0, errors.Wrap(err, "bucket get")
	}
	if u != nil {
		return u.Sequence, nil
	}
	// If not yet present, nonce counting starts with zero.
	return 0, nil
}
