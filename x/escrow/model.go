package escrow

import (
	"encoding/binary"
	"fmt"

	"github.com/fymoney/weave"
	"github.com/fymoney/weave/errors"
	"github.com/fymoney/weave/orm"
)

const (
	// HashLength is the size of the recipient identifier hash.
	HashLength = 32

	// MaxEscrowDuration is the longest time an escrow may stay active.
	MaxEscrowDuration = 30 * 24 * 60 * 60 // seconds

	// schemaVersion is written in front of every serialized escrow.
	schemaVersion = 1

	// recordSize is the size of the fixed layout following the version.
	recordSize = weave.AddressLength + // sender
		HashLength + // recipient hash
		1 + weave.AddressLength + // recipient presence and address
		weave.AddressLength + // asset
		weave.AddressLength + // custody
		8 + // amount
		8 + // created at
		8 + // expires at
		1 + // status
		1 // derivation nonce
)

// Status of an escrow. Only an active escrow can transition.
type Status uint8

const (
	StatusActive Status = iota
	StatusClaimed
	StatusExpired
)

func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusClaimed:
		return "claimed"
	case StatusExpired:
		return "expired"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(s))
	}
}

// Terminal returns true if no transition is allowed out of this status.
func (s Status) Terminal() bool {
	return s == StatusClaimed || s == StatusExpired
}

// Escrow is the persisted state of a single escrow. Sender and
// RecipientHash form the key and never change.
type Escrow struct {
	Sender        weave.Address
	RecipientHash []byte
	// Recipient is nil until the escrow is claimed. Once set it never
	// changes.
	Recipient weave.Address
	Asset     weave.Address
	Custody   weave.Address
	Amount    uint64
	CreatedAt weave.UnixTime
	ExpiresAt weave.UnixTime
	Status    Status
	// Nonce reproduces the custody capability, see DeriveCustody.
	Nonce uint8
}

// Key returns the bucket key of this escrow.
func (e *Escrow) Key() []byte {
	return Key(e.Sender, e.RecipientHash)
}

// Key returns the bucket key of the escrow created by sender for the
// recipient hash.
func Key(sender weave.Address, recipientHash []byte) []byte {
	key := make([]byte, 0, len(sender)+len(recipientHash))
	key = append(key, sender...)
	return append(key, recipientHash...)
}

// Capability returns the authorization that moves funds out of the
// custody account.
func (e *Escrow) Capability() Capability {
	return Capability{
		Domain:        DomainTag,
		Sender:        e.Sender,
		RecipientHash: e.RecipientHash,
		Nonce:         e.Nonce,
	}
}

// Validate ensures the escrow is valid
func (e *Escrow) Validate() error {
	if err := e.Sender.Validate(); err != nil {
		return errors.Wrap(err, "sender")
	}
	if len(e.RecipientHash) != HashLength {
		return errors.Wrapf(errors.ErrModel, "recipient hash must be %d bytes", HashLength)
	}
	if e.Recipient != nil {
		if err := e.Recipient.Validate(); err != nil {
			return errors.Wrap(err, "recipient")
		}
	}
	if err := e.Asset.Validate(); err != nil {
		return errors.Wrap(err, "asset")
	}
	if err := e.Custody.Validate(); err != nil {
		return errors.Wrap(err, "custody")
	}
	if e.Amount == 0 {
		return errors.Wrap(ErrInvalidAmount, "amount")
	}
	if e.ExpiresAt <= e.CreatedAt {
		return errors.Wrap(ErrInvalidExpiration, "expires before creation")
	}
	if uint64(e.ExpiresAt)-uint64(e.CreatedAt) > MaxEscrowDuration {
		return errors.Wrap(ErrExpirationTooLong, "expiration")
	}
	switch e.Status {
	case StatusActive, StatusExpired:
	case StatusClaimed:
		if e.Recipient == nil {
			return errors.Wrap(errors.ErrModel, "claimed escrow without recipient")
		}
	default:
		return errors.Wrapf(errors.ErrModel, "status %s", e.Status)
	}
	return nil
}

var _ orm.CloneableData = (*Escrow)(nil)

// Copy returns an independent copy of the escrow.
func (e *Escrow) Copy() orm.CloneableData {
	cpy := *e
	cpy.Sender = e.Sender.Clone()
	cpy.RecipientHash = append([]byte(nil), e.RecipientHash...)
	cpy.Recipient = e.Recipient.Clone()
	cpy.Asset = e.Asset.Clone()
	cpy.Custody = e.Custody.Clone()
	return &cpy
}

// Marshal serializes the escrow into its fixed size layout, preceded by
// the schema version.
func (e *Escrow) Marshal() ([]byte, error) {
	if len(e.Sender) != weave.AddressLength ||
		len(e.RecipientHash) != HashLength ||
		len(e.Asset) != weave.AddressLength ||
		len(e.Custody) != weave.AddressLength ||
		(e.Recipient != nil && len(e.Recipient) != weave.AddressLength) {
		return nil, errors.Wrap(errors.ErrModel, "field size does not fit the layout")
	}

	raw := make([]byte, 0, 1+recordSize)
	raw = append(raw, schemaVersion)
	raw = append(raw, e.Sender...)
	raw = append(raw, e.RecipientHash...)
	if e.Recipient == nil {
		raw = append(raw, 0)
		raw = append(raw, make([]byte, weave.AddressLength)...)
	} else {
		raw = append(raw, 1)
		raw = append(raw, e.Recipient...)
	}
	raw = append(raw, e.Asset...)
	raw = append(raw, e.Custody...)
	raw = appendUint64(raw, e.Amount)
	raw = appendUint64(raw, uint64(e.CreatedAt))
	raw = appendUint64(raw, uint64(e.ExpiresAt))
	raw = append(raw, byte(e.Status), e.Nonce)
	return raw, nil
}

func appendUint64(b []byte, v uint64) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	return append(b, buf[:]...)
}

// Unmarshal loads the escrow from its serialized form.
func (e *Escrow) Unmarshal(raw []byte) error {
	if len(raw) == 0 {
		return errors.Wrap(errors.ErrSchema, "empty")
	}
	if raw[0] != schemaVersion {
		return errors.Wrapf(errors.ErrSchema, "unsupported version %d", raw[0])
	}
	raw = raw[1:]
	if len(raw) != recordSize {
		return errors.Wrapf(errors.ErrModel, "want %d bytes, got %d", recordSize, len(raw))
	}

	take := func(n int) []byte {
		b := append([]byte(nil), raw[:n]...)
		raw = raw[n:]
		return b
	}

	*e = Escrow{}
	e.Sender = take(weave.AddressLength)
	e.RecipientHash = take(HashLength)
	present := take(1)[0]
	recipient := take(weave.AddressLength)
	switch present {
	case 0:
	case 1:
		e.Recipient = recipient
	default:
		return errors.Wrapf(errors.ErrModel, "recipient presence flag %d", present)
	}
	e.Asset = take(weave.AddressLength)
	e.Custody = take(weave.AddressLength)
	e.Amount = binary.BigEndian.Uint64(take(8))
	e.CreatedAt = weave.UnixTime(binary.BigEndian.Uint64(take(8)))
	e.ExpiresAt = weave.UnixTime(binary.BigEndian.Uint64(take(8)))
	e.Status = Status(take(1)[0])
	e.Nonce = take(1)[0]
	return nil
}
