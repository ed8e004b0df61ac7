package escrow

import (
	"github.com/fymoney/weave"
	"github.com/fymoney/weave/coin"
	"github.com/fymoney/weave/errors"
)

var _ weave.Msg = (*CreateMsg)(nil)
var _ weave.Msg = (*ClaimMsg)(nil)
var _ weave.Msg = (*ReclaimMsg)(nil)

const (
	pathCreateMsg  = "escrow/create"
	pathClaimMsg   = "escrow/claim"
	pathReclaimMsg = "escrow/reclaim"
)

// CreateMsg locks Amount in a new escrow for the recipient identified by
// RecipientHash. The sender must sign the transaction.
type CreateMsg struct {
	Sender        weave.Address
	RecipientHash []byte
	Amount        coin.Coin
	ExpiresAt     weave.UnixTime
}

// Path returns the routing path for this message.
func (CreateMsg) Path() string {
	return pathCreateMsg
}

// Validate makes sure that this is sensible.
func (m *CreateMsg) Validate() error {
	if err := m.Sender.Validate(); err != nil {
		return errors.Wrap(err, "sender")
	}
	if err := validateHash(m.RecipientHash); err != nil {
		return err
	}
	if m.Amount.IsZero() {
		return errors.Wrap(ErrInvalidAmount, "amount")
	}
	if err := m.Amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	if m.ExpiresAt == 0 {
		return errors.Wrap(ErrInvalidExpiration, "expiration is required")
	}
	return nil
}

func validateHash(h []byte) error {
	if len(h) != HashLength {
		return errors.Wrapf(errors.ErrInput, "recipient hash must be %d bytes", HashLength)
	}
	return nil
}

func (m *CreateMsg) Marshal() ([]byte, error) {
	w := weave.NewWireWriter()
	w.Bytes(1, m.Sender)
	w.Bytes(2, m.RecipientHash)
	w.Message(3, &m.Amount)
	w.Int64(4, int64(m.ExpiresAt))
	return w.Result()
}

func (m *CreateMsg) Unmarshal(raw []byte) error {
	*m = CreateMsg{}
	return readFields(raw, func(r *weave.WireReader) error {
		switch r.Field() {
		case 1:
			b, err := r.Bytes()
			m.Sender = b
			return err
		case 2:
			b, err := r.Bytes()
			m.RecipientHash = b
			return err
		case 3:
			return r.Message(&m.Amount)
		case 4:
			v, err := r.Int64()
			m.ExpiresAt = weave.UnixTime(v)
			return err
		}
		return nil
	})
}

// ClaimMsg releases the escrow funds to Claimant. The claimant must sign
// the transaction.
type ClaimMsg struct {
	Sender        weave.Address
	RecipientHash []byte
	Claimant      weave.Address
}

// Path returns the routing path for this message.
func (ClaimMsg) Path() string {
	return pathClaimMsg
}

// Validate makes sure that this is sensible.
func (m *ClaimMsg) Validate() error {
	if err := m.Sender.Validate(); err != nil {
		return errors.Wrap(err, "sender")
	}
	if err := validateHash(m.RecipientHash); err != nil {
		return err
	}
	if err := m.Claimant.Validate(); err != nil {
		return errors.Wrap(err, "claimant")
	}
	return nil
}

func (m *ClaimMsg) Marshal() ([]byte, error) {
	w := weave.NewWireWriter()
	w.Bytes(1, m.Sender)
	w.Bytes(2, m.RecipientHash)
	w.Bytes(3, m.Claimant)
	return w.Result()
}

func (m *ClaimMsg) Unmarshal(raw []byte) error {
	*m = ClaimMsg{}
	return readFields(raw, func(r *weave.WireReader) error {
		var err error
		var b []byte
		switch r.Field() {
		case 1:
			b, err = r.Bytes()
			m.Sender = b
		case 2:
			m.RecipientHash, err = r.Bytes()
		case 3:
			b, err = r.Bytes()
			m.Claimant = b
		}
		return err
	})
}

// ReclaimMsg returns the funds of an expired escrow to its sender. Caller
// must sign the transaction and must be the sender.
type ReclaimMsg struct {
	Sender        weave.Address
	RecipientHash []byte
	Caller        weave.Address
}

// Path returns the routing path for this message.
func (ReclaimMsg) Path() string {
	return pathReclaimMsg
}

// Validate makes sure that this is sensible.
func (m *ReclaimMsg) Validate() error {
	if err := m.Sender.Validate(); err != nil {
		return errors.Wrap(err, "sender")
	}
	if err := validateHash(m.RecipientHash); err != nil {
		return err
	}
	if err := m.Caller.Validate(); err != nil {
		return errors.Wrap(err, "caller")
	}
	return nil
}

func (m *ReclaimMsg) Marshal() ([]byte, error) {
	w := weave.NewWireWriter()
	w.Bytes(1, m.Sender)
	w.Bytes(2, m.RecipientHash)
	w.Bytes(3, m.Caller)
	return w.Result()
}

func (m *ReclaimMsg) Unmarshal(raw []byte) error {
	*m = ReclaimMsg{}
	return readFields(raw, func(r *weave.WireReader) error {
		var err error
		var b []byte
		switch r.Field() {
		case 1:
			b, err = r.Bytes()
			m.Sender = b
		case 2:
			m.RecipientHash, err = r.Bytes()
		case 3:
			b, err = r.Bytes()
			m.Caller = b
		}
		return err
	})
}

// readFields calls fn for every field of a serialized message.
func readFields(raw []byte, fn func(*weave.WireReader) error) error {
	r := weave.NewWireReader(raw)
	for {
		ok, err := r.Next()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if err := fn(r); err != nil {
			return errors.Wrapf(err, "field %d", r.Field())
		}
	}
}
