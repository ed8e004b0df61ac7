package escrow

import (
	"github.com/agl/ed25519/edwards25519"
	"github.com/fymoney/weave"
	"github.com/fymoney/weave/errors"
)

const (
	// DomainTag separates custody conditions from any other condition.
	DomainTag = "escrow"

	custodyType = "pda"
)

// Capability is the authority over a custody account. It is computed from
// public inputs and the stored nonce, there is no secret. Only code that
// places a capability in the context (see withCapability) can move funds
// out of a custody account.
type Capability struct {
	// Domain separates the conditions of different extensions. Escrow
	// custody always uses DomainTag.
	Domain        string
	Sender        weave.Address
	RecipientHash []byte
	Nonce         uint8
}

// Condition returns the condition the custody address is derived from.
func (c Capability) Condition() weave.Condition {
	seed := make([]byte, 0, len(c.Sender)+len(c.RecipientHash)+1)
	seed = append(seed, c.Sender...)
	seed = append(seed, c.RecipientHash...)
	seed = append(seed, c.Nonce)
	return weave.NewCondition(c.Domain, custodyType, seed)
}

// Address returns the custody account address.
func (c Capability) Address() weave.Address {
	return c.Condition().Address()
}

// DeriveCustody computes the custody capability of an escrow. The nonce is
// searched from 255 downward and the first address that is not a valid
// ed25519 public key is accepted, so that no private key can ever control
// a custody account. The result is deterministic.
func DeriveCustody(sender weave.Address, recipientHash []byte) (Capability, error) {
	if err := sender.Validate(); err != nil {
		return Capability{}, errors.Wrap(err, "sender")
	}
	if len(recipientHash) != HashLength {
		return Capability{}, errors.Wrapf(errors.ErrInput, "recipient hash must be %d bytes", HashLength)
	}
	for n := 255; n >= 0; n-- {
		c := Capability{
			Domain:        DomainTag,
			Sender:        sender,
			RecipientHash: recipientHash,
			Nonce:         uint8(n),
		}
		if !onCurve(c.Address()) {
			return c, nil
		}
	}
	return Capability{}, errors.Wrap(errors.ErrHuman, "no custody address off the curve")
}

// onCurve returns true if given 32 bytes decode to a point of the ed25519
// curve.
func onCurve(addr weave.Address) bool {
	var (
		enc [32]byte
		p   edwards25519.ExtendedGroupElement
	)
	copy(enc[:], addr)
	return p.FromBytes(&enc)
}
