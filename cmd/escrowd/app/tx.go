package app

import (
	"github.com/fymoney/weave"
	"github.com/fymoney/weave/errors"
	"github.com/fymoney/weave/x/cash"
	"github.com/fymoney/weave/x/escrow"
	"github.com/fymoney/weave/x/sigs"
)

// Tx is the only transaction type of the escrow node. Exactly one of the
// message fields must be set.
type Tx struct {
	Signatures []*sigs.StdSignature
	SendMsg    *cash.SendMsg
	CreateMsg  *escrow.CreateMsg
	ClaimMsg   *escrow.ClaimMsg
	ReclaimMsg *escrow.ReclaimMsg
}

// make sure tx fulfills all interfaces
var _ weave.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

// TxDecoder creates a Tx and unmarshals bytes into it
func TxDecoder(bz []byte) (weave.Tx, error) {
	tx := new(Tx)
	if err := tx.Unmarshal(bz); err != nil {
		return nil, err
	}
	return tx, nil
}

// GetMsg returns the single message carried by the transaction.
func (tx *Tx) GetMsg() (weave.Msg, error) {
	var msgs []weave.Msg
	if tx.SendMsg != nil {
		msgs = append(msgs, tx.SendMsg)
	}
	if tx.CreateMsg != nil {
		msgs = append(msgs, tx.CreateMsg)
	}
	if tx.ClaimMsg != nil {
		msgs = append(msgs, tx.ClaimMsg)
	}
	if tx.ReclaimMsg != nil {
		msgs = append(msgs, tx.ReclaimMsg)
	}
	switch len(msgs) {
	case 0:
		return nil, errors.Wrap(errors.ErrInput, "no message")
	case 1:
		return msgs[0], nil
	default:
		return nil, errors.Wrapf(errors.ErrInput, "%d messages in one transaction", len(msgs))
	}
}

// GetSignatures returns the signatures of the transaction.
func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// GetSignBytes returns the bytes to sign...
func (tx *Tx) GetSignBytes() ([]byte, error) {
	// the sign bytes only come from the data itself, not previous
	// signatures
	unsigned := *tx
	unsigned.Signatures = nil
	return unsigned.Marshal()
}

func (tx *Tx) Marshal() ([]byte, error) {
	w := weave.NewWireWriter()
	for _, s := range tx.Signatures {
		if s == nil {
			return nil, errors.Wrap(errors.ErrInput, "nil signature")
		}
		w.Message(1, s)
	}
	if tx.SendMsg != nil {
		w.Message(2, tx.SendMsg)
	}
	if tx.CreateMsg != nil {
		w.Message(3, tx.CreateMsg)
	}
	if tx.ClaimMsg != nil {
		w.Message(4, tx.ClaimMsg)
	}
	if tx.ReclaimMsg != nil {
		w.Message(5, tx.ReclaimMsg)
	}
	return w.Result()
}

func (tx *Tx) Unmarshal(raw []byte) error {
	*tx = Tx{}
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
			var s sigs.StdSignature
			err = r.Message(&s)
			tx.Signatures = append(tx.Signatures, &s)
		case 2:
			tx.SendMsg = new(cash.SendMsg)
			err = r.Message(tx.SendMsg)
		case 3:
			tx.CreateMsg = new(escrow.CreateMsg)
			err = r.Message(tx.CreateMsg)
		case 4:
			tx.ClaimMsg = new(escrow.ClaimMsg)
			err = r.Message(tx.ClaimMsg)
		case 5:
			tx.ReclaimMsg = new(escrow.ReclaimMsg)
			err = r.Message(tx.ReclaimMsg)
		}
		if err != nil {
			return errors.Wrapf(err, "field %d", r.Field())
		}
	}
}
