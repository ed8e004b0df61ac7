package cash

import (
	"github.com/fymoney/weave"
	"github.com/fymoney/weave/coin"
	"github.com/fymoney/weave/errors"
)

// Ensure we implement the Msg interface
var _ weave.Msg = (*SendMsg)(nil)

const (
	sendTxCost int64 = 100

	maxMemoSize int = 128
)

// SendMsg moves funds between two accounts of the same asset.
type SendMsg struct {
	Source      weave.Address
	Destination weave.Address
	Amount      coin.Coin
	Memo        string
}

// Path returns the routing path for this message
func (SendMsg) Path() string {
	return "cash/send"
}

// Validate makes sure that this is sensible
func (s *SendMsg) Validate() error {
	if !s.Amount.IsPositive() {
		return errors.Wrapf(errors.ErrAmount, "non-positive SendMsg: %s", s.Amount)
	}
	if err := s.Amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	if err := s.Source.Validate(); err != nil {
		return errors.Wrap(err, "source")
	}
	if err := s.Destination.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	if len(s.Memo) > maxMemoSize {
		return errors.Wrap(errors.ErrState, "memo too long")
	}
	return nil
}

func (s *SendMsg) Marshal() ([]byte, error) {
	w := weave.NewWireWriter()
	w.Bytes(1, s.Source)
	w.Bytes(2, s.Destination)
	w.Message(3, &s.Amount)
	w.String(4, s.Memo)
	return w.Result()
}

func (s *SendMsg) Unmarshal(raw []byte) error {
	*s = SendMsg{}
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
			s.Source = b
		case 2:
			b, err := r.Bytes()
			if err != nil {
				return err
			}
			s.Destination = b
		case 3:
			if err := r.Message(&s.Amount); err != nil {
				return errors.Wrap(err, "amount")
			}
		case 4:
			b, err := r.Bytes()
			if err != nil {
				return err
			}
			s.Memo = string(b)
		}
	}
}
