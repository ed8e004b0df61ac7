package sigs

import (
	"github.com/fymoney/weave"
	"github.com/fymoney/weave/errors"
	"golang.org/x/crypto/ed25519"
)

// StdSignature is a signature of a transaction, together with the public
// key of the signer and the sequence used to build the sign bytes.
type StdSignature struct {
	Sequence  int64
	Pubkey    ed25519.PublicKey
	Signature []byte
}

// Validate ensures the StdSignature meets basic standards
func (s *StdSignature) Validate() error {
	if s.Sequence < 0 {
		return errors.Wrap(ErrInvalidSequence, "negative")
	}
	if len(s.Pubkey) != ed25519.PublicKeySize {
		return errors.Wrap(errors.ErrInput, "public key")
	}
	if len(s.Signature) != ed25519.SignatureSize {
		return errors.Wrap(errors.ErrInput, "signature")
	}
	return nil
}

func (s *StdSignature) Marshal() ([]byte, error) {
	w := weave.NewWireWriter()
	w.Int64(1, s.Sequence)
	w.Bytes(2, s.Pubkey)
	w.Bytes(3, s.Signature)
	return w.Result()
}

func (s *StdSignature) Unmarshal(raw []byte) error {
	*s = StdSignature{}
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
			if s.Sequence, err = r.Int64(); err != nil {
				return err
			}
		case 2:
			b, err := r.Bytes()
			if err != nil {
				return err
			}
			s.Pubkey = b
		case 3:
			if s.Signature, err = r.Bytes(); err != nil {
				return err
			}
		}
	}
}
