package sigs

import "github.com/fymoney/weave"

// SignedTx represents a transaction that contains signatures,
// which can be verified by the auth.Decorator
type SignedTx interface {
	// GetSignBytes returns the canonical byte representation of the Msg.
	// Equivalent to weave.MustMarshal(tx.GetMsg()) if Msg has a deterministic
	// serialization.
	//
	// Helpful to store original, unparsed bytes here, just in case.
	GetSignBytes() ([]byte, error)

	// Signatures returns the signature of signers who signed the Msg.
	GetSignatures() []*StdSignature
}

// SigCondition returns the condition of an ed25519 public key. Its address
// is the address of the key holder.
func SigCondition(pubkey []byte) weave.Condition {
	return weave.NewCondition("sigs", "ed25519", pubkey)
}
