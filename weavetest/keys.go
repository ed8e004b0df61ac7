package weavetest

import (
	"crypto/rand"

	"github.com/fymoney/weave"
	"golang.org/x/crypto/ed25519"
)

// NewKey returns a freshly generated ed25519 private key.
func NewKey() ed25519.PrivateKey {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		panic(err)
	}
	return priv
}

// KeyCondition returns the signature condition of given key. It uses the
// same format as the x/sigs extension.
func KeyCondition(key ed25519.PrivateKey) weave.Condition {
	pub := key.Public().(ed25519.PublicKey)
	return weave.NewCondition("sigs", "ed25519", pub)
}

// NewCondition returns the signature condition of a new random key.
func NewCondition() weave.Condition {
	return KeyCondition(NewKey())
}
