package weavetest

import (
	"crypto/rand"
	"testing"

	"github.com/fymoney/weave"
)

// RandomAddr returns a valid random weave address genearted on the fly.
func RandomAddr(t testing.TB) weave.Address {
	raw := make([]byte, weave.AddressLength)
	if _, err := rand.Read(raw); err != nil {
		t.Fatalf("cannot generate a random address: %s", err)
	}
	a := weave.Address(raw)
	if err := a.Validate(); err != nil {
		t.Fatalf("generated address is not a valid weave address: %s", err)
	}
	return a
}
