package escrow

import (
	"testing"

	"github.com/fymoney/weave"
	"github.com/fymoney/weave/errors"
	"github.com/fymoney/weave/weavetest"
	"github.com/fymoney/weave/weavetest/assert"
	"golang.org/x/crypto/ed25519"
)

func TestDeriveCustodyIsDeterministic(t *testing.T) {
	sender := weavetest.NewCondition().Address()
	hash := identifierHash("bob@example.com")

	a, err := DeriveCustody(sender, hash)
	assert.Nil(t, err)
	b, err := DeriveCustody(sender, hash)
	assert.Nil(t, err)

	assert.Equal(t, a.Nonce, b.Nonce)
	assert.Equal(t, a.Address(), b.Address())
	assert.Equal(t, false, onCurve(a.Address()))

	// The stored nonce is enough to rebuild the capability.
	rebuilt := Capability{Domain: DomainTag, Sender: sender.Clone(), RecipientHash: hash, Nonce: a.Nonce}
	assert.Equal(t, a.Address(), rebuilt.Address())

	// Another domain never yields the same account.
	foreign := rebuilt
	foreign.Domain = "aswap"
	if foreign.Address().Equals(a.Address()) {
		t.Fatal("custody address does not depend on the domain")
	}
}

func TestDeriveCustodyIsUniquePerKey(t *testing.T) {
	alice := weavetest.NewCondition().Address()
	bob := weavetest.NewCondition().Address()
	hash := identifierHash("carol@example.com")

	seen := make(map[string]string)
	for name, c := range map[string]struct {
		sender weave.Address
		hash   []byte
	}{
		"alice carol": {alice, hash},
		"bob carol":   {bob, hash},
		"alice dave":  {alice, identifierHash("dave@example.com")},
	} {
		capability, err := DeriveCustody(c.sender, c.hash)
		assert.Nil(t, err)
		addr := capability.Address().String()
		if other, ok := seen[addr]; ok {
			t.Fatalf("%s and %s share custody address %s", name, other, addr)
		}
		seen[addr] = name
	}
}

func TestDeriveCustodyInvalidInput(t *testing.T) {
	_, err := DeriveCustody(weave.Address("short"), identifierHash("x"))
	assert.IsErr(t, errors.ErrInput, err)

	_, err = DeriveCustody(weavetest.NewCondition().Address(), []byte("not a hash"))
	assert.IsErr(t, errors.ErrInput, err)
}

func TestOnCurve(t *testing.T) {
	key := weavetest.NewKey()
	pub := key.Public().(ed25519.PublicKey)
	if !onCurve(weave.Address(pub)) {
		t.Fatal("a public key must be a point of the curve")
	}

	// Many custody addresses are derived, none of them may be a key.
	for i := 0; i < 50; i++ {
		c, err := DeriveCustody(weavetest.RandomAddr(t), identifierHash(string(rune('a'+i))))
		assert.Nil(t, err)
		if onCurve(c.Address()) {
			t.Fatalf("custody address %s is on the curve", c.Address())
		}
	}
}

func TestCustodyAuth(t *testing.T) {
	f := newFixture(t)
	capability, err := DeriveCustody(f.sender.Address(), identifierHash("bob@example.com"))
	assert.Nil(t, err)

	var auth CustodyAuth
	ctx := f.ctx(0)
	assert.Equal(t, false, auth.HasAddress(ctx, capability.Address()))
	assert.Equal(t, 0, len(auth.GetConditions(ctx)))

	ctx = withCapability(ctx, capability)
	assert.Equal(t, true, auth.HasAddress(ctx, capability.Address()))
	assert.Equal(t, false, auth.HasAddress(ctx, f.sender.Address()))
	assert.Equal(t, []weave.Condition{capability.Condition()}, auth.GetConditions(ctx))

	// Capabilities of another domain are not custody capabilities.
	foreign := capability
	foreign.Domain = "aswap"
	ctx = withCapability(f.ctx(0), foreign)
	assert.Equal(t, false, auth.HasAddress(ctx, foreign.Address()))
	assert.Equal(t, 0, len(auth.GetConditions(ctx)))
}
