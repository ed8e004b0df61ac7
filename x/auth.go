package x

import (
	"github.com/fymoney/weave"
)

// Authenticator tells which conditions are fulfilled by the current
// transaction. Handlers receive it in their constructor, so the node
// decides how signatures and custody capabilities are recognised.
type Authenticator interface {
	// GetConditions returns every fulfilled condition.
	GetConditions(weave.Context) []weave.Condition
	// HasAddress returns true if a fulfilled condition has this address.
	HasAddress(weave.Context, weave.Address) bool
}

// MultiAuth fulfills the union of the conditions of its authenticators.
type MultiAuth struct {
	impls []Authenticator
}

var _ Authenticator = MultiAuth{}

// ChainAuth returns an authenticator accepting everything any of impls
// accepts.
func ChainAuth(impls ...Authenticator) MultiAuth {
	return MultiAuth{impls: impls}
}

func (m MultiAuth) GetConditions(ctx weave.Context) []weave.Condition {
	var res []weave.Condition
	for _, impl := range m.impls {
		res = append(res, impl.GetConditions(ctx)...)
	}
	return res
}

func (m MultiAuth) HasAddress(ctx weave.Context, addr weave.Address) bool {
	for _, impl := range m.impls {
		if impl.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}
