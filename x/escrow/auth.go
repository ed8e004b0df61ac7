package escrow

import (
	"context"

	"github.com/fymoney/weave"
	"github.com/fymoney/weave/x"
)

type contextKey int

const contextKeyCapability contextKey = iota

// withCapability returns a context carrying the custody capability. It is
// private, only this extension may act on behalf of a custody account.
func withCapability(ctx weave.Context, c Capability) weave.Context {
	return context.WithValue(ctx, contextKeyCapability, c)
}

// CustodyAuth authenticates the custody account of the capability found in
// the context.
type CustodyAuth struct{}

var _ x.Authenticator = CustodyAuth{}

func (CustodyAuth) capability(ctx weave.Context) (Capability, bool) {
	c, ok := ctx.Value(contextKeyCapability).(Capability)
	return c, ok && c.Domain == DomainTag
}

// GetConditions returns the custody condition, if any.
func (a CustodyAuth) GetConditions(ctx weave.Context) []weave.Condition {
	c, ok := a.capability(ctx)
	if !ok {
		return nil
	}
	return []weave.Condition{c.Condition()}
}

// HasAddress returns true if addr is the custody account of the capability
// in the context.
func (a CustodyAuth) HasAddress(ctx weave.Context, addr weave.Address) bool {
	c, ok := a.capability(ctx)
	return ok && c.Address().Equals(addr)
}
