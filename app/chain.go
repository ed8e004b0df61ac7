package app

import (
	"reflect"

	"github.com/fymoney/weave"
)

// Decorators is a chain of decorators waiting for the final handler.
type Decorators struct {
	chain []weave.Decorator
}

// ChainDecorators returns a chain executing decorators in the given order.
// Nil decorators are skipped, so optional ones can be passed inline:
//
//   app.ChainDecorators(
//     utils.NewLogging(),
//     utils.NewRecovery(),
//     utils.NewActionTagger(),
//     sigs.NewDecorator(),
//   ).WithHandler(router)
func ChainDecorators(chain ...weave.Decorator) Decorators {
	return Decorators{}.Chain(chain...)
}

// Chain returns a new chain with more decorators appended.
func (d Decorators) Chain(chain ...weave.Decorator) Decorators {
	joined := make([]weave.Decorator, 0, len(d.chain)+len(chain))
	joined = append(joined, d.chain...)
	for _, dec := range chain {
		if !isNil(dec) {
			joined = append(joined, dec)
		}
	}
	return Decorators{chain: joined}
}

func isNil(dec weave.Decorator) bool {
	if dec == nil {
		return true
	}
	v := reflect.ValueOf(dec)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

// WithHandler returns a handler running the whole chain, first decorator
// first, before h.
func (d Decorators) WithHandler(h weave.Handler) weave.Handler {
	for i := len(d.chain) - 1; i >= 0; i-- {
		h = step{d: d.chain[i], next: h}
	}
	return h
}

// step runs one decorator around the rest of the chain.
type step struct {
	d    weave.Decorator
	next weave.Handler
}

var _ weave.Handler = step{}

func (s step) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	return s.d.Check(ctx, db, tx, s.next)
}

func (s step) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	return s.d.Deliver(ctx, db, tx, s.next)
}
