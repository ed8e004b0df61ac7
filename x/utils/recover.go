package utils

import (
	"github.com/fymoney/weave"
	"github.com/fymoney/weave/errors"
)

// Recovery turns a panic in the wrapped handler into an ErrPanic error and
// logs it. The state changes of the transaction are discarded by the
// caller, as for any other failure.
type Recovery struct{}

var _ weave.Decorator = Recovery{}

// NewRecovery creates a Recovery decorator
func NewRecovery() Recovery {
	return Recovery{}
}

func (Recovery) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx, next weave.Checker) (_ *weave.CheckResult, err error) {
	defer logPanic(ctx, tx, &err)
	defer errors.Recover(&err)
	return next.Check(ctx, db, tx)
}

func (Recovery) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx, next weave.Deliverer) (_ *weave.DeliverResult, err error) {
	defer logPanic(ctx, tx, &err)
	defer errors.Recover(&err)
	return next.Deliver(ctx, db, tx)
}

// logPanic must run after errors.Recover.
func logPanic(ctx weave.Context, tx weave.Tx, err *error) {
	if errors.ErrPanic.Is(*err) {
		weave.GetLogger(ctx).Error("recovered from panic", "path", weave.GetPath(tx), "err", *err)
	}
}
