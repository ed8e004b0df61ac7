package utils

import (
	"github.com/fymoney/weave"
	"github.com/tendermint/tendermint/libs/common"
)

// ActionKey is the tag key holding the path of a delivered message, for
// example action=escrow/claim.
const ActionKey = "action"

// ActionTagger tags every successfully delivered transaction with the
// path of its message, so clients can subscribe to all escrow claims with
// a single query.
type ActionTagger struct{}

var _ weave.Decorator = ActionTagger{}

// NewActionTagger creates a ActionTagger decorator
func NewActionTagger() ActionTagger {
	return ActionTagger{}
}

func (ActionTagger) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx, next weave.Checker) (*weave.CheckResult, error) {
	return next.Check(ctx, db, tx)
}

func (ActionTagger) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx, next weave.Deliverer) (*weave.DeliverResult, error) {
	// A transaction without a message never reaches the handler.
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	res, err := next.Deliver(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	res.Tags = append(res.Tags, common.KVPair{Key: []byte(ActionKey), Value: []byte(msg.Path())})
	return res, nil
}
