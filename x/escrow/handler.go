package escrow

import (
	"encoding/hex"

	"github.com/fymoney/weave"
	"github.com/fymoney/weave/errors"
	"github.com/fymoney/weave/x"
	"github.com/fymoney/weave/x/cash"
	"github.com/tendermint/tendermint/libs/common"
)

const (
	createEscrowCost  int64 = 300
	claimEscrowCost   int64 = 200
	reclaimEscrowCost int64 = 200
)

// RegisterRoutes will instantiate and register all handlers in this
// package.
func RegisterRoutes(r weave.Registry, auth x.Authenticator, cashctrl cash.Controller) {
	ctrl := NewController(cashctrl, NewBucket())
	r.Handle(&CreateMsg{}, CreateHandler{auth: auth, ctrl: ctrl})
	r.Handle(&ClaimMsg{}, ClaimHandler{auth: auth, ctrl: ctrl})
	r.Handle(&ReclaimMsg{}, ReclaimHandler{auth: auth, ctrl: ctrl})
}

// RegisterQuery will register this bucket as "/escrows".
func RegisterQuery(qr weave.QueryRouter) {
	NewBucket().Register("escrows", qr)
}

// CreateHandler will handle creating escrows.
type CreateHandler struct {
	auth x.Authenticator
	ctrl *Controller
}

var _ weave.Handler = CreateHandler{}

// Check runs all the create preconditions without moving any funds.
func (h CreateHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	var msg CreateMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	err := h.ctrl.ValidateCreate(ctx, db, h.auth, msg.Sender, msg.RecipientHash, msg.Amount, msg.ExpiresAt)
	if err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: createEscrowCost}, nil
}

// Deliver moves the funds into a new custody account and stores the escrow.
func (h CreateHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	var msg CreateMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	e, err := h.ctrl.CreateEscrow(ctx, db, h.auth, msg.Sender, msg.RecipientHash, msg.Amount, msg.ExpiresAt)
	if err != nil {
		return nil, err
	}
	return deliverResult(e, "create")
}

// ClaimHandler will handle claiming escrows. The claimant must sign the
// transaction.
type ClaimHandler struct {
	auth x.Authenticator
	ctrl *Controller
}

var _ weave.Handler = ClaimHandler{}

func (h ClaimHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.ValidateClaim(ctx, db, msg.Sender, msg.RecipientHash, msg.Claimant); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: claimEscrowCost}, nil
}

func (h ClaimHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	e, err := h.ctrl.ClaimEscrow(ctx, db, msg.Sender, msg.RecipientHash, msg.Claimant)
	if err != nil {
		return nil, err
	}
	return deliverResult(e, "claim")
}

func (h ClaimHandler) validate(ctx weave.Context, tx weave.Tx) (*ClaimMsg, error) {
	var msg ClaimMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Claimant) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "claimant signature missing")
	}
	return &msg, nil
}

// ReclaimHandler will handle returning expired escrows to their sender.
type ReclaimHandler struct {
	auth x.Authenticator
	ctrl *Controller
}

var _ weave.Handler = ReclaimHandler{}

func (h ReclaimHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.ValidateReclaim(ctx, db, msg.Sender, msg.RecipientHash, msg.Caller); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: reclaimEscrowCost}, nil
}

func (h ReclaimHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	e, err := h.ctrl.ReclaimEscrow(ctx, db, msg.Sender, msg.RecipientHash, msg.Caller)
	if err != nil {
		return nil, err
	}
	return deliverResult(e, "reclaim")
}

func (h ReclaimHandler) validate(ctx weave.Context, tx weave.Tx) (*ReclaimMsg, error) {
	var msg ReclaimMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Caller) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "caller signature missing")
	}
	return &msg, nil
}

// deliverResult returns the serialized escrow as data and tags the result
// so that clients can subscribe to changes of an escrow.
func deliverResult(e *Escrow, action string) (*weave.DeliverResult, error) {
	raw, err := e.Marshal()
	if err != nil {
		return nil, errors.Wrap(err, "cannot marshal escrow")
	}
	return &weave.DeliverResult{
		Data: raw,
		Tags: []common.KVPair{
			{Key: []byte("escrow.action"), Value: []byte(action)},
			{Key: []byte("escrow.sender"), Value: []byte(e.Sender.String())},
			{Key: []byte("escrow.recipient_hash"), Value: []byte(hex.EncodeToString(e.RecipientHash))},
			{Key: []byte("escrow.custody"), Value: []byte(e.Custody.String())},
		},
	}, nil
}
