package escrow

import (
	"encoding/hex"
	"math"

	"github.com/fymoney/weave"
	"github.com/fymoney/weave/coin"
	"github.com/fymoney/weave/errors"
	"github.com/fymoney/weave/x"
	"github.com/fymoney/weave/x/cash"
)

// Controller is the escrow state machine. Every transition reads the block
// time once, validates all preconditions and only then mutates the state.
// All writes of a transition are applied together or not at all.
type Controller struct {
	cash   cash.Controller
	bucket Bucket
}

// NewController returns a controller moving funds with given cash
// controller and storing escrows in given bucket.
func NewController(cashctrl cash.Controller, bucket Bucket) *Controller {
	return &Controller{
		cash:   cashctrl,
		bucket: bucket,
	}
}

// createPlan is the outcome of a successful create validation.
type createPlan struct {
	escrow *Escrow
	conf   Configuration
}

// ValidateCreate checks all preconditions of CreateEscrow without changing
// the state.
func (c *Controller) ValidateCreate(ctx weave.Context, db weave.ReadOnlyKVStore, auth x.Authenticator, sender weave.Address, recipientHash []byte, amount coin.Coin, expiresAt weave.UnixTime) error {
	_, err := c.validateCreate(ctx, db, auth, sender, recipientHash, amount, expiresAt)
	return err
}

func (c *Controller) validateCreate(ctx weave.Context, db weave.ReadOnlyKVStore, auth x.Authenticator, sender weave.Address, recipientHash []byte, amount coin.Coin, expiresAt weave.UnixTime) (*createPlan, error) {
	if amount.IsZero() {
		return nil, errors.Wrap(ErrInvalidAmount, "amount")
	}
	if err := amount.Validate(); err != nil {
		return nil, errors.Wrap(err, "amount")
	}
	custody, err := DeriveCustody(sender, recipientHash)
	if err != nil {
		return nil, err
	}
	if !auth.HasAddress(ctx, sender) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "sender signature missing")
	}

	now, err := blockNow(ctx)
	if err != nil {
		return nil, err
	}
	conf, err := loadConf(db)
	if err != nil {
		return nil, err
	}
	if expiresAt <= now {
		return nil, errors.Wrapf(ErrInvalidExpiration, "expires at %d, now is %d", expiresAt, now)
	}
	if int64(now) > math.MaxInt64-conf.MaxDurationSeconds {
		return nil, errors.Wrap(ErrArithmeticOverflow, "expiration limit")
	}
	if limit := now + weave.UnixTime(conf.MaxDurationSeconds); expiresAt > limit {
		return nil, errors.Wrapf(ErrExpirationTooLong, "expires at %d, limit is %d", expiresAt, limit)
	}

	switch _, err := c.bucket.Get(db, sender, recipientHash); {
	case err == nil:
		return nil, errors.Wrap(ErrAlreadyExists, "escrow")
	case !errors.ErrNotFound.Is(err):
		return nil, err
	}

	balance, err := c.cash.Balance(db, sender, amount.Asset)
	if err != nil {
		return nil, err
	}
	if !balance.IsGTE(amount) {
		return nil, errors.Wrapf(cash.ErrInsufficientFunds, "have %d, need %d", balance.Amount, amount.Amount)
	}

	e := &Escrow{
		Sender:        sender,
		RecipientHash: recipientHash,
		Asset:         amount.Asset,
		Custody:       custody.Address(),
		Amount:        amount.Amount,
		CreatedAt:     now,
		ExpiresAt:     expiresAt,
		Status:        StatusActive,
		Nonce:         custody.Nonce,
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return &createPlan{escrow: e, conf: conf}, nil
}

// CreateEscrow opens the custody account, moves the amount from the sender
// to it and stores a new active escrow. The sender must be authorized by
// auth.
func (c *Controller) CreateEscrow(ctx weave.Context, db weave.KVStore, auth x.Authenticator, sender weave.Address, recipientHash []byte, amount coin.Coin, expiresAt weave.UnixTime) (*Escrow, error) {
	var e *Escrow
	err := atomically(db, func(db weave.KVStore) error {
		plan, err := c.validateCreate(ctx, db, auth, sender, recipientHash, amount, expiresAt)
		if err != nil {
			return err
		}
		e = plan.escrow
		// Anyone can send funds to a custody address before the escrow
		// exists, so an already open account is not an error.
		if err := c.cash.OpenAccount(db, e.Custody, e.Asset); err != nil && !errors.ErrDuplicate.Is(err) {
			return errors.Wrap(err, "open custody account")
		}
		if err := c.cash.Transfer(ctx, db, auth, e.Sender, e.Custody, amount); err != nil {
			return errors.Wrap(err, "deposit")
		}
		return c.bucket.Create(db, e)
	})
	observe("create", err)
	if err != nil {
		return nil, err
	}
	weave.GetLogger(ctx).Info("escrow created",
		"amount", e.Amount,
		"recipient_hash", hex.EncodeToString(e.RecipientHash),
		"custody", e.Custody,
		"created_at", e.CreatedAt,
		"expires_at", e.ExpiresAt)
	return e, nil
}

// ValidateClaim checks all preconditions of ClaimEscrow without changing
// the state.
func (c *Controller) ValidateClaim(ctx weave.Context, db weave.ReadOnlyKVStore, sender weave.Address, recipientHash []byte, claimant weave.Address) error {
	_, err := c.validateClaim(ctx, db, sender, recipientHash, claimant)
	return err
}

func (c *Controller) validateClaim(ctx weave.Context, db weave.ReadOnlyKVStore, sender weave.Address, recipientHash []byte, claimant weave.Address) (*Escrow, error) {
	if err := claimant.Validate(); err != nil {
		return nil, errors.Wrap(err, "claimant")
	}
	now, err := blockNow(ctx)
	if err != nil {
		return nil, err
	}
	e, err := c.bucket.Get(db, sender, recipientHash)
	if err != nil {
		return nil, err
	}
	switch e.Status {
	case StatusActive:
	case StatusExpired:
		// A reclaimed escrow is past its expiration.
		return nil, errors.Wrap(ErrEscrowExpired, "escrow was reclaimed")
	default:
		return nil, errors.Wrapf(ErrEscrowNotActive, "escrow is %s", e.Status)
	}
	if now > e.ExpiresAt {
		return nil, errors.Wrapf(ErrEscrowExpired, "expired at %d, now is %d", e.ExpiresAt, now)
	}
	if e.Recipient != nil && !e.Recipient.Equals(claimant) {
		return nil, errors.Wrap(ErrInvalidRecipient, "escrow bound to another recipient")
	}
	return e, nil
}

// ClaimEscrow binds the claimant as the recipient and releases the funds
// to it. The transfer is authorized by the custody capability, not by the
// claimant. Only the first successful claim moves funds, any later claim
// fails with ErrEscrowNotActive. Claiming a reclaimed escrow fails with
// ErrEscrowExpired.
func (c *Controller) ClaimEscrow(ctx weave.Context, db weave.KVStore, sender weave.Address, recipientHash []byte, claimant weave.Address) (*Escrow, error) {
	var e *Escrow
	err := atomically(db, func(db weave.KVStore) error {
		stored, err := c.validateClaim(ctx, db, sender, recipientHash, claimant)
		if err != nil {
			return err
		}
		e = stored.Copy().(*Escrow)
		e.Status = StatusClaimed
		e.Recipient = claimant
		if err := c.bucket.Update(db, StatusActive, e); err != nil {
			return err
		}
		return c.release(ctx, db, e, claimant)
	})
	observe("claim", err)
	if err != nil {
		return nil, err
	}
	weave.GetLogger(ctx).Info("escrow claimed",
		"amount", e.Amount,
		"recipient_hash", hex.EncodeToString(e.RecipientHash),
		"recipient", e.Recipient,
		"custody", e.Custody)
	return e, nil
}

// ValidateReclaim checks all preconditions of ReclaimEscrow without
// changing the state.
func (c *Controller) ValidateReclaim(ctx weave.Context, db weave.ReadOnlyKVStore, sender weave.Address, recipientHash []byte, caller weave.Address) error {
	_, err := c.validateReclaim(ctx, db, sender, recipientHash, caller)
	return err
}

func (c *Controller) validateReclaim(ctx weave.Context, db weave.ReadOnlyKVStore, sender weave.Address, recipientHash []byte, caller weave.Address) (*Escrow, error) {
	now, err := blockNow(ctx)
	if err != nil {
		return nil, err
	}
	e, err := c.bucket.Get(db, sender, recipientHash)
	if err != nil {
		return nil, err
	}
	if e.Status != StatusActive {
		return nil, errors.Wrapf(ErrEscrowNotActive, "escrow is %s", e.Status)
	}
	if now <= e.ExpiresAt {
		return nil, errors.Wrapf(ErrEscrowNotExpired, "expires at %d, now is %d", e.ExpiresAt, now)
	}
	if !e.Sender.Equals(caller) {
		return nil, errors.Wrap(ErrUnauthorizedSender, "caller is not the sender")
	}
	return e, nil
}

// ReclaimEscrow returns the funds of an expired escrow to its sender.
func (c *Controller) ReclaimEscrow(ctx weave.Context, db weave.KVStore, sender weave.Address, recipientHash []byte, caller weave.Address) (*Escrow, error) {
	var e *Escrow
	err := atomically(db, func(db weave.KVStore) error {
		stored, err := c.validateReclaim(ctx, db, sender, recipientHash, caller)
		if err != nil {
			return err
		}
		e = stored.Copy().(*Escrow)
		e.Status = StatusExpired
		if err := c.bucket.Update(db, StatusActive, e); err != nil {
			return err
		}
		return c.release(ctx, db, e, e.Sender)
	})
	observe("reclaim", err)
	if err != nil {
		return nil, err
	}
	weave.GetLogger(ctx).Info("escrow reclaimed",
		"amount", e.Amount,
		"recipient_hash", hex.EncodeToString(e.RecipientHash),
		"sender", e.Sender,
		"expired_at", e.ExpiresAt)
	return e, nil
}

// release moves the escrow funds out of the custody account using the
// custody capability and closes the account if configured.
func (c *Controller) release(ctx weave.Context, db weave.KVStore, e *Escrow, to weave.Address) error {
	capability := e.Capability()
	if !capability.Address().Equals(e.Custody) {
		return errors.Wrap(errors.ErrState, "capability does not match custody account")
	}
	ctx = withCapability(ctx, capability)
	amount := coin.Coin{Asset: e.Asset, Amount: e.Amount}
	if err := c.cash.Transfer(ctx, db, CustodyAuth{}, e.Custody, to, amount); err != nil {
		return errors.Wrap(err, "release")
	}

	conf, err := loadConf(db)
	if err != nil {
		return err
	}
	if !conf.CloseCustody {
		return nil
	}
	left, err := c.cash.Balance(db, e.Custody, e.Asset)
	if err != nil {
		return err
	}
	if !left.IsZero() {
		// Someone sent extra funds to the custody account. Keep it.
		return nil
	}
	return c.cash.CloseAccount(db, e.Custody, e.Asset)
}

// blockNow returns the current block time. This is the only clock read of
// a transition.
func blockNow(ctx weave.Context) (weave.UnixTime, error) {
	now, err := weave.BlockTime(ctx)
	if err != nil {
		return 0, err
	}
	return weave.AsUnixTime(now), nil
}

// atomically runs fn on a cache of db. The cache is written only if fn
// succeeds. Stores that cannot be cached are used directly, the caller is
// then responsible for discarding a failed unit.
func atomically(db weave.KVStore, fn func(weave.KVStore) error) error {
	cacheable, ok := db.(weave.CacheableKVStore)
	if !ok {
		return fn(db)
	}
	cache := cacheable.CacheWrap()
	if err := fn(cache); err != nil {
		cache.Discard()
		return err
	}
	return cache.Write()
}
