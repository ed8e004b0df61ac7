package app

import (
	"sync"

	"github.com/fymoney/weave"
	"github.com/fymoney/weave/errors"
)

// Ledger serialises every change of the application state. Each
// transaction runs as one unit on a cache of the current block state: the
// cache is written if the handler succeeds and discarded otherwise. Units
// never interleave, so a handler that reads and then writes a record sees
// no concurrent change in between.
type Ledger struct {
	mu    sync.Mutex
	store *CommitStore
}

// NewLedger returns a ledger over given commit store.
func NewLedger(store *CommitStore) *Ledger {
	return &Ledger{store: store}
}

// Deliver runs the handler as a unit on the deliver state.
func (l *Ledger) Deliver(ctx weave.Context, h weave.Deliverer, tx weave.Tx) (*weave.DeliverResult, error) {
	var res *weave.DeliverResult
	err := l.unit(l.store.DeliverStore(), func(db weave.KVStore) error {
		var err error
		res, err = h.Deliver(ctx, db, tx)
		return err
	})
	return res, err
}

// Check runs the handler as a unit on the check state. Successful checks
// are kept until the next commit so that the following checks of the same
// block see their effects (for example signature sequences).
func (l *Ledger) Check(ctx weave.Context, h weave.Checker, tx weave.Tx) (*weave.CheckResult, error) {
	var res *weave.CheckResult
	err := l.unit(l.store.CheckStore(), func(db weave.KVStore) error {
		var err error
		res, err = h.Check(ctx, db, tx)
		return err
	})
	return res, err
}

// Apply runs fn as a unit on the deliver state.
func (l *Ledger) Apply(fn func(weave.KVStore) error) error {
	return l.unit(l.store.DeliverStore(), fn)
}

// View gives fn read access to the last committed state.
func (l *Ledger) View(fn func(weave.ReadOnlyKVStore) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	cache := l.store.committed.CacheWrap()
	defer cache.Discard()
	return fn(cache)
}

// Commit persists the deliver state.
func (l *Ledger) Commit() (weave.CommitID, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.Commit()
}

// CommitInfo returns the last committed version.
func (l *Ledger) CommitInfo() (weave.CommitID, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.CommitInfo()
}

func (l *Ledger) unit(db weave.CacheableKVStore, fn func(weave.KVStore) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	cache := db.CacheWrap()
	if err := fn(cache); err != nil {
		cache.Discard()
		return err
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}
