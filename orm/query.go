package orm

import (
	"github.com/fymoney/weave"
	"github.com/fymoney/weave/errors"
	"github.com/fymoney/weave/store"
)

// queryPrefix returns all models with a key starting with prefix. The
// keys are returned as stored.
func queryPrefix(db weave.ReadOnlyKVStore, prefix []byte) ([]weave.Model, error) {
	start, end := store.PrefixRange(prefix)
	it, err := db.Iterator(start, end)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return store.ReadAll(it), nil
}
