package escrow

import (
	"encoding/json"

	"github.com/fymoney/weave"
	"github.com/fymoney/weave/errors"
)

const optKey = "escrow"

// Initializer fulfils the Initializer interface. Escrows hold funds in
// custody accounts that only a create transition can fund, so a genesis
// file must not declare any.
type Initializer struct{}

var _ weave.Initializer = Initializer{}

// FromGenesis accepts a missing or empty "escrow" list.
func (Initializer) FromGenesis(opts weave.Options, kv weave.KVStore) error {
	var escrows []json.RawMessage
	if err := opts.ReadOptions(optKey, &escrows); err != nil {
		return err
	}
	if len(escrows) != 0 {
		return errors.Wrapf(errors.ErrInput, "genesis cannot declare escrows, got %d", len(escrows))
	}
	return nil
}
