package cash

import (
	"github.com/fymoney/weave"
	"github.com/fymoney/weave/coin"
	"github.com/fymoney/weave/errors"
)

const optKey = "cash"

// GenesisAccount is used to parse the json from genesis file
// use weave.Address, so address in hex, not base64
type GenesisAccount struct {
	Address weave.Address `json:"address"`
	Coins   []coin.Coin   `json:"coins"`
}

// Initializer fulfils the InitStater interface to load data from
// the genesis file
type Initializer struct{}

var _ weave.Initializer = Initializer{}

// FromGenesis will parse initial account info from genesis
// and save it to the database
func (Initializer) FromGenesis(opts weave.Options, kv weave.KVStore) error {
	accts := []GenesisAccount{}
	err := opts.ReadOptions(optKey, &accts)
	if err != nil {
		return err
	}
	ctrl := NewController(NewBucket())
	for _, acct := range accts {
		if err := acct.Address.Validate(); err != nil {
			return errors.Wrap(err, "genesis account address")
		}
		for _, c := range acct.Coins {
			if err := ctrl.Mint(kv, acct.Address, c); err != nil {
				return errors.Wrapf(err, "genesis account %s", acct.Address)
			}
		}
	}
	return nil
}
