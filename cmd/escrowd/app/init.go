package app

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/fymoney/weave"
	"github.com/fymoney/weave/coin"
	"github.com/fymoney/weave/errors"
	"github.com/fymoney/weave/x/cash"
	"github.com/fymoney/weave/x/escrow"
	"github.com/fymoney/weave/x/sigs"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
	"golang.org/x/crypto/ed25519"
)

// DefaultTicker is the currency minted in a development genesis.
const DefaultTicker = "FYM"

const devSupply = 123456789

// GenInitOptions will produce some basic options for one rich
// account, to use for dev mode.
//
// Arguments are an optional ticker and an optional hex address. Without an
// address a new key is generated and printed.
func GenInitOptions(args []string) (json.RawMessage, error) {
	ticker := DefaultTicker
	if len(args) > 0 {
		ticker = args[0]
		if !coin.IsCC(ticker) {
			return nil, errors.Wrapf(errors.ErrCurrency, "invalid ticker %s", ticker)
		}
	}

	var addr weave.Address
	if len(args) > 1 {
		raw, err := hex.DecodeString(args[1])
		if err != nil {
			return nil, errors.Wrap(errors.ErrInput, "address must be hex encoded")
		}
		addr = raw
		if err := addr.Validate(); err != nil {
			return nil, err
		}
	} else {
		// if no address provided, auto-generate one
		// and print out the key
		a, keys, err := GenerateCoinKey()
		if err != nil {
			return nil, err
		}
		addr = a
		fmt.Println(keys)
	}

	conf := escrow.DefaultConfiguration()
	state := struct {
		Cash   []cash.GenesisAccount           `json:"cash"`
		Escrow []json.RawMessage                `json:"escrow"`
		Conf   map[string]escrow.Configuration `json:"conf"`
	}{
		Cash: []cash.GenesisAccount{{
			Address: addr,
			Coins:   []coin.Coin{coin.NewCoin(devSupply, ticker)},
		}},
		Escrow: []json.RawMessage{},
		Conf:   map[string]escrow.Configuration{escrow.ConfigPkg: conf},
	}
	return json.MarshalIndent(state, "", "  ")
}

// GenerateApp is used to create a stub for server/start.go command
func GenerateApp(home string, logger log.Logger, debug bool) (abci.Application, error) {
	// db goes in a subdir, but "" -> "" for memdb
	var dbPath string
	if home != "" {
		dbPath = filepath.Join(home, "escrow.db")
	}

	application, err := Application("escrow", Stack(), TxDecoder, dbPath, debug)
	if err != nil {
		return nil, err
	}
	application.WithInit(Initializers())

	// set the logger and return
	application.WithLogger(logger)
	return application, nil
}

type output struct {
	Address weave.Address `json:"address"`
	Pubkey  string        `json:"pub_key"`
	Secret  string        `json:"secret"`
}

// GenerateCoinKey returns the address of a new ed25519 key,
// along with a json representation of the keys.
// You can give coins to this address and
// import the keys in a client to use them
func GenerateCoinKey() (weave.Address, string, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, "", errors.Wrap(err, "generate key")
	}
	addr := sigs.SigCondition(pub).Address()

	out := output{
		Address: addr,
		Pubkey:  hex.EncodeToString(pub),
		Secret:  hex.EncodeToString(priv),
	}
	keys, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, "", errors.Wrap(err, "marshal keys")
	}
	return addr, string(keys), nil
}
