/*
Package app wires the escrow node: cash accounts, signature
authentication and the escrow extension on top of a persistent iavl
store.
*/
package app

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/fymoney/weave"
	"github.com/fymoney/weave/app"
	"github.com/fymoney/weave/errors"
	"github.com/fymoney/weave/gconf"
	"github.com/fymoney/weave/store/iavl"
	"github.com/fymoney/weave/x"
	"github.com/fymoney/weave/x/cash"
	"github.com/fymoney/weave/x/escrow"
	"github.com/fymoney/weave/x/sigs"
	"github.com/fymoney/weave/x/utils"
)

// Authenticator returns the typical authentication: public key signatures
// and the custody accounts released by the escrow extension.
func Authenticator() x.Authenticator {
	return x.ChainAuth(sigs.Authenticate{}, escrow.CustodyAuth{})
}

// CashControl returns a controller for cash functions
func CashControl() cash.Controller {
	return cash.NewController(cash.NewBucket())
}

// Chain returns a chain of decorators, to handle authentication,
// logging and recovery
func Chain() app.Decorators {
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		utils.NewActionTagger(),
		sigs.NewDecorator(),
	)
}

// Router returns a default router, dispatching to the cash and escrow
// handlers.
func Router(authFn x.Authenticator) *app.Router {
	r := app.NewRouter()
	ctrl := CashControl()
	cash.RegisterRoutes(r, authFn, ctrl)
	escrow.RegisterRoutes(r, authFn, ctrl)
	return r
}

// QueryRouter returns a default query router,
// allowing access to "/wallets", "/auth" and "/escrows"
func QueryRouter() weave.QueryRouter {
	r := weave.NewQueryRouter()
	r.RegisterAll(
		cash.RegisterQuery,
		sigs.RegisterQuery,
		escrow.RegisterQuery,
	)
	return r
}

// Stack wires up a standard router with a standard decorator
// chain. This can be passed into BaseApp.
func Stack() weave.Handler {
	authFn := Authenticator()
	return Chain().WithHandler(Router(authFn))
}

// Initializers returns the genesis loaders of every extension.
func Initializers() weave.Initializer {
	return app.ChainInitializers(
		cash.Initializer{},
		escrow.Initializer{},
		gconf.Initializer{
			Configs: map[string]func() gconf.Configuration{
				escrow.ConfigPkg: escrow.NewConfiguration,
			},
		},
	)
}

// Application constructs a basic ABCI application with
// the given arguments.
func Application(name string, h weave.Handler,
	tx weave.TxDecoder, dbPath string, debug bool) (app.BaseApp, error) {

	ctx := context.Background()
	kv, err := CommitKVStore(dbPath)
	if err != nil {
		return app.BaseApp{}, err
	}
	store := app.NewStoreApp(name, kv, QueryRouter(), ctx)
	base := app.NewBaseApp(store, tx, h, debug)
	return base, nil
}

// CommitKVStore returns an initialized KVStore that persists
// the data to the named path.
func CommitKVStore(dbPath string) (weave.CommitKVStore, error) {
	// memory backed case, just for testing
	if dbPath == "" {
		return iavl.NewCommitStore("", "escrow"), nil
	}

	// Expand the path fully
	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "invalid database name: %s", dbPath)
	}

	// Some external calls accidentally add a ".db", which is now removed
	path = strings.TrimSuffix(path, filepath.Ext(path))

	// Split the database name into it's components (dir, name)
	dir := filepath.Dir(path)
	name := filepath.Base(path)
	return iavl.NewCommitStore(dir, name), nil
}
