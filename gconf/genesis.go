package gconf

import (
	"sort"

	"github.com/fymoney/weave"
	"github.com/fymoney/weave/errors"
)

// Initializer fulfils the InitStater interface to load data from
// the genesis file
type Initializer struct {
	// Configs maps a package name to a constructor of that package
	// configuration.
	Configs map[string]func() Configuration
}

var _ weave.Initializer = Initializer{}

// FromGenesis will parse the "conf" section of the genesis and save every
// registered package configuration to the database. A package without an
// entry in the genesis is skipped and relies on its own defaults. Entries
// for unknown packages are rejected.
func (i Initializer) FromGenesis(opts weave.Options, db weave.KVStore) error {
	var confOptions weave.Options
	if err := opts.ReadOptions("conf", &confOptions); err != nil {
		return errors.Wrap(err, "read conf")
	}

	pkgs := make([]string, 0, len(confOptions))
	for pkg := range confOptions {
		pkgs = append(pkgs, pkg)
	}
	sort.Strings(pkgs)

	for _, pkg := range pkgs {
		newConf, ok := i.Configs[pkg]
		if !ok {
			return errors.Wrapf(errors.ErrInput, "unknown configuration package %q", pkg)
		}
		if err := InitConfig(db, opts, pkg, newConf()); err != nil {
			return err
		}
	}
	return nil
}
