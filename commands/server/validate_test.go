package server

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/fymoney/weave"
	"github.com/fymoney/weave/errors"
	"github.com/stretchr/testify/require"
)

type requireKey struct {
	key string
}

func (r requireKey) FromGenesis(opts weave.Options, kv weave.KVStore) error {
	if _, ok := opts[r.key]; !ok {
		return errors.Wrapf(errors.ErrEmpty, "missing %q", r.key)
	}
	return kv.Set([]byte(r.key), []byte("set"))
}

func TestValidateGenesis(t *testing.T) {
	dir, err := ioutil.TempDir("", "validate")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	good := filepath.Join(dir, "good.json")
	require.NoError(t, ioutil.WriteFile(good, []byte(`{"app_state": {"escrow": []}}`), 0600))
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, ioutil.WriteFile(bad, []byte(`{"app_state": {"cash": []}}`), 0600))
	broken := filepath.Join(dir, "broken.json")
	require.NoError(t, ioutil.WriteFile(broken, []byte(`{"app_state": `), 0600))

	ini := requireKey{key: "escrow"}
	require.NoError(t, ValidateGenesis(ini, []string{good}))

	err = ValidateGenesis(ini, []string{good, bad})
	require.True(t, errors.ErrEmpty.Is(err), "unexpected error: %+v", err)

	err = ValidateGenesis(ini, []string{broken})
	require.True(t, errors.ErrInput.Is(err), "unexpected error: %+v", err)

	err = ValidateGenesis(ini, nil)
	require.True(t, errors.ErrInput.Is(err), "unexpected error: %+v", err)
}
