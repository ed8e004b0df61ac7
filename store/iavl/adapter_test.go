package iavl

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/fymoney/weave/weavetest/assert"
)

func makeCommitStore(t *testing.T) (*CommitStore, string, func()) {
	t.Helper()
	tmpDir, err := ioutil.TempDir("", "iavl-adapter-")
	assert.Nil(t, err)
	cleanup := func() { os.RemoveAll(tmpDir) }
	return NewCommitStore(tmpDir, "base"), tmpDir, cleanup
}

type getter interface {
	Get(key []byte) ([]byte, error)
}

func assertGet(t *testing.T, kv getter, key, want []byte) {
	t.Helper()
	got, err := kv.Get(key)
	assert.Nil(t, err)
	assert.Equal(t, want, got)
}

func TestCommitStoreCommitAndReload(t *testing.T) {
	commit, dir, cleanup := makeCommitStore(t)
	defer cleanup()

	id, err := commit.LatestVersion()
	assert.Nil(t, err)
	assert.Equal(t, int64(0), id.Version)

	k, v := []byte("escrow"), []byte("active")
	cache := commit.CacheWrap()
	assert.Nil(t, cache.Set(k, v))

	// Not visible until the cache is written.
	assertGet(t, commit, k, nil)
	assert.Nil(t, cache.Write())
	assertGet(t, commit, k, v)

	id, err = commit.Commit()
	assert.Nil(t, err)
	assert.Equal(t, int64(1), id.Version)
	if len(id.Hash) == 0 {
		t.Fatal("commit must produce an app hash")
	}

	// Discarded changes never reach the tree.
	cache = commit.CacheWrap()
	assert.Nil(t, cache.Set([]byte("other"), []byte("value")))
	cache.Discard()
	assertGet(t, commit, []byte("other"), nil)

	// Written but not committed changes do not survive a restart.
	cache = commit.CacheWrap()
	assert.Nil(t, cache.Set([]byte("pending"), []byte("value")))
	assert.Nil(t, cache.Write())
	commit.Close()

	commit = NewCommitStore(dir, "base")
	defer commit.Close()
	assert.Nil(t, commit.LoadLatestVersion())
	id, err = commit.LatestVersion()
	assert.Nil(t, err)
	assert.Equal(t, int64(1), id.Version)
	assertGet(t, commit, k, v)
	assertGet(t, commit, []byte("pending"), nil)
}

func TestCommitStoreMemoryIterator(t *testing.T) {
	commit := NewCommitStore("", "")
	cache := commit.CacheWrap()
	for _, k := range []string{"b", "a", "c"} {
		assert.Nil(t, cache.Set([]byte(k), []byte(k)))
	}
	assert.Nil(t, cache.Write())
	_, err := commit.Commit()
	assert.Nil(t, err)

	it, err := commit.Adapter().Iterator(nil, nil)
	assert.Nil(t, err)
	defer it.Close()
	var keys []string
	for ; it.Valid(); it.Next() {
		keys = append(keys, string(it.Key()))
	}
	assert.Equal(t, []string{"a", "b", "c"}, keys)
}
