package weavetest

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/fymoney/weave/store/iavl"
)

// DiskStore is an iavl store persisted in a temporary directory, the same
// engine a node runs on.
type DiskStore struct {
	*iavl.CommitStore

	t    testing.TB
	path string
}

// CommitKVStore returns a store using a filesystem backend. Use it instead
// of MemStore when data must survive a restart. Call cleanup when done.
func CommitKVStore(t testing.TB) (db *DiskStore, cleanup func()) {
	t.Helper()
	dbpath, err := ioutil.TempDir("", "weavetest-")
	if err != nil {
		t.Fatalf("cannot create a temporary directory: %s", err)
	}
	db = &DiskStore{
		CommitStore: iavl.NewCommitStore(dbpath, "db"),
		t:           t,
		path:        dbpath,
	}
	return db, func() {
		db.Close()
		os.RemoveAll(dbpath)
	}
}

// Reopen closes the store and loads the last committed version from disk,
// as a restarted node would. Uncommitted changes are lost.
func (s *DiskStore) Reopen() {
	s.t.Helper()
	s.Close()
	s.CommitStore = iavl.NewCommitStore(s.path, "db")
	if err := s.LoadLatestVersion(); err != nil {
		s.t.Fatalf("cannot load latest version: %s", err)
	}
}
