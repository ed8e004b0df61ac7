package store

import (
	"bytes"
	"sync"

	"github.com/fymoney/weave/errors"
	"github.com/google/btree"
)

const (
	// DefaultFreeListSize is the size we hold for free node in btree
	DefaultFreeListSize = btree.DefaultFreeListSize
)

// BTreeCacheable adds a simple btree-based CacheWrap
// strategy to a KVStore
type BTreeCacheable struct {
	KVStore
}

var _ CacheableKVStore = BTreeCacheable{}

// CacheWrap returns a BTreeCacheWrap that can be later
// written to this store, or rolled back
func (b BTreeCacheable) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b.KVStore, b.NewBatch(), nil)
}

// MemStore returns a simple in-memory store. Writes of a top level cache
// wrap are kept, so it can back an application in tests. There is no
// persistence here....
func MemStore() CacheableKVStore {
	return BTreeCacheable{KVStore: newMemKVStore()}
}

// memKVStore is the root of the in-memory store. Unlike a cache wrap it
// does not track deletions, it simply forgets removed keys.
type memKVStore struct {
	mu sync.RWMutex
	bt *btree.BTree
}

func newMemKVStore() *memKVStore {
	return &memKVStore{bt: btree.New(2)}
}

var _ KVStore = (*memKVStore)(nil)

func (m *memKVStore) Get(key []byte) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if res, ok := m.bt.Get(bkey{key}).(setItem); ok {
		return res.value, nil
	}
	return nil, nil
}

func (m *memKVStore) Has(key []byte) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.bt.Has(bkey{key}), nil
}

func (m *memKVStore) Set(key, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bt.ReplaceOrInsert(newSetItem(key, value))
	return nil
}

func (m *memKVStore) Delete(key []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bt.Delete(bkey{key})
	return nil
}

func (m *memKVStore) NewBatch() Batch {
	return NewNonAtomicBatch(m)
}

func (m *memKVStore) Iterator(start, end []byte) (Iterator, error) {
	return m.iterator(start, end, false), nil
}

func (m *memKVStore) ReverseIterator(start, end []byte) (Iterator, error) {
	return m.iterator(start, end, true), nil
}

func (m *memKVStore) iterator(start, end []byte, reverse bool) Iterator {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var res []Model
	m.bt.Ascend(func(i btree.Item) bool {
		item := i.(setItem)
		if inRange(item.key, start, end) {
			res = append(res, Model{Key: item.key, Value: item.value})
		}
		return true
	})
	sortModels(res, reverse)
	return NewSliceIterator(res)
}

///////////////////////////////////////////////
// Actual CacheWrap implementation

// BTreeCacheWrap places a btree cache over a KVStore
type BTreeCacheWrap struct {
	bt    *btree.BTree
	free  *btree.FreeList
	back  ReadOnlyKVStore
	batch Batch
}

var _ KVCacheWrap = BTreeCacheWrap{}

// NewBTreeCacheWrap initializes a BTree to cache around this
// kv store. Use ReadOnlyKVStore to emphasize that all writes
// must go through the Batch.
//
// free may be nil, but set to an existing list to reuse it
// for memory savings
func NewBTreeCacheWrap(kv ReadOnlyKVStore, batch Batch, free *btree.FreeList) BTreeCacheWrap {
	if free == nil {
		free = btree.NewFreeList(DefaultFreeListSize)
	}
	return BTreeCacheWrap{
		bt:    btree.NewWithFreeList(2, free),
		free:  free,
		back:  kv,
		batch: batch,
	}
}

// CacheWrap layers another BTree on top of this one.
// Don't change horses in mid-stream....
//
// Uses NonAtomicBatch as it is only backed by another in-memory batch
func (b BTreeCacheWrap) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b, b.NewBatch(), b.free)
}

// NewBatch returns a non-atomic batch that eventually may write to
// our cachewrap
func (b BTreeCacheWrap) NewBatch() Batch {
	return NewNonAtomicBatch(b)
}

// Write syncs with the underlying store.
// And then cleans up
func (b BTreeCacheWrap) Write() error {
	err := b.batch.Write()
	b.Discard()
	return err
}

// Discard invalidates this CacheWrap and releases all data
func (b BTreeCacheWrap) Discard() {
	// clean up the btree -> freelist
	for stop := false; !stop; {
		rem := b.bt.DeleteMin()
		stop = (rem == nil)
	}
}

// Set writes to the BTree and to the batch
func (b BTreeCacheWrap) Set(key, value []byte) error {
	b.bt.ReplaceOrInsert(newSetItem(key, value))
	return b.batch.Set(key, value)
}

// Delete deletes from the BTree and to the batch
func (b BTreeCacheWrap) Delete(key []byte) error {
	b.bt.ReplaceOrInsert(newDeletedItem(key))
	return b.batch.Delete(key)
}

// Get reads from btree if there, else backing store
func (b BTreeCacheWrap) Get(key []byte) ([]byte, error) {
	res := b.bt.Get(bkey{key})
	if res != nil {
		switch t := res.(type) {
		case setItem:
			return t.value, nil
		case deletedItem:
			return nil, nil
		default:
			return nil, errors.Wrapf(errors.ErrDatabase, "Unknown item in btree: %#v", res)
		}
	}
	return b.back.Get(key)
}

// Has reads from btree if there, else backing store
func (b BTreeCacheWrap) Has(key []byte) (bool, error) {
	res := b.bt.Get(bkey{key})
	if res != nil {
		switch res.(type) {
		case setItem:
			return true, nil
		case deletedItem:
			return false, nil
		default:
			return false, errors.Wrapf(errors.ErrDatabase, "Unknown item in btree: %#v", res)
		}
	}
	return b.back.Has(key)
}

// Iterator over a domain of keys in ascending order.
// Combines results from btree and backing store
func (b BTreeCacheWrap) Iterator(start, end []byte) (Iterator, error) {
	return b.merge(start, end, false)
}

// ReverseIterator over a domain of keys in descending order.
// Combines results from btree and backing store
func (b BTreeCacheWrap) ReverseIterator(start, end []byte) (Iterator, error) {
	return b.merge(start, end, true)
}

// merge reads the whole range from the backing store and applies all
// cached writes and deletes on top of it.
func (b BTreeCacheWrap) merge(start, end []byte, reverse bool) (Iterator, error) {
	parent, err := b.back.Iterator(start, end)
	if err != nil {
		return nil, err
	}
	defer parent.Close()

	merged := make(map[string]Model)
	for ; parent.Valid(); parent.Next() {
		merged[string(parent.Key())] = Model{Key: parent.Key(), Value: parent.Value()}
	}

	b.bt.Ascend(func(i btree.Item) bool {
		switch t := i.(type) {
		case setItem:
			if inRange(t.key, start, end) {
				merged[string(t.key)] = Model{Key: t.key, Value: t.value}
			}
		case deletedItem:
			delete(merged, string(t.key))
		}
		return true
	})

	res := make([]Model, 0, len(merged))
	for _, m := range merged {
		res = append(res, m)
	}
	sortModels(res, reverse)
	return NewSliceIterator(res), nil
}

/////////////////////////////////////////////////////////
// Items to write to btree

// we enforce all data in our btree implements keyer so we
// can compare nicely
type keyer interface {
	Key() []byte
}

// bkey implements keyer and btree.Item
// and may be used for queries or embedded in data to store
type bkey struct {
	key []byte
}

var _ keyer = bkey{}
var _ btree.Item = bkey{}

func (k bkey) Key() []byte {
	return k.key
}

// Less returns true iff second argument is greater than first
//
// panics if the item to compare doesn't implement keyer.
func (k bkey) Less(item btree.Item) bool {
	cmp := item.(keyer).Key()
	return bytes.Compare(k.key, cmp) < 0
}

type deletedItem struct {
	bkey
}

func newDeletedItem(key []byte) deletedItem {
	return deletedItem{bkey{key}}
}

type setItem struct {
	bkey
	value []byte
}

func newSetItem(key, value []byte) setItem {
	return setItem{bkey{key}, value}
}
