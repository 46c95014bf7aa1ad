package tree

import (
	"sync"

	"github.com/cosmos/iavl"
	dbm "github.com/tendermint/tm-db"
)

type ReadOnlyTree interface {
	Get(key []byte) (value []byte)
	Has(key []byte) bool
	Version() int64
	Hash() []byte
	IterateRange(start, end []byte, ascending bool, fn func(key []byte, value []byte) bool) (stopped bool)
}

type MTree interface {
	ReadOnlyTree
	Set(key, value []byte) bool
	Remove(key []byte) ([]byte, bool)
	SaveVersion() ([]byte, int64, error)
	GlobalLock()
	GlobalUnlock()
}

// NewMutableTree opens the state tree stored in db. With height 0 the latest saved
// version is loaded, otherwise the tree is rewound to height.
func NewMutableTree(height uint64, db dbm.DB, cacheSize int) (MTree, error) {
	tree, err := iavl.NewMutableTree(db, cacheSize)
	if err != nil {
		return nil, err
	}

	if height == 0 {
		if _, err := tree.Load(); err != nil {
			return nil, err
		}
		return &mutableTree{tree: tree}, nil
	}

	if _, err := tree.LoadVersionForOverwriting(int64(height)); err != nil {
		return nil, err
	}

	return &mutableTree{tree: tree}, nil
}

// NewMemTree is a fresh tree over an in-memory database.
func NewMemTree() MTree {
	t, err := NewMutableTree(0, dbm.NewMemDB(), 1024)
	if err != nil {
		panic(err)
	}
	return t
}

type mutableTree struct {
	tree *iavl.MutableTree
	lock sync.RWMutex
	sync.Mutex
}

func (t *mutableTree) GlobalLock() {
	t.Lock()
}

func (t *mutableTree) GlobalUnlock() {
	t.Unlock()
}

func (t *mutableTree) IterateRange(start, end []byte, ascending bool, fn func(key []byte, value []byte) bool) (stopped bool) {
	t.lock.RLock()
	defer t.lock.RUnlock()

	return t.tree.IterateRange(start, end, ascending, fn)
}

// Hash takes the write lock: computing the working hash caches it in the tree nodes.
func (t *mutableTree) Hash() []byte {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.tree.WorkingHash()
}

func (t *mutableTree) Version() int64 {
	t.lock.RLock()
	defer t.lock.RUnlock()

	return t.tree.Version()
}

func (t *mutableTree) Get(key []byte) []byte {
	t.lock.RLock()
	defer t.lock.RUnlock()

	_, value := t.tree.Get(key)
	return value
}

func (t *mutableTree) Has(key []byte) bool {
	t.lock.RLock()
	defer t.lock.RUnlock()

	return t.tree.Has(key)
}

func (t *mutableTree) Set(key, value []byte) bool {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.tree.Set(key, value)
}

func (t *mutableTree) Remove(key []byte) ([]byte, bool) {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.tree.Remove(key)
}

// Should use GlobalLock() and GlobalUnlock
func (t *mutableTree) SaveVersion() ([]byte, int64, error) {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.tree.SaveVersion()
}
