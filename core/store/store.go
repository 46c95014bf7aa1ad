package store

import (
	"github.com/MinterTeam/minter-membership/tree"
	"github.com/pkg/errors"
	dbm "github.com/tendermint/tm-db"
)

// ErrNotFound is returned by Load when a cell holds no value.
var ErrNotFound = errors.New("not found")

// KVStore is the byte level view of persistent state shared by the tree, caches and
// per-instance namespaces. Iterator walks [start, end) in ascending key order, a nil
// end means no upper bound.
type KVStore interface {
	Get(key []byte) []byte
	Has(key []byte) bool
	Set(key, value []byte)
	Delete(key []byte)
	Iterator(start, end []byte) dbm.Iterator
}

// RawQuerier reads a cell of another instance.
type RawQuerier interface {
	QueryRaw(contract string, key []byte) ([]byte, error)
}

type treeStore struct {
	tree tree.MTree
}

// NewTreeStore exposes the working version of t as a KVStore.
func NewTreeStore(t tree.MTree) KVStore {
	return &treeStore{tree: t}
}

func (s *treeStore) Get(key []byte) []byte {
	return s.tree.Get(key)
}

func (s *treeStore) Has(key []byte) bool {
	return s.tree.Has(key)
}

func (s *treeStore) Set(key, value []byte) {
	if value == nil {
		value = []byte{}
	}
	s.tree.Set(key, value)
}

func (s *treeStore) Delete(key []byte) {
	s.tree.Remove(key)
}

func (s *treeStore) Iterator(start, end []byte) dbm.Iterator {
	mem := dbm.NewMemDB()
	s.tree.IterateRange(start, end, true, func(key []byte, value []byte) bool {
		_ = mem.Set(key, value)
		return false
	})
	return mustIterator(mem, start, end)
}

func mustIterator(db dbm.DB, start, end []byte) dbm.Iterator {
	if len(start) == 0 {
		start = nil
	}
	if len(end) == 0 {
		end = nil
	}
	it, err := db.Iterator(start, end)
	if err != nil {
		panic(err)
	}
	return it
}

// PrefixEnd returns the smallest key greater than every key starting with prefix.
func PrefixEnd(prefix []byte) []byte {
	if len(prefix) == 0 {
		return nil
	}

	end := make([]byte, len(prefix))
	copy(end, prefix)
	for {
		if end[len(end)-1] != 0xff {
			end[len(end)-1]++
			return end
		}
		end = end[:len(end)-1]
		if len(end) == 0 {
			return nil
		}
	}
}
