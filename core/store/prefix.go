package store

import (
	dbm "github.com/tendermint/tm-db"
)

type prefixStore struct {
	parent KVStore
	prefix []byte
}

// NewPrefixStore namespaces every key of parent under prefix.
func NewPrefixStore(parent KVStore, prefix []byte) KVStore {
	return &prefixStore{parent: parent, prefix: prefix}
}

func (s *prefixStore) key(key []byte) []byte {
	k := make([]byte, 0, len(s.prefix)+len(key))
	k = append(k, s.prefix...)
	return append(k, key...)
}

func (s *prefixStore) Get(key []byte) []byte {
	return s.parent.Get(s.key(key))
}

func (s *prefixStore) Has(key []byte) bool {
	return s.parent.Has(s.key(key))
}

func (s *prefixStore) Set(key, value []byte) {
	s.parent.Set(s.key(key), value)
}

func (s *prefixStore) Delete(key []byte) {
	s.parent.Delete(s.key(key))
}

func (s *prefixStore) Iterator(start, end []byte) dbm.Iterator {
	pstart := s.key(start)
	var pend []byte
	if end == nil {
		pend = PrefixEnd(s.prefix)
	} else {
		pend = s.key(end)
	}

	mem := dbm.NewMemDB()
	it := s.parent.Iterator(pstart, pend)
	for ; it.Valid(); it.Next() {
		_ = mem.Set(it.Key()[len(s.prefix):], it.Value())
	}
	_ = it.Close()

	return mustIterator(mem, start, end)
}
