package store

import (
	"encoding/binary"

	"github.com/MinterTeam/minter-membership/core/types"
	"github.com/pkg/errors"
)

// Map is a keyed collection of typed values under a namespace. Composite keys are
// built with Pair so that every key of a given first component shares a prefix.
type Map struct {
	namespace []byte
}

func NewMap(namespace string) Map {
	return Map{namespace: lengthPrefixed([]byte(namespace))}
}

// Key returns the raw storage key of k.
func (m Map) Key(k []byte) []byte {
	key := make([]byte, 0, len(m.namespace)+len(k))
	key = append(key, m.namespace...)
	return append(key, k...)
}

func (m Map) Save(s KVStore, k []byte, v interface{}) error {
	bz, err := types.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "encode %x", m.Key(k))
	}
	s.Set(m.Key(k), bz)
	return nil
}

func (m Map) Has(s KVStore, k []byte) bool {
	return s.Has(m.Key(k))
}

func (m Map) Load(s KVStore, k []byte, ptr interface{}) error {
	ok, err := m.MayLoad(s, k, ptr)
	if err != nil {
		return err
	}
	if !ok {
		return errors.Wrapf(ErrNotFound, "key %x", m.Key(k))
	}
	return nil
}

func (m Map) MayLoad(s KVStore, k []byte, ptr interface{}) (bool, error) {
	key := m.Key(k)
	return decode(s.Get(key), key, ptr)
}

func (m Map) Remove(s KVStore, k []byte) {
	s.Delete(m.Key(k))
}

// Query reads one entry from the storage of another instance.
func (m Map) Query(q RawQuerier, contract string, k []byte, ptr interface{}) (bool, error) {
	key := m.Key(k)
	bz, err := q.QueryRaw(contract, key)
	if err != nil {
		return false, err
	}
	return decode(bz, key, ptr)
}

// Range calls fn in key order for every entry whose key starts with prefix.
// The key passed to fn has the namespace and prefix stripped.
func (m Map) Range(s KVStore, prefix []byte, fn func(key []byte, value []byte) (stop bool, err error)) error {
	start := m.Key(prefix)
	it := s.Iterator(start, PrefixEnd(start))
	defer it.Close()

	for ; it.Valid(); it.Next() {
		key := append([]byte(nil), it.Key()[len(start):]...)
		stop, err := fn(key, it.Value())
		if err != nil {
			return err
		}
		if stop {
			break
		}
	}
	return it.Error()
}

// Keys returns every key under prefix, stripped as in Range.
func (m Map) Keys(s KVStore, prefix []byte) ([][]byte, error) {
	var keys [][]byte
	err := m.Range(s, prefix, func(key []byte, _ []byte) (bool, error) {
		keys = append(keys, key)
		return false, nil
	})
	return keys, err
}

// Pair joins two key components, length prefixing the first one.
func Pair(a, b []byte) []byte {
	key := lengthPrefixed(a)
	return append(key, b...)
}

// Prefix is the range prefix selecting every Pair(a, _).
func Prefix(a []byte) []byte {
	return lengthPrefixed(a)
}

func lengthPrefixed(b []byte) []byte {
	out := make([]byte, 2, 2+len(b))
	binary.BigEndian.PutUint16(out, uint16(len(b)))
	return append(out, b...)
}
