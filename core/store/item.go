package store

import (
	"github.com/MinterTeam/minter-membership/core/types"
	"github.com/pkg/errors"
)

// Item is a single typed value stored under a fixed key.
type Item struct {
	key []byte
}

func NewItem(key string) Item {
	return Item{key: []byte(key)}
}

func (i Item) Key() []byte {
	return i.key
}

func (i Item) Save(s KVStore, v interface{}) error {
	bz, err := types.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "encode %s", i.key)
	}
	s.Set(i.key, bz)
	return nil
}

// Load decodes the value into ptr, failing with ErrNotFound when the cell is empty.
func (i Item) Load(s KVStore, ptr interface{}) error {
	ok, err := i.MayLoad(s, ptr)
	if err != nil {
		return err
	}
	if !ok {
		return errors.Wrapf(ErrNotFound, "item %s", i.key)
	}
	return nil
}

func (i Item) MayLoad(s KVStore, ptr interface{}) (bool, error) {
	return decode(s.Get(i.key), i.key, ptr)
}

func (i Item) Exists(s KVStore) bool {
	return s.Has(i.key)
}

func (i Item) Remove(s KVStore) {
	s.Delete(i.key)
}

// Query reads the item from the storage of another instance.
func (i Item) Query(q RawQuerier, contract string, ptr interface{}) (bool, error) {
	bz, err := q.QueryRaw(contract, i.key)
	if err != nil {
		return false, err
	}
	return decode(bz, i.key, ptr)
}

func decode(bz []byte, key []byte, ptr interface{}) (bool, error) {
	if len(bz) == 0 {
		return false, nil
	}
	if err := types.Unmarshal(bz, ptr); err != nil {
		return false, errors.Wrapf(err, "decode %x", key)
	}
	return true, nil
}
