package store

import (
	"bytes"
	"sort"
	"sync"

	dbm "github.com/tendermint/tm-db"
)

type cValue struct {
	value   []byte
	deleted bool
}

// CacheStore buffers writes over a parent store until Write is called.
// Dropping a CacheStore without writing discards everything it holds.
type CacheStore struct {
	parent KVStore

	lock  sync.RWMutex
	dirty map[string]*cValue
}

func NewCacheStore(parent KVStore) *CacheStore {
	return &CacheStore{
		parent: parent,
		dirty:  make(map[string]*cValue),
	}
}

func (c *CacheStore) Get(key []byte) []byte {
	c.lock.RLock()
	defer c.lock.RUnlock()

	if v, ok := c.dirty[string(key)]; ok {
		if v.deleted {
			return nil
		}
		return v.value
	}

	return c.parent.Get(key)
}

func (c *CacheStore) Has(key []byte) bool {
	c.lock.RLock()
	defer c.lock.RUnlock()

	if v, ok := c.dirty[string(key)]; ok {
		return !v.deleted
	}

	return c.parent.Has(key)
}

func (c *CacheStore) Set(key, value []byte) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if value == nil {
		value = []byte{}
	}
	c.dirty[string(key)] = &cValue{value: value}
}

func (c *CacheStore) Delete(key []byte) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.dirty[string(key)] = &cValue{deleted: true}
}

func (c *CacheStore) Iterator(start, end []byte) dbm.Iterator {
	c.lock.RLock()
	defer c.lock.RUnlock()

	mem := dbm.NewMemDB()
	it := c.parent.Iterator(start, end)
	for ; it.Valid(); it.Next() {
		_ = mem.Set(it.Key(), it.Value())
	}
	_ = it.Close()

	for key, v := range c.dirty {
		k := []byte(key)
		if !inRange(k, start, end) {
			continue
		}
		if v.deleted {
			_ = mem.Delete(k)
			continue
		}
		_ = mem.Set(k, v.value)
	}

	return mustIterator(mem, start, end)
}

// Write flushes buffered writes to the parent in key order and resets the cache.
func (c *CacheStore) Write() {
	c.lock.Lock()
	defer c.lock.Unlock()

	keys := make([]string, 0, len(c.dirty))
	for key := range c.dirty {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		v := c.dirty[key]
		if v.deleted {
			c.parent.Delete([]byte(key))
			continue
		}
		c.parent.Set([]byte(key), v.value)
	}

	c.dirty = make(map[string]*cValue)
}

func inRange(key, start, end []byte) bool {
	if start != nil && bytes.Compare(key, start) < 0 {
		return false
	}
	if end != nil && bytes.Compare(key, end) >= 0 {
		return false
	}
	return true
}
