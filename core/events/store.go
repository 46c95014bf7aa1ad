package events

import (
	"encoding/binary"
	"sync"

	abci "github.com/tendermint/tendermint/abci/types"
	db "github.com/tendermint/tm-db"
)

// IEventsDB keeps the result of every unit of work grouped by the height it was executed at.
type IEventsDB interface {
	AddResult(result abci.ResponseDeliverTx)
	LoadResults(height uint64) ([]abci.ResponseDeliverTx, error)
	LoadEvents(height uint64) ([]abci.Event, error)
	CommitEvents(height uint64) error
}

type eventsStore struct {
	db db.DB

	lock    sync.Mutex
	pending []abci.ResponseDeliverTx
}

func NewEventsStore(db db.DB) IEventsDB {
	return &eventsStore{db: db}
}

func (store *eventsStore) AddResult(result abci.ResponseDeliverTx) {
	store.lock.Lock()
	defer store.lock.Unlock()

	store.pending = append(store.pending, result)
}

// CommitEvents flushes every pending result under height.
func (store *eventsStore) CommitEvents(height uint64) error {
	store.lock.Lock()
	defer store.lock.Unlock()

	batch := store.db.NewBatch()
	defer batch.Close()

	for i, result := range store.pending {
		bytes, err := result.Marshal()
		if err != nil {
			return err
		}
		if err := batch.Set(resultKey(height, uint32(i)), bytes); err != nil {
			return err
		}
	}

	if err := batch.WriteSync(); err != nil {
		return err
	}

	store.pending = nil
	return nil
}

func (store *eventsStore) LoadResults(height uint64) ([]abci.ResponseDeliverTx, error) {
	start := resultKey(height, 0)
	end := resultKey(height+1, 0)

	it, err := store.db.Iterator(start, end)
	if err != nil {
		return nil, err
	}
	defer it.Close()

	var results []abci.ResponseDeliverTx
	for ; it.Valid(); it.Next() {
		var result abci.ResponseDeliverTx
		if err := result.Unmarshal(it.Value()); err != nil {
			return nil, err
		}
		results = append(results, result)
	}

	return results, it.Error()
}

func (store *eventsStore) LoadEvents(height uint64) ([]abci.Event, error) {
	results, err := store.LoadResults(height)
	if err != nil {
		return nil, err
	}

	events := make([]abci.Event, 0)
	for _, result := range results {
		events = append(events, result.Events...)
	}
	return events, nil
}

func resultKey(height uint64, index uint32) []byte {
	var h = make([]byte, 12)
	binary.BigEndian.PutUint64(h, height)
	binary.BigEndian.PutUint32(h[8:], index)

	return h
}
