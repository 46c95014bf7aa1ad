package events

import (
	"testing"

	abci "github.com/tendermint/tendermint/abci/types"
	db "github.com/tendermint/tm-db"
)

func wasmEvent(contract, action string) abci.Event {
	return abci.Event{
		Type: "wasm",
		Attributes: []abci.EventAttribute{
			{Key: []byte("_contract_address"), Value: []byte(contract)},
			{Key: []byte("action"), Value: []byte(action)},
		},
	}
}

func TestIEventsDB(t *testing.T) {
	store := NewEventsStore(db.NewMemDB())

	store.AddResult(abci.ResponseDeliverTx{Events: []abci.Event{wasmEvent("mx1a", "donate")}})
	store.AddResult(abci.ResponseDeliverTx{Code: 703, Log: "Already voted on this proposal"})
	if err := store.CommitEvents(12); err != nil {
		t.Fatal(err)
	}

	store.AddResult(abci.ResponseDeliverTx{Events: []abci.Event{wasmEvent("mx1b", "close"), wasmEvent("mx1c", "withdraw")}})
	if err := store.CommitEvents(14); err != nil {
		t.Fatal(err)
	}

	results, err := store.LoadResults(12)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("count of results not equal 2, got %d", len(results))
	}
	if results[1].Code != 703 {
		t.Fatalf("second result code is %d", results[1].Code)
	}

	events, err := store.LoadEvents(14)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 2 {
		t.Fatalf("count of events not equal 2, got %d", len(events))
	}
	if string(events[1].Attributes[1].Value) != "withdraw" {
		t.Fatalf("unexpected attribute %s", events[1].Attributes[1].Value)
	}

	empty, err := store.LoadEvents(13)
	if err != nil {
		t.Fatal(err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected no events at 13, got %d", len(empty))
	}
}
