// Package testutil provides host.Deps for calling contract entry points directly,
// without an App in between.
package testutil

import (
	"time"

	"github.com/MinterTeam/minter-membership/core/code"
	"github.com/MinterTeam/minter-membership/core/host"
	"github.com/MinterTeam/minter-membership/core/store"
	"github.com/MinterTeam/minter-membership/core/types"
	"github.com/MinterTeam/minter-membership/tree"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Querier answers raw queries from per-contract cells set by the test.
type Querier struct {
	Cells    map[string]map[string][]byte
	Balances map[string]sdk.Int
}

func NewQuerier() *Querier {
	return &Querier{Cells: make(map[string]map[string][]byte), Balances: make(map[string]sdk.Int)}
}

// SetCell stores v encoded under key for contract.
func (q *Querier) SetCell(contract string, key []byte, v interface{}) {
	cells, ok := q.Cells[contract]
	if !ok {
		cells = make(map[string][]byte)
		q.Cells[contract] = cells
	}
	cells[string(key)] = types.MustMarshal(v)
}

func (q *Querier) QueryRaw(contract string, key []byte) ([]byte, error) {
	cells, ok := q.Cells[contract]
	if !ok {
		return nil, code.NewContractNotFound(contract)
	}
	return cells[string(key)], nil
}

func (q *Querier) QuerySmart(contract string, msg []byte) ([]byte, error) {
	return nil, code.NewUnsupportedQuery(contract)
}

func (q *Querier) QueryBalance(address, denom string) (sdk.Coin, error) {
	amount, ok := q.Balances[address]
	if !ok {
		amount = sdk.ZeroInt()
	}
	return sdk.NewCoin(denom, amount), nil
}

type API struct{}

func (API) AddrValidate(address string) (types.Address, error) {
	addr, err := types.ParseAddress(address)
	if err != nil {
		return types.Address{}, code.NewInvalidAddress(address, err.Error())
	}
	return addr, nil
}

// Deps returns fresh in-memory storage together with q.
func Deps(q *Querier) host.Deps {
	return host.Deps{
		Storage: store.NewCacheStore(store.NewTreeStore(tree.NewMemTree())),
		Querier: q,
		API:     API{},
	}
}

func Env(contract string, t time.Time) host.Env {
	return host.Env{Block: host.BlockInfo{Height: 1, Time: t}, Contract: host.ContractInfo{Address: contract}}
}

// Addr is a deterministic address for fixtures.
func Addr(name string) string {
	return types.StringToAddress(name).String()
}
