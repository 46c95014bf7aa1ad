package host

import (
	"github.com/MinterTeam/minter-membership/core/code"
	"github.com/MinterTeam/minter-membership/core/store"
	"github.com/MinterTeam/minter-membership/core/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/pkg/errors"
)

// querier reads through the store of the running unit, so queries issued from inside
// a unit observe its own uncommitted writes.
type querier struct {
	app   *App
	store store.KVStore
	block BlockInfo
}

func (q *querier) QueryRaw(contract string, key []byte) ([]byte, error) {
	addr, _, err := loadInstance(q.store, contract)
	if err != nil {
		return nil, err
	}
	return instanceStore(q.store, addr).Get(key), nil
}

func (q *querier) QuerySmart(contract string, msg []byte) ([]byte, error) {
	addr, instance, err := loadInstance(q.store, contract)
	if err != nil {
		return nil, err
	}
	program, err := q.app.code(instance.CodeID)
	if err != nil {
		return nil, err
	}

	deps := Deps{Storage: instanceStore(q.store, addr), Querier: q, API: api{}}
	res, err := program.contract.Query(deps, Env{Block: q.block, Contract: ContractInfo{Address: contract}}, msg)
	if err != nil {
		return nil, errors.Wrapf(err, "query %s", program.name)
	}
	return res, nil
}

func (q *querier) QueryBalance(address, denom string) (sdk.Coin, error) {
	addr, err := types.ParseAddress(address)
	if err != nil {
		return sdk.Coin{}, code.NewInvalidAddress(address, err.Error())
	}
	if err := sdk.ValidateDenom(denom); err != nil {
		return sdk.Coin{}, code.NewInvalidDenom(denom)
	}
	return sdk.NewCoin(denom, bank{}.balance(q.store, addr, denom)), nil
}

type api struct{}

func (api) AddrValidate(address string) (types.Address, error) {
	addr, err := types.ParseAddress(address)
	if err != nil {
		return types.Address{}, code.NewInvalidAddress(address, err.Error())
	}
	return addr, nil
}
