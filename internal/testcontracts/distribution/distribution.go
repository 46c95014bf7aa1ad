// Package distribution is a minimal stand-in for the distribution contract proxies
// send their shares to. It keeps distributed funds in a pool and pays out credits
// granted by hand when a proxy asks to withdraw.
package distribution

import (
	"errors"

	"github.com/MinterTeam/minter-membership/core/code"
	"github.com/MinterTeam/minter-membership/core/host"
	"github.com/MinterTeam/minter-membership/core/store"
	"github.com/MinterTeam/minter-membership/core/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

type InstantiateMsg struct {
	Denom string `json:"denom"`
}

type ExecuteMsg struct {
	Distribute *Distribute `json:"distribute,omitempty"`
	Withdraw   *Withdraw   `json:"withdraw,omitempty"`
	Credit     *Credit     `json:"credit,omitempty"`
	SetFailing *SetFailing `json:"set_failing,omitempty"`
}

type Distribute struct{}

type Withdraw struct {
	Weight uint64 `json:"weight"`
	Diff   int64  `json:"diff"`
}

type Credit struct {
	Addr   string `json:"addr"`
	Amount string `json:"amount"`
}

type SetFailing struct {
	Failing bool `json:"failing"`
}

type QueryMsg struct {
	LastWithdraw *LastWithdraw `json:"last_withdraw,omitempty"`
	Pool         *Pool         `json:"pool,omitempty"`
}

type LastWithdraw struct {
	Addr string `json:"addr"`
}

type Pool struct{}

type LastWithdrawResponse struct {
	Found  bool   `json:"found"`
	Weight uint64 `json:"weight"`
	Diff   int64  `json:"diff"`
	Count  uint64 `json:"count"`
}

type PoolResponse struct {
	Amount string `json:"amount"`
}

type withdrawal struct {
	Weight uint64 `json:"weight"`
	Diff   int64  `json:"diff"`
	Count  uint64 `json:"count"`
}

var (
	denomItem   = store.NewItem("denom")
	poolItem    = store.NewItem("pool")
	failingItem = store.NewItem("failing")
	credits     = store.NewMap("credits")
	withdrawals = store.NewMap("withdrawals")
)

var errFailing = errors.New("distribution is failing")

type Contract struct{}

func New() *Contract {
	return &Contract{}
}

func (Contract) Instantiate(deps host.Deps, env host.Env, info host.MessageInfo, raw []byte) (*host.Response, error) {
	var msg InstantiateMsg
	if err := types.Unmarshal(raw, &msg); err != nil {
		return nil, code.NewDecodeError(err.Error())
	}
	if err := denomItem.Save(deps.Storage, msg.Denom); err != nil {
		return nil, err
	}
	if err := poolItem.Save(deps.Storage, "0"); err != nil {
		return nil, err
	}
	return host.NewResponse().AddAttribute("action", "instantiate"), nil
}

func (c Contract) Execute(deps host.Deps, env host.Env, info host.MessageInfo, raw []byte) (*host.Response, error) {
	var msg ExecuteMsg
	if err := types.Unmarshal(raw, &msg); err != nil {
		return nil, code.NewDecodeError(err.Error())
	}

	if msg.SetFailing != nil {
		if err := failingItem.Save(deps.Storage, msg.SetFailing.Failing); err != nil {
			return nil, err
		}
		return host.NewResponse().AddAttribute("action", "set_failing"), nil
	}

	var failing bool
	if _, err := failingItem.MayLoad(deps.Storage, &failing); err != nil {
		return nil, err
	}
	if failing {
		return nil, errFailing
	}

	var denom string
	if err := denomItem.Load(deps.Storage, &denom); err != nil {
		return nil, err
	}

	switch {
	case msg.Distribute != nil:
		amount := info.Funds.AmountOf(denom)
		pool, err := addPool(deps.Storage, amount)
		if err != nil {
			return nil, err
		}
		return host.NewResponse().
			AddAttribute("action", "distribute").
			AddAttribute("amount", amount.String()).
			AddAttribute("pool", pool.String()), nil
	case msg.Withdraw != nil:
		return c.withdraw(deps, info, denom, *msg.Withdraw)
	case msg.Credit != nil:
		addr, err := deps.API.AddrValidate(msg.Credit.Addr)
		if err != nil {
			return nil, err
		}
		amount, ok := sdk.NewIntFromString(msg.Credit.Amount)
		if !ok || !amount.IsPositive() {
			return nil, code.NewInvalidAmount(msg.Credit.Amount)
		}
		total := amount.Add(credit(deps.Storage, addr))
		if err := credits.Save(deps.Storage, addr.Bytes(), total.String()); err != nil {
			return nil, err
		}
		return host.NewResponse().AddAttribute("action", "credit").AddAttribute("amount", total.String()), nil
	}
	return nil, code.NewUnknownMessage(env.Contract.Address)
}

func (Contract) withdraw(deps host.Deps, info host.MessageInfo, denom string, msg Withdraw) (*host.Response, error) {
	sender, err := deps.API.AddrValidate(info.Sender)
	if err != nil {
		return nil, err
	}

	var last withdrawal
	if _, err := withdrawals.MayLoad(deps.Storage, sender.Bytes(), &last); err != nil {
		return nil, err
	}
	last = withdrawal{Weight: msg.Weight, Diff: msg.Diff, Count: last.Count + 1}
	if err := withdrawals.Save(deps.Storage, sender.Bytes(), last); err != nil {
		return nil, err
	}

	res := host.NewResponse().AddAttribute("action", "withdraw")

	owed := credit(deps.Storage, sender)
	if !owed.IsPositive() {
		return res, nil
	}
	credits.Remove(deps.Storage, sender.Bytes())
	if _, err := addPool(deps.Storage, owed.Neg()); err != nil {
		return nil, err
	}

	return res.AddAttribute("paid", owed.String()).
		AddMessage(host.NewBankSend(info.Sender, sdk.NewCoins(sdk.NewCoin(denom, owed)))), nil
}

func (Contract) Query(deps host.Deps, env host.Env, raw []byte) ([]byte, error) {
	var msg QueryMsg
	if err := types.Unmarshal(raw, &msg); err != nil {
		return nil, code.NewDecodeError(err.Error())
	}

	switch {
	case msg.LastWithdraw != nil:
		addr, err := deps.API.AddrValidate(msg.LastWithdraw.Addr)
		if err != nil {
			return nil, err
		}
		var last withdrawal
		found, err := withdrawals.MayLoad(deps.Storage, addr.Bytes(), &last)
		if err != nil {
			return nil, err
		}
		return types.Marshal(LastWithdrawResponse{Found: found, Weight: last.Weight, Diff: last.Diff, Count: last.Count})
	case msg.Pool != nil:
		var pool string
		if err := poolItem.Load(deps.Storage, &pool); err != nil {
			return nil, err
		}
		return types.Marshal(PoolResponse{Amount: pool})
	}
	return nil, code.NewUnsupportedQuery(env.Contract.Address)
}

func (Contract) Reply(deps host.Deps, env host.Env, rep host.Reply) (*host.Response, error) {
	return nil, code.NewUnrecognizedReplyID("distribution")
}

func credit(s store.KVStore, addr types.Address) sdk.Int {
	var amount string
	if ok, _ := credits.MayLoad(s, addr.Bytes(), &amount); !ok {
		return sdk.ZeroInt()
	}
	v, ok := sdk.NewIntFromString(amount)
	if !ok {
		return sdk.ZeroInt()
	}
	return v
}

func addPool(s store.KVStore, delta sdk.Int) (sdk.Int, error) {
	var pool string
	if err := poolItem.Load(s, &pool); err != nil {
		return sdk.Int{}, err
	}
	current, ok := sdk.NewIntFromString(pool)
	if !ok {
		current = sdk.ZeroInt()
	}
	current = current.Add(delta)
	if current.IsNegative() {
		current = sdk.ZeroInt()
	}
	return current, poolItem.Save(s, current.String())
}
