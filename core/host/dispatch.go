package host

import (
	"strconv"

	"github.com/MinterTeam/minter-membership/core/code"
	"github.com/MinterTeam/minter-membership/core/store"
	"github.com/MinterTeam/minter-membership/core/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/pkg/errors"
	"github.com/tendermint/tendermint/libs/log"
)

// unit is one unit of work in progress. Every sub-operation runs in a cache nested
// over the store of its issuer and is merged back only on success.
type unit struct {
	app    *App
	store  *store.CacheStore
	logger log.Logger
	block  BlockInfo
}

func (u *unit) deps(s store.KVStore, addr types.Address) Deps {
	return Deps{
		Storage: instanceStore(s, addr),
		Querier: &querier{app: u.app, store: s, block: u.block},
		API:     api{},
	}
}

func (u *unit) env(contract string) Env {
	return Env{Block: u.block, Contract: ContractInfo{Address: contract}}
}

func (u *unit) instantiate(s store.KVStore, depth int, sender string, msg *InstantiateMsg) (*AppResponse, error) {
	if depth > u.app.maxDepth {
		return nil, code.NewMaxDepthExceeded(strconv.Itoa(u.app.maxDepth))
	}

	program, err := u.app.code(msg.CodeID)
	if err != nil {
		return nil, err
	}

	seq, err := nextInstanceSeq(s)
	if err != nil {
		return nil, err
	}
	addr := instanceAddress(msg.CodeID, seq)
	contract := addr.String()

	if err := saveInstance(s, addr, Instance{Address: contract, CodeID: msg.CodeID, Seq: seq, Creator: sender, Admin: msg.Admin, Label: msg.Label}); err != nil {
		return nil, err
	}

	if err := u.transfer(s, sender, addr, msg.Funds); err != nil {
		return nil, err
	}

	u.logger.Debug("instantiate", "code", program.name, "contract", contract, "sender", sender, "depth", depth)

	res, err := program.contract.Instantiate(u.deps(s, addr), u.env(contract), MessageInfo{Sender: sender, Funds: msg.Funds}, msg.Msg)
	if err != nil {
		return nil, errors.Wrapf(err, "instantiate %s", program.name)
	}

	out, err := u.handle(s, depth, contract, res)
	if err != nil {
		return nil, err
	}

	instantiated := Event{Type: "instantiate", Attributes: []Attribute{
		{Key: "_contract_address", Value: contract},
		{Key: "code_id", Value: strconv.FormatUint(msg.CodeID, 10)},
	}}
	return &AppResponse{Address: contract, Events: append([]Event{instantiated}, out.Events...), Data: out.Data}, nil
}

func (u *unit) execute(s store.KVStore, depth int, sender string, msg *ExecuteMsg) (*SubMsgResponse, error) {
	if depth > u.app.maxDepth {
		return nil, code.NewMaxDepthExceeded(strconv.Itoa(u.app.maxDepth))
	}

	addr, instance, err := loadInstance(s, msg.ContractAddr)
	if err != nil {
		return nil, err
	}
	program, err := u.app.code(instance.CodeID)
	if err != nil {
		return nil, err
	}

	if err := u.transfer(s, sender, addr, msg.Funds); err != nil {
		return nil, err
	}

	u.logger.Debug("execute", "code", program.name, "contract", msg.ContractAddr, "sender", sender, "depth", depth)

	res, err := program.contract.Execute(u.deps(s, addr), u.env(msg.ContractAddr), MessageInfo{Sender: sender, Funds: msg.Funds}, msg.Msg)
	if err != nil {
		return nil, errors.Wrapf(err, "execute %s", program.name)
	}

	out, err := u.handle(s, depth, msg.ContractAddr, res)
	if err != nil {
		return nil, err
	}

	executed := Event{Type: "execute", Attributes: []Attribute{{Key: "_contract_address", Value: msg.ContractAddr}}}
	out.Events = append([]Event{executed}, out.Events...)
	return out, nil
}

// handle turns a contract response into events and dispatches its messages in order.
// A continuation that returns data replaces the data of the response.
func (u *unit) handle(s store.KVStore, depth int, contract string, res *Response) (*SubMsgResponse, error) {
	if res == nil {
		res = NewResponse()
	}

	evs := contractEvents(contract, res)
	data := res.Data

	for _, sub := range res.Messages {
		subEvents, subData, err := u.dispatch(s, depth, contract, sub)
		if err != nil {
			return nil, err
		}
		evs = append(evs, subEvents...)
		if subData != nil {
			data = subData
		}
	}

	return &SubMsgResponse{Events: evs, Data: data}, nil
}

func (u *unit) dispatch(s store.KVStore, depth int, contract string, sub SubMsg) ([]Event, []byte, error) {
	cache := store.NewCacheStore(s)

	res, err := u.dispatchMsg(cache, depth+1, contract, sub.Msg)
	u.app.metrics.SubMessages.WithLabelValues(sub.Msg.kind(), result(err)).Inc()

	if err == nil {
		cache.Write()
		if !sub.ReplyOn.onSuccess() {
			return res.Events, nil, nil
		}
		return u.reply(s, depth, contract, Reply{ID: sub.ID, Result: SubMsgResult{Ok: res}}, res.Events)
	}

	u.logger.Debug("sub-operation failed", "contract", contract, "id", sub.ID, "err", err)
	if !sub.ReplyOn.onError() {
		return nil, nil, err
	}
	return u.reply(s, depth, contract, Reply{ID: sub.ID, Result: SubMsgResult{Err: err.Error()}}, nil)
}

func (u *unit) dispatchMsg(s store.KVStore, depth int, contract string, msg CosmosMsg) (*SubMsgResponse, error) {
	switch {
	case msg.Execute != nil:
		return u.execute(s, depth, contract, msg.Execute)
	case msg.Instantiate != nil:
		res, err := u.instantiate(s, depth, contract, msg.Instantiate)
		if err != nil {
			return nil, err
		}
		data, err := types.Marshal(InstantiateResponseData{ContractAddress: res.Address, Data: res.Data})
		if err != nil {
			return nil, err
		}
		return &SubMsgResponse{Events: res.Events, Data: data}, nil
	case msg.BankSend != nil:
		from := types.MustParseAddress(contract)
		to, err := types.ParseAddress(msg.BankSend.ToAddress)
		if err != nil {
			return nil, code.NewInvalidAddress(msg.BankSend.ToAddress, err.Error())
		}
		if err := (bank{}).send(s, from, to, msg.BankSend.Amount); err != nil {
			return nil, err
		}
		return &SubMsgResponse{Events: []Event{transferEvent(contract, msg.BankSend.ToAddress, msg.BankSend.Amount)}}, nil
	}
	return nil, code.NewUnknownMessage(contract)
}

func (u *unit) reply(s store.KVStore, depth int, contract string, rep Reply, evs []Event) ([]Event, []byte, error) {
	addr, instance, err := loadInstance(s, contract)
	if err != nil {
		return nil, nil, err
	}
	program, err := u.app.code(instance.CodeID)
	if err != nil {
		return nil, nil, err
	}

	id := strconv.FormatUint(rep.ID, 10)
	res, err := program.contract.Reply(u.deps(s, addr), u.env(contract), rep)
	u.app.metrics.Replies.WithLabelValues(id, result(err)).Inc()
	if err != nil {
		return nil, nil, errors.Wrapf(err, "reply %s to %s", id, program.name)
	}

	u.logger.Debug("reply", "code", program.name, "contract", contract, "id", rep.ID, "failed", rep.Result.IsErr())

	out, err := u.handle(s, depth, contract, res)
	if err != nil {
		return nil, nil, err
	}

	replied := Event{Type: "reply", Attributes: []Attribute{
		{Key: "_contract_address", Value: contract},
		{Key: "mode", Value: replyMode(rep.Result)},
	}}
	evs = append(evs, replied)
	return append(evs, out.Events...), out.Data, nil
}

func (u *unit) transfer(s store.KVStore, sender string, to types.Address, funds sdk.Coins) error {
	if funds.Empty() {
		return nil
	}

	from, err := types.ParseAddress(sender)
	if err != nil {
		return code.NewInvalidAddress(sender, err.Error())
	}
	return bank{}.send(s, from, to, funds)
}

func replyMode(r SubMsgResult) string {
	if r.IsErr() {
		return "handle_failure"
	}
	return "handle_success"
}

// contractEvents renders the attributes of res as a wasm event followed by its custom events.
func contractEvents(contract string, res *Response) []Event {
	var evs []Event
	if len(res.Attributes) > 0 {
		attrs := append([]Attribute{{Key: "_contract_address", Value: contract}}, res.Attributes...)
		evs = append(evs, Event{Type: "wasm", Attributes: attrs})
	}
	for _, ev := range res.Events {
		attrs := append([]Attribute{{Key: "_contract_address", Value: contract}}, ev.Attributes...)
		evs = append(evs, Event{Type: "wasm-" + ev.Type, Attributes: attrs})
	}
	return evs
}

func transferEvent(from, to string, coins sdk.Coins) Event {
	attrs := []Attribute{{Key: "recipient", Value: to}}
	if from != "" {
		attrs = append(attrs, Attribute{Key: "sender", Value: from})
	}
	return Event{Type: "transfer", Attributes: append(attrs, Attribute{Key: "amount", Value: coins.String()})}
}
