package host

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/MinterTeam/minter-membership/core/code"
	"github.com/MinterTeam/minter-membership/core/events"
	"github.com/MinterTeam/minter-membership/core/store"
	"github.com/MinterTeam/minter-membership/core/types"
	"github.com/MinterTeam/minter-membership/tree"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	db "github.com/tendermint/tm-db"
)

type echoMsg struct {
	Set *struct {
		Key   string `json:"key"`
		Value string `json:"value"`
	} `json:"set,omitempty"`
	Fail  bool      `json:"fail,omitempty"`
	Data  string    `json:"data,omitempty"`
	Call  *echoCall `json:"call,omitempty"`
	Spawn *uint64   `json:"spawn,omitempty"`
	Pay   *string   `json:"pay,omitempty"`
}

type echoCall struct {
	Contract string  `json:"contract"`
	Msg      echoMsg `json:"msg"`
	ID       uint64  `json:"id"`
	ReplyOn  ReplyOn `json:"reply_on"`
}

// echo is a contract driven entirely by its messages.
type echo struct{}

func (echo) Instantiate(deps Deps, env Env, info MessageInfo, msg []byte) (*Response, error) {
	deps.Storage.Set([]byte("creator"), []byte(info.Sender))
	return NewResponse().SetData([]byte("init " + env.Contract.Address)), nil
}

func (e echo) Execute(deps Deps, env Env, info MessageInfo, raw []byte) (*Response, error) {
	var msg echoMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, code.NewDecodeError(err.Error())
	}

	res := NewResponse().AddAttribute("action", "echo")
	if msg.Set != nil {
		deps.Storage.Set([]byte(msg.Set.Key), []byte(msg.Set.Value))
	}
	if msg.Data != "" {
		res.SetData([]byte(msg.Data))
	}
	if msg.Call != nil {
		inner, _ := json.Marshal(msg.Call.Msg)
		res.AddSubMessage(SubMsg{ID: msg.Call.ID, Msg: NewExecute(msg.Call.Contract, inner, nil), ReplyOn: msg.Call.ReplyOn})
	}
	if msg.Spawn != nil {
		res.AddSubMessage(ReplyOnSuccess(7, NewInstantiate(env.Contract.Address, *msg.Spawn, nil, "child")))
	}
	if msg.Pay != nil {
		res.AddMessage(NewBankSend(*msg.Pay, sdk.NewCoins(sdk.NewInt64Coin("orai", 10))))
	}
	if msg.Fail {
		return nil, errors.New("asked to fail")
	}
	return res, nil
}

func (echo) Query(deps Deps, env Env, msg []byte) ([]byte, error) {
	return deps.Storage.Get(msg), nil
}

func (echo) Reply(deps Deps, env Env, reply Reply) (*Response, error) {
	if reply.Result.IsErr() {
		deps.Storage.Set([]byte("reply"), []byte("err: "+reply.Result.Err))
		return NewResponse(), nil
	}

	if reply.ID == 7 {
		var data InstantiateResponseData
		if err := types.Unmarshal(reply.Result.Ok.Data, &data); err != nil {
			return nil, err
		}
		deps.Storage.Set([]byte("child"), []byte(data.ContractAddress))
		return NewResponse().SetData(data.Data), nil
	}

	deps.Storage.Set([]byte("reply"), reply.Result.Ok.Data)
	return NewResponse().SetData([]byte("replied")), nil
}

func mustJSON(t *testing.T, v interface{}) []byte {
	bz, err := json.Marshal(v)
	require.NoError(t, err)
	return bz
}

var sender = types.StringToAddress("sender-address-0001").String()

func setup(t *testing.T) (*App, uint64, string, string) {
	app := NewMemApp(WithGenesisTime(time.Unix(1000, 0)))
	id := app.StoreCode("echo", echo{})

	first, err := app.Instantiate(sender, id, nil, nil, "first", "")
	require.NoError(t, err)
	second, err := app.Instantiate(sender, id, nil, nil, "second", "")
	require.NoError(t, err)
	require.NotEqual(t, first.Address, second.Address)
	require.Equal(t, []byte("init "+first.Address), first.Data)

	return app, id, first.Address, second.Address
}

func TestFailedUnitLeavesNoWrites(t *testing.T) {
	app, _, first, second := setup(t)

	msg := echoMsg{Call: &echoCall{Contract: second, ReplyOn: ReplyNever}}
	msg.Call.Msg.Fail = true
	msg.Set = &struct {
		Key   string `json:"key"`
		Value string `json:"value"`
	}{Key: "k", Value: "v"}

	_, err := app.Execute(sender, first, mustJSON(t, msg), nil)
	require.Error(t, err)

	value, err := app.QuerySmart(first, []byte("k"))
	require.NoError(t, err)
	require.Nil(t, value)
}

func TestReplyOnErrorKeepsIssuerWrites(t *testing.T) {
	app, _, first, second := setup(t)

	inner := echoMsg{Fail: true}
	inner.Set = &struct {
		Key   string `json:"key"`
		Value string `json:"value"`
	}{Key: "inner", Value: "x"}
	msg := echoMsg{Call: &echoCall{Contract: second, Msg: inner, ID: 3, ReplyOn: ReplyError}}

	_, err := app.Execute(sender, first, mustJSON(t, msg), nil)
	require.NoError(t, err)

	value, err := app.QuerySmart(first, []byte("reply"))
	require.NoError(t, err)
	require.Contains(t, string(value), "asked to fail")

	value, err = app.QuerySmart(second, []byte("inner"))
	require.NoError(t, err)
	require.Nil(t, value)
}

func TestReplyDataOverridesIssuerData(t *testing.T) {
	app, _, first, second := setup(t)

	msg := echoMsg{Data: "outer", Call: &echoCall{Contract: second, Msg: echoMsg{Data: "inner"}, ID: 1, ReplyOn: ReplySuccess}}
	res, err := app.Execute(sender, first, mustJSON(t, msg), nil)
	require.NoError(t, err)
	require.Equal(t, []byte("replied"), res.Data)

	value, err := app.QuerySmart(first, []byte("reply"))
	require.NoError(t, err)
	require.Equal(t, []byte("inner"), value)

	msg.Call.ReplyOn = ReplyNever
	res, err = app.Execute(sender, first, mustJSON(t, msg), nil)
	require.NoError(t, err)
	require.Equal(t, []byte("outer"), res.Data)
}

func TestInstantiateReplyCarriesAddress(t *testing.T) {
	app, id, first, _ := setup(t)

	res, err := app.Execute(sender, first, mustJSON(t, echoMsg{Spawn: &id}), nil)
	require.NoError(t, err)

	child, err := app.QuerySmart(first, []byte("child"))
	require.NoError(t, err)
	require.Equal(t, []byte("init "+string(child)), res.Data)

	creator, err := app.QuerySmart(string(child), []byte("creator"))
	require.NoError(t, err)
	require.Equal(t, first, string(creator))

	info, err := app.ContractInfo(string(child))
	require.NoError(t, err)
	require.Equal(t, id, info.CodeID)
	require.Equal(t, "child", info.Label)
}

func TestBankSendAndInsufficientFunds(t *testing.T) {
	app, _, first, _ := setup(t)
	receiver := types.StringToAddress("receiver-address-01").String()

	_, err := app.Execute(sender, first, mustJSON(t, echoMsg{Pay: &receiver}), nil)
	if code.Of(err) != code.InsufficientFunds {
		t.Fatalf("expected insufficient funds, got %v", err)
	}

	require.NoError(t, app.Mint(sender, sdk.NewCoins(sdk.NewInt64Coin("orai", 25))))
	_, err = app.Execute(sender, first, mustJSON(t, echoMsg{Pay: &receiver}), sdk.NewCoins(sdk.NewInt64Coin("orai", 15)))
	require.NoError(t, err)

	balance, err := app.Balance(receiver, "orai")
	require.NoError(t, err)
	require.Equal(t, "10", balance.String())

	balance, err = app.Balance(first, "orai")
	require.NoError(t, err)
	require.Equal(t, "5", balance.String())

	balance, err = app.Balance(sender, "orai")
	require.NoError(t, err)
	require.Equal(t, "10", balance.String())
}

func TestMaxDepth(t *testing.T) {
	app := NewMemApp(WithMaxDepth(1))
	id := app.StoreCode("echo", echo{})
	res, err := app.Instantiate(sender, id, nil, nil, "self", "")
	require.NoError(t, err)

	msg := echoMsg{Call: &echoCall{Contract: res.Address, Msg: echoMsg{Call: &echoCall{Contract: res.Address}}}}
	_, err = app.Execute(sender, res.Address, mustJSON(t, msg), nil)
	if code.Of(err) != code.MaxDepthExceeded {
		t.Fatalf("expected max depth exceeded, got %v", err)
	}
}

func TestUnknownContractAndCode(t *testing.T) {
	app := NewMemApp()

	_, err := app.Instantiate(sender, 42, nil, nil, "nothing", "")
	require.Equal(t, code.CodeNotFound, code.Of(err))

	_, err = app.Execute(sender, types.StringToAddress("nobody").String(), nil, nil)
	require.Equal(t, code.ContractNotFound, code.Of(err))
}

func TestNextBlockPersistsResults(t *testing.T) {
	eventsDB := events.NewEventsStore(db.NewMemDB())
	app := NewMemApp(WithEvents(eventsDB), WithGenesisTime(time.Unix(1000, 0)))
	id := app.StoreCode("echo", echo{})

	res, err := app.Instantiate(sender, id, nil, nil, "first", "")
	require.NoError(t, err)
	_, err = app.Execute(sender, res.Address, mustJSON(t, echoMsg{Fail: true}), nil)
	require.Error(t, err)

	hash, err := app.NextBlock(5 * time.Second)
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	require.Equal(t, uint64(2), app.Height())
	require.Equal(t, int64(1005), app.Time().Unix())

	results, err := eventsDB.LoadResults(1)
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Zero(t, results[0].Code)
	require.Equal(t, code.DecodeError, results[1].Code)
}

func TestResumeFromSavedBlock(t *testing.T) {
	memDB := db.NewMemDB()
	mtree, err := tree.NewMutableTree(0, memDB, 1024)
	require.NoError(t, err)

	app, err := NewApp(mtree, WithGenesisTime(time.Unix(1000, 0)))
	require.NoError(t, err)
	id := app.StoreCode("echo", echo{})
	first, err := app.Instantiate(sender, id, nil, nil, "first", "")
	require.NoError(t, err)
	second, err := app.Instantiate(sender, id, nil, nil, "second", "")
	require.NoError(t, err)
	hash, err := app.NextBlock(time.Second)
	require.NoError(t, err)

	mtree, err = tree.NewMutableTree(0, memDB, 1024)
	require.NoError(t, err)
	resumed, err := NewApp(mtree)
	require.NoError(t, err)
	resumed.StoreCode("echo", echo{})

	require.Equal(t, uint64(2), resumed.Height())
	require.Equal(t, int64(1000), resumed.Time().Unix())
	require.Equal(t, hash, resumed.AppHash())

	instances, err := resumed.ContractsByCode(id)
	require.NoError(t, err)
	require.Len(t, instances, 2)
	require.Equal(t, first.Address, instances[0].Address)
	require.Equal(t, second.Address, instances[1].Address)
	require.Equal(t, "second", instances[1].Label)

	instances, err = resumed.ContractsByCode(id + 1)
	require.NoError(t, err)
	require.Empty(t, instances)
}

func TestConcurrentUnitsQueriesAndBlocks(t *testing.T) {
	app, _, first, _ := setup(t)
	msg := mustJSON(t, echoMsg{Data: "x"})

	var wg sync.WaitGroup
	run := func(fn func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 20; i++ {
				fn()
			}
		}()
	}

	run(func() {
		_, err := app.Execute(sender, first, msg, nil)
		assert.NoError(t, err)
	})
	run(func() {
		_, err := app.QuerySmart(first, []byte("creator"))
		assert.NoError(t, err)
	})
	run(func() { assert.NotEmpty(t, app.AppHash()) })
	run(func() { assert.NotEmpty(t, app.AppHash()) })
	run(func() {
		_, err := app.NextBlock(0)
		assert.NoError(t, err)
	})
	wg.Wait()

	require.Equal(t, uint64(21), app.Height())
}

func TestNewAppRejectsMismatchedTree(t *testing.T) {
	mtree := tree.NewMemTree()
	require.NoError(t, blockItem.Save(store.NewTreeStore(mtree), blockState{Height: 5}))
	_, _, err := mtree.SaveVersion()
	require.NoError(t, err)

	_, err = NewApp(mtree)
	require.Error(t, err)
}
