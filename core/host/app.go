package host

import (
	"strconv"
	"sync"
	"time"

	"github.com/MinterTeam/minter-membership/core/code"
	"github.com/MinterTeam/minter-membership/core/events"
	"github.com/MinterTeam/minter-membership/core/store"
	"github.com/MinterTeam/minter-membership/core/types"
	"github.com/MinterTeam/minter-membership/tree"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

const DefaultMaxDepth = 10

// App runs contract instances over a versioned state tree. Every Instantiate, Execute
// and Mint call is one unit of work: either all of its writes land in the working
// tree or none do.
type App struct {
	lock sync.RWMutex

	tree      tree.MTree
	committed store.KVStore

	codes  map[uint64]registeredCode
	nextID uint64

	height uint64
	time   time.Time

	events   events.IEventsDB
	metrics  *Metrics
	logger   log.Logger
	maxDepth int
}

type registeredCode struct {
	name     string
	contract Contract
}

type Option func(*App)

func WithLogger(logger log.Logger) Option {
	return func(a *App) { a.logger = logger }
}

func WithEvents(db events.IEventsDB) Option {
	return func(a *App) { a.events = db }
}

func WithMetrics(m *Metrics) Option {
	return func(a *App) { a.metrics = m }
}

// WithGenesisTime sets the clock used when the tree holds no block yet.
func WithGenesisTime(t time.Time) Option {
	return func(a *App) { a.time = t }
}

func WithMaxDepth(depth int) Option {
	return func(a *App) { a.maxDepth = depth }
}

// NewApp resumes from the last block saved in t.
func NewApp(t tree.MTree, opts ...Option) (*App, error) {
	a := &App{
		tree:      t,
		committed: store.NewTreeStore(t),
		codes:     make(map[uint64]registeredCode),
		nextID:    1,
		height:    1,
		time:      time.Unix(0, 0).UTC(),
		metrics:   NewMetrics(),
		logger:    log.NewNopLogger(),
		maxDepth:  DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(a)
	}

	var block blockState
	ok, err := blockItem.MayLoad(a.committed, &block)
	if err != nil {
		return nil, err
	}
	if version := uint64(t.Version()); version != block.Height {
		return nil, errors.Errorf("state tree at version %d holds block %d", version, block.Height)
	}
	if ok {
		a.height = block.Height + 1
		a.time = time.Unix(block.Time, 0).UTC()
	}

	return a, nil
}

// NewMemApp is an App over a fresh in-memory tree.
func NewMemApp(opts ...Option) *App {
	a, err := NewApp(tree.NewMemTree(), opts...)
	if err != nil {
		panic(err)
	}
	return a
}

// StoreCode registers a program and returns its code id. Ids are assigned in call order.
func (a *App) StoreCode(name string, c Contract) uint64 {
	a.lock.Lock()
	defer a.lock.Unlock()

	id := a.nextID
	a.codes[id] = registeredCode{name: name, contract: c}
	a.nextID++
	return id
}

func (a *App) code(id uint64) (registeredCode, error) {
	c, ok := a.codes[id]
	if !ok {
		return registeredCode{}, code.NewCodeNotFound(strconv.FormatUint(id, 10))
	}
	return c, nil
}

// AppResponse is the outcome of a unit of work.
type AppResponse struct {
	Address string
	Events  []Event
	Data    []byte
}

// Instantiate creates a new instance of codeID in its own unit of work.
func (a *App) Instantiate(sender string, codeID uint64, msg []byte, funds sdk.Coins, label, admin string) (*AppResponse, error) {
	return a.run("instantiate", func(u *unit) (*AppResponse, error) {
		return u.instantiate(u.store, 0, sender, &InstantiateMsg{Admin: admin, CodeID: codeID, Msg: msg, Funds: funds, Label: label})
	})
}

// Execute calls contract in its own unit of work.
func (a *App) Execute(sender, contract string, msg []byte, funds sdk.Coins) (*AppResponse, error) {
	return a.run("execute", func(u *unit) (*AppResponse, error) {
		res, err := u.execute(u.store, 0, sender, &ExecuteMsg{ContractAddr: contract, Msg: msg, Funds: funds})
		if err != nil {
			return nil, err
		}
		return &AppResponse{Events: res.Events, Data: res.Data}, nil
	})
}

// Mint credits coins to an address out of thin air. Used for genesis balances.
func (a *App) Mint(to string, coins sdk.Coins) error {
	_, err := a.run("mint", func(u *unit) (*AppResponse, error) {
		addr, err := types.ParseAddress(to)
		if err != nil {
			return nil, code.NewInvalidAddress(to, err.Error())
		}
		bank{}.mint(u.store, addr, coins)
		return &AppResponse{Events: []Event{transferEvent("", to, coins)}}, nil
	})
	return err
}

func (a *App) run(kind string, fn func(u *unit) (*AppResponse, error)) (*AppResponse, error) {
	a.lock.Lock()
	defer a.lock.Unlock()

	id := uuid.New().String()
	u := &unit{
		app:    a,
		store:  store.NewCacheStore(a.committed),
		logger: a.logger.With("unit", id, "kind", kind),
		block:  BlockInfo{Height: a.height, Time: a.time},
	}

	res, err := fn(u)
	a.metrics.Units.WithLabelValues(kind, strconv.Itoa(int(code.Of(err)))).Inc()
	if err != nil {
		u.logger.Error("unit of work failed", "code", code.Of(err), "err", err)
		a.record(abci.ResponseDeliverTx{Code: code.Of(err), Log: err.Error(), Info: encodeInfo(err)})
		return nil, err
	}

	u.store.Write()
	u.logger.Info("unit of work done", "events", len(res.Events))
	a.record(abci.ResponseDeliverTx{Data: res.Data, Events: toABCI(res.Events)})
	return res, nil
}

func (a *App) record(result abci.ResponseDeliverTx) {
	if a.events != nil {
		a.events.AddResult(result)
	}
}

// NextBlock saves the working tree as a new version and moves the clock forward by dt.
func (a *App) NextBlock(dt time.Duration) ([]byte, error) {
	a.lock.Lock()
	defer a.lock.Unlock()

	if err := blockItem.Save(a.committed, blockState{Height: a.height, Time: a.time.Unix()}); err != nil {
		return nil, err
	}

	a.tree.GlobalLock()
	hash, version, err := a.tree.SaveVersion()
	a.tree.GlobalUnlock()
	if err != nil {
		return nil, err
	}

	if a.events != nil {
		if err := a.events.CommitEvents(a.height); err != nil {
			return nil, err
		}
	}

	a.logger.Info("block saved", "height", a.height, "version", version, "hash", hash)
	a.metrics.BlockHeight.Set(float64(a.height))

	a.height++
	a.time = a.time.Add(dt)
	return hash, nil
}

// Height is the height of the block being built.
func (a *App) Height() uint64 {
	a.lock.RLock()
	defer a.lock.RUnlock()

	return a.height
}

func (a *App) Time() time.Time {
	a.lock.RLock()
	defer a.lock.RUnlock()

	return a.time
}

// AppHash is the hash of the working tree.
func (a *App) AppHash() []byte {
	a.lock.RLock()
	defer a.lock.RUnlock()

	return a.tree.Hash()
}

func (a *App) QuerySmart(contract string, msg []byte) ([]byte, error) {
	a.lock.RLock()
	defer a.lock.RUnlock()

	return a.querier(a.committed).QuerySmart(contract, msg)
}

func (a *App) QueryRaw(contract string, key []byte) ([]byte, error) {
	a.lock.RLock()
	defer a.lock.RUnlock()

	return a.querier(a.committed).QueryRaw(contract, key)
}

func (a *App) Balance(address, denom string) (sdk.Int, error) {
	a.lock.RLock()
	defer a.lock.RUnlock()

	coin, err := a.querier(a.committed).QueryBalance(address, denom)
	if err != nil {
		return sdk.Int{}, err
	}
	return coin.Amount, nil
}

func (a *App) ContractInfo(address string) (*Instance, error) {
	a.lock.RLock()
	defer a.lock.RUnlock()

	_, instance, err := loadInstance(a.committed, address)
	return instance, err
}

// ContractsByCode lists the instances of codeID in creation order.
func (a *App) ContractsByCode(codeID uint64) ([]Instance, error) {
	a.lock.RLock()
	defer a.lock.RUnlock()

	return instancesByCode(a.committed, codeID)
}

func (a *App) querier(s store.KVStore) *querier {
	return &querier{app: a, store: s, block: BlockInfo{Height: a.height, Time: a.time}}
}

func encodeInfo(err error) string {
	var e *code.Error
	if errors.As(err, &e) {
		return e.EncodeInfo()
	}
	return ""
}

func toABCI(events []Event) []abci.Event {
	out := make([]abci.Event, 0, len(events))
	for _, event := range events {
		attributes := make([]abci.EventAttribute, 0, len(event.Attributes))
		for _, attr := range event.Attributes {
			attributes = append(attributes, abci.EventAttribute{Key: []byte(attr.Key), Value: []byte(attr.Value), Index: true})
		}
		out = append(out, abci.Event{Type: event.Type, Attributes: attributes})
	}
	return out
}
