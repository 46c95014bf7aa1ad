package host

import (
	"time"

	"github.com/MinterTeam/minter-membership/core/store"
	"github.com/MinterTeam/minter-membership/core/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Contract is a program that can be instantiated any number of times on the App.
// Any error returned by an entry point aborts the invocation and discards its writes.
type Contract interface {
	Instantiate(deps Deps, env Env, info MessageInfo, msg []byte) (*Response, error)
	Execute(deps Deps, env Env, info MessageInfo, msg []byte) (*Response, error)
	Query(deps Deps, env Env, msg []byte) ([]byte, error)
	Reply(deps Deps, env Env, reply Reply) (*Response, error)
}

// Deps is what an entry point gets to work with. Storage is the instance own namespace.
type Deps struct {
	Storage store.KVStore
	Querier Querier
	API     API
}

// Querier gives read-only access to other instances and to the bank.
type Querier interface {
	store.RawQuerier
	QuerySmart(contract string, msg []byte) ([]byte, error)
	QueryBalance(address, denom string) (sdk.Coin, error)
}

type API interface {
	AddrValidate(address string) (types.Address, error)
}

type BlockInfo struct {
	Height uint64
	Time   time.Time
}

type ContractInfo struct {
	Address string
}

type Env struct {
	Block    BlockInfo
	Contract ContractInfo
}

type MessageInfo struct {
	Sender string
	Funds  sdk.Coins
}

type Attribute struct {
	Key   string
	Value string
}

type Event struct {
	Type       string
	Attributes []Attribute
}

// Response is what an entry point hands back to the App. Messages are dispatched in order
// after the entry point returns.
type Response struct {
	Messages   []SubMsg
	Attributes []Attribute
	Events     []Event
	Data       []byte
}

func NewResponse() *Response {
	return &Response{}
}

func (r *Response) AddAttribute(key, value string) *Response {
	r.Attributes = append(r.Attributes, Attribute{Key: key, Value: value})
	return r
}

// AddMessage issues msg without asking for a continuation.
func (r *Response) AddMessage(msg CosmosMsg) *Response {
	r.Messages = append(r.Messages, SubMsg{Msg: msg, ReplyOn: ReplyNever})
	return r
}

func (r *Response) AddSubMessage(sub SubMsg) *Response {
	r.Messages = append(r.Messages, sub)
	return r
}

func (r *Response) AddEvent(event Event) *Response {
	r.Events = append(r.Events, event)
	return r
}

func (r *Response) SetData(data []byte) *Response {
	r.Data = data
	return r
}

type ReplyOn int

const (
	ReplyNever ReplyOn = iota
	ReplySuccess
	ReplyError
	ReplyAlways
)

func (r ReplyOn) String() string {
	switch r {
	case ReplySuccess:
		return "success"
	case ReplyError:
		return "error"
	case ReplyAlways:
		return "always"
	}
	return "never"
}

func (r ReplyOn) onSuccess() bool {
	return r == ReplySuccess || r == ReplyAlways
}

func (r ReplyOn) onError() bool {
	return r == ReplyError || r == ReplyAlways
}

// CosmosMsg is a request to the App. Exactly one field is set.
type CosmosMsg struct {
	Execute     *ExecuteMsg
	Instantiate *InstantiateMsg
	BankSend    *BankSendMsg
}

func (m CosmosMsg) kind() string {
	switch {
	case m.Execute != nil:
		return "execute"
	case m.Instantiate != nil:
		return "instantiate"
	case m.BankSend != nil:
		return "bank_send"
	}
	return "unknown"
}

type ExecuteMsg struct {
	ContractAddr string
	Msg          []byte
	Funds        sdk.Coins
}

type InstantiateMsg struct {
	Admin  string
	CodeID uint64
	Msg    []byte
	Funds  sdk.Coins
	Label  string
}

type BankSendMsg struct {
	ToAddress string
	Amount    sdk.Coins
}

// SubMsg is a message whose outcome is reported back to the issuer under ID.
type SubMsg struct {
	ID      uint64
	Msg     CosmosMsg
	ReplyOn ReplyOn
}

func NewExecute(contract string, msg []byte, funds sdk.Coins) CosmosMsg {
	return CosmosMsg{Execute: &ExecuteMsg{ContractAddr: contract, Msg: msg, Funds: funds}}
}

func NewInstantiate(admin string, codeID uint64, msg []byte, label string) CosmosMsg {
	return CosmosMsg{Instantiate: &InstantiateMsg{Admin: admin, CodeID: codeID, Msg: msg, Label: label}}
}

func NewBankSend(to string, amount sdk.Coins) CosmosMsg {
	return CosmosMsg{BankSend: &BankSendMsg{ToAddress: to, Amount: amount}}
}

func ReplyOnSuccess(id uint64, msg CosmosMsg) SubMsg {
	return SubMsg{ID: id, Msg: msg, ReplyOn: ReplySuccess}
}

// Reply is the continuation of a SubMsg.
type Reply struct {
	ID     uint64
	Result SubMsgResult
}

// SubMsgResult holds either Ok or Err.
type SubMsgResult struct {
	Ok  *SubMsgResponse
	Err string
}

func (r SubMsgResult) IsErr() bool {
	return r.Ok == nil
}

type SubMsgResponse struct {
	Events []Event
	Data   []byte
}

// InstantiateResponseData is the data an instantiation reports to its issuer.
type InstantiateResponseData struct {
	ContractAddress string `json:"contract_address"`
	Data            []byte `json:"data,omitempty"`
}
