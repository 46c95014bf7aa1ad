package reply

import (
	"strconv"

	"github.com/MinterTeam/minter-membership/core/code"
	"github.com/MinterTeam/minter-membership/core/host"
	"github.com/MinterTeam/minter-membership/core/types"
)

// Handler resumes the work a contract suspended when it issued a sub-operation.
type Handler func(deps host.Deps, env host.Env, result host.SubMsgResult) (*host.Response, error)

type route struct {
	name    string
	handler Handler
}

// Router dispatches continuations to handlers by the tag the issuer assigned.
type Router struct {
	routes map[uint64]route
}

func NewRouter() *Router {
	return &Router{routes: make(map[uint64]route)}
}

// Handle registers handler for tag. Registering a tag twice panics.
func (r *Router) Handle(tag uint64, name string, handler Handler) *Router {
	if _, ok := r.routes[tag]; ok {
		panic("reply tag " + strconv.FormatUint(tag, 10) + " registered twice")
	}
	r.routes[tag] = route{name: name, handler: handler}
	return r
}

// Name returns the name registered for tag.
func (r *Router) Name(tag uint64) (string, bool) {
	route, ok := r.routes[tag]
	return route.name, ok
}

func (r *Router) Dispatch(deps host.Deps, env host.Env, rep host.Reply) (*host.Response, error) {
	route, ok := r.routes[rep.ID]
	if !ok {
		return nil, code.NewUnrecognizedReplyID(strconv.FormatUint(rep.ID, 10))
	}

	res, err := route.handler(deps, env, rep.Result)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// InstantiatedContract extracts the address and init data of an instance created by a
// sub-operation.
func InstantiatedContract(tag uint64, result host.SubMsgResult) (string, []byte, error) {
	id := strconv.FormatUint(tag, 10)
	if result.IsErr() {
		return "", nil, code.NewSubOperationFailed(id, result.Err)
	}
	if len(result.Ok.Data) == 0 {
		return "", nil, code.NewMissingData(id)
	}

	var data host.InstantiateResponseData
	if err := types.Unmarshal(result.Ok.Data, &data); err != nil {
		return "", nil, code.NewDecodeError(err.Error())
	}
	if data.ContractAddress == "" {
		return "", nil, code.NewMissingData(id)
	}
	return data.ContractAddress, data.Data, nil
}

// ExecutedData is the data returned by an executed sub-operation, nil when it had none.
func ExecutedData(tag uint64, result host.SubMsgResult) ([]byte, error) {
	if result.IsErr() {
		return nil, code.NewSubOperationFailed(strconv.FormatUint(tag, 10), result.Err)
	}
	return result.Ok.Data, nil
}

// Ok builds a successful result around data. Useful for delivering continuations by hand.
func Ok(data []byte) host.SubMsgResult {
	return host.SubMsgResult{Ok: &host.SubMsgResponse{Data: data}}
}

// Failed builds a failed result.
func Failed(reason string) host.SubMsgResult {
	return host.SubMsgResult{Err: reason}
}

// InstantiatedData encodes what the App reports after creating contract.
func InstantiatedData(contract string, data []byte) []byte {
	return types.MustMarshal(host.InstantiateResponseData{ContractAddress: contract, Data: data})
}
