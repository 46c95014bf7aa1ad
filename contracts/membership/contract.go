// Package membership admits new members by vote and creates a proxy for every admitted
// member.
package membership

import (
	"strconv"

	"github.com/MinterTeam/minter-membership/contracts/proxy"
	"github.com/MinterTeam/minter-membership/core/code"
	"github.com/MinterTeam/minter-membership/core/host"
	"github.com/MinterTeam/minter-membership/core/reply"
	"github.com/MinterTeam/minter-membership/core/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

const (
	InitialMemberReplyID uint64 = 1
	AddMemberReplyID     uint64 = 2
)

type Contract struct {
	router *reply.Router
}

func New() *Contract {
	c := &Contract{}
	c.router = reply.NewRouter().
		Handle(InitialMemberReplyID, "initial_member", c.initialMemberReply).
		Handle(AddMemberReplyID, "add_member", c.addMemberReply)
	return c
}

// Instantiate validates everything before the first write and issues one proxy
// instantiation per initial member. The last of their continuations completes it.
func (c *Contract) Instantiate(deps host.Deps, env host.Env, info host.MessageInfo, raw []byte) (*host.Response, error) {
	var msg InstantiateMsg
	if err := types.Unmarshal(raw, &msg); err != nil {
		return nil, code.NewDecodeError(err.Error())
	}

	owners, err := validate(deps, msg)
	if err != nil {
		return nil, err
	}
	creator, err := deps.API.AddrValidate(info.Sender)
	if err != nil {
		return nil, err
	}

	cfg := Config{
		StartingWeight:       msg.StartingWeight,
		Denom:                msg.Denom,
		DirectPart:           msg.DirectPart,
		Halftime:             msg.Halftime,
		ProxyCodeID:          msg.ProxyCodeID,
		DistributionContract: msg.DistributionContract,
		MinimalAcceptances:   msg.MinimalAcceptances,
	}
	if err := config.Save(deps.Storage, cfg); err != nil {
		return nil, err
	}
	if err := admin.Save(deps.Storage, creator.String()); err != nil {
		return nil, err
	}
	if err := awaitingInitialResps.Save(deps.Storage, uint64(len(owners))); err != nil {
		return nil, err
	}

	res := host.NewResponse().
		AddAttribute("action", "instantiate").
		AddAttribute("initial_members", strconv.Itoa(len(owners)))
	for _, owner := range owners {
		res.AddSubMessage(host.ReplyOnSuccess(InitialMemberReplyID, proxyInstantiation(env, cfg, owner)))
	}
	return res, nil
}

func validate(deps host.Deps, msg InstantiateMsg) ([]string, error) {
	if msg.MinimalAcceptances < 2 {
		return nil, code.NewNotEnoughRequiredAcceptances("2", strconv.FormatUint(msg.MinimalAcceptances, 10))
	}
	if uint64(len(msg.InitialMembers)) < msg.MinimalAcceptances {
		return nil, code.NewNotEnoughInitialMembers(strconv.FormatUint(msg.MinimalAcceptances, 10), strconv.Itoa(len(msg.InitialMembers)))
	}
	if err := sdk.ValidateDenom(msg.Denom); err != nil {
		return nil, code.NewInvalidDenom(msg.Denom)
	}
	if d, err := sdk.NewDecFromStr(msg.DirectPart); err != nil || d.IsNegative() || d.GT(sdk.OneDec()) {
		return nil, code.NewInvalidDecimal("direct_part", msg.DirectPart)
	}
	if msg.DistributionContract != "" {
		if _, err := deps.API.AddrValidate(msg.DistributionContract); err != nil {
			return nil, err
		}
	}

	seen := make(map[types.Address]bool, len(msg.InitialMembers))
	owners := make([]string, 0, len(msg.InitialMembers))
	for _, member := range msg.InitialMembers {
		addr, err := deps.API.AddrValidate(member)
		if err != nil {
			return nil, err
		}
		if seen[addr] {
			return nil, code.NewDuplicatedInitialMember(member)
		}
		seen[addr] = true
		owners = append(owners, addr.String())
	}
	return owners, nil
}

func proxyInstantiation(env host.Env, cfg Config, owner string) host.CosmosMsg {
	msg := types.MustMarshal(proxy.InstantiateMsg{
		Owner:                owner,
		Weight:               cfg.StartingWeight,
		Denom:                cfg.Denom,
		DirectPart:           cfg.DirectPart,
		Halftime:             cfg.Halftime,
		DistributionContract: cfg.DistributionContract,
		MembershipContract:   env.Contract.Address,
	})
	return host.NewInstantiate(env.Contract.Address, cfg.ProxyCodeID, msg, owner+" proxy")
}

func (c *Contract) Execute(deps host.Deps, env host.Env, info host.MessageInfo, raw []byte) (*host.Response, error) {
	var msg ExecuteMsg
	if err := types.Unmarshal(raw, &msg); err != nil {
		return nil, code.NewDecodeError(err.Error())
	}

	switch {
	case msg.ProposeMember != nil:
		return c.proposeMember(deps, env, info, msg.ProposeMember.Addr)
	case msg.SetDistributionContract != nil:
		return c.setDistributionContract(deps, info, msg.SetDistributionContract.Addr)
	}
	return nil, code.NewUnknownMessage(env.Contract.Address)
}

func (c *Contract) Query(deps host.Deps, env host.Env, raw []byte) ([]byte, error) {
	var msg QueryMsg
	if err := types.Unmarshal(raw, &msg); err != nil {
		return nil, code.NewDecodeError(err.Error())
	}

	switch {
	case msg.IsMember != nil:
		res, err := isMember(deps, msg.IsMember.Addr)
		if err != nil {
			return nil, err
		}
		return types.Marshal(res)
	}
	return nil, code.NewUnsupportedQuery(env.Contract.Address)
}

func (c *Contract) Reply(deps host.Deps, env host.Env, rep host.Reply) (*host.Response, error) {
	return c.router.Dispatch(deps, env, rep)
}

// proxyOwner reads the owner cell of a proxy.
func proxyOwner(deps host.Deps, tag uint64, proxyAddr string) (string, error) {
	var owner string
	ok, err := proxy.OwnerItem.Query(deps.Querier, proxyAddr, &owner)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", code.NewMissingData(strconv.FormatUint(tag, 10))
	}
	return owner, nil
}
