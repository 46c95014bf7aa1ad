// Package proxy is the account a member acts through. It holds the member funds,
// splits donations with the distribution contract and decays the member weight.
package proxy

import (
	"strconv"

	"github.com/MinterTeam/minter-membership/core/code"
	"github.com/MinterTeam/minter-membership/core/host"
	"github.com/MinterTeam/minter-membership/core/reply"
	"github.com/MinterTeam/minter-membership/core/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

const (
	WithdrawReplyID      uint64 = 1
	ProposeMemberReplyID uint64 = 2
)

type Contract struct {
	router *reply.Router
}

func New() *Contract {
	c := &Contract{}
	c.router = reply.NewRouter().
		Handle(WithdrawReplyID, "withdraw", c.withdrawReply).
		Handle(ProposeMemberReplyID, "propose_member", c.proposeMemberReply)
	return c
}

func (c *Contract) Instantiate(deps host.Deps, env host.Env, info host.MessageInfo, raw []byte) (*host.Response, error) {
	var msg InstantiateMsg
	if err := types.Unmarshal(raw, &msg); err != nil {
		return nil, code.NewDecodeError(err.Error())
	}

	owner, err := deps.API.AddrValidate(msg.Owner)
	if err != nil {
		return nil, err
	}
	if err := sdk.ValidateDenom(msg.Denom); err != nil {
		return nil, code.NewInvalidDenom(msg.Denom)
	}
	if _, err := parseDirectPart(msg.DirectPart); err != nil {
		return nil, err
	}

	membership := msg.MembershipContract
	if membership == "" {
		membership = info.Sender
	}
	if _, err := deps.API.AddrValidate(membership); err != nil {
		return nil, err
	}
	if msg.DistributionContract != "" {
		if _, err := deps.API.AddrValidate(msg.DistributionContract); err != nil {
			return nil, err
		}
	}

	cfg := Config{
		Denom:                msg.Denom,
		DirectPart:           msg.DirectPart,
		DistributionContract: msg.DistributionContract,
		MembershipContract:   membership,
	}
	if err := ConfigItem.Save(deps.Storage, cfg); err != nil {
		return nil, err
	}
	if err := OwnerItem.Save(deps.Storage, owner.String()); err != nil {
		return nil, err
	}
	if err := WeightItem.Save(deps.Storage, msg.Weight); err != nil {
		return nil, err
	}
	if err := LastUpdatedItem.Save(deps.Storage, unixSeconds(env)); err != nil {
		return nil, err
	}
	if err := HalftimeItem.Save(deps.Storage, msg.Halftime); err != nil {
		return nil, err
	}
	if err := DonationsItem.Save(deps.Storage, uint64(0)); err != nil {
		return nil, err
	}

	return host.NewResponse().
		AddAttribute("action", "instantiate").
		AddAttribute("owner", owner.String()).
		AddAttribute("weight", strconv.FormatUint(msg.Weight, 10)), nil
}

func (c *Contract) Execute(deps host.Deps, env host.Env, info host.MessageInfo, raw []byte) (*host.Response, error) {
	var msg ExecuteMsg
	if err := types.Unmarshal(raw, &msg); err != nil {
		return nil, code.NewDecodeError(err.Error())
	}

	var cfg Config
	if err := ConfigItem.Load(deps.Storage, &cfg); err != nil {
		return nil, err
	}
	if cfg.IsClosed {
		return nil, code.NewProxyClosed(env.Contract.Address)
	}

	switch {
	case msg.Donate != nil:
		return c.donate(deps, env, info, cfg)
	case msg.UpdateWeight != nil:
		return c.updateWeight(deps, env, info, cfg)
	case msg.ProposeMember != nil:
		return c.proposeMember(deps, info, cfg, msg.ProposeMember.Addr)
	case msg.Withdraw != nil:
		return c.withdraw(deps, env, info, cfg, *msg.Withdraw)
	case msg.Close != nil:
		return c.close(deps, info, cfg)
	}
	return nil, code.NewUnknownMessage(env.Contract.Address)
}

func (c *Contract) Query(deps host.Deps, env host.Env, msg []byte) ([]byte, error) {
	return nil, code.NewUnsupportedQuery(env.Contract.Address)
}

func (c *Contract) Reply(deps host.Deps, env host.Env, rep host.Reply) (*host.Response, error) {
	return c.router.Dispatch(deps, env, rep)
}

func parseDirectPart(s string) (sdk.Dec, error) {
	d, err := sdk.NewDecFromStr(s)
	if err != nil || d.IsNegative() || d.GT(sdk.OneDec()) {
		return sdk.Dec{}, code.NewInvalidDecimal("direct_part", s)
	}
	return d, nil
}

func unixSeconds(env host.Env) uint64 {
	t := env.Block.Time.Unix()
	if t < 0 {
		return 0
	}
	return uint64(t)
}

func ensureOwner(deps host.Deps, sender string) (string, error) {
	var owner string
	if err := OwnerItem.Load(deps.Storage, &owner); err != nil {
		return "", err
	}
	addr, err := deps.API.AddrValidate(sender)
	if err != nil || addr.String() != owner {
		return "", code.NewUnauthorized(sender)
	}
	return owner, nil
}

// distributionContract resolves the custodian: the configured one, or the one set on
// the membership contract afterwards.
func distributionContract(deps host.Deps, env host.Env, cfg Config) (string, error) {
	if cfg.DistributionContract != "" {
		return cfg.DistributionContract, nil
	}

	var remote remoteMembershipConfig
	ok, err := membershipConfig.Query(deps.Querier, cfg.MembershipContract, &remote)
	if err != nil {
		return "", err
	}
	if !ok || remote.DistributionContract == "" {
		return "", code.NewDistributionNotSet(env.Contract.Address)
	}
	return remote.DistributionContract, nil
}
