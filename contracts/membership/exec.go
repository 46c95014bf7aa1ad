package membership

import (
	"strconv"

	"github.com/MinterTeam/minter-membership/contracts/common"
	"github.com/MinterTeam/minter-membership/core/code"
	"github.com/MinterTeam/minter-membership/core/host"
	"github.com/MinterTeam/minter-membership/core/store"
	"github.com/MinterTeam/minter-membership/core/types"
)

// proposeMember records the vote of a member proxy for candidate. The vote that reaches
// the threshold resolves the proposal and instantiates a proxy for the candidate.
func (c *Contract) proposeMember(deps host.Deps, env host.Env, info host.MessageInfo, addr string) (*host.Response, error) {
	voter, err := types.ParseAddress(info.Sender)
	if err != nil || !members.Has(deps.Storage, voter.Bytes()) {
		return nil, code.NewUnauthorized(info.Sender)
	}

	candidate, err := deps.API.AddrValidate(addr)
	if err != nil {
		return nil, err
	}

	err = members.Range(deps.Storage, nil, func(key []byte, _ []byte) (bool, error) {
		proxyAddr := types.BytesToAddress(key).String()
		owner, err := proxyOwner(deps, AddMemberReplyID, proxyAddr)
		if err != nil {
			return true, err
		}
		if owner == candidate.String() {
			return true, code.NewAlreadyAMember(owner, proxyAddr)
		}
		return false, nil
	})
	if err != nil {
		return nil, err
	}

	vote := store.Pair(voter.Bytes(), candidate.Bytes())
	if votes.Has(deps.Storage, vote) {
		return nil, code.NewAlreadyVoted(info.Sender, candidate.String())
	}

	var count uint64
	if _, err := proposals.MayLoad(deps.Storage, candidate.Bytes(), &count); err != nil {
		return nil, err
	}
	count++

	if err := votes.Save(deps.Storage, vote, true); err != nil {
		return nil, err
	}

	var cfg Config
	if err := config.Load(deps.Storage, &cfg); err != nil {
		return nil, err
	}

	res := host.NewResponse().
		AddAttribute("action", "propose_member").
		AddAttribute("sender", info.Sender).
		AddAttribute("addr", candidate.String()).
		AddAttribute("votes", strconv.FormatUint(count, 10))

	if count < cfg.MinimalAcceptances {
		if err := proposals.Save(deps.Storage, candidate.Bytes(), count); err != nil {
			return nil, err
		}
		data, err := types.Marshal(common.ProposeMemberData{Status: common.StatusPending, Votes: count})
		if err != nil {
			return nil, err
		}
		return res.SetData(data), nil
	}

	proposals.Remove(deps.Storage, candidate.Bytes())
	return res.AddSubMessage(host.ReplyOnSuccess(AddMemberReplyID, proxyInstantiation(env, cfg, candidate.String()))), nil
}

// setDistributionContract fills in the distribution contract once, when it was not known
// at instantiation.
func (c *Contract) setDistributionContract(deps host.Deps, info host.MessageInfo, addr string) (*host.Response, error) {
	var owner string
	if err := admin.Load(deps.Storage, &owner); err != nil {
		return nil, err
	}
	if sender, err := deps.API.AddrValidate(info.Sender); err != nil || sender.String() != owner {
		return nil, code.NewUnauthorized(info.Sender)
	}

	distribution, err := deps.API.AddrValidate(addr)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := config.Load(deps.Storage, &cfg); err != nil {
		return nil, err
	}
	if cfg.DistributionContract != "" {
		return nil, code.NewDistributionAlreadySet(cfg.DistributionContract)
	}

	cfg.DistributionContract = distribution.String()
	if err := config.Save(deps.Storage, cfg); err != nil {
		return nil, err
	}

	return host.NewResponse().
		AddAttribute("action", "set_distribution_contract").
		AddAttribute("addr", cfg.DistributionContract), nil
}
