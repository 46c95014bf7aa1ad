package membership

import (
	"strconv"

	"github.com/MinterTeam/minter-membership/contracts/common"
	"github.com/MinterTeam/minter-membership/core/code"
	"github.com/MinterTeam/minter-membership/core/host"
	"github.com/MinterTeam/minter-membership/core/reply"
	"github.com/MinterTeam/minter-membership/core/types"
)

// initialMemberReply confirms one proxy of the bootstrap. The counter is decremented
// once per distinct proxy and the firing that brings it to zero reports every member.
func (c *Contract) initialMemberReply(deps host.Deps, env host.Env, result host.SubMsgResult) (*host.Response, error) {
	proxyAddr, _, err := reply.InstantiatedContract(InitialMemberReplyID, result)
	if err != nil {
		return nil, err
	}

	var awaiting uint64
	ok, err := awaitingInitialResps.MayLoad(deps.Storage, &awaiting)
	if err != nil {
		return nil, err
	}
	if !ok || awaiting == 0 {
		return nil, code.NewBarrierViolation("no initial member is awaited")
	}

	addr, err := deps.API.AddrValidate(proxyAddr)
	if err != nil {
		return nil, err
	}
	if members.Has(deps.Storage, addr.Bytes()) {
		return nil, code.NewBarrierViolation("proxy " + proxyAddr + " confirmed twice")
	}

	owner, err := proxyOwner(deps, InitialMemberReplyID, proxyAddr)
	if err != nil {
		return nil, err
	}
	if err := members.Save(deps.Storage, addr.Bytes(), true); err != nil {
		return nil, err
	}

	awaiting--
	res := host.NewResponse().
		AddAttribute("action", "initial_member_admitted").
		AddAttribute("owner", owner).
		AddAttribute("proxy", proxyAddr).
		AddAttribute("awaiting", strconv.FormatUint(awaiting, 10))

	if awaiting > 0 {
		if err := awaitingInitialResps.Save(deps.Storage, awaiting); err != nil {
			return nil, err
		}
		return res, nil
	}

	awaitingInitialResps.Remove(deps.Storage)

	data, err := initialMembers(deps)
	if err != nil {
		return nil, err
	}
	bz, err := types.Marshal(data)
	if err != nil {
		return nil, err
	}
	return res.SetData(bz), nil
}

func initialMembers(deps host.Deps) (*common.InstantiationData, error) {
	keys, err := members.Keys(deps.Storage, nil)
	if err != nil {
		return nil, err
	}

	data := &common.InstantiationData{Members: make([]common.Member, 0, len(keys))}
	for _, key := range keys {
		proxyAddr := types.BytesToAddress(key).String()
		owner, err := proxyOwner(deps, InitialMemberReplyID, proxyAddr)
		if err != nil {
			return nil, err
		}
		data.Members = append(data.Members, common.Member{OwnerAddr: owner, ProxyAddr: proxyAddr})
	}
	return data, nil
}

// addMemberReply admits the candidate whose proxy was just created.
func (c *Contract) addMemberReply(deps host.Deps, env host.Env, result host.SubMsgResult) (*host.Response, error) {
	proxyAddr, _, err := reply.InstantiatedContract(AddMemberReplyID, result)
	if err != nil {
		return nil, err
	}

	addr, err := deps.API.AddrValidate(proxyAddr)
	if err != nil {
		return nil, err
	}

	owner, err := proxyOwner(deps, AddMemberReplyID, proxyAddr)
	if err != nil {
		return nil, err
	}
	if members.Has(deps.Storage, addr.Bytes()) {
		return nil, code.NewAlreadyAMember(owner, proxyAddr)
	}
	if err := members.Save(deps.Storage, addr.Bytes(), true); err != nil {
		return nil, err
	}

	data, err := types.Marshal(common.ProposeMemberData{Status: common.StatusAdmitted, OwnerAddr: owner, ProxyAddr: proxyAddr})
	if err != nil {
		return nil, err
	}
	return host.NewResponse().
		AddAttribute("action", "member_admitted").
		AddAttribute("owner", owner).
		AddAttribute("proxy", proxyAddr).
		SetData(data), nil
}
