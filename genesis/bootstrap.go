package genesis

import (
	"github.com/MinterTeam/minter-membership/contracts/common"
	"github.com/MinterTeam/minter-membership/contracts/membership"
	"github.com/MinterTeam/minter-membership/contracts/proxy"
	"github.com/MinterTeam/minter-membership/core/host"
	"github.com/MinterTeam/minter-membership/core/types"
	"github.com/pkg/errors"
)

const MembershipLabel = "membership"

// Codes are the code ids the membership and proxy programs were stored under.
type Codes struct {
	Membership uint64
	Proxy      uint64
}

// StoreCodes registers the programs a node runs. The order is part of the state:
// instance addresses derive from code ids.
func StoreCodes(app *host.App) Codes {
	return Codes{
		Membership: app.StoreCode("membership", membership.New()),
		Proxy:      app.StoreCode("proxy", proxy.New()),
	}
}

type Result struct {
	Membership string          `json:"membership"`
	Members    []common.Member `json:"members"`
}

// Bootstrap funds the genesis accounts and instantiates the membership contract
// together with a proxy per initial member.
func Bootstrap(app *host.App, codes Codes, g *Genesis) (*Result, error) {
	for _, account := range g.Balances {
		coins, err := account.coins()
		if err != nil {
			return nil, err
		}
		if err := app.Mint(account.Address, coins); err != nil {
			return nil, errors.Wrapf(err, "mint %s", account.Address)
		}
	}

	msg := membership.InstantiateMsg{
		StartingWeight:       g.Membership.StartingWeight,
		Denom:                g.Membership.Denom,
		DirectPart:           g.Membership.DirectPart,
		Halftime:             uint64(g.Membership.Halftime.Seconds()),
		ProxyCodeID:          codes.Proxy,
		DistributionContract: g.Membership.DistributionContract,
		MinimalAcceptances:   g.Membership.MinimalAcceptances,
		InitialMembers:       g.InitialMembers,
	}
	raw, err := types.Marshal(msg)
	if err != nil {
		return nil, err
	}

	res, err := app.Instantiate(g.Admin, codes.Membership, raw, nil, MembershipLabel, g.Admin)
	if err != nil {
		return nil, errors.Wrap(err, "instantiate membership")
	}

	var data common.InstantiationData
	if err := types.Unmarshal(res.Data, &data); err != nil {
		return nil, errors.Wrap(err, "decode initial members")
	}

	return &Result{Membership: res.Address, Members: data.Members}, nil
}
