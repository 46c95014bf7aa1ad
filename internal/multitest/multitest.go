// Package multitest wraps the contracts deployed on a host.App into typed helpers.
package multitest

import (
	"github.com/MinterTeam/minter-membership/contracts/common"
	"github.com/MinterTeam/minter-membership/contracts/membership"
	"github.com/MinterTeam/minter-membership/contracts/proxy"
	"github.com/MinterTeam/minter-membership/core/host"
	"github.com/MinterTeam/minter-membership/core/store"
	"github.com/MinterTeam/minter-membership/core/types"
	"github.com/MinterTeam/minter-membership/internal/testcontracts/distribution"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

func StoreMembership(app *host.App) uint64 {
	return app.StoreCode("membership", membership.New())
}

func StoreProxy(app *host.App) uint64 {
	return app.StoreCode("proxy", proxy.New())
}

func StoreDistribution(app *host.App) uint64 {
	return app.StoreCode("distribution", distribution.New())
}

type Membership struct {
	app  *host.App
	Addr string
}

// InstantiateMembership runs the bootstrap and returns the members it reported.
func InstantiateMembership(app *host.App, codeID uint64, sender string, msg membership.InstantiateMsg, label string) (Membership, *common.InstantiationData, error) {
	res, err := app.Instantiate(sender, codeID, types.MustMarshal(msg), nil, label, sender)
	if err != nil {
		return Membership{}, nil, err
	}

	var data common.InstantiationData
	if len(res.Data) > 0 {
		if err := types.Unmarshal(res.Data, &data); err != nil {
			return Membership{}, nil, err
		}
	}
	return Membership{app: app, Addr: res.Address}, &data, nil
}

func NewMembership(app *host.App, addr string) Membership {
	return Membership{app: app, Addr: addr}
}

// ProposeMember calls the membership contract directly, which only members' proxies may do.
func (m Membership) ProposeMember(sender, addr string) (*common.ProposeMemberData, error) {
	msg := membership.ExecuteMsg{ProposeMember: &membership.ProposeMember{Addr: addr}}
	res, err := m.app.Execute(sender, m.Addr, types.MustMarshal(msg), nil)
	if err != nil {
		return nil, err
	}
	return decodeProposeMemberData(res.Data)
}

func (m Membership) SetDistributionContract(sender, addr string) error {
	msg := membership.ExecuteMsg{SetDistributionContract: &membership.SetDistributionContract{Addr: addr}}
	_, err := m.app.Execute(sender, m.Addr, types.MustMarshal(msg), nil)
	return err
}

func (m Membership) IsMember(addr string) (bool, error) {
	msg := membership.QueryMsg{IsMember: &membership.IsMember{Addr: addr}}
	bz, err := m.app.QuerySmart(m.Addr, types.MustMarshal(msg))
	if err != nil {
		return false, err
	}

	var res common.IsMemberResponse
	if err := types.Unmarshal(bz, &res); err != nil {
		return false, err
	}
	return res.IsMember, nil
}

type Proxy struct {
	app  *host.App
	Addr string
}

func NewProxy(app *host.App, addr string) Proxy {
	return Proxy{app: app, Addr: addr}
}

func (p Proxy) execute(sender string, msg proxy.ExecuteMsg, funds sdk.Coins) (*host.AppResponse, error) {
	return p.app.Execute(sender, p.Addr, types.MustMarshal(msg), funds)
}

// ProposeMember votes for addr through the proxy and decodes the relayed answer.
func (p Proxy) ProposeMember(sender, addr string) (*common.ProposeMemberData, error) {
	res, err := p.execute(sender, proxy.ExecuteMsg{ProposeMember: &proxy.ProposeMember{Addr: addr}}, nil)
	if err != nil {
		return nil, err
	}
	return decodeProposeMemberData(res.Data)
}

func (p Proxy) Donate(sender string, funds sdk.Coins) (*host.AppResponse, error) {
	return p.execute(sender, proxy.ExecuteMsg{Donate: &proxy.Donate{}}, funds)
}

func (p Proxy) UpdateWeight(sender string) (*host.AppResponse, error) {
	return p.execute(sender, proxy.ExecuteMsg{UpdateWeight: &proxy.UpdateWeight{}}, nil)
}

func (p Proxy) Withdraw(sender, receiver, amount string) (*host.AppResponse, error) {
	return p.execute(sender, proxy.ExecuteMsg{Withdraw: &proxy.Withdraw{Receiver: receiver, Amount: amount}}, nil)
}

func (p Proxy) Close(sender string) (*host.AppResponse, error) {
	return p.execute(sender, proxy.ExecuteMsg{Close: &proxy.Close{}}, nil)
}

func (p Proxy) Owner() (string, error) {
	var owner string
	err := p.load(proxy.OwnerItem, &owner)
	return owner, err
}

func (p Proxy) Weight() (uint64, error) {
	var weight uint64
	err := p.load(proxy.WeightItem, &weight)
	return weight, err
}

func (p Proxy) LastUpdated() (uint64, error) {
	var lastUpdated uint64
	err := p.load(proxy.LastUpdatedItem, &lastUpdated)
	return lastUpdated, err
}

func (p Proxy) Donations() (uint64, error) {
	var donations uint64
	err := p.load(proxy.DonationsItem, &donations)
	return donations, err
}

func (p Proxy) Config() (proxy.Config, error) {
	var cfg proxy.Config
	err := p.load(proxy.ConfigItem, &cfg)
	return cfg, err
}

// PendingWithdrawal reports the staged withdrawal, if any.
func (p Proxy) PendingWithdrawal() (*proxy.PendingWithdrawal, error) {
	var pending proxy.PendingWithdrawal
	ok, err := proxy.PendingWithdrawalItem.Query(p, p.Addr, &pending)
	if err != nil || !ok {
		return nil, err
	}
	return &pending, nil
}

// QueryRaw lets a Proxy serve as the querier of its own cells.
func (p Proxy) QueryRaw(contract string, key []byte) ([]byte, error) {
	return p.app.QueryRaw(contract, key)
}

func (p Proxy) load(item store.Item, ptr interface{}) error {
	ok, err := item.Query(p, p.Addr, ptr)
	if err != nil {
		return err
	}
	if !ok {
		return store.ErrNotFound
	}
	return nil
}

type Distribution struct {
	app  *host.App
	Addr string
}

func InstantiateDistribution(app *host.App, codeID uint64, sender, denom string) (Distribution, error) {
	res, err := app.Instantiate(sender, codeID, types.MustMarshal(distribution.InstantiateMsg{Denom: denom}), nil, "distribution", sender)
	if err != nil {
		return Distribution{}, err
	}
	return Distribution{app: app, Addr: res.Address}, nil
}

func (d Distribution) Credit(sender, addr, amount string) error {
	msg := distribution.ExecuteMsg{Credit: &distribution.Credit{Addr: addr, Amount: amount}}
	_, err := d.app.Execute(sender, d.Addr, types.MustMarshal(msg), nil)
	return err
}

func (d Distribution) SetFailing(sender string, failing bool) error {
	msg := distribution.ExecuteMsg{SetFailing: &distribution.SetFailing{Failing: failing}}
	_, err := d.app.Execute(sender, d.Addr, types.MustMarshal(msg), nil)
	return err
}

func (d Distribution) LastWithdraw(addr string) (distribution.LastWithdrawResponse, error) {
	var res distribution.LastWithdrawResponse
	msg := distribution.QueryMsg{LastWithdraw: &distribution.LastWithdraw{Addr: addr}}
	bz, err := d.app.QuerySmart(d.Addr, types.MustMarshal(msg))
	if err != nil {
		return res, err
	}
	return res, types.Unmarshal(bz, &res)
}

func (d Distribution) Pool() (sdk.Int, error) {
	var res distribution.PoolResponse
	bz, err := d.app.QuerySmart(d.Addr, types.MustMarshal(distribution.QueryMsg{Pool: &distribution.Pool{}}))
	if err != nil {
		return sdk.Int{}, err
	}
	if err := types.Unmarshal(bz, &res); err != nil {
		return sdk.Int{}, err
	}
	amount, _ := sdk.NewIntFromString(res.Amount)
	return amount, nil
}

func decodeProposeMemberData(bz []byte) (*common.ProposeMemberData, error) {
	if len(bz) == 0 {
		return nil, nil
	}
	var data common.ProposeMemberData
	if err := types.Unmarshal(bz, &data); err != nil {
		return nil, err
	}
	return &data, nil
}
