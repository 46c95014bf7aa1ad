package multitest

import (
	"testing"
	"time"

	"github.com/MinterTeam/minter-membership/contracts/common"
	"github.com/MinterTeam/minter-membership/contracts/membership"
	"github.com/MinterTeam/minter-membership/core/code"
	"github.com/MinterTeam/minter-membership/core/host"
	"github.com/MinterTeam/minter-membership/core/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"
)

const (
	denom    = "orai"
	halftime = uint64(30 * 24 * 60 * 60)
)

var (
	admin  = types.StringToAddress("admin").String()
	donor  = types.StringToAddress("donor").String()
	ownerA = types.StringToAddress("owner-a").String()
	ownerB = types.StringToAddress("owner-b").String()
	ownerC = types.StringToAddress("owner-c").String()
	ownerD = types.StringToAddress("owner-d").String()
)

type suite struct {
	app          *host.App
	membershipID uint64
	proxyID      uint64
	distribution Distribution
}

func newSuite(t *testing.T) *suite {
	app := host.NewMemApp(host.WithGenesisTime(time.Unix(1600000000, 0)))
	s := &suite{
		app:          app,
		membershipID: StoreMembership(app),
		proxyID:      StoreProxy(app),
	}

	var err error
	s.distribution, err = InstantiateDistribution(app, StoreDistribution(app), admin, denom)
	require.NoError(t, err)
	return s
}

func (s *suite) instantiateMsg(distribution string, members ...string) membership.InstantiateMsg {
	return membership.InstantiateMsg{
		StartingWeight:       10,
		Denom:                denom,
		DirectPart:           "0.15",
		Halftime:             halftime,
		ProxyCodeID:          s.proxyID,
		DistributionContract: distribution,
		MinimalAcceptances:   2,
		InitialMembers:       members,
	}
}

// bootstrap instantiates membership for owners and returns their proxies by owner.
func (s *suite) bootstrap(t *testing.T, owners ...string) (Membership, map[string]Proxy) {
	m, data, err := InstantiateMembership(s.app, s.membershipID, admin, s.instantiateMsg(s.distribution.Addr, owners...), "membership")
	require.NoError(t, err)
	require.Len(t, data.Members, len(owners))

	proxies := make(map[string]Proxy, len(owners))
	for _, member := range data.Members {
		proxies[member.OwnerAddr] = NewProxy(s.app, member.ProxyAddr)
	}
	require.Len(t, proxies, len(owners))
	return m, proxies
}

func attribute(events []host.Event, key string) string {
	for _, event := range events {
		if event.Type != "wasm" {
			continue
		}
		for _, attr := range event.Attributes {
			if attr.Key == key {
				return attr.Value
			}
		}
	}
	return ""
}

func TestAdmissionScenario(t *testing.T) {
	s := newSuite(t)
	m, proxies := s.bootstrap(t, ownerA, ownerB)

	for owner, p := range proxies {
		got, err := p.Owner()
		require.NoError(t, err)
		require.Equal(t, owner, got)

		ok, err := m.IsMember(p.Addr)
		require.NoError(t, err)
		require.True(t, ok)
	}

	data, err := proxies[ownerA].ProposeMember(ownerA, ownerC)
	require.NoError(t, err)
	require.Equal(t, &common.ProposeMemberData{Status: common.StatusPending, Votes: 1}, data)

	data, err = proxies[ownerB].ProposeMember(ownerB, ownerC)
	require.NoError(t, err)
	require.Equal(t, common.StatusAdmitted, data.Status)
	require.Equal(t, ownerC, data.OwnerAddr)

	ok, err := m.IsMember(data.ProxyAddr)
	require.NoError(t, err)
	require.True(t, ok)

	owner, err := NewProxy(s.app, data.ProxyAddr).Owner()
	require.NoError(t, err)
	require.Equal(t, ownerC, owner)

	ok, err = m.IsMember(ownerC)
	require.NoError(t, err)
	require.False(t, ok)

	_, err = proxies[ownerA].ProposeMember(ownerA, ownerC)
	require.Equal(t, code.AlreadyAMember, code.Of(err))
}

func TestAlreadyVotedKeepsTally(t *testing.T) {
	s := newSuite(t)
	_, proxies := s.bootstrap(t, ownerA, ownerB, ownerC)

	data, err := proxies[ownerA].ProposeMember(ownerA, ownerD)
	require.NoError(t, err)
	require.Equal(t, uint64(1), data.Votes)

	_, err = proxies[ownerA].ProposeMember(ownerA, ownerD)
	if code.Of(err) != code.AlreadyVoted {
		t.Fatalf("expected already voted, got %v", err)
	}

	data, err = proxies[ownerB].ProposeMember(ownerB, ownerD)
	require.NoError(t, err)
	require.Equal(t, common.StatusAdmitted, data.Status)
}

func TestProposeMemberAuthorization(t *testing.T) {
	s := newSuite(t)
	m, proxies := s.bootstrap(t, ownerA, ownerB)

	_, err := proxies[ownerA].ProposeMember(ownerB, ownerC)
	require.Equal(t, code.Unauthorized, code.Of(err))

	_, err = m.ProposeMember(ownerA, ownerC)
	require.Equal(t, code.Unauthorized, code.Of(err))

	_, err = proxies[ownerA].ProposeMember(ownerA, "not-an-address")
	require.Equal(t, code.InvalidAddress, code.Of(err))
}

func TestBootstrapFailureWritesNothing(t *testing.T) {
	tests := []struct {
		name    string
		members []string
		min     uint64
		code    uint32
	}{
		{"threshold below two", []string{ownerA, ownerB}, 1, code.NotEnoughRequiredAcceptances},
		{"not enough members", []string{ownerA}, 2, code.NotEnoughInitialMembers},
		{"duplicated member", []string{ownerA, ownerA}, 2, code.DuplicatedInitialMember},
		{"malformed member", []string{ownerA, "nope"}, 2, code.InvalidAddress},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSuite(t)
			before := s.app.AppHash()

			msg := s.instantiateMsg(s.distribution.Addr, tt.members...)
			msg.MinimalAcceptances = tt.min
			_, _, err := InstantiateMembership(s.app, s.membershipID, admin, msg, "membership")
			require.Equal(t, tt.code, code.Of(err))
			require.Equal(t, before, s.app.AppHash())
		})
	}
}

func TestDonateSplitsFunds(t *testing.T) {
	s := newSuite(t)
	_, proxies := s.bootstrap(t, ownerA, ownerB)
	p := proxies[ownerA]

	require.NoError(t, s.app.Mint(donor, sdk.NewCoins(sdk.NewInt64Coin(denom, 1000), sdk.NewInt64Coin("uatom", 10))))

	_, err := p.Donate(donor, sdk.NewCoins(sdk.NewInt64Coin(denom, 1000)))
	require.NoError(t, err)

	balance, err := s.app.Balance(p.Addr, denom)
	require.NoError(t, err)
	require.Equal(t, "150", balance.String())

	pool, err := s.distribution.Pool()
	require.NoError(t, err)
	require.Equal(t, "850", pool.String())

	donations, err := p.Donations()
	require.NoError(t, err)
	require.Equal(t, uint64(1), donations)

	_, err = p.Donate(donor, nil)
	require.Equal(t, code.NoFunds, code.Of(err))

	_, err = p.Donate(donor, sdk.NewCoins(sdk.NewInt64Coin("uatom", 10)))
	require.Equal(t, code.WrongDenom, code.Of(err))
}

func TestWithdrawal(t *testing.T) {
	s := newSuite(t)
	_, proxies := s.bootstrap(t, ownerA, ownerB)
	p := proxies[ownerA]

	require.NoError(t, s.app.Mint(donor, sdk.NewCoins(sdk.NewInt64Coin(denom, 2000))))
	_, err := p.Donate(donor, sdk.NewCoins(sdk.NewInt64Coin(denom, 1000)))
	require.NoError(t, err)
	require.NoError(t, s.distribution.Credit(admin, p.Addr, "100"))

	_, err = p.Withdraw(ownerB, "", "")
	require.Equal(t, code.Unauthorized, code.Of(err))

	_, err = p.Withdraw(ownerA, "", "")
	require.NoError(t, err)

	balance, err := s.app.Balance(ownerA, denom)
	require.NoError(t, err)
	require.Equal(t, "250", balance.String())

	balance, err = s.app.Balance(p.Addr, denom)
	require.NoError(t, err)
	require.True(t, balance.IsZero())

	pending, err := p.PendingWithdrawal()
	require.NoError(t, err)
	require.Nil(t, pending)

	last, err := s.distribution.LastWithdraw(p.Addr)
	require.NoError(t, err)
	require.True(t, last.Found)
	require.Equal(t, uint64(10), last.Weight)
	require.Zero(t, last.Diff)

	_, err = p.Donate(donor, sdk.NewCoins(sdk.NewInt64Coin(denom, 1000)))
	require.NoError(t, err)

	_, err = p.Withdraw(ownerA, ownerD, "500")
	require.Equal(t, code.InsufficientFunds, code.Of(err))
	pending, err = p.PendingWithdrawal()
	require.NoError(t, err)
	require.Nil(t, pending)

	_, err = p.Withdraw(ownerA, ownerD, "30")
	require.NoError(t, err)

	balance, err = s.app.Balance(ownerD, denom)
	require.NoError(t, err)
	require.Equal(t, "30", balance.String())

	balance, err = s.app.Balance(p.Addr, denom)
	require.NoError(t, err)
	require.Equal(t, "120", balance.String())
}

func TestUpdateWeightHalvesOncePerHalftime(t *testing.T) {
	s := newSuite(t)
	_, proxies := s.bootstrap(t, ownerA, ownerB)
	p := proxies[ownerA]

	res, err := p.UpdateWeight(donor)
	require.NoError(t, err)
	require.Equal(t, "no", attribute(res.Events, "performed"))

	_, err = s.app.NextBlock(time.Duration(halftime) * time.Second)
	require.NoError(t, err)

	res, err = p.UpdateWeight(donor)
	require.NoError(t, err)
	require.Equal(t, "yes", attribute(res.Events, "performed"))

	weight, err := p.Weight()
	require.NoError(t, err)
	require.Equal(t, uint64(5), weight)

	last, err := s.distribution.LastWithdraw(p.Addr)
	require.NoError(t, err)
	require.Equal(t, uint64(10), last.Weight)
	require.Equal(t, int64(-5), last.Diff)

	res, err = p.UpdateWeight(donor)
	require.NoError(t, err)
	require.Equal(t, "no", attribute(res.Events, "performed"))
	weight, err = p.Weight()
	require.NoError(t, err)
	require.Equal(t, uint64(5), weight)

	lastUpdated, err := p.LastUpdated()
	require.NoError(t, err)
	require.Equal(t, uint64(s.app.Time().Unix()), lastUpdated)

	for _, expected := range []struct {
		weight uint64
		diff   int64
		count  uint64
	}{{3, -2, 2}, {2, -1, 3}, {1, -1, 4}, {1, -1, 4}} {
		_, err = s.app.NextBlock(time.Duration(halftime) * time.Second)
		require.NoError(t, err)
		_, err = p.UpdateWeight(donor)
		require.NoError(t, err)

		weight, err = p.Weight()
		require.NoError(t, err)
		require.Equal(t, expected.weight, weight)

		last, err = s.distribution.LastWithdraw(p.Addr)
		require.NoError(t, err)
		require.Equal(t, expected.count, last.Count)
		require.Equal(t, expected.diff, last.Diff)
	}
}

func TestCloseIsTerminal(t *testing.T) {
	s := newSuite(t)
	_, proxies := s.bootstrap(t, ownerA, ownerB)
	p := proxies[ownerA]

	_, err := p.Close(ownerB)
	require.Equal(t, code.Unauthorized, code.Of(err))

	_, err = p.Close(ownerA)
	require.NoError(t, err)

	cfg, err := p.Config()
	require.NoError(t, err)
	require.True(t, cfg.IsClosed)

	require.NoError(t, s.app.Mint(donor, sdk.NewCoins(sdk.NewInt64Coin(denom, 10))))
	for name, call := range map[string]func() error{
		"close":          func() error { _, err := p.Close(ownerA); return err },
		"donate":         func() error { _, err := p.Donate(donor, sdk.NewCoins(sdk.NewInt64Coin(denom, 10))); return err },
		"update_weight":  func() error { _, err := p.UpdateWeight(ownerA); return err },
		"withdraw":       func() error { _, err := p.Withdraw(ownerA, "", ""); return err },
		"propose_member": func() error { _, err := p.ProposeMember(ownerA, ownerC); return err },
	} {
		if err := call(); code.Of(err) != code.ProxyClosed {
			t.Fatalf("%s on closed proxy: expected proxy closed, got %v", name, err)
		}
	}
}

func TestLateBoundDistribution(t *testing.T) {
	s := newSuite(t)
	m, data, err := InstantiateMembership(s.app, s.membershipID, admin, s.instantiateMsg("", ownerA, ownerB), "membership")
	require.NoError(t, err)
	p := NewProxy(s.app, data.Members[0].ProxyAddr)

	require.NoError(t, s.app.Mint(donor, sdk.NewCoins(sdk.NewInt64Coin(denom, 100))))
	_, err = p.Donate(donor, sdk.NewCoins(sdk.NewInt64Coin(denom, 100)))
	require.Equal(t, code.DistributionNotSet, code.Of(err))

	err = m.SetDistributionContract(ownerA, s.distribution.Addr)
	require.Equal(t, code.Unauthorized, code.Of(err))

	require.NoError(t, m.SetDistributionContract(admin, s.distribution.Addr))

	_, err = p.Donate(donor, sdk.NewCoins(sdk.NewInt64Coin(denom, 100)))
	require.NoError(t, err)

	pool, err := s.distribution.Pool()
	require.NoError(t, err)
	require.Equal(t, "85", pool.String())

	err = m.SetDistributionContract(admin, s.distribution.Addr)
	require.Equal(t, code.DistributionAlreadySet, code.Of(err))
}

func TestFailingDistributionAbortsWithdrawal(t *testing.T) {
	s := newSuite(t)
	_, proxies := s.bootstrap(t, ownerA, ownerB)
	p := proxies[ownerA]

	require.NoError(t, s.distribution.SetFailing(admin, true))

	_, err := p.Withdraw(ownerA, "", "")
	require.Error(t, err)

	pending, err := p.PendingWithdrawal()
	require.NoError(t, err)
	require.Nil(t, pending)
}
