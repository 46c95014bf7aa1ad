package proxy

import (
	"strconv"

	"github.com/MinterTeam/minter-membership/core/code"
	"github.com/MinterTeam/minter-membership/core/host"
	"github.com/MinterTeam/minter-membership/core/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

func (c *Contract) donate(deps host.Deps, env host.Env, info host.MessageInfo, cfg Config) (*host.Response, error) {
	amount, err := mustPay(info, cfg.Denom)
	if err != nil {
		return nil, err
	}

	directPart, err := parseDirectPart(cfg.DirectPart)
	if err != nil {
		return nil, err
	}
	direct := amount.ToDec().Mul(directPart).TruncateInt()
	toDistribute := amount.Sub(direct)

	var donations uint64
	if err := DonationsItem.Load(deps.Storage, &donations); err != nil {
		return nil, err
	}
	if err := DonationsItem.Save(deps.Storage, donations+1); err != nil {
		return nil, err
	}

	res := host.NewResponse().
		AddAttribute("action", "donate").
		AddAttribute("sender", info.Sender).
		AddAttribute("amount", amount.String()).
		AddAttribute("direct", direct.String())

	if toDistribute.IsPositive() {
		distribution, err := distributionContract(deps, env, cfg)
		if err != nil {
			return nil, err
		}
		msg := types.MustMarshal(DistributionExecMsg{Distribute: &Distribute{}})
		res.AddMessage(host.NewExecute(distribution, msg, sdk.NewCoins(sdk.NewCoin(cfg.Denom, toDistribute))))
	}

	return res, nil
}

// updateWeight halves the weight once per half-life. The diff sent to the distribution
// contract is the non-positive change of the weight.
func (c *Contract) updateWeight(deps host.Deps, env host.Env, info host.MessageInfo, cfg Config) (*host.Response, error) {
	var lastUpdated, halftime, weight uint64
	if err := LastUpdatedItem.Load(deps.Storage, &lastUpdated); err != nil {
		return nil, err
	}
	if err := HalftimeItem.Load(deps.Storage, &halftime); err != nil {
		return nil, err
	}

	res := host.NewResponse().
		AddAttribute("action", "update_weight").
		AddAttribute("sender", info.Sender)

	now := unixSeconds(env)
	var elapsed uint64
	if now > lastUpdated {
		elapsed = now - lastUpdated
	}
	if elapsed < halftime {
		return res.AddAttribute("performed", "no"), nil
	}

	if err := WeightItem.Load(deps.Storage, &weight); err != nil {
		return nil, err
	}
	diff := decay(weight)
	newWeight := uint64(int64(weight) + diff)

	if err := WeightItem.Save(deps.Storage, newWeight); err != nil {
		return nil, err
	}
	if err := LastUpdatedItem.Save(deps.Storage, now); err != nil {
		return nil, err
	}

	res.AddAttribute("performed", "yes").
		AddAttribute("new_weight", strconv.FormatUint(newWeight, 10))

	if diff == 0 {
		return res, nil
	}

	distribution, err := distributionContract(deps, env, cfg)
	if err != nil {
		return nil, err
	}
	msg := types.MustMarshal(DistributionExecMsg{Withdraw: &WithdrawShare{Weight: weight, Diff: diff}})
	return res.AddMessage(host.NewExecute(distribution, msg, nil)), nil
}

// decay is the change applied to weight by one half-life, truncated toward zero.
func decay(weight uint64) int64 {
	return -int64(weight / 2)
}

func (c *Contract) proposeMember(deps host.Deps, info host.MessageInfo, cfg Config, addr string) (*host.Response, error) {
	if _, err := ensureOwner(deps, info.Sender); err != nil {
		return nil, err
	}

	msg := types.MustMarshal(membershipExecMsg{ProposeMember: &ProposeMember{Addr: addr}})
	return host.NewResponse().
		AddSubMessage(host.ReplyOnSuccess(ProposeMemberReplyID, host.NewExecute(cfg.MembershipContract, msg, nil))).
		AddAttribute("action", "propose_member").
		AddAttribute("sender", info.Sender).
		AddAttribute("addr", addr), nil
}

// withdraw stages the intent and asks the distribution contract to settle the share
// of this proxy. The transfer happens in the continuation.
func (c *Contract) withdraw(deps host.Deps, env host.Env, info host.MessageInfo, cfg Config, msg Withdraw) (*host.Response, error) {
	owner, err := ensureOwner(deps, info.Sender)
	if err != nil {
		return nil, err
	}

	var pending PendingWithdrawal
	ok, err := PendingWithdrawalItem.MayLoad(deps.Storage, &pending)
	if err != nil {
		return nil, err
	}
	if ok {
		return nil, code.NewWithdrawalInProgress(pending.Receiver)
	}

	receiver := owner
	if msg.Receiver != "" {
		addr, err := deps.API.AddrValidate(msg.Receiver)
		if err != nil {
			return nil, err
		}
		receiver = addr.String()
	}

	if msg.Amount != "" {
		amount, ok := sdk.NewIntFromString(msg.Amount)
		if !ok || amount.IsNegative() {
			return nil, code.NewInvalidAmount(msg.Amount)
		}
	}

	distribution, err := distributionContract(deps, env, cfg)
	if err != nil {
		return nil, err
	}

	var weight uint64
	if err := WeightItem.Load(deps.Storage, &weight); err != nil {
		return nil, err
	}

	if err := PendingWithdrawalItem.Save(deps.Storage, PendingWithdrawal{Receiver: receiver, Amount: msg.Amount}); err != nil {
		return nil, err
	}

	settle := types.MustMarshal(DistributionExecMsg{Withdraw: &WithdrawShare{Weight: weight}})
	return host.NewResponse().
		AddSubMessage(host.ReplyOnSuccess(WithdrawReplyID, host.NewExecute(distribution, settle, nil))).
		AddAttribute("action", "withdraw").
		AddAttribute("receiver", receiver), nil
}

func (c *Contract) close(deps host.Deps, info host.MessageInfo, cfg Config) (*host.Response, error) {
	if _, err := ensureOwner(deps, info.Sender); err != nil {
		return nil, err
	}

	cfg.IsClosed = true
	if err := ConfigItem.Save(deps.Storage, cfg); err != nil {
		return nil, err
	}

	return host.NewResponse().AddAttribute("action", "close"), nil
}

// mustPay returns the amount of the single coin of denom attached to the call.
func mustPay(info host.MessageInfo, denom string) (sdk.Int, error) {
	switch len(info.Funds) {
	case 0:
		return sdk.Int{}, code.NewNoFunds(denom)
	case 1:
	default:
		return sdk.Int{}, code.NewMultipleDenoms(denom, info.Funds.String())
	}

	coin := info.Funds[0]
	if coin.Denom != denom {
		return sdk.Int{}, code.NewWrongDenom(denom, coin.Denom)
	}
	if !coin.Amount.IsPositive() {
		return sdk.Int{}, code.NewNoFunds(denom)
	}
	return coin.Amount, nil
}
