package proxy

import (
	"github.com/MinterTeam/minter-membership/core/code"
	"github.com/MinterTeam/minter-membership/core/host"
	"github.com/MinterTeam/minter-membership/core/reply"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// withdrawReply pays out the staged withdrawal once the distribution contract settled.
func (c *Contract) withdrawReply(deps host.Deps, env host.Env, result host.SubMsgResult) (*host.Response, error) {
	if _, err := reply.ExecutedData(WithdrawReplyID, result); err != nil {
		return nil, err
	}

	var pending PendingWithdrawal
	ok, err := PendingWithdrawalItem.MayLoad(deps.Storage, &pending)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, code.NewMissingPendingState(string(PendingWithdrawalItem.Key()))
	}

	var cfg Config
	if err := ConfigItem.Load(deps.Storage, &cfg); err != nil {
		return nil, err
	}

	balance, err := deps.Querier.QueryBalance(env.Contract.Address, cfg.Denom)
	if err != nil {
		return nil, err
	}

	amount := balance.Amount
	if pending.Amount != "" {
		var valid bool
		if amount, valid = sdk.NewIntFromString(pending.Amount); !valid || amount.IsNegative() {
			return nil, code.NewInvalidAmount(pending.Amount)
		}
		if amount.GT(balance.Amount) {
			return nil, code.NewInsufficientFunds(env.Contract.Address, amount.String(), balance.Amount.String(), cfg.Denom)
		}
	}

	PendingWithdrawalItem.Remove(deps.Storage)

	res := host.NewResponse().
		AddAttribute("action", "withdraw_settled").
		AddAttribute("receiver", pending.Receiver).
		AddAttribute("amount", amount.String())

	if amount.IsPositive() {
		res.AddMessage(host.NewBankSend(pending.Receiver, sdk.NewCoins(sdk.NewCoin(cfg.Denom, amount))))
	}
	return res, nil
}

// proposeMemberReply relays whatever the membership contract answered.
func (c *Contract) proposeMemberReply(deps host.Deps, env host.Env, result host.SubMsgResult) (*host.Response, error) {
	data, err := reply.ExecutedData(ProposeMemberReplyID, result)
	if err != nil {
		return nil, err
	}

	res := host.NewResponse()
	if data != nil {
		res.SetData(data)
	}
	return res, nil
}
