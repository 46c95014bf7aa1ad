package host

import (
	"github.com/MinterTeam/minter-membership/core/code"
	"github.com/MinterTeam/minter-membership/core/store"
	"github.com/MinterTeam/minter-membership/core/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

const mainPrefix = "bank/"

// bank keeps balances in the state tree so that they roll back with the unit of work.
type bank struct{}

func (bank) key(addr types.Address, denom string) []byte {
	key := append([]byte(mainPrefix), addr.Bytes()...)
	key = append(key, '/')
	return append(key, []byte(denom)...)
}

func (b bank) balance(s store.KVStore, addr types.Address, denom string) sdk.Int {
	bz := s.Get(b.key(addr, denom))
	if len(bz) == 0 {
		return sdk.ZeroInt()
	}

	amount, ok := sdk.NewIntFromString(string(bz))
	if !ok {
		panic("corrupted balance of " + addr.String())
	}
	return amount
}

func (b bank) setBalance(s store.KVStore, addr types.Address, denom string, amount sdk.Int) {
	if amount.IsZero() {
		s.Delete(b.key(addr, denom))
		return
	}
	s.Set(b.key(addr, denom), []byte(amount.String()))
}

func (b bank) mint(s store.KVStore, to types.Address, coins sdk.Coins) {
	for _, coin := range coins {
		b.setBalance(s, to, coin.Denom, b.balance(s, to, coin.Denom).Add(coin.Amount))
	}
}

func (b bank) send(s store.KVStore, from, to types.Address, coins sdk.Coins) error {
	for _, coin := range coins {
		has := b.balance(s, from, coin.Denom)
		if has.LT(coin.Amount) {
			return code.NewInsufficientFunds(from.String(), coin.Amount.String(), has.String(), coin.Denom)
		}
	}

	for _, coin := range coins {
		b.setBalance(s, from, coin.Denom, b.balance(s, from, coin.Denom).Sub(coin.Amount))
		b.setBalance(s, to, coin.Denom, b.balance(s, to, coin.Denom).Add(coin.Amount))
	}
	return nil
}
