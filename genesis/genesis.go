// Package genesis describes the membership a node starts from and bootstraps it
// into an empty App.
package genesis

import (
	"fmt"
	"os"
	"time"

	"github.com/MinterTeam/minter-membership/core/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"gopkg.in/yaml.v3"
)

type Genesis struct {
	GenesisTime    time.Time  `yaml:"genesis_time"`
	Admin          string     `yaml:"admin"`
	Membership     Membership `yaml:"membership"`
	InitialMembers []string   `yaml:"initial_members"`
	Balances       []Account  `yaml:"balances,omitempty"`
}

// Membership holds the parameters of the membership contract and of every proxy it
// creates.
type Membership struct {
	StartingWeight       uint64        `yaml:"starting_weight"`
	Denom                string        `yaml:"denom"`
	DirectPart           string        `yaml:"direct_part"`
	Halftime             time.Duration `yaml:"halftime"`
	MinimalAcceptances   uint64        `yaml:"minimal_acceptances"`
	DistributionContract string        `yaml:"distribution_contract,omitempty"`
}

type Account struct {
	Address string `yaml:"address"`
	Coins   []Coin `yaml:"coins"`
}

type Coin struct {
	Denom  string `yaml:"denom"`
	Amount string `yaml:"amount"`
}

// Load reads and validates the genesis file at path.
func Load(path string) (*Genesis, error) {
	bz, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(bz)
}

func Parse(bz []byte) (*Genesis, error) {
	var g Genesis
	if err := yaml.Unmarshal(bz, &g); err != nil {
		return nil, fmt.Errorf("decode genesis: %w", err)
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return &g, nil
}

func (g *Genesis) Marshal() ([]byte, error) {
	return yaml.Marshal(g)
}

// Validate checks what the membership contract checks on instantiation, so a bad
// genesis fails before the node opens its database.
func (g *Genesis) Validate() error {
	if _, err := types.ParseAddress(g.Admin); err != nil {
		return fmt.Errorf("admin: %w", err)
	}

	m := g.Membership
	if m.MinimalAcceptances < 2 {
		return fmt.Errorf("minimal_acceptances must be at least 2, got %d", m.MinimalAcceptances)
	}
	if uint64(len(g.InitialMembers)) < m.MinimalAcceptances {
		return fmt.Errorf("need at least %d initial members, got %d", m.MinimalAcceptances, len(g.InitialMembers))
	}
	if err := sdk.ValidateDenom(m.Denom); err != nil {
		return fmt.Errorf("denom: %w", err)
	}
	part, err := sdk.NewDecFromStr(m.DirectPart)
	if err != nil || part.IsNegative() || part.GT(sdk.OneDec()) {
		return fmt.Errorf("direct_part must be a decimal between 0 and 1, got %q", m.DirectPart)
	}
	if m.Halftime < time.Second {
		return fmt.Errorf("halftime must be at least a second, got %s", m.Halftime)
	}
	if m.DistributionContract != "" {
		if _, err := types.ParseAddress(m.DistributionContract); err != nil {
			return fmt.Errorf("distribution_contract: %w", err)
		}
	}

	seen := make(map[string]struct{}, len(g.InitialMembers))
	for i, member := range g.InitialMembers {
		if _, err := types.ParseAddress(member); err != nil {
			return fmt.Errorf("initial member %d: %w", i, err)
		}
		if _, ok := seen[member]; ok {
			return fmt.Errorf("initial member %s is listed twice", member)
		}
		seen[member] = struct{}{}
	}

	for _, account := range g.Balances {
		if _, err := account.coins(); err != nil {
			return err
		}
	}

	return nil
}

func (a Account) coins() (sdk.Coins, error) {
	if _, err := types.ParseAddress(a.Address); err != nil {
		return nil, fmt.Errorf("balance: %w", err)
	}

	coins := make(sdk.Coins, 0, len(a.Coins))
	for _, c := range a.Coins {
		amount, ok := sdk.NewIntFromString(c.Amount)
		if !ok || !amount.IsPositive() {
			return nil, fmt.Errorf("balance of %s: invalid amount %q", a.Address, c.Amount)
		}
		if err := sdk.ValidateDenom(c.Denom); err != nil {
			return nil, fmt.Errorf("balance of %s: %w", a.Address, err)
		}
		coins = coins.Add(sdk.NewCoin(c.Denom, amount))
	}
	return coins, nil
}
