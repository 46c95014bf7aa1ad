package proxy

import (
	"github.com/MinterTeam/minter-membership/contracts/common"
	"github.com/MinterTeam/minter-membership/core/store"
)

type Config struct {
	Denom                string `json:"denom"`
	DirectPart           string `json:"direct_part"`
	DistributionContract string `json:"distribution_contract"`
	MembershipContract   string `json:"membership_contract"`
	IsClosed             bool   `json:"is_closed"`
}

// PendingWithdrawal is staged before the distribution contract is asked to settle and
// consumed by the continuation of that request.
type PendingWithdrawal struct {
	Receiver string `json:"receiver"`
	Amount   string `json:"amount,omitempty"`
}

var (
	ConfigItem            = store.NewItem("config")
	OwnerItem             = store.NewItem("owner")
	WeightItem            = store.NewItem("weight")
	LastUpdatedItem       = store.NewItem("last_updated")
	HalftimeItem          = store.NewItem("halftime")
	DonationsItem         = store.NewItem("donations")
	PendingWithdrawalItem = store.NewItem("pending_withdrawal")

	membershipConfig = store.NewItem(common.MembershipConfigKey)
)

// remoteMembershipConfig is the part of the membership config a proxy cares about.
type remoteMembershipConfig struct {
	DistributionContract string `json:"distribution_contract"`
}
