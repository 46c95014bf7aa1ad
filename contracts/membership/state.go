package membership

import (
	"github.com/MinterTeam/minter-membership/contracts/common"
	"github.com/MinterTeam/minter-membership/core/store"
)

type Config struct {
	StartingWeight       uint64 `json:"starting_weight"`
	Denom                string `json:"denom"`
	DirectPart           string `json:"direct_part"`
	Halftime             uint64 `json:"halftime"`
	ProxyCodeID          uint64 `json:"proxy_code_id"`
	DistributionContract string `json:"distribution_contract"`
	MinimalAcceptances   uint64 `json:"minimal_acceptances"`
}

var (
	config = store.NewItem(common.MembershipConfigKey)
	admin  = store.NewItem("admin")
	// proxy address -> true
	members = store.NewMap("members")
	// candidate address -> votes so far
	proposals = store.NewMap("proposals")
	// (voter proxy, candidate) -> true
	votes = store.NewMap("votes")
	// proxies of the initial members not confirmed yet
	awaitingInitialResps = store.NewItem("awaiting_initial_resps")
)
