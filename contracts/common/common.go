// Package common holds the messages exchanged between the membership and proxy contracts.
package common

// MembershipConfigKey is the storage key of the membership config. Proxies read it
// remotely to find the distribution contract once it is set.
const MembershipConfigKey = "config"

const (
	StatusPending  = "pending"
	StatusAdmitted = "admitted"
)

// ProposeMemberData is returned by a proposal, either as a running tally or as the
// record of an admitted member.
type ProposeMemberData struct {
	Status    string `json:"status"`
	Votes     uint64 `json:"votes,omitempty"`
	OwnerAddr string `json:"owner_addr,omitempty"`
	ProxyAddr string `json:"proxy_addr,omitempty"`
}

type Member struct {
	OwnerAddr string `json:"owner_addr"`
	ProxyAddr string `json:"proxy_addr"`
}

// InstantiationData is the result of a completed bootstrap.
type InstantiationData struct {
	Members []Member `json:"members"`
}

type IsMemberResponse struct {
	IsMember bool `json:"is_member"`
}
