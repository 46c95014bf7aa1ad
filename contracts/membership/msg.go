package membership

// InstantiateMsg creates the membership contract and a proxy for every initial member.
// Halftime is the decay half-life of proxies in seconds.
type InstantiateMsg struct {
	StartingWeight       uint64   `json:"starting_weight"`
	Denom                string   `json:"denom"`
	DirectPart           string   `json:"direct_part"`
	Halftime             uint64   `json:"halftime"`
	ProxyCodeID          uint64   `json:"proxy_code_id"`
	DistributionContract string   `json:"distribution_contract,omitempty"`
	MinimalAcceptances   uint64   `json:"minimal_acceptances"`
	InitialMembers       []string `json:"initial_members"`
}

type ExecuteMsg struct {
	ProposeMember           *ProposeMember           `json:"propose_member,omitempty"`
	SetDistributionContract *SetDistributionContract `json:"set_distribution_contract,omitempty"`
}

type ProposeMember struct {
	Addr string `json:"addr"`
}

type SetDistributionContract struct {
	Addr string `json:"addr"`
}

type QueryMsg struct {
	IsMember *IsMember `json:"is_member,omitempty"`
}

type IsMember struct {
	Addr string `json:"addr"`
}
