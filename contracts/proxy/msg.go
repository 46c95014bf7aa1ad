package proxy

// InstantiateMsg is sent by the membership contract. Halftime is in seconds.
type InstantiateMsg struct {
	Owner                string `json:"owner"`
	Weight               uint64 `json:"weight"`
	Denom                string `json:"denom"`
	DirectPart           string `json:"direct_part"`
	Halftime             uint64 `json:"halftime"`
	DistributionContract string `json:"distribution_contract,omitempty"`
	MembershipContract   string `json:"membership_contract"`
}

type ExecuteMsg struct {
	ProposeMember *ProposeMember `json:"propose_member,omitempty"`
	UpdateWeight  *UpdateWeight  `json:"update_weight,omitempty"`
	Donate        *Donate        `json:"donate,omitempty"`
	Withdraw      *Withdraw      `json:"withdraw,omitempty"`
	Close         *Close         `json:"close,omitempty"`
}

type ProposeMember struct {
	Addr string `json:"addr"`
}

type UpdateWeight struct{}

type Donate struct{}

// Withdraw asks for the settled share. An empty Receiver means the owner, an empty
// Amount means the whole balance.
type Withdraw struct {
	Receiver string `json:"receiver,omitempty"`
	Amount   string `json:"amount,omitempty"`
}

type Close struct{}

type membershipExecMsg struct {
	ProposeMember *ProposeMember `json:"propose_member,omitempty"`
}

// DistributionExecMsg is what the proxy sends to the distribution contract.
type DistributionExecMsg struct {
	Distribute *Distribute    `json:"distribute,omitempty"`
	Withdraw   *WithdrawShare `json:"withdraw,omitempty"`
}

type Distribute struct{}

// WithdrawShare settles the share of the sender. Weight is the weight before the
// change and Diff the signed change applied to it.
type WithdrawShare struct {
	Weight uint64 `json:"weight"`
	Diff   int64  `json:"diff"`
}
