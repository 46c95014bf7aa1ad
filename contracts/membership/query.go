package membership

import (
	"github.com/MinterTeam/minter-membership/contracts/common"
	"github.com/MinterTeam/minter-membership/core/host"
)

func isMember(deps host.Deps, addr string) (*common.IsMemberResponse, error) {
	a, err := deps.API.AddrValidate(addr)
	if err != nil {
		return nil, err
	}
	return &common.IsMemberResponse{IsMember: members.Has(deps.Storage, a.Bytes())}, nil
}
