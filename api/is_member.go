package api

import (
	"net/http"

	"github.com/MinterTeam/minter-membership/contracts/common"
	"github.com/MinterTeam/minter-membership/contracts/membership"
	"github.com/MinterTeam/minter-membership/core/code"
	"github.com/MinterTeam/minter-membership/core/types"
	"github.com/gin-gonic/gin"
)

// IsMember tells whether the address is an admitted proxy.
func (s *Service) IsMember(c *gin.Context) {
	address := c.Param("address")
	if _, err := types.ParseAddress(address); err != nil {
		s.fail(c, http.StatusBadRequest, code.NewInvalidAddress(address, err.Error()))
		return
	}

	msg := types.MustMarshal(membership.QueryMsg{IsMember: &membership.IsMember{Addr: address}})
	bz, err := s.blockchain.QuerySmart(s.membership, msg)
	if err != nil {
		s.fail(c, http.StatusInternalServerError, err)
		return
	}

	var resp common.IsMemberResponse
	if err := types.Unmarshal(bz, &resp); err != nil {
		s.fail(c, http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusOK, Response{Result: resp})
}
