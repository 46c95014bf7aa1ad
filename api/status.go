package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tendermint/tendermint/libs/bytes"
)

type StatusResponse struct {
	Version           string         `json:"version"`
	LatestAppHash     bytes.HexBytes `json:"latest_app_hash"`
	LatestBlockHeight uint64         `json:"latest_block_height"`
	LatestBlockTime   time.Time      `json:"latest_block_time"`
	Membership        string         `json:"membership"`
}

func (s *Service) Status(c *gin.Context) {
	// Height is the block being built, the last saved one is right below it.
	c.JSON(http.StatusOK, Response{
		Result: StatusResponse{
			Version:           s.version,
			LatestAppHash:     s.blockchain.AppHash(),
			LatestBlockHeight: s.blockchain.Height() - 1,
			LatestBlockTime:   s.blockchain.Time(),
			Membership:        s.membership,
		},
	})
}
