package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type EventResponse struct {
	Type       string            `json:"type"`
	Attributes []AttributeResult `json:"attributes"`
}

type AttributeResult struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Events returns the events of every unit of work in a saved block.
func (s *Service) Events(c *gin.Context) {
	height, err := strconv.ParseUint(c.Param("height"), 10, 64)
	if err != nil {
		s.fail(c, http.StatusBadRequest, err)
		return
	}

	if height >= s.blockchain.Height() {
		c.JSON(http.StatusNotFound, Response{Code: http.StatusNotFound, Log: "block is not saved yet"})
		return
	}

	evs, err := s.events.LoadEvents(height)
	if err != nil {
		s.fail(c, http.StatusInternalServerError, err)
		return
	}

	result := make([]EventResponse, 0, len(evs))
	for _, event := range evs {
		attributes := make([]AttributeResult, 0, len(event.Attributes))
		for _, attr := range event.Attributes {
			attributes = append(attributes, AttributeResult{Key: string(attr.Key), Value: string(attr.Value)})
		}
		result = append(result, EventResponse{Type: event.Type, Attributes: attributes})
	}

	c.JSON(http.StatusOK, Response{Result: result})
}
