// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pdiddy/isbn-search/internal/history"
	"github.com/pdiddy/isbn-search/internal/search"
	"github.com/pdiddy/isbn-search/pkg/types"
)

type searchRequest struct {
	Input string `json:"input" binding:"required"`
}

type invalidEntry struct {
	Position int    `json:"position"`
	ISBN     string `json:"isbn"`
}

type searchResponse struct {
	Status    types.SearchStatus `json:"status"`
	Requested bool               `json:"requested"`
	Cards     []types.Card       `json:"cards"`
	Invalid   []invalidEntry     `json:"invalid"`
	Notice    string             `json:"notice,omitempty"`
}

func (s *Server) searchQuery(c *gin.Context) {
	input, ok := c.GetQuery("isbn")
	if !ok || input == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "isbn query parameter is required"})
		return
	}
	s.respondSearch(c, input)
}

func (s *Server) searchBody(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	s.respondSearch(c, req.Input)
}

// respondSearch always answers 200: rejected candidates and lookup failures
// are part of the body, not HTTP errors.
func (s *Server) respondSearch(c *gin.Context, input string) {
	res := s.pipeline.Run(c.Request.Context(), input)
	c.JSON(http.StatusOK, newSearchResponse(res))
}

func newSearchResponse(res search.Result) searchResponse {
	invalid := make([]invalidEntry, len(res.Outcome.Invalid))
	for i, inv := range res.Outcome.Invalid {
		invalid[i] = invalidEntry{Position: inv.Position(), ISBN: inv.Value}
	}
	return searchResponse{
		Status:    res.Status(),
		Requested: res.Requested,
		Cards:     res.Cards(),
		Invalid:   invalid,
		Notice:    res.Outcome.Notice(),
	}
}

func (s *Server) listHistory(c *gin.Context) {
	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	if s.history == nil {
		c.JSON(http.StatusOK, []types.SearchRecord{})
		return
	}

	records, err := s.history.Recent(c.Request.Context(), limit)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	if records == nil {
		records = []types.SearchRecord{}
	}
	c.JSON(http.StatusOK, records)
}

func (s *Server) getHistory(c *gin.Context) {
	if s.history == nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "history is disabled"})
		return
	}

	rec, err := s.history.Get(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, history.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": err.Error()})
		return
	case err != nil:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rec)
}
