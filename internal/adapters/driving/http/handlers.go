package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const defaultHistoryLimit = 50

// checkRequest is the body of the text check endpoints.
type checkRequest struct {
	Text      string  `json:"text"`
	N         int     `json:"n"`
	Threshold float64 `json:"threshold"`
}

// ngram returns n, or the configured default when the request left it unset.
func (s *Server) ngram(n int) int {
	if n == 0 {
		return s.ports.DefaultNGram
	}
	return n
}

func (s *Server) handleScore(c *gin.Context) {
	var req checkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, fmt.Sprintf("invalid request: %v", err))
		return
	}

	report, err := s.ports.Engine.Score(c.Request.Context(), req.Text, s.ngram(req.N), req.Threshold)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (s *Server) handleQuickCheck(c *gin.Context) {
	var req checkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, fmt.Sprintf("invalid request: %v", err))
		return
	}

	report, err := s.ports.Engine.QuickScore(c.Request.Context(), req.Text)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// handleCheckDocument scores a stored document. The body is optional.
func (s *Server) handleCheckDocument(c *gin.Context) {
	var req checkRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		writeBadRequest(c, fmt.Sprintf("invalid request: %v", err))
		return
	}

	report, err := s.ports.Engine.ScoreDocument(c.Request.Context(), c.Param("id"), s.ngram(req.N), req.Threshold)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (s *Server) handleHistory(c *gin.Context) {
	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			writeBadRequest(c, "limit must be a positive integer")
			return
		}
		limit = v
	}

	records, err := s.ports.Engine.History(c.Request.Context(), c.Query("document_id"), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"checks": records, "count": len(records)})
}

func (s *Server) handleRecursiveAnalysis(c *gin.Context) {
	analysis, err := s.ports.Engine.RecursiveAnalysis(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, analysis)
}

func (s *Server) handleBatchStats(c *gin.Context) {
	report, err := s.ports.Engine.BatchStats(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (s *Server) handleCacheStats(c *gin.Context) {
	c.JSON(http.StatusOK, s.ports.Engine.CacheStats())
}

func (s *Server) handleCacheReset(c *gin.Context) {
	s.ports.Engine.ResetCache()
	c.JSON(http.StatusOK, gin.H{"status": "reset", "cache_stats": s.ports.Engine.CacheStats()})
}

// handleStats reports corpus, history, cache and activity totals.
func (s *Server) handleStats(c *gin.Context) {
	ctx := c.Request.Context()

	batches, err := s.ports.Engine.BatchStats(ctx)
	if err != nil {
		writeError(c, err)
		return
	}
	checks, err := s.ports.Engine.History(ctx, "", 0)
	if err != nil {
		writeError(c, err)
		return
	}

	resp := gin.H{
		"total_documents": batches.TotalDocuments,
		"total_checks":    len(checks),
		"cache_stats":     s.ports.Engine.CacheStats(),
	}
	if s.ports.Activity != nil {
		resp["activity_stats"] = s.ports.Activity.Monitoring().Stats
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleMonitoringEvents(c *gin.Context) {
	c.JSON(http.StatusOK, s.ports.Activity.Monitoring())
}
