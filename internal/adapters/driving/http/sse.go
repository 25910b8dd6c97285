package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/overlap/internal/core/domain"
	"github.com/custodia-labs/overlap/internal/logger"
)

const defaultMonitorInterval = 2 * time.Second

// startSSE writes the event-stream headers.
func startSSE(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
}

// writeSSE frames payload as one "data: <json>" record and flushes it.
func writeSSE(c *gin.Context, payload any) error {
	if err := encodeSSE(c.Writer, payload); err != nil {
		return err
	}
	c.Writer.Flush()
	return nil
}

func encodeSSE(w io.Writer, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	_, err = fmt.Fprintf(w, "data: %s\n\n", data)
	return err
}

// eventRecord converts a check event to its wire form.
func eventRecord(ev domain.CheckEvent) gin.H {
	switch ev.Status {
	case domain.CheckStarted:
		return gin.H{"status": ev.Status.String(), "total": ev.Total}
	case domain.CheckProgress:
		record := gin.H{"progress": ev.Progress}
		if r := ev.Result; r != nil {
			record["similarity"] = r.Similarity
			record["doc_id"] = r.DocID
			record["doc_title"] = r.DocTitle
			record["doc_author"] = r.DocAuthor
		}
		return record
	case domain.CheckCompleted:
		return gin.H{"status": ev.Status.String(), "total_results": ev.TotalResults}
	default:
		msg := "check failed"
		if ev.Err != nil {
			msg = ev.Err.Error()
		}
		return gin.H{"status": domain.CheckFailed.String(), "error": msg}
	}
}

// handleProgressiveCheck streams a progressive check. Validation errors are
// returned as JSON before the stream starts.
func (s *Server) handleProgressiveCheck(c *gin.Context) {
	var req checkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, fmt.Sprintf("invalid request: %v", err))
		return
	}

	events, err := s.ports.Engine.ProgressiveScore(c.Request.Context(), req.Text, s.ngram(req.N), req.Threshold)
	if err != nil {
		writeError(c, err)
		return
	}

	startSSE(c)
	for ev := range events {
		if err := writeSSE(c, eventRecord(ev)); err != nil {
			// The client is gone; the request context is cancelled when
			// this handler returns, which stops the producer.
			logger.Debug("Progressive stream write failed: %v", err)
			return
		}
	}
}

// handleMonitoringStream sends the monitoring view, then activity stats
// periodically until the client disconnects.
func (s *Server) handleMonitoringStream(c *gin.Context) {
	interval := s.monitorInterval
	if interval <= 0 {
		interval = defaultMonitorInterval
	}

	startSSE(c)
	if err := writeSSE(c, gin.H{"type": "init", "data": s.ports.Activity.Monitoring()}); err != nil {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			update := gin.H{
				"type": "update",
				"data": gin.H{
					"activity":  s.ports.Activity.Monitoring().Stats,
					"timestamp": now.UTC().Format(time.RFC3339),
				},
			}
			if err := writeSSE(c, update); err != nil {
				return
			}
		}
	}
}
