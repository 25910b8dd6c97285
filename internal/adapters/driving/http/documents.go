package http

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/overlap/internal/core/domain"
	"github.com/custodia-labs/overlap/internal/core/ports/driving"
	"github.com/custodia-labs/overlap/internal/core/services"
)

// documentSummary is a listed document without its text.
type documentSummary struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Title     string    `json:"title"`
	Length    int       `json:"length"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Server) handleUploadDocument(c *gin.Context) {
	var req driving.UploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, fmt.Sprintf("invalid request: %v", err))
		return
	}

	doc, err := s.ports.Document.Upload(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, doc)
}

func (s *Server) handleListDocuments(c *gin.Context) {
	filters, err := documentFilters(c)
	if err != nil {
		writeBadRequest(c, err.Error())
		return
	}

	docs, err := s.ports.Document.List(c.Request.Context(), filters...)
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]documentSummary, 0, len(docs))
	for _, d := range docs {
		out = append(out, documentSummary{
			ID:        d.ID,
			Author:    d.Author,
			Title:     d.Title,
			Length:    d.Length(),
			CreatedAt: d.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"documents": out, "count": len(out)})
}

func (s *Server) handleGetDocument(c *gin.Context) {
	doc, err := s.ports.Document.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (s *Server) handleDeleteDocument(c *gin.Context) {
	if err := s.ports.Document.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// documentFilters builds list filters from the author, title, min_length,
// from and to query parameters. Dates are RFC 3339 or YYYY-MM-DD.
func documentFilters(c *gin.Context) ([]domain.DocumentFilter, error) {
	var filters []domain.DocumentFilter
	if author := c.Query("author"); author != "" {
		filters = append(filters, services.ByAuthor(author))
	}
	if title := c.Query("title"); title != "" {
		filters = append(filters, services.ByTitle(title))
	}
	if raw := c.Query("min_length"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("min_length must be a non-negative integer")
		}
		filters = append(filters, services.ByMinLength(n))
	}

	from, err := parseDate(c.Query("from"))
	if err != nil {
		return nil, fmt.Errorf("from: %w", err)
	}
	to, err := parseDate(c.Query("to"))
	if err != nil {
		return nil, fmt.Errorf("to: %w", err)
	}
	if !from.IsZero() || !to.IsZero() {
		filters = append(filters, services.ByDateRange(from, to))
	}
	return filters, nil
}

func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", raw)
	}
	return t, nil
}
