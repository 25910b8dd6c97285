package http

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/overlap/internal/adapters/driven/cache/lru"
	"github.com/custodia-labs/overlap/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/overlap/internal/core/domain"
	"github.com/custodia-labs/overlap/internal/core/services"
	"github.com/custodia-labs/overlap/internal/metrics"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	server   *Server
	engine   *services.EngineService
	activity *services.ActivityService
	registry *prometheus.Registry
}

func corpus() []domain.Document {
	return []domain.Document{
		{ID: "fox", Title: "Fox", Author: "Alice", Text: "the quick brown fox"},
		{ID: "rain", Title: "Rain", Author: "Bob", Text: "rain falls softly on the old tin roof"},
		{ID: "sea", Title: "Sea", Author: "Dave", Text: "waves crash against grey cliffs at dawn"},
	}
}

func newTestEnv(t *testing.T, settings domain.ServerSettings, docs ...domain.Document) *testEnv {
	t.Helper()
	store := memory.NewDocumentStore()
	for i := range docs {
		require.NoError(t, store.SaveDocument(context.Background(), &docs[i]))
	}

	reg := prometheus.NewRegistry()
	activity := services.NewActivityService(0, 0)
	engine := services.NewEngineService(store, lru.New(1000, 4), domain.EngineSettings{})
	engine.SetCheckStore(memory.NewCheckStore())
	engine.SetActivity(activity)
	engine.SetMetrics(metrics.MustNew(reg))

	srv, err := NewServer(&Ports{
		Engine:   engine,
		Document: services.NewDocumentService(store, activity),
		Activity: activity,
		Gatherer: reg,
	}, settings)
	require.NoError(t, err)
	srv.monitorInterval = 10 * time.Millisecond

	return &testEnv{server: srv, engine: engine, activity: activity, registry: reg}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

// sseRecords parses every "data:" record of an event stream.
func sseRecords(t *testing.T, body string) []map[string]any {
	t.Helper()
	var records []map[string]any
	scanner := bufio.NewScanner(strings.NewReader(body))
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var record map[string]any
		require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &record))
		records = append(records, record)
	}
	return records
}

func TestNewServer_RequiresEngine(t *testing.T) {
	_, err := NewServer(&Ports{}, domain.ServerSettings{})

	assert.ErrorIs(t, err, ErrMissingEngineService)
}

func TestNewServer_DefaultNGram(t *testing.T) {
	env := newTestEnv(t, domain.ServerSettings{})

	assert.Equal(t, fallbackNGram, env.server.ports.DefaultNGram)
	assert.Equal(t, 3, env.server.ngram(0))
	assert.Equal(t, 4, env.server.ngram(4))
}

func TestServer_Health(t *testing.T) {
	env := newTestEnv(t, domain.ServerSettings{})

	rec := env.do(t, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode(t, rec)["status"])
}

func TestServer_Metrics(t *testing.T) {
	env := newTestEnv(t, domain.ServerSettings{}, corpus()...)
	env.do(t, http.MethodPost, "/api/plagiarism/score", checkRequest{Text: "the quick brown fox"})

	rec := env.do(t, http.MethodGet, "/metrics", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "overlap_documents_scored_total 3")
}

func TestServer_OptionalRoutes(t *testing.T) {
	store := memory.NewDocumentStore()
	engine := services.NewEngineService(store, lru.New(10, 1), domain.EngineSettings{})
	srv, err := NewServer(&Ports{Engine: engine}, domain.ServerSettings{})
	require.NoError(t, err)

	for _, path := range []string{"/metrics", "/api/documents", "/api/monitoring/events"} {
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}
}

func TestServer_RateLimit(t *testing.T) {
	env := newTestEnv(t, domain.ServerSettings{RateLimit: 1})

	first := env.do(t, http.MethodGet, "/api/cache/stats", nil)
	second := env.do(t, http.MethodGet, "/api/cache/stats", nil)
	health := env.do(t, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "rate limit exceeded", decode(t, second)["error"])
	assert.Equal(t, http.StatusOK, health.Code)
}

func TestServer_CORS(t *testing.T) {
	env := newTestEnv(t, domain.ServerSettings{AllowedOrigins: []string{"https://app.example.com"}})

	req := httptest.NewRequest(http.MethodOptions, "/api/plagiarism/score", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	env.server.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestServer_Run_ShutsDownOnCancel(t *testing.T) {
	env := newTestEnv(t, domain.ServerSettings{Addr: "127.0.0.1:0", ShutdownTimeout: time.Second})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- env.server.Run(ctx) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
