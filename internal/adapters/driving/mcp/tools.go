package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/overlap/internal/core/domain"
)

const fallbackNGram = 3

// CheckInput is the input schema for the check tool.
type CheckInput struct {
	Text      string  `json:"text" jsonschema:"the text to check for overlap with the corpus"`
	N         int     `json:"n,omitempty" jsonschema:"n-gram size between 2 and 5 (default from settings)"`
	Threshold float64 `json:"threshold,omitempty" jsonschema:"minimum similarity of reported matches between 0 and 1"`
}

// CheckOutput is the output schema for the check tool.
type CheckOutput struct {
	Score            float64                   `json:"score"`
	Matches          []domain.SimilarityResult `json:"matches"`
	DocumentsChecked int                       `json:"documents_checked"`
	CacheUsed        bool                      `json:"cache_used"`
}

// QuickCheckInput is the input schema for the quick_check tool.
type QuickCheckInput struct {
	Text string `json:"text" jsonschema:"the text to pre-screen against the corpus"`
}

// EmptyInput is the input schema for tools without arguments.
type EmptyInput struct{}

// ChainOutput is the output schema for the analyze_chain tool.
type ChainOutput struct {
	Chain        []domain.ChainNode `json:"chain"`
	Similarities []float64          `json:"similarities"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "check",
		Description: "Score a text against every corpus document by n-gram overlap",
	}, s.handleCheck)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "quick_check",
		Description: "Approximate pre-screen of a text by length, title keywords and shared vocabulary",
	}, s.handleQuickCheck)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "analyze_chain",
		Description: "Find the longest chain of mutually similar corpus documents",
	}, s.handleAnalyzeChain)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "batch_stats",
		Description: "Corpus statistics in contiguous batches",
	}, s.handleBatchStats)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "cache_stats",
		Description: "Memoisation cache counters",
	}, s.handleCacheStats)
}

// handleCheck handles the check tool invocation.
func (s *Server) handleCheck(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CheckInput,
) (*mcp.CallToolResult, CheckOutput, error) {
	n := input.N
	if n == 0 {
		n = s.defaultNGram()
	}

	report, err := s.ports.Engine.Score(ctx, input.Text, n, input.Threshold)
	if err != nil {
		return nil, CheckOutput{}, err
	}

	return nil, CheckOutput{
		Score:            report.Score,
		Matches:          report.Matches,
		DocumentsChecked: report.Stats.DocumentsChecked,
		CacheUsed:        report.Stats.CacheUsed,
	}, nil
}

// handleQuickCheck handles the quick_check tool invocation.
func (s *Server) handleQuickCheck(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input QuickCheckInput,
) (*mcp.CallToolResult, domain.QuickReport, error) {
	report, err := s.ports.Engine.QuickScore(ctx, input.Text)
	if err != nil {
		return nil, domain.QuickReport{}, err
	}
	return nil, *report, nil
}

// handleAnalyzeChain handles the analyze_chain tool invocation.
func (s *Server) handleAnalyzeChain(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ EmptyInput,
) (*mcp.CallToolResult, ChainOutput, error) {
	analysis, err := s.ports.Engine.RecursiveAnalysis(ctx)
	if err != nil {
		return nil, ChainOutput{}, err
	}
	return nil, ChainOutput{
		Chain:        analysis.TreeWithTitles,
		Similarities: analysis.Similarities,
	}, nil
}

// handleBatchStats handles the batch_stats tool invocation.
func (s *Server) handleBatchStats(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ EmptyInput,
) (*mcp.CallToolResult, domain.BatchReport, error) {
	report, err := s.ports.Engine.BatchStats(ctx)
	if err != nil {
		return nil, domain.BatchReport{}, err
	}
	return nil, *report, nil
}

// handleCacheStats handles the cache_stats tool invocation.
func (s *Server) handleCacheStats(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ EmptyInput,
) (*mcp.CallToolResult, domain.CacheStats, error) {
	return nil, s.ports.Engine.CacheStats(), nil
}

func (s *Server) defaultNGram() int {
	if s.ports.DefaultNGram > 0 {
		return s.ports.DefaultNGram
	}
	return fallbackNGram
}
