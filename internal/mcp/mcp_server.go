// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/docgap/docgap/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the docgap MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Documentation Gap Analysis Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: rank_documentation_debt ---
	s.AddTool(mcp.NewTool("rank_documentation_debt",
		mcp.WithDescription("Rank security-relevant source files by comment density, worst-documented first."),
		mcp.WithString("repo_path", mcp.Description("Path to the Git repository (defaults to current directory if not specified).")),
		mcp.WithString("since", mcp.Description("Only mine commits after this date (e.g., '2020-01-01', '2 years ago').")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of results returned.")),
	), h.handleRankDocumentationDebt)

	// --- 2. Tool: analyze_density ---
	s.AddTool(mcp.NewTool("analyze_density",
		mcp.WithDescription("Compute line counts and the comment-to-code ratio for a single source file."),
		mcp.WithString("path", mcp.Description("The file path to analyze, relative to the repository root."), mcp.Required()),
		mcp.WithString("repo_path", mcp.Description("Path to the Git repository.")),
	), h.handleAnalyzeDensity)

	// --- 3. Tool: extract_forensics ---
	s.AddTool(mcp.NewTool("extract_forensics",
		mcp.WithDescription("Extract the pre-fix snapshot, diffs and vulnerability markers for a ranked file."),
		mcp.WithNumber("rank", mcp.Description("1-based rank of the file to investigate. Defaults to 1 (worst-documented).")),
		mcp.WithString("repo_path", mcp.Description("Path to the Git repository.")),
	), h.handleExtractForensics)

	return s
}

// StartMCPServer starts the docgap MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
