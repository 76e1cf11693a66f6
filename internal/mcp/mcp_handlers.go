package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/docgap/docgap/core"
	"github.com/docgap/docgap/core/algo"
	"github.com/docgap/docgap/internal/contract"
	"github.com/docgap/docgap/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.CacheManager
}

func (h *toolHandler) handleRankDocumentationDebt(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if p := request.GetString("repo_path", ""); p != "" {
		cfg.RepoPath = p
	}
	if s := request.GetString("since", ""); s != "" {
		since, err := contract.ParseSince(s, time.Now())
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid since value: %v", err)), nil
		}
		cfg.Since = since
	}
	if l := request.GetInt("limit", 0); l > 0 {
		cfg.ResultLimit = l
	}

	client := contract.NewLocalGitClient()
	ranked, err := core.GetRankedFiles(core.WithSuppressHeader(ctx), cfg, client, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}
	if len(ranked) > cfg.ResultLimit {
		ranked = ranked[:cfg.ResultLimit]
	}

	enriched := schema.EnrichRankedFiles(ranked)
	jsonData, _ := json.MarshalIndent(enriched, "", "  ")

	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleAnalyzeDensity(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if p := request.GetString("repo_path", ""); p != "" {
		cfg.RepoPath = p
	}
	path := request.GetString("path", "")
	if path == "" {
		return mcp.NewToolResultError("path is required"), nil
	}

	content, err := os.ReadFile(filepath.Join(cfg.RepoPath, path))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("cannot read %s: %v", path, err)), nil
	}

	metric := algo.Analyze(path, algo.SplitLines(content))
	jsonData, _ := json.MarshalIndent(metric, "", "  ")

	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleExtractForensics(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if p := request.GetString("repo_path", ""); p != "" {
		cfg.RepoPath = p
	}
	index := request.GetInt("rank", 1)
	if index < 1 {
		return mcp.NewToolResultError(fmt.Sprintf("rank must be at least 1 (received %d)", index)), nil
	}

	client := contract.NewLocalGitClient()
	ranked, err := core.GetRankedFiles(core.WithSuppressHeader(ctx), cfg, client, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}
	if index > len(ranked) {
		return mcp.NewToolResultError(fmt.Sprintf("rank %d is out of range; valid range is 1-%d", index, len(ranked))), nil
	}

	bundle, err := core.RunForensics(ctx, cfg, client, ranked[index-1])
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("forensic extraction failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(bundle, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
