// Package core has core logic for density analysis, history mining,
// correlation ranking and forensic extraction.
package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/docgap/docgap/core/algo"
	"github.com/docgap/docgap/internal/contract"
	"github.com/docgap/docgap/internal/outwriter"
	"github.com/docgap/docgap/schema"
)

// GetRankedFiles runs the mining and correlation stages and returns the full
// ranking, worst-documented files first. It is the shared entry point for the
// rank command, the forensics command and the MCP tools.
func GetRankedFiles(ctx context.Context, cfg *contract.Config, client contract.GitClient, mgr contract.CacheManager) ([]schema.RankedFile, error) {
	if !shouldSuppressHeader(ctx) {
		outwriter.LogAnalysisHeader(cfg)
	}
	mined, err := MineHistory(ctx, cfg, client, mgr)
	if err != nil {
		return nil, err
	}
	return BuildRanking(cfg, mined), nil
}

// ExecuteRank runs the ranking analysis and writes the results in the
// configured output format. It serves as the main entry point for the
// 'rank' command.
func ExecuteRank(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	client := contract.NewLocalGitClient()
	ranked, err := GetRankedFiles(ctx, cfg, client, mgr)
	if err != nil {
		return err
	}
	duration := time.Since(start)
	return outwriter.WriteRankResults(ranked, cfg, duration)
}

// ExecuteForensics runs the full ranking, selects the row at the requested
// 1-based rank index, runs the forensic extraction pipeline against it and
// writes the bundle to disk. An index beyond the available rows is an
// input-range error naming the valid range.
func ExecuteForensics(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	client := contract.NewLocalGitClient()
	ranked, err := GetRankedFiles(ctx, cfg, client, mgr)
	if err != nil {
		return err
	}
	if len(ranked) == 0 {
		return errors.New("no security-linked files found; nothing to extract")
	}

	index := cfg.RankIndex
	if err := rankIndexInRange(index, len(ranked)); err != nil {
		return err
	}
	target := ranked[index-1]

	bundle, err := RunForensics(ctx, cfg, client, target)
	if err != nil {
		return err
	}

	outDir := cfg.ForensicsDir
	if outDir == "" {
		outDir = "forensics"
	}
	if err := outwriter.WriteBundle(bundle, outDir); err != nil {
		return err
	}
	if !shouldSuppressHeader(ctx) {
		fmt.Printf("Wrote forensic bundle for %s (rank %d) to %s\n", target.Path, index, outDir)
	}
	return nil
}

// rankIndexInRange validates a 1-based rank selection against the number of
// ranked rows. Zero is not a valid selection; the error names the usable range.
func rankIndexInRange(index, total int) error {
	if index < 1 || index > total {
		return fmt.Errorf("rank index %d is out of range; valid range is 1-%d", index, total)
	}
	return nil
}

// ExecuteDensity runs the density analyzer against a single file and prints
// its metric. The path is resolved relative to the repository root.
func ExecuteDensity(_ context.Context, cfg *contract.Config) error {
	if cfg.DensityPath == "" {
		return errors.New("--path is required")
	}
	fullPath := filepath.Join(cfg.RepoPath, cfg.DensityPath)
	content, err := os.ReadFile(fullPath)
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", cfg.DensityPath, err)
	}
	metric := algo.Analyze(cfg.DensityPath, algo.SplitLines(content))
	return outwriter.WriteDensityResult(metric, cfg)
}

// ExecuteIdentifiers prints the effective identifier patterns, markers and
// curated advisories for the current configuration. This is a static display
// that does not touch Git history.
func ExecuteIdentifiers(cfg *contract.Config) error {
	advisories, err := LoadAdvisories(cfg.AdvisoriesPath)
	if err != nil {
		return err
	}
	return outwriter.WriteIdentifierSetup(cfg, toAdvisoryRows(advisories))
}

// toAdvisoryRows converts advisories to the writer's display rows.
func toAdvisoryRows(advisories []Advisory) []outwriter.AdvisoryRow {
	rows := make([]outwriter.AdvisoryRow, 0, len(advisories))
	for _, adv := range advisories {
		rows = append(rows, outwriter.AdvisoryRow{
			Commit:      adv.Commit,
			Identifier:  adv.Identifier,
			Description: adv.Description,
		})
	}
	return rows
}
