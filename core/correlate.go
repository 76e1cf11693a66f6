package core

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/docgap/docgap/core/algo"
	"github.com/docgap/docgap/internal/contract"
	"github.com/docgap/docgap/schema"
)

// exposureMap is the engine's owned path -> row state. It is created per run,
// threaded explicitly through the pipeline, and discarded at exit; there is
// no ambient global state and no concurrent writer.
type exposureMap struct {
	rows map[string]*schema.RankedFile
	// identifier membership per path, to keep the exposure sets duplicate-free
	members map[string]map[string]struct{}
}

func newExposureMap() *exposureMap {
	return &exposureMap{
		rows:    make(map[string]*schema.RankedFile),
		members: make(map[string]map[string]struct{}),
	}
}

// add records one (path, identifier, commit) association. The first discovery
// of a path computes its density metric and pins its fix commit; later
// discoveries only union the identifier into the exposure set, so curated
// data processed first is never overwritten.
func (m *exposureMap) add(path, identifier, commit string, metric schema.FileDensity) {
	row, ok := m.rows[path]
	if !ok {
		row = &schema.RankedFile{
			FileDensity: metric,
			FixCommit:   commit,
		}
		m.rows[path] = row
		m.members[path] = make(map[string]struct{})
	}
	if _, dup := m.members[path][identifier]; dup {
		return
	}
	m.members[path][identifier] = struct{}{}
	row.Identifiers = append(row.Identifiers, identifier)
}

// BuildRanking merges the miner output into one record per file and returns
// the full ranking, ascending by comment ratio with path tie-breaks. Files
// absent from the current working tree are silently skipped, matching the
// miner's policy; files that exist but cannot be read are dropped with a
// warning so one bad file never aborts the whole pass.
func BuildRanking(cfg *contract.Config, mined []schema.SecurityCommit) []schema.RankedFile {
	exposure := newExposureMap()
	metrics := make(map[string]*schema.FileDensity) // nil entry = known-unusable path

	for _, rec := range mined {
		for _, path := range rec.Files {
			metric, ok := metrics[path]
			if !ok {
				metric = computeMetric(cfg, rec, path)
				metrics[path] = metric
			}
			if metric == nil {
				continue
			}
			exposure.add(path, rec.Identifier, rec.Commit.Hash, *metric)
		}
	}

	rows := make([]schema.RankedFile, 0, len(exposure.rows))
	for _, row := range exposure.rows {
		sort.Strings(row.Identifiers)
		rows = append(rows, *row)
	}
	return algo.RankFiles(rows, 0)
}

// computeMetric reads a file from the working tree and runs the density
// analyzer. It returns nil when the path cannot be used.
func computeMetric(cfg *contract.Config, rec schema.SecurityCommit, path string) *schema.FileDensity {
	fullPath := filepath.Join(cfg.RepoPath, path)
	info, err := os.Stat(fullPath)
	if err != nil || info.IsDir() {
		// Files deleted since the fix commit are an expected outcome of
		// mining historical data against a moving codebase. Curated entries
		// get a warning since a vanished curated file may hide a regression.
		if rec.Curated {
			contract.LogWarn(fmt.Sprintf("curated file %s no longer exists at the current revision, skipping", path), nil)
		}
		return nil
	}
	content, err := os.ReadFile(fullPath)
	if err != nil {
		contract.LogWarn(fmt.Sprintf("cannot read %s, dropping from ranking", path), err)
		return nil
	}
	metric := algo.Analyze(path, algo.SplitLines(content))
	return &metric
}

// findByPath returns the ranked row for a path, if present.
func findByPath(rows []schema.RankedFile, path string) (schema.RankedFile, bool) {
	for _, row := range rows {
		if row.Path == path {
			return row, true
		}
	}
	return schema.RankedFile{}, false
}
