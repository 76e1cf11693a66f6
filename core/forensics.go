package core

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/docgap/docgap/internal/contract"
	"github.com/docgap/docgap/schema"
	"github.com/dustin/go-humanize"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// phaseStatus tags the outcome of a forensic pipeline phase.
type phaseStatus int

const (
	phaseOK phaseStatus = iota
	phasePartial
	phaseFatal
)

// phaseResult is the tagged result returned by each phase. The driver
// short-circuits on fatal; there is no retry and no backward transition.
type phaseResult struct {
	status phaseStatus
	err    error
}

func ok() phaseResult               { return phaseResult{status: phaseOK} }
func fatal(err error) phaseResult   { return phaseResult{status: phaseFatal, err: err} }
func partial(err error) phaseResult { return phaseResult{status: phasePartial, err: err} }

// forensicPipeline carries the state threaded through the five phases.
type forensicPipeline struct {
	cfg    *contract.Config
	client contract.GitClient
	target schema.RankedFile
	bundle *schema.ForensicBundle

	// fix-revision content, needed only for the word-level view
	postFixSnapshot []byte
}

// RunForensics reconstructs the before/after forensic evidence for one ranked
// file and its fix commit. The five phases run strictly in order; a fatal
// phase aborts with nothing further produced, while partial outcomes degrade
// the summary without losing the earlier artifacts. Re-running with identical
// inputs produces identical bytes.
func RunForensics(ctx context.Context, cfg *contract.Config, client contract.GitClient, target schema.RankedFile) (*schema.ForensicBundle, error) {
	p := &forensicPipeline{
		cfg:    cfg,
		client: client,
		target: target,
		bundle: &schema.ForensicBundle{
			TargetPath:  target.Path,
			Identifiers: target.Identifiers,
			Metric:      target.FileDensity,
		},
	}

	phases := []struct {
		name string
		run  func(context.Context) phaseResult
	}{
		{"metadata extraction", p.extractMetadata},
		{"pre-fix snapshot", p.materializeSnapshot},
		{"diff generation", p.generateDiffs},
		{"marker scan", p.scanMarkers},
		{"summary synthesis", p.synthesizeSummary},
	}

	for _, phase := range phases {
		result := phase.run(ctx)
		switch result.status {
		case phaseFatal:
			return nil, fmt.Errorf("forensic %s failed: %w", phase.name, result.err)
		case phasePartial:
			contract.LogWarn(fmt.Sprintf("forensic %s degraded to partial output", phase.name), result.err)
			p.bundle.Partial = true
		}
	}
	return p.bundle, nil
}

// extractMetadata is phase 1: pull the fix commit's metadata.
func (p *forensicPipeline) extractMetadata(ctx context.Context) phaseResult {
	info, err := p.client.GetCommitInfo(ctx, p.cfg.RepoPath, p.target.FixCommit)
	if err != nil {
		return fatal(err)
	}
	p.bundle.FixCommit = info
	return ok()
}

// materializeSnapshot is phase 2: resolve the parent revision and pull the
// target file's pre-fix content. The parent is always exactly one ancestor
// step before the fix commit.
func (p *forensicPipeline) materializeSnapshot(ctx context.Context) phaseResult {
	parentHash, err := p.client.GetParentHash(ctx, p.cfg.RepoPath, p.bundle.FixCommit.Hash)
	if err != nil {
		return fatal(err)
	}
	parentInfo, err := p.client.GetCommitInfo(ctx, p.cfg.RepoPath, parentHash)
	if err != nil {
		return fatal(err)
	}
	snapshot, err := p.client.ShowFileAtRef(ctx, p.cfg.RepoPath, parentHash, p.target.Path)
	if err != nil {
		return fatal(fmt.Errorf("cannot materialize %s at parent revision %s: %w", p.target.Path, parentHash, err))
	}
	p.bundle.ParentCommit = parentInfo
	p.bundle.PreFixSnapshot = snapshot
	return ok()
}

// generateDiffs is phase 3: produce the unified, word-level and stat views of
// the same change between the parent and fix revisions.
func (p *forensicPipeline) generateDiffs(ctx context.Context) phaseResult {
	base := p.bundle.ParentCommit.Hash
	target := p.bundle.FixCommit.Hash

	unified, err := p.client.DiffUnified(ctx, p.cfg.RepoPath, base, target, p.target.Path)
	if err != nil {
		return fatal(err)
	}
	stat, err := p.client.DiffStat(ctx, p.cfg.RepoPath, base, target, p.target.Path)
	if err != nil {
		return fatal(err)
	}
	// The word-level view is computed from the same two revisions: the
	// pre-fix snapshot against the file content at the fix commit.
	postFix, err := p.client.ShowFileAtRef(ctx, p.cfg.RepoPath, target, p.target.Path)
	if err != nil {
		return fatal(fmt.Errorf("cannot materialize %s at fix revision %s: %w", p.target.Path, target, err))
	}
	p.postFixSnapshot = postFix

	p.bundle.Diffs = schema.DiffViews{
		Unified:   string(unified),
		WordLevel: wordLevelDiff(string(p.bundle.PreFixSnapshot), string(postFix)),
		Stat:      string(stat),
	}
	return ok()
}

// scanMarkers is phase 4: non-fatal keyword scan of the pre-fix snapshot.
func (p *forensicPipeline) scanMarkers(_ context.Context) phaseResult {
	p.bundle.Markers = ScanMarkers(p.bundle.PreFixSnapshot, p.cfg.Markers)
	return ok()
}

// synthesizeSummary is phase 5: assemble the human-readable investigation
// report from the prior phases plus the file's metric and exposure set.
// Formatting problems degrade to a partial report instead of aborting.
func (p *forensicPipeline) synthesizeSummary(_ context.Context) (res phaseResult) {
	defer func() {
		if r := recover(); r != nil {
			p.bundle.Summary = partialSummary(p.bundle)
			res = partial(fmt.Errorf("summary formatting: %v", r))
		}
	}()

	var b strings.Builder
	b.WriteString("# Investigation Summary\n\n")
	fmt.Fprintf(&b, "Target file: `%s`\n\n", p.bundle.TargetPath)

	if len(p.bundle.Identifiers) > 0 {
		fmt.Fprintf(&b, "Security identifiers: %s\n\n", strings.Join(p.bundle.Identifiers, ", "))
	} else {
		b.WriteString("Security identifiers: none recorded\n\n")
	}

	b.WriteString("## Timeline\n\n")
	b.WriteString(p.renderTimeline())

	b.WriteString("\n## Documentation debt\n\n")
	m := p.bundle.Metric
	fmt.Fprintf(&b, "- %s total lines (%s blank, %s comment, %s code)\n",
		humanize.Comma(int64(m.TotalLines)), humanize.Comma(int64(m.BlankLines)),
		humanize.Comma(int64(m.CommentLines)), humanize.Comma(int64(m.CodeLines)))
	fmt.Fprintf(&b, "- Comment ratio: %.2f%% (%s debt)\n", m.Ratio, strings.ToLower(schema.GetPlainLabel(m.Ratio)))
	fmt.Fprintf(&b, "- Pre-fix snapshot size: %s\n", humanize.Bytes(uint64(len(p.bundle.PreFixSnapshot))))

	b.WriteString("\n## Change shape\n\n")
	stat := strings.TrimSpace(p.bundle.Diffs.Stat)
	if stat == "" {
		b.WriteString("No stat view available.\n")
	} else {
		b.WriteString("```\n" + stat + "\n```\n")
	}

	b.WriteString("\n## Vulnerability markers\n\n")
	if len(p.bundle.Markers) == 0 {
		b.WriteString("No markers found in the pre-fix snapshot.\n")
	} else {
		counts := markerCounts(p.bundle.Markers)
		fmt.Fprintf(&b, "%d marker hits in the pre-fix snapshot:\n\n", len(p.bundle.Markers))
		for _, line := range counts {
			b.WriteString("- " + line + "\n")
		}
	}

	b.WriteString("\n## Artifacts\n\n")
	b.WriteString("- `original/` holds the pre-fix snapshot\n")
	b.WriteString("- `analysis/diffs/` holds the unified, word-level and stat views\n")
	b.WriteString("- `analysis/metadata/` holds the timeline and marker locations\n")

	p.bundle.Summary = b.String()
	return ok()
}

// partialSummary is the degraded phase-5 fallback: the facts that cannot
// fail to format, nothing more.
func partialSummary(bundle *schema.ForensicBundle) string {
	return fmt.Sprintf("# Investigation Summary (partial)\n\nTarget file: `%s`\nFix commit: %s\nParent commit: %s\n",
		bundle.TargetPath, bundle.FixCommit.Hash, bundle.ParentCommit.Hash)
}

// renderTimeline formats the two known events in chronological order. Only
// commit dates appear so re-runs stay byte-identical.
func (p *forensicPipeline) renderTimeline() string {
	var b strings.Builder
	parent := p.bundle.ParentCommit
	fix := p.bundle.FixCommit
	fmt.Fprintf(&b, "- %s: parent commit %s (vulnerable state)\n",
		parent.Date.Format("2006-01-02"), shortHash(parent.Hash))
	fmt.Fprintf(&b, "- %s: fix commit %s: %s\n",
		fix.Date.Format("2006-01-02"), shortHash(fix.Hash), fix.Subject)
	exposure := fix.Date.Sub(parent.Date)
	if exposure > 0 {
		fmt.Fprintf(&b, "- Window between revisions: %s\n", humanize.RelTime(parent.Date, fix.Date, "", ""))
	}
	return b.String()
}

// markerCounts aggregates findings into "keyword: N hits" lines, sorted by
// keyword for stable output.
func markerCounts(findings []schema.MarkerFinding) []string {
	counts := make(map[string]int)
	for _, f := range findings {
		counts[f.Keyword]++
	}
	keywords := make([]string, 0, len(counts))
	for k := range counts {
		keywords = append(keywords, k)
	}
	sort.Strings(keywords)
	lines := make([]string, 0, len(keywords))
	for _, k := range keywords {
		lines = append(lines, fmt.Sprintf("`%s`: %d", k, counts[k]))
	}
	return lines
}

// wordLevelDiff renders an inline diff of the two snapshots in the style of
// git's --word-diff=plain: insertions wrapped in {+ +}, deletions in [- -].
func wordLevelDiff(before, after string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(before, after, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	var b strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			b.WriteString("{+" + d.Text + "+}")
		case diffmatchpatch.DiffDelete:
			b.WriteString("[-" + d.Text + "-]")
		default:
			b.WriteString(d.Text)
		}
	}
	return b.String()
}

// shortHash abbreviates a commit hash for display.
func shortHash(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}
