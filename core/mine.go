package core

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/docgap/docgap/internal/contract"
	"github.com/docgap/docgap/schema"
)

// cveRe extracts identifiers of the default CVE pattern, which have a strict
// year-number form.
var cveRe = regexp.MustCompile(`CVE-\d{4}-\d{4,}`)

// miningCacheVersion is bumped whenever the cached record shape changes.
const miningCacheVersion = 1

// MineHistory runs the two sourcing passes of the history miner: the curated
// advisories list first, then search-based discovery for every identifier
// pattern. The returned slice preserves that order so the correlation engine
// can apply its curated-data-wins precedence by simple iteration.
func MineHistory(ctx context.Context, cfg *contract.Config, client contract.GitClient, mgr contract.CacheManager) ([]schema.SecurityCommit, error) {
	advisories, err := LoadAdvisories(cfg.AdvisoriesPath)
	if err != nil {
		return nil, err
	}

	// Tracks (commit, identifier) pairs so the discovery pass never
	// duplicates a curated record.
	seen := make(map[string]struct{})
	var mined []schema.SecurityCommit

	// --- Pass 1: curated list ---
	for _, adv := range advisories {
		info, err := client.GetCommitInfo(ctx, cfg.RepoPath, adv.Commit)
		if err != nil {
			// A curated commit absent from this clone is data absence, not
			// an environment failure; record it and move on.
			contract.LogWarn(fmt.Sprintf("curated commit %s not found, skipping", adv.Commit), err)
			continue
		}
		files, err := listSourceFiles(ctx, cfg, client, info.Hash)
		if err != nil {
			contract.LogWarn(fmt.Sprintf("cannot list files of curated commit %s, skipping", adv.Commit), err)
			continue
		}
		mined = append(mined, schema.SecurityCommit{
			Commit:      info,
			Identifier:  adv.Identifier,
			Description: adv.Description,
			Files:       files,
			Curated:     true,
		})
		seen[info.Hash+"\x00"+adv.Identifier] = struct{}{}
	}

	// --- Pass 2: search-based discovery ---
	// The discovery set is the union of the configured patterns and the
	// curated identifiers, so a curated ID also surfaces commits the curated
	// entry itself did not name. Sorted order keeps output reproducible.
	patternSet := make(map[string]struct{}, len(cfg.Identifiers)+len(advisories))
	for _, p := range cfg.Identifiers {
		patternSet[p] = struct{}{}
	}
	for _, adv := range advisories {
		patternSet[adv.Identifier] = struct{}{}
	}
	patterns := make([]string, 0, len(patternSet))
	for p := range patternSet {
		patterns = append(patterns, p)
	}
	sort.Strings(patterns)

	for _, pattern := range patterns {
		records, err := discoverPattern(ctx, cfg, client, mgr, pattern)
		if err != nil {
			return nil, err
		}
		for _, rec := range records {
			key := rec.Commit.Hash + "\x00" + rec.Identifier
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			mined = append(mined, rec)
		}
	}

	return mined, nil
}

// discoverPattern runs the search pass for a single identifier pattern,
// consulting the mining cache first. The cache key includes the repository
// HEAD so stale entries can never leak across history changes.
func discoverPattern(ctx context.Context, cfg *contract.Config, client contract.GitClient, mgr contract.CacheManager, pattern string) ([]schema.SecurityCommit, error) {
	var store contract.CacheStore
	if mgr != nil {
		store = mgr.GetMiningStore()
	}

	var cacheKey string
	if store != nil {
		repoHash, err := client.GetRepoHash(ctx, cfg.RepoPath)
		if err == nil {
			cacheKey = fmt.Sprintf("mine:%s:%s:%d", repoHash, pattern, cfg.Since.Unix())
			if blob, version, _, err := store.Get(cacheKey); err == nil && version == miningCacheVersion {
				var cached []schema.SecurityCommit
				if json.Unmarshal(blob, &cached) == nil {
					return cached, nil
				}
			}
		}
	}

	records, err := searchPattern(ctx, cfg, client, pattern)
	if err != nil {
		return nil, err
	}

	if store != nil && cacheKey != "" {
		if blob, err := json.Marshal(records); err == nil {
			if err := store.Set(cacheKey, blob, miningCacheVersion, time.Now().Unix()); err != nil {
				contract.LogWarn("mining cache write failed", err)
			}
		}
	}
	return records, nil
}

// searchPattern queries the commit log for one pattern and expands each match
// into one record per (commit, identifier) pair. A pattern matching nothing
// is a valid, empty result.
func searchPattern(ctx context.Context, cfg *contract.Config, client contract.GitClient, pattern string) ([]schema.SecurityCommit, error) {
	commits, err := client.SearchCommits(ctx, cfg.RepoPath, pattern, cfg.Since)
	if err != nil {
		return nil, err
	}

	records := make([]schema.SecurityCommit, 0, len(commits))
	for _, info := range commits {
		identifiers := extractIdentifiers(info, pattern)
		if len(identifiers) == 0 {
			continue
		}
		files, err := listSourceFiles(ctx, cfg, client, info.Hash)
		if err != nil {
			contract.LogWarn(fmt.Sprintf("cannot list files of commit %s, skipping", info.Hash), err)
			continue
		}
		for _, id := range identifiers {
			records = append(records, schema.SecurityCommit{
				Commit:     info,
				Identifier: id,
				Files:      files,
			})
		}
	}
	return records, nil
}

// identifierReFor returns the extraction regexp for one search pattern. The
// default CVE prefix keeps its strict year-number form; any other pattern
// captures the pattern followed by the rest of the identifier body, so a
// "GHSA-" prefix expands to the full GHSA-xxxx-yyyy-zzzz form.
func identifierReFor(pattern string) *regexp.Regexp {
	if pattern == "CVE-" {
		return cveRe
	}
	return regexp.MustCompile(regexp.QuoteMeta(pattern) + `[\w-]*\w`)
}

// extractIdentifiers pulls the concrete identifiers out of a commit message.
// When the message contains no recognizable identifier the pattern itself is
// used, unless it is a bare prefix like "CVE-" which names nothing concrete.
func extractIdentifiers(info schema.CommitInfo, pattern string) []string {
	message := info.Subject + "\n" + info.Body
	matches := identifierReFor(pattern).FindAllString(message, -1)

	set := make(map[string]struct{}, len(matches))
	var identifiers []string
	for _, m := range matches {
		if _, dup := set[m]; dup {
			continue
		}
		set[m] = struct{}{}
		identifiers = append(identifiers, m)
	}
	if len(identifiers) == 0 && !strings.HasSuffix(pattern, "-") {
		identifiers = append(identifiers, pattern)
	}
	sort.Strings(identifiers)
	return identifiers
}

// listSourceFiles lists the commit's changed files that look like source code
// and survive the caller's exclude policy.
func listSourceFiles(ctx context.Context, cfg *contract.Config, client contract.GitClient, ref string) ([]string, error) {
	files, err := client.ListChangedFiles(ctx, cfg.RepoPath, ref)
	if err != nil {
		return nil, err
	}
	kept := make([]string, 0, len(files))
	for _, f := range files {
		if !contract.IsSourceFile(f) {
			continue
		}
		if cfg.Filter != "" && !hasPathPrefix(f, cfg.Filter) {
			continue
		}
		if contract.ShouldIgnore(f, cfg.Excludes) {
			continue
		}
		kept = append(kept, f)
	}
	return kept, nil
}

// hasPathPrefix matches a path against a prefix filter.
func hasPathPrefix(path, prefix string) bool {
	if len(path) < len(prefix) {
		return false
	}
	return path[:len(prefix)] == prefix
}
