package algo

import (
	"sort"

	"github.com/docgap/docgap/schema"
)

// RankFiles sorts files ascending by comment ratio, so the worst-documented
// files come first. Ties are broken by path so the ordering is total and the
// output is reproducible byte for byte. It returns the top 'limit' files;
// if limit is zero or greater than the number of files, all files are
// returned in sorted order.
func RankFiles(files []schema.RankedFile, limit int) []schema.RankedFile {
	sort.Slice(files, func(i, j int) bool {
		if files[i].Ratio != files[j].Ratio {
			return files[i].Ratio < files[j].Ratio
		}
		return files[i].Path < files[j].Path
	})
	if limit > 0 && len(files) > limit {
		return files[:limit]
	}
	return files
}
