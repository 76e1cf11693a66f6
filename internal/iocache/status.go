package iocache

import (
	"fmt"

	"github.com/docgap/docgap/schema"
	"github.com/dustin/go-humanize"
)

// PrintCacheStatus prints cache status information.
func PrintCacheStatus(status schema.CacheStatus) {
	fmt.Printf("Cache Backend: %s\n", status.Backend)
	if status.Backend == schema.NoneBackend {
		return
	}
	if status.Location != "" {
		fmt.Printf("Location: %s\n", status.Location)
	}
	fmt.Printf("Total Entries: %d\n", status.EntryCount)
	if status.EntryCount > 0 {
		fmt.Printf("Oldest Entry: %s\n", status.OldestAt.Format("2006-01-02 15:04:05"))
	}
	fmt.Printf("Table Size: %s\n", humanize.Bytes(uint64(status.SizeBytes)))
}
