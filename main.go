// main is the entry point for the docgap CLI.
package main

import (
	"fmt"
	"os"

	"github.com/docgap/docgap/cmd"
	"github.com/docgap/docgap/internal/iocache"
)

func main() {
	defer iocache.CloseCaching()

	cmd.SetCacheManager(iocache.Manager)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		iocache.CloseCaching()
		os.Exit(1)
	}
}
