package cmd

import (
	"fmt"

	"github.com/docgap/docgap/internal/contract"
	"github.com/docgap/docgap/internal/iocache"
	"github.com/docgap/docgap/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// cacheSetup loads minimal configuration needed for cache operations.
// This is used by commands that need cache access without full shared setup.
func cacheSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get cache-related config values
	backend := schema.DatabaseBackend(viper.GetString("cache-backend"))
	connStr := viper.GetString("cache-db-connect")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// Initialize caching with the loaded config
	if err := iocache.InitCaching(backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}

	cfg.CacheBackend = backend
	cfg.CacheDBConnect = connStr

	return nil
}

// cacheSetupWrapper wraps cacheSetup to provide PreRunE for cache commands.
func cacheSetupWrapper(_ *cobra.Command, _ []string) error {
	return cacheSetup()
}

// cacheCmd focused on cache management.
//
// Note: Cache subcommands use minimal initialization (cacheSetup) instead of
// the full sharedSetup used by analysis commands. This avoids Git repo
// validation and complex config processing for simple cache operations.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the history-mining cache (improves performance)",
	Long: `Manage the cache of mined security commits that speeds up repeated runs.

Docgap caches history-mining results so re-ranking the same repository does
not re-search the entire commit log.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show cache statistics and connection info
  clear   - Remove all cached data
  migrate - Run schema migrations on the cache database

Examples:
  # Check cache status
  docgap cache status

  # Clear cache after history was rewritten
  docgap cache clear`,
}

// cacheClearCmd clears the cache.
var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached mining data",
	Long: `Delete all cached mining data from the configured backend.

Use this when:
- Repository history was rewritten (rebase, force push)
- The curated advisories file changed
- Cache may be stale or corrupted

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the cache table

Examples:
  # Clear SQLite cache (default)
  docgap cache clear

  # Clear MySQL cache (set connection string via env variable)
  DOCGAP_CACHE_BACKEND=mysql DOCGAP_CACHE_DB_CONNECT="..." docgap cache clear`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearCache(cfg.CacheBackend, contract.GetCacheDBFilePath(), cfg.CacheDBConnect); err != nil {
			contract.LogFatal("Failed to clear cache", err)
		}
		fmt.Println("Cache cleared successfully.")
	},
}

// cacheStatusCmd shows cache status.
var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display cache statistics and connection details",
	Long: `Show detailed information about the history-mining cache.

Displays:
- Backend type and location
- Total number of cached entries
- Oldest cache entry timestamp
- Cache database size

Examples:
  # Check cache status
  docgap cache status`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := iocache.Manager.GetMiningStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get cache status", err)
		}
		iocache.PrintCacheStatus(status)
	},
}

// cacheMigrateCmd runs schema migrations on the cache database.
var cacheMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run schema migrations on the cache database",
	Long: `Apply or roll back schema migrations on the mining cache database.

By default migrates to the latest version. Use --target-version to pin a
specific schema version, or 0 to roll everything back.

Examples:
  # Migrate to the latest schema
  docgap cache migrate

  # Roll back all migrations
  docgap cache migrate --target-version 0`,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		return loadConfigFile()
	},
	Run: func(_ *cobra.Command, _ []string) {
		backend := schema.DatabaseBackend(viper.GetString("cache-backend"))
		connStr := viper.GetString("cache-db-connect")
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateCache(backend, connStr, targetVersion); err != nil {
			contract.LogFatal("Failed to run cache migrations", err)
		}
	},
}
