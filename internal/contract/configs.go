package contract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/docgap/docgap/schema"
)

// Default values for configuration.
const (
	DefaultResultLimit = 25
	MaxResultLimit     = 1000
	DefaultPrecision   = 2
	MaxPrecision       = 4
)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// DefaultIdentifierPatterns drive the search-discovery pass when the user
// supplies no explicit identifiers. The bare prefix matches any CVE mention;
// concrete identifiers are then extracted from the commit message.
var DefaultIdentifierPatterns = []string{"CVE-"}

// DefaultMarkers are the vulnerability-related keywords scanned for in the
// pre-fix snapshot. They target validation and bounds-check identifiers.
var DefaultMarkers = []string{
	"check", "valid", "verif", "bound", "limit",
	"overflow", "length", "assert", "sanit",
}

// Config holds the runtime configuration for one docgap run.
// This struct is the final, validated config.
type Config struct {
	RepoPath       string
	Since          time.Time // Zero means full history
	Filter         string
	Excludes       []string
	Identifiers    []string
	AdvisoriesPath string
	Markers        []string

	ResultLimit int
	Precision   int
	Output      schema.OutputMode
	OutputFile  string

	ForensicsDir string
	RankIndex    int

	DensityPath string

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext

	UseColors bool
	Width     int // Terminal width override (0 = auto-detect)
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	RepoPathStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	Filter         string `mapstructure:"filter"`
	Exclude        string `mapstructure:"exclude"`
	Identifiers    string `mapstructure:"identifiers"`
	Advisories     string `mapstructure:"advisories"`
	Markers        string `mapstructure:"markers"`
	Since          string `mapstructure:"since"`
	Limit          int    `mapstructure:"limit"`
	Precision      int    `mapstructure:"precision"`
	Output         string `mapstructure:"output"`
	OutputFile     string `mapstructure:"output-file"`
	Width          int    `mapstructure:"width"`
	Color          string `mapstructure:"color"`
	CacheBackend   string `mapstructure:"cache-backend"`
	CacheDBConnect string `mapstructure:"cache-db-connect"`

	// --- Fields from forensicsCmd.Flags() ---
	Rank   int    `mapstructure:"rank"`
	OutDir string `mapstructure:"out"`

	// --- Fields from densityCmd.Flags() ---
	Path string `mapstructure:"path"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Excludes != nil {
		clone.Excludes = make([]string, len(c.Excludes))
		copy(clone.Excludes, c.Excludes)
	}
	if c.Identifiers != nil {
		clone.Identifiers = make([]string, len(c.Identifiers))
		copy(clone.Identifiers, c.Identifiers)
	}
	if c.Markers != nil {
		clone.Markers = make([]string, len(c.Markers))
		copy(clone.Markers, c.Markers)
	}
	return &clone
}

// GetCacheDBFilePath returns the path to the SQLite DB file for the mining cache.
func GetCacheDBFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".docgap-cache.db"
	}
	return filepath.Join(home, ".docgap-cache.db")
}

// ProcessAndValidate performs all complex parsing and validation on the raw
// inputs and populates the final Config struct.
func ProcessAndValidate(ctx context.Context, cfg *Config, client GitClient, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processSince(cfg, input); err != nil {
		return err
	}
	processLists(cfg, input)
	return resolveRepoPath(ctx, cfg, client, input)
}

// validateSimpleInputs processes and validates all non-path related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.Filter = input.Filter
	cfg.OutputFile = input.OutputFile
	cfg.AdvisoriesPath = input.Advisories
	cfg.ForensicsDir = input.OutDir
	cfg.DensityPath = input.Path
	cfg.Width = input.Width

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- ResultLimit Validation ---
	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	// --- Precision and Output Validation ---
	if input.Precision < 0 || input.Precision > MaxPrecision {
		return fmt.Errorf("precision must be between 0 and %d (received %d)", MaxPrecision, input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}

	// --- Rank Index Validation ---
	// The upper bound depends on how many rows the ranking produces and is
	// enforced there; only the lower bound is known at parse time.
	if input.Rank < 0 {
		return fmt.Errorf("rank must be at least 1 (received %d)", input.Rank)
	}
	cfg.RankIndex = input.Rank

	// --- Backend Validation ---
	return validateBackendConfig(cfg, input)
}

// validateBackendConfig validates the mining cache backend configuration.
func validateBackendConfig(cfg *Config, input *ConfigRawInput) error {
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	return ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect)
}

// ValidateDatabaseConnectionString validates the format of database connection
// strings for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("cache-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("cache-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// processSince parses the optional history cutoff date.
func processSince(cfg *Config, input *ConfigRawInput) error {
	if input.Since == "" {
		cfg.Since = time.Time{}
		return nil
	}
	t, err := ParseSince(input.Since, time.Now())
	if err != nil {
		return fmt.Errorf("invalid --since value: %w", err)
	}
	cfg.Since = t
	return nil
}

// processLists splits the comma-separated list inputs and applies defaults.
func processLists(cfg *Config, input *ConfigRawInput) {
	cfg.Identifiers = splitCommaList(input.Identifiers)
	if len(cfg.Identifiers) == 0 {
		cfg.Identifiers = append([]string{}, DefaultIdentifierPatterns...)
	}

	cfg.Markers = splitCommaList(input.Markers)
	if len(cfg.Markers) == 0 {
		cfg.Markers = append([]string{}, DefaultMarkers...)
	}

	// Build/test/doc filtering is a policy of the caller, not the miner, so
	// the default excludes live here.
	defaults := []string{
		"test/", "tests/", "doc/", "docs/", "demos/", "fuzz/",
		"vendor/", "third_party/", "node_modules/",
	}
	cfg.Excludes = defaults
	cfg.Excludes = append(cfg.Excludes, splitCommaList(input.Exclude)...)
}

// resolveRepoPath validates the repository path and normalizes it to the
// repository root. A missing repository is an environment error and must be
// reported with remediation instructions.
func resolveRepoPath(ctx context.Context, cfg *Config, client GitClient, input *ConfigRawInput) error {
	repoPath := input.RepoPathStr
	if repoPath == "" {
		repoPath = "."
	}
	absPath, err := filepath.Abs(repoPath)
	if err != nil {
		return fmt.Errorf("cannot resolve repository path %q: %w", repoPath, err)
	}
	if _, err := os.Stat(absPath); err != nil {
		return fmt.Errorf("repository path %q does not exist. Provide the path to a Git working copy", repoPath)
	}
	root, err := client.GetRepoRoot(ctx, absPath)
	if err != nil {
		return err
	}
	cfg.RepoPath = root
	return nil
}

// splitCommaList splits a comma-separated flag value into trimmed parts.
func splitCommaList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
