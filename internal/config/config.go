// Package config provides configuration types and defaults for windrow.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/zjrosen/windrow/internal/log"
	"github.com/zjrosen/windrow/internal/tracing"
)

// Config holds all configuration options for windrow.
type Config struct {
	DB      DBConfig       `mapstructure:"db"`
	List    ListConfig     `mapstructure:"list"`
	UI      UIConfig       `mapstructure:"ui"`
	Cache   CacheConfig    `mapstructure:"cache"`
	Follow  FollowConfig   `mapstructure:"follow"`
	Tracing tracing.Config `mapstructure:"tracing"`
	Debug   bool           `mapstructure:"debug"`
}

// DBConfig selects the list's data source.
type DBConfig struct {
	// Path is the SQLite entries database. Empty means browse a synthetic
	// in-memory dataset instead.
	Path string `mapstructure:"path"`
	// Table overrides the entries table name.
	Table string `mapstructure:"table"`
	// Rows is the synthetic dataset size used when Path is empty.
	Rows int `mapstructure:"rows"`
}

// ListConfig tunes the windowing engine.
type ListConfig struct {
	// RowHeight is the rendered height of one row in terminal lines.
	RowHeight int `mapstructure:"row_height"`
	// Overscan is the number of screenfuls materialized around the viewport.
	Overscan int `mapstructure:"overscan"`
	// Debounce is how long scrolling must pause before a window is fetched.
	Debounce time.Duration `mapstructure:"debounce"`
	// ReapEvery is the sweep interval for superseded rows.
	ReapEvery time.Duration `mapstructure:"reap_every"`
	// QuietAfter is how long scrolling must be quiet before a sweep runs.
	QuietAfter time.Duration `mapstructure:"quiet_after"`
	// FetchTimeout bounds a single source fetch. Zero disables the bound.
	FetchTimeout time.Duration `mapstructure:"fetch_timeout"`
}

// UIConfig toggles the chrome around the list.
type UIConfig struct {
	ShowStatusBar bool `mapstructure:"show_status_bar"`
	ShowScrollbar bool `mapstructure:"show_scrollbar"`
	// MarkdownStyle picks the glamour theme for the help overlay,
	// "dark" or "light".
	MarkdownStyle string `mapstructure:"markdown_style"`
}

// CacheConfig controls the block cache between the engine and the store.
type CacheConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// TTL bounds how stale a cached block may get without a change event.
	TTL time.Duration `mapstructure:"ttl"`
}

// FollowConfig controls watching the database file for external writes.
type FollowConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// Debounce coalesces bursts of file writes into one refresh.
	Debounce time.Duration `mapstructure:"debounce"`
}

// DefaultTracesFilePath is where the file exporter writes when the config
// names no path: ~/.config/windrow/traces/traces.jsonl. Empty when the home
// directory cannot be resolved.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "windrow", "traces", "traces.jsonl")
}

// Defaults is the configuration a fresh install runs with.
func Defaults() Config {
	return Config{
		DB: DBConfig{
			Table: "entries",
			Rows:  100000,
		},
		List: ListConfig{
			RowHeight:  2,
			Overscan:   3,
			Debounce:   200 * time.Millisecond,
			ReapEvery:  300 * time.Millisecond,
			QuietAfter: 100 * time.Millisecond,
		},
		UI: UIConfig{
			ShowStatusBar: true,
			ShowScrollbar: true,
			MarkdownStyle: "dark",
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     30 * time.Second,
		},
		Follow: FollowConfig{
			Enabled:  true,
			Debounce: 1 * time.Second,
		},
		Tracing: tracing.DefaultConfig(),
	}
}

// ValidateList checks engine tuning for errors. Zero values are valid and
// fall back to engine defaults.
func ValidateList(list ListConfig) error {
	if list.RowHeight < 0 {
		return fmt.Errorf("list.row_height must not be negative, got %d", list.RowHeight)
	}
	if list.Overscan < 0 {
		return fmt.Errorf("list.overscan must not be negative, got %d", list.Overscan)
	}
	for _, d := range []struct {
		name  string
		value time.Duration
	}{
		{"list.debounce", list.Debounce},
		{"list.reap_every", list.ReapEvery},
		{"list.quiet_after", list.QuietAfter},
		{"list.fetch_timeout", list.FetchTimeout},
	} {
		if d.value < 0 {
			return fmt.Errorf("%s must not be negative, got %v", d.name, d.value)
		}
	}
	return nil
}

// ValidateUI checks user interface configuration for errors.
func ValidateUI(ui UIConfig) error {
	switch ui.MarkdownStyle {
	case "", "dark", "light":
		return nil
	default:
		return fmt.Errorf("ui.markdown_style must be \"dark\" or \"light\", got %q", ui.MarkdownStyle)
	}
}

// ValidateCache checks cache configuration for errors.
func ValidateCache(cache CacheConfig) error {
	if cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must not be negative, got %v", cache.TTL)
	}
	return nil
}

// ValidateFollow checks follow configuration for errors.
func ValidateFollow(follow FollowConfig) error {
	if follow.Debounce < 0 {
		return fmt.Errorf("follow.debounce must not be negative, got %v", follow.Debounce)
	}
	return nil
}

// ValidateTracing checks the tracing section. Empty values pass because they
// fall back to defaults at provider construction.
func ValidateTracing(t tracing.Config) error {
	if t.SampleRate < 0.0 || t.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", t.SampleRate)
	}

	switch t.Exporter {
	case "", "none", "file", "stdout", "otlp":
	default:
		return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", t.Exporter)
	}

	// Path requirements bind only once tracing is switched on.
	if t.Enabled {
		if t.Exporter == "file" && t.FilePath == "" {
			return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
		}
		if t.Exporter == "otlp" && t.OTLPEndpoint == "" {
			return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
		}
	}

	return nil
}

// Validate checks the whole configuration for errors.
func Validate(cfg Config) error {
	if cfg.DB.Rows < 0 {
		return fmt.Errorf("db.rows must not be negative, got %d", cfg.DB.Rows)
	}
	if err := ValidateList(cfg.List); err != nil {
		return err
	}
	if err := ValidateUI(cfg.UI); err != nil {
		return err
	}
	if err := ValidateCache(cfg.Cache); err != nil {
		return err
	}
	if err := ValidateFollow(cfg.Follow); err != nil {
		return err
	}
	return ValidateTracing(cfg.Tracing)
}

// DefaultConfigTemplate is the commented YAML written by `windrow seed` and
// the first run. Values mirror Defaults.
func DefaultConfigTemplate() string {
	return `# Windrow Configuration

# Data source
db:
  # Path to the entries database. When unset, windrow browses a synthetic
  # in-memory dataset instead.
  # path: /path/to/entries.db

  # Table name inside the database (default: entries)
  # table: entries

  # Synthetic dataset size used when no database is configured
  rows: 100000

# Windowing engine tuning
list:
  row_height: 2        # Terminal lines per row
  overscan: 3          # Screenfuls materialized around the viewport
  debounce: 200ms      # Scroll must pause this long before a fetch
  reap_every: 300ms    # Sweep interval for superseded rows
  quiet_after: 100ms   # Scroll quiet period required before a sweep
  # fetch_timeout: 0   # Bound on one source fetch; 0 disables

# UI settings
ui:
  show_status_bar: true  # Status bar with window/fetch state at the bottom
  show_scrollbar: true   # Scrollbar on the right edge
  # markdown_style: dark # Help overlay rendering: "dark" (default) or "light"

# Block cache between the engine and the store
cache:
  enabled: true
  ttl: 30s   # How stale a cached block may get without a change event

# Watch the database file and refresh the visible window on external writes
follow:
  enabled: true
  debounce: 1s

# Fetch-cycle tracing, off by default. Exporters: none, file, stdout, otlp.
# tracing:
#   enabled: true
#   exporter: file
#   file_path: ~/.config/windrow/traces/traces.jsonl
#   sample_rate: 1.0   # fraction of traces kept, 0.0-1.0
#
# To ship spans to a collector instead:
#   exporter: otlp
#   otlp_endpoint: localhost:4317
`
}

// WriteDefaultConfig writes the commented template to configPath, creating
// parent directories as needed.
func WriteDefaultConfig(configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Config directory not writable", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Config template not written", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
