package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/windrow/internal/app"
	"github.com/zjrosen/windrow/internal/config"
	"github.com/zjrosen/windrow/internal/keys"
	"github.com/zjrosen/windrow/internal/log"
	"github.com/zjrosen/windrow/internal/source"
	"github.com/zjrosen/windrow/internal/tracing"
	"github.com/zjrosen/windrow/internal/window"
)

func init() {
	// Ask termenv for the background color before the tea program owns
	// stdin, or the terminal's OSC 11 reply lands in the input loop as
	// stray characters (bubbletea#1036).
	_ = lipgloss.HasDarkBackground()
}

// localConfigPath is the per-directory config, checked before the
// user-level one and seeded on first run.
const localConfigPath = ".windrow/config.yaml"

var (
	version = "dev"
	cfgFile string
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:   "windrow",
	Short: "A terminal ui for browsing huge lists",
	Long: `A terminal user interface for scrolling through lists far too large to
materialize, backed by a windowing engine that only fetches the rows near
the viewport. Browses a SQLite entries database, or a synthetic dataset
when none is configured.`,
	Version: version,
	RunE:    runBrowse,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/windrow/config.yaml)")
	rootCmd.Flags().String("db", "",
		"path to an entries database (default: synthetic data)")
	rootCmd.Flags().String("table", "",
		"entries table name")
	rootCmd.Flags().Int("rows", 0,
		"synthetic dataset size when no database is configured")
	rootCmd.Flags().Int("row-height", 0,
		"terminal lines per row")
	rootCmd.Flags().Bool("no-follow", false,
		"disable refreshing when the database file changes")
	rootCmd.Flags().Bool("debug", false,
		"enable debug logging and the event log overlay (ctrl+x)")

	// Flags override config file values through viper.
	_ = viper.BindPFlag("db.path", rootCmd.Flags().Lookup("db"))
	_ = viper.BindPFlag("db.table", rootCmd.Flags().Lookup("table"))
	_ = viper.BindPFlag("db.rows", rootCmd.Flags().Lookup("rows"))
	_ = viper.BindPFlag("list.row_height", rootCmd.Flags().Lookup("row-height"))
	_ = viper.BindPFlag("debug", rootCmd.Flags().Lookup("debug"))
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("db.table", defaults.DB.Table)
	viper.SetDefault("db.rows", defaults.DB.Rows)
	viper.SetDefault("list.row_height", defaults.List.RowHeight)
	viper.SetDefault("list.overscan", defaults.List.Overscan)
	viper.SetDefault("list.debounce", defaults.List.Debounce)
	viper.SetDefault("list.reap_every", defaults.List.ReapEvery)
	viper.SetDefault("list.quiet_after", defaults.List.QuietAfter)
	viper.SetDefault("ui.show_status_bar", defaults.UI.ShowStatusBar)
	viper.SetDefault("ui.show_scrollbar", defaults.UI.ShowScrollbar)
	viper.SetDefault("ui.markdown_style", defaults.UI.MarkdownStyle)
	viper.SetDefault("cache.enabled", defaults.Cache.Enabled)
	viper.SetDefault("cache.ttl", defaults.Cache.TTL)
	viper.SetDefault("follow.enabled", defaults.Follow.Enabled)
	viper.SetDefault("follow.debounce", defaults.Follow.Debounce)
	viper.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	viper.SetDefault("tracing.file_path", defaults.Tracing.FilePath)
	viper.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)
	viper.SetDefault("tracing.service_name", defaults.Tracing.ServiceName)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if _, err := os.Stat(localConfigPath); err == nil {
		// A project-local .windrow/config.yaml wins over the user config.
		viper.SetConfigFile(localConfigPath)
	} else {
		home, _ := os.UserHomeDir()
		viper.AddConfigPath(filepath.Join(home, ".config", "windrow"))
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			// First run: seed a commented template next to the data. A
			// failed write is not fatal, the defaults above still apply.
			if writeErr := config.WriteDefaultConfig(localConfigPath); writeErr == nil {
				viper.SetConfigFile(localConfigPath)
				_ = viper.ReadInConfig()
			}
		}
	}

	_ = viper.Unmarshal(&cfg)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	if noFollow, _ := cmd.Flags().GetBool("no-follow"); noFollow {
		cfg.Follow.Enabled = false
	}

	normalizeConfig(&cfg)
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Debug logging is opt-in through the flag or WINDROW_DEBUG.
	debug := os.Getenv("WINDROW_DEBUG") != "" || cfg.Debug
	if debug {
		logPath := os.Getenv("WINDROW_LOG")
		if logPath == "" {
			logPath = "debug.log"
		}

		cleanup, err := log.Init(logPath)
		if err != nil {
			return fmt.Errorf("initializing logging: %w", err)
		}
		defer cleanup()

		log.Info(log.CatConfig, "Windrow starting", "debug", true, "logPath", logPath)
	}

	// The event log overlay is a debug surface; keep its binding out of the
	// help view otherwise.
	keys.Browser.EventLog.SetEnabled(debug)

	provider, err := tracing.NewProvider(cfg.Tracing)
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	defer func() { _ = provider.Shutdown(context.Background()) }()

	src, store, flusher, err := buildSource(cfg)
	if err != nil {
		return err
	}
	if store != nil {
		defer func() { _ = store.Close() }()
	}

	zone.NewGlobal()

	model := app.New(app.Config{
		Cfg:       cfg,
		Source:    src,
		Flusher:   flusher,
		Tracer:    provider.Tracer(),
		DBPath:    cfg.DB.Path,
		DebugMode: debug,
	})

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	finalModel, err := p.Run()

	// The final model holds the engine built during the session; the one
	// constructed above does not.
	if m, ok := finalModel.(app.Model); ok {
		m.Close()
	} else {
		model.Close()
	}

	if err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// normalizeConfig fills config zero values that have no meaning of their
// own: a zero row height falls back to the shipped default.
func normalizeConfig(cfg *config.Config) {
	if cfg.List.RowHeight == 0 {
		cfg.List.RowHeight = config.Defaults().List.RowHeight
	}
}

// buildSource assembles the fetch chain: a SQLite store when a database is
// configured, a synthetic slice otherwise, wrapped in a block cache when
// enabled. The returned store is non-nil only for the database case and
// must be closed by the caller; the flusher is non-nil only when caching.
func buildSource(cfg config.Config) (window.Source[source.Entry], *source.EntryStore, app.Flusher, error) {
	var (
		inner window.Source[source.Entry]
		store *source.EntryStore
	)
	if cfg.DB.Path != "" {
		s, err := source.Open(cfg.DB.Path, cfg.DB.Table)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("opening database %s: %w\nRun 'windrow seed' to create one", cfg.DB.Path, err)
		}
		store = s
		inner = s
	} else {
		inner = source.NewSliceSource(source.GenerateEntries(cfg.DB.Rows))
	}

	if cfg.Cache.Enabled {
		cached := source.NewCachedSource(inner, cfg.Cache.TTL)
		return cached, store, cached, nil
	}
	return inner, store, nil, nil
}

// Execute is the entry point main delegates to.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion installs the build-stamped version before Execute runs.
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
