package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"ScreenSentinel/internal/collector"
	"ScreenSentinel/internal/config"
	"ScreenSentinel/internal/logger"
	"ScreenSentinel/internal/query"
	"ScreenSentinel/internal/recorder"
	"ScreenSentinel/internal/runner"
	"ScreenSentinel/internal/screener"
	"ScreenSentinel/internal/trending"
)

var (
	configPath string
	logLevel   string
	prettyLog  bool

	cfg *config.Config
	log zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:           "sentinel",
	Short:         "Stock screening with value, quality and pullback signals",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if logLevel != "" {
			cfg.Log.Level = logLevel
		}
		if prettyLog {
			cfg.Log.Pretty = true
		}
		log = logger.New(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("config validation: %w", err)
		}
		return nil
	},
}

func init() {
	defaultPath := config.DefaultPath
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		defaultPath = v
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", defaultPath, "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&prettyLog, "pretty", false, "Human-readable log output")

	rootCmd.AddCommand(screenCmd, serveCmd, historyCmd, presetsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// loadPresets returns the built-in presets, merged with the configured file.
func loadPresets() (query.Presets, error) {
	if cfg.PresetsFile == "" {
		return query.DefaultPresets(), nil
	}
	presets, err := query.LoadPresetsFile(cfg.PresetsFile)
	if err != nil {
		return nil, fmt.Errorf("load presets: %w", err)
	}
	return presets, nil
}

// openRecorder falls back to a no-op recorder when SQLite cannot be opened.
func openRecorder() recorder.Recorder {
	if cfg.Database.SQLitePath == "" || cfg.Database.SQLitePath == "none" {
		return recorder.NewNoopRecorder()
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Database.SQLitePath), 0o755); err != nil {
		log.Warn().Err(err).Msg("create database directory failed, history disabled")
		return recorder.NewNoopRecorder()
	}
	rec, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, log)
	if err != nil {
		log.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
		return recorder.NewNoopRecorder()
	}
	return rec
}

func newDiscovery(ctx context.Context) trending.Source {
	if cfg.Gemini.APIKey == "" {
		log.Debug().Msg("GEMINI_API_KEY not set, trending discovery disabled")
		return trending.NoopSource{}
	}
	src, err := trending.NewGeminiSource(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, log, trending.WithTimeout(cfg.Gemini.Timeout))
	if err != nil {
		log.Warn().Err(err).Msg("init gemini failed, trending discovery disabled")
		return trending.NoopSource{}
	}
	return src
}

// buildRunner wires the data source, screeners and history recorder.
func buildRunner(ctx context.Context) (*runner.Runner, recorder.Recorder, error) {
	presets, err := loadPresets()
	if err != nil {
		return nil, nil, err
	}

	opts := []collector.Option{
		collector.WithLogger(log),
		collector.WithTimeout(cfg.DataSource.Timeout),
		collector.WithRateLimit(cfg.DataSource.RequestsPerSecond),
		collector.WithPageInterval(cfg.DataSource.PageInterval),
		collector.WithHistoryRange(cfg.DataSource.HistoryRange),
	}
	if cfg.DataSource.BaseURL != "" {
		opts = append(opts, collector.WithBaseURL(cfg.DataSource.BaseURL))
	}
	source := collector.NewYahooClient(cfg.Proxy, opts...)
	log.Info().Str("source", source.Name()).Msg("data source ready")

	sc := screener.DefaultConfig()
	sc.Concurrency = cfg.DataSource.Concurrency
	sc.PageSize = cfg.DataSource.PageSize

	rec := openRecorder()
	return runner.New(source, newDiscovery(ctx), presets, sc, rec, log), rec, nil
}
