package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AI2HU/bikeshare/internal/config"
	"github.com/AI2HU/bikeshare/internal/dataset"
	"github.com/AI2HU/bikeshare/internal/dataset/csv"
	"github.com/AI2HU/bikeshare/internal/dataset/sqlite"
	"github.com/AI2HU/bikeshare/internal/logger"
	"github.com/AI2HU/bikeshare/internal/models"
	"github.com/AI2HU/bikeshare/internal/shared"
	"github.com/AI2HU/bikeshare/internal/stats"
)

var (
	cfgFile  string
	logLevel string
	cfg      *config.Config
	logFile  io.Closer
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "bikeshare",
	Short: "Explore bike share trip statistics",
	Long: `Bikeshare computes descriptive statistics over bike share trip data for
several cities: popular travel times, stations and trips, trip durations and
rider demographics.

Run without a subcommand to explore the data interactively.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadEnvFile(); err != nil {
			return err
		}

		// The init wizard writes the config, so it starts from defaults
		if cmd.Name() == "init" {
			cfg = config.DefaultConfig()
			if err := setupLogging(cfg.Log); err != nil {
				return err
			}
			if logLevel != "" {
				logger.SetLevel(logger.ParseLogLevel(logLevel))
			}
			return nil
		}

		if cfgFile == "" {
			cfgFile = config.GetConfigPath()
		}

		var err error
		cfg, err = config.LoadOrDefault(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg.ApplyEnv(nil)
		if logLevel != "" {
			cfg.Log.Level = logLevel
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		setColor(cfg.Display.Color)
		return setupLogging(cfg.Log)
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if logFile != nil {
			err := logFile.Close()
			logFile = nil
			return err
		}
		return nil
	},
	RunE: runExplore,
}

// Execute runs the root command
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.bikeshare/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warning, error)")

	// Disable completion command
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	// Add subcommands
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(exploreCmd)
	rootCmd.AddCommand(citiesCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(migrateCmd)
}

// setupLogging points the global logger at the configured rotated file, or stderr for "-"
func setupLogging(lc config.LogConfig) error {
	level := logger.ParseLogLevel(lc.Level)
	if lc.File == "" || lc.File == "-" {
		logger.Init(level, os.Stderr)
		return nil
	}

	w, err := logger.NewFileWriter(logger.FileOptions{
		Path:       expandHome(lc.File),
		MaxSizeMB:  lc.MaxSizeMB,
		MaxBackups: lc.MaxBackups,
	})
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	logFile = w
	logger.Init(level, w)
	return nil
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

// openSource opens the dataset provider selected by the configuration
func openSource(ctx context.Context, c *config.Config) (dataset.Source, error) {
	switch c.Dataset.Provider {
	case "csv":
		src, err := csv.New(expandHome(c.Dataset.DataDir))
		if err != nil {
			return nil, err
		}
		return src, nil
	case "sqlite":
		db := sqlite.New(c.Dataset.SQLitePath)
		if err := db.Connect(ctx); err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unsupported dataset provider: %s", c.Dataset.Provider)
	}
}

// loadEngine loads the trip tables of every city into a statistics engine.
// A source without any city data yields an empty engine.
func loadEngine(ctx context.Context) (*stats.Engine, error) {
	src, err := openSource(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	tables, err := src.LoadAll(ctx)
	if errors.Is(err, dataset.ErrNotFound) {
		logger.Warning("No city data available: %v", err)
		return stats.New(nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load trip data: %w", err)
	}
	if logger.IsDebugEnabled() {
		for _, summary := range dataset.Summarize(tables) {
			logger.Debug("%s: %d trips, capabilities %+v", summary.Name, summary.Trips, summary.Capabilities)
		}
	}
	return stats.New(tables), nil
}

// loadCityEngine loads a single named city into a statistics engine and returns
// the matched city name. A blank or unknown name fails with stats.ErrCityNotFound.
func loadCityEngine(ctx context.Context, city string) (*stats.Engine, string, error) {
	if strings.TrimSpace(city) == "" {
		return nil, "", fmt.Errorf("%w: a city name is required", stats.ErrCityNotFound)
	}

	src, err := openSource(ctx, cfg)
	if err != nil {
		return nil, "", err
	}
	defer src.Close()

	cities, err := src.ListCities(ctx)
	if err != nil && !errors.Is(err, dataset.ErrNotFound) {
		return nil, "", fmt.Errorf("failed to list cities: %w", err)
	}
	name, ok := shared.MatchCity(city, cities)
	if !ok {
		return nil, "", fmt.Errorf("%w: %s", stats.ErrCityNotFound, city)
	}

	table, err := src.LoadCity(ctx, name)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load trip data: %w", err)
	}
	engine := stats.New(map[string]*models.Table{name: table})
	if len(engine.Cities()) == 0 {
		return nil, "", fmt.Errorf("%w: %s", stats.ErrCityNotFound, city)
	}
	return engine, name, nil
}
