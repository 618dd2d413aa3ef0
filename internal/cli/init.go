package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/AI2HU/bikeshare/internal/config"
	"github.com/AI2HU/bikeshare/internal/dataset/csv"
	"github.com/AI2HU/bikeshare/internal/dataset/sqlite"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize bikeshare configuration",
	Long:  `Interactive wizard to set up where trip data is read from and where logs are written.`,
	RunE:  runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	reader := bufio.NewReader(cmd.InOrStdin())
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "🚀 Welcome to Bikeshare - Setup")
	fmt.Fprintln(out, "==============================")
	fmt.Fprintln(out)

	configPath := cfgFile
	if configPath == "" {
		configPath = config.GetConfigPath()
	}
	if config.Exists(configPath) {
		fmt.Fprintf(out, "Configuration file already exists at: %s\n", configPath)
		confirmed, err := promptYesNo(reader, out, "Do you want to overwrite it? (y/n): ")
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Fprintln(out, "Setup cancelled.")
			return nil
		}
	}

	c := config.DefaultConfig()
	if err := promptConfig(reader, out, c); err != nil {
		return err
	}
	if err := c.Validate(); err != nil {
		return err
	}

	// Check the dataset before saving
	fmt.Fprintln(out, "\n🔌 Checking dataset...")
	switch c.Dataset.Provider {
	case "csv":
		src, err := csv.New(expandHome(c.Dataset.DataDir))
		if err != nil {
			fmt.Fprintf(out, "❌ %v\n", err)
			return err
		}
		cities, err := src.ListCities(cmd.Context())
		if err != nil {
			fmt.Fprintf(out, "%s⚠️  %v%s\n", WarningStyle, err, Reset)
		} else {
			fmt.Fprintf(out, "✅ Found %s cities\n", FormatCount(len(cities)))
		}
	case "sqlite":
		db := sqlite.New(c.Dataset.SQLitePath)
		if err := db.Connect(cmd.Context()); err != nil {
			fmt.Fprintf(out, "❌ Failed to open database: %v\n", err)
			return err
		}
		defer db.Close()
		if err := db.Ping(cmd.Context()); err != nil {
			fmt.Fprintf(out, "❌ Failed to ping database: %v\n", err)
			return err
		}
		fmt.Fprintln(out, "✅ Database ready!")
	}

	fmt.Fprintln(out, "\n💾 Saving configuration...")
	if err := c.Save(configPath); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	fmt.Fprintf(out, "✅ Configuration saved to: %s\n", configPath)

	fmt.Fprintln(out, "\n📋 Configuration Summary")
	fmt.Fprintln(out, "========================")
	fmt.Fprintf(out, "Provider: %s\n", c.Dataset.Provider)
	fmt.Fprintf(out, "Data directory: %s\n", c.Dataset.DataDir)
	fmt.Fprintf(out, "SQLite database: %s\n", c.Dataset.SQLitePath)
	fmt.Fprintf(out, "Log: %s (%s)\n", c.Log.File, c.Log.Level)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "🎉 Setup complete!")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Next steps:")
	if c.Dataset.Provider == "sqlite" {
		fmt.Fprintln(out, "  1. Import the city files: bikeshare import")
		fmt.Fprintln(out, "  2. Explore: bikeshare")
	} else {
		fmt.Fprintln(out, "  1. List the cities: bikeshare cities")
		fmt.Fprintln(out, "  2. Explore: bikeshare")
	}
	return nil
}

// promptConfig asks for each configurable setting, keeping the defaults on empty input
func promptConfig(reader *bufio.Reader, out io.Writer, c *config.Config) error {
	fmt.Fprintln(out, "📊 Dataset Configuration")
	fmt.Fprintln(out, "------------------------")

	provider, err := promptWithRetry(reader, out, fmt.Sprintf("Dataset provider (csv/sqlite) [%s]: ", c.Dataset.Provider), func(input string) (string, error) {
		if input == "" {
			return c.Dataset.Provider, nil
		}
		return validateProvider(input)
	})
	if err != nil {
		return err
	}
	c.Dataset.Provider = provider

	if c.Dataset.DataDir, err = promptOptional(reader, out, fmt.Sprintf("CSV data directory [%s]: ", c.Dataset.DataDir), c.Dataset.DataDir); err != nil {
		return err
	}
	if c.Dataset.SQLitePath, err = promptOptional(reader, out, fmt.Sprintf("SQLite database path [%s]: ", c.Dataset.SQLitePath), c.Dataset.SQLitePath); err != nil {
		return err
	}

	fmt.Fprintln(out, "\n📝 Logging")
	fmt.Fprintln(out, "----------")

	level, err := promptWithRetry(reader, out, fmt.Sprintf("Log level (debug/info/warning/error) [%s]: ", c.Log.Level), func(input string) (string, error) {
		if input == "" {
			return c.Log.Level, nil
		}
		return validateLogLevel(input)
	})
	if err != nil {
		return err
	}
	c.Log.Level = level

	if c.Log.File, err = promptOptional(reader, out, fmt.Sprintf("Log file, - for stderr [%s]: ", c.Log.File), c.Log.File); err != nil {
		return err
	}

	size, err := promptWithRetry(reader, out, fmt.Sprintf("Rotate log after MB [%d]: ", c.Log.MaxSizeMB), func(input string) (string, error) {
		if input == "" {
			return strconv.Itoa(c.Log.MaxSizeMB), nil
		}
		n, err := validateNumber(input, 1, 1024)
		if err != nil {
			return "", err
		}
		return strconv.Itoa(n), nil
	})
	if err != nil {
		return err
	}
	c.Log.MaxSizeMB, _ = strconv.Atoi(size)

	color, err := promptYesNo(reader, out, "Use colored output? (y/n): ")
	if err != nil {
		return err
	}
	c.Display.Color = color
	return nil
}
