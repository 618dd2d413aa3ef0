package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AI2HU/bikeshare/internal/dataset/sqlite"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage database migrations",
	Long:  `Manage the schema of the SQLite trip database using the embedded migrations.`,
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Run all pending migrations",
	Long:  `Apply all pending database migrations.`,
	RunE:  runMigrateUp,
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show current migration version",
	Long:  `Show the current database migration version without applying anything.`,
	RunE:  runMigrateVersion,
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateVersionCmd)
}

func runMigrateUp(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "🔄 Running database migrations...")

	db := sqlite.New(cfg.Dataset.SQLitePath)
	if err := db.Connect(cmd.Context()); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	defer db.Close()

	version, _, err := db.Version()
	if err != nil {
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	fmt.Fprintf(out, "%s✅ Migrations completed successfully! Schema version: %d%s\n", SuccessStyle, version, Reset)
	return nil
}

func runMigrateVersion(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	db := sqlite.New(cfg.Dataset.SQLitePath)
	if err := db.Open(cmd.Context()); err != nil {
		return err
	}
	defer db.Close()

	version, dirty, err := db.Version()
	if err != nil {
		return fmt.Errorf("failed to get migration status: %w", err)
	}

	fmt.Fprintf(out, "%s📊 Migration Status%s\n", HeaderStyle, Reset)
	fmt.Fprintf(out, "%s===================%s\n", DimStyle, Reset)
	fmt.Fprintln(out, FormatLabelValue("Database:", db.Path()))
	if version == 0 {
		fmt.Fprintln(out, FormatLabelValue("Version:", "none (run 'bikeshare migrate up')"))
		return nil
	}
	fmt.Fprintln(out, FormatLabelValue("Version:", fmt.Sprint(version)))
	if dirty {
		fmt.Fprintf(out, "%s⚠️  The last migration did not complete; the schema is dirty.%s\n", WarningStyle, Reset)
	}
	return nil
}
