package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/AI2HU/bikeshare/internal/dataset/csv"
	"github.com/AI2HU/bikeshare/internal/dataset/sqlite"
	"github.com/AI2HU/bikeshare/internal/logger"
	"github.com/AI2HU/bikeshare/internal/stats"
)

var importCity string

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import city CSV files into the SQLite dataset",
	Long: `Load the <city>.csv files from dataset.data_dir and store them in the SQLite
database at dataset.sqlite_path. Re-importing a city replaces its trips.`,
	Args: cobra.NoArgs,
	RunE: runImport,
}

var importListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded imports",
	Args:  cobra.NoArgs,
	RunE:  runImportList,
}

func init() {
	importCmd.Flags().StringVarP(&importCity, "city", "c", "", "Import only this city")
	importCmd.AddCommand(importListCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	src, err := csv.New(expandHome(cfg.Dataset.DataDir))
	if err != nil {
		return err
	}
	defer src.Close()

	cities, err := src.ListCities(ctx)
	if err != nil {
		return err
	}
	if importCity != "" {
		city, err := validateCity(importCity, cities)
		if err != nil {
			return fmt.Errorf("%w: %s", stats.ErrCityNotFound, importCity)
		}
		cities = []string{city}
	}

	db := sqlite.New(cfg.Dataset.SQLitePath)
	if err := db.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	fmt.Fprintf(out, "%s📥 Importing %s city file(s) into %s%s\n\n", HeaderStyle, FormatCount(len(cities)), db.Path(), Reset)

	for _, city := range cities {
		table, err := src.LoadCity(ctx, city)
		if err != nil {
			return err
		}
		path, _ := src.Path(city)

		record, err := db.ImportTable(ctx, table, path)
		if err != nil {
			logger.Error("Import of %s failed: %v", city, err)
			return fmt.Errorf("failed to import %s: %w", city, err)
		}
		fmt.Fprintf(out, "  %s %s %s\n", FormatSuccess("✅"), FormatLabelValue(city+":", fmt.Sprintf("%d trips", record.Rows)), FormatMeta(record.ID))
	}

	fmt.Fprintf(out, "\n%sImport complete.%s\n", SuccessStyle, Reset)
	return nil
}

func runImportList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	db := sqlite.New(cfg.Dataset.SQLitePath)
	if err := db.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	records, err := db.ListImports(ctx)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintf(out, "%sNo imports recorded yet. Run 'bikeshare import' first.%s\n", WarningStyle, Reset)
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%sIMPORTED\tCITY\tTRIPS\tSOURCE\tID%s\n", LabelStyle, Reset)
	fmt.Fprintf(w, "%s────────\t────\t─────\t──────\t──%s\n", DimStyle, Reset)
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			FormatMeta(r.ImportedAt.Local().Format("2006-01-02 15:04:05")),
			FormatValue(r.City),
			FormatCount(r.Rows),
			r.Source,
			FormatDim(r.ID),
		)
	}
	return w.Flush()
}
