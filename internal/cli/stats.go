package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AI2HU/bikeshare/internal/export"
	"github.com/AI2HU/bikeshare/internal/logger"
	"github.com/AI2HU/bikeshare/internal/services"
	"github.com/AI2HU/bikeshare/internal/shared"
)

var (
	statsCity   string
	statsMonth  string
	statsDay    string
	statsFormat string
	statsOutput string
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print the statistics report for a city",
	Long: `Compute every statistic for a city, optionally filtered by month or by month and day,
and print it as text or JSON, or write it to an Excel workbook.`,
	Example: `  bikeshare stats --city chicago
  bikeshare stats --city "new york" --month jan --day mon --format json
  bikeshare stats --city washington --month march --format xlsx --output washington.xlsx`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().StringVarP(&statsCity, "city", "c", "", "City to report on (required)")
	statsCmd.Flags().StringVarP(&statsMonth, "month", "m", "", "Month filter, January through June")
	statsCmd.Flags().StringVarP(&statsDay, "day", "d", "", "Day of week filter, requires --month")
	statsCmd.Flags().StringVarP(&statsFormat, "format", "f", "text", "Output format: text, json or xlsx")
	statsCmd.Flags().StringVarP(&statsOutput, "output", "o", "", "Write the report to a file instead of stdout")
	_ = statsCmd.MarkFlagRequired("city")
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	format := strings.ToLower(statsFormat)
	switch format {
	case "text", "json", "xlsx":
	default:
		return fmt.Errorf("unsupported format: %s (choose text, json or xlsx)", statsFormat)
	}
	if format == "xlsx" && statsOutput == "" {
		return fmt.Errorf("--output is required for the xlsx format")
	}

	engine, city, err := loadCityEngine(ctx, statsCity)
	if err != nil {
		return err
	}

	scope, err := shared.BuildScope(city, statsMonth, statsDay)
	if err != nil {
		return err
	}

	report, err := services.NewStatsService(engine).Build(ctx, scope)
	if err != nil {
		return fmt.Errorf("failed to compute statistics: %w", err)
	}

	var w io.Writer = cmd.OutOrStdout()
	if statsOutput != "" {
		f, err := os.Create(statsOutput)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	switch format {
	case "json":
		err = export.WriteJSON(w, report)
	case "xlsx":
		err = export.WriteXLSX(w, report)
	default:
		if statsOutput != "" {
			setColor(false)
			defer setColor(cfg.Display.Color)
		}
		displayReport(w, report)
	}
	if err != nil {
		return err
	}

	if statsOutput != "" {
		logger.Info("Wrote %s report for %s to %s", format, scope, statsOutput)
		fmt.Fprintf(cmd.OutOrStdout(), "%s✅ Report saved to: %s%s\n", SuccessStyle, statsOutput, Reset)
	}
	return nil
}
