package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/AI2HU/bikeshare/internal/dataset"
	"github.com/AI2HU/bikeshare/internal/models"
)

var citiesCmd = &cobra.Command{
	Use:   "cities",
	Short: "List available cities",
	Long:  `List the cities in the configured dataset with their trip counts and which optional columns they record.`,
	Args:  cobra.NoArgs,
	RunE:  runCities,
}

func runCities(cmd *cobra.Command, args []string) error {
	engine, err := loadEngine(cmd.Context())
	if err != nil {
		return err
	}

	tables := make(map[string]*models.Table)
	for _, city := range engine.Cities() {
		table, err := engine.Table(city)
		if err != nil {
			return err
		}
		tables[city] = table
	}
	summaries := dataset.Summarize(tables)

	out := cmd.OutOrStdout()
	if len(summaries) == 0 {
		fmt.Fprintf(out, "%sNo cities available. Check dataset.data_dir in your config or run 'bikeshare import'.%s\n", WarningStyle, Reset)
		return nil
	}

	fmt.Fprintf(out, "%s🏙️  Cities (%s)%s\n", HeaderStyle, cfg.Dataset.Provider, Reset)
	fmt.Fprintf(out, "%s==========%s\n", DimStyle, Reset)
	fmt.Fprintln(out)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%sCITY\tTRIPS\tUSER TYPE\tGENDER\tBIRTH YEAR%s\n", LabelStyle, Reset)
	fmt.Fprintf(w, "%s────\t─────\t─────────\t──────\t──────────%s\n", DimStyle, Reset)
	for _, s := range summaries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			FormatValue(s.Name),
			FormatCount(s.Trips),
			yesNo(s.Capabilities.HasUserType),
			yesNo(s.Capabilities.HasGender),
			yesNo(s.Capabilities.HasBirthYear),
		)
	}
	return w.Flush()
}

func yesNo(ok bool) string {
	if ok {
		return FormatSuccess("yes")
	}
	return FormatDim("no")
}
