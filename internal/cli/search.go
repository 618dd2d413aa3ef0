package cli

import (
	"fmt"
	"regexp"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/AI2HU/bikeshare/internal/shared"
)

var (
	searchCity          string
	searchMonth         string
	searchDay           string
	searchLimit         int
	searchCaseSensitive bool
)

var searchCmd = &cobra.Command{
	Use:   "search [pattern]",
	Short: "Search stations and show how often they are used",
	Long: `Search the station names of a city for a pattern and show how many trips
started and ended at each matching station, busiest first.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVarP(&searchCity, "city", "c", "", "City to search (required)")
	searchCmd.Flags().StringVarP(&searchMonth, "month", "m", "", "Month filter, January through June")
	searchCmd.Flags().StringVarP(&searchDay, "day", "d", "", "Day of week filter, requires --month")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "l", 20, "Maximum number of stations to display")
	searchCmd.Flags().BoolVar(&searchCaseSensitive, "case-sensitive", false, "Make search case-sensitive")
	_ = searchCmd.MarkFlagRequired("city")
}

func runSearch(cmd *cobra.Command, args []string) error {
	keyword := args[0]
	out := cmd.OutOrStdout()

	limit, err := validateNumber(fmt.Sprint(searchLimit), 1, 10000)
	if err != nil {
		return fmt.Errorf("invalid --limit: %w", err)
	}

	engine, city, err := loadCityEngine(cmd.Context(), searchCity)
	if err != nil {
		return err
	}
	scope, err := shared.BuildScope(city, searchMonth, searchDay)
	if err != nil {
		return err
	}

	regex := stationPattern(keyword, searchCaseSensitive)
	usage, err := engine.StationUsage(scope, regex)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%s🔍 Searching %s stations for: \"%s\"%s\n", HeaderStyle, scope, CountStyle+keyword+Reset, Reset)
	fmt.Fprintln(out)

	if len(usage) == 0 {
		fmt.Fprintf(out, "%s❌ No stations found matching \"%s\"%s\n", ErrorStyle, CountStyle+keyword+Reset, Reset)
		return nil
	}

	fmt.Fprintf(out, "%s✅ Found %s matching stations%s\n", SuccessStyle, FormatCount(len(usage)), Reset)
	fmt.Fprintln(out)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%sRANK\tSTATION\tSTARTS\tENDS\tTOTAL%s\n", LabelStyle, Reset)
	fmt.Fprintf(w, "%s────\t───────\t──────\t────\t─────%s\n", DimStyle, Reset)
	for i, u := range usage {
		if i >= limit {
			break
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			FormatCount(i+1),
			highlightMatches(u.Station, regex),
			FormatCount(u.Starts),
			FormatCount(u.Ends),
			FormatCount(u.Total()),
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(usage) > limit {
		fmt.Fprintf(out, "\n%s... and %s more stations (use --limit to see more)%s\n", DimStyle, CountStyle+fmt.Sprint(len(usage)-limit)+Reset, Reset)
	}
	return nil
}

// stationPattern matches keyword literally, ignoring case unless caseSensitive is set
func stationPattern(keyword string, caseSensitive bool) *regexp.Regexp {
	if caseSensitive {
		return regexp.MustCompile(regexp.QuoteMeta(keyword))
	}
	return regexp.MustCompile("(?i)" + regexp.QuoteMeta(keyword))
}

func highlightMatches(text string, regex *regexp.Regexp) string {
	return regex.ReplaceAllStringFunc(text, FormatHighlight)
}
