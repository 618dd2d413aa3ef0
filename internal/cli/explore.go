package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/AI2HU/bikeshare/internal/logger"
	"github.com/AI2HU/bikeshare/internal/services"
	"github.com/AI2HU/bikeshare/internal/stats"
)

var exploreCmd = &cobra.Command{
	Use:   "explore",
	Short: "Explore city statistics interactively",
	Long: `Pick a city and an optional month or month and day filter, then browse
the statistics for the selected trips. Repeats until you choose to quit.`,
	Args: cobra.NoArgs,
	RunE: runExplore,
}

func runExplore(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	engine, err := loadEngine(ctx)
	if err != nil {
		return err
	}
	if len(engine.Cities()) == 0 {
		fmt.Fprintf(out, "%sNo city data found. Check dataset.data_dir in your config or run 'bikeshare import'.%s\n", WarningStyle, Reset)
		return nil
	}

	fmt.Fprintf(out, "%s🚲 Hello! Let's explore some US bikeshare data!%s\n\n", HeaderStyle, Reset)

	err = explore(ctx, bufio.NewReader(cmd.InOrStdin()), out, engine)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// explore runs the choose-filter-display loop until the user quits
func explore(ctx context.Context, reader *bufio.Reader, out io.Writer, engine *stats.Engine) error {
	session := stats.NewSession(engine)
	service := services.NewStatsService(engine)
	cities := service.Cities()

	for {
		city, err := promptCity(reader, out, cities)
		if err != nil {
			return err
		}
		mode, err := promptFilterMode(reader, out)
		if err != nil {
			return err
		}
		if err := session.Filter(city, mode); err != nil {
			return err
		}
		filterBy, err := promptFilterComponents(reader, out, mode)
		if err != nil {
			return err
		}

		scope, err := session.Scope(filterBy...)
		if err != nil {
			return err
		}
		logger.Info("Exploring %s", scope)

		report, err := service.Build(ctx, scope)
		if err != nil {
			return fmt.Errorf("failed to compute statistics: %w", err)
		}
		displayReport(out, report)

		quit, err := promptQuit(reader, out)
		if err != nil {
			return err
		}
		if quit {
			fmt.Fprintf(out, "%sGoodbye!%s\n", SuccessStyle, Reset)
			return nil
		}
		fmt.Fprintln(out)
	}
}
