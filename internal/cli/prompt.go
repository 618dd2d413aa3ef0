package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/AI2HU/bikeshare/internal/shared"
)

// promptCity asks for one of the available cities until the answer matches
func promptCity(reader *bufio.Reader, out io.Writer, cities []string) (string, error) {
	fmt.Fprintf(out, "%sAvailable cities:%s %s\n", LabelStyle, Reset, strings.Join(cities, ", "))
	return promptWithRetry(reader, out, "Which city would you like to explore? ", func(input string) (string, error) {
		return validateCity(input, cities)
	})
}

// promptFilterMode asks whether to filter by month, by month and day, or not at all
func promptFilterMode(reader *bufio.Reader, out io.Writer) (shared.FilterMode, error) {
	answer, err := promptWithRetry(reader, out, "Filter the data by month, day or not at all? Type \"none\" for no filter: ", validateFilterMode)
	if err != nil {
		return shared.FilterNone, err
	}
	return shared.ParseFilterMode(answer)
}

// promptFilterComponents asks for the values a filter mode needs:
// nothing for none, a month for month, a month and a weekday for day
func promptFilterComponents(reader *bufio.Reader, out io.Writer, mode shared.FilterMode) ([]string, error) {
	if mode == shared.FilterNone {
		return nil, nil
	}

	month, err := promptWithRetry(reader, out, "Which month? January, February, March, April, May or June? ", validateMonth)
	if err != nil {
		return nil, err
	}
	if mode == shared.FilterMonth {
		return []string{month}, nil
	}

	weekday, err := promptWithRetry(reader, out, "Which day? Monday, Tuesday, Wednesday, Thursday, Friday, Saturday or Sunday? ", validateWeekday)
	if err != nil {
		return nil, err
	}
	return []string{month, weekday}, nil
}

// promptQuit asks whether to stop exploring
func promptQuit(reader *bufio.Reader, out io.Writer) (bool, error) {
	return promptYesNo(reader, out, "\nWould you like to quit? Enter yes or no: ")
}
