package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/AI2HU/bikeshare/internal/shared"
)

// validateCity resolves user input to one of the available cities
func validateCity(input string, cities []string) (string, error) {
	if strings.TrimSpace(input) == "" {
		return "", fmt.Errorf("city is required")
	}
	city, ok := shared.MatchCity(input, cities)
	if !ok {
		return "", fmt.Errorf("unknown city: %s (choose one of %s)", input, strings.Join(cities, ", "))
	}
	return city, nil
}

// validateFilterMode accepts month, day or none
func validateFilterMode(input string) (string, error) {
	if strings.TrimSpace(input) == "" {
		return "", fmt.Errorf("filter is required (month, day or none)")
	}
	mode, err := shared.ParseFilterMode(input)
	if err != nil {
		return "", err
	}
	return mode.String(), nil
}

// validateMonth accepts January through June by full name or three-letter abbreviation
func validateMonth(input string) (string, error) {
	month, err := shared.ParseMonth(input)
	if err != nil {
		return "", err
	}
	return month.String(), nil
}

// validateWeekday accepts a weekday by full name or three- or four-letter prefix
func validateWeekday(input string) (string, error) {
	weekday, err := shared.ParseWeekday(input)
	if err != nil {
		return "", err
	}
	return weekday.String(), nil
}

// validateYesNo accepts y, yes, n or no
func validateYesNo(input string) (string, error) {
	lower := strings.ToLower(strings.TrimSpace(input))
	switch lower {
	case "y", "yes", "n", "no":
		return lower, nil
	}
	return "", fmt.Errorf("invalid input: %s (enter y/yes/n/no)", input)
}

// validateProvider validates dataset provider input
func validateProvider(input string) (string, error) {
	lower := strings.ToLower(strings.TrimSpace(input))
	switch lower {
	case "csv", "sqlite":
		return lower, nil
	}
	return "", fmt.Errorf("unsupported dataset provider: %s (choose csv or sqlite)", input)
}

// validateLogLevel validates log level input
func validateLogLevel(input string) (string, error) {
	upper := strings.ToUpper(strings.TrimSpace(input))
	switch upper {
	case "DEBUG", "INFO", "WARNING", "WARN", "ERROR":
		return strings.ToLower(upper), nil
	}
	return "", fmt.Errorf("invalid log level: %s (choose debug, info, warning or error)", input)
}

// validateNumber validates numeric input within a range
func validateNumber(input string, min, max int) (int, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return min, nil
	}

	num, err := strconv.Atoi(input)
	if err != nil {
		return 0, fmt.Errorf("invalid number: %s (enter a positive integer)", input)
	}

	if num < min || num > max {
		return 0, fmt.Errorf("number must be between %d and %d, got: %d", min, max, num)
	}

	return num, nil
}
