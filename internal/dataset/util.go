package dataset

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/AI2HU/bikeshare/internal/models"
)

// CityFromFilename derives a city name from a source file stem,
// e.g. "new_york_city" becomes "New York City"
func CityFromFilename(stem string) string {
	name := strings.Join(strings.Fields(strings.ReplaceAll(stem, "_", " ")), " ")
	return cases.Title(language.English).String(name)
}

// SortedCities returns the keys of a table mapping in ascending order
func SortedCities(tables map[string]*models.Table) []string {
	names := make([]string, 0, len(tables))
	for name := range tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsMissing reports whether a raw cell value denotes a missing value
func IsMissing(value string) bool {
	switch strings.TrimSpace(value) {
	case "", "NaN", "NA", "<nil>":
		return true
	}
	return false
}
