package dataset

import (
	"context"
	"errors"

	"github.com/AI2HU/bikeshare/internal/models"
)

// ErrNotFound is returned when no trip sources exist or a city has no source
var ErrNotFound = errors.New("not found")

// Source provides the trip tables of the available cities
type Source interface {
	// ListCities returns the available city names, sorted
	ListCities(ctx context.Context) ([]string, error)
	LoadCity(ctx context.Context, name string) (*models.Table, error)
	LoadAll(ctx context.Context) (map[string]*models.Table, error)
	Close() error
}

// Column names used by the trip sources
const (
	ColStartTime    = "Start Time"
	ColEndTime      = "End Time"
	ColStartStation = "Start Station"
	ColEndStation   = "End Station"
	ColDuration     = "Trip Duration"
	ColUserType     = "User Type"
	ColGender       = "Gender"
	ColBirthYear    = "Birth Year"
)

// TimeLayout is the timestamp format of the trip sources
const TimeLayout = "2006-01-02 15:04:05"

// Summarize returns a summary of every table, sorted by city
func Summarize(tables map[string]*models.Table) []models.CitySummary {
	summaries := make([]models.CitySummary, 0, len(tables))
	for _, name := range SortedCities(tables) {
		table := tables[name]
		summaries = append(summaries, models.CitySummary{
			Name:         name,
			Trips:        table.Len(),
			Capabilities: table.Capabilities,
		})
	}
	return summaries
}
