package models

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/AI2HU/bikeshare/internal/shared"
)

// StartTimeStats holds the most frequent start time components.
// A nil component was not computed because the active filter fixes it.
type StartTimeStats struct {
	Month   *time.Month
	Weekday *time.Weekday
	Hour    *int
}

// MarshalJSON renders month and weekday by name and uncomputed components as null
func (s StartTimeStats) MarshalJSON() ([]byte, error) {
	out := struct {
		Month   *string `json:"month"`
		Weekday *string `json:"weekday"`
		Hour    *int    `json:"hour"`
	}{Hour: s.Hour}
	if s.Month != nil {
		name := s.Month.String()
		out.Month = &name
	}
	if s.Weekday != nil {
		name := s.Weekday.String()
		out.Weekday = &name
	}
	return json.Marshal(out)
}

// DurationBreakdown splits a number of seconds into calendar-agnostic units
type DurationBreakdown struct {
	Years   int64 `json:"years"`
	Months  int64 `json:"months"`
	Days    int64 `json:"days"`
	Hours   int64 `json:"hours"`
	Minutes int64 `json:"minutes"`
	Seconds int64 `json:"seconds"`
}

// TripDurationStats holds total and mean trip duration.
// Total and Average are nil when the scope contains no trips.
type TripDurationStats struct {
	Trips          int                `json:"trips"`
	TotalSeconds   *int64             `json:"total_seconds"`
	AverageSeconds *int64             `json:"average_seconds"`
	Total          *DurationBreakdown `json:"total"`
	Average        *DurationBreakdown `json:"average"`
}

// StationStats holds the most popular start and end stations
type StationStats struct {
	StartStation string `json:"start_station"`
	StartCount   int    `json:"start_count"`
	EndStation   string `json:"end_station"`
	EndCount     int    `json:"end_count"`
}

// TripStats holds the most popular route
type TripStats struct {
	StartStation string `json:"start_station"`
	EndStation   string `json:"end_station"`
	ID           string `json:"trip"`
	Count        int    `json:"count"`
}

// CategoryCount represents a category value and its occurrence count
type CategoryCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// CategoryCounts holds occurrence counts for an optional column.
// Available is false when the city's source has no such column.
type CategoryCounts struct {
	Available bool           `json:"available"`
	Counts    map[string]int `json:"counts,omitempty"`
}

// Sorted returns the counts ordered by count descending, then value
func (c CategoryCounts) Sorted() []CategoryCount {
	list := make([]CategoryCount, 0, len(c.Counts))
	for value, count := range c.Counts {
		list = append(list, CategoryCount{Value: value, Count: count})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Count != list[j].Count {
			return list[i].Count > list[j].Count
		}
		return list[i].Value < list[j].Value
	})
	return list
}

// BirthYearStats holds the latest, earliest and most common birth year
type BirthYearStats struct {
	Available bool `json:"available"`
	Latest    int  `json:"latest,omitempty"`
	Earliest  int  `json:"earliest,omitempty"`
	Popular   int  `json:"popular,omitempty"`
}

// StationUsage represents how often a station starts and ends trips
type StationUsage struct {
	Station string `json:"station"`
	Starts  int    `json:"starts"`
	Ends    int    `json:"ends"`
}

// Total returns the number of trips touching the station
func (s StationUsage) Total() int {
	return s.Starts + s.Ends
}

// Report bundles every statistic computed for one scope.
// Nil sections had no rows to report on.
type Report struct {
	Scope       shared.Scope      `json:"-"`
	City        string            `json:"city"`
	Filter      string            `json:"filter"`
	FilterBy    []string          `json:"filter_by,omitempty"`
	Rows        int               `json:"rows"`
	StartTime   *StartTimeStats   `json:"start_time"`
	Stations    *StationStats     `json:"stations"`
	Trip        *TripStats        `json:"trip"`
	Duration    TripDurationStats `json:"trip_duration"`
	UserTypes   CategoryCounts    `json:"user_types"`
	Genders     CategoryCounts    `json:"genders"`
	BirthYears  *BirthYearStats   `json:"birth_years"`
	GeneratedAt time.Time         `json:"generated_at"`
}
