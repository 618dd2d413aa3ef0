package stats

import (
	"cmp"
	"fmt"
	"math"
	"regexp"
	"sort"
	"time"

	"github.com/AI2HU/bikeshare/internal/models"
	"github.com/AI2HU/bikeshare/internal/shared"
)

// mostFrequent returns the key with the highest count.
// Ties go to the key that sorts first under less.
func mostFrequent[K comparable](counts map[K]int, less func(a, b K) bool) (K, int, bool) {
	var best K
	bestCount := 0
	for key, count := range counts {
		if count > bestCount || (count == bestCount && less(key, best)) {
			best, bestCount = key, count
		}
	}
	return best, bestCount, bestCount > 0
}

// countBy tallies a column over rows, skipping rows where the column has no value
func countBy[K comparable](rows []*models.Trip, column func(*models.Trip) (K, bool)) map[K]int {
	counts := make(map[K]int)
	for _, trip := range rows {
		if key, ok := column(trip); ok {
			counts[key]++
		}
	}
	return counts
}

// popular is mostFrequent over a column with a naturally ordered value
func popular[K cmp.Ordered](rows []*models.Trip, column func(*models.Trip) (K, bool)) (K, int, bool) {
	return mostFrequent(countBy(rows, column), cmp.Less[K])
}

// PopularStartTime returns the most frequent month, weekday and hour of trip starts.
// Components fixed by the scope's filter are left nil.
func (e *Engine) PopularStartTime(scope shared.Scope) (models.StartTimeStats, error) {
	var result models.StartTimeStats
	_, rows, err := e.resolve(scope)
	if err != nil {
		return result, err
	}
	if len(rows) == 0 {
		return result, fmt.Errorf("popular start time for %s: %w", scope, ErrEmptyScope)
	}

	if scope.Mode == shared.FilterNone {
		month, _, _ := popular(rows, func(t *models.Trip) (time.Month, bool) { return t.Month, true })
		result.Month = &month
	}
	if scope.Mode != shared.FilterMonthWeekday {
		weekday, _, _ := popular(rows, func(t *models.Trip) (time.Weekday, bool) { return t.Weekday, true })
		result.Weekday = &weekday
	}
	hour, _, _ := popular(rows, func(t *models.Trip) (int, bool) { return t.Hour, true })
	result.Hour = &hour

	return result, nil
}

// TripDuration returns the total and mean trip duration.
// An empty scope yields nil totals rather than zero.
func (e *Engine) TripDuration(scope shared.Scope) (models.TripDurationStats, error) {
	var result models.TripDurationStats
	_, rows, err := e.resolve(scope)
	if err != nil {
		return result, err
	}

	result.Trips = len(rows)
	if len(rows) == 0 {
		return result, nil
	}

	var sum float64
	for _, trip := range rows {
		sum += trip.Duration
	}
	total := int64(sum)
	average := int64(sum / float64(len(rows)))

	totalBreakdown := Breakdown(total)
	averageBreakdown := Breakdown(average)
	result.TotalSeconds = &total
	result.AverageSeconds = &average
	result.Total = &totalBreakdown
	result.Average = &averageBreakdown

	return result, nil
}

// PopularStations returns the most frequent start and end stations
func (e *Engine) PopularStations(scope shared.Scope) (models.StationStats, error) {
	var result models.StationStats
	_, rows, err := e.resolve(scope)
	if err != nil {
		return result, err
	}

	start, startCount, ok := popular(rows, func(t *models.Trip) (string, bool) { return t.StartStation, t.StartStation != "" })
	if !ok {
		return result, fmt.Errorf("popular start station for %s: %w", scope, ErrEmptyScope)
	}
	end, endCount, ok := popular(rows, func(t *models.Trip) (string, bool) { return t.EndStation, t.EndStation != "" })
	if !ok {
		return result, fmt.Errorf("popular end station for %s: %w", scope, ErrEmptyScope)
	}

	result.StartStation = start
	result.StartCount = startCount
	result.EndStation = end
	result.EndCount = endCount
	return result, nil
}

// PopularTrip returns the most frequent start/end station pair.
// Routes are counted as pairs so station names containing the separator stay unambiguous.
func (e *Engine) PopularTrip(scope shared.Scope) (models.TripStats, error) {
	var result models.TripStats
	_, rows, err := e.resolve(scope)
	if err != nil {
		return result, err
	}

	counts := countBy(rows, func(t *models.Trip) (models.Route, bool) { return t.Route, true })
	route, count, ok := mostFrequent(counts, models.Route.Less)
	if !ok {
		return result, fmt.Errorf("popular trip for %s: %w", scope, ErrEmptyScope)
	}

	result.StartStation = route.Start
	result.EndStation = route.End
	result.ID = route.ID()
	result.Count = count
	return result, nil
}

// CountsUserType returns the number of trips per user type
func (e *Engine) CountsUserType(scope shared.Scope) (models.CategoryCounts, error) {
	return e.countCategory(scope,
		func(c models.Capabilities) bool { return c.HasUserType },
		func(t *models.Trip) (string, bool) { return t.UserType, t.UserType != "" },
	)
}

// CountsGender returns the number of trips per gender
func (e *Engine) CountsGender(scope shared.Scope) (models.CategoryCounts, error) {
	return e.countCategory(scope,
		func(c models.Capabilities) bool { return c.HasGender },
		func(t *models.Trip) (string, bool) { return t.Gender, t.Gender != "" },
	)
}

func (e *Engine) countCategory(scope shared.Scope, has func(models.Capabilities) bool, column func(*models.Trip) (string, bool)) (models.CategoryCounts, error) {
	table, rows, err := e.resolve(scope)
	if err != nil {
		return models.CategoryCounts{}, err
	}
	if !has(table.Capabilities) {
		return models.CategoryCounts{Available: false}, nil
	}
	return models.CategoryCounts{
		Available: true,
		Counts:    countBy(rows, column),
	}, nil
}

// BirthYears returns the latest, earliest and most common birth year.
// Available is false when the city has no birth year column.
func (e *Engine) BirthYears(scope shared.Scope) (models.BirthYearStats, error) {
	table, rows, err := e.resolve(scope)
	if err != nil {
		return models.BirthYearStats{}, err
	}
	if !table.Capabilities.HasBirthYear {
		return models.BirthYearStats{Available: false}, nil
	}

	counts := countBy(rows, func(t *models.Trip) (int, bool) {
		return int(math.Trunc(t.BirthYear)), t.HasBirthYear
	})
	popularYear, _, ok := mostFrequent(counts, cmp.Less[int])
	if !ok {
		return models.BirthYearStats{Available: true}, fmt.Errorf("birth years for %s: %w", scope, ErrEmptyScope)
	}

	result := models.BirthYearStats{
		Available: true,
		Latest:    popularYear,
		Earliest:  popularYear,
		Popular:   popularYear,
	}
	for year := range counts {
		result.Latest = max(result.Latest, year)
		result.Earliest = min(result.Earliest, year)
	}
	return result, nil
}

// StationUsage counts trip starts and ends per station matching pattern.
// A nil pattern matches every station. Results are ordered by total use, then name.
func (e *Engine) StationUsage(scope shared.Scope, pattern *regexp.Regexp) ([]models.StationUsage, error) {
	_, rows, err := e.resolve(scope)
	if err != nil {
		return nil, err
	}

	usage := make(map[string]*models.StationUsage)
	touch := func(station string) *models.StationUsage {
		if station == "" || (pattern != nil && !pattern.MatchString(station)) {
			return nil
		}
		u, ok := usage[station]
		if !ok {
			u = &models.StationUsage{Station: station}
			usage[station] = u
		}
		return u
	}

	for _, trip := range rows {
		if u := touch(trip.StartStation); u != nil {
			u.Starts++
		}
		if u := touch(trip.EndStation); u != nil {
			u.Ends++
		}
	}

	results := make([]models.StationUsage, 0, len(usage))
	for _, u := range usage {
		results = append(results, *u)
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Total() != results[j].Total() {
			return results[i].Total() > results[j].Total()
		}
		return results[i].Station < results[j].Station
	})
	return results, nil
}
