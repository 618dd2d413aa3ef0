package stats

import (
	"fmt"
	"math/rand"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AI2HU/bikeshare/internal/models"
	"github.com/AI2HU/bikeshare/internal/shared"
)

const testCity = "Chicago"

func newTrip(t *testing.T, start, from, to string, seconds float64) models.Trip {
	t.Helper()
	ts, err := time.Parse(time.DateTime, start)
	require.NoError(t, err)
	return models.Trip{
		StartTime:    ts,
		EndTime:      ts.Add(time.Duration(seconds) * time.Second),
		StartStation: from,
		EndStation:   to,
		Duration:     seconds,
	}
}

func newEngine(caps models.Capabilities, trips ...models.Trip) *Engine {
	return New(map[string]*models.Table{
		testCity: models.NewTable(testCity, trips, caps),
	})
}

// janFebTrips: two January trips (100s, 200s) and one February trip (300s).
// 2017-01-02 is a Monday, 2017-02-01 a Wednesday.
func janFebTrips(t *testing.T) []models.Trip {
	return []models.Trip{
		newTrip(t, "2017-01-02 08:15:00", "Clark St", "State St", 100),
		newTrip(t, "2017-01-02 08:45:00", "Clark St", "Lake St", 200),
		newTrip(t, "2017-02-01 17:05:00", "State St", "Clark St", 300),
	}
}

func TestEngineCities(t *testing.T) {
	engine := New(map[string]*models.Table{
		"Washington":    models.NewTable("Washington", nil, models.Capabilities{}),
		"Chicago":       models.NewTable("Chicago", nil, models.FullCapabilities()),
		"New York City": nil,
	})

	assert.Equal(t, []string{"Chicago", "New York City", "Washington"}, engine.Cities())

	table, err := engine.Table("New York City")
	require.NoError(t, err)
	assert.Equal(t, 0, table.Len())
}

func TestEmptyEngineReportsCityNotFound(t *testing.T) {
	engine := New(nil)
	scope := shared.Unfiltered(testCity)

	assert.Empty(t, engine.Cities())

	_, err := engine.PopularStartTime(scope)
	assert.ErrorIs(t, err, ErrCityNotFound)
	_, err = engine.TripDuration(scope)
	assert.ErrorIs(t, err, ErrCityNotFound)
	_, err = engine.PopularStations(scope)
	assert.ErrorIs(t, err, ErrCityNotFound)
	_, err = engine.PopularTrip(scope)
	assert.ErrorIs(t, err, ErrCityNotFound)
	_, err = engine.CountsUserType(scope)
	assert.ErrorIs(t, err, ErrCityNotFound)
	_, err = engine.CountsGender(scope)
	assert.ErrorIs(t, err, ErrCityNotFound)
	_, err = engine.BirthYears(scope)
	assert.ErrorIs(t, err, ErrCityNotFound)
}

func TestInvalidScope(t *testing.T) {
	engine := newEngine(models.FullCapabilities(), janFebTrips(t)...)

	tests := []struct {
		name  string
		scope shared.Scope
	}{
		{"missing city", shared.Scope{Mode: shared.FilterNone}},
		{"month out of range", shared.Scope{City: testCity, Mode: shared.FilterMonth, Month: 13}},
		{"month unset", shared.Scope{City: testCity, Mode: shared.FilterMonthWeekday, Weekday: time.Monday}},
		{"unknown mode", shared.Scope{City: testCity, Mode: shared.FilterMode(7)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := engine.Rows(tt.scope)
			assert.ErrorIs(t, err, ErrInvalidScope)
		})
	}
}

func TestRowsFollowScope(t *testing.T) {
	engine := newEngine(models.FullCapabilities(), janFebTrips(t)...)

	rows, err := engine.Rows(shared.Unfiltered(testCity))
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	rows, err = engine.Rows(shared.ByMonth(testCity, time.January))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	// table order is kept within a group
	assert.Equal(t, "State St", rows[0].EndStation)
	assert.Equal(t, "Lake St", rows[1].EndStation)

	rows, err = engine.Rows(shared.ByMonthWeekday(testCity, time.February, time.Wednesday))
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	rows, err = engine.Rows(shared.ByMonthWeekday(testCity, time.February, time.Monday))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestTripDurationByMonth(t *testing.T) {
	engine := newEngine(models.FullCapabilities(), janFebTrips(t)...)

	stats, err := engine.TripDuration(shared.ByMonth(testCity, time.January))
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Trips)
	require.NotNil(t, stats.TotalSeconds)
	require.NotNil(t, stats.AverageSeconds)
	assert.Equal(t, int64(300), *stats.TotalSeconds)
	assert.Equal(t, int64(150), *stats.AverageSeconds)
	require.NotNil(t, stats.Total)
	require.NotNil(t, stats.Average)
	assert.Equal(t, models.DurationBreakdown{Minutes: 5}, *stats.Total)
	assert.Equal(t, models.DurationBreakdown{Minutes: 2, Seconds: 30}, *stats.Average)
}

func TestTripDurationEmptyScope(t *testing.T) {
	engine := newEngine(models.FullCapabilities(), janFebTrips(t)...)

	stats, err := engine.TripDuration(shared.ByMonth(testCity, time.March))
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Trips)
	assert.Nil(t, stats.Total)
	assert.Nil(t, stats.Average)
	assert.Nil(t, stats.TotalSeconds)
}

func TestPopularStartTimeComponents(t *testing.T) {
	trips := janFebTrips(t)
	trips = append(trips, newTrip(t, "2017-01-09 08:30:00", "Lake St", "Clark St", 60))
	engine := newEngine(models.FullCapabilities(), trips...)

	t.Run("unfiltered", func(t *testing.T) {
		stats, err := engine.PopularStartTime(shared.Unfiltered(testCity))
		require.NoError(t, err)
		require.NotNil(t, stats.Month)
		require.NotNil(t, stats.Weekday)
		require.NotNil(t, stats.Hour)
		assert.Equal(t, time.January, *stats.Month)
		assert.Equal(t, time.Monday, *stats.Weekday)
		assert.Equal(t, 8, *stats.Hour)
	})

	t.Run("month filter fixes the month", func(t *testing.T) {
		stats, err := engine.PopularStartTime(shared.ByMonth(testCity, time.February))
		require.NoError(t, err)
		assert.Nil(t, stats.Month)
		require.NotNil(t, stats.Weekday)
		require.NotNil(t, stats.Hour)
		assert.Equal(t, time.Wednesday, *stats.Weekday)
		assert.Equal(t, 17, *stats.Hour)
	})

	t.Run("day filter fixes month and weekday", func(t *testing.T) {
		stats, err := engine.PopularStartTime(shared.ByMonthWeekday(testCity, time.January, time.Monday))
		require.NoError(t, err)
		assert.Nil(t, stats.Month)
		assert.Nil(t, stats.Weekday)
		require.NotNil(t, stats.Hour)
		assert.Equal(t, 8, *stats.Hour)
	})

	t.Run("empty scope", func(t *testing.T) {
		_, err := engine.PopularStartTime(shared.ByMonth(testCity, time.June))
		assert.ErrorIs(t, err, ErrEmptyScope)
	})
}

func TestPopularStations(t *testing.T) {
	engine := newEngine(models.FullCapabilities(), janFebTrips(t)...)

	stats, err := engine.PopularStations(shared.Unfiltered(testCity))
	require.NoError(t, err)
	assert.Equal(t, models.StationStats{
		StartStation: "Clark St",
		StartCount:   2,
		EndStation:   "Clark St",
		EndCount:     1,
	}, stats)
}

func TestPopularStationsEmptyMonthWeekday(t *testing.T) {
	engine := newEngine(models.FullCapabilities(), janFebTrips(t)...)

	_, err := engine.PopularStations(shared.ByMonthWeekday(testCity, time.February, time.Monday))
	assert.ErrorIs(t, err, ErrEmptyScope)

	_, err = engine.PopularTrip(shared.ByMonthWeekday(testCity, time.February, time.Monday))
	assert.ErrorIs(t, err, ErrEmptyScope)
}

func TestPopularTripTieBreak(t *testing.T) {
	for _, reversed := range []bool{false, true} {
		t.Run(fmt.Sprintf("reversed=%v", reversed), func(t *testing.T) {
			trips := []models.Trip{
				newTrip(t, "2017-01-02 08:00:00", "StationA", "StationB", 60),
				newTrip(t, "2017-01-02 09:00:00", "StationA", "StationC", 60),
			}
			if reversed {
				trips[0], trips[1] = trips[1], trips[0]
			}
			engine := newEngine(models.FullCapabilities(), trips...)

			for i := 0; i < 20; i++ {
				stats, err := engine.PopularTrip(shared.Unfiltered(testCity))
				require.NoError(t, err)
				assert.Equal(t, "StationA_StationB", stats.ID)
				assert.Equal(t, "StationA", stats.StartStation)
				assert.Equal(t, "StationB", stats.EndStation)
				assert.Equal(t, 1, stats.Count)
			}
		})
	}
}

func TestPopularTripStationNamesWithSeparator(t *testing.T) {
	// Both routes share the identifier "A_B_C" but are different trips
	engine := newEngine(models.FullCapabilities(),
		newTrip(t, "2017-01-02 08:00:00", "A_B", "C", 60),
		newTrip(t, "2017-01-02 08:10:00", "A_B", "C", 60),
		newTrip(t, "2017-01-02 08:20:00", "A", "B_C", 60),
	)

	stats, err := engine.PopularTrip(shared.Unfiltered(testCity))
	require.NoError(t, err)
	assert.Equal(t, "A_B", stats.StartStation)
	assert.Equal(t, "C", stats.EndStation)
	assert.Equal(t, "A_B_C", stats.ID)
	assert.Equal(t, 2, stats.Count)
}

func TestCategoryCounts(t *testing.T) {
	trips := janFebTrips(t)
	trips[0].UserType, trips[0].Gender = "Subscriber", "Male"
	trips[1].UserType, trips[1].Gender = "Customer", ""
	trips[2].UserType, trips[2].Gender = "Subscriber", "Female"
	engine := newEngine(models.FullCapabilities(), trips...)

	userTypes, err := engine.CountsUserType(shared.Unfiltered(testCity))
	require.NoError(t, err)
	assert.True(t, userTypes.Available)
	assert.Equal(t, map[string]int{"Subscriber": 2, "Customer": 1}, userTypes.Counts)

	// missing values are skipped
	genders, err := engine.CountsGender(shared.ByMonth(testCity, time.January))
	require.NoError(t, err)
	assert.True(t, genders.Available)
	assert.Equal(t, map[string]int{"Male": 1}, genders.Counts)

	empty, err := engine.CountsUserType(shared.ByMonth(testCity, time.May))
	require.NoError(t, err)
	assert.True(t, empty.Available)
	assert.Empty(t, empty.Counts)
}

func TestGenderUnavailable(t *testing.T) {
	engine := newEngine(models.Capabilities{HasUserType: true}, janFebTrips(t)...)

	genders, err := engine.CountsGender(shared.Unfiltered(testCity))
	require.NoError(t, err)
	assert.False(t, genders.Available)
	assert.Nil(t, genders.Counts)

	years, err := engine.BirthYears(shared.Unfiltered(testCity))
	require.NoError(t, err)
	assert.False(t, years.Available)

	userTypes, err := engine.CountsUserType(shared.Unfiltered(testCity))
	require.NoError(t, err)
	assert.True(t, userTypes.Available)
}

func TestBirthYears(t *testing.T) {
	trips := janFebTrips(t)
	trips = append(trips, newTrip(t, "2017-01-03 10:00:00", "Lake St", "State St", 90))
	years := []float64{1990, 1980, 1985.7, 1990}
	for i := range trips {
		trips[i].BirthYear = years[i]
		trips[i].HasBirthYear = true
	}
	engine := newEngine(models.FullCapabilities(), trips...)

	stats, err := engine.BirthYears(shared.Unfiltered(testCity))
	require.NoError(t, err)
	assert.Equal(t, models.BirthYearStats{Available: true, Latest: 1990, Earliest: 1980, Popular: 1990}, stats)

	t.Run("ties go to the earlier year", func(t *testing.T) {
		stats, err := engine.BirthYears(shared.ByMonthWeekday(testCity, time.January, time.Monday))
		require.NoError(t, err)
		assert.Equal(t, 1980, stats.Popular)
		assert.Equal(t, 1990, stats.Latest)
	})

	t.Run("no values in scope", func(t *testing.T) {
		trips := janFebTrips(t)
		engine := newEngine(models.FullCapabilities(), trips...)
		_, err := engine.BirthYears(shared.Unfiltered(testCity))
		assert.ErrorIs(t, err, ErrEmptyScope)
	})
}

func TestStationUsage(t *testing.T) {
	engine := newEngine(models.FullCapabilities(), janFebTrips(t)...)

	usage, err := engine.StationUsage(shared.Unfiltered(testCity), regexp.MustCompile("(?i)st"))
	require.NoError(t, err)
	assert.Equal(t, []models.StationUsage{
		{Station: "Clark St", Starts: 2, Ends: 1},
		{Station: "State St", Starts: 1, Ends: 1},
		{Station: "Lake St", Starts: 0, Ends: 1},
	}, usage)

	usage, err = engine.StationUsage(shared.Unfiltered(testCity), regexp.MustCompile("Lake"))
	require.NoError(t, err)
	assert.Equal(t, []models.StationUsage{{Station: "Lake St", Ends: 1}}, usage)

	usage, err = engine.StationUsage(shared.ByMonth(testCity, time.April), nil)
	require.NoError(t, err)
	assert.Empty(t, usage)
}

func TestQueriesAreRepeatable(t *testing.T) {
	engine := newEngine(models.FullCapabilities(), randomTrips(t, 500, 7)...)
	scope := shared.ByMonth(testCity, time.March)

	first, err := engine.PopularStations(scope)
	require.NoError(t, err)
	firstTrip, err := engine.PopularTrip(scope)
	require.NoError(t, err)
	firstDuration, err := engine.TripDuration(scope)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		again, err := engine.PopularStations(scope)
		require.NoError(t, err)
		assert.Equal(t, first, again)

		againTrip, err := engine.PopularTrip(scope)
		require.NoError(t, err)
		assert.Equal(t, firstTrip, againTrip)

		againDuration, err := engine.TripDuration(scope)
		require.NoError(t, err)
		assert.Equal(t, firstDuration, againDuration)
	}
}

// TestAgainstBruteForce compares grouped queries with a direct scan of the table
func TestAgainstBruteForce(t *testing.T) {
	trips := randomTrips(t, 2000, 42)
	engine := newEngine(models.FullCapabilities(), trips...)
	table, err := engine.Table(testCity)
	require.NoError(t, err)

	for _, month := range shared.FilterableMonths {
		for _, weekday := range shared.Weekdays {
			scope := shared.ByMonthWeekday(testCity, month, weekday)

			var selected []models.Trip
			for _, trip := range table.Trips {
				if trip.Month == month && trip.Weekday == weekday {
					selected = append(selected, trip)
				}
			}

			rows, err := engine.Rows(scope)
			require.NoError(t, err)
			require.Len(t, rows, len(selected))

			stations, err := engine.PopularStations(scope)
			if len(selected) == 0 {
				assert.ErrorIs(t, err, ErrEmptyScope)
				continue
			}
			require.NoError(t, err)

			starts := make(map[string]int)
			routes := make(map[models.Route]int)
			var sum float64
			for _, trip := range selected {
				starts[trip.StartStation]++
				routes[trip.Route]++
				sum += trip.Duration
			}
			assert.Equal(t, maxCount(starts), stations.StartCount)
			assert.Equal(t, starts[stations.StartStation], stations.StartCount)

			trip, err := engine.PopularTrip(scope)
			require.NoError(t, err)
			assert.Equal(t, maxCount(routes), trip.Count)
			assert.Equal(t, routes[models.Route{Start: trip.StartStation, End: trip.EndStation}], trip.Count)

			duration, err := engine.TripDuration(scope)
			require.NoError(t, err)
			assert.Equal(t, int64(sum), *duration.TotalSeconds)
		}
	}
}

func maxCount[K comparable](counts map[K]int) int {
	best := 0
	for _, c := range counts {
		best = max(best, c)
	}
	return best
}

func randomTrips(t *testing.T, n int, seed int64) []models.Trip {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	stations := []string{"Canal St", "Clark St", "Lake St", "Michigan Ave", "State St"}
	base := time.Date(2017, time.January, 1, 0, 0, 0, 0, time.UTC)

	trips := make([]models.Trip, n)
	for i := range trips {
		start := base.Add(time.Duration(rng.Intn(181*24*60)) * time.Minute)
		duration := float64(60 + rng.Intn(3600))
		trips[i] = models.Trip{
			StartTime:    start,
			EndTime:      start.Add(time.Duration(duration) * time.Second),
			StartStation: stations[rng.Intn(len(stations))],
			EndStation:   stations[rng.Intn(len(stations))],
			Duration:     duration,
		}
	}
	return trips
}
