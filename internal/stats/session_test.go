package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AI2HU/bikeshare/internal/models"
	"github.com/AI2HU/bikeshare/internal/shared"
)

func TestSessionRequiresFilter(t *testing.T) {
	session := NewSession(newEngine(models.FullCapabilities(), janFebTrips(t)...))

	_, err := session.PopularStartTime()
	assert.ErrorIs(t, err, ErrFilterNotSet)
	_, err = session.TripDuration()
	assert.ErrorIs(t, err, ErrFilterNotSet)
	_, err = session.PopularStations()
	assert.ErrorIs(t, err, ErrFilterNotSet)
	_, err = session.PopularTrip()
	assert.ErrorIs(t, err, ErrFilterNotSet)
	_, err = session.CountsUserType()
	assert.ErrorIs(t, err, ErrFilterNotSet)
	_, err = session.CountsGender()
	assert.ErrorIs(t, err, ErrFilterNotSet)
	_, err = session.BirthYears()
	assert.ErrorIs(t, err, ErrFilterNotSet)
}

func TestSessionFilterUnknownCity(t *testing.T) {
	session := NewSession(newEngine(models.FullCapabilities(), janFebTrips(t)...))

	err := session.Filter("Boston", shared.FilterNone)
	assert.ErrorIs(t, err, ErrCityNotFound)

	_, err = session.TripDuration()
	assert.ErrorIs(t, err, ErrFilterNotSet)
}

func TestSessionFailedFilterKeepsState(t *testing.T) {
	session := NewSession(newEngine(models.FullCapabilities(), janFebTrips(t)...))

	require.NoError(t, session.Filter(testCity, shared.FilterMonth))
	assert.Error(t, session.Filter("Boston", shared.FilterNone))
	assert.ErrorIs(t, session.Filter(testCity, shared.FilterMode(9)), ErrInvalidScope)

	stats, err := session.TripDuration("January")
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Trips)
}

func TestSessionMonthFilter(t *testing.T) {
	session := NewSession(newEngine(models.FullCapabilities(), janFebTrips(t)...))
	require.NoError(t, session.Filter(testCity, shared.FilterMonth))

	stats, err := session.TripDuration("January")
	require.NoError(t, err)
	require.NotNil(t, stats.Total)
	assert.Equal(t, models.DurationBreakdown{Minutes: 5}, *stats.Total)
	assert.Equal(t, models.DurationBreakdown{Minutes: 2, Seconds: 30}, *stats.Average)

	scope, err := session.Scope("feb")
	require.NoError(t, err)
	assert.Equal(t, shared.ByMonth(testCity, time.February), scope)

	_, err = session.TripDuration()
	assert.ErrorIs(t, err, ErrInvalidScope)
	_, err = session.TripDuration("January", "Monday")
	assert.ErrorIs(t, err, ErrInvalidScope)
	_, err = session.TripDuration("July")
	assert.ErrorIs(t, err, ErrInvalidScope)
}

func TestSessionMonthWeekdayFilter(t *testing.T) {
	session := NewSession(newEngine(models.FullCapabilities(), janFebTrips(t)...))
	require.NoError(t, session.Filter(testCity, shared.FilterMonthWeekday))

	_, err := session.PopularStations("February", "Monday")
	assert.ErrorIs(t, err, ErrEmptyScope)

	stations, err := session.PopularStations("jan", "mon")
	require.NoError(t, err)
	assert.Equal(t, "Clark St", stations.StartStation)
	assert.Equal(t, 2, stations.StartCount)

	start, err := session.PopularStartTime("February", "Wednesday")
	require.NoError(t, err)
	assert.Nil(t, start.Month)
	assert.Nil(t, start.Weekday)
	require.NotNil(t, start.Hour)
	assert.Equal(t, 17, *start.Hour)

	_, err = session.PopularStations("February")
	assert.ErrorIs(t, err, ErrInvalidScope)
}

func TestSessionNoFilter(t *testing.T) {
	session := NewSession(newEngine(models.Capabilities{HasUserType: true}, janFebTrips(t)...))
	require.NoError(t, session.Filter(testCity, shared.FilterNone))

	genders, err := session.CountsGender()
	require.NoError(t, err)
	assert.False(t, genders.Available)

	trip, err := session.PopularTrip()
	require.NoError(t, err)
	assert.Equal(t, 1, trip.Count)
	assert.Equal(t, "Clark St_Lake St", trip.ID)

	_, err = session.PopularTrip("January")
	assert.ErrorIs(t, err, ErrInvalidScope)
}

func TestSessionRejectsBlankFilterValues(t *testing.T) {
	session := NewSession(newEngine(models.FullCapabilities(), janFebTrips(t)...))

	require.NoError(t, session.Filter(testCity, shared.FilterMonth))
	_, err := session.Scope("")
	assert.ErrorIs(t, err, ErrInvalidScope)
	_, err = session.TripDuration("  ")
	assert.ErrorIs(t, err, ErrInvalidScope)

	require.NoError(t, session.Filter(testCity, shared.FilterMonthWeekday))
	_, err = session.Scope("January", "")
	assert.ErrorIs(t, err, ErrInvalidScope)
	_, err = session.Scope("", "Monday")
	assert.ErrorIs(t, err, ErrInvalidScope)
	_, err = session.CountsUserType("January", "Funday")
	assert.ErrorIs(t, err, ErrInvalidScope)

	scope, err := session.Scope("jan", "mon")
	require.NoError(t, err)
	assert.Equal(t, shared.ByMonthWeekday(testCity, time.January, time.Monday), scope)
}
