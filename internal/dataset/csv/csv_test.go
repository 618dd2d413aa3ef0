package csv

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AI2HU/bikeshare/internal/dataset"
)

const chicagoCSV = `,Start Time,End Time,Trip Duration,Start Station,End Station,User Type,Gender,Birth Year
1423854,2017-06-23 15:09:32,2017-06-23 15:14:53,321,Wood St & Hubbard St,Damen Ave & Chicago Ave,Subscriber,Male,1992.0
955915,2017-05-25 18:19:03,2017-05-25 18:45:53,1610,Theater on the Lake,Sheffield Ave & Waveland Ave,Subscriber,Female,1992.0
9031,2017-01-04 08:27:49,2017-01-04 08:34:45,416,May St & Taylor St,Wood St & Taylor St,Subscriber,,
304487,not a time,2017-03-06 13:55:28,350,Christiana Ave & Lawrence Ave,St. Louis Ave & Balmoral Ave,Subscriber,Male,1981.0
45207,2017-01-26 15:16:25,2017-01-26 15:51:07,2082,Orleans St & Merchandise Mart Plaza,Clark St & Lake St,Customer,,
`

const washingtonCSV = `,Start Time,End Time,Trip Duration,Start Station,End Station,User Type
1621326,2017-06-21 08:36:34,2017-06-21 08:44:43,489.066,14th & Belmont St NW,15th & K St NW,Subscriber
482740,2017-03-11 10:40:00,2017-03-11 10:46:00,NaN,Ward Circle,Wisconsin Ave & Newark St NW,Subscriber
`

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return dir
}

func TestListCities(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"chicago.csv":       chicagoCSV,
		"new_york_city.csv": chicagoCSV,
		"washington.csv":    washingtonCSV,
		"notes.txt":         "not a city",
	})

	src, err := New(dir)
	require.NoError(t, err)

	cities, err := src.ListCities(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Chicago", "New York City", "Washington"}, cities)

	path, ok := src.Path("New York City")
	assert.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "new_york_city.csv"), path)
}

func TestListCitiesEmptyDir(t *testing.T) {
	src, err := New(t.TempDir())
	require.NoError(t, err)

	_, err = src.ListCities(context.Background())
	assert.ErrorIs(t, err, dataset.ErrNotFound)
}

func TestNewMissingDir(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestLoadCity(t *testing.T) {
	dir := writeFiles(t, map[string]string{"chicago.csv": chicagoCSV})
	src, err := New(dir)
	require.NoError(t, err)

	table, err := src.LoadCity(context.Background(), "Chicago")
	require.NoError(t, err)

	// the row with an unparsable start time is skipped
	require.Equal(t, 4, table.Len())
	assert.Equal(t, "Chicago", table.City)
	assert.True(t, table.Capabilities.HasUserType)
	assert.True(t, table.Capabilities.HasGender)
	assert.True(t, table.Capabilities.HasBirthYear)

	first := table.Trips[0]
	assert.Equal(t, time.Date(2017, time.June, 23, 15, 9, 32, 0, time.UTC), first.StartTime)
	assert.Equal(t, "Wood St & Hubbard St", first.StartStation)
	assert.Equal(t, "Damen Ave & Chicago Ave", first.EndStation)
	assert.Equal(t, 321.0, first.Duration)
	assert.Equal(t, "Male", first.Gender)
	assert.True(t, first.HasBirthYear)
	assert.Equal(t, 1992.0, first.BirthYear)
	assert.Equal(t, time.June, first.Month)
	assert.Equal(t, time.Friday, first.Weekday)
	assert.Equal(t, 15, first.Hour)

	third := table.Trips[2]
	assert.Equal(t, "", third.Gender)
	assert.False(t, third.HasBirthYear)

	_, err = src.LoadCity(context.Background(), "Boston")
	assert.ErrorIs(t, err, dataset.ErrNotFound)
}

func TestLoadCityWithoutOptionalColumns(t *testing.T) {
	dir := writeFiles(t, map[string]string{"washington.csv": washingtonCSV})
	src, err := New(dir)
	require.NoError(t, err)

	tables, err := src.LoadAll(context.Background())
	require.NoError(t, err)
	require.Contains(t, tables, "Washington")

	table := tables["Washington"]
	assert.True(t, table.Capabilities.HasUserType)
	assert.False(t, table.Capabilities.HasGender)
	assert.False(t, table.Capabilities.HasBirthYear)

	// NaN durations are rejected
	require.Equal(t, 1, table.Len())
	assert.InDelta(t, 489.066, table.Trips[0].Duration, 1e-9)
}

func TestFromDataFrameMissingRequiredColumn(t *testing.T) {
	df := dataframe.ReadCSV(strings.NewReader("Start Time,Start Station,End Station\n2017-01-01 00:00:00,A,B\n"),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	require.NoError(t, df.Err)

	_, _, err := FromDataFrame("Chicago", df)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Trip Duration")
}

func TestFromDataFrameSkipsMonthsAfterJune(t *testing.T) {
	data := "Start Time,Start Station,End Station,Trip Duration\n" +
		"2017-06-30 23:59:59,A,B,60\n" +
		"2017-07-01 00:00:00,A,B,60\n" +
		"2017-12-24 10:00:00,B,A,60\n"
	df := dataframe.ReadCSV(strings.NewReader(data),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	require.NoError(t, df.Err)

	table, skipped, err := FromDataFrame("Chicago", df)
	require.NoError(t, err)
	assert.Equal(t, 2, skipped)
	require.Equal(t, 1, table.Len())
	assert.Equal(t, time.June, table.Trips[0].Month)
}

func TestParseTime(t *testing.T) {
	ts, err := ParseTime("2017-01-01 09:07:57")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2017, time.January, 1, 9, 7, 57, 0, time.UTC), ts)

	_, err = ParseTime("01/01/2017")
	assert.Error(t, err)
}
