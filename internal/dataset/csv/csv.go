package csv

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/AI2HU/bikeshare/internal/dataset"
	"github.com/AI2HU/bikeshare/internal/logger"
	"github.com/AI2HU/bikeshare/internal/models"
	"github.com/AI2HU/bikeshare/internal/shared"
)

var requiredColumns = []string{
	dataset.ColStartTime,
	dataset.ColStartStation,
	dataset.ColEndStation,
	dataset.ColDuration,
}

// Source loads city trip tables from <city>.csv files in a directory
type Source struct {
	dir   string
	files map[string]string // city -> file path
}

// New creates a CSV source over dir and scans it for csv files
func New(dir string) (*Source, error) {
	s := &Source{dir: dir}
	if err := s.scan(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Source) scan() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("failed to read data directory %s: %w", s.dir, err)
	}

	s.files = make(map[string]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(name), ".csv") {
			continue
		}
		city := dataset.CityFromFilename(strings.TrimSuffix(name, filepath.Ext(name)))
		s.files[city] = filepath.Join(s.dir, name)
	}

	logger.Debug("Found %d csv file(s) in %s", len(s.files), s.dir)
	return nil
}

// ListCities returns the cities that have a csv file, sorted
func (s *Source) ListCities(ctx context.Context) ([]string, error) {
	if len(s.files) == 0 {
		return nil, fmt.Errorf("%w: no csv files in %s", dataset.ErrNotFound, s.dir)
	}
	cities := make([]string, 0, len(s.files))
	for city := range s.files {
		cities = append(cities, city)
	}
	sort.Strings(cities)
	return cities, nil
}

// Path returns the csv file backing a city
func (s *Source) Path(city string) (string, bool) {
	path, ok := s.files[city]
	return path, ok
}

// LoadCity parses the csv file of one city into a trip table
func (s *Source) LoadCity(ctx context.Context, name string) (*models.Table, error) {
	path, ok := s.files[name]
	if !ok {
		return nil, fmt.Errorf("%w: no csv file for city %s", dataset.ErrNotFound, name)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	df := dataframe.ReadCSV(f,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, df.Err)
	}

	table, skipped, err := FromDataFrame(name, df)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	if skipped > 0 {
		logger.Warning("Skipped %d malformed or out-of-range row(s) in %s", skipped, path)
	}
	logger.Info("Loaded %d trips for %s from %s", table.Len(), name, path)

	return table, nil
}

// LoadAll loads the trip tables of every city
func (s *Source) LoadAll(ctx context.Context) (map[string]*models.Table, error) {
	cities, err := s.ListCities(ctx)
	if err != nil {
		return nil, err
	}

	tables := make(map[string]*models.Table, len(cities))
	for _, city := range cities {
		table, err := s.LoadCity(ctx, city)
		if err != nil {
			return nil, err
		}
		tables[city] = table
	}
	return tables, nil
}

// Close releases the source; csv files are only held open while loading
func (s *Source) Close() error {
	return nil
}

// FromDataFrame converts a string-typed data frame with the trip columns into a table.
// Rows with an unparsable required field or a start month outside January to June are skipped and counted.
func FromDataFrame(city string, df dataframe.DataFrame) (*models.Table, int, error) {
	present := make(map[string]bool)
	for _, name := range df.Names() {
		present[name] = true
	}
	for _, col := range requiredColumns {
		if !present[col] {
			return nil, 0, fmt.Errorf("missing required column %q", col)
		}
	}

	column := func(name string) []string {
		if !present[name] {
			return nil
		}
		return df.Col(name).Records()
	}

	startTimes := column(dataset.ColStartTime)
	endTimes := column(dataset.ColEndTime)
	startStations := column(dataset.ColStartStation)
	endStations := column(dataset.ColEndStation)
	durations := column(dataset.ColDuration)
	userTypes := column(dataset.ColUserType)
	genders := column(dataset.ColGender)
	birthYears := column(dataset.ColBirthYear)

	caps := models.Capabilities{
		HasUserType:  userTypes != nil,
		HasGender:    genders != nil,
		HasBirthYear: birthYears != nil,
	}

	trips := make([]models.Trip, 0, df.Nrow())
	skipped := 0
	for i := 0; i < df.Nrow(); i++ {
		trip, ok := parseRow(i, startTimes, endTimes, startStations, endStations, durations)
		if !ok {
			skipped++
			continue
		}
		if userTypes != nil && !dataset.IsMissing(userTypes[i]) {
			trip.UserType = strings.TrimSpace(userTypes[i])
		}
		if genders != nil && !dataset.IsMissing(genders[i]) {
			trip.Gender = strings.TrimSpace(genders[i])
		}
		if birthYears != nil && !dataset.IsMissing(birthYears[i]) {
			if year, err := strconv.ParseFloat(strings.TrimSpace(birthYears[i]), 64); err == nil {
				trip.BirthYear = year
				trip.HasBirthYear = true
			}
		}
		trips = append(trips, trip)
	}

	return models.NewTable(city, trips, caps), skipped, nil
}

func parseRow(i int, startTimes, endTimes, startStations, endStations, durations []string) (models.Trip, bool) {
	var trip models.Trip

	start, err := ParseTime(startTimes[i])
	if err != nil || !shared.IsFilterableMonth(start.Month()) {
		return trip, false
	}
	duration, err := strconv.ParseFloat(strings.TrimSpace(durations[i]), 64)
	if err != nil || duration < 0 || math.IsNaN(duration) || math.IsInf(duration, 0) {
		return trip, false
	}
	if dataset.IsMissing(startStations[i]) || dataset.IsMissing(endStations[i]) {
		return trip, false
	}

	trip.StartTime = start
	trip.StartStation = strings.TrimSpace(startStations[i])
	trip.EndStation = strings.TrimSpace(endStations[i])
	trip.Duration = duration
	if endTimes != nil {
		if end, err := ParseTime(endTimes[i]); err == nil {
			trip.EndTime = end
		}
	}
	return trip, true
}

// ParseTime parses a trip timestamp
func ParseTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range []string{dataset.TimeLayout, time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp: %q", value)
}
