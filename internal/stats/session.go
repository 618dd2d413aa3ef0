package stats

import (
	"fmt"
	"strings"

	"github.com/AI2HU/bikeshare/internal/models"
	"github.com/AI2HU/bikeshare/internal/shared"
)

// Session keeps a current city and filter mode for callers that set a filter once
// and then query with only the filter values (month, or month and weekday).
type Session struct {
	engine *Engine
	city   string
	mode   shared.FilterMode
	set    bool
}

// NewSession creates a session over an engine. Filter must be called before any query.
func NewSession(engine *Engine) *Session {
	return &Session{engine: engine}
}

// Filter selects the city and filter mode used by subsequent queries
func (s *Session) Filter(city string, mode shared.FilterMode) error {
	if _, err := s.engine.Table(city); err != nil {
		return err
	}
	switch mode {
	case shared.FilterNone, shared.FilterMonth, shared.FilterMonthWeekday:
	default:
		return fmt.Errorf("%w: unknown filter mode %d", ErrInvalidScope, mode)
	}
	s.city = city
	s.mode = mode
	s.set = true
	return nil
}

// Scope builds the scope for the current filter from the filter values:
// none for no filter, a month name for the month filter, month and weekday names for the day filter.
func (s *Session) Scope(filterBy ...string) (shared.Scope, error) {
	if !s.set {
		return shared.Scope{}, ErrFilterNotSet
	}

	want := map[shared.FilterMode]int{shared.FilterNone: 0, shared.FilterMonth: 1, shared.FilterMonthWeekday: 2}[s.mode]
	if len(filterBy) != want {
		return shared.Scope{}, fmt.Errorf("%w: %s filter takes %d value(s), got %d", ErrInvalidScope, s.mode, want, len(filterBy))
	}

	switch s.mode {
	case shared.FilterMonth:
		month, err := parseComponent(filterBy[0], shared.ParseMonth)
		if err != nil {
			return shared.Scope{}, err
		}
		return shared.ByMonth(s.city, month), nil
	case shared.FilterMonthWeekday:
		month, err := parseComponent(filterBy[0], shared.ParseMonth)
		if err != nil {
			return shared.Scope{}, err
		}
		weekday, err := parseComponent(filterBy[1], shared.ParseWeekday)
		if err != nil {
			return shared.Scope{}, err
		}
		return shared.ByMonthWeekday(s.city, month, weekday), nil
	default:
		return shared.Unfiltered(s.city), nil
	}
}

// parseComponent parses one required filter value; blanks are rejected rather than dropped
func parseComponent[T any](value string, parse func(string) (T, error)) (T, error) {
	var zero T
	if strings.TrimSpace(value) == "" {
		return zero, fmt.Errorf("%w: filter value must not be blank", ErrInvalidScope)
	}
	v, err := parse(value)
	if err != nil {
		return zero, fmt.Errorf("%w: %v", ErrInvalidScope, err)
	}
	return v, nil
}

// PopularStartTime is Engine.PopularStartTime for the current filter
func (s *Session) PopularStartTime(filterBy ...string) (models.StartTimeStats, error) {
	scope, err := s.Scope(filterBy...)
	if err != nil {
		return models.StartTimeStats{}, err
	}
	return s.engine.PopularStartTime(scope)
}

// TripDuration is Engine.TripDuration for the current filter
func (s *Session) TripDuration(filterBy ...string) (models.TripDurationStats, error) {
	scope, err := s.Scope(filterBy...)
	if err != nil {
		return models.TripDurationStats{}, err
	}
	return s.engine.TripDuration(scope)
}

// PopularStations is Engine.PopularStations for the current filter
func (s *Session) PopularStations(filterBy ...string) (models.StationStats, error) {
	scope, err := s.Scope(filterBy...)
	if err != nil {
		return models.StationStats{}, err
	}
	return s.engine.PopularStations(scope)
}

// PopularTrip is Engine.PopularTrip for the current filter
func (s *Session) PopularTrip(filterBy ...string) (models.TripStats, error) {
	scope, err := s.Scope(filterBy...)
	if err != nil {
		return models.TripStats{}, err
	}
	return s.engine.PopularTrip(scope)
}

// CountsUserType is Engine.CountsUserType for the current filter
func (s *Session) CountsUserType(filterBy ...string) (models.CategoryCounts, error) {
	scope, err := s.Scope(filterBy...)
	if err != nil {
		return models.CategoryCounts{}, err
	}
	return s.engine.CountsUserType(scope)
}

// CountsGender is Engine.CountsGender for the current filter
func (s *Session) CountsGender(filterBy ...string) (models.CategoryCounts, error) {
	scope, err := s.Scope(filterBy...)
	if err != nil {
		return models.CategoryCounts{}, err
	}
	return s.engine.CountsGender(scope)
}

// BirthYears is Engine.BirthYears for the current filter
func (s *Session) BirthYears(filterBy ...string) (models.BirthYearStats, error) {
	scope, err := s.Scope(filterBy...)
	if err != nil {
		return models.BirthYearStats{}, err
	}
	return s.engine.BirthYears(scope)
}
