package stats

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/AI2HU/bikeshare/internal/logger"
	"github.com/AI2HU/bikeshare/internal/models"
	"github.com/AI2HU/bikeshare/internal/shared"
)

type monthWeekday struct {
	month   time.Month
	weekday time.Weekday
}

// cityView holds the grouped views of one city's table, built on first use
type cityView struct {
	all            []*models.Trip
	byMonth        map[time.Month][]*models.Trip
	byMonthWeekday map[monthWeekday][]*models.Trip
}

// Engine computes descriptive statistics over a fixed set of city tables.
// Every query takes the scope it operates on; the engine itself holds no filter state.
type Engine struct {
	tables map[string]*models.Table

	mu    sync.Mutex
	views map[string]*cityView
}

// New creates a statistics engine over the given tables.
// A nil or empty mapping yields an engine on which every query reports ErrCityNotFound.
func New(tables map[string]*models.Table) *Engine {
	owned := make(map[string]*models.Table, len(tables))
	for name, table := range tables {
		if table == nil {
			table = &models.Table{City: name}
		}
		owned[name] = table
	}
	return &Engine{
		tables: owned,
		views:  make(map[string]*cityView),
	}
}

// Cities returns the names of all cities, sorted
func (e *Engine) Cities() []string {
	names := make([]string, 0, len(e.tables))
	for name := range e.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Table returns the trip table of a city
func (e *Engine) Table(city string) (*models.Table, error) {
	table, ok := e.tables[city]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCityNotFound, city)
	}
	return table, nil
}

// Rows returns the trips selected by a scope, in table order.
// The returned trips are shared with the engine and must not be modified.
func (e *Engine) Rows(scope shared.Scope) ([]*models.Trip, error) {
	_, rows, err := e.resolve(scope)
	return rows, err
}

// resolve validates a scope and returns the city table and the rows it selects
func (e *Engine) resolve(scope shared.Scope) (*models.Table, []*models.Trip, error) {
	if err := scope.Validate(); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidScope, err)
	}
	table, err := e.Table(scope.City)
	if err != nil {
		return nil, nil, err
	}

	view := e.view(scope.City, table, scope.Mode)
	switch scope.Mode {
	case shared.FilterMonth:
		return table, view.byMonth[scope.Month], nil
	case shared.FilterMonthWeekday:
		return table, view.byMonthWeekday[monthWeekday{scope.Month, scope.Weekday}], nil
	default:
		return table, view.all, nil
	}
}

// view returns the city's view with the grouping required by mode
func (e *Engine) view(city string, table *models.Table, mode shared.FilterMode) *cityView {
	e.mu.Lock()
	defer e.mu.Unlock()

	v, ok := e.views[city]
	if !ok {
		v = &cityView{all: make([]*models.Trip, len(table.Trips))}
		for i := range table.Trips {
			v.all[i] = &table.Trips[i]
		}
		e.views[city] = v
	}

	switch mode {
	case shared.FilterMonth:
		if v.byMonth == nil {
			v.byMonth = make(map[time.Month][]*models.Trip)
			for _, trip := range v.all {
				v.byMonth[trip.Month] = append(v.byMonth[trip.Month], trip)
			}
			logger.Debug("Grouped %d trips of %s by month into %d groups", len(v.all), city, len(v.byMonth))
		}
	case shared.FilterMonthWeekday:
		if v.byMonthWeekday == nil {
			v.byMonthWeekday = make(map[monthWeekday][]*models.Trip)
			for _, trip := range v.all {
				key := monthWeekday{trip.Month, trip.Weekday}
				v.byMonthWeekday[key] = append(v.byMonthWeekday[key], trip)
			}
			logger.Debug("Grouped %d trips of %s by month and weekday into %d groups", len(v.all), city, len(v.byMonthWeekday))
		}
	}

	return v
}
