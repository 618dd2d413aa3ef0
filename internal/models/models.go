package models

import (
	"fmt"
	"strings"
	"time"
)

// RouteSeparator joins the start and end station of a route identifier
const RouteSeparator = "_"

// Route is an ordered (start station, end station) pair
type Route struct {
	Start string `json:"start_station"`
	End   string `json:"end_station"`
}

// ID returns the composite trip identifier for the route
func (r Route) ID() string {
	return r.Start + RouteSeparator + r.End
}

// Less orders routes by start station, then end station
func (r Route) Less(other Route) bool {
	if r.Start != other.Start {
		return r.Start < other.Start
	}
	return r.End < other.End
}

// ParseRoute splits a composite trip identifier back into its stations.
// The split is rejected when the separator does not occur exactly once.
func ParseRoute(id string) (Route, error) {
	if strings.Count(id, RouteSeparator) != 1 {
		return Route{}, fmt.Errorf("ambiguous trip identifier %q: separator %q must occur exactly once", id, RouteSeparator)
	}
	start, end, _ := strings.Cut(id, RouteSeparator)
	return Route{Start: start, End: end}, nil
}

// Trip represents a single bike-share trip record
type Trip struct {
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time,omitempty"`
	StartStation string    `json:"start_station"`
	EndStation   string    `json:"end_station"`
	Duration     float64   `json:"trip_duration"` // seconds
	UserType     string    `json:"user_type,omitempty"`
	Gender       string    `json:"gender,omitempty"`
	BirthYear    float64   `json:"birth_year,omitempty"`
	HasBirthYear bool      `json:"-"`

	// Derived once by NewTable
	Month   time.Month   `json:"month"`
	Weekday time.Weekday `json:"weekday"`
	Hour    int          `json:"hour"`
	Route   Route        `json:"-"`
}

// Derive fills the columns computed from the start time and stations
func (t *Trip) Derive() {
	t.Month = t.StartTime.Month()
	t.Weekday = t.StartTime.Weekday()
	t.Hour = t.StartTime.Hour()
	t.Route = Route{Start: t.StartStation, End: t.EndStation}
}

// Capabilities records which optional columns a city's source provides
type Capabilities struct {
	HasUserType  bool `json:"has_user_type"`
	HasGender    bool `json:"has_gender"`
	HasBirthYear bool `json:"has_birth_year"`
}

// FullCapabilities returns a descriptor with every optional column present
func FullCapabilities() Capabilities {
	return Capabilities{HasUserType: true, HasGender: true, HasBirthYear: true}
}

// Table holds all trips of one city
type Table struct {
	City         string       `json:"city"`
	Trips        []Trip       `json:"-"`
	Capabilities Capabilities `json:"capabilities"`
}

// NewTable builds a table and computes the derived columns of every trip
func NewTable(city string, trips []Trip, caps Capabilities) *Table {
	for i := range trips {
		trips[i].Derive()
	}
	return &Table{
		City:         city,
		Trips:        trips,
		Capabilities: caps,
	}
}

// Len returns the number of trips in the table
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Trips)
}

// CitySummary describes a city available from a dataset source
type CitySummary struct {
	Name         string       `json:"name"`
	Trips        int          `json:"trips"`
	Capabilities Capabilities `json:"capabilities"`
}

// ImportRecord describes one load of a city's trips into the SQLite dataset
type ImportRecord struct {
	ID         string    `json:"id"`
	City       string    `json:"city"`
	Source     string    `json:"source"`
	Rows       int       `json:"rows"`
	ImportedAt time.Time `json:"imported_at"`
}
