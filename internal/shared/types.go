package shared

import (
	"fmt"
	"time"
)

// FilterMode controls how finely a city's trips are grouped
type FilterMode int

const (
	FilterNone FilterMode = iota
	FilterMonth
	FilterMonthWeekday
)

// String returns the string representation of the filter mode
func (m FilterMode) String() string {
	switch m {
	case FilterNone:
		return "none"
	case FilterMonth:
		return "month"
	case FilterMonthWeekday:
		return "day"
	default:
		return "unknown"
	}
}

// Scope selects the rows a statistics query operates on.
// Month is meaningful for FilterMonth and FilterMonthWeekday, Weekday only for FilterMonthWeekday.
type Scope struct {
	City    string
	Mode    FilterMode
	Month   time.Month
	Weekday time.Weekday
}

// Unfiltered returns a scope covering a whole city table
func Unfiltered(city string) Scope {
	return Scope{City: city, Mode: FilterNone}
}

// ByMonth returns a scope covering the trips of one month
func ByMonth(city string, month time.Month) Scope {
	return Scope{City: city, Mode: FilterMonth, Month: month}
}

// ByMonthWeekday returns a scope covering the trips of one weekday within one month
func ByMonthWeekday(city string, month time.Month, weekday time.Weekday) Scope {
	return Scope{City: city, Mode: FilterMonthWeekday, Month: month, Weekday: weekday}
}

// Validate checks that the filter components match the filter mode
func (s Scope) Validate() error {
	if s.City == "" {
		return fmt.Errorf("city is required")
	}
	switch s.Mode {
	case FilterNone:
		return nil
	case FilterMonth, FilterMonthWeekday:
		if s.Month < time.January || s.Month > time.December {
			return fmt.Errorf("invalid month: %d", s.Month)
		}
		if s.Mode == FilterMonthWeekday && (s.Weekday < time.Sunday || s.Weekday > time.Saturday) {
			return fmt.Errorf("invalid weekday: %d", s.Weekday)
		}
		return nil
	default:
		return fmt.Errorf("unknown filter mode: %d", s.Mode)
	}
}

// Components returns the filter values in the order they were chosen (month, then weekday)
func (s Scope) Components() []string {
	switch s.Mode {
	case FilterMonth:
		return []string{s.Month.String()}
	case FilterMonthWeekday:
		return []string{s.Month.String(), s.Weekday.String()}
	default:
		return nil
	}
}

// String returns a short human-readable description of the scope
func (s Scope) String() string {
	switch s.Mode {
	case FilterMonth:
		return fmt.Sprintf("%s (%s)", s.City, s.Month)
	case FilterMonthWeekday:
		return fmt.Sprintf("%s (%s, %s)", s.City, s.Month, s.Weekday)
	default:
		return fmt.Sprintf("%s (unfiltered)", s.City)
	}
}
