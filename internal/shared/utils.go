package shared

import (
	"fmt"
	"strings"
	"time"
)

// FilterableMonths are the months covered by the trip datasets
var FilterableMonths = []time.Month{
	time.January, time.February, time.March, time.April, time.May, time.June,
}

// Weekdays lists the days of the week starting on Monday, the order users are prompted in
var Weekdays = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday,
}

// IsFilterableMonth reports whether m is one of FilterableMonths
func IsFilterableMonth(m time.Month) bool {
	return m >= time.January && m <= time.June
}

// ParseMonth accepts a filterable month by full name or three-letter abbreviation
func ParseMonth(input string) (time.Month, error) {
	in := strings.ToLower(strings.TrimSpace(input))
	for _, m := range FilterableMonths {
		name := strings.ToLower(m.String())
		if in == name || in == name[:3] {
			return m, nil
		}
	}
	return 0, fmt.Errorf("invalid month: %q (choose January through June)", input)
}

// ParseWeekday accepts a weekday by full name or its three- or four-letter prefix
func ParseWeekday(input string) (time.Weekday, error) {
	in := strings.ToLower(strings.TrimSpace(input))
	for _, d := range Weekdays {
		name := strings.ToLower(d.String())
		if in == name || in == name[:3] || in == name[:4] {
			return d, nil
		}
	}
	return 0, fmt.Errorf("invalid day: %q (choose Monday through Sunday)", input)
}

// ParseFilterMode maps user input to a filter mode; "day" means month and weekday
func ParseFilterMode(input string) (FilterMode, error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "none", "":
		return FilterNone, nil
	case "month":
		return FilterMonth, nil
	case "day":
		return FilterMonthWeekday, nil
	default:
		return FilterNone, fmt.Errorf("invalid filter: %q (choose month, day or none)", input)
	}
}

// MatchCity finds the candidate a user meant, ignoring case and a trailing " city"
func MatchCity(input string, candidates []string) (string, bool) {
	in := strings.ToLower(strings.TrimSpace(input))
	if in == "" {
		return "", false
	}
	for _, c := range candidates {
		lower := strings.ToLower(c)
		if in == lower || in == strings.TrimSuffix(lower, " city") {
			return c, true
		}
	}
	return "", false
}

// BuildScope assembles a scope from optional month and weekday strings.
// A weekday without a month is rejected because weekdays are only grouped within a month.
func BuildScope(city, month, weekday string) (Scope, error) {
	if month == "" {
		if weekday != "" {
			return Scope{}, fmt.Errorf("a day filter requires a month")
		}
		return Unfiltered(city), nil
	}
	m, err := ParseMonth(month)
	if err != nil {
		return Scope{}, err
	}
	if weekday == "" {
		return ByMonth(city, m), nil
	}
	d, err := ParseWeekday(weekday)
	if err != nil {
		return Scope{}, err
	}
	return ByMonthWeekday(city, m, d), nil
}
