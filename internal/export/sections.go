package export

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/AI2HU/bikeshare/internal/models"
)

const (
	// NoData is shown for statistics whose column the city does not record
	NoData = "No data available"
	// NoTrips is shown for statistics with no trips in the selected period
	NoTrips = "No trips in this period"
	// Fixed is shown for start time components set by the filter
	Fixed = "(set by filter)"
)

// Row is one label/value line of a report section
type Row struct {
	Label string
	Value string
}

// Section is a titled group of report rows.
// Message replaces the rows when the section has nothing to show.
type Section struct {
	Title   string
	Rows    []Row
	Message string
}

// Sections lays out a report as display sections in presentation order
func Sections(r *models.Report) []Section {
	return []Section{
		startTimeSection(r.StartTime),
		stationsSection(r.Stations),
		tripSection(r.Trip),
		durationSection(r.Duration),
		countsSection("User Types", r.UserTypes, r.Rows),
		countsSection("Genders", r.Genders, r.Rows),
		birthYearSection(r.BirthYears, r.Rows),
	}
}

func startTimeSection(s *models.StartTimeStats) Section {
	section := Section{Title: "Popular Start Time"}
	if s == nil {
		section.Message = NoTrips
		return section
	}
	month, weekday, hour := Fixed, Fixed, Fixed
	if s.Month != nil {
		month = s.Month.String()
	}
	if s.Weekday != nil {
		weekday = s.Weekday.String()
	}
	if s.Hour != nil {
		hour = FormatHour(*s.Hour)
	}
	section.Rows = []Row{
		{"Month", month},
		{"Day of Week", weekday},
		{"Hour", hour},
	}
	return section
}

func stationsSection(s *models.StationStats) Section {
	section := Section{Title: "Popular Stations"}
	if s == nil {
		section.Message = NoTrips
		return section
	}
	section.Rows = []Row{
		{"Start Station", fmt.Sprintf("%s (%s trips)", s.StartStation, humanize.Comma(int64(s.StartCount)))},
		{"End Station", fmt.Sprintf("%s (%s trips)", s.EndStation, humanize.Comma(int64(s.EndCount)))},
	}
	return section
}

func tripSection(s *models.TripStats) Section {
	section := Section{Title: "Popular Trip"}
	if s == nil {
		section.Message = NoTrips
		return section
	}
	section.Rows = []Row{
		{"From", s.StartStation},
		{"To", s.EndStation},
		{"Trips", humanize.Comma(int64(s.Count))},
	}
	return section
}

func durationSection(s models.TripDurationStats) Section {
	section := Section{Title: "Trip Duration"}
	if s.Total == nil || s.Average == nil {
		section.Message = NoTrips
		return section
	}
	section.Rows = []Row{
		{"Trips", humanize.Comma(int64(s.Trips))},
		{"Total", FormatBreakdown(*s.Total)},
		{"Average", FormatBreakdown(*s.Average)},
	}
	return section
}

func countsSection(title string, c models.CategoryCounts, rows int) Section {
	section := Section{Title: title}
	if !c.Available {
		section.Message = NoData
		return section
	}
	sorted := c.Sorted()
	if len(sorted) == 0 {
		section.Message = NoTrips
		if rows > 0 {
			section.Message = NoData
		}
		return section
	}
	for _, item := range sorted {
		section.Rows = append(section.Rows, Row{item.Value, humanize.Comma(int64(item.Count))})
	}
	return section
}

func birthYearSection(s *models.BirthYearStats, rows int) Section {
	section := Section{Title: "Birth Years"}
	switch {
	case s == nil && rows > 0:
		section.Message = NoData
	case s == nil:
		section.Message = NoTrips
	case !s.Available:
		section.Message = NoData
	default:
		section.Rows = []Row{
			{"Latest", fmt.Sprintf("%d", s.Latest)},
			{"Earliest", fmt.Sprintf("%d", s.Earliest)},
			{"Most Common", fmt.Sprintf("%d", s.Popular)},
		}
	}
	return section
}

// FormatHour renders an hour of day on a 24-hour clock
func FormatHour(hour int) string {
	return fmt.Sprintf("%02d:00", hour)
}

// FormatBreakdown renders the non-zero units of a duration breakdown
func FormatBreakdown(b models.DurationBreakdown) string {
	units := []struct {
		value int64
		name  string
	}{
		{b.Years, "year"},
		{b.Months, "month"},
		{b.Days, "day"},
		{b.Hours, "hour"},
		{b.Minutes, "minute"},
		{b.Seconds, "second"},
	}

	var parts []string
	for _, u := range units {
		if u.value == 0 {
			continue
		}
		name := u.name
		if u.value != 1 {
			name += "s"
		}
		parts = append(parts, fmt.Sprintf("%s %s", humanize.Comma(u.value), name))
	}
	if len(parts) == 0 {
		return "0 seconds"
	}
	return strings.Join(parts, ", ")
}
