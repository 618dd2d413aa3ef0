package stats

import "github.com/AI2HU/bikeshare/internal/models"

const (
	secondsPerMinute = 60
	minutesPerHour   = 60
	hoursPerDay      = 24
	daysPerMonth     = 30
	monthsPerYear    = 12
)

// Breakdown splits seconds into years, months, days, hours, minutes and seconds
// using fixed divisors (30-day months, 12-month years).
func Breakdown(seconds int64) models.DurationBreakdown {
	var b models.DurationBreakdown
	minutes := seconds / secondsPerMinute
	b.Seconds = seconds % secondsPerMinute
	hours := minutes / minutesPerHour
	b.Minutes = minutes % minutesPerHour
	days := hours / hoursPerDay
	b.Hours = hours % hoursPerDay
	months := days / daysPerMonth
	b.Days = days % daysPerMonth
	b.Years = months / monthsPerYear
	b.Months = months % monthsPerYear
	return b
}

// TotalSeconds reassembles a breakdown into seconds
func TotalSeconds(b models.DurationBreakdown) int64 {
	months := b.Years*monthsPerYear + b.Months
	days := months*daysPerMonth + b.Days
	hours := days*hoursPerDay + b.Hours
	minutes := hours*minutesPerHour + b.Minutes
	return minutes*secondsPerMinute + b.Seconds
}
