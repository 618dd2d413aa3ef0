package stats

import "errors"

var (
	// ErrCityNotFound is returned when a scope names a city the engine does not hold
	ErrCityNotFound = errors.New("city not found")

	// ErrEmptyScope is returned by most-frequent queries when the scope selects no values
	ErrEmptyScope = errors.New("no trips in scope")

	// ErrInvalidScope is returned when a scope's filter components do not match its mode
	ErrInvalidScope = errors.New("invalid scope")

	// ErrFilterNotSet is returned by a Session queried before Filter was called
	ErrFilterNotSet = errors.New("filter not set")
)
