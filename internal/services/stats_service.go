package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AI2HU/bikeshare/internal/logger"
	"github.com/AI2HU/bikeshare/internal/models"
	"github.com/AI2HU/bikeshare/internal/shared"
	"github.com/AI2HU/bikeshare/internal/stats"
)

// StatsService builds full statistics reports on top of the statistics engine
type StatsService struct {
	engine *stats.Engine
}

// NewStatsService creates a new stats service
func NewStatsService(engine *stats.Engine) *StatsService {
	return &StatsService{engine: engine}
}

// Cities returns the cities the engine can report on
func (s *StatsService) Cities() []string {
	return s.engine.Cities()
}

// Build computes every statistic for a scope.
// Sections with nothing to report in an empty scope are left nil instead of failing the report.
func (s *StatsService) Build(ctx context.Context, scope shared.Scope) (*models.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows, err := s.engine.Rows(scope)
	if err != nil {
		return nil, err
	}

	report := &models.Report{
		Scope:       scope,
		City:        scope.City,
		Filter:      scope.Mode.String(),
		FilterBy:    scope.Components(),
		Rows:        len(rows),
		GeneratedAt: time.Now(),
	}

	startTime, err := s.engine.PopularStartTime(scope)
	switch {
	case err == nil:
		report.StartTime = &startTime
	case !errors.Is(err, stats.ErrEmptyScope):
		return nil, fmt.Errorf("failed to get popular start time: %w", err)
	}

	stations, err := s.engine.PopularStations(scope)
	switch {
	case err == nil:
		report.Stations = &stations
	case !errors.Is(err, stats.ErrEmptyScope):
		return nil, fmt.Errorf("failed to get popular stations: %w", err)
	}

	trip, err := s.engine.PopularTrip(scope)
	switch {
	case err == nil:
		report.Trip = &trip
	case !errors.Is(err, stats.ErrEmptyScope):
		return nil, fmt.Errorf("failed to get popular trip: %w", err)
	}

	report.Duration, err = s.engine.TripDuration(scope)
	if err != nil {
		return nil, fmt.Errorf("failed to get trip duration: %w", err)
	}

	report.UserTypes, err = s.engine.CountsUserType(scope)
	if err != nil {
		return nil, fmt.Errorf("failed to get user type counts: %w", err)
	}

	report.Genders, err = s.engine.CountsGender(scope)
	if err != nil {
		return nil, fmt.Errorf("failed to get gender counts: %w", err)
	}

	birthYears, err := s.engine.BirthYears(scope)
	switch {
	case err == nil:
		report.BirthYears = &birthYears
	case !errors.Is(err, stats.ErrEmptyScope):
		return nil, fmt.Errorf("failed to get birth years: %w", err)
	}

	logger.Debug("Built report for %s over %d trips", scope, report.Rows)
	return report, nil
}
