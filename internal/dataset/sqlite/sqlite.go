package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/AI2HU/bikeshare/internal/dataset"
	"github.com/AI2HU/bikeshare/internal/logger"
	"github.com/AI2HU/bikeshare/internal/models"
)

// SQLite stores imported city trip tables and serves them as a dataset source
type SQLite struct {
	db   *sql.DB
	path string
}

// New creates a new SQLite dataset instance
func New(path string) *SQLite {
	return &SQLite{path: path}
}

// Connect opens the database file and applies pending migrations
func (s *SQLite) Connect(ctx context.Context) error {
	if err := s.Open(ctx); err != nil {
		return err
	}
	return s.Migrate(ctx)
}

// Open opens the database file without touching the schema
func (s *SQLite) Open(ctx context.Context) error {
	// Expand the path (handle ~ and relative paths)
	dbPath := s.path
	if strings.HasPrefix(dbPath, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	} else if dbPath != ":memory:" && !filepath.IsAbs(dbPath) {
		absPath, err := filepath.Abs(dbPath)
		if err != nil {
			return fmt.Errorf("failed to resolve absolute path: %w", err)
		}
		dbPath = absPath
	}

	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return fmt.Errorf("failed to open SQLite database at path '%s': %w", dbPath, err)
	}
	// A single connection keeps :memory: databases and transactions on one handle
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping SQLite database at path '%s': %w", dbPath, err)
	}

	s.db = db
	s.path = dbPath
	logger.Debug("Connected to SQLite dataset at %s", dbPath)
	return nil
}

// Migrate applies pending schema migrations
func (s *SQLite) Migrate(ctx context.Context) error {
	if s.db == nil {
		return fmt.Errorf("not connected to database")
	}
	return dataset.RunMigrations(ctx, s.db)
}

// Version reports the applied schema version and whether the last migration left it dirty
func (s *SQLite) Version() (uint, bool, error) {
	if s.db == nil {
		return 0, false, fmt.Errorf("not connected to database")
	}
	return dataset.MigrationVersion(s.db)
}

// Path returns the resolved database file path
func (s *SQLite) Path() string {
	return s.path
}

// Close closes the SQLite connection
func (s *SQLite) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// DB returns the underlying database handle
func (s *SQLite) DB() *sql.DB {
	return s.db
}

// Ping checks the database connection
func (s *SQLite) Ping(ctx context.Context) error {
	if s.db == nil {
		return fmt.Errorf("not connected to database")
	}
	return s.db.PingContext(ctx)
}

// ListCities returns the imported city names, sorted
func (s *SQLite) ListCities(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name FROM cities ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to list cities: %w", err)
	}
	defer rows.Close()

	var cities []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		cities = append(cities, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(cities) == 0 {
		return nil, fmt.Errorf("%w: no cities imported into %s", dataset.ErrNotFound, s.path)
	}
	return cities, nil
}

// LoadCity reads the trip table of one city
func (s *SQLite) LoadCity(ctx context.Context, name string) (*models.Table, error) {
	var caps models.Capabilities
	err := s.db.QueryRowContext(ctx,
		"SELECT has_user_type, has_gender, has_birth_year FROM cities WHERE name = ?", name,
	).Scan(&caps.HasUserType, &caps.HasGender, &caps.HasBirthYear)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: city %s has not been imported", dataset.ErrNotFound, name)
	}
	if err != nil {
		return nil, err
	}

	query := `
		SELECT start_time, end_time, start_station, end_station, duration, user_type, gender, birth_year
		FROM trips WHERE city = ? ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, name)
	if err != nil {
		return nil, fmt.Errorf("failed to query trips: %w", err)
	}
	defer rows.Close()

	var trips []models.Trip
	for rows.Next() {
		var trip models.Trip
		var startTime string
		var endTime, userType, gender sql.NullString
		var birthYear sql.NullFloat64

		err := rows.Scan(
			&startTime,
			&endTime,
			&trip.StartStation,
			&trip.EndStation,
			&trip.Duration,
			&userType,
			&gender,
			&birthYear,
		)
		if err != nil {
			return nil, err
		}

		trip.StartTime, err = time.Parse(dataset.TimeLayout, startTime)
		if err != nil {
			return nil, fmt.Errorf("invalid start time %q: %w", startTime, err)
		}
		if endTime.Valid {
			if t, err := time.Parse(dataset.TimeLayout, endTime.String); err == nil {
				trip.EndTime = t
			}
		}
		trip.UserType = userType.String
		trip.Gender = gender.String
		trip.BirthYear = birthYear.Float64
		trip.HasBirthYear = birthYear.Valid

		trips = append(trips, trip)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	logger.Info("Loaded %d trips for %s from %s", len(trips), name, s.path)
	return models.NewTable(name, trips, caps), nil
}

// LoadAll reads the trip tables of every imported city
func (s *SQLite) LoadAll(ctx context.Context) (map[string]*models.Table, error) {
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

// ImportTable replaces a city's trips with the given table and records the import
func (s *SQLite) ImportTable(ctx context.Context, table *models.Table, source string) (*models.ImportRecord, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO cities (name, has_user_type, has_gender, has_birth_year)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			has_user_type = excluded.has_user_type,
			has_gender = excluded.has_gender,
			has_birth_year = excluded.has_birth_year`,
		table.City,
		table.Capabilities.HasUserType,
		table.Capabilities.HasGender,
		table.Capabilities.HasBirthYear,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert city: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM trips WHERE city = ?", table.City); err != nil {
		return nil, fmt.Errorf("failed to clear trips: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO trips (city, start_time, end_time, start_station, end_station, duration, user_type, gender, birth_year)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, trip := range table.Trips {
		_, err := stmt.ExecContext(ctx,
			table.City,
			trip.StartTime.Format(dataset.TimeLayout),
			nullTime(trip.EndTime),
			trip.StartStation,
			trip.EndStation,
			trip.Duration,
			nullString(trip.UserType),
			nullString(trip.Gender),
			sql.NullFloat64{Float64: trip.BirthYear, Valid: trip.HasBirthYear},
		)
		if err != nil {
			return nil, fmt.Errorf("failed to insert trip: %w", err)
		}
	}

	record := &models.ImportRecord{
		ID:         uuid.New().String(),
		City:       table.City,
		Source:     source,
		Rows:       table.Len(),
		ImportedAt: time.Now().UTC(),
	}
	_, err = tx.ExecContext(ctx,
		"INSERT INTO imports (id, city, source, row_count, imported_at) VALUES (?, ?, ?, ?, ?)",
		record.ID,
		record.City,
		record.Source,
		record.Rows,
		record.ImportedAt.Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to record import: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit import: %w", err)
	}

	logger.Info("Imported %d trips for %s (import %s)", record.Rows, record.City, record.ID)
	return record, nil
}

// ListImports lists recorded imports, newest first
func (s *SQLite) ListImports(ctx context.Context) ([]*models.ImportRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, city, source, row_count, imported_at FROM imports ORDER BY imported_at DESC, city")
	if err != nil {
		return nil, fmt.Errorf("failed to list imports: %w", err)
	}
	defer rows.Close()

	var records []*models.ImportRecord
	for rows.Next() {
		var record models.ImportRecord
		var importedAt string
		if err := rows.Scan(&record.ID, &record.City, &record.Source, &record.Rows, &importedAt); err != nil {
			return nil, fmt.Errorf("failed to scan import: %w", err)
		}
		record.ImportedAt, err = time.Parse(time.RFC3339, importedAt)
		if err != nil {
			return nil, fmt.Errorf("invalid import time for %s: %w", record.ID, err)
		}
		records = append(records, &record)
	}
	return records, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t time.Time) sql.NullString {
	if t.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: t.Format(dataset.TimeLayout), Valid: true}
}
