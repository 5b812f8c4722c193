package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/camping-heater-rental/backend/internal/storage/models"
)

// SQLiteStore persists rental applications in a SQLite database.
type SQLiteStore struct {
	db *DB
}

// NewSQLiteStore creates a store backed by the given database.
func NewSQLiteStore(db *DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// CreateApplication inserts the application row and every reserved-date
// row of its range in one transaction. The UNIQUE constraint on
// reserved_dates.reserved_date decides conflicts at commit time, so
// two concurrent submissions for overlapping ranges can never both
// succeed: one transaction hits the constraint and rolls back whole.
func (s *SQLiteStore) CreateApplication(ctx context.Context, app *models.RentalApplication) error {
	if app.ID == "" {
		app.ID = GenerateID()
	}
	if app.CreatedAt.IsZero() {
		app.CreatedAt = time.Now().UTC()
	}

	err := s.db.Transaction(func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO rental_applications (
				id, name, phone, email, start_date, end_date, rental_period, additional_requests, created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			app.ID, app.Name, app.Phone, app.Email, app.StartDate, app.EndDate,
			app.RentalPeriod, app.AdditionalRequests, app.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("inserting rental application: %w", err)
		}

		return reserveRange(ctx, tx, app.StartDate, app.EndDate, app.ID)
	})

	if err != nil {
		if isUniqueViolation(err) {
			return ErrDateConflict
		}
		return err
	}

	return nil
}

// reserveRange claims every day of [start, end] for the owning
// application inside the caller's transaction. A uniqueness violation
// on any day aborts the transaction, leaving no partial range.
func reserveRange(ctx context.Context, tx *sql.Tx, start, end models.Date, ownerID string) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO reserved_dates (reserved_date, rental_application_id) VALUES (?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing reservation insert: %w", err)
	}
	defer stmt.Close()

	for _, day := range models.ExpandRange(start, end) {
		if _, err := stmt.ExecContext(ctx, day, ownerID); err != nil {
			return fmt.Errorf("reserving %s: %w", day, err)
		}
	}

	return nil
}

// isUniqueViolation reports whether err stems from the uniqueness
// constraint on the reserved date column.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

const applicationColumns = `id, name, phone, email, start_date, end_date, rental_period, additional_requests, created_at`

// Applications lists every rental application, newest start date first.
func (s *SQLiteStore) Applications(ctx context.Context) ([]models.RentalApplication, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+applicationColumns+`
		FROM rental_applications ORDER BY start_date DESC, created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying rental applications: %w", err)
	}
	defer rows.Close()

	var apps []models.RentalApplication
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, *app)
	}

	return apps, rows.Err()
}

// Application fetches one rental application by id.
func (s *SQLiteStore) Application(ctx context.Context, id string) (*models.RentalApplication, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+applicationColumns+`
		FROM rental_applications WHERE id = ?
	`, id)

	app, err := scanApplication(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return app, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanApplication(row rowScanner) (*models.RentalApplication, error) {
	app := &models.RentalApplication{}
	err := row.Scan(
		&app.ID, &app.Name, &app.Phone, &app.Email, &app.StartDate, &app.EndDate,
		&app.RentalPeriod, &app.AdditionalRequests, &app.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scanning rental application: %w", err)
	}
	return app, nil
}

// ReservedDates lists reserved days in ascending order, optionally
// bounded on either side.
func (s *SQLiteStore) ReservedDates(ctx context.Context, from, to models.Date) ([]models.ReservedDate, error) {
	query := `SELECT reserved_date, rental_application_id FROM reserved_dates WHERE 1=1`
	var args []any

	if !from.IsZero() {
		query += " AND reserved_date >= ?"
		args = append(args, from)
	}
	if !to.IsZero() {
		query += " AND reserved_date <= ?"
		args = append(args, to)
	}

	query += " ORDER BY reserved_date"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying reserved dates: %w", err)
	}
	defer rows.Close()

	var dates []models.ReservedDate
	for rows.Next() {
		var d models.ReservedDate
		if err := rows.Scan(&d.Date, &d.ApplicationID); err != nil {
			return nil, fmt.Errorf("scanning reserved date: %w", err)
		}
		dates = append(dates, d)
	}

	return dates, rows.Err()
}

// IsRangeAvailable reports whether no day of [start, end] is reserved.
func (s *SQLiteStore) IsRangeAvailable(ctx context.Context, start, end models.Date) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM reserved_dates
		WHERE reserved_date >= ? AND reserved_date <= ?
	`, start, end).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking availability: %w", err)
	}

	return count == 0, nil
}

// Ping verifies the database connection.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
