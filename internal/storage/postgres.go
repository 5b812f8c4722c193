package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/camping-heater-rental/backend/internal/storage/models"
)

// uniqueViolation is the Postgres error code for a unique constraint violation.
const uniqueViolation = "23505"

const postgresSchema = `
CREATE TABLE IF NOT EXISTS rental_applications (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	phone TEXT NOT NULL,
	email TEXT,
	start_date DATE NOT NULL,
	end_date DATE NOT NULL,
	rental_period TEXT NOT NULL,
	additional_requests TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS reserved_dates (
	reserved_date DATE NOT NULL UNIQUE,
	rental_application_id TEXT NOT NULL REFERENCES rental_applications(id)
);

CREATE INDEX IF NOT EXISTS idx_reserved_dates_application
	ON reserved_dates(rental_application_id);
`

// PostgresStore persists rental applications in a Postgres database.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to Postgres, ensures the schema exists and
// returns the store.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing DATABASE_URL: %w", err)
	}
	cfg.MaxConnLifetime = 5 * time.Minute
	cfg.MaxConnIdleTime = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}

	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensuring schema: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// CreateApplication inserts the application and its reserved-date rows
// in a single transaction. The unique constraint on reserved_date is
// the commit-time conflict arbiter, same as the SQLite variant.
func (s *PostgresStore) CreateApplication(ctx context.Context, app *models.RentalApplication) error {
	if app.ID == "" {
		app.ID = GenerateID()
	}
	if app.CreatedAt.IsZero() {
		app.CreatedAt = time.Now().UTC()
	}

	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO rental_applications (
				id, name, phone, email, start_date, end_date, rental_period, additional_requests, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`,
			app.ID, app.Name, app.Phone, app.Email, app.StartDate.String(), app.EndDate.String(),
			app.RentalPeriod, app.AdditionalRequests, app.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("inserting rental application: %w", err)
		}

		for _, day := range app.RentalDays() {
			if _, err := tx.Exec(ctx, `
				INSERT INTO reserved_dates (reserved_date, rental_application_id) VALUES ($1, $2)
			`, day.String(), app.ID); err != nil {
				return fmt.Errorf("reserving %s: %w", day, err)
			}
		}

		return nil
	})

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrDateConflict
		}
		return err
	}

	return nil
}

// Applications lists every rental application, newest start date first.
func (s *PostgresStore) Applications(ctx context.Context) ([]models.RentalApplication, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, phone, email, start_date, end_date, rental_period, additional_requests, created_at
		FROM rental_applications ORDER BY start_date DESC, created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying rental applications: %w", err)
	}
	defer rows.Close()

	var apps []models.RentalApplication
	for rows.Next() {
		app, err := scanPgApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, *app)
	}

	return apps, rows.Err()
}

// Application fetches one rental application by id.
func (s *PostgresStore) Application(ctx context.Context, id string) (*models.RentalApplication, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, name, phone, email, start_date, end_date, rental_period, additional_requests, created_at
		FROM rental_applications WHERE id = $1
	`, id)

	app, err := scanPgApplication(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return app, nil
}

func scanPgApplication(row pgx.Row) (*models.RentalApplication, error) {
	app := &models.RentalApplication{}
	var start, end time.Time
	err := row.Scan(
		&app.ID, &app.Name, &app.Phone, &app.Email, &start, &end,
		&app.RentalPeriod, &app.AdditionalRequests, &app.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scanning rental application: %w", err)
	}
	app.StartDate = models.DateOf(start)
	app.EndDate = models.DateOf(end)
	return app, nil
}

// ReservedDates lists reserved days in ascending order, optionally
// bounded on either side.
func (s *PostgresStore) ReservedDates(ctx context.Context, from, to models.Date) ([]models.ReservedDate, error) {
	query := `SELECT reserved_date, rental_application_id FROM reserved_dates WHERE true`
	var args []any

	if !from.IsZero() {
		args = append(args, from.String())
		query += fmt.Sprintf(" AND reserved_date >= $%d", len(args))
	}
	if !to.IsZero() {
		args = append(args, to.String())
		query += fmt.Sprintf(" AND reserved_date <= $%d", len(args))
	}

	query += " ORDER BY reserved_date"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying reserved dates: %w", err)
	}
	defer rows.Close()

	var dates []models.ReservedDate
	for rows.Next() {
		var day time.Time
		var d models.ReservedDate
		if err := rows.Scan(&day, &d.ApplicationID); err != nil {
			return nil, fmt.Errorf("scanning reserved date: %w", err)
		}
		d.Date = models.DateOf(day)
		dates = append(dates, d)
	}

	return dates, rows.Err()
}

// IsRangeAvailable reports whether no day of [start, end] is reserved.
func (s *PostgresStore) IsRangeAvailable(ctx context.Context, start, end models.Date) (bool, error) {
	var count int
	err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM reserved_dates
		WHERE reserved_date >= $1 AND reserved_date <= $2
	`, start.String(), end.String()).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking availability: %w", err)
	}

	return count == 0, nil
}

// Ping verifies the database connection.
func (s *PostgresStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// Close closes the connection pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
