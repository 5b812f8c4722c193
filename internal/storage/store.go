// Package storage provides the persistence backends for rental
// applications and their reserved dates.
package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/camping-heater-rental/backend/internal/storage/models"
)

// ErrDateConflict is returned when a reservation attempt intersects a
// date that is already taken. It is the authoritative conflict signal:
// relational backends surface it from the uniqueness constraint on the
// reserved date column at commit time.
var ErrDateConflict = errors.New("requested dates are already reserved")

// Store is the storage contract shared by all backend variants. Only
// persistence mechanics differ between implementations; the reservation
// invariant (one owner per date, all-or-nothing range commits) holds
// for every variant.
type Store interface {
	// CreateApplication persists the application together with one
	// reserved-date entry per day of its inclusive range, as a single
	// atomic commit. Returns ErrDateConflict, with nothing written,
	// when any day in the range is already taken.
	CreateApplication(ctx context.Context, app *models.RentalApplication) error

	// Applications lists every application, newest start date first.
	Applications(ctx context.Context) ([]models.RentalApplication, error)

	// Application fetches one application by id, or (nil, nil) when absent.
	Application(ctx context.Context, id string) (*models.RentalApplication, error)

	// ReservedDates lists reserved days in ascending order. A zero from
	// or to leaves that side of the range unbounded.
	ReservedDates(ctx context.Context, from, to models.Date) ([]models.ReservedDate, error)

	// IsRangeAvailable reports whether no day of [start, end] is
	// reserved. Read-only fast path; the commit in CreateApplication
	// remains the source of truth under concurrency.
	IsRangeAvailable(ctx context.Context, start, end models.Date) (bool, error)

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases any resources held by the store.
	Close() error
}

// GenerateID creates a new unique application id.
func GenerateID() string {
	return uuid.NewString()
}
