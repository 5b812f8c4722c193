package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/camping-heater-rental/backend/internal/storage/models"
)

// MemoryStore keeps applications and reserved dates in process memory.
// Used by tests and as a zero-setup backend for local development. The
// mutex is held across the availability check and the range commit, so
// concurrent submissions are linearized the same way the relational
// variants linearize through their uniqueness constraint.
type MemoryStore struct {
	mu       sync.RWMutex
	apps     map[string]models.RentalApplication
	reserved map[string]string // YYYY-MM-DD -> owning application id
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		apps:     make(map[string]models.RentalApplication),
		reserved: make(map[string]string),
	}
}

// CreateApplication claims the application's full range and stores the
// record, or returns ErrDateConflict leaving the store untouched.
func (s *MemoryStore) CreateApplication(ctx context.Context, app *models.RentalApplication) error {
	if app.ID == "" {
		app.ID = GenerateID()
	}
	if app.CreatedAt.IsZero() {
		app.CreatedAt = time.Now().UTC()
	}

	days := app.RentalDays()

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, day := range days {
		if _, taken := s.reserved[day.String()]; taken {
			return ErrDateConflict
		}
	}

	for _, day := range days {
		s.reserved[day.String()] = app.ID
	}
	s.apps[app.ID] = *app

	return nil
}

// Applications lists every rental application, newest start date first.
func (s *MemoryStore) Applications(ctx context.Context) ([]models.RentalApplication, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	apps := make([]models.RentalApplication, 0, len(s.apps))
	for _, app := range s.apps {
		apps = append(apps, app)
	}

	sort.Slice(apps, func(i, j int) bool {
		if !apps[i].StartDate.Equal(apps[j].StartDate) {
			return apps[j].StartDate.Before(apps[i].StartDate)
		}
		return apps[j].CreatedAt.Before(apps[i].CreatedAt)
	})

	return apps, nil
}

// Application fetches one rental application by id.
func (s *MemoryStore) Application(ctx context.Context, id string) (*models.RentalApplication, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	app, ok := s.apps[id]
	if !ok {
		return nil, nil
	}
	return &app, nil
}

// ReservedDates lists reserved days in ascending order, optionally
// bounded on either side.
func (s *MemoryStore) ReservedDates(ctx context.Context, from, to models.Date) ([]models.ReservedDate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var dates []models.ReservedDate
	for key, owner := range s.reserved {
		day, err := models.ParseDate(key)
		if err != nil {
			return nil, err
		}
		if !from.IsZero() && day.Before(from) {
			continue
		}
		if !to.IsZero() && day.After(to) {
			continue
		}
		dates = append(dates, models.ReservedDate{Date: day, ApplicationID: owner})
	}

	sort.Slice(dates, func(i, j int) bool {
		return dates[i].Date.Before(dates[j].Date)
	})

	return dates, nil
}

// IsRangeAvailable reports whether no day of [start, end] is reserved.
func (s *MemoryStore) IsRangeAvailable(ctx context.Context, start, end models.Date) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, day := range models.ExpandRange(start, end) {
		if _, taken := s.reserved[day.String()]; taken {
			return false, nil
		}
	}

	return true, nil
}

// Ping always succeeds for the in-memory store.
func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}
