package storage

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/camping-heater-rental/backend/internal/storage/models"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()

	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	if err := RunMigrations(db); err != nil {
		t.Fatalf("running migrations: %v", err)
	}

	store := NewSQLiteStore(db)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestSQLiteStore(t)

	email := "hong@example.com"
	requests := "장갑도 같이 빌려주세요"
	app := testApp("홍길동", date(t, "2025-12-24"), date(t, "2025-12-26"))
	app.Email = &email
	app.AdditionalRequests = &requests

	if err := store.CreateApplication(ctx, app); err != nil {
		t.Fatalf("CreateApplication failed: %v", err)
	}

	got, err := store.Application(ctx, app.ID)
	if err != nil {
		t.Fatalf("Application failed: %v", err)
	}
	if got == nil {
		t.Fatal("application not found after create")
	}
	if got.Name != "홍길동" || got.Phone != "010-1234-5678" {
		t.Errorf("contact fields mismatch: %+v", got)
	}
	if got.Email == nil || *got.Email != email {
		t.Errorf("email mismatch: %v", got.Email)
	}
	if got.AdditionalRequests == nil || *got.AdditionalRequests != requests {
		t.Errorf("additional requests mismatch: %v", got.AdditionalRequests)
	}
	if got.StartDate.String() != "2025-12-24" || got.EndDate.String() != "2025-12-26" {
		t.Errorf("date range mismatch: %s..%s", got.StartDate, got.EndDate)
	}

	reserved, err := store.ReservedDates(ctx, models.Date{}, models.Date{})
	if err != nil {
		t.Fatalf("ReservedDates failed: %v", err)
	}
	if len(reserved) != 3 {
		t.Fatalf("expected 3 reserved dates, got %d", len(reserved))
	}
	for _, d := range reserved {
		if d.ApplicationID != app.ID {
			t.Errorf("reserved date %s owned by %s, want %s", d.Date, d.ApplicationID, app.ID)
		}
	}
}

func TestSQLiteStoreUniqueConstraintIsConflictSignal(t *testing.T) {
	ctx := context.Background()
	store := newTestSQLiteStore(t)

	if err := store.CreateApplication(ctx, testApp("first", date(t, "2025-12-01"), date(t, "2025-12-03"))); err != nil {
		t.Fatalf("first reservation failed: %v", err)
	}

	// The overlapping insert must hit the uniqueness constraint on
	// reserved_date and roll back the whole transaction.
	err := store.CreateApplication(ctx, testApp("second", date(t, "2025-12-03"), date(t, "2025-12-05")))
	if !errors.Is(err, ErrDateConflict) {
		t.Fatalf("expected ErrDateConflict, got %v", err)
	}

	apps, err := store.Applications(ctx)
	if err != nil {
		t.Fatalf("Applications failed: %v", err)
	}
	if len(apps) != 1 {
		t.Errorf("rolled-back application persisted: %d applications", len(apps))
	}

	reserved, err := store.ReservedDates(ctx, models.Date{}, models.Date{})
	if err != nil {
		t.Fatalf("ReservedDates failed: %v", err)
	}
	if len(reserved) != 3 {
		t.Errorf("expected 3 reserved dates after rollback, got %d", len(reserved))
	}

	// Adjacent range with no shared date still goes through.
	if err := store.CreateApplication(ctx, testApp("adjacent", date(t, "2025-12-04"), date(t, "2025-12-06"))); err != nil {
		t.Errorf("adjacent reservation failed: %v", err)
	}
}

func TestSQLiteStoreConcurrentOverlappingSubmissions(t *testing.T) {
	ctx := context.Background()
	store := newTestSQLiteStore(t)

	results := make([]error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			app := testApp("contender", date(t, "2026-01-01"), date(t, "2026-01-03"))
			results[i] = store.CreateApplication(ctx, app)
		}(i)
	}
	wg.Wait()

	var wins, conflicts int
	for _, err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, ErrDateConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if wins != 1 || conflicts != 1 {
		t.Fatalf("expected exactly one winner and one conflict, got %d/%d", wins, conflicts)
	}

	reserved, err := store.ReservedDates(ctx, models.Date{}, models.Date{})
	if err != nil {
		t.Fatalf("ReservedDates failed: %v", err)
	}
	if len(reserved) != 3 {
		t.Errorf("expected exactly the winner's 3 dates, got %d", len(reserved))
	}
}

func TestSQLiteStoreBoundedReservedDates(t *testing.T) {
	ctx := context.Background()
	store := newTestSQLiteStore(t)

	if err := store.CreateApplication(ctx, testApp("a", date(t, "2026-02-01"), date(t, "2026-02-03"))); err != nil {
		t.Fatalf("reservation failed: %v", err)
	}
	if err := store.CreateApplication(ctx, testApp("b", date(t, "2026-02-10"), date(t, "2026-02-11"))); err != nil {
		t.Fatalf("reservation failed: %v", err)
	}

	reserved, err := store.ReservedDates(ctx, date(t, "2026-02-03"), date(t, "2026-02-10"))
	if err != nil {
		t.Fatalf("ReservedDates failed: %v", err)
	}
	if len(reserved) != 2 {
		t.Fatalf("bounded query: expected 2 dates, got %v", reserved)
	}
	if reserved[0].Date.String() != "2026-02-03" || reserved[1].Date.String() != "2026-02-10" {
		t.Errorf("bounded query returned wrong dates: %v", reserved)
	}
}
