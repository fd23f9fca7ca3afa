package progress

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"bookshelf/internal/readinglist"
	"bookshelf/internal/shared"
	"bookshelf/pkg/database"
	"bookshelf/pkg/models"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTestService(t *testing.T) (*Service, *sql.DB) {
	t.Helper()
	db := setupDB(t)
	svc := NewService(NewSQLiteStore(db), readinglist.NewSQLiteStore(db), nil, nil)
	return svc, db
}

func countRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}

func listStatus(t *testing.T, db *sql.DB, userID string, bookID int64) string {
	t.Helper()
	e, err := readinglist.NewSQLiteStore(db).Get(context.Background(), userID, bookID)
	if err != nil {
		t.Fatalf("get reading list entry: %v", err)
	}
	return e.Status
}

func TestRecordComputesPercentage(t *testing.T) {
	svc, _ := newTestService(t)

	rec, err := svc.Record(context.Background(), "u1", UpdateInput{BookID: 42, CurrentPage: 50, TotalPages: 200})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if rec.ProgressPercentage != 25.00 {
		t.Errorf("percentage = %v, want 25.00", rec.ProgressPercentage)
	}
	if rec.CurrentPage != 50 || rec.TotalPages != 200 {
		t.Errorf("stored pages = %d/%d, want 50/200", rec.CurrentPage, rec.TotalPages)
	}
}

func TestRecordClampsPercentageKeepsRawPage(t *testing.T) {
	svc, _ := newTestService(t)

	rec, err := svc.Record(context.Background(), "u1", UpdateInput{BookID: 7, CurrentPage: 250, TotalPages: 200})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if rec.ProgressPercentage != 100.00 {
		t.Errorf("percentage = %v, want 100.00 (clamped)", rec.ProgressPercentage)
	}
	// the raw request value is what gets persisted
	if rec.CurrentPage != 250 {
		t.Errorf("stored current_page = %d, want raw 250", rec.CurrentPage)
	}
}

func TestRecordIdempotent(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	in := UpdateInput{BookID: 5, CurrentPage: 30, TotalPages: 120}

	first, err := svc.Record(ctx, "u1", in)
	if err != nil {
		t.Fatalf("first record: %v", err)
	}
	second, err := svc.Record(ctx, "u1", in)
	if err != nil {
		t.Fatalf("second record: %v", err)
	}

	if second.ProgressPercentage != first.ProgressPercentage ||
		second.CurrentPage != first.CurrentPage ||
		second.TotalPages != first.TotalPages {
		t.Errorf("repeat call changed the record: %+v vs %+v", first, second)
	}
	if second.LastReadAt.Before(first.LastReadAt) {
		t.Errorf("last_read_at went backwards: %v -> %v", first.LastReadAt, second.LastReadAt)
	}
	if n := countRows(t, db, "reading_progress"); n != 1 {
		t.Errorf("expected one progress row, got %d", n)
	}
}

func TestLazyReadingListCreation(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Record(ctx, "u1", UpdateInput{BookID: 1, CurrentPage: 10, TotalPages: 100}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if got := listStatus(t, db, "u1", 1); got != models.StatusReading {
		t.Errorf("status = %q, want reading", got)
	}

	if _, err := svc.Record(ctx, "u1", UpdateInput{BookID: 2, CurrentPage: 100, TotalPages: 100}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if got := listStatus(t, db, "u1", 2); got != models.StatusCompleted {
		t.Errorf("status = %q, want completed", got)
	}
}

func TestCompletedIsNeverDemoted(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Record(ctx, "u1", UpdateInput{BookID: 9, CurrentPage: 100, TotalPages: 100}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if got := listStatus(t, db, "u1", 9); got != models.StatusCompleted {
		t.Fatalf("status = %q, want completed", got)
	}

	// re-opening an earlier page must not demote the entry
	if _, err := svc.Record(ctx, "u1", UpdateInput{BookID: 9, CurrentPage: 3, TotalPages: 100}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if got := listStatus(t, db, "u1", 9); got != models.StatusCompleted {
		t.Errorf("status = %q, want completed after demotion attempt", got)
	}
}

func TestRecordValidation(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name   string
		userID string
		in     UpdateInput
	}{
		{"missing book", "u1", UpdateInput{CurrentPage: 10, TotalPages: 100}},
		{"zero current page", "u1", UpdateInput{BookID: 1, CurrentPage: 0, TotalPages: 100}},
		{"negative total", "u1", UpdateInput{BookID: 1, CurrentPage: 10, TotalPages: -5}},
		{"missing identity", "", UpdateInput{BookID: 1, CurrentPage: 10, TotalPages: 100}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Record(ctx, tc.userID, tc.in)
			if !errors.Is(err, shared.ErrValidation) {
				t.Errorf("err = %v, want ErrValidation", err)
			}
		})
	}

	// validation short-circuits before any write
	if n := countRows(t, db, "reading_progress"); n != 0 {
		t.Errorf("progress rows written on invalid input: %d", n)
	}
	if n := countRows(t, db, "reading_list"); n != 0 {
		t.Errorf("reading list rows written on invalid input: %d", n)
	}
}

func TestEndToEndScenario(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	rec, err := svc.Record(ctx, "u1", UpdateInput{BookID: 42, CurrentPage: 50, TotalPages: 200})
	if err != nil {
		t.Fatalf("step 1: %v", err)
	}
	if rec.ProgressPercentage != 25.00 {
		t.Errorf("step 1 percentage = %v, want 25.00", rec.ProgressPercentage)
	}
	if got := listStatus(t, db, "u1", 42); got != models.StatusReading {
		t.Errorf("step 1 status = %q, want reading", got)
	}

	rec, err = svc.Record(ctx, "u1", UpdateInput{BookID: 42, CurrentPage: 200, TotalPages: 200})
	if err != nil {
		t.Fatalf("step 2: %v", err)
	}
	if rec.ProgressPercentage != 100.00 {
		t.Errorf("step 2 percentage = %v, want 100.00", rec.ProgressPercentage)
	}
	if got := listStatus(t, db, "u1", 42); got != models.StatusCompleted {
		t.Errorf("step 2 status = %q, want completed", got)
	}

	rec, err = svc.Record(ctx, "u1", UpdateInput{BookID: 42, CurrentPage: 10, TotalPages: 200})
	if err != nil {
		t.Fatalf("step 3: %v", err)
	}
	if rec.ProgressPercentage != 5.00 {
		t.Errorf("step 3 percentage = %v, want 5.00", rec.ProgressPercentage)
	}
	if got := listStatus(t, db, "u1", 42); got != models.StatusCompleted {
		t.Errorf("step 3 status = %q, want completed", got)
	}
}

// failingLists simulates a broken reading-list store.
type failingLists struct{}

func (failingLists) SyncStatus(context.Context, string, int64, string) error {
	return fmt.Errorf("reading list store is down")
}
func (failingLists) Get(context.Context, string, int64) (models.ReadingListEntry, error) {
	return models.ReadingListEntry{}, fmt.Errorf("reading list store is down")
}
func (failingLists) List(context.Context, string) ([]models.ReadingListEntry, error) {
	return nil, fmt.Errorf("reading list store is down")
}

func TestSyncFailureDoesNotFailRecord(t *testing.T) {
	db := setupDB(t)
	svc := NewService(NewSQLiteStore(db), failingLists{}, nil, nil)

	rec, err := svc.Record(context.Background(), "u1", UpdateInput{BookID: 3, CurrentPage: 10, TotalPages: 40})
	if err != nil {
		t.Fatalf("record must succeed despite sync failure: %v", err)
	}
	if rec.ProgressPercentage != 25.00 {
		t.Errorf("percentage = %v, want 25.00", rec.ProgressPercentage)
	}
	if n := countRows(t, db, "reading_progress"); n != 1 {
		t.Errorf("progress row missing, got %d rows", n)
	}
}

func TestListOrderingAndFilter(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for _, bookID := range []int64{1, 2, 3} {
		if _, err := svc.Record(ctx, "u1", UpdateInput{BookID: bookID, CurrentPage: 1, TotalPages: 10}); err != nil {
			t.Fatalf("record book %d: %v", bookID, err)
		}
	}

	all, err := svc.List(ctx, "u1", 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len = %d, want 3", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].LastReadAt.After(all[i-1].LastReadAt) {
			t.Errorf("records not ordered by last_read_at desc")
		}
	}

	one, err := svc.List(ctx, "u1", 2)
	if err != nil {
		t.Fatalf("filtered list: %v", err)
	}
	if len(one) != 1 || one[0].BookID != 2 {
		t.Errorf("filtered list = %+v, want single record for book 2", one)
	}

	empty, err := svc.List(ctx, "nobody", 0)
	if err != nil {
		t.Fatalf("empty list must not error: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("expected empty result, got %d", len(empty))
	}
}

func TestStorageUnavailable(t *testing.T) {
	svc := NewService(NewSQLiteStore(nil), failingLists{}, nil, nil)

	_, err := svc.Record(context.Background(), "u1", UpdateInput{BookID: 1, CurrentPage: 1, TotalPages: 10})
	if !errors.Is(err, shared.ErrStorageUnavailable) {
		t.Errorf("err = %v, want ErrStorageUnavailable", err)
	}
}
