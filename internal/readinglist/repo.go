// package readinglist persists the derived per-user book status. Rows are
// created lazily by the first progress update; progress-driven writes
// never demote a completed entry.
package readinglist

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"bookshelf/internal/shared"
	"bookshelf/pkg/models"
)

type Store interface {
	// SyncStatus inserts the entry with the derived status, or advances an
	// existing one under the forward-only policy.
	SyncStatus(ctx context.Context, userID string, bookID int64, derived string) error
	Get(ctx context.Context, userID string, bookID int64) (models.ReadingListEntry, error)
	List(ctx context.Context, userID string) ([]models.ReadingListEntry, error)
}

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) SyncStatus(ctx context.Context, userID string, bookID int64, derived string) error {
	if s.db == nil {
		return shared.ErrStorageUnavailable
	}
	// The WHERE guard keeps the transition forward-only atomically, so
	// concurrent updates cannot demote a completed entry.
	_, err := s.db.ExecContext(ctx, `
	INSERT INTO reading_list(user_id, book_id, status, updated_at)
	VALUES(?,?,?,?)
	ON CONFLICT(user_id, book_id)
	DO UPDATE SET status=excluded.status,
	              updated_at=excluded.updated_at
	WHERE reading_list.status <> 'completed'
	`, userID, bookID, derived, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("sync reading list: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, userID string, bookID int64) (models.ReadingListEntry, error) {
	var e models.ReadingListEntry
	err := s.db.QueryRowContext(ctx,
		`SELECT user_id, book_id, status, updated_at FROM reading_list WHERE user_id = ? AND book_id = ?`,
		userID, bookID).Scan(&e.UserID, &e.BookID, &e.Status, &e.UpdatedAt)
	if err == sql.ErrNoRows {
		return models.ReadingListEntry{}, shared.ErrNotFound
	}
	if err != nil {
		return models.ReadingListEntry{}, fmt.Errorf("query reading list: %w", err)
	}
	return e, nil
}

func (s *SQLiteStore) List(ctx context.Context, userID string) ([]models.ReadingListEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, book_id, status, updated_at FROM reading_list WHERE user_id = ? ORDER BY updated_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list reading list: %w", err)
	}
	defer rows.Close()

	var res []models.ReadingListEntry
	for rows.Next() {
		var e models.ReadingListEntry
		if err := rows.Scan(&e.UserID, &e.BookID, &e.Status, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan reading list: %w", err)
		}
		res = append(res, e)
	}
	return res, rows.Err()
}
