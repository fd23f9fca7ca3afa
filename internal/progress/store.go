package progress

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"bookshelf/internal/shared"
	"bookshelf/pkg/models"
)

// Store is the persistence contract for progress records. Upsert must be
// atomic per (user, book) key: concurrent writers for the same key
// serialize at the store and the later commit wins.
type Store interface {
	Upsert(ctx context.Context, rec models.ProgressRecord) error
	// Fetch returns a user's records newest-read first; bookID > 0
	// narrows to one book.
	Fetch(ctx context.Context, userID string, bookID int64) ([]models.ProgressRecord, error)
}

// SQLiteStore implements Store over the reading_progress table using an
// ON CONFLICT upsert on the composite primary key.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Upsert(ctx context.Context, rec models.ProgressRecord) error {
	if s.db == nil {
		return shared.ErrStorageUnavailable
	}
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
	INSERT INTO reading_progress(user_id, book_id, current_page, total_pages, progress_percentage, last_read_at, created_at, updated_at)
	VALUES(?,?,?,?,?,?,?,?)
	ON CONFLICT(user_id, book_id)
	DO UPDATE SET current_page=excluded.current_page,
	              total_pages=excluded.total_pages,
	              progress_percentage=excluded.progress_percentage,
	              last_read_at=excluded.last_read_at,
	              updated_at=excluded.updated_at
	`, rec.UserID, rec.BookID, rec.CurrentPage, rec.TotalPages, rec.ProgressPercentage, now, now, now)
	if err != nil {
		return fmt.Errorf("upsert progress: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Fetch(ctx context.Context, userID string, bookID int64) ([]models.ProgressRecord, error) {
	if s.db == nil {
		return nil, shared.ErrStorageUnavailable
	}
	q := `SELECT user_id, book_id, current_page, total_pages, progress_percentage, last_read_at, created_at, updated_at
	      FROM reading_progress WHERE user_id = ?`
	args := []any{userID}
	if bookID > 0 {
		q += " AND book_id = ?"
		args = append(args, bookID)
	}
	q += " ORDER BY last_read_at DESC"

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("fetch progress: %w", err)
	}
	defer rows.Close()

	var res []models.ProgressRecord
	for rows.Next() {
		var r models.ProgressRecord
		if err := rows.Scan(&r.UserID, &r.BookID, &r.CurrentPage, &r.TotalPages,
			&r.ProgressPercentage, &r.LastReadAt, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan progress: %w", err)
		}
		res = append(res, r)
	}
	return res, rows.Err()
}
