package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"

	"bookshelf/pkg/models"
)

func LoadBooksFromJSON(jsonPath string) ([]models.Book, error) {
	b, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("read books json: %w", err)
	}

	var list []models.Book
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, fmt.Errorf("unmarshal books json: %w", err)
	}

	return list, nil
}

// SeedBooks inserts catalog entries that are not already present, keyed by
// (title, author). Returns the number of rows actually inserted.
func SeedBooks(db *sql.DB, books []models.Book) (int, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`
		INSERT INTO books (title, author, total_pages)
		SELECT ?, ?, ?
		WHERE NOT EXISTS (SELECT 1 FROM books WHERE title = ? AND author = ?);
	`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert book: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, b := range books {
		res, err := stmt.Exec(b.Title, b.Author, b.TotalPages, b.Title, b.Author)
		if err != nil {
			return 0, fmt.Errorf("insert book %q: %w", b.Title, err)
		}
		aff, _ := res.RowsAffected()
		if aff > 0 {
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit tx: %w", err)
	}
	return inserted, nil
}
