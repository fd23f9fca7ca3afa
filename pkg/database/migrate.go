package database

import (
	"database/sql"
	"fmt"
)

func Migrate(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			username TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS books (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			author TEXT,
			total_pages INTEGER NOT NULL DEFAULT 0,
			file_name TEXT,
			uploaded_by TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS reading_progress (
			user_id TEXT NOT NULL,
			book_id INTEGER NOT NULL,
			current_page INTEGER NOT NULL,
			total_pages INTEGER NOT NULL,
			progress_percentage REAL NOT NULL,
			last_read_at TIMESTAMP NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (user_id, book_id)
		);`,
		`CREATE TABLE IF NOT EXISTS reading_list (
			user_id TEXT NOT NULL,
			book_id INTEGER NOT NULL,
			status TEXT NOT NULL DEFAULT 'to_read'
				CHECK (status IN ('to_read','reading','completed')),
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (user_id, book_id)
		);`,
	}

	for i, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return fmt.Errorf("migrate stmt %d: %w", i, err)
		}
	}
	return nil
}
