package models

import "time"

// Reading-list statuses. Only "reading" and "completed" are ever derived
// from progress; "to_read" exists as the pre-progress default.
const (
	StatusToRead    = "to_read"
	StatusReading   = "reading"
	StatusCompleted = "completed"
)

// users table
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// books table
type Book struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Author     string    `json:"author"`
	TotalPages int64     `json:"total_pages"`
	FileName   string    `json:"file_name,omitempty"`
	UploadedBy string    `json:"uploaded_by,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// reading_progress table, one row per (user, book). The percentage is
// recomputed server-side on every write and never trusted from input.
type ProgressRecord struct {
	UserID             string    `json:"user_id"`
	BookID             int64     `json:"book_id"`
	CurrentPage        int64     `json:"current_page"`
	TotalPages         int64     `json:"total_pages"`
	ProgressPercentage float64   `json:"progress_percentage"`
	LastReadAt         time.Time `json:"last_read_at"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// reading_list table, one row per (user, book).
type ReadingListEntry struct {
	UserID    string    `json:"user_id"`
	BookID    int64     `json:"book_id"`
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProgressUpdate is the event fanned out to websocket feed clients after
// a progress write commits.
type ProgressUpdate struct {
	UserID      string  `json:"user_id"`
	BookID      int64   `json:"book_id"`
	CurrentPage int64   `json:"current_page"`
	Percentage  float64 `json:"percentage"`
	Status      string  `json:"status"`
	Timestamp   int64   `json:"timestamp"`
}
