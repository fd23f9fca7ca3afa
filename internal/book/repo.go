package book

import (
	"database/sql"
	"fmt"

	"bookshelf/internal/shared"
	"bookshelf/pkg/models"
)

// Create inserts a catalog entry and returns it with the assigned ID.
func Create(db *sql.DB, b models.Book) (models.Book, error) {
	res, err := db.Exec(`INSERT INTO books(title, author, total_pages, file_name, uploaded_by) VALUES(?,?,?,?,?)`,
		b.Title, b.Author, b.TotalPages, b.FileName, b.UploadedBy)
	if err != nil {
		return models.Book{}, fmt.Errorf("insert book: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Book{}, fmt.Errorf("book insert id: %w", err)
	}
	b.ID = id
	return b, nil
}

func GetByID(db *sql.DB, id int64) (models.Book, error) {
	var b models.Book
	var fileName, uploadedBy sql.NullString
	err := db.QueryRow(`SELECT id, title, author, total_pages, file_name, uploaded_by, created_at FROM books WHERE id = ?`, id).
		Scan(&b.ID, &b.Title, &b.Author, &b.TotalPages, &fileName, &uploadedBy, &b.CreatedAt)
	if err == sql.ErrNoRows {
		return models.Book{}, shared.ErrNotFound
	}
	if err != nil {
		return models.Book{}, fmt.Errorf("query book: %w", err)
	}
	b.FileName = fileName.String
	b.UploadedBy = uploadedBy.String
	return b, nil
}

// Search matches title or author against q. Empty q lists everything,
// newest first.
func Search(db *sql.DB, q string, limit, offset int) ([]models.Book, error) {
	sqlQ := `SELECT id, title, author, total_pages, file_name, uploaded_by, created_at
	         FROM books WHERE 1=1`
	args := []any{}

	if q != "" {
		sqlQ += " AND (title LIKE ? OR author LIKE ?)"
		args = append(args, "%"+q+"%", "%"+q+"%")
	}
	sqlQ += " ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := db.Query(sqlQ, args...)
	if err != nil {
		return nil, fmt.Errorf("search books: %w", err)
	}
	defer rows.Close()

	var res []models.Book
	for rows.Next() {
		var b models.Book
		var fileName, uploadedBy sql.NullString
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.TotalPages, &fileName, &uploadedBy, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		b.FileName = fileName.String
		b.UploadedBy = uploadedBy.String
		res = append(res, b)
	}
	return res, rows.Err()
}
