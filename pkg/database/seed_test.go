package database

import (
	"testing"

	"bookshelf/pkg/models"
)

func TestSeedBooksIsIdempotent(t *testing.T) {
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()
	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	books := []models.Book{
		{Title: "Dune", Author: "Frank Herbert", TotalPages: 412},
		{Title: "Neuromancer", Author: "William Gibson", TotalPages: 271},
	}

	n, err := SeedBooks(db, books)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if n != 2 {
		t.Errorf("inserted = %d, want 2", n)
	}

	n, err = SeedBooks(db, books)
	if err != nil {
		t.Fatalf("re-seed: %v", err)
	}
	if n != 0 {
		t.Errorf("re-seed inserted = %d, want 0", n)
	}
}
