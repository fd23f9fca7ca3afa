package book

import (
	"database/sql"
	"errors"
	"testing"

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

func TestCreateAndGet(t *testing.T) {
	db := setupDB(t)

	created, err := Create(db, models.Book{Title: "Dune", Author: "Frank Herbert", TotalPages: 412})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID <= 0 {
		t.Fatalf("no id assigned: %+v", created)
	}

	got, err := GetByID(db, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "Dune" || got.TotalPages != 412 {
		t.Errorf("got %+v", got)
	}
}

func TestGetMissing(t *testing.T) {
	db := setupDB(t)
	_, err := GetByID(db, 12345)
	if !errors.Is(err, shared.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestSearch(t *testing.T) {
	db := setupDB(t)
	for _, b := range []models.Book{
		{Title: "Dune", Author: "Frank Herbert", TotalPages: 412},
		{Title: "Dune Messiah", Author: "Frank Herbert", TotalPages: 256},
		{Title: "Neuromancer", Author: "William Gibson", TotalPages: 271},
	} {
		if _, err := Create(db, b); err != nil {
			t.Fatalf("create %q: %v", b.Title, err)
		}
	}

	res, err := Search(db, "Dune", 20, 0)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(res) != 2 {
		t.Errorf("len = %d, want 2", len(res))
	}

	res, err = Search(db, "Gibson", 20, 0)
	if err != nil {
		t.Fatalf("search by author: %v", err)
	}
	if len(res) != 1 || res[0].Title != "Neuromancer" {
		t.Errorf("author search = %+v", res)
	}

	res, err = Search(db, "", 2, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(res) != 2 {
		t.Errorf("limit not applied, len = %d", len(res))
	}
}
