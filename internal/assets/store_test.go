package assets

import (
	"errors"
	"io"
	"strings"
	"testing"

	"bookshelf/internal/shared"
)

func TestSaveOpenRoundTrip(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	name, err := store.Save("My Book.EPUB", strings.NewReader("content"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !strings.HasSuffix(name, ".epub") {
		t.Errorf("name = %q, want .epub suffix", name)
	}

	rc, err := store.Open(name)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rc.Close()
	b, _ := io.ReadAll(rc)
	if string(b) != "content" {
		t.Errorf("content = %q", b)
	}
}

func TestOpenRejectsPaths(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"", "../secret", "a/b.epub"} {
		if _, err := store.Open(name); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("Open(%q) err = %v, want ErrNotFound", name, err)
		}
	}
}
