// package assets stores uploaded book files behind a narrow interface so
// the backing object store can be swapped at process startup.
package assets

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"bookshelf/internal/shared"
)

type Store interface {
	// Save writes the content under a generated name and returns that name.
	// origName only contributes its extension.
	Save(origName string, r io.Reader) (string, error)
	// Open returns the stored content for a previously returned name.
	Open(name string) (io.ReadCloser, error)
}

// DiskStore keeps assets as flat files under a root directory.
type DiskStore struct {
	root string
}

func NewDiskStore(root string) (*DiskStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create asset dir: %w", err)
	}
	return &DiskStore{root: root}, nil
}

func (s *DiskStore) Save(origName string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(origName))
	name := shared.GenerateID() + ext

	f, err := os.Create(filepath.Join(s.root, name))
	if err != nil {
		return "", fmt.Errorf("create asset: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("write asset: %w", err)
	}
	return name, nil
}

func (s *DiskStore) Open(name string) (io.ReadCloser, error) {
	// stored names are uuid+ext; reject anything path-like
	if name == "" || name != filepath.Base(name) {
		return nil, shared.ErrNotFound
	}
	f, err := os.Open(filepath.Join(s.root, name))
	if os.IsNotExist(err) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("open asset: %w", err)
	}
	return f, nil
}
