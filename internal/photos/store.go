package photos

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/google/uuid"
)

// FileStore persists uploaded image bytes. Locations returned by Save are
// relative paths suitable for the static file route.
type FileStore interface {
	Save(ext string, r io.Reader) (location string, err error)
	Remove(location string) error
}

// DiskStore writes uploads under a single directory with random names, so
// concurrent uploads of identically named files never collide.
type DiskStore struct {
	dir string
}

func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &DiskStore{dir: dir}, nil
}

func (s *DiskStore) Save(ext string, r io.Reader) (string, error) {
	name := uuid.NewString() + ext
	f, err := os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return path.Join("uploads", name), nil
}

// Remove deletes the stored file. Missing files are not an error so record
// deletion stays idempotent.
func (s *DiskStore) Remove(location string) error {
	name := path.Base(location)
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
