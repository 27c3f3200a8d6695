package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"resume-assistant/internal/shared/storage/object"
)

// Store keeps resume files under a directory on the local disk.
type Store struct {
	root string
}

func New(root string) *Store {
	return &Store{root: root}
}

func (s *Store) Save(ctx context.Context, owner string, fileName string, r io.Reader) (string, int64, string, error) {
	up, err := object.PrepareUpload(ctx, owner, fileName, r)
	if err != nil {
		return "", 0, "", err
	}
	n, err := s.writeFile(up.Key, up.Body)
	if err != nil {
		return "", 0, "", err
	}
	return up.Key, n, up.MimeType, nil
}

// SaveWithKey ignores contentType; the filesystem does not keep one.
func (s *Store) SaveWithKey(ctx context.Context, storageKey string, _ string, r io.Reader) (int64, error) {
	if err := object.CheckKey(ctx, storageKey); err != nil {
		return 0, err
	}
	return s.writeFile(storageKey, r)
}

func (s *Store) Open(ctx context.Context, storageKey string) (io.ReadCloser, error) {
	if err := object.CheckKey(ctx, storageKey); err != nil {
		return nil, err
	}
	f, err := os.Open(s.path(storageKey))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", object.ErrNotFound, storageKey)
	}
	return f, err
}

// writeFile writes through a temp file in the target directory and renames it
// into place, so readers never observe a partial object.
func (s *Store) writeFile(storageKey string, r io.Reader) (int64, error) {
	dst := s.path(storageKey)
	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("create dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, r)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return 0, fmt.Errorf("write %s: %w", storageKey, err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return 0, fmt.Errorf("rename into %s: %w", storageKey, err)
	}
	return n, nil
}

func (s *Store) path(storageKey string) string {
	return filepath.Join(s.root, filepath.FromSlash(filepath.Clean(storageKey)))
}

var _ object.ObjectStore = (*Store)(nil)
