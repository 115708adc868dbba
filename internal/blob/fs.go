package blob

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// FSStore stores one file per id in a flat directory. Writes go to a temp
// file in the same directory, are fsynced, and then renamed into place, so a
// crash mid-write never leaves a readable partial object under a valid id.
type FSStore struct {
	dir string
}

var _ Store = (*FSStore)(nil)

// NewFSStore creates the directory if needed and returns a store over it.
func NewFSStore(dir string) (*FSStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("blob directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create blob directory: %w", err)
	}
	return &FSStore{dir: dir}, nil
}

func (s *FSStore) path(id string) string {
	return filepath.Join(s.dir, id)
}

// Put writes the object under id. An existing object is replaced atomically,
// though callers never reuse ids in practice.
func (s *FSStore) Put(ctx context.Context, id string, r io.Reader) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.dir, "put-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return fmt.Errorf("write blob %s: %w", id, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync blob %s: %w", id, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close blob %s: %w", id, err)
	}
	if err := os.Rename(tmp.Name(), s.path(id)); err != nil {
		return fmt.Errorf("rename blob %s: %w", id, err)
	}
	return nil
}

func (s *FSStore) Open(ctx context.Context, id string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.path(id))
	if os.IsNotExist(err) {
		return nil, ErrNotExist
	}
	if err != nil {
		return nil, fmt.Errorf("open blob %s: %w", id, err)
	}
	return f, nil
}

func (s *FSStore) Exists(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	_, err := os.Stat(s.path(id))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat blob %s: %w", id, err)
	}
	return true, nil
}

func (s *FSStore) Close() error { return nil }
