// Package filestore keeps one JSON file per collection under a base
// directory.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"
)

type Store struct {
	fs  afero.Fs
	dir string
	mu  sync.Mutex
}

// New returns a store rooted at dir on fsys. Use afero.NewOsFs for disk.
func New(fsys afero.Fs, dir string) (*Store, error) {
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &Store{fs: fsys, dir: dir}, nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, url.PathEscape(name)+".json")
}

func (s *Store) Load(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := afero.ReadFile(s.fs, s.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read collection %s: %w", name, err)
	}
	return b, nil
}

// Save writes to a temporary file and renames it over the collection.
func (s *Store) Save(ctx context.Context, name string, records []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	target := s.path(name)
	tmp := target + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, records, 0o644); err != nil {
		return fmt.Errorf("write collection %s: %w", name, err)
	}
	if err := s.fs.Rename(tmp, target); err != nil {
		_ = s.fs.Remove(tmp)
		return fmt.Errorf("replace collection %s: %w", name, err)
	}
	return nil
}
