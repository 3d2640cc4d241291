package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// File persists each key as one JSON file inside a directory. Writes
// go to a temp file first and are renamed into place, so a crashed
// write leaves the previous value intact and readers never see a
// half-written file. A single mutex serializes writers; the store is
// built for one process, and multi-process access is last-write-wins.
type File struct {
	dir string
	mu  sync.Mutex
}

// NewFile creates the data directory if needed and returns the store.
func NewFile(dir string) (*File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &File{dir: dir}, nil
}

// path maps a key onto a file name. Keys are caller-controlled
// constants, but path separators are stripped anyway so a key can
// never escape the data directory.
func (f *File) path(key string) string {
	key = strings.NewReplacer("/", "_", "\\", "_", "..", "_").Replace(key)
	return filepath.Join(f.dir, key+".json")
}

func (f *File) Read(_ context.Context, key string) ([]byte, error) {
	b, err := os.ReadFile(f.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return b, nil
}

func (f *File) Write(_ context.Context, key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	tmp, err := os.CreateTemp(f.dir, filepath.Base(f.path(key))+".*.tmp")
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	name := tmp.Name()
	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		_ = os.Remove(name)
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(name)
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := os.Rename(name, f.path(key)); err != nil {
		_ = os.Remove(name)
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func (f *File) Remove(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	err := os.Remove(f.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
