package kv

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Store is a durable key/value area backed by one file per key under a data
// directory. Set replaces the whole value atomically (write to a temp file,
// then rename), so readers never observe a partial write.
type Store struct {
	mu  sync.RWMutex
	dir string
}

// Open prepares the data directory and returns a store.
func Open(dir string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("kv: data dir is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("kv: mkdir %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) path(key string) string {
	// keys are fixed identifiers chosen by callers; keep filenames flat
	return filepath.Join(s.dir, strings.ReplaceAll(key, string(os.PathSeparator), "_")+".json")
}

// Get returns the stored value and whether the key exists.
func (s *Store) Get(key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("kv: read %s: %w", key, err)
	}
	return b, true, nil
}

// Set replaces the value for key. The write is all-or-nothing: a failure
// before the final rename leaves the previous value intact.
func (s *Store) Set(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	dst := s.path(key)
	tmp, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("kv: temp file: %w", err)
	}
	name := tmp.Name()
	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(name)
		return fmt.Errorf("kv: write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return fmt.Errorf("kv: close %s: %w", key, err)
	}
	if err := os.Rename(name, dst); err != nil {
		os.Remove(name)
		return fmt.Errorf("kv: rename %s: %w", key, err)
	}
	return nil
}

// Delete removes the key. Missing keys are not an error.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("kv: delete %s: %w", key, err)
	}
	return nil
}
