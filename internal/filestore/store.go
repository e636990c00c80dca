package filestore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Store is a mutex-guarded JSON document store. Every mutation rewrites the
// whole file through a temp-file rename, so readers never observe a partial
// write and concurrent handlers cannot interleave read-modify-write cycles.
type Store[T any] struct {
	mu   sync.Mutex
	path string
}

// New returns a store backed by the given file. The parent directory is
// created; the file itself appears on first save.
func New[T any](path string) (*Store[T], error) {
	if path == "" {
		return nil, fmt.Errorf("store path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &Store[T]{path: path}, nil
}

// Load reads the current document. A missing file yields the zero value.
func (s *Store[T]) Load() (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Save replaces the document atomically.
func (s *Store[T]) Save(doc T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(doc)
}

// Update applies fn to the current document and persists the result while
// holding the store lock, making read-modify-write sequences atomic.
func (s *Store[T]) Update(fn func(doc T) (T, error)) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		var zero T
		return zero, err
	}
	next, err := fn(doc)
	if err != nil {
		var zero T
		return zero, err
	}
	if err := s.save(next); err != nil {
		var zero T
		return zero, err
	}
	return next, nil
}

func (s *Store[T]) load() (T, error) {
	var doc T
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return doc, nil
		}
		return doc, fmt.Errorf("read store: %w", err)
	}
	if len(data) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return doc, fmt.Errorf("decode store: %w", err)
	}
	return doc, nil
}

func (s *Store[T]) save(doc T) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode store: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp store: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp store: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace store: %w", err)
	}
	return nil
}
