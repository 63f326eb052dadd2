// Package store provides the JSON document store backing all entities.
//
// The entire data set lives in one JSON file with two named collections,
// "users" and "tasks". Every read loads the whole document and every
// mutation rewrites it. Writes go through a temp-file-then-rename cycle so
// a crash mid-save leaves the previous document intact, and load-modify-save
// cycles are serialized behind a mutex.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/taskdesk/taskdesk/internal/model"
)

// Document is the root object persisted on disk.
type Document struct {
	Users []model.User `json:"users"`
	Tasks []model.Task `json:"tasks"`
}

// emptyDocument returns the canonical empty document.
// Collections are non-nil so they serialize as [] rather than null.
func emptyDocument() *Document {
	return &Document{
		Users: []model.User{},
		Tasks: []model.Task{},
	}
}

// Store holds the path to the document file and guards access to it.
type Store struct {
	path string
	mu   sync.Mutex
}

// New creates a Store for the given file path.
// If the file does not exist yet, parent directories are created and the
// file is seeded with the empty document.
func New(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("store: data file path is required")
	}

	s := &Store{path: path}

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("store: create data directory: %w", err)
		}
		if err := s.write(emptyDocument()); err != nil {
			return nil, fmt.Errorf("store: seed data file: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("store: stat data file: %w", err)
	}

	return s, nil
}

// Path returns the data file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the entire document from disk.
//
// A missing or unparseable file yields the empty document, never an error.
// This self-healing default is intentional: corrupt storage resets to
// empty rather than taking the service down.
func (s *Store) Load() (*Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Save serializes the document and replaces the file on disk.
func (s *Store) Save(doc *Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(doc)
}

// Update runs fn against the current document and persists the result if
// fn returns nil. The whole load-modify-save cycle happens under the store
// mutex, so concurrent mutations cannot lose each other's writes.
// If fn returns an error the document is not saved and the error is
// returned unchanged.
func (s *Store) Update(fn func(doc *Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}
	return s.write(doc)
}

// Ping reports whether the data file is accessible.
// Used by the readiness probe.
func (s *Store) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := os.Stat(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("store: data file inaccessible: %w", err)
	}
	return nil
}

// load reads and decodes the document. Caller must hold the mutex.
func (s *Store) load() (*Document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return emptyDocument(), nil
		}
		return nil, fmt.Errorf("store: read data file: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		// Corrupted or empty file, reset to the empty structure.
		return emptyDocument(), nil
	}

	if doc.Users == nil {
		doc.Users = []model.User{}
	}
	if doc.Tasks == nil {
		doc.Tasks = []model.Task{}
	}

	return &doc, nil
}

// write atomically replaces the data file. Caller must hold the mutex
// (or be the only reference, as in New).
func (s *Store) write(doc *Document) error {
	if doc.Users == nil {
		doc.Users = []model.User{}
	}
	if doc.Tasks == nil {
		doc.Tasks = []model.Task{}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("store: marshal document: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("store: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		_ = tmp.Close()
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("store: write temp file: %w", err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		return fmt.Errorf("store: chmod temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("store: sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("store: close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("store: replace data file: %w", err)
	}
	committed = true

	return nil
}
