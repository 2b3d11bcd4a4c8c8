package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"catalogquery/domain"
)

// FileStore is a JSON file-backed domain.ItemStore. The catalog is held in
// memory and the whole file is rewritten after every successful change.
type FileStore struct {
	mu   sync.Mutex
	mem  *InMemoryStore
	path string
}

// compile-time assertion
var _ domain.ItemStore = (*FileStore)(nil)

// NewFileStore constructs a FileStore at the given path. If the file exists it will be loaded.
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{
		mem:  NewInMemoryStore(),
		path: path,
	}
	if err := s.loadFromFile(); err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return s, nil
}

func (s *FileStore) loadFromFile() error {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if len(b) == 0 {
		return nil
	}
	var list []domain.Item
	if err := json.Unmarshal(b, &list); err != nil {
		return err
	}
	return s.mem.BulkImport(context.Background(), list)
}

func (s *FileStore) saveToFile() error {
	list, err := s.mem.List(context.Background())
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func (s *FileStore) Create(ctx context.Context, item domain.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.mem.Create(ctx, item); err != nil {
		return err
	}
	return s.saveToFile()
}

func (s *FileStore) Get(ctx context.Context, id string) (domain.Item, error) {
	return s.mem.Get(ctx, id)
}

func (s *FileStore) Update(ctx context.Context, id string, item domain.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.mem.Update(ctx, id, item); err != nil {
		return err
	}
	return s.saveToFile()
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.mem.Delete(ctx, id); err != nil {
		return err
	}
	return s.saveToFile()
}

func (s *FileStore) List(ctx context.Context) ([]domain.Item, error) {
	return s.mem.List(ctx)
}

// BulkImport inserts the valid items, persists them, and reports the
// rejected ones.
func (s *FileStore) BulkImport(ctx context.Context, items []domain.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.mem.Revision()
	importErr := s.mem.BulkImport(ctx, items)
	if s.mem.Revision() == before {
		return importErr
	}
	if err := s.saveToFile(); err != nil {
		return errors.Join(importErr, err)
	}
	return importErr
}

func (s *FileStore) Revision() uint64 {
	return s.mem.Revision()
}
