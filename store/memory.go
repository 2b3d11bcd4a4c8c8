// Package store provides ItemStore implementations for the catalog.
package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"catalogquery/domain"
)

// InMemoryStore is a thread-safe, insertion-ordered domain.ItemStore
type InMemoryStore struct {
	mu    sync.RWMutex
	items map[string]domain.Item
	order []string
	rev   atomic.Uint64
}

// NewInMemoryStore constructs a new InMemoryStore
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		items: make(map[string]domain.Item),
	}
}

// compile-time assertion that InMemoryStore implements domain.ItemStore
var _ domain.ItemStore = (*InMemoryStore)(nil)

func (s *InMemoryStore) Create(ctx context.Context, item domain.Item) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateNew(item); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[item.ID]; exists {
		return domain.NewDuplicateItemError(item.ID)
	}
	s.insert(item)
	s.rev.Add(1)
	return nil
}

// insert adds an item; the caller holds the write lock.
func (s *InMemoryStore) insert(item domain.Item) {
	s.items[item.ID] = item.Clone()
	s.order = append(s.order, item.ID)
}

func (s *InMemoryStore) Get(ctx context.Context, id string) (domain.Item, error) {
	if err := ctx.Err(); err != nil {
		return domain.Item{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[id]
	if !ok {
		return domain.Item{}, domain.NewItemNotFoundError(id)
	}
	return item.Clone(), nil
}

// Update replaces the stored item, keeping its ID and position.
func (s *InMemoryStore) Update(ctx context.Context, id string, item domain.Item) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := domain.ValidateItem(item); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return domain.NewItemNotFoundError(id)
	}
	item.ID = id
	s.items[id] = item.Clone()
	s.rev.Add(1)
	return nil
}

func (s *InMemoryStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return domain.NewItemNotFoundError(id)
	}
	delete(s.items, id)
	s.order = slices.DeleteFunc(s.order, func(v string) bool { return v == id })
	s.rev.Add(1)
	return nil
}

// List returns a copy of every item in insertion order.
func (s *InMemoryStore) List(ctx context.Context) ([]domain.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Item, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.items[id].Clone())
	}
	return out, nil
}

// BulkImport inserts items in input order. Invalid and duplicate items are
// skipped; their errors are joined into the returned error.
func (s *InMemoryStore) BulkImport(ctx context.Context, items []domain.Item) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}

	errs, err := validateBatch(ctx, items)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	inserted := 0
	for i, item := range items {
		if errs[i] != nil {
			continue
		}
		if _, exists := s.items[item.ID]; exists {
			errs[i] = fmt.Errorf("id=%s: %w", item.ID, domain.NewDuplicateItemError(item.ID))
			continue
		}
		s.insert(item)
		inserted++
	}
	if inserted > 0 {
		s.rev.Add(1)
	}
	return errors.Join(errs...)
}

func (s *InMemoryStore) Revision() uint64 {
	return s.rev.Load()
}
