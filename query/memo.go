package query

import (
	"context"
	"fmt"
	"sync/atomic"

	"catalogquery/domain"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultMemoSize is the number of results a Memo keeps when no size is given.
const DefaultMemoSize = 128

// Source supplies the catalog a Memo evaluates against.
type Source interface {
	List(ctx context.Context) ([]domain.Item, error)
	Revision() uint64
}

type memoKey struct {
	revision uint64
	query    domain.Query
}

// Memo caches query results per catalog revision. Any change to the
// source bumps its revision, so a cached result is never served for a
// catalog it was not computed from.
type Memo struct {
	src    Source
	cache  *lru.Cache[memoKey, domain.Result]
	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewMemo creates a Memo holding up to size results.
func NewMemo(src Source, size int) (*Memo, error) {
	if size <= 0 {
		size = DefaultMemoSize
	}
	cache, err := lru.New[memoKey, domain.Result](size)
	if err != nil {
		return nil, fmt.Errorf("create result cache: %w", err)
	}
	return &Memo{src: src, cache: cache}, nil
}

// Evaluate returns the result of q against the source's current catalog.
// The returned result does not share memory with the cache.
func (m *Memo) Evaluate(ctx context.Context, q domain.Query) (domain.Result, error) {
	key := memoKey{revision: m.src.Revision(), query: q}
	if r, ok := m.cache.Get(key); ok {
		m.hits.Add(1)
		return cloneResult(r), nil
	}
	m.misses.Add(1)

	items, err := m.src.List(ctx)
	if err != nil {
		return domain.Result{}, fmt.Errorf("list items: %w", err)
	}
	r := cloneResult(Evaluate(items, q))
	m.cache.Add(key, r)
	return cloneResult(r), nil
}

// Stats returns the cache hit and miss counts.
func (m *Memo) Stats() (hits, misses uint64) {
	return m.hits.Load(), m.misses.Load()
}

// Purge drops every cached result.
func (m *Memo) Purge() {
	m.cache.Purge()
}

func cloneResult(r domain.Result) domain.Result {
	items := make([]domain.Item, len(r.Items))
	for i, item := range r.Items {
		items[i] = item.Clone()
	}
	r.Items = items
	return r
}
