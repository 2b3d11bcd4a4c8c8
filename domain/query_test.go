package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSortKey(t *testing.T) {
	cases := map[string]SortKey{
		"":          SortByRelevance,
		"name":      SortByName,
		" Price ":   SortByPrice,
		"RATING":    SortByRating,
		"relevance": SortByRelevance,
	}
	for in, want := range cases {
		got, err := ParseSortKey(in)
		require.NoError(t, err, "input %q", in)
		assert.Equal(t, want, got, "input %q", in)
	}

	_, err := ParseSortKey("popularity")
	require.Error(t, err)
	assert.True(t, IsInvalidQueryError(err))
}

func TestDefaultQuery(t *testing.T) {
	q := DefaultQuery()
	assert.Equal(t, "", q.Search)
	assert.Equal(t, CategoryAll, q.Category)
	assert.Equal(t, PriceRange{Min: 0, Max: 10000}, q.Price)
	assert.False(t, q.InStockOnly)
	assert.Zero(t, q.MinRating)
	assert.Equal(t, SortByRelevance, q.Sort)
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 20, q.PageSize)
	assert.False(t, q.Unpaged)
}

func TestPriceRangeContainsIsInclusive(t *testing.T) {
	r := PriceRange{Min: 10, Max: 20}
	assert.True(t, r.Contains(10))
	assert.True(t, r.Contains(20))
	assert.False(t, r.Contains(9.99))
	assert.False(t, r.Contains(20.01))

	inverted := PriceRange{Min: 20, Max: 10}
	assert.False(t, inverted.Contains(15))
}

func TestResultPageCount(t *testing.T) {
	tests := []struct {
		total, size, want int
	}{
		{0, 20, 0},
		{1, 20, 1},
		{20, 20, 1},
		{21, 20, 2},
		{10, 3, 4},
		{5, 0, 0},
		{50, math.MaxInt, 1},
		{math.MaxInt, math.MaxInt - 1, 2},
	}
	for _, tt := range tests {
		r := Result{Total: tt.total, PageSize: tt.size}
		assert.Equal(t, tt.want, r.PageCount(), "total=%d size=%d", tt.total, tt.size)
	}
}
