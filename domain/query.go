package domain

import (
	"fmt"
	"strings"
)

// CategoryAll disables the category filter.
const CategoryAll = "all"

// Defaults used by DefaultQuery.
const (
	DefaultPriceMin = 0
	DefaultPriceMax = 10000
	DefaultPageSize = 20
)

// SortKey selects the result ordering.
type SortKey string

const (
	SortByName      SortKey = "name"
	SortByPrice     SortKey = "price"
	SortByRating    SortKey = "rating"
	SortByRelevance SortKey = "relevance"
)

// SortKeys lists every supported sort key.
func SortKeys() []SortKey {
	return []SortKey{SortByName, SortByPrice, SortByRating, SortByRelevance}
}

// ParseSortKey converts a user supplied string into a SortKey.
// The empty string selects relevance.
func ParseSortKey(s string) (SortKey, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return SortByRelevance, nil
	}
	for _, k := range SortKeys() {
		if string(k) == s {
			return k, nil
		}
	}
	return "", NewInvalidQueryError("sort", fmt.Sprintf("unknown sort key %q", s))
}

// PriceRange is an inclusive price interval.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether price lies within the range.
func (r PriceRange) Contains(price float64) bool {
	return price >= r.Min && price <= r.Max
}

// Query combines the filter, sort and pagination parameters of one evaluation.
type Query struct {
	Search      string     `json:"search"`
	Category    string     `json:"category"`
	Price       PriceRange `json:"price"`
	InStockOnly bool       `json:"inStockOnly"`
	MinRating   float64    `json:"minRating"`
	Sort        SortKey    `json:"sort"`
	Page        int        `json:"page"`
	PageSize    int        `json:"pageSize"`
	// Unpaged returns every match as a single page.
	Unpaged bool `json:"unpaged"`
}

// DefaultQuery returns a query that matches every item priced within the
// default range, ordered by relevance, first page.
func DefaultQuery() Query {
	return Query{
		Category: CategoryAll,
		Price:    PriceRange{Min: DefaultPriceMin, Max: DefaultPriceMax},
		Sort:     SortByRelevance,
		Page:     1,
		PageSize: DefaultPageSize,
	}
}

// Result is one page of an evaluated query.
type Result struct {
	Items    []Item `json:"items"`
	Total    int    `json:"total"`
	Page     int    `json:"page"`
	PageSize int    `json:"pageSize"`
}

// PageCount returns the number of pages needed to show Total items.
func (r Result) PageCount() int {
	if r.Total == 0 || r.PageSize <= 0 {
		return 0
	}
	n := r.Total / r.PageSize
	if r.Total%r.PageSize != 0 {
		n++
	}
	return n
}
