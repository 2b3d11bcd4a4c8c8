// Package query implements the catalog query engine: filtering, relevance
// ranking, stable sorting and pagination over an in-memory item slice.
//
// Evaluate is a pure function of its inputs. It holds no state between
// calls and never modifies the items it is given.
package query

import (
	"cmp"
	"slices"
	"strings"

	"catalogquery/domain"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Relevance weights.
const (
	scoreNamePrefix   = 100
	scoreNameContains = 50
	scoreDescription  = 20
	scorePerTag       = 10
	scoreInStock      = 5
	scoreRatingFactor = 2
)

// entry is an item that passed the filters, with its precomputed sort keys.
type entry struct {
	item  domain.Item
	score float64
	name  string
}

// matcher holds the lower-cased search term and the caser used to fold
// item text. A matcher is not safe for concurrent use.
type matcher struct {
	lower cases.Caser
	term  string
}

func newMatcher(term string) *matcher {
	c := cases.Lower(language.Und)
	return &matcher{lower: c, term: c.String(term)}
}

func (m *matcher) fold(s string) string {
	return m.lower.String(s)
}

func (m *matcher) matchesText(item domain.Item) bool {
	if m.term == "" {
		return true
	}
	if strings.Contains(m.fold(item.Name), m.term) || strings.Contains(m.fold(item.Description), m.term) {
		return true
	}
	for _, tag := range item.Tags {
		if strings.Contains(m.fold(tag), m.term) {
			return true
		}
	}
	return false
}

func (m *matcher) matches(item domain.Item, q domain.Query) bool {
	if q.Category != domain.CategoryAll && item.Category != q.Category {
		return false
	}
	if !q.Price.Contains(item.Price) {
		return false
	}
	if q.InStockOnly && !item.InStock {
		return false
	}
	if item.Rating < q.MinRating {
		return false
	}
	return m.matchesText(item)
}

func (m *matcher) score(item domain.Item) float64 {
	if m.term == "" {
		return 0
	}
	var score float64
	name := m.fold(item.Name)
	switch {
	case strings.HasPrefix(name, m.term):
		score += scoreNamePrefix
	case strings.Contains(name, m.term):
		score += scoreNameContains
	}
	if strings.Contains(m.fold(item.Description), m.term) {
		score += scoreDescription
	}
	for _, tag := range item.Tags {
		if strings.Contains(m.fold(tag), m.term) {
			score += scorePerTag
		}
	}
	if item.InStock {
		score += scoreInStock
	}
	return score + item.Rating*scoreRatingFactor
}

// entry filters item and, when it matches, computes only the sort key the
// query's ordering needs.
func (m *matcher) entry(item domain.Item, q domain.Query) (entry, bool) {
	if !m.matches(item, q) {
		return entry{}, false
	}
	e := entry{item: item}
	switch sortKey(q.Sort) {
	case domain.SortByRelevance:
		e.score = m.score(item)
	case domain.SortByName:
		e.name = m.fold(item.Name)
	}
	return e, true
}

// Evaluate filters, ranks, sorts and paginates items according to q.
// Degenerate queries yield well-defined, possibly empty results.
func Evaluate(items []domain.Item, q domain.Query) domain.Result {
	m := newMatcher(q.Search)
	matched := make([]entry, 0, len(items))
	for _, item := range items {
		if e, ok := m.entry(item, q); ok {
			matched = append(matched, e)
		}
	}
	return finish(matched, q)
}

// Matches reports whether item satisfies every filter of q.
func Matches(item domain.Item, q domain.Query) bool {
	return newMatcher(q.Search).matches(item, q)
}

// Score returns the relevance of item for the search term. It is zero for
// an empty term.
func Score(item domain.Item, term string) float64 {
	return newMatcher(term).score(item)
}

// Categories returns CategoryAll followed by the distinct categories of
// items in ascending order.
func Categories(items []domain.Item) []string {
	seen := make(map[string]struct{}, len(items))
	cats := make([]string, 0, len(items))
	for _, item := range items {
		if item.Category == domain.CategoryAll {
			continue
		}
		if _, ok := seen[item.Category]; ok {
			continue
		}
		seen[item.Category] = struct{}{}
		cats = append(cats, item.Category)
	}
	slices.Sort(cats)
	return append([]string{domain.CategoryAll}, cats...)
}

// sortKey maps unknown keys to relevance.
func sortKey(k domain.SortKey) domain.SortKey {
	switch k {
	case domain.SortByName, domain.SortByPrice, domain.SortByRating:
		return k
	default:
		return domain.SortByRelevance
	}
}

func sortEntries(entries []entry, k domain.SortKey) {
	var compare func(a, b entry) int
	switch sortKey(k) {
	case domain.SortByName:
		compare = func(a, b entry) int { return strings.Compare(a.name, b.name) }
	case domain.SortByPrice:
		compare = func(a, b entry) int { return cmp.Compare(a.item.Price, b.item.Price) }
	case domain.SortByRating:
		compare = func(a, b entry) int { return cmp.Compare(b.item.Rating, a.item.Rating) }
	default:
		compare = func(a, b entry) int { return cmp.Compare(b.score, a.score) }
	}
	slices.SortStableFunc(entries, compare)
}

// finish sorts the matched entries and cuts out the requested page.
func finish(matched []entry, q domain.Query) domain.Result {
	sortEntries(matched, q.Sort)

	total := len(matched)
	page, size := q.Page, q.PageSize
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 1
	}
	start, end := 0, total
	if q.Unpaged {
		page = 1
		if total > 0 {
			size = total
		}
	} else {
		start, end = pageBounds(total, page, size)
	}

	out := make([]domain.Item, 0, end-start)
	for _, e := range matched[start:end] {
		out = append(out, e.item)
	}
	return domain.Result{Items: out, Total: total, Page: page, PageSize: size}
}

// pageBounds returns the [start, end) slice of a 1-based page, clipped to
// total. Page and size must be positive.
func pageBounds(total, page, size int) (int, int) {
	if page-1 > total/size {
		return total, total
	}
	start := min((page-1)*size, total)
	if size > total-start {
		return start, total
	}
	return start, start + size
}
