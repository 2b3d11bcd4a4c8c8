package util

import (
	"fmt"
	"math"
	"math/rand/v2"

	"catalogquery/domain"
)

var (
	mockCategories = []string{"Electronics", "Computers", "Sports", "Kitchen", "Books", "Garden"}
	mockAdjectives = []string{"Pro", "Ultra", "Compact", "Classic", "Smart", "Eco", "Mini", "Max"}
	mockNouns      = []string{"Phone", "Laptop", "Headphones", "Blender", "Tent", "Novel", "Watch", "Camera", "Kettle", "Shoes"}
	mockTags       = []string{"sale", "new", "bestseller", "wireless", "portable", "premium", "gift", "outdoor"}
)

// MockItems returns n pseudo-random catalog items. The same seed always
// yields the same catalog, and item IDs are stable ("item-0001", ...).
func MockItems(n int, seed uint64) []domain.Item {
	if n <= 0 {
		return []domain.Item{}
	}
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	items := make([]domain.Item, n)
	for i := range items {
		adj := mockAdjectives[r.IntN(len(mockAdjectives))]
		noun := mockNouns[r.IntN(len(mockNouns))]
		category := mockCategories[r.IntN(len(mockCategories))]

		tags := make([]string, 0, 3)
		for j := r.IntN(4); j > 0; j-- {
			tags = append(tags, mockTags[r.IntN(len(mockTags))])
		}

		items[i] = domain.Item{
			ID:          fmt.Sprintf("item-%04d", i+1),
			Name:        fmt.Sprintf("%s %s %d", adj, noun, i+1),
			Description: fmt.Sprintf("A %s %s for everyday use in %s.", adj, noun, category),
			Price:       math.Round(r.Float64()*2000*100) / 100,
			Category:    category,
			InStock:     r.IntN(4) != 0,
			Rating:      math.Round(r.Float64()*domain.MaxRating*10) / 10,
			ReviewCount: r.IntN(1000),
			Tags:        tags,
		}
	}
	return items
}
