// Package domain defines core catalog types and interfaces.
package domain

import "context"

// Item is a single catalog record.
type Item struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Price       float64  `json:"price" yaml:"price"`
	Category    string   `json:"category" yaml:"category"`
	InStock     bool     `json:"inStock" yaml:"inStock"`
	Rating      float64  `json:"rating" yaml:"rating"`
	ReviewCount int      `json:"reviewCount" yaml:"reviewCount"`
	Tags        []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// MaxRating is the upper bound of Item.Rating.
const MaxRating = 5

// Clone returns a copy of the item that shares no memory with it.
func (i Item) Clone() Item {
	if i.Tags != nil {
		i.Tags = append([]string(nil), i.Tags...)
	}
	return i
}

// ValidateItem checks the fields a store requires before accepting an item.
// The ID is not checked here; stores check it themselves.
func ValidateItem(item Item) error {
	if item.Name == "" {
		return NewInvalidItemError("name", "cannot be empty", item.Name)
	}
	if item.Price < 0 {
		return NewInvalidItemError("price", "must be non-negative", item.Price)
	}
	if item.Rating < 0 || item.Rating > MaxRating {
		return NewInvalidItemError("rating", "must be between 0 and 5", item.Rating)
	}
	if item.ReviewCount < 0 {
		return NewInvalidItemError("reviewCount", "must be non-negative", item.ReviewCount)
	}
	return nil
}

// ItemStore defines the storage interface for catalog items.
// List returns items in insertion order.
type ItemStore interface {
	Create(ctx context.Context, item Item) error
	Get(ctx context.Context, id string) (Item, error)
	Update(ctx context.Context, id string, item Item) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]Item, error)
	BulkImport(ctx context.Context, items []Item) error
	// Revision changes every time the stored catalog changes.
	Revision() uint64
}
