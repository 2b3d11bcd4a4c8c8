// Package util provides helpers shared by the catalog commands and tests.
package util

import "github.com/google/uuid"

// NewID returns a random RFC 4122 v4 identifier for a new item.
func NewID() string {
	return uuid.NewString()
}
