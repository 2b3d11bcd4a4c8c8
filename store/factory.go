package store

import (
	"fmt"

	"catalogquery/domain"
)

// NewStore constructs a domain.ItemStore by kind: "memory", "file" or "sqlite".
// File and sqlite stores need a path; for memory, path is ignored.
func NewStore(kind, path string) (domain.ItemStore, error) {
	switch kind {
	case "memory", "mem":
		return NewInMemoryStore(), nil
	case "file":
		if path == "" {
			return nil, fmt.Errorf("file path required for file store")
		}
		return NewFileStore(path)
	case "sqlite":
		if path == "" {
			return nil, fmt.Errorf("database path required for sqlite store")
		}
		return NewSQLiteStore(path)
	default:
		return nil, fmt.Errorf("unknown store kind: %s", kind)
	}
}
