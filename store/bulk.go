package store

import (
	"context"
	"fmt"

	"catalogquery/domain"

	"golang.org/x/sync/errgroup"
)

const maxImportWorkers = 10

// validateNew checks an item about to be inserted.
func validateNew(item domain.Item) error {
	if item.ID == "" {
		return domain.NewInvalidItemError("id", "cannot be empty", item.ID)
	}
	return domain.ValidateItem(item)
}

// validateBatch validates items concurrently. The returned slice holds one
// entry per item, nil when the item is valid. Only context cancellation is
// returned as err.
func validateBatch(ctx context.Context, items []domain.Item) ([]error, error) {
	errs := make([]error, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxImportWorkers)
	for i, item := range items {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := validateNew(item); err != nil {
				errs[i] = fmt.Errorf("id=%s: %w", item.ID, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return errs, nil
}
