package query

import (
	"context"
	"runtime"

	"catalogquery/domain"

	"golang.org/x/sync/errgroup"
)

// cancelCheckInterval is how many items a worker filters between context checks.
const cancelCheckInterval = 256

// EvaluateParallel produces the same Result as Evaluate, filtering and
// scoring contiguous chunks of items on separate goroutines. Chunks are
// merged in input order before sorting, so stable-sort ties resolve exactly
// as in the sequential path. A workers value <= 0 uses GOMAXPROCS.
func EvaluateParallel(ctx context.Context, items []domain.Item, q domain.Query, workers int) (domain.Result, error) {
	if err := ctx.Err(); err != nil {
		return domain.Result{}, err
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(items) {
		workers = len(items)
	}
	if workers <= 1 {
		return Evaluate(items, q), nil
	}

	chunk := (len(items) + workers - 1) / workers
	parts := make([][]entry, workers)

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := min(lo+chunk, len(items))
		if lo >= hi {
			continue
		}
		g.Go(func() error {
			m := newMatcher(q.Search)
			out := make([]entry, 0, hi-lo)
			for i := lo; i < hi; i++ {
				if (i-lo)%cancelCheckInterval == 0 {
					if err := gctx.Err(); err != nil {
						return err
					}
				}
				if e, ok := m.entry(items[i], q); ok {
					out = append(out, e)
				}
			}
			parts[w] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.Result{}, err
	}

	n := 0
	for _, p := range parts {
		n += len(p)
	}
	matched := make([]entry, 0, n)
	for _, p := range parts {
		matched = append(matched, p...)
	}
	return finish(matched, q), nil
}
