package sorption

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Batch calls fn for every index in [0, n) on at most workers goroutines
// (unlimited when workers <= 0). Errors are collected per index and never
// cancel the remaining jobs; a cancelled ctx marks unstarted jobs with
// ctx.Err().
func Batch(ctx context.Context, n, workers int, fn func(ctx context.Context, i int) error) []error {
	errs := make([]error, n)
	g, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}

	for i := 0; i < n; i++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				errs[i] = err
				return nil
			}
			errs[i] = fn(gctx, i)
			return nil
		})
	}

	_ = g.Wait()
	return errs
}
