package helper

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// FanOut runs independent reads concurrently and waits for all of them.
// The first error cancels the shared context and is returned.
func FanOut(ctx context.Context, fns ...func(ctx context.Context) error) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, fn := range fns {
		fn := fn
		g.Go(func() error { return fn(gctx) })
	}
	return g.Wait()
}

// FanOutSettled runs every read to completion; a failing read does not cancel the others.
// It returns one error slot per function, nil on success.
func FanOutSettled(ctx context.Context, fns ...func(ctx context.Context) error) []error {
	errs := make([]error, len(fns))
	var g errgroup.Group
	for i, fn := range fns {
		i, fn := i, fn
		g.Go(func() error {
			errs[i] = fn(ctx)
			return nil
		})
	}
	_ = g.Wait()
	return errs
}
