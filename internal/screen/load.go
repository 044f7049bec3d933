package screen

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Read is one fetch of a screen load. It stores its result in a variable
// owned by the caller.
type Read func(ctx context.Context) error

// LoadAll runs every read in parallel and waits for all of them. It
// returns the first error; the context passed to the remaining reads is
// cancelled at that point. Callers publish results only when err is nil,
// so a screen never commits part of a load.
func LoadAll(ctx context.Context, reads ...Read) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, r := range reads {
		g.Go(func() error { return r(ctx) })
	}
	return g.Wait()
}

// Fetch adapts a typed fetch into a Read that stores into dst.
func Fetch[T any](dst *T, fn func(context.Context) (T, error)) Read {
	return func(ctx context.Context) error {
		v, err := fn(ctx)
		if err != nil {
			return err
		}
		*dst = v
		return nil
	}
}
