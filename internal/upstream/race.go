package upstream

import (
	"context"
	"errors"
)

type raceResult[T any] struct {
	endpoint string
	val      T
	err      error
}

// race calls fn once per endpoint concurrently and returns the first
// successful result. Losing calls are not cancelled: they run to completion
// on a context detached from ctx and their results are dropped into a
// buffered channel nobody reads. If every call fails the joined errors are
// returned.
func race[T any](ctx context.Context, endpoints []string, fn func(ctx context.Context, endpoint string) (T, error)) (T, string, error) {
	var zero T
	if len(endpoints) == 0 {
		return zero, "", errors.New("no endpoints configured")
	}
	detached := context.WithoutCancel(ctx)
	results := make(chan raceResult[T], len(endpoints))
	for _, ep := range endpoints {
		go func(ep string) {
			v, err := fn(detached, ep)
			results <- raceResult[T]{endpoint: ep, val: v, err: err}
		}(ep)
	}

	errs := make([]error, 0, len(endpoints))
	for range endpoints {
		select {
		case <-ctx.Done():
			return zero, "", ctx.Err()
		case r := <-results:
			if r.err == nil {
				return r.val, r.endpoint, nil
			}
			errs = append(errs, r.err)
		}
	}
	return zero, "", errors.Join(errs...)
}
