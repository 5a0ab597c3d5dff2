// Package concurrent holds small helpers for bounded fan-out work.
package concurrent

import (
	"context"
	"sync"
)

// ParallelMap applies fn to every item using a fixed pool of workers, never
// more than one per item. Results come back in input order. Once ctx is
// cancelled remaining items are marked with the context error instead of
// being processed; the first error by input position is returned alongside
// whatever completed.
func ParallelMap[T, R any](ctx context.Context, items []T, fn func(T) (R, error), workers int) ([]R, error) {
	if len(items) == 0 {
		return nil, nil
	}
	if workers > len(items) {
		workers = len(items)
	}
	if workers < 1 {
		workers = 1
	}

	results := make([]R, len(items))
	errs := make([]error, len(items))
	pending := make(chan int)

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range pending {
				if err := ctx.Err(); err != nil {
					errs[i] = err
					continue
				}
				results[i], errs[i] = fn(items[i])
			}
		}()
	}
	for i := range items {
		pending <- i
	}
	close(pending)
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return results, err
		}
	}
	return results, nil
}
