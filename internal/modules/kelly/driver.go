package kelly

import (
	"context"
	"sync"
)

// driveSolver enumerates every activation pattern in [0, 2^L) and invokes
// the solver for each, using a bounded worker pool. It returns the set of
// viable solutions; an empty set means no activation pattern converged to
// a sign-respecting solution.
func driveSolver(ctx context.Context, nc int, cs []constraint, o outcomes, tol float64, maxIter int, workers int) ([]solverResult, error) {
	l := len(cs)
	nPatterns := 1 << l

	if workers < 1 {
		workers = 1
	}

	patterns := make(chan int, workers)
	var mu sync.Mutex
	var results []solverResult

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for pattern := range patterns {
				active := make([]bool, l)
				for bit := 0; bit < l; bit++ {
					active[bit] = pattern&(1<<bit) != 0
				}

				result, ok := solvePattern(ctx, nc, cs, active, o, tol, maxIter)
				if !ok {
					continue
				}

				mu.Lock()
				results = append(results, result)
				mu.Unlock()
			}
		}()
	}

feed:
	for pattern := 0; pattern < nPatterns; pattern++ {
		select {
		case <-ctx.Done():
			break feed
		case patterns <- pattern:
		}
	}
	close(patterns)
	wg.Wait()

	if ctx.Err() != nil {
		return nil, ErrCancelled
	}

	return results, nil
}
