package learning

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// fanOut runs every Job on a bounded group of goroutines and calls collect for each Result, in
// completion order, on the calling goroutine. It returns once all Jobs have been collected.
func fanOut(jobs []Job, cfg Config, onStep func(Step), collect func(Result)) {
	workers := cfg.Workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make(chan Result)

	go func() {
		var g errgroup.Group
		g.SetLimit(workers)

		for i := range jobs {
			i := i
			g.Go(func() error {
				results <- Process(i, jobs[i], cfg, onStep)
				return nil
			})
		}

		// Process never returns an error through the group; failures are in the Results
		_ = g.Wait()
		close(results)
	}()

	for r := range results {
		collect(r)
	}
}
