// internal/pipeline/pipeline.go
package pipeline

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"renovrisk-core/engine"
)

// Config controls the batch pipeline.
type Config struct {
	Threads int // number of worker goroutines (>=1)

	// OnBatch, when set, is called from worker goroutines after each batch
	// completes. It must be safe for concurrent use.
	OnBatch func(index, trials int)
}

// Run simulates every batch of sim on cfg.Threads workers and assembles the
// result. On cancellation it stops handing out batches, waits for in-flight
// ones, and returns the result over the completed prefix together with an
// error wrapping ctx.Err().
func Run(ctx context.Context, cfg Config, sim Simulator) (*engine.Result, error) {
	if cfg.Threads < 1 {
		cfg.Threads = 1
	}
	n := sim.NumBatches()
	slots := make([]engine.Batch, n)
	jobs := make(chan int, cfg.Threads*2)

	g, gctx := errgroup.WithContext(ctx)

	// Feed work
	g.Go(func() error {
		defer close(jobs)
		for i := 0; i < n; i++ {
			select {
			case <-gctx.Done():
				return nil
			case jobs <- i:
			}
		}
		return nil
	})

	// Workers
	for w := 0; w < cfg.Threads; w++ {
		g.Go(func() error {
			for idx := range jobs {
				if gctx.Err() != nil {
					continue // drain
				}
				b := sim.SimulateBatch(idx)
				slots[idx] = b
				if cfg.OnBatch != nil {
					cfg.OnBatch(idx, b.Len())
				}
			}
			return nil
		})
	}
	_ = g.Wait()

	res := sim.Assemble(slots)
	if err := ctx.Err(); err != nil && res.Partial {
		return res, fmt.Errorf("simulation stopped after %d of %d trials: %w", res.Iterations, res.Requested, err)
	}
	return res, nil
}
