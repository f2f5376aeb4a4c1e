// core/engine/engine.go
package engine

import (
	"context"
	"fmt"
	"math/rand/v2"

	"renovrisk-core/risk"
	"renovrisk-core/sensitivity"
)

// Engine runs Monte Carlo trials over one validated risk register. It holds
// only immutable inputs; batches may be simulated concurrently.
type Engine struct {
	cfg     Config
	entries []risk.Entry // canonical (ID) order
	ids     []string
	keys    []uint64
	seed    uint64
}

// New validates cfg and entries before any sampling. Malformed entries
// reject the whole run; every offending entry is reported.
func New(cfg Config, entries []risk.Entry) (*Engine, error) {
	c, err := cfg.Normalize()
	if err != nil {
		return nil, err
	}
	if err := risk.Validate(entries); err != nil {
		return nil, err
	}
	e := &Engine{cfg: c, entries: risk.Canonical(entries)}
	e.ids = make([]string, len(e.entries))
	e.keys = make([]uint64, len(e.entries))
	for i, r := range e.entries {
		e.ids[i] = r.ID
		e.keys[i] = streamKey(r.ID)
	}
	e.seed = c.Seed
	if !c.HasSeed {
		e.seed = rand.Uint64()
	}
	return e, nil
}

// Config returns the normalized configuration.
func (e *Engine) Config() Config { return e.cfg }

// Seed is the seed in use; replaying it reproduces every sample.
func (e *Engine) Seed() uint64 { return e.seed }

// NumBatches is ceil(Iterations / BatchSize).
func (e *Engine) NumBatches() int {
	return (e.cfg.Iterations + e.cfg.BatchSize - 1) / e.cfg.BatchSize
}

// Trial samples a single trial on its own. It equals the i-th element of
// the result samples for the same seed.
func (e *Engine) Trial(i int) (cost, schedule float64) {
	k := len(e.entries)
	return newSampler().trial(e, i, make([]float64, k), make([]float64, k))
}

// Batch is the outcome of one contiguous run of trials.
type Batch struct {
	Index    int
	First    int
	Cost     []float64
	Schedule []float64

	costTrack  *sensitivity.Tracker
	schedTrack *sensitivity.Tracker
}

// Len is the number of trials in the batch.
func (b Batch) Len() int { return len(b.Cost) }

// SimulateBatch computes batch idx: trials [idx·B, min((idx+1)·B, N)).
func (e *Engine) SimulateBatch(idx int) Batch {
	first := idx * e.cfg.BatchSize
	last := first + e.cfg.BatchSize
	if last > e.cfg.Iterations {
		last = e.cfg.Iterations
	}
	n := last - first
	if n < 0 {
		n = 0
	}
	k := len(e.entries)
	b := Batch{
		Index:      idx,
		First:      first,
		Cost:       make([]float64, n),
		Schedule:   make([]float64, n),
		costTrack:  sensitivity.NewTracker(k),
		schedTrack: sensitivity.NewTracker(k),
	}
	s := newSampler()
	costC := make([]float64, k)
	schedC := make([]float64, k)
	for t := 0; t < n; t++ {
		c, d := s.trial(e, first+t, costC, schedC)
		b.Cost[t], b.Schedule[t] = c, d
		if k > 0 {
			b.costTrack.Add(costC, c)
			b.schedTrack.Add(schedC, d)
		}
	}
	return b
}

// Run is the serial driver. Cancellation is checked between batches; on
// cancel the result over the completed trials is returned with Partial set,
// together with an error wrapping ctx.Err().
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	n := e.NumBatches()
	batches := make([]Batch, 0, n)
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			res := e.Assemble(batches)
			return res, fmt.Errorf("simulation stopped after %d of %d trials: %w", res.Iterations, e.cfg.Iterations, err)
		}
		batches = append(batches, e.SimulateBatch(i))
	}
	return e.Assemble(batches), nil
}

// Simulate validates, runs serially and returns the result.
func Simulate(ctx context.Context, cfg Config, entries []risk.Entry) (*Result, error) {
	e, err := New(cfg, entries)
	if err != nil {
		return nil, err
	}
	return e.Run(ctx)
}
