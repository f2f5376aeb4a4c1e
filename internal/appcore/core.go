// internal/appcore/core.go
package appcore

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"renovrisk-core/engine"
	"renovrisk-core/risk"
	"renovrisk/internal/pipeline"
	"renovrisk/internal/plotout"
	"renovrisk/internal/report"
	"renovrisk/internal/runutil"
	"renovrisk/internal/writers"
)

type Options struct {
	Engine engine.Config

	Threads int
	Timeout time.Duration
	PlotDir string
}

// Simulate runs one simulation over entries and writes the report through
// wf. The returned value is the process exit code: 0 success, 2 invalid
// input, 3 runtime failure or timeout, 130 cancelled. A cancelled or timed
// out run still writes the trials it completed.
func Simulate(
	parent context.Context,
	stdout, stderr io.Writer,
	log *zap.Logger,
	o Options,
	entries []risk.Entry,
	wf SimulationWriterFactory,
) int {
	outw := bufio.NewWriter(stdout)

	thr := runutil.ComputeThreads(o.Threads)
	cfg := o.Engine
	batch, warns := runutil.ChooseBatchSize(cfg.Iterations, thr, cfg.BatchSize, engine.DefaultBatchSize)
	for _, w := range warns {
		log.Warn(w)
	}
	cfg.BatchSize = batch

	sim, err := engine.New(cfg, entries)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		if errors.Is(err, engine.ErrInvalidConfiguration) || errors.Is(err, risk.ErrInvalidRiskEntry) {
			return 2
		}
		return 3
	}
	thr = runutil.EffectiveThreads(thr, sim.NumBatches())
	runID := report.NewRunID()
	log = log.With(zap.String("run_id", runID))
	log.Info("simulation started",
		zap.Int("risks", len(entries)),
		zap.Int("iterations", sim.Config().Iterations),
		zap.Uint64("seed", sim.Seed()),
		zap.Int("threads", thr),
		zap.Int("batch_size", sim.Config().BatchSize),
	)

	ctx, cancel := context.WithCancel(parent)
	defer cancel()
	if o.Timeout > 0 {
		var stop context.CancelFunc
		ctx, stop = context.WithTimeout(ctx, o.Timeout)
		defer stop()
	}

	start := time.Now()
	res, perr := pipeline.Run(ctx, pipeline.Config{
		Threads: thr,
		OnBatch: func(idx, n int) {
			log.Debug("batch done", zap.Int("batch", idx), zap.Int("trials", n))
		},
	}, sim)
	if res == nil {
		fmt.Fprintf(stderr, "error: %v\n", perr)
		return 3
	}
	for _, w := range res.Warnings {
		log.Warn(w)
	}

	payload := wf.Payload(res, runID, string(sim.Config().Shape))
	if werr := writers.WriteSimulation(wf.Format, outw, payload); writers.IsBrokenPipe(werr) {
		return 0
	} else if werr != nil {
		fmt.Fprintf(stderr, "error: %v\n", werr)
		return 3
	}
	if e := outw.Flush(); writers.IsBrokenPipe(e) {
		return 0
	} else if e != nil {
		fmt.Fprintln(stderr, e)
		return 3
	}

	if o.PlotDir != "" && res.Iterations > 0 {
		files, err := plotout.WriteCharts(o.PlotDir, payload.Doc)
		if err != nil {
			fmt.Fprintf(stderr, "error: charts: %v\n", err)
			return 3
		}
		log.Info("charts written", zap.Strings("files", files))
	}

	log.Info("simulation finished",
		zap.Int("trials", res.Iterations),
		zap.Bool("partial", res.Partial),
		zap.Duration("elapsed", time.Since(start)),
	)

	if perr != nil {
		switch {
		case errors.Is(perr, context.Canceled):
			log.Warn("simulation cancelled", zap.Error(perr))
			return 130
		case errors.Is(perr, context.DeadlineExceeded):
			fmt.Fprintf(stderr, "error: timed out after %s: %v\n", o.Timeout, perr)
			return 3
		}
		fmt.Fprintln(stderr, perr)
		return 3
	}
	return 0
}
