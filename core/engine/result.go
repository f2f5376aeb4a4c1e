package engine

import (
	"fmt"
	"math"

	"renovrisk-core/sensitivity"
	"renovrisk-core/stats"
)

// Contingency is the reserve needed to reach ConfidenceLevel over baseline.
type Contingency struct {
	Confidence      float64
	CostAt          float64 // P<confidence> of total cost
	ScheduleAt      float64
	Cost            float64 // CostAt - baseline cost
	Schedule        float64
	CostPercent     float64 // of baseline; 0 when baseline is 0
	SchedulePercent float64
}

// Totals summarizes baseline + delta, floored at zero per trial.
type Totals struct {
	Baseline    Baseline
	Cost        stats.Summary
	Schedule    stats.Summary
	Contingency Contingency
}

// Result is one simulation's output. It shares nothing with the Engine.
type Result struct {
	Seed       uint64
	Requested  int
	Iterations int  // completed trials
	Partial    bool // cancelled before Requested trials

	CostSamples     []float64
	ScheduleSamples []float64
	CostSummary     stats.Summary
	ScheduleSummary stats.Summary

	CostSensitivity     sensitivity.Report
	ScheduleSensitivity sensitivity.Report
	EMV                 []sensitivity.EMV

	Totals *Totals

	CostHistogram     []stats.Bin
	ScheduleHistogram []stats.Bin
	CostCurve         []stats.CurvePoint
	ScheduleCurve     []stats.CurvePoint

	Warnings []string
}

// Assemble joins batches into a Result. Batches must be supplied in index
// order starting at 0; only the contiguous prefix is used, so a cancelled
// parallel run reports exactly the trials a serial run would have.
func (e *Engine) Assemble(batches []Batch) *Result {
	k := len(e.entries)
	costT := sensitivity.NewTracker(k)
	schedT := sensitivity.NewTracker(k)

	done := 0
	for i, b := range batches {
		if b.Index != i || b.costTrack == nil {
			break
		}
		done += b.Len()
	}
	res := &Result{
		Seed:            e.seed,
		Requested:       e.cfg.Iterations,
		Iterations:      done,
		Partial:         done < e.cfg.Iterations,
		CostSamples:     make([]float64, 0, done),
		ScheduleSamples: make([]float64, 0, done),
	}
	for i, b := range batches {
		if b.Index != i || b.costTrack == nil {
			break
		}
		res.CostSamples = append(res.CostSamples, b.Cost...)
		res.ScheduleSamples = append(res.ScheduleSamples, b.Schedule...)
		costT.Merge(b.costTrack)
		schedT.Merge(b.schedTrack)
	}

	ps := e.cfg.Percentiles
	costSorted := stats.Sorted(res.CostSamples)
	schedSorted := stats.Sorted(res.ScheduleSamples)
	res.CostSummary = stats.SummarizeSorted(costSorted, ps)
	res.ScheduleSummary = stats.SummarizeSorted(schedSorted, ps)
	res.CostHistogram = stats.Histogram(costSorted, e.cfg.HistogramBins)
	res.ScheduleHistogram = stats.Histogram(schedSorted, e.cfg.HistogramBins)
	res.CostCurve = stats.Curve(costSorted, e.cfg.CurvePoints)
	res.ScheduleCurve = stats.Curve(schedSorted, e.cfg.CurvePoints)

	res.CostSensitivity = sensitivity.Analyze(e.ids, costT)
	res.ScheduleSensitivity = sensitivity.Analyze(e.ids, schedT)
	res.EMV = sensitivity.ComputeEMV(e.entries, e.cfg.Shape)

	if b := e.cfg.Baseline; b != nil {
		res.Totals = e.totals(*b, res.CostSamples, res.ScheduleSamples)
	}
	res.Warnings = e.warnings(res)
	return res
}

func (e *Engine) totals(b Baseline, cost, sched []float64) *Totals {
	conf := e.cfg.ConfidenceLevel
	ps := stats.NormalizePercentiles(append(append([]float64(nil), e.cfg.Percentiles...), conf))
	tc := floorAt(b.Cost, cost)
	ts := floorAt(b.Schedule, sched)
	t := &Totals{
		Baseline: b,
		Cost:     stats.SummarizeSorted(tc, ps),
		Schedule: stats.SummarizeSorted(ts, ps),
	}
	c := Contingency{Confidence: conf}
	if len(tc) > 0 {
		c.CostAt = stats.Percentile(tc, conf)
		c.ScheduleAt = stats.Percentile(ts, conf)
		c.Cost = c.CostAt - b.Cost
		c.Schedule = c.ScheduleAt - b.Schedule
		c.CostPercent = percentOf(c.Cost, b.Cost)
		c.SchedulePercent = percentOf(c.Schedule, b.Schedule)
	}
	t.Contingency = c
	return t
}

// floorAt returns sorted max(0, base+delta) values. A project cannot cost
// less than nothing or finish before it starts.
func floorAt(base float64, deltas []float64) []float64 {
	out := make([]float64, len(deltas))
	for i, d := range deltas {
		out[i] = math.Max(0, base+d)
	}
	return stats.Sorted(out)
}

func percentOf(v, base float64) float64 {
	if base == 0 {
		return 0
	}
	return v / base * 100
}

func (e *Engine) warnings(res *Result) []string {
	var w []string
	if len(e.entries) == 0 {
		w = append(w, "risk register is empty; every trial delta is zero")
	} else {
		active := 0
		for _, r := range e.entries {
			if r.Probability > 0 {
				active++
			}
		}
		if active == 0 {
			w = append(w, "no risk has a probability above zero; every trial delta is zero")
		}
	}
	if e.cfg.Iterations < 1000 {
		w = append(w, fmt.Sprintf("only %d iterations requested; percentiles will be noisy below 1000", e.cfg.Iterations))
	}
	if res.Partial {
		w = append(w, fmt.Sprintf("partial result: %d of %d trials completed", res.Iterations, res.Requested))
	}
	return w
}
