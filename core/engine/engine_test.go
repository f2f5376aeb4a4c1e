package engine

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"renovrisk-core/risk"
	"renovrisk-core/sensitivity"
	"renovrisk-core/stats"
)

func sampleRegister() []risk.Entry {
	return []risk.Entry{
		{ID: "R1", Kind: risk.Threat, Probability: 0.3,
			Cost: risk.Range{Min: 1000, Max: 3000}, Schedule: risk.Range{Min: 2, Max: 10}},
		{ID: "R2", Kind: risk.Opportunity, Probability: 0.5,
			Cost: risk.Range{Min: 200, Max: 400}, Schedule: risk.Range{Min: 1, Max: 2}},
		{ID: "R3", Kind: risk.Threat, Probability: 0.1,
			Cost: risk.Range{Min: 5000, Max: 20000, MostLikely: risk.Float(8000)}, Schedule: risk.Range{Min: 10, Max: 30}},
	}
}

func run(t *testing.T, cfg Config, entries []risk.Entry) *Result {
	t.Helper()
	res, err := Simulate(context.Background(), cfg, entries)
	require.NoError(t, err)
	return res
}

func TestSimulate_SampleCounts(t *testing.T) {
	cfg := Config{Iterations: 2500, BatchSize: 1000}.WithSeed(1)
	res := run(t, cfg, sampleRegister())
	assert.Len(t, res.CostSamples, 2500)
	assert.Len(t, res.ScheduleSamples, 2500)
	assert.Equal(t, 2500, res.Iterations)
	assert.False(t, res.Partial)
	assert.Equal(t, uint64(1), res.Seed)
	assert.Len(t, res.CostSensitivity.Ranking, 3)
	assert.Len(t, res.EMV, 3)
}

func TestSimulate_SeedReproducible(t *testing.T) {
	cfg := Config{Iterations: 3000}.WithSeed(42)
	a := run(t, cfg, sampleRegister())
	b := run(t, cfg, sampleRegister())
	if d := cmp.Diff(a.CostSamples, b.CostSamples); d != "" {
		t.Fatalf("same seed, different cost samples:\n%s", d)
	}
	if d := cmp.Diff(a.ScheduleSamples, b.ScheduleSamples); d != "" {
		t.Fatalf("same seed, different schedule samples:\n%s", d)
	}
	assert.Equal(t, a.CostSensitivity, b.CostSensitivity)

	c := run(t, Config{Iterations: 3000}.WithSeed(43), sampleRegister())
	assert.NotEqual(t, a.CostSamples, c.CostSamples)
}

func TestSimulate_UnseededReportsSeed(t *testing.T) {
	first := run(t, Config{Iterations: 200}, sampleRegister())
	replay := run(t, Config{Iterations: 200}.WithSeed(first.Seed), sampleRegister())
	assert.Equal(t, first.CostSamples, replay.CostSamples)
}

func TestSimulate_BatchSizeDoesNotChangeSamples(t *testing.T) {
	base := run(t, Config{Iterations: 777, BatchSize: 777}.WithSeed(9), sampleRegister())
	for _, bs := range []int{1, 7, 100, 1024} {
		got := run(t, Config{Iterations: 777, BatchSize: bs}.WithSeed(9), sampleRegister())
		if d := cmp.Diff(base.CostSamples, got.CostSamples); d != "" {
			t.Fatalf("batch %d changed cost samples:\n%s", bs, d)
		}
		assert.Equal(t, base.ScheduleSamples, got.ScheduleSamples, "batch %d", bs)
		for _, id := range []string{"R1", "R2", "R3"} {
			assert.InDelta(t, base.CostSensitivity.Scores[id], got.CostSensitivity.Scores[id], 1e-9, "batch %d %s", bs, id)
		}
	}
}

func TestSimulate_RegisterOrderDoesNotMatter(t *testing.T) {
	reg := sampleRegister()
	rev := []risk.Entry{reg[2], reg[0], reg[1]}
	cfg := Config{Iterations: 1500}.WithSeed(5)
	a := run(t, cfg, reg)
	b := run(t, cfg, rev)
	assert.Equal(t, a.CostSamples, b.CostSamples)
	assert.Equal(t, a.CostSensitivity.Ranking, b.CostSensitivity.Ranking)
	assert.Equal(t, a.EMV, b.EMV)
}

func TestSimulate_EmptyRegister(t *testing.T) {
	res := run(t, Config{Iterations: 1000}.WithSeed(1), nil)
	require.Len(t, res.CostSamples, 1000)
	for i := range res.CostSamples {
		require.Zero(t, res.CostSamples[i])
		require.Zero(t, res.ScheduleSamples[i])
	}
	for _, pv := range res.CostSummary.Percentiles {
		assert.Zero(t, pv.Value)
	}
	assert.Empty(t, res.CostSensitivity.Ranking)
	assert.Contains(t, res.Warnings[0], "empty")
}

func TestSimulate_CertainPointMass(t *testing.T) {
	reg := []risk.Entry{
		{ID: "T", Kind: risk.Threat, Probability: 1,
			Cost: risk.Range{Min: 500, Max: 500}, Schedule: risk.Range{Min: 4, Max: 4}},
	}
	res := run(t, Config{Iterations: 100}.WithSeed(3), reg)
	for _, v := range res.CostSamples {
		require.Equal(t, 500.0, v)
	}
	for _, pv := range res.ScheduleSummary.Percentiles {
		assert.Equal(t, 4.0, pv.Value)
	}
	// constant contribution: no variance, no correlation
	assert.Zero(t, res.CostSensitivity.Scores["T"])

	reg[0].Kind = risk.Opportunity
	res = run(t, Config{Iterations: 100}.WithSeed(3), reg)
	assert.Equal(t, -500.0, res.CostSummary.Max)
	assert.Equal(t, -500.0, res.CostSummary.Min)
	assert.InDelta(t, -500, res.EMV[0].Cost, 1e-12)
}

func TestSimulate_ZeroProbabilityNeverFires(t *testing.T) {
	reg := sampleRegister()
	for i := range reg {
		reg[i].Probability = 0
	}
	res := run(t, Config{Iterations: 500}.WithSeed(8), reg)
	for i := range res.CostSamples {
		require.Zero(t, res.CostSamples[i])
		require.Zero(t, res.ScheduleSamples[i])
	}
	require.Len(t, res.EMV, len(reg))
	for _, e := range res.EMV {
		assert.Zero(t, e.Cost, e.ID)
		assert.Zero(t, e.Schedule, e.ID)
	}
	for _, r := range reg {
		assert.Zero(t, res.CostSensitivity.Scores[r.ID], r.ID)
		assert.Zero(t, res.ScheduleSensitivity.Scores[r.ID], r.ID)
	}
	for _, s := range res.CostSensitivity.Ranking {
		assert.Zero(t, s.VarianceShare, s.ID)
	}
	assert.Contains(t, res.Warnings, "no risk has a probability above zero; every trial delta is zero")
}

func TestSimulate_SingleIteration(t *testing.T) {
	res := run(t, Config{Iterations: 1}.WithSeed(11), sampleRegister())
	require.Len(t, res.CostSamples, 1)
	for _, pv := range res.CostSummary.Percentiles {
		assert.Equal(t, res.CostSamples[0], pv.Value)
	}
}

func TestSimulate_MeanApproachesEMV(t *testing.T) {
	reg := []risk.Entry{{ID: "R1", Kind: risk.Threat, Probability: 0.3,
		Cost: risk.Range{Min: 1000, Max: 3000}}}
	res := run(t, Config{Iterations: 20000}.WithSeed(2024), reg)
	assert.InDelta(t, 600, res.EMV[0].Cost, 1e-9)
	assert.InDelta(t, 600, res.CostSummary.Mean, 40)
}

func TestSimulate_DominantRiskRanksFirst(t *testing.T) {
	reg := []risk.Entry{
		{ID: "big", Kind: risk.Threat, Probability: 0.5, Cost: risk.Range{Min: 0, Max: 100000}},
		{ID: "small", Kind: risk.Threat, Probability: 0.5, Cost: risk.Range{Min: 0, Max: 10}},
		{ID: "idle", Kind: risk.Threat, Probability: 0, Cost: risk.Range{Min: 0, Max: 10}},
	}
	res := run(t, Config{Iterations: 5000}.WithSeed(77), reg)
	rank := res.CostSensitivity.Ranking
	require.Len(t, rank, 3)
	assert.Equal(t, "big", rank[0].ID)
	assert.Greater(t, rank[0].Score, 0.9)
	assert.Equal(t, "idle", rank[2].ID)
	assert.Zero(t, rank[2].Score)
}

func TestSimulate_OpportunityReducesCost(t *testing.T) {
	reg := []risk.Entry{{ID: "O", Kind: risk.Opportunity, Probability: 0.8,
		Cost: risk.Range{Min: 100, Max: 200}}}
	res := run(t, Config{Iterations: 2000}.WithSeed(4), reg)
	assert.LessOrEqual(t, res.CostSummary.Max, 0.0)
	assert.Less(t, res.CostSummary.Mean, 0.0)
}

func TestSimulate_TrialMatchesSamples(t *testing.T) {
	e, err := New(Config{Iterations: 300, BatchSize: 64}.WithSeed(12), sampleRegister())
	require.NoError(t, err)
	res, err := e.Run(context.Background())
	require.NoError(t, err)
	for _, i := range []int{0, 63, 64, 150, 299} {
		c, s := e.Trial(i)
		assert.Equal(t, res.CostSamples[i], c, "trial %d", i)
		assert.Equal(t, res.ScheduleSamples[i], s, "trial %d", i)
	}
}

func TestSimulate_BaselineAndContingency(t *testing.T) {
	reg := []risk.Entry{{ID: "T", Kind: risk.Threat, Probability: 1,
		Cost: risk.Range{Min: 100, Max: 100}, Schedule: risk.Range{Min: 5, Max: 5}}}
	cfg := Config{Iterations: 50, Baseline: &Baseline{Cost: 1000, Schedule: 50}}.WithSeed(1)
	res := run(t, cfg, reg)
	require.NotNil(t, res.Totals)
	c := res.Totals.Contingency
	assert.Equal(t, 90.0, c.Confidence)
	assert.Equal(t, 1100.0, c.CostAt)
	assert.Equal(t, 100.0, c.Cost)
	assert.InDelta(t, 10, c.CostPercent, 1e-12)
	assert.Equal(t, 5.0, c.Schedule)
	v, ok := res.Totals.Cost.At(90)
	require.True(t, ok)
	assert.Equal(t, 1100.0, v)
}

func TestSimulate_TotalsFloorAtZero(t *testing.T) {
	reg := []risk.Entry{{ID: "O", Kind: risk.Opportunity, Probability: 1,
		Cost: risk.Range{Min: 500, Max: 500}}}
	cfg := Config{Iterations: 10, Baseline: &Baseline{Cost: 100}}.WithSeed(1)
	res := run(t, cfg, reg)
	assert.Equal(t, 0.0, res.Totals.Cost.Max)
	assert.Equal(t, -100.0, res.Totals.Contingency.Cost)
	assert.Zero(t, res.Totals.Contingency.SchedulePercent)
}

func TestSimulate_NoBaselineNoTotals(t *testing.T) {
	res := run(t, Config{Iterations: 10}.WithSeed(1), sampleRegister())
	assert.Nil(t, res.Totals)
	assert.NotEmpty(t, res.CostHistogram)
	assert.Len(t, res.CostCurve, DefaultCurvePoints)
}

func TestSimulate_InvalidConfig(t *testing.T) {
	cases := map[string]Config{
		"zero iterations":     {Iterations: 0},
		"negative iterations": {Iterations: -5},
		"percentile 0":        {Iterations: 10, Percentiles: []float64{0}},
		"percentile 100":      {Iterations: 10, Percentiles: []float64{50, 100}},
		"shape":               {Iterations: 10, Shape: "beta"},
		"batch":               {Iterations: 10, BatchSize: -1},
		"confidence":          {Iterations: 10, ConfidenceLevel: 120},
		"curve points":        {Iterations: 10, CurvePoints: 1},
		"baseline":            {Iterations: 10, Baseline: &Baseline{Cost: -1}},
		"huge baseline":       {Iterations: 10, Baseline: &Baseline{Cost: 1e300}},
	}
	for name, cfg := range cases {
		_, err := Simulate(context.Background(), cfg, sampleRegister())
		require.Error(t, err, name)
		assert.ErrorIs(t, err, ErrInvalidConfiguration, name)
		var ce *ConfigError
		assert.True(t, errors.As(err, &ce), name)
	}
}

func TestSimulate_InvalidEntriesRejected(t *testing.T) {
	reg := sampleRegister()
	reg[0].Probability = 1.5
	reg[2].Cost = risk.Range{Min: 10, Max: 1}
	res, err := Simulate(context.Background(), Config{Iterations: 10}, reg)
	assert.Nil(t, res)
	require.ErrorIs(t, err, risk.ErrInvalidRiskEntry)
	assert.Contains(t, err.Error(), "R1")
	assert.Contains(t, err.Error(), "R3")
}

func TestSimulate_OverflowingRegisterRejected(t *testing.T) {
	cases := map[string][]risk.Entry{
		"wide range": {{ID: "W", Kind: risk.Threat, Probability: 1,
			Cost: risk.Range{Min: -1e308, Max: 1e308}}},
		"summed bounds": {
			{ID: "A", Kind: risk.Threat, Probability: 1, Cost: risk.Range{Min: 1e308, Max: 1.5e308}},
			{ID: "B", Kind: risk.Threat, Probability: 1, Cost: risk.Range{Min: 1e308, Max: 1.5e308}},
		},
	}
	for name, reg := range cases {
		var (
			res *Result
			err error
		)
		require.NotPanics(t, func() {
			res, err = Simulate(context.Background(), Config{Iterations: 100}.WithSeed(1), reg)
		}, name)
		assert.Nil(t, res, name)
		assert.ErrorIs(t, err, risk.ErrInvalidRiskEntry, name)
	}
}

func TestSimulate_LargeMagnitudesStayFinite(t *testing.T) {
	const big = risk.MaxTotalImpact / 4
	reg := []risk.Entry{
		{ID: "A", Kind: risk.Threat, Probability: 1,
			Cost: risk.Range{Min: big / 2, Max: big}, Schedule: risk.Range{Min: -big, Max: big}},
		{ID: "B", Kind: risk.Threat, Probability: 0.5,
			Cost: risk.Range{Min: -big, Max: big}, Schedule: risk.Range{Min: 0, Max: big}},
		{ID: "C", Kind: risk.Opportunity, Probability: 0.7,
			Cost: risk.Range{Min: 0, Max: big}, Schedule: risk.Range{Min: big / 2, Max: big}},
	}
	cfg := Config{Iterations: 2000, Baseline: &Baseline{Cost: big, Schedule: big}}.WithSeed(99)
	res := run(t, cfg, reg)

	finite := func(what string, v float64) {
		t.Helper()
		assert.False(t, math.IsNaN(v) || math.IsInf(v, 0), "%s = %v", what, v)
	}
	for _, s := range []stats.Summary{res.CostSummary, res.ScheduleSummary, res.Totals.Cost, res.Totals.Schedule} {
		finite("mean", s.Mean)
		finite("stddev", s.StdDev)
		finite("median", s.Median)
		for _, pv := range s.Percentiles {
			finite("percentile", pv.Value)
		}
	}
	assert.Positive(t, res.CostSummary.StdDev)
	for _, e := range res.EMV {
		finite("emv cost "+e.ID, e.Cost)
		finite("emv schedule "+e.ID, e.Schedule)
	}
	for _, rep := range []sensitivity.Report{res.CostSensitivity, res.ScheduleSensitivity} {
		for _, sc := range rep.Ranking {
			finite("score "+sc.ID, sc.Score)
			finite("share "+sc.ID, sc.VarianceShare)
		}
	}
	total := 0
	for _, b := range res.CostHistogram {
		total += b.Count
	}
	assert.Equal(t, res.Iterations, total)
	finite("contingency", res.Totals.Contingency.Cost)
}

func TestSimulate_PercentilesNormalized(t *testing.T) {
	res := run(t, Config{Iterations: 100, Percentiles: []float64{95, 5, 50, 95}}.WithSeed(1), sampleRegister())
	var ps []float64
	for _, pv := range res.CostSummary.Percentiles {
		ps = append(ps, pv.P)
	}
	assert.Equal(t, []float64{5, 50, 95}, ps)
}

func TestRun_CancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := Simulate(ctx, Config{Iterations: 1000}.WithSeed(1), sampleRegister())
	require.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, res)
	assert.True(t, res.Partial)
	assert.Zero(t, res.Iterations)
	assert.Empty(t, res.CostSamples)
}

func TestAssemble_UsesContiguousPrefix(t *testing.T) {
	e, err := New(Config{Iterations: 100, BatchSize: 10}.WithSeed(6), sampleRegister())
	require.NoError(t, err)
	full, err := e.Run(context.Background())
	require.NoError(t, err)

	// batch 2 missing: only batches 0 and 1 count
	batches := []Batch{e.SimulateBatch(0), e.SimulateBatch(1), {}, e.SimulateBatch(3)}
	res := e.Assemble(batches)
	assert.True(t, res.Partial)
	assert.Equal(t, 20, res.Iterations)
	assert.Equal(t, full.CostSamples[:20], res.CostSamples)
	assert.Contains(t, res.Warnings, "partial result: 20 of 100 trials completed")
}

func TestConfig_Normalize(t *testing.T) {
	c, err := DefaultConfig().Normalize()
	require.NoError(t, err)
	assert.Equal(t, DefaultIterations, c.Iterations)
	assert.Equal(t, DefaultBatchSize, c.BatchSize)
	assert.Equal(t, risk.Triangular, c.Shape)
	assert.Equal(t, float64(DefaultConfidence), c.ConfidenceLevel)
	assert.Equal(t, []float64{10, 50, 90}, c.Percentiles)
	assert.False(t, c.HasSeed)
}
