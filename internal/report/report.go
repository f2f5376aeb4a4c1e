// internal/report/report.go
package report

import (
	"math"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"renovrisk-core/engine"
	"renovrisk-core/sensitivity"
	"renovrisk-core/stats"
	"renovrisk/pkg/api"
)

// Rounding applied to reported figures. Raw samples are never rounded.
const (
	MoneyPlaces = 2
	DaysPlaces  = 2
	ScorePlaces = 4
)

// Meta is what the report needs beyond the engine result.
type Meta struct {
	RunID   string
	Shape   string
	Top     int  // EMV entries to flag; <= 0 flags none
	Samples bool // embed raw samples
}

// NewRunID returns a random identifier tying a report to its log lines.
func NewRunID() string { return uuid.NewString() }

// Round rounds half away from zero to places decimals. Non-finite values
// pass through.
func Round(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	r := decimal.NewFromFloat(v).Round(places).InexactFloat64()
	if r == 0 {
		return 0 // no -0 in reports
	}
	return r
}

func roundAll(vs []float64, places int32) []float64 {
	out := make([]float64, len(vs))
	for i, v := range vs {
		out[i] = Round(v, places)
	}
	return out
}

// Build converts an engine result into the v1 wire document.
func Build(res *engine.Result, m Meta) api.SimulationV1 {
	doc := api.SimulationV1{
		Schema:      api.SchemaV1,
		RunID:       m.RunID,
		Seed:        res.Seed,
		Requested:   res.Requested,
		Iterations:  res.Iterations,
		Partial:     res.Partial,
		Shape:       m.Shape,
		Percentiles: percentilesOf(res.CostSummary),
		Cost:        distribution(res.CostSummary, res.CostHistogram, res.CostCurve, MoneyPlaces),
		Schedule:    distribution(res.ScheduleSummary, res.ScheduleHistogram, res.ScheduleCurve, DaysPlaces),
		Sensitivity: api.SensitivityV1{
			Cost:     scores(res.CostSensitivity),
			Schedule: scores(res.ScheduleSensitivity),
		},
		EMV:      EMVTable(res.EMV, m.Top),
		Warnings: append([]string(nil), res.Warnings...),
	}
	if t := res.Totals; t != nil {
		c := t.Contingency
		doc.Totals = &api.TotalsV1{
			BaseCost:     Round(t.Baseline.Cost, MoneyPlaces),
			BaseDuration: Round(t.Baseline.Schedule, DaysPlaces),
			Cost:         distribution(t.Cost, nil, nil, MoneyPlaces),
			Schedule:     distribution(t.Schedule, nil, nil, DaysPlaces),
			Contingency: api.ContingencyV1{
				Confidence:      c.Confidence,
				CostAt:          Round(c.CostAt, MoneyPlaces),
				ScheduleAt:      Round(c.ScheduleAt, DaysPlaces),
				Cost:            Round(c.Cost, MoneyPlaces),
				Schedule:        Round(c.Schedule, DaysPlaces),
				CostPercent:     Round(c.CostPercent, 2),
				SchedulePercent: Round(c.SchedulePercent, 2),
			},
		}
	}
	if m.Samples {
		doc.Samples = Trials(res)
	}
	return doc
}

// Trials lists the raw samples in trial order.
func Trials(res *engine.Result) []api.TrialV1 {
	out := make([]api.TrialV1, len(res.CostSamples))
	for i := range res.CostSamples {
		out[i] = api.TrialV1{Trial: i, Cost: res.CostSamples[i], Schedule: res.ScheduleSamples[i]}
	}
	return out
}

// EMVTable rounds an EMV list and flags the top entries by cost.
func EMVTable(list []sensitivity.EMV, top int) api.EMVTableV1 {
	t := api.EMVTableV1{Entries: make([]api.EMVV1, len(list))}
	for i, e := range list {
		t.Entries[i] = api.EMVV1{
			ID:          e.ID,
			Kind:        string(e.Kind),
			Probability: e.Probability,
			Cost:        Round(e.Cost, MoneyPlaces),
			Schedule:    Round(e.Schedule, DaysPlaces),
		}
	}
	cost, sched := sensitivity.TotalEMV(list)
	t.TotalCost = Round(cost, MoneyPlaces)
	t.TotalSchedule = Round(sched, DaysPlaces)
	if top > 0 {
		for _, e := range sensitivity.TopByCost(list, top) {
			t.Top = append(t.Top, e.ID)
		}
	}
	return t
}

func percentilesOf(s stats.Summary) []float64 {
	out := make([]float64, len(s.Percentiles))
	for i, pv := range s.Percentiles {
		out[i] = pv.P
	}
	return out
}

func distribution(s stats.Summary, bins []stats.Bin, curve []stats.CurvePoint, places int32) api.DistributionV1 {
	d := api.DistributionV1{
		Mean:        Round(s.Mean, places),
		StdDev:      Round(s.StdDev, places),
		Min:         Round(s.Min, places),
		Max:         Round(s.Max, places),
		Median:      Round(s.Median, places),
		Percentiles: make([]api.PercentileV1, len(s.Percentiles)),
	}
	for i, pv := range s.Percentiles {
		d.Percentiles[i] = api.PercentileV1{P: pv.P, Value: Round(pv.Value, places)}
	}
	for _, b := range bins {
		d.Histogram = append(d.Histogram, api.BinV1{Lower: Round(b.Lower, places), Upper: Round(b.Upper, places), Count: b.Count})
	}
	for _, c := range curve {
		d.Curve = append(d.Curve, api.CurvePointV1{Value: Round(c.Value, places), Probability: c.Probability})
	}
	return d
}

func scores(r sensitivity.Report) []api.ScoreV1 {
	out := make([]api.ScoreV1, len(r.Ranking))
	for i, s := range r.Ranking {
		out[i] = api.ScoreV1{ID: s.ID, Score: Round(s.Score, ScorePlaces), VarianceShare: Round(s.VarianceShare, ScorePlaces)}
	}
	return out
}
