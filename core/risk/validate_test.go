package risk

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func good(id string) Entry {
	return Entry{ID: id, Kind: Threat, Probability: 0.3,
		Cost: Range{Min: 1000, Max: 3000}, Schedule: Range{Min: 2, Max: 5}}
}

func TestValidate_Accepts(t *testing.T) {
	opp := good("R2")
	opp.Kind = Opportunity
	opp.Cost.MostLikely = Float(1500)
	require.NoError(t, Validate([]Entry{good("R1"), opp}))
	require.NoError(t, Validate(nil))
}

func TestValidate_ProbabilityBounds(t *testing.T) {
	for _, p := range []float64{0, 1} {
		e := good("R1")
		e.Probability = p
		assert.NoError(t, Validate([]Entry{e}), "p=%g", p)
	}
	for _, p := range []float64{-0.01, 1.5, math.NaN(), math.Inf(1)} {
		e := good("R1")
		e.Probability = p
		err := Validate([]Entry{e})
		require.Error(t, err, "p=%g", p)
		assert.ErrorIs(t, err, ErrInvalidRiskEntry)
	}
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	bad1 := good("R1")
	bad1.Cost = Range{Min: 500, Max: 100}
	bad2 := good("R1") // duplicate
	bad2.Kind = "maybe"
	bad3 := good("R3")
	bad3.Schedule.MostLikely = Float(99)

	err := Validate([]Entry{bad1, bad2, bad3})
	require.Error(t, err)

	var fields []string
	for _, e := range err.(interface{ Unwrap() []error }).Unwrap() {
		var ee *EntryError
		require.True(t, errors.As(e, &ee))
		fields = append(fields, ee.ID+"/"+ee.Field)
	}
	assert.Equal(t, []string{"R1/cost", "R1/id", "R1/kind", "R3/schedule_most_likely"}, fields)
}

func TestValidate_CombinedMagnitudeLimit(t *testing.T) {
	wide := good("W")
	wide.Cost = Range{Min: -1e308, Max: 1e308}
	err := Validate([]Entry{wide})
	require.ErrorIs(t, err, ErrInvalidRiskEntry)
	assert.Contains(t, err.Error(), "risk W: cost")

	// Each entry is within bounds; together they are not.
	a, b, c := good("A"), good("B"), good("C")
	a.Schedule = Range{Min: 1e308, Max: 1.5e308}
	b.Schedule = Range{Min: 1e308, Max: 1.5e308}
	c.Schedule = Range{Min: 1, Max: 2}
	err = Validate([]Entry{a, b, c})
	require.Error(t, err)
	errs := err.(interface{ Unwrap() []error }).Unwrap()
	require.Len(t, errs, 1, "the limit is reported once per dimension")
	var ee *EntryError
	require.True(t, errors.As(errs[0], &ee))
	assert.Equal(t, "A", ee.ID)
	assert.Equal(t, "schedule", ee.Field)

	near := good("N")
	near.Cost = Range{Min: -MaxTotalImpact / 2, Max: MaxTotalImpact / 2}
	assert.NoError(t, Validate([]Entry{near}))
}

func TestValidate_EmptyID(t *testing.T) {
	e := good("")
	err := Validate([]Entry{e})
	require.ErrorIs(t, err, ErrInvalidRiskEntry)
	assert.Contains(t, err.Error(), "#1")
}

func TestCanonical_SortsByIDWithoutMutating(t *testing.T) {
	in := []Entry{good("b"), good("a"), good("c")}
	out := Canonical(in)
	assert.Equal(t, "a", out[0].ID)
	assert.Equal(t, "c", out[2].ID)
	assert.Equal(t, "b", in[0].ID)
}

func TestParseKind(t *testing.T) {
	cases := map[string]Kind{
		"threat":       Threat,
		" Ameaça ":     Threat,
		"ameaca":       Threat,
		"Opportunity":  Opportunity,
		"OPORTUNIDADE": Opportunity,
	}
	for in, want := range cases {
		got, err := ParseKind(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseKind("issue")
	assert.Error(t, err)
}

func TestRange_MeanAndQuantile(t *testing.T) {
	r := Range{Min: 1000, Max: 3000}
	assert.Equal(t, 2000.0, r.Mean(Triangular))
	assert.Equal(t, 2000.0, r.Mean(Uniform))
	assert.InDelta(t, 2000.0, r.Quantile(Triangular, 0.5), 1e-9)
	assert.InDelta(t, 1500.0, r.Quantile(Uniform, 0.25), 1e-9)

	skew := Range{Min: 0, Max: 300, MostLikely: Float(0)}
	assert.InDelta(t, 100.0, skew.Mean(Triangular), 1e-9)
	assert.InDelta(t, 150.0, skew.Mean(Uniform), 1e-9)

	point := Range{Min: 42, Max: 42}
	assert.Equal(t, 42.0, point.Mean(Triangular))
	assert.Equal(t, 42.0, point.Quantile(Triangular, 0.7))
}

func TestRange_WideRangeMidpoint(t *testing.T) {
	r := Range{Min: -1e308, Max: 1e308}
	assert.Zero(t, r.Mode())
	assert.Zero(t, r.Mean(Uniform))
	assert.Zero(t, r.Mean(Triangular))
	assert.NotPanics(t, func() { r.Quantile(Triangular, 0.5) })

	r = Range{Min: -MaxTotalImpact / 2, Max: MaxTotalImpact / 2}
	for _, u := range []float64{0, 0.25, 0.5, 0.999} {
		v := r.Quantile(Triangular, u)
		assert.False(t, math.IsInf(v, 0) || math.IsNaN(v), "u=%g: %v", u, v)
		assert.True(t, v >= r.Min && v <= r.Max, "u=%g: %v", u, v)
	}
}

func TestParseShape(t *testing.T) {
	s, err := ParseShape("")
	require.NoError(t, err)
	assert.Equal(t, Triangular, s)
	s, err = ParseShape("Uniform")
	require.NoError(t, err)
	assert.Equal(t, Uniform, s)
	_, err = ParseShape("pert")
	assert.Error(t, err)
}
