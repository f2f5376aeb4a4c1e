package sensitivity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"renovrisk-core/risk"
)

func register() []risk.Entry {
	return []risk.Entry{
		{ID: "R2", Kind: risk.Opportunity, Probability: 0.5,
			Cost: risk.Range{Min: 200, Max: 400}, Schedule: risk.Range{Min: 1, Max: 3}},
		{ID: "R1", Kind: risk.Threat, Probability: 0.3,
			Cost: risk.Range{Min: 1000, Max: 3000}, Schedule: risk.Range{Min: 2, Max: 6}},
		{ID: "R3", Kind: risk.Opportunity, Probability: 0.9},
	}
}

func TestComputeEMV(t *testing.T) {
	got := ComputeEMV(register(), risk.Triangular)
	require.Len(t, got, 3)

	assert.Equal(t, "R1", got[0].ID)
	assert.InDelta(t, 600, got[0].Cost, 1e-9)
	assert.InDelta(t, 1.2, got[0].Schedule, 1e-9)

	assert.Equal(t, "R2", got[1].ID)
	assert.InDelta(t, -150, got[1].Cost, 1e-9)
	assert.InDelta(t, -1, got[1].Schedule, 1e-9)

	// no impact range: EMV is exactly zero, never -0
	assert.Equal(t, 0.0, got[2].Cost)
	assert.Equal(t, 0.0, got[2].Schedule)

	cost, sched := TotalEMV(got)
	assert.InDelta(t, 450, cost, 1e-9)
	assert.InDelta(t, 0.2, sched, 1e-9)
}

func TestComputeEMV_MostLikelyShiftsTriangularMean(t *testing.T) {
	e := []risk.Entry{{ID: "X", Kind: risk.Threat, Probability: 1,
		Cost: risk.Range{Min: 0, Max: 300, MostLikely: risk.Float(300)}}}
	assert.InDelta(t, 200, ComputeEMV(e, risk.Triangular)[0].Cost, 1e-9)
	assert.InDelta(t, 150, ComputeEMV(e, risk.Uniform)[0].Cost, 1e-9)
}

func TestTopByCost(t *testing.T) {
	list := []EMV{
		{ID: "b", Cost: 100},
		{ID: "a", Cost: -100},
		{ID: "c", Cost: 500},
		{ID: "d", Cost: 1},
	}
	top := TopByCost(list, 3)
	require.Len(t, top, 3)
	assert.Equal(t, []string{"c", "a", "b"}, []string{top[0].ID, top[1].ID, top[2].ID})
	assert.Len(t, TopByCost(list, 0), 4)
	assert.Equal(t, "b", list[0].ID, "input must not be reordered")
}
