// core/sensitivity/emv.go
package sensitivity

import (
	"math"
	"sort"

	"renovrisk-core/risk"
)

// EMV is the closed-form expected value of one entry, signed by kind.
type EMV struct {
	ID          string
	Kind        risk.Kind
	Probability float64
	Cost        float64
	Schedule    float64
}

// ComputeEMV returns probability × mean impact per entry in ID order. It does
// not sample; the values are independent of any simulation run.
func ComputeEMV(entries []risk.Entry, shape risk.Shape) []EMV {
	canon := risk.Canonical(entries)
	out := make([]EMV, len(canon))
	for i, e := range canon {
		s := e.Kind.Sign()
		out[i] = EMV{
			ID:          e.ID,
			Kind:        e.Kind,
			Probability: e.Probability,
			Cost:        zero(s * e.Probability * e.Cost.Mean(shape)),
			Schedule:    zero(s * e.Probability * e.Schedule.Mean(shape)),
		}
	}
	return out
}

// zero folds -0 into 0 so opportunities with no impact print cleanly.
func zero(v float64) float64 {
	if v == 0 {
		return 0
	}
	return v
}

// TotalEMV sums cost and schedule EMV over all entries.
func TotalEMV(list []EMV) (cost, schedule float64) {
	for _, e := range list {
		cost += e.Cost
		schedule += e.Schedule
	}
	return cost, schedule
}

// TopByCost returns the n entries with the largest absolute cost EMV
// (ties by ID). n <= 0 returns all of them.
func TopByCost(list []EMV, n int) []EMV {
	out := make([]EMV, len(list))
	copy(out, list)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := math.Abs(out[i].Cost), math.Abs(out[j].Cost)
		if a != b {
			return a > b
		}
		return out[i].ID < out[j].ID
	})
	if n > 0 && n < len(out) {
		out = out[:n]
	}
	return out
}
