package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// PercentileValue pairs a requested percentile with its value.
type PercentileValue struct {
	P     float64
	Value float64
}

// Summary is the reportable reduction of one aggregate distribution.
type Summary struct {
	N           int
	Mean        float64
	StdDev      float64 // sample standard deviation; 0 when N < 2
	Min         float64
	Max         float64
	Median      float64
	Percentiles []PercentileValue
}

// At looks up a requested percentile.
func (s Summary) At(p float64) (float64, bool) {
	for _, pv := range s.Percentiles {
		if pv.P == p {
			return pv.Value, true
		}
	}
	return 0, false
}

// Summarize reduces samples; ps must already be normalized. Empty input
// yields a zero Summary with zero-valued percentiles.
func Summarize(samples []float64, ps []float64) Summary {
	return SummarizeSorted(Sorted(samples), ps)
}

// SummarizeSorted is Summarize for an ascending slice.
func SummarizeSorted(sorted []float64, ps []float64) Summary {
	s := Summary{N: len(sorted), Percentiles: Percentiles(sorted, ps)}
	if len(sorted) == 0 {
		return s
	}
	s.Min = sorted[0]
	s.Max = sorted[len(sorted)-1]
	s.Median = Percentile(sorted, 50)
	if s.Min == s.Max {
		s.Mean = s.Min
		return s
	}
	mean, variance := stat.MeanVariance(sorted, nil)
	// Summation rounding can drift past the extremes by an ulp.
	s.Mean = math.Min(math.Max(mean, s.Min), s.Max)
	if variance > 0 && !math.IsInf(variance, 1) {
		s.StdDev = math.Sqrt(variance)
	}
	return s
}
