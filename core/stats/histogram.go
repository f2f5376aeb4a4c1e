package stats

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Bin is one equal-width histogram bucket; the last bin is closed on the right.
type Bin struct {
	Lower float64
	Upper float64
	Count int
}

// Histogram buckets an ascending slice into bins equal-width bins spanning
// [min, max]. A point mass collapses into a single bin.
func Histogram(sorted []float64, bins int) []Bin {
	if len(sorted) == 0 || bins < 1 {
		return nil
	}
	lo, hi := sorted[0], sorted[len(sorted)-1]
	if lo == hi {
		return []Bin{{Lower: lo, Upper: hi, Count: len(sorted)}}
	}

	dividers := floats.Span(make([]float64, bins+1), lo, hi)
	// stat.Histogram bins are half-open; nudge the top divider so max counts.
	dividers[bins] = math.Nextafter(hi, math.Inf(1))
	counts := stat.Histogram(nil, dividers, sorted, nil)

	out := make([]Bin, bins)
	for i := range out {
		out[i] = Bin{Lower: dividers[i], Upper: dividers[i+1], Count: int(counts[i])}
	}
	out[bins-1].Upper = hi
	return out
}

// CurvePoint is one point of an S-curve: the value at or below which
// Probability of trials fall.
type CurvePoint struct {
	Value       float64
	Probability float64
}

// Curve samples the empirical CDF of an ascending slice at points evenly
// spaced probabilities in [0,1], using the Percentile rule.
func Curve(sorted []float64, points int) []CurvePoint {
	if len(sorted) == 0 || points < 2 {
		return nil
	}
	out := make([]CurvePoint, points)
	for i := range out {
		q := float64(i) / float64(points-1)
		out[i] = CurvePoint{Value: Percentile(sorted, q*100), Probability: q}
	}
	return out
}
