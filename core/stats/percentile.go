// core/stats/percentile.go
package stats

import (
	"math"
	"sort"
)

// Percentile returns the p-th percentile (p in [0,100]) of an ascending
// slice using linear interpolation between closest ranks (Hyndman-Fan type 7,
// the NumPy default):
//
//	h  = (n-1)·p/100
//	lo = floor(h)
//	v  = x[lo] + (h-lo)·(x[lo+1]-x[lo])
//
// p is clamped to [0,100]. An empty slice yields 0.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if math.IsNaN(p) || p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[n-1]
	}
	h := float64(n-1) * p / 100
	lo := int(math.Floor(h))
	if lo >= n-1 {
		return sorted[n-1]
	}
	frac := h - float64(lo)
	return lerp(sorted[lo], sorted[lo+1], frac)
}

// lerp interpolates between a <= b and never leaves [a, b], so percentiles of
// increasing p stay monotone under rounding.
func lerp(a, b, t float64) float64 {
	if t <= 0 || a == b {
		return a
	}
	if t >= 1 {
		return b
	}
	v := a + t*(b-a)
	if math.IsInf(b-a, 0) {
		v = a*(1-t) + b*t
	}
	return math.Min(math.Max(v, a), b)
}

// Percentiles evaluates every p against one sorted slice.
func Percentiles(sorted []float64, ps []float64) []PercentileValue {
	out := make([]PercentileValue, len(ps))
	for i, p := range ps {
		out[i] = PercentileValue{P: p, Value: Percentile(sorted, p)}
	}
	return out
}

// Sorted returns an ascending copy.
func Sorted(samples []float64) []float64 {
	s := make([]float64, len(samples))
	copy(s, samples)
	sort.Float64s(s)
	return s
}

// NormalizePercentiles sorts ps ascending and drops duplicates.
func NormalizePercentiles(ps []float64) []float64 {
	out := Sorted(ps)
	j := 0
	for i, p := range out {
		if i > 0 && p == out[j-1] {
			continue
		}
		out[j] = p
		j++
	}
	return out[:j]
}
