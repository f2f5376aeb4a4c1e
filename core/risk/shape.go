package risk

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/stat/distuv"
)

// Shape is the distribution impacts are drawn from within their range.
type Shape string

const (
	Triangular Shape = "triangular"
	Uniform    Shape = "uniform"
)

func ParseShape(s string) (Shape, error) {
	switch Shape(strings.ToLower(strings.TrimSpace(s))) {
	case "", Triangular:
		return Triangular, nil
	case Uniform:
		return Uniform, nil
	}
	return "", fmt.Errorf("unknown impact shape %q (want triangular or uniform)", s)
}

// Quantile maps u in [0,1) onto the range by inverse CDF. A degenerate
// range returns its bound without touching the distribution. The range must
// have passed Validate.
func (r Range) Quantile(shape Shape, u float64) float64 {
	if r.Degenerate() {
		return r.Min
	}
	if shape == Uniform {
		return distuv.Uniform{Min: r.Min, Max: r.Max}.Quantile(u)
	}
	return distuv.NewTriangle(r.Min, r.Max, r.Mode(), nil).Quantile(u)
}

// Mean is the expected impact under shape. Without a most-likely value both
// shapes share the midpoint.
func (r Range) Mean(shape Shape) float64 {
	switch {
	case r.Degenerate():
		return r.Min
	case shape == Triangular && r.MostLikely != nil && r.Min < r.Max &&
		*r.MostLikely >= r.Min && *r.MostLikely <= r.Max:
		return distuv.NewTriangle(r.Min, r.Max, *r.MostLikely, nil).Mean()
	}
	return r.midpoint()
}
