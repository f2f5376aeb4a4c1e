// core/engine/config.go
package engine

import (
	"errors"
	"fmt"
	"math"

	"renovrisk-core/risk"
	"renovrisk-core/stats"
)

const (
	DefaultIterations    = 10000
	DefaultBatchSize     = 1024
	DefaultConfidence    = 90
	DefaultHistogramBins = 50
	DefaultCurvePoints   = 101
)

// DefaultPercentiles are reported when Config.Percentiles is empty.
var DefaultPercentiles = []float64{10, 50, 90}

// ErrInvalidConfiguration is matched by every *ConfigError.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// ConfigError names the offending run parameter.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string { return fmt.Sprintf("%s: %s", e.Field, e.Reason) }

func (e *ConfigError) Is(target error) bool { return target == ErrInvalidConfiguration }

// Baseline is the deterministic project estimate the deltas are added to.
type Baseline struct {
	Cost     float64
	Schedule float64
}

// Config holds Monte Carlo run parameters. Zero-valued optional fields take
// their defaults; Iterations has none and must be set.
type Config struct {
	Iterations  int
	Seed        uint64
	HasSeed     bool      // false: a seed is drawn and reported in Result.Seed
	Percentiles []float64 // each in (0,100)
	Shape       risk.Shape

	BatchSize       int       // trials per batch; 0 = DefaultBatchSize
	Baseline        *Baseline // nil: no totals or contingency
	ConfidenceLevel float64   // percentile used for contingency; 0 = DefaultConfidence
	HistogramBins   int
	CurvePoints     int
}

// DefaultConfig returns a ready-to-run configuration.
func DefaultConfig() Config {
	return Config{Iterations: DefaultIterations, Percentiles: append([]float64(nil), DefaultPercentiles...)}
}

// WithSeed returns c pinned to seed.
func (c Config) WithSeed(seed uint64) Config {
	c.Seed, c.HasSeed = seed, true
	return c
}

func invalid(field, format string, a ...any) error {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, a...)}
}

func openPercent(v float64) bool { return v > 0 && v < 100 && !math.IsNaN(v) }

// Normalize validates c and fills defaults. It performs no sampling.
func (c Config) Normalize() (Config, error) {
	if c.Iterations <= 0 {
		return c, invalid("iterations", "must be positive, got %d", c.Iterations)
	}
	if len(c.Percentiles) == 0 {
		c.Percentiles = DefaultPercentiles
	}
	for _, p := range c.Percentiles {
		if !openPercent(p) {
			return c, invalid("percentiles", "%g outside (0, 100)", p)
		}
	}
	c.Percentiles = stats.NormalizePercentiles(c.Percentiles)

	shape, err := risk.ParseShape(string(c.Shape))
	if err != nil {
		return c, invalid("shape", "%v", err)
	}
	c.Shape = shape

	switch {
	case c.BatchSize < 0:
		return c, invalid("batch_size", "must be >= 0, got %d", c.BatchSize)
	case c.BatchSize == 0:
		c.BatchSize = DefaultBatchSize
	}
	switch {
	case c.ConfidenceLevel == 0:
		c.ConfidenceLevel = DefaultConfidence
	case !openPercent(c.ConfidenceLevel):
		return c, invalid("confidence", "%g outside (0, 100)", c.ConfidenceLevel)
	}
	switch {
	case c.HistogramBins == 0:
		c.HistogramBins = DefaultHistogramBins
	case c.HistogramBins < 0:
		return c, invalid("histogram_bins", "must be >= 1, got %d", c.HistogramBins)
	}
	switch {
	case c.CurvePoints == 0:
		c.CurvePoints = DefaultCurvePoints
	case c.CurvePoints < 2:
		return c, invalid("curve_points", "must be >= 2, got %d", c.CurvePoints)
	}
	if b := c.Baseline; b != nil {
		if !(b.Cost >= 0) || !(b.Schedule >= 0) || math.IsInf(b.Cost, 0) || math.IsInf(b.Schedule, 0) {
			return c, invalid("baseline", "cost and schedule must be finite and >= 0")
		}
		if b.Cost > risk.MaxTotalImpact || b.Schedule > risk.MaxTotalImpact {
			return c, invalid("baseline", "cost and schedule must not exceed %g", risk.MaxTotalImpact)
		}
		cp := *b
		c.Baseline = &cp
	}
	return c, nil
}
