// core/risk/entry.go
package risk

import (
	"fmt"
	"strings"
)

// Kind selects the sign an entry's impact carries.
type Kind string

const (
	Threat      Kind = "threat"
	Opportunity Kind = "opportunity"
)

// ParseKind accepts the canonical names and the Portuguese labels of legacy
// spreadsheet registers ("Ameaça", "Oportunidade").
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "threat", "ameaça", "ameaca", "t":
		return Threat, nil
	case "opportunity", "oportunidade", "o":
		return Opportunity, nil
	}
	return "", fmt.Errorf("unknown risk kind %q", s)
}

// Sign is +1 for threats and -1 for opportunities. Impact ranges are
// magnitudes in the direction of the kind.
func (k Kind) Sign() float64 {
	if k == Opportunity {
		return -1
	}
	return 1
}

func (k Kind) Valid() bool { return k == Threat || k == Opportunity }

// Range is a closed impact interval with an optional most-likely value.
type Range struct {
	Min        float64
	Max        float64
	MostLikely *float64
}

// Degenerate reports a zero-width range; sampling it yields Min.
func (r Range) Degenerate() bool { return r.Min == r.Max }

// Mode is the triangular peak: MostLikely when given, the midpoint otherwise.
func (r Range) Mode() float64 {
	if r.MostLikely != nil {
		return *r.MostLikely
	}
	return r.midpoint()
}

// midpoint halves before adding so wide finite ranges cannot overflow.
func (r Range) midpoint() float64 { return r.Min/2 + r.Max/2 }

// Entry is one identified risk or opportunity of the register.
type Entry struct {
	ID          string
	Description string
	Kind        Kind
	Probability float64
	Cost        Range
	Schedule    Range
}

// Float is a helper for optional most-likely values.
func Float(v float64) *float64 { return &v }
