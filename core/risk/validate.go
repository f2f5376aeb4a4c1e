package risk

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrInvalidRiskEntry is matched by every *EntryError.
var ErrInvalidRiskEntry = errors.New("invalid risk entry")

// EntryError describes one offending register entry.
type EntryError struct {
	Index  int // position in the supplied register
	ID     string
	Field  string
	Reason string
}

func (e *EntryError) Error() string {
	id := e.ID
	if id == "" {
		id = fmt.Sprintf("#%d", e.Index+1)
	}
	return fmt.Sprintf("risk %s: %s %s", id, e.Field, e.Reason)
}

func (e *EntryError) Is(target error) bool { return target == ErrInvalidRiskEntry }

// MaxTotalImpact bounds the summed magnitude, max(|min|, |max|), of every
// entry's cost range and, separately, of every schedule range. Below it trial
// totals and their squared deviations stay finite.
const MaxTotalImpact = 1e100

func magnitude(r Range) float64 { return math.Max(math.Abs(r.Min), math.Abs(r.Max)) }

// budget sums range magnitudes of one dimension and reports the entry that
// first pushes the register over MaxTotalImpact.
type budget struct {
	name string
	sum  float64
	over bool
}

func (b *budget) add(idx int, id string, r Range) error {
	if b.over || !finite(r.Min) || !finite(r.Max) {
		return nil
	}
	b.sum += magnitude(r)
	if b.sum <= MaxTotalImpact {
		return nil
	}
	b.over = true
	return &EntryError{Index: idx, ID: id, Field: b.name,
		Reason: fmt.Sprintf("pushes the register's combined %s magnitude past %g", b.name, MaxTotalImpact)}
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func checkRange(idx int, id, name string, r Range) []error {
	var errs []error
	if !finite(r.Min) || !finite(r.Max) {
		return append(errs, &EntryError{Index: idx, ID: id, Field: name, Reason: "bounds must be finite"})
	}
	if r.Min > r.Max {
		errs = append(errs, &EntryError{Index: idx, ID: id, Field: name,
			Reason: fmt.Sprintf("min %g exceeds max %g", r.Min, r.Max)})
	}
	if ml := r.MostLikely; ml != nil {
		if !finite(*ml) || *ml < r.Min || *ml > r.Max {
			errs = append(errs, &EntryError{Index: idx, ID: id, Field: name + "_most_likely",
				Reason: fmt.Sprintf("%g outside [%g, %g]", *ml, r.Min, r.Max)})
		}
	}
	return errs
}

// Validate checks every entry and returns all problems joined, or nil.
// A malformed register is rejected as a whole; nothing is clamped.
func Validate(entries []Entry) error {
	var errs []error
	costs, scheds := budget{name: "cost"}, budget{name: "schedule"}
	seen := make(map[string]int, len(entries))
	for i, e := range entries {
		if e.ID == "" {
			errs = append(errs, &EntryError{Index: i, Field: "id", Reason: "must not be empty"})
		} else if j, dup := seen[e.ID]; dup {
			errs = append(errs, &EntryError{Index: i, ID: e.ID, Field: "id",
				Reason: fmt.Sprintf("duplicates entry #%d", j+1)})
		} else {
			seen[e.ID] = i
		}
		if !e.Kind.Valid() {
			errs = append(errs, &EntryError{Index: i, ID: e.ID, Field: "kind",
				Reason: fmt.Sprintf("%q is not threat or opportunity", e.Kind)})
		}
		if !finite(e.Probability) || e.Probability < 0 || e.Probability > 1 {
			errs = append(errs, &EntryError{Index: i, ID: e.ID, Field: "probability",
				Reason: fmt.Sprintf("%g outside [0, 1]", e.Probability)})
		}
		errs = append(errs, checkRange(i, e.ID, "cost", e.Cost)...)
		errs = append(errs, checkRange(i, e.ID, "schedule", e.Schedule)...)
		if err := costs.add(i, e.ID, e.Cost); err != nil {
			errs = append(errs, err)
		}
		if err := scheds.add(i, e.ID, e.Schedule); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Canonical returns a copy of entries sorted by ID. Every derived quantity
// is computed in this order so results do not depend on register order.
func Canonical(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
