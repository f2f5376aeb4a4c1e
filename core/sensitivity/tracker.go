package sensitivity

import "math"

// ScoreEpsilon is the magnitude below which a correlation is reported as 0.
const ScoreEpsilon = 1e-9

// comoment accumulates the paired moments of one risk's per-trial
// contribution (x) and the aggregate trial delta (y).
type comoment struct {
	n   int
	mx  float64
	my  float64
	m2x float64
	m2y float64
	cxy float64
}

func (c *comoment) add(x, y float64) {
	c.n++
	n := float64(c.n)
	dx := x - c.mx
	dy := y - c.my
	c.mx += dx / n
	c.my += dy / n
	c.m2x += dx * (x - c.mx)
	c.m2y += dy * (y - c.my)
	c.cxy += dx * (y - c.my)
}

func (c *comoment) merge(o comoment) {
	if o.n == 0 {
		return
	}
	if c.n == 0 {
		*c = o
		return
	}
	na, nb := float64(c.n), float64(o.n)
	n := na + nb
	dx := o.mx - c.mx
	dy := o.my - c.my
	w := na * nb / n
	c.mx += dx * nb / n
	c.my += dy * nb / n
	c.m2x += o.m2x + dx*dx*w
	c.m2y += o.m2y + dy*dy*w
	c.cxy += o.cxy + dx*dy*w
	c.n += o.n
}

// corr is the Pearson coefficient, 0 when either side has no spread.
func (c comoment) corr() float64 {
	if c.n < 2 || c.m2x <= 0 || c.m2y <= 0 {
		return 0
	}
	r := c.cxy / (math.Sqrt(c.m2x) * math.Sqrt(c.m2y))
	if math.IsNaN(r) || math.Abs(r) < ScoreEpsilon {
		return 0
	}
	return math.Max(-1, math.Min(1, r))
}

// Tracker streams per-risk correlation state for one output dimension.
// Trackers of consecutive trial batches merge in batch order.
type Tracker struct {
	risks []comoment
}

func NewTracker(numRisks int) *Tracker {
	return &Tracker{risks: make([]comoment, numRisks)}
}

// Add records one trial: contrib[i] is risk i's signed contribution, total
// the trial's aggregate delta.
func (t *Tracker) Add(contrib []float64, total float64) {
	for i, x := range contrib {
		t.risks[i].add(x, total)
	}
}

func (t *Tracker) Merge(o *Tracker) {
	if o == nil {
		return
	}
	for i := range t.risks {
		t.risks[i].merge(o.risks[i])
	}
}

// Trials reports how many trials were recorded.
func (t *Tracker) Trials() int {
	if len(t.risks) == 0 {
		return 0
	}
	return t.risks[0].n
}

// Scores returns one correlation per risk, in tracker order.
func (t *Tracker) Scores() []float64 {
	out := make([]float64, len(t.risks))
	for i, c := range t.risks {
		out[i] = c.corr()
	}
	return out
}
