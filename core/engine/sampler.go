package engine

import (
	"math/rand/v2"

	"github.com/cespare/xxhash/v2"
)

// splitmix64 decorrelates consecutive trial indices before they seed a
// stream.
func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

// streamKey identifies a risk's random stream independently of its position
// in the register.
func streamKey(id string) uint64 { return xxhash.Sum64String(id) }

// sampler owns one reseedable PCG. Every (trial, risk) pair gets its own
// stream, so trials can be computed in any order, on any worker, in any batch
// size and still reproduce the same numbers.
type sampler struct {
	src *rand.PCG
	rng *rand.Rand
}

func newSampler() *sampler {
	src := rand.NewPCG(0, 0)
	return &sampler{src: src, rng: rand.New(src)}
}

// trial computes trial i. costC/schedC receive each risk's signed
// contribution (canonical order); the sums are accumulated in that order.
func (s *sampler) trial(e *Engine, i int, costC, schedC []float64) (cost, sched float64) {
	ti := splitmix64(uint64(i))
	for j := range e.entries {
		r := &e.entries[j]
		s.src.Seed(e.seed^e.keys[j], ti)

		var c, d float64
		if s.rng.Float64() < r.Probability {
			sign := r.Kind.Sign()
			c = sign * r.Cost.Quantile(e.cfg.Shape, s.rng.Float64())
			d = sign * r.Schedule.Quantile(e.cfg.Shape, s.rng.Float64())
		}
		costC[j], schedC[j] = c, d
		cost += c
		sched += d
	}
	return cost, sched
}
