package sensitivity

import (
	"math"
	"sort"
)

// Score is one risk's sensitivity for an output dimension.
type Score struct {
	ID            string
	Score         float64 // Pearson correlation with the aggregate delta
	VarianceShare float64 // Score² normalized over all risks
}

// Report holds raw scores by ID and the ordered ranking the reports consume.
type Report struct {
	Scores  map[string]float64
	Ranking []Score
}

// Less orders by descending |score|, then descending score, then ID. IDs
// are unique, so this is a strict total order.
func Less(a, b Score) bool {
	aa, bb := math.Abs(a.Score), math.Abs(b.Score)
	if aa != bb {
		return aa > bb
	}
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.ID < b.ID
}

// Analyze pairs ids with the tracker's scores and ranks them.
func Analyze(ids []string, t *Tracker) Report {
	var raw []float64
	if t != nil {
		raw = t.Scores()
	}
	return Rank(ids, raw)
}

// Rank builds a Report from parallel id/score slices. Missing scores count
// as 0.
func Rank(ids []string, scores []float64) Report {
	rep := Report{Scores: make(map[string]float64, len(ids)), Ranking: make([]Score, len(ids))}
	var sumSq float64
	for i, id := range ids {
		s := 0.0
		if i < len(scores) {
			s = scores[i]
		}
		rep.Scores[id] = s
		rep.Ranking[i] = Score{ID: id, Score: s}
		sumSq += s * s
	}
	if sumSq > 0 {
		for i := range rep.Ranking {
			rep.Ranking[i].VarianceShare = rep.Ranking[i].Score * rep.Ranking[i].Score / sumSq
		}
	}
	sort.Slice(rep.Ranking, func(i, j int) bool { return Less(rep.Ranking[i], rep.Ranking[j]) })
	return rep
}
