package generator

import (
	"time"

	"github.com/slicenferqin/sql-zen/internal/catalog"
)

// weightedChoice samples one value proportionally to its weight. Weights are
// validated up front, so the cumulative sum is always positive here.
func (g *Generator) weightedChoice(choices []catalog.Weighted) string {
	var total float64
	for _, c := range choices {
		total += c.Weight
	}

	target := g.rng.Float64() * total
	var cumulative float64
	for _, c := range choices {
		cumulative += c.Weight
		if target < cumulative {
			return c.Value
		}
	}
	// Float accumulation can land exactly on the upper bound.
	return choices[len(choices)-1].Value
}

// sampleDistinct returns k distinct indices in [0, n) via a partial
// Fisher-Yates shuffle. Requires k <= n.
func (g *Generator) sampleDistinct(n, k int) []int {
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	for i := 0; i < k; i++ {
		j := i + g.rng.Intn(n-i)
		indices[i], indices[j] = indices[j], indices[i]
	}
	return indices[:k]
}

// randRange returns a uniform integer in [min, max].
func (g *Generator) randRange(min, max int) int {
	if max <= min {
		return min
	}
	return min + g.rng.Intn(max-min+1)
}

// randDuration returns a uniform duration in [min, max], second-granular.
func (g *Generator) randDuration(min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	span := int64((max - min) / time.Second)
	return min + time.Duration(g.rng.Int63n(span+1))*time.Second
}
