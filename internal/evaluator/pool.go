package evaluator

import "github.com/pable/go-lol-titles/internal/titles"

// Pool inclusion probabilities per rarity. Common titles are always included.
const (
	UncommonChance = 0.60
	RareChance     = 0.25
)

// RandomSource yields uniform values in [0, 1). *math/rand.Rand satisfies it.
type RandomSource interface {
	Float64() float64
}

// SamplePool builds the candidate pool for one evaluation. Common titles are
// always included without consuming a draw; every other title consumes
// exactly one draw, in catalogue order, whether or not it is included.
func SamplePool(cat titles.Catalogue, rng RandomSource) []titles.Definition {
	pool := make([]titles.Definition, 0, len(cat))
	for _, d := range cat {
		switch d.Rarity {
		case titles.Common:
			pool = append(pool, d)
		case titles.Uncommon:
			if rng.Float64() < UncommonChance {
				pool = append(pool, d)
			}
		case titles.Rare:
			if rng.Float64() < RareChance {
				pool = append(pool, d)
			}
		}
	}
	return pool
}
