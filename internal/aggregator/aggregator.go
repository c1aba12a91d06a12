package aggregator

import (
	"math"

	"github.com/pable/go-lol-titles/internal/model"
)

// DecayFactor is the per-game-age weight multiplier: the most recent game
// weighs 1.0, the one before it 0.85, then 0.7225, and so on.
const DecayFactor = 0.85

// BuildProfile aggregates a newest-first match history into a PerformanceProfile
// using DecayFactor. Returns nil when no record resolves.
func BuildProfile(records []model.MatchRecord) *model.PerformanceProfile {
	return BuildProfileWithDecay(records, DecayFactor)
}

// BuildProfileWithDecay is BuildProfile with an explicit decay factor.
// A decay outside (0, 1] falls back to DecayFactor.
func BuildProfileWithDecay(records []model.MatchRecord, decay float64) *model.PerformanceProfile {
	if decay <= 0 || decay > 1 || math.IsNaN(decay) {
		decay = DecayFactor
	}

	// ---- Pass 1: streak from the most recent resolvable game backwards. ----
	//
	// Unresolvable records are transparent here: the next resolvable game
	// continues or breaks the streak as if the skipped one were absent.

	var winStreak, lossStreak int
	seeded := false
	var streakWon bool
	for i := range records {
		s := records[i].Stats
		if s == nil {
			continue
		}
		if !seeded {
			seeded = true
			streakWon = s.Win
		} else if s.Win != streakWon {
			break
		}
		if s.Win {
			winStreak++
		} else {
			lossStreak++
		}
	}
	if !seeded {
		return nil
	}

	// ---- Pass 2: decay-weighted sums. ----
	//
	// The exponent is the record's original position, so a skipped game never
	// shifts the weight of the games after it.

	type weightedAccum struct {
		damage, healing, taken, mitigated float64
		kills, deaths, assists            float64
		ccTime, vision, wards, cs         float64
		surrenders                        float64
		totalWeight                       float64
		games                             int
	}
	var acc weightedAccum

	for i := range records {
		s := records[i].Stats
		if s == nil {
			continue
		}
		w := math.Pow(decay, float64(i))
		acc.damage += float64(s.DamageDealt) * w
		acc.healing += float64(s.Healing) * w
		acc.taken += float64(s.DamageTaken) * w
		acc.mitigated += float64(s.SelfMitigated) * w
		acc.kills += float64(s.Kills) * w
		acc.deaths += float64(s.Deaths) * w
		acc.assists += float64(s.Assists) * w
		acc.ccTime += float64(s.CCTime) * w
		acc.vision += float64(s.VisionScore) * w
		acc.wards += float64(s.WardsPlaced) * w
		acc.cs += float64(s.MinionsKilled) * w
		if s.Surrendered() {
			acc.surrenders += w
		}
		acc.totalWeight += w
		acc.games++
	}

	// ---- Pass 3: normalise by summed weight, not by game count. ----

	tw := acc.totalWeight
	return &model.PerformanceProfile{
		WinStreak:        winStreak,
		LossStreak:       lossStreak,
		AvgDamage:        acc.damage / tw,
		AvgHealing:       acc.healing / tw,
		AvgDamageTaken:   acc.taken / tw,
		AvgSelfMitigated: acc.mitigated / tw,
		AvgKills:         acc.kills / tw,
		AvgDeaths:        acc.deaths / tw,
		AvgAssists:       acc.assists / tw,
		AvgCCTime:        acc.ccTime / tw,
		AvgVisionScore:   acc.vision / tw,
		AvgWardsPlaced:   acc.wards / tw,
		AvgCS:            acc.cs / tw,
		SurrenderRate:    acc.surrenders / tw,
		Games:            acc.games,
	}
}

// Weights returns the decay weight of each record position, 0 for records
// that do not resolve. Useful for explaining how a profile was built.
func Weights(records []model.MatchRecord, decay float64) []float64 {
	if decay <= 0 || decay > 1 || math.IsNaN(decay) {
		decay = DecayFactor
	}
	out := make([]float64, len(records))
	for i := range records {
		if records[i].Stats == nil {
			continue
		}
		out[i] = math.Pow(decay, float64(i))
	}
	return out
}
