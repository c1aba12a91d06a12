// Package titles holds the static registry of flavor titles that can be
// awarded to lobby members, each with its scoring rule and stat line.
package titles

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"

	"github.com/pable/go-lol-titles/internal/model"
)

// Rarity controls how likely a title is to enter an evaluation's pool.
// It has no effect on scoring.
type Rarity int

const (
	Common Rarity = iota
	Uncommon
	Rare
)

func (r Rarity) String() string {
	switch r {
	case Common:
		return "common"
	case Uncommon:
		return "uncommon"
	case Rare:
		return "rare"
	default:
		return fmt.Sprintf("rarity(%d)", int(r))
	}
}

// Definition is one awardable title. Score maps a profile to a comparable
// number (higher is better); a title is only considered when the best score
// reaches MinScore. StatLine renders the numbers behind an award.
type Definition struct {
	Name     string
	Rarity   Rarity
	Score    func(p *model.PerformanceProfile) float64
	MinScore float64
	StatLine func(p *model.PerformanceProfile) string
}

// Catalogue is an ordered list of definitions. Order matters: the pool
// sampler draws once per non-common entry in this order.
type Catalogue []Definition

// Lookup returns the definition with the given name.
func (c Catalogue) Lookup(name string) (Definition, bool) {
	for _, d := range c {
		if d.Name == name {
			return d, true
		}
	}
	return Definition{}, false
}

// Names returns the title names in catalogue order.
func (c Catalogue) Names() []string {
	out := make([]string, len(c))
	for i, d := range c {
		out[i] = d.Name
	}
	return out
}

// thousands renders v rounded to an integer with thousands separators.
func thousands(v float64) string {
	return humanize.Comma(int64(math.Round(v)))
}

func percent(v float64) string {
	return fmt.Sprintf("%.0f%%", v*100)
}

// Default returns a fresh copy of the built-in catalogue.
func Default() Catalogue {
	return Catalogue{
		// ---- Streaks ----
		{
			Name:     "Who Wants a Piece of the Champ",
			Rarity:   Common,
			Score:    func(p *model.PerformanceProfile) float64 { return float64(p.WinStreak) },
			MinScore: 3,
			StatLine: func(p *model.PerformanceProfile) string { return fmt.Sprintf("%d win streak", p.WinStreak) },
		},
		{
			Name:     "On a Roll",
			Rarity:   Uncommon,
			Score:    func(p *model.PerformanceProfile) float64 { return float64(p.WinStreak) },
			MinScore: 2,
			StatLine: func(p *model.PerformanceProfile) string { return fmt.Sprintf("%d win streak", p.WinStreak) },
		},
		{
			Name:     "Stuck in Bronze",
			Rarity:   Common,
			Score:    func(p *model.PerformanceProfile) float64 { return float64(p.LossStreak) },
			MinScore: 3,
			StatLine: func(p *model.PerformanceProfile) string { return fmt.Sprintf("%d loss streak", p.LossStreak) },
		},
		{
			Name:     "It's Just a Bad Day",
			Rarity:   Uncommon,
			Score:    func(p *model.PerformanceProfile) float64 { return float64(p.LossStreak) },
			MinScore: 2,
			StatLine: func(p *model.PerformanceProfile) string { return fmt.Sprintf("%d loss streak", p.LossStreak) },
		},

		// ---- Damage ----
		{
			Name:     "Tons of Damage",
			Rarity:   Common,
			Score:    func(p *model.PerformanceProfile) float64 { return p.AvgDamage },
			MinScore: 1,
			StatLine: func(p *model.PerformanceProfile) string { return thousands(p.AvgDamage) + " avg dmg" },
		},
		{
			Name:   "Glass Cannon",
			Rarity: Uncommon,
			Score: func(p *model.PerformanceProfile) float64 {
				if p.AvgDamageTaken > 0 {
					return p.AvgDamage / p.AvgDamageTaken
				}
				return 0
			},
			MinScore: 1.5,
			StatLine: func(p *model.PerformanceProfile) string {
				return fmt.Sprintf("%s dmg / %s taken", thousands(p.AvgDamage), thousands(p.AvgDamageTaken))
			},
		},
		{
			Name:   "Poke Master",
			Rarity: Rare,
			Score: func(p *model.PerformanceProfile) float64 {
				if p.AvgKills > 0 {
					return p.AvgDamage / p.AvgKills
				}
				return p.AvgDamage
			},
			MinScore: 5000,
			StatLine: func(p *model.PerformanceProfile) string {
				return fmt.Sprintf("%s dmg, %.1f kills", thousands(p.AvgDamage), p.AvgKills)
			},
		},
		{
			Name:   "Golden Mop",
			Rarity: Rare,
			Score: func(p *model.PerformanceProfile) float64 {
				if p.AvgDamage > 0 {
					return p.AvgKills / (p.AvgDamage / 1000)
				}
				return p.AvgKills
			},
			MinScore: 0.5,
			StatLine: func(p *model.PerformanceProfile) string {
				return fmt.Sprintf("%.1f kills, %s dmg", p.AvgKills, thousands(p.AvgDamage))
			},
		},

		// ---- Tanking and sustain ----
		{
			Name:     "Unkillable Demon King",
			Rarity:   Common,
			Score:    func(p *model.PerformanceProfile) float64 { return p.AvgSelfMitigated },
			MinScore: 5000,
			StatLine: func(p *model.PerformanceProfile) string { return thousands(p.AvgSelfMitigated) + " avg mitigated" },
		},
		{
			Name:     "Human Shield",
			Rarity:   Uncommon,
			Score:    func(p *model.PerformanceProfile) float64 { return p.AvgDamageTaken },
			MinScore: 1,
			StatLine: func(p *model.PerformanceProfile) string { return thousands(p.AvgDamageTaken) + " avg taken" },
		},
		{
			Name:     "Frontline Forever",
			Rarity:   Rare,
			Score:    func(p *model.PerformanceProfile) float64 { return p.AvgDamageTaken + p.AvgSelfMitigated },
			MinScore: 15000,
			StatLine: func(p *model.PerformanceProfile) string {
				return fmt.Sprintf("%s taken, %s mitigated", thousands(p.AvgDamageTaken), thousands(p.AvgSelfMitigated))
			},
		},
		{
			Name:     "All For You",
			Rarity:   Common,
			Score:    func(p *model.PerformanceProfile) float64 { return p.AvgHealing },
			MinScore: 1,
			StatLine: func(p *model.PerformanceProfile) string { return thousands(p.AvgHealing) + " avg healing" },
		},

		// ---- Kills, deaths, assists ----
		{
			Name:     "Grey Screen Enjoyer",
			Rarity:   Common,
			Score:    func(p *model.PerformanceProfile) float64 { return p.AvgDeaths },
			MinScore: 12,
			StatLine: func(p *model.PerformanceProfile) string { return fmt.Sprintf("%.1f avg deaths", p.AvgDeaths) },
		},
		{
			Name:     "KDA Player",
			Rarity:   Uncommon,
			Score:    func(p *model.PerformanceProfile) float64 { return p.KDA() },
			MinScore: 4,
			StatLine: func(p *model.PerformanceProfile) string {
				return fmt.Sprintf("%.1f / %.1f / %.1f", p.AvgKills, p.AvgDeaths, p.AvgAssists)
			},
		},
		{
			Name:     "Always a Bridesmaid",
			Rarity:   Uncommon,
			Score:    func(p *model.PerformanceProfile) float64 { return p.AvgAssists },
			MinScore: 5,
			StatLine: func(p *model.PerformanceProfile) string { return fmt.Sprintf("%.1f avg assists", p.AvgAssists) },
		},
		{
			Name:   "Dive Bomber",
			Rarity: Rare,
			Score: func(p *model.PerformanceProfile) float64 {
				if p.AvgDeaths >= 10 {
					return p.AvgKills
				}
				return 0
			},
			MinScore: 10,
			StatLine: func(p *model.PerformanceProfile) string {
				return fmt.Sprintf("%.1f kills, %.1f deaths", p.AvgKills, p.AvgDeaths)
			},
		},

		// ---- Utility ----
		{
			Name:     "Chain CC Enjoyer",
			Rarity:   Common,
			Score:    func(p *model.PerformanceProfile) float64 { return p.AvgCCTime },
			MinScore: 10,
			StatLine: func(p *model.PerformanceProfile) string { return fmt.Sprintf("%.0fs avg CC time", p.AvgCCTime) },
		},
		{
			Name:     "Always Watching",
			Rarity:   Uncommon,
			Score:    func(p *model.PerformanceProfile) float64 { return p.AvgVisionScore },
			MinScore: 20,
			StatLine: func(p *model.PerformanceProfile) string { return fmt.Sprintf("%.0f avg vision score", p.AvgVisionScore) },
		},
		{
			Name:   "Legally Blind",
			Rarity: Rare,
			Score: func(p *model.PerformanceProfile) float64 {
				if p.AvgVisionScore >= 0 {
					return 100 - p.AvgVisionScore
				}
				return 0
			},
			MinScore: 85,
			StatLine: func(p *model.PerformanceProfile) string { return fmt.Sprintf("%.0f avg vision score", p.AvgVisionScore) },
		},
		{
			Name:     "Ward Bot",
			Rarity:   Uncommon,
			Score:    func(p *model.PerformanceProfile) float64 { return p.AvgWardsPlaced },
			MinScore: 5,
			StatLine: func(p *model.PerformanceProfile) string { return fmt.Sprintf("%.1f avg wards", p.AvgWardsPlaced) },
		},

		// ---- Farming ----
		{
			Name:     "CS or Feed",
			Rarity:   Common,
			Score:    func(p *model.PerformanceProfile) float64 { return p.AvgCS },
			MinScore: 100,
			StatLine: func(p *model.PerformanceProfile) string { return fmt.Sprintf("%.0f avg CS", p.AvgCS) },
		},
		{
			Name:   "Retired Pro",
			Rarity: Rare,
			Score: func(p *model.PerformanceProfile) float64 {
				if p.AvgDamage > 0 {
					return p.AvgCS / (p.AvgDamage / 10000)
				}
				return 0
			},
			MinScore: 5,
			StatLine: func(p *model.PerformanceProfile) string {
				return fmt.Sprintf("%.0f CS, %s dmg", p.AvgCS, thousands(p.AvgDamage))
			},
		},

		// ---- Surrender ----
		{
			Name:     "Rage Quitter",
			Rarity:   Uncommon,
			Score:    func(p *model.PerformanceProfile) float64 { return p.SurrenderRate },
			MinScore: 0.5,
			StatLine: func(p *model.PerformanceProfile) string { return percent(p.SurrenderRate) + " surrender rate" },
		},
		{
			Name:     "Never Surrender",
			Rarity:   Rare,
			Score:    func(p *model.PerformanceProfile) float64 { return 1 - p.SurrenderRate },
			MinScore: 0.9,
			StatLine: func(p *model.PerformanceProfile) string { return percent(p.SurrenderRate) + " surrender rate" },
		},
	}
}
