package model

import "time"

// ---- Raw history supplied by the match-history source ----

// MatchStats holds one participant's end-of-game stats for a single match.
type MatchStats struct {
	DamageDealt    int // total damage dealt to champions
	Healing        int
	DamageTaken    int
	SelfMitigated  int
	Kills          int
	Deaths         int
	Assists        int
	CCTime         int // seconds spent crowd-controlling others
	VisionScore    int
	WardsPlaced    int
	MinionsKilled  int
	Win            bool
	Surrender      bool
	EarlySurrender bool
}

// Surrendered reports whether the game ended in any kind of surrender.
func (s *MatchStats) Surrendered() bool {
	return s.Surrender || s.EarlySurrender
}

// MatchRecord is one historical game for one player. Stats is nil when the
// player's participant entry could not be resolved in the game.
type MatchRecord struct {
	GameID    int64
	CreatedAt time.Time
	Stats     *MatchStats
}

// Resolved reports whether the record carries participant stats.
func (r *MatchRecord) Resolved() bool {
	return r.Stats != nil
}

// ---- Aggregated metrics ----

// PerformanceProfile is a player's decay-weighted summary of recent games.
type PerformanceProfile struct {
	WinStreak  int
	LossStreak int

	AvgDamage        float64
	AvgHealing       float64
	AvgDamageTaken   float64
	AvgSelfMitigated float64
	AvgKills         float64
	AvgDeaths        float64
	AvgAssists       float64
	AvgCCTime        float64
	AvgVisionScore   float64
	AvgWardsPlaced   float64
	AvgCS            float64

	SurrenderRate float64 // weighted fraction in [0,1]

	Games int // resolved games that contributed weight
}

// KDA returns (kills + assists) / deaths, or kills + assists when deaths is zero.
func (p *PerformanceProfile) KDA() float64 {
	if p.AvgDeaths > 0 {
		return (p.AvgKills + p.AvgAssists) / p.AvgDeaths
	}
	return p.AvgKills + p.AvgAssists
}

// ---- Evaluation output ----

// TitleResult is an awarded title and the stat line explaining it.
type TitleResult struct {
	Title    string
	StatLine string
}

// Player is a known player stored alongside their match history.
type Player struct {
	PUUID       string
	GameName    string
	GameTag     string
	LastFetchAt time.Time
}

// DisplayName returns "name#tag", the name alone, or the puuid when unnamed.
func (p *Player) DisplayName() string {
	switch {
	case p.GameName != "" && p.GameTag != "":
		return p.GameName + "#" + p.GameTag
	case p.GameName != "":
		return p.GameName
	default:
		return p.PUUID
	}
}

// EvaluationSummary describes one stored evaluation run.
type EvaluationSummary struct {
	ID        string
	CreatedAt time.Time
	Seed      int64
	Pool      []string // title names in pool order
	Players   int
	Awarded   int
}

// EvaluationRow is one player's stored outcome of an evaluation.
type EvaluationRow struct {
	EvaluationID string
	PUUID        string
	Title        string // empty when no title was awarded
	StatLine     string
}
