package evaluator

import (
	"sort"

	"github.com/pable/go-lol-titles/internal/model"
	"github.com/pable/go-lol-titles/internal/titles"
)

// Entry is one lobby member handed to the evaluator. Profile is nil when the
// member's history produced no profile.
type Entry struct {
	ID      string
	Profile *model.PerformanceProfile
}

// Bid is a title's uncontested winner and the winning score.
type Bid struct {
	PlayerID string
	Title    titles.Definition
	Score    float64
}

// Assign awards at most one title per player from pool. Every entry ID is a
// key of the result; players without a title map to nil.
func Assign(pool []titles.Definition, entries []Entry) map[string]*model.TitleResult {
	results, _ := assign(pool, entries)
	return results
}

// assign is Assign that also returns the bids in walk order.
func assign(pool []titles.Definition, entries []Entry) (map[string]*model.TitleResult, []Bid) {
	results := make(map[string]*model.TitleResult, len(entries))
	profiled := make([]Entry, 0, len(entries))
	for _, e := range entries {
		results[e.ID] = nil
		if e.Profile != nil {
			profiled = append(profiled, e)
		}
	}
	if len(pool) == 0 || len(profiled) == 0 {
		return results, nil
	}

	// ---- Pass 1: one bid per title with a strict, gated winner. ----

	var bids []Bid
	for _, def := range pool {
		best := 0.0
		winner := -1
		tied := false
		for i, e := range profiled {
			score := def.Score(e.Profile)
			switch {
			case winner < 0 || score > best:
				best, winner, tied = score, i, false
			case score == best:
				tied = true
			}
		}
		if best < def.MinScore || tied {
			continue
		}
		bids = append(bids, Bid{PlayerID: profiled[winner].ID, Title: def, Score: best})
	}

	// ---- Pass 2: highest score first; equal scores keep pool order. ----

	sort.SliceStable(bids, func(i, j int) bool { return bids[i].Score > bids[j].Score })

	// ---- Pass 3: each player keeps their first bid. ----

	for _, b := range bids {
		if results[b.PlayerID] != nil {
			continue
		}
		p := profileOf(profiled, b.PlayerID)
		results[b.PlayerID] = &model.TitleResult{
			Title:    b.Title.Name,
			StatLine: b.Title.StatLine(p),
		}
	}
	return results, bids
}

func profileOf(entries []Entry, id string) *model.PerformanceProfile {
	for _, e := range entries {
		if e.ID == id {
			return e.Profile
		}
	}
	return nil
}
