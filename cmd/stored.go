package cmd

import (
	"fmt"

	"github.com/pable/go-lol-titles/internal/aggregator"
	"github.com/pable/go-lol-titles/internal/evaluator"
	"github.com/pable/go-lol-titles/internal/model"
	"github.com/pable/go-lol-titles/internal/storage"
)

// storedPlayer is a player resolved from the database with their profile
// rebuilt from stored history. Profile is nil when no game resolves.
type storedPlayer struct {
	Player  model.Player
	Records []model.MatchRecord
	Profile *model.PerformanceProfile
}

// loadStoredPlayer resolves ref (puuid, puuid prefix or name[#tag]) and
// rebuilds the profile from the newest cfg.HistorySize records.
func loadStoredPlayer(db *storage.DB, ref string, decay float64) (*storedPlayer, error) {
	p, err := db.FindPlayer(ref)
	if err != nil {
		return nil, fmt.Errorf("find player: %w", err)
	}
	if p == nil {
		return nil, fmt.Errorf("no player matching %q", ref)
	}
	records, err := db.GetMatchRecords(p.PUUID, cfg.HistorySize)
	if err != nil {
		return nil, fmt.Errorf("query records for %s: %w", p.PUUID, err)
	}
	return &storedPlayer{
		Player:  *p,
		Records: records,
		Profile: aggregator.BuildProfileWithDecay(records, decay),
	}, nil
}

// storedEntries resolves refs into evaluator entries, keeping ref order and
// dropping duplicates. It also returns display names keyed by puuid.
func storedEntries(db *storage.DB, refs []string) ([]evaluator.Entry, map[string]string, error) {
	var entries []evaluator.Entry
	names := make(map[string]string, len(refs))
	for _, ref := range refs {
		sp, err := loadStoredPlayer(db, ref, cfg.Decay)
		if err != nil {
			return nil, nil, err
		}
		if _, dup := names[sp.Player.PUUID]; dup {
			continue
		}
		names[sp.Player.PUUID] = sp.Player.DisplayName()
		entries = append(entries, evaluator.Entry{ID: sp.Player.PUUID, Profile: sp.Profile})
	}
	return entries, names, nil
}

func entryOrder(entries []evaluator.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

// resolvedGames counts each player's stored games that resolved.
func resolvedGames(db *storage.DB, players []model.Player) (map[string]int, error) {
	games := make(map[string]int, len(players))
	for _, p := range players {
		records, err := db.GetMatchRecords(p.PUUID, 0)
		if err != nil {
			return nil, fmt.Errorf("query records for %s: %w", p.PUUID, err)
		}
		for i := range records {
			if records[i].Resolved() {
				games[p.PUUID]++
			}
		}
	}
	return games, nil
}
