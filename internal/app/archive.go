package app

import (
	"context"
	"fmt"
	"time"

	"github.com/pable/go-lol-titles/internal/evaluator"
	"github.com/pable/go-lol-titles/internal/lcu"
	"github.com/pable/go-lol-titles/internal/model"
	"github.com/pable/go-lol-titles/internal/storage"
)

// Archiver fetches match histories from the League client and stores both
// the raw payload and the decoded records before handing the records back.
// It is the profiles.HistorySource used while watching a lobby.
type Archiver struct {
	client *lcu.Client
	db     *storage.DB
	now    func() time.Time
}

func NewArchiver(client *lcu.Client, db *storage.DB) *Archiver {
	return &Archiver{client: client, db: db, now: time.Now}
}

func (a *Archiver) FetchHistory(ctx context.Context, puuid string, count int) ([]model.MatchRecord, error) {
	body, err := a.client.RawMatchHistory(ctx, puuid, count)
	if err != nil {
		return nil, fmt.Errorf("fetch history for %s: %w", puuid, err)
	}
	return IngestHistory(a.db, puuid, body, a.now())
}

// IngestHistory archives body as puuid's latest history and replaces the
// stored records with its decoded games.
func IngestHistory(db *storage.DB, puuid string, body []byte, at time.Time) ([]model.MatchRecord, error) {
	dto, err := lcu.DecodeMatchHistory(body)
	if err != nil {
		return nil, err
	}
	records := lcu.MatchRecords(puuid, dto)

	if err := db.UpsertPlayer(model.Player{PUUID: puuid, LastFetchAt: at}); err != nil {
		return nil, err
	}
	if err := db.SaveRawHistory(puuid, body, at); err != nil {
		return nil, err
	}
	if err := db.ReplaceMatchRecords(puuid, records); err != nil {
		return nil, err
	}
	return records, nil
}

// RememberMembers stores lobby members' Riot IDs so later commands can refer
// to them by name.
func RememberMembers(db *storage.DB, members []lcu.Member) error {
	for _, m := range members {
		p := model.Player{PUUID: m.PUUID, GameName: m.GameName, GameTag: m.GameTag}
		if m.IsLocal {
			// "You" is a display label, not a Riot ID.
			p.GameName = ""
		}
		if err := db.UpsertPlayer(p); err != nil {
			return err
		}
	}
	return nil
}

// SaveEvaluation stores ev with one result row per player, in order.
func SaveEvaluation(db *storage.DB, id string, at time.Time, seed int64, ev evaluator.Evaluation, order []string) error {
	pool := make([]string, len(ev.Pool))
	for i, d := range ev.Pool {
		pool[i] = d.Name
	}
	summary := model.EvaluationSummary{
		ID:        id,
		CreatedAt: at,
		Seed:      seed,
		Pool:      pool,
		Players:   len(order),
		Awarded:   ev.Results.Awarded(),
	}
	rows := make([]model.EvaluationRow, 0, len(order))
	for _, puuid := range order {
		row := model.EvaluationRow{EvaluationID: id, PUUID: puuid}
		if r := ev.Results[puuid]; r != nil {
			row.Title = r.Title
			row.StatLine = r.StatLine
		}
		rows = append(rows, row)
	}
	if err := db.InsertEvaluation(summary, rows); err != nil {
		return fmt.Errorf("save evaluation: %w", err)
	}
	return nil
}
