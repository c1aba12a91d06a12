package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/pable/go-lol-titles/internal/model"
)

// UpsertPlayer inserts or updates a player. Empty name fields never
// overwrite known ones.
func (db *DB) UpsertPlayer(p model.Player) error {
	_, err := db.conn.Exec(`
		INSERT INTO players(puuid, game_name, game_tag, last_fetch_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(puuid) DO UPDATE SET
			game_name     = CASE WHEN excluded.game_name <> '' THEN excluded.game_name ELSE players.game_name END,
			game_tag      = CASE WHEN excluded.game_tag  <> '' THEN excluded.game_tag  ELSE players.game_tag  END,
			last_fetch_at = MAX(players.last_fetch_at, excluded.last_fetch_at)`,
		p.PUUID, p.GameName, p.GameTag, unixOrZero(p.LastFetchAt),
	)
	if err != nil {
		return fmt.Errorf("upsert player %s: %w", p.PUUID, err)
	}
	return nil
}

// GetPlayer returns the player with the given puuid, or nil if unknown.
func (db *DB) GetPlayer(puuid string) (*model.Player, error) {
	row := db.conn.QueryRow(`
		SELECT puuid, game_name, game_tag, last_fetch_at FROM players WHERE puuid = ?`, puuid)
	p, err := scanPlayer(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FindPlayer resolves a puuid, a puuid prefix, or a "name#tag" / "name"
// reference. Returns nil when nothing matches.
func (db *DB) FindPlayer(ref string) (*model.Player, error) {
	if p, err := db.GetPlayer(ref); p != nil || err != nil {
		return p, err
	}
	name, tag, hasTag := strings.Cut(ref, "#")
	// Name matches rank above puuid-prefix matches. The prefix compare is
	// literal so '_' and '%' in a reference are not wildcards.
	query := `SELECT puuid, game_name, game_tag, last_fetch_at FROM players
		WHERE substr(puuid, 1, length(?1)) = ?1
			OR (game_name = ?2 COLLATE NOCASE AND (?3 = 0 OR game_tag = ?4 COLLATE NOCASE))
		ORDER BY CASE WHEN game_name = ?2 COLLATE NOCASE THEN 0 ELSE 1 END, last_fetch_at DESC
		LIMIT 1`
	row := db.conn.QueryRow(query, ref, name, boolInt(hasTag), tag)
	p, err := scanPlayer(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPlayers returns all known players, most recently fetched first.
func (db *DB) ListPlayers() ([]model.Player, error) {
	rows, err := db.conn.Query(`
		SELECT puuid, game_name, game_tag, last_fetch_at FROM players
		ORDER BY last_fetch_at DESC, puuid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Player
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPlayer(s scanner) (model.Player, error) {
	var p model.Player
	var fetched int64
	if err := s.Scan(&p.PUUID, &p.GameName, &p.GameTag, &fetched); err != nil {
		return model.Player{}, err
	}
	p.LastFetchAt = fromUnix(fetched)
	return p, nil
}

// ReplaceMatchRecords stores records as puuid's full newest-first history,
// replacing whatever was stored before. The player row must exist.
func (db *DB) ReplaceMatchRecords(puuid string, records []model.MatchRecord) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM match_records WHERE puuid = ?", puuid); err != nil {
		return fmt.Errorf("clear match_records for %s: %w", puuid, err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO match_records(
			puuid, position, game_id, created_at, resolved,
			damage_dealt, healing, damage_taken, self_mitigated,
			kills, deaths, assists, cc_time, vision_score, wards_placed, minions_killed,
			win, surrender, early_surrender
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, r := range records {
		var s model.MatchStats
		if r.Stats != nil {
			s = *r.Stats
		}
		_, err = stmt.Exec(
			puuid, i, r.GameID, unixOrZero(r.CreatedAt), boolInt(r.Stats != nil),
			s.DamageDealt, s.Healing, s.DamageTaken, s.SelfMitigated,
			s.Kills, s.Deaths, s.Assists, s.CCTime, s.VisionScore, s.WardsPlaced, s.MinionsKilled,
			boolInt(s.Win), boolInt(s.Surrender), boolInt(s.EarlySurrender),
		)
		if err != nil {
			return fmt.Errorf("insert match_record %d for %s: %w", r.GameID, puuid, err)
		}
	}
	return tx.Commit()
}

// GetMatchRecords returns up to limit of puuid's stored records, newest
// first. limit <= 0 returns all of them.
func (db *DB) GetMatchRecords(puuid string, limit int) ([]model.MatchRecord, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := db.conn.Query(`
		SELECT game_id, created_at, resolved,
			damage_dealt, healing, damage_taken, self_mitigated,
			kills, deaths, assists, cc_time, vision_score, wards_placed, minions_killed,
			win, surrender, early_surrender
		FROM match_records WHERE puuid = ?
		ORDER BY position LIMIT ?`, puuid, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.MatchRecord
	for rows.Next() {
		var r model.MatchRecord
		var s model.MatchStats
		var created int64
		var resolved, win, surrender, early int
		if err := rows.Scan(
			&r.GameID, &created, &resolved,
			&s.DamageDealt, &s.Healing, &s.DamageTaken, &s.SelfMitigated,
			&s.Kills, &s.Deaths, &s.Assists, &s.CCTime, &s.VisionScore, &s.WardsPlaced, &s.MinionsKilled,
			&win, &surrender, &early,
		); err != nil {
			return nil, err
		}
		r.CreatedAt = fromUnix(created)
		if resolved == 1 {
			s.Win = win == 1
			s.Surrender = surrender == 1
			s.EarlySurrender = early == 1
			r.Stats = &s
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// FetchHistory serves stored records as a history source, so profiles can
// be rebuilt offline.
func (db *DB) FetchHistory(ctx context.Context, puuid string, count int) ([]model.MatchRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return db.GetMatchRecords(puuid, count)
}

// RawHistory is an archived, decompressed match-history payload.
type RawHistory struct {
	PUUID     string
	FetchedAt time.Time
	Payload   []byte
}

// SaveRawHistory archives the latest raw match-history payload for puuid,
// zstd-compressed. The player row must exist.
func (db *DB) SaveRawHistory(puuid string, payload []byte, fetchedAt time.Time) error {
	blob, err := compress(payload)
	if err != nil {
		return fmt.Errorf("save raw history for %s: %w", puuid, err)
	}
	_, err = db.conn.Exec(`
		INSERT OR REPLACE INTO raw_histories(puuid, fetched_at, raw_size, payload)
		VALUES (?, ?, ?, ?)`,
		puuid, unixOrZero(fetchedAt), len(payload), blob,
	)
	if err != nil {
		return fmt.Errorf("save raw history for %s: %w", puuid, err)
	}
	return nil
}

// GetRawHistory returns the archived payload for puuid, or nil if none.
func (db *DB) GetRawHistory(puuid string) (*RawHistory, error) {
	var fetched int64
	var blob []byte
	err := db.conn.QueryRow(
		"SELECT fetched_at, payload FROM raw_histories WHERE puuid = ?", puuid,
	).Scan(&fetched, &blob)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	payload, err := decompress(blob)
	if err != nil {
		return nil, fmt.Errorf("raw history for %s: %w", puuid, err)
	}
	return &RawHistory{PUUID: puuid, FetchedAt: fromUnix(fetched), Payload: payload}, nil
}

// InsertEvaluation stores an evaluation and its per-player rows atomically.
func (db *DB) InsertEvaluation(e model.EvaluationSummary, results []model.EvaluationRow) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO evaluations(id, created_at, seed, pool, players, awarded)
		VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, unixOrZero(e.CreatedAt), e.Seed, strings.Join(e.Pool, "\n"), e.Players, e.Awarded,
	)
	if err != nil {
		return fmt.Errorf("insert evaluation %s: %w", e.ID, err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO evaluation_results(evaluation_id, puuid, title, stat_line)
		VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range results {
		if _, err := stmt.Exec(e.ID, r.PUUID, r.Title, r.StatLine); err != nil {
			return fmt.Errorf("insert evaluation_result for %s: %w", r.PUUID, err)
		}
	}
	return tx.Commit()
}

// ListEvaluations returns up to limit evaluations, newest first.
func (db *DB) ListEvaluations(limit int) ([]model.EvaluationSummary, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := db.conn.Query(`
		SELECT id, created_at, seed, pool, players, awarded FROM evaluations
		ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.EvaluationSummary
	for rows.Next() {
		e, err := scanEvaluation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// GetEvaluationByPrefix returns the first evaluation whose id starts with
// prefix, or nil if none.
func (db *DB) GetEvaluationByPrefix(prefix string) (*model.EvaluationSummary, error) {
	row := db.conn.QueryRow(`
		SELECT id, created_at, seed, pool, players, awarded FROM evaluations
		WHERE substr(id, 1, length(?)) = ? ORDER BY created_at DESC LIMIT 1`, prefix, prefix)
	e, err := scanEvaluation(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func scanEvaluation(s scanner) (model.EvaluationSummary, error) {
	var e model.EvaluationSummary
	var created int64
	var pool string
	if err := s.Scan(&e.ID, &created, &e.Seed, &pool, &e.Players, &e.Awarded); err != nil {
		return model.EvaluationSummary{}, err
	}
	e.CreatedAt = fromUnix(created)
	if pool != "" {
		e.Pool = strings.Split(pool, "\n")
	}
	return e, nil
}

// GetEvaluationResults returns the per-player rows of an evaluation.
func (db *DB) GetEvaluationResults(evaluationID string) ([]model.EvaluationRow, error) {
	rows, err := db.conn.Query(`
		SELECT evaluation_id, puuid, title, stat_line FROM evaluation_results
		WHERE evaluation_id = ? ORDER BY rowid`, evaluationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.EvaluationRow
	for rows.Next() {
		var r model.EvaluationRow
		if err := rows.Scan(&r.EvaluationID, &r.PUUID, &r.Title, &r.StatLine); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// QueryRaw runs an arbitrary query and returns column names and every row
// rendered as strings. NULL renders as "NULL".
func (db *DB) QueryRaw(query string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var out [][]string
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			switch x := v.(type) {
			case nil:
				row[i] = "NULL"
			case []byte:
				row[i] = string(x)
			default:
				row[i] = fmt.Sprint(x)
			}
		}
		out = append(out, row)
	}
	return cols, out, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func unixOrZero(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}

func fromUnix(sec int64) time.Time {
	if sec == 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0).UTC()
}
