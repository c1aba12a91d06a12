package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/go-lol-titles/internal/evaluator"
	"github.com/pable/go-lol-titles/internal/model"
	"github.com/pable/go-lol-titles/internal/titles"
)

var (
	cCommon   = color.New(color.FgWhite)
	cUncommon = color.New(color.FgGreen)
	cRare     = color.New(color.FgMagenta, color.Bold)
	cTitle    = color.New(color.FgYellow, color.Bold)
	cMuted    = color.New(color.Faint)
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// Rarity renders a rarity label in its colour.
func Rarity(r titles.Rarity) string {
	switch r {
	case titles.Rare:
		return cRare.Sprint(r.String())
	case titles.Uncommon:
		return cUncommon.Sprint(r.String())
	default:
		return cCommon.Sprint(r.String())
	}
}

// PrintPlayers prints the known players, one row each.
func PrintPlayers(w io.Writer, players []model.Player, games map[string]int) {
	table := newTable(w)
	table.Header("PUUID", "NAME", "GAMES", "LAST FETCH")
	for _, p := range players {
		last := "never"
		if !p.LastFetchAt.IsZero() {
			last = humanize.Time(p.LastFetchAt)
		}
		table.Append(shortID(p.PUUID), p.DisplayName(), strconv.Itoa(games[p.PUUID]), last)
	}
	table.Render()
}

// PrintProfile prints a player's decay-weighted profile as metric/value rows.
func PrintProfile(w io.Writer, name string, p *model.PerformanceProfile) {
	if p == nil {
		fmt.Fprintf(w, "%s: no profile (no resolvable games)\n", name)
		return
	}
	fmt.Fprintf(w, "\n%s  |  %d games  |  KDA %.2f\n\n", name, p.Games, p.KDA())

	table := newTable(w)
	table.Header("METRIC", "VALUE")
	rows := [][2]string{
		{"Win streak", strconv.Itoa(p.WinStreak)},
		{"Loss streak", strconv.Itoa(p.LossStreak)},
		{"Damage", humanize.Commaf(round1(p.AvgDamage))},
		{"Healing", humanize.Commaf(round1(p.AvgHealing))},
		{"Damage taken", humanize.Commaf(round1(p.AvgDamageTaken))},
		{"Self mitigated", humanize.Commaf(round1(p.AvgSelfMitigated))},
		{"Kills", fmt.Sprintf("%.1f", p.AvgKills)},
		{"Deaths", fmt.Sprintf("%.1f", p.AvgDeaths)},
		{"Assists", fmt.Sprintf("%.1f", p.AvgAssists)},
		{"CC time", fmt.Sprintf("%.1fs", p.AvgCCTime)},
		{"Vision score", fmt.Sprintf("%.1f", p.AvgVisionScore)},
		{"Wards placed", fmt.Sprintf("%.1f", p.AvgWardsPlaced)},
		{"CS", fmt.Sprintf("%.1f", p.AvgCS)},
		{"Surrender rate", fmt.Sprintf("%.0f%%", p.SurrenderRate*100)},
	}
	for _, r := range rows {
		table.Append(r[0], r[1])
	}
	table.Render()
}

// PrintHistory prints stored games with the decay weight each contributes.
func PrintHistory(w io.Writer, records []model.MatchRecord, weights []float64) {
	table := newTable(w)
	table.Header("#", "GAME", "DATE", "RESULT", "K/D/A", "DMG", "CS", "WEIGHT")
	for i, r := range records {
		date := "—"
		if !r.CreatedAt.IsZero() {
			date = r.CreatedAt.Format("2006-01-02")
		}
		weight := "—"
		if i < len(weights) && weights[i] > 0 {
			weight = fmt.Sprintf("%.3f", weights[i])
		}
		if r.Stats == nil {
			table.Append(strconv.Itoa(i), strconv.FormatInt(r.GameID, 10), date, cMuted.Sprint("skipped"), "—", "—", "—", weight)
			continue
		}
		s := r.Stats
		result := "L"
		if s.Win {
			result = "W"
		}
		if s.Surrendered() {
			result += " (ff)"
		}
		table.Append(
			strconv.Itoa(i),
			strconv.FormatInt(r.GameID, 10),
			date,
			result,
			fmt.Sprintf("%d/%d/%d", s.Kills, s.Deaths, s.Assists),
			humanize.Comma(int64(s.DamageDealt)),
			strconv.Itoa(s.MinionsKilled),
			weight,
		)
	}
	table.Render()
}

// PrintCatalogue lists every title. When p is non-nil each row also shows
// p's score and whether it clears the gate.
func PrintCatalogue(w io.Writer, cat titles.Catalogue, p *model.PerformanceProfile) {
	table := newTable(w)
	if p != nil {
		table.Header("TITLE", "RARITY", "MIN", "SCORE", "OK")
	} else {
		table.Header("TITLE", "RARITY", "MIN")
	}
	for _, d := range cat {
		row := []any{d.Name, Rarity(d.Rarity), formatScore(d.MinScore)}
		if p != nil {
			score := d.Score(p)
			ok := ""
			if score >= d.MinScore {
				ok = "✓"
			}
			row = append(row, formatScore(score), ok)
		}
		table.Append(row...)
	}
	table.Render()
}

// PrintEvaluation prints the sampled pool, the surviving bids and the final
// assignment. names maps player IDs to display names; unknown IDs are shortened.
func PrintEvaluation(w io.Writer, ev evaluator.Evaluation, order []string, names map[string]string) {
	display := func(id string) string {
		if n, ok := names[id]; ok && n != "" {
			return n
		}
		return shortID(id)
	}

	if len(ev.Pool) > 0 {
		pool := make([]string, len(ev.Pool))
		for i, d := range ev.Pool {
			pool[i] = d.Name
		}
		fmt.Fprintf(w, "\nPool (%d): %s\n", len(pool), strings.Join(pool, ", "))
	}

	if len(ev.Bids) > 0 {
		fmt.Fprintln(w, "\nBids (highest first):")
		table := newTable(w)
		table.Header("TITLE", "RARITY", "PLAYER", "SCORE", "WON")
		for _, b := range ev.Bids {
			won := ""
			if r := ev.Results[b.PlayerID]; r != nil && r.Title == b.Title.Name {
				won = "✓"
			}
			table.Append(b.Title.Name, Rarity(b.Title.Rarity), display(b.PlayerID), formatScore(b.Score), won)
		}
		table.Render()
	}

	fmt.Fprintln(w, "\nTitles:")
	table := newTable(w)
	table.Header("PLAYER", "TITLE", "STATS")
	for _, id := range order {
		r := ev.Results[id]
		if r == nil {
			table.Append(display(id), cMuted.Sprint("—"), "")
			continue
		}
		table.Append(display(id), cTitle.Sprint(r.Title), r.StatLine)
	}
	table.Render()
}

// PrintEvaluationList prints stored evaluation summaries.
func PrintEvaluationList(w io.Writer, evals []model.EvaluationSummary) {
	table := newTable(w)
	table.Header("ID", "WHEN", "SEED", "PLAYERS", "AWARDED", "POOL")
	for _, e := range evals {
		table.Append(
			e.ID,
			humanize.Time(e.CreatedAt),
			strconv.FormatInt(e.Seed, 10),
			strconv.Itoa(e.Players),
			strconv.Itoa(e.Awarded),
			strconv.Itoa(len(e.Pool)),
		)
	}
	table.Render()
}

// PrintEvaluationRows prints a stored evaluation's per-player outcome.
func PrintEvaluationRows(w io.Writer, rows []model.EvaluationRow, names map[string]string) {
	table := newTable(w)
	table.Header("PLAYER", "TITLE", "STATS")
	for _, r := range rows {
		name := names[r.PUUID]
		if name == "" {
			name = shortID(r.PUUID)
		}
		title := r.Title
		if title == "" {
			title = "—"
		}
		table.Append(name, title, r.StatLine)
	}
	table.Render()
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

func round1(v float64) float64 {
	return float64(int64(v*10+0.5)) / 10
}

// formatScore prints small ratios with decimals and large totals with separators.
func formatScore(v float64) string {
	if v >= 1000 || v <= -1000 {
		return humanize.Comma(int64(v))
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}
