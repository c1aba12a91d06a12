package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"
)

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Run a raw SQL query against the titles database",
	Long: `Run an arbitrary SQL query against the titles database and print results as a table.

Schema overview:
  players(puuid, game_name, game_tag, last_fetch_at)
  match_records(puuid, position, game_id, created_at, resolved, damage_dealt, healing,
    damage_taken, self_mitigated, kills, deaths, assists, cc_time, vision_score,
    wards_placed, minions_killed, win, surrender, early_surrender)
  raw_histories(puuid, fetched_at, raw_size, payload)
  evaluations(id, created_at, seed, pool, players, awarded)
  evaluation_results(evaluation_id, puuid, title, stat_line)

Note: position 0 is the newest game; timestamps are unix seconds.
Example: SELECT title, COUNT(*) FROM evaluation_results WHERE title <> '' GROUP BY title`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSQL,
}

func runSQL(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	cols, rows, err := db.QueryRaw(query)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("(no rows)")
		return nil
	}

	table := tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))

	colsAny := make([]any, len(cols))
	for i, c := range cols {
		colsAny[i] = c
	}
	table.Header(colsAny...)

	for _, row := range rows {
		rowAny := make([]any, len(row))
		for i, v := range row {
			rowAny[i] = v
		}
		table.Append(rowAny...)
	}
	table.Render()
	fmt.Fprintf(os.Stdout, "\n(%d rows)\n", len(rows))
	return nil
}

