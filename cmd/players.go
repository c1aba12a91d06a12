package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-lol-titles/internal/report"
)

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "List all stored players",
	Args:  cobra.NoArgs,
	RunE:  runPlayers,
}

func runPlayers(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	players, err := db.ListPlayers()
	if err != nil {
		return fmt.Errorf("list players: %w", err)
	}
	if len(players) == 0 {
		fmt.Fprintln(os.Stdout, "No players stored yet. Run 'loltitles import' while in a lobby to add some.")
		return nil
	}

	games, err := resolvedGames(db, players)
	if err != nil {
		return err
	}

	report.PrintPlayers(os.Stdout, players, games)
	return nil
}
