package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-lol-titles/internal/aggregator"
	"github.com/pable/go-lol-titles/internal/report"
)

var (
	profileDecay   float64
	profileHistory bool
)

var profileCmd = &cobra.Command{
	Use:   "profile <player>",
	Short: "Show a player's decay-weighted performance profile",
	Long: `Rebuild a player's performance profile from stored match history.

<player> is a puuid, a puuid prefix, or a Riot ID (name#tag or just name).`,
	Args: cobra.ExactArgs(1),
	RunE: runProfile,
}

func init() {
	profileCmd.Flags().Float64Var(&profileDecay, "decay", 0, "override the per-game decay factor (0 uses LOLTITLES_DECAY)")
	profileCmd.Flags().BoolVar(&profileHistory, "history", false, "also print each stored game with its weight")
}

func runProfile(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	decay := cfg.Decay
	if profileDecay != 0 {
		decay = profileDecay
	}

	sp, err := loadStoredPlayer(db, args[0], decay)
	if err != nil {
		return err
	}
	if sp.Profile == nil {
		fmt.Fprintf(os.Stdout, "%s has no resolvable games stored.\n", sp.Player.DisplayName())
		return nil
	}

	report.PrintProfile(os.Stdout, sp.Player.DisplayName(), sp.Profile)
	if profileHistory {
		report.PrintHistory(os.Stdout, sp.Records, aggregator.Weights(sp.Records, decay))
	}
	return nil
}
