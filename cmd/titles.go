package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-lol-titles/internal/model"
	"github.com/pable/go-lol-titles/internal/report"
	"github.com/pable/go-lol-titles/internal/titles"
)

var titlesCmd = &cobra.Command{
	Use:   "titles [player]",
	Short: "List the title catalogue, optionally scored for one player",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTitles,
}

func runTitles(cmd *cobra.Command, args []string) error {
	var profile *model.PerformanceProfile
	if len(args) == 1 {
		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		sp, err := loadStoredPlayer(db, args[0], cfg.Decay)
		if err != nil {
			return err
		}
		profile = sp.Profile
	}
	report.PrintCatalogue(os.Stdout, titles.Default(), profile)
	return nil
}
