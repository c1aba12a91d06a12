package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/pable/go-lol-titles/internal/app"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the current lobby and hand out titles as it changes",
	Long: `Poll the running League client for the current lobby. Whenever the set of
players with a loaded profile changes, sample a new title pool, print the
assignment and store it. Stop with Ctrl-C.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	if err := os.MkdirAll(dbDir(), 0o755); err != nil {
		return err
	}
	fxApp := fx.New(
		fx.Supply(cfg, log),
		fx.NopLogger,
		app.Module,
		fx.Invoke(app.RegisterLoop),
	)
	if err := fxApp.Err(); err != nil {
		return err
	}
	fxApp.Run()
	return nil
}
