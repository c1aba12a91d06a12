package cmd

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/spf13/cobra"

	"github.com/pable/go-lol-titles/internal/app"
	"github.com/pable/go-lol-titles/internal/evaluator"
	"github.com/pable/go-lol-titles/internal/report"
	"github.com/pable/go-lol-titles/internal/titles"
)

var (
	evalSeed int64
	evalSave bool
)

var evalCmd = &cobra.Command{
	Use:   "eval <player> [<player>...]",
	Short: "Assign titles to a set of stored players",
	Long: `Evaluate a lobby made of stored players: sample a title pool, score every
profile and award at most one title per player.

The same --seed over the same stored histories always yields the same result.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runEval,
}

func init() {
	evalCmd.Flags().Int64Var(&evalSeed, "seed", 0, "random seed for pool sampling (0 picks one from the clock)")
	evalCmd.Flags().BoolVar(&evalSave, "save", false, "store the evaluation in the database")
}

func runEval(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	entries, names, err := storedEntries(db, args)
	if err != nil {
		return err
	}

	seed := evalSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	svc := evaluator.New(titles.Default())
	ev := svc.EvaluateDetailed(entries, rand.New(rand.NewSource(seed)))

	fmt.Fprintf(os.Stdout, "Seed: %d\n", seed)
	report.PrintEvaluation(os.Stdout, ev, entryOrder(entries), names)

	if !evalSave {
		return nil
	}
	id, err := gonanoid.New()
	if err != nil {
		return fmt.Errorf("generate evaluation id: %w", err)
	}
	if err := app.SaveEvaluation(db, id, time.Now(), seed, ev, entryOrder(entries)); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "\nSaved evaluation %s\n", id)
	return nil
}
