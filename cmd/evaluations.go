package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-lol-titles/internal/report"
	"github.com/pable/go-lol-titles/internal/storage"
)

var evaluationsLimit int

var evaluationsCmd = &cobra.Command{
	Use:     "evaluations [id-prefix]",
	Aliases: []string{"evals"},
	Short:   "List stored evaluations, or show one",
	Args:    cobra.MaximumNArgs(1),
	RunE:    runEvaluations,
}

func init() {
	evaluationsCmd.Flags().IntVar(&evaluationsLimit, "limit", 20, "maximum evaluations to list")
}

func runEvaluations(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	if len(args) == 0 {
		evals, err := db.ListEvaluations(evaluationsLimit)
		if err != nil {
			return fmt.Errorf("list evaluations: %w", err)
		}
		if len(evals) == 0 {
			fmt.Fprintln(os.Stdout, "No evaluations stored yet. Use 'loltitles eval --save' or 'loltitles watch'.")
			return nil
		}
		report.PrintEvaluationList(os.Stdout, evals)
		return nil
	}
	return showEvaluation(db, args[0])
}

func showEvaluation(db *storage.DB, prefix string) error {
	e, err := db.GetEvaluationByPrefix(prefix)
	if err != nil {
		return fmt.Errorf("find evaluation: %w", err)
	}
	if e == nil {
		return fmt.Errorf("no evaluation found with prefix %q", prefix)
	}
	rows, err := db.GetEvaluationResults(e.ID)
	if err != nil {
		return fmt.Errorf("query evaluation results: %w", err)
	}

	names := make(map[string]string, len(rows))
	for _, r := range rows {
		p, err := db.GetPlayer(r.PUUID)
		if err != nil {
			return fmt.Errorf("get player: %w", err)
		}
		if p != nil {
			names[r.PUUID] = p.DisplayName()
		}
	}

	fmt.Fprintf(os.Stdout, "Evaluation %s  seed %d  %s\n", e.ID, e.Seed, e.CreatedAt.Format("2006-01-02 15:04:05"))
	if len(e.Pool) > 0 {
		fmt.Fprintf(os.Stdout, "Pool (%d): %s\n", len(e.Pool), strings.Join(e.Pool, ", "))
	}
	report.PrintEvaluationRows(os.Stdout, rows, names)
	return nil
}
