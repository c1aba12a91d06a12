package cmd

import (
	"bufio"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pable/go-lol-titles/internal/aggregator"
	"github.com/pable/go-lol-titles/internal/evaluator"
	"github.com/pable/go-lol-titles/internal/report"
	"github.com/pable/go-lol-titles/internal/storage"
	"github.com/pable/go-lol-titles/internal/titles"
)

var (
	cPrompt   = color.New(color.FgCyan, color.Bold)
	cMuted    = color.New(color.Faint)
	cError    = color.New(color.FgRed, color.Bold)
	cWarn     = color.New(color.FgYellow)
	cHeader   = color.New(color.FgCyan, color.Bold)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive REPL session",
	Long:  "Open a persistent session against the database. Type 'help' for available commands.",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

func runShell(_ *cobra.Command, _ []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	cGreeting.Println("loltitles shell")
	cMuted.Println("type 'help' or 'exit'")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		cPrompt.Print("loltitles")
		cMuted.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		tokens := strings.Fields(line)
		cmd, args := tokens[0], tokens[1:]

		switch cmd {
		case "exit", "quit":
			return nil
		case "help":
			shellHelp()
		case "players":
			shellPlayers(db)
		case "profile":
			if len(args) != 1 {
				cError.Fprintln(os.Stderr, "usage: profile <player>")
				continue
			}
			shellProfile(db, args[0])
		case "titles":
			shellTitles(db, args)
		case "eval":
			if len(args) == 0 {
				cError.Fprintln(os.Stderr, "usage: eval <player> [<player>...] [--seed <n>]")
				continue
			}
			shellEval(db, args)
		case "evals":
			shellEvals(db, args)
		default:
			cWarn.Fprintf(os.Stderr, "unknown command %q, type 'help'\n", cmd)
		}
	}
	return nil
}

func shellHelp() {
	fmt.Println()
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"players", "list stored players"},
		{"profile <player>", "show a player's weighted profile and history"},
		{"titles [player]", "list the catalogue, optionally scored for a player"},
		{"eval <player> [...] [--seed <n>]", "assign titles to a set of players"},
		{"evals [id-prefix]", "list stored evaluations, or show one"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Print("  ")
		cCmd.Printf("%-38s", r.cmd)
		fmt.Println(r.desc)
	}
	fmt.Println()
}

func shellPlayers(db *storage.DB) {
	players, err := db.ListPlayers()
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if len(players) == 0 {
		cMuted.Println("No players stored yet.")
		return
	}
	games, err := resolvedGames(db, players)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	report.PrintPlayers(os.Stdout, players, games)
}

func shellProfile(db *storage.DB, ref string) {
	sp, err := loadStoredPlayer(db, ref, cfg.Decay)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if sp.Profile == nil {
		cMuted.Printf("%s has no resolvable games stored.\n", sp.Player.DisplayName())
		return
	}
	report.PrintProfile(os.Stdout, sp.Player.DisplayName(), sp.Profile)
	report.PrintHistory(os.Stdout, sp.Records, aggregator.Weights(sp.Records, cfg.Decay))
}

func shellTitles(db *storage.DB, args []string) {
	if len(args) == 0 {
		report.PrintCatalogue(os.Stdout, titles.Default(), nil)
		return
	}
	sp, err := loadStoredPlayer(db, args[0], cfg.Decay)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	cHeader.Fprintf(os.Stdout, "--- Titles: %s ---\n", sp.Player.DisplayName())
	report.PrintCatalogue(os.Stdout, titles.Default(), sp.Profile)
}

func shellEval(db *storage.DB, args []string) {
	seed := time.Now().UnixNano()
	var refs []string
	for i := 0; i < len(args); i++ {
		if args[i] == "--seed" && i+1 < len(args) {
			n, err := strconv.ParseInt(args[i+1], 10, 64)
			if err != nil {
				cError.Fprintf(os.Stderr, "invalid seed %q: %v\n", args[i+1], err)
				return
			}
			seed = n
			i++
			continue
		}
		refs = append(refs, args[i])
	}
	if len(refs) == 0 {
		cError.Fprintln(os.Stderr, "usage: eval <player> [<player>...] [--seed <n>]")
		return
	}

	entries, names, err := storedEntries(db, refs)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	ev := evaluator.New(titles.Default()).EvaluateDetailed(entries, rand.New(rand.NewSource(seed)))
	cMuted.Printf("seed %d\n", seed)
	report.PrintEvaluation(os.Stdout, ev, entryOrder(entries), names)
}

func shellEvals(db *storage.DB, args []string) {
	if len(args) > 0 {
		if err := showEvaluation(db, args[0]); err != nil {
			cError.Fprintf(os.Stderr, "error: %v\n", err)
		}
		return
	}
	evals, err := db.ListEvaluations(20)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if len(evals) == 0 {
		cMuted.Println("No evaluations stored yet.")
		return
	}
	report.PrintEvaluationList(os.Stdout, evals)
}
