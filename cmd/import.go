package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/pable/go-lol-titles/internal/app"
	"github.com/pable/go-lol-titles/internal/constants"
	"github.com/pable/go-lol-titles/internal/lcu"
)

var (
	importFile  string
	importPUUID string
	importCount int
)

var importCmd = &cobra.Command{
	Use:   "import [puuid...]",
	Short: "Fetch and store match histories from the League client",
	Long: `Fetch the newest match history of each given puuid from the running League
client and store it. With no arguments, imports the local player and every
friend in the current lobby.

With --file, imports a match-history JSON payload saved earlier instead of
talking to the client; --puuid names whose history it is.`,
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVar(&importFile, "file", "", "import a saved match-history JSON payload")
	importCmd.Flags().StringVar(&importPUUID, "puuid", "", "puuid the --file payload belongs to")
	importCmd.Flags().IntVarP(&importCount, "count", "n", 0, "games to fetch per player (0 uses LOLTITLES_HISTORY_SIZE)")
}

func runImport(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	if importFile != "" {
		if importPUUID == "" {
			return fmt.Errorf("--file requires --puuid")
		}
		body, err := os.ReadFile(importFile)
		if err != nil {
			return fmt.Errorf("read %s: %w", importFile, err)
		}
		records, err := app.IngestHistory(db, importPUUID, body, time.Now())
		if err != nil {
			return fmt.Errorf("import %s: %w", importFile, err)
		}
		fmt.Fprintf(os.Stdout, "Imported %d games for %s\n", len(records), importPUUID)
		return nil
	}

	count := importCount
	if count == 0 {
		count = cfg.HistorySize
	}
	if count < 1 || count > constants.MaxHistorySize {
		return fmt.Errorf("--count must be between 1 and %d", constants.MaxHistorySize)
	}

	client, err := connectLCU()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	puuids := args
	if len(puuids) == 0 {
		members, err := currentLobby(ctx, client)
		if err != nil {
			return err
		}
		if len(members) == 0 {
			return fmt.Errorf("not in a lobby; pass puuids explicitly")
		}
		if err := app.RememberMembers(db, members); err != nil {
			return fmt.Errorf("store lobby members: %w", err)
		}
		for _, m := range members {
			puuids = append(puuids, m.PUUID)
		}
	}

	arch := app.NewArchiver(client, db)
	counts := make([]int, len(puuids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.FetchConcurrency)
	for i, puuid := range puuids {
		g.Go(func() error {
			fctx, cancel := context.WithTimeout(gctx, constants.FetchTimeout)
			defer cancel()
			records, err := arch.FetchHistory(fctx, puuid, count)
			if err != nil {
				log.Warn().Err(err).Str("puuid", puuid).Msg("import failed")
				return nil
			}
			counts[i] = len(records)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	imported := 0
	for i, puuid := range puuids {
		if counts[i] == 0 {
			fmt.Fprintf(os.Stdout, "  %-40s  failed or empty\n", puuid)
			continue
		}
		imported++
		fmt.Fprintf(os.Stdout, "  %-40s  %d games\n", puuid, counts[i])
	}
	fmt.Fprintf(os.Stdout, "Imported %d/%d players\n", imported, len(puuids))
	return nil
}

// currentLobby returns the visible members of the client's current lobby,
// or nil when the player is not in one.
func currentLobby(ctx context.Context, client *lcu.Client) ([]lcu.Member, error) {
	lobby, err := client.GetLobby(ctx)
	if errors.Is(err, lcu.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get lobby: %w", err)
	}
	friends, err := client.GetFriends(ctx)
	if err != nil {
		return nil, fmt.Errorf("get friends: %w", err)
	}
	return lcu.LobbyMembers(lobby, friends), nil
}
