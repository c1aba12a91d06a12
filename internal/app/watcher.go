package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/pable/go-lol-titles/internal/lcu"
	"github.com/pable/go-lol-titles/internal/lobby"
	"github.com/pable/go-lol-titles/internal/profiles"
	"github.com/pable/go-lol-titles/internal/report"
	"github.com/pable/go-lol-titles/internal/storage"
)

// Watcher follows the client's current lobby. Each tick it loads profiles
// for new members and, when the set of resolved players changes, prints and
// stores a fresh evaluation.
type Watcher struct {
	client  *lcu.Client
	db      *storage.DB
	loader  *profiles.Loader
	tracker *lobby.Tracker
	logger  zerolog.Logger

	// Out receives the rendered evaluations.
	Out io.Writer

	friends []lcu.FriendDTO
	seen    map[string]bool // lobby puuids already checked against friends
}

func NewWatcher(client *lcu.Client, db *storage.DB, loader *profiles.Loader, tracker *lobby.Tracker, logger zerolog.Logger) *Watcher {
	return &Watcher{
		client:  client,
		db:      db,
		loader:  loader,
		tracker: tracker,
		logger:  logger.With().Str("component", "watcher").Logger(),
		Out:     os.Stdout,
	}
}

// Tick runs one poll. Not being in a lobby is not an error.
func (w *Watcher) Tick(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)

	dto, err := w.client.GetLobby(ctx)
	if errors.Is(err, lcu.ErrNotFound) {
		if _, ok := w.tracker.Current(); ok {
			logger.Info().Msg("left lobby")
			w.tracker.Reset()
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("get lobby: %w", err)
	}

	if w.seen == nil || w.hasUnseen(dto) {
		if err := w.refreshFriends(ctx, dto); err != nil {
			return err
		}
	}

	members := lcu.LobbyMembers(dto, w.friends)
	if len(members) == 0 {
		return nil
	}
	if err := RememberMembers(w.db, members); err != nil {
		return fmt.Errorf("store lobby members: %w", err)
	}

	ids := make([]string, len(members))
	names := make(map[string]string, len(members))
	for i, m := range members {
		ids[i] = m.PUUID
		names[m.PUUID] = m.GameName
		if m.GameTag != "" {
			names[m.PUUID] += "#" + m.GameTag
		}
	}

	loaded, err := w.loader.Load(ctx, ids)
	if err != nil {
		return err
	}
	if loaded > 0 {
		logger.Debug().Int("loaded", loaded).Msg("profiles loaded")
	}

	snap, changed := w.tracker.Update(members)
	if !changed {
		return nil
	}

	fmt.Fprintf(w.Out, "\n=== Lobby evaluation %s (seed %d) ===\n", snap.ID, snap.Seed)
	report.PrintEvaluation(w.Out, snap.Evaluation, ids, names)

	if snap.ID == "" {
		return nil
	}
	if err := SaveEvaluation(w.db, snap.ID, snap.CreatedAt, snap.Seed, snap.Evaluation, ids); err != nil {
		return err
	}
	return nil
}

// hasUnseen reports whether the lobby holds a member not yet checked
// against the friends list, e.g. a friend added since the last refresh.
func (w *Watcher) hasUnseen(dto *lcu.LobbyDTO) bool {
	for _, m := range dto.Members {
		if m.PUUID != nil && !w.seen[*m.PUUID] {
			return true
		}
	}
	return false
}

func (w *Watcher) refreshFriends(ctx context.Context, dto *lcu.LobbyDTO) error {
	friends, err := w.client.GetFriends(ctx)
	if err != nil {
		return fmt.Errorf("get friends: %w", err)
	}
	w.friends = friends
	if w.seen == nil {
		w.seen = make(map[string]bool)
	}
	for _, m := range dto.Members {
		if m.PUUID != nil {
			w.seen[*m.PUUID] = true
		}
	}
	return nil
}
