// Package app wires the lobby watcher together: storage, the League client,
// profile loading, evaluation and the poll loop.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/pable/go-lol-titles/internal/config"
	"github.com/pable/go-lol-titles/internal/constants"
	"github.com/pable/go-lol-titles/internal/evaluator"
	"github.com/pable/go-lol-titles/internal/lcu"
	"github.com/pable/go-lol-titles/internal/lobby"
	"github.com/pable/go-lol-titles/internal/poll"
	"github.com/pable/go-lol-titles/internal/profiles"
	"github.com/pable/go-lol-titles/internal/storage"
	"github.com/pable/go-lol-titles/internal/titles"
)

func ProvideStore(cfg *config.Config) (*storage.DB, error) {
	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return db, nil
}

func ProvideLCU(cfg *config.Config, logger zerolog.Logger) (*lcu.Client, error) {
	auth, err := lcu.ReadLockfile(cfg.LockfilePath)
	if err != nil {
		return nil, fmt.Errorf("league client not found (is it running?): %w", err)
	}
	return lcu.NewClient(auth, logger), nil
}

func ProvideSource(a *Archiver) profiles.HistorySource {
	return a
}

func ProvideLoader(source profiles.HistorySource, cache *profiles.Cache, cfg *config.Config, logger zerolog.Logger) *profiles.Loader {
	return profiles.NewLoader(source, cache, profiles.LoaderConfig{
		HistorySize: cfg.HistorySize,
		Decay:       cfg.Decay,
		Concurrency: cfg.FetchConcurrency,
	}, logger)
}

func ProvideTracker(svc *evaluator.Service, cache *profiles.Cache, logger zerolog.Logger) *lobby.Tracker {
	return lobby.NewTracker(svc, cache, logger)
}

func ProvideLoop(w *Watcher, cfg *config.Config, logger zerolog.Logger) *poll.Loop {
	return poll.NewLoop(cfg.PollInterval, w.Tick, logger)
}

// Module provides everything the watch loop needs. The caller supplies
// *config.Config and zerolog.Logger.
var Module = fx.Options(
	fx.Provide(ProvideStore),
	fx.Provide(ProvideLCU),
	// evaluation
	fx.Provide(titles.Default),
	fx.Provide(evaluator.New),
	// profiles
	fx.Provide(profiles.NewCache),
	fx.Provide(NewArchiver),
	fx.Provide(ProvideSource),
	fx.Provide(ProvideLoader),
	// lobby
	fx.Provide(ProvideTracker),
	fx.Provide(NewWatcher),
	fx.Provide(ProvideLoop),
)

// RegisterLoop runs loop for the lifetime of the fx app and closes db once
// the loop has stopped.
func RegisterLoop(lc fx.Lifecycle, loop *poll.Loop, db *storage.DB, logger zerolog.Logger) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)
				logger.Info().Msg("watching lobby")
				if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
					logger.Error().Err(err).Msg("poll loop stopped")
				}
			}()
			return nil
		},
		OnStop: func(context.Context) error {
			logger.Info().Msg("shutting down watcher")
			cancel()

			select {
			case <-done:
			case <-time.After(constants.ShutdownTimeout):
				logger.Warn().Msg("poll loop did not stop in time")
			}

			if err := db.Close(); err != nil {
				logger.Warn().Err(err).Msg("error closing database connection")
				return err
			}
			logger.Info().Msg("watcher stopped")
			return nil
		},
	})
}
