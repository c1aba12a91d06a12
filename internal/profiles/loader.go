package profiles

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/pable/go-lol-titles/internal/aggregator"
	"github.com/pable/go-lol-titles/internal/constants"
	"github.com/pable/go-lol-titles/internal/model"
)

// HistorySource yields a player's newest-first match history.
type HistorySource interface {
	FetchHistory(ctx context.Context, puuid string, count int) ([]model.MatchRecord, error)
}

type LoaderConfig struct {
	HistorySize int
	Decay       float64
	Concurrency int
}

type Loader struct {
	source HistorySource
	cache  *Cache
	cfg    LoaderConfig
	now    func() time.Time
	logger zerolog.Logger
}

func NewLoader(source HistorySource, cache *Cache, cfg LoaderConfig, logger zerolog.Logger) *Loader {
	if cfg.HistorySize < 1 {
		cfg.HistorySize = constants.DefaultHistorySize
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = constants.DefaultFetchConcurrency
	}
	if cfg.Decay <= 0 || cfg.Decay > 1 {
		cfg.Decay = aggregator.DecayFactor
	}
	return &Loader{
		source: source,
		cache:  cache,
		cfg:    cfg,
		now:    time.Now,
		logger: logger.With().Str("component", "profiles").Logger(),
	}
}

// Load resolves every id not yet cached. Fetches run concurrently up to the
// configured limit. A failed fetch is logged and cached as "no profile"; Load
// only returns an error when ctx is done, in which case interrupted fetches
// are left uncached.
func (l *Loader) Load(ctx context.Context, ids []string) (int, error) {
	missing := l.cache.Missing(ids)
	if len(missing) == 0 {
		return 0, nil
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(l.cfg.Concurrency)

	for _, id := range missing {
		g.Go(func() error {
			if v, ok := l.resolve(gCtx, id); ok {
				l.cache.Put(id, v)
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return 0, err
	}
	l.logger.Debug().Int("fetched", len(missing)).Msg("profiles loaded")
	return len(missing), nil
}

func (l *Loader) resolve(ctx context.Context, id string) (Cached, bool) {
	fetchCtx, cancel := context.WithTimeout(ctx, constants.FetchTimeout)
	defer cancel()

	records, err := l.source.FetchHistory(fetchCtx, id, l.cfg.HistorySize)
	if err != nil {
		if ctx.Err() != nil {
			return Cached{}, false
		}
		l.logger.Warn().Err(err).Str("puuid", id).Msg("failed to fetch match history")
		return Cached{FetchedAt: l.now(), Err: err}, true
	}

	profile := aggregator.BuildProfileWithDecay(records, l.cfg.Decay)
	if profile == nil {
		l.logger.Info().Str("puuid", id).Int("records", len(records)).Msg("no resolvable games")
	}
	return Cached{
		Profile:   profile,
		Records:   len(records),
		FetchedAt: l.now(),
	}, true
}
