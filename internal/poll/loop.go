// Package poll runs a function on a fixed interval until cancelled.
package poll

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// TickFunc is one poll. A returned error is logged; the loop keeps going.
type TickFunc func(ctx context.Context) error

type Loop struct {
	interval time.Duration
	tick     TickFunc
	logger   zerolog.Logger
}

func NewLoop(interval time.Duration, tick TickFunc, logger zerolog.Logger) *Loop {
	return &Loop{
		interval: interval,
		tick:     tick,
		logger:   logger.With().Str("component", "poll").Logger(),
	}
}

// Run ticks immediately and then every interval until ctx is done. Each tick
// carries its own id in the logger attached to its context.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		l.runOnce(ctx)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (l *Loop) runOnce(ctx context.Context) {
	tickLogger := l.logger.With().Str("tick_id", uuid.New().String()).Logger()
	ctx = tickLogger.WithContext(ctx)

	start := time.Now()
	if err := l.tick(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		tickLogger.Warn().Err(err).Msg("tick failed")
		return
	}
	tickLogger.Trace().Dur("duration", time.Since(start)).Msg("tick done")
}
