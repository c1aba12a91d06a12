// Package lobby keeps a stable title assignment for the current lobby,
// re-evaluating only when the set of players with resolved profiles changes.
package lobby

import (
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"

	"github.com/pable/go-lol-titles/internal/evaluator"
	"github.com/pable/go-lol-titles/internal/lcu"
	"github.com/pable/go-lol-titles/internal/profiles"
)

// Snapshot is one evaluation of a lobby.
type Snapshot struct {
	ID         string
	CreatedAt  time.Time
	Seed       int64
	Signature  string
	Members    []lcu.Member
	Evaluation evaluator.Evaluation
}

type Tracker struct {
	svc    *evaluator.Service
	cache  *profiles.Cache
	seed   func() int64
	now    func() time.Time
	logger zerolog.Logger

	mu      sync.Mutex
	current *Snapshot
}

type Option func(*Tracker)

// WithSeed overrides the seed source used for each new evaluation.
func WithSeed(seed func() int64) Option {
	return func(t *Tracker) { t.seed = seed }
}

func NewTracker(svc *evaluator.Service, cache *profiles.Cache, logger zerolog.Logger, opts ...Option) *Tracker {
	t := &Tracker{
		svc:    svc,
		cache:  cache,
		seed:   func() int64 { return time.Now().UnixNano() },
		now:    time.Now,
		logger: logger.With().Str("component", "lobby").Logger(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Update evaluates members against the cache. The previous snapshot is
// returned unchanged (and false) while the resolved set is the same, so the
// pool and titles stay stable across polls.
func (t *Tracker) Update(members []lcu.Member) (Snapshot, bool) {
	ids := make([]string, len(members))
	for i, m := range members {
		ids[i] = m.PUUID
	}
	sig := signature(t.cache.Resolved(ids))

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.current != nil && t.current.Signature == sig {
		return *t.current, false
	}

	entries := make([]evaluator.Entry, len(members))
	for i, m := range members {
		var e evaluator.Entry
		e.ID = m.PUUID
		if c, ok := t.cache.Get(m.PUUID); ok {
			e.Profile = c.Profile
		}
		entries[i] = e
	}

	seed := t.seed()
	ev := t.svc.EvaluateDetailed(entries, rand.New(rand.NewSource(seed)))

	id, err := gonanoid.New()
	if err != nil {
		t.logger.Warn().Err(err).Msg("failed to generate evaluation id")
	}
	snap := &Snapshot{
		ID:         id,
		CreatedAt:  t.now(),
		Seed:       seed,
		Signature:  sig,
		Members:    append([]lcu.Member(nil), members...),
		Evaluation: ev,
	}
	t.current = snap

	t.logger.Info().
		Str("evaluation_id", id).
		Int64("seed", seed).
		Int("members", len(members)).
		Int("pool", len(ev.Pool)).
		Int("awarded", ev.Results.Awarded()).
		Msg("lobby evaluated")

	return *snap, true
}

// Current returns the latest snapshot, if any.
func (t *Tracker) Current() (Snapshot, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current == nil {
		return Snapshot{}, false
	}
	return *t.current, true
}

// Reset forgets the current snapshot, e.g. when the lobby is left.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.current = nil
}

func signature(ids []string) string {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	return strings.Join(sorted, ",")
}
