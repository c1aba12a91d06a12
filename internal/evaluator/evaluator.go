// Package evaluator turns lobby members' performance profiles into at most
// one title each: a rarity-weighted pool is sampled from the catalogue, then
// titles go to their uncontested top scorer, highest score first.
package evaluator

import (
	"github.com/pable/go-lol-titles/internal/model"
	"github.com/pable/go-lol-titles/internal/titles"
)

// Results maps a player ID to its awarded title, or nil.
type Results map[string]*model.TitleResult

// Awarded returns how many players received a title.
func (r Results) Awarded() int {
	n := 0
	for _, t := range r {
		if t != nil {
			n++
		}
	}
	return n
}

// Evaluation is the full outcome of one run, kept for display and storage.
type Evaluation struct {
	Pool    []titles.Definition
	Bids    []Bid // in walk order
	Results Results
}

// Service evaluates lobbies against a fixed catalogue. It holds no other
// state; concurrent calls are safe given separate random sources.
type Service struct {
	catalogue titles.Catalogue
}

// New returns a Service over cat.
func New(cat titles.Catalogue) *Service {
	return &Service{catalogue: cat}
}

// Catalogue returns the catalogue the service evaluates against.
func (s *Service) Catalogue() titles.Catalogue {
	return s.catalogue
}

// Evaluate assigns titles to entries. The result has a key for every entry.
func (s *Service) Evaluate(entries []Entry, rng RandomSource) Results {
	return s.EvaluateDetailed(entries, rng).Results
}

// EvaluateDetailed is Evaluate that also returns the sampled pool and bids.
// When no entry has a profile the pool is not sampled and rng is untouched.
func (s *Service) EvaluateDetailed(entries []Entry, rng RandomSource) Evaluation {
	anyProfile := false
	for _, e := range entries {
		if e.Profile != nil {
			anyProfile = true
			break
		}
	}
	if !anyProfile {
		res := make(Results, len(entries))
		for _, e := range entries {
			res[e.ID] = nil
		}
		return Evaluation{Results: res}
	}

	pool := SamplePool(s.catalogue, rng)
	res, bids := assign(pool, entries)
	return Evaluation{Pool: pool, Bids: bids, Results: res}
}
