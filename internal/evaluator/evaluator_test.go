package evaluator

import (
	"fmt"
	"math/rand"
	"reflect"
	"testing"

	"github.com/pable/go-lol-titles/internal/model"
	"github.com/pable/go-lol-titles/internal/titles"
)

// constSource always returns v.
type constSource struct{ v float64 }

func (s constSource) Float64() float64 { return s.v }

// scriptedSource replays values in order and counts draws.
type scriptedSource struct {
	values []float64
	draws  int
}

func (s *scriptedSource) Float64() float64 {
	v := 0.0
	if s.draws < len(s.values) {
		v = s.values[s.draws]
	}
	s.draws++
	return v
}

var (
	includeAll = constSource{0}
	commonOnly = constSource{1}
)

func entry(id string, p *model.PerformanceProfile) Entry {
	return Entry{ID: id, Profile: p}
}

// def builds a minimal definition scored by a single field.
func def(name string, rarity titles.Rarity, min float64, score func(*model.PerformanceProfile) float64) titles.Definition {
	return titles.Definition{
		Name:     name,
		Rarity:   rarity,
		Score:    score,
		MinScore: min,
		StatLine: func(*model.PerformanceProfile) string { return name },
	}
}

func titleOf(res Results, id string) string {
	if r := res[id]; r != nil {
		return r.Title
	}
	return ""
}

// ---- Pool sampling ----

func TestSamplePool_AlwaysOneIsCommonOnly(t *testing.T) {
	cat := titles.Default()
	pool := SamplePool(cat, commonOnly)
	if len(pool) == 0 {
		t.Fatal("expected common titles in pool")
	}
	for _, d := range pool {
		if d.Rarity != titles.Common {
			t.Errorf("non-common title %q in pool", d.Name)
		}
	}
}

func TestSamplePool_AlwaysZeroIncludesAll(t *testing.T) {
	cat := titles.Default()
	pool := SamplePool(cat, includeAll)
	if len(pool) != len(cat) {
		t.Fatalf("want %d titles, got %d", len(cat), len(pool))
	}
	for i := range cat {
		if pool[i].Name != cat[i].Name {
			t.Errorf("pool[%d]: want %q, got %q (catalogue order)", i, cat[i].Name, pool[i].Name)
		}
	}
}

func TestSamplePool_OneDrawPerNonCommon(t *testing.T) {
	cat := titles.Default()
	want := 0
	for _, d := range cat {
		if d.Rarity != titles.Common {
			want++
		}
	}

	for _, v := range []float64{0, 0.5, 0.99} {
		src := &scriptedSource{values: make([]float64, len(cat))}
		for i := range src.values {
			src.values[i] = v
		}
		SamplePool(cat, src)
		if src.draws != want {
			t.Errorf("v=%.2f: draws: want %d, got %d", v, want, src.draws)
		}
	}
}

func TestSamplePool_Thresholds(t *testing.T) {
	zero := func(*model.PerformanceProfile) float64 { return 0 }
	cat := titles.Catalogue{
		def("c", titles.Common, 0, zero),
		def("u1", titles.Uncommon, 0, zero),
		def("r1", titles.Rare, 0, zero),
		def("u2", titles.Uncommon, 0, zero),
		def("r2", titles.Rare, 0, zero),
		def("c2", titles.Common, 0, zero),
	}
	src := &scriptedSource{values: []float64{0.59, 0.26, 0.61, 0.24}}

	pool := SamplePool(cat, src)
	got := make([]string, len(pool))
	for i, d := range pool {
		got[i] = d.Name
	}
	want := []string{"c", "u1", "r2", "c2"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("pool: want %v, got %v", want, got)
	}
	if src.draws != 4 {
		t.Errorf("draws: want 4, got %d", src.draws)
	}
}

// ---- Assignment ----

// TestEvaluate_Archetypes: five distinct archetypes each take their signature title.
func TestEvaluate_Archetypes(t *testing.T) {
	entries := []Entry{
		entry("streaker", &model.PerformanceProfile{WinStreak: 6}),
		entry("carry", &model.PerformanceProfile{AvgDamage: 50000}),
		entry("healer", &model.PerformanceProfile{AvgHealing: 10000}),
		entry("tank", &model.PerformanceProfile{AvgSelfMitigated: 30000}),
		entry("feeder", &model.PerformanceProfile{AvgDeaths: 14}),
	}

	res := New(titles.Default()).Evaluate(entries, includeAll)

	want := map[string]string{
		"streaker": "Who Wants a Piece of the Champ",
		"carry":    "Tons of Damage",
		"healer":   "All For You",
		"tank":     "Unkillable Demon King",
		"feeder":   "Grey Screen Enjoyer",
	}
	for id, title := range want {
		r := res[id]
		if r == nil {
			t.Errorf("%s: no title, want %q", id, title)
			continue
		}
		if r.Title != title {
			t.Errorf("%s: want %q, got %q", id, title, r.Title)
		}
		if r.StatLine == "" {
			t.Errorf("%s: empty stat line", id)
		}
	}
}

func TestEvaluate_TieAwardsNobody(t *testing.T) {
	entries := []Entry{
		entry("a", &model.PerformanceProfile{AvgDamage: 20000}),
		entry("b", &model.PerformanceProfile{AvgDamage: 20000}),
	}

	res := New(titles.Default()).Evaluate(entries, includeAll)
	for _, id := range []string{"a", "b"} {
		if titleOf(res, id) == "Tons of Damage" {
			t.Errorf("%s: tied title must not be awarded", id)
		}
	}
}

func TestEvaluate_CommonOnlySource(t *testing.T) {
	for _, other := range []int{0, 1} {
		entries := []Entry{
			entry("hot", &model.PerformanceProfile{WinStreak: 5}),
			entry("cold", &model.PerformanceProfile{WinStreak: other}),
		}
		res := New(titles.Default()).Evaluate(entries, commonOnly)

		if got := titleOf(res, "hot"); got != "Who Wants a Piece of the Champ" {
			t.Errorf("other=%d: want champ title, got %q", other, got)
		}
		for id, r := range res {
			if r != nil && r.Title == "On a Roll" {
				t.Errorf("other=%d: uncommon title awarded to %s with common-only source", other, id)
			}
		}
	}
}

func TestEvaluate_NoProfileGetsNothing(t *testing.T) {
	entries := []Entry{
		entry("known", &model.PerformanceProfile{AvgDamage: 30000}),
		entry("unknown", nil),
	}

	for _, src := range []RandomSource{includeAll, commonOnly, rand.New(rand.NewSource(7))} {
		res := New(titles.Default()).Evaluate(entries, src)
		if _, ok := res["unknown"]; !ok {
			t.Error("player without profile missing from results")
		}
		if res["unknown"] != nil {
			t.Errorf("player without profile got %q", res["unknown"].Title)
		}
	}
}

func TestEvaluate_NoProfilesSkipsSampling(t *testing.T) {
	entries := []Entry{entry("a", nil), entry("b", nil)}
	src := &scriptedSource{}

	ev := New(titles.Default()).EvaluateDetailed(entries, src)
	if src.draws != 0 {
		t.Errorf("random source consumed %d draws with no profiles", src.draws)
	}
	if len(ev.Results) != 2 || ev.Results["a"] != nil || ev.Results["b"] != nil {
		t.Errorf("want two nil results, got %v", ev.Results)
	}
	if len(ev.Pool) != 0 {
		t.Errorf("want empty pool, got %d titles", len(ev.Pool))
	}
}

func TestEvaluate_EmptyLobby(t *testing.T) {
	res := New(titles.Default()).Evaluate(nil, includeAll)
	if res == nil || len(res) != 0 {
		t.Errorf("want empty non-nil results, got %v", res)
	}
}

func TestAssign_EmptyPool(t *testing.T) {
	res := Assign(nil, []Entry{entry("a", &model.PerformanceProfile{WinStreak: 9})})
	if v, ok := res["a"]; !ok || v != nil {
		t.Errorf("want a->nil, got %v (present=%v)", v, ok)
	}
}

func TestAssign_BelowGateUnused(t *testing.T) {
	pool := []titles.Definition{
		def("streak", titles.Common, 3, func(p *model.PerformanceProfile) float64 { return float64(p.WinStreak) }),
	}
	res := Assign(pool, []Entry{entry("a", &model.PerformanceProfile{WinStreak: 2})})
	if res["a"] != nil {
		t.Errorf("sub-threshold title awarded: %q", res["a"].Title)
	}
}

// TestAssign_HighestBidWins: a player leading two titles keeps the higher
// scoring one; the other title is not handed to the runner-up.
func TestAssign_HighestBidWins(t *testing.T) {
	pool := []titles.Definition{
		def("kills", titles.Common, 1, func(p *model.PerformanceProfile) float64 { return p.AvgKills }),
		def("damage", titles.Common, 1, func(p *model.PerformanceProfile) float64 { return p.AvgDamage }),
	}
	entries := []Entry{
		entry("x", &model.PerformanceProfile{AvgKills: 10, AvgDamage: 100}),
		entry("y", &model.PerformanceProfile{AvgKills: 9, AvgDamage: 99}),
	}

	res, bids := assign(pool, entries)
	if got := titleOf(res, "x"); got != "damage" {
		t.Errorf("x: want damage, got %q", got)
	}
	if res["y"] != nil {
		t.Errorf("y: runner-up must not inherit a discarded bid, got %q", res["y"].Title)
	}
	if len(bids) != 2 || bids[0].Title.Name != "damage" || bids[1].Title.Name != "kills" {
		t.Errorf("bids not sorted by score: %+v", bids)
	}
}

func TestAssign_EqualBidScoresKeepPoolOrder(t *testing.T) {
	pool := []titles.Definition{
		def("first", titles.Common, 1, func(p *model.PerformanceProfile) float64 { return p.AvgCS }),
		def("second", titles.Common, 1, func(p *model.PerformanceProfile) float64 { return p.AvgCS }),
	}
	res := Assign(pool, []Entry{
		entry("a", &model.PerformanceProfile{AvgCS: 150}),
		entry("b", &model.PerformanceProfile{AvgCS: 50}),
	})
	if got := titleOf(res, "a"); got != "first" {
		t.Errorf("a: want first, got %q", got)
	}
}

func TestEvaluate_Deterministic(t *testing.T) {
	entries := randomLobby(rand.New(rand.NewSource(1)), 5)
	svc := New(titles.Default())

	a := svc.Evaluate(entries, rand.New(rand.NewSource(42)))
	b := svc.Evaluate(entries, rand.New(rand.NewSource(42)))
	if !reflect.DeepEqual(a, b) {
		t.Errorf("same seed produced different results:\n%v\n%v", a, b)
	}
}

// ---- Properties ----

func randomProfile(r *rand.Rand) *model.PerformanceProfile {
	return &model.PerformanceProfile{
		WinStreak:        r.Intn(7),
		LossStreak:       r.Intn(7),
		AvgDamage:        r.Float64() * 60000,
		AvgHealing:       r.Float64() * 15000,
		AvgDamageTaken:   r.Float64() * 40000,
		AvgSelfMitigated: r.Float64() * 40000,
		AvgKills:         r.Float64() * 15,
		AvgDeaths:        r.Float64() * 15,
		AvgAssists:       r.Float64() * 20,
		AvgCCTime:        r.Float64() * 80,
		AvgVisionScore:   r.Float64() * 60,
		AvgWardsPlaced:   r.Float64() * 20,
		AvgCS:            r.Float64() * 300,
		SurrenderRate:    r.Float64(),
		Games:            20,
	}
}

// randomLobby builds n profiled players plus one without a profile. Some
// profiled players share a stat value so ties occur.
func randomLobby(r *rand.Rand, n int) []Entry {
	entries := make([]Entry, 0, n+1)
	for i := 0; i < n; i++ {
		p := randomProfile(r)
		if i > 0 && r.Intn(3) == 0 {
			p.AvgDamage = entries[0].Profile.AvgDamage
			p.WinStreak = entries[0].Profile.WinStreak
		}
		entries = append(entries, entry(fmt.Sprintf("p%d", i), p))
	}
	return append(entries, entry("ghost", nil))
}

func TestProperty_FairAssignment(t *testing.T) {
	cat := titles.Default()
	svc := New(cat)

	for seed := int64(0); seed < 300; seed++ {
		r := rand.New(rand.NewSource(seed))
		entries := randomLobby(r, 1+r.Intn(5))

		ev := svc.EvaluateDetailed(entries, r)

		if len(ev.Results) != len(entries) {
			t.Fatalf("seed %d: %d results for %d entries", seed, len(ev.Results), len(entries))
		}
		if ev.Results["ghost"] != nil {
			t.Fatalf("seed %d: player without profile got %q", seed, ev.Results["ghost"].Title)
		}

		seen := map[string]string{}
		for id, res := range ev.Results {
			if res == nil {
				continue
			}
			if prev, dup := seen[res.Title]; dup {
				t.Fatalf("seed %d: %q awarded to both %s and %s", seed, res.Title, prev, id)
			}
			seen[res.Title] = id

			d, ok := cat.Lookup(res.Title)
			if !ok {
				t.Fatalf("seed %d: unknown title %q", seed, res.Title)
			}
			var winner float64
			for _, e := range entries {
				if e.ID == id {
					winner = d.Score(e.Profile)
				}
			}
			if winner < d.MinScore {
				t.Errorf("seed %d: %q awarded below gate (%.3f < %.3f)", seed, res.Title, winner, d.MinScore)
			}
			for _, e := range entries {
				if e.ID == id || e.Profile == nil {
					continue
				}
				if d.Score(e.Profile) >= winner {
					t.Errorf("seed %d: %q awarded to %s without a strict lead over %s", seed, res.Title, id, e.ID)
				}
			}
		}
	}
}

func TestResultsAwarded(t *testing.T) {
	r := Results{"a": {Title: "x"}, "b": nil, "c": {Title: "y"}}
	if r.Awarded() != 2 {
		t.Errorf("want 2, got %d", r.Awarded())
	}
}
