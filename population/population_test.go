package population

import (
	"testing"

	"github.com/mousetail/robot-rumble-genetic-bot/expression"
)

func seedBot(species Species, generation int) *Bot {
	return &Bot{
		Logic:      expression.GenerateSeed(expression.NewRand(int64(species) + 1)),
		SpeciesID:  species,
		Generation: generation,
	}
}

// TestCullTargetSize covers invariant 7: culling returns exactly the
// target size, or the smallest size reachable once every species is
// down to MinBotsPerSpecies.
func TestCullTargetSize(t *testing.T) {
	rng := expression.NewRand(1)
	m := NewManager(DefaultConfig())

	var bots []*Bot
	for sp := 0; sp < 10; sp++ {
		for i := 0; i < 8; i++ {
			b := seedBot(Species(sp+1), 0)
			b.Score.TotalWins = sp*8 + i
			bots = append(bots, b)
		}
	}

	survivors, ranked := m.Cull(bots, 5, 20, rng)
	if len(survivors) != 20 {
		t.Fatalf("expected 20 survivors, got %d", len(survivors))
	}
	if len(ranked) > 5 {
		t.Fatalf("expected at most 5 surviving species, got %d", len(ranked))
	}
}

// TestCullStopsWhenSpeciesTooSmall checks that the size-trimming pass
// halts once no species has more than MinBotsPerSpecies members,
// rather than looping forever or going negative.
func TestCullStopsWhenSpeciesTooSmall(t *testing.T) {
	rng := expression.NewRand(2)
	m := NewManager(DefaultConfig())

	var bots []*Bot
	for sp := 0; sp < 3; sp++ {
		for i := 0; i < m.cfg.MinBotsPerSpecies; i++ {
			bots = append(bots, seedBot(Species(sp+1), 0))
		}
	}

	survivors, _ := m.Cull(bots, 10, 1, rng)
	if len(survivors) != len(bots) {
		t.Fatalf("expected cull to leave all %d bots (none above MinBotsPerSpecies), got %d", len(bots), len(survivors))
	}
}

// TestReproduceRefillsToNumRobots covers the Reproduction step filling
// the population back up to NumRobots after culling.
func TestReproduceRefillsToNumRobots(t *testing.T) {
	rng := expression.NewRand(3)
	cfg := DefaultConfig()
	cfg.NumRobots = 40
	cfg.SurvivingRobots = 10
	cfg.NumSpecies = 4
	m := NewManager(cfg)

	bots := m.InitialPopulation(rng)
	if len(bots) != cfg.NumRobots {
		t.Fatalf("expected initial population of %d, got %d", cfg.NumRobots, len(bots))
	}

	next, ranked := m.Reproduce(bots, 0, rng)
	if len(next) != cfg.NumRobots {
		t.Fatalf("expected reproduce to refill to %d bots, got %d", cfg.NumRobots, len(next))
	}
	if len(ranked) == 0 {
		t.Fatalf("expected at least one surviving species")
	}
	for _, b := range next {
		if b.Logic.Usage() != 0 {
			t.Fatalf("expected usage counters cleared after reproduce")
		}
	}
}

// TestReproduceCrossoverGeneration covers the CROSSOVER_INTERVAL
// special case: on a crossover generation, reproduce culls to
// NumSpecies-1 and appends a crossover child before refilling.
func TestReproduceCrossoverGeneration(t *testing.T) {
	rng := expression.NewRand(4)
	cfg := DefaultConfig()
	cfg.NumRobots = 40
	cfg.SurvivingRobots = 12
	cfg.NumSpecies = 5
	cfg.CrossoverInterval = 5
	m := NewManager(cfg)

	bots := m.InitialPopulation(rng)
	// generationIndex = CrossoverInterval-1 triggers the special case.
	next, _ := m.Reproduce(bots, cfg.CrossoverInterval-1, rng)
	if len(next) != cfg.NumRobots {
		t.Fatalf("expected %d bots after crossover-generation reproduce, got %d", cfg.NumRobots, len(next))
	}
}

// TestCullSurvivorsAreBestFirst covers the elitism ordering: survivors[0]
// must be the single best-scoring bot in the population, matching
// population-manager.go's fitness-descending parentPool so that
// Reproduce's index-0-biased selection favors strong parents.
func TestCullSurvivorsAreBestFirst(t *testing.T) {
	rng := expression.NewRand(6)
	m := NewManager(DefaultConfig())

	var bots []*Bot
	var wantBest *Bot
	for sp := 0; sp < 5; sp++ {
		for i := 0; i < 6; i++ {
			b := seedBot(Species(sp+1), 0)
			b.Score.TotalWins = sp*6 + i
			bots = append(bots, b)
			if wantBest == nil || wantBest.Score.Less(b.Score) {
				wantBest = b
			}
		}
	}

	survivors, _ := m.Cull(bots, 5, len(bots), rng)
	if survivors[0] != wantBest {
		t.Fatalf("expected survivors[0] to be the best-scoring bot (TotalWins=%d), got TotalWins=%d",
			wantBest.Score.TotalWins, survivors[0].Score.TotalWins)
	}
}

// TestPickWorstSpeciesBreaksTiesByDiversity covers the culling tie-break:
// when several species share the lowest best score, the one most
// redundant with the rest of the population (highest average Jaccard
// similarity) is removed, not an arbitrary one.
func TestPickWorstSpeciesBreaksTiesByDiversity(t *testing.T) {
	botA := seedBot(1, 0)
	botB := &Bot{Logic: botA.Logic.Clone(), SpeciesID: 2}
	botC := seedBot(3, 0)
	botC.Logic = expression.GenerateSeed(expression.NewRand(999))

	order := []Species{1, 2, 3}
	groups := map[Species][]*Bot{1: {botA}, 2: {botB}, 3: {botC}}
	best := map[Species]BotScore{1: {}, 2: {}, 3: {}}
	bestMember := map[Species]*Bot{1: botA, 2: botB, 3: botC}

	worst, found := pickWorstSpecies(order, groups, best, bestMember)
	if !found {
		t.Fatalf("expected a worst species to be found")
	}
	if worst != 1 && worst != 2 {
		t.Fatalf("expected the most redundant species (1 or 2) to be picked, got %v", worst)
	}
}

// TestRecordBestTrendCaps covers the bestByGen ring buffer: it keeps
// only the most recent bestByGenCap entries.
func TestRecordBestTrendCaps(t *testing.T) {
	m := NewManager(DefaultConfig())
	for i := 0; i < bestByGenCap+10; i++ {
		m.RecordBest(BotScore{TotalWins: i})
	}
	trend := m.BestScoreTrend()
	if len(trend) != bestByGenCap {
		t.Fatalf("expected trend capped at %d entries, got %d", bestByGenCap, len(trend))
	}
	if trend[len(trend)-1].TotalWins != bestByGenCap+9 {
		t.Fatalf("expected trend to keep the most recent entries, got last=%+v", trend[len(trend)-1])
	}
}

// TestDiversityIndexZeroForIdenticalBots covers the floor of the
// diversity index: bots with identical logic share identical
// signatures, so the index is zero.
func TestDiversityIndexZeroForIdenticalBots(t *testing.T) {
	botA := seedBot(1, 0)
	botB := &Bot{Logic: botA.Logic.Clone(), SpeciesID: 2}
	if idx := DiversityIndex([]*Bot{botA, botB}); idx != 0 {
		t.Fatalf("expected diversity index 0 for identical bots, got %v", idx)
	}
}

// TestSpeciesGuardAvoidsCollision exercises speciesGuard.draw directly:
// once a species is live, the guard must never hand it out again.
func TestSpeciesGuardAvoidsCollision(t *testing.T) {
	g := newSpeciesGuard()
	rng := expression.NewRand(5)
	seen := map[Species]bool{}
	for i := 0; i < 200; i++ {
		s := g.draw(rng)
		if seen[s] {
			t.Fatalf("speciesGuard handed out a duplicate id: %v", s)
		}
		seen[s] = true
	}
}
