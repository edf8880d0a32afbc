package population

import (
	"sort"

	"github.com/mousetail/robot-rumble-genetic-bot/expression"
)

// Config holds the population-management constants from spec.md §4.4.
type Config struct {
	NumRobots         int
	SurvivingRobots   int
	NumSpecies        int
	CrossoverInterval int
	MinBotsPerSpecies int
}

// DefaultConfig returns the constants named in the spec.
func DefaultConfig() Config {
	return Config{
		NumRobots:         200,
		SurvivingRobots:   50,
		NumSpecies:        15,
		CrossoverInterval: 5,
		MinBotsPerSpecies: 3,
	}
}

// Validate bounds-checks the config, the same validating-`Update` shape
// the teacher's population manager and EvolutionConfig use.
func (c Config) Validate() error {
	switch {
	case c.NumRobots <= 0:
		return errConfig("NumRobots must be positive")
	case c.SurvivingRobots <= 0 || c.SurvivingRobots > c.NumRobots:
		return errConfig("SurvivingRobots must be in (0, NumRobots]")
	case c.NumSpecies <= 0:
		return errConfig("NumSpecies must be positive")
	case c.CrossoverInterval <= 0:
		return errConfig("CrossoverInterval must be positive")
	case c.MinBotsPerSpecies <= 0:
		return errConfig("MinBotsPerSpecies must be positive")
	}
	return nil
}

type configError string

func (e configError) Error() string { return "population: invalid config: " + string(e) }
func errConfig(msg string) error    { return configError(msg) }

// SpeciesScore pairs a species with its best member's score.
type SpeciesScore struct {
	Species Species
	Score   BotScore
}

// bestByGenCap bounds the trend ring buffer, the same 50-generation
// window population-manager.go's bestByGen keeps.
const bestByGenCap = 50

// Manager owns the species-collision guard across generations and
// exposes the culling/reproduction operations from spec.md §4.4.
type Manager struct {
	cfg       Config
	guard     *speciesGuard
	bestByGen []BotScore
}

// NewManager builds a Manager for the given config.
func NewManager(cfg Config) *Manager {
	return &Manager{cfg: cfg, guard: newSpeciesGuard(), bestByGen: make([]BotScore, 0, bestByGenCap)}
}

// Config returns the manager's current configuration.
func (m *Manager) Config() Config { return m.cfg }

// RecordBest appends a generation's best score to the trend ring
// buffer, dropping the oldest entry once it exceeds bestByGenCap.
// Adapted from population-manager.go's bestByGen ring buffer; purely a
// diagnostic feed for telemetry, never consulted by Cull/Reproduce.
func (m *Manager) RecordBest(score BotScore) {
	m.bestByGen = append(m.bestByGen, score)
	if len(m.bestByGen) > bestByGenCap {
		m.bestByGen = m.bestByGen[1:]
	}
}

// BestScoreTrend returns a copy of the recorded best-score trend.
func (m *Manager) BestScoreTrend() []BotScore {
	out := make([]BotScore, len(m.bestByGen))
	copy(out, m.bestByGen)
	return out
}

// InitialPopulation produces NumRobots bots, each generated from a seed
// ConstantMove(Attack(South)) mutated ten times with sanity checks
// disabled, then simplified, with a freshly drawn distinct species id.
func (m *Manager) InitialPopulation(rng *expression.Rand) []*Bot {
	bots := make([]*Bot, 0, m.cfg.NumRobots)
	for i := 0; i < m.cfg.NumRobots; i++ {
		bots = append(bots, &Bot{
			Logic:     expression.GenerateSeed(rng),
			SpeciesID: m.guard.draw(rng),
		})
	}
	return bots
}

// DiversityIndex reports how dissimilar the population's bots are, as
// one minus the average pairwise Jaccard similarity of their diversity
// signatures. 0 means every bot looks identical; 1 means no two bots
// share any signature bits at all. Intended for telemetry only; Cull
// uses the same signatures directly rather than this aggregate.
func DiversityIndex(bots []*Bot) float64 {
	if len(bots) < 2 {
		return 0
	}
	total, pairs := 0.0, 0
	for i := 0; i < len(bots); i++ {
		sigI := bots[i].Logic.Signature()
		for j := i + 1; j < len(bots); j++ {
			total += expression.JaccardSimilarity(sigI, bots[j].Logic.Signature())
			pairs++
		}
	}
	if pairs == 0 {
		return 0
	}
	return 1 - total/float64(pairs)
}

// pickWorstSpecies finds the species with the lowest best score. When
// several species are tied for worst, the tie is broken by diversity
// signature: the tied species whose representative bot is most similar
// to the rest of the surviving population (highest average Jaccard
// similarity) is removed first, keeping the more unique gene pools.
func pickWorstSpecies(order []Species, groups map[Species][]*Bot, best map[Species]BotScore, bestMember map[Species]*Bot) (Species, bool) {
	var worst Species
	found := false
	for _, sp := range order {
		s, ok := best[sp]
		if !ok {
			continue
		}
		if !found || s.Less(best[worst]) {
			worst, found = sp, true
		}
	}
	if !found {
		return worst, false
	}

	var tied []Species
	for _, sp := range order {
		s, ok := best[sp]
		if !ok {
			continue
		}
		if !s.Less(best[worst]) && !best[worst].Less(s) {
			tied = append(tied, sp)
		}
	}
	if len(tied) <= 1 {
		return worst, true
	}

	bestCandidate := tied[0]
	bestAvg := -1.0
	for _, candidate := range tied {
		candidateSig := bestMember[candidate].Logic.Signature()
		total, count := 0.0, 0
		for _, sp := range order {
			if sp == candidate {
				continue
			}
			if _, ok := groups[sp]; !ok {
				continue
			}
			total += expression.JaccardSimilarity(candidateSig, bestMember[sp].Logic.Signature())
			count++
		}
		avg := 0.0
		if count > 0 {
			avg = total / float64(count)
		}
		if avg > bestAvg {
			bestAvg, bestCandidate = avg, candidate
		}
	}
	return bestCandidate, true
}

// Cull implements cull_bots(bots, targetSpecies, targetSize, rng):
// first drop the lowest-scoring species while doing so still leaves at
// least targetSize bots overall, then trim individual species (biased
// toward their weaker members) until exactly targetSize bots remain or
// no species has enough members left to trim further.
func (m *Manager) Cull(bots []*Bot, targetSpecies, targetSize int, rng *expression.Rand) ([]*Bot, []SpeciesScore) {
	groups := map[Species][]*Bot{}
	for _, b := range bots {
		groups[b.SpeciesID] = append(groups[b.SpeciesID], b)
	}

	best := map[Species]BotScore{}
	bestMember := map[Species]*Bot{}
	for sp, members := range groups {
		sort.SliceStable(members, func(i, j int) bool { return members[j].Score.Less(members[i].Score) })
		groups[sp] = members
		best[sp] = members[0].Score
		bestMember[sp] = members[0]
	}

	// order ranks species strongest-first (by their best member's score),
	// the same fitness-descending sort population-manager.go's
	// updateParentPool runs over its candidates, so survivors[0] below ends
	// up the single best bot in the population, not an arbitrary one.
	order := make([]Species, 0, len(groups))
	for sp := range groups {
		order = append(order, sp)
	}
	sort.SliceStable(order, func(i, j int) bool { return best[order[j]].Less(best[order[i]]) })

	for len(groups) > targetSpecies {
		worst, found := pickWorstSpecies(order, groups, best, bestMember)
		if !found {
			break
		}
		remaining := 0
		for sp, members := range groups {
			if sp == worst {
				continue
			}
			remaining += len(members)
		}
		if remaining < targetSize {
			break
		}
		delete(groups, worst)
		delete(best, worst)
		delete(bestMember, worst)
	}

	total := 0
	for _, members := range groups {
		total += len(members)
	}

	for total > targetSize {
		var eligible []Species
		for _, sp := range order {
			if members, ok := groups[sp]; ok && len(members) >= m.cfg.MinBotsPerSpecies+1 {
				eligible = append(eligible, sp)
			}
		}
		if len(eligible) == 0 {
			break
		}
		sp := eligible[rng.Intn(len(eligible))]
		members := groups[sp]
		n := len(members)
		a := 1 + rng.Intn(n-1)
		b := 1 + rng.Intn(n-1)
		idx := a
		if b > a {
			idx = b
		}
		members[idx] = members[n-1]
		groups[sp] = members[:n-1]
		total--
	}

	survivors := make([]*Bot, 0, total)
	ranked := make([]SpeciesScore, 0, len(groups))
	for _, sp := range order {
		members, ok := groups[sp]
		if !ok {
			continue
		}
		survivors = append(survivors, members...)
		ranked = append(ranked, SpeciesScore{Species: sp, Score: best[sp]})
	}
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].Score.Less(ranked[j].Score) })

	return survivors, ranked
}

// Reproduce implements spec.md §4.4's Reproduction step: cull to
// NumSpecies (or NumSpecies-1 on a crossover generation, appending one
// crossover child), then fill back up to NumRobots by biased-parent
// mutation, and finally clear every bot's usage counters.
func (m *Manager) Reproduce(bots []*Bot, generationIndex int, rng *expression.Rand) ([]*Bot, []SpeciesScore) {
	m.guard.sync(bots)

	isCrossoverGeneration := generationIndex%m.cfg.CrossoverInterval == m.cfg.CrossoverInterval-1
	targetSpecies := m.cfg.NumSpecies
	if isCrossoverGeneration {
		targetSpecies = m.cfg.NumSpecies - 1
	}

	survivors, ranked := m.Cull(bots, targetSpecies, m.cfg.SurvivingRobots, rng)

	if isCrossoverGeneration && len(survivors) >= 2 {
		first := survivors[0]
		var partner *Bot
		for _, b := range survivors[1:] {
			if b.SpeciesID != first.SpeciesID {
				partner = b
				break
			}
		}
		if partner != nil {
			child := &Bot{
				Logic:      expression.Crossover(first.Logic.Clone(), partner.Logic.Clone(), rng),
				SpeciesID:  m.guard.draw(rng),
				Generation: maxInt(first.Generation, partner.Generation) + 1,
				Parents:    &ParentPair{first.SpeciesID, partner.SpeciesID},
			}
			survivors = append(survivors, child)
		}
	}

	bound := m.cfg.SurvivingRobots
	if bound > len(survivors) {
		bound = len(survivors)
	}
	if bound < 1 {
		bound = 1
	}

	for len(survivors) < m.cfg.NumRobots {
		a := rng.Intn(bound)
		b := rng.Intn(bound)
		idx := a
		if b < a {
			idx = b
		}
		parent := survivors[idx]

		child := parent.Clone()
		child.Generation = parent.Generation + 1
		child.Logic.Mutate(rng, false)
		for i := 0; i < 3; i++ {
			child.Logic = child.Logic.Simplify()
		}
		survivors = append(survivors, child)
	}

	for _, b := range survivors {
		b.Logic.ClearUsage()
	}

	return survivors, ranked
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
