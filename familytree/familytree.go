// Package familytree tracks species lineage across generations: when a
// species first appeared, its best score to date, and when (if ever) it
// died out. Grounded on the original family_tree.rs's analize pass.
package familytree

import "github.com/mousetail/robot-rumble-genetic-bot/population"

// SpeciesInfo is the per-species record kept across generations.
type SpeciesInfo struct {
	RoundIntroduced int
	RoundExtinct    *int
	Parents         *population.ParentPair
	BestScore       population.BotScore
}

// FamilyTree is a species lineage ledger. Entries are never deleted,
// only marked extinct.
type FamilyTree struct {
	species map[population.Species]*SpeciesInfo
}

// New returns an empty FamilyTree.
func New() *FamilyTree {
	return &FamilyTree{species: map[population.Species]*SpeciesInfo{}}
}

// Get returns the recorded info for a species, if any.
func (t *FamilyTree) Get(s population.Species) (SpeciesInfo, bool) {
	info, ok := t.species[s]
	if !ok {
		return SpeciesInfo{}, false
	}
	return *info, true
}

// All returns a snapshot copy of every tracked species, keyed by id.
// Used by telemetry to serialize the whole tree.
func (t *FamilyTree) All() map[population.Species]SpeciesInfo {
	out := make(map[population.Species]SpeciesInfo, len(t.species))
	for sp, info := range t.species {
		out[sp] = *info
	}
	return out
}

// Analyze updates the tree from one generation's bots, per spec.md
// §4.5: ensure an entry for every present species (preserving any
// recorded round_introduced), raise best_score to the max of current
// and stored, and mark any species that was tracked but is no longer
// present (and not already extinct) extinct as of this round.
func (t *FamilyTree) Analyze(bots []*population.Bot, roundNumber int) {
	current := map[population.Species]*SpeciesInfo{}
	for _, b := range bots {
		info, ok := current[b.SpeciesID]
		if !ok {
			info = &SpeciesInfo{
				RoundIntroduced: roundNumber,
				Parents:         b.Parents,
				BestScore:       b.Score,
			}
			current[b.SpeciesID] = info
			continue
		}
		info.BestScore = info.BestScore.Max(b.Score)
	}

	for sp, info := range current {
		if prior, ok := t.species[sp]; ok {
			info.RoundIntroduced = prior.RoundIntroduced
			info.BestScore = prior.BestScore.Max(info.BestScore)
			info.RoundExtinct = prior.RoundExtinct
		}
	}

	for sp, info := range t.species {
		if _, stillPresent := current[sp]; !stillPresent && info.RoundExtinct == nil {
			r := roundNumber
			info.RoundExtinct = &r
		}
	}

	for sp, info := range current {
		t.species[sp] = info
	}
}
