package population

import (
	"fmt"

	"github.com/mousetail/robot-rumble-genetic-bot/expression"
	"github.com/mousetail/robot-rumble-genetic-bot/namedict"
)

// Species is an opaque 64-bit lineage identifier. Equality is
// identifier equality; offspring by mutation inherit their parent's
// species unchanged, offspring by crossover receive a fresh one.
type Species uint64

// String renders a Species as (first_name, last_name) drawn from the
// name dictionaries, exactly the project's convention.
func (s Species) String() string {
	first := namedict.First(uint64(s) % namedict.TableSize)
	last := namedict.Last(uint64(s) / namedict.TableSize % namedict.TableSize)
	return fmt.Sprintf("%s %s", first, last)
}

// ParentPair records the two species that produced a crossover child.
type ParentPair [2]Species

// Bot is one candidate in the evolving population: a logic tree, a
// species identity, a cumulative score, its generation number, and
// (for crossover children) the species pair that produced it.
type Bot struct {
	Logic      *expression.Expression
	SpeciesID  Species
	Score      BotScore
	Generation int
	Parents    *ParentPair
}

// ResetScore resets the bot's score to its zero value, as done at the
// start of every generation before the tournament runs.
func (b *Bot) ResetScore() {
	b.Score = BotScore{}
}

// Clone produces an independent copy of the bot, including a deep copy
// of its logic tree.
func (b *Bot) Clone() *Bot {
	c := *b
	c.Logic = b.Logic.Clone()
	if b.Parents != nil {
		p := *b.Parents
		c.Parents = &p
	}
	return &c
}
