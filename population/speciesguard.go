package population

import "github.com/mousetail/robot-rumble-genetic-bot/expression"

// speciesGuard re-draws a freshly-generated species id if it collides
// with a species already present in the live population. Spec.md §3
// calls this collision "astronomically rare" but possible; this adapts
// the shape of the teacher's federation replay guard (a bounded
// seen-set consulted before accepting a new value) from "reject a
// replayed protocol message" to "re-draw an id that already exists."
type speciesGuard struct {
	live map[Species]bool
}

func newSpeciesGuard() *speciesGuard {
	return &speciesGuard{live: map[Species]bool{}}
}

// sync replaces the guard's live set with the species currently present
// in bots. Called once per generation before any fresh ids are drawn.
func (g *speciesGuard) sync(bots []*Bot) {
	g.live = make(map[Species]bool, len(bots))
	for _, b := range bots {
		g.live[b.SpeciesID] = true
	}
}

// draw returns a fresh species id guaranteed not to collide with any
// species currently in the guard's live set, re-rolling on collision.
func (g *speciesGuard) draw(rng *expression.Rand) Species {
	for {
		s := Species(rng.Uint64())
		if !g.live[s] {
			g.live[s] = true
			return s
		}
	}
}
