// Package tournament implements the playoff scheduler described in
// spec.md §4.3: repeated rounds of round-robin-by-offset pairings,
// coarsened scoring, and recursive thirds partitioning.
package tournament

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/mousetail/robot-rumble-genetic-bot/game"
	"github.com/mousetail/robot-rumble-genetic-bot/internal/rlog"
	"github.com/mousetail/robot-rumble-genetic-bot/population"
)

// Config holds the tournament constants from spec.md §4.3.
type Config struct {
	GamesPerBotPerRound int
	PlayoffRounds       int
	TurnLimit           int
	// MaxConcurrentMatches bounds how many matches run at once within a
	// round. Zero means unbounded (errgroup runs every pairing at once).
	MaxConcurrentMatches int
}

// DefaultConfig returns the constants named in the spec.
func DefaultConfig() Config {
	return Config{
		GamesPerBotPerRound: 2,
		PlayoffRounds:       3,
		TurnLimit:           100,
	}
}

// AssertionError marks a violated programmer invariant (§7): a
// declared winner whose unit counts don't back it up, or a playoff
// segment too small to pair within. These are fatal by contract; the
// caller decides how to surface that (log.Fatal, process exit, ...).
type AssertionError struct {
	Msg string
}

func (e *AssertionError) Error() string { return "tournament: assertion violated: " + e.Msg }

// Scheduler runs playoff rounds over a population using a game.Runner
// to resolve individual matches.
type Scheduler struct {
	cfg    Config
	runner game.Runner

	// Log, if set, receives one line per round ("round %d: N bots, M
	// pairings") scoped to the generation the caller is currently
	// running. Nil by default.
	Log *rlog.Scoped
}

// NewScheduler builds a Scheduler bound to the given match runner.
func NewScheduler(cfg Config, runner game.Runner) *Scheduler {
	return &Scheduler{cfg: cfg, runner: runner}
}

// Run executes the full playoff from round 0 over bots in place: it
// mutates each bot's Score and reorders the slice, leaving the
// strongest bots at the end per spec.md §4.3's post-condition.
func (s *Scheduler) Run(ctx context.Context, bots []*population.Bot) error {
	return s.runRound(ctx, bots, 0)
}

type pairing struct {
	blue, red int
}

func buildPairings(n, gamesPerBotPerRound int) []pairing {
	var pairs []pairing
	for i := 0; i < n; i++ {
		for offset := 1; offset <= gamesPerBotPerRound; offset++ {
			j := (i + offset) % n
			if i == j {
				continue
			}
			pairs = append(pairs, pairing{blue: i, red: j})
		}
	}
	return pairs
}

func (s *Scheduler) runRound(ctx context.Context, bots []*population.Bot, round int) error {
	if len(bots) < 2 {
		return nil
	}

	pairs := buildPairings(len(bots), s.cfg.GamesPerBotPerRound)

	if s.Log != nil {
		s.Log.ForRound(round).Printf("%d bots, %d pairings", len(bots), len(pairs))
	}

	g, gctx := errgroup.WithContext(ctx)
	if s.cfg.MaxConcurrentMatches > 0 {
		g.SetLimit(s.cfg.MaxConcurrentMatches)
	}
	var mu sync.Mutex

	for _, p := range pairs {
		p := p
		g.Go(func() error {
			blue, red := bots[p.blue], bots[p.red]
			result, err := s.runner.Run(gctx, red.Logic, blue.Logic, s.cfg.TurnLimit)
			if err != nil {
				// Runner failure: dropped match, no score change (§7).
				return nil
			}

			if err := sanityCheckWinner(result); err != nil {
				return err
			}

			mu.Lock()
			applyMatchScore(blue, red, result, round)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	divisor := (4 * s.cfg.GamesPerBotPerRound) / 5
	if divisor == 0 {
		divisor = 1
	}
	for _, b := range bots {
		b.Score.Wins[round] /= divisor
	}

	sort.SliceStable(bots, func(i, j int) bool {
		a, c := bots[i].Score, bots[j].Score
		if a.Wins[round] != c.Wins[round] {
			return a.Wins[round] < c.Wins[round]
		}
		return a.Less(c)
	})

	if round+1 >= s.cfg.PlayoffRounds {
		return nil
	}

	third := len(bots) / 3
	segments := [][]*population.Bot{
		bots[0:third],
		bots[third : 2*third],
		bots[2*third:],
	}
	for _, seg := range segments {
		if len(seg) <= s.cfg.GamesPerBotPerRound {
			return &AssertionError{Msg: fmt.Sprintf("playoff segment of size %d does not exceed GamesPerBotPerRound=%d", len(seg), s.cfg.GamesPerBotPerRound)}
		}
	}

	sg, sctx := errgroup.WithContext(ctx)
	for _, seg := range segments {
		seg := seg
		sg.Go(func() error { return s.runRound(sctx, seg, round+1) })
	}
	return sg.Wait()
}

// applyMatchScore accumulates one match's outcome into both bots'
// scores: tie credits both with +1, a decisive winner gets +2; both
// bots additionally accrue survivor statistics from the match's last
// turn, with the opponent's counts stored negated (spec.md §3, §4.3).
func applyMatchScore(blue, red *population.Bot, result game.GameResult, round int) {
	switch {
	case result.Winner == nil:
		blue.Score.Wins[round]++
		red.Score.Wins[round]++
	case *result.Winner == game.Blue:
		blue.Score.Wins[round] += 2
	case *result.Winner == game.Red:
		red.Score.Wins[round] += 2
	}

	if len(result.Turns) == 0 {
		return
	}
	last := result.Turns[len(result.Turns)-1].State

	blueUnits, blueHealth := teamTotals(last, game.Blue)
	redUnits, redHealth := teamTotals(last, game.Red)

	blue.Score.FriendlyUnits += blueUnits
	blue.Score.FriendlyHealth += blueHealth
	blue.Score.EnemyUnits -= redUnits
	blue.Score.EnemyHealth -= redHealth

	red.Score.FriendlyUnits += redUnits
	red.Score.FriendlyHealth += redHealth
	red.Score.EnemyUnits -= blueUnits
	red.Score.EnemyHealth -= blueHealth

	if result.Winner != nil {
		blue.Score.TotalWins += boolToInt(*result.Winner == game.Blue)
		red.Score.TotalWins += boolToInt(*result.Winner == game.Red)
	}
}

func teamTotals(s game.State, team game.Team) (units, health int) {
	for _, id := range s.Teams[team] {
		obj, ok := s.Objs[id]
		if !ok {
			continue
		}
		unit, ok := obj.Details.(game.Unit)
		if !ok {
			continue
		}
		units++
		health += unit.Health
	}
	return units, health
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// sanityCheckWinner enforces spec.md §4.3's per-match assertion: a
// declared winner's side must strictly outnumber the other in units on
// the match's final turn; a draw requires equal counts.
func sanityCheckWinner(result game.GameResult) error {
	if len(result.Turns) == 0 {
		return nil
	}
	last := result.Turns[len(result.Turns)-1].State
	blueUnits, _ := teamTotals(last, game.Blue)
	redUnits, _ := teamTotals(last, game.Red)

	switch {
	case result.Winner == nil:
		if blueUnits != redUnits {
			return &AssertionError{Msg: fmt.Sprintf("no winner declared but unit counts differ: blue=%d red=%d", blueUnits, redUnits)}
		}
	case *result.Winner == game.Blue:
		if !(blueUnits > redUnits) {
			return &AssertionError{Msg: fmt.Sprintf("blue declared winner but blue_units=%d <= red_units=%d", blueUnits, redUnits)}
		}
	case *result.Winner == game.Red:
		if !(redUnits > blueUnits) {
			return &AssertionError{Msg: fmt.Sprintf("red declared winner but red_units=%d <= blue_units=%d", redUnits, blueUnits)}
		}
	}
	return nil
}
