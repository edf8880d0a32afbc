package expression

import (
	"testing"

	"github.com/mousetail/robot-rumble-genetic-bot/game"
)

func num(n int) *Expression      { return &Expression{Kind: KindConstantNumber, Number: n} }
func boolean(b bool) *Expression { return &Expression{Kind: KindConstantBoolean, Bool: b} }
func move(k MoveKind, d game.Direction) *Expression {
	return &Expression{Kind: KindConstantMove, Move: Move{Kind: k, Direction: d}}
}

// S1: GreaterThan{5, 3} simplifies to true.
func TestSimplifyConstantFold(t *testing.T) {
	e := &Expression{Kind: KindGreaterThan, Left: num(5), Right: num(3)}
	got := e.Simplify()
	if got.Kind != KindConstantBoolean || !got.Bool {
		t.Fatalf("got %v, want ConstantBoolean(true)", got)
	}
}

// S2: Equals{Health, ConstantNumber(100)} simplifies to false since
// Health's range [1,11) and 100 are disjoint.
func TestSimplifyRangeDisjoint(t *testing.T) {
	e := &Expression{Kind: KindEquals, Left: &Expression{Kind: KindHealth}, Right: num(100)}
	got := e.Simplify()
	if got.Kind != KindConstantBoolean || got.Bool {
		t.Fatalf("got %v, want ConstantBoolean(false)", got)
	}
}

// S3: If{cond, Move(North), Move(North)} simplifies to Move(North) for
// any condition.
func TestSimplifyIfBothBranchesEqual(t *testing.T) {
	cond := &Expression{Kind: KindEquals, Left: num(1), Right: num(2)}
	e := &Expression{Kind: KindIf, Condition: cond, Then: move(MoveMove, game.North), Otherwise: move(MoveMove, game.North)}
	got := e.Simplify()
	if got.Kind != KindConstantMove || got.Move != (Move{Kind: MoveMove, Direction: game.North}) {
		t.Fatalf("got %v, want ConstantMove(Move(North))", got)
	}
}

// S4: evaluating distance to nearest enemy with/without an enemy present.
func TestEvalDistanceToNearestEnemy(t *testing.T) {
	self := game.ID(0)
	enemy := game.ID(1)
	state := game.State{
		Objs: map[game.ID]game.Obj{
			self:  {Coords: game.Coords{X: 3, Y: 3}, Details: game.Unit{Team: game.Red, Health: 10}},
			enemy: {Coords: game.Coords{X: 3, Y: 7}, Details: game.Unit{Team: game.Blue, Health: 10}},
		},
		Teams: map[game.Team][]game.ID{game.Red: {self}, game.Blue: {enemy}},
	}
	input := game.ProgramInput{State: state, Team: game.Red}
	unit := game.Unit{Team: game.Red, Health: 10}

	e := &Expression{Kind: KindDistanceToNearestEnemy}
	v, err := e.Eval(&input, self, &unit)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Number != 4 {
		t.Fatalf("got %d, want 4", v.Number)
	}

	delete(state.Objs, enemy)
	state.Teams[game.Blue] = nil
	v, err = e.Eval(&input, self, &unit)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Number != 99 {
		t.Fatalf("got %d, want 99 with no enemy present", v.Number)
	}
}

// Invariant: mutate preserves the root's static type.
func TestMutatePreservesType(t *testing.T) {
	rng := NewRand(42)
	seeds := []*Expression{
		move(MoveAttack, game.South),
		num(5),
		boolean(true),
		&Expression{Kind: KindHealth},
	}
	for _, seed := range seeds {
		e := seed.Clone()
		wantType := e.GetType()
		for i := 0; i < 25; i++ {
			e.Mutate(rng, true)
			if e.GetType() != wantType {
				t.Fatalf("mutation %d changed root type from %v to %v", i, wantType, e.GetType())
			}
		}
	}
}

// Invariant: simplify is idempotent after at most three passes.
func TestSimplifyIdempotentAfterThreePasses(t *testing.T) {
	rng := NewRand(7)
	e := GenerateSeed(rng)
	for i := 0; i < 30; i++ {
		e.Mutate(rng, true)
	}
	p3 := e.Simplify().Simplify().Simplify()
	p4 := p3.Simplify()
	if !p3.Equal(p4) {
		t.Fatalf("simplify not stable after 3 passes:\n p3=%v\n p4=%v", p3, p4)
	}
}

// Invariant: crossover's result has the then-side's type and evaluates
// to one side's result or the other's, never anything else.
func TestCrossoverTypeAndEval(t *testing.T) {
	rng := NewRand(3)
	a := move(MoveAttack, game.East)
	b := move(MoveMove, game.West)
	c := Crossover(a, b, rng)

	if c.GetType() != TypeMove {
		t.Fatalf("crossover result type = %v, want Move", c.GetType())
	}

	input := game.ProgramInput{
		State: game.State{
			Objs:  map[game.ID]game.Obj{0: {Coords: game.Coords{X: 1, Y: 1}, Details: game.Unit{Team: game.Red, Health: 5}}},
			Teams: map[game.Team][]game.ID{game.Red: {0}},
		},
		Team: game.Red,
	}
	unit := game.Unit{Team: game.Red, Health: 5}
	v, err := c.Eval(&input, 0, &unit)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Move != a.Move && v.Move != b.Move {
		t.Fatalf("crossover result %v matches neither parent", v.Move)
	}
}

func TestDirectionToSectors(t *testing.T) {
	cases := []struct {
		from, to game.Coords
		want     game.Direction
	}{
		{game.Coords{X: 5, Y: 5}, game.Coords{X: 5, Y: 5}, game.West}, // angle 0 -> West
	}
	for _, c := range cases {
		got := directionTo(c.from, c.to)
		if got != c.want {
			t.Errorf("directionTo(%v, %v) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestEqualsAcceptsNumbersOrMoves(t *testing.T) {
	input := game.ProgramInput{
		State: game.State{Objs: map[game.ID]game.Obj{0: {Coords: game.Coords{X: 0, Y: 0}, Details: game.Unit{Team: game.Red, Health: 1}}}},
		Team:  game.Red,
	}
	unit := game.Unit{Team: game.Red, Health: 1}

	e := &Expression{Kind: KindEquals, Left: move(MoveAttack, game.North), Right: move(MoveAttack, game.North)}
	v, err := e.Eval(&input, 0, &unit)
	if err != nil || !v.Bool {
		t.Fatalf("expected true equality between identical moves, got %v err=%v", v, err)
	}

	e2 := &Expression{Kind: KindEquals, Left: move(MoveAttack, game.North), Right: num(1)}
	if _, err := e2.Eval(&input, 0, &unit); err != ErrType {
		t.Fatalf("expected ErrType comparing Move to Number, got %v", err)
	}
}
