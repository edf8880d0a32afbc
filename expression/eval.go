package expression

import (
	"errors"
	"math"

	"github.com/mousetail/robot-rumble-genetic-bot/game"
)

// ErrType is returned when evaluation hits a type mismatch: a non-boolean
// If condition, or mismatched comparison operands. It is node-local and
// non-fatal — the owning bot's per-unit action becomes a recorded failure,
// the bot itself is not removed (spec §7).
var ErrType = errors.New("expression: type error")

// Eval evaluates the node against a turn's game state for the given
// unit, incrementing its usage counter.
func (e *Expression) Eval(input *game.ProgramInput, id game.ID, unit *game.Unit) (Value, error) {
	e.usage++

	switch e.Kind {
	case KindIf:
		cond, err := e.Condition.Eval(input, id, unit)
		if err != nil {
			return Value{}, err
		}
		if cond.Type != TypeBoolean {
			return Value{}, ErrType
		}
		if cond.Bool {
			return e.Then.Eval(input, id, unit)
		}
		return e.Otherwise.Eval(input, id, unit)

	case KindConstantNumber:
		return NumberValue(e.Number), nil
	case KindConstantBoolean:
		return BoolValue(e.Bool), nil
	case KindConstantMove:
		return MoveValue(e.Move), nil

	case KindHealth:
		return NumberValue(unit.Health), nil
	case KindX:
		obj, ok := input.State.Objs[id]
		if !ok {
			return Value{}, ErrType
		}
		return NumberValue(obj.Coords.X), nil
	case KindY:
		obj, ok := input.State.Objs[id]
		if !ok {
			return Value{}, ErrType
		}
		return NumberValue(obj.Coords.Y), nil

	case KindGreaterThan:
		left, err := e.Left.Eval(input, id, unit)
		if err != nil {
			return Value{}, err
		}
		right, err := e.Right.Eval(input, id, unit)
		if err != nil {
			return Value{}, err
		}
		if left.Type != TypeNumber || right.Type != TypeNumber {
			return Value{}, ErrType
		}
		return BoolValue(left.Number > right.Number), nil

	case KindEquals:
		left, err := e.Left.Eval(input, id, unit)
		if err != nil {
			return Value{}, err
		}
		right, err := e.Right.Eval(input, id, unit)
		if err != nil {
			return Value{}, err
		}
		switch {
		case left.Type == TypeNumber && right.Type == TypeNumber:
			return BoolValue(left.Number == right.Number), nil
		case left.Type == TypeMove && right.Type == TypeMove:
			return BoolValue(left.Move == right.Move), nil
		default:
			return Value{}, ErrType
		}

	case KindAlliedSurroundingTiles, KindEnemySurroundingTiles:
		coords, ok := unitCoords(input, id)
		if !ok {
			return Value{}, ErrType
		}
		wantAllied := e.Kind == KindAlliedSurroundingTiles
		count := 0
		for _, t := range surroundingTiles(input, coords) {
			u, ok := t.Details.(game.Unit)
			if !ok {
				continue
			}
			if (u.Team == input.Team) == wantAllied {
				count++
			}
		}
		return NumberValue(count), nil

	case KindAttackNearestEnemy, KindMoveToNearestEnemy:
		coords, ok := unitCoords(input, id)
		if !ok {
			return Value{}, ErrType
		}
		dir := game.East
		if nearest, ok := findNearestUnitOfTeam(input, coords, input.Team.Opposite()); ok {
			dir = directionTo(coords, nearest.Coords)
		}
		kind := MoveMove
		if e.Kind == KindAttackNearestEnemy {
			kind = MoveAttack
		}
		return MoveValue(Move{Kind: kind, Direction: dir}), nil

	case KindDistanceToNearestEnemy:
		coords, ok := unitCoords(input, id)
		if !ok {
			return Value{}, ErrType
		}
		if nearest, ok := findNearestUnitOfTeam(input, coords, input.Team.Opposite()); ok {
			return NumberValue(coords.Distance(nearest.Coords)), nil
		}
		return NumberValue(99), nil

	case KindDistanceToNearestAlly:
		coords, ok := unitCoords(input, id)
		if !ok {
			return Value{}, ErrType
		}
		if nearest, ok := findNearestUnitOfTeam(input, coords, input.Team); ok {
			return NumberValue(coords.Distance(nearest.Coords)), nil
		}
		return NumberValue(99), nil

	case KindDistanceToCenter:
		coords, ok := unitCoords(input, id)
		if !ok {
			return Value{}, ErrType
		}
		return NumberValue(coords.Distance(game.Center)), nil

	case KindClosestEnemyHealth:
		coords, ok := unitCoords(input, id)
		if !ok {
			return Value{}, ErrType
		}
		if nearest, ok := findNearestUnitOfTeam(input, coords, input.Team.Opposite()); ok {
			if u, ok := nearest.Details.(game.Unit); ok {
				return NumberValue(u.Health), nil
			}
		}
		return NumberValue(0), nil

	case KindClosestAllyHealth:
		coords, ok := unitCoords(input, id)
		if !ok {
			return Value{}, ErrType
		}
		if nearest, ok := findNearestUnitOfTeam(input, coords, input.Team); ok {
			if u, ok := nearest.Details.(game.Unit); ok {
				return NumberValue(u.Health), nil
			}
		}
		return NumberValue(0), nil

	default:
		return Value{}, ErrType
	}
}

func unitCoords(input *game.ProgramInput, id game.ID) (game.Coords, bool) {
	obj, ok := input.State.Objs[id]
	if !ok {
		return game.Coords{}, false
	}
	return obj.Coords, true
}

var neighborOffsets = [4]game.Coords{{X: 0, Y: 1}, {X: -1, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: -1}}

func surroundingTiles(input *game.ProgramInput, coords game.Coords) []game.Obj {
	var out []game.Obj
	for _, off := range neighborOffsets {
		c := game.Coords{X: coords.X + off.X, Y: coords.Y + off.Y}
		if id, ok := input.State.Grid[c]; ok {
			if obj, ok := input.State.Objs[id]; ok {
				out = append(out, obj)
			}
		}
	}
	return out
}

func findNearestUnitOfTeam(input *game.ProgramInput, coords game.Coords, team game.Team) (game.Obj, bool) {
	best := game.Obj{}
	found := false
	bestDist := 0
	for _, id := range input.State.Teams[team] {
		obj, ok := input.State.Objs[id]
		if !ok {
			continue
		}
		d := coords.Distance(obj.Coords)
		if !found || d < bestDist {
			best, bestDist, found = obj, d, true
		}
	}
	return best, found
}

// directionTo computes the cardinal direction from a to b, following
// the project's fixed convention: atan2(a.X-b.X, a.Y-b.Y) partitioned
// into four ±45° sectors centered on 0 (West), +π/2 (South), -π/2
// (North), and the remainder (East). This exact sector assignment must
// be preserved — evolved bots depend on it.
func directionTo(a, b game.Coords) game.Direction {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	angle := math.Atan2(dx, dy)

	const quarterPi = math.Pi / 4

	switch {
	case math.Abs(angle) < quarterPi:
		return game.West
	case math.Abs(angle-math.Pi/2) <= quarterPi:
		return game.South
	case math.Abs(angle+math.Pi/2) <= quarterPi:
		return game.North
	default:
		return game.East
	}
}
