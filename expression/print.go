package expression

import "fmt"

// String renders the expression using the project's fixed pretty-print
// grammar (spec §6.1). Note GreaterThan prints as ">=" despite
// evaluating strict `>` — this contradiction is intentional and
// preserved; the printed form is consumed by external tooling only and
// round-tripping it back into an Expression is not supported.
func (e *Expression) String() string {
	if e == nil {
		return ""
	}
	switch e.Kind {
	case KindIf:
		return fmt.Sprintf("(%s) if (%s) else (%s)", e.Then, e.Condition, e.Otherwise)
	case KindConstantNumber:
		return fmt.Sprintf("%d", e.Number)
	case KindConstantBoolean:
		if e.Bool {
			return "True"
		}
		return "False"
	case KindConstantMove:
		return e.Move.String()
	case KindHealth:
		return "unit.health"
	case KindX:
		return "unit.coords.x"
	case KindY:
		return "unit.coords.y"
	case KindGreaterThan:
		return fmt.Sprintf("(%s) >= (%s)", e.Left, e.Right)
	case KindEquals:
		return fmt.Sprintf("(%s) == (%s)", e.Left, e.Right)
	case KindAlliedSurroundingTiles:
		return "friendly_surrounding_tiles(unit.coords, state)"
	case KindEnemySurroundingTiles:
		return "unsafe_surrounding_tiles(unit.coords, state)"
	case KindAttackNearestEnemy:
		return "Action.attack(unit.coords.direction_to(closest_enemy.coords))"
	case KindMoveToNearestEnemy:
		return "Action.move(unit.coords.direction_to(closest_enemy.coords))"
	case KindDistanceToNearestEnemy:
		return "closest_enemy.coords.distance_to(unit.coords)"
	case KindDistanceToNearestAlly:
		return "closest_ally.coords.distance_to(unit.coords)"
	case KindDistanceToCenter:
		return "Coords(9,9).distance_to(unit.coords)"
	case KindClosestEnemyHealth:
		return "closest_enemy.health"
	case KindClosestAllyHealth:
		return "closest_ally.health"
	default:
		return "<?>"
	}
}
