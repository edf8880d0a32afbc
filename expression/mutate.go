package expression

import "github.com/mousetail/robot-rumble-genetic-bot/game"

// Mutate applies one random, type-preserving rewrite to the tree.
//
// With probability 0.2, and only if ignoreSanityChecks is set or this
// node has actually been evaluated at least once (usage > 0), the node
// is wrapped: n becomes If{cond: fresh boolean, then: n, otherwise: a
// fresh node of n's type}. Otherwise the mutation dispatches on the
// node's own kind.
func (e *Expression) Mutate(rng *Rand, ignoreSanityChecks bool) {
	if rng.Bool(0.2) && (ignoreSanityChecks || e.usage > 0) {
		t := e.GetType()
		self := e.Clone()
		fresh := freshOfType(rng, t, e)
		cond := freshBoolean(rng)
		*e = Expression{Kind: KindIf, Condition: cond, Then: self, Otherwise: fresh}
		return
	}

	switch e.Kind {
	case KindConstantNumber:
		e.Number += rng.Jitter()

	case KindIf:
		oneUnused := (e.Then.usage == 0) != (e.Otherwise.usage == 0)
		if !ignoreSanityChecks && oneUnused {
			if rng.Bool(0.1) {
				if e.Then.usage > 0 {
					*e = *e.Then.Clone()
				} else {
					*e = *e.Otherwise.Clone()
				}
			} else {
				e.Condition.Mutate(rng, ignoreSanityChecks)
			}
			return
		}
		if e.Then.usage > 0 && rng.Bool(0.5) {
			e.Then.Mutate(rng, ignoreSanityChecks)
		} else {
			e.Otherwise.Mutate(rng, ignoreSanityChecks)
		}

	case KindConstantBoolean:
		e.Bool = !e.Bool

	case KindConstantMove:
		*e = *freshMove(rng)

	case KindHealth:
		choices := [2]Kind{KindClosestEnemyHealth, KindClosestAllyHealth}
		e.Kind = choices[rng.Intn(2)]

	case KindX:
		e.Kind = KindY
	case KindY:
		e.Kind = KindX

	case KindAlliedSurroundingTiles:
		e.Kind = KindEnemySurroundingTiles
	case KindEnemySurroundingTiles:
		e.Kind = KindAlliedSurroundingTiles

	case KindAttackNearestEnemy:
		if rng.Bool(0.05) {
			e.Kind = KindMoveToNearestEnemy
		}
	case KindMoveToNearestEnemy:
		if rng.Bool(0.05) {
			e.Kind = KindAttackNearestEnemy
		}

	case KindDistanceToNearestEnemy:
		// no-op: no sibling variant to swap with.

	case KindDistanceToNearestAlly:
		if rng.Bool(0.05) {
			e.Kind = KindDistanceToCenter
		}
	case KindDistanceToCenter:
		if rng.Bool(0.05) {
			e.Kind = KindDistanceToNearestAlly
		}

	case KindClosestEnemyHealth:
		choices := [2]Kind{KindHealth, KindClosestAllyHealth}
		e.Kind = choices[rng.Intn(2)]
	case KindClosestAllyHealth:
		choices := [2]Kind{KindHealth, KindClosestEnemyHealth}
		e.Kind = choices[rng.Intn(2)]

	case KindGreaterThan, KindEquals:
		if rng.Bool(0.5) {
			e.Left.Mutate(rng, ignoreSanityChecks)
		} else {
			e.Right.Mutate(rng, ignoreSanityChecks)
		}
	}
}

// freshBoolean builds a comparison between two random number leaves: the
// right side is generated biased by the left side's known range (if
// any), so a meaningful comparison is likely. The relation is Equals
// with probability 0.1, GreaterThan otherwise.
func freshBoolean(rng *Rand) *Expression {
	left := freshNumber(rng, nil)
	var hint *valueRange
	if r, ok := left.GetRange(); ok {
		hint = &r
	}
	right := freshNumber(rng, hint)

	kind := KindGreaterThan
	if rng.Bool(0.1) {
		kind = KindEquals
	}
	return &Expression{Kind: kind, Left: left, Right: right}
}

// freshNumber generates a random single-node Number-typed expression. If
// hint is non-nil, a generated ConstantNumber is drawn from that range
// rather than the fixed candidate pool.
func freshNumber(rng *Rand, hint *valueRange) *Expression {
	if rng.Bool(0.5) {
		choices := [3]Kind{KindDistanceToCenter, KindDistanceToNearestAlly, KindDistanceToNearestEnemy}
		return &Expression{Kind: choices[rng.Intn(len(choices))]}
	}

	leaves := [5]Kind{KindHealth, KindX, KindY, KindClosestEnemyHealth, KindClosestAllyHealth}
	idx := rng.Intn(len(leaves) + 1)
	if idx < len(leaves) {
		return &Expression{Kind: leaves[idx]}
	}

	var value int
	if hint != nil {
		value = rng.RangeInt(hint.Lo, hint.Hi)
	} else {
		pool := [7]int{0, 1, -1, 5, -5, 10, 17}
		value = pool[rng.Intn(len(pool))]
	}
	return &Expression{Kind: KindConstantNumber, Number: value}
}

// freshMove generates a random single-node Move-typed expression.
func freshMove(rng *Rand) *Expression {
	if rng.Bool(0.5) {
		choices := [2]Kind{KindAttackNearestEnemy, KindMoveToNearestEnemy}
		return &Expression{Kind: choices[rng.Intn(2)]}
	}

	dir := game.AllDirections[rng.Intn(4)]
	kind := MoveAttack
	if rng.Bool(0.75) {
		kind = MoveMove
	}
	return &Expression{Kind: KindConstantMove, Move: Move{Kind: kind, Direction: dir}}
}

// freshOfType generates a random single-node expression of the given
// type; for Number, ref's declared range (if any) biases generation.
func freshOfType(rng *Rand, t ValueType, ref *Expression) *Expression {
	switch t {
	case TypeBoolean:
		return freshBoolean(rng)
	case TypeMove:
		return freshMove(rng)
	default:
		var hint *valueRange
		if r, ok := ref.GetRange(); ok {
			hint = &r
		}
		return freshNumber(rng, hint)
	}
}

// GenerateSeed builds the seed bot logic used by initial population
// generation: ConstantMove(Attack(South)) mutated ten times with
// ignoreSanityChecks=true, then simplified.
func GenerateSeed(rng *Rand) *Expression {
	e := &Expression{Kind: KindConstantMove, Move: Move{Kind: MoveAttack, Direction: game.South}}
	for i := 0; i < 10; i++ {
		e.Mutate(rng, true)
	}
	return e.Simplify()
}
