// Package expression implements the typed decision-tree AST that drives
// a bot: evaluation against a turn's game state, mutation, crossover,
// simplification, and similarity scoring.
package expression

import (
	"fmt"

	"github.com/mousetail/robot-rumble-genetic-bot/game"
)

// Kind discriminates an Expression node. The set is closed; every
// operation (Eval/Mutate/Simplify/String) switches on it exhaustively.
type Kind int

const (
	KindIf Kind = iota
	KindConstantNumber
	KindConstantBoolean
	KindConstantMove
	KindAlliedSurroundingTiles
	KindEnemySurroundingTiles
	KindAttackNearestEnemy
	KindMoveToNearestEnemy
	KindDistanceToNearestEnemy
	KindDistanceToNearestAlly
	KindDistanceToCenter
	KindClosestEnemyHealth
	KindClosestAllyHealth
	KindHealth
	KindX
	KindY
	KindGreaterThan
	KindEquals
)

// MoveKind distinguishes an attack from a plain move.
type MoveKind int

const (
	MoveAttack MoveKind = iota
	MoveMove
)

// Move is a constant move value: an attack or move in a direction.
type Move struct {
	Kind      MoveKind
	Direction game.Direction
}

func (m Move) String() string {
	verb := "move"
	if m.Kind == MoveAttack {
		verb = "attack"
	}
	return fmt.Sprintf("Action.%s(%s)", verb, m.Direction)
}

// ValueType is the static (or runtime) type of a Value.
type ValueType int

const (
	TypeNumber ValueType = iota
	TypeBoolean
	TypeMove
)

// Value is the runtime result of evaluating an expression.
type Value struct {
	Type   ValueType
	Number int
	Bool   bool
	Move   Move
}

func NumberValue(n int) Value  { return Value{Type: TypeNumber, Number: n} }
func BoolValue(b bool) Value   { return Value{Type: TypeBoolean, Bool: b} }
func MoveValue(m Move) Value   { return Value{Type: TypeMove, Move: m} }

// Expression is a single AST node. Leaves leave children nil; internal
// nodes (If/GreaterThan/Equals) use Condition/Then/Otherwise or
// Left/Right as appropriate. Trees are strict — no sharing between
// nodes, each owned exclusively by its parent.
type Expression struct {
	Kind Kind

	// usage is incremented every time this node is evaluated and reset
	// by ClearUsage once per generation (spec: usage counters as
	// mutable state during evaluation).
	usage int

	Number int  // KindConstantNumber
	Bool   bool // KindConstantBoolean
	Move   Move // KindConstantMove

	Condition *Expression // KindIf
	Then      *Expression // KindIf
	Otherwise *Expression // KindIf

	Left  *Expression // KindGreaterThan, KindEquals
	Right *Expression // KindGreaterThan, KindEquals
}

// Usage returns the node's current usage counter.
func (e *Expression) Usage() int { return e.usage }

// ClearUsage recursively zeroes every node's usage counter. Invoked once
// per generation after reproduction.
func (e *Expression) ClearUsage() {
	if e == nil {
		return
	}
	e.usage = 0
	e.Condition.ClearUsage()
	e.Then.ClearUsage()
	e.Otherwise.ClearUsage()
	e.Left.ClearUsage()
	e.Right.ClearUsage()
}

// Clone produces a deep, independent copy of the tree.
func (e *Expression) Clone() *Expression {
	if e == nil {
		return nil
	}
	c := *e
	c.Condition = e.Condition.Clone()
	c.Then = e.Then.Clone()
	c.Otherwise = e.Otherwise.Clone()
	c.Left = e.Left.Clone()
	c.Right = e.Right.Clone()
	return &c
}

// Equal reports structural (AST) equality, ignoring usage counters.
func (e *Expression) Equal(o *Expression) bool {
	if e == nil || o == nil {
		return e == o
	}
	if e.Kind != o.Kind {
		return false
	}
	switch e.Kind {
	case KindConstantNumber:
		return e.Number == o.Number
	case KindConstantBoolean:
		return e.Bool == o.Bool
	case KindConstantMove:
		return e.Move == o.Move
	case KindIf:
		return e.Condition.Equal(o.Condition) && e.Then.Equal(o.Then) && e.Otherwise.Equal(o.Otherwise)
	case KindGreaterThan, KindEquals:
		return e.Left.Equal(o.Left) && e.Right.Equal(o.Right)
	default:
		return true
	}
}

// GetType is the static value type of the node, computable without
// evaluation. If inherits the type of Then; implementers must uphold
// Then.GetType() == Otherwise.GetType() as new trees are built.
func (e *Expression) GetType() ValueType {
	switch e.Kind {
	case KindIf:
		return e.Then.GetType()
	case KindConstantBoolean, KindGreaterThan, KindEquals:
		return TypeBoolean
	case KindConstantMove, KindAttackNearestEnemy, KindMoveToNearestEnemy:
		return TypeMove
	default:
		return TypeNumber
	}
}

// valueRange is a half-open integer range [Lo, Hi), used for
// simplification and for biasing generation of comparands.
type valueRange struct {
	Lo, Hi int
}

// GetRange returns the node's known static range, if any.
func (e *Expression) GetRange() (valueRange, bool) {
	switch e.Kind {
	case KindHealth:
		return valueRange{1, 11}, true
	case KindX, KindY:
		return valueRange{0, 20}, true
	case KindConstantNumber:
		return valueRange{e.Number, e.Number + 1}, true
	case KindDistanceToCenter, KindDistanceToNearestAlly, KindDistanceToNearestEnemy:
		return valueRange{0, 10}, true
	case KindAlliedSurroundingTiles, KindEnemySurroundingTiles:
		return valueRange{0, 5}, true
	default:
		return valueRange{}, false
	}
}
