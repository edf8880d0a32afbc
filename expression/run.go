package expression

import (
	"context"
	"fmt"
	"log"

	"github.com/mousetail/robot-rumble-genetic-bot/game"
)

// Run implements game.RobotRunner: it evaluates the tree once per
// allied unit against the current turn, producing an action for each.
// A TypeError during one unit's evaluation is recorded as a failure for
// that unit only; an expression that evaluates to anything other than
// a Move is a bug, logged rather than fatal to the process (spec §4.2).
func (e *Expression) Run(ctx context.Context, input game.ProgramInput) (game.ProgramOutput, error) {
	out := game.ProgramOutput{RobotActions: map[game.ID]game.ActionResult{}}

	for _, id := range input.State.Teams[input.Team] {
		obj, ok := input.State.Objs[id]
		if !ok {
			continue
		}
		unit, ok := obj.Details.(game.Unit)
		if !ok {
			continue
		}

		value, err := e.Eval(&input, id, &unit)
		if err != nil {
			out.RobotActions[id] = game.ActionResult{Err: err}
			continue
		}
		if value.Type != TypeMove {
			err := fmt.Errorf("expression: expected Move result, got %v", value.Type)
			log.Printf("unit %d: %v", id, err)
			out.RobotActions[id] = game.ActionResult{Err: err}
			continue
		}

		actionType := game.ActionMove
		if value.Move.Kind == MoveAttack {
			actionType = game.ActionAttack
		}
		out.RobotActions[id] = game.ActionResult{Action: &game.Action{Type: actionType, Direction: value.Move.Direction}}
	}

	return out, nil
}
