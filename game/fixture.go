package game

import "context"

// FixtureRunner is a small, deterministic in-memory stand-in for the
// real grid-combat simulator. It exists only so this module's own tests
// (and `cmd/evolve --fixture`) can run a match without depending on the
// external simulator, which is out of scope for the core engine. It is
// never used as the production GameRunner.
type FixtureRunner struct {
	// UnitsPerTeam is how many units each side starts with.
	UnitsPerTeam int
	StartHealth  int
}

// NewFixtureRunner returns a runner with a small reasonable default
// roster.
func NewFixtureRunner() *FixtureRunner {
	return &FixtureRunner{UnitsPerTeam: 3, StartHealth: 10}
}

func (f *FixtureRunner) initialState() State {
	if f.UnitsPerTeam <= 0 {
		f.UnitsPerTeam = 3
	}
	if f.StartHealth <= 0 {
		f.StartHealth = 10
	}

	objs := map[ID]Obj{}
	grid := map[Coords]ID{}
	teams := map[Team][]ID{Red: {}, Blue: {}}

	nextID := ID(0)
	place := func(team Team, coords Coords) {
		id := nextID
		nextID++
		objs[id] = Obj{Coords: coords, Details: Unit{Team: team, Health: f.StartHealth}}
		grid[coords] = id
		teams[team] = append(teams[team], id)
	}

	for i := 0; i < f.UnitsPerTeam; i++ {
		place(Red, Coords{X: 1, Y: 1 + i})
		place(Blue, Coords{X: 17, Y: 1 + i})
	}

	return State{Grid: grid, Objs: objs, Teams: teams}
}

// Run plays a match to completion or until turnLimit elapses.
func (f *FixtureRunner) Run(ctx context.Context, red, blue RobotRunner, turnLimit int) (GameResult, error) {
	state := f.initialState()
	var turns []TurnState

	for turn := 0; turn < turnLimit; turn++ {
		select {
		case <-ctx.Done():
			return GameResult{}, ctx.Err()
		default:
		}

		redOut, err := red.Run(ctx, ProgramInput{State: cloneState(state), Team: Red})
		if err != nil {
			return GameResult{}, err
		}
		blueOut, err := blue.Run(ctx, ProgramInput{State: cloneState(state), Team: Blue})
		if err != nil {
			return GameResult{}, err
		}

		state = applyActions(state, redOut, blueOut)
		turns = append(turns, TurnState{State: cloneState(state)})

		if len(state.Teams[Red]) == 0 || len(state.Teams[Blue]) == 0 {
			break
		}
	}

	return GameResult{Winner: decideWinner(state), Turns: turns}, nil
}

// decideWinner declares the team with strictly more surviving units, or
// no winner if both sides have equal counts (including a double
// wipeout). A match that reaches turnLimit without either side being
// fully eliminated must still honor spec.md §4.3's sanity contract
// ("None winner implies equal unit counts"): a timeout with unequal
// survivors declares the team ahead, not a draw.
func decideWinner(state State) *Team {
	redCount, blueCount := len(state.Teams[Red]), len(state.Teams[Blue])
	switch {
	case redCount > blueCount:
		w := Red
		return &w
	case blueCount > redCount:
		w := Blue
		return &w
	default:
		return nil
	}
}

func cloneState(s State) State {
	grid := make(map[Coords]ID, len(s.Grid))
	for k, v := range s.Grid {
		grid[k] = v
	}
	objs := make(map[ID]Obj, len(s.Objs))
	for k, v := range s.Objs {
		objs[k] = v
	}
	teams := make(map[Team][]ID, len(s.Teams))
	for k, v := range s.Teams {
		cp := make([]ID, len(v))
		copy(cp, v)
		teams[k] = cp
	}
	return State{Grid: grid, Objs: objs, Teams: teams}
}

func offsetFor(d Direction) Coords {
	switch d {
	case North:
		return Coords{X: 0, Y: -1}
	case South:
		return Coords{X: 0, Y: 1}
	case East:
		return Coords{X: 1, Y: 0}
	case West:
		return Coords{X: -1, Y: 0}
	default:
		return Coords{}
	}
}

func applyActions(state State, outs ...ProgramOutput) State {
	next := cloneState(state)

	for _, out := range outs {
		for id, res := range out.RobotActions {
			if res.Err != nil || res.Action == nil {
				continue
			}
			obj, ok := next.Objs[id]
			if !ok {
				continue
			}
			unit, ok := obj.Details.(Unit)
			if !ok {
				continue
			}
			off := offsetFor(res.Action.Direction)
			target := Coords{X: obj.Coords.X + off.X, Y: obj.Coords.Y + off.Y}

			switch res.Action.Type {
			case ActionAttack:
				targetID, occupied := next.Grid[target]
				if !occupied {
					continue
				}
				targetObj, ok := next.Objs[targetID]
				if !ok {
					continue
				}
				targetUnit, ok := targetObj.Details.(Unit)
				if !ok || targetUnit.Team == unit.Team {
					continue
				}
				targetUnit.Health -= 3
				if targetUnit.Health <= 0 {
					removeUnit(&next, targetID, targetObj.Coords, targetUnit.Team)
				} else {
					targetObj.Details = targetUnit
					next.Objs[targetID] = targetObj
				}
			case ActionMove:
				if _, occupied := next.Grid[target]; occupied {
					continue
				}
				delete(next.Grid, obj.Coords)
				obj.Coords = target
				next.Objs[id] = obj
				next.Grid[target] = id
			}
		}
	}

	return next
}

func removeUnit(state *State, id ID, coords Coords, team Team) {
	delete(state.Objs, id)
	delete(state.Grid, coords)
	roster := state.Teams[team]
	for i, other := range roster {
		if other == id {
			roster = append(roster[:i], roster[i+1:]...)
			break
		}
	}
	state.Teams[team] = roster
}
