package game

import (
	"context"
	"testing"
)

// idleRunner never acts, so a match against it runs out the clock with
// both rosters untouched.
type idleRunner struct{}

func (idleRunner) Run(ctx context.Context, input ProgramInput) (ProgramOutput, error) {
	return ProgramOutput{RobotActions: map[ID]ActionResult{}}, nil
}

// TestFixtureRunnerDrawOnEqualSurvivors covers spec.md §4.3's sanity
// contract at the source: a turn-limit timeout with untouched, equal
// rosters must report no winner.
func TestFixtureRunnerDrawOnEqualSurvivors(t *testing.T) {
	f := NewFixtureRunner()
	result, err := f.Run(context.Background(), idleRunner{}, idleRunner{}, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Winner != nil {
		t.Fatalf("expected no winner when both rosters survive equally, got %v", *result.Winner)
	}
}

// TestDecideWinnerByUnitCount covers the fix directly: decideWinner
// must never report no winner when unit counts differ, and must never
// declare a winner when they're equal (including a double wipeout),
// regardless of how the match reached that state.
func TestDecideWinnerByUnitCount(t *testing.T) {
	tests := []struct {
		name           string
		redIDs, blueID []ID
		want           *Team
	}{
		{"equal nonzero is a draw", []ID{1, 2}, []ID{3, 4}, nil},
		{"double wipeout is a draw", nil, nil, nil},
		{"red ahead wins", []ID{1, 2, 3}, []ID{4}, teamPtr(Red)},
		{"blue ahead wins", []ID{1}, []ID{2, 3, 4}, teamPtr(Blue)},
		{"red wipeout, blue survives", nil, []ID{1}, teamPtr(Blue)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := State{Teams: map[Team][]ID{Red: tt.redIDs, Blue: tt.blueID}}
			got := decideWinner(state)
			if (got == nil) != (tt.want == nil) || (got != nil && *got != *tt.want) {
				t.Fatalf("decideWinner() = %v, want %v", got, tt.want)
			}
		})
	}
}

func teamPtr(t Team) *Team { return &t }
