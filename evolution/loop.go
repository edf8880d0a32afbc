// Package evolution drives the per-generation loop described in
// spec.md §4.6: reset scores, shuffle, run the tournament, report,
// persist, cull/reproduce, update lineage, and broadcast telemetry.
// Grounded on evolution_server.go's dependency-injected wiring
// (Evaluator/Store/MutationEngine/PopulationManager), with the gRPC
// transport dropped in favor of calling the collaborators in-process.
package evolution

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mousetail/robot-rumble-genetic-bot/expression"
	"github.com/mousetail/robot-rumble-genetic-bot/familytree"
	"github.com/mousetail/robot-rumble-genetic-bot/internal/rlog"
	"github.com/mousetail/robot-rumble-genetic-bot/population"
	"github.com/mousetail/robot-rumble-genetic-bot/telemetry"
	"github.com/mousetail/robot-rumble-genetic-bot/tournament"
)

// ArtifactDir is where each generation's best bot is persisted, per
// spec.md §6's bots_tmp/{i}.py convention.
const ArtifactDir = "bots_tmp"

// Loop owns one run of the evolutionary process: a population manager,
// a tournament scheduler, a family tree, and an optional telemetry hub.
type Loop struct {
	Population *population.Manager
	Tournament *tournament.Scheduler
	Tree       *familytree.FamilyTree
	Hub        *telemetry.Hub
	Rng        *expression.Rand
	Log        *rlog.Logger

	// ArtifactDir overrides the default persisted-bot directory; useful
	// for tests that don't want to touch the working directory.
	ArtifactDir string
}

// New builds a Loop from its collaborators.
func New(pop *population.Manager, sched *tournament.Scheduler, tree *familytree.FamilyTree, hub *telemetry.Hub, rng *expression.Rand) *Loop {
	return &Loop{
		Population:  pop,
		Tournament:  sched,
		Tree:        tree,
		Hub:         hub,
		Rng:         rng,
		Log:         rlog.New(),
		ArtifactDir: ArtifactDir,
	}
}

// RunGenerations runs count generations starting from bots, returning
// the final population. It stops early if ctx is cancelled or a
// tournament assertion fails.
func (l *Loop) RunGenerations(ctx context.Context, bots []*population.Bot, startGeneration, count int) ([]*population.Bot, error) {
	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return bots, err
		}
		next, err := l.RunOne(ctx, bots, startGeneration+i)
		if err != nil {
			return bots, fmt.Errorf("generation %d: %w", startGeneration+i, err)
		}
		bots = next
	}
	return bots, nil
}

// RunOne executes the eight steps of spec.md §4.6 for a single
// generation and returns the next generation's population.
func (l *Loop) RunOne(ctx context.Context, bots []*population.Bot, generationIndex int) ([]*population.Bot, error) {
	// 1. Reset every bot's score to default.
	for _, b := range bots {
		b.ResetScore()
	}

	// 2. Shuffle the population.
	l.Rng.Shuffle(len(bots), func(i, j int) { bots[i], bots[j] = bots[j], bots[i] })

	// 3. Run the tournament from round 0.
	gen := l.Log.ForGeneration(generationIndex)
	l.Tournament.Log = gen
	if err := l.Tournament.Run(ctx, bots); err != nil {
		return bots, err
	}

	// 4. Print best bot's score/species/logic and a generation histogram.
	best := bots[len(bots)-1]
	gen.Printf("best species=%s score=%+v logic=%s", best.SpeciesID, best.Score, best.Logic.String())
	gen.Printf("%s", Histogram(bots))
	l.Population.RecordBest(best.Score)

	// 5. Persist the best bot's serialized logic.
	if err := l.persistBest(generationIndex, best); err != nil {
		gen.Printf("failed to persist best bot: %v", err)
	}

	// 6. Cull + reproduce.
	next, ranked := l.Population.Reproduce(bots, generationIndex, l.Rng)

	// 7. Update FamilyTree.
	l.Tree.Analyze(next, generationIndex)

	// 8. Broadcast telemetry if any subscribers are connected.
	if l.Hub != nil && l.Hub.SubscriberCount() > 0 {
		l.Hub.Broadcast(telemetry.Snapshot{
			BestBot:         best,
			Species:         l.Tree.All(),
			IterationNumber: generationIndex,
			DiversityIndex:  population.DiversityIndex(next),
			BestScoreTrend:  l.Population.BestScoreTrend(),
		})
	}
	_ = ranked

	return next, nil
}

// persistBest writes the best bot of a generation to
// bots_tmp/{i}.py as "# {json}\n# {species}\n{pretty_print}"
// (spec.md §6).
func (l *Loop) persistBest(generationIndex int, best *population.Bot) error {
	dir := l.ArtifactDir
	if dir == "" {
		dir = ArtifactDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	path := filepath.Join(dir, fmt.Sprintf("%d.py", generationIndex))
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	logicJSON, err := json.Marshal(best.Logic)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(f, "# %s\n# %s\n%s\n", logicJSON, best.SpeciesID, best.Logic.String())
	return err
}
