package evolution

import (
	"context"
	"os"
	"testing"

	"github.com/mousetail/robot-rumble-genetic-bot/expression"
	"github.com/mousetail/robot-rumble-genetic-bot/familytree"
	"github.com/mousetail/robot-rumble-genetic-bot/game"
	"github.com/mousetail/robot-rumble-genetic-bot/population"
	"github.com/mousetail/robot-rumble-genetic-bot/telemetry"
	"github.com/mousetail/robot-rumble-genetic-bot/tournament"
)

func TestRunOneProducesNextGeneration(t *testing.T) {
	rng := expression.NewRand(11)

	popCfg := population.DefaultConfig()
	popCfg.NumRobots = 18
	popCfg.SurvivingRobots = 6
	popCfg.NumSpecies = 3
	popCfg.MinBotsPerSpecies = 1
	popMgr := population.NewManager(popCfg)

	tourneyCfg := tournament.DefaultConfig()
	tourneyCfg.PlayoffRounds = 2
	tourneyCfg.TurnLimit = 5
	sched := tournament.NewScheduler(tourneyCfg, game.NewFixtureRunner())

	loop := New(popMgr, sched, familytree.New(), telemetry.NewHub(), rng)
	loop.ArtifactDir = t.TempDir()

	bots := popMgr.InitialPopulation(rng)

	next, err := loop.RunOne(context.Background(), bots, 0)
	if err != nil {
		t.Fatalf("RunOne failed: %v", err)
	}
	if len(next) != popCfg.NumRobots {
		t.Fatalf("expected %d bots in next generation, got %d", popCfg.NumRobots, len(next))
	}

	if len(loop.Tree.All()) == 0 {
		t.Fatalf("expected FamilyTree to record at least one species")
	}

	entries, err := os.ReadDir(loop.ArtifactDir)
	if err != nil {
		t.Fatalf("failed to read artifact dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected exactly one persisted artifact, got %d", len(entries))
	}
}
