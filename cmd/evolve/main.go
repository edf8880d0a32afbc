// Command evolve runs the genetic-programming engine described in
// spec.md: an evolutionary loop over bot logic, with progress reported
// to the terminal and, optionally, broadcast to telemetry subscribers.
// Grounded on federation_server.go's main() shape (flag-driven config,
// signal-based graceful shutdown, structured startup logging), with
// gRPC serving replaced by starting the telemetry WebSocket listener
// and running the evolution loop in the foreground.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v2"

	"github.com/mousetail/robot-rumble-genetic-bot/expression"
	"github.com/mousetail/robot-rumble-genetic-bot/evolution"
	"github.com/mousetail/robot-rumble-genetic-bot/familytree"
	"github.com/mousetail/robot-rumble-genetic-bot/game"
	"github.com/mousetail/robot-rumble-genetic-bot/population"
	"github.com/mousetail/robot-rumble-genetic-bot/telemetry"
	"github.com/mousetail/robot-rumble-genetic-bot/tournament"
)

func main() {
	app := &cli.App{
		Name:  "evolve",
		Usage: "evolve decision-tree bot logic against a grid-combat simulator",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Value: "127.0.0.1:8080", Usage: "telemetry listen address"},
			&cli.IntFlag{Name: "generations", Value: 100, Usage: "number of generations to run"},
			&cli.Int64Flag{Name: "seed", Value: 1, Usage: "RNG seed"},
			&cli.IntFlag{Name: "connections-per-second", Value: 4, Usage: "telemetry connection admission rate"},
			&cli.BoolFlag{Name: "fixture", Value: true, Usage: "use the in-memory fixture runner instead of an external simulator"},
			&cli.BoolFlag{Name: "progress", Value: true, Usage: "show a terminal progress bar"},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	rng := expression.NewRand(c.Int64("seed"))

	popMgr := population.NewManager(population.DefaultConfig())

	var runner game.Runner
	if c.Bool("fixture") {
		runner = game.NewFixtureRunner()
	} else {
		return fmt.Errorf("only --fixture is wired up; the production simulator is an external process (spec.md §1, §6)")
	}
	sched := tournament.NewScheduler(tournament.DefaultConfig(), runner)

	hub := telemetry.NewHub()
	limiter := telemetry.NewConnectionLimiter(hub, c.Int("connections-per-second"))

	server := &http.Server{Addr: c.String("addr"), Handler: limiter}
	go func() {
		log.Printf("telemetry listening on %s", c.String("addr"))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("telemetry server error: %v", err)
		}
	}()
	go func() {
		<-ctx.Done()
		_ = server.Close()
	}()

	loop := evolution.New(popMgr, sched, familytree.New(), hub, rng)

	bots := popMgr.InitialPopulation(rng)

	generations := c.Int("generations")
	var bar *progressbar.ProgressBar
	if c.Bool("progress") {
		bar = progressbar.Default(int64(generations), "evolving")
	}

	for i := 0; i < generations; i++ {
		if err := ctx.Err(); err != nil {
			log.Println("shutting down: context cancelled")
			break
		}
		next, err := loop.RunOne(ctx, bots, i)
		if err != nil {
			return fmt.Errorf("generation %d: %w", i, err)
		}
		bots = next
		if bar != nil {
			_ = bar.Add(1)
		}
	}

	return nil
}
