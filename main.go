package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"

	"github.com/nstehr/rampart/agent"
	"github.com/nstehr/rampart/config"
	"github.com/nstehr/rampart/ipc"
	"github.com/nstehr/rampart/logging"
	"github.com/nstehr/rampart/metrics"
	"github.com/nstehr/rampart/render"
	"github.com/nstehr/rampart/rules"
	"github.com/nstehr/rampart/storage"
	"github.com/spf13/pflag"
)

const banner = `
 ___  __ _ _ __ ___  _ __   __ _ _ __| |_
| '__/ _' | '_ ' _ \| '_ \ / _' | '__| __|
| | | (_| | | | | | | |_) | (_| | |  | |_
|_|  \__,_|_| |_| |_| .__/ \__,_|_|   \__|
                    |_|
Rule-Driven Tower Defense`

func main() {
	if err := run(); err != nil {
		slog.Error("rampart stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	config.LoadDotEnv()

	fs := pflag.NewFlagSet("rampart", pflag.ExitOnError)
	if err := config.BindFlags(fs); err != nil {
		return err
	}
	if err := fs.Parse(os.Args[1:]); err != nil {
		return err
	}
	dir, _ := fs.GetString("config-dir")
	if err := config.Load(dir); err != nil {
		return err
	}
	settings := config.Current()

	// stdout belongs to the match server.
	fmt.Fprintln(os.Stderr, banner)

	logs := logging.NewManager()
	if _, err := logs.SetupFile(os.Stderr, settings.LogFile, settings.LogLevel); err != nil {
		slog.Warn("log file unavailable, console only", "path", settings.LogFile, "error", err)
	}
	defer logs.Close()

	if f := config.FileUsed(); f != "" {
		slog.Info("config loaded", "file", f)
	}

	strategy, err := config.Strategy()
	if err != nil {
		return fmt.Errorf("load strategy: %w", err)
	}

	seed := settings.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	slog.Info("starting rampart", "strategy", strategy.Name, "seed", seed)

	planner, err := rules.NewPlanner(strategy, nil, rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
	if err != nil {
		return fmt.Errorf("build planner: %w", err)
	}

	recorder, err := metrics.New(planner.Memory())
	if err != nil {
		return fmt.Errorf("create metrics: %w", err)
	}

	var journal agent.Journal
	if settings.Journal != "" {
		j, err := storage.Open(settings.Journal, seed, strategy.Name)
		if err != nil {
			return err
		}
		defer j.Close()
		slog.Info("journaling match", "path", settings.Journal, "match", j.MatchID())
		journal = j
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a := agent.New(planner, journal, recorder)

	strategist := agent.NewStrategist(planner)
	if config.Watch(strategist.Propose) {
		go strategist.Start(ctx)
	}

	session := agent.NewSession(a)
	if settings.Render != "" {
		board, err := render.Open(settings.Render)
		if err != nil {
			return err
		}
		defer board.Close()
		session.Renderer = board
	}

	conn := ipc.NewConnection(os.Stdin, os.Stdout, nil)
	conn.TurnTimeout = settings.TurnTimeout
	session.Register(conn)

	done := make(chan error, 1)
	go func() { done <- conn.ReadLoop(ctx) }()
	select {
	case err = <-done:
	case <-ctx.Done():
		// stdin reads do not observe ctx; leave the loop blocked and exit.
		err = ctx.Err()
	}

	sum := recorder.Summary()
	slog.Info("match summary",
		"turns", sum.Turns,
		"units", sum.Units,
		"attacks", sum.Attacks,
		"breachesConceded", sum.Conceded,
		"breachesScored", sum.Scored,
		"strategySwaps", strategist.Swaps(),
	)

	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("read loop: %w", err)
	}
	slog.Info("shutting down")
	return nil
}
