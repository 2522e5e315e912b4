package main

import (
	"os"
	"time"

	"github.com/VoltRadar/poker-simulation/internal/ai"
	"github.com/VoltRadar/poker-simulation/internal/game"
	"github.com/VoltRadar/poker-simulation/internal/randutil"
	"github.com/VoltRadar/poker-simulation/internal/server"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

// ServeCmd hosts a table. Flags override values from the config file.
type ServeCmd struct {
	Config          string        `short:"c" type:"path" help:"HCL configuration file"`
	Address         string        `help:"Listen address"`
	Port            int           `short:"p" help:"Listen port"`
	MinBet          *int          `help:"Starting minimum bet"`
	AISeats         *int          `name:"ai-seats" help:"AI seats kept at the table"`
	BotsOnly        bool          `help:"Deal even when no human is seated"`
	SidePots        bool          `help:"Split uneven all-ins into side pots"`
	DecisionTimeout time.Duration `help:"Time a remote player has to act"`
	Samples         int           `default:"100" help:"Minimum simulations per AI decision"`
	Think           time.Duration `default:"1s" help:"Minimum time an AI spends simulating"`
	Workers         int           `default:"1" help:"Simulation goroutines per AI decision"`
	Seed            int64         `help:"Deterministic RNG seed (0 picks one)"`
}

func (c *ServeCmd) apply(cfg *server.Config) {
	if c.Address != "" {
		cfg.Server.Address = c.Address
	}
	if c.Port != 0 {
		cfg.Server.Port = c.Port
	}
	if c.MinBet != nil {
		cfg.Table.MinBet = *c.MinBet
	}
	if c.AISeats != nil {
		cfg.Table.AISeats = c.AISeats
	}
	if c.BotsOnly {
		requireHuman := false
		cfg.Table.RequireHuman = &requireHuman
	}
	if c.SidePots {
		cfg.Table.SidePots = true
	}
	if c.DecisionTimeout != 0 {
		cfg.Table.DecisionTimeout = c.DecisionTimeout.String()
	}
}

func (c *ServeCmd) Run(cli *CLI) error {
	cfg, err := server.LoadConfig(c.Config)
	if err != nil {
		return err
	}
	c.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	level := levelFor(cli.Debug)
	if !cli.Debug {
		if lvl, err := log.ParseLevel(cfg.Server.LogLevel); err == nil {
			level = lvl
		}
	}
	logger := setupLogger(os.Stderr, level, cli.NoColor)

	seed := randutil.Seed(c.Seed)
	logger.Info("Using seed", "seed", seed)

	sim := ai.NewSimulator()
	sim.MinSamples = c.Samples
	sim.MinDuration = c.Think
	sim.Workers = c.Workers

	table := game.NewTable(cfg.TableConfig(),
		game.WithLogger(logger),
		game.WithRand(randutil.Derive(seed, 0)),
		game.WithSeatFiller(ai.NewFactory(sim, seed, logger)),
	)
	listener := server.NewListener(table, logger, server.WithDecisionTimeout(cfg.DecisionTimeout()))

	if ip, err := server.LocalIPv4(); err == nil {
		if code, err := server.EncodeJoinCode(ip); err == nil {
			logger.Info("Players can join with", "code", code, "port", cfg.Server.Port)
		}
	}

	ctx, stop := signalContext()
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return listener.Serve(ctx, cfg.Address()) })
	g.Go(func() error { return table.Run(ctx) })
	return g.Wait()
}
