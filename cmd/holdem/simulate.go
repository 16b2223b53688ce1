package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/sanity-io/litter"
	"golang.org/x/sync/errgroup"

	"github.com/lox/holdem-engine/internal/bot"
	"github.com/lox/holdem-engine/internal/config"
	"github.com/lox/holdem-engine/internal/display"
	"github.com/lox/holdem-engine/internal/game"
	"github.com/lox/holdem-engine/internal/phh"
	"github.com/lox/holdem-engine/internal/randutil"
	"github.com/lox/holdem-engine/internal/registry"
	"github.com/lox/holdem-engine/internal/statistics"
)

// SimulateCmd plays bots against each other at every configured table
type SimulateCmd struct {
	Config  string `short:"c" default:"holdem.hcl" type:"path" help:"HCL config file (defaults apply when missing)"`
	Hands   int    `short:"n" default:"100" help:"Hands to play at each table"`
	Seed    *int64 `help:"Deterministic RNG seed, overrides the config"`
	Quiet   bool   `short:"q" help:"Only print the final summary"`
	Dump    bool   `help:"Dump the final snapshot of every table"`
	History string `type:"path" help:"Write PHH hand histories to this file"`
}

func (c *SimulateCmd) Run(globals *Globals) error {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if c.Seed != nil {
		cfg.Seed = *c.Seed
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Hands < 1 {
		return fmt.Errorf("hands must be positive, got %d", c.Hands)
	}

	logger := newLogger(cfg.Level(), globals.Debug)
	if cfg.Seed != 0 {
		logger.Info("Using deterministic seed", "seed", cfg.Seed)
	}

	reg := registry.New(
		registry.WithLogger(logger),
		registry.WithDefaults(cfg.DefaultSettings()),
		registry.WithSeed(cfg.Seed),
	)
	defer func() {
		if err := reg.Close(); err != nil {
			logger.Error("Failed to close registry", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sim := &simulation{
		registry: reg,
		renderer: display.NewRenderer(display.DefaultStyles()),
		stats:    statistics.NewCollector(),
		logger:   logger,
		out:      os.Stdout,
		quiet:    c.Quiet,
		dump:     c.Dump,
	}
	if c.History != "" {
		sim.history = &phh.Log{}
	}

	g, gctx := errgroup.WithContext(ctx)
	for t, table := range cfg.Tables {
		settings, err := cfg.TableSettings(table)
		if err != nil {
			return fmt.Errorf("table %s: %w", table.Name, err)
		}
		tableID, err := reg.CreateTable(table.Name, registry.WithSettings(settings))
		if err != nil {
			return err
		}

		seats := cfg.BotsForTable(table.Name)
		if len(cfg.Bots) == 0 {
			seats = defaultBots(table.Name)
		}
		bots, err := sim.seat(ctx, tableID, seats, func(b int) *rand.Rand { return botRand(cfg.Seed, t, b) })
		if err != nil {
			return fmt.Errorf("table %s: %w", table.Name, err)
		}

		g.Go(func() error {
			return sim.play(gctx, tableID, bots, c.Hands)
		})
	}

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		logger.Warn("Simulation interrupted")
		err = nil
	}
	sim.summary(reg.ListTables())

	if sim.history != nil {
		if werr := sim.history.WriteFile(c.History); werr != nil {
			return errors.Join(err, werr)
		}
		logger.Info("Wrote hand histories", "path", c.History, "hands", sim.history.Len())
	}
	return err
}

// defaultBots seats one bot of each strategy
func defaultBots(table string) []config.BotConfig {
	bots := make([]config.BotConfig, len(config.Strategies))
	for i, strategy := range config.Strategies {
		bots[i] = config.BotConfig{Name: fmt.Sprintf("%s-%d", strategy, i+1), Strategy: strategy, Table: table}
	}
	return bots
}

// botRand gives every bot its own stream, kept apart from the deck streams
// the registry derives from the same seed
func botRand(seed int64, table, seat int) *rand.Rand {
	if seed == 0 {
		return randutil.NewOrRandom(0)
	}
	return randutil.Derive(^seed, table*game.MaxSeats+seat)
}

type simulation struct {
	registry *registry.Registry
	renderer *display.Renderer
	stats    *statistics.Collector
	logger   *log.Logger

	mu      sync.Mutex // Guards out
	out     io.Writer
	quiet   bool
	dump    bool
	history *phh.Log
}

// seat joins the configured bots and returns them keyed by player id
func (s *simulation) seat(ctx context.Context, tableID string, seats []config.BotConfig, rng func(int) *rand.Rand) (map[string]bot.Bot, error) {
	bots := make(map[string]bot.Bot, len(seats))
	for i, cfg := range seats {
		b, err := bot.New(cfg.Strategy, rng(i), s.logger.With("bot", cfg.Name))
		if err != nil {
			return nil, err
		}
		player, _, err := s.registry.JoinTable(ctx, tableID, cfg.Name, "")
		if err != nil {
			return nil, fmt.Errorf("failed to seat %s: %w", cfg.Name, err)
		}
		bots[player.ID] = b
	}
	return bots, nil
}

// play deals hands until the limit is reached or only one player has chips
func (s *simulation) play(ctx context.Context, tableID string, bots map[string]bot.Bot, hands int) error {
	var last game.Snapshot
	for hand := 0; hand < hands; hand++ {
		before, err := s.registry.Snapshot(ctx, tableID)
		if err != nil {
			return err
		}
		snap, err := s.registry.StartGame(ctx, tableID)
		if errors.Is(err, game.ErrNotEnoughPlayers) {
			s.logger.Info("Table finished", "table", before.Name, "hands", hand)
			break
		}
		if err != nil {
			return err
		}

		var record *phh.Builder
		if s.history != nil {
			record = phh.NewBuilder(fmt.Sprintf("%s-%d", tableID, snap.HandNumber), before, snap, time.Now())
		}

		for snap.HandInProgress {
			playerID := snap.CurrentTurn
			b, ok := bots[playerID]
			if !ok {
				return fmt.Errorf("no bot seated as %s", playerID)
			}
			action := b.Decide(snap.Redacted(playerID), playerID)
			prior := snap
			snap, err = s.registry.SubmitAction(ctx, tableID, action)
			if err == nil {
				if record != nil {
					record.Action(prior, action, snap)
				}
				continue
			}

			s.logger.Warn("Bot action rejected", "player", playerID, "action", action, "error", err)
			if snap, err = s.registry.Snapshot(ctx, tableID); err != nil {
				return err
			}
			if snap.HandInProgress && snap.CurrentTurn == playerID {
				prior, fold := snap, game.Action{PlayerID: playerID, Type: game.Fold}
				if snap, err = s.registry.SubmitAction(ctx, tableID, fold); err != nil {
					return err
				}
				if record != nil {
					record.Action(prior, fold, snap)
				}
			}
		}

		s.stats.RecordHand(before, snap)
		if record != nil {
			s.history.Add(record.Finish(snap))
		}
		s.report(snap)
		last = snap
	}

	if s.dump && last.HandNumber > 0 {
		s.mu.Lock()
		fmt.Fprintln(s.out, litter.Sdump(last))
		s.mu.Unlock()
	}
	return nil
}

func (s *simulation) report(snap game.Snapshot) {
	if s.quiet {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprint(s.out, s.renderer.Table(snap))
	fmt.Fprintln(s.out, s.renderer.Results(snap))
}

func (s *simulation) summary(tables []registry.TableSummary) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fmt.Fprintln(s.out, s.renderer.Heading("Tables"))
	for _, t := range tables {
		fmt.Fprintf(s.out, "  %-20s %3d hands  %d/%d  %d players\n", t.Name, t.HandNumber, t.SmallBlind, t.BigBlind, t.PlayerCount)
	}

	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, s.renderer.Heading("Players"))
	for _, p := range s.stats.Players() {
		low, high := p.ConfidenceInterval95()
		fmt.Fprintf(s.out, "  %-20s %5d hands  %+8.2f bb/hand  [%+.2f, %+.2f]  showdown %d  uncontested %d\n",
			p.Name, p.Hands, p.Mean(), low, high, p.ShowdownWins, p.NonShowdownWins)
	}
}
