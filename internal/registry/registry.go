// Package registry hosts many tables at once. Every table runs on its own
// goroutine and receives work through a channel, so commands for one table
// are applied strictly in order while separate tables progress in parallel.
package registry

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/lox/holdem-engine/internal/deck"
	"github.com/lox/holdem-engine/internal/game"
	"github.com/lox/holdem-engine/internal/randutil"
)

var (
	// ErrTableNotFound is returned for unknown or deleted tables
	ErrTableNotFound = game.ErrTableNotFound
	// ErrClosed is returned once the registry has been closed
	ErrClosed = errors.New("registry closed")
)

// TableSummary is the lobby view of a table
type TableSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	PlayerCount int    `json:"playerCount"`
	MaxSeats    int    `json:"maxSeats"`
	SmallBlind  int    `json:"smallBlind"`
	BigBlind    int    `json:"bigBlind"`
	HandNumber  int    `json:"handNumber"`
}

// Registry owns every table and routes commands to them
type Registry struct {
	ctx      context.Context
	cancel   context.CancelFunc
	group    *errgroup.Group
	clock    quartz.Clock
	logger   *log.Logger
	listener func(game.Snapshot)
	defaults TableSettings
	seed     int64

	mu      sync.RWMutex
	tables  map[string]*tableActor
	players map[string]string // player id -> table id
	created int
	closed  bool
}

// New creates an empty registry. Call Close to stop its tables.
func New(opts ...Option) *Registry {
	r := &Registry{
		clock:    quartz.NewReal(),
		logger:   log.New(os.Stderr),
		defaults: DefaultTableSettings(),
		tables:   make(map[string]*tableActor),
		players:  make(map[string]string),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.WithPrefix("registry")

	ctx, cancel := context.WithCancel(context.Background())
	r.group, r.ctx = errgroup.WithContext(ctx)
	r.cancel = cancel
	return r
}

// CreateTable opens a new table and returns its id
func (r *Registry) CreateTable(name string, opts ...TableOption) (string, error) {
	settings := r.defaults
	for _, opt := range opts {
		opt(&settings)
	}
	if err := settings.Validate(); err != nil {
		return "", fmt.Errorf("invalid table %q: %w", name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return "", ErrClosed
	}

	id := uuid.NewString()
	r.created++
	table := game.NewTable(id, name, settings.SmallBlind, settings.BigBlind, settings.BuyIn)
	table.MaxSeats = settings.MaxSeats

	rng := randutil.NewOrRandom(0)
	if r.seed != 0 {
		rng = randutil.Derive(r.seed, r.created)
	}

	ctx, cancel := context.WithCancel(r.ctx)
	actor := &tableActor{
		id:       id,
		settings: settings,
		engine:   game.NewEngine(table, deck.New(rng), r.logger),
		commands: make(chan command),
		stopped:  make(chan struct{}),
		ctx:      ctx,
		cancel:   cancel,
		clock:    r.clock,
		listener: r.listener,
		logger:   r.logger.With("table", id),
	}
	actor.summarize()
	r.tables[id] = actor
	r.group.Go(func() error {
		return actor.run(ctx)
	})

	r.logger.Info("Table created", "id", id, "name", name, "blinds", fmt.Sprintf("%d/%d", settings.SmallBlind, settings.BigBlind))
	return id, nil
}

// JoinTable seats a player with the table's buy-in. An empty playerID is
// replaced by a generated one. A player can sit at one table at a time.
func (r *Registry) JoinTable(ctx context.Context, tableID, playerName, playerID string) (game.PlayerState, game.Snapshot, error) {
	if playerID == "" {
		playerID = uuid.NewString()
	}
	actor, err := r.table(tableID)
	if err != nil {
		return game.PlayerState{}, game.Snapshot{}, err
	}

	r.mu.Lock()
	if existing, ok := r.players[playerID]; ok {
		r.mu.Unlock()
		return game.PlayerState{}, game.Snapshot{}, fmt.Errorf("%w: %s at table %s", game.ErrDuplicatePlayer, playerID, existing)
	}
	r.players[playerID] = tableID
	r.mu.Unlock()

	snap, err := actor.do(ctx, true, func(e *game.Engine) error {
		_, err := e.Join(playerID, playerName, actor.settings.BuyIn)
		return err
	})
	if err != nil {
		r.mu.Lock()
		if r.players[playerID] == tableID {
			delete(r.players, playerID)
		}
		r.mu.Unlock()
		return game.PlayerState{}, game.Snapshot{}, err
	}

	player, _ := snap.Player(playerID)
	return player, snap, nil
}

// StartGame deals the next hand at a table
func (r *Registry) StartGame(ctx context.Context, tableID string) (game.Snapshot, error) {
	actor, err := r.table(tableID)
	if err != nil {
		return game.Snapshot{}, err
	}
	return actor.do(ctx, true, func(e *game.Engine) error {
		return e.StartGame()
	})
}

// SubmitAction applies a player action at a table
func (r *Registry) SubmitAction(ctx context.Context, tableID string, action game.Action) (game.Snapshot, error) {
	actor, err := r.table(tableID)
	if err != nil {
		return game.Snapshot{}, err
	}
	return actor.do(ctx, true, func(e *game.Engine) error {
		return e.HandleAction(action)
	})
}

// RemovePlayer takes a player away from whichever table they sit at and
// returns that table's snapshot
func (r *Registry) RemovePlayer(ctx context.Context, playerID string) (game.Snapshot, error) {
	r.mu.RLock()
	tableID, ok := r.players[playerID]
	r.mu.RUnlock()
	if !ok {
		return game.Snapshot{}, fmt.Errorf("%w: %s", game.ErrPlayerNotFound, playerID)
	}

	actor, err := r.table(tableID)
	if err != nil {
		return game.Snapshot{}, err
	}
	snap, err := actor.do(ctx, true, func(e *game.Engine) error {
		return e.RemovePlayer(playerID)
	})
	if err != nil {
		return game.Snapshot{}, err
	}

	r.mu.Lock()
	delete(r.players, playerID)
	r.mu.Unlock()
	return snap, nil
}

// Snapshot returns the current state of a table
func (r *Registry) Snapshot(ctx context.Context, tableID string) (game.Snapshot, error) {
	actor, err := r.table(tableID)
	if err != nil {
		return game.Snapshot{}, err
	}
	return actor.do(ctx, false, func(*game.Engine) error { return nil })
}

// ListTables returns every table ordered by name
func (r *Registry) ListTables() []TableSummary {
	r.mu.RLock()
	defer r.mu.RUnlock()

	summaries := make([]TableSummary, 0, len(r.tables))
	for _, actor := range r.tables {
		summaries = append(summaries, *actor.summary.Load())
	}
	slices.SortFunc(summaries, func(a, b TableSummary) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return summaries
}

// DeleteTable stops a table and unseats its players
func (r *Registry) DeleteTable(tableID string) error {
	r.mu.Lock()
	actor, ok := r.tables[tableID]
	if !ok {
		r.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrTableNotFound, tableID)
	}
	delete(r.tables, tableID)
	for playerID, id := range r.players {
		if id == tableID {
			delete(r.players, playerID)
		}
	}
	r.mu.Unlock()

	actor.cancel()
	<-actor.done()
	r.logger.Info("Table deleted", "id", tableID)
	return nil
}

// Close stops every table and waits for their goroutines to exit
func (r *Registry) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	r.mu.Unlock()

	r.cancel()
	return r.group.Wait()
}

func (r *Registry) table(id string) (*tableActor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return nil, ErrClosed
	}
	actor, ok := r.tables[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, id)
	}
	return actor, nil
}
