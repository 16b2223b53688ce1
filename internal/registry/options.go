package registry

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/holdem-engine/internal/game"
)

// TimeoutPolicy decides what a player does when their turn timer expires
type TimeoutPolicy string

const (
	// CheckOrFold checks when that is legal and folds otherwise
	CheckOrFold TimeoutPolicy = "check_or_fold"
	// FoldOnTimeout always folds
	FoldOnTimeout TimeoutPolicy = "fold"
)

// Valid reports whether the policy is known
func (p TimeoutPolicy) Valid() bool {
	return p == CheckOrFold || p == FoldOnTimeout
}

// TableSettings are the stakes and limits of a table
type TableSettings struct {
	SmallBlind    int
	BigBlind      int
	BuyIn         int
	MaxSeats      int
	TurnTimeout   time.Duration // Zero disables the turn timer
	TimeoutPolicy TimeoutPolicy
}

// DefaultTableSettings mirror a 10/20 table with a 1000 chip buy-in
func DefaultTableSettings() TableSettings {
	return TableSettings{
		SmallBlind:    10,
		BigBlind:      20,
		BuyIn:         1000,
		MaxSeats:      game.MaxSeats,
		TurnTimeout:   30 * time.Second,
		TimeoutPolicy: CheckOrFold,
	}
}

// Validate checks the settings are playable
func (s TableSettings) Validate() error {
	if s.SmallBlind <= 0 {
		return fmt.Errorf("small blind must be positive, got %d", s.SmallBlind)
	}
	if s.BigBlind < s.SmallBlind {
		return fmt.Errorf("big blind %d is smaller than small blind %d", s.BigBlind, s.SmallBlind)
	}
	if s.BuyIn < s.BigBlind {
		return fmt.Errorf("buy-in %d does not cover the big blind %d", s.BuyIn, s.BigBlind)
	}
	if s.MaxSeats < 2 || s.MaxSeats > game.MaxSeats {
		return fmt.Errorf("max seats must be between 2 and %d, got %d", game.MaxSeats, s.MaxSeats)
	}
	if s.TurnTimeout < 0 {
		return fmt.Errorf("turn timeout cannot be negative, got %s", s.TurnTimeout)
	}
	if !s.TimeoutPolicy.Valid() {
		return fmt.Errorf("unknown timeout policy %q", s.TimeoutPolicy)
	}
	return nil
}

// TableOption overrides the registry defaults for one table
type TableOption func(*TableSettings)

// WithSettings replaces every setting at once
func WithSettings(settings TableSettings) TableOption {
	return func(s *TableSettings) {
		*s = settings
	}
}

// WithBlinds sets the blinds
func WithBlinds(small, big int) TableOption {
	return func(s *TableSettings) {
		s.SmallBlind = small
		s.BigBlind = big
	}
}

// WithBuyIn sets the chips a joining player receives
func WithBuyIn(chips int) TableOption {
	return func(s *TableSettings) {
		s.BuyIn = chips
	}
}

// WithMaxSeats limits the number of seats
func WithMaxSeats(n int) TableOption {
	return func(s *TableSettings) {
		s.MaxSeats = n
	}
}

// WithTurnTimeout sets the turn timer and what happens when it expires
func WithTurnTimeout(d time.Duration, policy TimeoutPolicy) TableOption {
	return func(s *TableSettings) {
		s.TurnTimeout = d
		s.TimeoutPolicy = policy
	}
}

// Option configures a Registry
type Option func(*Registry)

// WithClock replaces the real clock, typically with quartz.NewMock in tests
func WithClock(clock quartz.Clock) Option {
	return func(r *Registry) {
		r.clock = clock
	}
}

// WithLogger sets the logger
func WithLogger(logger *log.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// WithListener registers a callback that receives a snapshot after every
// successful change to a table, including timeouts. It runs on the table's
// goroutine and must not call back into the registry for the same table.
func WithListener(fn func(game.Snapshot)) Option {
	return func(r *Registry) {
		r.listener = fn
	}
}

// WithDefaults sets the settings new tables start from
func WithDefaults(settings TableSettings) Option {
	return func(r *Registry) {
		r.defaults = settings
	}
}

// WithSeed makes every table's shuffles reproducible. Zero means random.
func WithSeed(seed int64) Option {
	return func(r *Registry) {
		r.seed = seed
	}
}
