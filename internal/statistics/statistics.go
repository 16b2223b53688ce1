// Package statistics accumulates per-player results over simulated hands.
package statistics

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"sync"

	"github.com/lox/holdem-engine/internal/game"
)

// HandResult represents one player's outcome of a single hand
type HandResult struct {
	NetBB          float64 // Net big blinds won/lost
	WentToShowdown bool    // Did the hand reach a contested showdown?
	FinalPotSize   int     // Chips awarded in the hand
	BigBlind       int
}

// Statistics tracks a player's results across hands
type Statistics struct {
	Hands  int
	SumBB  float64
	SumBB2 float64   // Sum of squares for variance calculation
	Values []float64 // Store all values for median/percentile calculation

	ShowdownWins    int     // Hands won at showdown
	NonShowdownWins int     // Hands won without showdown
	ShowdownBB      float64 // BB from showdown (wins AND losses)
	NonShowdownBB   float64 // BB from uncontested pots (wins AND losses)
	AllBB           float64

	MaxPotChips int
	MaxPotBB    float64
	BigPots     int     // Pots >= 50bb
	BigPotsBB   float64 // BB from big pots
}

// Mean returns the arithmetic mean of all results in big blinds per hand
func (s *Statistics) Mean() float64 {
	if s.Hands == 0 {
		return 0
	}
	return s.SumBB / float64(s.Hands)
}

// Variance returns the sample variance of all results
func (s *Statistics) Variance() float64 {
	if s.Hands < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumBB2 - float64(s.Hands)*mean*mean) / float64(s.Hands-1)
}

// StdDev returns the sample standard deviation of all results
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Hands == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Hands))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Add incorporates a new hand result
func (s *Statistics) Add(result HandResult) {
	netBB := result.NetBB
	s.Hands++
	s.SumBB += netBB
	s.SumBB2 += netBB * netBB
	s.Values = append(s.Values, netBB)

	if netBB > 0 {
		if result.WentToShowdown {
			s.ShowdownWins++
		} else {
			s.NonShowdownWins++
		}
	}
	if result.WentToShowdown {
		s.ShowdownBB += netBB
	} else {
		s.NonShowdownBB += netBB
	}
	s.AllBB += netBB

	if result.BigBlind <= 0 {
		return
	}
	potBB := float64(result.FinalPotSize) / float64(result.BigBlind)
	if result.FinalPotSize > s.MaxPotChips {
		s.MaxPotChips = result.FinalPotSize
		s.MaxPotBB = potBB
	}
	if potBB >= 50 {
		s.BigPots++
		s.BigPotsBB += netBB
	}
}

// Median returns the median value of all results
func (s *Statistics) Median() float64 {
	return s.Percentile(0.5)
}

// Percentile returns the value at the given percentile (0.0 to 1.0)
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := slices.Clone(s.Values)
	slices.Sort(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// IsLedgerBalanced checks if the accounting is consistent
func (s *Statistics) IsLedgerBalanced() bool {
	return math.Abs(s.AllBB-s.ShowdownBB-s.NonShowdownBB) <= 1e-6
}

// Validate checks the internal consistency of the statistics
func (s *Statistics) Validate() error {
	if !s.IsLedgerBalanced() {
		return fmt.Errorf("ledger mismatch: AllBB=%.6f, ShowdownBB=%.6f, NonShowdownBB=%.6f",
			s.AllBB, s.ShowdownBB, s.NonShowdownBB)
	}
	if s.Hands <= 0 {
		return fmt.Errorf("invalid hands count: %d", s.Hands)
	}
	if len(s.Values) != s.Hands {
		return fmt.Errorf("values array length (%d) does not match hands count (%d)", len(s.Values), s.Hands)
	}
	if wins := s.ShowdownWins + s.NonShowdownWins; wins > s.Hands {
		return fmt.Errorf("total wins (%d) exceeds total hands (%d)", wins, s.Hands)
	}
	return nil
}

// Collector keeps Statistics per player. It is safe for concurrent use, so
// several tables can report into one collector.
type Collector struct {
	mu      sync.Mutex
	players map[string]*Statistics
	names   map[string]string
}

// NewCollector creates an empty collector
func NewCollector() *Collector {
	return &Collector{
		players: make(map[string]*Statistics),
		names:   make(map[string]string),
	}
}

// RecordHand compares a snapshot taken before the deal with the one taken
// once the hand finished, and adds a result for every player dealt in
func (c *Collector) RecordHand(before, finished game.Snapshot) {
	showdown := slices.ContainsFunc(finished.Results, func(p game.Payout) bool { return p.Hand != "" })
	pot := 0
	for _, p := range finished.Results {
		pot += p.Amount
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, after := range finished.Players {
		if len(after.HoleCards) == 0 {
			continue
		}
		start, ok := before.Player(after.ID)
		if !ok {
			continue
		}

		stats, ok := c.players[after.ID]
		if !ok {
			stats = &Statistics{}
			c.players[after.ID] = stats
		}
		c.names[after.ID] = after.Name
		stats.Add(HandResult{
			NetBB:          float64(after.Chips-start.Chips) / float64(finished.BigBlind),
			WentToShowdown: showdown,
			FinalPotSize:   pot,
			BigBlind:       finished.BigBlind,
		})
	}
}

// PlayerStats is a named copy of one player's statistics
type PlayerStats struct {
	ID   string
	Name string
	Statistics
}

// Players returns every player's statistics, best mean first
func (c *Collector) Players() []PlayerStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]PlayerStats, 0, len(c.players))
	for id, s := range c.players {
		copied := *s
		copied.Values = slices.Clone(s.Values)
		out = append(out, PlayerStats{ID: id, Name: c.names[id], Statistics: copied})
	}
	slices.SortFunc(out, func(a, b PlayerStats) int {
		switch {
		case a.Mean() > b.Mean():
			return -1
		case a.Mean() < b.Mean():
			return 1
		default:
			return strings.Compare(a.ID, b.ID)
		}
	})
	return out
}
