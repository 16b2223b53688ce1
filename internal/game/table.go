package game

import (
	"fmt"

	"github.com/lox/holdem-engine/internal/deck"
)

// MaxSeats is the largest number of players a table can seat
const MaxSeats = 9

// Stage is the street a hand is on
type Stage int

const (
	PreFlop Stage = iota
	Flop
	Turn
	River
	Showdown
)

// String returns the string representation of a stage
func (s Stage) String() string {
	switch s {
	case PreFlop:
		return "pre_flop"
	case Flop:
		return "flop"
	case Turn:
		return "turn"
	case River:
		return "river"
	case Showdown:
		return "showdown"
	default:
		return "unknown"
	}
}

// MarshalText encodes the stage name
func (s Stage) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Status is a player's state within the current hand
type Status int

const (
	StatusActive Status = iota
	StatusFolded
	StatusAllIn
	StatusSittingOut
)

// String returns the string representation of a status
func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusFolded:
		return "folded"
	case StatusAllIn:
		return "all_in"
	case StatusSittingOut:
		return "sitting_out"
	default:
		return "unknown"
	}
}

// MarshalText encodes the status name
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Player is a seated player
type Player struct {
	ID         string
	Name       string
	Chips      int
	HoleCards  []deck.Card
	Status     Status
	CurrentBet int // Chips committed in the current betting round
	TotalBet   int // Chips committed over the whole hand
	HasActed   bool
	Position   int // Seat number, stable while seated

	leaving bool
}

// InHand reports whether the player still contests the pot
func (p *Player) InHand() bool {
	return p.Status == StatusActive || p.Status == StatusAllIn
}

// Pot is the main pot or a side pot
type Pot struct {
	Amount          int      `json:"amount"`
	EligiblePlayers []string `json:"eligiblePlayers"`
}

// Payout records chips awarded from one pot at showdown
type Payout struct {
	PlayerID string `json:"playerId"`
	Amount   int    `json:"amount"`
	Pot      int    `json:"pot"`
	Hand     string `json:"hand,omitempty"` // Empty when everyone else folded
}

// Table is the mutable aggregate a single Engine owns
type Table struct {
	ID             string
	Name           string
	Players        []*Player
	CommunityCards []deck.Card
	Pots           []Pot
	CurrentTurn    string
	DealerIndex    int
	SmallBlind     int
	BigBlind       int
	BuyIn          int
	MaxSeats       int
	Stage          Stage
	MinRaise       int
	LastRaise      int
	HandNumber     int
	Results        []Payout

	inHand bool
}

// NewTable creates an empty table
func NewTable(id, name string, smallBlind, bigBlind, buyIn int) *Table {
	return &Table{
		ID:          id,
		Name:        name,
		Players:     make([]*Player, 0, MaxSeats),
		Pots:        []Pot{{}},
		SmallBlind:  smallBlind,
		BigBlind:    bigBlind,
		BuyIn:       buyIn,
		MaxSeats:    MaxSeats,
		Stage:       PreFlop,
		MinRaise:    bigBlind,
	}
}

// HandInProgress reports whether a hand has been dealt and not yet resolved
func (t *Table) HandInProgress() bool {
	return t.inHand
}

// Player looks up a seated player by id
func (t *Table) Player(id string) (*Player, int) {
	for i, p := range t.Players {
		if p.ID == id {
			return p, i
		}
	}
	return nil, -1
}

// MaxBet is the highest bet placed in the current round
func (t *Table) MaxBet() int {
	maxBet := 0
	for _, p := range t.Players {
		maxBet = max(maxBet, p.CurrentBet)
	}
	return maxBet
}

// TotalChips sums stacks and pots; it is constant for the lifetime of a hand
func (t *Table) TotalChips() int {
	total := potTotal(t.Pots)
	for _, p := range t.Players {
		total += p.Chips
	}
	return total
}

func (t *Table) String() string {
	return fmt.Sprintf("Hand #%d - %s - Pot: %d - Action on: %s", t.HandNumber, t.Stage, potTotal(t.Pots), t.CurrentTurn)
}
