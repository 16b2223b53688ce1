package game

import (
	"slices"

	"github.com/lox/holdem-engine/internal/deck"
)

// PlayerState is a read-only view of a seated player
type PlayerState struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Chips      int         `json:"chips"`
	HoleCards  []deck.Card `json:"holeCards,omitempty"`
	Status     Status      `json:"status"`
	CurrentBet int         `json:"currentBet"`
	TotalBet   int         `json:"totalBet"`
	HasActed   bool        `json:"hasActed"`
	Position   int         `json:"position"`
	Leaving    bool        `json:"leaving,omitempty"`
}

// Snapshot is an immutable copy of a table. Nothing in it aliases engine
// state, so it can be handed to other goroutines.
type Snapshot struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	Players        []PlayerState `json:"players"`
	CommunityCards []deck.Card   `json:"communityCards"`
	Pots           []Pot         `json:"pots"`
	CurrentTurn    string        `json:"currentTurn,omitempty"`
	DealerIndex    int           `json:"dealerIndex"`
	SmallBlind     int           `json:"smallBlind"`
	BigBlind       int           `json:"bigBlind"`
	BuyIn          int           `json:"buyIn"`
	MaxSeats       int           `json:"maxSeats"`
	Stage          Stage         `json:"stage"`
	MinRaise       int           `json:"minRaise"`
	LastRaise      int           `json:"lastRaise"`
	HandNumber     int           `json:"handNumber"`
	HandInProgress bool          `json:"handInProgress"`
	Results        []Payout      `json:"results,omitempty"`
}

// Snapshot copies the table
func (t *Table) Snapshot() Snapshot {
	s := Snapshot{
		ID:             t.ID,
		Name:           t.Name,
		Players:        make([]PlayerState, len(t.Players)),
		CommunityCards: slices.Clone(t.CommunityCards),
		Pots:           make([]Pot, len(t.Pots)),
		CurrentTurn:    t.CurrentTurn,
		DealerIndex:    t.DealerIndex,
		SmallBlind:     t.SmallBlind,
		BigBlind:       t.BigBlind,
		BuyIn:          t.BuyIn,
		MaxSeats:       t.MaxSeats,
		Stage:          t.Stage,
		MinRaise:       t.MinRaise,
		LastRaise:      t.LastRaise,
		HandNumber:     t.HandNumber,
		HandInProgress: t.inHand,
		Results:        slices.Clone(t.Results),
	}
	for i, p := range t.Players {
		s.Players[i] = p.State()
	}
	for i, pot := range t.Pots {
		s.Pots[i] = Pot{Amount: pot.Amount, EligiblePlayers: slices.Clone(pot.EligiblePlayers)}
	}
	return s
}

// State copies the player
func (p *Player) State() PlayerState {
	return PlayerState{
		ID:         p.ID,
		Name:       p.Name,
		Chips:      p.Chips,
		HoleCards:  slices.Clone(p.HoleCards),
		Status:     p.Status,
		CurrentBet: p.CurrentBet,
		TotalBet:   p.TotalBet,
		HasActed:   p.HasActed,
		Position:   p.Position,
		Leaving:    p.leaving,
	}
}

// Player finds a player in the snapshot
func (s Snapshot) Player(id string) (PlayerState, bool) {
	for _, p := range s.Players {
		if p.ID == id {
			return p, true
		}
	}
	return PlayerState{}, false
}

// PotTotal sums every pot
func (s Snapshot) PotTotal() int {
	return potTotal(s.Pots)
}

// MaxBet is the highest bet in the current round
func (s Snapshot) MaxBet() int {
	maxBet := 0
	for _, p := range s.Players {
		maxBet = max(maxBet, p.CurrentBet)
	}
	return maxBet
}

// Redacted returns the snapshot as viewerID may see it: other players' hole
// cards are hidden, except for the hands shown down at a contested showdown.
func (s Snapshot) Redacted(viewerID string) Snapshot {
	shown := s.Stage == Showdown && !s.HandInProgress && slices.ContainsFunc(s.Results, func(p Payout) bool {
		return p.Hand != ""
	})

	out := s
	out.Players = make([]PlayerState, len(s.Players))
	for i, p := range s.Players {
		if p.ID != viewerID && !(shown && (p.Status == StatusActive || p.Status == StatusAllIn)) {
			p.HoleCards = nil
		}
		out.Players[i] = p
	}
	return out
}

// ActionOptions describes what a player may do right now
type ActionOptions struct {
	Types    []ActionType `json:"types"`
	ToCall   int          `json:"toCall"`
	MinRaise int          `json:"minRaise"` // Smallest legal raise total
	MaxRaise int          `json:"maxRaise"` // Largest raise total the stack allows
}

// Can reports whether the action type is legal
func (o ActionOptions) Can(a ActionType) bool {
	return slices.Contains(o.Types, a)
}

// ValidActions lists the legal actions for playerID. It is empty unless it is
// that player's turn.
func (s Snapshot) ValidActions(playerID string) ActionOptions {
	p, ok := s.Player(playerID)
	if !ok || !s.HandInProgress || s.CurrentTurn != playerID {
		return ActionOptions{}
	}

	opts := ActionOptions{
		Types:    []ActionType{Fold},
		ToCall:   s.MaxBet() - p.CurrentBet,
		MinRaise: s.MinRaise,
		MaxRaise: p.CurrentBet + p.Chips,
	}
	if opts.ToCall == 0 {
		opts.Types = append(opts.Types, Check)
	} else {
		opts.Types = append(opts.Types, Call)
	}
	if opts.MaxRaise >= opts.MinRaise {
		opts.Types = append(opts.Types, Raise)
	}
	opts.Types = append(opts.Types, AllIn)
	return opts
}
