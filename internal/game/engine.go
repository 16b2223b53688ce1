package game

import (
	"fmt"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/lox/holdem-engine/internal/deck"
)

// Engine applies commands to a single table. It is not safe for concurrent
// use; the registry gives every engine its own goroutine.
type Engine struct {
	table  *Table
	deck   *deck.Deck
	logger *log.Logger
	seq    int
}

// NewEngine creates an engine that owns table and deals from d
func NewEngine(table *Table, d *deck.Deck, logger *log.Logger) *Engine {
	return &Engine{
		table:  table,
		deck:   d,
		logger: logger.WithPrefix("engine").With("table", table.ID),
	}
}

// Table returns the table the engine mutates
func (e *Engine) Table() *Table {
	return e.table
}

// Snapshot returns a deep copy of the table
func (e *Engine) Snapshot() Snapshot {
	return e.table.Snapshot()
}

// Decision identifies one pending decision. It changes every time an action
// is accepted, so a timer armed for an old Decision can be recognised as stale.
type Decision struct {
	Hand     int
	PlayerID string
	Seq      int
}

// Pending returns the decision the table is waiting on, if any
func (e *Engine) Pending() (Decision, bool) {
	if !e.table.inHand || e.table.CurrentTurn == "" {
		return Decision{}, false
	}
	return Decision{Hand: e.table.HandNumber, PlayerID: e.table.CurrentTurn, Seq: e.seq}, true
}

// Join seats a new player in the lowest free seat. Players joining while a
// hand is running sit out until the next one.
func (e *Engine) Join(id, name string, chips int) (*Player, error) {
	t := e.table
	if p, _ := t.Player(id); p != nil {
		return nil, fmt.Errorf("%w: %s", ErrDuplicatePlayer, id)
	}
	if len(t.Players) >= t.MaxSeats {
		return nil, fmt.Errorf("%w: %d seats", ErrTableFull, t.MaxSeats)
	}

	seat := 0
	for slices.ContainsFunc(t.Players, func(p *Player) bool { return p.Position == seat }) {
		seat++
	}

	p := &Player{ID: id, Name: name, Chips: chips, Status: StatusActive, Position: seat}
	if t.inHand {
		p.Status = StatusSittingOut
	}

	idx := slices.IndexFunc(t.Players, func(other *Player) bool { return other.Position > seat })
	if idx < 0 {
		idx = len(t.Players)
	}
	if idx <= t.DealerIndex && len(t.Players) > 0 {
		t.DealerIndex++
	}
	t.Players = slices.Insert(t.Players, idx, p)

	e.logger.Debug("Player joined", "player", id, "seat", seat, "chips", chips)
	return p, nil
}

// StartGame deals a new hand: it moves the button, posts the blinds and hands
// the action to the first player.
func (e *Engine) StartGame() error {
	t := e.table
	if t.inHand {
		return fmt.Errorf("%w: hand %d", ErrHandInProgress, t.HandNumber)
	}

	funded := 0
	for _, p := range t.Players {
		if p.Chips > 0 && !p.leaving {
			funded++
		}
	}
	if funded < 2 {
		return fmt.Errorf("%w: %d players with chips", ErrNotEnoughPlayers, funded)
	}

	for i := len(t.Players) - 1; i >= 0; i-- {
		if t.Players[i].leaving {
			e.removeSeat(i)
		}
	}

	t.HandNumber++
	t.CommunityCards = nil
	t.Results = nil
	t.Stage = PreFlop
	t.MinRaise = 2 * t.BigBlind
	t.LastRaise = t.BigBlind
	e.seq = 0
	e.deck.Reset()

	for _, p := range t.Players {
		p.HoleCards = nil
		p.CurrentBet = 0
		p.TotalBet = 0
		p.HasActed = false
		p.Status = StatusActive
		if p.Chips == 0 {
			p.Status = StatusSittingOut
		}
	}

	t.DealerIndex = e.seatAfter(t.DealerIndex, func(p *Player) bool { return p.Status != StatusSittingOut })
	order := e.dealtIn()
	for range 2 {
		for _, i := range order {
			card, _ := e.deck.Deal()
			t.Players[i].HoleCards = append(t.Players[i].HoleCards, card)
		}
	}
	t.Pots = calculateSidePots(t.Players)
	t.inHand = true

	var sb, bb, first int
	if len(order) == 2 {
		sb, bb, first = order[0], order[1], order[0]
	} else {
		sb, bb, first = order[1], order[2], order[3%len(order)]
	}
	e.placeBet(t.Players[sb], t.SmallBlind)
	e.placeBet(t.Players[bb], t.BigBlind)

	e.logger.Debug("Starting hand",
		"hand", t.HandNumber,
		"dealer", t.Players[t.DealerIndex].ID,
		"smallBlind", t.Players[sb].ID,
		"bigBlind", t.Players[bb].ID)

	t.CurrentTurn = ""
	if p := t.Players[first]; p.Status == StatusActive {
		t.CurrentTurn = p.ID
	} else {
		e.nextTurn(first)
	}
	if t.CurrentTurn == "" || e.isRoundComplete() {
		e.nextStage()
	}
	return nil
}

// HandleAction validates and applies one player action. A rejected action
// returns an error and leaves the table unchanged.
func (e *Engine) HandleAction(a Action) error {
	if err := e.applyAction(a); err != nil {
		e.logger.Debug("Rejected action", "action", a, "reason", Reason(err))
		return err
	}
	return nil
}

func (e *Engine) applyAction(a Action) error {
	t := e.table
	p, idx := t.Player(a.PlayerID)
	if p == nil {
		return fmt.Errorf("%w: %s", ErrPlayerNotFound, a.PlayerID)
	}
	if !t.inHand || t.CurrentTurn != p.ID {
		return fmt.Errorf("%w: waiting on %q", ErrOutOfTurn, t.CurrentTurn)
	}

	maxBet := t.MaxBet()
	toCall := maxBet - p.CurrentBet

	switch a.Type {
	case Fold:
		p.Status = StatusFolded
		t.Pots = calculateSidePots(t.Players)
	case Check:
		if toCall > 0 {
			return fmt.Errorf("%w: %d to call", ErrIllegalCheck, toCall)
		}
	case Call:
		if toCall <= 0 {
			return ErrIllegalCall
		}
		e.placeBet(p, toCall)
	case Raise:
		if a.Amount < t.MinRaise {
			return fmt.Errorf("%w: %d < %d", ErrRaiseBelowMinimum, a.Amount, t.MinRaise)
		}
		if a.Amount-p.CurrentBet > p.Chips {
			return fmt.Errorf("%w: raise to %d with %d behind", ErrInsufficientChips, a.Amount, p.Chips)
		}
		e.placeBet(p, a.Amount-p.CurrentBet)
		t.LastRaise = a.Amount
		t.MinRaise = a.Amount + (a.Amount - maxBet)
		e.reopen(p)
	case AllIn:
		total := p.CurrentBet + p.Chips
		e.placeBet(p, p.Chips)
		if total > maxBet {
			t.MinRaise = total + max(total-maxBet, t.MinRaise-maxBet)
			t.LastRaise = total
			e.reopen(p)
		}
	default:
		return fmt.Errorf("%w: %d", ErrUnknownAction, int(a.Type))
	}

	p.HasActed = true
	e.seq++
	e.logger.Debug("Player action",
		"player", p.ID,
		"action", a.Type,
		"amount", p.CurrentBet,
		"chips", p.Chips,
		"stage", t.Stage)

	e.advance(idx)
	return nil
}

// RemovePlayer unseats a player. A player dealt into the running hand is
// folded in place instead and leaves when the next hand starts.
func (e *Engine) RemovePlayer(id string) error {
	t := e.table
	p, idx := t.Player(id)
	if p == nil {
		return fmt.Errorf("%w: %s", ErrPlayerNotFound, id)
	}

	if !t.inHand || len(p.HoleCards) == 0 {
		e.removeSeat(idx)
		e.logger.Debug("Player left", "player", id)
		return nil
	}

	p.leaving = true
	if p.Status == StatusFolded {
		return nil
	}
	p.Status = StatusFolded
	t.Pots = calculateSidePots(t.Players)
	e.logger.Debug("Player left mid-hand", "player", id, "stage", t.Stage)

	if t.CurrentTurn == id {
		e.seq++
		e.advance(idx)
	} else if e.contenders() <= 1 {
		e.handleShowdown()
	}
	return nil
}

// placeBet moves chips from the player's stack into the pots
func (e *Engine) placeBet(p *Player, amount int) {
	amount = min(amount, p.Chips)
	p.Chips -= amount
	p.CurrentBet += amount
	p.TotalBet += amount
	if p.Chips == 0 {
		p.Status = StatusAllIn
	}
	e.table.Pots = calculateSidePots(e.table.Players)
}

// reopen gives everyone else a chance to respond to a raise
func (e *Engine) reopen(raiser *Player) {
	for _, p := range e.table.Players {
		if p != raiser && p.Status == StatusActive {
			p.HasActed = false
		}
	}
}

// advance moves the hand along after the player at idx acted or left
func (e *Engine) advance(idx int) {
	switch {
	case e.contenders() <= 1:
		e.handleShowdown()
	case e.isRoundComplete():
		e.nextStage()
	default:
		e.nextTurn(idx)
	}
}

// isRoundComplete reports whether every player who can still act has acted
// and matched the highest bet. All-in players are done betting.
func (e *Engine) isRoundComplete() bool {
	maxBet := e.table.MaxBet()
	for _, p := range e.table.Players {
		if p.Status != StatusActive {
			continue
		}
		if !p.HasActed || p.CurrentBet != maxBet {
			return false
		}
	}
	return true
}

// nextTurn hands the action to the next active seat after idx
func (e *Engine) nextTurn(idx int) {
	t := e.table
	for k := 1; k < len(t.Players); k++ {
		p := t.Players[(idx+k)%len(t.Players)]
		if p.Status == StatusActive {
			t.CurrentTurn = p.ID
			return
		}
	}
}

// nextStage closes the betting round and deals the next street. While fewer
// than two players can bet, streets are dealt without betting.
func (e *Engine) nextStage() {
	t := e.table
	for {
		for _, p := range t.Players {
			p.HasActed = false
			p.CurrentBet = 0
		}
		t.LastRaise = 0
		t.MinRaise = t.BigBlind

		switch t.Stage {
		case PreFlop:
			e.deck.Burn()
			t.CommunityCards = append(t.CommunityCards, e.deck.DealN(3)...)
			t.Stage = Flop
		case Flop:
			e.deck.Burn()
			t.CommunityCards = append(t.CommunityCards, e.deck.DealN(1)...)
			t.Stage = Turn
		case Turn:
			e.deck.Burn()
			t.CommunityCards = append(t.CommunityCards, e.deck.DealN(1)...)
			t.Stage = River
		default:
			e.handleShowdown()
			return
		}
		e.logger.Debug("Dealt street", "stage", t.Stage, "board", t.CommunityCards)

		if e.count(StatusActive) >= 2 {
			t.CurrentTurn = ""
			e.nextTurn(t.DealerIndex)
			return
		}
	}
}

// contenders counts players still competing for the pot
func (e *Engine) contenders() int {
	n := 0
	for _, p := range e.table.Players {
		if p.InHand() {
			n++
		}
	}
	return n
}

func (e *Engine) count(status Status) int {
	n := 0
	for _, p := range e.table.Players {
		if p.Status == status {
			n++
		}
	}
	return n
}

// dealtIn lists the indices of players in the hand, starting at the button
func (e *Engine) dealtIn() []int {
	t := e.table
	order := make([]int, 0, len(t.Players))
	for k := range len(t.Players) {
		i := (t.DealerIndex + k) % len(t.Players)
		if t.Players[i].Status != StatusSittingOut {
			order = append(order, i)
		}
	}
	return order
}

// seatAfter returns the first seat after idx matching pred, wrapping around
// to idx itself
func (e *Engine) seatAfter(idx int, pred func(*Player) bool) int {
	n := len(e.table.Players)
	for k := 1; k <= n; k++ {
		i := (idx + k) % n
		if pred(e.table.Players[i]) {
			return i
		}
	}
	return idx
}

// removeSeat drops the player at idx and keeps the button on the same player,
// or on the seat before when the button itself leaves
func (e *Engine) removeSeat(idx int) {
	t := e.table
	t.Players = slices.Delete(t.Players, idx, idx+1)
	switch {
	case len(t.Players) == 0:
		t.DealerIndex = 0
	case idx <= t.DealerIndex:
		t.DealerIndex = (t.DealerIndex - 1 + len(t.Players)) % len(t.Players)
	}
}
