package phh

import (
	"fmt"
	"time"

	"github.com/lox/holdem-engine/internal/game"
)

// Builder records one hand while it is played
type Builder struct {
	hand     *HandHistory
	position map[string]int // player id -> PHH position
	board    int            // community cards already recorded
}

// NewBuilder starts a history from the table before the deal and the
// snapshot StartGame returned
func NewBuilder(handID string, before, dealt game.Snapshot, at time.Time) *Builder {
	order := positionOrder(dealt)
	n := len(order)
	h := &HandHistory{
		Variant:           "NT",
		Table:             dealt.Name,
		SeatCount:         dealt.MaxSeats,
		Seats:             make([]int, n),
		Antes:             make([]int, n),
		BlindsOrStraddles: make([]int, n),
		MinBet:            dealt.BigBlind,
		StartingStacks:    make([]int, n),
		FinishingStacks:   make([]int, n),
		Winnings:          make([]int, n),
		Actions:           make([]string, 0, n+16),
		Players:           make([]string, n),
		HandID:            handID,
		Timestamp:         at,
	}
	h.populateTimeFields()

	b := &Builder{hand: h, position: make(map[string]int, n)}
	for pos, p := range order {
		stack := p.Chips + p.TotalBet
		if prior, ok := before.Player(p.ID); ok {
			stack = prior.Chips
		}
		b.position[p.ID] = pos
		h.Seats[pos] = p.Position + 1
		h.Players[pos] = p.Name
		h.StartingStacks[pos] = stack
		h.Actions = append(h.Actions, fmt.Sprintf("d dh p%d %s", pos+1, notation(p.HoleCards)))
	}
	if n >= 2 {
		h.BlindsOrStraddles[0] = min(dealt.SmallBlind, h.StartingStacks[0])
		h.BlindsOrStraddles[1] = min(dealt.BigBlind, h.StartingStacks[1])
	}
	b.recordBoard(dealt)
	return b
}

// Action records an accepted action. before is the snapshot the player
// acted on and after the one returned once it was applied.
func (b *Builder) Action(before game.Snapshot, a game.Action, after game.Snapshot) {
	pos, ok := b.position[a.PlayerID]
	if !ok {
		return
	}
	p, _ := before.Player(a.PlayerID)
	total := a.Amount
	if a.Type == game.AllIn {
		total = p.CurrentBet + p.Chips
	}
	b.hand.Actions = append(b.hand.Actions, FormatAction(pos, a, total, before.MaxBet()))
	b.recordBoard(after)
}

// Finish completes the history with any remaining board cards, the hands
// shown down and the final stacks
func (b *Builder) Finish(finished game.Snapshot) *HandHistory {
	b.recordBoard(finished)

	for _, r := range finished.Results {
		if pos, ok := b.position[r.PlayerID]; ok {
			b.hand.Winnings[pos] += r.Amount
		}
	}

	shown := finished.Redacted("")
	for _, p := range orderedBy(shown.Players, b.position) {
		pos := b.position[p.ID]
		if len(p.HoleCards) == 2 {
			b.hand.Actions = append(b.hand.Actions, fmt.Sprintf("p%d sm %s", pos+1, notation(p.HoleCards)))
		}
	}
	for _, p := range finished.Players {
		if pos, ok := b.position[p.ID]; ok {
			b.hand.FinishingStacks[pos] = p.Chips
		}
	}
	return b.hand
}

// recordBoard emits a deal action for every street dealt since the last call
func (b *Builder) recordBoard(s game.Snapshot) {
	for b.board < len(s.CommunityCards) {
		n := 1
		if b.board == 0 {
			n = 3
		}
		n = min(n, len(s.CommunityCards)-b.board)
		b.hand.Actions = append(b.hand.Actions, "d db "+notation(s.CommunityCards[b.board:b.board+n]))
		b.board += n
	}
}

// positionOrder lists the dealt-in players starting from the small blind.
// Heads-up the dealer posts the small blind.
func positionOrder(s game.Snapshot) []game.PlayerState {
	var dealt []game.PlayerState
	start := 0
	for i, p := range s.Players {
		if len(p.HoleCards) == 0 {
			continue
		}
		if i == s.DealerIndex {
			start = len(dealt)
		}
		dealt = append(dealt, p)
	}
	if len(dealt) > 2 {
		start++
	}

	order := make([]game.PlayerState, 0, len(dealt))
	for i := range dealt {
		order = append(order, dealt[(start+i)%len(dealt)])
	}
	return order
}

func orderedBy(players []game.PlayerState, position map[string]int) []game.PlayerState {
	out := make([]game.PlayerState, len(position))
	for _, p := range players {
		if pos, ok := position[p.ID]; ok {
			out[pos] = p
		}
	}
	return out
}
