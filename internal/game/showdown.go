package game

import (
	"slices"

	"github.com/lox/holdem-engine/internal/evaluator"
)

// handleShowdown ends the hand and pays out every pot. A lone survivor takes
// everything without showing; otherwise each pot goes to the best hand among
// its eligible players, split evenly on ties with the odd chips to the first
// winner in seat order.
func (e *Engine) handleShowdown() {
	t := e.table
	t.Stage = Showdown
	t.CurrentTurn = ""
	t.inHand = false

	var contenders []*Player
	for _, p := range t.Players {
		if p.InHand() {
			contenders = append(contenders, p)
		}
	}

	var results []Payout
	switch len(contenders) {
	case 0:
		e.logger.Error("No players left at showdown", "hand", t.HandNumber, "pot", potTotal(t.Pots))
	case 1:
		winner := contenders[0]
		total := potTotal(t.Pots)
		winner.Chips += total
		results = append(results, Payout{PlayerID: winner.ID, Amount: total})
		e.logger.Debug("Hand won by fold", "hand", t.HandNumber, "winner", winner.ID, "pot", total)
	default:
		hands := make(map[string]evaluator.Hand, len(contenders))
		for _, p := range contenders {
			h, err := evaluator.Evaluate(p.HoleCards, t.CommunityCards)
			if err != nil {
				e.logger.Error("Failed to evaluate hand", "player", p.ID, "error", err)
				continue
			}
			hands[p.ID] = h
		}
		for i, pot := range t.Pots {
			results = append(results, e.awardPot(i, pot, hands)...)
		}
	}

	t.Results = results
	t.Pots = []Pot{{EligiblePlayers: []string{}}}
}

// awardPot splits one pot between the best eligible hands
func (e *Engine) awardPot(index int, pot Pot, hands map[string]evaluator.Hand) []Payout {
	if pot.Amount == 0 {
		return nil
	}

	var winners []*Player
	var best evaluator.Hand
	// Walk the seats rather than the eligible list so ties resolve in seat order
	for _, p := range e.table.Players {
		h, ok := hands[p.ID]
		if !ok || !slices.Contains(pot.EligiblePlayers, p.ID) {
			continue
		}
		switch {
		case len(winners) == 0 || h.Compare(best) > 0:
			winners = []*Player{p}
			best = h
		case h.Compare(best) == 0:
			winners = append(winners, p)
		}
	}
	if len(winners) == 0 {
		e.logger.Error("No eligible winner for pot", "pot", index, "amount", pot.Amount)
		return nil
	}

	share := pot.Amount / len(winners)
	remainder := pot.Amount % len(winners)
	payouts := make([]Payout, 0, len(winners))
	for i, w := range winners {
		amount := share
		if i == 0 {
			amount += remainder
		}
		w.Chips += amount
		payouts = append(payouts, Payout{PlayerID: w.ID, Amount: amount, Pot: index, Hand: hands[w.ID].Describe()})
		e.logger.Debug("Pot awarded", "pot", index, "winner", w.ID, "amount", amount, "hand", best.Category)
	}
	return payouts
}
