package game

import "slices"

// calculateSidePots rebuilds the pots from what every player has committed
// this hand. Each distinct all-in total closes a pot at that level; whatever
// sits above the highest level forms the last pot, contested by the players
// still able to bet. It only reads the players, so calling it twice yields the
// same pots.
func calculateSidePots(players []*Player) []Pot {
	var levels []int
	for _, p := range players {
		if p.Status == StatusAllIn && p.TotalBet > 0 {
			levels = append(levels, p.TotalBet)
		}
	}
	slices.Sort(levels)
	levels = slices.Compact(levels)

	pots := make([]Pot, 0, len(levels)+1)
	prev := 0
	for _, level := range levels {
		pot := Pot{EligiblePlayers: []string{}}
		for _, p := range players {
			if p.TotalBet > prev {
				pot.Amount += min(p.TotalBet, level) - prev
			}
			if p.InHand() && p.TotalBet >= level {
				pot.EligiblePlayers = append(pot.EligiblePlayers, p.ID)
			}
		}
		pots = addPot(pots, pot)
		prev = level
	}

	rest := Pot{EligiblePlayers: []string{}}
	for _, p := range players {
		if p.TotalBet > prev {
			rest.Amount += p.TotalBet - prev
		}
		if p.Status == StatusActive {
			rest.EligiblePlayers = append(rest.EligiblePlayers, p.ID)
		}
	}
	if len(levels) == 0 || rest.Amount > 0 {
		pots = addPot(pots, rest)
	}

	return pots
}

// addPot appends pot, folding it into the previous one when nobody can win it
func addPot(pots []Pot, pot Pot) []Pot {
	if len(pot.EligiblePlayers) == 0 && len(pots) > 0 {
		pots[len(pots)-1].Amount += pot.Amount
		return pots
	}
	return append(pots, pot)
}

// potTotal sums every pot
func potTotal(pots []Pot) int {
	total := 0
	for _, pot := range pots {
		total += pot.Amount
	}
	return total
}
