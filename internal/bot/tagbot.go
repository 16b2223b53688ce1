package bot

import (
	"math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/lox/holdem-engine/internal/deck"
	"github.com/lox/holdem-engine/internal/evaluator"
	"github.com/lox/holdem-engine/internal/game"
)

// TAGBot is a Tight Aggressive bot that plays premium hands aggressively
type TAGBot struct {
	rng    *rand.Rand
	logger *log.Logger
}

// NewTAGBot creates a new TAGBot instance
func NewTAGBot(rng *rand.Rand, logger *log.Logger) *TAGBot {
	return &TAGBot{rng: rng, logger: logger}
}

func (t *TAGBot) Decide(view game.Snapshot, playerID string) game.Action {
	opts := view.ValidActions(playerID)
	me, ok := view.Player(playerID)
	if !ok || len(me.HoleCards) != 2 {
		return decision(playerID, opts, game.Check, 0)
	}

	if view.Stage == game.PreFlop {
		strength := deck.StartingHandStrength(me.HoleCards)
		switch {
		case strength >= 0.9:
			return decision(playerID, opts, game.Raise, opts.MinRaise+(opts.MaxRaise-opts.MinRaise)/4)
		case strength >= 0.6 && opts.ToCall <= 3*view.BigBlind:
			return decision(playerID, opts, game.Call, 0)
		default:
			return decision(playerID, opts, game.Check, 0)
		}
	}

	hand, err := evaluator.Evaluate(me.HoleCards, view.CommunityCards)
	if err != nil {
		t.logger.Error("Failed to evaluate hand", "player", playerID, "error", err)
		return decision(playerID, opts, game.Check, 0)
	}

	switch {
	case hand.Category >= evaluator.TwoPair:
		return decision(playerID, opts, game.Raise, view.PotTotal())
	case hand.Category == evaluator.OnePair:
		if opts.ToCall <= view.PotTotal()/2 {
			return decision(playerID, opts, game.Call, 0)
		}
	case t.rng.Float64() < 0.1: // Occasional bluff
		return decision(playerID, opts, game.Raise, opts.MinRaise)
	}
	return decision(playerID, opts, game.Check, 0)
}
