// Package bot contains simple automated players used by the simulator.
package bot

import (
	"fmt"
	"math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/lox/holdem-engine/internal/game"
)

// Bot chooses an action for a player from the table as that player sees it
type Bot interface {
	Decide(view game.Snapshot, playerID string) game.Action
}

// New builds a bot by strategy name
func New(strategy string, rng *rand.Rand, logger *log.Logger) (Bot, error) {
	logger = logger.WithPrefix("bot").With("strategy", strategy)
	switch strategy {
	case "random":
		return NewRandBot(rng, logger), nil
	case "calling":
		return NewCallBot(logger), nil
	case "tight":
		return NewTAGBot(rng, logger), nil
	case "aggressive":
		return NewManiacBot(rng, logger), nil
	default:
		return nil, fmt.Errorf("unknown bot strategy %q", strategy)
	}
}

// decision builds an action, falling back to the safest legal one when the
// preferred type is not available
func decision(playerID string, opts game.ActionOptions, preferred game.ActionType, amount int) game.Action {
	if opts.Can(preferred) {
		if preferred == game.Raise {
			amount = min(max(amount, opts.MinRaise), opts.MaxRaise)
		}
		return game.Action{PlayerID: playerID, Type: preferred, Amount: amount}
	}
	if opts.Can(game.Check) {
		return game.Action{PlayerID: playerID, Type: game.Check}
	}
	return game.Action{PlayerID: playerID, Type: game.Fold}
}
