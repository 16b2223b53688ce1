package bot

import (
	"math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/lox/holdem-engine/internal/game"
)

// RandBot is a simple bot that makes uniform random legal actions
type RandBot struct {
	rng    *rand.Rand
	logger *log.Logger
}

// NewRandBot creates a new RandBot instance
func NewRandBot(rng *rand.Rand, logger *log.Logger) *RandBot {
	return &RandBot{rng: rng, logger: logger}
}

func (r *RandBot) Decide(view game.Snapshot, playerID string) game.Action {
	opts := view.ValidActions(playerID)
	if len(opts.Types) == 0 {
		return game.Action{PlayerID: playerID, Type: game.Fold}
	}

	a := game.Action{PlayerID: playerID, Type: opts.Types[r.rng.IntN(len(opts.Types))]}

	// For raises, pick random amount between min and max
	if a.Type == game.Raise {
		a.Amount = opts.MinRaise + r.rng.IntN(opts.MaxRaise-opts.MinRaise+1)
	}
	return a
}
