package bot

import (
	"math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/lox/holdem-engine/internal/game"
)

// ManiacBot is an extremely aggressive bot that shoves frequently
type ManiacBot struct {
	rng    *rand.Rand
	logger *log.Logger
}

// NewManiacBot creates a new ManiacBot instance
func NewManiacBot(rng *rand.Rand, logger *log.Logger) *ManiacBot {
	return &ManiacBot{rng: rng, logger: logger}
}

func (m *ManiacBot) Decide(view game.Snapshot, playerID string) game.Action {
	opts := view.ValidActions(playerID)
	me, _ := view.Player(playerID)

	// Raise/shove very frequently, call sometimes, rarely fold
	if m.rng.Float64() < 0.85 {
		if me.Chips <= 20*view.BigBlind || m.rng.Float64() < 0.3 {
			return decision(playerID, opts, game.AllIn, 0)
		}
		return decision(playerID, opts, game.Raise, opts.MinRaise+(opts.MaxRaise-opts.MinRaise)*3/4)
	}

	if opts.Can(game.Check) {
		return game.Action{PlayerID: playerID, Type: game.Check}
	}
	if m.rng.Float64() < 0.9 {
		return decision(playerID, opts, game.Call, 0)
	}
	return game.Action{PlayerID: playerID, Type: game.Fold}
}
