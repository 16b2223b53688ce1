package bot

import (
	"github.com/charmbracelet/log"

	"github.com/lox/holdem-engine/internal/game"
)

// CallBot checks or calls every street and only folds a big river bet
type CallBot struct {
	logger *log.Logger
}

// NewCallBot creates a new CallBot instance
func NewCallBot(logger *log.Logger) *CallBot {
	return &CallBot{logger: logger}
}

func (c *CallBot) Decide(view game.Snapshot, playerID string) game.Action {
	opts := view.ValidActions(playerID)
	if opts.Can(game.Check) {
		return game.Action{PlayerID: playerID, Type: game.Check}
	}

	// Fold river only when facing a bet larger than most of the pot
	if view.Stage == game.River && opts.ToCall*5 > view.PotTotal()*4 {
		c.logger.Debug("Folding to large river bet", "player", playerID, "toCall", opts.ToCall, "pot", view.PotTotal())
		return game.Action{PlayerID: playerID, Type: game.Fold}
	}
	return decision(playerID, opts, game.Call, 0)
}
