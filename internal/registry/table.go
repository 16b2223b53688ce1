package registry

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/holdem-engine/internal/game"
)

var errStaleTimeout = errors.New("turn already over")

type command struct {
	apply   func(*game.Engine) error
	mutates bool
	reply   chan result
}

type result struct {
	snapshot game.Snapshot
	err      error
}

// tableActor is the only goroutine that touches its engine
type tableActor struct {
	id       string
	settings TableSettings
	engine   *game.Engine
	commands chan command
	ctx      context.Context
	cancel   context.CancelFunc
	clock    quartz.Clock
	listener func(game.Snapshot)
	logger   *log.Logger

	summary atomic.Pointer[TableSummary]
	stopped chan struct{}

	// Owned by the run goroutine
	timer *quartz.Timer
	turn  game.Decision
}

func (a *tableActor) done() <-chan struct{} {
	return a.stopped
}

func (a *tableActor) run(ctx context.Context) error {
	defer close(a.stopped)
	defer a.stopTimer()

	for {
		select {
		case <-ctx.Done():
			a.logger.Debug("Table stopped")
			return nil
		case cmd := <-a.commands:
			cmd.reply <- a.execute(ctx, cmd)
		}
	}
}

func (a *tableActor) execute(ctx context.Context, cmd command) result {
	if err := cmd.apply(a.engine); err != nil {
		return result{err: err}
	}

	snap := a.engine.Snapshot()
	if cmd.mutates {
		a.summarize()
		a.armTimer(ctx)
		if a.listener != nil {
			a.listener(snap)
		}
	}
	return result{snapshot: snap}
}

// do hands a command to the actor and waits for its result. A command that
// was accepted before ctx expired still runs to completion.
func (a *tableActor) do(ctx context.Context, mutates bool, apply func(*game.Engine) error) (game.Snapshot, error) {
	cmd := command{apply: apply, mutates: mutates, reply: make(chan result, 1)}

	select {
	case a.commands <- cmd:
	case <-ctx.Done():
		return game.Snapshot{}, ctx.Err()
	case <-a.ctx.Done():
		return game.Snapshot{}, ErrClosed
	}

	select {
	case res := <-cmd.reply:
		return res.snapshot, res.err
	case <-ctx.Done():
		return game.Snapshot{}, ctx.Err()
	}
}

// armTimer starts a turn timer whenever the table waits on a new decision
func (a *tableActor) armTimer(ctx context.Context) {
	turn, ok := a.engine.Pending()
	if ok && turn == a.turn && a.timer != nil {
		return
	}
	a.stopTimer()
	a.turn = turn
	if !ok || a.settings.TurnTimeout <= 0 {
		return
	}

	a.timer = a.clock.AfterFunc(a.settings.TurnTimeout, func() {
		a.expire(ctx, turn)
	}, "registry", "turn")
}

func (a *tableActor) stopTimer() {
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
}

// expire runs on the clock's goroutine and queues the default action
func (a *tableActor) expire(ctx context.Context, turn game.Decision) {
	cmd := command{
		mutates: true,
		reply:   make(chan result, 1),
		apply: func(e *game.Engine) error {
			if current, ok := e.Pending(); !ok || current != turn {
				return errStaleTimeout
			}
			action := game.Action{PlayerID: turn.PlayerID, Type: game.Fold}
			if a.settings.TimeoutPolicy == CheckOrFold && e.Snapshot().ValidActions(turn.PlayerID).Can(game.Check) {
				action.Type = game.Check
			}
			a.logger.Info("Turn timed out", "player", turn.PlayerID, "hand", turn.Hand, "action", action.Type)
			return e.HandleAction(action)
		},
	}

	select {
	case a.commands <- cmd:
	case <-ctx.Done():
	}
}

func (a *tableActor) summarize() {
	t := a.engine.Table()
	a.summary.Store(&TableSummary{
		ID:          t.ID,
		Name:        t.Name,
		PlayerCount: len(t.Players),
		MaxSeats:    t.MaxSeats,
		SmallBlind:  t.SmallBlind,
		BigBlind:    t.BigBlind,
		HandNumber:  t.HandNumber,
	})
}
