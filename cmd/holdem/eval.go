package main

import (
	"context"
	"fmt"

	"github.com/lox/holdem-engine/internal/deck"
	"github.com/lox/holdem-engine/internal/display"
	"github.com/lox/holdem-engine/internal/evaluator"
)

// EvalCmd describes the best hand from hole and board cards and estimates
// its equity against random opponents
type EvalCmd struct {
	Hole      string `arg:"" help:"Hole cards, e.g. AsKs"`
	Board     string `short:"b" help:"Community cards, e.g. QsJsTs"`
	Opponents int    `short:"o" default:"1" help:"Random opponents for the equity estimate"`
	Samples   int    `short:"s" default:"20000" help:"Monte Carlo samples, 0 skips the estimate"`
	Seed      int64  `help:"RNG seed for the estimate (0 for random)"`
}

func (c *EvalCmd) Run(globals *Globals) error {
	hole, err := deck.ParseCards(c.Hole)
	if err != nil {
		return fmt.Errorf("invalid hole cards: %w", err)
	}
	if len(hole) != 2 {
		return fmt.Errorf("expected 2 hole cards, got %d", len(hole))
	}
	board, err := deck.ParseCards(c.Board)
	if err != nil {
		return fmt.Errorf("invalid board: %w", err)
	}

	r := display.NewRenderer(display.DefaultStyles())
	fmt.Println(r.Heading("Hand"))
	fmt.Printf("Hole   %s  %s, preflop strength %.3f\n",
		r.Cards(hole), deck.StartingHandKey(hole[0], hole[1]), deck.StartingHandStrength(hole))
	fmt.Printf("Board  %s\n", r.Cards(board))

	if len(hole)+len(board) >= 5 {
		hand, err := evaluator.Evaluate(hole, board)
		if err != nil {
			return err
		}
		fmt.Printf("Best   %s\n", hand.Describe())
	}

	if c.Samples <= 0 {
		return nil
	}
	equity, err := evaluator.EstimateEquity(context.Background(), hole, board, c.Opponents, c.Samples, c.Seed)
	if err != nil {
		return err
	}
	fmt.Printf("Equity %.1f%% against %d random opponent(s) over %d samples (win %d, tie %d)\n",
		equity.Share()*100, c.Opponents, equity.Samples, equity.Wins, equity.Ties)
	return nil
}
