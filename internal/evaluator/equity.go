package evaluator

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/lox/holdem-engine/internal/deck"
	"github.com/lox/holdem-engine/internal/randutil"
)

var ErrInvalidEquityInput = errors.New("invalid equity input")

// equityWorkers is fixed rather than tied to the CPU count so a seed gives
// the same estimate on every machine
const equityWorkers = 8

// Equity is the outcome of a Monte Carlo run against random opponent hands
type Equity struct {
	Wins    int
	Ties    int
	Samples int
}

// Share returns the fraction of the pot won on average, counting ties as half
func (e Equity) Share() float64 {
	if e.Samples == 0 {
		return 0
	}
	return (float64(e.Wins) + float64(e.Ties)/2) / float64(e.Samples)
}

// EstimateEquity deals out the rest of the board against a number of random
// opponents and counts how often hole wins outright or ties. Work is split
// across workers that each derive their own generator from seed, so a given
// seed always produces the same result.
func EstimateEquity(ctx context.Context, hole, board []deck.Card, opponents, samples int, seed int64) (Equity, error) {
	if len(hole) != 2 || len(board) > 5 || opponents < 1 || samples < 1 {
		return Equity{}, fmt.Errorf("%w: %d hole, %d board, %d opponents, %d samples",
			ErrInvalidEquityInput, len(hole), len(board), opponents, samples)
	}
	if 2+len(board)+2*opponents+(5-len(board)) > deck.Size {
		return Equity{}, fmt.Errorf("%w: not enough cards for %d opponents", ErrInvalidEquityInput, opponents)
	}

	available := remaining(append(hole[:len(hole):len(hole)], board...))
	if len(available) != deck.Size-len(hole)-len(board) {
		return Equity{}, fmt.Errorf("%w: duplicate cards", ErrInvalidEquityInput)
	}

	workers := min(equityWorkers, samples)
	results := make([]Equity, workers)

	g, ctx := errgroup.WithContext(ctx)
	for w := range workers {
		n := samples / workers
		if w < samples%workers {
			n++
		}
		g.Go(func() error {
			res, err := runWorker(ctx, hole, board, available, opponents, n, seed, w)
			results[w] = res
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return Equity{}, err
	}

	var total Equity
	for _, r := range results {
		total.Wins += r.Wins
		total.Ties += r.Ties
		total.Samples += r.Samples
	}
	return total, nil
}

func runWorker(ctx context.Context, hole, board, available []deck.Card, opponents, samples int, seed int64, worker int) (Equity, error) {
	rng := randutil.Derive(seed, worker)
	pool := make([]deck.Card, len(available))
	need := 5 - len(board) + 2*opponents

	hero := make([]deck.Card, 0, 7)
	villain := make([]deck.Card, 0, 7)
	full := make([]deck.Card, 5)
	copy(full, board)

	var res Equity
	for i := range samples {
		if i%1024 == 0 && ctx.Err() != nil {
			return res, ctx.Err()
		}

		// Partial Fisher-Yates over a fresh copy draws the cards we need
		copy(pool, available)
		for j := range need {
			k := j + rng.IntN(len(pool)-j)
			pool[j], pool[k] = pool[k], pool[j]
		}
		copy(full[len(board):], pool[:5-len(board)])
		opp := pool[5-len(board) : need]

		hero = append(append(hero[:0], hole...), full...)
		best, err := EvaluateCards(hero)
		if err != nil {
			return res, err
		}

		outcome := 1
		for o := range opponents {
			villain = append(append(villain[:0], opp[2*o:2*o+2]...), full...)
			h, err := EvaluateCards(villain)
			if err != nil {
				return res, err
			}
			outcome = min(outcome, best.Compare(h))
			if outcome < 0 {
				break
			}
		}

		switch outcome {
		case 1:
			res.Wins++
		case 0:
			res.Ties++
		}
		res.Samples++
	}
	return res, nil
}

// remaining returns the cards of a full deck that are not in used
func remaining(used []deck.Card) []deck.Card {
	seen := make(map[deck.Card]bool, len(used))
	for _, c := range used {
		seen[c] = true
	}
	out := make([]deck.Card, 0, deck.Size)
	for _, s := range deck.Suits {
		for r := deck.Two; r <= deck.Ace; r++ {
			if c := deck.NewCard(s, r); !seen[c] {
				out = append(out, c)
			}
		}
	}
	return out
}
