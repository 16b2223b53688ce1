// Package evaluator scores Texas Hold'em hands.
//
// Evaluate picks the best five cards out of two hole cards and three to five
// community cards by enumerating every 5-card subset (at most 21) and keeping
// the one with the highest Value. Values are directly comparable: a higher
// category always wins, and within a category the reordered ranks decide
// lexicographically. Equal values are true ties.
package evaluator

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/lox/holdem-engine/internal/deck"
)

// Category is the class of a five-card hand, ordered from weakest to strongest
type Category int

const (
	HighCard Category = iota
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

// String returns a human-readable category name
func (c Category) String() string {
	switch c {
	case HighCard:
		return "High Card"
	case OnePair:
		return "One Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	case RoyalFlush:
		return "Royal Flush"
	default:
		return "Unknown"
	}
}

const (
	categoryWeight = 1_000_000
	handSize       = 5
	maxCards       = 7
)

var (
	ErrNotEnoughCards = errors.New("at least 5 cards are required")
	ErrTooManyCards   = errors.New("at most 7 cards can be evaluated")
)

// Hand is the best five-card hand found for a player
type Hand struct {
	Category Category
	Value    int
	// Cards holds the five cards ordered by tie-break significance
	Cards []deck.Card
}

// Compare returns 1 if h beats other, -1 if it loses and 0 on a tie
func (h Hand) Compare(other Hand) int {
	switch {
	case h.Value > other.Value:
		return 1
	case h.Value < other.Value:
		return -1
	default:
		return 0
	}
}

// Describe returns e.g. "Full House (K♠ K♥ K♦ 4♣ 4♠)"
func (h Hand) Describe() string {
	parts := make([]string, len(h.Cards))
	for i, c := range h.Cards {
		parts[i] = c.String()
	}
	return fmt.Sprintf("%s (%s)", h.Category, strings.Join(parts, " "))
}

// Evaluate returns the best five-card hand from hole and community cards
func Evaluate(hole, community []deck.Card) (Hand, error) {
	all := make([]deck.Card, 0, len(hole)+len(community))
	all = append(all, hole...)
	all = append(all, community...)
	return EvaluateCards(all)
}

// EvaluateCards returns the best five-card hand from 5 to 7 cards
func EvaluateCards(cards []deck.Card) (Hand, error) {
	if len(cards) < handSize {
		return Hand{}, fmt.Errorf("%w: got %d", ErrNotEnoughCards, len(cards))
	}
	if len(cards) > maxCards {
		return Hand{}, fmt.Errorf("%w: got %d", ErrTooManyCards, len(cards))
	}

	var best Hand
	found := false
	combo := make([]deck.Card, 0, handSize)

	var walk func(start int)
	walk = func(start int) {
		if len(combo) == handSize {
			h := scoreFive(combo)
			if !found || h.Value > best.Value {
				best = h
				found = true
			}
			return
		}
		// Leave room for the cards still needed
		for i := start; i <= len(cards)-(handSize-len(combo)); i++ {
			combo = append(combo, cards[i])
			walk(i + 1)
			combo = combo[:len(combo)-1]
		}
	}
	walk(0)

	return best, nil
}

// scoreFive categorises exactly five cards and computes their comparable value
func scoreFive(five []deck.Card) Hand {
	sorted := slices.Clone(five)
	slices.SortFunc(sorted, func(a, b deck.Card) int {
		return b.Value() - a.Value()
	})

	counts := make(map[deck.Rank]int, handSize)
	for _, c := range sorted {
		counts[c.Rank]++
	}
	groups := make([]int, 0, len(counts))
	for _, n := range counts {
		groups = append(groups, n)
	}
	slices.SortFunc(groups, func(a, b int) int { return b - a })

	flush := isFlush(sorted)
	straight, wheel := isStraight(sorted)

	var category Category
	switch {
	case flush && straight:
		if sorted[0].Rank == deck.Ace && sorted[1].Rank == deck.King {
			category = RoyalFlush
		} else {
			category = StraightFlush
		}
	case groups[0] == 4:
		category = FourOfAKind
	case groups[0] == 3 && groups[1] == 2:
		category = FullHouse
	case flush:
		category = Flush
	case straight:
		category = Straight
	case groups[0] == 3:
		category = ThreeOfAKind
	case groups[0] == 2 && groups[1] == 2:
		category = TwoPair
	case groups[0] == 2:
		category = OnePair
	default:
		category = HighCard
	}

	ordered := slices.Clone(sorted)
	slices.SortStableFunc(ordered, func(a, b deck.Card) int {
		if counts[a.Rank] != counts[b.Rank] {
			return counts[b.Rank] - counts[a.Rank]
		}
		return b.Value() - a.Value()
	})

	weights := make([]int, handSize)
	for i, c := range ordered {
		weights[i] = c.Value()
	}
	if wheel {
		// The Ace plays low: 5-4-3-2-A
		ordered = append(slices.Clone(ordered[1:]), ordered[0])
		weights = []int{5, 4, 3, 2, 1}
	}

	return Hand{
		Category: category,
		Value:    int(category)*categoryWeight + positional(weights),
		Cards:    ordered,
	}
}

// positional encodes ranks as base-15 digits, most significant first
func positional(weights []int) int {
	v := 0
	for _, w := range weights {
		v = v*15 + w
	}
	return v
}

func isFlush(cards []deck.Card) bool {
	for _, c := range cards[1:] {
		if c.Suit != cards[0].Suit {
			return false
		}
	}
	return true
}

// isStraight expects cards sorted descending and also reports the A-5-4-3-2 wheel
func isStraight(sorted []deck.Card) (straight, wheel bool) {
	consecutive := true
	for i := 0; i < handSize-1; i++ {
		if sorted[i].Value()-sorted[i+1].Value() != 1 {
			consecutive = false
			break
		}
	}
	if consecutive {
		return true, false
	}

	if sorted[0].Rank == deck.Ace &&
		sorted[1].Rank == deck.Five &&
		sorted[2].Rank == deck.Four &&
		sorted[3].Rank == deck.Three &&
		sorted[4].Rank == deck.Two {
		return true, true
	}
	return false, false
}
