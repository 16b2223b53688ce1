package deck

import (
	"fmt"
	"strings"
)

// Suit represents a card suit
type Suit int

const (
	Hearts Suit = iota
	Diamonds
	Clubs
	Spades
)

// Suits lists every suit in deck-building order
var Suits = [...]Suit{Hearts, Diamonds, Clubs, Spades}

// String returns the glyph for the suit
func (s Suit) String() string {
	switch s {
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	case Spades:
		return "♠"
	default:
		return "?"
	}
}

// Letter returns the single-letter notation used by ParseCards
func (s Suit) Letter() byte {
	switch s {
	case Hearts:
		return 'h'
	case Diamonds:
		return 'd'
	case Clubs:
		return 'c'
	case Spades:
		return 's'
	default:
		return '?'
	}
}

// Rank represents a card rank. The numeric value is the card's strength with Ace high.
type Rank int

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// String returns the single-character rank notation
func (r Rank) String() string {
	switch {
	case r >= Two && r <= Nine:
		return string(rune('0' + int(r)))
	case r == Ten:
		return "T"
	case r == Jack:
		return "J"
	case r == Queen:
		return "Q"
	case r == King:
		return "K"
	case r == Ace:
		return "A"
	default:
		return "?"
	}
}

// Card is an immutable playing card
type Card struct {
	Suit Suit
	Rank Rank
}

// NewCard creates a new card
func NewCard(suit Suit, rank Rank) Card {
	return Card{Suit: suit, Rank: rank}
}

// Value maps the rank to 2-14, Ace high
func (c Card) Value() int {
	return int(c.Rank)
}

// IsZero reports whether c is the zero "no card" value
func (c Card) IsZero() bool {
	return c == Card{}
}

// String returns the card with its suit glyph (e.g. "A♠")
func (c Card) String() string {
	return c.Rank.String() + c.Suit.String()
}

// Notation returns the two-letter form accepted by ParseCard (e.g. "As")
func (c Card) Notation() string {
	return c.Rank.String() + string(c.Suit.Letter())
}

// MarshalText encodes the card in two-letter notation
func (c Card) MarshalText() ([]byte, error) {
	if c.IsZero() {
		return nil, fmt.Errorf("cannot encode empty card")
	}
	return []byte(c.Notation()), nil
}

// UnmarshalText decodes two-letter notation
func (c *Card) UnmarshalText(text []byte) error {
	card, err := ParseCard(string(text))
	if err != nil {
		return err
	}
	*c = card
	return nil
}

// ParseCard parses a single card such as "As", "td", "10h" or "Q♠"
func ParseCard(s string) (Card, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Card{}, fmt.Errorf("empty card")
	}

	runes := []rune(s)
	suit, err := parseSuit(runes[len(runes)-1])
	if err != nil {
		return Card{}, err
	}
	rank, err := parseRank(string(runes[:len(runes)-1]))
	if err != nil {
		return Card{}, err
	}
	return Card{Suit: suit, Rank: rank}, nil
}

// ParseCards parses a run of cards, e.g. "AsKsQsJsTs" or "As Ks 10h"
func ParseCards(s string) ([]Card, error) {
	cards := []Card{}
	for _, field := range strings.Fields(s) {
		runes := []rune(field)
		for i := 0; i < len(runes); {
			// "10" is the only two-character rank
			width := 2
			if runes[i] == '1' {
				width = 3
			}
			if i+width > len(runes) {
				return nil, fmt.Errorf("incomplete card %q at position %d", string(runes[i:]), i)
			}
			card, err := ParseCard(string(runes[i : i+width]))
			if err != nil {
				return nil, fmt.Errorf("position %d: %w", i, err)
			}
			cards = append(cards, card)
			i += width
		}
	}
	return cards, nil
}

// MustParseCards parses cards and panics on error (for tests)
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(fmt.Sprintf("failed to parse cards '%s': %v", s, err))
	}
	return cards
}

func parseRank(s string) (Rank, error) {
	switch strings.ToUpper(s) {
	case "A":
		return Ace, nil
	case "K":
		return King, nil
	case "Q":
		return Queen, nil
	case "J":
		return Jack, nil
	case "T", "10":
		return Ten, nil
	}
	if len(s) == 1 && s[0] >= '2' && s[0] <= '9' {
		return Rank(s[0] - '0'), nil
	}
	return 0, fmt.Errorf("invalid rank %q", s)
}

func parseSuit(r rune) (Suit, error) {
	switch r {
	case 'h', 'H', '♥':
		return Hearts, nil
	case 'd', 'D', '♦':
		return Diamonds, nil
	case 'c', 'C', '♣':
		return Clubs, nil
	case 's', 'S', '♠':
		return Spades, nil
	default:
		return 0, fmt.Errorf("invalid suit %q", r)
	}
}
