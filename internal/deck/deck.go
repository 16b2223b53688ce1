// Package deck provides playing cards and a shuffled 52-card deck.
package deck

import rand "math/rand/v2"

// Size is the number of cards in a full deck
const Size = 52

// Deck is a depleting, shuffled sequence of cards. It is not safe for
// concurrent use; each table owns exactly one.
type Deck struct {
	cards []Card
	rng   *rand.Rand
}

// New creates a full, shuffled deck drawing randomness from rng
func New(rng *rand.Rand) *Deck {
	d := &Deck{
		cards: make([]Card, 0, Size),
		rng:   rng,
	}
	d.Reset()
	return d
}

// Reset rebuilds the 52-card set and shuffles it
func (d *Deck) Reset() {
	d.cards = d.cards[:0]
	for _, suit := range Suits {
		for rank := Two; rank <= Ace; rank++ {
			d.cards = append(d.cards, NewCard(suit, rank))
		}
	}
	d.shuffle()
}

// shuffle is an unbiased Fisher-Yates pass
func (d *Deck) shuffle() {
	for i := len(d.cards) - 1; i > 0; i-- {
		j := d.rng.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Deal removes and returns the top card. It returns false once the deck is exhausted.
func (d *Deck) Deal() (Card, bool) {
	if len(d.cards) == 0 {
		return Card{}, false
	}
	card := d.cards[len(d.cards)-1]
	d.cards = d.cards[:len(d.cards)-1]
	return card, true
}

// DealN deals up to n cards
func (d *Deck) DealN(n int) []Card {
	n = min(n, len(d.cards))
	cards := make([]Card, 0, n)
	for range n {
		card, _ := d.Deal()
		cards = append(cards, card)
	}
	return cards
}

// Burn discards the top card
func (d *Deck) Burn() {
	d.Deal()
}

// Remaining returns the number of undealt cards
func (d *Deck) Remaining() int {
	return len(d.cards)
}

// Stack places cards on top of the deck so the next deals return them in
// order. It exists for deterministic scenarios in tests and simulations;
// the caller is responsible for not duplicating cards.
func (d *Deck) Stack(cards ...Card) {
	for i := len(cards) - 1; i >= 0; i-- {
		d.cards = append(d.cards, cards[i])
	}
}
