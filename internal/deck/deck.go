package deck

import (
	rand "math/rand/v2"
	"slices"
)

// Size is the number of cards in a full deck.
const Size = 52

// Deck represents an ordered pile of playing cards
type Deck struct {
	cards []Card
	rng   *rand.Rand
}

// NewDeck creates a standard 52-card deck in suit/rank order. The rng drives
// every Shuffle; callers seed it through randutil so games are reproducible.
func NewDeck(rng *rand.Rand) *Deck {
	d := &Deck{
		cards: make([]Card, 0, Size),
		rng:   rng,
	}
	d.fill()
	return d
}

// NewShuffledDeck returns a full deck that has already been shuffled.
func NewShuffledDeck(rng *rand.Rand) *Deck {
	d := NewDeck(rng)
	d.Shuffle()
	return d
}

// NewStackedDeck returns a deck holding exactly cards, drawn in the given
// order. Used for replaying known deals.
func NewStackedDeck(cards []Card, rng *rand.Rand) *Deck {
	return &Deck{cards: slices.Clone(cards), rng: rng}
}

func (d *Deck) fill() {
	d.cards = d.cards[:0]
	for _, suit := range Suits {
		for rank := Two; rank <= Ace; rank++ {
			d.cards = append(d.cards, NewCard(rank, suit))
		}
	}
}

// Shuffle randomizes the order of cards in the deck
func (d *Deck) Shuffle() {
	for i := len(d.cards) - 1; i > 0; i-- {
		j := d.rng.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Draw removes and returns the top card. It reports false on an empty deck.
func (d *Deck) Draw() (Card, bool) {
	if len(d.cards) == 0 {
		return Card{}, false
	}
	card := d.cards[0]
	d.cards = d.cards[1:]
	return card, true
}

// DrawN draws up to n cards; fewer are returned if the deck runs out.
func (d *Deck) DrawN(n int) []Card {
	n = min(n, len(d.cards))
	cards := make([]Card, n)
	copy(cards, d.cards[:n])
	d.cards = d.cards[n:]
	return cards
}

// Remove takes a specific card out of the deck, reporting whether it was present.
func (d *Deck) Remove(card Card) bool {
	i := slices.Index(d.cards, card)
	if i < 0 {
		return false
	}
	d.cards = slices.Delete(d.cards, i, i+1)
	return true
}

// RemoveAll removes every listed card that is present.
func (d *Deck) RemoveAll(cards []Card) {
	for _, c := range cards {
		d.Remove(c)
	}
}

// Remaining returns the number of cards left in the deck
func (d *Deck) Remaining() int {
	return len(d.cards)
}

// Cards returns a copy of the remaining cards, top first.
func (d *Deck) Cards() []Card {
	return slices.Clone(d.cards)
}

// Reset restores the full 52 cards and shuffles them
func (d *Deck) Reset() {
	d.fill()
	d.Shuffle()
}
