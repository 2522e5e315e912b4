package deck

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidCard is returned when a card code cannot be parsed.
var ErrInvalidCard = errors.New("invalid card")

// Suit represents a card suit
type Suit int

const (
	Spades Suit = iota
	Clubs
	Diamonds
	Hearts
)

// Suits lists every suit in deck order.
var Suits = [...]Suit{Spades, Clubs, Diamonds, Hearts}

// String returns the symbol for a suit
func (s Suit) String() string {
	switch s {
	case Spades:
		return "♠"
	case Clubs:
		return "♣"
	case Diamonds:
		return "♦"
	case Hearts:
		return "♥"
	default:
		return "?"
	}
}

// Code returns the single-letter wire code for a suit.
func (s Suit) Code() byte {
	switch s {
	case Spades:
		return 'S'
	case Clubs:
		return 'C'
	case Diamonds:
		return 'D'
	case Hearts:
		return 'H'
	default:
		return '?'
	}
}

// IsRed returns true if the suit is red (Hearts or Diamonds)
func (s Suit) IsRed() bool {
	return s == Hearts || s == Diamonds
}

// Rank represents a card rank. Ranks are ordered Two (lowest) to Ace.
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

const rankCodes = "23456789TJQKA"

// String returns the single-character code of a rank
func (r Rank) String() string {
	if r < Two || r > Ace {
		return "?"
	}
	return string(rankCodes[r-Two])
}

// Card represents a playing card
type Card struct {
	Rank Rank
	Suit Suit
}

// NewCard creates a new card
func NewCard(rank Rank, suit Suit) Card {
	return Card{Rank: rank, Suit: suit}
}

// String returns the display form of a card (e.g., "A♠")
func (c Card) String() string {
	return c.Rank.String() + c.Suit.String()
}

// Code returns the two-character wire code, rank then suit (e.g., "AS").
func (c Card) Code() string {
	return c.Rank.String() + string(c.Suit.Code())
}

// IsRed returns true if the card is red
func (c Card) IsRed() bool {
	return c.Suit.IsRed()
}

// Index returns a dense 0..51 index for the card.
func (c Card) Index() int {
	return int(c.Suit)*13 + int(c.Rank-Two)
}

// Valid reports whether the card is one of the 52 standard cards.
func (c Card) Valid() bool {
	return c.Rank >= Two && c.Rank <= Ace && c.Suit >= Spades && c.Suit <= Hearts
}

func parseRank(b byte) (Rank, bool) {
	i := strings.IndexByte(rankCodes, b)
	if i < 0 {
		return 0, false
	}
	return Two + Rank(i), true
}

func parseSuit(b byte) (Suit, bool) {
	switch b {
	case 'S':
		return Spades, true
	case 'C':
		return Clubs, true
	case 'D':
		return Diamonds, true
	case 'H':
		return Hearts, true
	}
	return 0, false
}

// ParseCard parses a two-character card code. Both rank-suit ("AS") and
// suit-rank ("SA") orders are accepted, in any case.
func ParseCard(code string) (Card, error) {
	if len(code) != 2 {
		return Card{}, fmt.Errorf("%w: %q", ErrInvalidCard, code)
	}
	up := strings.ToUpper(code)
	if r, ok := parseRank(up[0]); ok {
		if s, ok := parseSuit(up[1]); ok {
			return Card{Rank: r, Suit: s}, nil
		}
	}
	if s, ok := parseSuit(up[0]); ok {
		if r, ok := parseRank(up[1]); ok {
			return Card{Rank: r, Suit: s}, nil
		}
	}
	return Card{}, fmt.Errorf("%w: %q", ErrInvalidCard, code)
}

// ParseCards parses a concatenation of two-character card codes such as
// "AHKH5C".
func ParseCards(s string) ([]Card, error) {
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("%w: odd length %q", ErrInvalidCard, s)
	}
	cards := make([]Card, 0, len(s)/2)
	for i := 0; i < len(s); i += 2 {
		c, err := ParseCard(s[i : i+2])
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}

// MustParseCards is like ParseCards but panics on error. Intended for tests
// and fixed tables.
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(err)
	}
	return cards
}

// FormatCards concatenates the wire codes of cards.
func FormatCards(cards []Card) string {
	var b strings.Builder
	b.Grow(len(cards) * 2)
	for _, c := range cards {
		b.WriteString(c.Code())
	}
	return b.String()
}
