package evaluator

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/VoltRadar/poker-simulation/internal/deck"
)

var (
	// ErrCardCount is returned when a hand has fewer than 5 or more than 7 cards.
	ErrCardCount = errors.New("hand must contain 5 to 7 cards")
	// ErrDuplicateCard is returned when the same card appears twice.
	ErrDuplicateCard = errors.New("duplicate card in hand")
)

// Category is the class of a five-card poker hand
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

// String returns the display name of a category
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

// Code returns the short category name sent to clients at the end of a round.
func (c Category) Code() string {
	switch c {
	case HighCard:
		return "High"
	case OnePair:
		return "Pair"
	case TwoPair:
		return "2Pair"
	case ThreeOfAKind:
		return "3OAK"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "FullH"
	case FourOfAKind:
		return "4OAK"
	case StraightFlush:
		return "StraightF"
	case RoyalFlush:
		return "RoyalF"
	default:
		return "Unknown"
	}
}

// ParseCategoryCode is the inverse of Category.Code.
func ParseCategoryCode(code string) (Category, bool) {
	for c := HighCard; c <= RoyalFlush; c++ {
		if c.Code() == code {
			return c, true
		}
	}
	return 0, false
}

// HandRank is the value of the best five-card hand found in a set of cards.
// Two ranks are equal exactly when Category and Tiebreak are equal.
type HandRank struct {
	Category Category
	Tiebreak []deck.Rank // compared lexicographically, highest first
	Cards    []deck.Card // the five cards that make up the hand
}

// String returns a string representation of the hand
func (h HandRank) String() string {
	cards := make([]string, len(h.Cards))
	for i, c := range h.Cards {
		cards[i] = c.String()
	}
	return fmt.Sprintf("%s [%s]", h.Category, strings.Join(cards, " "))
}

// Compare returns -1 if a is weaker than b, 1 if stronger and 0 on a tie.
func Compare(a, b HandRank) int {
	if a.Category != b.Category {
		if a.Category < b.Category {
			return -1
		}
		return 1
	}
	for i := 0; i < len(a.Tiebreak) && i < len(b.Tiebreak); i++ {
		if a.Tiebreak[i] != b.Tiebreak[i] {
			if a.Tiebreak[i] < b.Tiebreak[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// Beats reports whether h is strictly stronger than other.
func (h HandRank) Beats(other HandRank) bool {
	return Compare(h, other) > 0
}

// Evaluate returns the best five-card hand among 5 to 7 cards. The result
// depends only on the set of cards, never on their order.
func Evaluate(cards []deck.Card) (HandRank, error) {
	if len(cards) < 5 || len(cards) > 7 {
		return HandRank{}, fmt.Errorf("%w: got %d", ErrCardCount, len(cards))
	}

	sorted := slices.Clone(cards)
	slices.SortFunc(sorted, func(a, b deck.Card) int {
		return a.Index() - b.Index()
	})
	for i := 1; i < len(sorted); i++ {
		if sorted[i] == sorted[i-1] {
			return HandRank{}, fmt.Errorf("%w: %s", ErrDuplicateCard, sorted[i])
		}
	}

	var best HandRank
	found := false
	for five := range Combinations(sorted, 5) {
		hr := evaluate5(five)
		if !found || hr.Beats(best) {
			best = hr
			found = true
		}
	}
	return best, nil
}

// MustEvaluate is like Evaluate but panics on invalid input.
func MustEvaluate(cards []deck.Card) HandRank {
	hr, err := Evaluate(cards)
	if err != nil {
		panic(err)
	}
	return hr
}

type rankGroup struct {
	rank  deck.Rank
	count int
}

// evaluate5 classifies exactly five distinct cards.
func evaluate5(five []deck.Card) HandRank {
	var counts [deck.Ace + 1]int
	flush := true
	for i, c := range five {
		counts[c.Rank]++
		if i > 0 && c.Suit != five[0].Suit {
			flush = false
		}
	}

	// Groups ordered by size, then rank, both descending. For every category
	// except straights this ordering is already the tiebreak key.
	groups := make([]rankGroup, 0, 5)
	for r := deck.Ace; r >= deck.Two; r-- {
		if counts[r] > 0 {
			groups = append(groups, rankGroup{rank: r, count: counts[r]})
		}
	}
	slices.SortStableFunc(groups, func(a, b rankGroup) int {
		return b.count - a.count
	})

	tiebreak := make([]deck.Rank, len(groups))
	for i, g := range groups {
		tiebreak[i] = g.rank
	}

	ordered := make([]deck.Card, 0, 5)
	for _, g := range groups {
		for _, c := range five {
			if c.Rank == g.rank {
				ordered = append(ordered, c)
			}
		}
	}

	high, straight := straightHigh(groups)
	if straight {
		if high == deck.Five {
			// Ace plays low: move it to the bottom.
			ordered = append(ordered[1:], ordered[0])
		}
		key := []deck.Rank{high}
		switch {
		case flush && high == deck.Ace:
			return HandRank{Category: RoyalFlush, Tiebreak: key, Cards: ordered}
		case flush:
			return HandRank{Category: StraightFlush, Tiebreak: key, Cards: ordered}
		default:
			return HandRank{Category: Straight, Tiebreak: key, Cards: ordered}
		}
	}

	var cat Category
	switch {
	case groups[0].count == 4:
		cat = FourOfAKind
	case groups[0].count == 3 && groups[1].count == 2:
		cat = FullHouse
	case flush:
		cat = Flush
	case groups[0].count == 3:
		cat = ThreeOfAKind
	case groups[0].count == 2 && groups[1].count == 2:
		cat = TwoPair
	case groups[0].count == 2:
		cat = OnePair
	default:
		cat = HighCard
	}
	return HandRank{Category: cat, Tiebreak: tiebreak, Cards: ordered}
}

// straightHigh reports whether five distinct ranks (descending) form a
// straight and returns its high card. The wheel A-2-3-4-5 is Five-high.
func straightHigh(groups []rankGroup) (deck.Rank, bool) {
	if len(groups) != 5 {
		return 0, false
	}
	if groups[0].rank-groups[4].rank == 4 {
		return groups[0].rank, true
	}
	if groups[0].rank == deck.Ace && groups[1].rank == deck.Five && groups[4].rank == deck.Two {
		return deck.Five, true
	}
	return 0, false
}
