package evaluator

import (
	"testing"

	"github.com/VoltRadar/poker-simulation/internal/deck"
	"github.com/VoltRadar/poker-simulation/internal/randutil"
	"github.com/paulhankin/poker"
	"github.com/stretchr/testify/require"
)

func toOracleCard(t *testing.T, c deck.Card) poker.Card {
	t.Helper()

	var suit poker.Suit
	switch c.Suit {
	case deck.Clubs:
		suit = poker.Club
	case deck.Diamonds:
		suit = poker.Diamond
	case deck.Hearts:
		suit = poker.Heart
	case deck.Spades:
		suit = poker.Spade
	}
	rank := poker.Rank(c.Rank)
	if c.Rank == deck.Ace {
		rank = 1
	}
	card, err := poker.MakeCard(suit, rank)
	require.NoError(t, err)
	return card
}

func oracleScore(t *testing.T, cards []deck.Card) int16 {
	t.Helper()

	var hand [7]poker.Card
	for i, c := range cards {
		hand[i] = toOracleCard(t, c)
	}
	return poker.Eval7(&hand)
}

func sign(x int) int {
	switch {
	case x < 0:
		return -1
	case x > 0:
		return 1
	}
	return 0
}

// Pairs of random seven-card hands must be ordered the same way by Compare
// as by an independent evaluator.
func TestCompareAgreesWithReferenceEvaluator(t *testing.T) {
	t.Parallel()

	rng := randutil.New(2024)
	for i := range 2000 {
		d := deck.NewShuffledDeck(rng)
		board := d.DrawN(5)
		a := append(d.DrawN(2), board...)
		b := append(d.DrawN(2), board...)

		got := Compare(MustEvaluate(a), MustEvaluate(b))
		want := sign(int(oracleScore(t, a)) - int(oracleScore(t, b)))
		require.Equal(t, want, got, "iteration %d: %s vs %s", i, deck.FormatCards(a), deck.FormatCards(b))
	}
}
