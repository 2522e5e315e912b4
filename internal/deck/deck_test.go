package deck

import (
	"testing"

	"github.com/VoltRadar/poker-simulation/internal/randutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDeckHasUniqueCards(t *testing.T) {
	t.Parallel()

	d := NewShuffledDeck(randutil.New(1))
	require.Equal(t, 52, d.Remaining())

	seen := make(map[Card]bool)
	for _, c := range d.Cards() {
		require.True(t, c.Valid(), "invalid card %v", c)
		require.False(t, seen[c], "duplicate card %v", c)
		seen[c] = true
	}
}

func TestShuffleIsDeterministic(t *testing.T) {
	t.Parallel()

	a := NewShuffledDeck(randutil.New(42))
	b := NewShuffledDeck(randutil.New(42))
	c := NewShuffledDeck(randutil.New(43))

	assert.Equal(t, a.Cards(), b.Cards())
	assert.NotEqual(t, a.Cards(), c.Cards())
}

func TestDrawUntilEmpty(t *testing.T) {
	t.Parallel()

	d := NewDeck(randutil.New(1))
	first, ok := d.Draw()
	require.True(t, ok)
	assert.Equal(t, NewCard(Two, Spades), first)

	rest := d.DrawN(100)
	assert.Len(t, rest, 51)
	assert.Equal(t, 0, d.Remaining())

	_, ok = d.Draw()
	assert.False(t, ok)
}

func TestRemove(t *testing.T) {
	t.Parallel()

	d := NewDeck(randutil.New(1))
	ace := NewCard(Ace, Hearts)

	assert.True(t, d.Remove(ace))
	assert.False(t, d.Remove(ace))
	assert.Equal(t, 51, d.Remaining())
	assert.NotContains(t, d.Cards(), ace)

	d.RemoveAll(MustParseCards("2S3S"))
	assert.Equal(t, 49, d.Remaining())

	d.Reset()
	assert.Equal(t, 52, d.Remaining())
}
