package ai

import (
	"io"
	"strings"
	"testing"

	"github.com/VoltRadar/poker-simulation/internal/game"
	"github.com/VoltRadar/poker-simulation/internal/randutil"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPickNameAvoidsTakenNames(t *testing.T) {
	t.Parallel()

	rng := randutil.New(1)
	free := NamePrefix + "Grace"
	taken := func(name string) bool { return name != free }
	assert.Equal(t, free, PickName(rng, taken))

	assert.Empty(t, PickName(rng, func(string) bool { return true }))

	name := PickName(rng, nil)
	assert.True(t, strings.HasPrefix(name, NamePrefix))
}

func TestFactoryNewSeat(t *testing.T) {
	t.Parallel()

	f := NewFactory(fixedSimulator(t, 10), 3, log.New(io.Discard))
	seen := map[string]bool{}
	for range 5 {
		p := f.NewSeat(func(name string) bool { return seen[name] }, 500, 10)
		require.NotNil(t, p)
		assert.False(t, seen[p.Name], "names are unique")
		seen[p.Name] = true

		assert.Equal(t, game.AI, p.Kind)
		assert.Equal(t, 500, p.Stake)
		assert.IsType(t, &Agent{}, p.Provider)
	}

	assert.Nil(t, f.NewSeat(func(string) bool { return true }, 500, 10))
}
