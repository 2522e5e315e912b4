package ai

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/VoltRadar/poker-simulation/internal/deck"
	"github.com/VoltRadar/poker-simulation/internal/game"
	"github.com/VoltRadar/poker-simulation/internal/randutil"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAgent(t *testing.T, seed int64) *Agent {
	t.Helper()
	a := NewAgent("AI Test", fixedSimulator(t, 50), randutil.New(seed), log.New(io.Discard))
	a.cockiness = 0
	return a
}

// seatAgent walks a through the events of a new round up to the given street.
func seatAgent(t *testing.T, a *Agent, hole string, street game.Street, stake int, opponents map[string]int) {
	t.Helper()
	ctx := context.Background()
	seats := []game.SeatSummary{{Name: a.Name(), Kind: game.AI, Stake: stake}}
	for name, s := range opponents {
		seats = append(seats, game.SeatSummary{Name: name, Kind: game.Human, Stake: s})
	}
	require.NoError(t, a.Observe(ctx, game.RoundStartEvent{RoundID: uuid.New(), Seats: seats}))
	require.NoError(t, a.Observe(ctx, game.HoleCardsEvent{Player: a.Name(), Hole: deck.MustParseCards(hole), MinBet: 10}))
	require.NoError(t, a.Observe(ctx, game.StreetStartEvent{Street: street, Players: seats, MinBet: 10}))
}

func TestTrivialDecisions(t *testing.T) {
	t.Parallel()

	a := newTestAgent(t, 1)
	assert.Equal(t, game.BetAction(10), a.Decide(context.Background(), game.Request{CallAmount: 10, Stake: 100}),
		"no opponents tracked")

	seatAgent(t, a, "AHKH", game.Preflop, 0, map[string]int{"Bob": 1000})
	assert.Equal(t, game.BetAction(0), a.Decide(context.Background(), game.Request{CallAmount: 10, Stake: 0}),
		"no chips left")
}

func TestStreetStartTracksOpponents(t *testing.T) {
	t.Parallel()

	a := newTestAgent(t, 1)
	ctx := context.Background()
	seats := []game.SeatSummary{
		{Name: "Alice", Stake: 500},
		{Name: "Bob", Stake: 800},
		{Name: a.Name(), Stake: 1000},
	}
	require.NoError(t, a.Observe(ctx, game.StreetStartEvent{
		Street:  game.Preflop,
		Players: seats,
		Blinds:  map[string]int{"Alice": 5, "Bob": 10},
		MinBet:  10,
	}))

	require.Len(t, a.opponents, 2)
	assert.Equal(t, OpponentModel{Name: "Alice", StartStake: 500, Bet: 5}, *a.opponents["Alice"])
	assert.Equal(t, 1000, a.startStake)
	assert.InDelta(t, 1.0/3, a.Confidence(), 1e-9)

	require.NoError(t, a.Observe(ctx, game.ActionEvent{Player: "Alice", Action: game.BetAction(20)}))
	assert.Equal(t, 25, a.opponents["Alice"].Bet)

	require.NoError(t, a.Observe(ctx, game.ActionEvent{Player: "Bob", Action: game.FoldAction()}))
	assert.NotContains(t, a.opponents, "Bob")

	require.NoError(t, a.Observe(ctx, game.ActionEvent{Player: "Alice", Action: game.QuitAction()}))
	assert.Empty(t, a.opponents, "a seat that drops out is no longer an opponent")
}

func TestConfidenceBlending(t *testing.T) {
	t.Parallel()

	a := newTestAgent(t, 5)
	seatAgent(t, a, "ASKS", game.River, 1000, map[string]int{"Bob": 1000, "Carol": 1000})
	req := game.Request{
		Player:    a.Name(),
		Stake:     1000,
		Street:    game.River,
		Hole:      deck.MustParseCards("ASKS"),
		Community: deck.MustParseCards("QSJSTS2H3D"),
	}

	// A royal flush always wins, so every sample is 1.
	a.Decide(context.Background(), req)
	assert.InDelta(t, (1.0/3+1)/2, a.Confidence(), 1e-9, "averaged with the street prior")

	require.NoError(t, a.Observe(context.Background(), game.ActionEvent{Player: "Bob", Action: game.FoldAction()}))
	a.Decide(context.Background(), req)
	assert.InDelta(t, 1.0, a.Confidence(), 1e-9, "replaced once an opponent dropped out")
}

func TestStrongHandBets(t *testing.T) {
	t.Parallel()

	a := newTestAgent(t, 9)
	seatAgent(t, a, "ASKS", game.River, 1000, map[string]int{"Bob": 1000})
	action := a.Decide(context.Background(), game.Request{
		Stake:     1000,
		Street:    game.River,
		Hole:      deck.MustParseCards("ASKS"),
		Community: deck.MustParseCards("QSJSTS2H3D"),
	})
	require.Equal(t, game.Bet, action.Kind)
	assert.Positive(t, action.Amount)
	assert.LessOrEqual(t, action.Amount, 1000)
}

// policyAgent is an agent mid-street with a fixed confidence against Bob.
func policyAgent(t *testing.T, conf float64, startStake, bobStart, bobBet int) *Agent {
	t.Helper()
	a := newTestAgent(t, 11)
	a.conf = conf
	a.minBet = 10
	a.players = 2
	a.startStake = startStake
	a.opponents["Bob"] = &OpponentModel{Name: "Bob", StartStake: bobStart, Bet: bobBet}
	a.tracked = 1
	return a
}

func TestBettingPolicy(t *testing.T) {
	t.Parallel()

	t.Run("folds below table threshold", func(t *testing.T) {
		t.Parallel()
		a := policyAgent(t, 0.1, 1000, 1000, 0)
		action, _ := a.choose(game.Request{Stake: 1000})
		assert.Equal(t, game.FoldAction(), action)
	})

	t.Run("folds to a more confident opponent", func(t *testing.T) {
		t.Parallel()
		// Bob committed half his stake: confidence 0.5^0.7 ≈ 0.616.
		a := policyAgent(t, 0.45, 1000, 1000, 500)
		action, _ := a.choose(game.Request{Stake: 1000, CallAmount: 500})
		assert.Equal(t, game.FoldAction(), action)
	})

	t.Run("value bet sized from hand value", func(t *testing.T) {
		t.Parallel()
		// Hand value 0.2 * (20*10 + 1000) / 2 = 120, scaled by 0.75 to 1.
		a := policyAgent(t, 1, 1000, 1000, 0)
		action, _ := a.choose(game.Request{Stake: 1000})
		require.Equal(t, game.Bet, action.Kind)
		assert.GreaterOrEqual(t, action.Amount, 90)
		assert.LessOrEqual(t, action.Amount, 120)
	})

	t.Run("calls when target is near the call", func(t *testing.T) {
		t.Parallel()
		a := policyAgent(t, 1, 1000, 1000, 105)
		action, _ := a.choose(game.Request{Stake: 1000, CallAmount: 105})
		assert.Equal(t, game.BetAction(105), action)
	})

	t.Run("folds when the call is too expensive", func(t *testing.T) {
		t.Parallel()
		a := policyAgent(t, 1, 1000, 1000, 500)
		action, _ := a.choose(game.Request{Stake: 1000, CallAmount: 500})
		assert.Equal(t, game.FoldAction(), action)
	})

	t.Run("calls a suspected bluff", func(t *testing.T) {
		t.Parallel()
		a := policyAgent(t, 1, 1000, 1000, 500)
		a.bluffing["Bob"] = true
		action, _ := a.choose(game.Request{Stake: 1000, CallAmount: 500})
		assert.Equal(t, game.BetAction(500), action)
	})

	t.Run("bluff call is capped at the stake", func(t *testing.T) {
		t.Parallel()
		a := policyAgent(t, 1, 300, 1000, 500)
		a.bluffing["Bob"] = true
		action, _ := a.choose(game.Request{Stake: 300, CallAmount: 500})
		assert.Equal(t, game.BetAction(300), action)
	})
}

func TestCockinessStaysClamped(t *testing.T) {
	t.Parallel()

	a := newTestAgent(t, 3)
	ctx := context.Background()
	for range 50 {
		require.NoError(t, a.Observe(ctx, game.RoundEndEvent{Winners: []string{a.Name()}}))
	}
	assert.LessOrEqual(t, a.Cockiness(), 0.9)
	assert.Greater(t, a.Cockiness(), 0.5)

	for range 50 {
		require.NoError(t, a.Observe(ctx, game.RoundEndEvent{Winners: []string{"Bob"}}))
	}
	assert.GreaterOrEqual(t, a.Cockiness(), 0.1)
	assert.Less(t, a.Cockiness(), 0.5)
}

func TestRoundStartResetsBluffs(t *testing.T) {
	t.Parallel()

	a := newTestAgent(t, 3)
	a.bluffing["Bob"] = true
	a.selfBluff = true
	require.NoError(t, a.Observe(context.Background(), game.RoundStartEvent{}))
	assert.Empty(t, a.bluffing)
	assert.False(t, a.selfBluff)
}

func TestAgentsPlayLegalRounds(t *testing.T) {
	t.Parallel()

	cfg := game.DefaultConfig()
	cfg.RequireHuman = false
	cfg.AISeats = 3
	sim := &Simulator{Clock: quartz.NewReal(), MinSamples: 20}
	table := game.NewTable(cfg,
		game.WithRand(randutil.New(17)),
		game.WithSeatFiller(NewFactory(sim, 17, log.New(io.Discard))),
		game.WithLogger(log.New(io.Discard)),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, table.Run(ctx))

	assert.Positive(t, table.CompletedRounds())
	for _, s := range table.Summary() {
		assert.GreaterOrEqual(t, s.Stake, 0, s.Name)
		assert.Equal(t, game.AI, s.Kind)
	}
}
