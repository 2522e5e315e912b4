package ai

import (
	"math"
	"testing"

	"github.com/VoltRadar/poker-simulation/internal/randutil"
	"github.com/stretchr/testify/assert"
)

func TestOpponentConfidence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		model OpponentModel
		want  float64
	}{
		{"nothing committed", OpponentModel{StartStake: 1000}, 0},
		{"everything committed", OpponentModel{StartStake: 1000, Bet: 1000}, 1},
		{"quarter committed", OpponentModel{StartStake: 1000, Bet: 250}, math.Pow(0.25, 0.7)},
		{"started all in", OpponentModel{StartStake: 0}, 0.65},
		{"short stack discounted", OpponentModel{StartStake: 100, Bet: 100}, 0.65},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, tt.model.Confidence(10), 1e-9)
		})
	}
}

func TestBluffChance(t *testing.T) {
	t.Parallel()

	assert.Zero(t, bluffChance(0.69))
	assert.InDelta(t, 0.05, bluffChance(0.7), 1e-9)
	assert.InDelta(t, 0.10, bluffChance(0.85), 1e-9)
	assert.InDelta(t, 0.15, bluffChance(1.0), 1e-9)
}

func TestSuspectedBluffersAreHalved(t *testing.T) {
	t.Parallel()

	models := map[string]*OpponentModel{
		"A": {Name: "A", StartStake: 1000, Bet: 1000},
		"B": {Name: "B", StartStake: 1000, Bet: 250},
	}
	bluffing := map[string]bool{"A": true}

	confs := opponentConfidences(models, bluffing, 10, randutil.New(1))
	assert.InDelta(t, 0.5, confs["A"], 1e-9)
	assert.InDelta(t, math.Pow(0.25, 0.7), confs["B"], 1e-9)
	assert.False(t, bluffing["B"], "unconfident opponents are never suspected")
}

func TestBluffSuspicionRate(t *testing.T) {
	t.Parallel()

	rng := randutil.New(42)
	flagged := 0
	const trials = 4000
	for range trials {
		models := map[string]*OpponentModel{"A": {Name: "A", StartStake: 1000, Bet: 1000}}
		bluffing := map[string]bool{}
		opponentConfidences(models, bluffing, 10, rng)
		if bluffing["A"] {
			flagged++
		}
	}
	assert.InDelta(t, 0.15, float64(flagged)/trials, 0.03)
}
