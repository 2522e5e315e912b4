package ai

import (
	"maps"
	"math"
	rand "math/rand/v2"
	"slices"
)

const (
	shortStackBets     = 20   // stakes below this many minimum bets count as short
	shortStackDiscount = 0.65 // confidence multiplier for short stacks
	bluffThreshold     = 0.7
)

// OpponentModel tracks what one opponent has done during the current street.
type OpponentModel struct {
	Name       string
	StartStake int // stake when the street began, before any blind
	Bet        int // chips committed this street, blinds included
}

// Confidence estimates how strong the opponent believes their hand is from
// the share of their stake they have committed. An opponent who started the
// street all-in is treated as fully confident. Short stacks are discounted
// since they are pushed into betting.
func (m OpponentModel) Confidence(minBet int) float64 {
	conf := 1.0
	if m.StartStake > 0 {
		conf = math.Pow(float64(m.Bet)/float64(m.StartStake), 0.7)
	}
	if m.StartStake < shortStackBets*minBet {
		conf *= shortStackDiscount
	}
	return conf
}

// bluffChance is the probability of suspecting a bluff at a given
// confidence: 5% at 0.7 rising linearly to 15% at 1.0.
func bluffChance(conf float64) float64 {
	if conf < bluffThreshold {
		return 0
	}
	return 0.05 * (1 + 2*(conf-bluffThreshold)/(1-bluffThreshold))
}

// opponentConfidences returns every tracked opponent's effective confidence.
// Confident opponents may be newly suspected of bluffing; suspicion lasts
// for the rest of the round and halves the opponent's confidence.
func opponentConfidences(models map[string]*OpponentModel, bluffing map[string]bool, minBet int, rng *rand.Rand) map[string]float64 {
	out := make(map[string]float64, len(models))
	for _, name := range slices.Sorted(maps.Keys(models)) {
		conf := models[name].Confidence(minBet)
		if !bluffing[name] && conf >= bluffThreshold && rng.Float64() < bluffChance(conf) {
			bluffing[name] = true
		}
		if bluffing[name] {
			conf *= 0.5
		}
		out[name] = conf
	}
	return out
}
