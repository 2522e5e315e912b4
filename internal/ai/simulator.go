// Package ai implements the automated player: a Monte-Carlo hand strength
// estimator, a model of how confident each opponent is, and the betting
// policy that combines them.
package ai

import (
	"context"
	"math"
	rand "math/rand/v2"
	"time"

	"github.com/VoltRadar/poker-simulation/internal/deck"
	"github.com/VoltRadar/poker-simulation/internal/evaluator"
	"github.com/VoltRadar/poker-simulation/internal/randutil"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"
)

// Estimate is the outcome of a simulation run.
type Estimate struct {
	Wins    int
	Ties    int
	Samples int
}

// WinRate returns the fraction of samples won outright.
func (e Estimate) WinRate() float64 {
	if e.Samples == 0 {
		return 0
	}
	return float64(e.Wins) / float64(e.Samples)
}

// TieRate returns the fraction of samples that ended in a shared pot.
func (e Estimate) TieRate() float64 {
	if e.Samples == 0 {
		return 0
	}
	return float64(e.Ties) / float64(e.Samples)
}

// Equity counts wins as 1 and ties as 0.5.
func (e Estimate) Equity() float64 {
	if e.Samples == 0 {
		return 0
	}
	return (float64(e.Wins) + 0.5*float64(e.Ties)) / float64(e.Samples)
}

// ConfidenceInterval returns the 95% interval around Equity.
func (e Estimate) ConfidenceInterval() (lower, upper float64) {
	if e.Samples == 0 {
		return 0, 0
	}
	eq := e.Equity()
	margin := 1.96 * math.Sqrt(eq*(1-eq)/float64(e.Samples))
	return math.Max(0, eq-margin), math.Min(1, eq+margin)
}

func (e Estimate) add(o Estimate) Estimate {
	return Estimate{Wins: e.Wins + o.Wins, Ties: e.Ties + o.Ties, Samples: e.Samples + o.Samples}
}

// Simulator estimates hand strength by dealing out the unknown cards at
// random and running a showdown against random opponents.
type Simulator struct {
	Clock       quartz.Clock
	MinSamples  int
	MinDuration time.Duration
	// Workers splits the sample floor across goroutines. Zero or one keeps
	// the simulation on the calling goroutine.
	Workers int
}

// NewSimulator returns a single-threaded simulator with the standard limits
// of 100 samples and one second.
func NewSimulator() *Simulator {
	return &Simulator{
		Clock:       quartz.NewReal(),
		MinSamples:  100,
		MinDuration: time.Second,
		Workers:     1,
	}
}

// Simulate samples until both MinSamples and MinDuration have been reached,
// or ctx is done. It never fails: invalid inputs and zero opponents produce
// an empty Estimate.
func (s *Simulator) Simulate(ctx context.Context, rng *rand.Rand, hole, community []deck.Card, opponents int) Estimate {
	if opponents < 1 || len(hole) != 2 || len(community) > 5 {
		return Estimate{}
	}
	known := append(append([]deck.Card(nil), hole...), community...)
	pool := deck.NewDeck(nil)
	pool.RemoveAll(known)
	if pool.Remaining() != 52-len(known) {
		return Estimate{} // duplicate or invalid known cards
	}
	if pool.Remaining() < 2*opponents+5-len(community) {
		return Estimate{}
	}

	clock := s.Clock
	if clock == nil {
		clock = quartz.NewReal()
	}
	start := clock.Now()

	workers := max(s.Workers, 1)
	if workers == 1 {
		return s.run(ctx, clock, start, rng, pool.Cards(), hole, community, opponents, s.MinSamples)
	}

	seed := rng.Int64()
	floor := (s.MinSamples + workers - 1) / workers
	results := make([]Estimate, workers)
	var g errgroup.Group
	for i := range workers {
		g.Go(func() error {
			results[i] = s.run(ctx, clock, start, randutil.Derive(seed, i), pool.Cards(), hole, community, opponents, floor)
			return nil
		})
	}
	_ = g.Wait()

	var total Estimate
	for _, r := range results {
		total = total.add(r)
	}
	return total
}

func (s *Simulator) run(ctx context.Context, clock quartz.Clock, start time.Time, rng *rand.Rand,
	pool, hole, community []deck.Card, opponents, minSamples int,
) Estimate {
	var est Estimate
	missing := 5 - len(community)
	board := make([]deck.Card, 5)
	copy(board, community)
	hands := make([][]deck.Card, opponents+1)
	for i := range hands {
		hands[i] = make([]deck.Card, 7)
	}

	for {
		if est.Samples >= minSamples && clock.Since(start) >= s.MinDuration {
			return est
		}
		if ctx.Err() != nil {
			return est
		}

		// Partial Fisher-Yates: only the cards we deal need shuffling.
		need := missing + 2*opponents
		for i := range need {
			j := i + rng.IntN(len(pool)-i)
			pool[i], pool[j] = pool[j], pool[i]
		}
		copy(board[len(community):], pool[:missing])
		dealt := pool[missing:need]

		copy(hands[0], hole)
		copy(hands[0][2:], board)
		for o := range opponents {
			copy(hands[o+1], dealt[2*o:2*o+2])
			copy(hands[o+1][2:], board)
		}

		est.Samples++
		res, err := evaluator.Showdown(hands)
		if err != nil {
			continue
		}
		if res.Winners[0] == 0 {
			if res.IsTie() {
				est.Ties++
			} else {
				est.Wins++
			}
		}
	}
}
