package ai

import (
	"context"
	"math"
	rand "math/rand/v2"
	"slices"

	"github.com/VoltRadar/poker-simulation/internal/deck"
	"github.com/VoltRadar/poker-simulation/internal/game"
	"github.com/charmbracelet/log"
)

const (
	selfBluffChance = 0.1
	bluffFloor      = 0.6
)

// Agent is an automated player. It implements game.DecisionProvider and
// game.Observer and must only be used from the goroutine running the round.
type Agent struct {
	name   string
	sim    *Simulator
	rng    *rand.Rand
	logger *log.Logger

	cockiness float64
	conf      float64

	hole       []deck.Card
	minBet     int // table minimum bet for the round
	startStake int // own stake when the street began
	players    int // seats in the street, self included
	tracked    int // opponents at the start of the street

	opponents map[string]*OpponentModel
	bluffing  map[string]bool
	selfBluff bool
}

// NewAgent returns an agent with a random starting cockiness.
func NewAgent(name string, sim *Simulator, rng *rand.Rand, logger *log.Logger) *Agent {
	if logger == nil {
		logger = log.Default()
	}
	return &Agent{
		name:      name,
		sim:       sim,
		rng:       rng,
		logger:    logger.WithPrefix("ai").With("player", name),
		cockiness: (rng.Float64() - 0.3) * 0.2,
		opponents: make(map[string]*OpponentModel),
		bluffing:  make(map[string]bool),
	}
}

// Name returns the seat name.
func (a *Agent) Name() string { return a.name }

// Cockiness returns the current aggression trait.
func (a *Agent) Cockiness() float64 { return a.cockiness }

// Confidence returns the confidence from the last decision.
func (a *Agent) Confidence() float64 { return a.conf }

// Observe updates the agent's view of the table.
func (a *Agent) Observe(_ context.Context, ev game.Event) error {
	switch e := ev.(type) {
	case game.RoundStartEvent:
		a.hole = nil
		a.selfBluff = false
		clear(a.bluffing)
		clear(a.opponents)
	case game.HoleCardsEvent:
		if e.Player == a.name {
			a.hole = slices.Clone(e.Hole)
			a.minBet = e.MinBet
		}
	case game.StreetStartEvent:
		a.startStreet(e)
	case game.ActionEvent:
		m, ok := a.opponents[e.Player]
		if !ok || e.Player == a.name {
			return nil
		}
		switch e.Action.Kind {
		case game.Fold, game.Quit:
			delete(a.opponents, e.Player)
		case game.Bet:
			m.Bet += e.Action.Amount
		}
	case game.RoundEndEvent:
		a.updateCockiness(e.Won(a.name))
	case game.EliminatedEvent:
		if e.Player == a.name {
			a.logger.Info("Eliminated", "stake", e.Stake, "minBet", e.MinBet)
		}
	}
	return nil
}

func (a *Agent) startStreet(e game.StreetStartEvent) {
	clear(a.opponents)
	a.players = len(e.Players)
	if e.Street == game.Preflop || a.minBet == 0 {
		a.minBet = e.MinBet
	}
	for _, s := range e.Players {
		if s.Name == a.name {
			a.startStake = s.Stake
			continue
		}
		a.opponents[s.Name] = &OpponentModel{
			Name:       s.Name,
			StartStake: s.Stake,
			Bet:        e.Blinds[s.Name],
		}
	}
	a.tracked = len(a.opponents)
	if a.players > 0 {
		a.conf = 1 / float64(a.players)
	}
}

func (a *Agent) updateCockiness(won bool) {
	nudge := 0.2 * a.rng.Float64()
	if !won {
		nudge = -nudge
	}
	a.cockiness = min(max(a.cockiness+nudge, 0.1), 0.9)
}

// Decide chooses an action for the current turn.
func (a *Agent) Decide(ctx context.Context, req game.Request) game.Action {
	call := min(req.CallAmount, req.Stake)
	if len(a.opponents) == 0 || req.Stake == 0 {
		return game.BetAction(call)
	}

	hole := a.hole
	if len(req.Hole) == 2 {
		hole = req.Hole
	}
	est := a.sim.Simulate(ctx, a.rng, hole, req.Community, len(a.opponents))
	sample := est.Equity() + (a.rng.Float64()-0.5)*a.cockiness
	sample = min(max(sample, 0), 1)
	if len(a.opponents) == a.tracked {
		a.conf = (a.conf + sample) / 2
	} else {
		a.conf = sample
	}

	if !a.selfBluff && a.rng.Float64() < selfBluffChance {
		a.selfBluff = true
		a.logger.Debug("Bluffing this round")
	}
	if a.selfBluff && a.conf < bluffFloor {
		a.conf = a.conf/3 + bluffFloor
	}

	action, reason := a.choose(req)
	a.logger.Debug("Decision",
		"street", req.Street,
		"hole", deck.FormatCards(hole),
		"equity", est.Equity(),
		"samples", est.Samples,
		"confidence", a.conf,
		"call", req.CallAmount,
		"stake", req.Stake,
		"action", action,
		"reason", reason)
	return action
}

// choose applies the betting policy to the current confidence.
func (a *Agent) choose(req game.Request) (game.Action, string) {
	stake := req.Stake
	call := req.CallAmount
	players := max(a.players, len(a.opponents)+1)

	if a.conf < 0.8/float64(players) {
		return game.FoldAction(), "confidence below table threshold"
	}
	confs := opponentConfidences(a.opponents, a.bluffing, a.minBet, a.rng)
	best := 0.0
	for _, c := range confs {
		best = max(best, c)
	}
	if a.conf < 0.8*best {
		return game.FoldAction(), "an opponent is too confident"
	}

	committed := a.startStake - stake
	target := int(math.Round((a.handValue(stake) - float64(committed)) * (0.75 + a.rng.Float64()/4)))

	if target != 0 && float64(committed)/math.Abs(float64(target)) > 20 && stake >= call {
		return game.BetAction(call), "target too small to matter"
	}
	target = max(target, 0)
	if call == 0 && target == 0 {
		return game.BetAction(0), "check"
	}
	if target == 0 {
		return game.FoldAction(), "hand not worth a bet"
	}
	ratio := float64(target) / float64(max(call, 1))
	if call > 0 && ratio > 0.8 && ratio < 1.2 {
		return game.BetAction(min(call, stake)), "target close to call"
	}
	// Only a call dearer than the hand value is worth calling as a bluff.
	if call > target && a.leadersBluffing() {
		return game.BetAction(min(call, stake)), "calling a bluff"
	}
	if call > 0 && ratio < 0.8 {
		return game.FoldAction(), "call too expensive"
	}
	if target > stake {
		return game.BetAction(stake), "all in"
	}
	return game.BetAction(target), "value bet"
}

// handValue is how many chips the agent thinks the hand is worth.
func (a *Agent) handValue(stake int) float64 {
	power := 0.6 + 0.2*a.cockiness
	scale := math.Pow(a.conf, power)
	if a.startStake < shortStackBets*a.minBet {
		return 0.2 * float64(stake) * scale
	}
	return 0.2 * float64(shortStackBets*a.minBet+a.startStake) / 2 * scale
}

// leadersBluffing reports whether every opponent at the highest bet is
// suspected of bluffing.
func (a *Agent) leadersBluffing() bool {
	high := 0
	for _, m := range a.opponents {
		high = max(high, m.Bet)
	}
	for name, m := range a.opponents {
		if m.Bet == high && !a.bluffing[name] {
			return false
		}
	}
	return len(a.opponents) > 0
}
