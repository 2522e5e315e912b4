package ai

import (
	rand "math/rand/v2"
	"sync"

	"github.com/VoltRadar/poker-simulation/internal/game"
	"github.com/VoltRadar/poker-simulation/internal/randutil"
	"github.com/charmbracelet/log"
)

// NamePrefix marks automated seats in the table summary.
const NamePrefix = "AI "

// Names is the pool AI seats are named from.
var Names = []string{
	"Bob", "Michel", "John", "Alex", "Booth", "Vincent", "Angela", "Michaela",
	"Camille", "Tamara", "Emily", "Meghan", "Barb", "Ava", "Ashley", "Morgan",
	"Mackenzie", "Madison", "Jordan", "Dylan", "Alexis", "Addison", "Haley",
	"Isabella", "Grace",
}

// PickName returns a random unused AI name, or "" when the pool is exhausted.
func PickName(rng *rand.Rand, taken func(string) bool) string {
	for _, i := range rng.Perm(len(Names)) {
		name := NamePrefix + Names[i]
		if taken == nil || !taken(name) {
			return name
		}
	}
	return ""
}

// Factory creates AI seats for a table. It implements game.SeatFiller.
type Factory struct {
	Simulator *Simulator
	Logger    *log.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// NewFactory returns a Factory whose agents draw their randomness from seed.
func NewFactory(sim *Simulator, seed int64, logger *log.Logger) *Factory {
	return &Factory{Simulator: sim, Logger: logger, rng: randutil.New(seed)}
}

// NewSeat returns a new AI player, or nil when no name is free.
func (f *Factory) NewSeat(taken func(string) bool, stake, _ int) *game.Player {
	f.mu.Lock()
	defer f.mu.Unlock()

	name := PickName(f.rng, taken)
	if name == "" {
		return nil
	}
	agent := NewAgent(name, f.Simulator, randutil.New(f.rng.Int64()), f.Logger)
	return game.NewPlayer(name, game.AI, stake, agent)
}
