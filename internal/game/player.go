package game

import (
	"slices"

	"github.com/VoltRadar/poker-simulation/internal/deck"
)

// Kind distinguishes remote humans from table-run AI seats
type Kind int

const (
	Human Kind = iota
	AI
)

func (k Kind) String() string {
	switch k {
	case Human:
		return "Human"
	case AI:
		return "AI"
	default:
		return "Unknown"
	}
}

// Status is a seat's standing within the current round
type Status int

const (
	Active Status = iota
	Folded
	Left // quit or lost its connection; the seat is removed from the table
	Eliminated
)

func (s Status) String() string {
	return [...]string{"active", "folded", "left", "eliminated"}[s]
}

// Hand holds a player's private hole cards and their view of the board.
type Hand struct {
	Hole      []deck.Card
	Community []deck.Card
}

// Cards returns hole and community cards together.
func (h Hand) Cards() []deck.Card {
	out := make([]deck.Card, 0, len(h.Hole)+len(h.Community))
	out = append(out, h.Hole...)
	return append(out, h.Community...)
}

// Clear empties both hole and community cards.
func (h *Hand) Clear() {
	h.Hole = nil
	h.Community = nil
}

// Player is a single seat at the table. Humans and AIs share this record and
// differ only in the DecisionProvider attached to them.
type Player struct {
	Name     string
	Kind     Kind
	Stake    int
	Hand     Hand
	Status   Status
	Provider DecisionProvider
}

// NewPlayer creates an active player.
func NewPlayer(name string, kind Kind, stake int, provider DecisionProvider) *Player {
	return &Player{
		Name:     name,
		Kind:     kind,
		Stake:    stake,
		Provider: provider,
	}
}

// InPlay reports whether the player can still win the current round.
func (p *Player) InPlay() bool {
	return p.Status == Active
}

// SeatSummary is the public view of a seat sent at round start.
type SeatSummary struct {
	Name  string
	Kind  Kind
	Stake int
}

func summarize(players []*Player) []SeatSummary {
	out := make([]SeatSummary, len(players))
	for i, p := range players {
		out[i] = SeatSummary{Name: p.Name, Kind: p.Kind, Stake: p.Stake}
	}
	return out
}

func inPlay(players []*Player) []*Player {
	return slices.DeleteFunc(slices.Clone(players), func(p *Player) bool {
		return !p.InPlay()
	})
}
