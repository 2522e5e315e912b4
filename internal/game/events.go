package game

import (
	"slices"

	"github.com/VoltRadar/poker-simulation/internal/deck"
	"github.com/VoltRadar/poker-simulation/internal/evaluator"
	"github.com/google/uuid"
)

// Street identifies a betting pass within a round
type Street int

const (
	Preflop Street = iota
	Flop
	Turn
	River
)

func (s Street) String() string {
	return [...]string{"preflop", "flop", "turn", "river"}[s]
}

// communityCount is the number of board cards visible during a street.
func (s Street) communityCount() int {
	return [...]int{0, 3, 4, 5}[s]
}

// EventType names a table event
type EventType string

const (
	EventTypeRoundStart  EventType = "round_start"
	EventTypeHoleCards   EventType = "hole_cards"
	EventTypeStreetStart EventType = "street_start"
	EventTypeAction      EventType = "action"
	EventTypeCommunity   EventType = "community"
	EventTypeRoundEnd    EventType = "round_end"
	EventTypeEliminated  EventType = "eliminated"
)

// Event is anything an Observer can be told about.
type Event interface {
	EventType() EventType
}

// RoundStartEvent is broadcast before cards are dealt.
type RoundStartEvent struct {
	RoundID uuid.UUID
	Seats   []SeatSummary
}

func (RoundStartEvent) EventType() EventType { return EventTypeRoundStart }

// HoleCardsEvent is sent privately to each player after the deal.
type HoleCardsEvent struct {
	Player     string
	Hole       []deck.Card
	SmallBlind string
	BigBlind   string
	MinBet     int
}

func (HoleCardsEvent) EventType() EventType { return EventTypeHoleCards }

// StreetStartEvent is broadcast when a betting pass begins. Stakes are
// snapshotted before any blind is posted.
type StreetStartEvent struct {
	Street  Street
	Players []SeatSummary
	Blinds  map[string]int
	MinBet  int
}

func (StreetStartEvent) EventType() EventType { return EventTypeStreetStart }

// ActionEvent reports one accepted action to every other seat.
type ActionEvent struct {
	Player string
	Action Action
}

func (ActionEvent) EventType() EventType { return EventTypeAction }

// CommunityEvent carries the full board as visible after a reveal.
type CommunityEvent struct {
	Street Street
	Cards  []deck.Card
}

func (CommunityEvent) EventType() EventType { return EventTypeCommunity }

// RoundEndEvent summarises a settled round.
type RoundEndEvent struct {
	RoundID   uuid.UUID
	Holes     map[string][]deck.Card // players still in at showdown
	Pot       int
	Winners   []string
	Category  evaluator.Category
	Community []deck.Card
	Payouts   map[string]int
}

func (RoundEndEvent) EventType() EventType { return EventTypeRoundEnd }

// Won reports whether name is among the winners.
func (e RoundEndEvent) Won(name string) bool {
	return slices.Contains(e.Winners, name)
}

// EliminatedEvent tells a player they no longer have enough chips to play.
type EliminatedEvent struct {
	Player string
	Stake  int
	MinBet int
}

func (EliminatedEvent) EventType() EventType { return EventTypeEliminated }
