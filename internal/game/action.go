package game

import (
	"context"
	"errors"
	"fmt"

	"github.com/VoltRadar/poker-simulation/internal/deck"
)

// ErrInvalidAction wraps every ValidationError.
var ErrInvalidAction = errors.New("invalid action")

// Reasons reported back to remote players when an action is rejected.
const (
	ReasonWrongAmount   = "Wrong amount of money"
	ReasonBadFormat     = "Incorrect dict format"
	ReasonWrongName     = "Wrong Name"
	ReasonJSON          = "Json Error"
	ReasonUnknownAction = "Unknown action"
)

// ActionKind is what a player chose to do on their turn
type ActionKind int

const (
	Bet  ActionKind = iota // covers check, call and raise
	Fold                   // leave the round
	Quit                   // fold and give up the seat
)

// String returns the single-letter wire code of the action.
func (k ActionKind) String() string {
	switch k {
	case Bet:
		return "B"
	case Fold:
		return "F"
	case Quit:
		return "Q"
	default:
		return "?"
	}
}

// ParseActionKind parses the wire code of an action.
func ParseActionKind(s string) (ActionKind, bool) {
	switch s {
	case "B", "b":
		return Bet, true
	case "F", "f":
		return Fold, true
	case "Q", "q":
		return Quit, true
	}
	return 0, false
}

// Action is one decision by one player. Amount is only meaningful for Bet.
type Action struct {
	Kind   ActionKind
	Amount int
}

// BetAction returns a Bet of amount chips.
func BetAction(amount int) Action { return Action{Kind: Bet, Amount: amount} }

// FoldAction returns a Fold.
func FoldAction() Action { return Action{Kind: Fold} }

// QuitAction returns a Quit.
func QuitAction() Action { return Action{Kind: Quit} }

func (a Action) String() string {
	if a.Kind == Bet {
		return fmt.Sprintf("B %d", a.Amount)
	}
	return a.Kind.String()
}

// ValidationError describes a rejected action. Reason is suitable for
// sending back to the player.
type ValidationError struct {
	Reason string
	Detail string
}

func (e *ValidationError) Error() string {
	if e.Detail == "" {
		return e.Reason
	}
	return e.Reason + ": " + e.Detail
}

func (e *ValidationError) Unwrap() error { return ErrInvalidAction }

// ValidateAction checks an action against the amount needed to call and the
// player's remaining stake. A bet must cover the call without exceeding the
// stake, unless it puts the player all-in.
func ValidateAction(a Action, call, stake int) error {
	switch a.Kind {
	case Fold, Quit:
		return nil
	case Bet:
		if a.Amount == stake && stake >= 0 {
			return nil
		}
		if a.Amount < call || a.Amount > stake || a.Amount < 0 {
			return &ValidationError{
				Reason: ReasonWrongAmount,
				Detail: fmt.Sprintf("bet %d outside [%d, %d]", a.Amount, call, stake),
			}
		}
		return nil
	default:
		return &ValidationError{Reason: ReasonUnknownAction, Detail: a.Kind.String()}
	}
}

// Request is everything a DecisionProvider is told when asked to act.
type Request struct {
	Player     string
	CallAmount int
	Stake      int
	MinBet     int
	Street     Street
	Hole       []deck.Card
	Community  []deck.Card
}

// Validate checks an action against this request.
func (r Request) Validate(a Action) error {
	return ValidateAction(a, r.CallAmount, r.Stake)
}

// DecisionProvider is the single point where the betting engine asks a seat
// what to do. Remote humans and AI players both implement it.
type DecisionProvider interface {
	Decide(ctx context.Context, req Request) Action
}

// DecisionFunc adapts a function to a DecisionProvider.
type DecisionFunc func(ctx context.Context, req Request) Action

func (f DecisionFunc) Decide(ctx context.Context, req Request) Action { return f(ctx, req) }

// Observer is implemented by providers that want to hear about table events.
// An error means the seat can no longer be reached and it is removed.
type Observer interface {
	Observe(ctx context.Context, ev Event) error
}
