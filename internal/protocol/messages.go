// Package protocol defines the JSON messages exchanged between the table
// server and remote players. Every websocket text frame carries exactly one
// message.
package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/VoltRadar/poker-simulation/internal/game"
)

// Registration strings.
const (
	NamePrompt = "Send Name"

	ReasonNameTaken    = "Name Taken"
	ReasonNotValidDict = "Not valid dict"
	ReasonTableFull    = "Table Full"
)

// Message is one of the server-to-client messages below.
type Message interface {
	isMessage()
}

// Prompt asks a newly connected client for its name.
type Prompt struct{}

// Ask requests an action from a player.
type Ask struct {
	Name    string `json:"N"`
	MakeBet int    `json:"MakeBet"` // amount needed to call
	Money   int    `json:"yMoney"`  // player's remaining stake
}

// Action is a player's move. Clients send it in reply to Ask and the server
// forwards accepted actions to every other seat.
type Action struct {
	Name   string `json:"N"`
	Act    string `json:"Act"`
	Amount *int   `json:"Am,omitempty"`
}

// Reply acknowledges an Action or a Register message.
type Reply struct {
	Accepted *bool  `json:"Accepted,omitempty"`
	Error    string `json:"Error,omitempty"`
}

// Community carries every revealed community card as concatenated codes.
type Community struct {
	Cards string `json:"cards"`
}

// Seat is one row of a Summary.
type Seat struct {
	Name  string
	Kind  string // "Human" or "AI"
	Stake int
}

// Summary lists every seated and waiting player. It is encoded as
// [count, [[name, kind, stake], ...]].
type Summary struct {
	Seats []Seat
}

// StartRound announces a new round with the current summary.
type StartRound struct {
	Summary Summary `json:"Start Round"`
}

// HoleCards privately tells a player their cards and who posts the blinds.
// It is encoded as [cards, [small, big], minBet].
type HoleCards struct {
	Cards      string
	SmallBlind string
	BigBlind   string
	MinBet     int
}

// EndRound reports the showdown. It is encoded as
// {"EndRound": [holes, pot, winners, hand, board]}.
type EndRound struct {
	Holes   map[string]string
	Pot     int
	Winners []string
	Hand    string
	Board   string
}

// NoMoney tells a player they have been eliminated.
type NoMoney struct{}

// Register is the client's answer to Prompt.
type Register struct {
	MyName string `json:"MyName"`
}

func (Prompt) isMessage()     {}
func (Ask) isMessage()        {}
func (Action) isMessage()     {}
func (Reply) isMessage()      {}
func (Community) isMessage()  {}
func (Summary) isMessage()    {}
func (StartRound) isMessage() {}
func (HoleCards) isMessage()  {}
func (EndRound) isMessage()   {}
func (NoMoney) isMessage()    {}

// Accepted returns a positive Reply.
func Accepted() Reply {
	ok := true
	return Reply{Accepted: &ok}
}

// Rejected returns the reply sent when an Action is refused.
func Rejected(reason string) Reply {
	return Reply{Error: reason}
}

// RegistrationRejected returns the reply sent when a name is refused.
func RegistrationRejected(reason string) Reply {
	ok := false
	return Reply{Accepted: &ok, Error: reason}
}

// IsAccepted reports whether the reply accepted the request.
func (r Reply) IsAccepted() bool {
	return r.Accepted != nil && *r.Accepted
}

// NewAction builds the wire form of a game action.
func NewAction(name string, a game.Action) Action {
	msg := Action{Name: name, Act: a.Kind.String()}
	if a.Kind == game.Bet {
		amount := a.Amount
		msg.Amount = &amount
	}
	return msg
}

// GameAction converts the message into a game action.
func (a Action) GameAction() (game.Action, error) {
	kind, ok := game.ParseActionKind(a.Act)
	if !ok {
		return game.Action{}, fmt.Errorf("%w: unknown action %q", ErrMalformed, a.Act)
	}
	if kind != game.Bet {
		return game.Action{Kind: kind}, nil
	}
	if a.Amount == nil {
		return game.Action{}, fmt.Errorf("%w: bet without amount", ErrMalformed)
	}
	return game.BetAction(*a.Amount), nil
}

func (Prompt) MarshalJSON() ([]byte, error) {
	return json.Marshal(NamePrompt)
}

func (NoMoney) MarshalJSON() ([]byte, error) {
	return []byte(`{"NoMoney":""}`), nil
}

func (s Seat) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{s.Name, s.Kind, s.Stake})
}

func (s *Seat) UnmarshalJSON(data []byte) error {
	var row []json.RawMessage
	if err := json.Unmarshal(data, &row); err != nil {
		return err
	}
	if len(row) != 3 {
		return fmt.Errorf("%w: seat has %d fields", ErrMalformed, len(row))
	}
	if err := json.Unmarshal(row[0], &s.Name); err != nil {
		return err
	}
	if err := json.Unmarshal(row[1], &s.Kind); err != nil {
		return err
	}
	return json.Unmarshal(row[2], &s.Stake)
}

func (s Summary) MarshalJSON() ([]byte, error) {
	seats := s.Seats
	if seats == nil {
		seats = []Seat{}
	}
	return json.Marshal([]any{len(seats), seats})
}

func (s *Summary) UnmarshalJSON(data []byte) error {
	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return err
	}
	if len(parts) != 2 {
		return fmt.Errorf("%w: summary has %d parts", ErrMalformed, len(parts))
	}
	var count int
	if err := json.Unmarshal(parts[0], &count); err != nil {
		return err
	}
	if err := json.Unmarshal(parts[1], &s.Seats); err != nil {
		return err
	}
	if count != len(s.Seats) {
		return fmt.Errorf("%w: summary count %d for %d seats", ErrMalformed, count, len(s.Seats))
	}
	return nil
}

func (h HoleCards) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{h.Cards, []string{h.SmallBlind, h.BigBlind}, h.MinBet})
}

func (h *HoleCards) UnmarshalJSON(data []byte) error {
	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return err
	}
	if len(parts) != 3 {
		return fmt.Errorf("%w: hole cards have %d parts", ErrMalformed, len(parts))
	}
	var blinds []string
	if err := json.Unmarshal(parts[0], &h.Cards); err != nil {
		return err
	}
	if err := json.Unmarshal(parts[1], &blinds); err != nil {
		return err
	}
	if len(blinds) != 2 {
		return fmt.Errorf("%w: expected two blind names", ErrMalformed)
	}
	h.SmallBlind, h.BigBlind = blinds[0], blinds[1]
	return json.Unmarshal(parts[2], &h.MinBet)
}

func (e EndRound) MarshalJSON() ([]byte, error) {
	holes := e.Holes
	if holes == nil {
		holes = map[string]string{}
	}
	winners := e.Winners
	if winners == nil {
		winners = []string{}
	}
	return json.Marshal(map[string][]any{
		"EndRound": {holes, e.Pot, winners, e.Hand, e.Board},
	})
}

func (e *EndRound) UnmarshalJSON(data []byte) error {
	var wrapper struct {
		EndRound []json.RawMessage `json:"EndRound"`
	}
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return err
	}
	parts := wrapper.EndRound
	if len(parts) != 5 {
		return fmt.Errorf("%w: end of round has %d parts", ErrMalformed, len(parts))
	}
	for i, dst := range []any{&e.Holes, &e.Pot, &e.Winners, &e.Hand, &e.Board} {
		if err := json.Unmarshal(parts[i], dst); err != nil {
			return err
		}
	}
	return nil
}
