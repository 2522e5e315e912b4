package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/VoltRadar/poker-simulation/internal/deck"
	"github.com/VoltRadar/poker-simulation/internal/game"
)

// ErrMalformed is returned for frames that are valid JSON but not a known
// message.
var ErrMalformed = errors.New("malformed message")

// Encode serialises a message for a single websocket frame.
func Encode(msg Message) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("encode %T: %w", msg, err)
	}
	return data, nil
}

// DecodeServer parses a frame sent by the server. The message kind is
// recognised from the JSON shape since frames carry no type tag.
func DecodeServer(data []byte) (Message, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty frame", ErrMalformed)
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, err
		}
		if s != NamePrompt {
			return nil, fmt.Errorf("%w: unexpected string %q", ErrMalformed, s)
		}
		return Prompt{}, nil

	case '[':
		var parts []json.RawMessage
		if err := json.Unmarshal(data, &parts); err != nil {
			return nil, err
		}
		switch len(parts) {
		case 2:
			var s Summary
			if err := json.Unmarshal(data, &s); err != nil {
				return nil, err
			}
			return s, nil
		case 3:
			var h HoleCards
			if err := json.Unmarshal(data, &h); err != nil {
				return nil, err
			}
			return h, nil
		}
		return nil, fmt.Errorf("%w: array of %d elements", ErrMalformed, len(parts))

	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(data, &obj); err != nil {
			return nil, err
		}
		return decodeObject(data, obj)
	}
	return nil, fmt.Errorf("%w: unexpected frame %q", ErrMalformed, data)
}

func decodeObject(data []byte, obj map[string]json.RawMessage) (Message, error) {
	has := func(key string) bool {
		_, ok := obj[key]
		return ok
	}

	var (
		msg Message
		err error
	)
	switch {
	case has("MakeBet"):
		var m Ask
		err = json.Unmarshal(data, &m)
		msg = m
	case has("cards"):
		var m Community
		err = json.Unmarshal(data, &m)
		msg = m
	case has("Start Round"):
		var m StartRound
		err = json.Unmarshal(data, &m)
		msg = m
	case has("EndRound"):
		var m EndRound
		err = json.Unmarshal(data, &m)
		msg = m
	case has("NoMoney"):
		msg = NoMoney{}
	case has("Accepted"), has("Error"):
		var m Reply
		err = json.Unmarshal(data, &m)
		msg = m
	case has("N") && has("Act"):
		var m Action
		err = json.Unmarshal(data, &m)
		msg = m
	default:
		keys := slices.Sorted(maps.Keys(obj))
		return nil, fmt.Errorf("%w: unknown keys %v", ErrMalformed, keys)
	}
	if err != nil {
		return nil, err
	}
	return msg, nil
}

// ParseAction validates a player's reply to an Ask. The returned error is a
// *game.ValidationError whose Reason is sent back to the player. Amounts are
// checked against the table separately.
func ParseAction(data []byte, expectedName string) (game.Action, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return game.Action{}, &game.ValidationError{Reason: game.ReasonJSON, Detail: err.Error()}
	}
	if _, ok := obj["N"]; !ok {
		return game.Action{}, &game.ValidationError{Reason: game.ReasonBadFormat, Detail: "missing N"}
	}
	if _, ok := obj["Act"]; !ok {
		return game.Action{}, &game.ValidationError{Reason: game.ReasonBadFormat, Detail: "missing Act"}
	}

	var name string
	if err := json.Unmarshal(obj["N"], &name); err != nil || name != expectedName {
		return game.Action{}, &game.ValidationError{
			Reason: game.ReasonWrongName,
			Detail: fmt.Sprintf("got %s, want %q", obj["N"], expectedName),
		}
	}

	var act string
	if err := json.Unmarshal(obj["Act"], &act); err != nil {
		return game.Action{}, &game.ValidationError{Reason: game.ReasonBadFormat, Detail: "Act is not a string"}
	}
	kind, ok := game.ParseActionKind(act)
	if !ok {
		return game.Action{}, &game.ValidationError{Reason: game.ReasonUnknownAction, Detail: act}
	}
	if kind != game.Bet {
		return game.Action{Kind: kind}, nil
	}

	raw, ok := obj["Am"]
	if !ok {
		return game.Action{}, &game.ValidationError{Reason: game.ReasonBadFormat, Detail: "bet without Am"}
	}
	var amount int
	if err := json.Unmarshal(raw, &amount); err != nil {
		return game.Action{}, &game.ValidationError{Reason: game.ReasonWrongAmount, Detail: string(raw)}
	}
	return game.BetAction(amount), nil
}

// ParseRegister extracts the name from a client's registration. The object
// must hold exactly one key, MyName, with a non-empty string.
func ParseRegister(data []byte) (string, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return "", fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	raw, ok := obj["MyName"]
	if !ok || len(obj) != 1 {
		return "", fmt.Errorf("%w: registration must only hold MyName", ErrMalformed)
	}
	var name string
	if err := json.Unmarshal(raw, &name); err != nil || name == "" {
		return "", fmt.Errorf("%w: MyName must be a non-empty string", ErrMalformed)
	}
	return name, nil
}

// SummaryFrom converts the table's seat list.
func SummaryFrom(seats []game.SeatSummary) Summary {
	s := Summary{Seats: make([]Seat, len(seats))}
	for i, seat := range seats {
		s.Seats[i] = Seat{Name: seat.Name, Kind: seat.Kind.String(), Stake: seat.Stake}
	}
	return s
}

// FromEvent translates a table event into the message sent to the player
// called self. It returns false for events that player is not told about.
func FromEvent(ev game.Event, self string) (Message, bool) {
	switch e := ev.(type) {
	case game.RoundStartEvent:
		return StartRound{Summary: SummaryFrom(e.Seats)}, true
	case game.HoleCardsEvent:
		if e.Player != self {
			return nil, false
		}
		return HoleCards{
			Cards:      deck.FormatCards(e.Hole),
			SmallBlind: e.SmallBlind,
			BigBlind:   e.BigBlind,
			MinBet:     e.MinBet,
		}, true
	case game.ActionEvent:
		if e.Player == self {
			return nil, false
		}
		return NewAction(e.Player, e.Action), true
	case game.CommunityEvent:
		return Community{Cards: deck.FormatCards(e.Cards)}, true
	case game.RoundEndEvent:
		holes := make(map[string]string, len(e.Holes))
		for name, cards := range e.Holes {
			holes[name] = deck.FormatCards(cards)
		}
		return EndRound{
			Holes:   holes,
			Pot:     e.Pot,
			Winners: slices.Clone(e.Winners),
			Hand:    e.Category.Code(),
			Board:   deck.FormatCards(e.Community),
		}, true
	case game.EliminatedEvent:
		if e.Player != self {
			return nil, false
		}
		return NoMoney{}, true
	}
	return nil, false
}
