package protocol

import (
	"errors"
	"testing"

	"github.com/VoltRadar/poker-simulation/internal/deck"
	"github.com/VoltRadar/poker-simulation/internal/evaluator"
	"github.com/VoltRadar/poker-simulation/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func amount(n int) *int { return &n }

func TestEncodeWireShapes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		msg  Message
		want string
	}{
		{"prompt", Prompt{}, `"Send Name"`},
		{"ask", Ask{Name: "Bob", MakeBet: 10, Money: 990}, `{"N":"Bob","MakeBet":10,"yMoney":990}`},
		{"bet", Action{Name: "Bob", Act: "B", Amount: amount(20)}, `{"N":"Bob","Act":"B","Am":20}`},
		{"fold", Action{Name: "Bob", Act: "F"}, `{"N":"Bob","Act":"F"}`},
		{"accepted", Accepted(), `{"Accepted":true}`},
		{"rejected", Rejected(game.ReasonWrongName), `{"Error":"Wrong Name"}`},
		{"name taken", RegistrationRejected(ReasonNameTaken), `{"Accepted":false,"Error":"Name Taken"}`},
		{"community", Community{Cards: "2H7H9H"}, `{"cards":"2H7H9H"}`},
		{"empty summary", Summary{}, `[0,[]]`},
		{
			"start round",
			StartRound{Summary: Summary{Seats: []Seat{{"Ann", "Human", 100}, {"AI Bob", "AI", 50}}}},
			`{"Start Round":[2,[["Ann","Human",100],["AI Bob","AI",50]]]}`,
		},
		{
			"hole cards",
			HoleCards{Cards: "AHKD", SmallBlind: "Ann", BigBlind: "Bob", MinBet: 10},
			`["AHKD",["Ann","Bob"],10]`,
		},
		{
			"end round",
			EndRound{
				Holes:   map[string]string{"Ann": "AH4H", "Bob": "KD9C"},
				Pot:     20,
				Winners: []string{"Ann"},
				Hand:    "Flush",
				Board:   "2H7H9HKC3S",
			},
			`{"EndRound":[{"Ann":"AH4H","Bob":"KD9C"},20,["Ann"],"Flush","2H7H9HKC3S"]}`,
		},
		{"no money", NoMoney{}, `{"NoMoney":""}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			data, err := Encode(tt.msg)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(data))
		})
	}
}

func TestDecodeServerRecognisesEveryMessage(t *testing.T) {
	t.Parallel()

	msgs := []Message{
		Prompt{},
		Ask{Name: "Bob", MakeBet: 10, Money: 990},
		Action{Name: "Bob", Act: "B", Amount: amount(20)},
		Action{Name: "Bob", Act: "Q"},
		Accepted(),
		Rejected(game.ReasonWrongAmount),
		RegistrationRejected(ReasonNotValidDict),
		Community{Cards: "2H7H9HKC"},
		Summary{Seats: []Seat{{"Ann", "Human", 100}}},
		StartRound{Summary: Summary{Seats: []Seat{{"Ann", "Human", 100}, {"AI Bob", "AI", 50}}}},
		HoleCards{Cards: "AHKD", SmallBlind: "Ann", BigBlind: "Bob", MinBet: 10},
		EndRound{Holes: map[string]string{"Ann": "AH4H"}, Pot: 20, Winners: []string{"Ann"}, Hand: "Flush", Board: "2H7H9HKC3S"},
		NoMoney{},
	}
	for _, msg := range msgs {
		data, err := Encode(msg)
		require.NoError(t, err)
		got, err := DecodeServer(data)
		require.NoError(t, err, string(data))
		assert.Equal(t, msg, got, string(data))
	}
}

func TestDecodeServerRejectsUnknownFrames(t *testing.T) {
	t.Parallel()

	for _, frame := range []string{
		``,
		`"hello"`,
		`[1,2,3,4]`,
		`{"Surprise":1}`,
		`[1,[["Ann","Human",100],["Bob","AI",50]]]`,
		`42`,
	} {
		_, err := DecodeServer([]byte(frame))
		assert.ErrorIs(t, err, ErrMalformed, frame)
	}
}

func TestParseAction(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		frame  string
		want   game.Action
		reason string
	}{
		{"bet", `{"N":"Ann","Act":"B","Am":30}`, game.BetAction(30), ""},
		{"check", `{"N":"Ann","Act":"B","Am":0}`, game.BetAction(0), ""},
		{"fold", `{"N":"Ann","Act":"F"}`, game.FoldAction(), ""},
		{"quit", `{"N":"Ann","Act":"Q"}`, game.QuitAction(), ""},
		{"lower case", `{"N":"Ann","Act":"f"}`, game.FoldAction(), ""},
		{"not json", `{"N":`, game.Action{}, game.ReasonJSON},
		{"not an object", `[1,2]`, game.Action{}, game.ReasonJSON},
		{"missing name", `{"Act":"F"}`, game.Action{}, game.ReasonBadFormat},
		{"missing act", `{"N":"Ann"}`, game.Action{}, game.ReasonBadFormat},
		{"wrong name", `{"N":"Bob","Act":"F"}`, game.Action{}, game.ReasonWrongName},
		{"bet without amount", `{"N":"Ann","Act":"B"}`, game.Action{}, game.ReasonBadFormat},
		{"fractional amount", `{"N":"Ann","Act":"B","Am":1.5}`, game.Action{}, game.ReasonWrongAmount},
		{"unknown act", `{"N":"Ann","Act":"X"}`, game.Action{}, game.ReasonUnknownAction},
		{"format before name", `{"N":"Bob"}`, game.Action{}, game.ReasonBadFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseAction([]byte(tt.frame), "Ann")
			if tt.reason == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
				return
			}
			var verr *game.ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.Equal(t, tt.reason, verr.Reason)
			assert.ErrorIs(t, err, game.ErrInvalidAction)
		})
	}
}

func TestParseRegister(t *testing.T) {
	t.Parallel()

	name, err := ParseRegister([]byte(`{"MyName":"Ann"}`))
	require.NoError(t, err)
	assert.Equal(t, "Ann", name)

	for _, frame := range []string{
		`"Ann"`,
		`{}`,
		`{"MyName":""}`,
		`{"MyName":7}`,
		`{"MyName":"Ann","Extra":1}`,
		`{"Name":"Ann"}`,
	} {
		_, err := ParseRegister([]byte(frame))
		assert.ErrorIs(t, err, ErrMalformed, frame)
	}
}

func TestActionConversion(t *testing.T) {
	t.Parallel()

	for _, a := range []game.Action{game.BetAction(0), game.BetAction(40), game.FoldAction(), game.QuitAction()} {
		got, err := NewAction("Ann", a).GameAction()
		require.NoError(t, err)
		assert.Equal(t, a, got)
	}

	_, err := Action{Name: "Ann", Act: "B"}.GameAction()
	assert.ErrorIs(t, err, ErrMalformed)
	_, err = Action{Name: "Ann", Act: "Z"}.GameAction()
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestFromEvent(t *testing.T) {
	t.Parallel()

	seats := []game.SeatSummary{{Name: "Ann", Kind: game.Human, Stake: 100}, {Name: "AI Bob", Kind: game.AI, Stake: 50}}

	msg, ok := FromEvent(game.RoundStartEvent{Seats: seats}, "Ann")
	require.True(t, ok)
	assert.Equal(t, StartRound{Summary: Summary{Seats: []Seat{{"Ann", "Human", 100}, {"AI Bob", "AI", 50}}}}, msg)

	hole := game.HoleCardsEvent{Player: "Ann", Hole: deck.MustParseCards("AHKD"), SmallBlind: "Ann", BigBlind: "AI Bob", MinBet: 10}
	msg, ok = FromEvent(hole, "Ann")
	require.True(t, ok)
	assert.Equal(t, HoleCards{Cards: "AHKD", SmallBlind: "Ann", BigBlind: "AI Bob", MinBet: 10}, msg)
	_, ok = FromEvent(hole, "AI Bob")
	assert.False(t, ok, "hole cards are private")

	action := game.ActionEvent{Player: "AI Bob", Action: game.BetAction(20)}
	msg, ok = FromEvent(action, "Ann")
	require.True(t, ok)
	assert.Equal(t, Action{Name: "AI Bob", Act: "B", Amount: amount(20)}, msg)
	_, ok = FromEvent(action, "AI Bob")
	assert.False(t, ok, "own actions are not echoed")

	msg, ok = FromEvent(game.CommunityEvent{Street: game.Turn, Cards: deck.MustParseCards("2H7H9HKC")}, "Ann")
	require.True(t, ok)
	assert.Equal(t, Community{Cards: "2H7H9HKC"}, msg)

	_, ok = FromEvent(game.StreetStartEvent{Street: game.Flop}, "Ann")
	assert.False(t, ok)

	msg, ok = FromEvent(game.RoundEndEvent{
		Holes:     map[string][]deck.Card{"Ann": deck.MustParseCards("AH4H")},
		Pot:       20,
		Winners:   []string{"Ann"},
		Category:  evaluator.Flush,
		Community: deck.MustParseCards("2H7H9HKC3S"),
	}, "AI Bob")
	require.True(t, ok)
	assert.Equal(t, EndRound{
		Holes:   map[string]string{"Ann": "AH4H"},
		Pot:     20,
		Winners: []string{"Ann"},
		Hand:    "Flush",
		Board:   "2H7H9HKC3S",
	}, msg)

	msg, ok = FromEvent(game.EliminatedEvent{Player: "Ann"}, "Ann")
	require.True(t, ok)
	assert.Equal(t, NoMoney{}, msg)
	_, ok = FromEvent(game.EliminatedEvent{Player: "Ann"}, "AI Bob")
	assert.False(t, ok)
}
