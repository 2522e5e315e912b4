package client

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/VoltRadar/poker-simulation/internal/evaluator"
	"github.com/VoltRadar/poker-simulation/internal/protocol"
)

// Render turns a server message into the lines shown to the player. Ask and
// Prompt are handled by the client loop and render as nothing.
func (s Styles) Render(msg protocol.Message, self string) string {
	switch m := msg.(type) {
	case protocol.Summary:
		return s.summary(m, self)
	case protocol.StartRound:
		return s.Header.Render(" New round ") + "\n" + s.summary(m.Summary, self)
	case protocol.HoleCards:
		return fmt.Sprintf("Your cards: %s   %s",
			s.Cards(m.Cards),
			s.Info.Render(fmt.Sprintf("small blind %s, big blind %s, min bet %d", m.SmallBlind, m.BigBlind, m.MinBet)))
	case protocol.Community:
		return "Board: " + s.Cards(m.Cards)
	case protocol.Action:
		return s.action(m)
	case protocol.Reply:
		if m.IsAccepted() {
			return ""
		}
		return s.Error.Render("Rejected: " + m.Error)
	case protocol.EndRound:
		return s.endRound(m, self)
	case protocol.NoMoney:
		return s.Warning.Render("You no longer have enough chips to play.")
	}
	return ""
}

func (s Styles) summary(m protocol.Summary, self string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d players", len(m.Seats))
	for _, seat := range m.Seats {
		name := s.Player.Render(seat.Name)
		if seat.Name == self {
			name = s.Success.Render(seat.Name + " (you)")
		}
		fmt.Fprintf(&b, "\n  %-24s %-6s %d", name, seat.Kind, seat.Stake)
	}
	return b.String()
}

func (s Styles) action(m protocol.Action) string {
	name := s.Player.Render(m.Name)
	switch m.Act {
	case "F", "f":
		return name + " folds"
	case "Q", "q":
		return name + " leaves the table"
	}
	if m.Amount == nil || *m.Amount == 0 {
		return name + " checks"
	}
	return fmt.Sprintf("%s bets %d", name, *m.Amount)
}

func (s Styles) endRound(m protocol.EndRound, self string) string {
	hand := m.Hand
	if c, ok := evaluator.ParseCategoryCode(m.Hand); ok {
		hand = c.String()
	}

	var b strings.Builder
	winners := strings.Join(m.Winners, ", ")
	if slices.Contains(m.Winners, self) {
		b.WriteString(s.Success.Render(fmt.Sprintf("You win %d with %s", m.Pot, hand)))
		if len(m.Winners) > 1 {
			b.WriteString(s.Info.Render(" (split with " + winners + ")"))
		}
	} else {
		fmt.Fprintf(&b, "%s %s %d with %s", s.Player.Render(winners), winVerb(len(m.Winners)), m.Pot, hand)
	}
	b.WriteString("\nBoard: " + s.Cards(m.Board))

	for _, name := range slices.Sorted(maps.Keys(m.Holes)) {
		fmt.Fprintf(&b, "\n  %-24s %s", s.Player.Render(name), s.Cards(m.Holes[name]))
	}
	return b.String()
}

func winVerb(n int) string {
	if n > 1 {
		return "split"
	}
	return "wins"
}
