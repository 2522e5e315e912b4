package game

import (
	"context"
	"errors"
	"sync"
)

// scriptedProvider plays a fixed list of actions, then calls (or goes all-in
// when the call is larger than its stake).
type scriptedProvider struct {
	mu      sync.Mutex
	actions []Action
	asked   []Request
	events  []Event
	failOn  EventType
}

func script(actions ...Action) *scriptedProvider {
	return &scriptedProvider{actions: actions}
}

func (s *scriptedProvider) Decide(_ context.Context, req Request) Action {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.asked = append(s.asked, req)
	if len(s.actions) == 0 {
		return BetAction(min(req.CallAmount, req.Stake))
	}
	a := s.actions[0]
	s.actions = s.actions[1:]
	return a
}

func (s *scriptedProvider) Observe(_ context.Context, ev Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failOn != "" && ev.EventType() == s.failOn {
		return errors.New("connection reset by peer")
	}
	s.events = append(s.events, ev)
	return nil
}

func (s *scriptedProvider) askCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.asked)
}

func (s *scriptedProvider) eventsOf(et EventType) []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Event
	for _, ev := range s.events {
		if ev.EventType() == et {
			out = append(out, ev)
		}
	}
	return out
}

func seat(name string, stake int, p DecisionProvider) *Player {
	return NewPlayer(name, Human, stake, p)
}

func totalBets(res BettingResult) int {
	sum := 0
	for _, b := range res.Bets {
		sum += b
	}
	return sum
}
