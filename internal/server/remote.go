package server

import (
	"context"
	"errors"
	"time"

	"github.com/VoltRadar/poker-simulation/internal/game"
	"github.com/VoltRadar/poker-simulation/internal/protocol"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
)

// ErrDecisionTimeout is the cause recorded when a remote player fails to act in time.
var ErrDecisionTimeout = errors.New("decision timeout")

// RemoteAgent is the DecisionProvider for a human connected over a websocket.
// Table events are forwarded as protocol messages and every decision is a
// request/response exchange that re-prompts until the reply is valid.
type RemoteAgent struct {
	name    string
	conn    *Conn
	clock   quartz.Clock
	timeout time.Duration
	logger  *log.Logger

	ready chan struct{}
}

// NewRemoteAgent creates the agent for name. It holds back every message
// until Start is called, so registration replies always arrive first.
func NewRemoteAgent(name string, conn *Conn, clock quartz.Clock, timeout time.Duration, logger *log.Logger) *RemoteAgent {
	return &RemoteAgent{
		name:    name,
		conn:    conn,
		clock:   clock,
		timeout: timeout,
		logger:  logger.WithPrefix("remote").With("player", name),
		ready:   make(chan struct{}),
	}
}

// Start releases messages held back during registration.
func (a *RemoteAgent) Start() {
	close(a.ready)
}

// Name returns the registered player name.
func (a *RemoteAgent) Name() string {
	return a.name
}

func (a *RemoteAgent) waitReady(ctx context.Context) error {
	select {
	case <-a.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Decide asks the remote player for an action. Malformed or illegal replies
// are rejected with a reason and the question is asked again. A player who
// does not answer within the timeout, or whose connection fails, quits.
func (a *RemoteAgent) Decide(ctx context.Context, req game.Request) game.Action {
	if err := a.waitReady(ctx); err != nil {
		return game.QuitAction()
	}

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)
	timer := a.clock.AfterFunc(a.timeout, func() { cancel(ErrDecisionTimeout) }, "remote", "decide")
	defer timer.Stop()

	if n := a.conn.Drain(); n > 0 {
		a.logger.Debug("Discarded unprompted messages", "count", n)
	}

	ask := protocol.Ask{Name: a.name, MakeBet: req.CallAmount, Money: req.Stake}
	for {
		if err := a.conn.Send(ask); err != nil {
			a.logger.Warn("Could not ask for an action", "error", err)
			return a.quit()
		}

		data, err := a.conn.Receive(ctx)
		if err != nil {
			if errors.Is(err, ErrDecisionTimeout) {
				a.logger.Warn("Decision timed out, removing player", "timeout", a.timeout)
			} else {
				a.logger.Info("Lost connection while waiting for an action", "error", err)
			}
			return a.quit()
		}

		action, err := protocol.ParseAction(data, a.name)
		if err == nil {
			err = req.Validate(action)
		}
		if err != nil {
			reason := game.ReasonBadFormat
			var verr *game.ValidationError
			if errors.As(err, &verr) {
				reason = verr.Reason
			}
			a.logger.Debug("Rejected action", "reason", reason, "error", err)
			if err := a.conn.Send(protocol.Rejected(reason)); err != nil {
				return a.quit()
			}
			continue
		}

		if err := a.conn.Send(protocol.Accepted()); err != nil {
			return a.quit()
		}
		if action.Kind == game.Quit {
			a.logger.Info("Player quit")
			_ = a.conn.Close()
		}
		return action
	}
}

func (a *RemoteAgent) quit() game.Action {
	_ = a.conn.Close()
	return game.QuitAction()
}

// Observe forwards a table event to the player. An error means the player
// can no longer be reached.
func (a *RemoteAgent) Observe(ctx context.Context, ev game.Event) error {
	if err := a.waitReady(ctx); err != nil {
		return err
	}
	msg, ok := protocol.FromEvent(ev, a.name)
	if !ok {
		return nil
	}
	if err := a.conn.Send(msg); err != nil {
		return err
	}
	if _, eliminated := msg.(protocol.NoMoney); eliminated {
		a.logger.Info("Player eliminated, closing connection")
		_ = a.conn.Close()
	}
	return nil
}
