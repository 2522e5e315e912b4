package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/VoltRadar/poker-simulation/internal/game"
	"github.com/VoltRadar/poker-simulation/internal/protocol"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
)

// Registrar is the part of the table the listener seats players at.
type Registrar interface {
	Join(name string, kind game.Kind, provider game.DecisionProvider) (*game.Player, error)
	Summary() []game.SeatSummary
}

// Listener accepts websocket connections, registers each client under a
// unique name and seats it at the table as a RemoteAgent.
type Listener struct {
	registrar Registrar
	logger    *log.Logger
	clock     quartz.Clock
	timeout   time.Duration
	upgrader  websocket.Upgrader

	mu    sync.Mutex
	conns map[*Conn]struct{}
}

// ListenerOption configures a Listener.
type ListenerOption func(*Listener)

// WithListenerClock sets the clock used for registration and decision timeouts.
func WithListenerClock(clock quartz.Clock) ListenerOption {
	return func(l *Listener) { l.clock = clock }
}

// WithDecisionTimeout sets how long a client may take to answer.
func WithDecisionTimeout(d time.Duration) ListenerOption {
	return func(l *Listener) { l.timeout = d }
}

// NewListener creates a listener seating players at registrar.
func NewListener(registrar Registrar, logger *log.Logger, opts ...ListenerOption) *Listener {
	l := &Listener{
		registrar: registrar,
		logger:    logger.WithPrefix("server"),
		clock:     quartz.NewReal(),
		timeout:   DefaultDecisionTimeout,
		upgrader: websocket.Upgrader{
			CheckOrigin:     func(*http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		conns: make(map[*Conn]struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Handler returns the HTTP routes served by the listener.
func (l *Listener) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", l.handleWebSocket)
	mux.HandleFunc("/health", l.handleHealth)
	return mux
}

// Serve listens on addr until ctx is cancelled.
func (l *Listener) Serve(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	return l.ServeListener(ctx, ln)
}

// ServeListener serves on an existing listener until ctx is cancelled, then
// closes every open connection.
func (l *Listener) ServeListener(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           l.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		l.logger.Info("Accepting players", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server stopped: %w", err)
	case <-ctx.Done():
	}

	l.logger.Info("Shutting down listener")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	l.closeAll()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (l *Listener) closeAll() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for c := range l.conns {
		_ = c.Close()
	}
	clear(l.conns)
}

func (l *Listener) track(c *Conn) {
	l.mu.Lock()
	l.conns[c] = struct{}{}
	l.mu.Unlock()

	go func() {
		<-c.Done()
		l.mu.Lock()
		delete(l.conns, c)
		l.mu.Unlock()
	}()
}

func (l *Listener) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprint(w, "OK")
}

func (l *Listener) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	ws, err := l.upgrader.Upgrade(w, r, nil)
	if err != nil {
		l.logger.Error("WebSocket upgrade failed", "error", err)
		return
	}
	conn := NewConn(ws, l.logger)
	l.track(conn)
	l.logger.Debug("Client connected", "remote", ws.RemoteAddr())

	if err := l.register(r.Context(), conn); err != nil {
		l.logger.Info("Registration failed", "remote", ws.RemoteAddr(), "error", err)
		_ = conn.Close()
	}
}

// register runs the name handshake: prompt, then accept the first valid and
// unused name. The client is sent the table summary once seated.
func (l *Listener) register(ctx context.Context, conn *Conn) error {
	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)
	timer := l.clock.AfterFunc(l.timeout, func() { cancel(ErrDecisionTimeout) }, "server", "register")
	defer timer.Stop()

	if err := conn.Send(protocol.Prompt{}); err != nil {
		return err
	}
	for {
		data, err := conn.Receive(ctx)
		if err != nil {
			return err
		}

		name, err := protocol.ParseRegister(data)
		if err != nil {
			if err := conn.Send(protocol.RegistrationRejected(protocol.ReasonNotValidDict)); err != nil {
				return err
			}
			continue
		}

		agent := NewRemoteAgent(name, conn, l.clock, l.timeout, l.logger)
		if _, err := l.registrar.Join(name, game.Human, agent); err != nil {
			reason := protocol.ReasonNotValidDict
			switch {
			case errors.Is(err, game.ErrTableFull):
				// No name will get in, so hang up after saying why.
				if sendErr := conn.Send(protocol.RegistrationRejected(protocol.ReasonTableFull)); sendErr != nil {
					return errors.Join(err, sendErr)
				}
				return err
			case errors.Is(err, game.ErrNameTaken):
				reason = protocol.ReasonNameTaken
			}
			l.logger.Debug("Name refused", "name", name, "error", err)
			if err := conn.Send(protocol.RegistrationRejected(reason)); err != nil {
				return err
			}
			continue
		}

		defer agent.Start()
		if err := conn.Send(protocol.Accepted()); err != nil {
			return err
		}
		if err := conn.Send(protocol.SummaryFrom(l.registrar.Summary())); err != nil {
			return err
		}
		l.logger.Info("Player registered", "player", name)
		return nil
	}
}
