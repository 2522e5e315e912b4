// Package client is a line-oriented terminal client for a remote table.
package client

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/VoltRadar/poker-simulation/internal/game"
	"github.com/VoltRadar/poker-simulation/internal/protocol"
	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

var (
	// ErrUnexpectedMessage is returned when the server breaks the handshake.
	ErrUnexpectedMessage = errors.New("unexpected message")
	// ErrTableFull is returned by Register when the table has no free seat.
	ErrTableFull = errors.New("table is full")
)

const actionPrompt = "[f]old [c]all [b]et N [a]ll-in [q]uit > "

// Client plays at a table on behalf of a person at a terminal
type Client struct {
	ws     *websocket.Conn
	in     *bufio.Scanner
	out    io.Writer
	styles Styles
	logger *log.Logger

	name     string
	quitting bool
}

// Option configures a Client.
type Option func(*Client)

// WithStyles sets how messages are rendered.
func WithStyles(s Styles) Option {
	return func(c *Client) { c.styles = s }
}

// WithLogger sets the client logger.
func WithLogger(logger *log.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// URL returns the websocket URL for addr, which is either host:port or a
// full ws:// or http:// URL.
func URL(addr string) (string, error) {
	if !strings.Contains(addr, "://") {
		addr = "ws://" + addr
	}
	u, err := url.Parse(addr)
	if err != nil {
		return "", fmt.Errorf("invalid server address: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = "/ws"
	}
	return u.String(), nil
}

// Dial connects to the table at addr.
func Dial(ctx context.Context, addr string) (*websocket.Conn, error) {
	u, err := URL(addr)
	if err != nil {
		return nil, err
	}
	ws, _, err := websocket.DefaultDialer.DialContext(ctx, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", u, err)
	}
	return ws, nil
}

// New creates a client reading commands from in and writing to out.
func New(ws *websocket.Conn, in io.Reader, out io.Writer, opts ...Option) *Client {
	c := &Client{
		ws:     ws,
		in:     bufio.NewScanner(in),
		out:    out,
		styles: NewStyles(out, false),
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.WithPrefix("client")
	return c
}

// Name returns the name the server accepted.
func (c *Client) Name() string {
	return c.name
}

func (c *Client) read() (protocol.Message, error) {
	_, data, err := c.ws.ReadMessage()
	if err != nil {
		return nil, err
	}
	c.logger.Debug("Received", "frame", string(data))
	return protocol.DecodeServer(data)
}

func (c *Client) send(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.logger.Debug("Sending", "frame", string(data))
	return c.ws.WriteMessage(websocket.TextMessage, data)
}

func (c *Client) readLine(prompt string) (string, error) {
	fmt.Fprint(c.out, c.styles.Prompt.Render(prompt))
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(c.in.Text()), nil
}

func (c *Client) println(s string) {
	if s != "" {
		fmt.Fprintln(c.out, s)
	}
}

// Register answers the name prompt. An empty name is asked for on the
// terminal, as is a replacement when the server refuses one.
func (c *Client) Register(name string) error {
	msg, err := c.read()
	if err != nil {
		return err
	}
	if _, ok := msg.(protocol.Prompt); !ok {
		return fmt.Errorf("%w: expected name prompt, got %T", ErrUnexpectedMessage, msg)
	}

	for {
		for name == "" {
			if name, err = c.readLine("Name > "); err != nil {
				return err
			}
		}
		if err := c.send(protocol.Register{MyName: name}); err != nil {
			return err
		}
		msg, err := c.read()
		if err != nil {
			return err
		}
		reply, ok := msg.(protocol.Reply)
		if !ok {
			return fmt.Errorf("%w: expected registration reply, got %T", ErrUnexpectedMessage, msg)
		}
		if reply.IsAccepted() {
			break
		}
		if reply.Error == protocol.ReasonTableFull {
			return ErrTableFull
		}
		c.println(c.styles.Error.Render(fmt.Sprintf("Name %q not accepted: %s", name, reply.Error)))
		name = ""
	}
	c.name = name

	msg, err = c.read()
	if err != nil {
		return err
	}
	c.println(c.styles.Render(msg, c.name))
	return nil
}

// Play shows table messages and answers every request for an action until
// the player quits, is eliminated, the server goes away or ctx is cancelled.
func (c *Client) Play(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() { _ = c.ws.Close() })
	defer stop()

	for {
		msg, err := c.read()
		if err != nil {
			if ctx.Err() != nil || c.quitting ||
				websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return err
		}

		switch m := msg.(type) {
		case protocol.Ask:
			if err := c.answer(m); err != nil {
				return err
			}
		case protocol.NoMoney:
			c.println(c.styles.Render(m, c.name))
			return nil
		default:
			c.println(c.styles.Render(m, c.name))
		}
	}
}

func (c *Client) answer(ask protocol.Ask) error {
	c.println(c.styles.Info.Render(fmt.Sprintf("To call: %d   Your stake: %d", ask.MakeBet, ask.Money)))
	for {
		line, err := c.readLine(actionPrompt)
		var action game.Action
		switch {
		case errors.Is(err, io.EOF):
			action = game.QuitAction()
		case err != nil:
			return err
		default:
			action, err = ParseCommand(line, ask)
			if err != nil {
				c.println(c.styles.Error.Render(err.Error()))
				continue
			}
		}
		if action.Kind == game.Quit {
			c.quitting = true
		}
		return c.send(protocol.NewAction(c.name, action))
	}
}

// ParseCommand reads a typed command. Bets are the number of chips put in
// this turn, so calling is a bet of the amount asked for.
func ParseCommand(line string, ask protocol.Ask) (game.Action, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return game.Action{}, errors.New("enter a command")
	}
	switch fields[0] {
	case "f", "fold":
		return game.FoldAction(), nil
	case "q", "quit":
		return game.QuitAction(), nil
	case "c", "call", "k", "check":
		return game.BetAction(min(ask.MakeBet, ask.Money)), nil
	case "a", "allin", "all-in":
		return game.BetAction(ask.Money), nil
	case "b", "bet", "r", "raise":
		if len(fields) != 2 {
			return game.Action{}, errors.New("bet needs an amount, e.g. b 50")
		}
		amount, err := strconv.Atoi(fields[1])
		if err != nil || amount < 0 {
			return game.Action{}, fmt.Errorf("invalid amount %q", fields[1])
		}
		return game.BetAction(amount), nil
	}
	return game.Action{}, fmt.Errorf("unknown command %q", fields[0])
}
