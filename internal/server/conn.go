package server

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/VoltRadar/poker-simulation/internal/protocol"
	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Maximum message size allowed from peer
	maxMessageSize = 4096

	// Frames buffered before the reader blocks
	incomingBuffer = 16
)

// ErrConnectionClosed is returned once the websocket has gone away.
var ErrConnectionClosed = errors.New("connection closed")

// Conn wraps a websocket carrying one JSON message per text frame.
// Reads happen on a dedicated goroutine; writes are serialised.
type Conn struct {
	ws       *websocket.Conn
	logger   *log.Logger
	incoming chan []byte
	done     chan struct{}

	writeMu   sync.Mutex
	closeOnce sync.Once
}

// NewConn starts reading from ws.
func NewConn(ws *websocket.Conn, logger *log.Logger) *Conn {
	c := &Conn{
		ws:       ws,
		logger:   logger.WithPrefix("conn").With("remote", ws.RemoteAddr()),
		incoming: make(chan []byte, incomingBuffer),
		done:     make(chan struct{}),
	}
	go c.readPump()
	return c
}

func (c *Conn) readPump() {
	defer func() { _ = c.Close() }()

	c.ws.SetReadLimit(maxMessageSize)
	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debug("WebSocket read failed", "error", err)
			}
			return
		}
		select {
		case c.incoming <- data:
		case <-c.done:
			return
		}
	}
}

// Send writes msg as a single text frame.
func (c *Conn) Send(msg protocol.Message) error {
	data, err := protocol.Encode(msg)
	if err != nil {
		return err
	}

	if err := c.write(data); err != nil {
		_ = c.Close()
		return errors.Join(ErrConnectionClosed, err)
	}
	return nil
}

func (c *Conn) write(data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	select {
	case <-c.done:
		return ErrConnectionClosed
	default:
	}
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	return c.ws.WriteMessage(websocket.TextMessage, data)
}

// Receive waits for the next frame.
func (c *Conn) Receive(ctx context.Context) ([]byte, error) {
	select {
	case data := <-c.incoming:
		return data, nil
	case <-c.done:
		// frames that arrived before the close are still delivered
		select {
		case data := <-c.incoming:
			return data, nil
		default:
		}
		return nil, ErrConnectionClosed
	case <-ctx.Done():
		return nil, context.Cause(ctx)
	}
}

// Drain discards frames that arrived unprompted and returns how many.
func (c *Conn) Drain() int {
	n := 0
	for {
		select {
		case <-c.incoming:
			n++
		default:
			return n
		}
	}
}

// Done is closed when the connection is closed.
func (c *Conn) Done() <-chan struct{} {
	return c.done
}

// Close closes the websocket. It is safe to call more than once.
func (c *Conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		c.writeMu.Lock()
		_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
		_ = c.ws.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		c.writeMu.Unlock()
		err = c.ws.Close()
	})
	return err
}
