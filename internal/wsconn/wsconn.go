// Package wsconn provides a reconnecting WebSocket client.
package wsconn

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/coder/websocket"
)

// State represents the connection state.
type State string

const (
	StateDisconnected State = "disconnected"
	StateConnecting   State = "connecting"
	StateConnected    State = "connected"
	StateReconnecting State = "reconnecting"
	StateClosed       State = "closed"
)

// ErrClosed is returned by Send after Close has been called.
var ErrClosed = errors.New("wsconn: client closed")

// Config holds WebSocket client configuration.
type Config struct {
	URL            string
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	MaxReconnects  int   // 0 = infinite
	MaxMessageSize int64 // read limit in bytes
}

// DefaultConfig returns sensible defaults.
func DefaultConfig(url string) Config {
	return Config{
		URL:            url,
		InitialBackoff: 1 * time.Second,
		MaxBackoff:     30 * time.Second,
		MaxReconnects:  0,
		MaxMessageSize: 1 << 20,
	}
}

// StateChangeFn is notified on every connection state transition.
type StateChangeFn func(state State, err error)

// Client is a WebSocket client that reconnects with exponential backoff.
// Received messages are delivered on the Messages channel; the read loop
// drops messages if the consumer falls behind rather than stalling reads.
type Client struct {
	config Config

	conn   *websocket.Conn
	connMu sync.RWMutex

	state   State
	stateMu sync.RWMutex

	onStateChange StateChangeFn
	handlerMu     sync.RWMutex

	messages  chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

// New creates a new WebSocket client.
func New(config Config) *Client {
	if config.InitialBackoff <= 0 {
		config.InitialBackoff = time.Second
	}
	if config.MaxBackoff <= 0 {
		config.MaxBackoff = 30 * time.Second
	}
	return &Client{
		config:   config,
		state:    StateDisconnected,
		messages: make(chan []byte, 256),
		done:     make(chan struct{}),
	}
}

// OnStateChange registers a handler for connection state transitions.
func (c *Client) OnStateChange(fn StateChangeFn) {
	c.handlerMu.Lock()
	c.onStateChange = fn
	c.handlerMu.Unlock()
}

// Connect establishes the WebSocket connection and starts the read loop.
// The read loop reconnects on failure until Close is called or the context
// is cancelled.
func (c *Client) Connect(ctx context.Context) error {
	c.setState(StateConnecting, nil)

	if err := c.dial(ctx); err != nil {
		c.setState(StateDisconnected, err)
		return err
	}

	c.setState(StateConnected, nil)
	go c.readLoop(ctx)
	return nil
}

func (c *Client) dial(ctx context.Context) error {
	conn, _, err := websocket.Dial(ctx, c.config.URL, nil)
	if err != nil {
		return err
	}
	if c.config.MaxMessageSize > 0 {
		conn.SetReadLimit(c.config.MaxMessageSize)
	}

	c.connMu.Lock()
	c.conn = conn
	c.connMu.Unlock()
	return nil
}

func (c *Client) readLoop(ctx context.Context) {
	backoff := c.config.InitialBackoff
	reconnects := 0

	for {
		c.connMu.RLock()
		conn := c.conn
		c.connMu.RUnlock()

		_, data, err := conn.Read(ctx)
		if err == nil {
			backoff = c.config.InitialBackoff
			reconnects = 0
			select {
			case c.messages <- data:
			default:
				// consumer behind, drop
			}
			continue
		}

		conn.Close(websocket.StatusNormalClosure, "")

		select {
		case <-c.done:
			return
		case <-ctx.Done():
			c.setState(StateDisconnected, ctx.Err())
			return
		default:
		}

		if c.config.MaxReconnects > 0 && reconnects >= c.config.MaxReconnects {
			c.setState(StateDisconnected, err)
			return
		}

		c.setState(StateReconnecting, err)
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			c.setState(StateDisconnected, ctx.Err())
			return
		case <-c.done:
			return
		}

		backoff *= 2
		if backoff > c.config.MaxBackoff {
			backoff = c.config.MaxBackoff
		}
		reconnects++

		if err := c.dial(ctx); err != nil {
			continue
		}
		c.setState(StateConnected, nil)
	}
}

// Send sends a text message through the WebSocket.
func (c *Client) Send(ctx context.Context, msg []byte) error {
	select {
	case <-c.done:
		return ErrClosed
	default:
	}

	c.connMu.RLock()
	conn := c.conn
	c.connMu.RUnlock()

	if conn == nil {
		return ErrClosed
	}
	return conn.Write(ctx, websocket.MessageText, msg)
}

// SendJSON marshals v and sends it as a text message.
func (c *Client) SendJSON(ctx context.Context, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Send(ctx, data)
}

// Messages returns the channel for receiving messages.
func (c *Client) Messages() <-chan []byte {
	return c.messages
}

// State returns the current connection state.
func (c *Client) State() State {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()
	return c.state
}

// IsConnected reports whether the client is currently connected.
func (c *Client) IsConnected() bool {
	return c.State() == StateConnected
}

// Close gracefully closes the WebSocket connection. Close is idempotent.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		close(c.done)
		c.connMu.RLock()
		conn := c.conn
		c.connMu.RUnlock()
		if conn != nil {
			conn.Close(websocket.StatusNormalClosure, "shutdown")
		}
	})
	c.setState(StateClosed, nil)
	return nil
}

func (c *Client) setState(state State, err error) {
	c.stateMu.Lock()
	if c.state == StateClosed && state != StateClosed {
		c.stateMu.Unlock()
		return
	}
	c.state = state
	c.stateMu.Unlock()

	c.handlerMu.RLock()
	fn := c.onStateChange
	c.handlerMu.RUnlock()
	if fn != nil {
		fn(state, err)
	}
}
