// Package transport owns the WebSocket side of the relay: the HTTP upgrade,
// the per-connection read/write pumps, and the liveness machinery. It hands
// decoded frames and lifecycle events to a Handler (the relay router) and
// exposes each socket to the core through the relay.Conn interface.
package transport

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"log/slog"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"relay-service/internal/relay"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum frame size allowed from peer
	maxMessageSize = 64 * 1024
)

// ErrClientDisconnected is returned by Send when the connection can no longer
// accept frames. The relay treats it as a silent skip.
var ErrClientDisconnected = errors.New("client disconnected")

// Handler consumes connection events. Calls for a single connection are made
// from that connection's read goroutine, so they arrive in order; HandleClose
// is called exactly once, after the last frame.
type Handler interface {
	HandleOpen(conn relay.Conn)
	HandleFrame(conn relay.Conn, data []byte)
	HandleClose(conn relay.Conn)
}

// Client wraps one WebSocket connection. Outbound frames go through a
// buffered channel drained by the write pump; Send never blocks the caller.
// The send channel is never closed: shutdown is signalled through the
// context, so concurrent Sends from different broadcast paths stay safe.
type Client struct {
	id      string
	conn    *websocket.Conn
	handler Handler
	send    chan []byte

	// Connection state management
	ctx    context.Context
	cancel context.CancelFunc
	closed int32 // atomic flag, set once the connection is going away
}

func NewClient(conn *websocket.Conn, handler Handler) *Client {
	ctx, cancel := context.WithCancel(context.Background())

	return &Client{
		id:      uuid.New().String(),
		conn:    conn,
		handler: handler,
		send:    make(chan []byte, 256),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// ID returns the opaque connection identity used as the registry key.
func (c *Client) ID() string {
	return c.id
}

// Open reports whether the connection can still accept outbound frames.
func (c *Client) Open() bool {
	return atomic.LoadInt32(&c.closed) == 0
}

// Send queues a frame for delivery. It fails without blocking when the
// connection is closed or the buffer is full; a full buffer closes the
// client, since a peer that stopped draining is as good as gone.
func (c *Client) Send(data []byte) error {
	if c.isClosed() {
		return ErrClientDisconnected
	}

	select {
	case c.send <- data:
		return nil
	case <-c.ctx.Done():
		return ErrClientDisconnected
	default:
		slog.Warn("Send buffer full, closing client", "connID", c.id)
		c.close()
		return ErrClientDisconnected
	}
}

// isClosed returns true if the client is closed
func (c *Client) isClosed() bool {
	return atomic.LoadInt32(&c.closed) == 1
}

// close marks the client as closed and cancels the context, which stops both
// pumps
func (c *Client) close() {
	if atomic.CompareAndSwapInt32(&c.closed, 0, 1) {
		c.cancel()
		slog.Debug("Client marked as closed", "connID", c.id)
	}
}

func (c *Client) readPump() {
	defer func() {
		c.close()

		// The read pump owns connection teardown: exactly one close event per
		// connection, delivered after the last frame.
		c.handler.HandleClose(c)

		if err := c.conn.Close(); err != nil {
			slog.Debug("Error closing connection", "connID", c.id, "error", err)
		}
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		if c.isClosed() {
			return websocket.ErrCloseSent
		}
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				slog.Error("WebSocket error", "connID", c.id, "error", err)
			} else {
				slog.Debug("WebSocket connection closed", "connID", c.id, "error", err)
			}
			return
		}

		c.handler.HandleFrame(c, data)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()

		// readPump owns closing the underlying connection
		slog.Debug("WritePump finished", "connID", c.id)
	}()

	for {
		select {
		case data := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				slog.Debug("Error writing message", "connID", c.id, "error", err)
				return
			}

		case <-ticker.C:
			if c.isClosed() {
				return
			}

			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				slog.Debug("Error sending ping", "connID", c.id, "error", err)
				return
			}

		case <-c.ctx.Done():
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}

// ServeWS upgrades the HTTP request and starts the connection's pumps. The
// handler sees HandleOpen before any frame.
func ServeWS(handler Handler, w http.ResponseWriter, r *http.Request) {
	conn, err := Upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("Failed to upgrade WebSocket connection", "error", err)
		return
	}

	client := NewClient(conn, handler)
	slog.Info("New WebSocket connection established", "connID", client.id, "remote", conn.RemoteAddr().String())

	handler.HandleOpen(client)

	go client.writePump()
	go client.readPump()
}
