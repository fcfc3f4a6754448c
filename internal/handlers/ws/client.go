package ws

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/KirkDiggler/theme-clash/internal/errors"
	"github.com/KirkDiggler/theme-clash/internal/orchestrators/room"
	"github.com/KirkDiggler/theme-clash/internal/protocol"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum inbound frame size
	maxMessageSize = 64 * 1024

	sendBuffer = 256
)

// client is one websocket connection of a room
type client struct {
	id     string
	roomID string
	conn   *websocket.Conn

	mu     sync.Mutex
	send   chan []byte
	closed bool
}

func newClient(id, roomID string, conn *websocket.Conn) *client {
	return &client{
		id:     id,
		roomID: roomID,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
	}
}

// enqueue never blocks. A connection that cannot keep up is closed.
func (c *client) enqueue(data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	select {
	case c.send <- data:
	default:
		slog.Warn("closing slow connection",
			"room_id", c.roomID,
			"conn_id", c.id)
		c.closed = true
		close(c.send)
	}
}

func (c *client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// readLoop feeds inbound frames to the coordinator until the connection
// fails
func (c *client) readLoop(ctx context.Context, svc room.Service) {
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Warn("unexpected websocket close",
					"room_id", c.roomID,
					"conn_id", c.id,
					"error", err)
			}
			return
		}

		msg, err := protocol.DecodeClientMessage(data)
		if err != nil {
			if encoded, ok := encode(protocol.NewError(errors.PublicMessage(err))); ok {
				c.enqueue(encoded)
			}
			continue
		}

		// Rejections are answered to this connection by the coordinator
		_, _ = svc.Dispatch(ctx, &room.DispatchInput{
			RoomID:  c.roomID,
			ConnID:  c.id,
			Message: msg,
		})
	}
}

// writeLoop pumps queued messages and keep-alive pings to the connection
func (c *client) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				slog.Debug("websocket write failed",
					"room_id", c.roomID,
					"conn_id", c.id,
					"error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
