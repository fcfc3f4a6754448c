// Package ws is the websocket and HTTP transport of a room
package ws

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/KirkDiggler/theme-clash/internal/orchestrators/room"
	"github.com/KirkDiggler/theme-clash/internal/protocol"
)

// Hub tracks the live connections of every room and fans messages out to
// them
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[string]*client
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[string]*client)}
}

var _ room.Broadcaster = (*Hub)(nil)

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns, ok := h.rooms[c.roomID]
	if !ok {
		conns = make(map[string]*client)
		h.rooms[c.roomID] = conns
	}
	conns[c.id] = c
}

// unregister drops the connection and closes its send queue
func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if conns, ok := h.rooms[c.roomID]; ok {
		delete(conns, c.id)
		if len(conns) == 0 {
			delete(h.rooms, c.roomID)
		}
	}
	h.mu.Unlock()

	c.close()
}

// Broadcast implements room.Broadcaster
func (h *Hub) Broadcast(roomID string, msg protocol.ServerMessage) {
	data, ok := encode(msg)
	if !ok {
		return
	}

	h.mu.RLock()
	targets := make([]*client, 0, len(h.rooms[roomID]))
	for _, c := range h.rooms[roomID] {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		c.enqueue(data)
	}
}

// Send implements room.Broadcaster
func (h *Hub) Send(roomID, connID string, msg protocol.ServerMessage) {
	h.mu.RLock()
	c, ok := h.rooms[roomID][connID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	if data, ok := encode(msg); ok {
		c.enqueue(data)
	}
}

// Connections returns the number of live connections of a room
func (h *Hub) Connections(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}

func encode(msg protocol.ServerMessage) ([]byte, bool) {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("failed to encode server message",
			"type", msg.MessageType(),
			"error", err)
		return nil, false
	}
	return data, true
}
