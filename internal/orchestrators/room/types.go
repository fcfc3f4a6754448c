package room

import (
	"time"

	"github.com/KirkDiggler/theme-clash/internal/entities"
	"github.com/KirkDiggler/theme-clash/internal/protocol"
)

// Broadcaster delivers server messages to the connections of a room.
// Implementations must not block on a slow connection.
type Broadcaster interface {
	// Broadcast sends the message to every connection of the room
	Broadcast(roomID string, msg protocol.ServerMessage)
	// Send sends the message to one connection of the room
	Send(roomID, connID string, msg protocol.ServerMessage)
}

// ConnectInput contains parameters for attaching a connection to a room
type ConnectInput struct {
	RoomID string
	ConnID string
}

// ConnectOutput contains the snapshot the connection was greeted with
type ConnectOutput struct {
	State *entities.GameState
}

// DisconnectInput contains parameters for detaching a connection
type DisconnectInput struct {
	RoomID string
	ConnID string
}

// DisconnectOutput contains the result of a disconnect
type DisconnectOutput struct {
	// WasSpectator is true when the connection was removed from the
	// spectator list
	WasSpectator bool
}

// DispatchInput contains one inbound client message
type DispatchInput struct {
	RoomID  string
	ConnID  string
	Message *protocol.ClientMessage
}

// DispatchOutput contains the committed snapshot
type DispatchOutput struct {
	State *entities.GameState
}

// DeliverCardsInput contains a batch of generated cards for one player
type DeliverCardsInput struct {
	RoomID   string
	PlayerID string
	Cards    []entities.Card
	IsDraft  bool
}

// DeliverCardsOutput reports whether every player now has cards
type DeliverCardsOutput struct {
	AllHaveCards bool
	State        *entities.GameState
}

// GetRoomInput contains parameters for reading a room
type GetRoomInput struct {
	RoomID string
}

// GetRoomOutput contains the current snapshot
type GetRoomOutput struct {
	State *entities.GameState
}

// ListRoomsInput contains parameters for listing loaded rooms
type ListRoomsInput struct{}

// RoomSummary describes one loaded room
type RoomSummary struct {
	RoomID      string
	Phase       entities.GamePhase
	Players     int
	Spectators  int
	Connections int
	GameNumber  int
	LastActive  time.Time
}

// ListRoomsOutput contains the loaded rooms ordered by id
type ListRoomsOutput struct {
	Rooms []RoomSummary
}

// CreateRoomInput contains parameters for allocating a room
type CreateRoomInput struct{}

// CreateRoomOutput contains the new room code
type CreateRoomOutput struct {
	RoomID string
	State  *entities.GameState
}

// EvictIdleInput contains parameters for unloading idle rooms
type EvictIdleInput struct {
	// IdleFor overrides the configured idle timeout when set
	IdleFor time.Duration
}

// EvictIdleOutput lists the rooms that were unloaded
type EvictIdleOutput struct {
	Evicted []string
}
