package room

import (
	"context"
	stderrors "errors"
	"log/slog"
	"sync"
	"time"

	"github.com/KirkDiggler/theme-clash/internal/entities"
	"github.com/KirkDiggler/theme-clash/internal/errors"
	"github.com/KirkDiggler/theme-clash/internal/protocol"
	gamestate "github.com/KirkDiggler/theme-clash/internal/repositories/game_state"
)

// errNoChange is returned by a mutation that leaves the room as it was.
// Nothing is persisted or broadcast.
var errNoChange = stderrors.New("no change")

// room owns one match. Committed states are never mutated in place, so a
// committed pointer can be handed to the broadcaster as is.
type room struct {
	id string

	mu    sync.Mutex
	state *entities.GameState
	// rematch maps player id to the swap-themes flag of their request
	rematch         map[string]bool
	historyRecorded bool
	conns           map[string]struct{}
	lastActive      time.Time
}

func newRoom(id string, state *entities.GameState, now time.Time) *room {
	return &room{
		id:         id,
		state:      state,
		rematch:    make(map[string]bool),
		conns:      make(map[string]struct{}),
		lastActive: now,
	}
}

func (r *room) summary() RoomSummary {
	r.mu.Lock()
	defer r.mu.Unlock()

	return RoomSummary{
		RoomID:      r.id,
		Phase:       r.state.Phase,
		Players:     len(r.state.PlayerOrder),
		Spectators:  len(r.state.Spectators),
		Connections: len(r.conns),
		GameNumber:  r.state.GameNumber,
		LastActive:  r.lastActive,
	}
}

type directed struct {
	connID string
	msg    protocol.ServerMessage
}

// change is the working copy of a room during one mutation
type change struct {
	state           *entities.GameState
	rematch         map[string]bool
	historyRecorded bool

	events []protocol.ServerMessage
	sends  []directed
	after  []func()
}

func (c *change) broadcast(msg protocol.ServerMessage) {
	c.events = append(c.events, msg)
}

func (c *change) send(connID string, msg protocol.ServerMessage) {
	c.sends = append(c.sends, directed{connID: connID, msg: msg})
}

// onCommit runs fn once the change has been committed
func (c *change) onCommit(fn func()) {
	c.after = append(c.after, fn)
}

// apply runs fn against a copy of the room under the room lock. When fn
// fails nothing is committed. Otherwise the copy replaces the room state,
// is persisted, and is broadcast, followed by the events in the order they
// were raised.
func (o *orchestrator) apply(ctx context.Context, r *room, fn func(c *change) error) (*entities.GameState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rematch := make(map[string]bool, len(r.rematch))
	for id, swap := range r.rematch {
		rematch[id] = swap
	}
	c := &change{
		state:           r.state.Clone(),
		rematch:         rematch,
		historyRecorded: r.historyRecorded,
	}

	if err := fn(c); err != nil {
		if err == errNoChange {
			return r.state.Clone(), nil
		}
		return nil, err
	}

	r.state = c.state
	r.rematch = c.rematch
	r.historyRecorded = c.historyRecorded
	r.lastActive = o.clock.Now()

	o.persist(ctx, r.state)

	o.broadcaster.Broadcast(r.id, newStateMessage(r.state))
	for _, msg := range c.events {
		o.broadcaster.Broadcast(r.id, msg)
	}
	for _, d := range c.sends {
		o.broadcaster.Send(r.id, d.connID, d.msg)
	}
	for _, fn := range c.after {
		fn()
	}

	return r.state.Clone(), nil
}

// persist writes the snapshot. Failures are logged; the in-memory state
// stays authoritative.
func (o *orchestrator) persist(ctx context.Context, state *entities.GameState) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), DefaultPersistTimeout)
	defer cancel()

	if _, err := o.repo.Save(ctx, gamestate.SaveInput{State: state}); err != nil {
		slog.Error("failed to persist room snapshot",
			"room_id", state.RoomID,
			"phase", state.Phase,
			"error", err)
	}
}

func newStateMessage(state *entities.GameState) protocol.ServerMessage {
	return protocol.NewState(state)
}

func newSpectatorCount(state *entities.GameState) protocol.ServerMessage {
	return protocol.NewSpectatorCount(len(state.Spectators))
}

// playerOf returns the caller's player record
func playerOf(state *entities.GameState, playerID string) (*entities.Player, error) {
	p := state.Player(playerID)
	if p == nil {
		return nil, errors.NotFound("Player not found")
	}
	return p, nil
}

func requirePhase(state *entities.GameState, message string, phases ...entities.GamePhase) error {
	for _, phase := range phases {
		if state.Phase == phase {
			return nil
		}
	}
	return errors.FailedPrecondition(message)
}
