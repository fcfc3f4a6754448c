// Package room implements the room coordinator: the authoritative state
// machine of every match. Each room serializes its own mutations; rooms
// never share mutable state.
package room

//go:generate mockgen -destination=mock/mock_service.go -package=roommock github.com/KirkDiggler/theme-clash/internal/orchestrators/room Service
//go:generate mockgen -destination=mock/mock_broadcaster.go -package=roommock github.com/KirkDiggler/theme-clash/internal/orchestrators/room Broadcaster

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/KirkDiggler/theme-clash/internal/clients/history"
	"github.com/KirkDiggler/theme-clash/internal/engine"
	"github.com/KirkDiggler/theme-clash/internal/entities"
	"github.com/KirkDiggler/theme-clash/internal/errors"
	"github.com/KirkDiggler/theme-clash/internal/pkg/clock"
	"github.com/KirkDiggler/theme-clash/internal/pkg/idgen"
	gamestate "github.com/KirkDiggler/theme-clash/internal/repositories/game_state"
)

const (
	// DefaultHistoryTimeout bounds a single history recorder call
	DefaultHistoryTimeout = 5 * time.Second

	// DefaultIdleTimeout is how long a room without connections stays loaded
	DefaultIdleTimeout = 30 * time.Minute

	// DefaultPersistTimeout bounds a snapshot write
	DefaultPersistTimeout = 2 * time.Second

	maxRoomIDLength    = 32
	roomCodeAttempts   = 10
	evictionCheckEvery = time.Minute
)

// Service is the room coordinator
type Service interface {
	// Connect attaches a connection and greets it with the snapshot and
	// the spectator count
	Connect(ctx context.Context, input *ConnectInput) (*ConnectOutput, error)
	Disconnect(ctx context.Context, input *DisconnectInput) (*DisconnectOutput, error)

	// Dispatch applies one client message. A rejected message is answered
	// with an error message to the sender and the error is returned.
	Dispatch(ctx context.Context, input *DispatchInput) (*DispatchOutput, error)

	// DeliverCards merges a generated batch of cards for one player
	DeliverCards(ctx context.Context, input *DeliverCardsInput) (*DeliverCardsOutput, error)

	GetRoom(ctx context.Context, input *GetRoomInput) (*GetRoomOutput, error)
	ListRooms(ctx context.Context, input *ListRoomsInput) (*ListRoomsOutput, error)
	CreateRoom(ctx context.Context, input *CreateRoomInput) (*CreateRoomOutput, error)

	// EvictIdle unloads rooms that have no connections and no recent
	// activity. Their snapshots stay in the repository.
	EvictIdle(ctx context.Context, input *EvictIdleInput) (*EvictIdleOutput, error)

	// Run evicts idle rooms periodically until ctx is done
	Run(ctx context.Context) error

	// Shutdown waits for in-flight history calls
	Shutdown(ctx context.Context) error
}

// Config holds the dependencies for the room coordinator
type Config struct {
	Repository  gamestate.Repository
	Engine      engine.Engine
	Broadcaster Broadcaster

	// Optional
	Recorder       history.Recorder
	RoomCodes      idgen.Generator
	CardIDs        idgen.Generator
	Clock          clock.Clock
	HistoryTimeout time.Duration
	IdleTimeout    time.Duration
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config is required")
	}

	vb := errors.NewValidationBuilder()
	if c.Repository == nil {
		vb.RequiredField("Repository")
	}
	if c.Engine == nil {
		vb.RequiredField("Engine")
	}
	if c.Broadcaster == nil {
		vb.RequiredField("Broadcaster")
	}
	if c.HistoryTimeout < 0 {
		vb.InvalidField("HistoryTimeout", "must not be negative")
	}
	if c.IdleTimeout < 0 {
		vb.InvalidField("IdleTimeout", "must not be negative")
	}

	return vb.Build()
}

type orchestrator struct {
	repo        gamestate.Repository
	engine      engine.Engine
	broadcaster Broadcaster
	recorder    history.Recorder
	roomCodes   idgen.Generator
	cardIDs     idgen.Generator
	clock       clock.Clock

	historyTimeout time.Duration
	idleTimeout    time.Duration

	mu    sync.Mutex
	rooms map[string]*room

	// background history calls
	wg sync.WaitGroup
}

// NewOrchestrator creates a room coordinator with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	o := &orchestrator{
		repo:           cfg.Repository,
		engine:         cfg.Engine,
		broadcaster:    cfg.Broadcaster,
		recorder:       cfg.Recorder,
		roomCodes:      cfg.RoomCodes,
		cardIDs:        cfg.CardIDs,
		clock:          cfg.Clock,
		historyTimeout: cfg.HistoryTimeout,
		idleTimeout:    cfg.IdleTimeout,
		rooms:          make(map[string]*room),
	}
	if o.recorder == nil {
		o.recorder = history.NewNoop()
	}
	if o.roomCodes == nil {
		o.roomCodes = idgen.NewRoomCode()
	}
	if o.cardIDs == nil {
		o.cardIDs = idgen.NewUUID("card")
	}
	if o.clock == nil {
		o.clock = clock.New()
	}
	if o.historyTimeout == 0 {
		o.historyTimeout = DefaultHistoryTimeout
	}
	if o.idleTimeout == 0 {
		o.idleTimeout = DefaultIdleTimeout
	}

	return o, nil
}

// NormalizeRoomID trims and upper-cases a room id taken from a URL
func NormalizeRoomID(roomID string) string {
	return strings.ToUpper(strings.TrimSpace(roomID))
}

func validateRoomID(roomID string) error {
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("room_id", roomID, vb)
	errors.ValidateMaxLength("room_id", roomID, maxRoomIDLength, vb)
	return vb.Build()
}

// loadRoom returns the loaded room, reading its snapshot from the
// repository on first use. With create set, a room without a snapshot
// starts as a fresh lobby; otherwise NotFound is returned.
func (o *orchestrator) loadRoom(ctx context.Context, roomID string, create bool) (*room, error) {
	roomID = NormalizeRoomID(roomID)
	if err := validateRoomID(roomID); err != nil {
		return nil, err
	}

	o.mu.Lock()
	r, ok := o.rooms[roomID]
	o.mu.Unlock()
	if ok {
		return r, nil
	}

	var state *entities.GameState
	out, err := o.repo.Get(ctx, gamestate.GetInput{RoomID: roomID})
	switch {
	case err == nil:
		state = out.State
		engine.NormalizeState(state)
	case errors.IsNotFound(err) && create:
		state = engine.NewGameState(roomID)
	case errors.IsNotFound(err):
		return nil, errors.NotFoundf("room %s not found", roomID)
	default:
		return nil, errors.Wrapf(err, "failed to load room %s", roomID)
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if existing, ok := o.rooms[roomID]; ok {
		return existing, nil
	}
	r = newRoom(roomID, state, o.clock.Now())
	o.rooms[roomID] = r

	slog.Debug("room loaded",
		"room_id", roomID,
		"phase", state.Phase)

	return r, nil
}

func (o *orchestrator) Connect(ctx context.Context, input *ConnectInput) (*ConnectOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.ConnID == "" {
		return nil, errors.InvalidArgument("connection ID is required")
	}

	r, err := o.loadRoom(ctx, input.RoomID, true)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.conns[input.ConnID] = struct{}{}
	r.lastActive = o.clock.Now()
	o.broadcaster.Send(r.id, input.ConnID, newStateMessage(r.state))
	o.broadcaster.Send(r.id, input.ConnID, newSpectatorCount(r.state))

	slog.Info("connection attached",
		"room_id", r.id,
		"conn_id", input.ConnID,
		"connections", len(r.conns))

	return &ConnectOutput{State: r.state.Clone()}, nil
}

func (o *orchestrator) Disconnect(ctx context.Context, input *DisconnectInput) (*DisconnectOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	roomID := NormalizeRoomID(input.RoomID)
	o.mu.Lock()
	r, ok := o.rooms[roomID]
	o.mu.Unlock()
	if !ok {
		return &DisconnectOutput{}, nil
	}

	r.mu.Lock()
	delete(r.conns, input.ConnID)
	r.mu.Unlock()

	slog.Info("connection detached",
		"room_id", r.id,
		"conn_id", input.ConnID)

	removed := false
	_, err := o.apply(ctx, r, func(c *change) error {
		if !c.state.RemoveSpectator(input.ConnID) {
			return errNoChange
		}
		removed = true
		c.broadcast(newSpectatorCount(c.state))
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &DisconnectOutput{WasSpectator: removed}, nil
}

func (o *orchestrator) GetRoom(ctx context.Context, input *GetRoomInput) (*GetRoomOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	r, err := o.loadRoom(ctx, input.RoomID, false)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return &GetRoomOutput{State: r.state.Clone()}, nil
}

func (o *orchestrator) ListRooms(_ context.Context, _ *ListRoomsInput) (*ListRoomsOutput, error) {
	o.mu.Lock()
	rooms := make([]*room, 0, len(o.rooms))
	for _, r := range o.rooms {
		rooms = append(rooms, r)
	}
	o.mu.Unlock()

	summaries := make([]RoomSummary, 0, len(rooms))
	for _, r := range rooms {
		summaries = append(summaries, r.summary())
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].RoomID < summaries[j].RoomID
	})

	return &ListRoomsOutput{Rooms: summaries}, nil
}

func (o *orchestrator) CreateRoom(ctx context.Context, _ *CreateRoomInput) (*CreateRoomOutput, error) {
	for attempt := 0; attempt < roomCodeAttempts; attempt++ {
		code := NormalizeRoomID(o.roomCodes.Generate())

		o.mu.Lock()
		_, loaded := o.rooms[code]
		o.mu.Unlock()
		if loaded {
			continue
		}

		_, err := o.repo.Get(ctx, gamestate.GetInput{RoomID: code})
		if err == nil {
			continue
		}
		if !errors.IsNotFound(err) {
			return nil, errors.Wrap(err, "failed to check room code")
		}

		r, err := o.loadRoom(ctx, code, true)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		o.persist(ctx, r.state)
		state := r.state.Clone()
		r.mu.Unlock()

		slog.Info("room created", "room_id", code)

		return &CreateRoomOutput{RoomID: code, State: state}, nil
	}

	return nil, errors.ResourceExhausted("could not allocate a free room code")
}

func (o *orchestrator) EvictIdle(_ context.Context, input *EvictIdleInput) (*EvictIdleOutput, error) {
	idleFor := o.idleTimeout
	if input != nil && input.IdleFor > 0 {
		idleFor = input.IdleFor
	}
	cutoff := o.clock.Now().Add(-idleFor)

	o.mu.Lock()
	defer o.mu.Unlock()

	var evicted []string
	for id, r := range o.rooms {
		r.mu.Lock()
		idle := len(r.conns) == 0 && !r.lastActive.After(cutoff)
		r.mu.Unlock()
		if idle {
			delete(o.rooms, id)
			evicted = append(evicted, id)
		}
	}
	sort.Strings(evicted)

	if len(evicted) > 0 {
		slog.Info("evicted idle rooms",
			"count", len(evicted),
			"room_ids", evicted)
	}

	return &EvictIdleOutput{Evicted: evicted}, nil
}

func (o *orchestrator) Run(ctx context.Context) error {
	ticker := time.NewTicker(evictionCheckEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := o.EvictIdle(ctx, &EvictIdleInput{}); err != nil {
				slog.Error("idle room eviction failed", "error", err)
			}
		}
	}
}

func (o *orchestrator) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		o.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return errors.WrapWithCode(ctx.Err(), errors.CodeDeadlineExceeded, "history calls still in flight")
	}
}
