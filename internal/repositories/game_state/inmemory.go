package gamestate

import (
	"context"
	"sync"

	"github.com/KirkDiggler/theme-clash/internal/entities"
	"github.com/KirkDiggler/theme-clash/internal/errors"
)

// InMemoryRepository implements Repository in process memory. Snapshots
// are deep-copied in and out.
type InMemoryRepository struct {
	mu    sync.RWMutex
	store map[string]*entities.GameState
}

// NewInMemory creates a new in-memory repository
func NewInMemory() *InMemoryRepository {
	return &InMemoryRepository{
		store: make(map[string]*entities.GameState),
	}
}

var _ Repository = (*InMemoryRepository)(nil)

// Get returns a copy of the stored snapshot
func (r *InMemoryRepository) Get(_ context.Context, input GetInput) (*GetOutput, error) {
	if input.RoomID == "" {
		return nil, errors.InvalidArgument(errRoomIDEmpty)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	state, ok := r.store[input.RoomID]
	if !ok {
		return nil, errors.NotFoundf("no snapshot for room %s", input.RoomID)
	}

	return &GetOutput{State: state.Clone()}, nil
}

// Save stores a copy of the snapshot
func (r *InMemoryRepository) Save(_ context.Context, input SaveInput) (*SaveOutput, error) {
	if input.State == nil {
		return nil, errors.InvalidArgument(errStateNil)
	}
	if input.State.RoomID == "" {
		return nil, errors.InvalidArgument(errRoomIDEmpty)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.store[input.State.RoomID] = input.State.Clone()
	return &SaveOutput{}, nil
}

// Delete drops the snapshot
func (r *InMemoryRepository) Delete(_ context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.RoomID == "" {
		return nil, errors.InvalidArgument(errRoomIDEmpty)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.store[input.RoomID]
	delete(r.store, input.RoomID)
	return &DeleteOutput{Deleted: ok}, nil
}
