// Package gamestate persists room snapshots
package gamestate

import (
	"context"

	"github.com/KirkDiggler/theme-clash/internal/entities"
)

//go:generate mockgen -destination=mock/mock_repository.go -package=gamestatemock github.com/KirkDiggler/theme-clash/internal/repositories/game_state Repository

// GetInput contains parameters for loading a room snapshot
type GetInput struct {
	RoomID string
}

// GetOutput contains the loaded snapshot
type GetOutput struct {
	State *entities.GameState
}

// SaveInput contains the snapshot to store. The previous snapshot of the
// room is overwritten whole.
type SaveInput struct {
	State *entities.GameState
}

// SaveOutput contains the result of a save
type SaveOutput struct{}

// DeleteInput contains parameters for dropping a room snapshot
type DeleteInput struct {
	RoomID string
}

// DeleteOutput contains the result of a delete
type DeleteOutput struct {
	Deleted bool
}

// Repository stores one GameState per room
type Repository interface {
	// Get returns NotFound when the room has no snapshot
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	Save(ctx context.Context, input SaveInput) (*SaveOutput, error)

	Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error)
}
