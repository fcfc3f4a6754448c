package gamestate

import (
	"context"
	"encoding/json"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/theme-clash/internal/entities"
	"github.com/KirkDiggler/theme-clash/internal/errors"
	redisclient "github.com/KirkDiggler/theme-clash/internal/redis"
)

const (
	// Key pattern: game_state:{room_id}
	stateKeyPrefix = "game_state:"

	errRoomIDEmpty = "room ID cannot be empty"
	errStateNil    = "state cannot be nil"
)

// Config holds the configuration for the Redis repository
type Config struct {
	Client redisclient.Client
	// TTL expires idle snapshots. Zero keeps them forever.
	TTL time.Duration
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config is required")
	}

	vb := errors.NewValidationBuilder()
	if c.Client == nil {
		vb.RequiredField("Client")
	}
	if c.TTL < 0 {
		vb.InvalidField("TTL", "must not be negative")
	}

	return vb.Build()
}

type redisRepository struct {
	client redisclient.Client
	ttl    time.Duration
}

// NewRedisRepository creates a new Redis repository for room snapshots
func NewRedisRepository(cfg *Config) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &redisRepository{
		client: cfg.Client,
		ttl:    cfg.TTL,
	}, nil
}

// Ensure redisRepository implements Repository
var _ Repository = (*redisRepository)(nil)

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.RoomID == "" {
		return nil, errors.InvalidArgument(errRoomIDEmpty)
	}

	data, err := r.client.Get(ctx, buildKey(input.RoomID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("no snapshot for room %s", input.RoomID)
		}
		return nil, errors.Wrap(err, "failed to get game state from Redis")
	}

	var state entities.GameState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal game state")
	}

	return &GetOutput{State: &state}, nil
}

func (r *redisRepository) Save(ctx context.Context, input SaveInput) (*SaveOutput, error) {
	if input.State == nil {
		return nil, errors.InvalidArgument(errStateNil)
	}
	if input.State.RoomID == "" {
		return nil, errors.InvalidArgument(errRoomIDEmpty)
	}

	data, err := json.Marshal(input.State)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal game state")
	}

	if err := r.client.Set(ctx, buildKey(input.State.RoomID), data, r.ttl).Err(); err != nil {
		return nil, errors.Wrap(err, "failed to store game state in Redis")
	}

	return &SaveOutput{}, nil
}

func (r *redisRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.RoomID == "" {
		return nil, errors.InvalidArgument(errRoomIDEmpty)
	}

	n, err := r.client.Del(ctx, buildKey(input.RoomID)).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to delete game state from Redis")
	}

	return &DeleteOutput{Deleted: n > 0}, nil
}

func buildKey(roomID string) string {
	return stateKeyPrefix + roomID
}
