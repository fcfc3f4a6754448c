package v1alpha1

import (
	"context"
	"encoding/json"
	"time"

	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/KirkDiggler/theme-clash/internal/errors"
	"github.com/KirkDiggler/theme-clash/internal/orchestrators/room"
)

// HandlerConfig holds dependencies for the handler
type HandlerConfig struct {
	RoomService room.Service
}

// Validate ensures all required dependencies are present
func (c *HandlerConfig) Validate() error {
	if c == nil || c.RoomService == nil {
		return errors.InvalidArgument("room service is required")
	}
	return nil
}

// Handler implements the room admin gRPC service
type Handler struct {
	roomService room.Service
}

var _ RoomAdminServer = (*Handler)(nil)

// NewHandler creates a new handler with the given configuration
func NewHandler(cfg *HandlerConfig) (*Handler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Handler{roomService: cfg.RoomService}, nil
}

// GetRoom returns the snapshot of a loaded or persisted room
func (h *Handler) GetRoom(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	if req.GetValue() == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("room id is required"))
	}

	out, err := h.roomService.GetRoom(ctx, &room.GetRoomInput{RoomID: req.GetValue()})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	st, err := toStruct(out.State)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	return st, nil
}

// ListRooms summarizes every loaded room
func (h *Handler) ListRooms(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	out, err := h.roomService.ListRooms(ctx, &room.ListRoomsInput{})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	rooms := make([]interface{}, 0, len(out.Rooms))
	for _, r := range out.Rooms {
		rooms = append(rooms, map[string]interface{}{
			"roomId":      r.RoomID,
			"phase":       string(r.Phase),
			"players":     r.Players,
			"spectators":  r.Spectators,
			"connections": r.Connections,
			"gameNumber":  r.GameNumber,
			"lastActive":  r.LastActive.UTC().Format(time.RFC3339),
		})
	}

	st, err := structpb.NewStruct(map[string]interface{}{"rooms": rooms})
	if err != nil {
		return nil, errors.ToGRPCError(errors.Wrap(err, "failed to encode rooms"))
	}
	return st, nil
}

// EvictIdle unloads idle rooms. A zero duration uses the server default.
func (h *Handler) EvictIdle(ctx context.Context, req *durationpb.Duration) (*structpb.Struct, error) {
	if req != nil {
		if err := req.CheckValid(); err != nil {
			return nil, errors.ToGRPCError(errors.WrapWithCode(err, errors.CodeInvalidArgument, "invalid idle duration"))
		}
	}

	idle := req.AsDuration()
	if idle < 0 {
		return nil, errors.ToGRPCError(errors.InvalidArgument("idle duration must not be negative"))
	}

	out, err := h.roomService.EvictIdle(ctx, &room.EvictIdleInput{IdleFor: idle})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	evicted := make([]interface{}, 0, len(out.Evicted))
	for _, id := range out.Evicted {
		evicted = append(evicted, id)
	}

	st, err := structpb.NewStruct(map[string]interface{}{"evicted": evicted})
	if err != nil {
		return nil, errors.ToGRPCError(errors.Wrap(err, "failed to encode evicted rooms"))
	}
	return st, nil
}

// toStruct round-trips v through its JSON form so field names match the
// websocket protocol
func toStruct(v interface{}) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode room")
	}

	var fields map[string]interface{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, errors.Wrap(err, "failed to encode room")
	}

	st, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode room")
	}
	return st, nil
}
