package room

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/theme-clash/internal/entities"
	"github.com/KirkDiggler/theme-clash/internal/errors"
	"github.com/KirkDiggler/theme-clash/internal/protocol"
)

func (o *orchestrator) Dispatch(ctx context.Context, input *DispatchInput) (*DispatchOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	state, err := o.dispatch(ctx, input)
	if err != nil {
		o.reject(NormalizeRoomID(input.RoomID), input.ConnID, err)
		return nil, err
	}

	return &DispatchOutput{State: state}, nil
}

func (o *orchestrator) dispatch(ctx context.Context, input *DispatchInput) (*entities.GameState, error) {
	if input.ConnID == "" {
		return nil, errors.InvalidArgument("connection ID is required")
	}
	msg := input.Message
	if err := msg.Validate(); err != nil {
		return nil, err
	}

	r, err := o.loadRoom(ctx, input.RoomID, true)
	if err != nil {
		return nil, err
	}

	connID := input.ConnID
	var fn func(c *change) error
	switch msg.Type {
	case protocol.TypeJoin:
		fn = func(c *change) error { return o.join(c, connID, msg) }
	case protocol.TypeSetTheme:
		fn = func(c *change) error { return o.setTheme(c, connID, msg.Theme) }
	case protocol.TypeReady:
		fn = func(c *change) error { return o.ready(c, connID) }
	case protocol.TypeDraftSelect:
		fn = func(c *change) error { return o.draftSelect(c, connID, msg.CardID) }
	case protocol.TypeDraftDiscard:
		fn = func(c *change) error { return o.draftDiscard(c, connID, msg.CardID) }
	case protocol.TypeDraftConfirm:
		fn = func(c *change) error { return o.draftConfirm(c, connID) }
	case protocol.TypeRevealCard:
		fn = func(c *change) error { return o.revealCard(c, connID, msg.CardID) }
	case protocol.TypePlayCard:
		fn = func(c *change) error { return o.playCard(c, connID, msg.CardID) }
	case protocol.TypeSkipTurn:
		fn = func(c *change) error { return o.skipTurn(c, connID) }
	case protocol.TypeContinueMatch:
		fn = func(c *change) error { return o.continueMatch(c, connID) }
	case protocol.TypeRequestRematch:
		fn = func(c *change) error { return o.requestRematch(c, connID, false) }
	case protocol.TypeRequestSwapRematch:
		fn = func(c *change) error { return o.requestRematch(c, connID, true) }
	case protocol.TypeAcceptRematch:
		fn = func(c *change) error { return o.acceptRematch(c, connID) }
	case protocol.TypeToggleBlindDraft:
		fn = func(c *change) error { return o.toggleBlindDraft(c, connID) }
	default:
		return nil, errors.InvalidArgumentf("Unknown message type: %s", msg.Type)
	}

	return o.apply(ctx, r, fn)
}

// reject answers the sender with the public text of err
func (o *orchestrator) reject(roomID, connID string, err error) {
	if errors.IsInternal(err) || errors.IsUnavailable(err) {
		slog.Error("room action failed",
			"room_id", roomID,
			"conn_id", connID,
			"error", err)
	} else {
		slog.Debug("room action rejected",
			"room_id", roomID,
			"conn_id", connID,
			"code", errors.GetCode(err),
			"error", err)
	}

	if connID == "" {
		return
	}
	o.broadcaster.Send(roomID, connID, protocol.NewError(errors.PublicMessage(err)))
}
