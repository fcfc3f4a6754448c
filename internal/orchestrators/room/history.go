package room

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/theme-clash/internal/clients/history"
	"github.com/KirkDiggler/theme-clash/internal/entities"
)

// recordMatchStartOnce reports the first battle of a fresh match
func (o *orchestrator) recordMatchStartOnce(c *change) {
	if c.historyRecorded || c.state.GameNumber != 1 {
		return
	}
	c.historyRecorded = true

	input := matchStartInput(c.state)
	c.onCommit(func() { o.recordMatchStart(input) })
}

func matchStartInput(st *entities.GameState) *history.MatchStartInput {
	input := &history.MatchStartInput{RoomID: st.RoomID}
	players := st.OrderedPlayers()
	if len(players) > 0 {
		input.Player1Name = players[0].Name
		input.Player1Theme = players[0].Theme
	}
	if len(players) > 1 {
		input.Player2Name = players[1].Name
		input.Player2Theme = players[1].Theme
	}
	return input
}

func matchEndInput(st *entities.GameState) *history.MatchEndInput {
	input := &history.MatchEndInput{
		RoomID:     st.RoomID,
		MatchScore: scoreString(st),
	}
	if st.MatchWinner != nil {
		if p := st.Player(*st.MatchWinner); p != nil {
			input.WinnerName = p.Name
		}
	}
	return input
}

func (o *orchestrator) recordMatchStart(input *history.MatchStartInput) {
	o.goHistory(input.RoomID, "start", func(ctx context.Context) error {
		return o.recorder.RecordMatchStart(ctx, input)
	})
}

func (o *orchestrator) recordMatchEnd(input *history.MatchEndInput) {
	o.goHistory(input.RoomID, "end", func(ctx context.Context) error {
		return o.recorder.RecordMatchEnd(ctx, input)
	})
}

// goHistory runs a recorder call off the room's critical path. Failures
// are logged and dropped.
func (o *orchestrator) goHistory(roomID, action string, call func(ctx context.Context) error) {
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), o.historyTimeout)
		defer cancel()

		if err := call(ctx); err != nil {
			slog.Warn("failed to record match history",
				"room_id", roomID,
				"action", action,
				"error", err)
		}
	}()
}
