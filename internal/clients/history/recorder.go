// Package history reports match starts and results to the match history
// service
package history

//go:generate mockgen -destination=mock/mock_recorder.go -package=historymock github.com/KirkDiggler/theme-clash/internal/clients/history Recorder

import (
	"context"
)

// Event actions
const (
	ActionStart = "start"
	ActionEnd   = "end"
)

// MatchStartInput describes a freshly started match
type MatchStartInput struct {
	RoomID       string
	Player1Name  string
	Player1Theme string
	Player2Name  string
	Player2Theme string
}

// MatchEndInput describes a finished match
type MatchEndInput struct {
	RoomID string
	// WinnerName is empty when the match had no winner
	WinnerName string
	// MatchScore is "wins-wins" in join order
	MatchScore string
}

// Recorder receives match lifecycle events. Callers treat every error as
// non-fatal.
type Recorder interface {
	RecordMatchStart(ctx context.Context, input *MatchStartInput) error
	RecordMatchEnd(ctx context.Context, input *MatchEndInput) error
}

// Event is the JSON body shared by every transport
type Event struct {
	Action       string `json:"action"`
	RoomID       string `json:"roomId"`
	Player1Name  string `json:"player1Name,omitempty"`
	Player1Theme string `json:"player1Theme,omitempty"`
	Player2Name  string `json:"player2Name,omitempty"`
	Player2Theme string `json:"player2Theme,omitempty"`
	WinnerName   string `json:"winnerName,omitempty"`
	MatchScore   string `json:"matchScore,omitempty"`
}

func startEvent(input *MatchStartInput) *Event {
	return &Event{
		Action:       ActionStart,
		RoomID:       input.RoomID,
		Player1Name:  input.Player1Name,
		Player1Theme: input.Player1Theme,
		Player2Name:  input.Player2Name,
		Player2Theme: input.Player2Theme,
	}
}

func endEvent(input *MatchEndInput) *Event {
	return &Event{
		Action:     ActionEnd,
		RoomID:     input.RoomID,
		WinnerName: input.WinnerName,
		MatchScore: input.MatchScore,
	}
}
