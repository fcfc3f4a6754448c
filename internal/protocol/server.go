package protocol

import (
	"github.com/KirkDiggler/theme-clash/internal/entities"
)

// ServerMessageType tags an outbound message
type ServerMessageType string

// Outbound message types
const (
	TypeState            ServerMessageType = "state"
	TypeError            ServerMessageType = "error"
	TypeCardPlayed       ServerMessageType = "card-played"
	TypeAbilityTriggered ServerMessageType = "ability-triggered"
	TypeRoundEnded       ServerMessageType = "round-ended"
	TypeMatchEnded       ServerMessageType = "match-ended"
	TypeRematchRequested ServerMessageType = "rematch-requested"
	TypeSpectatorCount   ServerMessageType = "spectator-count"
)

// ServerMessage is implemented by every outbound message struct
type ServerMessage interface {
	MessageType() ServerMessageType
}

// StateMessage carries the full room snapshot
type StateMessage struct {
	Type  ServerMessageType    `json:"type"`
	State *entities.GameState `json:"state"`
}

// MessageType implements ServerMessage
func (m *StateMessage) MessageType() ServerMessageType { return TypeState }

// NewState wraps a snapshot
func NewState(state *entities.GameState) *StateMessage {
	return &StateMessage{Type: TypeState, State: state}
}

// ErrorMessage reports a rejected action to the connection that sent it
type ErrorMessage struct {
	Type    ServerMessageType `json:"type"`
	Message string            `json:"message"`
}

// MessageType implements ServerMessage
func (m *ErrorMessage) MessageType() ServerMessageType { return TypeError }

// NewError builds an error message
func NewError(message string) *ErrorMessage {
	return &ErrorMessage{Type: TypeError, Message: message}
}

// CardPlayedMessage announces a resolved play
type CardPlayedMessage struct {
	Type     ServerMessageType `json:"type"`
	PlayerID string            `json:"playerId"`
	Card     entities.Card     `json:"card"`
	Damage   int               `json:"damage"`
}

// MessageType implements ServerMessage
func (m *CardPlayedMessage) MessageType() ServerMessageType { return TypeCardPlayed }

// NewCardPlayed builds a card-played message
func NewCardPlayed(playerID string, card entities.Card, damage int) *CardPlayedMessage {
	return &CardPlayedMessage{Type: TypeCardPlayed, PlayerID: playerID, Card: card, Damage: damage}
}

// AbilityTriggeredMessage names the ability that fired during a play
type AbilityTriggeredMessage struct {
	Type        ServerMessageType `json:"type"`
	CardName    string            `json:"cardName"`
	AbilityText string            `json:"abilityText"`
}

// MessageType implements ServerMessage
func (m *AbilityTriggeredMessage) MessageType() ServerMessageType { return TypeAbilityTriggered }

// NewAbilityTriggered builds an ability-triggered message
func NewAbilityTriggered(cardName, abilityText string) *AbilityTriggeredMessage {
	return &AbilityTriggeredMessage{Type: TypeAbilityTriggered, CardName: cardName, AbilityText: abilityText}
}

// RoundEndedMessage announces the end of one game of the match. Winner is
// null for a tie.
type RoundEndedMessage struct {
	Type       ServerMessageType `json:"type"`
	Winner     *string           `json:"winner"`
	GameNumber int               `json:"gameNumber"`
}

// MessageType implements ServerMessage
func (m *RoundEndedMessage) MessageType() ServerMessageType { return TypeRoundEnded }

// NewRoundEnded builds a round-ended message
func NewRoundEnded(winner *string, gameNumber int) *RoundEndedMessage {
	return &RoundEndedMessage{Type: TypeRoundEnded, Winner: winner, GameNumber: gameNumber}
}

// MatchEndedMessage announces the match winner
type MatchEndedMessage struct {
	Type   ServerMessageType `json:"type"`
	Winner *string           `json:"winner"`
}

// MessageType implements ServerMessage
func (m *MatchEndedMessage) MessageType() ServerMessageType { return TypeMatchEnded }

// NewMatchEnded builds a match-ended message
func NewMatchEnded(winner *string) *MatchEndedMessage {
	return &MatchEndedMessage{Type: TypeMatchEnded, Winner: winner}
}

// RematchRequestedMessage tells the room a player wants another match
type RematchRequestedMessage struct {
	Type       ServerMessageType `json:"type"`
	ByPlayerID string            `json:"byPlayerId"`
	SwapThemes bool              `json:"swapThemes"`
}

// MessageType implements ServerMessage
func (m *RematchRequestedMessage) MessageType() ServerMessageType { return TypeRematchRequested }

// NewRematchRequested builds a rematch-requested message
func NewRematchRequested(byPlayerID string, swapThemes bool) *RematchRequestedMessage {
	return &RematchRequestedMessage{Type: TypeRematchRequested, ByPlayerID: byPlayerID, SwapThemes: swapThemes}
}

// SpectatorCountMessage carries the number of spectators in the room
type SpectatorCountMessage struct {
	Type  ServerMessageType `json:"type"`
	Count int               `json:"count"`
}

// MessageType implements ServerMessage
func (m *SpectatorCountMessage) MessageType() ServerMessageType { return TypeSpectatorCount }

// NewSpectatorCount builds a spectator-count message
func NewSpectatorCount(count int) *SpectatorCountMessage {
	return &SpectatorCountMessage{Type: TypeSpectatorCount, Count: count}
}
