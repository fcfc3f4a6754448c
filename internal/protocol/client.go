// Package protocol defines the JSON messages exchanged over a room's
// websocket.
package protocol

import (
	"encoding/json"

	"github.com/KirkDiggler/theme-clash/internal/errors"
)

// ClientMessageType tags an inbound message
type ClientMessageType string

// Inbound message types
const (
	TypeJoin               ClientMessageType = "join"
	TypeSetTheme           ClientMessageType = "set-theme"
	TypeReady              ClientMessageType = "ready"
	TypeDraftSelect        ClientMessageType = "draft-select"
	TypeDraftDiscard       ClientMessageType = "draft-discard"
	TypeDraftConfirm       ClientMessageType = "draft-confirm"
	TypeRevealCard         ClientMessageType = "reveal-card"
	TypePlayCard           ClientMessageType = "play-card"
	TypeSkipTurn           ClientMessageType = "skip-turn"
	TypeContinueMatch      ClientMessageType = "continue-match"
	TypeRequestRematch     ClientMessageType = "request-rematch"
	TypeRequestSwapRematch ClientMessageType = "request-swap-rematch"
	TypeAcceptRematch      ClientMessageType = "accept-rematch"
	TypeToggleBlindDraft   ClientMessageType = "toggle-blind-draft"
)

var clientMessageTypes = map[ClientMessageType]bool{
	TypeJoin:               true,
	TypeSetTheme:           true,
	TypeReady:              true,
	TypeDraftSelect:        true,
	TypeDraftDiscard:       true,
	TypeDraftConfirm:       true,
	TypeRevealCard:         true,
	TypePlayCard:           true,
	TypeSkipTurn:           true,
	TypeContinueMatch:      true,
	TypeRequestRematch:     true,
	TypeRequestSwapRematch: true,
	TypeAcceptRematch:      true,
	TypeToggleBlindDraft:   true,
}

// IsValid reports whether t is a known inbound type
func (t ClientMessageType) IsValid() bool {
	return clientMessageTypes[t]
}

// ClientMessage is the union of every inbound message. Type selects which
// payload fields are meaningful.
type ClientMessage struct {
	Type ClientMessageType `json:"type"`

	// join
	PlayerName  string `json:"playerName,omitempty"`
	IsSpectator bool   `json:"isSpectator,omitempty"`
	BlindDraft  *bool  `json:"blindDraft,omitempty"`

	// set-theme
	Theme string `json:"theme,omitempty"`

	// draft-select, draft-discard, reveal-card, play-card
	CardID string `json:"cardId,omitempty"`
}

// RequiresCard reports whether the message type carries a card id
func (m *ClientMessage) RequiresCard() bool {
	switch m.Type {
	case TypeDraftSelect, TypeDraftDiscard, TypeRevealCard, TypePlayCard:
		return true
	default:
		return false
	}
}

// Validate checks the payload the message type requires
func (m *ClientMessage) Validate() error {
	if m == nil {
		return errors.InvalidArgument("Invalid message")
	}
	if m.Type == "" {
		return errors.InvalidArgument("Message type is required")
	}
	if !m.Type.IsValid() {
		return errors.InvalidArgumentf("Unknown message type: %s", m.Type)
	}

	switch {
	case m.Type == TypeSetTheme && m.Theme == "":
		return errors.InvalidArgument("Theme is required")
	case m.RequiresCard() && m.CardID == "":
		return errors.InvalidArgument("Card id is required")
	}

	return nil
}

// DecodeClientMessage parses and validates one inbound frame
func DecodeClientMessage(data []byte) (*ClientMessage, error) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "Invalid message format")
	}

	if err := msg.Validate(); err != nil {
		return nil, err
	}

	return &msg, nil
}
