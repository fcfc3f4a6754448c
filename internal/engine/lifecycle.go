package engine

import (
	"fmt"

	"github.com/KirkDiggler/theme-clash/internal/entities"
)

// NewGameState creates the lobby state of a fresh room
func NewGameState(roomID string) *entities.GameState {
	return &entities.GameState{
		RoomID:      roomID,
		Phase:       entities.PhaseLobby,
		Players:     map[string]*entities.Player{},
		Spectators:  []string{},
		PlayerOrder: []string{},
		Round:       1,
		GameNumber:  1,
		PlayedCards: []entities.PlayedCard{},
		RoundMoves:  []string{},
		Message:     "Waiting for players...",
		GameHistory: []entities.GameHistoryEntry{},
		SpeedOrder:  []string{},
	}
}

// NewPlayer creates a player with default stats
func NewPlayer(id, name string) *entities.Player {
	return &entities.Player{
		ID:            id,
		Name:          name,
		Cards:         []entities.Card{},
		DraftPool:     []entities.Card{},
		DraftedCards:  []entities.Card{},
		HP:            StartingHP,
		MaxHP:         StartingHP,
		StatusEffects: []entities.StatusEffect{},
	}
}

// ResetPlayerForNewGame clears combat state between games of a match.
// Identity, theme and match wins are kept.
func ResetPlayerForNewGame(p *entities.Player) {
	p.Cards = []entities.Card{}
	p.DraftPool = []entities.Card{}
	p.DraftedCards = []entities.Card{}
	p.RevealedCard = nil
	p.IsRevealReady = false
	p.HP = StartingHP
	p.MaxHP = StartingHP
	p.Mana = 0
	p.MaxMana = 0
	p.IsReady = true
	p.IsDraftReady = false
	p.StatusEffects = []entities.StatusEffect{}
}

// ResetStateForNewGame moves the match on to its next game
func ResetStateForNewGame(state *entities.GameState) {
	for _, p := range state.Players {
		ResetPlayerForNewGame(p)
	}
	state.Phase = entities.PhaseGenerating
	state.GameNumber++
	state.Round = 1
	state.RoundMoves = []string{}
	state.CurrentTurn = nil
	state.LastDamage = nil
	state.RoundWinner = nil
	state.RoundModifier = ""
	state.SpeedOrder = []string{}
	state.Message = "Generating cards for next game..."
}

// ResetStateForRematch builds the state of a brand new match between the
// same players. With swapThemes each player takes the other's original
// theme.
func ResetStateForRematch(state *entities.GameState, swapThemes bool) *entities.GameState {
	next := NewGameState(state.RoomID)
	next.Spectators = append([]string{}, state.Spectators...)
	next.PlayerOrder = append([]string{}, state.PlayerOrder...)
	next.BlindDraft = state.BlindDraft

	for _, old := range state.OrderedPlayers() {
		theme := old.OriginalTheme
		if swapThemes {
			if other := state.Player(state.OpponentID(old.ID)); other != nil && other.OriginalTheme != "" {
				theme = other.OriginalTheme
			} else {
				theme = old.Theme
			}
		}

		p := NewPlayer(old.ID, old.Name)
		p.Theme = theme
		p.OriginalTheme = theme
		p.IsReady = true
		next.Players[p.ID] = p
	}

	next.Phase = entities.PhaseGenerating
	if swapThemes {
		next.Message = "Swapping themes and generating new cards!"
	} else {
		next.Message = "Rematch! Generating new cards..."
	}
	return next
}

// StartBattle opens round 1: mana, the round modifier and the first turn
func StartBattle(state *entities.GameState) {
	state.Phase = entities.PhaseBattle
	state.Round = 1
	state.RoundMoves = []string{}
	state.SpeedOrder = []string{}
	RefillMana(state)
	ApplyRoundModifier(state)

	if len(state.PlayerOrder) == 0 {
		return
	}
	first := state.PlayerOrder[0]
	state.CurrentTurn = &first
	if p := state.Player(first); p != nil {
		state.Message = fmt.Sprintf("Battle begins! %s's turn (%s)", p.Name, state.RoundModifier)
	}
}

// AdvanceRound closes the current round: status effects tick, the round
// counter moves on, and mana and the modifier are reset for the new round.
func AdvanceRound(state *entities.GameState) {
	for _, p := range state.OrderedPlayers() {
		TickStatusEffects(p)
	}

	state.Round++
	state.RoundMoves = []string{}
	if state.Round > MaxRounds {
		state.RoundModifier = ""
		return
	}

	RefillMana(state)
	ApplyRoundModifier(state)
}
