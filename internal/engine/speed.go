package engine

import (
	"github.com/KirkDiggler/theme-clash/internal/entities"
)

// ComputeSpeedOrder orders the two players by the speed of the cards they
// played in the current round. A player who has not played counts as 0.
// Ties keep join order.
func ComputeSpeedOrder(state *entities.GameState) []string {
	if len(state.PlayerOrder) < 2 {
		return append([]string{}, state.PlayerOrder...)
	}

	first, second := state.PlayerOrder[0], state.PlayerOrder[1]
	speeds := map[string]int{}
	for _, pc := range state.PlayedInRound(state.GameNumber, state.Round) {
		speeds[pc.PlayerID] = pc.Card.Speed
	}

	gap := speeds[first] - speeds[second]
	if m, ok := ModifierByName(state.RoundModifier); ok && m.SpeedGapMultiplier > 0 {
		gap *= m.SpeedGapMultiplier
	}

	if gap < 0 {
		return []string{second, first}
	}
	return []string{first, second}
}

// NextTurn is plain rotation through playerOrder
func NextTurn(state *entities.GameState) *string {
	if len(state.PlayerOrder) < 2 {
		return nil
	}

	idx := 0
	if state.CurrentTurn != nil {
		for i, id := range state.PlayerOrder {
			if id == *state.CurrentTurn {
				idx = i + 1
				break
			}
		}
	}

	next := state.PlayerOrder[idx%len(state.PlayerOrder)]
	return &next
}
