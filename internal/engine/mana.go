package engine

import (
	"github.com/KirkDiggler/theme-clash/internal/entities"
)

// RoundMana is the mana both players start a round with: 3, 4, then 5
func RoundMana(round int) int {
	if round < 1 {
		round = 1
	}
	return min(BaseMana+(round-1), MaxMana)
}

// EffectiveManaCost is a card's cost under the given round modifier,
// never below 1
func EffectiveManaCost(card *entities.Card, roundModifier string) int {
	m, _ := ModifierByName(roundModifier)
	return max(1, card.ManaCost-m.CostReduction)
}

// CanAfford reports whether the player has mana for the card this round
func CanAfford(player *entities.Player, card *entities.Card, state *entities.GameState) bool {
	return player.Mana >= EffectiveManaCost(card, state.RoundModifier)
}

// RefillMana resets every player's mana to the current round's amount
func RefillMana(state *entities.GameState) {
	mana := RoundMana(state.Round)
	for _, p := range state.Players {
		p.Mana = mana
		p.MaxMana = mana
	}
}
