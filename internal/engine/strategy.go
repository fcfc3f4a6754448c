package engine

import (
	"github.com/KirkDiggler/theme-clash/internal/entities"
)

// Strategy labels handed to the card generator for the next game
const (
	StrategyAggressive = "aggressive"
	StrategyDefensive  = "defensive"
	StrategyHighCost   = "high-cost"
	StrategyBalanced   = "balanced"
)

const (
	highCostAverage = 4.0
	statLeadMargin  = 2.0
)

// StrategyLabel classifies a game's worth of plays by average stats
func StrategyLabel(cards []entities.Card) string {
	if len(cards) == 0 {
		return StrategyBalanced
	}

	var attack, defense, mana float64
	for _, c := range cards {
		attack += float64(c.Attack)
		defense += float64(c.Defense)
		mana += float64(c.ManaCost)
	}
	n := float64(len(cards))
	attack, defense, mana = attack/n, defense/n, mana/n

	switch {
	case mana >= highCostAverage:
		return StrategyHighCost
	case attack >= defense+statLeadMargin:
		return StrategyAggressive
	case defense >= attack+statLeadMargin:
		return StrategyDefensive
	default:
		return StrategyBalanced
	}
}
