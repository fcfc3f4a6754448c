package engine

import (
	"github.com/KirkDiggler/theme-clash/internal/entities"
)

// TickStatusEffects applies a player's active effects at a round boundary.
// Poison and heal change hp; shield has no tick. Durations count down and
// expired effects are dropped.
func TickStatusEffects(p *entities.Player) {
	if len(p.StatusEffects) == 0 {
		return
	}

	remaining := make([]entities.StatusEffect, 0, len(p.StatusEffects))
	for _, effect := range p.StatusEffects {
		switch effect.Type {
		case entities.StatusPoison:
			p.HP -= effect.Value
		case entities.StatusHeal:
			p.HP = min(p.HP+effect.Value, p.MaxHP)
		}

		effect.Duration--
		if effect.Duration > 0 {
			remaining = append(remaining, effect)
		}
	}

	p.HP = max(0, p.HP)
	p.StatusEffects = remaining
}

// ApplyStatusEffects adds the card's status perks to the target
func ApplyStatusEffects(target *entities.Player, card *entities.Card) {
	if card.Perks == nil {
		return
	}
	for _, effect := range card.Perks.Status {
		if effect.Duration <= 0 {
			continue
		}
		target.StatusEffects = append(target.StatusEffects, effect)
	}
}

// ApplyDamage lowers hp, never below 0
func ApplyDamage(target *entities.Player, damage int) {
	target.HP = max(0, target.HP-damage)
}
