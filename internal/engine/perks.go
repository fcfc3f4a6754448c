package engine

import (
	"strings"

	"github.com/KirkDiggler/theme-clash/internal/entities"
)

type perkResult struct {
	bonus   int
	ability string
}

// evaluatePerks runs the structured perk pass: triggered perks, then the
// combo perk. The last perk to fire owns the ability text.
func evaluatePerks(card *entities.Card, attacker *entities.Player, state *entities.GameState) perkResult {
	var res perkResult
	if card.Perks == nil {
		return res
	}

	for _, perk := range card.Perks.Triggered {
		if !triggerActive(perk.Trigger, attacker, state) {
			continue
		}
		if perk.Value != nil && mentionsDamage(perk.Effect) {
			res.bonus += *perk.Value
		}
		res.ability = perk.Effect
	}

	if combo := card.Perks.Combo; combo != nil && comboActive(combo, attacker.ID, state) {
		if combo.Value != nil && mentionsDamage(combo.ComboEffect) {
			res.bonus += *combo.Value
		}
		res.ability = combo.ComboEffect
	}

	return res
}

func triggerActive(trigger entities.Trigger, attacker *entities.Player, state *entities.GameState) bool {
	switch trigger {
	case entities.TriggerOnPlay:
		return true
	case entities.TriggerOnFirstRound:
		return state.Round == 1
	case entities.TriggerOnLastRound:
		return state.Round == MaxRounds
	case entities.TriggerOnLowHP:
		return isLowHP(attacker)
	default:
		// onDeath never fires: cards do not survive past resolution
		return false
	}
}

// comboActive checks the owner's plays earlier in the current game
func comboActive(combo *entities.ComboPerk, ownerID string, state *entities.GameState) bool {
	played := state.PlayedBy(ownerID, state.GameNumber)

	if len(combo.SynergyWith) > 0 {
		names := make(map[string]bool, len(played))
		for _, c := range played {
			names[strings.ToLower(c.Name)] = true
		}
		all := true
		for _, want := range combo.SynergyWith {
			if !names[strings.ToLower(want)] {
				all = false
				break
			}
		}
		if all {
			return true
		}
	}

	for _, c := range played {
		for _, color := range combo.RequiresColor {
			if c.Color == color {
				return true
			}
		}
	}

	return false
}

func mentionsDamage(text string) bool {
	return strings.Contains(strings.ToLower(text), "damage")
}

func isLowHP(p *entities.Player) bool {
	return p.HP <= p.MaxHP/2
}

func passiveTotal(card *entities.Card, perkType entities.PassivePerkType) int {
	if card == nil || card.Perks == nil {
		return 0
	}
	total := 0
	for _, perk := range card.Perks.Passive {
		if perk.Type == perkType {
			total += perk.Value
		}
	}
	return total
}

func statusTotal(p *entities.Player, effectType string) int {
	total := 0
	for _, e := range p.StatusEffects {
		if e.Type == effectType && e.Duration > 0 {
			total += e.Value
		}
	}
	return total
}
