package engine

import (
	"regexp"
	"strings"

	"github.com/KirkDiggler/theme-clash/internal/entities"
	"github.com/KirkDiggler/theme-clash/internal/errors"
)

// Legacy ability bonuses, matched against the free-text ability of cards
// generated before structured perks existed.
const (
	legacyStartingWithBonus = 2
	legacyFirstRoundBonus   = 2
	legacyFinalRoundBonus   = 3
	legacyLowHPBonus        = 2

	// "double damage" fires on a 1 in 4
	doubleDamageDie = 4
)

var startingWithPattern = regexp.MustCompile(`(?i)starting with ['"]?([a-z])['"]?`)

type legacyResult struct {
	bonus     int
	triggered bool
}

// evaluateLegacyAbility is the fallback pass over free-text abilities. Its
// result only ever raises the structured bonus.
func (e *engine) evaluateLegacyAbility(
	card, defending *entities.Card,
	attacker *entities.Player,
	state *entities.GameState,
	base int,
) (legacyResult, error) {
	var res legacyResult
	raise := func(v int) {
		res.triggered = true
		res.bonus = max(res.bonus, v)
	}

	ability := strings.ToLower(card.Ability)
	if ability == "" {
		return res, nil
	}

	if defending != nil && strings.Contains(ability, "starting with") {
		if m := startingWithPattern.FindStringSubmatch(ability); m != nil &&
			strings.HasPrefix(strings.ToLower(defending.Name), m[1]) {
			raise(legacyStartingWithBonus)
		}
	}

	if strings.Contains(ability, "first round") && state.Round == 1 {
		raise(legacyFirstRoundBonus)
	}
	if strings.Contains(ability, "final round") && state.Round == MaxRounds {
		raise(legacyFinalRoundBonus)
	}

	if (strings.Contains(ability, "low hp") || strings.Contains(ability, "below half")) && isLowHP(attacker) {
		raise(legacyLowHPBonus)
	}

	if strings.Contains(ability, "double damage") {
		roll, err := e.roller.Roll(doubleDamageDie)
		if err != nil {
			return res, errors.Wrap(err, "failed to roll for double damage")
		}
		if roll == 1 {
			raise(base)
		}
	}

	return res, nil
}
