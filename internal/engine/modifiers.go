package engine

import (
	"fmt"

	"github.com/KirkDiggler/theme-clash/internal/entities"
)

// Round modifier names
const (
	ModifierFirstStrike     = "First Strike"
	ModifierManaSurge       = "Mana Surge"
	ModifierPowerPlay       = "Power Play"
	ModifierDefensiveStance = "Defensive Stance"
	ModifierFinalStand      = "Final Stand"
)

// RoundModifier is a rule bonus that applies to both players for one round
type RoundModifier struct {
	Round       int
	Name        string
	Description string

	AttackBonus   int
	DefenseBonus  int
	CostReduction int
	// SpeedGapMultiplier scales the speed difference when ordering turns
	SpeedGapMultiplier int
}

var roundModifiers = []RoundModifier{
	{
		Round:              1,
		Name:               ModifierFirstStrike,
		Description:        "Speed differences count double",
		SpeedGapMultiplier: 2,
	},
	{
		Round:         2,
		Name:          ModifierManaSurge,
		Description:   "All cards cost 1 less mana",
		CostReduction: 1,
	},
	{
		Round:       3,
		Name:        ModifierPowerPlay,
		Description: "All cards gain +1 attack",
		AttackBonus: 1,
	},
	{
		Round:        4,
		Name:         ModifierDefensiveStance,
		Description:  "All cards gain +1 defense",
		DefenseBonus: 1,
	},
	{
		Round:       5,
		Name:        ModifierFinalStand,
		Description: "All cards gain +2 attack",
		AttackBonus: 2,
	},
}

// RoundModifiers returns the modifier table in round order
func RoundModifiers() []RoundModifier {
	return append([]RoundModifier{}, roundModifiers...)
}

// ModifierForRound returns the modifier of a round
func ModifierForRound(round int) (RoundModifier, bool) {
	for _, m := range roundModifiers {
		if m.Round == round {
			return m, true
		}
	}
	return RoundModifier{}, false
}

// ModifierByName returns the modifier with the given name. The zero
// modifier is returned for unknown names and has no effect.
func ModifierByName(name string) (RoundModifier, bool) {
	if name == "" {
		return RoundModifier{}, false
	}
	for _, m := range roundModifiers {
		if m.Name == name {
			return m, true
		}
	}
	return RoundModifier{}, false
}

// ApplyRoundModifier activates the modifier for the state's current round
func ApplyRoundModifier(state *entities.GameState) {
	m, ok := ModifierForRound(state.Round)
	if !ok {
		state.RoundModifier = ""
		return
	}
	state.RoundModifier = m.Name
	state.Message = fmt.Sprintf("Round %d: %s - %s", state.Round, m.Name, m.Description)
}
