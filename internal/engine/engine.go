package engine

import (
	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/theme-clash/internal/entities"
	"github.com/KirkDiggler/theme-clash/internal/errors"
)

// Config holds the dependencies of the engine
type Config struct {
	Roller dice.Roller
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config is required")
	}

	vb := errors.NewValidationBuilder()
	if c.Roller == nil {
		vb.RequiredField("Roller")
	}

	return vb.Build()
}

type engine struct {
	roller dice.Roller
}

// New creates an engine backed by the given roller
func New(cfg *Config) (Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &engine{roller: cfg.Roller}, nil
}

// ResolveDamage runs the structured perk pass, then the legacy free-text
// pass, then applies the defender's shield.
func (e *engine) ResolveDamage(input *ResolveDamageInput) (*ResolveDamageOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	if input.AttackingCard == nil {
		vb.RequiredField("AttackingCard")
	}
	if input.Attacker == nil {
		vb.RequiredField("Attacker")
	}
	if input.Defender == nil {
		vb.RequiredField("Defender")
	}
	if input.State == nil {
		vb.RequiredField("State")
	}
	if err := vb.Build(); err != nil {
		return nil, err
	}

	card := input.AttackingCard
	modifier, _ := ModifierByName(input.State.RoundModifier)

	base := card.Attack + modifier.AttackBonus + passiveTotal(card, entities.PassiveDamageBoost)
	if defending := input.DefendingCard; defending != nil {
		defense := defending.Defense + modifier.DefenseBonus +
			passiveTotal(defending, entities.PassiveDamageReduction)
		base = max(0, base-defense)
	}

	perks := evaluatePerks(card, input.Attacker, input.State)
	bonus, ability := perks.bonus, perks.ability

	legacy, err := e.evaluateLegacyAbility(card, input.DefendingCard, input.Attacker, input.State, base)
	if err != nil {
		return nil, err
	}
	if legacy.triggered && legacy.bonus > bonus {
		bonus = legacy.bonus
		ability = card.Ability
	}

	total := base + bonus
	if shield := statusTotal(input.Defender, entities.StatusShield); shield > 0 {
		total -= shield
	}

	return &ResolveDamageOutput{
		Damage:           max(0, total),
		BonusDamage:      bonus,
		AbilityTriggered: ability,
	}, nil
}
