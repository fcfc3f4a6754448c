// Package engine holds the rules of a match: combat resolution, mana,
// turn order, round modifiers, status effects and win detection.
//
// Everything except damage resolution is a plain function over
// entities values. Damage resolution needs a random source for the legacy
// "double damage" ability, so it lives behind the Engine interface with an
// injected dice.Roller.
package engine

//go:generate mockgen -destination=mock/mock_engine.go -package=enginemock github.com/KirkDiggler/theme-clash/internal/engine Engine

// Engine resolves combat between two cards
type Engine interface {
	// ResolveDamage computes the damage an attacking card deals. It never
	// mutates its inputs.
	ResolveDamage(input *ResolveDamageInput) (*ResolveDamageOutput, error)
}
