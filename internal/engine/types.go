package engine

import (
	"github.com/KirkDiggler/theme-clash/internal/entities"
)

// Match constants
const (
	StartingHP     = 20
	CardsPerPlayer = 5
	DraftPoolSize  = 7
	MaxRounds      = 5
	WinsToWinMatch = 2

	BaseMana = 3
	MaxMana  = 5

	MaxThemeLength      = 60
	MaxPlayerNameLength = 32
)

// ResolveDamageInput contains the combatants of a single card play
type ResolveDamageInput struct {
	AttackingCard *entities.Card
	// DefendingCard is the opponent's most recent card this game, if any
	DefendingCard *entities.Card
	Attacker      *entities.Player
	Defender      *entities.Player
	State         *entities.GameState
}

// ResolveDamageOutput contains the resolved damage
type ResolveDamageOutput struct {
	Damage      int
	BonusDamage int
	// AbilityTriggered is the ability text to show clients, empty if none fired
	AbilityTriggered string
}

// GameResult is the outcome of an end-of-game check
type GameResult struct {
	Ended bool
	// Winner is nil for a tie or when the game has not ended
	Winner *string
}

// MatchResult is the outcome of an end-of-match check
type MatchResult struct {
	Ended  bool
	Winner *string
}
