package engine

import (
	"strings"
	"unicode"

	"github.com/KirkDiggler/theme-clash/internal/entities"
)

// Defaults for cards written before a field existed
const (
	DefaultSpeed = 5
	MinSpeed     = 1
	MaxSpeed     = 10
	MinManaCost  = 1
)

var defaultManaCost = map[entities.Rarity]int{
	entities.RarityCommon: 2,
	entities.RarityRare:   3,
	entities.RarityEpic:   4,
}

// NormalizeCard fills missing fields and clamps stats into range
func NormalizeCard(c *entities.Card) {
	if !c.Rarity.IsValid() {
		c.Rarity = entities.RarityCommon
	}
	if !c.Color.IsValid() {
		c.Color = entities.ColorSlate
	}

	if c.ManaCost <= 0 {
		c.ManaCost = defaultManaCost[c.Rarity]
	}
	c.ManaCost = min(max(c.ManaCost, MinManaCost), MaxMana)

	if c.Speed <= 0 {
		c.Speed = DefaultSpeed
	}
	c.Speed = min(max(c.Speed, MinSpeed), MaxSpeed)

	c.Attack = max(0, c.Attack)
	c.Defense = max(0, c.Defense)
}

// NormalizeState applies NormalizeCard to every card the state holds
func NormalizeState(state *entities.GameState) {
	for _, p := range state.Players {
		normalizeCards(p.Cards)
		normalizeCards(p.DraftPool)
		normalizeCards(p.DraftedCards)
		if p.RevealedCard != nil {
			NormalizeCard(p.RevealedCard)
		}
	}
	for i := range state.PlayedCards {
		NormalizeCard(&state.PlayedCards[i].Card)
	}
}

func normalizeCards(cards []entities.Card) {
	for i := range cards {
		NormalizeCard(&cards[i])
	}
}

// SanitizeTheme trims, collapses whitespace and truncates a theme
func SanitizeTheme(theme string) string {
	return sanitize(theme, MaxThemeLength)
}

// SanitizeName trims, collapses whitespace and truncates a player name
func SanitizeName(name string) string {
	return sanitize(name, MaxPlayerNameLength)
}

func sanitize(s string, limit int) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, s)
	s = strings.Join(strings.Fields(s), " ")

	runes := []rune(s)
	if len(runes) > limit {
		s = strings.TrimSpace(string(runes[:limit]))
	}
	return s
}
