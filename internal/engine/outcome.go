package engine

import (
	"github.com/KirkDiggler/rpg-toolkit/core"

	"github.com/KirkDiggler/theme-clash/internal/entities"
)

// CheckGameEnd reports whether the current game is over. Players are
// inspected in join order so the result never depends on map iteration.
func CheckGameEnd(state *entities.GameState) GameResult {
	players := state.OrderedPlayers()
	if len(players) < 2 {
		return GameResult{}
	}

	for i, p := range players {
		if p.HP <= 0 {
			winner := players[1-i].ID
			return GameResult{Ended: true, Winner: &winner}
		}
	}

	if state.Round > MaxRounds {
		return GameResult{Ended: true, Winner: higherHP(players[0], players[1])}
	}

	if len(players[0].Cards) == 0 && len(players[1].Cards) == 0 {
		return GameResult{Ended: true, Winner: higherHP(players[0], players[1])}
	}

	return GameResult{}
}

func higherHP(a, b *entities.Player) *string {
	switch {
	case a.HP > b.HP:
		id := a.ID
		return &id
	case b.HP > a.HP:
		id := b.ID
		return &id
	default:
		return nil
	}
}

// CheckMatchEnd reports whether a player has won the best-of-three
func CheckMatchEnd(state *entities.GameState) MatchResult {
	for _, p := range state.OrderedPlayers() {
		if p.MatchWins >= WinsToWinMatch {
			id := p.ID
			return MatchResult{Ended: true, Winner: &id}
		}
	}
	return MatchResult{}
}

// IsDraftComplete reports whether the player has drafted a full deck
func IsDraftComplete(p *entities.Player) bool {
	return len(p.DraftedCards) == CardsPerPlayer
}

// Opponent returns the other player of the entity's match, or nil
func Opponent(state *entities.GameState, entity core.Entity) *entities.Player {
	if entity == nil || entity.GetType() != entities.EntityTypePlayer {
		return nil
	}
	return state.Player(state.OpponentID(entity.GetID()))
}
