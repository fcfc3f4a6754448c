// Package entities provides core data structures for theme-clash.
package entities

// GamePhase is the state machine discriminator of a room
type GamePhase string

// Phases
const (
	PhaseLobby       GamePhase = "lobby"
	PhaseThemeSelect GamePhase = "theme-select"
	PhaseGenerating  GamePhase = "generating"
	PhaseDrafting    GamePhase = "drafting"
	PhaseReveal      GamePhase = "reveal"
	PhaseBattle      GamePhase = "battle"
	PhaseRoundEnded  GamePhase = "round-ended"
	PhaseMatchEnded  GamePhase = "match-ended"
)

// PlayedCard is one entry of the append-only play log
type PlayedCard struct {
	Card       Card   `json:"card"`
	PlayerID   string `json:"playerId"`
	Round      int    `json:"round"`
	GameNumber int    `json:"gameNumber"`
}

// GameHistoryEntry summarizes one finished game of the match
type GameHistoryEntry struct {
	GameNumber int     `json:"gameNumber"`
	Winner     *string `json:"winner"`
	Player1HP  int     `json:"player1HP"`
	Player2HP  int     `json:"player2HP"`
	// Strategies maps player id to a coarse play-style label
	Strategies map[string]string `json:"strategies,omitempty"`
}

// GameState is the full authoritative snapshot of a room. It is
// broadcast whole on every change.
type GameState struct {
	RoomID      string             `json:"roomId"`
	Phase       GamePhase          `json:"phase"`
	Players     map[string]*Player `json:"players"`
	Spectators  []string           `json:"spectators"`
	PlayerOrder []string           `json:"playerOrder"`
	CurrentTurn *string            `json:"currentTurn"`

	Round      int `json:"round"`
	GameNumber int `json:"gameNumber"`

	PlayedCards []PlayedCard `json:"playedCards"`
	// RoundMoves holds the ids of players that have played or skipped in
	// the current round, in order
	RoundMoves []string `json:"roundMoves"`

	LastDamage  *int    `json:"lastDamage"`
	RoundWinner *string `json:"roundWinner"`
	MatchWinner *string `json:"matchWinner"`

	Message       string             `json:"message"`
	RoundModifier string             `json:"roundModifier"`
	BlindDraft    bool               `json:"blindDraft"`
	GameHistory   []GameHistoryEntry `json:"gameHistory"`
	SpeedOrder    []string           `json:"speedOrder"`
}

// Clone returns a deep copy of the state
func (s *GameState) Clone() *GameState {
	if s == nil {
		return nil
	}
	out := *s
	if s.Players != nil {
		out.Players = make(map[string]*Player, len(s.Players))
		for id, p := range s.Players {
			out.Players[id] = p.Clone()
		}
	}
	out.Spectators = cloneStrings(s.Spectators)
	out.PlayerOrder = cloneStrings(s.PlayerOrder)
	out.CurrentTurn = cloneString(s.CurrentTurn)
	if s.PlayedCards != nil {
		out.PlayedCards = make([]PlayedCard, len(s.PlayedCards))
		for i, pc := range s.PlayedCards {
			out.PlayedCards[i] = PlayedCard{
				Card:       *pc.Card.Clone(),
				PlayerID:   pc.PlayerID,
				Round:      pc.Round,
				GameNumber: pc.GameNumber,
			}
		}
	}
	out.RoundMoves = cloneStrings(s.RoundMoves)
	out.LastDamage = cloneInt(s.LastDamage)
	out.RoundWinner = cloneString(s.RoundWinner)
	out.MatchWinner = cloneString(s.MatchWinner)
	if s.GameHistory != nil {
		out.GameHistory = make([]GameHistoryEntry, len(s.GameHistory))
		for i, h := range s.GameHistory {
			entry := h
			entry.Winner = cloneString(h.Winner)
			if h.Strategies != nil {
				entry.Strategies = make(map[string]string, len(h.Strategies))
				for k, v := range h.Strategies {
					entry.Strategies[k] = v
				}
			}
			out.GameHistory[i] = entry
		}
	}
	out.SpeedOrder = cloneStrings(s.SpeedOrder)
	return &out
}

// Player returns the player with the given id, or nil
func (s *GameState) Player(id string) *Player {
	if s.Players == nil {
		return nil
	}
	return s.Players[id]
}

// OpponentID returns the other player's id, or "" if there is none
func (s *GameState) OpponentID(id string) string {
	for _, pid := range s.PlayerOrder {
		if pid != id {
			return pid
		}
	}
	return ""
}

// OrderedPlayers returns the players in join order
func (s *GameState) OrderedPlayers() []*Player {
	out := make([]*Player, 0, len(s.PlayerOrder))
	for _, id := range s.PlayerOrder {
		if p := s.Player(id); p != nil {
			out = append(out, p)
		}
	}
	return out
}

// IsSpectator reports whether the connection is in the spectator list
func (s *GameState) IsSpectator(connID string) bool {
	for _, id := range s.Spectators {
		if id == connID {
			return true
		}
	}
	return false
}

// RemoveSpectator drops the connection from the spectator list and
// reports whether it was present
func (s *GameState) RemoveSpectator(connID string) bool {
	for i, id := range s.Spectators {
		if id == connID {
			s.Spectators = append(s.Spectators[:i:i], s.Spectators[i+1:]...)
			return true
		}
	}
	return false
}

// PlayedInGame returns the play log entries of one game
func (s *GameState) PlayedInGame(gameNumber int) []PlayedCard {
	var out []PlayedCard
	for _, pc := range s.PlayedCards {
		if pc.GameNumber == gameNumber {
			out = append(out, pc)
		}
	}
	return out
}

// PlayedInRound returns the play log entries of one round of one game
func (s *GameState) PlayedInRound(gameNumber, round int) []PlayedCard {
	var out []PlayedCard
	for _, pc := range s.PlayedCards {
		if pc.GameNumber == gameNumber && pc.Round == round {
			out = append(out, pc)
		}
	}
	return out
}

// PlayedBy returns the cards a player has played in one game, oldest first
func (s *GameState) PlayedBy(playerID string, gameNumber int) []Card {
	var out []Card
	for _, pc := range s.PlayedCards {
		if pc.GameNumber == gameNumber && pc.PlayerID == playerID {
			out = append(out, pc.Card)
		}
	}
	return out
}

// LastPlayedBy returns the most recent card a player played in one game,
// or nil
func (s *GameState) LastPlayedBy(playerID string, gameNumber int) *Card {
	for i := len(s.PlayedCards) - 1; i >= 0; i-- {
		pc := s.PlayedCards[i]
		if pc.GameNumber == gameNumber && pc.PlayerID == playerID {
			return pc.Card.Clone()
		}
	}
	return nil
}

// HasMoved reports whether the player has already acted this round
func (s *GameState) HasMoved(playerID string) bool {
	for _, id := range s.RoundMoves {
		if id == playerID {
			return true
		}
	}
	return false
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string{}, in...)
}
