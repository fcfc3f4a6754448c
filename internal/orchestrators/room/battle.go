package room

import (
	"fmt"

	"github.com/KirkDiggler/theme-clash/internal/engine"
	"github.com/KirkDiggler/theme-clash/internal/entities"
	"github.com/KirkDiggler/theme-clash/internal/errors"
	"github.com/KirkDiggler/theme-clash/internal/protocol"
)

// turnHolder checks the battle guards shared by play-card and skip-turn
func turnHolder(st *entities.GameState, playerID, phaseMessage string) (*entities.Player, error) {
	if err := requirePhase(st, phaseMessage, entities.PhaseBattle); err != nil {
		return nil, err
	}
	p, err := playerOf(st, playerID)
	if err != nil {
		return nil, err
	}
	if st.CurrentTurn == nil || *st.CurrentTurn != playerID {
		return nil, errors.PermissionDenied("Not your turn!")
	}
	return p, nil
}

func (o *orchestrator) playCard(c *change, playerID, cardID string) error {
	st := c.state
	p, err := turnHolder(st, playerID, "Cannot play cards in this phase")
	if err != nil {
		return err
	}

	idx := entities.FindCard(p.Cards, cardID)
	if idx < 0 {
		return errors.NotFound("Card not found in hand")
	}
	card := *p.Cards[idx].Clone()

	cost := engine.EffectiveManaCost(&card, st.RoundModifier)
	if p.Mana < cost {
		return errors.ResourceExhaustedf("Not enough mana: %d required, %d available", cost, p.Mana)
	}

	opponent := engine.Opponent(st, p)
	if opponent == nil {
		return errors.Internalf("room %s has no opponent for %s", st.RoomID, playerID)
	}

	// Resolve against the log as it stood before this play
	resolved, err := o.engine.ResolveDamage(&engine.ResolveDamageInput{
		AttackingCard: &card,
		DefendingCard: st.LastPlayedBy(opponent.ID, st.GameNumber),
		Attacker:      p,
		Defender:      opponent,
		State:         st,
	})
	if err != nil {
		return errors.Wrap(err, "failed to resolve damage")
	}

	p.Mana -= cost
	p.Cards = entities.RemoveCard(p.Cards, idx)
	engine.ApplyDamage(opponent, resolved.Damage)
	engine.ApplyStatusEffects(opponent, &card)

	damage := resolved.Damage
	st.LastDamage = &damage
	st.PlayedCards = append(st.PlayedCards, entities.PlayedCard{
		Card:       card,
		PlayerID:   playerID,
		Round:      st.Round,
		GameNumber: st.GameNumber,
	})
	st.RoundMoves = append(st.RoundMoves, playerID)
	st.SpeedOrder = engine.ComputeSpeedOrder(st)
	st.Message = fmt.Sprintf("%s played %s for %d damage!", p.Name, card.Name, damage)

	if resolved.AbilityTriggered != "" {
		c.broadcast(protocol.NewAbilityTriggered(card.Name, resolved.AbilityTriggered))
	}
	c.broadcast(protocol.NewCardPlayed(playerID, card, damage))

	o.finishTurn(c)
	return nil
}

func (o *orchestrator) skipTurn(c *change, playerID string) error {
	st := c.state
	p, err := turnHolder(st, playerID, "Cannot skip in this phase")
	if err != nil {
		return err
	}

	st.LastDamage = nil
	st.RoundMoves = append(st.RoundMoves, playerID)
	st.SpeedOrder = engine.ComputeSpeedOrder(st)
	st.Message = fmt.Sprintf("%s skipped their turn", p.Name)

	o.finishTurn(c)
	return nil
}

// finishTurn ends the game, or closes the round once both players have
// moved, and hands the turn on
func (o *orchestrator) finishTurn(c *change) {
	st := c.state
	if result := engine.CheckGameEnd(st); result.Ended {
		o.endGame(c, result.Winner)
		return
	}

	if len(st.RoundMoves) < playersPerRoom {
		st.CurrentTurn = engine.NextTurn(st)
		o.announceTurn(st)
		return
	}

	// Both moved: the faster card of this round opens the next one
	order := append([]string{}, st.SpeedOrder...)
	engine.AdvanceRound(st)
	if result := engine.CheckGameEnd(st); result.Ended {
		o.endGame(c, result.Winner)
		return
	}

	if len(order) > 0 {
		first := order[0]
		st.CurrentTurn = &first
	} else {
		st.CurrentTurn = engine.NextTurn(st)
	}
	o.announceTurn(st)
}

func (o *orchestrator) announceTurn(st *entities.GameState) {
	if st.CurrentTurn == nil {
		return
	}
	if next := st.Player(*st.CurrentTurn); next != nil {
		st.Message = fmt.Sprintf("%s's turn", next.Name)
	}
}

// endGame records the finished game and moves the room to round-ended or,
// when a player has won the match, to match-ended
func (o *orchestrator) endGame(c *change, winner *string) {
	st := c.state
	players := st.OrderedPlayers()

	entry := entities.GameHistoryEntry{
		GameNumber: st.GameNumber,
		Winner:     cloneString(winner),
	}
	if len(players) == playersPerRoom {
		entry.Player1HP = players[0].HP
		entry.Player2HP = players[1].HP
	}
	st.GameHistory = append(st.GameHistory, entry)

	st.RoundWinner = cloneString(winner)
	st.CurrentTurn = nil
	if winner != nil {
		if p := st.Player(*winner); p != nil {
			p.MatchWins++
		}
	}

	if result := engine.CheckMatchEnd(st); result.Ended {
		st.Phase = entities.PhaseMatchEnded
		st.MatchWinner = cloneString(result.Winner)

		champion := st.Player(*result.Winner)
		runnerUp := st.Player(st.OpponentID(champion.ID))
		runnerUpWins := 0
		if runnerUp != nil {
			runnerUpWins = runnerUp.MatchWins
		}
		st.Message = fmt.Sprintf("%s wins the match %d-%d!", champion.Name, champion.MatchWins, runnerUpWins)

		c.broadcast(protocol.NewMatchEnded(cloneString(result.Winner)))
		input := matchEndInput(st)
		c.onCommit(func() { o.recordMatchEnd(input) })
		return
	}

	st.Phase = entities.PhaseRoundEnded
	if winner != nil {
		st.Message = fmt.Sprintf("%s wins Game %d! Score: %s", st.Player(*winner).Name, st.GameNumber, scoreString(st))
	} else {
		st.Message = fmt.Sprintf("Game %d is a tie! Score: %s", st.GameNumber, scoreString(st))
	}
	c.broadcast(protocol.NewRoundEnded(cloneString(winner), st.GameNumber))
}

// scoreString is the match score in join order, e.g. "2-1"
func scoreString(st *entities.GameState) string {
	players := st.OrderedPlayers()
	if len(players) != playersPerRoom {
		return "0-0"
	}
	return fmt.Sprintf("%d-%d", players[0].MatchWins, players[1].MatchWins)
}

func cloneString(v *string) *string {
	if v == nil {
		return nil
	}
	s := *v
	return &s
}
