package room

import (
	"fmt"

	"github.com/KirkDiggler/theme-clash/internal/engine"
	"github.com/KirkDiggler/theme-clash/internal/entities"
	"github.com/KirkDiggler/theme-clash/internal/errors"
	"github.com/KirkDiggler/theme-clash/internal/protocol"
)

func (o *orchestrator) continueMatch(c *change, playerID string) error {
	st := c.state
	if err := requirePhase(st, "Cannot continue match now", entities.PhaseRoundEnded); err != nil {
		return err
	}
	if _, err := playerOf(st, playerID); err != nil {
		return err
	}

	// Label each player's play style for the generator of the next game
	if n := len(st.GameHistory); n > 0 && st.GameHistory[n-1].GameNumber == st.GameNumber {
		strategies := make(map[string]string, len(st.PlayerOrder))
		for _, id := range st.PlayerOrder {
			strategies[id] = engine.StrategyLabel(st.PlayedBy(id, st.GameNumber))
		}
		st.GameHistory[n-1].Strategies = strategies
	}

	engine.ResetStateForNewGame(st)
	return nil
}

func (o *orchestrator) requestRematch(c *change, playerID string, swapThemes bool) error {
	st := c.state
	if err := requirePhase(st, "Cannot request rematch now", entities.PhaseMatchEnded); err != nil {
		return err
	}
	p, err := playerOf(st, playerID)
	if err != nil {
		return err
	}

	c.rematch[playerID] = swapThemes
	c.broadcast(protocol.NewRematchRequested(playerID, swapThemes))

	swapText := ""
	if swapThemes {
		swapText = "swap themes "
	}
	st.Message = fmt.Sprintf("%s wants a %srematch!", p.Name, swapText)

	if len(c.rematch) >= playersPerRoom {
		o.startRematch(c)
	}
	return nil
}

func (o *orchestrator) acceptRematch(c *change, playerID string) error {
	st := c.state
	if err := requirePhase(st, "Cannot accept rematch now", entities.PhaseMatchEnded); err != nil {
		return err
	}
	if _, err := playerOf(st, playerID); err != nil {
		return err
	}

	swapThemes, ok := c.rematch[st.OpponentID(playerID)]
	if !ok {
		return errors.FailedPrecondition("No rematch request to accept")
	}

	c.rematch[playerID] = swapThemes
	o.startRematch(c)
	return nil
}

// startRematch replaces the match with a fresh one between the same
// players. Themes swap when any request asked for it.
func (o *orchestrator) startRematch(c *change) {
	swapThemes := false
	for _, swap := range c.rematch {
		swapThemes = swapThemes || swap
	}

	c.state = engine.ResetStateForRematch(c.state, swapThemes)
	c.rematch = make(map[string]bool)
	c.historyRecorded = false
}
