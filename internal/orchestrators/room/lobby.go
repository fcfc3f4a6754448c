package room

import (
	"fmt"

	"github.com/KirkDiggler/theme-clash/internal/engine"
	"github.com/KirkDiggler/theme-clash/internal/entities"
	"github.com/KirkDiggler/theme-clash/internal/errors"
	"github.com/KirkDiggler/theme-clash/internal/protocol"
)

const playersPerRoom = 2

func (o *orchestrator) join(c *change, connID string, msg *protocol.ClientMessage) error {
	st := c.state
	if st.Players == nil {
		st.Players = map[string]*entities.Player{}
	}
	if st.Player(connID) != nil {
		return errNoChange
	}

	if msg.IsSpectator {
		if st.IsSpectator(connID) {
			return errNoChange
		}
		st.Spectators = append(st.Spectators, connID)
		c.broadcast(newSpectatorCount(st))
		return nil
	}

	// A full room demotes the joiner instead of rejecting them
	if len(st.PlayerOrder) >= playersPerRoom {
		if !st.IsSpectator(connID) {
			st.Spectators = append(st.Spectators, connID)
			c.broadcast(newSpectatorCount(st))
		}
		c.send(connID, protocol.NewError("Room is full - you're now spectating!"))
		return nil
	}

	name := engine.SanitizeName(msg.PlayerName)
	if name == "" {
		return errors.InvalidArgument("Player name is required")
	}

	if st.RemoveSpectator(connID) {
		c.broadcast(newSpectatorCount(st))
	}

	st.Players[connID] = engine.NewPlayer(connID, name)
	st.PlayerOrder = append(st.PlayerOrder, connID)

	if len(st.PlayerOrder) == 1 {
		if msg.BlindDraft != nil {
			st.BlindDraft = *msg.BlindDraft
		}
		st.Message = "Waiting for opponent..."
		return nil
	}

	st.Phase = entities.PhaseThemeSelect
	st.Message = "Both players joined! Choose your themes."
	return nil
}

func (o *orchestrator) setTheme(c *change, playerID, theme string) error {
	st := c.state
	if err := requirePhase(st, "Cannot set theme in this phase", entities.PhaseThemeSelect); err != nil {
		return err
	}
	p, err := playerOf(st, playerID)
	if err != nil {
		return err
	}

	theme = engine.SanitizeTheme(theme)
	if theme == "" {
		return errors.InvalidArgument("Theme is required")
	}

	p.Theme = theme
	p.OriginalTheme = theme
	st.Message = fmt.Sprintf("%s chose: \"%s\"", p.Name, theme)
	return nil
}

func (o *orchestrator) ready(c *change, playerID string) error {
	st := c.state
	if err := requirePhase(st, "Cannot ready in this phase", entities.PhaseThemeSelect); err != nil {
		return err
	}
	p, err := playerOf(st, playerID)
	if err != nil {
		return err
	}
	if p.Theme == "" {
		return errors.FailedPrecondition("Please choose a theme first")
	}

	p.IsReady = true

	players := st.OrderedPlayers()
	if len(players) < playersPerRoom {
		return nil
	}
	for _, other := range players {
		if !other.IsReady {
			st.Message = fmt.Sprintf("%s is ready!", p.Name)
			return nil
		}
	}

	st.Phase = entities.PhaseGenerating
	st.Message = "Generating cards... This may take a moment."
	return nil
}

func (o *orchestrator) toggleBlindDraft(c *change, playerID string) error {
	st := c.state
	if len(st.PlayerOrder) == 0 || st.PlayerOrder[0] != playerID {
		return errors.PermissionDenied("Only the host can change blind draft")
	}
	if err := requirePhase(st, "Blind draft can only be changed before the match starts",
		entities.PhaseLobby, entities.PhaseThemeSelect); err != nil {
		return err
	}

	st.BlindDraft = !st.BlindDraft
	if st.BlindDraft {
		st.Message = "Blind draft enabled"
	} else {
		st.Message = "Blind draft disabled"
	}
	return nil
}
