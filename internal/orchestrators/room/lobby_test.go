package room_test

import (
	"github.com/KirkDiggler/theme-clash/internal/entities"
	"github.com/KirkDiggler/theme-clash/internal/errors"
	"github.com/KirkDiggler/theme-clash/internal/orchestrators/room"
	"github.com/KirkDiggler/theme-clash/internal/protocol"
)

func (s *RoomOrchestratorTestSuite) TestJoinFillsRoomThenThemeSelect() {
	s.connect("p1", "p2")

	state := s.mustSend("p1", &protocol.ClientMessage{Type: protocol.TypeJoin, PlayerName: "  Alice  "})
	s.Equal(entities.PhaseLobby, state.Phase)
	s.Equal("Waiting for opponent...", state.Message)
	s.Equal("Alice", state.Players["p1"].Name)
	s.Equal(20, state.Players["p1"].HP)

	state = s.mustSend("p2", &protocol.ClientMessage{Type: protocol.TypeJoin, PlayerName: "Bob"})
	s.Equal(entities.PhaseThemeSelect, state.Phase)
	s.Equal([]string{"p1", "p2"}, state.PlayerOrder)
	s.Equal("Both players joined! Choose your themes.", state.Message)
}

func (s *RoomOrchestratorTestSuite) TestJoinTwiceIsIgnored() {
	s.connect("p1")
	s.mustSend("p1", &protocol.ClientMessage{Type: protocol.TypeJoin, PlayerName: "Alice"})
	s.broadcaster.reset()

	state := s.mustSend("p1", &protocol.ClientMessage{Type: protocol.TypeJoin, PlayerName: "Alice again"})
	s.Equal("Alice", state.Players["p1"].Name)
	s.Len(state.PlayerOrder, 1)
	s.Empty(s.broadcaster.broadcastTypes())
}

func (s *RoomOrchestratorTestSuite) TestJoinRequiresName() {
	s.connect("p1")

	_, err := s.send("p1", &protocol.ClientMessage{Type: protocol.TypeJoin, PlayerName: "   "})
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
	s.Equal("Player name is required", s.broadcaster.lastErrorTo("p1"))
	s.Empty(s.current().Players)
}

func (s *RoomOrchestratorTestSuite) TestFullRoomDemotesToSpectator() {
	s.connect("p1", "p2", "p3")
	s.mustSend("p1", &protocol.ClientMessage{Type: protocol.TypeJoin, PlayerName: "Alice"})
	s.mustSend("p2", &protocol.ClientMessage{Type: protocol.TypeJoin, PlayerName: "Bob"})
	s.broadcaster.reset()

	state := s.mustSend("p3", &protocol.ClientMessage{Type: protocol.TypeJoin, PlayerName: "Carol"})
	s.Len(state.Players, 2)
	s.Equal([]string{"p3"}, state.Spectators)
	s.Equal(entities.PhaseThemeSelect, state.Phase)
	s.Equal("Room is full - you're now spectating!", s.broadcaster.lastErrorTo("p3"))

	counts := s.broadcaster.broadcastsOf(protocol.TypeSpectatorCount)
	s.Require().Len(counts, 1)
	s.Equal(1, counts[0].(*protocol.SpectatorCountMessage).Count)
}

func (s *RoomOrchestratorTestSuite) TestSpectatorJoinAndLeave() {
	s.connect("p1", "s1")
	s.mustSend("p1", &protocol.ClientMessage{Type: protocol.TypeJoin, PlayerName: "Alice"})

	state := s.mustSend("s1", &protocol.ClientMessage{Type: protocol.TypeJoin, PlayerName: "Watcher", IsSpectator: true})
	s.Equal([]string{"s1"}, state.Spectators)
	s.Len(state.Players, 1)
	s.Equal(entities.PhaseLobby, state.Phase)
	s.broadcaster.reset()

	out, err := s.svc.Disconnect(s.ctx, &room.DisconnectInput{RoomID: testRoomID, ConnID: "s1"})
	s.Require().NoError(err)
	s.True(out.WasSpectator)
	s.Empty(s.current().Spectators)
	s.Equal([]protocol.ServerMessageType{protocol.TypeState, protocol.TypeSpectatorCount}, s.broadcaster.broadcastTypes())
}

func (s *RoomOrchestratorTestSuite) TestPlayerDisconnectKeepsSlot() {
	s.connect("p1")
	s.mustSend("p1", &protocol.ClientMessage{Type: protocol.TypeJoin, PlayerName: "Alice"})
	s.broadcaster.reset()

	out, err := s.svc.Disconnect(s.ctx, &room.DisconnectInput{RoomID: testRoomID, ConnID: "p1"})
	s.Require().NoError(err)
	s.False(out.WasSpectator)
	s.Contains(s.current().Players, "p1")
	s.Empty(s.broadcaster.broadcastTypes())
}

func (s *RoomOrchestratorTestSuite) TestBlindDraftFromFirstJoin() {
	s.connect("p1", "p2")
	blind := true

	state := s.mustSend("p1", &protocol.ClientMessage{Type: protocol.TypeJoin, PlayerName: "Alice", BlindDraft: &blind})
	s.True(state.BlindDraft)

	off := false
	state = s.mustSend("p2", &protocol.ClientMessage{Type: protocol.TypeJoin, PlayerName: "Bob", BlindDraft: &off})
	s.True(state.BlindDraft)
}

func (s *RoomOrchestratorTestSuite) TestToggleBlindDraft() {
	s.connect("p1", "p2")
	s.mustSend("p1", &protocol.ClientMessage{Type: protocol.TypeJoin, PlayerName: "Alice"})
	s.mustSend("p2", &protocol.ClientMessage{Type: protocol.TypeJoin, PlayerName: "Bob"})

	state := s.mustSend("p1", &protocol.ClientMessage{Type: protocol.TypeToggleBlindDraft})
	s.True(state.BlindDraft)
	s.Equal(entities.PhaseThemeSelect, state.Phase)

	_, err := s.send("p2", &protocol.ClientMessage{Type: protocol.TypeToggleBlindDraft})
	s.Require().Error(err)
	s.True(errors.IsPermissionDenied(err))
	s.True(s.current().BlindDraft)

	state = s.mustSend("p1", &protocol.ClientMessage{Type: protocol.TypeToggleBlindDraft})
	s.False(state.BlindDraft)
}

func (s *RoomOrchestratorTestSuite) TestToggleBlindDraftOnlyBeforeMatch() {
	s.seed(battleState())
	s.connect("p1")

	_, err := s.send("p1", &protocol.ClientMessage{Type: protocol.TypeToggleBlindDraft})
	s.Require().Error(err)
	s.True(errors.IsFailedPrecondition(err))
}

func (s *RoomOrchestratorTestSuite) TestThemeAndReadyGuards() {
	s.connect("p1", "p2", "s1")
	s.mustSend("p1", &protocol.ClientMessage{Type: protocol.TypeJoin, PlayerName: "Alice"})

	_, err := s.send("p1", &protocol.ClientMessage{Type: protocol.TypeSetTheme, Theme: "Pirates"})
	s.Require().Error(err)
	s.Equal("Cannot set theme in this phase", s.broadcaster.lastErrorTo("p1"))

	s.mustSend("p2", &protocol.ClientMessage{Type: protocol.TypeJoin, PlayerName: "Bob"})
	s.broadcaster.reset()

	_, err = s.send("p1", &protocol.ClientMessage{Type: protocol.TypeReady})
	s.Require().Error(err)
	s.Equal("Please choose a theme first", s.broadcaster.lastErrorTo("p1"))
	s.Empty(s.broadcaster.broadcastTypes())

	_, err = s.send("s1", &protocol.ClientMessage{Type: protocol.TypeSetTheme, Theme: "Ghosts"})
	s.Require().Error(err)
	s.True(errors.IsNotFound(err))
	s.Equal("Player not found", s.broadcaster.lastErrorTo("s1"))

	_, err = s.send("p1", &protocol.ClientMessage{Type: protocol.TypeSetTheme, Theme: "\t \n"})
	s.Require().Error(err)
	s.Equal("Theme is required", s.broadcaster.lastErrorTo("p1"))
}

func (s *RoomOrchestratorTestSuite) TestSetThemeSanitizes() {
	s.connect("p1", "p2")
	s.mustSend("p1", &protocol.ClientMessage{Type: protocol.TypeJoin, PlayerName: "Alice"})
	s.mustSend("p2", &protocol.ClientMessage{Type: protocol.TypeJoin, PlayerName: "Bob"})

	state := s.mustSend("p1", &protocol.ClientMessage{Type: protocol.TypeSetTheme, Theme: "  deep   sea\npirates "})
	s.Equal("deep sea pirates", state.Players["p1"].Theme)
	s.Equal("deep sea pirates", state.Players["p1"].OriginalTheme)
	s.Equal(`Alice chose: "deep sea pirates"`, state.Message)
}

func (s *RoomOrchestratorTestSuite) TestReadyWaitsForBoth() {
	s.connect("p1", "p2")
	s.mustSend("p1", &protocol.ClientMessage{Type: protocol.TypeJoin, PlayerName: "Alice"})
	s.mustSend("p2", &protocol.ClientMessage{Type: protocol.TypeJoin, PlayerName: "Bob"})
	s.mustSend("p1", &protocol.ClientMessage{Type: protocol.TypeSetTheme, Theme: "Pirates"})
	s.mustSend("p2", &protocol.ClientMessage{Type: protocol.TypeSetTheme, Theme: "Robots"})

	state := s.mustSend("p1", &protocol.ClientMessage{Type: protocol.TypeReady})
	s.Equal(entities.PhaseThemeSelect, state.Phase)
	s.True(state.Players["p1"].IsReady)

	state = s.mustSend("p2", &protocol.ClientMessage{Type: protocol.TypeReady})
	s.Equal(entities.PhaseGenerating, state.Phase)
	s.Equal("Generating cards... This may take a moment.", state.Message)
}
