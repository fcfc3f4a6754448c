package room_test

import (
	"context"
	stderrors "errors"

	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/theme-clash/internal/engine"
	"github.com/KirkDiggler/theme-clash/internal/entities"
	"github.com/KirkDiggler/theme-clash/internal/errors"
	"github.com/KirkDiggler/theme-clash/internal/orchestrators/room"
	"github.com/KirkDiggler/theme-clash/internal/protocol"
	gamestate "github.com/KirkDiggler/theme-clash/internal/repositories/game_state"
	gamestatemock "github.com/KirkDiggler/theme-clash/internal/repositories/game_state/mock"
)

// roundEndedState is the moment after Bob took game 1
func roundEndedState() *entities.GameState {
	state := battleState()
	alice, bob := state.Players["p1"], state.Players["p2"]

	// Alice played heavy hitters, Bob walls
	heavy := entities.Card{ID: "a-9", Attack: 7, Defense: 1, ManaCost: 2}
	wall := entities.Card{ID: "b-9", Attack: 1, Defense: 6, ManaCost: 2}
	state.PlayedCards = []entities.PlayedCard{
		{Card: heavy, PlayerID: "p1", Round: 1, GameNumber: 1},
		{Card: wall, PlayerID: "p2", Round: 1, GameNumber: 1},
	}

	alice.HP = 0
	bob.MatchWins = 1
	winner := "p2"
	state.RoundWinner = &winner
	state.CurrentTurn = nil
	state.Phase = entities.PhaseRoundEnded
	state.GameHistory = []entities.GameHistoryEntry{{GameNumber: 1, Winner: &winner, Player1HP: 0, Player2HP: 14}}
	return state
}

func matchEndedState() *entities.GameState {
	state := roundEndedState()
	state.GameNumber = 2
	state.Players["p2"].MatchWins = 2
	state.Players["p1"].MatchWins = 0
	winner := "p2"
	state.MatchWinner = &winner
	state.Phase = entities.PhaseMatchEnded
	return state
}

func (s *RoomOrchestratorTestSuite) TestContinueMatchStartsNextGame() {
	s.seed(roundEndedState())
	s.connect("p1", "p2")

	state := s.mustSend("p2", &protocol.ClientMessage{Type: protocol.TypeContinueMatch})

	s.Equal(entities.PhaseGenerating, state.Phase)
	s.Equal(2, state.GameNumber)
	s.Equal(1, state.Round)
	s.Nil(state.RoundWinner)
	s.Nil(state.CurrentTurn)
	for _, p := range state.Players {
		s.Equal(engine.StartingHP, p.HP)
		s.Empty(p.Cards)
		s.Empty(p.DraftPool)
		s.Empty(p.DraftedCards)
		s.Nil(p.RevealedCard)
		s.Empty(p.StatusEffects)
	}
	s.Equal(1, state.Players["p2"].MatchWins)
	s.Equal("Pirates", state.Players["p1"].Theme)

	s.Require().Len(state.GameHistory, 1)
	s.Equal(map[string]string{
		"p1": engine.StrategyAggressive,
		"p2": engine.StrategyDefensive,
	}, state.GameHistory[0].Strategies)
	// The play log is kept across games
	s.Len(state.PlayedCards, 2)
}

func (s *RoomOrchestratorTestSuite) TestContinueMatchOnlyAfterGame() {
	s.seed(battleState())
	s.connect("p1")

	_, err := s.send("p1", &protocol.ClientMessage{Type: protocol.TypeContinueMatch})
	s.Require().Error(err)
	s.Equal("Cannot continue match now", s.broadcaster.lastErrorTo("p1"))
}

func (s *RoomOrchestratorTestSuite) TestRematchByAccept() {
	s.seed(matchEndedState())
	s.connect("p1", "p2")

	state := s.mustSend("p1", &protocol.ClientMessage{Type: protocol.TypeRequestSwapRematch})
	s.Equal(entities.PhaseMatchEnded, state.Phase)
	s.Equal("Alice wants a swap themes rematch!", state.Message)

	requested := s.broadcaster.broadcastsOf(protocol.TypeRematchRequested)
	s.Require().Len(requested, 1)
	s.Equal(&protocol.RematchRequestedMessage{
		Type:       protocol.TypeRematchRequested,
		ByPlayerID: "p1",
		SwapThemes: true,
	}, requested[0])

	state = s.mustSend("p2", &protocol.ClientMessage{Type: protocol.TypeAcceptRematch})
	s.Equal(entities.PhaseGenerating, state.Phase)
	s.Equal(1, state.GameNumber)
	s.Empty(state.GameHistory)
	s.Empty(state.PlayedCards)
	s.Nil(state.MatchWinner)
	s.Equal("Robots", state.Players["p1"].Theme)
	s.Equal("Pirates", state.Players["p2"].Theme)
	s.Equal("Robots", state.Players["p1"].OriginalTheme)
	for _, p := range state.Players {
		s.Equal(0, p.MatchWins)
		s.True(p.IsReady)
	}
	s.Equal([]string{"p1", "p2"}, state.PlayerOrder)
}

func (s *RoomOrchestratorTestSuite) TestRematchByBothRequesting() {
	s.seed(matchEndedState())
	s.connect("p1", "p2")

	s.mustSend("p1", &protocol.ClientMessage{Type: protocol.TypeRequestRematch})
	state := s.mustSend("p2", &protocol.ClientMessage{Type: protocol.TypeRequestRematch})

	s.Equal(entities.PhaseGenerating, state.Phase)
	s.Equal("Pirates", state.Players["p1"].Theme)
	s.Equal("Robots", state.Players["p2"].Theme)
}

func (s *RoomOrchestratorTestSuite) TestAcceptRematchNeedsRequest() {
	s.seed(matchEndedState())
	s.connect("p1", "p2")

	_, err := s.send("p2", &protocol.ClientMessage{Type: protocol.TypeAcceptRematch})
	s.Require().Error(err)
	s.Equal("No rematch request to accept", s.broadcaster.lastErrorTo("p2"))
}

func (s *RoomOrchestratorTestSuite) TestRematchRequestOnlyAfterMatch() {
	s.seed(roundEndedState())
	s.connect("p1")

	_, err := s.send("p1", &protocol.ClientMessage{Type: protocol.TypeRequestRematch})
	s.Require().Error(err)
	s.True(errors.IsFailedPrecondition(err))
	s.Equal("Cannot request rematch now", s.broadcaster.lastErrorTo("p1"))

	_, err = s.send("p1", &protocol.ClientMessage{Type: protocol.TypeAcceptRematch})
	s.Equal("Cannot accept rematch now", s.broadcaster.lastErrorTo("p1"))
}

// A rematch is a fresh match, so its first battle is reported again
func (s *RoomOrchestratorTestSuite) TestRematchReportsNewMatchStart() {
	s.seed(matchEndedState())
	s.connect("p1", "p2")
	s.mustSend("p1", &protocol.ClientMessage{Type: protocol.TypeRequestRematch})
	s.mustSend("p2", &protocol.ClientMessage{Type: protocol.TypeAcceptRematch})

	s.expectMatchStart()
	s.deliver("p1", makeCards("a", 5, 3, 1, 2, 5), false)
	out := s.deliver("p2", makeCards("b", 5, 3, 1, 2, 5), false)
	s.Equal(entities.PhaseBattle, out.State.Phase)
}

func (s *RoomOrchestratorTestSuite) TestSecondGameDoesNotReportStart() {
	s.seed(roundEndedState())
	s.connect("p1", "p2")
	s.mustSend("p1", &protocol.ClientMessage{Type: protocol.TypeContinueMatch})

	// No RecordMatchStart expectation: the mock fails on any call
	s.deliver("p1", makeCards("a", 5, 3, 1, 2, 5), false)
	out := s.deliver("p2", makeCards("b", 5, 3, 1, 2, 5), false)
	s.Equal(entities.PhaseBattle, out.State.Phase)
	s.Equal(2, out.State.GameNumber)
}

func (s *RoomOrchestratorTestSuite) TestHistoryFailureIsSwallowed() {
	state := battleState()
	state.GameNumber = 2
	state.Players["p2"].HP = 1
	state.Players["p1"].MatchWins = 1
	s.seed(state)
	s.connect("p1")

	s.recorder.EXPECT().RecordMatchEnd(gomock.Any(), gomock.Any()).Return(stderrors.New("history service down"))

	after := s.mustSend("p1", &protocol.ClientMessage{Type: protocol.TypePlayCard, CardID: "a-1"})
	s.Equal(entities.PhaseMatchEnded, after.Phase)
	s.Equal("Alice wins the match 2-0!", after.Message)
	s.Require().NoError(s.svc.Shutdown(s.ctx))
}

func (s *RoomOrchestratorTestSuite) TestPersistFailureStillCommits() {
	repo := gamestatemock.NewMockRepository(s.ctrl)
	e, err := engine.New(&engine.Config{Roller: fixedRoller{}})
	s.Require().NoError(err)
	svc, err := room.NewOrchestrator(&room.Config{
		Repository:  repo,
		Engine:      e,
		Broadcaster: s.broadcaster,
		Recorder:    s.recorder,
	})
	s.Require().NoError(err)

	repo.EXPECT().Get(gomock.Any(), gamestate.GetInput{RoomID: testRoomID}).
		Return(nil, errors.NotFound("no snapshot"))
	repo.EXPECT().Save(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, input gamestate.SaveInput) (*gamestate.SaveOutput, error) {
			s.Equal("Alice", input.State.Players["p1"].Name)
			return nil, errors.Unavailable("redis down")
		})

	out, err := svc.Dispatch(s.ctx, &room.DispatchInput{
		RoomID:  testRoomID,
		ConnID:  "p1",
		Message: &protocol.ClientMessage{Type: protocol.TypeJoin, PlayerName: "Alice"},
	})
	s.Require().NoError(err)
	s.Contains(out.State.Players, "p1")
	s.Equal([]protocol.ServerMessageType{protocol.TypeState}, s.broadcaster.broadcastTypes())
}

func (s *RoomOrchestratorTestSuite) TestLoadFailureIsReported() {
	repo := gamestatemock.NewMockRepository(s.ctrl)
	e, err := engine.New(&engine.Config{Roller: fixedRoller{}})
	s.Require().NoError(err)
	svc, err := room.NewOrchestrator(&room.Config{Repository: repo, Engine: e, Broadcaster: s.broadcaster})
	s.Require().NoError(err)

	repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, errors.Unavailable("redis down"))

	_, err = svc.Dispatch(s.ctx, &room.DispatchInput{
		RoomID:  testRoomID,
		ConnID:  "p1",
		Message: &protocol.ClientMessage{Type: protocol.TypeReady},
	})
	s.Require().Error(err)
	s.True(errors.IsUnavailable(err))
	s.Equal("Something went wrong", s.broadcaster.lastErrorTo("p1"))
}
