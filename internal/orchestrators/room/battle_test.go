package room_test

import (
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/theme-clash/internal/clients/history"
	"github.com/KirkDiggler/theme-clash/internal/engine"
	"github.com/KirkDiggler/theme-clash/internal/entities"
	"github.com/KirkDiggler/theme-clash/internal/errors"
	"github.com/KirkDiggler/theme-clash/internal/protocol"
)

func (s *RoomOrchestratorTestSuite) TestPlayCardSpendsManaAndPassesTurn() {
	s.seed(battleState())
	s.connect("p1", "p2")

	state := s.mustSend("p1", &protocol.ClientMessage{Type: protocol.TypePlayCard, CardID: "a-1"})

	alice := state.Players["p1"]
	s.Equal(1, alice.Mana)
	s.Len(alice.Cards, 4)
	s.Equal(-1, entities.FindCard(alice.Cards, "a-1"))

	s.Require().Len(state.PlayedCards, 1)
	s.Equal(entities.PlayedCard{Card: state.PlayedCards[0].Card, PlayerID: "p1", Round: 1, GameNumber: 1}, state.PlayedCards[0])
	s.Equal("a-1", state.PlayedCards[0].Card.ID)

	// Nothing to defend with yet, so the full attack lands
	s.Equal(17, state.Players["p2"].HP)
	s.Require().NotNil(state.LastDamage)
	s.Equal(3, *state.LastDamage)

	s.Equal("p2", *state.CurrentTurn)
	s.Equal(1, state.Round)
	s.Equal("Bob's turn", state.Message)

	s.Equal([]protocol.ServerMessageType{protocol.TypeState, protocol.TypeCardPlayed}, s.broadcaster.broadcastTypes())
	played := s.broadcaster.broadcastsOf(protocol.TypeCardPlayed)[0].(*protocol.CardPlayedMessage)
	s.Equal("p1", played.PlayerID)
	s.Equal(3, played.Damage)
}

func (s *RoomOrchestratorTestSuite) TestTurnLegality() {
	s.seed(battleState())
	s.connect("p1", "p2")
	before := s.current()
	s.broadcaster.reset()

	_, err := s.send("p2", &protocol.ClientMessage{Type: protocol.TypePlayCard, CardID: "b-1"})
	s.Require().Error(err)
	s.True(errors.IsPermissionDenied(err))
	s.Equal("Not your turn!", s.broadcaster.lastErrorTo("p2"))

	_, err = s.send("p2", &protocol.ClientMessage{Type: protocol.TypeSkipTurn})
	s.Require().Error(err)
	s.Equal("Not your turn!", s.broadcaster.lastErrorTo("p2"))

	_, err = s.send("p1", &protocol.ClientMessage{Type: protocol.TypePlayCard, CardID: "b-1"})
	s.Require().Error(err)
	s.Equal("Card not found in hand", s.broadcaster.lastErrorTo("p1"))

	s.Equal(before, s.current())
	s.Empty(s.broadcaster.broadcastTypes())
}

func (s *RoomOrchestratorTestSuite) TestInsufficientMana() {
	state := battleState()
	state.Players["p1"].Cards[0].ManaCost = 5
	s.seed(state)
	s.connect("p1")

	_, err := s.send("p1", &protocol.ClientMessage{Type: protocol.TypePlayCard, CardID: "a-1"})
	s.Require().Error(err)
	s.True(errors.IsResourceExhausted(err))
	s.Equal("Not enough mana: 5 required, 3 available", s.broadcaster.lastErrorTo("p1"))

	after := s.current()
	s.Equal(3, after.Players["p1"].Mana)
	s.Len(after.Players["p1"].Cards, 5)
}

func (s *RoomOrchestratorTestSuite) TestManaSurgeDiscount() {
	state := battleState()
	state.Round = 2
	engine.RefillMana(state)
	engine.ApplyRoundModifier(state)
	state.Players["p1"].Cards[0].ManaCost = 4
	s.seed(state)
	s.connect("p1")

	after := s.mustSend("p1", &protocol.ClientMessage{Type: protocol.TypePlayCard, CardID: "a-1"})
	s.Equal(engine.ModifierManaSurge, after.RoundModifier)
	s.Equal(1, after.Players["p1"].Mana)
}

func (s *RoomOrchestratorTestSuite) TestRoundAdvancesAfterBothMove() {
	state := battleState()
	state.Players["p2"].Cards[0].Speed = 8
	s.seed(state)
	s.connect("p1", "p2")

	s.mustSend("p1", &protocol.ClientMessage{Type: protocol.TypePlayCard, CardID: "a-1"})
	after := s.mustSend("p2", &protocol.ClientMessage{Type: protocol.TypePlayCard, CardID: "b-1"})

	// Bob reacted to Alice's card: 3 attack against 1 defense
	s.Equal(18, after.Players["p1"].HP)
	s.Equal(17, after.Players["p2"].HP)

	s.Equal(2, after.Round)
	s.Empty(after.RoundMoves)
	s.Equal(engine.ModifierManaSurge, after.RoundModifier)
	for _, p := range after.Players {
		s.Equal(4, p.Mana)
		s.Equal(4, p.MaxMana)
	}

	// Bob's faster card opens round 2
	s.Equal([]string{"p2", "p1"}, after.SpeedOrder)
	s.Equal("p2", *after.CurrentTurn)
}

func (s *RoomOrchestratorTestSuite) TestSkipTurn() {
	s.seed(battleState())
	s.connect("p1", "p2")

	state := s.mustSend("p1", &protocol.ClientMessage{Type: protocol.TypeSkipTurn})
	s.Equal("p2", *state.CurrentTurn)
	s.Equal(3, state.Players["p1"].Mana)
	s.Len(state.Players["p1"].Cards, 5)
	s.Empty(state.PlayedCards)

	state = s.mustSend("p2", &protocol.ClientMessage{Type: protocol.TypeSkipTurn})
	s.Equal(2, state.Round)
	s.Equal(4, state.Players["p2"].Mana)
	s.Equal("p1", *state.CurrentTurn)
}

func (s *RoomOrchestratorTestSuite) TestStatusEffectsTickAtRoundEnd() {
	state := battleState()
	state.Players["p1"].Cards[0].Perks = &entities.CardPerks{
		Status: []entities.StatusEffect{{Type: entities.StatusPoison, Value: 2, Duration: 2}},
	}
	s.seed(state)
	s.connect("p1", "p2")

	after := s.mustSend("p1", &protocol.ClientMessage{Type: protocol.TypePlayCard, CardID: "a-1"})
	s.Equal(17, after.Players["p2"].HP)
	s.Len(after.Players["p2"].StatusEffects, 1)

	after = s.mustSend("p2", &protocol.ClientMessage{Type: protocol.TypeSkipTurn})
	s.Equal(15, after.Players["p2"].HP)
	s.Require().Len(after.Players["p2"].StatusEffects, 1)
	s.Equal(1, after.Players["p2"].StatusEffects[0].Duration)
}

func (s *RoomOrchestratorTestSuite) TestKnockoutEndsGame() {
	state := battleState()
	state.Players["p1"].HP = 3
	state.Players["p2"].Cards[0].Attack = 5
	turn := "p2"
	state.CurrentTurn = &turn
	s.seed(state)
	s.connect("p1", "p2")

	after := s.mustSend("p2", &protocol.ClientMessage{Type: protocol.TypePlayCard, CardID: "b-1"})

	s.Equal(0, after.Players["p1"].HP)
	s.Equal(entities.PhaseRoundEnded, after.Phase)
	s.Require().NotNil(after.RoundWinner)
	s.Equal("p2", *after.RoundWinner)
	s.Equal(1, after.Players["p2"].MatchWins)
	s.Equal(1, after.GameNumber)
	s.Nil(after.CurrentTurn)
	s.Equal("Bob wins Game 1! Score: 0-1", after.Message)

	s.Require().Len(after.GameHistory, 1)
	s.Equal(0, after.GameHistory[0].Player1HP)
	s.Equal(20, after.GameHistory[0].Player2HP)

	s.Equal([]protocol.ServerMessageType{protocol.TypeState, protocol.TypeCardPlayed, protocol.TypeRoundEnded},
		s.broadcaster.broadcastTypes())
	ended := s.broadcaster.broadcastsOf(protocol.TypeRoundEnded)[0].(*protocol.RoundEndedMessage)
	s.Equal("p2", *ended.Winner)
	s.Equal(1, ended.GameNumber)
}

func (s *RoomOrchestratorTestSuite) TestSecondWinEndsMatch() {
	state := battleState()
	state.GameNumber = 2
	state.Players["p1"].HP = 3
	state.Players["p1"].MatchWins = 1
	state.Players["p2"].MatchWins = 1
	state.Players["p2"].Cards[0].Attack = 5
	turn := "p2"
	state.CurrentTurn = &turn
	s.seed(state)
	s.connect("p1", "p2")

	s.recorder.EXPECT().RecordMatchEnd(gomock.Any(), &history.MatchEndInput{
		RoomID:     testRoomID,
		WinnerName: "Bob",
		MatchScore: "1-2",
	}).Return(nil)

	after := s.mustSend("p2", &protocol.ClientMessage{Type: protocol.TypePlayCard, CardID: "b-1"})

	s.Equal(entities.PhaseMatchEnded, after.Phase)
	s.Equal("p2", *after.MatchWinner)
	s.Equal(2, after.Players["p2"].MatchWins)
	s.Equal("Bob wins the match 2-1!", after.Message)

	ended := s.broadcaster.broadcastsOf(protocol.TypeMatchEnded)
	s.Require().Len(ended, 1)
	s.Equal("p2", *ended[0].(*protocol.MatchEndedMessage).Winner)
	s.Empty(s.broadcaster.broadcastsOf(protocol.TypeRoundEnded))
}

func (s *RoomOrchestratorTestSuite) TestTiedGameAwardsNoWin() {
	state := battleState()
	state.Round = engine.MaxRounds
	engine.RefillMana(state)
	engine.ApplyRoundModifier(state)
	state.Players["p1"].HP = 10
	state.Players["p2"].HP = 10
	state.RoundMoves = []string{"p1"}
	turn := "p2"
	state.CurrentTurn = &turn
	s.seed(state)
	s.connect("p1", "p2")

	after := s.mustSend("p2", &protocol.ClientMessage{Type: protocol.TypeSkipTurn})

	s.Equal(entities.PhaseRoundEnded, after.Phase)
	s.Nil(after.RoundWinner)
	s.Equal(0, after.Players["p1"].MatchWins)
	s.Equal(0, after.Players["p2"].MatchWins)
	s.Require().Len(after.GameHistory, 1)
	s.Nil(after.GameHistory[0].Winner)
	s.Equal("Game 1 is a tie! Score: 0-0", after.Message)

	ended := s.broadcaster.broadcastsOf(protocol.TypeRoundEnded)
	s.Require().Len(ended, 1)
	s.Nil(ended[0].(*protocol.RoundEndedMessage).Winner)

	next := s.mustSend("p1", &protocol.ClientMessage{Type: protocol.TypeContinueMatch})
	s.Equal(2, next.GameNumber)
}

func (s *RoomOrchestratorTestSuite) TestAbilityTriggeredPrecedesCardPlayed() {
	value := 2
	state := battleState()
	state.Players["p1"].Cards[0].Perks = &entities.CardPerks{
		Triggered: []entities.TriggeredPerk{{Trigger: entities.TriggerOnPlay, Effect: "+2 damage", Value: &value}},
	}
	s.seed(state)
	s.connect("p1")

	after := s.mustSend("p1", &protocol.ClientMessage{Type: protocol.TypePlayCard, CardID: "a-1"})
	s.Equal(15, after.Players["p2"].HP)

	s.Equal([]protocol.ServerMessageType{protocol.TypeState, protocol.TypeAbilityTriggered, protocol.TypeCardPlayed},
		s.broadcaster.broadcastTypes())
	ability := s.broadcaster.broadcastsOf(protocol.TypeAbilityTriggered)[0].(*protocol.AbilityTriggeredMessage)
	s.Equal("a 1", ability.CardName)
	s.Equal("+2 damage", ability.AbilityText)
}
