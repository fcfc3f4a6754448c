package room_test

import (
	"strconv"

	"github.com/KirkDiggler/theme-clash/internal/engine"
	"github.com/KirkDiggler/theme-clash/internal/entities"
	"github.com/KirkDiggler/theme-clash/internal/errors"
	"github.com/KirkDiggler/theme-clash/internal/orchestrators/room"
	"github.com/KirkDiggler/theme-clash/internal/protocol"
)

func (s *RoomOrchestratorTestSuite) TestFullSetupReachesBattle() {
	s.toGenerating()

	s.deliver("p1", makeCards("a", engine.DraftPoolSize, 3, 1, 2, 5), true)
	out := s.deliver("p2", makeCards("b", engine.DraftPoolSize, 3, 1, 2, 5), true)
	s.True(out.AllHaveCards)
	s.Equal(entities.PhaseDrafting, out.State.Phase)
	s.Equal("Draft phase! Select 5 cards from your pool of 7.", out.State.Message)

	state := s.draftAndConfirm("p1")
	s.Equal(entities.PhaseDrafting, state.Phase)
	state = s.draftAndConfirm("p2")
	s.Equal(entities.PhaseReveal, state.Phase)

	for _, id := range state.PlayerOrder {
		p := state.Players[id]
		s.Len(p.Cards, engine.CardsPerPlayer)
		s.Empty(p.DraftPool)
		s.Equal(p.DraftedCards, p.Cards)
		s.Nil(p.RevealedCard)
	}

	s.expectMatchStart()
	state = s.mustSend("p1", &protocol.ClientMessage{Type: protocol.TypeRevealCard, CardID: "a-1"})
	s.Equal(entities.PhaseReveal, state.Phase)
	state = s.mustSend("p2", &protocol.ClientMessage{Type: protocol.TypeRevealCard, CardID: "b-2"})

	s.Equal(entities.PhaseBattle, state.Phase)
	s.Require().NotNil(state.CurrentTurn)
	s.Equal(state.PlayerOrder[0], *state.CurrentTurn)
	s.Equal(engine.ModifierFirstStrike, state.RoundModifier)
	for _, p := range state.Players {
		s.Equal(3, p.Mana)
		s.Equal(3, p.MaxMana)
		s.True(p.IsRevealReady)
	}
	s.Equal("b-2", state.Players["p2"].RevealedCard.ID)
}

func (s *RoomOrchestratorTestSuite) TestDraftDeliveryOrderDoesNotMatter() {
	orders := map[string][]string{
		"first then second": {"p1", "p2"},
		"second then first": {"p2", "p1"},
	}

	for name, order := range orders {
		s.Run(name, func() {
			s.SetupTest()
			s.toGenerating()
			s.broadcaster.reset()

			first := s.deliver(order[0], makeCards(order[0], engine.DraftPoolSize, 3, 1, 2, 5), true)
			s.False(first.AllHaveCards)
			s.Equal(entities.PhaseGenerating, first.State.Phase)

			second := s.deliver(order[1], makeCards(order[1], engine.DraftPoolSize, 3, 1, 2, 5), true)
			s.True(second.AllHaveCards)
			s.Equal(entities.PhaseDrafting, second.State.Phase)

			// The room entered drafting exactly once
			drafting := 0
			for _, msg := range s.broadcaster.broadcastsOf(protocol.TypeState) {
				if msg.(*protocol.StateMessage).State.Phase == entities.PhaseDrafting {
					drafting++
				}
			}
			s.Equal(1, drafting)
		})
	}
}

func (s *RoomOrchestratorTestSuite) TestDirectDeliveryStartsBattle() {
	s.toGenerating()
	s.expectMatchStart()

	s.deliver("p2", makeCards("b", 5, 3, 1, 2, 5), false)
	out := s.deliver("p1", makeCards("a", 5, 3, 1, 2, 5), false)

	s.True(out.AllHaveCards)
	s.Equal(entities.PhaseBattle, out.State.Phase)
	s.Equal("p1", *out.State.CurrentTurn)
	s.Equal(3, out.State.Players["p1"].Mana)
	s.Equal(3, out.State.Players["p2"].MaxMana)
	s.Equal("Battle begins! Alice's turn (First Strike)", out.State.Message)
}

func (s *RoomOrchestratorTestSuite) TestDeliveryNormalizesCards() {
	s.toGenerating()

	cards := makeCards("a", engine.DraftPoolSize, 3, 1, 0, 0)
	cards[1].ID = cards[0].ID
	cards[2].ID = ""
	cards[3].Color = "plaid"

	out := s.deliver("p1", cards, true)
	pool := out.State.Players["p1"].DraftPool
	s.Require().Len(pool, engine.DraftPoolSize)

	seen := map[string]bool{}
	for _, c := range pool {
		s.NotEmpty(c.ID)
		s.False(seen[c.ID], "duplicate id %s", c.ID)
		seen[c.ID] = true
		s.Equal(2, c.ManaCost)
		s.Equal(engine.DefaultSpeed, c.Speed)
	}
	s.Equal(entities.ColorSlate, pool[3].Color)
	s.Equal("a-1", pool[0].ID)
}

func (s *RoomOrchestratorTestSuite) TestDeliveryGuards() {
	_, err := s.svc.DeliverCards(s.ctx, &room.DeliverCardsInput{RoomID: testRoomID, PlayerID: "p1", Cards: makeCards("a", 5, 1, 1, 1, 1)})
	s.Require().Error(err)
	s.True(errors.IsNotFound(err), "unknown room")

	s.connect("p1")
	_, err = s.svc.DeliverCards(s.ctx, &room.DeliverCardsInput{RoomID: testRoomID, PlayerID: "p1", Cards: makeCards("a", 5, 1, 1, 1, 1)})
	s.Require().Error(err)
	s.True(errors.IsFailedPrecondition(err), "lobby is not waiting for cards")

	_, err = s.svc.DeliverCards(s.ctx, &room.DeliverCardsInput{RoomID: testRoomID, PlayerID: "p1"})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.svc.DeliverCards(s.ctx, &room.DeliverCardsInput{RoomID: testRoomID, PlayerID: "p1", Cards: makeCards("a", 3, 1, 1, 1, 1), IsDraft: true})
	s.True(errors.IsInvalidArgument(err))
}

func (s *RoomOrchestratorTestSuite) TestDeliveryForUnknownPlayer() {
	s.toGenerating()

	_, err := s.svc.DeliverCards(s.ctx, &room.DeliverCardsInput{RoomID: testRoomID, PlayerID: "ghost", Cards: makeCards("g", 5, 1, 1, 1, 1)})
	s.Require().Error(err)
	s.True(errors.IsNotFound(err))
	s.Equal(entities.PhaseGenerating, s.current().Phase)
}

func (s *RoomOrchestratorTestSuite) toDrafting() {
	s.toGenerating()
	s.deliver("p1", makeCards("a", engine.DraftPoolSize, 3, 1, 2, 5), true)
	s.deliver("p2", makeCards("b", engine.DraftPoolSize, 3, 1, 2, 5), true)
}

func (s *RoomOrchestratorTestSuite) TestDraftSelectAndDiscard() {
	s.toDrafting()

	state := s.mustSend("p1", &protocol.ClientMessage{Type: protocol.TypeDraftSelect, CardID: "a-3"})
	s.Len(state.Players["p1"].DraftedCards, 1)
	s.Len(state.Players["p1"].DraftPool, 6)
	s.Len(state.Players["p2"].DraftPool, 7)
	s.Equal("Alice drafted a card (1/5)", state.Message)

	_, err := s.send("p1", &protocol.ClientMessage{Type: protocol.TypeDraftSelect, CardID: "b-1"})
	s.Require().Error(err)
	s.Equal("Card not in your draft pool", s.broadcaster.lastErrorTo("p1"))

	state = s.mustSend("p1", &protocol.ClientMessage{Type: protocol.TypeDraftDiscard, CardID: "a-3"})
	s.Empty(state.Players["p1"].DraftedCards)
	s.Len(state.Players["p1"].DraftPool, 7)

	_, err = s.send("p1", &protocol.ClientMessage{Type: protocol.TypeDraftDiscard, CardID: "a-3"})
	s.Require().Error(err)
	s.Equal("Card not in your drafted cards", s.broadcaster.lastErrorTo("p1"))
}

func (s *RoomOrchestratorTestSuite) TestDraftCapAndConfirm() {
	s.toDrafting()

	_, err := s.send("p1", &protocol.ClientMessage{Type: protocol.TypeDraftConfirm})
	s.Require().Error(err)
	s.Equal("You must select exactly 5 cards", s.broadcaster.lastErrorTo("p1"))

	for i := 1; i <= engine.CardsPerPlayer; i++ {
		s.mustSend("p1", &protocol.ClientMessage{Type: protocol.TypeDraftSelect, CardID: "a-" + strconv.Itoa(i)})
	}

	_, err = s.send("p1", &protocol.ClientMessage{Type: protocol.TypeDraftSelect, CardID: "a-6"})
	s.Require().Error(err)
	s.True(errors.IsResourceExhausted(err))
	s.Equal("You've already selected 5 cards", s.broadcaster.lastErrorTo("p1"))

	state := s.mustSend("p1", &protocol.ClientMessage{Type: protocol.TypeDraftConfirm})
	s.True(state.Players["p1"].IsDraftReady)
	s.Empty(state.Players["p1"].DraftPool)
	s.Equal("Alice is ready! Waiting for opponent to finish drafting...", state.Message)

	_, err = s.send("p1", &protocol.ClientMessage{Type: protocol.TypeDraftDiscard, CardID: "a-1"})
	s.Require().Error(err)
	s.Equal("Draft already confirmed", s.broadcaster.lastErrorTo("p1"))
}

func (s *RoomOrchestratorTestSuite) TestRevealGuards() {
	s.toDrafting()
	s.draftAndConfirm("p1")
	s.draftAndConfirm("p2")

	_, err := s.send("p1", &protocol.ClientMessage{Type: protocol.TypeRevealCard, CardID: "a-7"})
	s.Require().Error(err)
	s.Equal("Card not found in hand", s.broadcaster.lastErrorTo("p1"))

	s.mustSend("p1", &protocol.ClientMessage{Type: protocol.TypeRevealCard, CardID: "a-1"})
	_, err = s.send("p1", &protocol.ClientMessage{Type: protocol.TypeRevealCard, CardID: "a-2"})
	s.Require().Error(err)
	s.True(errors.IsFailedPrecondition(err))
	s.Equal("a-1", s.current().Players["p1"].RevealedCard.ID)

	_, err = s.send("p2", &protocol.ClientMessage{Type: protocol.TypePlayCard, CardID: "b-1"})
	s.Require().Error(err)
	s.Equal("Cannot play cards in this phase", s.broadcaster.lastErrorTo("p2"))
}
