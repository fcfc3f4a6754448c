package room

import (
	"context"
	"fmt"

	"github.com/KirkDiggler/theme-clash/internal/engine"
	"github.com/KirkDiggler/theme-clash/internal/entities"
	"github.com/KirkDiggler/theme-clash/internal/errors"
)

func (o *orchestrator) DeliverCards(ctx context.Context, input *DeliverCardsInput) (*DeliverCardsOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("playerId", input.PlayerID, vb)
	if len(input.Cards) == 0 {
		vb.RequiredField("cards")
	} else if input.IsDraft && len(input.Cards) < engine.CardsPerPlayer {
		vb.Fieldf("cards", "a draft pool needs at least %d cards", engine.CardsPerPlayer)
	}
	if err := vb.Build(); err != nil {
		return nil, err
	}

	r, err := o.loadRoom(ctx, input.RoomID, false)
	if err != nil {
		return nil, err
	}

	allHaveCards := false
	state, err := o.apply(ctx, r, func(c *change) error {
		st := c.state
		if err := requirePhase(st, "Room is not waiting for cards", entities.PhaseGenerating); err != nil {
			return err
		}
		p, err := playerOf(st, input.PlayerID)
		if err != nil {
			return err
		}

		cards := o.prepareCards(input.Cards)
		if input.IsDraft {
			p.DraftPool = cards
			p.DraftedCards = []entities.Card{}
			p.IsDraftReady = false
		} else {
			p.Cards = cards
		}

		// Deliveries for the two players race; whichever lands second
		// sees the predicate hold.
		allHaveCards = allPlayersHaveCards(st, input.IsDraft)
		if !allHaveCards {
			st.Message = fmt.Sprintf("Cards ready for %s. Waiting for opponent...", p.Name)
			return nil
		}

		if input.IsDraft {
			st.Phase = entities.PhaseDrafting
			st.Message = fmt.Sprintf("Draft phase! Select %d cards from your pool of %d.",
				engine.CardsPerPlayer, len(p.DraftPool))
			return nil
		}

		engine.StartBattle(st)
		o.recordMatchStartOnce(c)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &DeliverCardsOutput{AllHaveCards: allHaveCards, State: state}, nil
}

// prepareCards copies a delivered batch, applies stat defaults and makes
// card ids unique within the batch
func (o *orchestrator) prepareCards(in []entities.Card) []entities.Card {
	out := make([]entities.Card, 0, len(in))
	seen := make(map[string]bool, len(in))
	for i := range in {
		card := in[i].Clone()
		engine.NormalizeCard(card)
		if card.ID == "" || seen[card.ID] {
			card.ID = o.cardIDs.Generate()
		}
		seen[card.ID] = true
		out = append(out, *card)
	}
	return out
}

func allPlayersHaveCards(st *entities.GameState, isDraft bool) bool {
	players := st.OrderedPlayers()
	if len(players) < playersPerRoom {
		return false
	}
	for _, p := range players {
		if isDraft && len(p.DraftPool) == 0 {
			return false
		}
		if !isDraft && len(p.Cards) == 0 {
			return false
		}
	}
	return true
}

func (o *orchestrator) draftSelect(c *change, playerID, cardID string) error {
	st := c.state
	if err := requirePhase(st, "Cannot draft in this phase", entities.PhaseDrafting); err != nil {
		return err
	}
	p, err := playerOf(st, playerID)
	if err != nil {
		return err
	}
	if p.IsDraftReady {
		return errors.FailedPrecondition("Draft already confirmed")
	}
	if len(p.DraftedCards) >= engine.CardsPerPlayer {
		return errors.ResourceExhaustedf("You've already selected %d cards", engine.CardsPerPlayer)
	}

	idx := entities.FindCard(p.DraftPool, cardID)
	if idx < 0 {
		return errors.NotFound("Card not in your draft pool")
	}

	card := p.DraftPool[idx]
	p.DraftPool = entities.RemoveCard(p.DraftPool, idx)
	p.DraftedCards = append(p.DraftedCards, card)

	st.Message = fmt.Sprintf("%s drafted a card (%d/%d)", p.Name, len(p.DraftedCards), engine.CardsPerPlayer)
	return nil
}

func (o *orchestrator) draftDiscard(c *change, playerID, cardID string) error {
	st := c.state
	if err := requirePhase(st, "Cannot draft in this phase", entities.PhaseDrafting); err != nil {
		return err
	}
	p, err := playerOf(st, playerID)
	if err != nil {
		return err
	}
	if p.IsDraftReady {
		return errors.FailedPrecondition("Draft already confirmed")
	}

	idx := entities.FindCard(p.DraftedCards, cardID)
	if idx < 0 {
		return errors.NotFound("Card not in your drafted cards")
	}

	card := p.DraftedCards[idx]
	p.DraftedCards = entities.RemoveCard(p.DraftedCards, idx)
	p.DraftPool = append(p.DraftPool, card)

	st.Message = fmt.Sprintf("%s returned a card to the pool", p.Name)
	return nil
}

func (o *orchestrator) draftConfirm(c *change, playerID string) error {
	st := c.state
	if err := requirePhase(st, "Cannot confirm draft in this phase", entities.PhaseDrafting); err != nil {
		return err
	}
	p, err := playerOf(st, playerID)
	if err != nil {
		return err
	}
	if p.IsDraftReady {
		return errors.FailedPrecondition("Draft already confirmed")
	}
	if !engine.IsDraftComplete(p) {
		return errors.FailedPreconditionf("You must select exactly %d cards", engine.CardsPerPlayer)
	}

	p.IsDraftReady = true
	p.Cards = append([]entities.Card{}, p.DraftedCards...)
	p.DraftPool = []entities.Card{}

	for _, other := range st.OrderedPlayers() {
		if !other.IsDraftReady {
			st.Message = fmt.Sprintf("%s is ready! Waiting for opponent to finish drafting...", p.Name)
			return nil
		}
	}

	st.Phase = entities.PhaseReveal
	for _, other := range st.OrderedPlayers() {
		other.RevealedCard = nil
		other.IsRevealReady = false
	}
	st.Message = "Decks locked in! Reveal one card to your opponent."
	return nil
}

func (o *orchestrator) revealCard(c *change, playerID, cardID string) error {
	st := c.state
	if err := requirePhase(st, "Cannot reveal cards in this phase", entities.PhaseReveal); err != nil {
		return err
	}
	p, err := playerOf(st, playerID)
	if err != nil {
		return err
	}
	if p.IsRevealReady {
		return errors.FailedPrecondition("You already revealed a card")
	}

	idx := entities.FindCard(p.Cards, cardID)
	if idx < 0 {
		return errors.NotFound("Card not found in hand")
	}

	p.RevealedCard = p.Cards[idx].Clone()
	p.IsRevealReady = true

	for _, other := range st.OrderedPlayers() {
		if !other.IsRevealReady {
			st.Message = fmt.Sprintf("%s revealed a card", p.Name)
			return nil
		}
	}

	engine.StartBattle(st)
	o.recordMatchStartOnce(c)
	return nil
}
