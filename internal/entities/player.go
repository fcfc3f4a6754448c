package entities

// EntityTypePlayer is the core.Entity type of a Player
const EntityTypePlayer = "player"

// Player is a per-match participant. The id is the connection id the
// player joined with.
type Player struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Theme         string `json:"theme"`
	OriginalTheme string `json:"originalTheme"`

	Cards        []Card `json:"cards"`
	DraftPool    []Card `json:"draftPool"`
	DraftedCards []Card `json:"draftedCards"`

	RevealedCard  *Card `json:"revealedCard"`
	IsRevealReady bool  `json:"isRevealReady"`

	HP      int `json:"hp"`
	MaxHP   int `json:"maxHp"`
	Mana    int `json:"mana"`
	MaxMana int `json:"maxMana"`

	IsReady      bool `json:"isReady"`
	IsDraftReady bool `json:"isDraftReady"`
	MatchWins    int  `json:"matchWins"`

	StatusEffects []StatusEffect `json:"statusEffects"`
}

// GetID implements core.Entity
func (p *Player) GetID() string {
	return p.ID
}

// GetType implements core.Entity
func (p *Player) GetType() string {
	return EntityTypePlayer
}

// Clone returns a deep copy of the player
func (p *Player) Clone() *Player {
	if p == nil {
		return nil
	}
	out := *p
	out.Cards = cloneCards(p.Cards)
	out.DraftPool = cloneCards(p.DraftPool)
	out.DraftedCards = cloneCards(p.DraftedCards)
	out.RevealedCard = p.RevealedCard.Clone()
	if p.StatusEffects != nil {
		out.StatusEffects = append([]StatusEffect{}, p.StatusEffects...)
	}
	return &out
}

// HasStatus reports whether an effect of the given type is active
func (p *Player) HasStatus(effectType string) bool {
	for _, e := range p.StatusEffects {
		if e.Type == effectType {
			return true
		}
	}
	return false
}
