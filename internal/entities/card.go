package entities

// CardColor is the frame color of a card. Combo perks key off it.
type CardColor string

// Card colors
const (
	ColorAmber   CardColor = "amber"
	ColorCrimson CardColor = "crimson"
	ColorEmerald CardColor = "emerald"
	ColorViolet  CardColor = "violet"
	ColorCyan    CardColor = "cyan"
	ColorRose    CardColor = "rose"
	ColorSlate   CardColor = "slate"
)

// CardColors lists every valid color
var CardColors = []CardColor{
	ColorAmber,
	ColorCrimson,
	ColorEmerald,
	ColorViolet,
	ColorCyan,
	ColorRose,
	ColorSlate,
}

// IsValid reports whether c is one of the enumerated colors
func (c CardColor) IsValid() bool {
	for _, known := range CardColors {
		if c == known {
			return true
		}
	}
	return false
}

// Rarity of a card
type Rarity string

// Rarities
const (
	RarityCommon Rarity = "common"
	RarityRare   Rarity = "rare"
	RarityEpic   Rarity = "epic"
)

// IsValid reports whether r is a known rarity
func (r Rarity) IsValid() bool {
	switch r {
	case RarityCommon, RarityRare, RarityEpic:
		return true
	default:
		return false
	}
}

// PassivePerkType identifies an always-active modifier
type PassivePerkType string

// Passive perk types
const (
	PassiveDamageReduction PassivePerkType = "damageReduction"
	PassiveDamageBoost     PassivePerkType = "damageBoost"
	PassiveHealPerTurn     PassivePerkType = "healPerTurn"
	PassiveDrawCard        PassivePerkType = "drawCard"
)

// PassivePerk is an always-active modifier on a card
type PassivePerk struct {
	Type  PassivePerkType `json:"type"`
	Value int             `json:"value"`
}

// Trigger is the event a triggered perk listens for
type Trigger string

// Triggers
const (
	TriggerOnPlay       Trigger = "onPlay"
	TriggerOnDeath      Trigger = "onDeath"
	TriggerOnFirstRound Trigger = "onFirstRound"
	TriggerOnLastRound  Trigger = "onLastRound"
	TriggerOnLowHP      Trigger = "onLowHP"
)

// TriggeredPerk fires when its trigger condition holds at resolution time
type TriggeredPerk struct {
	Trigger Trigger `json:"trigger"`
	Effect  string  `json:"effect"`
	Value   *int    `json:"value,omitempty"`
}

// ComboPerk fires when the owner has already played named cards or colors this game
type ComboPerk struct {
	SynergyWith   []string    `json:"synergyWith,omitempty"`
	RequiresColor []CardColor `json:"requiresColor,omitempty"`
	ComboEffect   string      `json:"comboEffect"`
	Value         *int        `json:"value,omitempty"`
}

// CardPerks is the structured, machine-evaluated ability data of a card
type CardPerks struct {
	Passive   []PassivePerk   `json:"passive,omitempty"`
	Triggered []TriggeredPerk `json:"triggered,omitempty"`
	Combo     *ComboPerk      `json:"combo,omitempty"`
	// Status effects are applied to the opponent when the card resolves
	Status []StatusEffect `json:"status,omitempty"`
}

// Status effect types with engine semantics. Any other type is carried
// and ticked but has no effect.
const (
	StatusPoison = "poison"
	StatusHeal   = "heal"
	StatusShield = "shield"
)

// StatusEffect is an effect that ticks at round boundaries
type StatusEffect struct {
	Type     string `json:"type"`
	Value    int    `json:"value"`
	Duration int    `json:"duration"`
}

// Card is a generated content unit. Cards are never mutated after
// creation, only moved between a player's containers.
type Card struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Attack     int       `json:"attack"`
	Defense    int       `json:"defense"`
	ManaCost   int       `json:"manaCost"`
	Speed      int       `json:"speed"`
	Rarity     Rarity    `json:"rarity"`
	Ability    string    `json:"ability"`
	FlavorText string    `json:"flavorText"`
	Color      CardColor `json:"color"`

	// Health is part of the generated schema but unused by combat
	Health *int       `json:"health,omitempty"`
	Perks  *CardPerks `json:"perks,omitempty"`

	ImagePrompt string `json:"imagePrompt,omitempty"`
	IconKeyword string `json:"iconKeyword,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

// Clone returns a deep copy of the card
func (c *Card) Clone() *Card {
	if c == nil {
		return nil
	}
	out := *c
	if c.Health != nil {
		h := *c.Health
		out.Health = &h
	}
	out.Perks = c.Perks.Clone()
	return &out
}

// Clone returns a deep copy of the perks
func (p *CardPerks) Clone() *CardPerks {
	if p == nil {
		return nil
	}
	out := &CardPerks{}
	if p.Passive != nil {
		out.Passive = append([]PassivePerk{}, p.Passive...)
	}
	if p.Triggered != nil {
		out.Triggered = make([]TriggeredPerk, len(p.Triggered))
		for i, t := range p.Triggered {
			out.Triggered[i] = TriggeredPerk{Trigger: t.Trigger, Effect: t.Effect, Value: cloneInt(t.Value)}
		}
	}
	if p.Combo != nil {
		combo := *p.Combo
		if p.Combo.SynergyWith != nil {
			combo.SynergyWith = append([]string{}, p.Combo.SynergyWith...)
		}
		if p.Combo.RequiresColor != nil {
			combo.RequiresColor = append([]CardColor{}, p.Combo.RequiresColor...)
		}
		combo.Value = cloneInt(p.Combo.Value)
		out.Combo = &combo
	}
	if p.Status != nil {
		out.Status = append([]StatusEffect{}, p.Status...)
	}
	return out
}

func cloneCards(cards []Card) []Card {
	if cards == nil {
		return nil
	}
	out := make([]Card, len(cards))
	for i := range cards {
		out[i] = *cards[i].Clone()
	}
	return out
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	n := *v
	return &n
}

func cloneString(v *string) *string {
	if v == nil {
		return nil
	}
	s := *v
	return &s
}

// FindCard returns the index of the card with the given id, or -1
func FindCard(cards []Card, id string) int {
	for i := range cards {
		if cards[i].ID == id {
			return i
		}
	}
	return -1
}

// RemoveCard returns cards without the element at index i
func RemoveCard(cards []Card, i int) []Card {
	out := make([]Card, 0, len(cards)-1)
	out = append(out, cards[:i]...)
	return append(out, cards[i+1:]...)
}
