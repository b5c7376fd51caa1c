package domain

// Arcana distinguishes the two halves of a tarot deck.
type Arcana string

const (
	ArcanaMajor Arcana = "major"
	ArcanaMinor Arcana = "minor"
)

// Suit is the minor-arcana suit. Empty for major arcana.
type Suit string

const (
	SuitWands     Suit = "wands"
	SuitCups      Suit = "cups"
	SuitSwords    Suit = "swords"
	SuitPentacles Suit = "pentacles"
)

// Card is one card of the 78-card deck. Cards are catalog data and are
// never mutated after load; identity is the ID.
type Card struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Arcana          Arcana   `json:"arcana"`
	Suit            Suit     `json:"suit,omitempty"`
	Number          int      `json:"number"`
	UprightMeaning  string   `json:"upright_meaning"`
	ReversedMeaning string   `json:"reversed_meaning"`
	Keywords        []string `json:"keywords"`
	Description     string   `json:"description,omitempty"`
}

// Meaning returns the meaning text matching the card's orientation.
func (c Card) Meaning(reversed bool) string {
	if reversed {
		return c.ReversedMeaning
	}
	return c.UprightMeaning
}
