package domain

// Position is a named slot within a spread. A position holds at most one
// drawn card.
type Position struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Meaning string `json:"meaning"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
}

// Difficulty tiers for spreads.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// Spread is a named layout of card positions. Position IDs are unique
// within a spread.
type Spread struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Difficulty  Difficulty `json:"difficulty"`
	Category    string     `json:"category"`
	Positions   []Position `json:"positions"`
}

// Position returns the position with the given id, if present.
func (s Spread) Position(id string) (Position, bool) {
	for _, p := range s.Positions {
		if p.ID == id {
			return p, true
		}
	}
	return Position{}, false
}
