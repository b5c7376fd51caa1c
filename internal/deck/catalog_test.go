package deck

import (
	"testing"

	"github.com/lunaryss/tarot-ai/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogHas78UniqueCards(t *testing.T) {
	cards := AllCards()
	require.Len(t, cards, DeckSize)

	ids := make(map[string]bool)
	majors, minors := 0, 0
	for _, c := range cards {
		assert.False(t, ids[c.ID], "duplicate card id %s", c.ID)
		ids[c.ID] = true

		switch c.Arcana {
		case domain.ArcanaMajor:
			majors++
			assert.Empty(t, c.Suit, "major arcana %s must have no suit", c.ID)
		case domain.ArcanaMinor:
			minors++
			assert.NotEmpty(t, c.Suit, "minor arcana %s must have a suit", c.ID)
			assert.GreaterOrEqual(t, c.Number, 1)
			assert.LessOrEqual(t, c.Number, 14)
		default:
			t.Fatalf("card %s has unknown arcana %q", c.ID, c.Arcana)
		}

		assert.NotEmpty(t, c.Name, "card %s has no name", c.ID)
		assert.NotEmpty(t, c.UprightMeaning, "card %s has no upright meaning", c.ID)
		assert.NotEmpty(t, c.ReversedMeaning, "card %s has no reversed meaning", c.ID)
		assert.NotEmpty(t, c.Keywords, "card %s has no keywords", c.ID)
	}

	assert.Equal(t, 22, majors)
	assert.Equal(t, 56, minors)
}

func TestCatalogSuits(t *testing.T) {
	counts := make(map[domain.Suit]int)
	for _, c := range AllCards() {
		if c.Arcana == domain.ArcanaMinor {
			counts[c.Suit]++
		}
	}

	for _, suit := range []domain.Suit{domain.SuitWands, domain.SuitCups, domain.SuitSwords, domain.SuitPentacles} {
		assert.Equal(t, 14, counts[suit], "suit %s", suit)
	}
}

func TestCardByID(t *testing.T) {
	card, ok := CardByID("fool")
	require.True(t, ok)
	assert.Equal(t, "The Fool", card.Name)
	assert.Equal(t, domain.ArcanaMajor, card.Arcana)

	card, ok = CardByID("ace-wands")
	require.True(t, ok)
	assert.Equal(t, "Ace of Wands", card.Name)
	assert.Equal(t, 1, card.Number)

	_, ok = CardByID("no-such-card")
	assert.False(t, ok)
}

func TestAllCardsReturnsCopy(t *testing.T) {
	first := AllCards()
	first[0].Name = "mutated"

	again := AllCards()
	assert.NotEqual(t, "mutated", again[0].Name)
}

func TestSpreadCatalog(t *testing.T) {
	spreads := AllSpreads()
	require.NotEmpty(t, spreads)

	ids := make(map[string]bool)
	for _, sp := range spreads {
		assert.False(t, ids[sp.ID], "duplicate spread id %s", sp.ID)
		ids[sp.ID] = true

		require.NotEmpty(t, sp.Positions, "spread %s has no positions", sp.ID)
		posIDs := make(map[string]bool)
		for _, p := range sp.Positions {
			assert.False(t, posIDs[p.ID], "spread %s has duplicate position %s", sp.ID, p.ID)
			posIDs[p.ID] = true
		}
		assert.LessOrEqual(t, len(sp.Positions), DeckSize)
	}

	for _, id := range []string{"single-card", "three-card", "celtic-cross"} {
		_, ok := SpreadByID(id)
		assert.True(t, ok, "spread %s missing", id)
	}
}

func TestThreeCardSpreadPositions(t *testing.T) {
	sp, ok := SpreadByID("three-card")
	require.True(t, ok)
	require.Len(t, sp.Positions, 3)

	for _, id := range []string{"past", "present", "future"} {
		_, ok := sp.Position(id)
		assert.True(t, ok, "position %s missing", id)
	}
}
