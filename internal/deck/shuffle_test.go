package deck

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seededRNG is a deterministic RNG for tests.
type seededRNG struct {
	r *rand.Rand
}

func newSeededRNG(seed uint64) *seededRNG {
	return &seededRNG{r: rand.New(rand.NewPCG(seed, 0))}
}

func (s *seededRNG) Intn(n int) int { return s.r.IntN(n) }

func TestShufflePreservesCardMultiset(t *testing.T) {
	cards := AllCards()
	shuffled := Shuffle(cards, newSeededRNG(1))

	require.Len(t, shuffled, len(cards))

	seen := make(map[string]int)
	for _, c := range shuffled {
		seen[c.ID]++
	}
	for _, c := range cards {
		assert.Equal(t, 1, seen[c.ID], "card %s should appear exactly once", c.ID)
	}
}

func TestShuffleDoesNotModifyInput(t *testing.T) {
	cards := AllCards()
	first := cards[0].ID

	Shuffle(cards, newSeededRNG(2))

	assert.Equal(t, first, cards[0].ID)
}

func TestShuffleIsDeterministicForSameSeed(t *testing.T) {
	a := Shuffle(AllCards(), newSeededRNG(7))
	b := Shuffle(AllCards(), newSeededRNG(7))

	require.Equal(t, len(a), len(b))
	for i := range a {
		assert.Equal(t, a[i].ID, b[i].ID)
	}
}

func TestShuffleEmptyDeck(t *testing.T) {
	out := Shuffle(nil, newSeededRNG(3))
	assert.Empty(t, out)
}

func TestDrawTopConsumesWholeDeck(t *testing.T) {
	rng := newSeededRNG(4)
	deck := Shuffle(AllCards(), rng)

	drawn := 0
	for {
		_, _, rest, ok := DrawTop(deck, rng)
		if !ok {
			break
		}
		deck = rest
		drawn++
	}

	assert.Equal(t, DeckSize, drawn)
	assert.Empty(t, deck)
}

func TestDrawTopEmptyDeck(t *testing.T) {
	_, _, _, ok := DrawTop(nil, newSeededRNG(5))
	assert.False(t, ok)
}

func TestDrawTopOrientationFollowsRNG(t *testing.T) {
	cards := AllCards()[:2]

	_, reversed, _, ok := DrawTop(cards, fixedRNG(1))
	require.True(t, ok)
	assert.True(t, reversed)

	_, reversed, _, ok = DrawTop(cards, fixedRNG(0))
	require.True(t, ok)
	assert.False(t, reversed)
}

// fixedRNG always returns the same value (clamped to range).
type fixedRNG int

func (f fixedRNG) Intn(n int) int {
	if int(f) >= n {
		return n - 1
	}
	return int(f)
}
