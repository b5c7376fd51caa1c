package deck

import (
	"math/rand/v2"

	"github.com/lunaryss/tarot-ai/internal/domain"
)

// RNG abstracts random number generation so shuffles and orientation
// flips are deterministic under test.
type RNG interface {
	// Intn returns a non-negative random int in [0, n).
	Intn(n int) int
}

type stdRNG struct{}

func (stdRNG) Intn(n int) int { return rand.IntN(n) }

// NewRNG returns an RNG backed by math/rand/v2.
func NewRNG() RNG { return stdRNG{} }

// Shuffle returns a uniform random permutation of cards using
// Fisher-Yates. The input is not modified; the result holds exactly the
// same multiset of cards. An empty input yields an empty output.
func Shuffle(cards []domain.Card, rng RNG) []domain.Card {
	out := make([]domain.Card, len(cards))
	copy(out, cards)
	for i := len(out) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// DrawTop removes the first card of the deck and pairs it with a fair
// coin flip for orientation. ok is false when the deck is empty. The
// caller owns reflecting the removal in its own deck state.
func DrawTop(cards []domain.Card, rng RNG) (card domain.Card, isReversed bool, rest []domain.Card, ok bool) {
	if len(cards) == 0 {
		return domain.Card{}, false, cards, false
	}
	return cards[0], rng.Intn(2) == 1, cards[1:], true
}
