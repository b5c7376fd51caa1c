package game

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lunaryss/tarot-ai/internal/deck"
	"github.com/lunaryss/tarot-ai/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type seededRNG struct {
	r *rand.Rand
}

func newSeededRNG(seed uint64) *seededRNG {
	return &seededRNG{r: rand.New(rand.NewPCG(seed, 0))}
}

func (s *seededRNG) Intn(n int) int { return s.r.IntN(n) }

func mustSpread(t *testing.T, id string) domain.Spread {
	t.Helper()
	sp, ok := deck.SpreadByID(id)
	require.True(t, ok, "spread %s not in catalog", id)
	return sp
}

func newReadySession(t *testing.T, spreadID string) *Session {
	t.Helper()
	s := NewSession(newSeededRNG(42), 0)
	s.SelectSpread(mustSpread(t, spreadID))
	require.NoError(t, s.Shuffle(context.Background()))
	return s
}

func TestNewSessionStartsInSetup(t *testing.T) {
	s := NewSession(nil, 0)
	st := s.Snapshot()

	assert.Equal(t, domain.PhaseSetup, st.Phase)
	assert.Nil(t, st.Spread)
	assert.Empty(t, st.DrawnCards)
	assert.False(t, st.EverShuffled)
}

func TestSelectSpreadMovesToDrawing(t *testing.T) {
	s := NewSession(newSeededRNG(1), 0)
	s.SelectSpread(mustSpread(t, "three-card"))

	st := s.Snapshot()
	assert.Equal(t, domain.PhaseDrawing, st.Phase)
	require.NotNil(t, st.Spread)
	assert.Equal(t, "three-card", st.Spread.ID)
	assert.Zero(t, st.DeckCount, "deck is empty until the first shuffle")
}

func TestSelectSpreadAssignsFreshID(t *testing.T) {
	s := NewSession(newSeededRNG(1), 0)
	s.SelectSpread(mustSpread(t, "single-card"))
	first := s.ID()

	s.SelectSpread(mustSpread(t, "three-card"))
	assert.NotEqual(t, first, s.ID())
}

func TestShuffleRequiresSpread(t *testing.T) {
	s := NewSession(newSeededRNG(1), 0)
	err := s.Shuffle(context.Background())
	assert.ErrorIs(t, err, domain.ErrNoSpread)
}

func TestShuffleFillsDeck(t *testing.T) {
	s := newReadySession(t, "three-card")
	st := s.Snapshot()

	assert.Equal(t, deck.DeckSize, st.DeckCount)
	assert.True(t, st.EverShuffled)
}

func TestShuffleDelayInterruptible(t *testing.T) {
	s := NewSession(newSeededRNG(1), time.Minute)
	s.SelectSpread(mustSpread(t, "single-card"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := s.Shuffle(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, s.IsShuffling())
}

func TestDrawWithoutSpread(t *testing.T) {
	s := NewSession(newSeededRNG(1), 0)
	_, err := s.Draw("past")
	assert.ErrorIs(t, err, domain.ErrNoSpread)
}

func TestDrawInvalidPosition(t *testing.T) {
	s := newReadySession(t, "three-card")
	_, err := s.Draw("nonexistent")
	assert.ErrorIs(t, err, domain.ErrInvalidPosition)
}

func TestDrawEmptyDeck(t *testing.T) {
	s := NewSession(newSeededRNG(1), 0)
	s.SelectSpread(mustSpread(t, "three-card"))

	// No shuffle yet, so the deck is empty.
	_, err := s.Draw("past")
	assert.ErrorIs(t, err, domain.ErrDeckEmpty)
}

func TestDrawFillsPositionFaceDown(t *testing.T) {
	s := newReadySession(t, "three-card")

	dc, err := s.Draw("past")
	require.NoError(t, err)

	assert.Equal(t, "past", dc.PositionID)
	assert.False(t, dc.IsRevealed)
	assert.NotEmpty(t, dc.Card.ID)

	st := s.Snapshot()
	assert.Equal(t, deck.DeckSize-1, st.DeckCount)
	assert.Len(t, st.DrawnCards, 1)
	assert.Equal(t, domain.PhaseDrawing, st.Phase)
}

func TestDrawOccupiedPositionIsIdempotent(t *testing.T) {
	s := newReadySession(t, "three-card")

	first, err := s.Draw("past")
	require.NoError(t, err)

	again, err := s.Draw("past")
	assert.ErrorIs(t, err, domain.ErrPositionOccupied)
	assert.Equal(t, first.Card.ID, again.Card.ID)

	st := s.Snapshot()
	assert.Equal(t, deck.DeckSize-1, st.DeckCount, "occupied draw must not consume the deck")
	assert.Len(t, st.DrawnCards, 1)
}

func TestFillingLastPositionAdvancesToReading(t *testing.T) {
	s := newReadySession(t, "three-card")

	for _, pos := range []string{"past", "present"} {
		_, err := s.Draw(pos)
		require.NoError(t, err)
		assert.Equal(t, domain.PhaseDrawing, s.Snapshot().Phase)
		assert.False(t, s.CanGenerateReading())
	}

	_, err := s.Draw("future")
	require.NoError(t, err)

	st := s.Snapshot()
	assert.Equal(t, domain.PhaseReading, st.Phase)
	assert.True(t, st.CanGenerateReading)
}

func TestRemoveReturnsCardToDeck(t *testing.T) {
	s := newReadySession(t, "three-card")

	dc, err := s.Draw("past")
	require.NoError(t, err)

	require.True(t, s.Remove("past"))

	st := s.Snapshot()
	assert.Equal(t, deck.DeckSize, st.DeckCount)
	assert.Empty(t, st.DrawnCards)

	// The removed card sits on top of the deck and comes back first.
	redrawn, err := s.Draw("present")
	require.NoError(t, err)
	assert.Equal(t, dc.Card.ID, redrawn.Card.ID)
}

func TestCutRemovesCardFromPlay(t *testing.T) {
	s := newReadySession(t, "three-card")

	dc, err := s.Draw("past")
	require.NoError(t, err)

	require.True(t, s.Cut("past"))

	st := s.Snapshot()
	assert.Equal(t, deck.DeckSize-1, st.DeckCount, "cut card must not return to the deck")
	assert.Empty(t, st.DrawnCards)

	// The cut card can never be drawn again this session.
	for {
		got, err := s.Draw("past")
		if err != nil {
			assert.ErrorIs(t, err, domain.ErrDeckEmpty)
			break
		}
		assert.NotEqual(t, dc.Card.ID, got.Card.ID)
		s.Cut("past")
	}
}

func TestRemoveFromReadingPhaseDemotesToDrawing(t *testing.T) {
	s := newReadySession(t, "single-card")

	_, err := s.Draw("guidance")
	require.NoError(t, err)
	require.Equal(t, domain.PhaseReading, s.Snapshot().Phase)

	s.Remove("guidance")
	assert.Equal(t, domain.PhaseDrawing, s.Snapshot().Phase)
}

func TestRemoveEmptyPositionIsNoop(t *testing.T) {
	s := newReadySession(t, "three-card")
	assert.False(t, s.Remove("past"))
	assert.False(t, s.Cut("past"))
}

func TestToggleReverse(t *testing.T) {
	s := newReadySession(t, "single-card")

	dc, err := s.Draw("guidance")
	require.NoError(t, err)

	require.True(t, s.ToggleReverse("guidance"))
	assert.Equal(t, !dc.IsReversed, s.Snapshot().DrawnCards[0].IsReversed)

	require.True(t, s.ToggleReverse("guidance"))
	assert.Equal(t, dc.IsReversed, s.Snapshot().DrawnCards[0].IsReversed)

	assert.False(t, s.ToggleReverse("missing"))
}

func TestRevealAndHide(t *testing.T) {
	s := newReadySession(t, "three-card")
	for _, pos := range []string{"past", "present", "future"} {
		_, err := s.Draw(pos)
		require.NoError(t, err)
	}

	require.True(t, s.Reveal("past"))
	st := s.Snapshot()
	revealed := 0
	for _, dc := range st.DrawnCards {
		if dc.IsRevealed {
			revealed++
		}
	}
	assert.Equal(t, 1, revealed)

	s.RevealAll()
	for _, dc := range s.Snapshot().DrawnCards {
		assert.True(t, dc.IsRevealed)
	}

	s.HideAll()
	for _, dc := range s.Snapshot().DrawnCards {
		assert.False(t, dc.IsRevealed)
	}
}

func TestSetReadingRequiresFullSpread(t *testing.T) {
	s := newReadySession(t, "three-card")

	_, err := s.Draw("past")
	require.NoError(t, err)

	err = s.SetReading("text", "question")
	assert.ErrorIs(t, err, domain.ErrReadingNotReady)
}

func TestSetReadingCompletesAndReveals(t *testing.T) {
	s := newReadySession(t, "three-card")
	for _, pos := range []string{"past", "present", "future"} {
		_, err := s.Draw(pos)
		require.NoError(t, err)
	}

	require.NoError(t, s.SetReading("the cards speak", "what now"))

	st := s.Snapshot()
	assert.Equal(t, domain.PhaseComplete, st.Phase)
	assert.Equal(t, "the cards speak", st.Reading)
	assert.Equal(t, "what now", st.Question)
	for _, dc := range st.DrawnCards {
		assert.True(t, dc.IsRevealed)
	}
}

func TestShufflePreservesCardsOnTable(t *testing.T) {
	s := newReadySession(t, "three-card")

	dc, err := s.Draw("past")
	require.NoError(t, err)

	require.NoError(t, s.Shuffle(context.Background()))

	st := s.Snapshot()
	require.Len(t, st.DrawnCards, 1)
	assert.Equal(t, dc.Card.ID, st.DrawnCards[0].Card.ID)
	assert.Equal(t, deck.DeckSize-1, st.DeckCount, "on-table card must not reappear in the deck")
}

func TestResetClearsEverything(t *testing.T) {
	s := newReadySession(t, "three-card")
	_, err := s.Draw("past")
	require.NoError(t, err)

	before := s.ID()
	s.Reset()

	st := s.Snapshot()
	assert.Equal(t, domain.PhaseSetup, st.Phase)
	assert.Nil(t, st.Spread)
	assert.Empty(t, st.DrawnCards)
	assert.Zero(t, st.DeckCount)

	// The id survives a reset; only a new spread selection replaces it.
	assert.Equal(t, before, s.ID())

	s.SelectSpread(mustSpread(t, "single-card"))
	assert.NotEqual(t, before, s.ID())
}

func TestRestoreCompletedSession(t *testing.T) {
	record := domain.GameSession{
		ID:       uuid.UUID{1},
		SpreadID: "single-card",
		DrawnCards: []domain.DrawnCard{
			{PositionID: "guidance", IsRevealed: true, DrawnAt: time.Now()},
		},
		Reading:  "stored reading",
		Question: "stored question",
	}

	s := NewSession(newSeededRNG(1), 0)
	s.Restore(record, mustSpread(t, "single-card"))

	st := s.Snapshot()
	assert.Equal(t, record.ID, st.ID)
	assert.Equal(t, domain.PhaseComplete, st.Phase)
	assert.Equal(t, "stored reading", st.Reading)
	assert.Len(t, st.DrawnCards, 1)
}

func TestRestoreUnfinishedSessionIsInReading(t *testing.T) {
	record := domain.GameSession{
		ID:         uuid.UUID{2},
		SpreadID:   "single-card",
		DrawnCards: []domain.DrawnCard{{PositionID: "guidance"}},
	}

	s := NewSession(newSeededRNG(1), 0)
	s.Restore(record, mustSpread(t, "single-card"))

	assert.Equal(t, domain.PhaseReading, s.Snapshot().Phase)
}

func TestManagerLifecycle(t *testing.T) {
	m := NewManager(newSeededRNG(9), 0)

	s := m.Start(mustSpread(t, "three-card"))
	require.Equal(t, 1, m.Len())

	got, err := m.Get(s.ID())
	require.NoError(t, err)
	assert.Same(t, s, got)

	m.Drop(s.ID())
	assert.Equal(t, 0, m.Len())

	_, err = m.Get(s.ID())
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}
