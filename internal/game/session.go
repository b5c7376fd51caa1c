package game

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lunaryss/tarot-ai/internal/deck"
	"github.com/lunaryss/tarot-ai/internal/domain"
)

// Session is the live state machine for one spread-to-reading lifecycle.
// All operations are safe for concurrent use; Shuffle is the only
// suspending operation and callers must not assume state is unchanged
// across it.
type Session struct {
	mu sync.Mutex

	id       uuid.UUID
	spread   *domain.Spread
	shuffled []domain.Card
	drawn    []domain.DrawnCard
	phase    domain.Phase
	reading  string
	question string

	pendingShuffles int
	everShuffled    bool

	rng          deck.RNG
	shuffleDelay time.Duration
}

// NewSession creates an empty session in the setup phase.
func NewSession(rng deck.RNG, shuffleDelay time.Duration) *Session {
	if rng == nil {
		rng = deck.NewRNG()
	}
	return &Session{
		id:           uuid.New(),
		phase:        domain.PhaseSetup,
		rng:          rng,
		shuffleDelay: shuffleDelay,
	}
}

// ID returns the session id. A new id is generated on each SelectSpread.
func (s *Session) ID() uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// SelectSpread sets the current spread, clears deck and drawn cards,
// assigns a fresh session id and moves to the drawing phase. Any
// in-progress state is overwritten; confirming destructive intent is the
// caller's job.
func (s *Session) SelectSpread(spread domain.Spread) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sp := spread
	s.spread = &sp
	s.id = uuid.New()
	s.shuffled = nil
	s.drawn = nil
	s.reading = ""
	s.question = ""
	s.everShuffled = false
	s.phase = domain.PhaseDrawing
}

// Shuffle replaces the remaining deck with a fresh permutation of the
// full catalog. It suspends for the configured delay (interruptible via
// ctx) with IsShuffling reporting true for the duration, so callers can
// disable repeat invocations. Overlapping calls do not corrupt state.
func (s *Session) Shuffle(ctx context.Context) error {
	s.mu.Lock()
	if s.spread == nil {
		s.mu.Unlock()
		return domain.ErrNoSpread
	}
	s.pendingShuffles++
	delay := s.shuffleDelay
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.pendingShuffles--
		s.mu.Unlock()
	}()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	shuffled := deck.Shuffle(deck.AllCards(), s.rng)

	s.mu.Lock()
	s.shuffled = shuffled
	s.everShuffled = true
	// Cards already on the table stay there; drop their duplicates from
	// the fresh permutation so deck and drawn cards remain disjoint.
	if len(s.drawn) > 0 {
		onTable := make(map[string]bool, len(s.drawn))
		for _, dc := range s.drawn {
			onTable[dc.Card.ID] = true
		}
		kept := s.shuffled[:0]
		for _, c := range s.shuffled {
			if !onTable[c.ID] {
				kept = append(kept, c)
			}
		}
		s.shuffled = kept
	}
	s.mu.Unlock()
	return nil
}

// IsShuffling reports whether any shuffle is pending.
func (s *Session) IsShuffling() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pendingShuffles > 0
}

// Draw removes the top card of the deck into the given position with a
// random orientation, face down. If the position is already occupied the
// existing drawn card is returned along with ErrPositionOccupied and the
// deck is left untouched. Filling the last position advances the phase
// to reading.
func (s *Session) Draw(positionID string) (domain.DrawnCard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.spread == nil {
		return domain.DrawnCard{}, domain.ErrNoSpread
	}
	if _, ok := s.spread.Position(positionID); !ok {
		return domain.DrawnCard{}, domain.ErrInvalidPosition
	}
	for _, dc := range s.drawn {
		if dc.PositionID == positionID {
			return dc, domain.ErrPositionOccupied
		}
	}

	card, reversed, rest, ok := deck.DrawTop(s.shuffled, s.rng)
	if !ok {
		return domain.DrawnCard{}, domain.ErrDeckEmpty
	}
	s.shuffled = rest

	dc := domain.DrawnCard{
		Card:       card,
		IsReversed: reversed,
		PositionID: positionID,
		DrawnAt:    time.Now(),
		IsRevealed: false,
	}
	s.drawn = append(s.drawn, dc)

	if len(s.drawn) == len(s.spread.Positions) {
		s.phase = domain.PhaseReading
	}
	return dc, nil
}

// Remove takes the card out of a position and returns it to the front of
// the deck, making it drawable again. The phase demotes to drawing if it
// had advanced. No-op when the position is empty.
func (s *Session) Remove(positionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, dc := range s.drawn {
		if dc.PositionID == positionID {
			s.drawn = append(s.drawn[:i], s.drawn[i+1:]...)
			s.shuffled = append([]domain.Card{dc.Card}, s.shuffled...)
			s.demoteLocked()
			return true
		}
	}
	return false
}

// Cut removes the card from a position without returning it to the deck;
// the card is permanently out of play for this session. No-op when the
// position is empty.
func (s *Session) Cut(positionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, dc := range s.drawn {
		if dc.PositionID == positionID {
			s.drawn = append(s.drawn[:i], s.drawn[i+1:]...)
			s.demoteLocked()
			return true
		}
	}
	return false
}

func (s *Session) demoteLocked() {
	if s.phase == domain.PhaseReading || s.phase == domain.PhaseComplete {
		s.phase = domain.PhaseDrawing
	}
}

// ToggleReverse flips the orientation of the card at a position.
func (s *Session) ToggleReverse(positionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.drawn {
		if s.drawn[i].PositionID == positionID {
			s.drawn[i].IsReversed = !s.drawn[i].IsReversed
			return true
		}
	}
	return false
}

// Reveal marks the card at a position as visible.
func (s *Session) Reveal(positionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.drawn {
		if s.drawn[i].PositionID == positionID {
			s.drawn[i].IsRevealed = true
			return true
		}
	}
	return false
}

// RevealAll marks every drawn card as visible.
func (s *Session) RevealAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.drawn {
		s.drawn[i].IsRevealed = true
	}
}

// HideAll marks every drawn card as face down.
func (s *Session) HideAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.drawn {
		s.drawn[i].IsRevealed = false
	}
}

// CanGenerateReading reports whether a spread is selected and every
// position holds a card.
func (s *Session) CanGenerateReading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.spread != nil && len(s.drawn) == len(s.spread.Positions)
}

// SetReading stores the generated reading text, reveals all cards and
// completes the session.
func (s *Session) SetReading(text, question string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.spread == nil || len(s.drawn) != len(s.spread.Positions) {
		return domain.ErrReadingNotReady
	}
	s.reading = text
	s.question = question
	for i := range s.drawn {
		s.drawn[i].IsRevealed = true
	}
	s.phase = domain.PhaseComplete
	return nil
}

// Restore rehydrates a persisted record into the session, used when a
// saved reading is reopened.
func (s *Session) Restore(record domain.GameSession, spread domain.Spread) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sp := spread
	s.spread = &sp
	s.id = record.ID
	s.shuffled = nil
	s.drawn = append([]domain.DrawnCard(nil), record.DrawnCards...)
	s.reading = record.Reading
	s.question = record.Question
	s.everShuffled = true
	if record.Reading != "" {
		s.phase = domain.PhaseComplete
	} else {
		s.phase = domain.PhaseReading
	}
}

// Reset returns the session to setup, clearing spread, deck and drawn
// cards. The session keeps its id; SelectSpread assigns a fresh one.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.spread = nil
	s.shuffled = nil
	s.drawn = nil
	s.reading = ""
	s.question = ""
	s.everShuffled = false
	s.phase = domain.PhaseSetup
}

// State is a point-in-time copy of a session for handlers and tests.
type State struct {
	ID                 uuid.UUID          `json:"id"`
	Spread             *domain.Spread     `json:"spread,omitempty"`
	Phase              domain.Phase       `json:"phase"`
	DeckCount          int                `json:"deck_count"`
	DrawnCards         []domain.DrawnCard `json:"drawn_cards"`
	IsShuffling        bool               `json:"is_shuffling"`
	EverShuffled       bool               `json:"ever_shuffled"`
	Reading            string             `json:"reading,omitempty"`
	Question           string             `json:"question,omitempty"`
	CanGenerateReading bool               `json:"can_generate_reading"`
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := State{
		ID:           s.id,
		Phase:        s.phase,
		DeckCount:    len(s.shuffled),
		DrawnCards:   append([]domain.DrawnCard(nil), s.drawn...),
		IsShuffling:  s.pendingShuffles > 0,
		EverShuffled: s.everShuffled,
		Reading:      s.reading,
		Question:     s.question,
	}
	if s.spread != nil {
		sp := *s.spread
		st.Spread = &sp
		st.CanGenerateReading = len(s.drawn) == len(s.spread.Positions)
	}
	return st
}
