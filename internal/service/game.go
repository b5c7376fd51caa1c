package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lunaryss/tarot-ai/internal/deck"
	"github.com/lunaryss/tarot-ai/internal/domain"
	"github.com/lunaryss/tarot-ai/internal/game"
	"github.com/lunaryss/tarot-ai/internal/llm"
	"github.com/rs/zerolog/log"
)

// ReadingCache is the optional cache for generated readings. Satisfied
// by redis.ReadingCache; nil disables caching.
type ReadingCache interface {
	Get(ctx context.Context, sessionID uuid.UUID) (string, error)
	Set(ctx context.Context, sessionID uuid.UUID, reading string) error
	Invalidate(ctx context.Context, sessionID uuid.UUID) error
}

// GameService drives live game sessions: spread selection, shuffling,
// drawing and reading generation.
type GameService struct {
	manager   *game.Manager
	llmRouter *llm.Router
	store     domain.Store
	cache     ReadingCache
	settings  *Settings
}

// NewGameService creates a new game service. cache may be nil.
func NewGameService(
	manager *game.Manager,
	llmRouter *llm.Router,
	store domain.Store,
	cache ReadingCache,
	settings *Settings,
) *GameService {
	return &GameService{
		manager:   manager,
		llmRouter: llmRouter,
		store:     store,
		cache:     cache,
		settings:  settings,
	}
}

// StartSession creates a session with the given spread and, when auto
// shuffle is enabled, performs the first shuffle immediately.
func (s *GameService) StartSession(ctx context.Context, spreadID string) (game.State, error) {
	spread, ok := deck.SpreadByID(spreadID)
	if !ok {
		return game.State{}, fmt.Errorf("unknown spread %q: %w", spreadID, domain.ErrNotFound)
	}

	sess := s.manager.Start(spread)
	if s.settings.AutoShuffle() {
		if err := sess.Shuffle(ctx); err != nil {
			return game.State{}, err
		}
	}
	return sess.Snapshot(), nil
}

// GetSession returns the current state of a live session.
func (s *GameService) GetSession(id uuid.UUID) (game.State, error) {
	sess, err := s.manager.Get(id)
	if err != nil {
		return game.State{}, err
	}
	return sess.Snapshot(), nil
}

// ShuffleDeck reshuffles the remaining deck of a session.
func (s *GameService) ShuffleDeck(ctx context.Context, id uuid.UUID) (game.State, error) {
	sess, err := s.manager.Get(id)
	if err != nil {
		return game.State{}, err
	}
	if err := sess.Shuffle(ctx); err != nil {
		return game.State{}, err
	}
	s.invalidateReading(ctx, id)
	return sess.Snapshot(), nil
}

// DrawCard draws the top card into a position. When the position is
// already occupied the state is returned unchanged along with
// domain.ErrPositionOccupied so the caller can treat it as idempotent.
func (s *GameService) DrawCard(ctx context.Context, id uuid.UUID, positionID string) (game.State, error) {
	sess, err := s.manager.Get(id)
	if err != nil {
		return game.State{}, err
	}
	if _, err := sess.Draw(positionID); err != nil {
		if errors.Is(err, domain.ErrPositionOccupied) {
			return sess.Snapshot(), err
		}
		return game.State{}, err
	}
	s.invalidateReading(ctx, id)
	return sess.Snapshot(), nil
}

// RemoveCard returns a position's card to the deck.
func (s *GameService) RemoveCard(ctx context.Context, id uuid.UUID, positionID string) (game.State, error) {
	sess, err := s.manager.Get(id)
	if err != nil {
		return game.State{}, err
	}
	sess.Remove(positionID)
	s.invalidateReading(ctx, id)
	return sess.Snapshot(), nil
}

// CutCard removes a position's card from play entirely.
func (s *GameService) CutCard(ctx context.Context, id uuid.UUID, positionID string) (game.State, error) {
	sess, err := s.manager.Get(id)
	if err != nil {
		return game.State{}, err
	}
	sess.Cut(positionID)
	s.invalidateReading(ctx, id)
	return sess.Snapshot(), nil
}

// ToggleReverse flips the orientation of a placed card.
func (s *GameService) ToggleReverse(ctx context.Context, id uuid.UUID, positionID string) (game.State, error) {
	sess, err := s.manager.Get(id)
	if err != nil {
		return game.State{}, err
	}
	sess.ToggleReverse(positionID)
	s.invalidateReading(ctx, id)
	return sess.Snapshot(), nil
}

// RevealCard turns a placed card face up.
func (s *GameService) RevealCard(id uuid.UUID, positionID string) (game.State, error) {
	sess, err := s.manager.Get(id)
	if err != nil {
		return game.State{}, err
	}
	sess.Reveal(positionID)
	return sess.Snapshot(), nil
}

// RevealAll turns every placed card face up.
func (s *GameService) RevealAll(id uuid.UUID) (game.State, error) {
	sess, err := s.manager.Get(id)
	if err != nil {
		return game.State{}, err
	}
	sess.RevealAll()
	return sess.Snapshot(), nil
}

// HideAll turns every placed card face down.
func (s *GameService) HideAll(id uuid.UUID) (game.State, error) {
	sess, err := s.manager.Get(id)
	if err != nil {
		return game.State{}, err
	}
	sess.HideAll()
	return sess.Snapshot(), nil
}

// GenerateReading produces an interpretation for a fully drawn spread,
// reveals all cards and completes the session. The result is persisted
// when history saving is enabled.
func (s *GameService) GenerateReading(ctx context.Context, id uuid.UUID, question, providerName, model string) (game.State, error) {
	sess, err := s.manager.Get(id)
	if err != nil {
		return game.State{}, err
	}
	if !sess.CanGenerateReading() {
		return game.State{}, domain.ErrReadingNotReady
	}

	text := s.cachedReading(ctx, id)
	if text == "" {
		st := sess.Snapshot()
		provider, err := s.llmRouter.GetProvider(s.pickProvider(providerName))
		if err != nil {
			return game.State{}, err
		}
		req := llm.ReadingRequest{
			Cards:      st.DrawnCards,
			SpreadName: st.Spread.Name,
			Question:   question,
			Model:      s.pickModel(model),
		}
		text, err = provider.GenerateReading(ctx, req)
		if err != nil {
			return game.State{}, err
		}
		if s.cache != nil {
			if err := s.cache.Set(ctx, id, text); err != nil {
				log.Warn().Err(err).Msg("failed to cache reading")
			}
		}
	}

	if err := sess.SetReading(text, question); err != nil {
		return game.State{}, err
	}

	if s.settings.SaveHistory() {
		if err := s.persist(ctx, sess.Snapshot()); err != nil {
			log.Error().Err(err).Str("session_id", id.String()).Msg("failed to save session")
		}
	}
	return sess.Snapshot(), nil
}

// SaveSession persists the current state of a session regardless of the
// save_history setting.
func (s *GameService) SaveSession(ctx context.Context, id uuid.UUID) (game.State, error) {
	sess, err := s.manager.Get(id)
	if err != nil {
		return game.State{}, err
	}
	st := sess.Snapshot()
	if st.Spread == nil {
		return game.State{}, domain.ErrNoSpread
	}
	if err := s.persist(ctx, st); err != nil {
		return game.State{}, err
	}
	return st, nil
}

// LoadSession rehydrates a persisted session into the live registry and
// returns its state.
func (s *GameService) LoadSession(ctx context.Context, id uuid.UUID) (game.State, error) {
	if sess, err := s.manager.Get(id); err == nil {
		return sess.Snapshot(), nil
	}

	record, err := s.store.GameSessions().Get(ctx, id)
	if err != nil {
		return game.State{}, err
	}
	spread, ok := deck.SpreadByID(record.SpreadID)
	if !ok {
		return game.State{}, fmt.Errorf("saved session references unknown spread %q", record.SpreadID)
	}

	sess := game.NewSession(nil, s.settings.ShuffleDelay())
	sess.Restore(*record, spread)
	s.manager.Adopt(sess)
	return sess.Snapshot(), nil
}

// ResetSession drops a session from the registry and discards its state.
func (s *GameService) ResetSession(ctx context.Context, id uuid.UUID) {
	s.manager.Drop(id)
	s.invalidateReading(ctx, id)
}

func (s *GameService) persist(ctx context.Context, st game.State) error {
	now := time.Now()
	record := &domain.GameSession{
		ID:         st.ID,
		SpreadID:   st.Spread.ID,
		DrawnCards: st.DrawnCards,
		Reading:    st.Reading,
		Question:   st.Question,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	existing, err := s.store.GameSessions().Get(ctx, st.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return s.store.GameSessions().Create(ctx, record)
		}
		return err
	}
	record.CreatedAt = existing.CreatedAt
	return s.store.GameSessions().Update(ctx, record)
}

func (s *GameService) cachedReading(ctx context.Context, id uuid.UUID) string {
	if s.cache == nil {
		return ""
	}
	text, err := s.cache.Get(ctx, id)
	if err != nil {
		return ""
	}
	return text
}

func (s *GameService) invalidateReading(ctx context.Context, id uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, id); err != nil {
		log.Warn().Err(err).Msg("failed to invalidate reading cache")
	}
}

func (s *GameService) pickProvider(name string) string {
	if name != "" {
		return name
	}
	return s.settings.DefaultProvider()
}

func (s *GameService) pickModel(model string) string {
	if model != "" {
		return model
	}
	return s.settings.DefaultModel()
}
