package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lunaryss/tarot-ai/internal/config"
	"github.com/lunaryss/tarot-ai/internal/deck"
	"github.com/lunaryss/tarot-ai/internal/domain"
	"github.com/lunaryss/tarot-ai/internal/game"
	"github.com/lunaryss/tarot-ai/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		LLM:  config.LLMConfig{DefaultProvider: "mock"},
		Game: config.GameConfig{AutoShuffle: true},
		History: config.HistoryConfig{
			SaveHistory:          true,
			SessionRetentionDays: 30,
		},
	}
}

func newMockRouter(provider *MockProvider) *llm.Router {
	provider.On("Name").Return("mock")
	provider.On("IsConfigured").Return(true)
	router := llm.NewRouter("mock")
	router.RegisterProvider(provider)
	return router
}

type gameFixture struct {
	svc      *GameService
	store    *MockStore
	provider *MockProvider
	cache    *stubCache
	settings *Settings
}

func newGameFixture(t *testing.T) *gameFixture {
	t.Helper()
	store := NewMockStore()
	provider := &MockProvider{}
	cache := newStubCache()
	settings := NewSettings(testConfig())
	manager := game.NewManager(nil, 0)
	svc := NewGameService(manager, newMockRouter(provider), store, cache, settings)
	return &gameFixture{svc: svc, store: store, provider: provider, cache: cache, settings: settings}
}

// startReadySession draws the single-card spread to completion.
func startReadySession(t *testing.T, svc *GameService) game.State {
	t.Helper()
	ctx := context.Background()

	st, err := svc.StartSession(ctx, "single-card")
	require.NoError(t, err)

	st, err = svc.DrawCard(ctx, st.ID, "guidance")
	require.NoError(t, err)
	require.True(t, st.CanGenerateReading)
	return st
}

func TestStartSessionUnknownSpread(t *testing.T) {
	f := newGameFixture(t)

	_, err := f.svc.StartSession(context.Background(), "no-such-spread")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStartSessionAutoShuffle(t *testing.T) {
	f := newGameFixture(t)

	st, err := f.svc.StartSession(context.Background(), "three-card")
	require.NoError(t, err)

	assert.Equal(t, domain.PhaseDrawing, st.Phase)
	assert.Equal(t, deck.DeckSize, st.DeckCount)
	assert.True(t, st.EverShuffled)
}

func TestStartSessionWithoutAutoShuffle(t *testing.T) {
	f := newGameFixture(t)
	off := false
	f.settings.Apply(SettingsUpdate{AutoShuffle: &off})

	st, err := f.svc.StartSession(context.Background(), "three-card")
	require.NoError(t, err)

	assert.Zero(t, st.DeckCount)
	assert.False(t, st.EverShuffled)
}

func TestGetSessionUnknown(t *testing.T) {
	f := newGameFixture(t)

	_, err := f.svc.GetSession(uuid.New())
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestDrawCardOccupiedIsIdempotent(t *testing.T) {
	f := newGameFixture(t)
	ctx := context.Background()

	st := startReadySession(t, f.svc)
	drawn := st.DrawnCards[0]

	again, err := f.svc.DrawCard(ctx, st.ID, "guidance")
	assert.ErrorIs(t, err, domain.ErrPositionOccupied)
	require.Len(t, again.DrawnCards, 1)
	assert.Equal(t, drawn.Card.ID, again.DrawnCards[0].Card.ID)
	assert.Equal(t, st.DeckCount, again.DeckCount)
}

func TestGenerateReadingNotReady(t *testing.T) {
	f := newGameFixture(t)
	ctx := context.Background()

	st, err := f.svc.StartSession(ctx, "three-card")
	require.NoError(t, err)

	_, err = f.svc.GenerateReading(ctx, st.ID, "", "", "")
	assert.ErrorIs(t, err, domain.ErrReadingNotReady)
	f.provider.AssertNotCalled(t, "GenerateReading", mock.Anything, mock.Anything)
}

func TestGenerateReadingPersistsWhenEnabled(t *testing.T) {
	f := newGameFixture(t)
	ctx := context.Background()

	st := startReadySession(t, f.svc)

	f.provider.On("GenerateReading", mock.Anything, mock.AnythingOfType("llm.ReadingRequest")).
		Return("a fresh start awaits", nil)
	f.store.Sessions.On("Get", mock.Anything, st.ID).Return(nil, domain.ErrNotFound)
	f.store.Sessions.On("Create", mock.Anything, mock.AnythingOfType("*domain.GameSession")).Return(nil)

	result, err := f.svc.GenerateReading(ctx, st.ID, "what now?", "", "")
	require.NoError(t, err)

	assert.Equal(t, domain.PhaseComplete, result.Phase)
	assert.Equal(t, "a fresh start awaits", result.Reading)
	assert.Equal(t, "what now?", result.Question)
	assert.True(t, result.DrawnCards[0].IsRevealed)
	f.store.Sessions.AssertCalled(t, "Create", mock.Anything, mock.AnythingOfType("*domain.GameSession"))
}

func TestGenerateReadingSkipsPersistWhenDisabled(t *testing.T) {
	f := newGameFixture(t)
	off := false
	f.settings.Apply(SettingsUpdate{SaveHistory: &off})
	ctx := context.Background()

	st := startReadySession(t, f.svc)
	f.provider.On("GenerateReading", mock.Anything, mock.AnythingOfType("llm.ReadingRequest")).
		Return("insight", nil)

	_, err := f.svc.GenerateReading(ctx, st.ID, "", "", "")
	require.NoError(t, err)

	f.store.Sessions.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	f.store.Sessions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestGenerateReadingUsesCache(t *testing.T) {
	f := newGameFixture(t)
	off := false
	f.settings.Apply(SettingsUpdate{SaveHistory: &off})
	ctx := context.Background()

	st := startReadySession(t, f.svc)
	require.NoError(t, f.cache.Set(ctx, st.ID, "cached interpretation"))

	result, err := f.svc.GenerateReading(ctx, st.ID, "", "", "")
	require.NoError(t, err)

	assert.Equal(t, "cached interpretation", result.Reading)
	f.provider.AssertNotCalled(t, "GenerateReading", mock.Anything, mock.Anything)
}

func TestShuffleInvalidatesCachedReading(t *testing.T) {
	f := newGameFixture(t)
	ctx := context.Background()

	st := startReadySession(t, f.svc)
	require.NoError(t, f.cache.Set(ctx, st.ID, "stale"))

	_, err := f.svc.ShuffleDeck(ctx, st.ID)
	require.NoError(t, err)

	cached, err := f.cache.Get(ctx, st.ID)
	require.NoError(t, err)
	assert.Empty(t, cached)
}

func TestSaveSessionManual(t *testing.T) {
	f := newGameFixture(t)
	ctx := context.Background()

	st := startReadySession(t, f.svc)
	f.store.Sessions.On("Get", mock.Anything, st.ID).Return(nil, domain.ErrNotFound)
	f.store.Sessions.On("Create", mock.Anything, mock.AnythingOfType("*domain.GameSession")).Return(nil)

	_, err := f.svc.SaveSession(ctx, st.ID)
	require.NoError(t, err)

	_, err = f.svc.SaveSession(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestSaveSessionPreservesCreatedAt(t *testing.T) {
	f := newGameFixture(t)
	ctx := context.Background()

	st := startReadySession(t, f.svc)
	created := time.Now().Add(-time.Hour)
	f.store.Sessions.On("Get", mock.Anything, st.ID).
		Return(&domain.GameSession{ID: st.ID, SpreadID: "single-card", CreatedAt: created}, nil)
	f.store.Sessions.On("Update", mock.Anything, mock.MatchedBy(func(s *domain.GameSession) bool {
		return s.CreatedAt.Equal(created)
	})).Return(nil)

	_, err := f.svc.SaveSession(ctx, st.ID)
	require.NoError(t, err)
	f.store.Sessions.AssertExpectations(t)
}

func TestLoadSessionRehydrates(t *testing.T) {
	f := newGameFixture(t)
	ctx := context.Background()

	record := &domain.GameSession{
		ID:       uuid.New(),
		SpreadID: "single-card",
		DrawnCards: []domain.DrawnCard{
			{
				Card:       domain.Card{ID: "fool", Name: "The Fool"},
				PositionID: "guidance",
				IsRevealed: true,
			},
		},
		Reading:  "a fresh start",
		Question: "what now",
	}
	f.store.Sessions.On("Get", mock.Anything, record.ID).Return(record, nil)

	st, err := f.svc.LoadSession(ctx, record.ID)
	require.NoError(t, err)

	assert.Equal(t, record.ID, st.ID)
	assert.Equal(t, domain.PhaseComplete, st.Phase)
	assert.Equal(t, "a fresh start", st.Reading)
	require.NotNil(t, st.Spread)
	assert.Equal(t, "single-card", st.Spread.ID)

	// Now live; loading again must not hit the store a second time.
	_, err = f.svc.LoadSession(ctx, record.ID)
	require.NoError(t, err)
	f.store.Sessions.AssertNumberOfCalls(t, "Get", 1)
}

func TestResetSessionDropsLiveState(t *testing.T) {
	f := newGameFixture(t)
	ctx := context.Background()

	st := startReadySession(t, f.svc)
	f.svc.ResetSession(ctx, st.ID)

	_, err := f.svc.GetSession(st.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}
