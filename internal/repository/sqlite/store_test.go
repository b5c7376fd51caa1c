package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lunaryss/tarot-ai/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleSession(created time.Time) *domain.GameSession {
	return &domain.GameSession{
		ID:       uuid.New(),
		SpreadID: "three-card",
		DrawnCards: []domain.DrawnCard{
			{
				Card:       domain.Card{ID: "fool", Name: "The Fool", Arcana: domain.ArcanaMajor},
				PositionID: "past",
				IsReversed: true,
				IsRevealed: true,
				DrawnAt:    created,
			},
		},
		Reading:   "a fresh start",
		Question:  "what now",
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func createConversation(t *testing.T, store *Store, sessionID *uuid.UUID) *domain.Conversation {
	t.Helper()
	now := time.Now().UTC()
	conv := &domain.Conversation{
		ID:        uuid.New(),
		SessionID: sessionID,
		Title:     "Test Conversation",
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, store.Conversations().Create(context.Background(), conv))
	return conv
}

func createMessage(t *testing.T, store *Store, convID uuid.UUID, content string, at time.Time) *domain.Message {
	t.Helper()
	msg := &domain.Message{
		ID:             uuid.New(),
		ConversationID: convID,
		Role:           domain.RoleUser,
		Content:        content,
		Type:           domain.MessageText,
		Timestamp:      at,
	}
	require.NoError(t, store.Messages().Create(context.Background(), msg))
	return msg
}

func TestGameSessionRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	sess := sampleSession(time.Now().UTC())
	require.NoError(t, store.GameSessions().Create(ctx, sess))

	got, err := store.GameSessions().Get(ctx, sess.ID)
	require.NoError(t, err)

	assert.Equal(t, sess.ID, got.ID)
	assert.Equal(t, sess.SpreadID, got.SpreadID)
	assert.Equal(t, sess.Reading, got.Reading)
	assert.Equal(t, sess.Question, got.Question)
	require.Len(t, got.DrawnCards, 1)
	assert.Equal(t, "fool", got.DrawnCards[0].Card.ID)
	assert.True(t, got.DrawnCards[0].IsReversed)
}

func TestGameSessionGetMissing(t *testing.T) {
	store := newTestStore(t)
	_, err := store.GameSessions().Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGameSessionUpdate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	sess := sampleSession(time.Now().UTC())
	require.NoError(t, store.GameSessions().Create(ctx, sess))

	sess.Reading = "revised"
	sess.UpdatedAt = time.Now().UTC()
	require.NoError(t, store.GameSessions().Update(ctx, sess))

	got, err := store.GameSessions().Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "revised", got.Reading)

	missing := sampleSession(time.Now().UTC())
	assert.ErrorIs(t, store.GameSessions().Update(ctx, missing), domain.ErrNotFound)
}

func TestGameSessionListRecentOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	old := sampleSession(time.Now().UTC().Add(-time.Hour))
	recent := sampleSession(time.Now().UTC())
	require.NoError(t, store.GameSessions().Create(ctx, old))
	require.NoError(t, store.GameSessions().Create(ctx, recent))

	sessions, err := store.GameSessions().ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, recent.ID, sessions[0].ID)

	limited, err := store.GameSessions().ListRecent(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestConversationNullableSessionID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	standalone := createConversation(t, store, nil)
	got, err := store.Conversations().Get(ctx, standalone.ID)
	require.NoError(t, err)
	assert.Nil(t, got.SessionID)

	sessionID := uuid.New()
	linked := createConversation(t, store, &sessionID)
	got, err = store.Conversations().Get(ctx, linked.ID)
	require.NoError(t, err)
	require.NotNil(t, got.SessionID)
	assert.Equal(t, sessionID, *got.SessionID)

	bySession, err := store.Conversations().ListBySession(ctx, sessionID)
	require.NoError(t, err)
	require.Len(t, bySession, 1)
	assert.Equal(t, linked.ID, bySession[0].ID)
}

func TestMessagesOrderedByTimestamp(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	conv := createConversation(t, store, nil)
	now := time.Now().UTC()
	createMessage(t, store, conv.ID, "second", now)
	createMessage(t, store, conv.ID, "first", now.Add(-time.Minute))

	messages, err := store.Messages().ListByConversation(ctx, conv.ID)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "first", messages[0].Content)
	assert.Equal(t, "second", messages[1].Content)
}

func TestDeleteConversationCascades(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	conv := createConversation(t, store, nil)
	createMessage(t, store, conv.ID, "hello", time.Now().UTC())

	require.NoError(t, store.DeleteConversation(ctx, conv.ID))

	_, err := store.Conversations().Get(ctx, conv.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	messages, err := store.Messages().ListByConversation(ctx, conv.ID)
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestDeleteGameSessionCascades(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	sess := sampleSession(time.Now().UTC())
	require.NoError(t, store.GameSessions().Create(ctx, sess))

	linked := createConversation(t, store, &sess.ID)
	createMessage(t, store, linked.ID, "about the spread", time.Now().UTC())
	unrelated := createConversation(t, store, nil)

	require.NoError(t, store.DeleteGameSession(ctx, sess.ID))

	_, err := store.GameSessions().Get(ctx, sess.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = store.Conversations().Get(ctx, linked.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	messages, err := store.Messages().ListByConversation(ctx, linked.ID)
	require.NoError(t, err)
	assert.Empty(t, messages)

	// Unrelated records survive.
	_, err = store.Conversations().Get(ctx, unrelated.ID)
	assert.NoError(t, err)
}

func TestDeleteOlderThan(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	cutoff := time.Now().UTC().Add(-24 * time.Hour)

	expired := sampleSession(cutoff.Add(-time.Hour))
	fresh := sampleSession(time.Now().UTC())
	require.NoError(t, store.GameSessions().Create(ctx, expired))
	require.NoError(t, store.GameSessions().Create(ctx, fresh))

	expiredConv := createConversation(t, store, &expired.ID)
	createMessage(t, store, expiredConv.ID, "old talk", cutoff.Add(-time.Hour))

	staleStandalone := &domain.Conversation{
		ID:        uuid.New(),
		Title:     "stale",
		CreatedAt: cutoff.Add(-2 * time.Hour),
		UpdatedAt: cutoff.Add(-2 * time.Hour),
	}
	require.NoError(t, store.Conversations().Create(ctx, staleStandalone))

	sessions, conversations, err := store.DeleteOlderThan(ctx, cutoff)
	require.NoError(t, err)
	assert.Equal(t, 1, sessions)
	assert.Equal(t, 1, conversations)

	_, err = store.GameSessions().Get(ctx, expired.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = store.GameSessions().Get(ctx, fresh.ID)
	assert.NoError(t, err)
	_, err = store.Conversations().Get(ctx, expiredConv.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = store.Conversations().Get(ctx, staleStandalone.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestClearAll(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	sess := sampleSession(time.Now().UTC())
	require.NoError(t, store.GameSessions().Create(ctx, sess))
	conv := createConversation(t, store, &sess.ID)
	createMessage(t, store, conv.ID, "bye", time.Now().UTC())

	require.NoError(t, store.ClearAll(ctx))

	sessions, err := store.GameSessions().ListRecent(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, sessions)

	conversations, err := store.Conversations().ListRecent(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, conversations)
}
