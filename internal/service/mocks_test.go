package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lunaryss/tarot-ai/internal/domain"
	"github.com/lunaryss/tarot-ai/internal/llm"
	"github.com/stretchr/testify/mock"
)

// MockGameSessionRepository mocks the GameSessionRepository interface
type MockGameSessionRepository struct {
	mock.Mock
}

func (m *MockGameSessionRepository) Create(ctx context.Context, session *domain.GameSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockGameSessionRepository) Get(ctx context.Context, id uuid.UUID) (*domain.GameSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GameSession), args.Error(1)
}

func (m *MockGameSessionRepository) ListRecent(ctx context.Context, limit int) ([]domain.GameSession, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.GameSession), args.Error(1)
}

func (m *MockGameSessionRepository) Update(ctx context.Context, session *domain.GameSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

// MockConversationRepository mocks the ConversationRepository interface
type MockConversationRepository struct {
	mock.Mock
}

func (m *MockConversationRepository) Create(ctx context.Context, conversation *domain.Conversation) error {
	args := m.Called(ctx, conversation)
	return args.Error(0)
}

func (m *MockConversationRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Conversation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Conversation), args.Error(1)
}

func (m *MockConversationRepository) ListRecent(ctx context.Context, limit int) ([]domain.Conversation, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.Conversation), args.Error(1)
}

func (m *MockConversationRepository) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]domain.Conversation, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).([]domain.Conversation), args.Error(1)
}

func (m *MockConversationRepository) Update(ctx context.Context, conversation *domain.Conversation) error {
	args := m.Called(ctx, conversation)
	return args.Error(0)
}

// MockMessageRepository mocks the MessageRepository interface
type MockMessageRepository struct {
	mock.Mock
}

func (m *MockMessageRepository) Create(ctx context.Context, message *domain.Message) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *MockMessageRepository) ListByConversation(ctx context.Context, conversationID uuid.UUID) ([]domain.Message, error) {
	args := m.Called(ctx, conversationID)
	return args.Get(0).([]domain.Message), args.Error(1)
}

func (m *MockMessageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockStore mocks domain.Store, delegating repository access to the
// repo mocks.
type MockStore struct {
	mock.Mock
	Sessions          *MockGameSessionRepository
	ConversationsRepo *MockConversationRepository
	MessagesRepo      *MockMessageRepository
}

func NewMockStore() *MockStore {
	return &MockStore{
		Sessions:          &MockGameSessionRepository{},
		ConversationsRepo: &MockConversationRepository{},
		MessagesRepo:      &MockMessageRepository{},
	}
}

func (m *MockStore) GameSessions() domain.GameSessionRepository { return m.Sessions }

func (m *MockStore) Conversations() domain.ConversationRepository { return m.ConversationsRepo }

func (m *MockStore) Messages() domain.MessageRepository { return m.MessagesRepo }

func (m *MockStore) DeleteConversation(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStore) DeleteGameSession(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, int, error) {
	args := m.Called(ctx, cutoff)
	return args.Int(0), args.Int(1), args.Error(2)
}

func (m *MockStore) ClearAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockStore) Close() error {
	return nil
}

// MockProvider mocks llm.Provider
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockProvider) AvailableModels() []string {
	args := m.Called()
	return args.Get(0).([]string)
}

func (m *MockProvider) DefaultModel() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockProvider) IsConfigured() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockProvider) GenerateReading(ctx context.Context, req llm.ReadingRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockProvider) GenerateChatResponse(ctx context.Context, req llm.ChatRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

// stubCache is an in-memory ReadingCache for tests.
type stubCache struct {
	readings map[uuid.UUID]string
}

func newStubCache() *stubCache {
	return &stubCache{readings: make(map[uuid.UUID]string)}
}

func (c *stubCache) Get(ctx context.Context, sessionID uuid.UUID) (string, error) {
	return c.readings[sessionID], nil
}

func (c *stubCache) Set(ctx context.Context, sessionID uuid.UUID, reading string) error {
	c.readings[sessionID] = reading
	return nil
}

func (c *stubCache) Invalidate(ctx context.Context, sessionID uuid.UUID) error {
	delete(c.readings, sessionID)
	return nil
}
