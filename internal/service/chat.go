package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lunaryss/tarot-ai/internal/domain"
	"github.com/lunaryss/tarot-ai/internal/game"
	"github.com/lunaryss/tarot-ai/internal/llm"
	"github.com/rs/zerolog/log"
)

// historyWindow is how many stored turns are handed to the generator as
// conversation context.
const historyWindow = 8

// previewRunes is how much of the latest reply is kept as the
// conversation list preview.
const previewRunes = 50

const defaultConversationTitle = "New Conversation"

// ChatService manages conversations with the reader persona. One
// conversation is active at a time; sends are serialized so a slow
// generation cannot interleave with a second one.
type ChatService struct {
	store     domain.Store
	llmRouter *llm.Router
	manager   *game.Manager
	settings  *Settings

	mu       sync.Mutex
	activeID uuid.UUID
	sending  bool
}

// NewChatService creates a new chat service.
func NewChatService(store domain.Store, llmRouter *llm.Router, manager *game.Manager, settings *Settings) *ChatService {
	return &ChatService{
		store:     store,
		llmRouter: llmRouter,
		manager:   manager,
		settings:  settings,
	}
}

// CreateConversation starts a new conversation, optionally linked to a
// game session, and makes it active.
func (s *ChatService) CreateConversation(ctx context.Context, sessionID *uuid.UUID, title string) (*domain.Conversation, error) {
	if title == "" {
		title = defaultConversationTitle
	}
	now := time.Now()
	conv := &domain.Conversation{
		ID:        uuid.New(),
		SessionID: sessionID,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Conversations().Create(ctx, conv); err != nil {
		return nil, fmt.Errorf("failed to create conversation: %w", err)
	}

	s.mu.Lock()
	s.activeID = conv.ID
	s.mu.Unlock()
	return conv, nil
}

// LoadConversation makes an existing conversation active and returns its
// messages.
func (s *ChatService) LoadConversation(ctx context.Context, id uuid.UUID) (*domain.Conversation, []domain.Message, error) {
	conv, err := s.store.Conversations().Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	messages, err := s.store.Messages().ListByConversation(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	s.mu.Lock()
	s.activeID = conv.ID
	s.mu.Unlock()
	return conv, messages, nil
}

// ActiveConversation returns the id of the active conversation, if any.
func (s *ChatService) ActiveConversation() (uuid.UUID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID, s.activeID != uuid.Nil
}

// CloseConversation clears the active conversation without deleting it.
func (s *ChatService) CloseConversation() {
	s.mu.Lock()
	s.activeID = uuid.Nil
	s.mu.Unlock()
}

// DeleteConversation removes a conversation and its messages. The active
// conversation is cleared when it is the one deleted.
func (s *ChatService) DeleteConversation(ctx context.Context, id uuid.UUID) error {
	if err := s.store.DeleteConversation(ctx, id); err != nil {
		return err
	}
	s.mu.Lock()
	if s.activeID == id {
		s.activeID = uuid.Nil
	}
	s.mu.Unlock()
	return nil
}

// DeleteMessage removes a single message from its conversation.
func (s *ChatService) DeleteMessage(ctx context.Context, id uuid.UUID) error {
	return s.store.Messages().Delete(ctx, id)
}

// SendMessage appends a user turn to the active conversation, generates
// the reader's reply and persists both. The user message is saved before
// generation starts so it survives a failed model call. A second send
// while one is in flight is rejected with ErrSendInProgress.
func (s *ChatService) SendMessage(ctx context.Context, content, providerName, model string) (*domain.Message, error) {
	s.mu.Lock()
	if s.activeID == uuid.Nil {
		s.mu.Unlock()
		return nil, domain.ErrNoActiveConversation
	}
	if s.sending {
		s.mu.Unlock()
		return nil, domain.ErrSendInProgress
	}
	s.sending = true
	convID := s.activeID
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.sending = false
		s.mu.Unlock()
	}()

	conv, err := s.store.Conversations().Get(ctx, convID)
	if err != nil {
		return nil, err
	}

	prior, err := s.store.Messages().ListByConversation(ctx, convID)
	if err != nil {
		return nil, err
	}

	userMsg := &domain.Message{
		ID:             uuid.New(),
		ConversationID: convID,
		Role:           domain.RoleUser,
		Content:        content,
		Type:           domain.MessageText,
		Timestamp:      time.Now(),
	}
	if err := s.store.Messages().Create(ctx, userMsg); err != nil {
		return nil, fmt.Errorf("failed to save user message: %w", err)
	}

	if providerName == "" {
		providerName = s.settings.DefaultProvider()
	}
	provider, err := s.llmRouter.GetProvider(providerName)
	if err != nil {
		return nil, err
	}
	if model == "" {
		model = s.settings.DefaultModel()
	}

	req := llm.ChatRequest{
		Message:     content,
		History:     historyTurns(prior),
		CardContext: s.cardContext(conv),
		Model:       model,
	}
	reply, err := provider.GenerateChatResponse(ctx, req)
	if err != nil {
		return nil, err
	}

	// The user may have switched or deleted the conversation while the
	// model was thinking; a stale reply is discarded, the already-saved
	// user message stays.
	s.mu.Lock()
	stillActive := s.activeID == convID
	s.mu.Unlock()
	if !stillActive {
		log.Debug().Str("conversation_id", convID.String()).Msg("discarding reply for a conversation that is no longer active")
		return nil, domain.ErrNoActiveConversation
	}

	assistantMsg := &domain.Message{
		ID:             uuid.New(),
		ConversationID: convID,
		Role:           domain.RoleAssistant,
		Content:        reply,
		Type:           domain.MessageText,
		Timestamp:      time.Now(),
	}
	if err := s.store.Messages().Create(ctx, assistantMsg); err != nil {
		return nil, fmt.Errorf("failed to save assistant message: %w", err)
	}

	conv.LastMessage = preview(reply)
	conv.UpdatedAt = time.Now()
	if err := s.store.Conversations().Update(ctx, conv); err != nil {
		log.Error().Err(err).Str("conversation_id", convID.String()).Msg("failed to update conversation preview")
	}
	return assistantMsg, nil
}

// historyTurns converts the most recent stored messages into generator
// turns. The just-sent user message is not in prior, so the window holds
// only genuinely earlier turns.
func historyTurns(prior []domain.Message) []llm.ChatTurn {
	if len(prior) > historyWindow {
		prior = prior[len(prior)-historyWindow:]
	}
	turns := make([]llm.ChatTurn, 0, len(prior))
	for _, m := range prior {
		turns = append(turns, llm.ChatTurn{Role: string(m.Role), Content: m.Content})
	}
	return turns
}

// cardContext renders the linked game session's table, when there is one
// and it holds cards.
func (s *ChatService) cardContext(conv *domain.Conversation) string {
	if conv.SessionID == nil {
		return ""
	}
	sess, err := s.manager.Get(*conv.SessionID)
	if err != nil {
		return ""
	}
	st := sess.Snapshot()
	if st.Spread == nil || len(st.DrawnCards) == 0 {
		return ""
	}
	return llm.BuildCardContext(llm.ReadingRequest{
		Cards:      st.DrawnCards,
		SpreadName: st.Spread.Name,
	})
}

func preview(content string) string {
	runes := []rune(content)
	if len(runes) <= previewRunes {
		return content
	}
	return string(runes[:previewRunes]) + "..."
}
