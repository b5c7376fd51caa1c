package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Conversation is a chat thread, optionally tied to a game session.
// SessionID is nil for standalone conversations.
type Conversation struct {
	ID          uuid.UUID  `json:"id"`
	SessionID   *uuid.UUID `json:"session_id,omitempty"`
	Title       string     `json:"title"`
	LastMessage string     `json:"last_message,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ConversationRepository defines the interface for conversation storage.
// Deleting a conversation cascades to its messages; that path lives on
// Store so it can run in one transaction.
type ConversationRepository interface {
	Create(ctx context.Context, conversation *Conversation) error
	Get(ctx context.Context, id uuid.UUID) (*Conversation, error)
	ListRecent(ctx context.Context, limit int) ([]Conversation, error)
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]Conversation, error)
	Update(ctx context.Context, conversation *Conversation) error
}
