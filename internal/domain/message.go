package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// MessageRole represents the sender of a message.
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// MessageType distinguishes ordinary chat turns from generated readings
// and system notices.
type MessageType string

const (
	MessageText    MessageType = "text"
	MessageReading MessageType = "reading"
	MessageSystem  MessageType = "system"
)

// Message is one chat turn. Messages are append-only; they are removed
// only by explicit delete or when their conversation is deleted.
type Message struct {
	ID             uuid.UUID   `json:"id"`
	ConversationID uuid.UUID   `json:"conversation_id"`
	Role           MessageRole `json:"role"`
	Content        string      `json:"content"`
	Type           MessageType `json:"type"`
	Timestamp      time.Time   `json:"timestamp"`
}

// MessageRepository defines the interface for message storage.
type MessageRepository interface {
	Create(ctx context.Context, message *Message) error
	ListByConversation(ctx context.Context, conversationID uuid.UUID) ([]Message, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
