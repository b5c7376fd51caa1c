package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Store aggregates the three repositories and the multi-record operations
// that must be atomic. A crash mid-cascade must never leave orphaned
// messages or a dangling conversation.
type Store interface {
	GameSessions() GameSessionRepository
	Conversations() ConversationRepository
	Messages() MessageRepository

	// DeleteConversation removes a conversation and all of its messages
	// in a single transaction.
	DeleteConversation(ctx context.Context, id uuid.UUID) error

	// DeleteGameSession removes a session, every conversation owned by it
	// and their messages in a single transaction.
	DeleteGameSession(ctx context.Context, id uuid.UUID) error

	// DeleteOlderThan cascades-deletes every game session and every
	// standalone conversation created before cutoff. Returns the number
	// of sessions and conversations removed.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (sessions int, conversations int, err error)

	// ClearAll empties all three record kinds in a single transaction.
	ClearAll(ctx context.Context) error

	Close() error
}
