package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lunaryss/tarot-ai/internal/domain"
)

// ConversationRepository implements domain.ConversationRepository.
type ConversationRepository struct {
	db *sql.DB
}

func (r *ConversationRepository) Create(ctx context.Context, conversation *domain.Conversation) error {
	query := `
		INSERT INTO chat_conversations (id, session_id, title, last_message, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		conversation.ID.String(),
		uuidPtrToNull(conversation.SessionID),
		conversation.Title,
		conversation.LastMessage,
		conversation.CreatedAt,
		conversation.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create conversation: %w", err)
	}
	return nil
}

func (r *ConversationRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Conversation, error) {
	query := `
		SELECT id, session_id, title, last_message, created_at, updated_at
		FROM chat_conversations
		WHERE id = ?
	`
	c, err := scanConversation(r.db.QueryRowContext(ctx, query, id.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}
	return c, nil
}

func (r *ConversationRepository) ListRecent(ctx context.Context, limit int) ([]domain.Conversation, error) {
	query := `
		SELECT id, session_id, title, last_message, created_at, updated_at
		FROM chat_conversations
		ORDER BY updated_at DESC
		LIMIT ?
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	defer rows.Close()
	return collectConversations(rows)
}

func (r *ConversationRepository) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]domain.Conversation, error) {
	query := `
		SELECT id, session_id, title, last_message, created_at, updated_at
		FROM chat_conversations
		WHERE session_id = ?
		ORDER BY updated_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, sessionID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations by session: %w", err)
	}
	defer rows.Close()
	return collectConversations(rows)
}

func (r *ConversationRepository) Update(ctx context.Context, conversation *domain.Conversation) error {
	query := `
		UPDATE chat_conversations
		SET title = ?, last_message = ?, updated_at = ?
		WHERE id = ?
	`
	res, err := r.db.ExecContext(ctx, query,
		conversation.Title,
		conversation.LastMessage,
		conversation.UpdatedAt,
		conversation.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update conversation: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func collectConversations(rows *sql.Rows) ([]domain.Conversation, error) {
	var conversations []domain.Conversation
	for rows.Next() {
		c, err := scanConversation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan conversation: %w", err)
		}
		conversations = append(conversations, *c)
	}
	return conversations, rows.Err()
}

func scanConversation(row rowScanner) (*domain.Conversation, error) {
	var (
		c         domain.Conversation
		idStr     string
		sessionID sql.NullString
	)
	if err := row.Scan(&idStr, &sessionID, &c.Title, &c.LastMessage, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("invalid conversation id %q: %w", idStr, err)
	}
	c.ID = id
	if sessionID.Valid {
		sid, err := uuid.Parse(sessionID.String)
		if err != nil {
			return nil, fmt.Errorf("invalid session id %q: %w", sessionID.String, err)
		}
		c.SessionID = &sid
	}
	return &c, nil
}

func uuidPtrToNull(id *uuid.UUID) any {
	if id == nil {
		return nil
	}
	return id.String()
}
