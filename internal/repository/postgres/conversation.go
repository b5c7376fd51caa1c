package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lunaryss/tarot-ai/internal/domain"
)

// ConversationRepository implements domain.ConversationRepository.
type ConversationRepository struct {
	pool *pgxpool.Pool
}

func (r *ConversationRepository) Create(ctx context.Context, conversation *domain.Conversation) error {
	query := `
		INSERT INTO chat_conversations (id, session_id, title, last_message, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.pool.Exec(ctx, query,
		conversation.ID,
		conversation.SessionID,
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
		WHERE id = $1
	`
	var c domain.Conversation
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&c.ID,
		&c.SessionID,
		&c.Title,
		&c.LastMessage,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}
	return &c, nil
}

func (r *ConversationRepository) ListRecent(ctx context.Context, limit int) ([]domain.Conversation, error) {
	query := `
		SELECT id, session_id, title, last_message, created_at, updated_at
		FROM chat_conversations
		ORDER BY updated_at DESC
		LIMIT $1
	`
	rows, err := r.pool.Query(ctx, query, limit)
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
		WHERE session_id = $1
		ORDER BY updated_at DESC
	`
	rows, err := r.pool.Query(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations by session: %w", err)
	}
	defer rows.Close()
	return collectConversations(rows)
}

func (r *ConversationRepository) Update(ctx context.Context, conversation *domain.Conversation) error {
	query := `
		UPDATE chat_conversations
		SET title = $1, last_message = $2, updated_at = $3
		WHERE id = $4
	`
	tag, err := r.pool.Exec(ctx, query,
		conversation.Title,
		conversation.LastMessage,
		conversation.UpdatedAt,
		conversation.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update conversation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func collectConversations(rows pgx.Rows) ([]domain.Conversation, error) {
	var conversations []domain.Conversation
	for rows.Next() {
		var c domain.Conversation
		if err := rows.Scan(
			&c.ID,
			&c.SessionID,
			&c.Title,
			&c.LastMessage,
			&c.CreatedAt,
			&c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan conversation: %w", err)
		}
		conversations = append(conversations, c)
	}
	return conversations, rows.Err()
}
