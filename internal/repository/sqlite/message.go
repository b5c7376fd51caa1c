package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lunaryss/tarot-ai/internal/domain"
)

// MessageRepository implements domain.MessageRepository.
type MessageRepository struct {
	db *sql.DB
}

func (r *MessageRepository) Create(ctx context.Context, message *domain.Message) error {
	query := `
		INSERT INTO chat_messages (id, conversation_id, role, content, type, timestamp)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		message.ID.String(),
		message.ConversationID.String(),
		string(message.Role),
		message.Content,
		string(message.Type),
		message.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

func (r *MessageRepository) ListByConversation(ctx context.Context, conversationID uuid.UUID) ([]domain.Message, error) {
	query := `
		SELECT id, conversation_id, role, content, type, timestamp
		FROM chat_messages
		WHERE conversation_id = ?
		ORDER BY timestamp ASC
	`
	rows, err := r.db.QueryContext(ctx, query, conversationID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, *m)
	}
	return messages, rows.Err()
}

func (r *MessageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM chat_messages WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanMessage(rows *sql.Rows) (*domain.Message, error) {
	var (
		m       domain.Message
		idStr   string
		convStr string
		role    string
		typ     string
	)
	if err := rows.Scan(&idStr, &convStr, &role, &m.Content, &typ, &m.Timestamp); err != nil {
		return nil, err
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("invalid message id %q: %w", idStr, err)
	}
	convID, err := uuid.Parse(convStr)
	if err != nil {
		return nil, fmt.Errorf("invalid conversation id %q: %w", convStr, err)
	}
	m.ID = id
	m.ConversationID = convID
	m.Role = domain.MessageRole(role)
	m.Type = domain.MessageType(typ)
	return &m, nil
}
