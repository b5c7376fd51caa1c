package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// DeleteConversation removes a conversation and all its messages in one
// transaction.
func (s *Store) DeleteConversation(ctx context.Context, id uuid.UUID) error {
	return s.inTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM chat_messages WHERE conversation_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete messages: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM chat_conversations WHERE id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete conversation: %w", err)
		}
		return nil
	})
}

// DeleteGameSession removes a game session together with every
// conversation linked to it and their messages.
func (s *Store) DeleteGameSession(ctx context.Context, id uuid.UUID) error {
	return s.inTx(ctx, func(tx pgx.Tx) error {
		if err := deleteSessionCascade(ctx, tx, id); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM game_sessions WHERE id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete game session: %w", err)
		}
		return nil
	})
}

// DeleteOlderThan removes game sessions created before cutoff along with
// their linked conversations and messages, and standalone conversations
// created before cutoff.
func (s *Store) DeleteOlderThan(ctx context.Context, cutoff time.Time) (sessions, conversations int, err error) {
	err = s.inTx(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `SELECT id FROM game_sessions WHERE created_at < $1`, cutoff)
		if err != nil {
			return fmt.Errorf("failed to select expired sessions: %w", err)
		}
		var sessionIDs []uuid.UUID
		for rows.Next() {
			var id uuid.UUID
			if err := rows.Scan(&id); err != nil {
				rows.Close()
				return fmt.Errorf("failed to scan session id: %w", err)
			}
			sessionIDs = append(sessionIDs, id)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		for _, id := range sessionIDs {
			if err := deleteSessionCascade(ctx, tx, id); err != nil {
				return err
			}
			if _, err := tx.Exec(ctx, `DELETE FROM game_sessions WHERE id = $1`, id); err != nil {
				return fmt.Errorf("failed to delete game session: %w", err)
			}
		}
		sessions = len(sessionIDs)

		if _, err := tx.Exec(ctx, `
			DELETE FROM chat_messages WHERE conversation_id IN (
				SELECT id FROM chat_conversations WHERE session_id IS NULL AND created_at < $1
			)`, cutoff); err != nil {
			return fmt.Errorf("failed to delete expired messages: %w", err)
		}
		tag, err := tx.Exec(ctx, `DELETE FROM chat_conversations WHERE session_id IS NULL AND created_at < $1`, cutoff)
		if err != nil {
			return fmt.Errorf("failed to delete expired conversations: %w", err)
		}
		conversations = int(tag.RowsAffected())
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return sessions, conversations, nil
}

// ClearAll wipes every table.
func (s *Store) ClearAll(ctx context.Context) error {
	return s.inTx(ctx, func(tx pgx.Tx) error {
		for _, table := range []string{"chat_messages", "chat_conversations", "game_sessions"} {
			if _, err := tx.Exec(ctx, "DELETE FROM "+table); err != nil {
				return fmt.Errorf("failed to clear %s: %w", table, err)
			}
		}
		return nil
	})
}

func deleteSessionCascade(ctx context.Context, tx pgx.Tx, sessionID uuid.UUID) error {
	if _, err := tx.Exec(ctx, `
		DELETE FROM chat_messages WHERE conversation_id IN (
			SELECT id FROM chat_conversations WHERE session_id = $1
		)`, sessionID); err != nil {
		return fmt.Errorf("failed to delete session messages: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM chat_conversations WHERE session_id = $1`, sessionID); err != nil {
		return fmt.Errorf("failed to delete session conversations: %w", err)
	}
	return nil
}

func (s *Store) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback(ctx)
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
