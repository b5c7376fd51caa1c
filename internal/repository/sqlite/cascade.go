package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DeleteConversation removes a conversation and all its messages in one
// transaction.
func (s *Store) DeleteConversation(ctx context.Context, id uuid.UUID) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM chat_messages WHERE conversation_id = ?`, id.String()); err != nil {
			return fmt.Errorf("failed to delete messages: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM chat_conversations WHERE id = ?`, id.String()); err != nil {
			return fmt.Errorf("failed to delete conversation: %w", err)
		}
		return nil
	})
}

// DeleteGameSession removes a game session together with every
// conversation linked to it and their messages.
func (s *Store) DeleteGameSession(ctx context.Context, id uuid.UUID) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if err := deleteSessionCascade(ctx, tx, id.String()); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM game_sessions WHERE id = ?`, id.String()); err != nil {
			return fmt.Errorf("failed to delete game session: %w", err)
		}
		return nil
	})
}

// DeleteOlderThan removes game sessions created before cutoff along with
// their linked conversations and messages, and standalone conversations
// created before cutoff. It reports how many sessions and
// conversations were removed.
func (s *Store) DeleteOlderThan(ctx context.Context, cutoff time.Time) (sessions, conversations int, err error) {
	err = s.inTx(ctx, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, `SELECT id FROM game_sessions WHERE created_at < ?`, cutoff)
		if err != nil {
			return fmt.Errorf("failed to select expired sessions: %w", err)
		}
		var sessionIDs []string
		for rows.Next() {
			var id string
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
			if _, err := tx.ExecContext(ctx, `DELETE FROM game_sessions WHERE id = ?`, id); err != nil {
				return fmt.Errorf("failed to delete game session: %w", err)
			}
		}
		sessions = len(sessionIDs)

		if _, err := tx.ExecContext(ctx, `
			DELETE FROM chat_messages WHERE conversation_id IN (
				SELECT id FROM chat_conversations WHERE session_id IS NULL AND created_at < ?
			)`, cutoff); err != nil {
			return fmt.Errorf("failed to delete expired messages: %w", err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM chat_conversations WHERE session_id IS NULL AND created_at < ?`, cutoff)
		if err != nil {
			return fmt.Errorf("failed to delete expired conversations: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil {
			conversations = int(n)
		}
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return sessions, conversations, nil
}

// ClearAll wipes every table. Used by the destructive history reset.
func (s *Store) ClearAll(ctx context.Context) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, table := range []string{"chat_messages", "chat_conversations", "game_sessions"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return fmt.Errorf("failed to clear %s: %w", table, err)
			}
		}
		return nil
	})
}

func deleteSessionCascade(ctx context.Context, tx *sql.Tx, sessionID string) error {
	if _, err := tx.ExecContext(ctx, `
		DELETE FROM chat_messages WHERE conversation_id IN (
			SELECT id FROM chat_conversations WHERE session_id = ?
		)`, sessionID); err != nil {
		return fmt.Errorf("failed to delete session messages: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM chat_conversations WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("failed to delete session conversations: %w", err)
	}
	return nil
}

func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
