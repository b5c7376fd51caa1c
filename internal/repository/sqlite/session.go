package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lunaryss/tarot-ai/internal/domain"
)

// GameSessionRepository implements domain.GameSessionRepository.
type GameSessionRepository struct {
	db *sql.DB
}

func (r *GameSessionRepository) Create(ctx context.Context, session *domain.GameSession) error {
	cards, err := json.Marshal(session.DrawnCards)
	if err != nil {
		return fmt.Errorf("failed to marshal drawn cards: %w", err)
	}

	query := `
		INSERT INTO game_sessions (id, spread_id, drawn_cards, reading, question, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.ExecContext(ctx, query,
		session.ID.String(),
		session.SpreadID,
		string(cards),
		session.Reading,
		session.Question,
		session.CreatedAt,
		session.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create game session: %w", err)
	}
	return nil
}

func (r *GameSessionRepository) Get(ctx context.Context, id uuid.UUID) (*domain.GameSession, error) {
	query := `
		SELECT id, spread_id, drawn_cards, reading, question, created_at, updated_at
		FROM game_sessions
		WHERE id = ?
	`
	s, err := scanGameSession(r.db.QueryRowContext(ctx, query, id.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get game session: %w", err)
	}
	return s, nil
}

func (r *GameSessionRepository) ListRecent(ctx context.Context, limit int) ([]domain.GameSession, error) {
	query := `
		SELECT id, spread_id, drawn_cards, reading, question, created_at, updated_at
		FROM game_sessions
		ORDER BY created_at DESC
		LIMIT ?
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list game sessions: %w", err)
	}
	defer rows.Close()

	var sessions []domain.GameSession
	for rows.Next() {
		s, err := scanGameSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game session: %w", err)
		}
		sessions = append(sessions, *s)
	}
	return sessions, rows.Err()
}

func (r *GameSessionRepository) Update(ctx context.Context, session *domain.GameSession) error {
	cards, err := json.Marshal(session.DrawnCards)
	if err != nil {
		return fmt.Errorf("failed to marshal drawn cards: %w", err)
	}

	query := `
		UPDATE game_sessions
		SET spread_id = ?, drawn_cards = ?, reading = ?, question = ?, updated_at = ?
		WHERE id = ?
	`
	res, err := r.db.ExecContext(ctx, query,
		session.SpreadID,
		string(cards),
		session.Reading,
		session.Question,
		session.UpdatedAt,
		session.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update game session: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGameSession(row rowScanner) (*domain.GameSession, error) {
	var (
		s      domain.GameSession
		idStr  string
		cards  string
	)
	if err := row.Scan(&idStr, &s.SpreadID, &cards, &s.Reading, &s.Question, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("invalid session id %q: %w", idStr, err)
	}
	s.ID = id
	if err := json.Unmarshal([]byte(cards), &s.DrawnCards); err != nil {
		return nil, fmt.Errorf("failed to unmarshal drawn cards: %w", err)
	}
	return &s, nil
}
