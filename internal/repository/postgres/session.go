package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lunaryss/tarot-ai/internal/domain"
)

// GameSessionRepository implements domain.GameSessionRepository.
type GameSessionRepository struct {
	pool *pgxpool.Pool
}

func (r *GameSessionRepository) Create(ctx context.Context, session *domain.GameSession) error {
	cards, err := json.Marshal(session.DrawnCards)
	if err != nil {
		return fmt.Errorf("failed to marshal drawn cards: %w", err)
	}

	query := `
		INSERT INTO game_sessions (id, spread_id, drawn_cards, reading, question, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = r.pool.Exec(ctx, query,
		session.ID,
		session.SpreadID,
		cards,
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
		WHERE id = $1
	`
	var (
		s     domain.GameSession
		cards []byte
	)
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&s.ID,
		&s.SpreadID,
		&cards,
		&s.Reading,
		&s.Question,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get game session: %w", err)
	}
	if err := json.Unmarshal(cards, &s.DrawnCards); err != nil {
		return nil, fmt.Errorf("failed to unmarshal drawn cards: %w", err)
	}
	return &s, nil
}

func (r *GameSessionRepository) ListRecent(ctx context.Context, limit int) ([]domain.GameSession, error) {
	query := `
		SELECT id, spread_id, drawn_cards, reading, question, created_at, updated_at
		FROM game_sessions
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list game sessions: %w", err)
	}
	defer rows.Close()

	var sessions []domain.GameSession
	for rows.Next() {
		var (
			s     domain.GameSession
			cards []byte
		)
		if err := rows.Scan(
			&s.ID,
			&s.SpreadID,
			&cards,
			&s.Reading,
			&s.Question,
			&s.CreatedAt,
			&s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan game session: %w", err)
		}
		if err := json.Unmarshal(cards, &s.DrawnCards); err != nil {
			return nil, fmt.Errorf("failed to unmarshal drawn cards: %w", err)
		}
		sessions = append(sessions, s)
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
		SET spread_id = $1, drawn_cards = $2, reading = $3, question = $4, updated_at = $5
		WHERE id = $6
	`
	tag, err := r.pool.Exec(ctx, query,
		session.SpreadID,
		cards,
		session.Reading,
		session.Question,
		session.UpdatedAt,
		session.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update game session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
