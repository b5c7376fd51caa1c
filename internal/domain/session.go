package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Phase is the lifecycle stage of a live game session. Phases only move
// forward (setup -> drawing -> reading -> complete) except via reset.
type Phase string

const (
	PhaseSetup    Phase = "setup"
	PhaseDrawing  Phase = "drawing"
	PhaseReading  Phase = "reading"
	PhaseComplete Phase = "complete"
)

// DrawnCard is a card occupying one spread position in a session.
type DrawnCard struct {
	Card       Card      `json:"card"`
	IsReversed bool      `json:"is_reversed"`
	PositionID string    `json:"position_id"`
	DrawnAt    time.Time `json:"drawn_at"`
	IsRevealed bool      `json:"is_revealed"`
}

// GameSession is the persisted record of a completed (or saved) reading.
// Created once a session reaches the reading phase and the user opts to
// save; only UpdatedAt changes afterwards.
type GameSession struct {
	ID         uuid.UUID   `json:"id"`
	SpreadID   string      `json:"spread_id"`
	DrawnCards []DrawnCard `json:"drawn_cards"`
	Reading    string      `json:"reading,omitempty"`
	Question   string      `json:"question,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// GameSessionRepository defines the interface for game session storage.
type GameSessionRepository interface {
	Create(ctx context.Context, session *GameSession) error
	Get(ctx context.Context, id uuid.UUID) (*GameSession, error)
	ListRecent(ctx context.Context, limit int) ([]GameSession, error)
	Update(ctx context.Context, session *GameSession) error
}
