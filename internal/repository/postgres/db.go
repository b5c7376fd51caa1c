package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lunaryss/tarot-ai/internal/domain"
	"github.com/lunaryss/tarot-ai/migrations"
)

// Store is the postgres implementation of domain.Store, for deployments
// that want the history shared between devices instead of a local file.
type Store struct {
	pool *pgxpool.Pool

	sessions      *GameSessionRepository
	conversations *ConversationRepository
	messages      *MessageRepository
}

// Open creates a connection pool against dsn, verifies connectivity and
// brings the schema up to date.
func Open(ctx context.Context, dsn string, maxConns, minConns int32) (*Store, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	if maxConns > 0 {
		poolConfig.MaxConns = maxConns
	}
	if minConns > 0 {
		poolConfig.MinConns = minConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := migrateUp(dsn); err != nil {
		pool.Close()
		return nil, err
	}

	s := &Store{pool: pool}
	s.sessions = &GameSessionRepository{pool: pool}
	s.conversations = &ConversationRepository{pool: pool}
	s.messages = &MessageRepository{pool: pool}
	return s, nil
}

func migrateUp(dsn string) error {
	src, err := iofs.New(migrations.FS, "postgres")
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, dsn)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	srcErr, dbErr := m.Close()
	if srcErr != nil {
		return fmt.Errorf("failed to close migration source: %w", srcErr)
	}
	if dbErr != nil {
		return fmt.Errorf("failed to close migration connection: %w", dbErr)
	}
	return nil
}

// GameSessions returns the game session repository.
func (s *Store) GameSessions() domain.GameSessionRepository { return s.sessions }

// Conversations returns the conversation repository.
func (s *Store) Conversations() domain.ConversationRepository { return s.conversations }

// Messages returns the message repository.
func (s *Store) Messages() domain.MessageRepository { return s.messages }

// Close closes the connection pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}
