// Package repository persists finished-match results to PostgreSQL.
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const resultsSchema = `
CREATE TABLE IF NOT EXISTS match_results (
	id          BIGSERIAL PRIMARY KEY,
	room_code   TEXT        NOT NULL,
	winner      TEXT        NOT NULL DEFAULT '',
	players     INT         NOT NULL,
	started_at  TIMESTAMPTZ NOT NULL,
	ended_at    TIMESTAMPTZ NOT NULL,
	recorded_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// MatchResult is the row written for every completed match. Winner is
// empty when the match ended without one.
type MatchResult struct {
	RoomCode  string
	Winner    string
	Players   int
	StartedAt time.Time
	EndedAt   time.Time
}

// ResultStore writes match results through a pgx connection pool.
type ResultStore struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewResultStore connects to the database, verifies the connection and
// ensures the results table exists.
func NewResultStore(ctx context.Context, dsn string, logger *zap.Logger) (*ResultStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, resultsSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure match_results table: %w", err)
	}

	logger.Info("result store ready")
	return &ResultStore{pool: pool, logger: logger}, nil
}

// RecordResult inserts one finished match.
func (s *ResultStore) RecordResult(ctx context.Context, res MatchResult) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO match_results (room_code, winner, players, started_at, ended_at)
		VALUES ($1, $2, $3, $4, $5)`,
		res.RoomCode, res.Winner, res.Players, res.StartedAt, res.EndedAt,
	)
	if err != nil {
		return fmt.Errorf("insert match result: %w", err)
	}
	s.logger.Debug("recorded match result",
		zap.String("room_code", res.RoomCode),
		zap.String("winner", res.Winner),
	)
	return nil
}

// Close releases the connection pool.
func (s *ResultStore) Close() {
	s.pool.Close()
}
