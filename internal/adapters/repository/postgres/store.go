// Package postgres implements the scorecard store on PostgreSQL with pgx.
package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/okian/scorecard/internal/adapters/repository"
	"github.com/okian/scorecard/internal/domain/model"
	"github.com/okian/scorecard/pkg/logger"
)

//go:embed schema.sql
var schema string

// uniqueViolation is the SQLSTATE for unique_violation.
const uniqueViolation = "23505"

// Store is a repository.Store backed by a pgx connection pool.
type Store struct {
	pool *pgxpool.Pool
	log  logger.Logger
}

// Open connects to databaseURL and verifies the connection.
func Open(ctx context.Context, databaseURL string, opts ...Option) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: create pool: %w", repository.ErrPersistence, err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: ping database: %w", repository.ErrPersistence, err)
	}
	return New(pool, opts...), nil
}

// New wraps an existing pool.
func New(pool *pgxpool.Pool, opts ...Option) *Store {
	s := &Store{pool: pool}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Get().Named("postgres")
	}
	return s
}

func (s *Store) MatchExists(ctx context.Context, sourceFile string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM matches WHERE source_file = $1)
	`, sourceFile).Scan(&exists)
	if err != nil {
		return false, classify("match exists", err)
	}
	return exists, nil
}

func (s *Store) Begin(ctx context.Context) (repository.UnitOfWork, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, classify("begin", err)
	}
	return &unitOfWork{tx: tx}, nil
}

func (s *Store) Stats(ctx context.Context) (repository.Stats, error) {
	var st repository.Stats
	err := s.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM matches),
			(SELECT COUNT(*) FROM innings),
			(SELECT COUNT(*) FROM ball_by_ball),
			(SELECT COUNT(*) FROM players)
	`).Scan(&st.Matches, &st.Innings, &st.Deliveries, &st.Players)
	if err != nil {
		return repository.Stats{}, classify("stats", err)
	}
	return st, nil
}

func (s *Store) EnsureSchema(ctx context.Context) error {
	for _, stmt := range statements(schema) {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return classify("ensure schema", err)
		}
	}
	s.log.Info(ctx, "schema ensured")
	return nil
}

func (s *Store) RecordRun(ctx context.Context, run model.Run) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO ingest_runs (run_id, started_at, duration_ms, attempted, succeeded, skipped, failed)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, run.ID, run.StartedAt, run.Duration.Milliseconds(), run.Attempted, run.Succeeded, run.Skipped, run.Failed)
	if err != nil {
		return classify("record run", err)
	}
	return nil
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// statements splits a schema script on semicolons that end a line.
func statements(script string) []string {
	var out []string
	for _, stmt := range strings.Split(script, ";\n") {
		if stmt = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(stmt), ";")); stmt != "" {
			out = append(out, stmt)
		}
	}
	return out
}

// classify wraps err as ErrDuplicate for unique violations and ErrPersistence otherwise.
func classify(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s: %s: %w", repository.ErrDuplicate, op, pgErr.ConstraintName, err)
	}
	return fmt.Errorf("%w: %s: %w", repository.ErrPersistence, op, err)
}
