// Package sqlite implements the scorecard store on an embedded SQLite file
// using the pure-Go modernc driver.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/okian/scorecard/internal/adapters/repository"
	"github.com/okian/scorecard/internal/domain/model"
	"github.com/okian/scorecard/pkg/logger"
)

//go:embed schema.sql
var schema string

// Store is a repository.Store backed by a SQLite database.
type Store struct {
	db  *sql.DB
	log logger.Logger
}

// Open opens or creates the database at path. ":memory:" gives a private
// in-memory database.
func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", repository.ErrPersistence, path, err)
	}
	// One connection keeps ":memory:" a single database and serializes writers.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, `PRAGMA foreign_keys = ON`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: enable foreign keys: %w", repository.ErrPersistence, err)
	}

	s := &Store{db: db}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Get().Named("sqlite")
	}
	return s, nil
}

func (s *Store) MatchExists(ctx context.Context, sourceFile string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM matches WHERE source_file = ?)
	`, sourceFile).Scan(&exists)
	if err != nil {
		return false, classify("match exists", err)
	}
	return exists, nil
}

func (s *Store) Begin(ctx context.Context) (repository.UnitOfWork, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, classify("begin", err)
	}
	return &unitOfWork{tx: tx}, nil
}

func (s *Store) Stats(ctx context.Context) (repository.Stats, error) {
	var st repository.Stats
	err := s.db.QueryRowContext(ctx, `
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
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return classify("ensure schema", err)
	}
	s.log.Info(ctx, "schema ensured")
	return nil
}

func (s *Store) RecordRun(ctx context.Context, run model.Run) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ingest_runs (run_id, started_at, duration_ms, attempted, succeeded, skipped, failed)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.StartedAt.UTC().Format(time.RFC3339Nano), run.Duration.Milliseconds(),
		run.Attempted, run.Succeeded, run.Skipped, run.Failed)
	if err != nil {
		return classify("record run", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// classify wraps err as ErrDuplicate for unique and primary key violations
// and ErrPersistence otherwise.
func classify(op string, err error) error {
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %s: %w", repository.ErrDuplicate, op, err)
	}
	return fmt.Errorf("%w: %s: %w", repository.ErrPersistence, op, err)
}

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		}
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
