// Package repository defines the scorecard store contracts shared by the
// postgres, sqlite and memory backends.
package repository

import (
	"context"
	"strings"
	"time"

	"github.com/okian/scorecard/internal/domain/model"
)

// Stats holds table row counts.
type Stats struct {
	Matches    int64
	Innings    int64
	Deliveries int64
	Players    int64
}

// Store provides access to normalized scorecards.
type Store interface {
	// MatchExists reports whether a match with the natural key is stored.
	MatchExists(ctx context.Context, sourceFile string) (bool, error)

	// Begin opens a unit of work. Nothing written through it is visible
	// to readers until Commit.
	Begin(ctx context.Context) (UnitOfWork, error)

	// Stats returns row counts for the scorecard tables.
	Stats(ctx context.Context) (Stats, error)

	// EnsureSchema creates missing tables and indexes.
	EnsureSchema(ctx context.Context) error

	// RecordRun stores the summary of one ingestion run.
	RecordRun(ctx context.Context, run model.Run) error

	Close() error
}

// UnitOfWork groups the inserts of one scorecard into a single atomic write.
// Rollback after Commit is a no-op, so callers may defer it unconditionally.
type UnitOfWork interface {
	// InsertMatch writes the match row and returns its generated id.
	// A repeated natural key fails with ErrDuplicate.
	InsertMatch(ctx context.Context, m model.Match) (int64, error)

	// InsertPlayers writes roster pairs. Pairs already stored are ignored.
	InsertPlayers(ctx context.Context, players []model.Player) error

	// InsertInnings writes innings rows for matchID in the given order.
	InsertInnings(ctx context.Context, matchID int64, innings []model.Innings) error

	// InsertDeliveries writes the deliveries of one innings in source order.
	InsertDeliveries(ctx context.Context, matchID int64, inningsNumber int, deliveries []model.Delivery) error

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// NullString maps an empty string to SQL NULL.
func NullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// NullInt maps zero to SQL NULL.
func NullInt(n int) any {
	if n == 0 {
		return nil
	}
	return n
}

// NullDate parses a YYYY-MM-DD date, mapping absent or unreadable text to SQL NULL.
func NullDate(s string) any {
	t, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	return t
}
