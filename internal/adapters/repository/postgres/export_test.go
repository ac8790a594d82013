package postgres

import "context"

// Truncate empties every scorecard table.
func (s *Store) Truncate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `TRUNCATE ball_by_ball, innings, players, matches, ingest_runs RESTART IDENTITY`)
	return err
}
