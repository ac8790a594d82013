package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/okian/scorecard/internal/adapters/repository"
	"github.com/okian/scorecard/internal/domain/model"
)

var deliveryColumns = []string{
	"match_id", "innings_number", "delivery_seq", "over_ball", "over_number", "ball_number",
	"batting_team", "bowling_team", "striker", "non_striker", "bowler",
	"runs_batter", "runs_extras", "runs_total",
	"extras_wides", "extras_noballs", "extras_byes", "extras_legbyes", "extras_penalty",
	"is_wicket", "wicket_type", "player_dismissed", "fielder",
	"is_boundary", "is_four", "is_six", "is_dot_ball", "is_legal_delivery", "phase",
}

// unitOfWork is one scorecard transaction.
type unitOfWork struct {
	tx pgx.Tx
}

func (u *unitOfWork) InsertMatch(ctx context.Context, m model.Match) (int64, error) {
	var id int64
	err := u.tx.QueryRow(ctx, `
		INSERT INTO matches (
			source_file, match_type, competition, season, match_date, venue, city,
			team1, team2, toss_winner, toss_decision, winner,
			win_by_runs, win_by_wickets, result_type, method, eliminator, player_of_match
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING match_id
	`,
		m.SourceFile, m.MatchType, m.Competition, repository.NullInt(m.Season), repository.NullDate(m.MatchDate),
		m.Venue, repository.NullString(m.City),
		repository.NullString(m.Team1), repository.NullString(m.Team2),
		repository.NullString(m.TossWinner), repository.NullString(m.TossDecision), repository.NullString(m.Winner),
		m.WinByRuns, m.WinByWickets, m.ResultType,
		repository.NullString(m.Method), repository.NullString(m.Eliminator), repository.NullString(m.PlayerOfMatch),
	).Scan(&id)
	if err != nil {
		return 0, classify("insert match "+m.SourceFile, err)
	}
	return id, nil
}

func (u *unitOfWork) InsertPlayers(ctx context.Context, players []model.Player) error {
	if len(players) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, p := range players {
		batch.Queue(`
			INSERT INTO players (player_name, team) VALUES ($1, $2)
			ON CONFLICT (player_name, team) DO NOTHING
		`, p.Name, p.Team)
	}
	if err := u.tx.SendBatch(ctx, batch).Close(); err != nil {
		return classify("insert players", err)
	}
	return nil
}

func (u *unitOfWork) InsertInnings(ctx context.Context, matchID int64, innings []model.Innings) error {
	if len(innings) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for i := range innings {
		inn := &innings[i]
		batch.Queue(`
			INSERT INTO innings (
				match_id, innings_number, innings_label, batting_team, bowling_team,
				total_runs, total_wickets, total_overs, total_extras, is_super_over
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`,
			matchID, inn.Number, inn.Label,
			repository.NullString(inn.BattingTeam), repository.NullString(inn.BowlingTeam),
			inn.TotalRuns, inn.TotalWickets, inn.TotalOvers, inn.TotalExtras, inn.IsSuperOver,
		)
	}
	if err := u.tx.SendBatch(ctx, batch).Close(); err != nil {
		return classify("insert innings", err)
	}
	return nil
}

func (u *unitOfWork) InsertDeliveries(ctx context.Context, matchID int64, inningsNumber int, deliveries []model.Delivery) error {
	if len(deliveries) == 0 {
		return nil
	}
	n, err := u.tx.CopyFrom(ctx, pgx.Identifier{"ball_by_ball"}, deliveryColumns,
		pgx.CopyFromSlice(len(deliveries), func(i int) ([]any, error) {
			return deliveryRow(matchID, inningsNumber, &deliveries[i]), nil
		}))
	if err != nil {
		return classify(fmt.Sprintf("copy deliveries of innings %d", inningsNumber), err)
	}
	if int(n) != len(deliveries) {
		return fmt.Errorf("%w: copied %d of %d deliveries", repository.ErrPersistence, n, len(deliveries))
	}
	return nil
}

func (u *unitOfWork) Commit(ctx context.Context) error {
	if err := u.tx.Commit(ctx); err != nil {
		return classify("commit", err)
	}
	return nil
}

func (u *unitOfWork) Rollback(ctx context.Context) error {
	err := u.tx.Rollback(ctx)
	if err == nil || errors.Is(err, pgx.ErrTxClosed) {
		return nil
	}
	return classify("rollback", err)
}

func deliveryRow(matchID int64, inningsNumber int, d *model.Delivery) []any {
	return []any{
		matchID, inningsNumber, d.Sequence, d.OverBall, d.Over, d.Ball,
		repository.NullString(d.BattingTeam), repository.NullString(d.BowlingTeam),
		repository.NullString(d.Striker), repository.NullString(d.NonStriker), repository.NullString(d.Bowler),
		d.RunsBatter, d.RunsExtras, d.RunsTotal,
		d.Wides, d.NoBalls, d.Byes, d.LegByes, d.Penalty,
		d.IsWicket, repository.NullString(d.Wicket.Kind), repository.NullString(d.Wicket.PlayerOut), repository.NullString(d.Wicket.Fielder),
		d.IsBoundary, d.IsFour, d.IsSix, d.IsDotBall, d.IsLegal, string(d.Phase),
	}
}
