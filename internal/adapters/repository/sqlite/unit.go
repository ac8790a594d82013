package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/okian/scorecard/internal/adapters/repository"
	"github.com/okian/scorecard/internal/domain/model"
)

const insertDelivery = `
	INSERT INTO ball_by_ball (
		match_id, innings_number, delivery_seq, over_ball, over_number, ball_number,
		batting_team, bowling_team, striker, non_striker, bowler,
		runs_batter, runs_extras, runs_total,
		extras_wides, extras_noballs, extras_byes, extras_legbyes, extras_penalty,
		is_wicket, wicket_type, player_dismissed, fielder,
		is_boundary, is_four, is_six, is_dot_ball, is_legal_delivery, phase
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// unitOfWork is one scorecard transaction.
type unitOfWork struct {
	tx *sql.Tx
}

func (u *unitOfWork) InsertMatch(ctx context.Context, m model.Match) (int64, error) {
	var id int64
	err := u.tx.QueryRowContext(ctx, `
		INSERT INTO matches (
			source_file, match_type, competition, season, match_date, venue, city,
			team1, team2, toss_winner, toss_decision, winner,
			win_by_runs, win_by_wickets, result_type, method, eliminator, player_of_match
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING match_id
	`,
		m.SourceFile, m.MatchType, m.Competition, repository.NullInt(m.Season), repository.NullString(m.MatchDate),
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
	stmt, err := u.tx.PrepareContext(ctx, `
		INSERT INTO players (player_name, team) VALUES (?, ?)
		ON CONFLICT (player_name, team) DO NOTHING
	`)
	if err != nil {
		return classify("prepare players", err)
	}
	defer stmt.Close()
	for _, p := range players {
		if _, err := stmt.ExecContext(ctx, p.Name, p.Team); err != nil {
			return classify("insert player "+p.Name, err)
		}
	}
	return nil
}

func (u *unitOfWork) InsertInnings(ctx context.Context, matchID int64, innings []model.Innings) error {
	for i := range innings {
		inn := &innings[i]
		_, err := u.tx.ExecContext(ctx, `
			INSERT INTO innings (
				match_id, innings_number, innings_label, batting_team, bowling_team,
				total_runs, total_wickets, total_overs, total_extras, is_super_over
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			matchID, inn.Number, inn.Label,
			repository.NullString(inn.BattingTeam), repository.NullString(inn.BowlingTeam),
			inn.TotalRuns, inn.TotalWickets, inn.TotalOvers, inn.TotalExtras, inn.IsSuperOver,
		)
		if err != nil {
			return classify(fmt.Sprintf("insert innings %d", inn.Number), err)
		}
	}
	return nil
}

func (u *unitOfWork) InsertDeliveries(ctx context.Context, matchID int64, inningsNumber int, deliveries []model.Delivery) error {
	if len(deliveries) == 0 {
		return nil
	}
	stmt, err := u.tx.PrepareContext(ctx, insertDelivery)
	if err != nil {
		return classify("prepare deliveries", err)
	}
	defer stmt.Close()
	for i := range deliveries {
		d := &deliveries[i]
		_, err := stmt.ExecContext(ctx,
			matchID, inningsNumber, d.Sequence, d.OverBall, d.Over, d.Ball,
			repository.NullString(d.BattingTeam), repository.NullString(d.BowlingTeam),
			repository.NullString(d.Striker), repository.NullString(d.NonStriker), repository.NullString(d.Bowler),
			d.RunsBatter, d.RunsExtras, d.RunsTotal,
			d.Wides, d.NoBalls, d.Byes, d.LegByes, d.Penalty,
			d.IsWicket, repository.NullString(d.Wicket.Kind), repository.NullString(d.Wicket.PlayerOut), repository.NullString(d.Wicket.Fielder),
			d.IsBoundary, d.IsFour, d.IsSix, d.IsDotBall, d.IsLegal, string(d.Phase),
		)
		if err != nil {
			return classify(fmt.Sprintf("insert delivery %d.%d", inningsNumber, d.Sequence), err)
		}
	}
	return nil
}

func (u *unitOfWork) Commit(_ context.Context) error {
	if err := u.tx.Commit(); err != nil {
		return classify("commit", err)
	}
	return nil
}

func (u *unitOfWork) Rollback(_ context.Context) error {
	err := u.tx.Rollback()
	if err == nil || errors.Is(err, sql.ErrTxDone) {
		return nil
	}
	return classify("rollback", err)
}
