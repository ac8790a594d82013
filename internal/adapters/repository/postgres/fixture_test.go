package postgres

import "github.com/okian/scorecard/internal/domain/model"

var deliveryFixture = model.Delivery{
	Sequence:    31,
	OverBall:    "16.10",
	Over:        16,
	Ball:        10,
	BattingTeam: "Punjab Kings",
	BowlingTeam: "Delhi Capitals",
	RunsBatter:  6,
	RunsTotal:   6,
	IsLegal:     true,
	IsSix:       true,
	IsBoundary:  true,
	Phase:       model.PhaseDeath,
}
