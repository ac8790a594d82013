// Package model contains the normalized scorecard entities passed between layers.
package model

import "time"

// Phase is a coarse segment of a limited-overs innings.
type Phase string

// Phase values.
const (
	PhasePowerplay Phase = "powerplay"
	PhaseMiddle    Phase = "middle"
	PhaseDeath     Phase = "death"
)

// Result classifications. Other literals from the source are kept as-is.
const (
	ResultNormal   = "normal"
	ResultNoResult = "no result"
	ResultTie      = "tie"
)

// Match holds match-level facts. SourceFile is the natural key.
type Match struct {
	SourceFile    string
	MatchType     string
	Competition   string
	Season        int    // 0 when no date is listed
	MatchDate     string // first listed date, as written
	Venue         string
	City          string
	Team1         string
	Team2         string
	Teams         []string // full listed order, used for bowling inference
	TossWinner    string
	TossDecision  string
	Winner        string
	WinByRuns     int
	WinByWickets  int
	ResultType    string
	Method        string // e.g. "D/L"
	Eliminator    string // super-over winner of a tied match
	PlayerOfMatch string
}

// Player is one roster entry. Identity is the (Name, Team) pair.
type Player struct {
	Name string
	Team string
}

// Innings is one batting turn. Number is 1-based within the match.
type Innings struct {
	Number       int
	Label        string // e.g. "1st innings", "super over"
	BattingTeam  string
	BowlingTeam  string // empty when it cannot be inferred
	TotalRuns    int
	TotalWickets int
	TotalExtras  int
	TotalOvers   string // label of the final delivery, "0.0" when none
	IsSuperOver  bool
	Deliveries   []Delivery
}

// Wicket is the first recorded dismissal of a delivery.
type Wicket struct {
	Kind      string
	PlayerOut string
	Fielder   string
}

// Delivery is one bowled ball. Sequence is the 1-based source order.
type Delivery struct {
	Sequence    int
	OverBall    string
	Over        int
	Ball        int
	BattingTeam string
	BowlingTeam string

	Striker    string
	NonStriker string
	Bowler     string

	RunsBatter int
	RunsExtras int
	RunsTotal  int

	Wides   int
	NoBalls int
	Byes    int
	LegByes int
	Penalty int

	IsWicket bool
	Wicket   Wicket

	IsLegal    bool
	IsFour     bool
	IsSix      bool
	IsBoundary bool
	IsDotBall  bool
	Phase      Phase
}

// Scorecard is everything extracted from one source record.
type Scorecard struct {
	Match   Match
	Players []Player
	Innings []Innings
}

// DeliveryCount returns the number of deliveries across all innings.
func (s *Scorecard) DeliveryCount() int {
	n := 0
	for i := range s.Innings {
		n += len(s.Innings[i].Deliveries)
	}
	return n
}

// Run describes one batch ingestion run.
type Run struct {
	ID        string
	StartedAt time.Time
	Duration  time.Duration
	Attempted int
	Succeeded int
	Skipped   int
	Failed    int
}
