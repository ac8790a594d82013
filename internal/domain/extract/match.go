package extract

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/okian/scorecard/internal/domain/model"
	"github.com/okian/scorecard/internal/domain/record"
)

// Match field defaults.
const (
	DefaultMatchType   = "T20"
	DefaultCompetition = "IPL"
	DefaultVenue       = "Unknown"
)

var competitionKeys = record.S("competition", "event.name")

// Match derives match-level facts from the info section.
//
// A normal result is assumed to carry exactly one non-zero margin. This is not
// checked.
func Match(doc record.Map, sourceID string) (model.Match, error) {
	info := record.MapAt(doc, "info")
	if info == nil {
		return model.Match{}, fmt.Errorf("%w: missing info section", ErrMalformedSource)
	}

	m := model.Match{
		SourceFile:   sourceID,
		MatchType:    record.String(info, DefaultMatchType, "match_type"),
		Competition:  record.FirstString(info, DefaultCompetition, competitionKeys),
		Venue:        record.String(info, DefaultVenue, "venue"),
		City:         record.String(info, "", "city"),
		TossWinner:   record.String(info, "", "toss", "winner"),
		TossDecision: record.String(info, "", "toss", "decision"),
		Winner:       record.String(info, "", "outcome", "winner"),
		WinByRuns:    record.Int(info, 0, "outcome", "by", "runs"),
		WinByWickets: record.Int(info, 0, "outcome", "by", "wickets"),
		Method:       record.String(info, "", "outcome", "method"),
		Eliminator:   record.String(info, "", "outcome", "eliminator"),
	}

	if dates := record.ListAt(info, "dates"); len(dates) > 0 {
		m.MatchDate, m.Season = matchDate(dates[0])
	}

	m.Teams = Teams(doc)
	if len(m.Teams) > 0 {
		m.Team1 = m.Teams[0]
	}
	if len(m.Teams) > 1 {
		m.Team2 = m.Teams[1]
	}

	m.ResultType = resultType(info, m.Winner)

	if pom := record.ListAt(info, "player_of_match"); len(pom) > 0 {
		m.PlayerOfMatch, _ = record.AsString(pom[0])
	}
	return m, nil
}

// Teams returns info.teams in listed order.
func Teams(doc record.Map) []string {
	listed := record.ListAt(doc, "info", "teams")
	teams := make([]string, 0, len(listed))
	for _, t := range listed {
		if s, ok := record.AsString(t); ok && s != "" {
			teams = append(teams, s)
		}
	}
	return teams
}

func resultType(info record.Map, winner string) string {
	if r, ok := record.Get(info, "outcome", "result"); ok {
		if s, ok := record.AsString(r); ok && s != "" {
			return s
		}
	}
	if winner == "" {
		return model.ResultNoResult
	}
	return model.ResultNormal
}

// matchDate returns the date text and its year. The year is 0 when it cannot be read.
func matchDate(v any) (string, int) {
	switch d := v.(type) {
	case time.Time:
		return d.Format(time.DateOnly), d.Year()
	case string:
		text := strings.TrimSpace(d)
		year, _, _ := strings.Cut(text, "-")
		season, err := strconv.Atoi(year)
		if err != nil {
			return text, 0
		}
		return text, season
	default:
		return "", 0
	}
}
