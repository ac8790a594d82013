package extract

import (
	"fmt"
	"strings"

	"github.com/okian/scorecard/internal/domain/model"
	"github.com/okian/scorecard/internal/domain/record"
)

// emptyOvers is the overs-faced value of an innings without deliveries.
const emptyOvers = "0.0"

// Synonym tables for delivery fields.
var (
	batterRunsKeys = record.S("runs.batsman", "runs.batter")
	strikerKeys    = record.S("batsman", "batter")
	wicketKeys     = record.S("wicket", "wickets")
)

// Innings walks the innings in source order and extracts each one with its
// deliveries. teams is the listed team order used to infer the bowling side.
func Innings(doc record.Map, teams []string) ([]model.Innings, error) {
	entries := record.ListAt(doc, "innings")
	out := make([]model.Innings, 0, len(entries))
	distinct := distinctTeams(teams)

	for i, entry := range entries {
		label, body, ok := record.SoleEntry(entry)
		if !ok {
			return nil, fmt.Errorf("%w: innings %d is not a labelled mapping", ErrMalformedSource, i+1)
		}
		inn := model.Innings{
			Number:      i + 1,
			Label:       label,
			BattingTeam: record.String(body, "", "team"),
			IsSuperOver: strings.Contains(strings.ToLower(label), "super"),
			TotalOvers:  emptyOvers,
		}
		inn.BowlingTeam = bowlingTeam(distinct, inn.BattingTeam)

		if err := deliveries(&inn, record.ListAt(body, "deliveries")); err != nil {
			return nil, fmt.Errorf("innings %d (%s): %w", inn.Number, label, err)
		}
		out = append(out, inn)
	}
	return out, nil
}

func deliveries(inn *model.Innings, entries record.List) error {
	inn.Deliveries = make([]model.Delivery, 0, len(entries))
	for i, entry := range entries {
		label, body, ok := record.SoleEntry(entry)
		if !ok {
			return fmt.Errorf("%w: delivery %d has no over/ball label", ErrMalformedKey, i+1)
		}
		d, err := delivery(label, body)
		if err != nil {
			return err
		}
		d.Sequence = i + 1
		d.BattingTeam = inn.BattingTeam
		d.BowlingTeam = inn.BowlingTeam

		inn.TotalRuns += d.RunsTotal
		inn.TotalExtras += d.RunsExtras
		if d.IsWicket {
			inn.TotalWickets++
		}
		inn.TotalOvers = d.OverBall
		inn.Deliveries = append(inn.Deliveries, d)
	}
	return nil
}

func delivery(label string, body any) (model.Delivery, error) {
	over, ball, err := ParseOverBall(label)
	if err != nil {
		return model.Delivery{}, err
	}
	d := model.Delivery{
		OverBall:   strings.TrimSpace(label),
		Over:       over,
		Ball:       ball,
		Striker:    record.FirstString(body, "", strikerKeys),
		NonStriker: record.String(body, "", "non_striker"),
		Bowler:     record.String(body, "", "bowler"),
		RunsBatter: record.FirstInt(body, 0, batterRunsKeys),
		RunsExtras: record.Int(body, 0, "runs", "extras"),
		RunsTotal:  record.Int(body, 0, "runs", "total"),
		Wides:      record.Int(body, 0, "extras", "wides"),
		NoBalls:    record.Int(body, 0, "extras", "noballs"),
		Byes:       record.Int(body, 0, "extras", "byes"),
		LegByes:    record.Int(body, 0, "extras", "legbyes"),
		Penalty:    record.Int(body, 0, "extras", "penalty"),
		Phase:      Phase(over),
	}

	d.Wicket, d.IsWicket = wicket(body)
	d.IsLegal = d.Wides == 0 && d.NoBalls == 0
	d.IsFour = d.RunsBatter == 4
	d.IsSix = d.RunsBatter == 6
	d.IsBoundary = d.IsFour || d.IsSix
	d.IsDotBall = d.RunsTotal == 0 && d.IsLegal
	return d, nil
}

// wicket reads the first recorded dismissal. Later entries of a list are
// ignored; a delivery with several dismissals is rare enough not to model.
func wicket(body any) (model.Wicket, bool) {
	v, ok := record.First(body, wicketKeys)
	if !ok {
		return model.Wicket{}, false
	}
	list := record.AsList(v)
	if len(list) == 0 {
		return model.Wicket{}, false
	}
	w, ok := list[0].(record.Map)
	if !ok {
		return model.Wicket{}, false
	}
	out := model.Wicket{
		Kind:      record.String(w, "", "kind"),
		PlayerOut: record.String(w, "", "player_out"),
	}
	if fielders := record.ListAt(w, "fielders"); len(fielders) > 0 {
		switch f := fielders[0].(type) {
		case record.Map:
			out.Fielder = record.String(f, "", "name")
		default:
			out.Fielder, _ = record.AsString(f)
		}
	}
	return out, true
}

func distinctTeams(teams []string) []string {
	seen := make(map[string]bool, len(teams))
	out := make([]string, 0, len(teams))
	for _, t := range teams {
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// bowlingTeam is the first listed team that is not batting. It is unknown
// when fewer than two distinct teams are listed.
func bowlingTeam(distinct []string, batting string) string {
	if len(distinct) < 2 {
		return ""
	}
	for _, t := range distinct {
		if t != batting {
			return t
		}
	}
	return ""
}
