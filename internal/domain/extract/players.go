package extract

import (
	"sort"

	"github.com/okian/scorecard/internal/domain/model"
	"github.com/okian/scorecard/internal/domain/record"
)

// Players flattens info.players into (name, team) pairs. Teams listed in
// info.teams come first, in that order; any other roster team follows by name.
// Duplicates are kept; storage absorbs them.
func Players(doc record.Map) []model.Player {
	roster := record.MapAt(doc, "info", "players")
	if len(roster) == 0 {
		return nil
	}

	order := make([]string, 0, len(roster))
	placed := make(map[string]bool, len(roster))
	for _, team := range Teams(doc) {
		if _, ok := roster[team]; ok && !placed[team] {
			order = append(order, team)
			placed[team] = true
		}
	}
	rest := make([]string, 0, len(roster))
	for team := range roster {
		if !placed[team] {
			rest = append(rest, team)
		}
	}
	sort.Strings(rest)
	order = append(order, rest...)

	var players []model.Player
	for _, team := range order {
		for _, name := range record.AsList(roster[team]) {
			s, ok := name.(string)
			if !ok || s == "" {
				continue
			}
			players = append(players, model.Player{Name: s, Team: team})
		}
	}
	return players
}
