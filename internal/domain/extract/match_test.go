package extract_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/scorecard/internal/domain/extract"
	"github.com/okian/scorecard/internal/domain/model"
	"github.com/okian/scorecard/internal/domain/record"
	. "github.com/smartystreets/goconvey/convey"
)

func matchDoc(info record.Map) record.Map {
	return record.Map{"meta": record.Map{"data_version": 0.9}, "info": info}
}

func TestMatch(t *testing.T) {
	Convey("Given a complete info section", t, func() {
		doc := matchDoc(record.Map{
			"city":        "Kolkata",
			"competition": "IPL",
			"dates":       record.List{"2025-03-22"},
			"match_type":  "T20",
			"outcome": record.Map{
				"winner": "Royal Challengers Bengaluru",
				"by":     record.Map{"wickets": 7},
			},
			"player_of_match": record.List{"KH Pandya"},
			"teams":           record.List{"Kolkata Knight Riders", "Royal Challengers Bengaluru"},
			"toss":            record.Map{"decision": "field", "winner": "Royal Challengers Bengaluru"},
			"venue":           "Eden Gardens, Kolkata",
		})

		m, err := extract.Match(doc, "1473438.yaml")

		Convey("Then every field is extracted", func() {
			So(err, ShouldBeNil)
			So(m.SourceFile, ShouldEqual, "1473438.yaml")
			So(m.MatchType, ShouldEqual, "T20")
			So(m.Competition, ShouldEqual, "IPL")
			So(m.Season, ShouldEqual, 2025)
			So(m.MatchDate, ShouldEqual, "2025-03-22")
			So(m.Venue, ShouldEqual, "Eden Gardens, Kolkata")
			So(m.City, ShouldEqual, "Kolkata")
			So(m.Team1, ShouldEqual, "Kolkata Knight Riders")
			So(m.Team2, ShouldEqual, "Royal Challengers Bengaluru")
			So(m.TossWinner, ShouldEqual, "Royal Challengers Bengaluru")
			So(m.TossDecision, ShouldEqual, "field")
			So(m.Winner, ShouldEqual, "Royal Challengers Bengaluru")
			So(m.WinByRuns, ShouldEqual, 0)
			So(m.WinByWickets, ShouldEqual, 7)
			So(m.ResultType, ShouldEqual, model.ResultNormal)
			So(m.PlayerOfMatch, ShouldEqual, "KH Pandya")
		})
	})

	Convey("Given a sparse info section", t, func() {
		doc := matchDoc(record.Map{"teams": record.List{"A", "B"}})

		m, err := extract.Match(doc, "sparse.yaml")

		Convey("Then defaults apply", func() {
			So(err, ShouldBeNil)
			So(m.MatchType, ShouldEqual, extract.DefaultMatchType)
			So(m.Competition, ShouldEqual, extract.DefaultCompetition)
			So(m.Venue, ShouldEqual, extract.DefaultVenue)
			So(m.City, ShouldEqual, "")
			So(m.Season, ShouldEqual, 0)
			So(m.MatchDate, ShouldEqual, "")
			So(m.ResultType, ShouldEqual, model.ResultNoResult)
			So(m.PlayerOfMatch, ShouldEqual, "")
		})
	})

	Convey("Given season sources", t, func() {
		Convey("When the date is a structured date", func() {
			doc := matchDoc(record.Map{"dates": record.List{time.Date(2024, 5, 26, 0, 0, 0, 0, time.UTC)}})
			m, _ := extract.Match(doc, "x")
			So(m.Season, ShouldEqual, 2024)
			So(m.MatchDate, ShouldEqual, "2024-05-26")
		})

		Convey("When the date is singular rather than a list", func() {
			doc := matchDoc(record.Map{"dates": "2023-04-01"})
			m, _ := extract.Match(doc, "x")
			So(m.Season, ShouldEqual, 2023)
		})

		Convey("When several dates are listed", func() {
			doc := matchDoc(record.Map{"dates": record.List{"2019-05-12", "2019-05-13"}})
			m, _ := extract.Match(doc, "x")
			So(m.MatchDate, ShouldEqual, "2019-05-12")
		})

		Convey("When the date text has no year", func() {
			doc := matchDoc(record.Map{"dates": record.List{"unknown"}})
			m, _ := extract.Match(doc, "x")
			So(m.Season, ShouldEqual, 0)
			So(m.MatchDate, ShouldEqual, "unknown")
		})
	})

	Convey("Given result classification", t, func() {
		Convey("When the source tags a tie with an eliminator", func() {
			doc := matchDoc(record.Map{"outcome": record.Map{"result": "tie", "eliminator": "Delhi Capitals"}})
			m, _ := extract.Match(doc, "x")

			Convey("Then the literal is kept and the winner stays empty", func() {
				So(m.ResultType, ShouldEqual, model.ResultTie)
				So(m.Eliminator, ShouldEqual, "Delhi Capitals")
				So(m.Winner, ShouldEqual, "")
			})
		})

		Convey("When the source tags no result", func() {
			doc := matchDoc(record.Map{"outcome": record.Map{"result": "no result"}})
			m, _ := extract.Match(doc, "x")
			So(m.ResultType, ShouldEqual, model.ResultNoResult)
		})

		Convey("When a winner is decided by method", func() {
			doc := matchDoc(record.Map{"outcome": record.Map{
				"winner": "Gujarat Titans", "by": record.Map{"runs": 5}, "method": "D/L",
			}})
			m, _ := extract.Match(doc, "x")

			Convey("Then the method does not change the classification", func() {
				So(m.ResultType, ShouldEqual, model.ResultNormal)
				So(m.Method, ShouldEqual, "D/L")
				So(m.WinByRuns, ShouldEqual, 5)
			})
		})
	})

	Convey("Given competition synonyms", t, func() {
		doc := matchDoc(record.Map{"event": record.Map{"name": "Indian Premier League", "match_number": 1}})
		m, _ := extract.Match(doc, "x")
		So(m.Competition, ShouldEqual, "Indian Premier League")
	})

	Convey("Given a team list of one", t, func() {
		doc := matchDoc(record.Map{"teams": record.List{"Solo"}})
		m, _ := extract.Match(doc, "x")
		So(m.Team1, ShouldEqual, "Solo")
		So(m.Team2, ShouldEqual, "")
		So(m.Teams, ShouldResemble, []string{"Solo"})
	})

	Convey("Given a document without an info mapping", t, func() {
		for _, doc := range []record.Map{{}, {"info": "text"}, {"info": nil}} {
			_, err := extract.Match(doc, "bad.yaml")
			So(errors.Is(err, extract.ErrMalformedSource), ShouldBeTrue)
		}
	})
}

func TestPlayers(t *testing.T) {
	Convey("Given a roster", t, func() {
		doc := record.Map{"info": record.Map{
			"teams": record.List{"Sunrisers Hyderabad", "Rajasthan Royals"},
			"players": record.Map{
				"Rajasthan Royals":    record.List{"YBK Jaiswal", "SV Samson"},
				"Sunrisers Hyderabad": record.List{"TM Head", "Abhishek Sharma", 42},
			},
		}}

		players := extract.Players(doc)

		Convey("Then pairs follow the listed team order and skip non-names", func() {
			So(players, ShouldResemble, []model.Player{
				{Name: "TM Head", Team: "Sunrisers Hyderabad"},
				{Name: "Abhishek Sharma", Team: "Sunrisers Hyderabad"},
				{Name: "YBK Jaiswal", Team: "Rajasthan Royals"},
				{Name: "SV Samson", Team: "Rajasthan Royals"},
			})
		})
	})

	Convey("Given roster teams outside the team list", t, func() {
		doc := record.Map{"info": record.Map{
			"teams": record.List{"B"},
			"players": record.Map{
				"D": record.List{"d1"},
				"B": "b1",
				"C": record.List{"c1", "c1"},
			},
		}}

		Convey("Then they follow by name and duplicates are kept", func() {
			So(extract.Players(doc), ShouldResemble, []model.Player{
				{Name: "b1", Team: "B"},
				{Name: "c1", Team: "C"},
				{Name: "c1", Team: "C"},
				{Name: "d1", Team: "D"},
			})
		})
	})

	Convey("Given no roster", t, func() {
		So(extract.Players(record.Map{"info": record.Map{}}), ShouldBeEmpty)
		So(extract.Players(record.Map{}), ShouldBeEmpty)
	})
}
