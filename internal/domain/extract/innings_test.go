package extract_test

import (
	"errors"
	"testing"

	"github.com/okian/scorecard/internal/domain/extract"
	"github.com/okian/scorecard/internal/domain/model"
	"github.com/okian/scorecard/internal/domain/record"
	. "github.com/smartystreets/goconvey/convey"
)

var twoTeams = []string{"Chennai Super Kings", "Mumbai Indians"}

func ball(label string, body record.Map) record.Map {
	return record.Map{label: body}
}

func runs(batter, extras, total int) record.Map {
	return record.Map{"batsman": batter, "extras": extras, "total": total}
}

func inningsDoc(entries ...record.Map) record.Map {
	list := make(record.List, len(entries))
	for i, e := range entries {
		list[i] = e
	}
	return record.Map{"innings": list}
}

func TestInningsAggregates(t *testing.T) {
	Convey("Given two innings", t, func() {
		doc := inningsDoc(
			record.Map{"1st innings": record.Map{
				"team": "Mumbai Indians",
				"deliveries": record.List{
					ball("0.1", record.Map{"batsman": "RG Sharma", "bowler": "KK Ahmed", "non_striker": "RD Rickelton", "runs": runs(0, 0, 0)}),
					ball("0.2", record.Map{"batsman": "RG Sharma", "bowler": "KK Ahmed", "runs": runs(4, 0, 4)}),
					ball("0.3", record.Map{"batsman": "RG Sharma", "bowler": "KK Ahmed", "runs": runs(0, 1, 1), "extras": record.Map{"wides": 1}}),
					ball("0.3", record.Map{
						"batsman": "RG Sharma", "bowler": "KK Ahmed", "runs": runs(0, 0, 0),
						"wicket": record.Map{"kind": "caught", "player_out": "RG Sharma", "fielders": record.List{"SM Curran"}},
					}),
				},
			}},
			record.Map{"2nd innings": record.Map{
				"team": "Chennai Super Kings",
				"deliveries": record.List{
					ball("0.1", record.Map{"batter": "R Ravindra", "bowler": "TA Boult", "runs": record.Map{"batter": 6, "extras": 0, "total": 6}}),
				},
			}},
		)

		innings, err := extract.Innings(doc, twoTeams)

		Convey("Then innings are numbered in source order", func() {
			So(err, ShouldBeNil)
			So(len(innings), ShouldEqual, 2)
			So(innings[0].Number, ShouldEqual, 1)
			So(innings[0].Label, ShouldEqual, "1st innings")
			So(innings[1].Number, ShouldEqual, 2)
		})

		Convey("Then the bowling team is the other listed team", func() {
			So(innings[0].BattingTeam, ShouldEqual, "Mumbai Indians")
			So(innings[0].BowlingTeam, ShouldEqual, "Chennai Super Kings")
			So(innings[1].BattingTeam, ShouldEqual, "Chennai Super Kings")
			So(innings[1].BowlingTeam, ShouldEqual, "Mumbai Indians")
			for _, inn := range innings {
				So(inn.BowlingTeam, ShouldNotEqual, inn.BattingTeam)
				for _, d := range inn.Deliveries {
					So(d.BattingTeam, ShouldEqual, inn.BattingTeam)
					So(d.BowlingTeam, ShouldEqual, inn.BowlingTeam)
				}
			}
		})

		Convey("Then totals accumulate and overs come from the last label", func() {
			first := innings[0]
			So(first.TotalRuns, ShouldEqual, 5)
			So(first.TotalExtras, ShouldEqual, 1)
			So(first.TotalWickets, ShouldEqual, 1)
			So(first.TotalOvers, ShouldEqual, "0.3")
			So(first.IsSuperOver, ShouldBeFalse)
			So(innings[1].TotalRuns, ShouldEqual, 6)
			So(innings[1].TotalOvers, ShouldEqual, "0.1")
		})

		Convey("Then deliveries keep source order even where labels repeat", func() {
			ds := innings[0].Deliveries
			So(len(ds), ShouldEqual, 4)
			for i, d := range ds {
				So(d.Sequence, ShouldEqual, i+1)
			}
			So(ds[2].OverBall, ShouldEqual, "0.3")
			So(ds[3].OverBall, ShouldEqual, "0.3")
		})

		Convey("Then per-delivery flags are derived", func() {
			ds := innings[0].Deliveries

			dot := ds[0]
			So(dot.IsLegal, ShouldBeTrue)
			So(dot.IsDotBall, ShouldBeTrue)
			So(dot.Phase, ShouldEqual, model.PhasePowerplay)
			So(dot.NonStriker, ShouldEqual, "RD Rickelton")

			four := ds[1]
			So(four.IsLegal, ShouldBeTrue)
			So(four.IsFour, ShouldBeTrue)
			So(four.IsBoundary, ShouldBeTrue)
			So(four.IsSix, ShouldBeFalse)
			So(four.IsDotBall, ShouldBeFalse)

			wide := ds[2]
			So(wide.Wides, ShouldEqual, 1)
			So(wide.IsLegal, ShouldBeFalse)
			So(wide.IsDotBall, ShouldBeFalse)

			out := ds[3]
			So(out.IsWicket, ShouldBeTrue)
			So(out.Wicket, ShouldResemble, model.Wicket{Kind: "caught", PlayerOut: "RG Sharma", Fielder: "SM Curran"})
			So(out.IsDotBall, ShouldBeTrue)

			six := innings[1].Deliveries[0]
			So(six.Striker, ShouldEqual, "R Ravindra")
			So(six.RunsBatter, ShouldEqual, 6)
			So(six.IsSix, ShouldBeTrue)
			So(six.IsBoundary, ShouldBeTrue)
		})
	})
}

func TestInningsEdgeCases(t *testing.T) {
	Convey("Given an innings with zero deliveries", t, func() {
		doc := inningsDoc(record.Map{"1st innings": record.Map{"team": "Mumbai Indians"}})

		innings, err := extract.Innings(doc, twoTeams)

		Convey("Then it yields an all-zero innings with 0.0 overs", func() {
			So(err, ShouldBeNil)
			So(len(innings), ShouldEqual, 1)
			inn := innings[0]
			So(inn.TotalRuns, ShouldEqual, 0)
			So(inn.TotalWickets, ShouldEqual, 0)
			So(inn.TotalExtras, ShouldEqual, 0)
			So(inn.TotalOvers, ShouldEqual, "0.0")
			So(inn.Deliveries, ShouldBeEmpty)
		})
	})

	Convey("Given a wicket section that lists two dismissals", t, func() {
		doc := inningsDoc(record.Map{"1st innings": record.Map{
			"team": "Mumbai Indians",
			"deliveries": record.List{
				ball("19.4", record.Map{
					"runs": runs(0, 0, 0),
					"wickets": record.List{
						record.Map{"kind": "run out", "player_out": "First", "fielders": record.List{record.Map{"name": "MS Dhoni"}}},
						record.Map{"kind": "obstructing the field", "player_out": "Second"},
					},
				}),
			},
		}})

		innings, err := extract.Innings(doc, twoTeams)

		Convey("Then only the first dismissal is recorded", func() {
			So(err, ShouldBeNil)
			d := innings[0].Deliveries[0]
			So(d.IsWicket, ShouldBeTrue)
			So(d.Wicket.Kind, ShouldEqual, "run out")
			So(d.Wicket.PlayerOut, ShouldEqual, "First")
			So(d.Wicket.Fielder, ShouldEqual, "MS Dhoni")
			So(innings[0].TotalWickets, ShouldEqual, 1)
			So(d.Phase, ShouldEqual, model.PhaseDeath)
		})
	})

	Convey("Given both spellings where the first is empty", t, func() {
		doc := inningsDoc(record.Map{"1st innings": record.Map{
			"team": "Mumbai Indians",
			"deliveries": record.List{
				ball("0.1", record.Map{
					"batsman": "", "batter": "SA Yadav", "bowler": "KK Ahmed",
					"runs":    record.Map{"batsman": 0, "batter": 4, "extras": 0, "total": 4},
					"wicket":  record.List{},
					"wickets": record.List{record.Map{"kind": "bowled", "player_out": "SA Yadav"}},
				}),
			},
		}})
		innings, err := extract.Innings(doc, twoTeams)

		Convey("Then the populated spelling is used", func() {
			So(err, ShouldBeNil)
			d := innings[0].Deliveries[0]
			So(d.Striker, ShouldEqual, "SA Yadav")
			So(d.RunsBatter, ShouldEqual, 4)
			So(d.IsFour, ShouldBeTrue)
			So(d.IsWicket, ShouldBeTrue)
			So(d.Wicket.Kind, ShouldEqual, "bowled")
		})
	})

	Convey("Given a delivery without participants", t, func() {
		doc := inningsDoc(record.Map{"1st innings": record.Map{
			"team":       "Mumbai Indians",
			"deliveries": record.List{ball("3.2", nil), ball("3.3", record.Map{"runs": runs(1, 0, 1)})},
		}})

		innings, err := extract.Innings(doc, twoTeams)

		Convey("Then it is still recorded with empty identities", func() {
			So(err, ShouldBeNil)
			ds := innings[0].Deliveries
			So(len(ds), ShouldEqual, 2)
			So(ds[0].Striker, ShouldEqual, "")
			So(ds[0].Bowler, ShouldEqual, "")
			So(ds[0].IsDotBall, ShouldBeTrue)
			So(ds[1].RunsTotal, ShouldEqual, 1)
		})
	})

	Convey("Given an unparseable over/ball label", t, func() {
		doc := inningsDoc(record.Map{"1st innings": record.Map{
			"team":       "Mumbai Indians",
			"deliveries": record.List{ball("0.1", nil), ball("over.2", nil)},
		}})

		innings, err := extract.Innings(doc, twoTeams)

		Convey("Then the record is rejected with a malformed key", func() {
			So(innings, ShouldBeNil)
			So(errors.Is(err, extract.ErrMalformedKey), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "innings 1")
		})
	})

	Convey("Given a delivery entry that is not a labelled mapping", t, func() {
		doc := record.Map{"innings": record.List{record.Map{"1st innings": record.Map{
			"deliveries": record.List{"0.1"},
		}}}}

		_, err := extract.Innings(doc, twoTeams)
		So(errors.Is(err, extract.ErrMalformedKey), ShouldBeTrue)
	})

	Convey("Given an innings entry that is not a labelled mapping", t, func() {
		doc := record.Map{"innings": record.List{"1st innings"}}

		_, err := extract.Innings(doc, twoTeams)
		So(errors.Is(err, extract.ErrMalformedSource), ShouldBeTrue)
	})

	Convey("Given a super over", t, func() {
		doc := inningsDoc(
			record.Map{"1st innings": record.Map{"team": "Mumbai Indians"}},
			record.Map{"2nd innings": record.Map{"team": "Chennai Super Kings"}},
			record.Map{"Super Over 1": record.Map{"team": "Mumbai Indians"}},
		)

		innings, _ := extract.Innings(doc, twoTeams)

		Convey("Then the marker is detected case-insensitively", func() {
			So(innings[2].Number, ShouldEqual, 3)
			So(innings[2].IsSuperOver, ShouldBeTrue)
			So(innings[0].IsSuperOver, ShouldBeFalse)
		})
	})

	Convey("Given fewer than two distinct teams", t, func() {
		doc := inningsDoc(record.Map{"1st innings": record.Map{"team": "Mumbai Indians"}})

		for _, teams := range [][]string{nil, {"Mumbai Indians"}, {"Mumbai Indians", "Mumbai Indians"}} {
			innings, err := extract.Innings(doc, teams)
			So(err, ShouldBeNil)
			So(innings[0].BowlingTeam, ShouldEqual, "")
		}
	})

	Convey("Given no innings section", t, func() {
		innings, err := extract.Innings(record.Map{}, twoTeams)
		So(err, ShouldBeNil)
		So(innings, ShouldBeEmpty)
	})
}
