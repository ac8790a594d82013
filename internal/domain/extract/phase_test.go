package extract_test

import (
	"errors"
	"testing"

	"github.com/okian/scorecard/internal/domain/extract"
	"github.com/okian/scorecard/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestPhase(t *testing.T) {
	Convey("Given zero-based over indices", t, func() {
		Convey("Then overs 0 to 5 are powerplay", func() {
			for over := 0; over <= 5; over++ {
				So(extract.Phase(over), ShouldEqual, model.PhasePowerplay)
			}
		})

		Convey("Then overs 6 to 14 are middle", func() {
			for over := 6; over <= 14; over++ {
				So(extract.Phase(over), ShouldEqual, model.PhaseMiddle)
			}
		})

		Convey("Then overs 15 and above are death", func() {
			for over := 15; over <= 19; over++ {
				So(extract.Phase(over), ShouldEqual, model.PhaseDeath)
			}
			So(extract.Phase(25), ShouldEqual, model.PhaseDeath)
		})

		Convey("Then the boundaries are exact", func() {
			So(extract.Phase(5), ShouldEqual, model.PhasePowerplay)
			So(extract.Phase(6), ShouldEqual, model.PhaseMiddle)
			So(extract.Phase(14), ShouldEqual, model.PhaseMiddle)
			So(extract.Phase(15), ShouldEqual, model.PhaseDeath)
		})

		Convey("Then negative input is powerplay", func() {
			So(extract.Phase(-1), ShouldEqual, model.PhasePowerplay)
		})
	})
}

func TestParseOverBall(t *testing.T) {
	Convey("Given over/ball labels", t, func() {
		cases := []struct {
			label      string
			over, ball int
		}{
			{"16.3", 16, 3},
			{"0", 0, 1},
			{"19.6", 19, 6},
			{"0.1", 0, 1},
			{"16.10", 16, 10},
			{" 7.2 ", 7, 2},
		}
		for _, c := range cases {
			over, ball, err := extract.ParseOverBall(c.label)
			So(err, ShouldBeNil)
			So(over, ShouldEqual, c.over)
			So(ball, ShouldEqual, c.ball)
		}

		Convey("When the integral part is not a number", func() {
			_, _, err := extract.ParseOverBall("x.3")

			Convey("Then a malformed key error names the label", func() {
				So(errors.Is(err, extract.ErrMalformedKey), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, `"x.3"`)
			})
		})

		Convey("When the fractional part is not a number", func() {
			for _, label := range []string{"3.", "3.b", "1.2.3"} {
				_, _, err := extract.ParseOverBall(label)
				So(errors.Is(err, extract.ErrMalformedKey), ShouldBeTrue)
			}
		})

		Convey("When the label is empty", func() {
			_, _, err := extract.ParseOverBall("")
			So(errors.Is(err, extract.ErrMalformedKey), ShouldBeTrue)
		})
	})
}
