package scoring_test

import (
	"math"
	"testing"

	"github.com/okian/meeple/internal/domain/model"
	"github.com/okian/meeple/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func TestPlacements(t *testing.T) {
	Convey("Given a match with all five slots filled", t, func() {
		m := model.MatchRow{
			SessionDate: "2025-01-01",
			GameID:      "g1",
			P1:          "ana", P2: "beto", P3: "carla", P4: "dani", P5: "eva",
		}

		Convey("Then slot order becomes finish order", func() {
			So(scoring.Placements(m), ShouldResemble, []string{"ana", "beto", "carla", "dani", "eva"})
		})
	})

	Convey("Given a match with only the winner filled", t, func() {
		m := model.MatchRow{SessionDate: "2025-01-01", GameID: "g1", P1: "ana"}

		Convey("Then the result has exactly one entry", func() {
			So(scoring.Placements(m), ShouldResemble, []string{"ana"})
		})
	})

	Convey("Given a match with whitespace and gaps", t, func() {
		m := model.MatchRow{SessionDate: "2025-01-01", GameID: "g1", P1: "  ana ", P3: "beto", P5: "  "}

		Convey("Then empties are dropped and entries trimmed", func() {
			So(scoring.Placements(m), ShouldResemble, []string{"ana", "beto"})
		})
	})

	Convey("Given a match listing the same player twice", t, func() {
		m := model.MatchRow{SessionDate: "2025-01-01", GameID: "g1", P1: "ana", P2: "beto", P3: "ana"}

		Convey("Then the first occurrence wins and the repeat is dropped", func() {
			So(scoring.Placements(m), ShouldResemble, []string{"ana", "beto"})
		})
	})

	Convey("Given a match with no participants", t, func() {
		m := model.MatchRow{SessionDate: "2025-01-01", GameID: "g1"}

		Convey("Then the result is empty, not nil-panicking", func() {
			So(scoring.Placements(m), ShouldBeEmpty)
		})
	})
}

func TestEngineScore(t *testing.T) {
	Convey("Given an engine with the table [10 6 3 1 0]", t, func() {
		engine := scoring.NewEngine(scoring.WithTable([]float64{10, 6, 3, 1, 0}))

		Convey("When scoring three placements with multiplier 2", func() {
			pts := engine.Score([]string{"ana", "beto", "carla"}, 2)

			Convey("Then each place gets base times multiplier", func() {
				So(pts["ana"], ShouldEqual, 20)
				So(pts["beto"], ShouldEqual, 12)
				So(pts["carla"], ShouldEqual, 6)
			})
		})

		Convey("When scoring with no placements", func() {
			Convey("Then the result is an empty map for any multiplier", func() {
				So(engine.Score(nil, 1), ShouldBeEmpty)
				So(engine.Score([]string{}, 3), ShouldBeEmpty)
			})
		})

		Convey("When the multiplier is invalid", func() {
			placements := []string{"ana", "beto"}

			Convey("Then negative, zero, NaN and Inf all behave like 1", func() {
				want := engine.Score(placements, 1)
				So(engine.Score(placements, -1), ShouldResemble, want)
				So(engine.Score(placements, 0), ShouldResemble, want)
				So(engine.Score(placements, math.NaN()), ShouldResemble, want)
				So(engine.Score(placements, math.Inf(1)), ShouldResemble, want)
			})
		})

		Convey("When there are more placements than table entries", func() {
			pts := engine.Score([]string{"a", "b", "c", "d", "e", "f", "g"}, 1)

			Convey("Then ranks beyond the table score zero without error", func() {
				So(pts["f"], ShouldEqual, 0)
				So(pts["g"], ShouldEqual, 0)
				So(pts["a"], ShouldEqual, 10)
			})
		})

		Convey("When a duplicate id survives extraction", func() {
			pts := engine.Score([]string{"ana", "ana"}, 1)

			Convey("Then the awards sum on the same key", func() {
				So(pts["ana"], ShouldEqual, 16)
			})
		})
	})

	Convey("Given the sum property over the base table", t, func() {
		table := []float64{5, 3, 1.5, 0.5, 0}
		engine := scoring.NewEngine(scoring.WithTable(table))

		Convey("Then total points equal the table prefix times the multiplier", func() {
			for _, mult := range []float64{1, 1.5, 2, 3.7} {
				for n := 1; n <= 5; n++ {
					placements := []string{"p1", "p2", "p3", "p4", "p5"}[:n]
					pts := engine.Score(placements, mult)

					var got, want float64
					for _, v := range pts {
						got += v
					}
					for i := range n {
						want += table[i] * mult
					}
					So(got, ShouldAlmostEqual, want, float64(n)*0.005)
				}
			}
		})
	})

	Convey("Given per-award rounding", t, func() {
		engine := scoring.NewEngine(scoring.WithTable([]float64{1.111, 0}))

		Convey("Then awards carry at most two decimals", func() {
			pts := engine.Score([]string{"ana"}, 1)
			So(pts["ana"], ShouldEqual, 1.11)
		})
	})

	Convey("Given a default engine", t, func() {
		engine := scoring.NewEngine()

		Convey("Then it uses the default table", func() {
			So(engine.Table(), ShouldResemble, scoring.DefaultTable())
		})

		Convey("And an empty WithTable option is ignored", func() {
			e := scoring.NewEngine(scoring.WithTable(nil))
			So(e.Table(), ShouldResemble, scoring.DefaultTable())
		})
	})
}
