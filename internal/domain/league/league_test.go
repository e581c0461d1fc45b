package league_test

import (
	"testing"

	"github.com/okian/meeple/internal/domain/league"
	"github.com/okian/meeple/internal/domain/model"
	"github.com/okian/meeple/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCompute(t *testing.T) {
	roster := []model.Player{
		{ID: "ana", Name: "Ana"},
		{ID: "beto", Name: "Beto"},
		{ID: "carla", Name: "Carla"},
	}

	Convey("Given a roster and no matches", t, func() {
		agg := league.NewAggregator()
		res := agg.Compute(roster, nil, nil, 1)

		Convey("Then every roster member appears with zero stats", func() {
			So(res.All, ShouldHaveLength, 3)
			for _, st := range res.All {
				So(st.Matches, ShouldEqual, 0)
				So(st.Points, ShouldEqual, 0)
				So(st.AvgPoints, ShouldEqual, 0)
			}
		})

		Convey("Then nobody meets the eligibility floor", func() {
			So(res.Eligible, ShouldBeEmpty)
			So(res.MinMatches, ShouldEqual, 1)
		})
	})

	Convey("Given a game with multiplier 2 and one finished match", t, func() {
		agg := league.NewAggregator(league.WithEngine(
			scoring.NewEngine(scoring.WithTable([]float64{10, 6, 3, 1, 0})),
		))
		games := []model.Game{{ID: "g1", Name: "Brass", Multiplier: 2}}
		matches := []model.MatchRow{
			{SessionDate: "2025-03-15", GameID: "g1", P1: "ana", P2: "beto", P3: "carla"},
		}
		res := agg.Compute(roster, games, matches, 1)

		Convey("Then places award base points times the multiplier", func() {
			So(res.All[0].Name, ShouldEqual, "Ana")
			So(res.All[0].Points, ShouldEqual, 20)
			So(res.All[1].Name, ShouldEqual, "Beto")
			So(res.All[1].Points, ShouldEqual, 12)
			So(res.All[2].Name, ShouldEqual, "Carla")
			So(res.All[2].Points, ShouldEqual, 6)
		})

		Convey("Then wins and podiums are counted by rank", func() {
			So(res.All[0].Wins, ShouldEqual, 1)
			So(res.All[1].Wins, ShouldEqual, 0)
			for _, st := range res.All {
				So(st.Podiums, ShouldEqual, 1)
				So(st.Matches, ShouldEqual, 1)
			}
		})

		Convey("Then average points follow from points over matches", func() {
			So(res.All[0].AvgPoints, ShouldEqual, 20)
		})

		Convey("Then everyone with a match is eligible", func() {
			So(res.Eligible, ShouldHaveLength, 3)
		})
	})

	Convey("Given a match referencing an unknown game", t, func() {
		agg := league.NewAggregator()
		matches := []model.MatchRow{
			{SessionDate: "2025-03-15", GameID: "ghost", P1: "ana", P2: "beto"},
		}
		res := agg.Compute(roster, nil, matches, 0)

		Convey("Then the match scores with multiplier 1", func() {
			So(res.All[0].Points, ShouldEqual, 10)
			So(res.All[1].Points, ShouldEqual, 6)
		})
	})

	Convey("Given a participant absent from the roster", t, func() {
		agg := league.NewAggregator()
		matches := []model.MatchRow{
			{SessionDate: "2025-03-15", GameID: "g1", P1: "guest42"},
		}
		res := agg.Compute(roster, nil, matches, 0)

		Convey("Then an entry is created using the id as the name", func() {
			So(res.All, ShouldHaveLength, 4)
			So(res.All[0].ID, ShouldEqual, "guest42")
			So(res.All[0].Name, ShouldEqual, "guest42")
			So(res.All[0].Points, ShouldEqual, 10)
		})
	})

	Convey("Given two players tied on every numeric key", t, func() {
		agg := league.NewAggregator()
		players := []model.Player{
			{ID: "z", Name: "Beto"},
			{ID: "a", Name: "Ana"},
		}
		matches := []model.MatchRow{
			{SessionDate: "2025-03-15", GameID: "g1", P1: "z"},
			{SessionDate: "2025-03-16", GameID: "g1", P1: "a"},
		}
		res := agg.Compute(players, nil, matches, 0)

		Convey("Then the tie breaks on name ascending", func() {
			So(res.All[0].Name, ShouldEqual, "Ana")
			So(res.All[1].Name, ShouldEqual, "Beto")
		})
	})

	Convey("Given equal points but unequal wins", t, func() {
		agg := league.NewAggregator(league.WithEngine(
			scoring.NewEngine(scoring.WithTable([]float64{6, 3})),
		))
		matches := []model.MatchRow{
			{SessionDate: "2025-03-15", GameID: "g1", P1: "beto", P2: "carla"},
			{SessionDate: "2025-03-16", GameID: "g1", P1: "carla", P2: "ana"},
			{SessionDate: "2025-03-17", GameID: "g1", P1: "carla", P2: "ana"},
		}
		res := agg.Compute(roster, nil, matches, 0)

		Convey("Then more wins ranks higher before matches or name", func() {
			So(res.All[1].Name, ShouldEqual, "Beto")
			So(res.All[2].Name, ShouldEqual, "Ana")
			So(res.All[1].Points, ShouldEqual, res.All[2].Points)
			So(res.All[1].Wins, ShouldBeGreaterThan, res.All[2].Wins)
		})
	})

	Convey("Given the same inputs twice", t, func() {
		agg := league.NewAggregator()
		games := []model.Game{{ID: "g1", Multiplier: 1.5}}
		matches := []model.MatchRow{
			{SessionDate: "2025-03-15", GameID: "g1", P1: "ana", P2: "beto", P3: "carla"},
			{SessionDate: "2025-03-16", GameID: "g1", P1: "carla", P2: "ana"},
		}

		Convey("Then Compute is a pure function of its inputs", func() {
			first := agg.Compute(roster, games, matches, 2)
			second := agg.Compute(roster, games, matches, 2)
			So(second, ShouldResemble, first)
		})
	})

	Convey("Given a negative eligibility floor", t, func() {
		agg := league.NewAggregator()
		res := agg.Compute(roster, nil, nil, -5)

		Convey("Then it clamps to zero and everyone is eligible", func() {
			So(res.MinMatches, ShouldEqual, 0)
			So(res.Eligible, ShouldHaveLength, 3)
		})
	})

	Convey("Given matches with no scoreable outcome", t, func() {
		agg := league.NewAggregator()
		matches := []model.MatchRow{
			{SessionDate: "2025-03-15", GameID: "g1"},
			{SessionDate: "2025-03-15", GameID: "g2", P1: "  "},
		}
		res := agg.Compute(roster, nil, matches, 0)

		Convey("Then they contribute nothing", func() {
			for _, st := range res.All {
				So(st.Matches, ShouldEqual, 0)
			}
		})
	})
}
