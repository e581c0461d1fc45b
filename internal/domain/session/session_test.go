package session_test

import (
	"testing"

	"github.com/okian/meeple/internal/domain/model"
	"github.com/okian/meeple/internal/domain/scoring"
	"github.com/okian/meeple/internal/domain/session"
	. "github.com/smartystreets/goconvey/convey"
)

func TestBuild(t *testing.T) {
	games := []model.Game{
		{ID: "brass", Name: "Brass", Multiplier: 2},
		{ID: "coup", Name: "Coup", Multiplier: 1},
	}

	Convey("Given matches across two dates", t, func() {
		b := session.NewBuilder()
		matches := []model.MatchRow{
			{SessionDate: "2025-03-22", GameID: "coup", StartTime: "10:00", P1: "ana"},
			{SessionDate: "2025-03-15", GameID: "brass", StartTime: "17:00", P1: "beto"},
			{SessionDate: "2025-03-15", GameID: "coup", StartTime: "09:00", P1: "ana"},
		}
		views := b.Build(games, matches)

		Convey("Then views come back ordered by date then start time", func() {
			So(views, ShouldHaveLength, 3)
			So(views[0].Date, ShouldEqual, "2025-03-15")
			So(views[0].StartTime, ShouldEqual, "09:00")
			So(views[1].StartTime, ShouldEqual, "17:00")
			So(views[2].Date, ShouldEqual, "2025-03-22")
		})

		Convey("Then games resolve to names and multipliers", func() {
			So(views[1].GameName, ShouldEqual, "Brass")
			So(views[1].Multiplier, ShouldEqual, 2)
		})
	})

	Convey("Given single-digit hours in the feed", t, func() {
		b := session.NewBuilder()
		matches := []model.MatchRow{
			{SessionDate: "2025-03-15", GameID: "coup", StartTime: "10:00", P1: "ana"},
			{SessionDate: "2025-03-15", GameID: "brass", StartTime: "9:00", P1: "beto"},
		}
		views := b.Build(games, matches)

		Convey("Then 9:00 sorts before 10:00", func() {
			So(views[0].StartTime, ShouldEqual, "09:00")
			So(views[1].StartTime, ShouldEqual, "10:00")
		})
	})

	Convey("Given an unknown game id", t, func() {
		b := session.NewBuilder(session.WithEngine(
			scoring.NewEngine(scoring.WithTable([]float64{10, 6})),
		))
		matches := []model.MatchRow{
			{SessionDate: "2025-03-15", GameID: "ghost", P1: "ana", P2: "beto"},
		}
		views := b.Build(games, matches)

		Convey("Then the raw id stands in and the multiplier is 1", func() {
			So(views[0].GameName, ShouldEqual, "ghost")
			So(views[0].Multiplier, ShouldEqual, 1)
			So(views[0].PointsByPlayer, ShouldResemble, map[string]float64{"ana": 10, "beto": 6})
		})
	})

	Convey("Given no matches", t, func() {
		b := session.NewBuilder()

		Convey("Then Build returns an empty slice", func() {
			So(b.Build(games, nil), ShouldBeEmpty)
		})
	})
}

func TestForDate(t *testing.T) {
	Convey("Given matches on several dates", t, func() {
		b := session.NewBuilder()
		matches := []model.MatchRow{
			{SessionDate: "2025-03-15", GameID: "g1", P1: "ana"},
			{SessionDate: "2025-03-22", GameID: "g1", P1: "beto"},
		}

		Convey("Then only the requested day's matches are returned", func() {
			views := b.ForDate("2025-03-15", nil, matches)
			So(views, ShouldHaveLength, 1)
			So(views[0].Placements, ShouldResemble, []string{"ana"})
		})

		Convey("Then the query date is normalized before matching", func() {
			views := b.ForDate("15/03/2025", nil, matches)
			So(views, ShouldHaveLength, 1)
		})

		Convey("Then an unknown date yields an empty slice", func() {
			So(b.ForDate("2024-01-01", nil, matches), ShouldBeEmpty)
		})
	})
}

func TestTotals(t *testing.T) {
	Convey("Given a session with two matches", t, func() {
		b := session.NewBuilder(session.WithEngine(
			scoring.NewEngine(scoring.WithTable([]float64{10, 6, 3})),
		))
		games := []model.Game{{ID: "g1", Name: "Brass", Multiplier: 2}}
		matches := []model.MatchRow{
			{SessionDate: "2025-03-15", GameID: "g1", P1: "ana", P2: "beto"},
			{SessionDate: "2025-03-15", GameID: "coup", P1: "beto", P2: "ana"},
		}
		totals := session.Totals(b.Build(games, matches))

		Convey("Then points accumulate across the session", func() {
			So(totals, ShouldHaveLength, 2)
			So(totals[0].Player, ShouldEqual, "ana")
			So(totals[0].Points, ShouldEqual, 26)
			So(totals[1].Player, ShouldEqual, "beto")
			So(totals[1].Points, ShouldEqual, 22)
		})

		Convey("Then matches and wins are counted", func() {
			So(totals[0].Matches, ShouldEqual, 2)
			So(totals[0].Wins, ShouldEqual, 1)
			So(totals[1].Wins, ShouldEqual, 1)
		})
	})

	Convey("Given tied players", t, func() {
		b := session.NewBuilder(session.WithEngine(
			scoring.NewEngine(scoring.WithTable([]float64{5, 5})),
		))
		matches := []model.MatchRow{
			{SessionDate: "2025-03-15", GameID: "g1", P1: "zoe", P2: "ana"},
		}
		totals := session.Totals(b.Build(nil, matches))

		Convey("Then wins break the tie before the name does", func() {
			So(totals[0].Player, ShouldEqual, "zoe")
			So(totals[1].Player, ShouldEqual, "ana")
		})
	})

	Convey("Given no views", t, func() {
		Convey("Then Totals returns an empty slice", func() {
			So(session.Totals(nil), ShouldBeEmpty)
		})
	})
}

func TestDates(t *testing.T) {
	Convey("Given schedule and match feeds with overlapping days", t, func() {
		schedule := []model.ScheduleRow{
			{Date: "2025-03-15"},
			{Date: "2025-03-29"},
		}
		matches := []model.MatchRow{
			{SessionDate: "2025-03-15", GameID: "g1"},
			{SessionDate: "2025-03-22", GameID: "g1"},
		}

		Convey("Then the union is sorted and de-duplicated", func() {
			So(session.Dates(schedule, matches), ShouldResemble,
				[]string{"2025-03-15", "2025-03-22", "2025-03-29"})
		})
	})

	Convey("Given empty feeds", t, func() {
		Convey("Then the union is empty", func() {
			So(session.Dates(nil, nil), ShouldBeEmpty)
		})
	})
}

func TestScheduleFor(t *testing.T) {
	Convey("Given a schedule", t, func() {
		schedule := []model.ScheduleRow{
			{Date: "2025-03-15", Location: "Club"},
			{Date: "2025-03-22", Location: "Casa de Ana"},
		}

		Convey("Then a matching date returns its row", func() {
			row, ok := session.ScheduleFor("2025-03-22", schedule)
			So(ok, ShouldBeTrue)
			So(row.Location, ShouldEqual, "Casa de Ana")
		})

		Convey("Then the lookup date is normalized first", func() {
			_, ok := session.ScheduleFor("22/03/2025", schedule)
			So(ok, ShouldBeTrue)
		})

		Convey("Then a missing date reports false", func() {
			_, ok := session.ScheduleFor("2025-04-01", schedule)
			So(ok, ShouldBeFalse)
		})
	})
}
