package scoring_test

import (
	"testing"

	"github.com/SamueleCorsalini/outfit-chart/internal/domain/scoring"
	"github.com/SamueleCorsalini/outfit-chart/internal/ledger"
	. "github.com/smartystreets/goconvey/convey"
)

func top3(date string, names ...string) ledger.DailyTop3 {
	return ledger.DailyTop3{Date: date, Names: [3]string{names[0], names[1], names[2]}}
}

func TestComputeTotals(t *testing.T) {
	Convey("Given a ledger with one daily top-3 and no extra points", t, func() {
		daily := map[string]ledger.DailyTop3{
			"2024-01-10": top3("2024-01-10", "Ada", "Bo", "Cy"),
		}

		Convey("When computing totals", func() {
			totals := scoring.ComputeTotals(daily, nil)

			Convey("Then each name earns its rank points in order", func() {
				So(totals, ShouldResemble, []scoring.Total{
					{Name: "Ada", Score: 25},
					{Name: "Bo", Score: 20},
					{Name: "Cy", Score: 15},
				})
			})
		})

		Convey("When adding an extra-point grant for Bo", func() {
			extra := []ledger.ExtraPoints{
				{Date: "2024-01-11", Name: "Bo", Points: 10, Reason: "sharp blazer"},
			}
			totals := scoring.ComputeTotals(daily, extra)

			Convey("Then Bo moves ahead of Ada", func() {
				So(totals, ShouldResemble, []scoring.Total{
					{Name: "Bo", Score: 30},
					{Name: "Ada", Score: 25},
					{Name: "Cy", Score: 15},
				})
			})
		})

		Convey("When computing totals twice on the same snapshot", func() {
			first := scoring.ComputeTotals(daily, nil)
			second := scoring.ComputeTotals(daily, nil)

			Convey("Then the output is identical", func() {
				So(second, ShouldResemble, first)
			})
		})
	})

	Convey("Given an empty ledger", t, func() {
		Convey("When computing totals", func() {
			totals := scoring.ComputeTotals(map[string]ledger.DailyTop3{}, nil)

			Convey("Then there are no totals", func() {
				So(totals, ShouldBeEmpty)
			})
		})
	})

	Convey("Given several days and grants", t, func() {
		daily := map[string]ledger.DailyTop3{
			"2024-01-10": top3("2024-01-10", "Ada", "Bo", "Cy"),
			"2024-01-11": top3("2024-01-11", "Bo", "Ada", "Cy"),
			"2024-01-12": top3("2024-01-12", "Cy", "Bo", "Ada"),
		}
		extra := []ledger.ExtraPoints{
			{Date: "2024-01-12", Name: "Dee", Points: 5, Reason: "vintage scarf"},
			{Date: "2024-01-13", Name: "Ada", Points: 3, Reason: "matching socks"},
		}

		Convey("When computing totals", func() {
			totals := scoring.ComputeTotals(daily, extra)

			Convey("Then the ranking is sorted non-increasing by score", func() {
				for i := 1; i < len(totals); i++ {
					So(totals[i].Score, ShouldBeLessThanOrEqualTo, totals[i-1].Score)
				}
			})

			Convey("Then each total obeys the sum law", func() {
				counts := map[string][3]int{}
				for _, rec := range daily {
					for i, name := range rec.Names {
						c := counts[name]
						c[i]++
						counts[name] = c
					}
				}
				for _, total := range totals {
					c := counts[total.Name]
					want := 25*c[0] + 20*c[1] + 15*c[2]
					for _, grant := range extra {
						if grant.Name == total.Name {
							want += grant.Points
						}
					}
					So(total.Score, ShouldEqual, want)
				}
			})

			Convey("Then a name that never placed still appears", func() {
				names := make([]string, 0, len(totals))
				for _, total := range totals {
					names = append(names, total.Name)
				}
				So(names, ShouldContain, "Dee")
			})
		})
	})

	Convey("Given a podium naming the same person twice", t, func() {
		daily := map[string]ledger.DailyTop3{
			"2024-01-10": top3("2024-01-10", "Ada", "Ada", "Cy"),
		}

		Convey("When computing totals", func() {
			totals := scoring.ComputeTotals(daily, nil)

			Convey("Then both rank points are credited", func() {
				So(totals[0], ShouldResemble, scoring.Total{Name: "Ada", Score: 45})
			})
		})
	})
}

func TestRecordedDates(t *testing.T) {
	Convey("Given podiums recorded out of order", t, func() {
		daily := map[string]ledger.DailyTop3{
			"2024-01-12": top3("2024-01-12", "Ada", "Bo", "Cy"),
			"2024-01-10": top3("2024-01-10", "Cy", "Ada", "Bo"),
		}

		Convey("When listing the recorded dates", func() {
			dates := scoring.RecordedDates(daily)

			Convey("Then they come back sorted ascending", func() {
				So(dates, ShouldResemble, []string{"2024-01-10", "2024-01-12"})
			})
		})
	})

	Convey("Given no recorded podiums", t, func() {
		Convey("When listing the recorded dates", func() {
			dates := scoring.RecordedDates(map[string]ledger.DailyTop3{})

			Convey("Then the list is empty", func() {
				So(dates, ShouldBeEmpty)
			})
		})
	})
}

func TestLookupTop3(t *testing.T) {
	Convey("Given a table with one recorded date", t, func() {
		daily := map[string]ledger.DailyTop3{
			"2024-01-10": top3("2024-01-10", "Ada", "Bo", "Cy"),
		}

		Convey("When looking up the recorded date", func() {
			podium, ok := scoring.LookupTop3("2024-01-10", daily)

			Convey("Then the podium comes back with rank points", func() {
				So(ok, ShouldBeTrue)
				So(podium[0], ShouldResemble, scoring.Placement{Rank: 1, Name: "Ada", Points: 25})
				So(podium[1], ShouldResemble, scoring.Placement{Rank: 2, Name: "Bo", Points: 20})
				So(podium[2], ShouldResemble, scoring.Placement{Rank: 3, Name: "Cy", Points: 15})
			})
		})

		Convey("When looking up a date with no record", func() {
			_, ok := scoring.LookupTop3("2024-01-09", daily)

			Convey("Then there is no podium", func() {
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When looking up a non-canonical spelling of the date", func() {
			podium, ok := scoring.LookupTop3("2024-1-10", daily)

			Convey("Then the same calendar day is recognized", func() {
				So(ok, ShouldBeTrue)
				So(podium[0].Name, ShouldEqual, "Ada")
			})
		})

		Convey("When looking up garbage", func() {
			_, ok := scoring.LookupTop3("not-a-date", daily)

			Convey("Then there is no podium", func() {
				So(ok, ShouldBeFalse)
			})
		})
	})
}

func TestComputeHistory(t *testing.T) {
	Convey("Given podium records and grants across days", t, func() {
		daily := map[string]ledger.DailyTop3{
			"2024-01-11": top3("2024-01-11", "Bo", "Ada", "Cy"),
			"2024-01-10": top3("2024-01-10", "Ada", "Bo", "Cy"),
		}
		extra := []ledger.ExtraPoints{
			{Date: "2024-01-10", Name: "Ada", Points: 5, Reason: "bold hat"},
			{Date: "2024-01-12", Name: "Dee", Points: 7, Reason: "velvet jacket"},
		}

		Convey("When computing history", func() {
			history := scoring.ComputeHistory(daily, extra)

			Convey("Then each participant's events are ordered by date ascending", func() {
				So(history["Ada"], ShouldResemble, []scoring.Event{
					{Date: "2024-01-10", Points: 25},
					{Date: "2024-01-10", Points: 5},
					{Date: "2024-01-11", Points: 20},
				})
				So(history["Bo"], ShouldResemble, []scoring.Event{
					{Date: "2024-01-10", Points: 20},
					{Date: "2024-01-11", Points: 25},
				})
			})

			Convey("Then grant-only participants have a history too", func() {
				So(history["Dee"], ShouldResemble, []scoring.Event{
					{Date: "2024-01-12", Points: 7},
				})
			})

			Convey("And folding it into a cumulative series", func() {
				series := scoring.CumulativeSeries(history)

				Convey("Then running totals collapse same-day events", func() {
					So(series["Ada"], ShouldResemble, []scoring.SeriesPoint{
						{Date: "2024-01-10", Total: 30},
						{Date: "2024-01-11", Total: 50},
					})
					So(series["Cy"], ShouldResemble, []scoring.SeriesPoint{
						{Date: "2024-01-10", Total: 15},
						{Date: "2024-01-11", Total: 30},
					})
				})
			})
		})
	})

	Convey("Given an empty ledger", t, func() {
		Convey("When computing history", func() {
			history := scoring.ComputeHistory(map[string]ledger.DailyTop3{}, nil)

			Convey("Then it is empty", func() {
				So(history, ShouldBeEmpty)
			})
		})
	})
}

func TestComputeProgress(t *testing.T) {
	Convey("Given the fixed goal score", t, func() {
		Convey("Then progress is the clamped score fraction", func() {
			So(scoring.ComputeProgress(500, 500), ShouldEqual, 1.0)
			So(scoring.ComputeProgress(750, 500), ShouldEqual, 1.0)
			So(scoring.ComputeProgress(100, 500), ShouldEqual, 0.2)
			So(scoring.ComputeProgress(0, 500), ShouldEqual, 0.0)
		})
	})
}
