package summary

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardledger/cardledger/internal/model"
)

func date(y, m, d int) civil.Date {
	return civil.Date{Year: y, Month: time.Month(m), Day: d}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func rec(d civil.Date, label, card, amount string) model.Transaction {
	return model.Transaction{Date: d, RawDate: d.String(), Label: label, Card: card, Amount: dec(amount)}
}

func sample() []model.Transaction {
	return []model.Transaction{
		rec(date(2025, 7, 1), "DoorDash", "Chase", "15.32"),
		rec(date(2025, 7, 2), "Gasoline", "Discover", "35.00"),
		rec(date(2025, 7, 2), "DoorDash", "Discover", "20.00"),
		rec(date(2025, 8, 4), "Walmart", "CapitalOne", "45.00"),
		rec(date(2025, 8, 5), "Netflix", "Chase", "15.49"),
		{RawDate: "13/45/2025", Label: "Amazon Prime", Card: "Discover", Amount: dec("14.99")},
	}
}

func TestByLabel(t *testing.T) {
	groups := ByLabel(sample())
	require.Len(t, groups, 5)
	assert.Equal(t, "Walmart", groups[0].Key)
	assert.Equal(t, "DoorDash", groups[1].Key)
	assert.Equal(t, "35.32", groups[1].Total.StringFixed(2))
	assert.Equal(t, 2, groups[1].Count)
	assert.Equal(t, "Gasoline", groups[2].Key)
}

func TestByLabel_TieBrokenByKey(t *testing.T) {
	groups := ByLabel([]model.Transaction{
		rec(date(2025, 1, 1), "Zeta", "c", "5"),
		rec(date(2025, 1, 1), "Alpha", "c", "5"),
	})
	assert.Equal(t, "Alpha", groups[0].Key)
}

func TestByCard(t *testing.T) {
	groups := ByCard(sample())
	require.Len(t, groups, 3)
	assert.Equal(t, "Discover", groups[0].Key)
	assert.Equal(t, "69.99", groups[0].Total.StringFixed(2))
	assert.Equal(t, 3, groups[0].Count)
}

func TestByPeriod(t *testing.T) {
	months := ByPeriod(sample(), Month)
	require.Len(t, months, 2)
	assert.Equal(t, "2025-07", months[0].Key)
	assert.Equal(t, "70.32", months[0].Total.StringFixed(2))
	assert.Equal(t, "2025-08", months[1].Key)

	days := ByPeriod(sample(), Day)
	require.Len(t, days, 4)
	assert.Equal(t, "2025-07-01", days[0].Key)

	weeks := ByPeriod(sample(), Week)
	require.Len(t, weeks, 2)
	assert.Equal(t, "2025-W27", weeks[0].Key)
	assert.Equal(t, "2025-W32", weeks[1].Key)
}

func TestPeriodKey_ISOWeekYear(t *testing.T) {
	assert.Equal(t, "2025-W01", PeriodKey(date(2024, 12, 30), Week))
}

func TestParsePeriod(t *testing.T) {
	p, err := ParsePeriod("week")
	require.NoError(t, err)
	assert.Equal(t, Week, p)
	assert.Equal(t, "week", p.String())

	_, err = ParsePeriod("fortnight")
	assert.Error(t, err)
}

func TestByWeekday(t *testing.T) {
	groups := ByWeekday(sample())
	require.Len(t, groups, 7)
	assert.Equal(t, "Monday", groups[0].Key)
	assert.Equal(t, "Sunday", groups[6].Key)
	// 2025-07-01 and 2025-08-05 are Tuesdays.
	assert.Equal(t, 2, groups[1].Count)
	assert.Equal(t, "30.81", groups[1].Total.StringFixed(2))
	// 2025-08-04 is a Monday.
	assert.Equal(t, "45.00", groups[0].Total.StringFixed(2))
	assert.Equal(t, 0, groups[4].Count)
}

func TestTopN(t *testing.T) {
	groups := ByLabel(sample())
	top := TopN(groups, 2, OtherKey)
	require.Len(t, top, 3)
	assert.Equal(t, OtherKey, top[2].Key)
	assert.Equal(t, 3, top[2].Count)
	assert.Equal(t, "65.48", top[2].Total.StringFixed(2))

	assert.Len(t, TopN(groups, 10, OtherKey), 5)
	assert.Len(t, TopN(groups, -1, OtherKey), 1)
}

func TestFilterLabels(t *testing.T) {
	got := FilterLabels(sample(), "DoorDash", "Netflix")
	assert.Len(t, got, 3)
	assert.Empty(t, FilterLabels(sample()))
}

func TestOverview(t *testing.T) {
	s := Overview(sample())
	assert.Equal(t, 6, s.Count)
	assert.Equal(t, "145.80", s.Total.StringFixed(2))
	assert.Equal(t, "24.30", s.Average.StringFixed(2))
	assert.Equal(t, date(2025, 7, 1), s.First)
	assert.Equal(t, date(2025, 8, 5), s.Last)
	assert.Equal(t, 1, s.MonthsCovered)
	assert.Equal(t, "145.80", s.MonthlyAverage.StringFixed(2))
}

func TestOverview_MultiMonth(t *testing.T) {
	s := Overview([]model.Transaction{
		rec(date(2025, 7, 1), "A", "c", "100"),
		rec(date(2025, 10, 1), "A", "c", "200"),
	})
	assert.Equal(t, 3, s.MonthsCovered)
	assert.Equal(t, "100.00", s.MonthlyAverage.StringFixed(2))
}

func TestOverview_Empty(t *testing.T) {
	s := Overview(nil)
	assert.Equal(t, 0, s.Count)
	assert.True(t, s.Total.IsZero())
	assert.Equal(t, 1, s.MonthsCovered)
	assert.False(t, s.First.IsValid())
}

var walmartPolicy = TripPolicy{ExcludeLabel: "Walmart", Threshold: decimal.NewFromInt(30)}

func TestTripSubset_WalmartExclusion(t *testing.T) {
	trip := Trip{Name: "NYC Trip", Start: date(2025, 7, 1), End: date(2025, 7, 7)}
	records := []model.Transaction{
		rec(date(2025, 7, 2), "Walmart", "c", "45.00"),
		rec(date(2025, 7, 3), "Walmart", "c", "25.00"),
		rec(date(2025, 7, 4), "Walmart", "c", "30.00"),
		rec(date(2025, 7, 5), "Gasoline", "c", "45.00"),
	}

	kept, excluded := TripSubset(records, trip, walmartPolicy)
	require.Len(t, excluded, 1)
	assert.Equal(t, "45.00", excluded[0].Amount.StringFixed(2))
	require.Len(t, kept, 3)
	assert.Equal(t, "25.00", kept[0].Amount.StringFixed(2))
	assert.Equal(t, "30.00", kept[1].Amount.StringFixed(2), "threshold itself is kept")
}

func TestTripSubset_InclusiveBounds(t *testing.T) {
	trip := Trip{Name: "Dallas Trip", Start: date(2025, 10, 3), End: date(2025, 10, 5)}
	records := []model.Transaction{
		rec(date(2025, 10, 2), "A", "c", "1"),
		rec(date(2025, 10, 3), "A", "c", "1"),
		rec(date(2025, 10, 5), "A", "c", "1"),
		rec(date(2025, 10, 6), "A", "c", "1"),
		{RawDate: "bad", Label: "A", Amount: dec("1")},
	}
	kept, excluded := TripSubset(records, trip, walmartPolicy)
	assert.Len(t, kept, 2)
	assert.Empty(t, excluded)
}

func TestTrip_Validate(t *testing.T) {
	assert.NoError(t, Trip{Name: "x", Start: date(2025, 1, 1), End: date(2025, 1, 1)}.Validate())
	assert.Error(t, Trip{Start: date(2025, 1, 1), End: date(2025, 1, 1)}.Validate())
	assert.Error(t, Trip{Name: "x", Start: date(2025, 1, 2), End: date(2025, 1, 1)}.Validate())
	assert.Error(t, Trip{Name: "x"}.Validate())
}

func TestSummarize(t *testing.T) {
	trips := []Trip{
		{Name: "August", Start: date(2025, 8, 1), End: date(2025, 8, 31)},
		{Name: "NYC Trip", Start: date(2025, 7, 1), End: date(2025, 7, 7)},
	}
	rep := Summarize(sample(), trips, walmartPolicy)
	assert.Equal(t, "August", trips[0].Name, "caller's slice is left in place")

	assert.Len(t, rep.ByLabel, 5)
	assert.Len(t, rep.TopLabels, 5)
	assert.Len(t, rep.Monthly, 2)
	assert.Len(t, rep.Weekday, 7)
	require.Len(t, rep.Trips, 2)

	nyc := rep.Trips[0]
	assert.Equal(t, 3, nyc.Count)
	assert.Equal(t, "70.32", nyc.Total.StringFixed(2))
	assert.Equal(t, "NYC Trip", nyc.Trip.Name)
	assert.Len(t, nyc.ByDay, 2)
	require.Len(t, nyc.ByCard, 2)
	assert.Equal(t, "Discover", nyc.ByCard[0].Key)
	assert.Equal(t, "55.00", nyc.ByCard[0].Total.StringFixed(2))
	assert.Equal(t, 2, nyc.ByCard[0].Count)
	assert.Equal(t, "Chase", nyc.ByCard[1].Key)
	assert.Equal(t, "15.32", nyc.ByCard[1].Total.StringFixed(2))

	aug := rep.Trips[1]
	assert.Equal(t, "August", aug.Trip.Name)
	assert.Equal(t, 1, aug.Count)
	require.Len(t, aug.ByCard, 1)
	assert.Equal(t, "Chase", aug.ByCard[0].Key)
	assert.Equal(t, 1, aug.Excluded)
	assert.Equal(t, "45.00", aug.ExcludedTotal.StringFixed(2))
}
