// Package summary groups and totals labeled transactions for reports.
package summary

import (
	"fmt"
	"sort"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/cardledger/cardledger/internal/model"
)

// OtherKey is the bucket TopN folds the tail into.
const OtherKey = "Other Categories"

// Group is the total and count of records sharing a key.
type Group struct {
	Key   string
	Total decimal.Decimal
	Count int
}

// Period is a calendar bucket size.
type Period int

const (
	Month Period = iota
	Week
	Day
)

func (p Period) String() string {
	switch p {
	case Month:
		return "month"
	case Week:
		return "week"
	case Day:
		return "day"
	default:
		return "unknown"
	}
}

// ParsePeriod maps "month", "week" or "day" to a Period.
func ParsePeriod(s string) (Period, error) {
	switch s {
	case "month":
		return Month, nil
	case "week":
		return Week, nil
	case "day":
		return Day, nil
	default:
		return 0, fmt.Errorf("unknown period %q", s)
	}
}

func groupBy(records []model.Transaction, key func(model.Transaction) (string, bool)) []Group {
	idx := make(map[string]int)
	var groups []Group
	for _, r := range records {
		k, ok := key(r)
		if !ok {
			continue
		}
		i, seen := idx[k]
		if !seen {
			i = len(groups)
			idx[k] = i
			groups = append(groups, Group{Key: k, Total: decimal.Zero})
		}
		groups[i].Total = groups[i].Total.Add(r.Amount)
		groups[i].Count++
	}
	return groups
}

func sortByTotal(groups []Group) []Group {
	sort.SliceStable(groups, func(i, j int) bool {
		if c := groups[i].Total.Cmp(groups[j].Total); c != 0 {
			return c > 0
		}
		return groups[i].Key < groups[j].Key
	})
	return groups
}

// ByLabel totals records per label, largest first.
func ByLabel(records []model.Transaction) []Group {
	return sortByTotal(groupBy(records, func(r model.Transaction) (string, bool) {
		return r.Label, true
	}))
}

// ByCard totals records per card, largest first.
func ByCard(records []model.Transaction) []Group {
	return sortByTotal(groupBy(records, func(r model.Transaction) (string, bool) {
		return r.Card, true
	}))
}

// PeriodKey returns the bucket key of d: YYYY-MM, YYYY-Www (ISO week) or YYYY-MM-DD.
func PeriodKey(d civil.Date, p Period) string {
	switch p {
	case Week:
		y, w := d.In(time.UTC).ISOWeek()
		return fmt.Sprintf("%04d-W%02d", y, w)
	case Day:
		return d.String()
	default:
		return fmt.Sprintf("%04d-%02d", d.Year, int(d.Month))
	}
}

// ByPeriod totals dated records per calendar bucket in chronological order.
// Records without a parsed date are left out.
func ByPeriod(records []model.Transaction, p Period) []Group {
	groups := groupBy(records, func(r model.Transaction) (string, bool) {
		if !r.HasDate() {
			return "", false
		}
		return PeriodKey(r.Date, p), true
	})
	sort.Slice(groups, func(i, j int) bool { return groups[i].Key < groups[j].Key })
	return groups
}

var weekdays = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// ByWeekday totals dated records per weekday, Monday first. Every weekday
// is present even when empty.
func ByWeekday(records []model.Transaction) []Group {
	groups := make([]Group, len(weekdays))
	pos := make(map[time.Weekday]int, len(weekdays))
	for i, wd := range weekdays {
		groups[i] = Group{Key: wd.String(), Total: decimal.Zero}
		pos[wd] = i
	}
	for _, r := range records {
		if !r.HasDate() {
			continue
		}
		i := pos[r.Date.In(time.UTC).Weekday()]
		groups[i].Total = groups[i].Total.Add(r.Amount)
		groups[i].Count++
	}
	return groups
}

// TopN keeps the first n groups and folds the rest into one otherKey group.
func TopN(groups []Group, n int, otherKey string) []Group {
	if n < 0 {
		n = 0
	}
	if len(groups) <= n {
		return groups
	}
	out := make([]Group, 0, n+1)
	out = append(out, groups[:n]...)
	other := Group{Key: otherKey, Total: decimal.Zero}
	for _, g := range groups[n:] {
		other.Total = other.Total.Add(g.Total)
		other.Count += g.Count
	}
	return append(out, other)
}

// FilterLabels returns records carrying any of labels.
func FilterLabels(records []model.Transaction, labels ...string) []model.Transaction {
	want := make(map[string]bool, len(labels))
	for _, l := range labels {
		want[l] = true
	}
	var out []model.Transaction
	for _, r := range records {
		if want[r.Label] {
			out = append(out, r)
		}
	}
	return out
}

// Total sums record amounts.
func Total(records []model.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, r := range records {
		total = total.Add(r.Amount)
	}
	return total
}

// Stats is a headline view of a ledger.
type Stats struct {
	Total          decimal.Decimal
	Count          int
	Average        decimal.Decimal
	First          civil.Date
	Last           civil.Date
	MonthsCovered  int
	MonthlyAverage decimal.Decimal
}

// Overview computes headline statistics. Months covered is the dated span in
// days divided by 30, never less than 1.
func Overview(records []model.Transaction) Stats {
	s := Stats{
		Total:          Total(records),
		Count:          len(records),
		Average:        decimal.Zero,
		MonthsCovered:  1,
		MonthlyAverage: decimal.Zero,
	}
	if s.Count > 0 {
		s.Average = s.Total.Div(decimal.NewFromInt(int64(s.Count))).Round(2)
	}
	for _, r := range records {
		if !r.HasDate() {
			continue
		}
		if !s.First.IsValid() || r.Date.Before(s.First) {
			s.First = r.Date
		}
		if !s.Last.IsValid() || r.Date.After(s.Last) {
			s.Last = r.Date
		}
	}
	if s.First.IsValid() {
		if m := s.Last.DaysSince(s.First) / 30; m > 1 {
			s.MonthsCovered = m
		}
	}
	s.MonthlyAverage = s.Total.Div(decimal.NewFromInt(int64(s.MonthsCovered))).Round(2)
	return s
}
