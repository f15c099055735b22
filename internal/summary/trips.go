package summary

import (
	"errors"
	"fmt"
	"sort"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/cardledger/cardledger/internal/model"
)

// Trip is a named, inclusive date window.
type Trip struct {
	Name        string     `yaml:"name"`
	Start       civil.Date `yaml:"start"`
	End         civil.Date `yaml:"end"`
	Description string     `yaml:"description,omitempty"`
}

// Contains reports whether d falls inside the window, both ends included.
func (t Trip) Contains(d civil.Date) bool {
	return !d.Before(t.Start) && !d.After(t.End)
}

// Validate checks that the window is well formed.
func (t Trip) Validate() error {
	if t.Name == "" {
		return errors.New("trip has no name")
	}
	if !t.Start.IsValid() || !t.End.IsValid() {
		return fmt.Errorf("trip %q: invalid date range", t.Name)
	}
	if t.End.Before(t.Start) {
		return fmt.Errorf("trip %q: end %s before start %s", t.Name, t.End, t.Start)
	}
	return nil
}

// TripPolicy drops records labeled ExcludeLabel whose amount is strictly
// greater than Threshold from trip subsets.
type TripPolicy struct {
	ExcludeLabel string
	Threshold    decimal.Decimal
}

func (p TripPolicy) excludes(r model.Transaction) bool {
	return p.ExcludeLabel != "" && r.Label == p.ExcludeLabel && r.Amount.GreaterThan(p.Threshold)
}

// TripSubset returns the dated records inside trip, split into those kept
// and those dropped by policy.
func TripSubset(records []model.Transaction, trip Trip, policy TripPolicy) (kept, excluded []model.Transaction) {
	for _, r := range records {
		if !r.HasDate() || !trip.Contains(r.Date) {
			continue
		}
		if policy.excludes(r) {
			excluded = append(excluded, r)
			continue
		}
		kept = append(kept, r)
	}
	return kept, excluded
}

// TripReport is the aggregated view of one trip.
type TripReport struct {
	Trip          Trip
	Total         decimal.Decimal
	Count         int
	ByLabel       []Group
	ByCard        []Group
	ByDay         []Group
	Excluded      int
	ExcludedTotal decimal.Decimal
}

// Report bundles every view the CLI and workbook render.
type Report struct {
	Overview  Stats
	ByLabel   []Group
	ByCard    []Group
	Monthly   []Group
	Weekday   []Group
	TopLabels []Group
	Trips     []TripReport
}

// TopLabelCount is how many labels Summarize keeps before folding the rest.
const TopLabelCount = 10

// Summarize computes the full report for a labeled ledger. Trip reports are
// ordered by start date.
func Summarize(records []model.Transaction, trips []Trip, policy TripPolicy) Report {
	byLabel := ByLabel(records)
	rep := Report{
		Overview:  Overview(records),
		ByLabel:   byLabel,
		ByCard:    ByCard(records),
		Monthly:   ByPeriod(records, Month),
		Weekday:   ByWeekday(records),
		TopLabels: TopN(byLabel, TopLabelCount, OtherKey),
	}
	ordered := append([]Trip(nil), trips...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Start.Before(ordered[j].Start) })
	for _, trip := range ordered {
		kept, excluded := TripSubset(records, trip, policy)
		rep.Trips = append(rep.Trips, TripReport{
			Trip:          trip,
			Total:         Total(kept),
			Count:         len(kept),
			ByLabel:       ByLabel(kept),
			ByCard:        ByCard(kept),
			ByDay:         ByPeriod(kept, Day),
			Excluded:      len(excluded),
			ExcludedTotal: Total(excluded),
		})
	}
	return rep
}
