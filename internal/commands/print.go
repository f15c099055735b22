package commands

import (
	"fmt"
	"io"

	"github.com/cardledger/cardledger/internal/pipeline"
	"github.com/cardledger/cardledger/internal/summary"
)

func printGroups(w io.Writer, title, keyTitle string, groups []summary.Group) {
	fmt.Fprintf(w, "\n%s\n", title)
	fmt.Fprintf(w, "  %-36s %6s %12s\n", keyTitle, "Count", "Total")
	for _, g := range groups {
		fmt.Fprintf(w, "  %-36s %6d %12s\n", g.Key, g.Count, g.Total.StringFixed(2))
	}
}

func printOverview(w io.Writer, s summary.Stats) {
	fmt.Fprintf(w, "Transactions:    %d\n", s.Count)
	fmt.Fprintf(w, "Total spend:     %s\n", s.Total.StringFixed(2))
	fmt.Fprintf(w, "Average:         %s\n", s.Average.StringFixed(2))
	if s.First.IsValid() {
		fmt.Fprintf(w, "Date range:      %s to %s\n", s.First, s.Last)
	}
	fmt.Fprintf(w, "Monthly average: %s (%d months)\n", s.MonthlyAverage.StringFixed(2), s.MonthsCovered)
}

func printTrips(w io.Writer, trips []summary.TripReport) {
	for _, t := range trips {
		fmt.Fprintf(w, "\nTrip: %s (%s to %s)\n", t.Trip.Name, t.Trip.Start, t.Trip.End)
		fmt.Fprintf(w, "  Total: %s over %d transactions\n", t.Total.StringFixed(2), t.Count)
		if t.Excluded > 0 {
			fmt.Fprintf(w, "  Excluded: %d transactions (%s)\n", t.Excluded, t.ExcludedTotal.StringFixed(2))
		}
		for _, g := range t.ByLabel {
			fmt.Fprintf(w, "    %-34s %12s\n", g.Key, g.Total.StringFixed(2))
		}
		for _, g := range t.ByCard {
			fmt.Fprintf(w, "    card %-29s %12s\n", g.Key, g.Total.StringFixed(2))
		}
	}
}

func printSources(w io.Writer, sources []pipeline.SourceReport) {
	fmt.Fprintln(w, "Sources")
	for _, s := range sources {
		if s.Skipped {
			fmt.Fprintf(w, "  %-36s skipped: %s\n", s.Name, s.Reason)
			continue
		}
		fmt.Fprintf(w, "  %-36s %-10s %5d records", s.Name, s.Loader, s.Records)
		if s.Undated > 0 {
			fmt.Fprintf(w, ", %d undated", s.Undated)
		}
		fmt.Fprintln(w)
	}
}
