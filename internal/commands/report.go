package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cardledger/cardledger/internal/ledger"
	"github.com/cardledger/cardledger/internal/summary"
)

func newReportCommand(s *session) *cobra.Command {
	var period string
	var labels []string

	cmd := &cobra.Command{
		Use:   "report [ledger.csv]",
		Short: "Summarize a labeled ledger",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := s.cfg.Output.Ledger
			if len(args) > 0 {
				path = args[0]
			}
			p, err := summary.ParsePeriod(period)
			if err != nil {
				return err
			}

			records, err := ledger.Load(path)
			if err != nil {
				return err
			}
			if len(labels) > 0 {
				records = summary.FilterLabels(records, labels...)
			}

			w := cmd.OutOrStdout()
			rep := summary.Summarize(records, s.cfg.Trips, s.cfg.TripPolicy())
			printOverview(w, rep.Overview)
			printGroups(w, "By label", "Label", rep.TopLabels)
			printGroups(w, "By card", "Card", rep.ByCard)
			if p == summary.Month {
				printGroups(w, "By month", "Month", rep.Monthly)
			} else {
				printGroups(w, fmt.Sprintf("By %s", p), "Period", summary.ByPeriod(records, p))
			}
			printGroups(w, "By weekday", "Weekday", rep.Weekday)
			printTrips(w, rep.Trips)
			return nil
		},
	}

	cmd.Flags().StringVar(&period, "period", "month", "period for time totals: day, week or month")
	cmd.Flags().StringSliceVar(&labels, "label", nil, "only include these labels")

	return cmd
}
