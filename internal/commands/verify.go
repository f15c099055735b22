package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cardledger/cardledger/internal/ledger"
)

func newVerifyCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "verify [ledger.csv]",
		Short: "Check a labeled ledger against the ledger invariants",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := s.cfg.Output.Ledger
			if len(args) > 0 {
				path = args[0]
			}
			eng, err := s.cfg.Engine()
			if err != nil {
				return fmt.Errorf("loading rules: %w", err)
			}
			records, err := ledger.Load(path)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			errs := ledger.Validate(records, eng)
			for _, e := range errs {
				fmt.Fprintln(w, e.Error())
			}
			if len(errs) > 0 {
				return fmt.Errorf("%s: %d invariant violations", path, len(errs))
			}
			fmt.Fprintf(w, "%s: %d records OK\n", path, len(records))
			return nil
		},
	}
}
