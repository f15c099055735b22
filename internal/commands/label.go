package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cardledger/cardledger/internal/normalize"
)

func newLabelCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "label <description> <amount>",
		Short: "Classify a single transaction",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := normalize.ParseAmount(args[1])
			if err != nil {
				return fmt.Errorf("amount %q: %w", args[1], err)
			}
			eng, err := s.cfg.Engine()
			if err != nil {
				return fmt.Errorf("loading rules: %w", err)
			}

			m := eng.Classify(args[0], amount)
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Label:   %s\n", m.Label)
			if !m.Matched {
				fmt.Fprintln(w, "Tier:    (default)")
				return nil
			}
			fmt.Fprintf(w, "Tier:    %d (%s)\n", m.Tier+1, m.TierName)
			fmt.Fprintf(w, "Pattern: %s\n", m.Pattern)
			return nil
		},
	}
}
