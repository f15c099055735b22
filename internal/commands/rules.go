package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cardledger/cardledger/internal/rules"
)

func newRulesCommand(s *session) *cobra.Command {
	var labelsOnly bool

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Print the effective rule table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := s.cfg.Engine()
			if err != nil {
				return fmt.Errorf("loading rules: %w", err)
			}
			w := cmd.OutOrStdout()

			if labelsOnly {
				for _, l := range eng.Vocabulary() {
					tier, ok := eng.TierOf(l)
					if !ok {
						tier = "default"
					}
					fmt.Fprintf(w, "%-36s %s\n", l, tier)
				}
				return nil
			}

			data, err := rules.MarshalTable(eng.Table())
			if err != nil {
				return err
			}
			_, err = w.Write(data)
			return err
		},
	}

	cmd.Flags().BoolVar(&labelsOnly, "labels", false, "list labels and their tiers instead of the full table")

	return cmd
}
