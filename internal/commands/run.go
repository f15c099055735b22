package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/cardledger/cardledger/internal/config"
	"github.com/cardledger/cardledger/internal/pipeline"
	"github.com/cardledger/cardledger/internal/summary"
)

func newRunCommand(s *session) *cobra.Command {
	var inputDir string
	var format string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "run [file...]",
		Short: "Build the labeled ledger from bank exports",
		Long: "Loads every recognized export in the input directory (or the files given),\n" +
			"merges and labels them, then writes the ledger CSV, the workbook and the audit log.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := s.cfg
			if inputDir != "" {
				cfg.Input.Dir = inputDir
			}
			var sources []pipeline.Source
			for _, a := range args {
				sources = append(sources, pipeline.Source{Path: a, Format: format})
			}
			return runPipeline(cmd.Context(), cmd.OutOrStdout(), cfg, sources, dryRun)
		},
	}

	cmd.Flags().StringVar(&inputDir, "input", "", "directory of bank exports (overrides config)")
	cmd.Flags().StringVar(&format, "format", "", "loader for the given files (default: match by file name)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the summary without writing any files")

	return cmd
}

func runPipeline(ctx context.Context, w io.Writer, cfg *config.Config, sources []pipeline.Source, dryRun bool) error {
	eng, err := cfg.Engine()
	if err != nil {
		return fmt.Errorf("loading rules: %w", err)
	}

	res, err := pipeline.Run(ctx, pipeline.Options{
		InputDir: cfg.Input.Dir,
		Patterns: cfg.Input.Sources,
		Sources:  sources,
		Engine:   eng,
	})
	if err != nil {
		return err
	}

	rep := summary.Summarize(res.Records, cfg.Trips, cfg.TripPolicy())

	printSources(w, res.Sources)
	fmt.Fprintf(w, "\n%d transactions (%d duplicates dropped)\n\n", len(res.Records), res.Duplicates)
	printOverview(w, rep.Overview)
	printGroups(w, "By label", "Label", rep.TopLabels)
	printGroups(w, "By card", "Card", rep.ByCard)

	if len(res.Violations) > 0 {
		fmt.Fprintf(w, "\n%d ledger invariant violations\n", len(res.Violations))
	}

	if dryRun {
		return nil
	}
	out := pipeline.Outputs{
		Ledger:   cfg.Output.Ledger,
		Workbook: cfg.Output.Workbook,
		AuditLog: cfg.Output.AuditLog,
	}
	if err := res.Write(out, rep, time.Now()); err != nil {
		return fmt.Errorf("writing outputs: %w", err)
	}
	fmt.Fprintf(w, "\nWrote %s\n", out.Ledger)
	if out.Workbook != "" {
		fmt.Fprintf(w, "Wrote %s\n", out.Workbook)
	}
	return nil
}
