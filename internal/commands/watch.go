package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/cardledger/cardledger/internal/config"
	"github.com/cardledger/cardledger/internal/logger"
)

func newWatchCommand(s *session) *cobra.Command {
	var schedule string
	var now bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Rebuild the ledger on a cron schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if schedule == "" {
				schedule = s.cfg.Schedule
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return watch(ctx, cmd.OutOrStdout(), s.cfg, schedule, now)
		},
	}

	cmd.Flags().StringVar(&schedule, "schedule", "", "cron expression (overrides config)")
	cmd.Flags().BoolVar(&now, "now", false, "run once immediately before waiting for the schedule")

	return cmd
}

// watch runs the pipeline on schedule until ctx is done. Runs never overlap.
func watch(ctx context.Context, w io.Writer, cfg *config.Config, schedule string, immediate bool) error {
	if schedule == "" {
		return errors.New("no schedule configured")
	}
	log := logger.FromContext(ctx)

	job := func() {
		log.Info().Msg("starting scheduled ledger build")
		if err := runPipeline(ctx, w, cfg, nil, false); err != nil {
			log.Error().Err(err).Msg("scheduled ledger build failed")
			return
		}
		log.Info().Msg("scheduled ledger build completed")
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(schedule, job); err != nil {
		return fmt.Errorf("unable to schedule ledger build %q: %w", schedule, err)
	}

	if immediate {
		job()
	}

	c.Start()
	log.Info().Str("schedule", schedule).Msg("watch scheduler started")

	<-ctx.Done()
	<-c.Stop().Done()
	log.Info().Msg("watch scheduler stopped")
	return nil
}
