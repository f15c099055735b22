package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cardledger/cardledger/internal/buildinfo"
	"github.com/cardledger/cardledger/internal/config"
	"github.com/cardledger/cardledger/internal/logger"
)

// session carries state resolved once per invocation.
type session struct {
	cfgPath string
	cfg     *config.Config
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	s := &session{}

	rootCmd := &cobra.Command{
		Use:     "cardledger",
		Short:   "Merge, label and summarize credit card exports",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return s.setup(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&s.cfgPath, "config", "",
		"config file (default $"+config.EnvConfig+" or ./"+config.FileName+")")

	rootCmd.AddCommand(
		newInitCommand(),
		newRunCommand(s),
		newReportCommand(s),
		newLabelCommand(s),
		newRulesCommand(s),
		newVerifyCommand(s),
		newWatchCommand(s),
	)

	return rootCmd
}

// setup loads .env and the config file, applies environment overrides and
// attaches a logger to the command context. A missing default config file
// falls back to built-in defaults; an explicitly named one must exist.
func (s *session) setup(cmd *cobra.Command) error {
	config.LoadDotEnv()

	explicit := s.cfgPath != "" || os.Getenv(config.EnvConfig) != ""
	path := s.cfgPath
	if path == "" {
		path = config.ConfigPath(config.FileName)
	}

	cfg, err := config.Load(path)
	switch {
	case err == nil:
	case errors.Is(err, os.ErrNotExist) && !explicit:
		cfg = config.Default()
	default:
		return err
	}
	cfg.ApplyEnv()
	s.cfg = cfg

	log, err := logger.New(logger.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Out:    cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("configuring logger: %w", err)
	}
	cmd.SetContext(logger.WithContext(cmd.Context(), log))
	return nil
}
