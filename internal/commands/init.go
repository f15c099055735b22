package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cardledger/cardledger/internal/config"
	"github.com/cardledger/cardledger/internal/rules"
)

const rulesFileName = "rules.yaml"

func newInitCommand() *cobra.Command {
	var force bool
	var fuelThreshold float64

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a ledger directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			if err := runInit(absDir, fuelThreshold, force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized ledger directory at %s\n", absDir)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing "+config.FileName)
	cmd.Flags().Float64Var(&fuelThreshold, "fuel-threshold", 30, "fuel purchases below this amount are labeled as indiscretions")

	return cmd
}

func runInit(dir string, fuelThreshold float64, force bool) error {
	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", cfgPath)
	}

	cfg := config.Default()
	cfg.Policy.FuelThreshold = fuelThreshold
	cfg.RulesFile = rulesFileName
	if err := cfg.Validate(); err != nil {
		return err
	}

	for _, d := range []string{cfg.Input.Dir, "logs"} {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}
	cfg.Output.AuditLog = filepath.Join("logs", "audit-log.csv")

	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	if err := rules.SaveTable(filepath.Join(dir, rulesFileName), rules.DefaultTable(cfg.RulePolicy())); err != nil {
		return fmt.Errorf("writing rules: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, cfg.Input.Dir, ".gitkeep"), []byte{}, 0o644); err != nil {
		return fmt.Errorf("writing .gitkeep: %w", err)
	}

	gitignore := cfg.Output.Ledger + "\n" + cfg.Output.Workbook + "\n" + cfg.Input.Dir + "/*.csv\n" + cfg.Input.Dir + "/*.xlsx\n.env\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	return nil
}
