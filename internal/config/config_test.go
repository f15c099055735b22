package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardledger/cardledger/internal/importer"
	"github.com/cardledger/cardledger/internal/rules"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Input.Sources = append(cfg.Input.Sources, importer.SourcePattern{Pattern: "Amex*", Format: "extracted"})
	cfg.RulesFile = "rules.yaml"

	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "import"), got.Input.Dir)
	assert.Equal(t, filepath.Join(dir, "All_Transactions_Merged.csv"), got.Output.Ledger)
	assert.Equal(t, filepath.Join(dir, "rules.yaml"), got.RulesFile)
	require.Len(t, got.Input.Sources, 4)
	assert.Equal(t, "Amex*", got.Input.Sources[3].Pattern)
	assert.InDelta(t, 30, got.Policy.FuelThreshold, 0.001)
	assert.Equal(t, rules.LabelWalmart, got.Policy.TripExclusionLabel)
	require.Len(t, got.Trips, 7)
	assert.Equal(t, cfg.Trips[0], got.Trips[0])
	assert.Equal(t, "0 6 * * *", got.Schedule)
}

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "import", cfg.Input.Dir)
	assert.Equal(t, importer.DefaultPatterns, cfg.Input.Sources)
	assert.InDelta(t, 30, cfg.Policy.FuelThreshold, 0.001)
	assert.InDelta(t, 30, cfg.Policy.TripExclusionThreshold, 0.001)
	assert.Equal(t, rules.LabelUncategorized, cfg.Policy.DefaultLabel)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)

	require.Len(t, cfg.Trips, 7)
	for _, trip := range cfg.Trips {
		assert.NoError(t, trip.Validate(), trip.Name)
	}

	cfg.Input.Sources[0].Format = "changed"
	assert.Equal(t, "capitalone", importer.DefaultPatterns[0].Format, "defaults are copied")
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(`
input:
  dir: /data/statements
policy:
  fuel_threshold: 25
  trip_exclusion_threshold: 30
  trip_exclusion_label: Walmart
  default_label: Uncategorized
trips:
  - name: Weekend
    start: 2025-09-05
    end: "2025-09-07"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/data/statements", cfg.Input.Dir)
	assert.Equal(t, importer.DefaultPatterns, cfg.Input.Sources)
	assert.Equal(t, "info", cfg.Log.Level)
	require.Len(t, cfg.Trips, 1)
	assert.Equal(t, "2025-09-05", cfg.Trips[0].Start.String())
	assert.Equal(t, "2025-09-07", cfg.Trips[0].End.String())

	e, err := cfg.Engine()
	require.NoError(t, err)
	assert.Equal(t, rules.LabelGasoline, e.Classify("SHELL", decimal.NewFromInt(25)).Label)
	assert.Equal(t, rules.LabelGasIndiscretion, e.Classify("SHELL", decimal.RequireFromString("24.99")).Label)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"negative fuel", "policy:\n  fuel_threshold: -1\n  default_label: X\n"},
		{"negative trip", "policy:\n  trip_exclusion_threshold: -5\n  default_label: X\n"},
		{"no default label", "policy:\n  default_label: \"\"\n"},
		{"backwards trip", "trips:\n  - name: x\n    start: 2025-09-07\n    end: 2025-09-05\n"},
		{"bad yaml", "input: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), FileName)
			require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0o644))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestYAMLFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, Default()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "dir: import")
	assert.Contains(t, contents, "fuel_threshold: 30")
	assert.Contains(t, contents, "trip_exclusion_label: Walmart")
	assert.Contains(t, contents, "name: NYC Trip")
	assert.Contains(t, contents, "pattern: CapitalOne*")
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvInputDir, "/tmp/exports")
	t.Setenv(EnvLogLevel, "debug")

	cfg := Default()
	cfg.ApplyEnv()
	assert.Equal(t, "/tmp/exports", cfg.Input.Dir)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestConfigPath(t *testing.T) {
	t.Setenv(EnvConfig, "")
	assert.Equal(t, FileName, ConfigPath(FileName))

	t.Setenv(EnvConfig, "/etc/cardledger.yaml")
	assert.Equal(t, "/etc/cardledger.yaml", ConfigPath(FileName))
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("CARDLEDGER_LOG_LEVEL=warn\n"), 0o644))
	t.Setenv(EnvLogLevel, "")
	require.NoError(t, os.Unsetenv(EnvLogLevel))

	LoadDotEnv(path)
	assert.Equal(t, "warn", os.Getenv(EnvLogLevel))

	LoadDotEnv(filepath.Join(t.TempDir(), "missing.env"))
}

func TestRuleTable_FromFile(t *testing.T) {
	dir := t.TempDir()
	rulesPath := filepath.Join(dir, "rules.yaml")
	require.NoError(t, os.WriteFile(rulesPath, []byte(`
tiers:
  - name: coffee
    rules:
      - label: Coffee
        patterns: [STARBUCKS]
`), 0o644))

	cfg := Default()
	cfg.RulesFile = rulesPath
	e, err := cfg.Engine()
	require.NoError(t, err)
	assert.Equal(t, []string{"Coffee", rules.LabelUncategorized}, e.Vocabulary())
}

func TestTripPolicy(t *testing.T) {
	p := Default().TripPolicy()
	assert.Equal(t, "Walmart", p.ExcludeLabel)
	assert.Equal(t, "30", p.Threshold.String())
}
