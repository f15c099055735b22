package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"cloud.google.com/go/civil"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/cardledger/cardledger/internal/importer"
	"github.com/cardledger/cardledger/internal/rules"
	"github.com/cardledger/cardledger/internal/summary"
)

// FileName is the default config file name.
const FileName = "cardledger.yaml"

// Environment overrides applied by ApplyEnv.
const (
	EnvConfig   = "CARDLEDGER_CONFIG"
	EnvInputDir = "CARDLEDGER_INPUT_DIR"
	EnvLogLevel = "CARDLEDGER_LOG_LEVEL"
)

// Config represents the top-level cardledger.yaml configuration.
type Config struct {
	Input     InputConfig    `yaml:"input"`
	Output    OutputConfig   `yaml:"output"`
	Policy    PolicyConfig   `yaml:"policy"`
	RulesFile string         `yaml:"rules_file,omitempty"`
	Trips     []summary.Trip `yaml:"trips,omitempty"`
	Log       LogConfig      `yaml:"log"`
	Schedule  string         `yaml:"schedule,omitempty"`
}

// InputConfig locates bank exports and maps file names to loaders.
type InputConfig struct {
	Dir     string                   `yaml:"dir"`
	Sources []importer.SourcePattern `yaml:"sources,omitempty"`
}

// OutputConfig names the files a run writes. Empty paths are skipped.
type OutputConfig struct {
	Ledger   string `yaml:"ledger"`
	Workbook string `yaml:"workbook,omitempty"`
	AuditLog string `yaml:"audit_log,omitempty"`
}

// PolicyConfig holds the spending policy constants.
type PolicyConfig struct {
	FuelThreshold          float64 `yaml:"fuel_threshold"`
	TripExclusionThreshold float64 `yaml:"trip_exclusion_threshold"`
	TripExclusionLabel     string  `yaml:"trip_exclusion_label"`
	DefaultLabel           string  `yaml:"default_label"`
}

// LogConfig controls logger output.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads a cardledger.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	cfg.Trips = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.resolve(filepath.Dir(path))
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Validate checks policy values and trip windows.
func (c *Config) Validate() error {
	if c.Policy.FuelThreshold < 0 {
		return errors.New("policy.fuel_threshold must not be negative")
	}
	if c.Policy.TripExclusionThreshold < 0 {
		return errors.New("policy.trip_exclusion_threshold must not be negative")
	}
	if c.Policy.DefaultLabel == "" {
		return errors.New("policy.default_label is required")
	}
	for _, t := range c.Trips {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("trips: %w", err)
		}
	}
	return nil
}

// resolve makes relative paths relative to the config file's directory.
func (c *Config) resolve(base string) {
	for _, p := range []*string{&c.Input.Dir, &c.Output.Ledger, &c.Output.Workbook, &c.Output.AuditLog, &c.RulesFile} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(base, *p)
		}
	}
}

// RulePolicy returns the policy for the built-in rule table.
func (c *Config) RulePolicy() rules.Policy {
	return rules.Policy{FuelThreshold: decimal.NewFromFloat(c.Policy.FuelThreshold)}
}

// TripPolicy returns the trip exclusion policy.
func (c *Config) TripPolicy() summary.TripPolicy {
	return summary.TripPolicy{
		ExcludeLabel: c.Policy.TripExclusionLabel,
		Threshold:    decimal.NewFromFloat(c.Policy.TripExclusionThreshold),
	}
}

// RuleTable returns the table named by RulesFile, or the built-in table.
func (c *Config) RuleTable() (rules.Table, error) {
	if c.RulesFile == "" {
		return rules.DefaultTable(c.RulePolicy()), nil
	}
	return rules.LoadTable(c.RulesFile)
}

// Engine compiles the effective rule table.
func (c *Config) Engine() (*rules.Engine, error) {
	table, err := c.RuleTable()
	if err != nil {
		return nil, err
	}
	return rules.NewEngine(table, c.Policy.DefaultLabel)
}

// LoadDotEnv loads variables from the named .env files, or ./.env when none
// are given. Missing files are ignored and existing variables win.
func LoadDotEnv(files ...string) {
	_ = godotenv.Load(files...)
}

// ConfigPath returns CARDLEDGER_CONFIG when set, otherwise fallback.
func ConfigPath(fallback string) string {
	if p := os.Getenv(EnvConfig); p != "" {
		return p
	}
	return fallback
}

// ApplyEnv overrides config values from the environment.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvInputDir); v != "" {
		c.Input.Dir = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
}

func date(y, m, d int) civil.Date {
	return civil.Date{Year: y, Month: time.Month(m), Day: d}
}

// Default returns a Config with sensible defaults for a new ledger directory.
func Default() *Config {
	return &Config{
		Input: InputConfig{
			Dir:     "import",
			Sources: append([]importer.SourcePattern(nil), importer.DefaultPatterns...),
		},
		Output: OutputConfig{
			Ledger:   "All_Transactions_Merged.csv",
			Workbook: "All_Transactions_Summary.xlsx",
			AuditLog: "audit-log.csv",
		},
		Policy: PolicyConfig{
			FuelThreshold:          30,
			TripExclusionThreshold: 30,
			TripExclusionLabel:     rules.LabelWalmart,
			DefaultLabel:           rules.LabelUncategorized,
		},
		Trips: []summary.Trip{
			{Name: "NYC Trip", Start: date(2025, 7, 1), End: date(2025, 7, 7), Description: "New York City - July 1-7, 2025"},
			{Name: "Atlanta (August)", Start: date(2025, 8, 16), End: date(2025, 8, 16), Description: "Atlanta - August 16, 2025 (Same Day)"},
			{Name: "Dallas Trip", Start: date(2025, 10, 3), End: date(2025, 10, 5), Description: "Dallas - October 3-5, 2025"},
			{Name: "North Carolina", Start: date(2025, 10, 16), End: date(2025, 10, 19), Description: "North Carolina - October 16-19, 2025"},
			{Name: "Memphis (October)", Start: date(2025, 10, 20), End: date(2025, 10, 20), Description: "Memphis - October 20, 2025 (Same Day)"},
			{Name: "Atlanta (November)", Start: date(2025, 11, 7), End: date(2025, 11, 9), Description: "Atlanta - November 7-9, 2025"},
			{Name: "Memphis (November)", Start: date(2025, 11, 25), End: date(2025, 11, 26), Description: "Memphis - November 25-26, 2025"},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Schedule: "0 6 * * *",
	}
}
