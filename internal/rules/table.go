package rules

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadTable reads a YAML rule table from disk.
func LoadTable(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Table{}, fmt.Errorf("reading rule table: %w", err)
	}
	return UnmarshalTable(data)
}

// UnmarshalTable parses a YAML rule table.
func UnmarshalTable(data []byte) (Table, error) {
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Table{}, fmt.Errorf("parsing rule table: %w", err)
	}
	return t, nil
}

// MarshalTable encodes t as YAML.
func MarshalTable(t Table) ([]byte, error) {
	data, err := yaml.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("marshaling rule table: %w", err)
	}
	return data, nil
}

// SaveTable writes t to path as YAML.
func SaveTable(path string, t Table) error {
	data, err := MarshalTable(t)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing rule table: %w", err)
	}
	return nil
}
