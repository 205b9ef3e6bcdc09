package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario: one translator
// configuration and the queries it must translate.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Table is the table the queries search.
	Table string `yaml:"table"`

	// Column is the JSONB column. Empty selects the translator default.
	Column string `yaml:"column,omitempty"`

	// Schema is an optional schema file. Relative paths are resolved
	// against the scenario file's directory by LoadScenario.
	Schema string `yaml:"schema,omitempty"`

	// ServerChoice overrides the schema's server choice indexes.
	ServerChoice []string `yaml:"server_choice,omitempty"`

	// Lang selects the language of error messages ("en" or "de").
	Lang string `yaml:"lang,omitempty"`

	// Cases are translated in order.
	Cases []Case `yaml:"cases"`
}

// Case is one query with its expected translation.
type Case struct {
	CQL string `yaml:"cql"`

	// Where is the expected WHERE predicate.
	Where string `yaml:"where,omitempty"`

	// OrderBy is the expected ORDER BY list.
	OrderBy string `yaml:"order_by,omitempty"`

	// Select is the expected complete statement.
	Select string `yaml:"select,omitempty"`

	// Joins are the expected join aliases in order.
	Joins []string `yaml:"joins,omitempty"`

	// Warnings are the expected warnings. Nil skips the check; an empty
	// list asserts that there are none.
	Warnings []string `yaml:"warnings"`

	// Error expects the translation to fail.
	Error *ExpectError `yaml:"error,omitempty"`
}

// ExpectError specifies an expected translation failure.
type ExpectError struct {
	// Code is the stable error code, such as CQL001.
	Code string `yaml:"code"`

	// Message is the expected rendered message. Empty skips the check.
	Message string `yaml:"message,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Parse YAML with strict field validation (catches typos like "case:" vs "cases:")
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Resolve the schema path BEFORE validation
	if scenario.Schema != "" && !filepath.IsAbs(scenario.Schema) {
		scenario.Schema = filepath.Join(filepath.Dir(path), scenario.Schema)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// LoadScenarios loads every .yaml file in dir, sorted by file name.
func LoadScenarios(dir string) ([]*Scenario, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no scenario files found in %s", dir)
	}
	scenarios := make([]*Scenario, 0, len(paths))
	for _, p := range paths {
		s, err := LoadScenario(p)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(p), err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Table == "" {
		return fmt.Errorf("table is required")
	}

	switch s.Lang {
	case "", "en", "de":
	default:
		return fmt.Errorf("unsupported lang %q", s.Lang)
	}

	if s.Schema != "" {
		if _, err := os.Stat(s.Schema); os.IsNotExist(err) {
			return fmt.Errorf("schema file not found: %s", s.Schema)
		}
	}

	if len(s.Cases) == 0 {
		return fmt.Errorf("cases list is required and must be non-empty")
	}

	for i, c := range s.Cases {
		if err := validateCase(i, &c); err != nil {
			return err
		}
	}

	return nil
}

// validateCase requires at least one expectation and rejects success
// expectations on failing cases.
func validateCase(index int, c *Case) error {
	success := c.Where != "" || c.OrderBy != "" || c.Select != "" || c.Joins != nil || c.Warnings != nil
	if c.Error != nil {
		if c.Error.Code == "" {
			return fmt.Errorf("cases[%d].error: code is required", index)
		}
		if success {
			return fmt.Errorf("cases[%d]: error cannot be combined with where, order_by, select, joins or warnings", index)
		}
		return nil
	}
	if !success {
		return fmt.Errorf("cases[%d]: no expectation given for %q", index, c.CQL)
	}
	return nil
}
