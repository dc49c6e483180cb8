package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario is one program plus what running it must produce.
type Scenario struct {
	// Name uniquely identifies the scenario and names its golden file.
	Name string `yaml:"name"`

	// Description says what the scenario checks.
	Description string `yaml:"description"`

	// Source is the program text.
	Source string `yaml:"source,omitempty"`

	// SourceFile is a path to the program, relative to the scenario file.
	SourceFile string `yaml:"source_file,omitempty"`

	// RunID is stamped on the trace. Empty means testutil.DefaultRunID.
	RunID string `yaml:"run_id,omitempty"`

	// Seed seeds the random module.
	Seed uint64 `yaml:"seed,omitempty"`

	// MaxSteps is the loop budget per statement. Zero means the engine
	// default.
	MaxSteps int `yaml:"max_steps,omitempty"`

	// Golden compares the run's trace against testdata/golden/{name}.golden.
	Golden bool `yaml:"golden,omitempty"`

	// Assertions are checked after the run.
	Assertions []Assertion `yaml:"assertions"`
}

// Assertion checks one property of a run.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Line is the statement line (failure_at, fatal).
	Line int `yaml:"line,omitempty"`

	// Message is the expected failure message (failure_at). Nil skips the
	// check; an empty string expects a present but empty message.
	Message *string `yaml:"message,omitempty"`

	// NoMessage expects the failure to carry no message (failure_at).
	NoMessage bool `yaml:"no_message,omitempty"`

	// Count is the expected number (failure_count, executed).
	Count *int `yaml:"count,omitempty"`

	// Kind is the fatal error kind, e.g. "NameError" or "SyntaxError" (fatal).
	Kind string `yaml:"kind,omitempty"`

	// Name and Repr describe an environment binding (binding).
	Name string `yaml:"name,omitempty"`
	Repr string `yaml:"repr,omitempty"`

	// Text is the expected report output (output).
	Text *string `yaml:"text,omitempty"`
}

// Assertion type constants.
const (
	AssertFailureAt    = "failure_at"
	AssertFailureCount = "failure_count"
	AssertFatal        = "fatal"
	AssertBinding      = "binding"
	AssertOutput       = "output"
	AssertExecuted     = "executed"
)

// LoadScenario reads and validates a scenario file. source_file paths are
// resolved against the scenario's directory.
func LoadScenario(path string) (*Scenario, error) {
	return LoadScenarioWithBasePath(path, filepath.Dir(path))
}

// LoadScenarioWithBasePath reads and validates a scenario file, resolving a
// relative source_file against basePath and loading its text into Source.
func LoadScenarioWithBasePath(path, basePath string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // reject typos like "assertion:"
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	if scenario.SourceFile != "" {
		src := scenario.SourceFile
		if !filepath.IsAbs(src) && basePath != "" {
			src = filepath.Join(basePath, src)
		}
		text, err := os.ReadFile(src)
		if err != nil {
			return nil, fmt.Errorf("failed to read source file: %w", err)
		}
		scenario.SourceFile = src
		scenario.Source = string(text)
	}

	return &scenario, nil
}

// validateScenario checks required fields.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Source == "" && s.SourceFile == "" {
		return fmt.Errorf("one of source or source_file is required")
	}
	if s.Source != "" && s.SourceFile != "" {
		return fmt.Errorf("source and source_file are mutually exclusive")
	}
	if s.MaxSteps < 0 {
		return fmt.Errorf("max_steps must not be negative")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}
	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
	}
	return nil
}

func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	case AssertFailureAt:
		if a.Line <= 0 {
			return fmt.Errorf("assertions[%d]: line is required for failure_at", index)
		}
		if a.NoMessage && a.Message != nil {
			return fmt.Errorf("assertions[%d]: message and no_message are mutually exclusive", index)
		}
	case AssertFailureCount, AssertExecuted:
		if a.Count == nil {
			return fmt.Errorf("assertions[%d]: count is required for %s", index, a.Type)
		}
	case AssertFatal:
		if a.Kind == "" {
			return fmt.Errorf("assertions[%d]: kind is required for fatal", index)
		}
	case AssertBinding:
		if a.Name == "" || a.Repr == "" {
			return fmt.Errorf("assertions[%d]: name and repr are required for binding", index)
		}
	case AssertOutput:
		if a.Text == nil {
			return fmt.Errorf("assertions[%d]: text is required for output", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
