package harness

import (
	"errors"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/assertrun/internal/engine"
	"github.com/roach88/assertrun/internal/value"
)

// TraceSnapshot is the part of a run compared against golden files.
// Serialized as canonical JSON so snapshots are byte-stable.
type TraceSnapshot struct {
	ScenarioName string              `json:"scenario_name"`
	RunID        string              `json:"run_id,omitempty"`
	Trace        []engine.TraceEvent `json:"trace"`
	Failures     []engine.Failure    `json:"failures"`
	Fatal        string              `json:"fatal,omitempty"`
}

// NewTraceSnapshot builds a snapshot from a scenario result.
func NewTraceSnapshot(name string, result *Result) *TraceSnapshot {
	s := &TraceSnapshot{
		ScenarioName: name,
		Trace:        []engine.TraceEvent{},
		Failures:     []engine.Failure{},
	}
	if result.Run != nil {
		s.RunID = result.Run.RunID
		s.Trace = result.Run.Trace
		s.Failures = result.Run.Failures
	}
	if result.Fatal != nil {
		s.Fatal = result.Fatal.Error()
	}
	return s
}

// toCanonicalMap converts the snapshot for value.MarshalCanonical, which
// only takes plain maps, slices and scalars.
func (s *TraceSnapshot) toCanonicalMap() map[string]any {
	trace := make([]any, len(s.Trace))
	for i, ev := range s.Trace {
		m := map[string]any{
			"type": ev.Type,
			"seq":  ev.Seq,
			"line": ev.Line,
		}
		if ev.Outcome != "" {
			m["outcome"] = string(ev.Outcome)
		}
		if ev.Message != "" {
			m["message"] = ev.Message
		}
		trace[i] = m
	}

	failures := make([]any, len(s.Failures))
	for i, f := range s.Failures {
		m := map[string]any{
			"line":        f.Line,
			"source":      f.Source,
			"has_message": f.HasMessage,
		}
		if f.HasMessage {
			m["message"] = f.Message
		}
		failures[i] = m
	}

	out := map[string]any{
		"scenario_name": s.ScenarioName,
		"trace":         trace,
		"failures":      failures,
	}
	if s.RunID != "" {
		out["run_id"] = s.RunID
	}
	if s.Fatal != "" {
		out["fatal"] = s.Fatal
	}
	return out
}

// MarshalCanonical returns the snapshot's canonical JSON.
func (s *TraceSnapshot) MarshalCanonical() ([]byte, error) {
	return value.MarshalCanonical(s.toCanonicalMap())
}

// RunWithGolden runs a scenario, fails t if any of its assertions did not
// hold, and compares its trace against testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	for _, msg := range result.Errors {
		t.Error(msg)
	}
	return AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares an existing result against its golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()
	if result == nil {
		return errors.New("nil result")
	}

	data, err := NewTraceSnapshot(scenarioName, result).MarshalCanonical()
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)
	return nil
}
