// Package harness runs scenario files against the assertion runner and checks
// what it reported.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: three_statements
//	description: "Equality failures are reported, chains are left alone"
//	run_id: run-three          # optional, fixed for golden snapshots
//	seed: 7                    # optional, seeds the random module
//	max_steps: 100             # optional, loop budget per statement
//	source: |
//	  assert 1 == 2
//	  assert 2 == 2
//	  assert "a" < "b" < "c"
//	assertions:
//	  - type: failure_at
//	    line: 1
//	    message: "1 != 2"
//	  - type: failure_count
//	    count: 1
//
// A scenario names its program either inline (source) or as a path relative
// to the scenario file (source_file), never both.
//
// # Assertion Types
//
//   - failure_at: a failure was reported for line, optionally with message
//   - failure_count: exactly count failures were reported
//   - fatal: the run ended with an error of kind, optionally at line
//   - binding: name is bound to a value whose repr is repr
//   - output: the report text written to stdout equals text
//   - executed: exactly count top-level statements ran
//
// A run that ends in a fatal error fails the scenario unless a fatal
// assertion expects it.
//
// # Deterministic Runs
//
// Every run uses testutil.DeterministicClock, a fixed run ID and a fixed
// seed, so its trace can be compared byte for byte against a golden file
// (see RunWithGolden).
package harness
