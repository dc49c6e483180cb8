// Package engine executes rewritten test programs one statement at a time.
//
// ARCHITECTURE:
//
// The Executor walks the top-level statements of a Program in source order.
// Each statement runs inside its own failure boundary:
//
//   - *AssertionFailure: recorded, reported, run continues
//   - *RuntimeError (NameError, TypeError, ...): fatal, returned unchanged
//   - *StepsExceededError: fatal, a loop ran past its step budget
//   - panic: recovered and returned as a fatal InternalError
//
// All statements share one Env. It starts with a single binding,
// assert_equal; builtin functions (len, str, range, ...) live in a separate
// read-only table consulted after it. `import random` and `import math`
// bind module values into the Env.
//
// TRACE:
//
// Every statement emits stmt_start and stmt_end events stamped by a logical
// Clock. The run carries an ID from a RunIDGenerator (UUIDv7 in production,
// fixed in tests), so traces of the same program are byte-identical when the
// clock, run ID and random seed are pinned.
//
// The engine is strictly sequential. context.Context is consulted between
// statements and between loop iterations for cancellation.
package engine
