package engine

// StmtState is the outcome of one top-level statement.
//
// A statement ends Succeeded or Failed. A statement that raises a
// non-assertion error is Aborted and the run ends.
type StmtState string

const (
	StateSucceeded StmtState = "succeeded"
	StateFailed    StmtState = "failed"
	StateAborted   StmtState = "aborted"
)

// Trace event types.
const (
	EventStmtStart = "stmt_start"
	EventStmtEnd   = "stmt_end"
)

// TraceEvent records one statement transition.
type TraceEvent struct {
	Type    string    `json:"type"`
	Seq     int64     `json:"seq"`
	Line    int       `json:"line"`
	Outcome StmtState `json:"outcome,omitempty"` // stmt_end only
	Message string    `json:"message,omitempty"`
}

// Failure is a recovered assertion failure.
type Failure struct {
	Line       int    `json:"line"`
	Source     string `json:"source"`
	Message    string `json:"message,omitempty"`
	HasMessage bool   `json:"has_message"`
}

// Result is the outcome of one run. A run cut short by a fatal error still
// returns the Result accumulated up to that point.
type Result struct {
	RunID    string       `json:"run_id"`
	Trace    []TraceEvent `json:"trace"`
	Failures []Failure    `json:"failures"`

	// Executed counts statements that were attempted.
	Executed int `json:"executed"`
}

func newResult(runID string) *Result {
	return &Result{
		RunID:    runID,
		Trace:    []TraceEvent{},
		Failures: []Failure{},
	}
}

// Passed reports whether no assertion failed.
func (r *Result) Passed() bool {
	return len(r.Failures) == 0
}

func (r *Result) addEvent(ev TraceEvent) {
	r.Trace = append(r.Trace, ev)
}
