package engine

import (
	"sort"

	"github.com/roach88/assertrun/internal/value"
)

// AssertEqualName is the reserved binding for the diagnostic function.
// A test file that assigns to it shadows the diagnostic for the rest of
// the run.
const AssertEqualName = "assert_equal"

// Env is the name table shared by every statement of one run. Bindings made
// by a statement, including one that failed partway, stay visible to the
// statements after it.
type Env struct {
	vars map[string]value.Value
}

// NewEnv creates an environment holding exactly one binding: assert_equal.
func NewEnv() *Env {
	return &Env{vars: map[string]value.Value{
		AssertEqualName: assertEqualBuiltin,
	}}
}

// Get looks up a name.
func (e *Env) Get(name string) (value.Value, bool) {
	v, ok := e.vars[name]
	return v, ok
}

// Set binds name to v, replacing any previous binding.
func (e *Env) Set(name string, v value.Value) {
	e.vars[name] = v
}

// Len returns the number of bindings.
func (e *Env) Len() int {
	return len(e.vars)
}

// Names returns the bound names in sorted order.
func (e *Env) Names() []string {
	names := make([]string, 0, len(e.vars))
	for name := range e.vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
