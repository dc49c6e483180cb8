package testutil

// DefaultRunID is used when a case does not name its run.
const DefaultRunID = "test-run-default"

// FixedRunIDGenerator returns the same run ID on every call. It satisfies
// engine.RunIDGenerator and, being stateless, is safe for concurrent use.
//
// engine.FixedGenerator hands out a list of IDs once each; this one suits
// golden snapshots where every run of a case must carry the same ID.
type FixedRunIDGenerator struct {
	id string
}

// NewFixedRunIDGenerator creates a generator for id, or DefaultRunID when
// id is empty.
func NewFixedRunIDGenerator(id string) *FixedRunIDGenerator {
	if id == "" {
		id = DefaultRunID
	}
	return &FixedRunIDGenerator{id: id}
}

// Generate returns the fixed run ID.
func (g *FixedRunIDGenerator) Generate() string {
	return g.id
}
