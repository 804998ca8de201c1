package testutil

// FixedSessionGenerator generates the same journal session ID every time.
//
// This enables deterministic test execution and golden snapshot comparison.
// The same scenario with the same FixedSessionGenerator produces byte-identical journals.
//
// Unlike store.UUIDv7Generator, the ID never changes, so a store shared across
// runs must not reuse the generator: the second session write is ignored and
// the changes collide on (session, seq).
//
// Thread-safety: FixedSessionGenerator is stateless and safe for concurrent use.
type FixedSessionGenerator struct {
	id string
}

// NewFixedSessionGenerator creates a new fixed session ID generator.
//
// The ID is typically set in the scenario YAML:
//
//	session: "session-circle-radius"
//
// If id is empty, Generate() returns "session-default".
func NewFixedSessionGenerator(id string) *FixedSessionGenerator {
	if id == "" {
		id = "session-default"
	}
	return &FixedSessionGenerator{id: id}
}

// Generate returns the fixed session ID.
//
// Implements store.SessionIDGenerator interface.
func (g *FixedSessionGenerator) Generate() string {
	return g.id
}
