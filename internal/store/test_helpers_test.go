package store

import (
	"context"
	"path/filepath"
	"testing"
)

// createTestStore creates a new store in a temp directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func ctx(t *testing.T) context.Context {
	t.Helper()
	return context.Background()
}

// writeTestSession writes a session with the given ID.
func writeTestSession(t *testing.T, s *Store, id string) {
	t.Helper()
	if err := s.WriteSession(ctx(t), Session{ID: id, Name: "test-" + id, CreatedSeq: 1}); err != nil {
		t.Fatalf("WriteSession() failed: %v", err)
	}
}

// fixedIDs returns predetermined session IDs.
type fixedIDs struct {
	ids []string
	idx int
}

func (g *fixedIDs) Generate() string {
	id := g.ids[g.idx]
	g.idx++
	return id
}
