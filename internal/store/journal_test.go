package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/memento/internal/memento"
)

func TestWriteSession_Idempotent(t *testing.T) {
	s := createTestStore(t)

	sess := Session{ID: "s1", Name: "first", CreatedSeq: 1}
	require.NoError(t, s.WriteSession(ctx(t), sess))
	require.NoError(t, s.WriteSession(ctx(t), Session{ID: "s1", Name: "second", CreatedSeq: 9}))

	got, err := s.ReadSession(ctx(t), "s1")
	require.NoError(t, err)
	assert.Equal(t, sess, got)

	_, err = s.ReadSession(ctx(t), "nope")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestWriteChange_Idempotent(t *testing.T) {
	s := createTestStore(t)
	writeTestSession(t, s, "s1")

	change := Change{SessionID: "s1", Seq: 1, Action: "mark", EventKind: "custom", EventCount: 1, UndoCount: 1}
	inserted, err := s.WriteChange(ctx(t), change)
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = s.WriteChange(ctx(t), change)
	require.NoError(t, err)
	assert.False(t, inserted)

	changes, err := s.ReadChanges(ctx(t), "s1")
	require.NoError(t, err)
	assert.Len(t, changes, 1)
}

func TestReadChanges_Ordering(t *testing.T) {
	s := createTestStore(t)
	writeTestSession(t, s, "s1")
	writeTestSession(t, s, "s2")

	for _, seq := range []int64{3, 1, 2} {
		_, err := s.WriteChange(ctx(t), Change{SessionID: "s1", Seq: seq, Action: "mark"})
		require.NoError(t, err)
	}
	_, err := s.WriteChange(ctx(t), Change{SessionID: "s2", Seq: 1, Action: "reset"})
	require.NoError(t, err)

	changes, err := s.ReadChanges(ctx(t), "s1")
	require.NoError(t, err)
	require.Len(t, changes, 3)
	for i, c := range changes {
		assert.Equal(t, int64(i+1), c.Seq)
		assert.Equal(t, "s1", c.SessionID)
	}
}

func TestReadChanges_Empty(t *testing.T) {
	s := createTestStore(t)

	changes, err := s.ReadChanges(ctx(t), "missing")
	require.NoError(t, err)
	assert.NotNil(t, changes)
	assert.Empty(t, changes)

	sessions, err := s.ReadSessions(ctx(t))
	require.NoError(t, err)
	assert.NotNil(t, sessions)
	assert.Empty(t, sessions)
}

func TestNextSessionSeq(t *testing.T) {
	s := createTestStore(t)

	seq, err := s.NextSessionSeq(ctx(t))
	require.NoError(t, err)
	assert.Equal(t, int64(1), seq)

	require.NoError(t, s.WriteSession(ctx(t), Session{ID: "a", Name: "a", CreatedSeq: seq}))
	seq, err = s.NextSessionSeq(ctx(t))
	require.NoError(t, err)
	assert.Equal(t, int64(2), seq)
}

func TestUUIDv7Generator(t *testing.T) {
	gen := UUIDv7Generator{}
	a, b := gen.Generate(), gen.Generate()

	assert.NotEqual(t, a, b)
	parsed, err := uuid.Parse(a)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
}

func TestRecorder_JournalsNotifications(t *testing.T) {
	s := createTestStore(t)
	rec, err := NewRecorder(context.Background(), s, &fixedIDs{ids: []string{"session-1"}}, "circle", nil)
	require.NoError(t, err)

	m := memento.New()
	rec.Attach(m)

	value := 0
	props := memento.PropertyFuncs{
		GetFunc: func(any, string) (any, error) { return value, nil },
		SetFunc: func(_ any, _ string, v any) error {
			value = v.(int)
			return nil
		},
	}
	target := &value

	require.NoError(t, m.MarkPropertyChange(props, target, "value"))
	value = 1
	require.NoError(t, m.Batch(func() error {
		if err := m.MarkPropertyChange(props, target, "value"); err != nil {
			return err
		}
		value = 2
		if err := m.MarkPropertyChange(props, target, "value"); err != nil {
			return err
		}
		value = 3
		return nil
	}))
	require.NoError(t, m.Undo())
	require.NoError(t, m.Redo())
	m.Reset()
	require.NoError(t, rec.Err())
	assert.Equal(t, int64(5), rec.Count())

	sessions, err := s.ReadSessions(ctx(t))
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, Session{ID: "session-1", Name: "circle", CreatedSeq: 1}, sessions[0])

	changes, err := s.ReadChanges(ctx(t), "session-1")
	require.NoError(t, err)
	require.Len(t, changes, 5)

	assert.Equal(t, "mark", changes[0].Action)
	assert.Equal(t, memento.KindPropertyChange, changes[0].EventKind)
	assert.Equal(t, 1, changes[0].EventCount)
	assert.Equal(t, "property value restores 0", changes[0].Description)

	assert.Equal(t, "mark", changes[1].Action)
	assert.Equal(t, memento.KindBatch, changes[1].EventKind)
	assert.Equal(t, 2, changes[1].EventCount)
	assert.Equal(t, 2, changes[1].UndoCount)

	assert.Equal(t, "undo", changes[2].Action)
	assert.Equal(t, 2, changes[2].EventCount)
	assert.Equal(t, 1, changes[2].UndoCount)
	assert.Equal(t, 1, changes[2].RedoCount)

	assert.Equal(t, "redo", changes[3].Action)
	assert.Equal(t, 2, changes[3].UndoCount)
	assert.Equal(t, 0, changes[3].RedoCount)

	assert.Equal(t, "reset", changes[4].Action)
	assert.Equal(t, "", changes[4].EventKind)
	assert.Equal(t, 0, changes[4].EventCount)

	counts, err := s.CountChanges(ctx(t), "session-1")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"mark": 2, "undo": 1, "redo": 1, "reset": 1}, counts)
}

func TestRecorder_Detach(t *testing.T) {
	s := createTestStore(t)
	rec, err := NewRecorder(context.Background(), s, &fixedIDs{ids: []string{"a"}}, "detach", nil)
	require.NoError(t, err)

	m := memento.New()
	rec.Attach(m)
	value := 0
	e := &counter{value: &value}
	require.NoError(t, m.MarkEvent(e))
	rec.Detach()
	require.NoError(t, m.MarkEvent(e))

	assert.Equal(t, int64(1), rec.Count())
}

func TestRecorder_KeepsFirstError(t *testing.T) {
	s := createTestStore(t)
	rec, err := NewRecorder(context.Background(), s, &fixedIDs{ids: []string{"a"}}, "broken", nil)
	require.NoError(t, err)

	m := memento.New()
	rec.Attach(m)
	require.NoError(t, s.Close())

	value := 0
	require.NoError(t, m.MarkEvent(&counter{value: &value}))
	require.NoError(t, m.MarkEvent(&counter{value: &value}))

	err = rec.Err()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "journal session a seq 1")
	assert.Equal(t, int64(0), rec.Count())
}

func TestRecorder_SequentialSessions(t *testing.T) {
	s := createTestStore(t)
	gen := &fixedIDs{ids: []string{"first", "second"}}

	r1, err := NewRecorder(context.Background(), s, gen, "one", nil)
	require.NoError(t, err)
	r2, err := NewRecorder(context.Background(), s, gen, "two", nil)
	require.NoError(t, err)

	assert.Equal(t, int64(1), r1.Session().CreatedSeq)
	assert.Equal(t, int64(2), r2.Session().CreatedSeq)
}

type counter struct {
	value *int
}

func (c *counter) Rollback() (memento.Event, error) {
	*c.value--
	return c, nil
}
