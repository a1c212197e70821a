package trace

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/poiesic/rina/core"
	"github.com/poiesic/rina/storage"
	"github.com/poiesic/rina/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memorySink struct {
	mu     sync.Mutex
	traces []*core.Trace
	err    error
}

func (s *memorySink) Write(ctx context.Context, t *core.Trace) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.traces = append(s.traces, t)
	return s.err
}

func fixedClock() time.Time {
	return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
}

func recordSkeleton(t *testing.T, r *Recorder, tr *core.Trace) {
	t.Helper()
	for _, st := range SkeletonSequence {
		_, err := r.Record(tr, st, map[string]any{"type": string(st)}, true)
		require.NoError(t, err)
	}
}

func TestStart(t *testing.T) {
	r, err := NewRecorder(WithClock(fixedClock))
	require.NoError(t, err)

	tr := r.Start("user-1", "rent_search_or_portfolio", map[string]any{"user_message": "hi"})

	_, err = uuid.Parse(tr.TraceID)
	assert.NoError(t, err)
	assert.Equal(t, DefaultActor, tr.Actor)
	assert.Equal(t, "user-1", tr.UserID)
	assert.Equal(t, "user-1-1740830400", tr.SessionID)
	assert.Equal(t, fixedClock(), tr.Timestamp)
	assert.Empty(t, tr.Steps)
	assert.False(t, tr.Finalized)

	other := r.Start("user-1", "task", nil)
	assert.NotEqual(t, tr.TraceID, other.TraceID)
}

func TestRecordNumbersSteps(t *testing.T) {
	r, err := NewRecorder()
	require.NoError(t, err)
	tr := r.Start("u", "task", nil)

	types := []core.StepType{core.StepPlan, core.StepAct, core.StepAct, core.StepCritique, core.StepDecision}
	for i, st := range types {
		step, err := r.Record(tr, st, nil, true)
		require.NoError(t, err)
		assert.Equal(t, i+1, step.StepNo)
	}

	require.Len(t, tr.Steps, len(types))
	for i, step := range tr.Steps {
		assert.Equal(t, i+1, step.StepNo)
		assert.Equal(t, types[i], step.StepType)
	}
	assert.NoError(t, Skeleton(tr))
}

func TestRecordRejectsUnknownType(t *testing.T) {
	r, err := NewRecorder()
	require.NoError(t, err)
	tr := r.Start("u", "task", nil)

	_, err = r.Record(tr, core.StepType("reflect"), nil, true)
	assert.ErrorIs(t, err, core.ErrInvalidStepType)
	assert.Empty(t, tr.Steps)

	_, err = r.Record(nil, core.StepPlan, nil, true)
	assert.ErrorIs(t, err, ErrNilTrace)
}

func TestFinish(t *testing.T) {
	sink := &memorySink{}
	r, err := NewRecorder(WithSink(sink))
	require.NoError(t, err)
	ctx := context.Background()

	tr := r.Start("u", "task", nil)
	recordSkeleton(t, r, tr)

	done, err := r.Finish(ctx, tr, map[string]any{"reply_preview": "ok"})
	require.NoError(t, err)
	assert.True(t, done.Finalized)
	assert.Equal(t, "ok", done.Result["reply_preview"])

	require.Len(t, sink.traces, 1)
	assert.Equal(t, tr.TraceID, sink.traces[0].TraceID)
	assert.Len(t, sink.traces[0].Steps, 4)

	_, err = r.Record(tr, core.StepAct, nil, true)
	assert.ErrorIs(t, err, ErrTraceFinalized)
	_, err = r.Finish(ctx, tr, nil)
	assert.ErrorIs(t, err, ErrTraceFinalized)
	assert.Len(t, sink.traces, 1, "a trace is persisted once")
}

func TestFinishSwallowsSinkErrors(t *testing.T) {
	failing := &memorySink{err: errors.New("disk full")}
	healthy := &memorySink{}
	r, err := NewRecorder(WithSink(failing), WithSink(healthy))
	require.NoError(t, err)

	tr := r.Start("u", "task", nil)
	recordSkeleton(t, r, tr)

	_, err = r.Finish(context.Background(), tr, nil)
	assert.NoError(t, err)
	assert.Len(t, healthy.traces, 1, "later sinks still run")
}

func TestFinishWithDispatcher(t *testing.T) {
	sink := &memorySink{}
	var queued []func()
	r, err := NewRecorder(
		WithSink(sink),
		WithDispatcher(func(task func()) error {
			queued = append(queued, task)
			return nil
		}),
	)
	require.NoError(t, err)

	tr := r.Start("u", "task", nil)
	recordSkeleton(t, r, tr)
	_, err = r.Finish(context.Background(), tr, nil)
	require.NoError(t, err)

	assert.Empty(t, sink.traces)
	require.Len(t, queued, 1)
	queued[0]()
	assert.Len(t, sink.traces, 1)

	t.Run("rejected dispatch is swallowed", func(t *testing.T) {
		r, err := NewRecorder(WithSink(sink), WithDispatcher(func(func()) error { return errors.New("pool full") }))
		require.NoError(t, err)
		tr := r.Start("u", "task", nil)
		_, err = r.Finish(context.Background(), tr, nil)
		assert.NoError(t, err)
	})
}

func TestFinishedSnapshotIsIndependent(t *testing.T) {
	sink := &memorySink{}
	r, err := NewRecorder(WithSink(sink))
	require.NoError(t, err)

	tr := r.Start("u", "task", nil)
	recordSkeleton(t, r, tr)
	_, err = r.Finish(context.Background(), tr, nil)
	require.NoError(t, err)

	tr.Steps[0].Success = false
	assert.True(t, sink.traces[0].Steps[0].Success)
}

func TestFileSink(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "traces")
	sink := NewFileSink(dir)
	r, err := NewRecorder(WithSink(sink))
	require.NoError(t, err)

	for range 3 {
		tr := r.Start("u", "task", map[string]any{"user_message": "Nataka keja"})
		recordSkeleton(t, r, tr)
		_, err := r.Finish(context.Background(), tr, map[string]any{"reply_preview": "Habari!"})
		require.NoError(t, err)
	}

	f, err := os.Open(sink.Path())
	require.NoError(t, err)
	defer f.Close()

	lines := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var got core.Trace
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &got))
		assert.Len(t, got.Steps, 4)
		assert.True(t, got.Finalized)
		assert.NoError(t, Skeleton(&got))
		lines++
	}
	require.NoError(t, scanner.Err())
	assert.Equal(t, 3, lines)
}

func TestFileSinkConcurrentWrites(t *testing.T) {
	sink := NewFileSink(t.TempDir())
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, sink.Write(ctx, &core.Trace{TraceID: uuid.NewString(), Task: string(rune('a' + i))}))
		}()
	}
	wg.Wait()

	data, err := os.ReadFile(sink.Path())
	require.NoError(t, err)
	count := 0
	for _, b := range data {
		if b == '\n' {
			count++
		}
	}
	assert.Equal(t, 20, count)
}

func TestRepositorySink(t *testing.T) {
	store, err := badger.NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	r, err := NewRecorder(WithSink(NewRepositorySink(store.Traces)))
	require.NoError(t, err)
	ctx := context.Background()

	tr := r.Start("u", "task", nil)
	recordSkeleton(t, r, tr)
	_, err = r.Finish(ctx, tr, map[string]any{"reply_preview": "done"})
	require.NoError(t, err)

	got, err := store.Traces.GetTrace(ctx, tr.TraceID)
	require.NoError(t, err)
	assert.Equal(t, "done", got.Result["reply_preview"])
	assert.Len(t, got.Steps, 4)

	_, err = store.Traces.GetTrace(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
