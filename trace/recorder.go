package trace

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/poiesic/rina/core"
)

// DefaultActor is the actor recorded on every trace.
const DefaultActor = "ai"

// Sink persists finished traces.
type Sink interface {
	Write(ctx context.Context, t *core.Trace) error
}

// Dispatcher runs a persistence task. It may run the task later on another
// goroutine; an error means the task was not accepted.
type Dispatcher func(task func()) error

// Recorder creates traces, appends steps and persists finished traces.
// A single Recorder may be shared across requests.
type Recorder struct {
	sinks    []Sink
	dispatch Dispatcher
	now      func() time.Time
	actor    string
	logger   *slog.Logger
}

// Option configures a Recorder.
type Option func(*Recorder) error

// WithSink adds a sink. Sinks are written in the order they were added.
func WithSink(s Sink) Option {
	return func(r *Recorder) error {
		if s == nil {
			return ErrSinkRequired
		}
		r.sinks = append(r.sinks, s)
		return nil
	}
}

// WithDispatcher sets how sink writes are run.
// Default runs them synchronously inside Finish.
func WithDispatcher(d Dispatcher) Option {
	return func(r *Recorder) error {
		if d != nil {
			r.dispatch = d
		}
		return nil
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(r *Recorder) error {
		if now != nil {
			r.now = now
		}
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Recorder) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// NewRecorder creates a Recorder. Without sinks, finished traces are dropped.
func NewRecorder(opts ...Option) (*Recorder, error) {
	r := &Recorder{
		dispatch: func(task func()) error { task(); return nil },
		now:      time.Now,
		actor:    DefaultActor,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	r.logger = r.logger.With("component", "trace_recorder")
	return r, nil
}

// Start opens a trace for userID. The session id is userID suffixed with the
// current unix second.
func (r *Recorder) Start(userID, task string, goal map[string]any) *core.Trace {
	now := r.now().UTC()
	return &core.Trace{
		TraceID:   uuid.NewString(),
		Timestamp: now,
		Actor:     r.actor,
		UserID:    userID,
		SessionID: fmt.Sprintf("%s-%d", userID, now.Unix()),
		Task:      task,
		Goal:      goal,
		Steps:     []core.TraceStep{},
	}
}

// Record appends a step numbered after the last one.
func (r *Recorder) Record(t *core.Trace, stepType core.StepType, content map[string]any, success bool) (core.TraceStep, error) {
	if t == nil {
		return core.TraceStep{}, ErrNilTrace
	}
	if t.Finalized {
		return core.TraceStep{}, ErrTraceFinalized
	}

	step := core.TraceStep{
		StepNo:   len(t.Steps) + 1,
		StepType: stepType,
		Content:  content,
		Success:  success,
	}
	if err := core.ValidateTraceStep(step); err != nil {
		return core.TraceStep{}, err
	}
	t.Steps = append(t.Steps, step)
	return step, nil
}

// Finish sets the result, finalizes t and hands a copy to every sink.
// Sink errors are logged, not returned.
func (r *Recorder) Finish(ctx context.Context, t *core.Trace, result map[string]any) (*core.Trace, error) {
	if t == nil {
		return nil, ErrNilTrace
	}
	if t.Finalized {
		return t, ErrTraceFinalized
	}
	t.Result = result
	t.Finalized = true

	if len(r.sinks) == 0 {
		return t, nil
	}

	snapshot := t.Clone()
	if err := r.dispatch(func() { r.persist(ctx, snapshot) }); err != nil {
		r.logger.Warn("trace persistence not scheduled", "trace_id", t.TraceID, "err", err)
	}
	return t, nil
}

func (r *Recorder) persist(ctx context.Context, t *core.Trace) {
	for _, s := range r.sinks {
		if err := s.Write(ctx, t); err != nil {
			r.logger.Warn("trace sink failed", "trace_id", t.TraceID, "sink", fmt.Sprintf("%T", s), "err", err)
		}
	}
}
