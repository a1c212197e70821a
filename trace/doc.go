// Package trace records the plan, act, critique and decision steps of a
// request and hands the finished record to persistence sinks.
//
// A trace is owned by the request that started it and is not safe for
// concurrent mutation. Once finished it is immutable: further Record or
// Finish calls return ErrTraceFinalized. Sink failures are logged and never
// reach the caller, since a trace is audit data rather than state the
// request depends on.
package trace
