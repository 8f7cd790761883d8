// Package metrics exposes observability hooks for layout and content
// synchronisation.
package metrics

import "time"

// Operation names the backend operation being measured.
type Operation string

const (
	OperationLayout  Operation = "layout"
	OperationContent Operation = "content"
	OperationFetch   Operation = "fetch"
)

// ResultLabel enumerates sync outcomes for counters.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultFailed  ResultLabel = "failed"
	// ResultStale marks a layout sync that completed after a newer one.
	ResultStale ResultLabel = "stale"
	// ResultSkipped marks a content sync that needed no backend call.
	ResultSkipped ResultLabel = "skipped"
)

// Recorder receives sync observations. NoopRecorder is used when metrics are
// disabled.
type Recorder interface {
	ObserveDuration(op Operation, d time.Duration, success bool)
	IncResult(op Operation, result ResultLabel)
	SetInflight(n int)
}

// NoopRecorder discards every observation.
type NoopRecorder struct{}

func (NoopRecorder) ObserveDuration(Operation, time.Duration, bool) {}
func (NoopRecorder) IncResult(Operation, ResultLabel)               {}
func (NoopRecorder) SetInflight(int)                                {}

// Ensure returns r, or a NoopRecorder when r is nil.
func Ensure(r Recorder) Recorder {
	if r == nil {
		return NoopRecorder{}
	}
	return r
}
