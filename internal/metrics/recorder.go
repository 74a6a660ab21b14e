// Package metrics defines the observability hooks of the conversion
// pipeline. The default recorder does nothing, so callers can inject metrics
// without every code path checking whether they are configured.
package metrics

import "time"

// Recorder receives conversion measurements. Implementations forward them to
// a metrics backend.
type Recorder interface {
	ObserveVersionDuration(version string, d time.Duration)
	ObserveFileDuration(d time.Duration)
	IncFileResult(set string, success bool)
	IncVersionOutcome(outcome string) // success|failed|skipped
	SetWorkerCount(n int)
}

// NoopRecorder is the default Recorder when metrics are not configured.
type NoopRecorder struct{}

func (NoopRecorder) ObserveVersionDuration(string, time.Duration) {}
func (NoopRecorder) ObserveFileDuration(time.Duration)            {}
func (NoopRecorder) IncFileResult(string, bool)                   {}
func (NoopRecorder) IncVersionOutcome(string)                     {}
func (NoopRecorder) SetWorkerCount(int)                           {}
