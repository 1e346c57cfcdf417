package cache

import "time"

// Metrics receives instrumentation events from a FileCache. Implementations
// must be safe for concurrent use. A FileCache never operates without one:
// New installs noopMetrics unless WithMetrics supplies a real sink, so the
// hot paths never need a nil check.
type Metrics interface {
	ObserveRead(bytes int64, d time.Duration)
	ObserveWrite(bytes int64, d time.Duration)
	RecordEviction()
}

type noopMetrics struct{}

func (noopMetrics) ObserveRead(int64, time.Duration)  {}
func (noopMetrics) ObserveWrite(int64, time.Duration) {}
func (noopMetrics) RecordEviction()                   {}
