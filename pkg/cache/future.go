package cache

import "sync"

// valueFuture is a single-assignment rendezvous point: many callers may
// await it concurrently, but exactly one producer resolves it (with either
// a value or an error). This is the Go substitute for the teacher Python
// implementation's concurrent.futures.Future, used both for the decoded
// value of a resident/loading entry and for an in-flight durable write.
type valueFuture struct {
	done  chan struct{}
	once  sync.Once
	value any
	size  int64
	err   error
}

func newValueFuture() *valueFuture {
	return &valueFuture{done: make(chan struct{})}
}

// resolve publishes the future's result. Only the first call has effect;
// subsequent calls are no-ops, matching single-assignment semantics.
func (f *valueFuture) resolve(value any, size int64, err error) {
	f.once.Do(func() {
		f.value = value
		f.size = size
		f.err = err
		close(f.done)
	})
}

// wait blocks until the future is resolved and returns its result. It holds
// no lock, so callers may await it without blocking unrelated cache
// operations.
func (f *valueFuture) wait() (any, int64, error) {
	<-f.done
	return f.value, f.size, f.err
}
