package observable

import (
	"context"
	"iter"
	"sync"
	"sync/atomic"
)

// Subscriber observes the latest value of an Observable. It holds no write
// access. A Subscriber is meant to be driven by one goroutine; Close may be
// called from any goroutine.
type Subscriber[T any] struct {
	s      *state[T]
	seen   uint64
	once   sync.Once
	closed atomic.Bool
	done   chan struct{}
}

// Get returns the observable's current value without marking it as seen.
func (sub *Subscriber[T]) Get() T {
	v, _, _ := sub.s.read()
	return v
}

// Next blocks until a value newer than the last one returned is written,
// then returns it. Writes made while nobody was reading coalesce into the
// latest one. ok is false once the observable is closed and its final
// value has been observed, after Close, or when ctx is done.
func (sub *Subscriber[T]) Next(ctx context.Context) (v T, ok bool) {
	for {
		if sub.closed.Load() {
			return v, false
		}
		// take the wait channel before reading so a write in between
		// cannot be missed
		wait := sub.s.gate.Wait()

		if v, ok, done := sub.poll(); ok || done {
			return v, ok
		}

		select {
		case <-wait:
		case <-sub.done:
			return v, false
		case <-ctx.Done():
			return v, false
		}
	}
}

// NextNow returns the latest value if it has not been observed yet,
// without blocking.
func (sub *Subscriber[T]) NextNow() (v T, ok bool) {
	if sub.closed.Load() {
		return v, false
	}
	v, ok, _ = sub.poll()
	return v, ok
}

func (sub *Subscriber[T]) poll() (v T, ok, done bool) {
	value, version, closed := sub.s.read()
	if version != sub.seen {
		sub.seen = version
		return value, true, false
	}
	return v, false, closed
}

// Reset marks the current value as observed.
func (sub *Subscriber[T]) Reset() {
	_, sub.seen, _ = sub.s.read()
}

// All yields values as Next returns them.
func (sub *Subscriber[T]) All(ctx context.Context) iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			v, ok := sub.Next(ctx)
			if !ok || !yield(v) {
				return
			}
		}
	}
}

// Close stops the subscription. It has no effect on the owner or on
// other subscribers. A Next blocked in another goroutine returns
// ok == false.
func (sub *Subscriber[T]) Close() {
	sub.once.Do(func() {
		sub.closed.Store(true)
		close(sub.done)
		sub.s.latest.Add(-1)
	})
}
