package vector

import (
	"context"
	"iter"
	"slices"
	"sync"

	"github.com/delaneyj/lookout/broadcast"
	"github.com/delaneyj/lookout/pkg/backlog"
)

// Subscriber receives the diffs of a Vector in the order they were made.
// It never sees the vector's storage, only copies carried by diffs.
type Subscriber[T any] struct {
	v       *Vector[T]
	pending *backlog.Backlog[VectorDiff[T]]
	notify  broadcast.Notifier

	mu      sync.Mutex
	ended   bool
	dropped bool
}

func newSubscriber[T any](v *Vector[T]) *Subscriber[T] {
	pending, err := backlog.New[VectorDiff[T]](backlog.WithCapacity(v.backlog))
	if err != nil {
		// WithBacklog never lets the capacity drop below 1
		panic(err)
	}
	return &Subscriber[T]{
		v:       v,
		pending: pending,
		notify:  broadcast.NewNotifier(),
	}
}

// push is called by the owner with its write lock held; items is the
// owner's state after d was applied.
func (sub *Subscriber[T]) push(d VectorDiff[T], items []T) (dropped int, overflowed bool) {
	if !sub.pending.Push(d) {
		dropped = sub.pending.Replace(Reset(slices.Clone(items)...))
		overflowed = true
	}
	sub.notify.Notify()
	return dropped, overflowed
}

func (sub *Subscriber[T]) end() {
	sub.mu.Lock()
	sub.ended = true
	sub.mu.Unlock()

	sub.notify.Notify()
}

func (sub *Subscriber[T]) state() (ended, dropped bool) {
	sub.mu.Lock()
	defer sub.mu.Unlock()
	return sub.ended, sub.dropped
}

// Next blocks until the next diff is available. ok is false once the vector
// is closed and every earlier diff has been read, after Close, or when ctx
// is done.
func (sub *Subscriber[T]) Next(ctx context.Context) (d VectorDiff[T], ok bool) {
	for {
		if d, ok, done := sub.poll(); ok || done {
			return d, ok
		}

		select {
		case <-sub.notify.Channel():
		case <-ctx.Done():
			return d, false
		}
	}
}

// NextNow returns the next diff if one is already queued, without blocking.
func (sub *Subscriber[T]) NextNow() (d VectorDiff[T], ok bool) {
	d, ok, _ = sub.poll()
	return d, ok
}

func (sub *Subscriber[T]) poll() (d VectorDiff[T], ok, done bool) {
	// the owner pushes nothing after ending us, so once ended is observed
	// the backlog is final
	ended, dropped := sub.state()
	if dropped {
		return d, false, true
	}
	if d, ok = sub.pending.Pop(); ok {
		return d, true, false
	}
	return d, false, ended
}

// Pending reports how many diffs are queued and not yet read.
func (sub *Subscriber[T]) Pending() int {
	return sub.pending.Len()
}

// All yields diffs as Next returns them.
func (sub *Subscriber[T]) All(ctx context.Context) iter.Seq[VectorDiff[T]] {
	return func(yield func(VectorDiff[T]) bool) {
		for {
			d, ok := sub.Next(ctx)
			if !ok || !yield(d) {
				return
			}
		}
	}
}

// Close stops delivery to this subscriber. The owner and other subscribers
// are unaffected.
func (sub *Subscriber[T]) Close() {
	sub.mu.Lock()
	if sub.dropped {
		sub.mu.Unlock()
		return
	}
	sub.dropped = true
	sub.mu.Unlock()

	if sub.v.subs.Contains(sub) {
		sub.v.subs.Remove(sub)
		sub.v.log.Debug().Int("subscribers", sub.v.subs.Len()).Msg("vector unsubscribe")
	}
	sub.notify.Notify()
}
