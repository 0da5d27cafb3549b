package observable

import (
	"context"
	"iter"
	"sync"

	"github.com/delaneyj/lookout/broadcast"
	"github.com/eapache/queue"
)

// BufferedSubscriber receives every write of an Observable in the order it
// was made. Its queue is unbounded, so a slow reader costs memory, never
// writes.
type BufferedSubscriber[T any] struct {
	s      *state[T]
	notify broadcast.Notifier

	mu      sync.Mutex
	pending *queue.Queue
	ended   bool // owner closed; drain then finish
	dropped bool // subscriber closed; finish now
}

func newBufferedSubscriber[T any](s *state[T]) *BufferedSubscriber[T] {
	return &BufferedSubscriber[T]{
		s:       s,
		notify:  broadcast.NewNotifier(),
		pending: queue.New(),
	}
}

func (sub *BufferedSubscriber[T]) push(v T) {
	sub.mu.Lock()
	if sub.dropped {
		sub.mu.Unlock()
		return
	}
	sub.pending.Add(v)
	sub.mu.Unlock()

	sub.notify.Notify()
}

func (sub *BufferedSubscriber[T]) end() {
	sub.mu.Lock()
	sub.ended = true
	sub.mu.Unlock()

	sub.notify.Notify()
}

// Next blocks until the next write is available and returns it. ok is
// false once the observable is closed and everything queued has been
// read, after Close, or when ctx is done.
func (sub *BufferedSubscriber[T]) Next(ctx context.Context) (v T, ok bool) {
	for {
		sub.mu.Lock()
		switch {
		case sub.dropped:
			sub.mu.Unlock()
			return v, false
		case sub.pending.Length() > 0:
			v = sub.pending.Remove().(T)
			sub.mu.Unlock()
			return v, true
		case sub.ended:
			sub.mu.Unlock()
			return v, false
		}
		sub.mu.Unlock()

		select {
		case <-sub.notify.Channel():
		case <-ctx.Done():
			return v, false
		}
	}
}

// Len reports how many writes are queued and not yet read.
func (sub *BufferedSubscriber[T]) Len() int {
	sub.mu.Lock()
	defer sub.mu.Unlock()
	return sub.pending.Length()
}

// All yields values as Next returns them.
func (sub *BufferedSubscriber[T]) All(ctx context.Context) iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			v, ok := sub.Next(ctx)
			if !ok || !yield(v) {
				return
			}
		}
	}
}

// Close stops delivery and discards anything queued.
func (sub *BufferedSubscriber[T]) Close() {
	sub.mu.Lock()
	if sub.dropped {
		sub.mu.Unlock()
		return
	}
	sub.dropped = true
	sub.pending = queue.New()
	sub.mu.Unlock()

	if sub.s.buffered.Contains(sub) {
		sub.s.buffered.Remove(sub)
		sub.s.log.Debug().Int("buffered", sub.s.buffered.Len()).Msg("observable unsubscribe buffered")
	}
	sub.notify.Notify()
}
