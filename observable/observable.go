package observable

import (
	"sync"
	"sync/atomic"

	"github.com/delaneyj/lookout/broadcast"
	"github.com/rs/zerolog"
)

// state is shared between the owner and its subscribers. Only Observable
// mutates it.
type state[T any] struct {
	mu      sync.RWMutex
	value   T
	version uint64
	closed  bool

	gate     *broadcast.Gate
	buffered *broadcast.Registry[*BufferedSubscriber[T]]
	latest   atomic.Int64

	log zerolog.Logger
}

func (s *state[T]) read() (value T, version uint64, closed bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value, s.version, s.closed
}

// Observable owns a value of type T.
type Observable[T any] struct {
	s *state[T]
}

// New creates an observable holding initial and no subscribers.
func New[T any](initial T, opts ...Option) *Observable[T] {
	cfg := newConfig(opts)
	return &Observable[T]{
		s: &state[T]{
			value:    initial,
			version:  1,
			gate:     broadcast.NewGate(),
			buffered: broadcast.NewRegistry[*BufferedSubscriber[T]](),
			log:      cfg.log,
		},
	}
}

// Get returns the current value.
func (o *Observable[T]) Get() T {
	v, _, _ := o.s.read()
	return v
}

// Set replaces the value and wakes every subscriber. Set on a closed
// observable still updates the value but nobody is notified.
func (o *Observable[T]) Set(v T) {
	o.Replace(v)
}

// Replace is Set, returning the value that was replaced.
func (o *Observable[T]) Replace(v T) (old T) {
	o.s.mu.Lock()
	old = o.s.value
	o.write(v)
	o.s.mu.Unlock()

	o.s.gate.Open()
	return old
}

// Update replaces the value with fn applied to the current one. fn runs
// with the owner lock held and must not touch the observable.
func (o *Observable[T]) Update(fn func(T) T) {
	o.s.mu.Lock()
	o.write(fn(o.s.value))
	o.s.mu.Unlock()

	o.s.gate.Open()
}

// SetIfNotEqual writes v only if eq reports it differs from the current
// value, and returns whether a write happened.
func (o *Observable[T]) SetIfNotEqual(v T, eq func(a, b T) bool) bool {
	o.s.mu.Lock()
	if eq(o.s.value, v) {
		o.s.mu.Unlock()
		return false
	}
	o.write(v)
	o.s.mu.Unlock()

	o.s.gate.Open()
	return true
}

// write must be called with the lock held.
func (o *Observable[T]) write(v T) {
	o.s.value = v
	if o.s.closed {
		return
	}
	o.s.version++
	o.s.buffered.Each(func(sub *BufferedSubscriber[T]) {
		sub.push(v)
	})
}

// Subscribe returns a latest-value subscriber that sees writes made from
// now on.
func (o *Observable[T]) Subscribe() *Subscriber[T] {
	_, version, _ := o.s.read()
	return o.subscribe(version)
}

// SubscribeReset is Subscribe, except the current value counts as not yet
// observed, so the first Next returns it immediately.
func (o *Observable[T]) SubscribeReset() *Subscriber[T] {
	return o.subscribe(0)
}

func (o *Observable[T]) subscribe(seen uint64) *Subscriber[T] {
	n := o.s.latest.Add(1)
	o.s.log.Debug().Int64("latest", n).Msg("observable subscribe")
	return &Subscriber[T]{s: o.s, seen: seen, done: make(chan struct{})}
}

// SubscribeBuffered returns a subscriber that receives every write made
// from now on, in order, without coalescing.
func (o *Observable[T]) SubscribeBuffered() *BufferedSubscriber[T] {
	sub := newBufferedSubscriber(o.s)

	o.s.mu.Lock()
	defer o.s.mu.Unlock()
	if o.s.closed {
		sub.end()
		return sub
	}
	o.s.buffered.Add(sub)
	o.s.log.Debug().Int("buffered", o.s.buffered.Len()).Msg("observable subscribe buffered")
	return sub
}

// SubscriberCount reports the number of subscribers that have not been
// closed. It is zero once the observable is closed.
func (o *Observable[T]) SubscriberCount() int {
	if _, _, closed := o.s.read(); closed {
		return 0
	}
	return int(o.s.latest.Load()) + o.s.buffered.Len()
}

// Close ends every subscription. Subscribers still receive what they had
// not yet observed, then their streams finish.
func (o *Observable[T]) Close() {
	o.s.mu.Lock()
	if o.s.closed {
		o.s.mu.Unlock()
		return
	}
	o.s.closed = true
	subs := o.s.buffered.Drain()
	o.s.mu.Unlock()

	for _, sub := range subs {
		sub.end()
	}
	o.s.gate.Shut()
	o.s.log.Debug().Int("buffered", len(subs)).Msg("observable closed")
}

func (o *Observable[T]) Closed() bool {
	_, _, closed := o.s.read()
	return closed
}
