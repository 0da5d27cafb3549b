// Package vector provides an ordered collection whose mutations are
// broadcast to subscribers as diffs rather than whole copies.
//
// A subscriber starts from a snapshot taken atomically with its
// registration; applying every diff it receives, in order, to that
// snapshot reproduces the owner's contents.
package vector

import (
	"slices"
	"sync"

	"github.com/delaneyj/lookout/broadcast"
	"github.com/rs/zerolog"
)

// Vector owns a sequence of T. Mutations never wait on subscribers.
type Vector[T any] struct {
	mu     sync.RWMutex
	items  []T
	closed bool

	subs    *broadcast.Registry[*Subscriber[T]]
	backlog int
	log     zerolog.Logger
}

func New[T any](opts ...Option) *Vector[T] {
	return WithCapacity[T](0, opts...)
}

// WithCapacity creates an empty vector with room for hint items.
func WithCapacity[T any](hint int, opts ...Option) *Vector[T] {
	cfg := newConfig(opts)
	return &Vector[T]{
		items:   make([]T, 0, max(hint, 0)),
		subs:    broadcast.NewRegistry[*Subscriber[T]](),
		backlog: cfg.backlog,
		log:     cfg.log,
	}
}

// emit must be called with the write lock held, after the change has been
// applied to v.items.
func (v *Vector[T]) emit(d VectorDiff[T]) {
	if v.closed {
		return
	}
	v.subs.Each(func(sub *Subscriber[T]) {
		if dropped, overflowed := sub.push(d, v.items); overflowed {
			v.log.Warn().
				Int("dropped", dropped).
				Int("backlog", sub.pending.Cap()).
				Int("len", len(v.items)).
				Msg("subscriber backlog overflow, sent reset")
		}
	})
}

func (v *Vector[T]) PushBack(value T) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.items = append(v.items, value)
	v.emit(PushBack(value))
}

func (v *Vector[T]) PushFront(value T) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.items = slices.Insert(v.items, 0, value)
	v.emit(PushFront(value))
}

// PopBack removes and returns the last item. ok is false, and nothing is
// emitted, if the vector is empty.
func (v *Vector[T]) PopBack() (value T, ok bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	n := len(v.items)
	if n == 0 {
		return value, false
	}
	value = v.items[n-1]
	v.items = slices.Delete(v.items, n-1, n)
	v.emit(PopBack[T]())
	return value, true
}

// PopFront removes and returns the first item. ok is false, and nothing is
// emitted, if the vector is empty.
func (v *Vector[T]) PopFront() (value T, ok bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if len(v.items) == 0 {
		return value, false
	}
	value = v.items[0]
	v.items = slices.Delete(v.items, 0, 1)
	v.emit(PopFront[T]())
	return value, true
}

// Insert places value at index, shifting later items up. index may equal
// Len.
func (v *Vector[T]) Insert(index int, value T) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if index < 0 || index > len(v.items) {
		return &IndexError{Op: OpInsert, Index: index, Len: len(v.items)}
	}
	v.items = slices.Insert(v.items, index, value)
	v.emit(Insert(index, value))
	return nil
}

// Set replaces the item at index and returns the previous one.
func (v *Vector[T]) Set(index int, value T) (old T, err error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if index < 0 || index >= len(v.items) {
		return old, &IndexError{Op: OpSet, Index: index, Len: len(v.items)}
	}
	old = v.items[index]
	v.items[index] = value
	v.emit(Set(index, value))
	return old, nil
}

// Remove deletes and returns the item at index, shifting later items down.
func (v *Vector[T]) Remove(index int) (removed T, err error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if index < 0 || index >= len(v.items) {
		return removed, &IndexError{Op: OpRemove, Index: index, Len: len(v.items)}
	}
	removed = v.items[index]
	v.items = slices.Delete(v.items, index, index+1)
	v.emit(Remove[T](index))
	return removed, nil
}

func (v *Vector[T]) Clear() {
	v.mu.Lock()
	defer v.mu.Unlock()

	if len(v.items) == 0 {
		return
	}
	clear(v.items)
	v.items = v.items[:0]
	v.emit(Clear[T]())
}

// Append adds values to the end as a single change.
func (v *Vector[T]) Append(values ...T) {
	if len(values) == 0 {
		return
	}
	values = slices.Clone(values)

	v.mu.Lock()
	defer v.mu.Unlock()

	v.items = append(v.items, values...)
	v.emit(Append(values...))
}

// Truncate keeps the first length items. It does nothing if length is not
// less than Len; a negative length is treated as zero.
func (v *Vector[T]) Truncate(length int) {
	length = max(length, 0)

	v.mu.Lock()
	defer v.mu.Unlock()

	if length >= len(v.items) {
		return
	}
	clear(v.items[length:])
	v.items = v.items[:length]
	v.emit(Truncate[T](length))
}

func (v *Vector[T]) Get(index int) (value T, ok bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	if index < 0 || index >= len(v.items) {
		return value, false
	}
	return v.items[index], true
}

func (v *Vector[T]) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.items)
}

// Values returns a copy of the current contents.
func (v *Vector[T]) Values() []T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return slices.Clone(v.items)
}

// Subscribe returns the current contents together with a subscriber whose
// first diff is the next mutation. No mutation falls between the two.
func (v *Vector[T]) Subscribe() ([]T, *Subscriber[T]) {
	sub := newSubscriber(v)

	// mutations hold the write lock, so a read lock is enough to keep
	// the snapshot and the registration atomic
	v.mu.RLock()
	defer v.mu.RUnlock()

	snapshot := slices.Clone(v.items)
	if v.closed {
		sub.end()
		return snapshot, sub
	}
	v.subs.Add(sub)
	v.log.Debug().Int("subscribers", v.subs.Len()).Int("len", len(snapshot)).Msg("vector subscribe")
	return snapshot, sub
}

func (v *Vector[T]) SubscriberCount() int {
	return v.subs.Len()
}

// Close ends every subscription. Subscribers still receive diffs that were
// emitted before Close, then their streams finish. The vector stays usable
// but its mutations are no longer broadcast.
func (v *Vector[T]) Close() {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.closed = true
	subs := v.subs.Drain()
	v.mu.Unlock()

	for _, sub := range subs {
		sub.end()
	}
	v.log.Debug().Int("subscribers", len(subs)).Msg("vector closed")
}
