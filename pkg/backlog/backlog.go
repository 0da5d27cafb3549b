package backlog

import (
	"errors"
	mathbits "math/bits"
	"sync"

	"github.com/ef-ds/deque"
)

// Backlog is a FIFO of undelivered items with a max capacity. Pushing into
// a full backlog fails instead of blocking; the caller decides what to do
// about the overflow (typically Replace the whole backlog with a single
// resynchronisation item).
//
// Backlog is safe for one producer and any number of consumers.
type Backlog[T any] struct {
	mu          sync.Mutex
	queue       deque.Deque
	maxCapacity int
}

// Option configures a Backlog at construction time.
type Option func(*options) error

type options struct {
	capacity int
}

var ErrInvalidCapacity = errors.New("backlog capacity must be positive")

// WithCapacity sets the max number of items the backlog holds. By default
// the capacity is the largest int.
func WithCapacity(capacity int) Option {
	return func(o *options) error {
		if capacity < 1 {
			return ErrInvalidCapacity
		}
		o.capacity = capacity
		return nil
	}
}

func New[T any](opts ...Option) (*Backlog[T], error) {
	o := options{capacity: 1<<(mathbits.UintSize-1) - 1}
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return nil, err
		}
	}
	return &Backlog[T]{maxCapacity: o.capacity}, nil
}

// Push appends v, reporting false without modifying the backlog if it is
// already at capacity.
func (b *Backlog[T]) Push(v T) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.queue.Len() >= b.maxCapacity {
		return false
	}
	b.queue.PushBack(v)
	return true
}

// Replace drops everything queued and leaves v as the only item.
func (b *Backlog[T]) Replace(v T) (dropped int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	dropped = b.queue.Len()
	b.queue = deque.Deque{}
	b.queue.PushBack(v)
	return dropped
}

// Pop removes and returns the head of the backlog.
func (b *Backlog[T]) Pop() (v T, ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	item, ok := b.queue.PopFront()
	if !ok {
		return v, false
	}
	return item.(T), true
}

func (b *Backlog[T]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.queue.Len()
}

func (b *Backlog[T]) Cap() int {
	return b.maxCapacity
}
