package broadcast

// Notifier wakes a single waiting reader. Notifications coalesce: any number
// of Notify calls made while nobody is receiving collapse into one pending
// wakeup. Notify never blocks, so a writer can call it while holding locks.
//
// Notifiers behave like channels in that they can be passed by value and
// still share the same internal state.
type Notifier struct {
	ch chan struct{} // buffered, capacity 1
}

func NewNotifier() Notifier {
	return Notifier{ch: make(chan struct{}, 1)}
}

// Notify records a pending wakeup.
func (n Notifier) Notify() {
	select {
	case n.ch <- struct{}{}:
	default:
		// already pending
	}
}

// Channel returns the channel a reader selects on.
func (n Notifier) Channel() <-chan struct{} {
	return n.ch
}
