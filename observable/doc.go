// Package observable provides a single value container whose writes are
// broadcast to any number of independent subscribers.
//
// The owner reads and writes through *Observable; it never waits on a
// subscriber. Subscribers block in Next until something new has been
// written, the observable is closed, or their context is done.
//
// Two delivery policies are available:
//
//   - Subscribe returns a latest-value Subscriber. Writes that happen
//     between two reads coalesce; the reader always observes the most
//     recent value, never a stale one.
//   - SubscribeBuffered returns a BufferedSubscriber that queues every
//     write, in order, without bound.
//
// A latest-value subscription wakes on the next write:
//
//	obs := observable.New(7)
//	sub := obs.Subscribe()
//	obs.Set(13)
//	v, _ := sub.Next(ctx) // 13
package observable
