package observable_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/delaneyj/lookout/observable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// from the playground: new(7), subscribe, set(13)
func TestBasicUsage(t *testing.T) {
	ctx := testContext(t)

	obs := observable.New(7)
	sub := obs.Subscribe()

	assert.Equal(t, 7, obs.Get())
	assert.Equal(t, 7, sub.Get())

	obs.Set(13)

	assert.Equal(t, 13, obs.Get())
	assert.Equal(t, 13, sub.Get())

	v, ok := sub.Next(ctx)
	require.True(t, ok)
	assert.Equal(t, 13, v)
}

func TestSubscribeSeesOnlyFutureWrites(t *testing.T) {
	obs := observable.New("a")
	obs.Set("b")
	sub := obs.Subscribe()

	_, ok := sub.NextNow()
	assert.False(t, ok)

	obs.Set("c")
	v, ok := sub.NextNow()
	require.True(t, ok)
	assert.Equal(t, "c", v)

	_, ok = sub.NextNow()
	assert.False(t, ok)
}

func TestSubscribeReset(t *testing.T) {
	obs := observable.New(1)
	sub := obs.SubscribeReset()

	v, ok := sub.NextNow()
	require.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = sub.NextNow()
	assert.False(t, ok)
}

func TestLatestValueCoalesces(t *testing.T) {
	ctx := testContext(t)
	obs := observable.New(0)
	sub := obs.Subscribe()

	for i := 1; i <= 10; i++ {
		obs.Set(i)
	}

	v, ok := sub.Next(ctx)
	require.True(t, ok)
	assert.Equal(t, 10, v)

	_, ok = sub.NextNow()
	assert.False(t, ok, "intermediate writes should have coalesced")
}

func TestReset(t *testing.T) {
	obs := observable.New(0)
	sub := obs.Subscribe()
	obs.Set(1)
	sub.Reset()

	_, ok := sub.NextNow()
	assert.False(t, ok)
}

func TestNextBlocksUntilWrite(t *testing.T) {
	ctx := testContext(t)
	obs := observable.New(0)
	sub := obs.Subscribe()

	got := make(chan int, 1)
	go func() {
		v, ok := sub.Next(ctx)
		if ok {
			got <- v
		}
		close(got)
	}()

	select {
	case <-got:
		t.Fatal("Next returned before any write")
	case <-time.After(20 * time.Millisecond):
	}

	obs.Set(5)
	assert.Equal(t, 5, <-got)
}

func TestNextRespectsContext(t *testing.T) {
	obs := observable.New(0)
	sub := obs.Subscribe()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, ok := sub.Next(ctx)
	assert.False(t, ok)
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}

func TestReplaceUpdateSetIfNotEqual(t *testing.T) {
	obs := observable.New(1)
	sub := obs.Subscribe()

	assert.Equal(t, 1, obs.Replace(2))
	obs.Update(func(v int) int { return v * 10 })
	assert.Equal(t, 20, obs.Get())

	eq := func(a, b int) bool { return a == b }
	assert.False(t, obs.SetIfNotEqual(20, eq))
	v, ok := sub.NextNow()
	require.True(t, ok)
	assert.Equal(t, 20, v)

	assert.False(t, obs.SetIfNotEqual(20, eq))
	_, ok = sub.NextNow()
	assert.False(t, ok, "an equal value must not notify")

	assert.True(t, obs.SetIfNotEqual(21, eq))
	v, ok = sub.NextNow()
	require.True(t, ok)
	assert.Equal(t, 21, v)
}

func TestCloseEndsSubscribers(t *testing.T) {
	ctx := testContext(t)
	obs := observable.New(0)
	a := obs.Subscribe()
	b := obs.Subscribe()

	var wg sync.WaitGroup
	results := make([]bool, 2)
	for i, sub := range []*observable.Subscriber[int]{a, b} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, ok := sub.Next(ctx)
			results[i] = ok
		}()
	}

	obs.Close()
	wg.Wait()

	assert.Equal(t, []bool{false, false}, results)
	assert.NoError(t, ctx.Err())
	assert.True(t, obs.Closed())
}

func TestCloseDeliversUnseenValueFirst(t *testing.T) {
	ctx := testContext(t)
	obs := observable.New(0)
	sub := obs.Subscribe()

	obs.Set(9)
	obs.Close()

	v, ok := sub.Next(ctx)
	require.True(t, ok)
	assert.Equal(t, 9, v)

	_, ok = sub.Next(ctx)
	assert.False(t, ok)
}

func TestWritesAfterCloseAreNotDelivered(t *testing.T) {
	ctx := testContext(t)
	obs := observable.New(0)
	sub := obs.Subscribe()
	obs.Close()
	obs.Set(1)

	assert.Equal(t, 1, obs.Get())
	_, ok := sub.Next(ctx)
	assert.False(t, ok)

	late := obs.Subscribe()
	_, ok = late.Next(ctx)
	assert.False(t, ok)
}

func TestSubscriberCloseIsIndependent(t *testing.T) {
	obs := observable.New(0)
	a := obs.Subscribe()
	b := obs.Subscribe()
	c := obs.SubscribeBuffered()
	assert.Equal(t, 3, obs.SubscriberCount())

	a.Close()
	a.Close()
	c.Close()
	assert.Equal(t, 1, obs.SubscriberCount())

	obs.Set(1)
	_, ok := a.NextNow()
	assert.False(t, ok)

	v, ok := b.NextNow()
	require.True(t, ok)
	assert.Equal(t, 1, v)
}

func TestCloseFromAnotherGoroutineWakesNext(t *testing.T) {
	ctx := testContext(t)
	obs := observable.New(0)
	sub := obs.Subscribe()

	done := make(chan bool, 1)
	go func() {
		_, ok := sub.Next(ctx)
		done <- ok
	}()

	// let Next park
	time.Sleep(20 * time.Millisecond)
	sub.Close()

	select {
	case ok := <-done:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("Next still blocked after Close")
	}
	assert.NoError(t, ctx.Err())
	assert.Equal(t, 0, obs.SubscriberCount())

	_, ok := sub.Next(ctx)
	assert.False(t, ok)
}

func TestSubscriberCountIsZeroAfterClose(t *testing.T) {
	obs := observable.New(0)
	a := obs.Subscribe()
	obs.Subscribe()
	obs.SubscribeBuffered()
	assert.Equal(t, 3, obs.SubscriberCount())

	obs.Close()
	assert.Equal(t, 0, obs.SubscriberCount())

	a.Close()
	assert.Equal(t, 0, obs.SubscriberCount())
	assert.Equal(t, 0, obs.Subscribe().Get())
	assert.Equal(t, 0, obs.SubscriberCount())
}

func TestLastWriteEventuallyObserved(t *testing.T) {
	ctx := testContext(t)
	obs := observable.New(0)
	sub := obs.Subscribe()

	const last = 1000
	go func() {
		for i := 1; i <= last; i++ {
			obs.Set(i)
		}
	}()

	prev := 0
	for v := range sub.All(ctx) {
		require.Greater(t, v, prev, "values must never go backwards")
		prev = v
		if v == last {
			break
		}
	}
	assert.Equal(t, last, prev)
}
