package main

import (
	"context"
	"testing"
	"time"

	"github.com/jamiealquiza/tachymeter"
	"github.com/stretchr/testify/assert"
)

func TestSubscriberCounts(t *testing.T) {
	assert.Equal(t, []int{0}, subscriberCounts(0))
	assert.Equal(t, []int{0, 1, 10, 100}, subscriberCounts(500))
	assert.Equal(t, []int{0, 1, 10, 100, 1000}, subscriberCounts(1000))
}

func TestRunsFinish(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for _, fn := range []writeFn{benchmarkLatest, benchmarkBuffered, benchmarkVector} {
		tach := tachymeter.New(&tachymeter.Config{Size: 50})
		fn(ctx, tach, 3, 50)
		assert.Equal(t, 50, tach.Calc().Count)
	}
	assert.NoError(t, ctx.Err())
}
