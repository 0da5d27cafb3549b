package backlog_test

import (
	"testing"

	"github.com/delaneyj/lookout/pkg/backlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvalidCapacity(t *testing.T) {
	_, err := backlog.New[int](backlog.WithCapacity(0))
	require.ErrorIs(t, err, backlog.ErrInvalidCapacity)
}

func TestFifoOrder(t *testing.T) {
	b, err := backlog.New[string]()
	require.NoError(t, err)

	for _, s := range []string{"a", "b", "c"} {
		require.True(t, b.Push(s))
	}
	assert.Equal(t, 3, b.Len())

	for _, want := range []string{"a", "b", "c"} {
		got, ok := b.Pop()
		require.True(t, ok)
		assert.Equal(t, want, got)
	}
	_, ok := b.Pop()
	assert.False(t, ok)
}

func TestPushRejectsWhenFull(t *testing.T) {
	b, err := backlog.New[int](backlog.WithCapacity(2))
	require.NoError(t, err)
	assert.Equal(t, 2, b.Cap())

	assert.True(t, b.Push(1))
	assert.True(t, b.Push(2))
	assert.False(t, b.Push(3))
	assert.Equal(t, 2, b.Len())

	v, ok := b.Pop()
	require.True(t, ok)
	assert.Equal(t, 1, v)
	assert.True(t, b.Push(3))
}

func TestReplace(t *testing.T) {
	b, err := backlog.New[int](backlog.WithCapacity(3))
	require.NoError(t, err)
	b.Push(1)
	b.Push(2)
	b.Push(3)

	dropped := b.Replace(42)
	assert.Equal(t, 3, dropped)
	assert.Equal(t, 1, b.Len())

	v, ok := b.Pop()
	require.True(t, ok)
	assert.Equal(t, 42, v)
	assert.Equal(t, 0, b.Len())
}
