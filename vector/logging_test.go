package vector_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/delaneyj/lookout/vector"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestOverflowIsLogged(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.WarnLevel)

	v := vector.New[int](vector.WithBacklog(1), vector.WithLogger(log))
	_, sub := v.Subscribe()
	defer sub.Close()

	v.PushBack(1)
	assert.Empty(t, buf.String())

	v.PushBack(2)
	assert.Contains(t, buf.String(), `"level":"warn"`)
	assert.Contains(t, buf.String(), `"dropped":1`)
	assert.Contains(t, buf.String(), `"backlog":1`)
	assert.Contains(t, buf.String(), "subscriber backlog overflow")
}

func TestUnsubscribeIsLoggedOnce(t *testing.T) {
	var buf bytes.Buffer
	v := vector.New[int](vector.WithLogger(zerolog.New(&buf)))

	_, sub := v.Subscribe()
	sub.Close()
	sub.Close()
	assert.Equal(t, 1, strings.Count(buf.String(), "vector unsubscribe"))

	// closing the vector drains the registry first
	_, sub = v.Subscribe()
	v.Close()
	sub.Close()
	assert.Equal(t, 1, strings.Count(buf.String(), "vector unsubscribe"))
}
