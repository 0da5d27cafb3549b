package vector

import "github.com/rs/zerolog"

// DefaultBacklog is the number of undelivered diffs a subscriber may
// accumulate before it is resynchronised with a Reset.
const DefaultBacklog = 1024

type config struct {
	backlog int
	log     zerolog.Logger
}

type Option func(*config)

// WithBacklog sets the per-subscriber backlog capacity. Values below 1 are
// treated as 1.
func WithBacklog(n int) Option {
	return func(c *config) {
		c.backlog = max(n, 1)
	}
}

// WithLogger routes lifecycle events at debug level and backlog overflows
// at warn level to l.
func WithLogger(l zerolog.Logger) Option {
	return func(c *config) {
		c.log = l
	}
}

func newConfig(opts []Option) config {
	c := config{
		backlog: DefaultBacklog,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
