package observable

import "github.com/rs/zerolog"

type config struct {
	log zerolog.Logger
}

type Option func(*config)

// WithLogger routes lifecycle events (subscribe, close) to l at debug level.
func WithLogger(l zerolog.Logger) Option {
	return func(c *config) {
		c.log = l
	}
}

func newConfig(opts []Option) config {
	c := config{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
