package broker

// Option configures a Broker.
type Option func(*config)

type config struct {
	bufferSize int
	replay     bool
}

// WithBufferSize sets each subscriber's channel capacity.
func WithBufferSize(size int) Option {
	return func(c *config) {
		if size > 0 {
			c.bufferSize = size
		}
	}
}

// WithReplay makes new subscribers receive the last published message first.
func WithReplay(on bool) Option {
	return func(c *config) { c.replay = on }
}
