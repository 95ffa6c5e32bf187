package api

import (
	"time"

	"github.com/okian/festboard/pkg/logger"
)

const (
	defaultMaxLimit     = 100
	defaultPingInterval = 30 * time.Second
)

type options struct {
	maxLimit     int
	pingInterval time.Duration
	logger       logger.Logger
}

func defaultOptions() *options {
	return &options{
		maxLimit:     defaultMaxLimit,
		pingInterval: defaultPingInterval,
		logger:       logger.Nop(),
	}
}

// Option configures a Server.
type Option func(*options)

// WithMaxLimit caps the leaderboard limit parameter.
func WithMaxLimit(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxLimit = n
		}
	}
}

// WithPingInterval sets how often idle event streams receive a keepalive.
func WithPingInterval(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.pingInterval = d
		}
	}
}

// WithLogger sets the request and stream logger.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}
