package repository

import (
	"time"

	"github.com/okian/festboard/pkg/logger"
)

// Option applies a configuration option to the SnapshotStore.
type Option func(*SnapshotStore)

// WithReloadInterval sets how often the source revision is polled. Zero
// disables polling.
func WithReloadInterval(interval time.Duration) Option {
	return func(s *SnapshotStore) {
		if interval >= 0 {
			s.reloadInterval = interval
		}
	}
}

// WithListener registers fn for every applied snapshot.
func WithListener(fn Listener) Option {
	return func(s *SnapshotStore) {
		if fn != nil {
			s.listeners = append(s.listeners, fn)
		}
	}
}

// WithLogger sets a custom logger for the store.
func WithLogger(l logger.Logger) Option {
	return func(s *SnapshotStore) {
		if l != nil {
			s.logger = l
		}
	}
}
