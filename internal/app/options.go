package service

import (
	"time"

	"github.com/okian/festboard/internal/adapters/repository"
	"github.com/okian/festboard/internal/domain/presenter"
	"github.com/okian/festboard/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithSource sets where snapshots come from. Without it the service reads
// the snapshot path.
func WithSource(src repository.Source) Option {
	return func(s *Service) {
		if src != nil {
			s.source = src
		}
	}
}

// WithSnapshotPath sets the snapshot file read when no source is given.
func WithSnapshotPath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.snapshotPath = path
		}
	}
}

// WithReloadInterval sets how often the source is polled. Zero disables
// polling.
func WithReloadInterval(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.reloadInterval = d
		}
	}
}

// WithRotationInterval sets how long each display mode stays up.
func WithRotationInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.rotationInterval = d
		}
	}
}

// WithRevealDelay sets the winner reveal unit.
func WithRevealDelay(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.revealDelay = d
		}
	}
}

// WithUpcomingLimit caps the upcoming slide.
func WithUpcomingLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.upcomingLimit = n
		}
	}
}

// WithStreamBuffer sets each display subscriber's buffer.
func WithStreamBuffer(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.streamBuffer = n
		}
	}
}

// WithAutostartDisplay controls whether the display rotates from start or
// waits paused for an operator.
func WithAutostartDisplay(on bool) Option {
	return func(s *Service) {
		s.autostart = on
	}
}

// WithClock drives the display and the upcoming slide from c.
func WithClock(c presenter.Clock) Option {
	return func(s *Service) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
