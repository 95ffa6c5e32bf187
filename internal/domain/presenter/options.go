package presenter

import (
	"time"

	"github.com/okian/festboard/pkg/logger"
)

// Option applies a configuration option to the Scheduler.
type Option func(*Scheduler)

// WithClock sets the clock driving both timers.
func WithClock(c Clock) Option {
	return func(s *Scheduler) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithInterval sets how long each mode stays on screen.
func WithInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithRevealDelay sets the reveal unit D. Ranks appear at D, 2D and 4D.
func WithRevealDelay(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.delay = d
		}
	}
}

// WithSink receives every frame. The sink runs while the scheduler holds its
// lock and must not call back into the scheduler.
func WithSink(sink func(Frame)) Option {
	return func(s *Scheduler) {
		if sink != nil {
			s.sink = sink
		}
	}
}

// WithStartMode sets the mode shown first.
func WithStartMode(m Mode) Option {
	return func(s *Scheduler) {
		if m >= 0 && m < modeCount {
			s.mode = m
		}
	}
}

// WithLogger sets a custom logger for the scheduler.
func WithLogger(l logger.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.logger = l
		}
	}
}
