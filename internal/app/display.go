package service

import (
	"github.com/okian/festboard/internal/adapters/mq/broker"
	"github.com/okian/festboard/internal/domain/presenter"
)

// Frame returns the frame currently on the projector.
func (s *Service) Frame() (presenter.Frame, bool) {
	sched := s.scheduler()
	if sched == nil {
		return presenter.Frame{}, false
	}
	return sched.Frame()
}

// Subscribe opens a frame feed. The current frame, if any, arrives first.
func (s *Service) Subscribe() (broker.Subscription[presenter.Frame], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return broker.Subscription[presenter.Frame]{}, ErrNotStarted
	}
	return s.frames.Subscribe()
}

// Unsubscribe closes a frame feed.
func (s *Service) Unsubscribe(id string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.frames != nil {
		s.frames.Unsubscribe(id)
	}
}

// Pause freezes the display.
func (s *Service) Pause() error {
	sched := s.scheduler()
	if sched == nil {
		return ErrNotStarted
	}
	sched.Pause()
	return nil
}

// Resume restarts the display rotation.
func (s *Service) Resume() error {
	sched := s.scheduler()
	if sched == nil {
		return ErrNotStarted
	}
	sched.Resume()
	return nil
}

// Jump shows mode m now and restarts the rotation from it.
func (s *Service) Jump(m presenter.Mode) error {
	sched := s.scheduler()
	if sched == nil {
		return ErrNotStarted
	}
	sched.Jump(m)
	return nil
}

func (s *Service) scheduler() *presenter.Scheduler {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil
	}
	return s.sched
}
