// Package presenter drives the unattended projector display.
//
// The Scheduler is a two-level timed state machine. The outer level rotates
// through result, leaderboard, stats and upcoming slides on a fixed interval.
// While the result slide is up, an inner level reveals third, second and first
// place at D, 2D and 4D after entry.
//
// Each level owns one timer. Every arm captures a token and every cancel bumps
// it, so a callback that was already in flight when its timer was cleared
// finds a stale token and does nothing.
package presenter

import (
	"context"
	"sync"
	"time"

	"github.com/okian/festboard/internal/domain/standings"
	"github.com/okian/festboard/pkg/logger"
)

// Default timings.
const (
	DefaultInterval    = 15 * time.Second
	DefaultRevealDelay = 1500 * time.Millisecond
)

// SlideKind names the content actually rendered.
type SlideKind string

const (
	SlideResult      SlideKind = "result"
	SlideLeaderboard SlideKind = "leaderboard"
	SlideStats       SlideKind = "stats"
	SlideUpcoming    SlideKind = "upcoming"
)

// Slide is the renderable content of a frame. Exactly the field matching Kind
// is set.
type Slide struct {
	Kind        SlideKind                `json:"kind"`
	Result      *ResultSlide             `json:"result,omitempty"`
	Leaderboard []standings.TeamStanding `json:"leaderboard,omitempty"`
	Stats       *standings.Stats         `json:"stats,omitempty"`
	Upcoming    []UpcomingEvent          `json:"upcoming,omitempty"`
}

// Frame is the display state emitted on every transition.
type Frame struct {
	Seq    uint64     `json:"seq"`
	Mode   Mode       `json:"mode"`
	Reveal RevealStep `json:"reveal"`
	Paused bool       `json:"paused"`
	// Fallback is set when the result mode has nothing declared and shows
	// stats instead.
	Fallback    bool      `json:"fallback"`
	DeckVersion uint64    `json:"deck_version"`
	Slide       Slide     `json:"slide"`
	At          time.Time `json:"at"`
}

// Scheduler rotates display modes and stages the winner reveal.
type Scheduler struct {
	mu sync.Mutex

	clock    Clock
	interval time.Duration
	delay    time.Duration
	sink     func(Frame)
	logger   logger.Logger

	deck    *Deck
	running bool
	paused  bool
	mode    Mode
	reveal  RevealStep
	// revealing is the id of the result whose reveal is in progress.
	revealing string

	rotation    Timer
	rotationTok uint64
	revealTimer Timer
	revealTok   uint64

	seq      uint64
	last     Frame
	hasFrame bool
	stopCh   chan struct{}
}

// NewScheduler constructs a Scheduler with default timings.
func NewScheduler(opts ...Option) *Scheduler {
	s := &Scheduler{
		clock:    SystemClock(),
		interval: DefaultInterval,
		delay:    DefaultRevealDelay,
		sink:     func(Frame) {},
		logger:   logger.Nop(),
		mode:     ModeResult,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start begins the rotation. With no deck loaded nothing renders and no timer
// is armed until SetDeck supplies one. The scheduler stops when ctx ends.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.stopCh = make(chan struct{})
	stopCh := s.stopCh
	if s.deck != nil {
		s.enter(s.mode)
		if !s.paused {
			s.armRotation()
		}
	}
	s.mu.Unlock()

	s.logger.Info(ctx, "display scheduler started",
		logger.String("mode", s.Mode().String()),
		logger.Duration("interval", s.interval),
		logger.Duration("reveal_delay", s.delay),
	)

	go func() {
		select {
		case <-ctx.Done():
			s.Stop()
		case <-stopCh:
		}
	}()
}

// Stop clears both timers and stops emitting frames.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.cancelRotation()
	s.cancelReveal()
	s.running = false
	close(s.stopCh)
}

// Pause freezes the display. Both timers are cleared.
func (s *Scheduler) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.paused {
		return
	}
	s.paused = true
	s.cancelRotation()
	s.cancelReveal()
	if s.running && s.deck != nil {
		s.emit()
	}
}

// Resume restarts a full rotation interval and schedules the reveal steps
// still outstanding, relative to now.
func (s *Scheduler) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.paused {
		return
	}
	s.paused = false
	if !s.running || s.deck == nil {
		return
	}
	s.armRotation()
	if s.revealing != "" {
		s.armReveal()
	}
	s.emit()
}

// Jump restarts the cycle at mode m with a full interval.
func (s *Scheduler) Jump(m Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m < 0 || m >= modeCount {
		return
	}
	s.mode = m
	if !s.running || s.deck == nil {
		return
	}
	s.enter(m)
	if !s.paused {
		s.armRotation()
	}
}

// SetDeck swaps the slide content. A new latest result restarts the reveal;
// other changes refresh the current frame in place. A nil deck clears every
// timer and the current frame.
func (s *Scheduler) SetDeck(d *Deck) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.deck
	s.deck = d
	if !s.running {
		return
	}

	switch {
	case d == nil:
		s.cancelRotation()
		s.cancelReveal()
		s.revealing = ""
		s.hasFrame = false
	case prev == nil:
		s.enter(s.mode)
		if !s.paused {
			s.armRotation()
		}
	case s.mode == ModeResult && d.LatestID() != s.revealing:
		s.enter(ModeResult)
	default:
		s.emit()
	}
}

// Frame returns the frame on screen, if any.
func (s *Scheduler) Frame() (Frame, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last, s.hasFrame
}

// Mode returns the current outer state.
func (s *Scheduler) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// enter switches to mode m and restarts the reveal. Must be called with s.mu
// held and a deck loaded.
func (s *Scheduler) enter(m Mode) {
	s.cancelReveal()
	s.mode = m
	s.reveal = 0
	s.revealing = ""
	if m == ModeResult && s.deck.Latest != nil {
		s.revealing = s.deck.Latest.ResultID
		if !s.paused {
			s.armReveal()
		}
	}
	s.emit()
}

func (s *Scheduler) armRotation() {
	s.cancelRotation()
	tok := s.rotationTok
	s.rotation = s.clock.AfterFunc(s.interval, func() { s.onRotate(tok) })
}

func (s *Scheduler) cancelRotation() {
	s.rotationTok++
	if s.rotation != nil {
		s.rotation.Stop()
		s.rotation = nil
	}
}

func (s *Scheduler) onRotate(tok uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tok != s.rotationTok || !s.running || s.paused || s.deck == nil {
		return
	}
	s.rotation = nil
	s.enter(s.mode.Next())
	s.armRotation()
}

// armReveal schedules the single pending reveal tick for the next step.
func (s *Scheduler) armReveal() {
	if s.revealTimer != nil {
		s.revealTimer.Stop()
		s.revealTimer = nil
	}
	if s.reveal >= MaxReveal {
		return
	}
	next := s.reveal + 1
	wait := time.Duration(revealUnits[next]-revealUnits[s.reveal]) * s.delay
	tok := s.revealTok
	s.revealTimer = s.clock.AfterFunc(wait, func() { s.onReveal(tok, next) })
}

func (s *Scheduler) cancelReveal() {
	s.revealTok++
	if s.revealTimer != nil {
		s.revealTimer.Stop()
		s.revealTimer = nil
	}
}

func (s *Scheduler) onReveal(tok uint64, step RevealStep) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tok != s.revealTok || !s.running || s.paused || s.mode != ModeResult {
		return
	}
	s.revealTimer = nil
	s.reveal = step
	s.emit()
	s.armReveal()
}

// emit builds the current frame and hands it to the sink. Must be called with
// s.mu held and a deck loaded.
func (s *Scheduler) emit() {
	s.seq++
	f := Frame{
		Seq:         s.seq,
		Mode:        s.mode,
		Reveal:      s.reveal,
		Paused:      s.paused,
		DeckVersion: s.deck.Version,
		At:          s.clock.Now(),
	}

	switch s.mode {
	case ModeResult:
		if s.deck.Latest == nil {
			f.Fallback = true
			f.Slide = s.statsSlide()
			break
		}
		revealed := s.deck.Latest.Revealed(s.reveal)
		f.Slide = Slide{Kind: SlideResult, Result: &revealed}
	case ModeLeaderboard:
		f.Slide = Slide{Kind: SlideLeaderboard, Leaderboard: s.deck.Leaderboard}
	case ModeStats:
		f.Slide = s.statsSlide()
	case ModeUpcoming:
		f.Slide = Slide{Kind: SlideUpcoming, Upcoming: s.deck.Upcoming}
	}

	s.last = f
	s.hasFrame = true
	s.sink(f)
}

func (s *Scheduler) statsSlide() Slide {
	stats := s.deck.Stats
	return Slide{Kind: SlideStats, Stats: &stats}
}
