// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/festboard/internal/adapters/mq/broker"
	"github.com/okian/festboard/internal/adapters/repository"
	"github.com/okian/festboard/internal/domain/model"
	"github.com/okian/festboard/internal/domain/presenter"
	"github.com/okian/festboard/internal/domain/standings"
	"github.com/okian/festboard/internal/domain/types"
	"github.com/okian/festboard/pkg/logger"
	"github.com/okian/festboard/pkg/metrics"
)

// view is everything derived from one snapshot. It is built once per load
// and shared read-only by every query.
type view struct {
	state *repository.State
	snap  *model.Snapshot
	idx   *model.Index
	agg   standings.Aggregate
	stats standings.Stats
}

func newView(st *repository.State) *view {
	v := &view{state: st, snap: &model.Snapshot{}}
	if st != nil && st.Snapshot != nil {
		v.snap = st.Snapshot
	}
	v.idx = model.NewIndex(v.snap)
	v.agg = standings.Compute(v.snap)
	v.stats = standings.ComputeStats(v.snap, v.agg)
	return v
}

func (v *view) meta() types.Meta {
	if v.state == nil {
		return types.Meta{}
	}
	return types.Meta{Loaded: true, Version: v.snap.Version}
}

// Service implements the API dependencies for the festival board.
type Service struct {
	mu sync.RWMutex

	// Core components
	source repository.Source
	store  *repository.SnapshotStore
	sched  *presenter.Scheduler
	frames *broker.Broker[presenter.Frame]
	clock  presenter.Clock

	current atomic.Pointer[view]
	empty   *view

	// Configuration
	snapshotPath     string
	reloadInterval   time.Duration
	rotationInterval time.Duration
	revealDelay      time.Duration
	upcomingLimit    int
	streamBuffer     int
	autostart        bool

	// State
	started bool
	stopCh  chan struct{}
	wg      sync.WaitGroup

	// Logging
	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		snapshotPath:     "festival.yaml",
		reloadInterval:   2 * time.Second,
		rotationInterval: presenter.DefaultInterval,
		revealDelay:      presenter.DefaultRevealDelay,
		upcomingLimit:    5,
		streamBuffer:     16,
		autostart:        true,
		clock:            presenter.SystemClock(),
		empty:            newView(nil),
		logger:           nil, // Will be replaced when service starts
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start loads the first snapshot, then starts the reload loop and the
// display. A missing or invalid snapshot is not fatal; queries return empty
// results until one loads.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	if s.source == nil {
		s.source = repository.NewFileSource(s.snapshotPath)
	}

	s.logger.Info(ctx, "starting festboard service...")

	s.stopCh = make(chan struct{})
	s.frames = broker.New[presenter.Frame](
		broker.WithBufferSize(s.streamBuffer),
		broker.WithReplay(true),
	)
	s.sched = presenter.NewScheduler(
		presenter.WithClock(s.clock),
		presenter.WithInterval(s.rotationInterval),
		presenter.WithRevealDelay(s.revealDelay),
		presenter.WithSink(s.publishFrame),
		presenter.WithLogger(s.logger.Named("display")),
	)
	s.store = repository.NewSnapshotStore(ctx, s.source,
		repository.WithReloadInterval(s.reloadInterval),
		repository.WithLogger(s.logger.Named("store")),
		repository.WithListener(s.applySnapshot),
	)

	s.sched.Start(ctx)
	if !s.autostart {
		s.sched.Pause()
	}
	s.startDeckRefresher(ctx)

	s.started = true
	s.logger.Info(ctx, "festboard service started",
		logger.Bool("loaded", s.view().state != nil),
		logger.Duration("reload_interval", s.reloadInterval),
		logger.Duration("rotation_interval", s.rotationInterval),
		logger.Bool("autostart_display", s.autostart),
	)
	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping festboard service...")

	close(s.stopCh)
	s.wg.Wait()

	_ = s.store.Close()
	s.sched.Stop()
	_ = s.frames.Close()

	s.started = false
	s.logger.Info(context.Background(), "festboard service stopped")
}

// Reload checks the source for a new snapshot immediately.
func (s *Service) Reload(ctx context.Context) (bool, error) {
	s.mu.RLock()
	store := s.store
	s.mu.RUnlock()
	if store == nil {
		return false, ErrNotStarted
	}
	applied, err := store.Reload(ctx)
	if err != nil {
		return false, fmt.Errorf("reload: %w", err)
	}
	return applied, nil
}

// applySnapshot recomputes every derived view for a newly applied snapshot.
func (s *Service) applySnapshot(ctx context.Context, st *repository.State) {
	start := time.Now()
	v := newView(st)
	elapsed := float64(time.Since(start).Microseconds()) / 1000

	skipped := make(map[string]int, len(v.agg.Skipped))
	for reason, n := range v.agg.Skipped {
		skipped[string(reason)] = n
	}
	metrics.RecordAggregation(elapsed, v.agg.Counted, skipped, v.stats.PointsAwarded)

	if len(skipped) > 0 {
		s.logger.Debug(ctx, "results skipped during aggregation",
			logger.Uint64("version", v.snap.Version),
			logger.Int("draft", skipped[string(standings.SkipDraft)]),
			logger.Int("orphan", skipped[string(standings.SkipOrphan)]),
			logger.Int("participant", skipped[string(standings.SkipParticipant)]),
		)
	}
	if !v.agg.Consistent() {
		s.logger.Error(ctx, "participant and item-wise totals disagree",
			logger.Uint64("version", v.snap.Version),
		)
	}

	s.current.Store(v)
	s.sched.SetDeck(s.buildDeck(v))
}

func (s *Service) buildDeck(v *view) *presenter.Deck {
	if v.state == nil {
		return nil
	}
	return presenter.BuildDeck(v.snap, v.agg, s.clock.Now(), s.upcomingLimit)
}

// startDeckRefresher rebuilds the deck on every rotation so the upcoming
// slide drops events that have started.
func (s *Service) startDeckRefresher(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.rotationInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopCh:
				return
			case <-ticker.C:
				if v := s.current.Load(); v != nil {
					s.sched.SetDeck(s.buildDeck(v))
				}
			}
		}
	}()
}

// publishFrame runs under the scheduler lock; it must not call back into
// the scheduler.
func (s *Service) publishFrame(f presenter.Frame) {
	metrics.RecordDisplayTransition(f.Mode.String(), int(f.Reveal))
	s.frames.Publish(f)
}

func (s *Service) view() *view {
	if v := s.current.Load(); v != nil {
		return v
	}
	return s.empty
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v := s.view()
	stats := map[string]interface{}{
		"started":          s.started,
		"loaded":           v.state != nil,
		"snapshotVersion":  v.snap.Version,
		"resultsCounted":   v.agg.Counted,
		"rotationInterval": s.rotationInterval.String(),
		"revealDelay":      s.revealDelay.String(),
	}
	if v.state != nil {
		stats["loadedAt"] = v.state.LoadedAt
		stats["seq"] = v.state.Seq
	}

	if s.started {
		stats["subscribers"] = s.frames.Len()
		stats["displayMode"] = s.sched.Mode().String()
		if f, ok := s.sched.Frame(); ok {
			stats["paused"] = f.Paused
		}
	}
	return stats
}
