package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/festboard/internal/domain/model"
	"github.com/okian/festboard/pkg/logger"
	"github.com/okian/festboard/pkg/metrics"
)

// SnapshotStore publishes the latest valid snapshot from a Source. Readers
// get lock-free access to an immutable State; a failed or invalid load keeps
// the previous State live.
type SnapshotStore struct {
	src            Source
	reloadInterval time.Duration
	logger         logger.Logger

	state atomic.Pointer[State]

	// reloadMu serialises loads and listener delivery.
	reloadMu  sync.Mutex
	seq       uint64
	lastErr   string
	listeners []Listener

	stopChan chan struct{}
	wg       sync.WaitGroup
}

// NewSnapshotStore loads the first snapshot and, if configured, starts
// polling src for changes. A failed first load leaves the store empty; it
// keeps polling.
func NewSnapshotStore(ctx context.Context, src Source, opts ...Option) *SnapshotStore {
	s := &SnapshotStore{
		src:            src,
		reloadInterval: 2 * time.Second,
		logger:         logger.Nop(),
		stopChan:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	if _, err := s.Reload(ctx); err != nil {
		s.logger.Warn(ctx, "initial snapshot load failed", logger.Error(err))
	}
	if s.reloadInterval > 0 {
		s.startPeriodicReload(ctx)
	}
	return s
}

// OnChange registers fn for every snapshot applied from now on.
func (s *SnapshotStore) OnChange(fn Listener) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Current returns the live state, or ErrNotLoaded before the first
// successful load.
func (s *SnapshotStore) Current() (*State, error) {
	st := s.state.Load()
	if st == nil {
		return nil, ErrNotLoaded
	}
	return st, nil
}

// Snapshot returns the live snapshot or nil.
func (s *SnapshotStore) Snapshot() *model.Snapshot {
	if st := s.state.Load(); st != nil {
		return st.Snapshot
	}
	return nil
}

// Reload checks the source and applies a new snapshot when its revision
// changed. It reports whether a snapshot was applied.
func (s *SnapshotStore) Reload(ctx context.Context) (bool, error) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	rev, err := s.src.Revision(ctx)
	if err != nil {
		_ = metrics.RecordSnapshotReload(metrics.ReloadFailed)
		return false, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}
	if cur := s.state.Load(); cur != nil && cur.Revision == rev {
		_ = metrics.RecordSnapshotReload(metrics.ReloadUnchanged)
		return false, nil
	}

	snap, err := s.src.Load(ctx)
	if err != nil {
		if errors.Is(err, model.ErrInvalidSnapshot) {
			_ = metrics.RecordSnapshotReload(metrics.ReloadRejected)
			return false, err
		}
		_ = metrics.RecordSnapshotReload(metrics.ReloadFailed)
		return false, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}

	s.seq++
	if snap.Version == 0 {
		snap.Version = s.seq
	}
	st := &State{Snapshot: snap, Seq: s.seq, Revision: rev, LoadedAt: time.Now()}
	if cur := s.state.Load(); cur != nil {
		st.Regressions = model.StatusRegressions(cur.Snapshot, snap)
	}
	if len(st.Regressions) > 0 {
		s.logger.Warn(ctx, "result status moved backwards",
			logger.Int("count", len(st.Regressions)),
			logger.Any("results", st.Regressions),
		)
	}
	s.state.Store(st)

	_ = metrics.RecordSnapshotReload(metrics.ReloadApplied)
	metrics.UpdateSnapshot(snap.Version, st.LoadedAt, map[string]int{
		"items":        len(snap.Items),
		"participants": len(snap.Participants),
		"teams":        len(snap.Teams),
		"categories":   len(snap.Categories),
		"results":      len(snap.Results),
		"schedule":     len(snap.Schedule),
	})
	s.logger.Info(ctx, "snapshot applied",
		logger.Uint64("seq", st.Seq),
		logger.Uint64("version", snap.Version),
		logger.String("revision", rev),
	)

	for _, fn := range s.listeners {
		fn(ctx, st)
	}
	return true, nil
}

// startPeriodicReload polls the source at the configured interval.
func (s *SnapshotStore) startPeriodicReload(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.reloadInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				s.poll(ctx)
			}
		}
	}()
}

// poll reloads once, logging each distinct failure at warn and repeats at
// debug.
func (s *SnapshotStore) poll(ctx context.Context) {
	_, err := s.Reload(ctx)
	msg := ""
	if err != nil {
		msg = err.Error()
	}

	s.reloadMu.Lock()
	repeated := msg == s.lastErr
	s.lastErr = msg
	s.reloadMu.Unlock()

	switch {
	case err == nil:
	case repeated:
		s.logger.Debug(ctx, "snapshot reload still failing", logger.Error(err))
	default:
		s.logger.Warn(ctx, "snapshot reload failed, keeping previous snapshot", logger.Error(err))
	}
}

// Close stops polling and waits for the poller to exit.
func (s *SnapshotStore) Close() error {
	select {
	case <-s.stopChan:
	default:
		close(s.stopChan)
	}
	s.wg.Wait()
	return nil
}
