// Package repository holds the live festival snapshot and keeps it in sync
// with its source.
package repository

import (
	"context"
	"time"

	"github.com/okian/festboard/internal/domain/model"
)

// Source produces festival snapshots.
type Source interface {
	// Revision returns a cheap token that changes whenever Load would return
	// different data.
	Revision(ctx context.Context) (string, error)
	// Load reads and validates the full snapshot.
	Load(ctx context.Context) (*model.Snapshot, error)
}

// State is one published snapshot. It is immutable once published.
type State struct {
	Snapshot *model.Snapshot
	// Seq counts applied loads, starting at 1.
	Seq      uint64
	Revision string
	LoadedAt time.Time
	// Regressions holds the results whose status moved backwards since the
	// previous state. They are applied as loaded.
	Regressions []string
}

// Listener is told about every applied snapshot, in order.
type Listener func(ctx context.Context, st *State)
