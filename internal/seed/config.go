// Package seed generates random but internally consistent festival
// snapshots for demos and load checks.
package seed

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Format is the encoding of a written snapshot.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Config controls the shape of a generated festival.
type Config struct {
	// Seed makes generation reproducible.
	Seed                int64     `validate:"-"`
	Teams               int       `validate:"min=1,max=26"`
	Categories          int       `validate:"min=1,max=8"`
	ItemsPerCategory    int       `validate:"min=1,max=12"`
	ParticipantsPerTeam int       `validate:"min=1"`
	Days                int       `validate:"min=1"`
	Stages              int       `validate:"min=1"`
	Start               time.Time `validate:"required"`
	// DeclaredRatio is the share of items whose result is declared.
	DeclaredRatio float64 `validate:"min=0,max=1"`
	// Orphans adds results that reference items missing from the snapshot.
	Orphans int `validate:"min=0"`
}

// DefaultConfig returns a mid-sized festival starting today.
func DefaultConfig() Config {
	y, m, d := time.Now().Date()
	return Config{
		Seed:                1,
		Teams:               4,
		Categories:          3,
		ItemsPerCategory:    6,
		ParticipantsPerTeam: 12,
		Days:                2,
		Stages:              3,
		Start:               time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		DeclaredRatio:       0.5,
		Orphans:             1,
	}
}

// Validate checks the configured bounds.
func (c Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}
