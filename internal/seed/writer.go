package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/okian/festboard/internal/adapters/repository"
	"github.com/okian/festboard/internal/domain/model"
	"github.com/okian/festboard/internal/domain/standings"
	"github.com/okian/festboard/pkg/logger"
)

// File permission constants.
const (
	outputFilePermission = 0o644
)

// FormatFor picks the format from a file extension.
func FormatFor(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// Write encodes s to w.
func Write(w io.Writer, s *model.Snapshot, f Format) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(s); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
	return nil
}

// Summary describes a written snapshot as the server will read it.
type Summary struct {
	Path         string
	Items        int
	Participants int
	Results      standings.ResultCounts
	Leader       *standings.TeamStanding
	Consistent   bool
}

// Run generates a snapshot, writes it to path and reads it back through the
// file source the server uses.
func Run(ctx context.Context, cfg Config, path string) (Summary, error) {
	log := logger.Get().Named("seed")

	s, err := Generate(cfg)
	if err != nil {
		return Summary{}, err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, outputFilePermission)
	if err != nil {
		return Summary{}, fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(f, s, FormatFor(path)); err != nil {
		_ = f.Close()
		return Summary{}, err
	}
	if err := f.Close(); err != nil {
		return Summary{}, fmt.Errorf("close %s: %w", path, err)
	}

	loaded, err := repository.NewFileSource(path).Load(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("verify %s: %w", path, err)
	}
	agg := standings.Compute(loaded)
	stats := standings.ComputeStats(loaded, agg)

	sum := Summary{
		Path:         path,
		Items:        stats.Items,
		Participants: stats.Participants,
		Results:      stats.Results,
		Leader:       stats.Leader,
		Consistent:   agg.Consistent(),
	}
	log.Info(ctx, "festival written",
		logger.String("path", path),
		logger.Int64("seed", cfg.Seed),
		logger.Int("items", sum.Items),
		logger.Int("participants", sum.Participants),
		logger.Int("declared", sum.Results.Declared),
		logger.Int("orphaned", sum.Results.Orphaned),
		logger.Bool("consistent", sum.Consistent),
	)
	return sum, nil
}
