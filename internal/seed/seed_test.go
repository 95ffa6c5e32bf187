package seed_test

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/festboard/internal/adapters/repository"
	"github.com/okian/festboard/internal/domain/model"
	"github.com/okian/festboard/internal/domain/standings"
	"github.com/okian/festboard/internal/seed"
	"github.com/okian/festboard/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func config() seed.Config {
	cfg := seed.DefaultConfig()
	cfg.Seed = 42
	cfg.Start = time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	return cfg
}

func TestGenerate(t *testing.T) {
	Convey("Given the default shape", t, func() {
		cfg := config()
		s, err := seed.Generate(cfg)
		So(err, ShouldBeNil)

		Convey("Then the collections have the configured sizes", func() {
			So(s.Teams, ShouldHaveLength, cfg.Teams)
			So(s.Categories, ShouldHaveLength, cfg.Categories)
			So(s.Items, ShouldHaveLength, cfg.Categories*cfg.ItemsPerCategory)
			So(s.Participants, ShouldHaveLength, cfg.Teams*cfg.ParticipantsPerTeam)
			So(s.Results, ShouldHaveLength, len(s.Items)+cfg.Orphans)
			So(s.Schedule, ShouldHaveLength, len(s.Items))
		})

		Convey("Then the snapshot is structurally valid", func() {
			So(model.Validate(s), ShouldBeNil)
		})

		Convey("Then every reference resolves except the orphans", func() {
			idx := model.NewIndex(s)
			orphans := 0
			for _, r := range s.Results {
				if idx.Orphaned(r) {
					orphans++
					continue
				}
				for _, w := range r.Winners {
					p, ok := idx.Participant(w.ParticipantID)
					So(ok, ShouldBeTrue)
					So(p.EnrolledIn(r.ItemID), ShouldBeTrue)
				}
			}
			So(orphans, ShouldEqual, cfg.Orphans)
			for _, p := range s.Participants {
				for _, id := range p.ItemIDs {
					it, ok := idx.Item(id)
					So(ok, ShouldBeTrue)
					So(it.CategoryID, ShouldEqual, p.CategoryID)
				}
			}
		})

		Convey("Then schedule dates fall within the festival days", func() {
			days := map[string]bool{"2026-03-14": true, "2026-03-15": true}
			for _, e := range s.Schedule {
				So(days[e.Date], ShouldBeTrue)
				_, err := time.Parse("15:04", e.Time)
				So(err, ShouldBeNil)
			}
		})

		Convey("Then aggregation stays consistent", func() {
			So(standings.Compute(s).Consistent(), ShouldBeTrue)
		})

		Convey("Then the same seed reproduces the snapshot", func() {
			again, err := seed.Generate(cfg)
			So(err, ShouldBeNil)
			So(again, ShouldResemble, s)
		})

		Convey("Then a different seed changes it", func() {
			cfg.Seed = 7
			other, err := seed.Generate(cfg)
			So(err, ShouldBeNil)
			So(other.Teams[0].ID, ShouldNotEqual, s.Teams[0].ID)
		})
	})

	Convey("Given an out of range config", t, func() {
		cfg := config()
		cfg.ItemsPerCategory = 40
		_, err := seed.Generate(cfg)
		So(errors.Is(err, seed.ErrInvalidConfig), ShouldBeTrue)
	})

	Convey("Given every result declared", t, func() {
		cfg := config()
		cfg.DeclaredRatio = 1
		cfg.Orphans = 0
		s, err := seed.Generate(cfg)
		So(err, ShouldBeNil)
		for _, r := range s.Results {
			So(r.Status, ShouldEqual, model.StatusDeclared)
		}
	})
}

func TestWrite(t *testing.T) {
	Convey("Given a generated snapshot", t, func() {
		s, err := seed.Generate(config())
		So(err, ShouldBeNil)

		for _, f := range []seed.Format{seed.FormatYAML, seed.FormatJSON} {
			var buf bytes.Buffer
			So(seed.Write(&buf, s, f), ShouldBeNil)
			back, err := repository.Decode(buf.Bytes(), f == seed.FormatJSON)
			So(err, ShouldBeNil)
			So(back.Items, ShouldHaveLength, len(s.Items))
		}

		So(errors.Is(seed.Write(&bytes.Buffer{}, s, "toml"), seed.ErrUnknownFormat), ShouldBeTrue)
	})

	Convey("FormatFor follows the extension", t, func() {
		So(seed.FormatFor("fest.JSON"), ShouldEqual, seed.FormatJSON)
		So(seed.FormatFor("fest.yml"), ShouldEqual, seed.FormatYAML)
	})
}

func TestRun(t *testing.T) {
	Convey("Given an output path", t, func() {
		path := filepath.Join(t.TempDir(), "festival.yaml")

		sum, err := seed.Run(context.Background(), config(), path)

		Convey("Then the file loads through the file source", func() {
			So(err, ShouldBeNil)
			So(sum.Consistent, ShouldBeTrue)
			So(sum.Results.Orphaned, ShouldEqual, 1)

			loaded, err := repository.NewFileSource(path).Load(context.Background())
			So(err, ShouldBeNil)
			So(loaded.Participants, ShouldHaveLength, sum.Participants)
		})
	})
}
