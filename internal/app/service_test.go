package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	service "github.com/okian/festboard/internal/app"
	"github.com/okian/festboard/internal/adapters/repository"
	"github.com/okian/festboard/internal/domain/facet"
	"github.com/okian/festboard/internal/domain/model"
	"github.com/okian/festboard/internal/domain/presenter"
	"github.com/okian/festboard/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

var start = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func festival() *model.Snapshot {
	pts := model.PrizePoints{First: 5, Second: 3, Third: 1}
	return &model.Snapshot{
		Version:    1,
		Teams:      []model.Team{{ID: "red", Name: "Red"}, {ID: "blue", Name: "Blue"}},
		Categories: []model.Category{{ID: "jr", Name: "Junior"}, {ID: "sr", Name: "Senior"}},
		Items: []model.Item{
			{ID: "song", Name: "Song", Type: model.ItemSingle, PerformanceType: model.OnStage, CategoryID: "jr", Points: pts},
			{ID: "essay", Name: "Essay", Type: model.ItemSingle, PerformanceType: model.OffStage, CategoryID: "jr", Points: pts},
			{ID: "drama", Name: "Drama", Type: model.ItemGroup, PerformanceType: model.OnStage, CategoryID: "sr", Points: pts},
		},
		GradePoints: model.GradeTables{Single: []model.Grade{{ID: "A", Name: "A grade", Points: 5}}},
		Participants: []model.Participant{
			{ID: "p1", ChestNumber: "10", Name: "Asha", TeamID: "red", CategoryID: "jr", ItemIDs: []string{"song", "essay"}},
			{ID: "p2", ChestNumber: "2", Name: "Bilal", TeamID: "blue", CategoryID: "jr", ItemIDs: []string{"song"}},
			{ID: "p3", ChestNumber: "7", Name: "Chitra", TeamID: "blue", CategoryID: "sr", ItemIDs: []string{"drama"}},
		},
		Results: []model.Result{
			{ID: "r1", ItemID: "song", Status: model.StatusDeclared, Winners: []model.Winner{
				{ParticipantID: "p1", Position: model.First, GradeID: "A"},
				{ParticipantID: "p2", Position: model.Second},
			}},
			{ID: "r2", ItemID: "drama", Status: model.StatusUploaded, Winners: []model.Winner{
				{ParticipantID: "p3", Position: model.First},
			}},
		},
		Schedule: []model.ScheduledEvent{
			{ItemID: "essay", Date: "2026-03-14", Time: "10:00", Stage: "1"},
			{ItemID: "drama", Date: "2026-03-14", Time: "11:30", Stage: "2"},
		},
	}
}

type fixture struct {
	src   *repository.MemorySource
	clock *presenter.ManualClock
	svc   *service.Service
}

func newFixture(snap *model.Snapshot, opts ...service.Option) *fixture {
	f := &fixture{
		src:   repository.NewMemorySource(snap),
		clock: presenter.NewManualClock(start),
	}
	base := []service.Option{
		service.WithSource(f.src),
		service.WithClock(f.clock),
		service.WithReloadInterval(0),
		service.WithRotationInterval(10 * time.Second),
		service.WithRevealDelay(time.Second),
	}
	f.svc = service.New(append(base, opts...)...)
	return f
}

func TestService_Lifecycle(t *testing.T) {
	Convey("Given a service that has not started", t, func() {
		f := newFixture(festival())

		Convey("Display controls report not started", func() {
			So(errors.Is(f.svc.Pause(), service.ErrNotStarted), ShouldBeTrue)
			_, err := f.svc.Subscribe()
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			_, ok := f.svc.Frame()
			So(ok, ShouldBeFalse)
			_, err = f.svc.Reload(context.Background())
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
		})

		Convey("Queries answer with an empty, unloaded view", func() {
			board, meta := f.svc.Leaderboard(context.Background(), 0)
			So(board, ShouldBeEmpty)
			So(meta.Loaded, ShouldBeFalse)
		})

		Convey("When started", func() {
			So(f.svc.Start(context.Background()), ShouldBeNil)
			defer f.svc.Stop()

			Convey("Then stats report the loaded snapshot", func() {
				stats := f.svc.GetStats()
				So(stats["started"], ShouldEqual, true)
				So(stats["loaded"], ShouldEqual, true)
				So(stats["displayMode"], ShouldEqual, "result")
			})

			Convey("And starting twice is harmless", func() {
				So(f.svc.Start(context.Background()), ShouldBeNil)
			})

			Convey("And stopping twice is harmless", func() {
				f.svc.Stop()
				So(func() { f.svc.Stop() }, ShouldNotPanic)
				So(f.svc.GetStats()["started"], ShouldEqual, false)
			})
		})
	})

	Convey("Given a service whose source is empty", t, func() {
		f := newFixture(nil)
		So(f.svc.Start(context.Background()), ShouldBeNil)
		defer f.svc.Stop()

		Convey("Nothing is displayed until a snapshot arrives", func() {
			_, ok := f.svc.Frame()
			So(ok, ShouldBeFalse)

			f.src.Set(festival())
			applied, err := f.svc.Reload(context.Background())
			So(err, ShouldBeNil)
			So(applied, ShouldBeTrue)

			frame, ok := f.svc.Frame()
			So(ok, ShouldBeTrue)
			So(frame.Slide.Result.ResultID, ShouldEqual, "r1")
		})
	})
}

func TestService_Queries(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx := context.Background()
		f := newFixture(festival())
		So(f.svc.Start(ctx), ShouldBeNil)
		defer f.svc.Stop()

		Convey("The leaderboard counts declared results only", func() {
			board, meta := f.svc.Leaderboard(ctx, 0)
			So(meta.Loaded, ShouldBeTrue)
			So(meta.Version, ShouldEqual, 1)
			So(board[0].TeamID, ShouldEqual, "red")
			So(board[0].Points, ShouldEqual, 10)
			So(board[1].Points, ShouldEqual, 3)

			top, _ := f.svc.Leaderboard(ctx, 1)
			So(len(top), ShouldEqual, 1)
		})

		Convey("The merit list follows chest numbers and facets", func() {
			rows, _ := f.svc.MeritList(ctx, facet.New())
			So(len(rows), ShouldEqual, 2)
			So(rows[0].ChestNumber, ShouldEqual, "2")
			So(rows[1].ChestNumber, ShouldEqual, "10")

			red, _ := f.svc.MeritList(ctx, facet.ForRole(facet.RoleTeamManager, "red"))
			So(len(red), ShouldEqual, 1)
			So(red[0].ParticipantID, ShouldEqual, "p1")
		})

		Convey("Item winners honour item and team facets", func() {
			rows, _ := f.svc.ItemWinners(ctx, facet.New())
			So(len(rows), ShouldEqual, 1)

			none, _ := f.svc.ItemWinners(ctx, facet.New().Set(facet.Category, "sr"))
			So(none, ShouldBeEmpty)

			blue, _ := f.svc.ItemWinners(ctx, facet.New().Set(facet.Team, "blue"))
			So(len(blue), ShouldEqual, 1)
			green, _ := f.svc.ItemWinners(ctx, facet.New().Set(facet.Team, "green"))
			So(green, ShouldBeEmpty)
		})

		Convey("Collections filter through their consumers", func() {
			ps, _ := f.svc.Participants(ctx, facet.New().Set(facet.Item, "song"))
			So(len(ps), ShouldEqual, 2)

			items, _ := f.svc.Items(ctx, facet.New().Set(facet.PerformanceType, string(model.OnStage)))
			So(len(items), ShouldEqual, 2)

			sched, _ := f.svc.Schedule(ctx, facet.New().Set(facet.Stage, "2"))
			So(len(sched), ShouldEqual, 1)
			So(sched[0].ItemID, ShouldEqual, "drama")

			res, _ := f.svc.Results(ctx, facet.New().Set(facet.ResultStatus, string(model.StatusUploaded)))
			So(len(res), ShouldEqual, 1)
			So(res[0].ID, ShouldEqual, "r2")
		})

		Convey("Options cascade from the category selection", func() {
			opts, _ := f.svc.Options(ctx, facet.New().Set(facet.Category, "sr"))
			So(opts["item"], ShouldResemble, []string{"drama"})
			So(opts["category"], ShouldResemble, []string{"jr", "sr"})
			So(opts["stage"], ShouldResemble, []string{"2"})
		})

		Convey("Stats describe the snapshot", func() {
			stats, _ := f.svc.Stats(ctx)
			So(stats.Items, ShouldEqual, 3)
			So(stats.Results.Declared, ShouldEqual, 1)
			So(stats.PendingItems, ShouldEqual, 2)
			So(stats.Leader.TeamID, ShouldEqual, "red")
		})

		Convey("A rejected snapshot keeps the previous view", func() {
			bad := festival()
			bad.Results[0].Status = "final"
			f.src.Set(bad)
			_, err := f.svc.Reload(ctx)
			So(errors.Is(err, model.ErrInvalidSnapshot), ShouldBeTrue)

			board, _ := f.svc.Leaderboard(ctx, 0)
			So(board[0].Points, ShouldEqual, 10)
		})
	})
}

func TestService_CategoryAgreement(t *testing.T) {
	Convey("Given a result whose own category disagrees with its item", t, func() {
		ctx := context.Background()
		snap := festival()
		snap.Results[0].CategoryID = "sr"
		f := newFixture(snap)
		So(f.svc.Start(ctx), ShouldBeNil)
		defer f.svc.Stop()

		declared := facet.New().Set(facet.ResultStatus, string(model.StatusDeclared))

		Convey("The results list and the item-wise report file it under the item's category", func() {
			jr := declared.Set(facet.Category, "jr")
			res, _ := f.svc.Results(ctx, jr)
			rows, _ := f.svc.ItemWinners(ctx, jr)
			So(len(res), ShouldEqual, 1)
			So(res[0].ID, ShouldEqual, "r1")
			So(len(rows), ShouldEqual, 1)
			So(rows[0].ResultID, ShouldEqual, "r1")
			So(rows[0].CategoryID, ShouldEqual, "jr")

			sr := declared.Set(facet.Category, "sr")
			res, _ = f.svc.Results(ctx, sr)
			rows, _ = f.svc.ItemWinners(ctx, sr)
			So(res, ShouldBeEmpty)
			So(rows, ShouldBeEmpty)
		})
	})
}

func TestService_Display(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx := context.Background()
		f := newFixture(festival())
		So(f.svc.Start(ctx), ShouldBeNil)
		defer f.svc.Stop()

		Convey("A subscriber first receives the current frame", func() {
			sub, err := f.svc.Subscribe()
			So(err, ShouldBeNil)
			defer f.svc.Unsubscribe(sub.ID)

			first := <-sub.C
			So(first.Mode, ShouldEqual, presenter.ModeResult)

			f.clock.Advance(time.Second)
			next := <-sub.C
			So(next.Reveal, ShouldEqual, 1)
		})

		Convey("Declaring a new result restarts the reveal on it", func() {
			f.clock.Advance(4 * time.Second)
			snap := festival()
			snap.Version = 2
			snap.Results[1].Status = model.StatusDeclared
			f.src.Set(snap)
			_, err := f.svc.Reload(ctx)
			So(err, ShouldBeNil)

			frame, _ := f.svc.Frame()
			So(frame.Slide.Result.ResultID, ShouldEqual, "r2")
			So(frame.Reveal, ShouldEqual, 0)
		})

		Convey("Pause, jump and resume drive the scheduler", func() {
			So(f.svc.Pause(), ShouldBeNil)
			frame, _ := f.svc.Frame()
			So(frame.Paused, ShouldBeTrue)

			So(f.svc.Jump(presenter.ModeUpcoming), ShouldBeNil)
			frame, _ = f.svc.Frame()
			So(frame.Slide.Kind, ShouldEqual, presenter.SlideUpcoming)
			So(len(frame.Slide.Upcoming), ShouldEqual, 2)

			So(f.svc.Resume(), ShouldBeNil)
			f.clock.Advance(10 * time.Second)
			frame, _ = f.svc.Frame()
			So(frame.Mode, ShouldEqual, presenter.ModeResult)
		})
	})

	Convey("Given a service that does not autostart the display", t, func() {
		f := newFixture(festival(), service.WithAutostartDisplay(false))
		So(f.svc.Start(context.Background()), ShouldBeNil)
		defer f.svc.Stop()

		Convey("The first frame is paused and time does not move it", func() {
			frame, ok := f.svc.Frame()
			So(ok, ShouldBeTrue)
			So(frame.Paused, ShouldBeTrue)
			f.clock.Advance(time.Minute)
			again, _ := f.svc.Frame()
			So(again.Seq, ShouldEqual, frame.Seq)
		})
	})
}
