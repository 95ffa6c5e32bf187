package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	app "github.com/okian/festboard/internal/app"
	"github.com/okian/festboard/internal/config"
	"github.com/okian/festboard/internal/seed"
	"github.com/okian/festboard/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func writeFestival(t *testing.T) string {
	path := filepath.Join(t.TempDir(), "festival.yaml")
	cfg := seed.DefaultConfig()
	cfg.Seed = 3
	s, err := seed.Generate(cfg)
	if err != nil {
		t.Fatal(err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = f.Close() }()
	if err := seed.Write(f, s, seed.FormatYAML); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestMainApplicationIntegration(t *testing.T) {
	convey.Convey("Given a config pointing at a generated festival", t, func() {
		path := writeFestival(t)
		_ = os.Setenv("FESTBOARD_SNAPSHOT_PATH", path)
		_ = os.Setenv("FESTBOARD_RELOAD_INTERVAL_MS", "0")
		defer func() {
			_ = os.Unsetenv("FESTBOARD_SNAPSHOT_PATH")
			_ = os.Unsetenv("FESTBOARD_RELOAD_INTERVAL_MS")
		}()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		cfg, err := config.Load(ctx)
		convey.So(err, convey.ShouldBeNil)

		svc := app.New(
			app.WithSnapshotPath(cfg.SnapshotPath),
			app.WithReloadInterval(cfg.ReloadInterval()),
			app.WithRotationInterval(cfg.RotationInterval()),
			app.WithRevealDelay(cfg.RevealDelay()),
		)
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop()

		h := newRouter(cfg, svc, logger.Nop())

		convey.Convey("Then every mounted route answers", func() {
			for _, route := range []string{
				"/healthz", "/stats", "/leaderboard", "/reports/merit", "/reports/items",
				"/participants", "/items", "/schedule", "/results", "/facets/options",
				"/display", "/api-docs", "/openapi.yaml", "/", "/static/display.js",
			} {
				rr := httptest.NewRecorder()
				h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, route, http.NoBody))
				convey.So(rr.Code, convey.ShouldEqual, http.StatusOK)
			}
		})

		convey.Convey("Then the configured leaderboard cap applies", func() {
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/leaderboard?limit=101", http.NoBody))
			convey.So(rr.Code, convey.ShouldEqual, http.StatusBadRequest)
		})

		convey.Convey("Then the API middleware stack guards every route", func() {
			r, ok := h.(chi.Router)
			convey.So(ok, convey.ShouldBeTrue)
			r.Get("/boom", func(http.ResponseWriter, *http.Request) { panic("boom") })

			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/boom", http.NoBody))
			convey.So(rr.Code, convey.ShouldEqual, http.StatusInternalServerError)
		})

		convey.Convey("Then the loaded snapshot is reported", func() {
			convey.So(svc.GetStats()["loaded"], convey.ShouldEqual, true)
		})
	})
}

func TestMainApplicationComponents(t *testing.T) {
	convey.Convey("Given main application components", t, func() {
		convey.Convey("When the system metrics updater runs until its context ends", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer cancel()

			convey.So(func() {
				startSystemMetricsUpdater(ctx, 10*time.Millisecond)
			}, convey.ShouldNotPanic)
		})

		convey.Convey("When testing system metrics update", func() {
			convey.So(func() {
				updateSystemMetrics()
			}, convey.ShouldNotPanic)
		})
	})
}

func TestMainApplicationErrorHandling(t *testing.T) {
	convey.Convey("Given an invalid configuration", t, func() {
		_ = os.Setenv("FESTBOARD_ADDR", "")
		defer func() { _ = os.Unsetenv("FESTBOARD_ADDR") }()

		convey.Convey("Then run fails before serving", func() {
			err := run(context.Background())
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}
