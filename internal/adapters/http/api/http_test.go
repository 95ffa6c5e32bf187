package api_test

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/okian/festboard/internal/adapters/http/api"
	"github.com/okian/festboard/internal/adapters/repository"
	service "github.com/okian/festboard/internal/app"
	"github.com/okian/festboard/internal/domain/model"
	"github.com/okian/festboard/internal/domain/presenter"
	"github.com/okian/festboard/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

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
		Participants: []model.Participant{
			{ID: "p1", ChestNumber: "10", Name: "Asha", TeamID: "red", CategoryID: "jr", ItemIDs: []string{"song", "essay"}},
			{ID: "p2", ChestNumber: "2", Name: "Bilal", TeamID: "blue", CategoryID: "jr", ItemIDs: []string{"song"}},
			{ID: "p3", ChestNumber: "7", Name: "Chitra", TeamID: "blue", CategoryID: "sr", ItemIDs: []string{"drama"}},
		},
		Results: []model.Result{
			{ID: "r1", ItemID: "song", Status: model.StatusDeclared, Winners: []model.Winner{
				{ParticipantID: "p1", Position: model.First},
				{ParticipantID: "p2", Position: model.Second},
			}},
		},
		Schedule: []model.ScheduledEvent{
			{ItemID: "essay", Date: "2026-03-14", Time: "10:00", Stage: "1"},
			{ItemID: "drama", Date: "2026-03-14", Time: "11:30", Stage: "2"},
		},
	}
}

func newService() *service.Service {
	return service.New(
		service.WithSource(repository.NewMemorySource(festival())),
		service.WithClock(presenter.NewManualClock(start)),
		service.WithReloadInterval(0),
		service.WithRotationInterval(10*time.Second),
		service.WithRevealDelay(time.Second),
		service.WithLogger(logger.Nop()),
	)
}

type listing struct {
	Loaded   bool                `json:"loaded"`
	Filters  map[string][]string `json:"filters"`
	Count    int                 `json:"count"`
	Rows     []map[string]any    `json:"rows"`
	Revision uint64              `json:"filters_version"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type selections struct {
	Version    uint64              `json:"version"`
	Selections map[string][]string `json:"selections"`
	Locked     []string            `json:"locked"`
}

type display struct {
	Available bool            `json:"available"`
	Frame     json.RawMessage `json:"frame"`
}

type frame struct {
	Mode   string `json:"mode"`
	Paused bool   `json:"paused"`
	Slide  struct {
		Kind string `json:"kind"`
	} `json:"slide"`
}

func do(h http.Handler, method, target string, body string, headers map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decode[T any](rr *httptest.ResponseRecorder) T {
	var v T
	So(json.Unmarshal(rr.Body.Bytes(), &v), ShouldBeNil)
	return v
}

func ids(rows []map[string]any, key string) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r[key].(string))
	}
	return out
}

var manager = map[string]string{api.HeaderRole: "team_manager", api.HeaderTeam: "red"}

func TestServer_Queries(t *testing.T) {
	Convey("Given a started service behind the API", t, func() {
		svc := newService()
		So(svc.Start(context.Background()), ShouldBeNil)
		defer svc.Stop()
		h := api.NewServer(svc, svc, api.WithMaxLimit(10)).Handler()

		Convey("GET /healthz serves metrics", func() {
			rr := do(h, http.MethodGet, "/healthz", "", nil)
			So(rr.Code, ShouldEqual, http.StatusOK)
		})

		Convey("GET /stats reports festival and service counts", func() {
			rr := do(h, http.MethodGet, "/stats", "", nil)
			So(rr.Code, ShouldEqual, http.StatusOK)
			body := decode[map[string]any](rr)
			So(body["loaded"], ShouldEqual, true)
			So(body["festival"].(map[string]any)["teams"], ShouldEqual, float64(2))
			So(body["service"].(map[string]any)["started"], ShouldEqual, true)
		})

		Convey("GET /leaderboard", func() {
			Convey("without a limit returns every team in rank order", func() {
				rr := do(h, http.MethodGet, "/leaderboard", "", nil)
				So(rr.Code, ShouldEqual, http.StatusOK)
				body := decode[listing](rr)
				So(body.Count, ShouldEqual, 2)
				So(ids(body.Rows, "team_id"), ShouldResemble, []string{"red", "blue"})
				So(body.Rows[0]["points"], ShouldEqual, float64(5))
			})

			Convey("with a limit truncates", func() {
				body := decode[listing](do(h, http.MethodGet, "/leaderboard?limit=1", "", nil))
				So(body.Count, ShouldEqual, 1)
			})

			Convey("rejects a non-positive limit", func() {
				rr := do(h, http.MethodGet, "/leaderboard?limit=0", "", nil)
				So(rr.Code, ShouldEqual, http.StatusBadRequest)
				So(decode[errorBody](rr).Code, ShouldEqual, "bad_request")
			})

			Convey("rejects a limit above the cap", func() {
				rr := do(h, http.MethodGet, "/leaderboard?limit=11", "", nil)
				So(rr.Code, ShouldEqual, http.StatusBadRequest)
				So(decode[errorBody](rr).Code, ShouldEqual, "limit_exceeded")
			})
		})

		Convey("GET /reports/merit filters by team", func() {
			rr := do(h, http.MethodGet, "/reports/merit?team=blue", "", nil)
			So(rr.Code, ShouldEqual, http.StatusOK)
			body := decode[listing](rr)
			So(ids(body.Rows, "participant_id"), ShouldResemble, []string{"p2"})
			So(body.Filters, ShouldResemble, map[string][]string{"team": {"blue"}})
		})

		Convey("GET /reports/items lists declared items", func() {
			body := decode[listing](do(h, http.MethodGet, "/reports/items", "", nil))
			So(ids(body.Rows, "item_id"), ShouldResemble, []string{"song"})
		})

		Convey("GET /participants accepts repeated and comma separated values", func() {
			body := decode[listing](do(h, http.MethodGet, "/participants?category=jr,sr&item=song", "", nil))
			So(ids(body.Rows, "id"), ShouldResemble, []string{"p1", "p2"})

			body = decode[listing](do(h, http.MethodGet, "/participants?team=red&team=blue&category=sr", "", nil))
			So(ids(body.Rows, "id"), ShouldResemble, []string{"p3"})
		})

		Convey("A team manager only sees the pinned team", func() {
			body := decode[listing](do(h, http.MethodGet, "/participants?team=blue", "", manager))
			So(ids(body.Rows, "id"), ShouldResemble, []string{"p1"})
			So(body.Filters["team"], ShouldResemble, []string{"red"})
		})

		Convey("A team manager without a team is rejected", func() {
			rr := do(h, http.MethodGet, "/participants", "", map[string]string{api.HeaderRole: "team_manager"})
			So(rr.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("An unknown role is rejected", func() {
			rr := do(h, http.MethodGet, "/items", "", map[string]string{api.HeaderRole: "judge"})
			So(rr.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("GET /schedule filters by stage", func() {
			body := decode[listing](do(h, http.MethodGet, "/schedule?stage=2", "", nil))
			So(ids(body.Rows, "item_id"), ShouldResemble, []string{"drama"})
		})

		Convey("GET /results with no match returns an empty array", func() {
			rr := do(h, http.MethodGet, "/results?result_status=uploaded", "", nil)
			So(rr.Code, ShouldEqual, http.StatusOK)
			So(rr.Body.String(), ShouldContainSubstring, `"rows":[]`)
		})

		Convey("GET /facets/options follows the category selection", func() {
			rr := do(h, http.MethodGet, "/facets/options?category=sr", "", nil)
			So(rr.Code, ShouldEqual, http.StatusOK)
			body := decode[struct {
				Options map[string][]string `json:"options"`
			}](rr)
			So(body.Options["item"], ShouldResemble, []string{"drama"})
			So(body.Options["category"], ShouldResemble, []string{"jr", "sr"})
		})
	})
}

func TestServer_Facets(t *testing.T) {
	Convey("Given the API", t, func() {
		svc := newService()
		So(svc.Start(context.Background()), ShouldBeNil)
		defer svc.Stop()
		h := api.NewServer(svc, svc).Handler()

		Convey("Changing the category clears the item selection", func() {
			rr := do(h, http.MethodPost, "/facets/apply", `{
				"version": 4,
				"selections": {"category": ["jr"], "item": ["song"]},
				"mutation": {"op": "set", "facet": "category", "values": ["sr"]}
			}`, nil)
			So(rr.Code, ShouldEqual, http.StatusOK)
			body := decode[selections](rr)
			So(body.Version, ShouldEqual, 5)
			So(body.Selections, ShouldResemble, map[string][]string{"category": {"sr"}})
			So(body.Locked, ShouldBeEmpty)
		})

		Convey("Toggle adds and removes one value", func() {
			body := decode[selections](do(h, http.MethodPost, "/facets/apply",
				`{"selections": {"team": ["red"]}, "mutation": {"op": "toggle", "facet": "team", "values": ["blue"]}}`, nil))
			So(body.Selections["team"], ShouldResemble, []string{"blue", "red"})
		})

		Convey("A pinned team ignores mutations", func() {
			body := decode[selections](do(h, http.MethodPost, "/facets/apply",
				`{"mutation": {"op": "set", "facet": "team", "values": ["blue"]}}`, manager))
			So(body.Selections["team"], ShouldResemble, []string{"red"})
			So(body.Locked, ShouldResemble, []string{"team"})
		})

		Convey("Invalid requests are rejected", func() {
			bad := []string{
				`{"mutation": {"op": "explode", "facet": "team"}}`,
				`{"mutation": {"op": "toggle", "facet": "team", "values": ["a", "b"]}}`,
				`{"mutation": {"op": "set", "facet": "colour", "values": ["a"]}}`,
				`{"selections": {"colour": ["a"]}, "mutation": {"op": "reset"}}`,
				`{"mutation": {"op": "reset"}, "extra": true}`,
				`{}`,
				`not json`,
			}
			for _, body := range bad {
				rr := do(h, http.MethodPost, "/facets/apply", body, nil)
				So(rr.Code, ShouldEqual, http.StatusBadRequest)
			}
		})
	})
}

func TestServer_Middleware(t *testing.T) {
	Convey("Given the API router with an extra route mounted", t, func() {
		r := api.NewServer(newService(), newService(), api.WithLogger(logger.Nop())).Handler()
		r.Get("/boom", func(http.ResponseWriter, *http.Request) { panic("boom") })

		Convey("A panicking handler is recovered as a 500", func() {
			var rr *httptest.ResponseRecorder
			So(func() { rr = do(r, http.MethodGet, "/boom", "", nil) }, ShouldNotPanic)
			So(rr.Code, ShouldEqual, http.StatusInternalServerError)
		})

		Convey("API routes are still served", func() {
			So(do(r, http.MethodGet, "/healthz", "", nil).Code, ShouldEqual, http.StatusOK)
		})
	})
}

func TestServer_Display(t *testing.T) {
	Convey("Given a service that has not started", t, func() {
		h := api.NewServer(newService(), newService()).Handler()

		Convey("The display is unavailable", func() {
			body := decode[display](do(h, http.MethodGet, "/display", "", nil))
			So(body.Available, ShouldBeFalse)

			rr := do(h, http.MethodPost, "/display/pause", "", nil)
			So(rr.Code, ShouldEqual, http.StatusServiceUnavailable)

			rr = do(h, http.MethodGet, "/display/stream", "", nil)
			So(rr.Code, ShouldEqual, http.StatusServiceUnavailable)
		})
	})

	Convey("Given a started service", t, func() {
		svc := newService()
		So(svc.Start(context.Background()), ShouldBeNil)
		defer svc.Stop()
		h := api.NewServer(svc, svc).Handler()

		current := func(rr *httptest.ResponseRecorder) frame {
			So(rr.Code, ShouldEqual, http.StatusOK)
			body := decode[display](rr)
			So(body.Available, ShouldBeTrue)
			var f frame
			So(json.Unmarshal(body.Frame, &f), ShouldBeNil)
			return f
		}

		Convey("GET /display shows the latest result", func() {
			f := current(do(h, http.MethodGet, "/display", "", nil))
			So(f.Mode, ShouldEqual, "result")
			So(f.Slide.Kind, ShouldEqual, "result")
		})

		Convey("Jumping to a mode shows it", func() {
			f := current(do(h, http.MethodPost, "/display/mode/stats", "", nil))
			So(f.Mode, ShouldEqual, "stats")
		})

		Convey("Jumping to an unknown mode is rejected", func() {
			rr := do(h, http.MethodPost, "/display/mode/slideshow", "", nil)
			So(rr.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("Pause and resume toggle the paused flag", func() {
			So(current(do(h, http.MethodPost, "/display/pause", "", nil)).Paused, ShouldBeTrue)
			So(current(do(h, http.MethodPost, "/display/resume", "", nil)).Paused, ShouldBeFalse)
		})

		Convey("The stream delivers the current frame first", func() {
			srv := httptest.NewServer(h)
			defer srv.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/display/stream", nil)
			So(err, ShouldBeNil)
			resp, err := http.DefaultClient.Do(req)
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.Header.Get("Content-Type"), ShouldEqual, "text/event-stream")

			var event, data string
			sc := bufio.NewScanner(resp.Body)
			for sc.Scan() {
				line := sc.Text()
				if v, ok := strings.CutPrefix(line, "event: "); ok {
					event = v
				}
				if v, ok := strings.CutPrefix(line, "data: "); ok {
					data = v
				}
				if line == "" && event == "frame" {
					break
				}
			}
			So(event, ShouldEqual, "frame")
			var f frame
			So(json.Unmarshal([]byte(data), &f), ShouldBeNil)
			So(f.Mode, ShouldEqual, "result")
		})
	})
}
