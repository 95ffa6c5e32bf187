package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	Convey("Given the global logger", t, func() {
		Convey("Init with defaults should make Get usable", func() {
			So(Init(), ShouldBeNil)
			So(Get(), ShouldNotBeNil)
			So(Sync(), ShouldBeNil)
		})

		Convey("Init should reject an unknown format", func() {
			So(Init(WithFormat("xml")), ShouldNotBeNil)
		})

		Convey("Init should reject an unknown level", func() {
			So(Init(WithLevel("loud")), ShouldNotBeNil)
		})
	})
}

func TestLoggerOutput(t *testing.T) {
	Convey("Given a JSON logger writing to a buffer", t, func() {
		var buf bytes.Buffer
		So(Init(WithFormat(FormatJSON), WithOutput(&buf)), ShouldBeNil)
		ctx := context.Background()

		Convey("Info should write structured fields plus the caller", func() {
			Named("store").Info(ctx, "snapshot loaded",
				Uint64("version", 3),
				Bool("changed", true),
				Duration("took", 2*time.Millisecond),
				Error(errors.New("boom")),
			)

			var rec map[string]any
			So(json.Unmarshal(buf.Bytes(), &rec), ShouldBeNil)
			So(rec["msg"], ShouldEqual, "snapshot loaded")
			So(rec["component"], ShouldEqual, "store")
			So(rec["version"], ShouldEqual, float64(3))
			So(rec["changed"], ShouldEqual, true)
			So(rec["source"], ShouldContainSubstring, "logger_test.go")
		})

		Convey("Debug should be filtered until the level is lowered", func() {
			Get().Debug(ctx, "hidden")
			So(buf.Len(), ShouldEqual, 0)

			So(SetLevelString("debug"), ShouldBeNil)
			Get().Debug(ctx, "shown")
			So(buf.String(), ShouldContainSubstring, "shown")
		})

		Convey("SetLevelString should accept warning as an alias", func() {
			So(SetLevelString("WARNING"), ShouldBeNil)
			Get().Info(ctx, "dropped")
			So(buf.Len(), ShouldEqual, 0)
		})
	})
}

func TestNop(t *testing.T) {
	Convey("Nop should swallow every level without exiting", t, func() {
		l := Nop().Named("x")
		So(func() {
			l.Debug(context.Background(), "a")
			l.Error(context.Background(), "b")
			l.Fatal(context.Background(), "c")
		}, ShouldNotPanic)
	})
}
