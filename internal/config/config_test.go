package config_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/festboard/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.LogFormat, convey.ShouldEqual, "text")
			convey.So(cfg.SnapshotPath, convey.ShouldEqual, "festival.yaml")
			convey.So(cfg.ReloadInterval(), convey.ShouldEqual, 2*time.Second)
			convey.So(cfg.RotationInterval(), convey.ShouldEqual, 15*time.Second)
			convey.So(cfg.RevealDelay(), convey.ShouldEqual, 1500*time.Millisecond)
			convey.So(cfg.UpcomingLimit, convey.ShouldEqual, 5)
			convey.So(cfg.AutostartDisplay, convey.ShouldBeTrue)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("Then out of range values fail validation", func() {
			cfg.LogFormat = "xml"
			err := cfg.Validate()
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
		})
	})
}
