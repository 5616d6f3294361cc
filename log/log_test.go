package log

import (
	"testing"

	"github.com/playtrail/playtrail/filesystem"
	"github.com/playtrail/playtrail/key"
	"github.com/playtrail/playtrail/where"
	"github.com/sirupsen/logrus"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSetup(t *testing.T) {
	Convey("Given logging is disabled", t, func() {
		viper.Set(key.LogsWrite, false)
		So(Setup(), ShouldBeNil)

		Convey("WithFields should still return a usable entry", func() {
			entry := WithFields(logrus.Fields{"item": "v1"})
			So(entry, ShouldNotBeNil)
			So(func() { entry.Info("ignored") }, ShouldNotPanic)
		})
	})

	Convey("Given logging is enabled", t, func() {
		viper.Set(key.LogsWrite, true)
		viper.Set(key.LogsLevel, "not-a-level")
		defer viper.Set(key.LogsWrite, false)

		Convey("Setup should create a daily log file and fall back to info level", func() {
			So(Setup(), ShouldBeNil)
			So(logrus.GetLevel(), ShouldEqual, logrus.InfoLevel)

			entries, err := filesystem.API().ReadDir(where.Logs())
			So(err, ShouldBeNil)
			So(len(entries), ShouldBeGreaterThan, 0)
		})
	})
}
