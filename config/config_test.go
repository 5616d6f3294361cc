package config

import (
	"encoding/json"
	"testing"

	"github.com/playtrail/playtrail/filesystem"
	"github.com/playtrail/playtrail/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSetup(t *testing.T) {
	Convey("Config Setup", t, func() {
		Convey("Should initialize without error", func() {
			So(Setup(), ShouldBeNil)
		})

		Convey("Should have default values populated", func() {
			_ = Setup()
			for name := range Default {
				So(viper.Get(name), ShouldNotBeNil)
			}
			So(viper.GetInt(key.PlayerSampleInterval), ShouldEqual, 5)
			So(viper.GetInt(key.PlaylistGateSize), ShouldEqual, 3)
			So(viper.GetString(key.ProgressBackend), ShouldEqual, "file")
		})

		Convey("EnvKeyReplacer should convert dots to underscores", func() {
			So(EnvKeyReplacer.Replace("player.sample_interval"), ShouldEqual, "player_sample_interval")
		})
	})
}

func TestField(t *testing.T) {
	Convey("Given the sample interval field", t, func() {
		field := Default[key.PlayerSampleInterval]

		Convey("Env should carry the application prefix", func() {
			So(field.Env(), ShouldEqual, "PLAYTRAIL_PLAYER_SAMPLE_INTERVAL")
		})

		Convey("MarshalJSON should describe the value type", func() {
			data, err := json.Marshal(&field)
			So(err, ShouldBeNil)

			var decoded map[string]any
			So(json.Unmarshal(data, &decoded), ShouldBeNil)
			So(decoded["type"], ShouldEqual, "int")
			So(decoded["key"], ShouldEqual, key.PlayerSampleInterval)
		})
	})
}
