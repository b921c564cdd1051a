package config

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/vidplay-cli/vidplay/filesystem"
	"github.com/vidplay-cli/vidplay/key"
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
			So(viper.GetBool(key.PlayerAutoVisibilityPause), ShouldBeTrue)
			So(viper.GetInt(key.PlayerStartTimeout), ShouldEqual, 10)
		})

		Convey("EnvKeyReplacer should convert dots to underscores", func() {
			So(EnvKeyReplacer.Replace("player.allow_screen_sleep"), ShouldEqual, "player_allow_screen_sleep")
		})
	})
}

func TestField(t *testing.T) {
	Convey("Given a registered field", t, func() {
		field := Default[key.HostingCacheTTL]

		Convey("Env is prefixed with the application name", func() {
			So(field.Env(), ShouldEqual, "VIDPLAY_HOSTING_CACHE_TTL")
		})

		Convey("typeName reflects the default value", func() {
			So(field.typeName(), ShouldEqual, "int")
			rules := Default[key.SelectQuality]
			So(rules.typeName(), ShouldEqual, "[]string")
		})
	})
}
