package open

import (
	"testing"

	"github.com/playtrail/playtrail/constant"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCommand(t *testing.T) {
	Convey("Given a source to open", t, func() {
		Convey("Linux uses xdg-open unless an app is given", func() {
			cmd, ok := command(constant.Linux, "intro.mp4", "")
			So(ok, ShouldBeTrue)
			So(cmd.Args, ShouldResemble, []string{"xdg-open", "intro.mp4"})

			cmd, ok = command(constant.Linux, "intro.mp4", "vlc")
			So(ok, ShouldBeTrue)
			So(cmd.Args, ShouldResemble, []string{"vlc", "intro.mp4"})
		})

		Convey("Windows escapes ampersands for start", func() {
			cmd, ok := command(constant.Windows, "https://example.com/?a=1&b=2", "vlc")
			So(ok, ShouldBeTrue)
			So(cmd.Args[len(cmd.Args)-1], ShouldEqual, "https://example.com/?a=1^&b=2")
		})

		Convey("Darwin uses open -a", func() {
			cmd, ok := command(constant.Darwin, "intro.mp4", "IINA")
			So(ok, ShouldBeTrue)
			So(cmd.Args, ShouldResemble, []string{"open", "-a", "IINA", "intro.mp4"})
		})

		Convey("Unknown systems are unsupported", func() {
			_, ok := command("plan9", "intro.mp4", "")
			So(ok, ShouldBeFalse)
		})
	})
}
