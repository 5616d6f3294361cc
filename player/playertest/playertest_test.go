package playertest

import (
	"testing"

	"github.com/playtrail/playtrail/player"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCapability(t *testing.T) {
	Convey("Given a capability that is not ready", t, func() {
		c := New(false)

		Convey("Construct fails", func() {
			_, err := c.Construct("main", "a.mp4", player.Listener{})
			So(err, ShouldEqual, player.ErrNotReady)
		})

		Convey("After MarkReady it constructs scripted handles", func() {
			c.MarkReady()
			c.MarkReady()

			var got []player.Code
			h, err := c.Construct("main", "a.mp4", player.Listener{
				OnStateChange: func(code player.Code) { got = append(got, code) },
			})
			So(err, ShouldBeNil)
			So(c.Last(), ShouldEqual, h)

			c.Last().Emit(player.CodePaused)
			So(got, ShouldResemble, []player.Code{player.CodePaused})

			So(h.SeekTo(42), ShouldBeNil)
			So(h.PlayVideo(), ShouldBeNil)
			So(h.Destroy(), ShouldBeNil)
			So(h.PlayVideo(), ShouldEqual, ErrDestroyed)
			So(c.Last().Calls(), ShouldResemble, []string{"seekTo(42)", "playVideo", "destroy"})
		})
	})
}
