package history

import (
	"testing"
	"time"

	"github.com/playtrail/playtrail/catalog"
	"github.com/playtrail/playtrail/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestHistory(t *testing.T) {
	Convey("Given two playlists", t, func() {
		saved, _ := Get()
		for id := range saved {
			So(Remove(id), ShouldBeNil)
		}

		intro := &catalog.Playlist{ID: "intro", Name: "Introduction", Items: []string{"a", "b"}}
		extras := &catalog.Playlist{ID: "extras", Items: []string{"c"}}
		b := &catalog.Item{ID: "b", Title: "Second steps"}
		c := &catalog.Item{ID: "c"}

		Convey("When nothing was saved", func() {
			last, err := Last()
			So(err, ShouldBeNil)
			So(last.IsAbsent(), ShouldBeTrue)
		})

		Convey("When positions are saved", func() {
			So(Save(intro, 1, b), ShouldBeNil)
			time.Sleep(2 * time.Millisecond)
			So(Save(extras, 0, c), ShouldBeNil)

			Convey("Each playlist keeps its own entry", func() {
				saved, err := Get()
				So(err, ShouldBeNil)
				So(saved, ShouldContainKey, "intro")
				So(saved["intro"].Index, ShouldEqual, 1)
				So(saved["intro"].ItemTitle, ShouldEqual, "Second steps")
				So(saved["intro"].String(), ShouldEqual, "Introduction : 2. Second steps")
			})

			Convey("Last is the most recent one", func() {
				last, err := Last()
				So(err, ShouldBeNil)
				So(last.MustGet().PlaylistID, ShouldEqual, "extras")
			})

			Convey("Remove forgets a playlist", func() {
				So(Remove("extras"), ShouldBeNil)

				last, err := Last()
				So(err, ShouldBeNil)
				So(last.MustGet().PlaylistID, ShouldEqual, "intro")
			})
		})
	})
}
