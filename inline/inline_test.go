package inline

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/playtrail/playtrail/catalog"
	"github.com/playtrail/playtrail/filesystem"
	"github.com/playtrail/playtrail/player"
	"github.com/playtrail/playtrail/player/playertest"
	"github.com/playtrail/playtrail/progress"
	"github.com/samber/lo"
	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

const testCatalog = `
[[items]]
id = "a"
title = "Welcome"
source = "a.mp4"

[[items]]
id = "b"
title = "Basics"
source = "b.mp4"

[[items]]
id = "c"
title = "Setup"
source = "c.mp4"

[[items]]
id = "d"
title = "Advanced"
source = "d.mp4"

[[playlists]]
id = "course"
name = "Course"
locked = true
items = ["a", "gone", "b", "c", "d"]

[[playlists]]
id = "extras"
name = "Extras"
items = ["d", "c"]
`

func setup(name string) *Options {
	c, err := catalog.Parse([]byte(testCatalog))
	So(err, ShouldBeNil)

	return &Options{
		Catalog: c,
		Store:   progress.New(&progress.FileBackend{Path: "/inline/" + name + ".json"}),
	}
}

func TestWriteJson(t *testing.T) {
	Convey("writeJson", t, func() {
		Convey("Should produce valid JSON for an empty result", func() {
			var buf bytes.Buffer
			opts := &Options{Query: "test", Json: true}
			So(writeJson(&buf, nil, opts), ShouldBeNil)

			var output Output
			So(json.Unmarshal(buf.Bytes(), &output), ShouldBeNil)
			So(output.Query, ShouldEqual, "test")
			So(output.Result, ShouldNotBeNil)
			So(output.Result, ShouldHaveLength, 0)
		})
	})
}

func TestParsePlaylistPicker(t *testing.T) {
	Convey("Given two playlists", t, func() {
		playlists := []*catalog.Playlist{{ID: "course", Name: "Course"}, {ID: "extras", Name: "Extras"}}

		Convey("first and last pick the ends", func() {
			first, err := ParsePlaylistPicker("first", "")
			So(err, ShouldBeNil)
			So(first(playlists).ID, ShouldEqual, "course")

			last, err := ParsePlaylistPicker("last", "")
			So(err, ShouldBeNil)
			So(last(playlists).ID, ShouldEqual, "extras")
		})

		Convey("exact matches the query by id or name", func() {
			exact, err := ParsePlaylistPicker("exact", "extras")
			So(err, ShouldBeNil)
			So(exact(playlists).ID, ShouldEqual, "extras")

			exact, _ = ParsePlaylistPicker("exact", "nope")
			So(exact(playlists), ShouldBeNil)
		})

		Convey("an index is clamped to the last playlist", func() {
			pick, err := ParsePlaylistPicker("7", "")
			So(err, ShouldBeNil)
			So(pick(playlists).ID, ShouldEqual, "extras")
			So(pick(nil), ShouldBeNil)
		})

		Convey("anything else is rejected", func() {
			_, err := ParsePlaylistPicker("middle", "")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestParseEntriesFilter(t *testing.T) {
	Convey("Given the entries of the locked course", t, func() {
		opts := setup("filter")
		nav, _ := newNavigator(opts.Catalog.Playlist("course").MustGet(), opts)
		entries := nav.Entries()
		So(entries, ShouldHaveLength, 5)

		apply := func(description string) []string {
			filter, err := ParseEntriesFilter(description)
			So(err, ShouldBeNil)
			selected, err := filter(entries)
			So(err, ShouldBeNil)

			ids := make([]string, len(selected))
			for i, e := range selected {
				ids[i] = e.ItemID
			}
			return ids
		}

		So(apply("first"), ShouldResemble, []string{"a"})
		So(apply("last"), ShouldResemble, []string{"d"})
		So(apply("all"), ShouldHaveLength, 5)
		So(apply("1-2"), ShouldResemble, []string{"gone", "b"})
		So(apply("3-9"), ShouldResemble, []string{"c", "d"})
		So(apply("@SET@"), ShouldResemble, []string{"c"})
		So(apply("4"), ShouldResemble, []string{"d"})
		So(apply("10"), ShouldBeEmpty)

		Convey("unwatched drops completed items", func() {
			So(opts.Store.Save("b", 0, 0, true), ShouldBeNil)
			entries = nav.Entries()
			So(apply("unwatched"), ShouldResemble, []string{"a", "gone", "c", "d"})
		})

		Convey("garbage is rejected", func() {
			_, err := ParseEntriesFilter("a-b-c")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestRun(t *testing.T) {
	Convey("Given a catalog and an empty store", t, func() {
		opts := setup("run")
		var out bytes.Buffer
		opts.Out = &out

		Convey("plain output lists sources of the picked playlist, skipping holes", func() {
			opts.Query = "course"
			opts.PlaylistPicker = mo.Some(lo.Must(ParsePlaylistPicker("exact", "course")))

			So(Run(opts), ShouldBeNil)
			So(strings.Fields(out.String()), ShouldResemble, []string{"a.mp4", "b.mp4", "c.mp4", "d.mp4"})
		})

		Convey("json output carries gating, holes and the aggregate", func() {
			opts.Json = true
			opts.Query = "course"
			opts.PlaylistPicker = mo.Some(lo.Must(ParsePlaylistPicker("first", "")))
			So(opts.Store.Save("a", 0, 0, true), ShouldBeNil)

			So(Run(opts), ShouldBeNil)

			var output Output
			So(json.Unmarshal(out.Bytes(), &output), ShouldBeNil)
			So(output.Result, ShouldHaveLength, 1)

			p := output.Result[0]
			So(p.ID, ShouldEqual, "course")
			So(p.Progress, ShouldEqual, 20)
			So(p.Items[0].Watched, ShouldBeTrue)
			So(p.Items[0].Progress, ShouldNotBeNil)
			So(p.Items[1].Hole, ShouldBeTrue)
			So(p.Items[2].Gated, ShouldBeFalse)
			So(p.Items[3].Gated, ShouldBeTrue)
		})

		Convey("no match yields an empty json result", func() {
			opts.Json = true
			opts.Query = "zzzz"

			So(Run(opts), ShouldBeNil)

			var output Output
			So(json.Unmarshal(out.Bytes(), &output), ShouldBeNil)
			So(output.Result, ShouldHaveLength, 0)
		})

		Convey("playing needs a single playlist and a player", func() {
			opts.Play = true
			So(Run(opts), ShouldNotBeNil)

			opts.Capability = playertest.New(true)
			So(Run(opts), ShouldNotBeNil)
		})

		Convey("a player that cannot be constructed fails the run instead of hanging", func() {
			capability := playertest.New(true)
			capability.ConstructErr = errors.New("no display")

			opts.Play = true
			opts.Capability = capability
			opts.Query = "course"
			opts.PlaylistPicker = mo.Some(lo.Must(ParsePlaylistPicker("exact", "course")))

			done := make(chan error, 1)
			go func() { done <- Run(opts) }()

			select {
			case err := <-done:
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "could not start player")
			case <-time.After(2 * time.Second):
				t.Fatal("inline run hung on a broken player")
			}
			So(capability.Handles(), ShouldBeEmpty)
		})
	})
}

func TestRunPlay(t *testing.T) {
	Convey("Given the course played inline", t, func() {
		opts := setup("play")
		capability := playertest.New(true)

		var out bytes.Buffer
		opts.Out = &out
		opts.Json = true
		opts.Play = true
		opts.Capability = capability
		opts.Query = "course"
		opts.PlaylistPicker = mo.Some(lo.Must(ParsePlaylistPicker("exact", "course")))

		done := make(chan error, 1)
		go func() { done <- Run(opts) }()

		first := waitForHandle(capability, 1)
		So(first.Source, ShouldEqual, "a.mp4")
		first.EmitReady()
		first.Emit(player.CodeEnded)

		second := waitForHandle(capability, 2)
		So(second.Source, ShouldEqual, "b.mp4")
		second.EmitReady()
		second.Exit()

		var err error
		select {
		case err = <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("inline run did not finish")
		}
		So(err, ShouldBeNil)

		Convey("the finished item is watched and the closed one is not", func() {
			So(opts.Store.Load()["a"].Watched, ShouldBeTrue)
			So(opts.Store.Load()["b"].Watched, ShouldBeFalse)
			So(capability.Handles(), ShouldHaveLength, 2)
			So(first.Destroyed(), ShouldBeTrue)
			So(second.Destroyed(), ShouldBeTrue)

			var output Output
			So(json.Unmarshal(out.Bytes(), &output), ShouldBeNil)
			So(output.Result[0].Progress, ShouldEqual, 20)
		})
	})
}

func waitForHandle(c *playertest.Capability, n int) *playertest.Handle {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if handles := c.Handles(); len(handles) >= n {
			return handles[n-1]
		}
		time.Sleep(5 * time.Millisecond)
	}
	panic("player was never constructed")
}
