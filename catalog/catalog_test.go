package catalog

import (
	"testing"

	"github.com/playtrail/playtrail/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

const sample = `
[[items]]
id = "v1"
title = "Welcome"
source = "https://videos.example.com/v1.mp4"
duration = 600

[[items]]
id = "v2"
title = "Getting started"
source = "/srv/videos/v2.mkv"
vertical = true

[[items]]
id = "v3"
source = "https://videos.example.com/v3.mp4"

[[playlists]]
id = "onboarding"
name = "Onboarding"
locked = true
items = ["v1", "v2", "v3", "v1", "gone"]

[[playlists]]
id = "extras"
name = "Bonus Material"
items = ["v3"]
`

func TestParse(t *testing.T) {
	Convey("Given a valid catalog document", t, func() {
		c, err := Parse([]byte(sample))
		So(err, ShouldBeNil)

		Convey("Items should be indexed by id", func() {
			item, ok := c.Item("v2").Get()
			So(ok, ShouldBeTrue)
			So(item.Title, ShouldEqual, "Getting started")
			So(item.Vertical, ShouldBeTrue)
			So(c.Items(), ShouldHaveLength, 3)
		})

		Convey("Unknown ids should resolve to none", func() {
			So(c.Item("gone").IsPresent(), ShouldBeFalse)
		})

		Convey("Playlists should keep order and duplicates", func() {
			p := c.Playlist("onboarding").MustGet()
			So(p.Locked, ShouldBeTrue)
			So(p.Items, ShouldResemble, []string{"v1", "v2", "v3", "v1", "gone"})
		})

		Convey("Playlist lookup should fall back to the name", func() {
			So(c.Playlist("bonus material").MustGet().ID, ShouldEqual, "extras")
			So(c.Playlist("nothing").IsPresent(), ShouldBeFalse)
		})

		Convey("Item titles should fall back to the id", func() {
			So(c.Item("v3").MustGet().String(), ShouldEqual, "v3")
		})
	})

	Convey("Given documents with broken records", t, func() {
		Convey("A missing source should be rejected", func() {
			_, err := Parse([]byte("[[items]]\nid = \"x\"\n"))
			So(err, ShouldNotBeNil)
		})

		Convey("Duplicate ids should be rejected", func() {
			_, err := Parse([]byte("[[items]]\nid = \"x\"\nsource = \"a\"\n[[items]]\nid = \"x\"\nsource = \"b\"\n"))
			So(err, ShouldNotBeNil)
		})

		Convey("Invalid TOML should be rejected", func() {
			_, err := Parse([]byte("[[items"))
			So(err, ShouldNotBeNil)
		})
	})
}

func TestLoad(t *testing.T) {
	Convey("Given a catalog file", t, func() {
		So(filesystem.API().WriteFile("/catalog.toml", []byte(sample), 0o644), ShouldBeNil)

		Convey("Load should parse it", func() {
			c, err := Load("/catalog.toml")
			So(err, ShouldBeNil)
			So(c.Playlists(), ShouldHaveLength, 2)
		})

		Convey("Load should fail for a missing file", func() {
			_, err := Load("/missing.toml")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestSearch(t *testing.T) {
	Convey("Given a parsed catalog", t, func() {
		c, err := Parse([]byte(sample))
		So(err, ShouldBeNil)

		Convey("Find should match fuzzily", func() {
			found := c.Find("bns")
			So(found, ShouldHaveLength, 1)
			So(found[0].ID, ShouldEqual, "extras")
		})

		Convey("Find with an empty query should list everything", func() {
			So(c.Find(""), ShouldHaveLength, 2)
		})

		Convey("Closest should suggest the nearest id", func() {
			So(c.Closest("onbording").MustGet().ID, ShouldEqual, "onboarding")
		})

		Convey("Closest on an empty catalog should be none", func() {
			So(New(nil, nil).Closest("x").IsPresent(), ShouldBeFalse)
		})
	})
}
