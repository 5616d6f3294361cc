package mini

import (
	"errors"
	"testing"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/playtrail/playtrail/catalog"
	"github.com/playtrail/playtrail/filesystem"
	"github.com/playtrail/playtrail/player/playertest"
	"github.com/playtrail/playtrail/progress"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

// script answers Select prompts with the given option labels, in order.
func script(t *testing.T, answers ...string) {
	ask = func(p survey.Prompt, response interface{}, _ ...survey.AskOpt) error {
		if len(answers) == 0 {
			return terminal.InterruptErr
		}

		answer := answers[0]
		answers = answers[1:]

		for i, option := range p.(*survey.Select).Options {
			if option == answer {
				*response.(*int) = i
				return nil
			}
		}

		return errors.New("no option " + answer)
	}

	t.Cleanup(func() { ask = survey.AskOne })
}

func newTestMini() (*mini, *playertest.Capability) {
	c := catalog.New(
		[]*catalog.Item{
			{ID: "a", Title: "Welcome", Source: "a.mp4"},
			{ID: "b", Title: "Basics", Source: "b.mp4"},
			{ID: "c", Title: "Setup", Source: "c.mp4"},
			{ID: "d", Title: "Advanced", Source: "d.mp4"},
		},
		[]*catalog.Playlist{
			{ID: "course", Name: "Course", Locked: true, Items: []string{"a", "b", "c", "d"}},
		},
	)

	_ = filesystem.API().RemoveAll("/mini")
	store := progress.New(&progress.FileBackend{Path: "/mini/progress.json"})
	capability := playertest.New(true)

	m := newMini(c, store, capability)
	m.state = playlistSelectState
	return m, capability
}

func TestMini(t *testing.T) {
	Convey("Given a mini session over a locked playlist", t, func() {
		m, capability := newTestMini()

		Convey("Selecting a playlist lists its items", func() {
			script(t, "1. Course")
			So(m.handleState(), ShouldBeNil)
			So(m.state, ShouldEqual, itemSelectState)

			Convey("A gated item is refused", func() {
				script(t, "4. "+entryOption(m.navigator.Entries()[3]).String())
				So(m.handleState(), ShouldBeNil)
				So(m.state, ShouldEqual, itemSelectState)
				So(capability.Handles(), ShouldBeEmpty)
			})

			Convey("Picking an item plays it", func() {
				script(t, "2. Basics")
				So(m.handleState(), ShouldBeNil)
				So(m.state, ShouldEqual, playState)
				So(capability.Last().Source, ShouldEqual, "b.mp4")

				Convey("Next moves on and stops in front of the gate", func() {
					script(t, "Next", "Next")
					So(m.handleState(), ShouldBeNil)
					So(m.navigator.Index(), ShouldEqual, 2)
					So(capability.Last().Source, ShouldEqual, "c.mp4")

					So(m.handleState(), ShouldBeNil)
					So(m.navigator.Index(), ShouldEqual, 2)
				})

				Convey("Back tears the player down", func() {
					script(t, "Back")
					So(m.handleState(), ShouldBeNil)
					So(m.state, ShouldEqual, itemSelectState)
					So(capability.Last().Destroyed(), ShouldBeTrue)
				})
			})
		})

		Convey("An interrupt quits", func() {
			script(t)
			So(m.handleState(), ShouldBeNil)
			So(m.state, ShouldEqual, quitState)
		})
	})
}

func TestTruncate(t *testing.T) {
	Convey("Long lines are truncated", t, func() {
		truncateAt = 8
		defer func() { truncateAt = 100 }()

		So(truncate("playlist"), ShouldEqual, "playlist")
		So(truncate("playlists"), ShouldEqual, "playl...")
	})
}
