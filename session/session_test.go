package session

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/playtrail/playtrail/catalog"
	"github.com/playtrail/playtrail/filesystem"
	"github.com/playtrail/playtrail/key"
	"github.com/playtrail/playtrail/player"
	"github.com/playtrail/playtrail/player/playertest"
	"github.com/playtrail/playtrail/progress"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
}

type saveCall struct {
	id       string
	seconds  float64
	duration float64
	watched  bool
}

type fakeStore struct {
	mu      sync.Mutex
	records map[string]progress.Record
	saves   []saveCall
	saved   chan saveCall
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		records: make(map[string]progress.Record),
		saved:   make(chan saveCall, 16),
	}
}

func (f *fakeStore) Get(itemID string) (progress.Record, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	record, ok := f.records[itemID]
	return record, ok
}

func (f *fakeStore) Save(itemID string, seconds, duration float64, watched bool) error {
	f.mu.Lock()
	call := saveCall{itemID, seconds, duration, watched}
	f.saves = append(f.saves, call)
	f.records[itemID] = progress.Record{Timestamp: seconds, Duration: duration, Watched: watched}
	f.mu.Unlock()

	f.saved <- call
	return nil
}

func (f *fakeStore) Saves() []saveCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]saveCall(nil), f.saves...)
}

type manualTicker struct {
	ch chan time.Time
}

func (m *manualTicker) C() <-chan time.Time { return m.ch }
func (m *manualTicker) Stop()               {}

func eventually(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}

func closed(ch <-chan struct{}) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}

func waitSave(store *fakeStore) (saveCall, bool) {
	select {
	case call := <-store.saved:
		return call, true
	case <-time.After(2 * time.Second):
		return saveCall{}, false
	}
}

var video = &catalog.Item{ID: "v1", Title: "Welcome", Source: "welcome.mp4", Duration: 600}

func TestResume(t *testing.T) {
	Convey("Given a ready player", t, func() {
		store := newFakeStore()
		capability := playertest.New(true)
		s := New(video, store, capability)

		start := func() *playertest.Handle {
			s.Start()
			h := capability.Last()
			So(h, ShouldNotBeNil)
			So(s.State(), ShouldEqual, Loading)
			h.EmitReady()
			So(s.State(), ShouldEqual, Playing)
			return h
		}

		Convey("A stored position of 42s is sought before playback starts", func() {
			store.records["v1"] = progress.Record{Timestamp: 42, Duration: 600}

			h := start()
			So(h.Calls(), ShouldResemble, []string{"seekTo(42)", "playVideo"})
			So(s.Snapshot().ResumedAt, ShouldEqual, 42)
		})

		Convey("A stored position of 3s starts from the beginning", func() {
			store.records["v1"] = progress.Record{Timestamp: 3, Duration: 600}

			h := start()
			So(h.Calls(), ShouldResemble, []string{"playVideo"})
		})

		Convey("A watched item starts from the beginning", func() {
			store.records["v1"] = progress.Record{Timestamp: 42, Duration: 600, Watched: true}

			h := start()
			So(h.Calls(), ShouldResemble, []string{"playVideo"})
		})

		Convey("No record starts from the beginning", func() {
			h := start()
			So(h.Calls(), ShouldResemble, []string{"playVideo"})
			So(h.Container, ShouldEqual, "Welcome")
			So(h.Source, ShouldEqual, "welcome.mp4")
		})

		Convey("The resume threshold is configurable", func() {
			store.records["v1"] = progress.Record{Timestamp: 8}
			s = New(video, store, capability, WithResumeThreshold(10))

			h := start()
			So(h.Calls(), ShouldResemble, []string{"playVideo"})
		})
	})
}

func TestTransitions(t *testing.T) {
	Convey("Given a loading session", t, func() {
		store := newFakeStore()
		capability := playertest.New(true)

		var changes []State
		s := New(video, store, capability, OnChange(func(state State) {
			changes = append(changes, state)
		}))
		s.Start()
		h := capability.Last()

		Convey("State codes before ready are ignored", func() {
			h.Emit(player.CodePlaying)
			So(s.State(), ShouldEqual, Loading)
		})

		Convey("Once playing", func() {
			h.EmitReady()

			Convey("Buffering, paused and cued all pause", func() {
				for _, code := range []player.Code{player.CodeBuffering, player.CodePaused, player.CodeCued} {
					h.Emit(code)
					So(s.State(), ShouldEqual, Paused)
					h.Emit(player.CodePlaying)
					So(s.State(), ShouldEqual, Playing)
				}
			})

			Convey("Ended marks the item watched and closes Done", func() {
				h.Emit(player.CodeEnded)

				So(s.State(), ShouldEqual, Ended)
				So(store.Saves(), ShouldResemble, []saveCall{{"v1", 0, 0, true}})
				So(closed(s.Done()), ShouldBeTrue)
				So(changes, ShouldResemble, []State{Loading, Playing, Ended})
			})

			Convey("Ended is reachable from paused", func() {
				h.Emit(player.CodePaused)
				h.Emit(player.CodeEnded)
				So(s.State(), ShouldEqual, Ended)
			})

			Convey("Playing again after the end resumes the session", func() {
				h.Emit(player.CodeEnded)
				h.Emit(player.CodePlaying)
				So(s.State(), ShouldEqual, Playing)
			})

			Convey("Player exit tears the session down", func() {
				h.Exit()
				So(s.State(), ShouldEqual, TornDown)
				So(h.Destroyed(), ShouldBeTrue)
			})
		})
	})
}

func TestSampling(t *testing.T) {
	Convey("Given a playing session with a manual clock", t, func() {
		store := newFakeStore()
		capability := playertest.New(true)
		ticker := &manualTicker{ch: make(chan time.Time)}

		s := New(video, store, capability, WithTicker(func(time.Duration) Ticker { return ticker }))
		s.Start()
		h := capability.Last()
		h.EmitReady()

		Convey("Every tick saves the current position", func() {
			h.SetPosition(12, 598)
			ticker.ch <- time.Now()

			call, ok := waitSave(store)
			So(ok, ShouldBeTrue)
			So(call, ShouldResemble, saveCall{"v1", 12, 598, false})
			So(s.Snapshot().Position, ShouldEqual, 12)
		})

		Convey("The item duration is used when the player reports none", func() {
			h.SetPosition(30, 0)
			ticker.ch <- time.Now()

			call, ok := waitSave(store)
			So(ok, ShouldBeTrue)
			So(call.duration, ShouldEqual, 600)
		})

		Convey("Pausing stops the sampler", func() {
			h.Emit(player.CodePaused)

			s.mu.Lock()
			sampling := s.sampling
			s.mu.Unlock()
			So(sampling, ShouldBeNil)

			Convey("and a stale tick saves nothing", func() {
				s.sample(make(chan struct{}))
				So(store.Saves(), ShouldBeEmpty)
			})
		})

		Convey("Teardown cancels sampling without a final save", func() {
			h.SetPosition(50, 600)
			s.Teardown()
			s.Teardown()

			So(s.State(), ShouldEqual, TornDown)
			So(h.Destroyed(), ShouldBeTrue)
			So(closed(s.Done()), ShouldBeTrue)
			So(store.Saves(), ShouldBeEmpty)

			Convey("and later events are ignored", func() {
				h.Emit(player.CodeEnded)
				So(s.State(), ShouldEqual, TornDown)
				So(store.Saves(), ShouldBeEmpty)
			})
		})
	})
}

func TestReadiness(t *testing.T) {
	Convey("Given a player that is not ready", t, func() {
		store := newFakeStore()
		capability := playertest.New(false)
		s := New(video, store, capability)
		s.Start()
		s.Start()

		Convey("The session stays uninitialized", func() {
			So(s.State(), ShouldEqual, Uninitialized)
			So(s.Stalled(), ShouldBeFalse)
			So(capability.Handles(), ShouldBeEmpty)
		})

		Convey("Readiness constructs the player exactly once", func() {
			capability.MarkReady()

			So(eventually(func() bool { return s.State() == Loading }), ShouldBeTrue)
			So(capability.Handles(), ShouldHaveLength, 1)
		})

		Convey("Teardown before readiness abandons the wait", func() {
			s.Teardown()
			capability.MarkReady()

			time.Sleep(20 * time.Millisecond)
			So(s.State(), ShouldEqual, TornDown)
			So(capability.Handles(), ShouldBeEmpty)
		})
	})

	Convey("Given a player that fails to construct", t, func() {
		capability := playertest.New(true)
		capability.ConstructErr = errors.New("no display")
		s := New(video, newFakeStore(), capability)
		s.Start()

		So(s.State(), ShouldEqual, Uninitialized)
		So(s.Stalled(), ShouldBeTrue)
	})
}

func TestCompletionScenario(t *testing.T) {
	Convey("Given a file backed progress store", t, func() {
		So(filesystem.API().RemoveAll("/progress.json"), ShouldBeNil)
		store := progress.New(&progress.FileBackend{Path: "/progress.json"})

		So(store.Save("v1", 120, 600, false), ShouldBeNil)
		So(store.Save("v1", 0, 0, true), ShouldBeNil)

		record, ok := store.Get("v1")
		So(ok, ShouldBeTrue)
		So(record.Timestamp, ShouldEqual, 0)
		So(record.Duration, ShouldEqual, 0)
		So(record.Watched, ShouldBeTrue)

		Convey("Reopening the item does not seek", func() {
			capability := playertest.New(true)
			s := New(video, store, capability)
			s.Start()
			capability.Last().EmitReady()

			So(capability.Last().Calls(), ShouldResemble, []string{"playVideo"})
		})
	})
}

func TestConfigured(t *testing.T) {
	Convey("Given player settings", t, func() {
		viper.Set(key.PlayerSampleInterval, 2)
		viper.Set(key.PlayerResumeThreshold, 30)
		defer viper.Reset()

		s := New(video, newFakeStore(), playertest.New(true), Configured()...)
		So(s.interval, ShouldEqual, 2*time.Second)
		So(s.threshold, ShouldEqual, 30.0)
	})

	Convey("Without settings the defaults apply", t, func() {
		viper.Reset()

		s := New(video, newFakeStore(), playertest.New(true), Configured()...)
		So(s.interval, ShouldEqual, DefaultInterval)
		So(s.threshold, ShouldEqual, DefaultResumeThreshold)
	})
}
