package player

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCodeFor(t *testing.T) {
	Convey("Given observed mpv properties", t, func() {
		Convey("pause maps to paused and playing", func() {
			code, ok := codeFor("pause", true, true)
			So(ok, ShouldBeTrue)
			So(code, ShouldEqual, CodePaused)

			code, ok = codeFor("pause", false, false)
			So(ok, ShouldBeTrue)
			So(code, ShouldEqual, CodePlaying)
		})

		Convey("eof-reached maps to ended only when set", func() {
			code, ok := codeFor("eof-reached", true, false)
			So(ok, ShouldBeTrue)
			So(code, ShouldEqual, CodeEnded)

			_, ok = codeFor("eof-reached", false, false)
			So(ok, ShouldBeFalse)
		})

		Convey("cache stalls map to buffering and back to playing unless paused", func() {
			code, ok := codeFor("paused-for-cache", true, false)
			So(ok, ShouldBeTrue)
			So(code, ShouldEqual, CodeBuffering)

			code, ok = codeFor("paused-for-cache", false, false)
			So(ok, ShouldBeTrue)
			So(code, ShouldEqual, CodePlaying)

			_, ok = codeFor("paused-for-cache", false, true)
			So(ok, ShouldBeFalse)
		})

		Convey("non boolean data is ignored", func() {
			_, ok := codeFor("pause", nil, false)
			So(ok, ShouldBeFalse)
		})
	})
}

func TestDispatch(t *testing.T) {
	Convey("Given a handle with a recording listener", t, func() {
		var (
			readies int
			codes   []Code
		)

		h := &mpvHandle{
			listener: Listener{
				OnReady:       func(Handle) { readies++ },
				OnStateChange: func(c Code) { codes = append(codes, c) },
			},
		}

		Convey("State changes before the file is loaded are dropped", func() {
			h.dispatch("pause", true)
			So(codes, ShouldBeEmpty)
			So(h.paused.Load(), ShouldBeTrue)
		})

		Convey("file-loaded fires OnReady and opens the gate", func() {
			h.dispatch("pause", true)
			h.dispatch("file-loaded", nil)
			h.dispatch("pause", false)
			h.dispatch("eof-reached", true)

			So(readies, ShouldEqual, 1)
			So(codes, ShouldResemble, []Code{CodePlaying, CodeEnded})
		})
	})
}

func TestEventListener(t *testing.T) {
	Convey("Given an event listener", t, func() {
		type event struct {
			name string
			data any
		}
		var events []event

		el := newEventListener("", func(name string, data any) {
			events = append(events, event{name, data})
		})

		Convey("Property changes are forwarded with their data", func() {
			el.processEvent([]byte(`{"event":"property-change","id":1,"name":"pause","data":false}`))
			So(events, ShouldResemble, []event{{"pause", false}})
		})

		Convey("Plain events are forwarded by name", func() {
			el.processEvent([]byte(`{"event":"file-loaded"}`))
			So(events, ShouldResemble, []event{{"file-loaded", nil}})
		})

		Convey("Command replies and garbage are dropped", func() {
			el.processEvent([]byte(`{"data":null,"error":"success","request_id":0}`))
			el.processEvent([]byte(`not json`))
			So(events, ShouldBeEmpty)
		})
	})
}

// serveOnce answers a single command, broadcasting an event before the reply.
func serveOnce(listener net.Listener, data any) {
	conn, err := listener.Accept()
	if err != nil {
		return
	}
	defer conn.Close()

	line, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil {
		return
	}

	var cmd ipcCommand
	if err := json.Unmarshal(line, &cmd); err != nil {
		return
	}

	reply, _ := json.Marshal(map[string]any{
		"data":       data,
		"error":      "success",
		"request_id": cmd.RequestID,
	})

	_, _ = fmt.Fprintf(conn, "{\"event\":\"playback-restart\"}\n%s\n", reply)
}

func TestSendCommand(t *testing.T) {
	Convey("Given an mpv-like socket", t, func() {
		socketPath := filepath.Join(t.TempDir(), "ipc.sock")
		listener, err := net.Listen("unix", socketPath)
		So(err, ShouldBeNil)
		defer listener.Close()

		h := &mpvHandle{socketPath: socketPath}

		Convey("The reply matching the request is returned past broadcast events", func() {
			go serveOnce(listener, 42.5)

			pos, err := h.CurrentTime()
			So(err, ShouldBeNil)
			So(pos, ShouldEqual, 42.5)
		})

		Convey("A non numeric property is an error", func() {
			go serveOnce(listener, "nope")

			_, err := h.Duration()
			So(err, ShouldNotBeNil)
		})
	})
}

func TestSanitize(t *testing.T) {
	Convey("sanitizeMediaTarget", t, func() {
		Convey("Accepts http(s) URLs and local paths", func() {
			target, err := sanitizeMediaTarget(" https://example.com/a.mp4 ")
			So(err, ShouldBeNil)
			So(target, ShouldEqual, "https://example.com/a.mp4")

			target, err = sanitizeMediaTarget("videos/../videos/a.mkv")
			So(err, ShouldBeNil)
			So(target, ShouldEqual, filepath.Clean("videos/a.mkv"))
		})

		Convey("Rejects flags, control characters and other schemes", func() {
			for _, bad := range []string{"", "--script=x.lua", "a\nb", "ftp://example.com/a.mp4"} {
				_, err := sanitizeMediaTarget(bad)
				So(err, ShouldNotBeNil)
			}
		})
	})

	Convey("sanitizeTitle", t, func() {
		So(sanitizeTitle("Intro\tPart\n1\x00"), ShouldEqual, "Intro Part 1")
		So(sanitizeTitle("  "), ShouldEqual, "playtrail")
	})

	Convey("Code names", t, func() {
		So(CodeEnded.String(), ShouldEqual, "ended")
		So(CodeCued.String(), ShouldEqual, "cued")
		So(Code(42).String(), ShouldEqual, "unknown")
	})
}

func TestNew(t *testing.T) {
	Convey("Players are looked up by name", t, func() {
		capability, err := New("mpv")
		So(err, ShouldBeNil)
		So(capability, ShouldHaveSameTypeAs, &MPV{})

		_, err = New("vlc")
		So(err, ShouldNotBeNil)
	})
}
