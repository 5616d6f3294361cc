package player

import (
	"crypto/rand"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/playtrail/playtrail/constant"
	"github.com/playtrail/playtrail/log"
)

const (
	socketWaitRetries = 10
	socketWaitDelay   = 300 * time.Millisecond
	quitTimeout       = 3 * time.Second
)

// ErrNotReady is returned by Construct when the capability has not become ready.
var ErrNotReady = errors.New("player is not ready")

// MPV is a Capability backed by the 'mpv' executable.
// It becomes ready as soon as the executable is found on PATH.
type MPV struct {
	binary string
	ready  chan struct{}
}

// NewMPV looks up the mpv executable. When it is missing the returned
// capability never becomes ready.
func NewMPV() *MPV {
	m := &MPV{ready: make(chan struct{})}

	path, err := exec.LookPath("mpv")
	if err != nil {
		log.Warnf("mpv not found in PATH: %s", err)
		return m
	}

	m.binary = path
	close(m.ready)
	return m
}

func (m *MPV) Ready() <-chan struct{} {
	return m.ready
}

// Construct starts a paused mpv window titled container and loads source into it.
// OnReady fires once mpv reports the file as loaded.
func (m *MPV) Construct(container, source string, listener Listener) (Handle, error) {
	select {
	case <-m.ready:
	default:
		return nil, ErrNotReady
	}

	target, err := sanitizeMediaTarget(source)
	if err != nil {
		return nil, fmt.Errorf("invalid media target: %w", err)
	}

	socketPath, err := newSocketPath()
	if err != nil {
		return nil, err
	}

	title := sanitizeTitle(container)

	// Only the socket, the window and the paused start are forced.
	// Everything else is left to the user's mpv.conf.
	args := []string{
		"--no-terminal",
		"--really-quiet",
		fmt.Sprintf("--input-ipc-server=%s", socketPath),
		fmt.Sprintf("--force-media-title=%s", title),
		fmt.Sprintf("--title=%s", title),
		"--force-window=yes",
		"--idle=yes",
		"--keep-open=yes",
		"--pause",
	}

	h := &mpvHandle{
		socketPath: socketPath,
		listener:   listener,
		exited:     make(chan struct{}),
	}

	h.cmd = exec.Command(m.binary, args...)
	h.cmd.SysProcAttr = detachedProcAttr()
	h.cmd.Stdout = nil
	h.cmd.Stderr = nil
	h.cmd.Stdin = nil

	if err := h.cmd.Start(); err != nil {
		return nil, fmt.Errorf("start mpv: %w", err)
	}

	go h.reap()

	if err := h.waitForSocket(); err != nil {
		_ = h.Destroy()
		return nil, fmt.Errorf("mpv socket not ready: %w", err)
	}

	h.events = newEventListener(socketPath, h.dispatch)
	if err := h.events.Start(); err != nil {
		_ = h.Destroy()
		return nil, err
	}

	if _, err := h.sendCommand("loadfile", target, "replace"); err != nil {
		_ = h.Destroy()
		return nil, fmt.Errorf("load %s: %w", target, err)
	}

	h.armed.Store(true)
	return h, nil
}

type mpvHandle struct {
	socketPath string
	cmd        *exec.Cmd
	exited     chan struct{} // closed when the mpv process exits
	events     *eventListener
	listener   Listener

	mu sync.Mutex // protects socket writes

	armed      atomic.Bool // set once Construct has returned the handle
	loaded     atomic.Bool
	paused     atomic.Bool
	destroying atomic.Bool
	destroyed  sync.Once
}

func (h *mpvHandle) SeekTo(seconds float64) error {
	_, err := h.sendCommand("seek", seconds, "absolute")
	return err
}

func (h *mpvHandle) PlayVideo() error {
	_, err := h.sendCommand("set_property", "pause", false)
	return err
}

func (h *mpvHandle) CurrentTime() (float64, error) {
	return h.getFloatProperty("time-pos")
}

func (h *mpvHandle) Duration() (float64, error) {
	return h.getFloatProperty("duration")
}

// Destroy asks mpv to quit and kills it if it does not exit in time.
func (h *mpvHandle) Destroy() error {
	h.destroyed.Do(func() {
		h.destroying.Store(true)

		if h.events != nil {
			h.events.Stop()
		}

		select {
		case <-h.exited:
		default:
			_, _ = h.sendCommand("quit")
		}

		select {
		case <-h.exited:
		case <-time.After(quitTimeout):
			log.Warnf("mpv did not quit in %s, killing it", quitTimeout)
			_ = killGroup(h.cmd)
		}

		_ = os.Remove(h.socketPath)
	})

	return nil
}

// reap waits on the process so it never lingers as a zombie.
func (h *mpvHandle) reap() {
	err := h.cmd.Wait()
	close(h.exited)

	if !h.armed.Load() || h.destroying.Load() {
		return
	}

	log.Infof("mpv exited: %v", err)
	if h.listener.OnExit != nil {
		h.listener.OnExit()
	}
}

func (h *mpvHandle) waitForSocket() error {
	for i := 0; i < socketWaitRetries; i++ {
		time.Sleep(socketWaitDelay)

		select {
		case <-h.exited:
			return fmt.Errorf("mpv exited before socket was ready")
		default:
		}

		conn, err := net.Dial("unix", h.socketPath)
		if err == nil {
			_ = conn.Close()
			return nil
		}
	}

	return fmt.Errorf("socket %s not ready after %d attempts", h.socketPath, socketWaitRetries)
}

// dispatch turns observed mpv events into listener callbacks.
func (h *mpvHandle) dispatch(name string, data any) {
	if name == "file-loaded" {
		h.loaded.Store(true)
		if h.listener.OnReady != nil {
			h.listener.OnReady(h)
		}
		return
	}

	if name == "pause" {
		if paused, ok := data.(bool); ok {
			h.paused.Store(paused)
		}
	}

	// mpv reports the initial pause state as soon as it is observed;
	// nothing is forwarded until the file is loaded.
	if !h.loaded.Load() {
		return
	}

	code, ok := codeFor(name, data, h.paused.Load())
	if !ok {
		return
	}

	if h.listener.OnStateChange != nil {
		h.listener.OnStateChange(code)
	}
}

// codeFor maps an observed mpv property change to a lifecycle code.
func codeFor(name string, data any, paused bool) (Code, bool) {
	flag, ok := data.(bool)
	if !ok {
		return 0, false
	}

	switch name {
	case "pause":
		if flag {
			return CodePaused, true
		}
		return CodePlaying, true
	case "eof-reached":
		if flag {
			return CodeEnded, true
		}
	case "paused-for-cache":
		if flag {
			return CodeBuffering, true
		}
		if !paused {
			return CodePlaying, true
		}
	}

	return 0, false
}

func newSocketPath() (string, error) {
	randomBytes := make([]byte, 4)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", fmt.Errorf("generate socket name: %w", err)
	}

	return filepath.Join(os.TempDir(), fmt.Sprintf("%s-%x.sock", constant.Playtrail, randomBytes)), nil
}

// sanitizeMediaTarget validates that a source is safe to pass to mpv.
func sanitizeMediaTarget(link string) (string, error) {
	l := strings.TrimSpace(link)
	if l == "" {
		return "", fmt.Errorf("empty URL")
	}

	if strings.ContainsAny(l, "\x00\n\r") {
		return "", fmt.Errorf("invalid control characters in URL")
	}

	// would be parsed as a flag
	if strings.HasPrefix(l, "-") {
		return "", fmt.Errorf("url must not start with '-' (looks like a flag)")
	}

	if strings.Contains(l, "://") {
		u, err := url.Parse(l)
		if err != nil {
			return "", fmt.Errorf("invalid URL: %w", err)
		}
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return l, nil
		default:
			return "", fmt.Errorf("unsupported URL scheme: %s", u.Scheme)
		}
	}

	return filepath.Clean(l), nil
}

func sanitizeTitle(title string) string {
	t := strings.NewReplacer("\n", " ", "\r", " ", "\t", " ", "\x00", "").Replace(title)
	t = strings.TrimSpace(t)
	if t == "" {
		return constant.Playtrail
	}
	return t
}
