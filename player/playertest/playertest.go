// Package playertest provides a scripted player capability for tests.
package playertest

import (
	"errors"
	"fmt"
	"sync"

	"github.com/playtrail/playtrail/player"
)

// Capability records every constructed Handle. Tests drive readiness and events by hand.
type Capability struct {
	mu        sync.Mutex
	ready     chan struct{}
	readyOnce sync.Once
	handles   []*Handle

	// ConstructErr, when set, makes Construct fail.
	ConstructErr error
}

// New returns a capability that is already ready when ready is true.
func New(ready bool) *Capability {
	c := &Capability{ready: make(chan struct{})}
	if ready {
		c.MarkReady()
	}
	return c
}

// MarkReady closes the ready channel.
func (c *Capability) MarkReady() {
	c.readyOnce.Do(func() { close(c.ready) })
}

func (c *Capability) Ready() <-chan struct{} {
	return c.ready
}

func (c *Capability) Construct(container, source string, listener player.Listener) (player.Handle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	select {
	case <-c.ready:
	default:
		return nil, player.ErrNotReady
	}

	if c.ConstructErr != nil {
		return nil, c.ConstructErr
	}

	h := &Handle{
		Container: container,
		Source:    source,
		listener:  listener,
	}
	c.handles = append(c.handles, h)
	return h, nil
}

// Handles returns every handle constructed so far.
func (c *Capability) Handles() []*Handle {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*Handle(nil), c.handles...)
}

// Last returns the most recently constructed handle or nil.
func (c *Capability) Last() *Handle {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.handles) == 0 {
		return nil
	}
	return c.handles[len(c.handles)-1]
}

// ErrDestroyed is returned by commands issued after Destroy.
var ErrDestroyed = errors.New("handle destroyed")

// Handle is a fake player.Handle with a settable position and a command log.
type Handle struct {
	Container string
	Source    string

	listener player.Listener

	mu        sync.Mutex
	position  float64
	duration  float64
	calls     []string
	destroyed bool
}

// SetPosition sets what CurrentTime and Duration report.
func (h *Handle) SetPosition(position, duration float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.position, h.duration = position, duration
}

// Calls returns the commands received, in order, e.g. "seekTo(42)", "playVideo".
func (h *Handle) Calls() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.calls...)
}

func (h *Handle) Destroyed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.destroyed
}

// EmitReady delivers OnReady.
func (h *Handle) EmitReady() {
	if h.listener.OnReady != nil {
		h.listener.OnReady(h)
	}
}

// Emit delivers OnStateChange with code.
func (h *Handle) Emit(code player.Code) {
	if h.listener.OnStateChange != nil {
		h.listener.OnStateChange(code)
	}
}

// Exit delivers OnExit, as if the player window was closed.
func (h *Handle) Exit() {
	if h.listener.OnExit != nil {
		h.listener.OnExit()
	}
}

func (h *Handle) record(call string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.destroyed {
		return ErrDestroyed
	}
	h.calls = append(h.calls, call)
	return nil
}

func (h *Handle) SeekTo(seconds float64) error {
	if err := h.record(fmt.Sprintf("seekTo(%g)", seconds)); err != nil {
		return err
	}

	h.mu.Lock()
	h.position = seconds
	h.mu.Unlock()
	return nil
}

func (h *Handle) PlayVideo() error {
	return h.record("playVideo")
}

func (h *Handle) CurrentTime() (float64, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.destroyed {
		return 0, ErrDestroyed
	}
	return h.position, nil
}

func (h *Handle) Duration() (float64, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.destroyed {
		return 0, ErrDestroyed
	}
	return h.duration, nil
}

func (h *Handle) Destroy() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.destroyed {
		h.destroyed = true
		h.calls = append(h.calls, "destroy")
	}
	return nil
}
