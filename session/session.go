// Package session binds one catalog item to one player instance and keeps
// its watch progress up to date while it plays.
//
// A Session moves Uninitialized -> Loading -> Playing <-> Paused -> Ended and
// can be torn down from any state. Player callbacks, sampling ticks and
// caller operations are serialized behind a single mutex.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/playtrail/playtrail/catalog"
	"github.com/playtrail/playtrail/log"
	"github.com/playtrail/playtrail/player"
	"github.com/playtrail/playtrail/progress"
	"github.com/sirupsen/logrus"
)

const (
	DefaultInterval        = 5 * time.Second
	DefaultResumeThreshold = 5.0
)

// Progress is the part of the progress store a Session needs.
type Progress interface {
	Get(itemID string) (progress.Record, bool)
	Save(itemID string, seconds, duration float64, watched bool) error
}

// Ticker is the sampling clock.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type timeTicker struct {
	*time.Ticker
}

func (t timeTicker) C() <-chan time.Time {
	return t.Ticker.C
}

func newTimeTicker(d time.Duration) Ticker {
	return timeTicker{time.NewTicker(d)}
}

// Snapshot is a point-in-time view of a Session.
type Snapshot struct {
	ID        string  `json:"id"`
	ItemID    string  `json:"item_id"`
	State     string  `json:"state"`
	ResumedAt float64 `json:"resumed_at"`
	Position  float64 `json:"position"`
	Duration  float64 `json:"duration"`
}

// Session is the playback state machine of a single item.
type Session struct {
	id         uuid.UUID
	item       *catalog.Item
	store      Progress
	capability player.Capability
	container  string
	interval   time.Duration
	threshold  float64
	newTicker  func(time.Duration) Ticker
	onChange   func(State)
	log        *logrus.Entry

	mu        sync.Mutex
	state     State
	waiting   bool
	handle    player.Handle
	sampling  chan struct{} // closed to stop the active sampler, nil when idle
	resumedAt float64
	position  float64
	duration  float64

	cancel   chan struct{} // closed on teardown
	done     chan struct{} // closed on Ended or TornDown
	doneOnce sync.Once
}

// Option configures a Session.
type Option func(*Session)

// WithInterval sets how often position is sampled while playing.
func WithInterval(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithResumeThreshold sets the minimum stored position, in seconds, worth seeking to.
func WithResumeThreshold(seconds float64) Option {
	return func(s *Session) {
		if seconds >= 0 {
			s.threshold = seconds
		}
	}
}

// WithContainer names the surface the player is mounted into.
func WithContainer(name string) Option {
	return func(s *Session) {
		s.container = name
	}
}

// WithTicker replaces the sampling clock.
func WithTicker(newTicker func(time.Duration) Ticker) Option {
	return func(s *Session) {
		s.newTicker = newTicker
	}
}

// OnChange registers fn to be called after every transition. fn runs with
// the session locked and must not call back into it.
func OnChange(fn func(State)) Option {
	return func(s *Session) {
		s.onChange = fn
	}
}

// New creates an Uninitialized session for item. Nothing happens until Start.
func New(item *catalog.Item, store Progress, capability player.Capability, options ...Option) *Session {
	id := uuid.New()

	s := &Session{
		id:         id,
		item:       item,
		store:      store,
		capability: capability,
		container:  item.String(),
		interval:   DefaultInterval,
		threshold:  DefaultResumeThreshold,
		newTicker:  newTimeTicker,
		cancel:     make(chan struct{}),
		done:       make(chan struct{}),
	}

	for _, option := range options {
		option(s)
	}

	s.log = log.WithFields(logrus.Fields{
		"session": id.String(),
		"item":    item.ID,
	})

	return s
}

func (s *Session) ID() string {
	return s.id.String()
}

func (s *Session) ItemID() string {
	return s.item.ID
}

func (s *Session) Item() *catalog.Item {
	return s.item
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Stalled reports a session left Uninitialized with no readiness wait
// pending, which happens when the player could not be constructed.
func (s *Session) Stalled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == Uninitialized && !s.waiting
}

// Done is closed once the session ends or is torn down.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Snapshot{
		ID:        s.id.String(),
		ItemID:    s.item.ID,
		State:     s.state.String(),
		ResumedAt: s.resumedAt,
		Position:  s.position,
		Duration:  s.duration,
	}
}

// Start constructs the player once the capability is ready. If it is not
// ready yet, the session stays Uninitialized and tries again exactly once
// when readiness is signaled.
func (s *Session) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Uninitialized || s.waiting {
		return
	}

	select {
	case <-s.capability.Ready():
		s.construct()
	default:
		s.log.Info("player not ready, waiting")
		s.waiting = true
		go s.awaitReady()
	}
}

func (s *Session) awaitReady() {
	select {
	case <-s.capability.Ready():
	case <-s.cancel:
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.waiting = false
	if s.state == Uninitialized {
		s.construct()
	}
}

// construct requires s.mu.
func (s *Session) construct() {
	handle, err := s.capability.Construct(s.container, s.item.Source, player.Listener{
		OnReady:       s.handleReady,
		OnStateChange: s.handleStateChange,
		OnExit:        s.handleExit,
	})
	if err != nil {
		s.log.Warnf("construct player: %s", err)
		return
	}

	s.handle = handle
	s.setState(Loading)
}

func (s *Session) handleReady(handle player.Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Loading || handle != s.handle {
		return
	}

	if record, ok := s.store.Get(s.item.ID); ok && !record.Watched && record.Timestamp > s.threshold {
		if err := s.handle.SeekTo(record.Timestamp); err != nil {
			s.log.Warnf("seek to %.0fs: %s", record.Timestamp, err)
		} else {
			s.resumedAt = record.Timestamp
			s.position = record.Timestamp
			s.log.Infof("resuming at %.0fs", record.Timestamp)
		}
	}

	if err := s.handle.PlayVideo(); err != nil {
		s.log.Warnf("play: %s", err)
	}

	s.setState(Playing)
	s.startSampling()
}

func (s *Session) handleStateChange(code player.Code) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := translate(code)
	s.log.Debugf("player reported %s", code)

	switch s.state {
	case Playing:
		switch next {
		case Paused:
			s.stopSampling()
			s.setState(Paused)
		case Ended:
			s.complete()
		}
	case Paused:
		switch next {
		case Playing:
			s.setState(Playing)
			s.startSampling()
		case Ended:
			s.complete()
		}
	case Ended:
		// replayed from within the player
		if next == Playing {
			s.setState(Playing)
			s.startSampling()
		}
	}
}

func (s *Session) handleExit() {
	s.log.Info("player exited")
	s.Teardown()
}

// complete requires s.mu.
func (s *Session) complete() {
	s.stopSampling()
	s.setState(Ended)

	if err := s.store.Save(s.item.ID, 0, 0, true); err != nil {
		s.log.Warnf("mark watched: %s", err)
	}

	s.finish()
}

// Teardown cancels sampling and releases the player. No final save is made.
// It is safe to call more than once.
func (s *Session) Teardown() {
	s.mu.Lock()

	if s.state == TornDown {
		s.mu.Unlock()
		return
	}

	s.stopSampling()
	handle := s.handle
	s.handle = nil
	close(s.cancel)
	s.setState(TornDown)
	s.mu.Unlock()

	s.finish()

	if handle != nil {
		if err := handle.Destroy(); err != nil {
			s.log.Warnf("destroy player: %s", err)
		}
	}
}

func (s *Session) finish() {
	s.doneOnce.Do(func() { close(s.done) })
}

// setState requires s.mu.
func (s *Session) setState(state State) {
	if s.state == state {
		return
	}

	s.log.Debugf("%s -> %s", s.state, state)
	s.state = state

	if s.onChange != nil {
		s.onChange(state)
	}
}

// startSampling requires s.mu.
func (s *Session) startSampling() {
	if s.sampling != nil {
		return
	}

	stop := make(chan struct{})
	s.sampling = stop
	ticker := s.newTicker(s.interval)

	go func() {
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				return
			case <-ticker.C():
				s.sample(stop)
			}
		}
	}()
}

// stopSampling requires s.mu.
func (s *Session) stopSampling() {
	if s.sampling == nil {
		return
	}

	close(s.sampling)
	s.sampling = nil
}

// sample persists the current position. Ticks from a sampler that has
// since been stopped are dropped.
func (s *Session) sample(stop chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Playing || s.sampling != stop || s.handle == nil {
		return
	}

	position, err := s.handle.CurrentTime()
	if err != nil {
		s.log.Debugf("read position: %s", err)
		return
	}

	duration, err := s.handle.Duration()
	if err != nil || duration <= 0 {
		duration = s.item.Duration
	}

	s.position, s.duration = position, duration

	if err := s.store.Save(s.item.ID, position, duration, false); err != nil {
		s.log.Warnf("save position: %s", err)
	}
}
