// Package progress implements the durable per-item watch state store.
//
// The whole mapping of item id to Record lives under one storage key and is
// replaced as a unit on every write. Reads never fail: missing or corrupt
// storage degrades to an empty mapping and a log line.
package progress

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/playtrail/playtrail/log"
)

// Locker serializes read-modify-write cycles with other processes.
// *flock.Flock satisfies it.
type Locker interface {
	Lock() error
	Unlock() error
}

// Store is the progress mapping over a Backend.
type Store struct {
	backend Backend
	locker  Locker
	now     func() time.Time

	mu sync.Mutex
}

// Option configures a Store.
type Option func(*Store)

// WithLocker guards every write cycle with l.
func WithLocker(l Locker) Option {
	return func(s *Store) {
		s.locker = l
	}
}

// WithClock overrides the time source used for lastUpdated.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New creates a Store over backend.
func New(backend Backend, options ...Option) *Store {
	s := &Store{
		backend: backend,
		now:     time.Now,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// Load returns the entire persisted mapping. It never fails.
func (s *Store) Load() map[string]Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load()
}

// Get returns the stored record for itemID.
func (s *Store) Get(itemID string) (Record, bool) {
	record, ok := s.Load()[itemID]
	return record, ok
}

// IsWatched reports whether itemID has been completed. Unknown items are not watched.
func (s *Store) IsWatched(itemID string) bool {
	record, ok := s.Get(itemID)
	return ok && record.Watched
}

// Save merges a position snapshot into the record for itemID and persists the
// whole mapping. A failed write leaves the previously persisted mapping in place;
// the error is returned for diagnostics only.
func (s *Store) Save(itemID string, seconds, duration float64, watched bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	unlock := s.lock()
	defer unlock()

	records := s.load()
	prev, exists := records[itemID]
	records[itemID] = merge(prev, exists, seconds, duration, watched, s.now())

	if err := s.write(records); err != nil {
		log.Warnf("progress: save %s: %v", itemID, err)
		return err
	}
	return nil
}

// Replace overwrites the whole mapping, e.g. when importing an export.
func (s *Store) Replace(records map[string]Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	unlock := s.lock()
	defer unlock()

	if records == nil {
		records = make(map[string]Record)
	}
	return s.write(records)
}

// Reset clears every record.
func (s *Store) Reset() error {
	return s.Replace(nil)
}

// Close releases the backend when it holds resources.
func (s *Store) Close() error {
	if closer, ok := s.backend.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func (s *Store) load() map[string]Record {
	records := make(map[string]Record)

	data, err := s.backend.Read()
	if err != nil {
		log.Warnf("progress: read storage: %v", err)
		return records
	}
	if len(data) == 0 {
		return records
	}

	if err := json.Unmarshal(data, &records); err != nil {
		log.Warnf("progress: discarding corrupt storage: %v", err)
		return make(map[string]Record)
	}
	if records == nil {
		return make(map[string]Record)
	}
	return records
}

func (s *Store) write(records map[string]Record) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshal progress: %w", err)
	}
	if err := s.backend.Write(data); err != nil {
		return fmt.Errorf("write progress: %w", err)
	}
	return nil
}

// lock acquires the cross-process lock when configured. Failing to lock does
// not block the write.
func (s *Store) lock() (unlock func()) {
	if s.locker == nil {
		return func() {}
	}
	if err := s.locker.Lock(); err != nil {
		log.Warnf("progress: acquire lock: %v", err)
		return func() {}
	}
	return func() {
		if err := s.locker.Unlock(); err != nil {
			log.Warnf("progress: release lock: %v", err)
		}
	}
}
