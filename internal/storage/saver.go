package storage

import (
	"sync"
	"time"
)

// DefaultSaveDelay is the debounce window between the first dirtying
// mutation and the disk write that flushes it.
const DefaultSaveDelay = 150 * time.Millisecond

// Saver serializes all writes to the backing file: at most one write is in
// flight at any time, and no scheduled write is ever silently dropped. The
// debounce contract is "write at most once per delay window, always
// reflecting the latest in-memory state at flush time", not "write every
// change".
//
// The write path carries no timeout: a hung local-disk write stalls every
// later flush. That is a deliberate trade for the single-host deployment
// this serves.
type Saver struct {
	delay   time.Duration
	write   func() error
	onError func(error)

	mu     sync.Mutex
	timer  *time.Timer
	saving bool
	dirty  bool
}

// NewSaver creates a scheduler around a write function. The write function
// must serialize the current in-memory state when called, so a coalesced
// flush always captures the latest mutations. onError receives write
// failures; it must not be nil because silent data loss on every flush
// would be worse than a visible crash.
func NewSaver(delay time.Duration, write func() error, onError func(error)) *Saver {
	if delay <= 0 {
		delay = DefaultSaveDelay
	}
	return &Saver{delay: delay, write: write, onError: onError}
}

// ScheduleSave marks the state dirty and arms the debounce timer unless a
// timer is already armed or a write is in flight. Repeated calls within the
// window coalesce into one write.
func (s *Saver) ScheduleSave() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.dirty = true
	if s.timer != nil || s.saving {
		return
	}
	s.timer = time.AfterFunc(s.delay, s.FlushSave)
}

// FlushSave writes the current state now. If a write is already in flight
// it only marks the state dirty and returns; the in-flight write's
// completion schedules a zero-delay follow-up, so the mutation is never
// lost and at most one write touches the file at a time.
func (s *Saver) FlushSave() {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.saving {
		s.dirty = true
		s.mu.Unlock()
		return
	}
	s.saving = true
	s.dirty = false
	s.mu.Unlock()

	err := s.write()

	s.mu.Lock()
	s.saving = false
	if s.dirty && s.timer == nil {
		s.timer = time.AfterFunc(0, s.FlushSave)
	}
	s.mu.Unlock()

	if err != nil && s.onError != nil {
		s.onError(err)
	}
}
