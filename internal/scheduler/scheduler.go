package scheduler

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/KirkDiggler/bingo/internal/common/clock"
	"github.com/sirupsen/logrus"
)

// Scheduler owns every pending timer of every room. Timers are named per room;
// scheduling a name that is already pending replaces it.
type Scheduler struct {
	clock clock.Clock
	log   logrus.FieldLogger

	mu      sync.Mutex
	nextID  uint64
	rooms   map[string]map[string]*entry
	stopped bool
}

type entry struct {
	id    uint64
	timer clock.Timer
}

// Config holds the scheduler dependencies
type Config struct {
	Clock  clock.Clock
	Logger logrus.FieldLogger
}

// New creates a scheduler
func New(cfg *Config) (*Scheduler, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.Clock == nil {
		return nil, errors.New("clock cannot be nil")
	}

	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &Scheduler{
		clock: cfg.Clock,
		log:   log.WithField("component", "scheduler"),
		rooms: make(map[string]map[string]*entry),
	}, nil
}

// Schedule runs fn once after delay unless the timer is cancelled first
func (s *Scheduler) Schedule(roomID, name string, delay time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}

	timers, ok := s.rooms[roomID]
	if !ok {
		timers = make(map[string]*entry)
		s.rooms[roomID] = timers
	}
	if existing, ok := timers[name]; ok {
		existing.timer.Stop()
	}

	s.nextID++
	id := s.nextID
	e := &entry{id: id}
	e.timer = s.clock.AfterFunc(delay, func() {
		if !s.claim(roomID, name, id) {
			return
		}
		defer func() {
			if r := recover(); r != nil {
				s.log.WithFields(logrus.Fields{
					"room_id": roomID,
					"timer":   name,
					"panic":   r,
				}).Error("timer callback panicked")
			}
		}()
		fn()
	})
	timers[name] = e
}

// claim removes the entry before its callback runs. A callback whose entry was
// replaced or cancelled in the meantime must not run.
func (s *Scheduler) claim(roomID, name string, id uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return false
	}
	timers, ok := s.rooms[roomID]
	if !ok {
		return false
	}
	e, ok := timers[name]
	if !ok || e.id != id {
		return false
	}

	delete(timers, name)
	if len(timers) == 0 {
		delete(s.rooms, roomID)
	}
	return true
}

// Cancel stops one named timer of a room
func (s *Scheduler) Cancel(roomID, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	timers, ok := s.rooms[roomID]
	if !ok {
		return
	}
	if e, ok := timers[name]; ok {
		e.timer.Stop()
		delete(timers, name)
	}
	if len(timers) == 0 {
		delete(s.rooms, roomID)
	}
}

// CancelRoom stops every timer of a room
func (s *Scheduler) CancelRoom(roomID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.rooms[roomID] {
		e.timer.Stop()
	}
	delete(s.rooms, roomID)
}

// Pending lists the names of a room's timers that have not fired
func (s *Scheduler) Pending(roomID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.rooms[roomID]))
	for name := range s.rooms[roomID] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Stop cancels everything and refuses new timers
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for roomID, timers := range s.rooms {
		for _, e := range timers {
			e.timer.Stop()
		}
		delete(s.rooms, roomID)
	}
	s.stopped = true
}
