package schedule

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

var ErrDuplicateId = errors.New("event id already exists")

// Store is the ordered, in-memory collection of committed events. It keeps the
// events of every period; filtering for display happens on read.
type Store struct {
	mu     sync.RWMutex
	events []Event
}

func NewStore() *Store {
	return &Store{events: make([]Event, 0)}
}

// Replace swaps the whole collection, used when restoring persisted state.
func (s *Store) Replace(events []Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(make([]Event, 0, len(events)), events...)
}

func (s *Store) Add(event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexOf(event.Id) >= 0 {
		return fmt.Errorf("%w: %d", ErrDuplicateId, event.Id)
	}
	s.events = append(s.events, event)
	return nil
}

// RemoveById deletes the event with the given id. It reports whether anything was removed.
func (s *Store) RemoveById(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.events = append(s.events[:i:i], s.events[i+1:]...)
	return true
}

// UpdateById applies patch to the event with the given id under the store lock,
// so all fields the patch touches change together. Unknown ids are a no-op.
func (s *Store) UpdateById(id int64, patch func(e *Event)) (Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return Event{}, false
	}
	updated := s.events[i]
	patch(&updated)
	updated.Id = id
	s.events[i] = updated
	return updated, true
}

func (s *Store) Get(id int64) (Event, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(id)
	if i < 0 {
		return Event{}, false
	}
	return s.events[i], true
}

// All returns a copy of the collection in insertion order.
func (s *Store) All() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append(make([]Event, 0, len(s.events)), s.events...)
}

func (s *Store) InPeriod(p Period) []Event {
	return FilterByPeriod(s.All(), p.Year, p.Month)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}

// NextId derives a new event id from the creation timestamp. Ids that would
// collide with a stored one are bumped past the current maximum.
func (s *Store) NextId(now time.Time) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id := now.UnixMilli()
	if s.indexOf(id) < 0 {
		return id
	}
	for _, e := range s.events {
		if e.Id >= id {
			id = e.Id + 1
		}
	}
	return id
}

func (s *Store) indexOf(id int64) int {
	for i, e := range s.events {
		if e.Id == id {
			return i
		}
	}
	return -1
}

// FilterByPeriod returns the events of the given month, preserving order.
func FilterByPeriod(events []Event, year int, month time.Month) []Event {
	filtered := make([]Event, 0, len(events))
	for _, e := range events {
		if e.Year == year && e.Month == month {
			filtered = append(filtered, e)
		}
	}
	return filtered
}
