package session

import (
	"context"
	"sync"
	"time"

	"flight-assistant/internal/logger"
	"flight-assistant/internal/metrics"
)

// Store holds the sessions of all connected browsers. Sessions are created on
// first use and dropped after sitting idle.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*entry
	idle     time.Duration
	now      func() time.Time
}

type entry struct {
	state    *State
	lastSeen time.Time
}

func NewStore(idle time.Duration) *Store {
	return &Store{sessions: make(map[string]*entry), idle: idle, now: time.Now}
}

// Get returns the session for id, creating an empty one on first use.
func (s *Store) Get(id string) *State {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[id]
	if !ok {
		e = &entry{state: NewState(id)}
		s.sessions[id] = e
		metrics.SessionsActive.Set(float64(len(s.sessions)))
		logger.Debug("session.created", "sid", id)
	}
	e.lastSeen = s.now()
	return e.state
}

func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	metrics.SessionsActive.Set(float64(len(s.sessions)))
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep drops sessions idle for longer than the store's idle window and
// returns how many were removed.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := s.now().Add(-s.idle)
	n := 0
	for id, e := range s.sessions {
		if e.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
			n++
		}
	}
	metrics.SessionsActive.Set(float64(len(s.sessions)))
	return n
}

// Run sweeps periodically until ctx is done.
func (s *Store) Run(ctx context.Context) {
	every := s.idle / 2
	if every < time.Minute {
		every = time.Minute
	}
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := s.Sweep(); n > 0 {
				logger.Info("session.sweep", "removed", n, "active", s.Len())
			}
		}
	}
}
