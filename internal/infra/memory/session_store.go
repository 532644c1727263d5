package memory

import (
	"sync"
	"time"

	"vocab-quiz-service/internal/app"
)

// SessionStore is an in-memory implementation of app.SessionRepository.
// Sessions idle for longer than ttl are evicted: lookups of a stale session
// miss, and saves sweep out stale sessions every ttl/2. A ttl <= 0 keeps
// sessions until they are deleted.
type SessionStore struct {
	ttl time.Duration
	now func() time.Time

	mu        sync.Mutex
	sessions  map[string]*sessionEntry
	lastSweep time.Time
}

type sessionEntry struct {
	session *app.Session
	seen    time.Time
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*sessionEntry),
	}
}

func (s *SessionStore) Save(session *app.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.sweepLocked(now)
	s.sessions[session.ID()] = &sessionEntry{session: session, seen: now}
}

// Get returns a live session and refreshes its idle timer.
func (s *SessionStore) Get(id string) (*app.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	now := s.now()
	if s.staleLocked(entry, now) {
		delete(s.sessions, id)
		return nil, false
	}
	entry.seen = now
	return entry.session, true
}

func (s *SessionStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Len reports how many sessions are held, stale ones included until swept.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *SessionStore) staleLocked(entry *sessionEntry, now time.Time) bool {
	return s.ttl > 0 && now.Sub(entry.seen) > s.ttl
}

func (s *SessionStore) sweepLocked(now time.Time) {
	if s.ttl <= 0 || now.Sub(s.lastSweep) < s.ttl/2 {
		return
	}
	s.lastSweep = now
	for id, entry := range s.sessions {
		if s.staleLocked(entry, now) {
			delete(s.sessions, id)
		}
	}
}
