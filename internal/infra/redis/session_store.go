package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"vocab-quiz-service/internal/app"
)

// SessionStore is a Redis-aware implementation of SessionRepository.
// Notes:
//   - Sessions themselves stay in a local map; they hold a lock and a random
//     source and are not meant to be serialized.
//   - Redis holds a liveness key per session with a TTL. Every access refreshes
//     it, and a session whose key has expired is evicted on the next lookup.
//   - Saves drop local sessions that have not been touched for longer than the
//     TTL, so abandoned sessions do not pile up in the map.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time

	mu        sync.Mutex
	sessions  map[string]*sessionEntry
	lastSweep time.Time
}

type sessionEntry struct {
	session *app.Session
	seen    time.Time
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client:   client,
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*sessionEntry),
	}
}

func (s *SessionStore) Save(session *app.Session) {
	s.mu.Lock()
	now := s.now()
	stale := s.sweepLocked(now)
	s.sessions[session.ID()] = &sessionEntry{session: session, seen: now}
	s.mu.Unlock()

	ctx := context.Background()
	if len(stale) > 0 {
		_ = s.client.Del(ctx, stale...).Err()
	}
	// best-effort liveness marker
	_ = s.client.Set(ctx, s.key(session.ID()), session.Progress().State.String(), s.ttl).Err()
}

func (s *SessionStore) Get(id string) (*app.Session, bool) {
	s.mu.Lock()
	entry, ok := s.sessions[id]
	if ok {
		entry.seen = s.now()
	}
	s.mu.Unlock()
	if !ok {
		return nil, false
	}
	if s.ttl <= 0 {
		return entry.session, true
	}

	alive, err := s.client.Expire(context.Background(), s.key(id), s.ttl).Result()
	if err == nil && !alive {
		s.Delete(id)
		return nil, false
	}
	return entry.session, true
}

func (s *SessionStore) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	_ = s.client.Del(context.Background(), s.key(id)).Err()
}

// Len reports how many sessions are held locally.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// sweepLocked removes locally stale sessions at most every ttl/2 and returns their keys.
func (s *SessionStore) sweepLocked(now time.Time) []string {
	if s.ttl <= 0 || now.Sub(s.lastSweep) < s.ttl/2 {
		return nil
	}
	s.lastSweep = now
	var keys []string
	for id, entry := range s.sessions {
		if now.Sub(entry.seen) > s.ttl {
			delete(s.sessions, id)
			keys = append(keys, s.key(id))
		}
	}
	return keys
}

func (s *SessionStore) key(id string) string {
	return "quiz:session:" + id
}
