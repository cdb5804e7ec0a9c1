package server

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"qabot/internal/history"
)

type session struct {
	log      *history.Log
	lastSeen time.Time
}

// sessions maps session ids to their conversation log. Sessions idle for
// longer than ttl are dropped, and at most max are kept; creating one more
// evicts the least recently used. Zero disables either limit.
type sessions struct {
	mu   sync.Mutex
	logs map[string]*session
	max  int
	ttl  time.Duration
	now  func() time.Time
}

func newSessions(limit int, ttl time.Duration) *sessions {
	return &sessions{
		logs: make(map[string]*session),
		max:  limit,
		ttl:  ttl,
		now:  time.Now,
	}
}

func (s *sessions) create() string {
	id := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.expire(now)
	if s.max > 0 {
		for len(s.logs) >= s.max {
			s.evictOldest()
		}
	}
	s.logs[id] = &session{log: history.New(), lastSeen: now}
	return id
}

func (s *sessions) get(id string) (*history.Log, bool) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.logs[id]
	if !ok {
		return nil, false
	}
	now := s.now()
	if s.expired(sess, now) {
		delete(s.logs, id)
		return nil, false
	}
	sess.lastSeen = now
	return sess.log, true
}

func (s *sessions) delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.logs[id]; !ok {
		return false
	}
	delete(s.logs, id)
	return true
}

func (s *sessions) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expire(s.now())
	return len(s.logs)
}

func (s *sessions) expired(sess *session, now time.Time) bool {
	return s.ttl > 0 && now.Sub(sess.lastSeen) > s.ttl
}

// expire must be called with mu held.
func (s *sessions) expire(now time.Time) {
	if s.ttl <= 0 {
		return
	}
	for id, sess := range s.logs {
		if s.expired(sess, now) {
			delete(s.logs, id)
		}
	}
}

// evictOldest must be called with mu held.
func (s *sessions) evictOldest() {
	var (
		oldestID string
		oldest   time.Time
	)
	for id, sess := range s.logs {
		if oldestID == "" || sess.lastSeen.Before(oldest) {
			oldestID, oldest = id, sess.lastSeen
		}
	}
	delete(s.logs, oldestID)
}
