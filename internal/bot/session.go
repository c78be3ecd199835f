package bot

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Lenagitpus/hostcheckbot/internal/domain"
)

// DefaultSessionTTL evicts sessions idle longer than this. The chat
// transport has no session-end signal, so idleness is the signal.
const DefaultSessionTTL = 30 * time.Minute

// SessionStore keeps the per-user chat state. Everything lives in process
// memory and dies with it.
type SessionStore struct {
	mu       sync.RWMutex
	ttl      time.Duration
	sessions map[int64]*domain.Session
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionStore{
		ttl:      ttl,
		sessions: make(map[int64]*domain.Session),
	}
}

// Touch returns the user's session, creating it on first contact.
func (s *SessionStore) Touch(userID int64) domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	sess := s.sessions[userID]
	if sess == nil {
		sess = &domain.Session{UserID: userID, Mode: domain.ModeNone, StartedAt: now}
		s.sessions[userID] = sess
	}
	sess.LastSeen = now
	return *sess
}

// SetMode switches the user's mode; switching restarts the session clock.
func (s *SessionStore) SetMode(userID int64, m domain.Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	sess := s.sessions[userID]
	if sess == nil {
		sess = &domain.Session{UserID: userID}
		s.sessions[userID] = sess
	}
	sess.Mode = m
	sess.StartedAt = now
	sess.LastSeen = now
}

// Mode returns the user's current mode, ModeNone for unknown users.
func (s *SessionStore) Mode(userID int64) domain.Mode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if sess := s.sessions[userID]; sess != nil {
		return sess.Mode
	}
	return domain.ModeNone
}

// Reset drops the user's session entirely.
func (s *SessionStore) Reset(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}

func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Evict removes sessions idle past the TTL and reports how many went.
func (s *SessionStore) Evict(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, sess := range s.sessions {
		if now.Sub(sess.LastSeen) > s.ttl {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}

// Janitor evicts idle sessions on a ticker until the context ends.
func (s *SessionStore) Janitor(ctx context.Context, every time.Duration, logger *zap.Logger) {
	if every <= 0 {
		every = time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if n := s.Evict(now); n > 0 {
				logger.Debug("session_evict",
					zap.Int("evicted", n),
					zap.Int("remaining", s.Len()))
			}
		}
	}
}
