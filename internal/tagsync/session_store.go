package tagsync

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"buyers-backend/internal/domain"
)

// SessionStore keeps per-session sync state in memory, keyed by user and
// taxonomy kind. Each session only suppresses its own redundant writes;
// sessions are unaware of each other and the store stays last-writer-wins.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[sessionKey]*sessionEntry
	ttl      time.Duration
}

type sessionKey struct {
	userID uuid.UUID
	kind   domain.TagKind
}

type sessionEntry struct {
	state    SessionState
	lastSeen time.Time
}

// NewSessionStore creates a session store. Sessions idle longer than ttl
// are dropped by a background sweep.
func NewSessionStore(ttl time.Duration) *SessionStore {
	store := &SessionStore{
		sessions: make(map[sessionKey]*sessionEntry),
		ttl:      ttl,
	}
	go store.cleanupRoutine()
	return store
}

// Get returns the session state for one user and kind. A session that
// has never committed returns the zero state, which forces a sync.
func (s *SessionStore) Get(userID uuid.UUID, kind domain.TagKind) SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, exists := s.sessions[sessionKey{userID, kind}]
	if !exists {
		return SessionState{}
	}
	return entry.state
}

// Put replaces the session state for one user and kind.
func (s *SessionStore) Put(userID uuid.UUID, kind domain.TagKind, state SessionState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[sessionKey{userID, kind}] = &sessionEntry{
		state:    state,
		lastSeen: time.Now(),
	}
}

func (s *SessionStore) cleanupRoutine() {
	interval := s.ttl
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		cutoff := time.Now().Add(-s.ttl)
		s.mu.Lock()
		for key, entry := range s.sessions {
			if entry.lastSeen.Before(cutoff) {
				delete(s.sessions, key)
			}
		}
		s.mu.Unlock()
	}
}
