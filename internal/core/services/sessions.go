package services

import (
	"sync"

	"github.com/tiagocrz/deNoise/internal/core/domain"
)

// DefaultSessionMaxTurns bounds per-user conversation history.
const DefaultSessionMaxTurns = 40

// SessionStore keeps per-user conversation history in memory.
// History is bounded: once a session reaches the max-turns cap the
// oldest turns are evicted, so a long-running chat cannot grow the
// prompt without limit.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string][]domain.Turn
	maxTurns int
}

// NewSessionStore creates a session store. A non-positive maxTurns
// falls back to the default cap.
func NewSessionStore(maxTurns int) *SessionStore {
	if maxTurns <= 0 {
		maxTurns = DefaultSessionMaxTurns
	}
	return &SessionStore{
		sessions: make(map[string][]domain.Turn),
		maxTurns: maxTurns,
	}
}

// Append adds a turn to a user's history, evicting the oldest turns
// when the cap is exceeded.
func (s *SessionStore) Append(userID string, turn domain.Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := append(s.sessions[userID], turn)
	if len(history) > s.maxTurns {
		history = history[len(history)-s.maxTurns:]
	}
	s.sessions[userID] = history
}

// History returns a copy of a user's conversation history in order.
func (s *SessionStore) History(userID string) []domain.Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := s.sessions[userID]
	out := make([]domain.Turn, len(history))
	copy(out, history)
	return out
}

// Clear drops the conversation history for a user.
func (s *SessionStore) Clear(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}
