package studio

import "sync"

// Sessions issues request tokens per editing session. A newer Begin makes
// earlier tokens of the same session stale; in-flight calls are not cancelled.
type Sessions struct {
	mu      sync.Mutex
	next    uint64
	current map[string]uint64
}

// NewSessions creates an empty token table
func NewSessions() *Sessions {
	return &Sessions{current: make(map[string]uint64)}
}

// Begin issues a new token for sessionID and makes it the current one
func (s *Sessions) Begin(sessionID string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.next++
	if sessionID != "" {
		s.current[sessionID] = s.next
	}
	return s.next
}

// IsCurrent reports whether token is still the newest for sessionID.
// Requests without a session are never superseded.
func (s *Sessions) IsCurrent(sessionID string, token uint64) bool {
	if sessionID == "" {
		return true
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current[sessionID] == token
}

// End forgets a session
func (s *Sessions) End(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.current, sessionID)
}
