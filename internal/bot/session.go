package bot

import (
	"sync"

	"github.com/shopspring/decimal"
)

// EditSession is the per-owner state of an in-flight correction. It holds
// a snapshot of the original record so the correction prompt can embed it,
// and the id of the confirmation message to rewrite on success.
type EditSession struct {
	TransactionID   string
	OwnerID         string
	OrigDescription string
	OrigAmount      decimal.Decimal
	MessageID       string
}

// sessionStore keys edit sessions by owner. At most one session exists per
// owner; Put replaces any previous one. Tasks of different owners never
// touch each other's entries.
type sessionStore struct {
	mu       sync.RWMutex
	sessions map[string]EditSession
}

func newSessionStore() *sessionStore {
	return &sessionStore{sessions: make(map[string]EditSession)}
}

// Put stores the owner's session, replacing an existing one.
func (s *sessionStore) Put(session EditSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.OwnerID] = session
}

// Get returns the owner's active session, if any.
func (s *sessionStore) Get(ownerID string) (EditSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[ownerID]
	return session, ok
}

// Clear removes the owner's session.
func (s *sessionStore) Clear(ownerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, ownerID)
}
