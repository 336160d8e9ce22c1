package session

import (
	"context"
	"sync"
	"time"

	"archie-core-facebook-layer/internal/domain"
)

// MemorySessionStore keeps OAuth sessions in process memory.
// Expired sessions are dropped lazily on access.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]domain.OAuthSession
	now      func() time.Time
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]domain.OAuthSession),
		now:      time.Now,
	}
}

func (s *MemorySessionStore) Save(_ context.Context, session *domain.OAuthSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.State] = *session
	return nil
}

func (s *MemorySessionStore) Get(_ context.Context, state string) (*domain.OAuthSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[state]
	if !ok {
		return nil, nil
	}
	if session.Expired(s.now()) {
		delete(s.sessions, state)
		return nil, nil
	}
	return &session, nil
}

func (s *MemorySessionStore) Delete(_ context.Context, state string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, state)
	return nil
}
