// Package auth manages login sessions. The core never authenticates; it only
// receives the username a session resolved to.
package auth

import (
	"sync"

	"github.com/google/uuid"
)

// CookieName is the session cookie handed out at login.
const CookieName = "session_token"

// Sessions maps opaque tokens to logged-in usernames.
type Sessions interface {
	Create(username string) (string, error)
	Lookup(token string) (string, bool)
	Destroy(token string)
}

// MemorySessions is the default single-process session store.
type MemorySessions struct {
	mu      sync.RWMutex
	byToken map[string]string
}

func NewMemorySessions() *MemorySessions {
	return &MemorySessions{byToken: make(map[string]string)}
}

func (s *MemorySessions) Create(username string) (string, error) {
	token := uuid.NewString()
	s.mu.Lock()
	s.byToken[token] = username
	s.mu.Unlock()
	return token, nil
}

func (s *MemorySessions) Lookup(token string) (string, bool) {
	s.mu.RLock()
	username, ok := s.byToken[token]
	s.mu.RUnlock()
	return username, ok
}

func (s *MemorySessions) Destroy(token string) {
	s.mu.Lock()
	delete(s.byToken, token)
	s.mu.Unlock()
}
