// Package session holds the account that is currently logged in.
package session

import (
	"sync"

	"personal-ledger/internal/models"
)

// Session is created empty, set after a successful login and cleared on
// logout. It is never persisted.
type Session struct {
	mu   sync.RWMutex
	user *models.User
}

func New() *Session {
	return &Session{}
}

// Get returns a copy of the current account, or nil when logged out.
func (s *Session) Get() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Set replaces the current account. Passing nil logs out.
func (s *Session) Set(u *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u == nil {
		s.user = nil
		return
	}
	cp := *u
	s.user = &cp
}

// Clear logs out.
func (s *Session) Clear() {
	s.Set(nil)
}

// Username returns the current username, or "" when logged out.
func (s *Session) Username() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return ""
	}
	return s.user.Username
}

// Refresh replaces the current account with u only if u is the same user.
func (s *Session) Refresh(u *models.User) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u == nil || s.user == nil || s.user.Username != u.Username {
		return false
	}
	cp := *u
	s.user = &cp
	return true
}
