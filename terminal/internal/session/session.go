// Package session holds the operator's authentication state. A Session is
// started at login and cleared at logout or when the backend rejects its
// token; every component that needs the token receives the same *Session.
package session

import (
	"context"
	"sync"

	"salao/terminal/internal/domain"
)

// State is the persistable part of a session.
type State struct {
	Token        string      `json:"token"`
	RefreshToken string      `json:"refresh_token,omitempty"`
	IfoodToken   string      `json:"ifood_token,omitempty"`
	User         domain.User `json:"user"`
	RememberMe   bool        `json:"remember_me"`
}

// Store persists remember-me sessions across terminal restarts.
type Store interface {
	Save(ctx context.Context, state State) error
	Load(ctx context.Context) (State, bool, error)
	Delete(ctx context.Context) error
}

type Session struct {
	mu      sync.RWMutex
	state   State
	onClear []func()
}

func New() *Session {
	return &Session{}
}

func (s *Session) Start(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Token
}

func (s *Session) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.RefreshToken
}

func (s *Session) SetToken(token string) {
	s.mu.Lock()
	s.state.Token = token
	s.mu.Unlock()
}

func (s *Session) IfoodToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.IfoodToken
}

func (s *Session) SetIfoodToken(token string) {
	s.mu.Lock()
	s.state.IfoodToken = token
	s.mu.Unlock()
}

func (s *Session) ClearIfoodToken() {
	s.SetIfoodToken("")
}

func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

func (s *Session) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// OnClear registers fn to run after every Clear.
func (s *Session) OnClear(fn func()) {
	s.mu.Lock()
	s.onClear = append(s.onClear, fn)
	s.mu.Unlock()
}

// Clear drops all tokens and runs the OnClear hooks. Clearing an empty
// session is a no-op.
func (s *Session) Clear() {
	s.mu.Lock()
	if s.state == (State{}) {
		s.mu.Unlock()
		return
	}
	s.state = State{}
	hooks := append([]func(){}, s.onClear...)
	s.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}
}
