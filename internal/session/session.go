// Package session persists the access token the Note Service issued at
// login. The application shell owns the Session; views receive it as a
// dependency and may only Clear it.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

type state struct {
	Token    string    `json:"token"`
	Email    string    `json:"email,omitempty"`
	LoggedIn time.Time `json:"loggedIn,omitempty"`
}

// Session is a file-backed token store safe for concurrent use.
type Session struct {
	mu    sync.RWMutex
	path  string
	state state
}

// Open loads the session stored at path. A missing file yields an empty
// (logged out) session.
func Open(path string) (*Session, error) {
	s := &Session{path: path}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	if err := json.Unmarshal(data, &s.state); err != nil {
		// A corrupt file is treated as logged out.
		s.state = state{}
	}
	return s, nil
}

// Token returns the bearer token, or "" when logged out.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Token
}

// Email returns the address used for the last login.
func (s *Session) Email() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Email
}

// Authenticated reports whether a token is held.
func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

// Set stores a fresh token and persists it.
func (s *Session) Set(token, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = state{Token: token, Email: email, LoggedIn: time.Now().UTC()}
	return s.save()
}

// Clear drops the token and removes the session file.
func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = state{}
	if s.path == "" {
		return nil
	}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove session: %w", err)
	}
	return nil
}

func (s *Session) save() error {
	if s.path == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return err
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}
