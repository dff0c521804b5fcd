package auth

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/gofrs/uuid"
)

// Session is an opaque local login record, not a cryptographic token. It is
// persisted as JSON so logins survive process restarts.
type Session struct {
	Token    string `json:"token"`
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
	LoggedIn bool   `json:"logged_in"`
}

type SessionStore struct {
	mu       sync.Mutex
	path     string
	sessions map[string]Session
}

// NewSessionStore loads sessions from path when the file exists. An empty
// path keeps the store memory-only.
func NewSessionStore(path string) (*SessionStore, error) {
	s := &SessionStore{
		path:     path,
		sessions: make(map[string]Session),
	}
	if path == "" {
		return s, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read session file %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, &s.sessions); err != nil {
		return nil, fmt.Errorf("failed to parse session file %s: %w", path, err)
	}
	return s, nil
}

// Create issues a new session for the user.
func (s *SessionStore) Create(u *User) (Session, error) {
	token, err := uuid.NewV4()
	if err != nil {
		return Session{}, fmt.Errorf("failed to generate session token: %w", err)
	}

	session := Session{
		Token:    token.String(),
		UserID:   u.ID,
		Username: u.Username,
		Role:     u.Role,
		LoggedIn: true,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.Token] = session
	if err := s.persist(); err != nil {
		delete(s.sessions, session.Token)
		return Session{}, err
	}
	return session, nil
}

// Get returns the session for a token.
func (s *SessionStore) Get(token string) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[token]
	return session, ok
}

// Delete removes a session; deleting an unknown token is a no-op.
func (s *SessionStore) Delete(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[token]; !ok {
		return nil
	}
	delete(s.sessions, token)
	return s.persist()
}

// persist is called with s.mu held.
func (s *SessionStore) persist() error {
	if s.path == "" {
		return nil
	}
	raw, err := json.MarshalIndent(s.sessions, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize sessions: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return fmt.Errorf("failed to write session file %s: %w", s.path, err)
	}
	return nil
}
