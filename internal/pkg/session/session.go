package session

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/golang-jwt/jwt"

	"github.com/Mutombe/zim-rec-sub000/internal/domain"
)

// Credentials is the only state that survives restarts: the registry token
// pair and the logged-in user. Entity collections are always refetched.
type Credentials struct {
	Access  string       `json:"access"`
	Refresh string       `json:"refresh"`
	User    *domain.User `json:"user,omitempty"`
}

// Session persists the auth slice to a JSON file and answers token questions
// for the registry client.
type Session struct {
	mu    sync.RWMutex
	path  string
	creds Credentials
}

// Open loads the session file if one exists; a missing file yields an empty
// (logged-out) session.
func Open(path string) (*Session, error) {
	s := &Session{path: path}

	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session file: %w", err)
	}
	if err := sonic.Unmarshal(raw, &s.creds); err != nil {
		return nil, fmt.Errorf("decode session file: %w", err)
	}
	return s, nil
}

func (s *Session) LoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds.Access != ""
}

func (s *Session) Access() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds.Access
}

func (s *Session) Refresh() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds.Refresh
}

func (s *Session) User() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.creds.User == nil {
		return nil
	}
	u := *s.creds.User
	return &u
}

func (s *Session) SetCredentials(creds Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = creds
	return s.persist()
}

// SetAccess swaps the access token after a refresh, keeping the rest.
func (s *Session) SetAccess(access string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds.Access = access
	return s.persist()
}

func (s *Session) SetUser(u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds.User = u
	return s.persist()
}

func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = Credentials{}
	return s.persist()
}

func (s *Session) persist() error {
	raw, err := sonic.Marshal(s.creds)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

// ExpiresWithin inspects the access token's exp claim without verifying the
// signature; verification is the registry's job, we only need the clock.
func (s *Session) ExpiresWithin(d time.Duration) bool {
	s.mu.RLock()
	access := s.creds.Access
	s.mu.RUnlock()
	if access == "" {
		return true
	}

	token, _, err := new(jwt.Parser).ParseUnverified(access, jwt.MapClaims{})
	if err != nil {
		return true
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return true
	}
	exp, ok := claims["exp"].(float64)
	if !ok {
		return true
	}
	return time.Now().Add(d).After(time.Unix(int64(exp), 0))
}
