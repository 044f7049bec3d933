package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/naveenspark/roster/pkg/domain"
)

// TokenEnv overrides the token file when set.
const TokenEnv = "ROSTER_TOKEN"

// ErrNoSession is returned when no token is stored.
var ErrNoSession = errors.New("no session token")

// Store reads and writes the session token file.
type Store struct {
	path string
}

// NewStore returns a store backed by the token file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Token returns the auth token using precedence: env var > file > empty.
func (s *Store) Token() string {
	if tok := os.Getenv(TokenEnv); tok != "" {
		return tok
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// Save writes the token file with owner-only permissions.
func (s *Store) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("session.Save: create dir: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(token), 0600); err != nil {
		return fmt.Errorf("session.Save: %w", err)
	}
	return nil
}

// Clear removes the token file. A missing file is not an error.
func (s *Store) Clear() (bool, error) {
	if err := os.Remove(s.path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("session.Clear: %w", err)
	}
	return true, nil
}

// CurrentUser decodes the stored token into a User. It performs no network
// call and does not verify the signature; the API does that on every request.
func (s *Store) CurrentUser() (User, bool) {
	tok := s.Token()
	if tok == "" {
		return nil, false
	}
	u, err := UserFromToken(tok)
	if err != nil {
		return nil, false
	}
	return u, true
}

type claims struct {
	ID   string      `json:"id"`
	Role domain.Role `json:"role"`
	Name string      `json:"name"`
	jwt.RegisteredClaims
}

// UserFromToken extracts id, role and name from a session JWT.
func UserFromToken(token string) (User, error) {
	if token == "" {
		return nil, ErrNoSession
	}
	var c claims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &c); err != nil {
		return nil, fmt.Errorf("session.UserFromToken: %w", err)
	}
	id := c.ID
	if id == "" {
		id = c.Subject
	}
	u, ok := NewUser(id, c.Name, c.Role)
	if !ok {
		return nil, fmt.Errorf("session.UserFromToken: unsupported role %q", c.Role)
	}
	return u, nil
}
