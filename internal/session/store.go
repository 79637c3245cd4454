// Package session holds the bearer credential and derived identity for the
// CLI, persisted across invocations in a state file (the browser
// session-storage analogue).
package session

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/golang-jwt/jwt/v5"

	"github.com/groblegark/catalog/internal/model"
)

// Store is the credential store: it owns the current Session and persists it
// as TOML. All accessors are safe for concurrent use.
type Store struct {
	path string

	mu     sync.Mutex
	loaded bool
	cur    *model.Session
}

// DefaultPath returns the session file location under the user state dir.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".local", "state", "catalog")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return filepath.Join(dir, "session.toml"), nil
}

// NewStore creates a store backed by the given file path. The file is read
// lazily on first access.
func NewStore(path string) *Store {
	return &Store{path: path}
}

type sessionFile struct {
	Session model.Session `toml:"session"`
}

// Get returns the current session, or false if not logged in.
func (s *Store) Get() (*model.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked()
	if s.cur == nil {
		return nil, false
	}
	cp := *s.cur
	return &cp, true
}

// Set replaces the current session and persists it with owner-only
// permissions.
func (s *Store) Set(sess *model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("writing session file: %w", err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(sessionFile{Session: *sess}); err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}

	cp := *sess
	s.cur = &cp
	s.loaded = true
	return nil
}

// Clear removes the session. Idempotent: clearing an empty store is a no-op.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cur = nil
	s.loaded = true
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing session file: %w", err)
	}
	return nil
}

func (s *Store) loadLocked() {
	if s.loaded {
		return
	}
	s.loaded = true

	var sf sessionFile
	if _, err := toml.DecodeFile(s.path, &sf); err != nil {
		// Missing or unreadable file means "not logged in".
		return
	}
	if sf.Session.Token == "" {
		return
	}
	if !sf.Session.Role.IsValid() {
		sf.Session.Role = DeriveRole(sf.Session.Token)
	}
	s.cur = &sf.Session
}

// DeriveRole extracts the role claim from a bearer token without verifying
// its signature. This is a best-effort read used only to gate CLI
// affordances — it is never an authorization boundary, the server enforces
// the role on every request. Any decoding failure degrades to the
// least-privileged role instead of failing.
func DeriveRole(token string) model.Role {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return model.RoleViewer
	}
	roleStr, _ := claims["role"].(string)
	role := model.Role(roleStr)
	if !role.IsValid() {
		return model.RoleViewer
	}
	return role
}
