package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/andy/invoicedesk/internal/api"
	"github.com/andy/invoicedesk/internal/crypto"
	"github.com/andy/invoicedesk/internal/domain"
)

// Session holds the authenticated state for the running client: whether
// the backend is reachable, and who (if anyone) is logged in. It replaces
// the scattered globals of a typical browser client with one explicit
// object handed to screens and commands.
type Session struct {
	api     api.API
	keyring crypto.Keyring

	mu        sync.Mutex
	backendUp bool
	user      *domain.User
}

// New creates a session bound to an API client and token store
func New(a api.API, kr crypto.Keyring) *Session {
	return &Session{api: a, keyring: kr}
}

// Bootstrap probes backend reachability and, if a token is stored,
// attempts to resume the previous session by verifying it. A token the
// backend rejects is deleted and the user lands on the login screen;
// transient verification failures keep the token for the next start.
func (s *Session) Bootstrap(ctx context.Context) error {
	if err := s.api.Ping(ctx); err != nil {
		s.setBackendUp(false)
		return fmt.Errorf("backend check failed: %w", err)
	}
	s.setBackendUp(true)

	token, err := s.keyring.GetToken()
	if err != nil || token == "" {
		return nil // no stored session
	}

	user, err := s.api.Verify(ctx, token)
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			// Expired or invalid token: clear it and land on login
			_ = s.keyring.DeleteToken()
			return nil
		}
		// Transient failure: keep the token so the next start can retry
		return fmt.Errorf("session verification failed: %w", err)
	}

	s.api.SetToken(token)
	s.setUser(user)
	return nil
}

// Login authenticates against the backend and persists the token
func (s *Session) Login(ctx context.Context, email, password string) error {
	if !s.BackendUp() {
		return api.ErrUnreachable
	}

	user, token, err := s.api.Login(ctx, email, password)
	if err != nil {
		return err
	}

	if err := s.keyring.SetToken(token); err != nil {
		return fmt.Errorf("failed to persist session token: %w", err)
	}

	s.api.SetToken(token)
	s.setUser(user)
	return nil
}

// Logout clears the in-memory session and the stored token
func (s *Session) Logout() error {
	s.api.ClearToken()
	s.setUser(nil)
	return s.keyring.DeleteToken()
}

// Invalidate tears the session down after a mid-session auth failure
func (s *Session) Invalidate() {
	s.api.ClearToken()
	s.setUser(nil)
	_ = s.keyring.DeleteToken()
}

// BackendUp reports whether the startup probe reached the backend
func (s *Session) BackendUp() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.backendUp
}

// User returns the logged-in profile, or nil
func (s *Session) User() *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// LoggedIn reports whether a user is authenticated
func (s *Session) LoggedIn() bool {
	return s.User() != nil
}

func (s *Session) setBackendUp(up bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.backendUp = up
}

func (s *Session) setUser(u *domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = u
}
