package session

import (
	"context"
	"errors"
	"testing"

	"github.com/andy/invoicedesk/internal/api"
	"github.com/andy/invoicedesk/internal/domain"
)

// mock implementations

type fakeKeyring struct {
	token   string
	deleted bool
}

func (f *fakeKeyring) GetToken() (string, error) {
	if f.token == "" {
		return "", errors.New("not found")
	}
	return f.token, nil
}
func (f *fakeKeyring) SetToken(token string) error {
	f.token = token
	return nil
}
func (f *fakeKeyring) DeleteToken() error {
	f.token = ""
	f.deleted = true
	return nil
}
func (f *fakeKeyring) IsAvailable() bool { return true }

type fakeAPI struct {
	pingErr   error
	verifyErr error
	loginErr  error
	user      *domain.User
	loginTok  string
	setToken  string
	cleared   bool
}

func (f *fakeAPI) Ping(ctx context.Context) error { return f.pingErr }
func (f *fakeAPI) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	if f.loginErr != nil {
		return nil, "", f.loginErr
	}
	return f.user, f.loginTok, nil
}
func (f *fakeAPI) Verify(ctx context.Context, token string) (*domain.User, error) {
	if f.verifyErr != nil {
		return nil, f.verifyErr
	}
	return f.user, nil
}
func (f *fakeAPI) SetToken(token string) { f.setToken = token }
func (f *fakeAPI) ClearToken()           { f.setToken = ""; f.cleared = true }
func (f *fakeAPI) ListInvoices(ctx context.Context) ([]*domain.Invoice, error) {
	return nil, nil
}
func (f *fakeAPI) CreateInvoice(ctx context.Context, inv *domain.Invoice) (*domain.Invoice, error) {
	return inv, nil
}
func (f *fakeAPI) GetInvoice(ctx context.Context, id string) (*domain.Invoice, error) {
	return nil, nil
}
func (f *fakeAPI) UpdateInvoiceStatus(ctx context.Context, id string, status domain.InvoiceStatus) (*domain.Invoice, error) {
	return nil, nil
}
func (f *fakeAPI) DeleteInvoice(ctx context.Context, id string) error { return nil }
func (f *fakeAPI) FetchInvoicePDF(ctx context.Context, id string) ([]byte, error) {
	return nil, nil
}

func TestBootstrap_ResumesStoredSession(t *testing.T) {
	a := &fakeAPI{user: &domain.User{ID: "u1", Email: "me@example.com"}}
	kr := &fakeKeyring{token: "stored-token"}
	s := New(a, kr)

	if err := s.Bootstrap(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !s.BackendUp() {
		t.Error("expected backend to be reported up")
	}
	if !s.LoggedIn() {
		t.Fatal("expected resumed session to be logged in")
	}
	if s.User().Email != "me@example.com" {
		t.Errorf("user = %+v", s.User())
	}
	if a.setToken != "stored-token" {
		t.Errorf("token attached to API = %q, want stored-token", a.setToken)
	}
}

func TestBootstrap_BackendDown(t *testing.T) {
	a := &fakeAPI{pingErr: api.ErrUnreachable}
	s := New(a, &fakeKeyring{token: "stored-token"})

	if err := s.Bootstrap(context.Background()); err == nil {
		t.Fatal("expected error when backend is unreachable")
	}
	if s.BackendUp() {
		t.Error("expected backend to be reported down")
	}
	if s.LoggedIn() {
		t.Error("expected no session when backend is down")
	}
}

func TestBootstrap_ExpiredTokenCleared(t *testing.T) {
	a := &fakeAPI{verifyErr: api.ErrUnauthorized}
	kr := &fakeKeyring{token: "stale-token"}
	s := New(a, kr)

	if err := s.Bootstrap(context.Background()); err != nil {
		t.Fatalf("expired token should not be fatal, got %v", err)
	}

	if !kr.deleted {
		t.Error("expected stale token to be deleted")
	}
	if s.LoggedIn() {
		t.Error("expected unauthenticated session after expired token")
	}
	if !s.BackendUp() {
		t.Error("backend is still up even when the token expired")
	}
}

func TestBootstrap_TransientVerifyFailureKeepsToken(t *testing.T) {
	a := &fakeAPI{verifyErr: errors.New("connection reset")}
	kr := &fakeKeyring{token: "stored-token"}
	s := New(a, kr)

	if err := s.Bootstrap(context.Background()); err == nil {
		t.Fatal("expected the transient failure to surface")
	}

	// Only a 401 invalidates the token; a blip must not force a re-login
	if kr.deleted {
		t.Error("token must survive a transient verification failure")
	}
	if kr.token != "stored-token" {
		t.Errorf("token = %q, want stored-token", kr.token)
	}
	if s.LoggedIn() {
		t.Error("expected unauthenticated session")
	}
}

func TestBootstrap_NoStoredToken(t *testing.T) {
	a := &fakeAPI{}
	s := New(a, &fakeKeyring{})

	if err := s.Bootstrap(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.LoggedIn() {
		t.Error("expected unauthenticated session")
	}
}

func TestLogin_PersistsToken(t *testing.T) {
	a := &fakeAPI{user: &domain.User{ID: "u1"}, loginTok: "fresh-token"}
	kr := &fakeKeyring{}
	s := New(a, kr)

	// Login requires a reachable backend
	if err := s.Login(context.Background(), "me@example.com", "pw"); !errors.Is(err, api.ErrUnreachable) {
		t.Fatalf("expected ErrUnreachable before bootstrap, got %v", err)
	}

	if err := s.Bootstrap(context.Background()); err != nil {
		t.Fatalf("unexpected bootstrap error: %v", err)
	}
	if err := s.Login(context.Background(), "me@example.com", "pw"); err != nil {
		t.Fatalf("unexpected login error: %v", err)
	}

	if kr.token != "fresh-token" {
		t.Errorf("persisted token = %q, want fresh-token", kr.token)
	}
	if a.setToken != "fresh-token" {
		t.Errorf("API token = %q, want fresh-token", a.setToken)
	}
	if !s.LoggedIn() {
		t.Error("expected logged-in session")
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	a := &fakeAPI{loginErr: api.ErrUnauthorized}
	kr := &fakeKeyring{}
	s := New(a, kr)
	_ = s.Bootstrap(context.Background())

	if err := s.Login(context.Background(), "me@example.com", "wrong"); !errors.Is(err, api.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if kr.token != "" {
		t.Error("expected no token persisted on failed login")
	}
	if s.LoggedIn() {
		t.Error("expected unauthenticated session after failed login")
	}
}

func TestLogout(t *testing.T) {
	a := &fakeAPI{user: &domain.User{ID: "u1"}, loginTok: "tok"}
	kr := &fakeKeyring{}
	s := New(a, kr)
	_ = s.Bootstrap(context.Background())
	_ = s.Login(context.Background(), "me@example.com", "pw")

	if err := s.Logout(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if s.LoggedIn() {
		t.Error("expected logged-out session")
	}
	if kr.token != "" {
		t.Error("expected stored token removed")
	}
	if !a.cleared {
		t.Error("expected API token cleared")
	}
}

func TestInvalidate(t *testing.T) {
	a := &fakeAPI{user: &domain.User{ID: "u1"}, loginTok: "tok"}
	kr := &fakeKeyring{}
	s := New(a, kr)
	_ = s.Bootstrap(context.Background())
	_ = s.Login(context.Background(), "me@example.com", "pw")

	s.Invalidate()

	if s.LoggedIn() {
		t.Error("expected session torn down")
	}
	if kr.token != "" {
		t.Error("expected stored token removed")
	}
	// Backend reachability is unrelated to auth state
	if !s.BackendUp() {
		t.Error("expected backend still reported up")
	}
}
