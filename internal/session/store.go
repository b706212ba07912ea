// ABOUTME: Session store, the source of truth for who is logged in
// ABOUTME: Derives the authenticated user exclusively from the decoded bearer token

package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/crmdesk/cli/internal/api"
)

// User is the identity decoded from token claims. It is owned by the
// Store and replaced wholesale, never mutated in place.
type User struct {
	ID        int64
	Email     string
	FirstName string
	LastName  string
	Roles     map[string]struct{}
}

// HasRole is the single capability check used to gate role-sensitive
// actions everywhere
func (u *User) HasRole(role string) bool {
	if u == nil {
		return false
	}
	_, ok := u.Roles[role]
	return ok
}

// FullName returns the display name from the decoded claims
func (u *User) FullName() string {
	if u == nil {
		return ""
	}
	return u.FirstName + " " + u.LastName
}

// authClient is the slice of the API client login needs
type authClient interface {
	Login(ctx context.Context, email, password string) (*api.LoginResponse, error)
}

// Store holds the decoded identity and token. user != nil iff the token
// is present and unexpired; both are replaced together on login and
// cleared together on logout or detected expiry.
type Store struct {
	mu      sync.Mutex
	tokens  *TokenFile
	auth    authClient
	user    *User
	claims  *Claims
	token   string
	loading bool

	now func() time.Time // stubbed in tests
}

// New creates a Store over the persisted token file. The store is in
// the loading state until Bootstrap runs; consumers must not treat it
// as authenticated before then.
func New(tokens *TokenFile, auth authClient) *Store {
	return &Store{
		tokens:  tokens,
		auth:    auth,
		loading: true,
		now:     time.Now,
	}
}

// Bootstrap restores the session from the persisted token, once at
// startup. A missing, undecodable, or expired token leaves the store
// unauthenticated and removes the stored token. Never fails: any decode
// error means "no valid session".
func (s *Store) Bootstrap() {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { s.loading = false }()

	token := s.tokens.Token()
	if token == "" {
		return
	}

	claims, err := decodeToken(token)
	if err != nil {
		slog.Debug("Discarding stored token", "error", err)
		s.tokens.Clear()
		return
	}
	if claims.expired(s.now()) {
		slog.Debug("Discarding expired token", "expired_at", claims.ExpiresAt)
		s.tokens.Clear()
		return
	}

	s.token = token
	s.claims = claims
	s.user = userFromClaims(claims)
}

// Login exchanges credentials for a token, persists it, and decodes it
// into the authenticated user. On failure nothing is persisted, prior
// state is untouched, and the backend's message comes back to the
// caller for display.
func (s *Store) Login(ctx context.Context, email, password string) error {
	resp, err := s.auth.Login(ctx, email, password)
	if err != nil {
		return err
	}

	claims, err := decodeToken(resp.Token)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.tokens.Save(resp.Token); err != nil {
		return err
	}
	s.token = resp.Token
	s.claims = claims
	s.user = userFromClaims(claims)
	s.loading = false
	slog.Info("Logged in", "email", s.user.Email)
	return nil
}

// Logout clears the persisted token and the in-memory identity.
// Idempotent: safe to call when already logged out.
func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens.Clear()
	s.token = ""
	s.claims = nil
	s.user = nil
}

// IsAuthenticated reports whether a decoded, unexpired identity is
// present. It re-reads the persisted token so a 401 interceptor clearing
// the token elsewhere is observed on the next read, and re-checks expiry
// so a token that ran out mid-session stops reading as authenticated.
func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loading || s.user == nil {
		return false
	}
	if s.tokens.Token() == "" {
		// Token was cleared behind our back, drop the stale identity.
		s.token = ""
		s.claims = nil
		s.user = nil
		return false
	}
	if s.claims == nil || s.claims.expired(s.now()) {
		slog.Debug("Session token expired")
		s.tokens.Clear()
		s.token = ""
		s.claims = nil
		s.user = nil
		return false
	}
	return true
}

// IsLoading reports whether Bootstrap has not yet completed. The UI
// must not render role-gated or data-fetching content while true.
func (s *Store) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// User returns the current identity, or nil when unauthenticated
func (s *Store) User() *User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// HasRole reports whether the authenticated user carries the role.
// Always false while unauthenticated.
func (s *Store) HasRole(role string) bool {
	if !s.IsAuthenticated() {
		return false
	}
	return s.User().HasRole(role)
}

func userFromClaims(claims *Claims) *User {
	roles := make(map[string]struct{}, len(claims.Roles))
	for _, r := range claims.Roles {
		roles[r] = struct{}{}
	}
	return &User{
		ID:        claims.UserID,
		Email:     claims.Subject,
		FirstName: claims.FirstName,
		LastName:  claims.LastName,
		Roles:     roles,
	}
}
