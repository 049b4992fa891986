package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"tripdesk.io/internal/agency"
	"tripdesk.io/internal/obs"
)

var (
	ErrNoSession    = errors.New("session: not authenticated")
	ErrInvalidInput = errors.New("session: invalid input")
)

// PermissionFetcher resolves the permission set for a role. The gateway
// implements it; tests substitute stubs.
type PermissionFetcher interface {
	RolePermissions(ctx context.Context, role string) (agency.PermissionSet, error)
}

// Store owns the authenticated identity, the bearer token and the resolved
// permission set. It is the only cross-page shared mutable state; everything
// else treats it as read-only.
type Store struct {
	mu      sync.RWMutex
	storage Storage
	perms   PermissionFetcher
	now     func() time.Time

	token         string
	identity      *agency.Agent
	permissionSet agency.PermissionSet
	loading       bool

	onInvalidate func()
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source, used by restore-expiry tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// OnInvalidate registers the callback fired when the backend rejects the
// token. The embedding program uses it to restart its UI loop, so no stale
// authenticated state survives.
func OnInvalidate(fn func()) Option {
	return func(s *Store) { s.onInvalidate = fn }
}

// New creates a Store over the given durable storage. perms may be nil;
// permission checks then deny everything except the super_admin bypass.
func New(storage Storage, perms PermissionFetcher, opts ...Option) *Store {
	s := &Store{storage: storage, perms: perms, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Restore reads the persisted token and identity at startup. A missing or
// corrupted pair clears storage and leaves the store unauthenticated; a
// decodable-but-expired JWT is treated the same way. Restore never fails the
// program: the worst outcome is starting logged out.
func (s *Store) Restore(ctx context.Context) {
	s.setLoading(true)
	defer s.setLoading(false)

	token, tokenOK := s.storage.Get(StorageKeyToken)
	rawAgent, agentOK := s.storage.Get(StorageKeyAgent)
	if !tokenOK || !agentOK || token == "" {
		s.clearStorage()
		return
	}

	var identity agency.Agent
	if err := json.Unmarshal([]byte(rawAgent), &identity); err != nil {
		obs.LogEvent(map[string]any{"level": "warn", "msg": "session restore: corrupted agent profile", "error": err.Error()})
		s.clearStorage()
		return
	}
	if TokenExpired(token, s.now()) {
		obs.LogEvent(map[string]any{"level": "info", "msg": "session restore: token expired"})
		s.clearStorage()
		return
	}

	s.mu.Lock()
	s.token = token
	s.identity = &identity
	s.mu.Unlock()

	s.fetchPermissions(ctx, identity.Role)
}

// Login adopts a freshly issued session and persists it. A permission-fetch
// failure is logged but does not fail the login.
func (s *Store) Login(ctx context.Context, token string, identity agency.Agent) error {
	if token == "" {
		return fmt.Errorf("%w: token is required", ErrInvalidInput)
	}

	s.mu.Lock()
	s.token = token
	s.identity = &identity
	s.permissionSet = nil
	s.mu.Unlock()

	if err := s.persist(token, identity); err != nil {
		return err
	}
	s.fetchPermissions(ctx, identity.Role)
	return nil
}

// Logout clears the in-memory session and durable storage unconditionally.
func (s *Store) Logout() {
	s.mu.Lock()
	s.token = ""
	s.identity = nil
	s.permissionSet = nil
	s.mu.Unlock()
	s.clearStorage()
}

// UpdateIdentity replaces the cached identity, e.g. after an
// approval-status change, and re-persists it. Permissions are not refetched.
func (s *Store) UpdateIdentity(identity agency.Agent) error {
	s.mu.Lock()
	token := s.token
	s.identity = &identity
	s.mu.Unlock()
	if token == "" {
		return ErrNoSession
	}
	return s.persist(token, identity)
}

// ApprovalSource reports the backend's current approval state for the
// logged-in identity. The gateway's ApprovalStatus method satisfies it.
type ApprovalSource interface {
	ApprovalStatus(ctx context.Context) (string, error)
}

// RefreshApproval re-probes the approval state while the identity waits on
// the pending-approval view. An approved answer activates the cached
// identity and re-persists it.
func (s *Store) RefreshApproval(ctx context.Context, src ApprovalSource) (string, error) {
	s.mu.RLock()
	identity := s.identity
	s.mu.RUnlock()
	if identity == nil {
		return "", ErrNoSession
	}

	status, err := src.ApprovalStatus(ctx)
	if err != nil {
		return "", err
	}
	updated := *identity
	updated.ApprovalStatus = status
	if status == agency.ApprovalApproved {
		updated.IsActive = true
	}
	if err := s.UpdateIdentity(updated); err != nil {
		return status, err
	}
	return status, nil
}

// Invalidate is the 401 path: equivalent to Logout plus the registered
// invalidation callback. Wired as the gateway's unauthorized hook.
func (s *Store) Invalidate() {
	s.Logout()
	if s.onInvalidate != nil {
		s.onInvalidate()
	}
}

// Token returns the bearer token, empty when unauthenticated. Its signature
// matches the gateway's token source.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Identity returns the cached agent profile.
func (s *Store) Identity() (agency.Agent, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return agency.Agent{}, false
	}
	return *s.identity, true
}

// Authenticated reports whether a token is present.
func (s *Store) Authenticated() bool {
	return s.Token() != ""
}

// Authorized reports whether the identity may use the main application:
// authenticated and activated by an administrator. Inactive identities are
// routed to the pending-approval view.
func (s *Store) Authorized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != "" && s.identity != nil && s.identity.IsActive
}

// Loading reports whether Restore is still running.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// CheckPermission answers "may the current identity perform capability
// key". No identity denies, the super_admin role is a hard-coded bypass,
// and an unloaded set or unknown key denies. Pure over store state; safe to
// call on every render.
func (s *Store) CheckPermission(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return false
	}
	if s.identity.Role == agency.RoleSuperAdmin {
		return true
	}
	return s.permissionSet.Allows(key)
}

// Permissions returns a copy of the loaded set, for the permission admin
// screen.
func (s *Store) Permissions() agency.PermissionSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(agency.PermissionSet, len(s.permissionSet))
	for k, v := range s.permissionSet {
		out[k] = v
	}
	return out
}

func (s *Store) fetchPermissions(ctx context.Context, role string) {
	if s.perms == nil || role == "" {
		return
	}
	set, err := s.perms.RolePermissions(ctx, role)
	if err != nil {
		obs.LogEvent(map[string]any{"level": "warn", "msg": "permission fetch failed", "role": role, "error": err.Error()})
		return
	}
	s.mu.Lock()
	s.permissionSet = set
	s.mu.Unlock()
}

func (s *Store) persist(token string, identity agency.Agent) error {
	raw, err := json.Marshal(identity)
	if err != nil {
		return err
	}
	if err := s.storage.Set(StorageKeyToken, token); err != nil {
		return err
	}
	return s.storage.Set(StorageKeyAgent, string(raw))
}

func (s *Store) clearStorage() {
	_ = s.storage.Delete(StorageKeyToken)
	_ = s.storage.Delete(StorageKeyAgent)
}

func (s *Store) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}
