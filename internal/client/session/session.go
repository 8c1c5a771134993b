// Package session owns the client-held authentication session: the persisted
// access token, the identity decoded from it, and the derived authentication
// state consumed by the route gate and every backend-facing component.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/securevault/vaultctl/internal/common"
	"github.com/securevault/vaultctl/internal/logging"
)

// Role of the authenticated user, as embedded in the token claims.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// View names the landing views the session redirects to.
type View string

const (
	ViewLogin     View = "login"
	ViewDashboard View = "dashboard"
	ViewAdmin     View = "admin"
)

// Identity is the decoded user identity. It is present iff a valid token is
// held.
type Identity struct {
	UserID       int64
	SubjectEmail string
	DisplayName  string
	Role         Role
}

// State is an immutable snapshot of the session. Loading is true only while
// the initial restore from persisted storage runs; it then stays false for
// the lifetime of the process.
type State struct {
	Loading  bool
	Token    string
	Identity *Identity
}

// IsAuthenticated reports whether an identity is present.
func (s State) IsAuthenticated() bool {
	return s.Identity != nil
}

// Manager mediates the session lifecycle. It is the single source of truth;
// other components observe it through Snapshot and Subscribe rather than
// through ambient globals.
type Manager struct {
	store  TokenStore
	logger logging.Logger

	mu    sync.Mutex
	state State
	subs  []chan State

	restored sync.Once
}

func NewManager(store TokenStore, logger logging.Logger) *Manager {
	return &Manager{
		store:  store,
		logger: logger,
		state:  State{Loading: true},
	}
}

// tokenClaims mirrors the backend's JWT payload.
type tokenClaims struct {
	jwt.RegisteredClaims
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}

// decodeToken parses the token without signature verification — the client
// holds no signing key and trusts the server that issued it. The expiry
// claim is returned for the caller to check where the lifecycle requires it.
func decodeToken(token string) (*Identity, *jwt.NumericDate, error) {
	claims := &tokenClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", common.ErrInvalidToken, err)
	}
	role := Role(claims.Role)
	if role != RoleAdmin {
		role = RoleUser
	}
	identity := &Identity{
		UserID:       claims.UserID,
		SubjectEmail: claims.Subject,
		DisplayName:  claims.Name,
		Role:         role,
	}
	return identity, claims.ExpiresAt, nil
}

// Restore reads the persisted token, if any, and establishes the session
// from it. A malformed or expired token is discarded and logged, never
// surfaced: login is simply required. Loading is set to false exactly once,
// whatever path this takes, and no gated view may render before that.
func (m *Manager) Restore(ctx context.Context) {
	defer m.finishLoading()

	token, err := m.store.Load()
	if err != nil {
		m.logger.Warn(ctx, "could not read persisted token", "error", err)
		return
	}
	if token == "" {
		return
	}

	identity, expiresAt, err := decodeToken(token)
	if err != nil {
		m.logger.Info(ctx, "discarding invalid persisted token", "error", err)
		_ = m.store.Clear()
		return
	}
	if expiresAt != nil && !time.Now().Before(expiresAt.Time) {
		m.logger.Info(ctx, "discarding expired persisted token", "expired_at", expiresAt.Time)
		_ = m.store.Clear()
		return
	}

	m.mu.Lock()
	m.state.Token = token
	m.state.Identity = identity
	m.mu.Unlock()
	m.logger.Debug(ctx, "session restored", "email", identity.SubjectEmail, "role", identity.Role)
}

func (m *Manager) finishLoading() {
	m.restored.Do(func() {
		m.mu.Lock()
		m.state.Loading = false
		m.mu.Unlock()
		m.notify()
	})
}

// Login persists the token and decodes it into a fresh identity without
// expiry checking; the server is trusted to issue only valid tokens. It
// returns the landing view for the decoded role.
func (m *Manager) Login(ctx context.Context, token string) (View, error) {
	identity, _, err := decodeToken(token)
	if err != nil {
		return ViewLogin, err
	}
	if err := m.store.Save(token); err != nil {
		return ViewLogin, fmt.Errorf("persisting token: %w", err)
	}

	m.mu.Lock()
	m.state.Token = token
	m.state.Identity = identity
	m.mu.Unlock()
	m.notify()

	m.logger.Info(ctx, "logged in", "email", identity.SubjectEmail, "role", identity.Role)
	if identity.Role == RoleAdmin {
		return ViewAdmin, nil
	}
	return ViewDashboard, nil
}

// Logout clears the persisted token and the in-memory identity. Any
// component that observes an authorization failure may invoke it, not only
// an explicit user action.
func (m *Manager) Logout(ctx context.Context) {
	if err := m.store.Clear(); err != nil {
		m.logger.Warn(ctx, "could not clear persisted token", "error", err)
	}

	m.mu.Lock()
	wasAuthenticated := m.state.Identity != nil
	m.state.Token = ""
	m.state.Identity = nil
	m.mu.Unlock()
	m.notify()

	if wasAuthenticated {
		m.logger.Info(ctx, "logged out")
	}
}

// Token returns the current bearer token, or "" when unauthenticated. Used
// as the API client's token source.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Token
}

// IsAuthenticated reports whether an identity is currently present.
func (m *Manager) IsAuthenticated() bool {
	return m.Snapshot().IsAuthenticated()
}

// Snapshot returns the current session state.
func (m *Manager) Snapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Subscribe returns a channel that receives a state snapshot after every
// change. Slow subscribers miss intermediate states rather than block the
// session.
func (m *Manager) Subscribe() <-chan State {
	ch := make(chan State, 1)
	m.mu.Lock()
	m.subs = append(m.subs, ch)
	m.mu.Unlock()
	return ch
}

func (m *Manager) notify() {
	m.mu.Lock()
	state := m.state
	subs := make([]chan State, len(m.subs))
	copy(subs, m.subs)
	m.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- state:
		default:
		}
	}
}
