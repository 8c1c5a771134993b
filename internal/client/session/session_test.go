package session

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/securevault/vaultctl/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func makeToken(t *testing.T, role string, expiresAt time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": 7,
		"sub":     "alice@example.com",
		"name":    "Alice",
		"role":    role,
		"exp":     expiresAt.Unix(),
	})
	// The client decodes without verifying, so any signing key works here.
	signed, err := token.SignedString([]byte("test-key"))
	require.NoError(t, err)
	return signed
}

func newTestManager(t *testing.T) (*Manager, *FileTokenStore) {
	t.Helper()
	store := NewFileTokenStore(filepath.Join(t.TempDir(), "token"))
	return NewManager(store, testLogger()), store
}

func TestRestore_NoPersistedToken(t *testing.T) {
	m, _ := newTestManager(t)

	require.True(t, m.Snapshot().Loading)
	m.Restore(context.Background())

	state := m.Snapshot()
	assert.False(t, state.Loading)
	assert.False(t, state.IsAuthenticated())
}

func TestRestore_FutureExpiry_SetsIdentityFromClaims(t *testing.T) {
	m, store := newTestManager(t)
	require.NoError(t, store.Save(makeToken(t, "user", time.Now().Add(time.Hour))))

	m.Restore(context.Background())

	state := m.Snapshot()
	require.True(t, state.IsAuthenticated())
	assert.False(t, state.Loading)
	assert.Equal(t, int64(7), state.Identity.UserID)
	assert.Equal(t, "alice@example.com", state.Identity.SubjectEmail)
	assert.Equal(t, "Alice", state.Identity.DisplayName)
	assert.Equal(t, RoleUser, state.Identity.Role)
}

func TestRestore_ExpiredToken_DiscardedSilently(t *testing.T) {
	m, store := newTestManager(t)
	require.NoError(t, store.Save(makeToken(t, "user", time.Now().Add(-time.Minute))))

	m.Restore(context.Background())

	state := m.Snapshot()
	assert.False(t, state.Loading)
	assert.False(t, state.IsAuthenticated())

	// The stale token must be gone from disk as well.
	persisted, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, persisted)
}

func TestRestore_MalformedToken_DiscardedSilently(t *testing.T) {
	m, store := newTestManager(t)
	require.NoError(t, store.Save("not-a-jwt"))

	m.Restore(context.Background())

	state := m.Snapshot()
	assert.False(t, state.Loading)
	assert.False(t, state.IsAuthenticated())

	persisted, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, persisted)
}

func TestLogin_AdminRole_RedirectsToAdminView(t *testing.T) {
	m, store := newTestManager(t)

	view, err := m.Login(context.Background(), makeToken(t, "admin", time.Now().Add(time.Hour)))
	require.NoError(t, err)
	assert.Equal(t, ViewAdmin, view)
	assert.Equal(t, RoleAdmin, m.Snapshot().Identity.Role)

	persisted, err := store.Load()
	require.NoError(t, err)
	assert.NotEmpty(t, persisted)
}

func TestLogin_UserRole_RedirectsToDashboard(t *testing.T) {
	m, _ := newTestManager(t)

	view, err := m.Login(context.Background(), makeToken(t, "user", time.Now().Add(time.Hour)))
	require.NoError(t, err)
	assert.Equal(t, ViewDashboard, view)
}

func TestLogin_OverwritesPreviousSession(t *testing.T) {
	m, _ := newTestManager(t)

	_, err := m.Login(context.Background(), makeToken(t, "user", time.Now().Add(time.Hour)))
	require.NoError(t, err)

	adminToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": 1, "sub": "root@example.com", "name": "Root", "role": "admin",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := adminToken.SignedString([]byte("k"))
	require.NoError(t, err)

	view, err := m.Login(context.Background(), signed)
	require.NoError(t, err)
	assert.Equal(t, ViewAdmin, view)
	assert.Equal(t, "root@example.com", m.Snapshot().Identity.SubjectEmail)
}

func TestLogout_ClearsTokenAndIdentity(t *testing.T) {
	m, store := newTestManager(t)
	_, err := m.Login(context.Background(), makeToken(t, "user", time.Now().Add(time.Hour)))
	require.NoError(t, err)

	m.Logout(context.Background())

	state := m.Snapshot()
	assert.False(t, state.IsAuthenticated())
	assert.Empty(t, m.Token())

	persisted, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, persisted)
}

func TestSubscribe_ReceivesStateChanges(t *testing.T) {
	m, _ := newTestManager(t)
	ch := m.Subscribe()

	_, err := m.Login(context.Background(), makeToken(t, "user", time.Now().Add(time.Hour)))
	require.NoError(t, err)

	select {
	case state := <-ch:
		assert.True(t, state.IsAuthenticated())
	case <-time.After(time.Second):
		t.Fatal("expected a state notification")
	}
}

func TestFileTokenStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token")
	store := NewFileTokenStore(path)

	require.NoError(t, store.Save("tok"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok", got)

	require.NoError(t, store.Clear())
	got, err = store.Load()
	require.NoError(t, err)
	assert.Empty(t, got)

	// Clearing an already-absent token is not an error.
	require.NoError(t, store.Clear())
}
