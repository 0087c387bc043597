package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/leadbase/apiserver/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() config.SessionConfig {
	return config.SessionConfig{
		Secret:     "test-secret",
		TTL:        time.Hour,
		CookieName: "test.sid",
		Backend:    "memory",
	}
}

// login runs Authenticate and returns the cookie it issued.
func login(t *testing.T, m *Manager, username string) *http.Cookie {
	t.Helper()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	require.NoError(t, m.Authenticate(rec, req, username))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	return cookies[0]
}

func requestWith(cookie *http.Cookie) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	return req
}

func TestManager_AuthenticateAndLoad(t *testing.T) {
	m := NewManager(NewMemoryStore(), testConfig())

	cookie := login(t, m, "alice")
	assert.Equal(t, "test.sid", cookie.Name)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, "/", cookie.Path)

	s, err := m.Load(requestWith(cookie))
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID)
	assert.True(t, s.Authenticated)
	assert.Equal(t, "alice", s.Username)
	assert.True(t, m.Authenticated(requestWith(cookie)))
}

func TestManager_NoCookie(t *testing.T) {
	m := NewManager(NewMemoryStore(), testConfig())

	s, err := m.Load(requestWith(nil))
	require.NoError(t, err)
	assert.Empty(t, s.ID)
	assert.False(t, m.Authenticated(requestWith(nil)))
}

func TestManager_ForgedCookie(t *testing.T) {
	m := NewManager(NewMemoryStore(), testConfig())
	other := NewManager(NewMemoryStore(), config.SessionConfig{
		Secret: "other-secret", TTL: time.Hour, CookieName: "test.sid",
	})

	cookie := login(t, other, "mallory")
	assert.False(t, m.Authenticated(requestWith(cookie)))

	garbage := &http.Cookie{Name: "test.sid", Value: "not-a-token"}
	assert.False(t, m.Authenticated(requestWith(garbage)))
}

func TestManager_Destroy(t *testing.T) {
	store := NewMemoryStore()
	m := NewManager(store, testConfig())

	cookie := login(t, m, "alice")
	require.Equal(t, 1, store.Len())

	rec := httptest.NewRecorder()
	require.NoError(t, m.Destroy(rec, requestWith(cookie)))

	assert.Equal(t, 0, store.Len())
	assert.False(t, m.Authenticated(requestWith(cookie)))

	cleared := rec.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Equal(t, "test.sid", cleared[0].Name)
	assert.Negative(t, cleared[0].MaxAge)
}

func TestManager_DestroyWithoutSession(t *testing.T) {
	m := NewManager(NewMemoryStore(), testConfig())

	rec := httptest.NewRecorder()
	assert.NoError(t, m.Destroy(rec, requestWith(nil)))
}

func TestManager_AuthenticateRotatesSession(t *testing.T) {
	store := NewMemoryStore()
	m := NewManager(store, testConfig())

	first := login(t, m, "alice")

	rec := httptest.NewRecorder()
	require.NoError(t, m.Authenticate(rec, requestWith(first), "alice"))
	second := rec.Result().Cookies()[0]

	assert.NotEqual(t, first.Value, second.Value)
	assert.Equal(t, 1, store.Len())
	assert.False(t, m.Authenticated(requestWith(first)))
	assert.True(t, m.Authenticated(requestWith(second)))
}

func TestManager_ExpiredSession(t *testing.T) {
	store := NewMemoryStore()
	now := time.Now()
	store.now = func() time.Time { return now }
	m := NewManager(store, testConfig())

	cookie := login(t, m, "alice")
	require.True(t, m.Authenticated(requestWith(cookie)))

	now = now.Add(2 * time.Hour)
	assert.False(t, m.Authenticated(requestWith(cookie)))
}

func TestNewStore(t *testing.T) {
	cfg := config.LoadConfig()
	cfg.Session.Backend = "memory"

	store, err := NewStore(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, store)

	cfg.Session.Backend = "file"
	_, err = NewStore(context.Background(), cfg)
	assert.Error(t, err)
}
