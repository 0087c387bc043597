package session

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/leadbase/apiserver/config"
)

// Session is the state attached to one client cookie.
type Session struct {
	ID string
	Data
}

// Manager issues, resolves and destroys cookie-keyed sessions.
type Manager struct {
	store      Store
	secret     []byte
	ttl        time.Duration
	cookieName string
	secure     bool
}

func NewManager(store Store, cfg config.SessionConfig) *Manager {
	return &Manager{
		store:      store,
		secret:     []byte(cfg.Secret),
		ttl:        cfg.TTL,
		cookieName: cfg.CookieName,
		secure:     cfg.Secure,
	}
}

// NewStore builds the session backend selected in cfg.
func NewStore(ctx context.Context, cfg config.Config) (Store, error) {
	switch cfg.Session.Backend {
	case "redis":
		store, err := NewRedisStore(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		return store, nil
	case "", "memory":
		return NewMemoryStore(), nil
	default:
		return nil, errors.New("unsupported session backend " + cfg.Session.Backend)
	}
}

// Load resolves the session of the request. A missing, forged or expired
// cookie yields an empty session and no error.
func (m *Manager) Load(r *http.Request) (Session, error) {
	cookie, err := r.Cookie(m.cookieName)
	if err != nil {
		return Session{}, nil
	}

	id, err := parseID(cookie.Value, m.secret)
	if err != nil {
		return Session{}, nil
	}

	data, err := m.store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Session{}, nil
		}
		return Session{}, err
	}
	return Session{ID: id, Data: data}, nil
}

// Authenticated reports whether the request carries an authenticated session.
// Backend failures count as unauthenticated.
func (m *Manager) Authenticated(r *http.Request) bool {
	s, err := m.Load(r)
	if err != nil {
		return false
	}
	return s.Authenticated
}

// Authenticate starts a fresh authenticated session for username and sets
// its cookie. Any session the request already had is discarded.
func (m *Manager) Authenticate(w http.ResponseWriter, r *http.Request, username string) error {
	ctx := r.Context()
	if old, err := m.Load(r); err == nil && old.ID != "" {
		_ = m.store.Delete(ctx, old.ID)
	}

	id := uuid.NewString()
	if err := m.store.Set(ctx, id, Data{Authenticated: true, Username: username}, m.ttl); err != nil {
		return err
	}

	token, err := signID(id, m.secret, m.ttl)
	if err != nil {
		_ = m.store.Delete(ctx, id)
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		Expires:  time.Now().Add(m.ttl),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Destroy removes the request's session, if any, and clears the cookie.
func (m *Manager) Destroy(w http.ResponseWriter, r *http.Request) error {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})

	s, err := m.Load(r)
	if err != nil {
		return err
	}
	if s.ID == "" {
		return nil
	}
	return m.store.Delete(r.Context(), s.ID)
}

// Close releases the session backend.
func (m *Manager) Close() error {
	return m.store.Close()
}
