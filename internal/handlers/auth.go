package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/leadbase/apiserver/internal/services"
	"github.com/leadbase/apiserver/internal/session"
	"github.com/sirupsen/logrus"
)

// AuthHandler serves registration, login and logout.
type AuthHandler struct {
	auth     *services.AuthService
	sessions *session.Manager
	log      logrus.FieldLogger
}

// NewAuthHandler constructs an AuthHandler with the provided dependencies.
func NewAuthHandler(auth *services.AuthService, sessions *session.Manager, log logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{auth: auth, sessions: sessions, log: log}
}

// AuthRouter registers auth routes on the given router.
func AuthRouter(r chi.Router, auth *services.AuthService, sessions *session.Manager, log logrus.FieldLogger) {
	handler := NewAuthHandler(auth, sessions, log)

	r.Post("/register", handler.Register)
	r.Post("/login", handler.Login)
	r.Get("/logout", handler.Logout)
}

// RegisterResponse is returned when a user is created.
type RegisterResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}

// Register creates a user from {username, password}.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	body, err := readFields(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	user, err := h.auth.Register(r.Context(), body.get("username"), body.get("password"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingPassword):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrHashFailure):
			h.log.WithError(err).Error("failed to hash password")
			writeError(w, http.StatusInternalServerError, "failed to hash password")
		case errors.Is(err, services.ErrDuplicateUsername):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			h.log.WithError(err).Error("failed to create user")
			writeError(w, http.StatusBadRequest, "failed to create user")
		}
		return
	}

	writeJSON(w, http.StatusCreated, RegisterResponse{
		Message: `User created! Basta clicar em "Voltar"`,
		ID:      user.ID,
	})
}

// Login verifies {username, password} and starts an authenticated session.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	body, err := readFields(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	user, err := h.auth.Login(r.Context(), body.get("username"), body.get("password"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			writeError(w, http.StatusBadRequest, "User not found. Please register!")
		case errors.Is(err, services.ErrMissingPassword):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrInvalidCredentials):
			writeMessage(w, http.StatusUnauthorized, "Password is incorrect")
		default:
			h.log.WithError(err).Error("failed to authenticate user")
			writeError(w, http.StatusBadRequest, "failed to authenticate")
		}
		return
	}

	if err := h.sessions.Authenticate(w, r, user.Username); err != nil {
		h.log.WithError(err).Error("failed to start session")
		writeError(w, http.StatusInternalServerError, "failed to start session")
		return
	}

	writeMessage(w, http.StatusOK, "Login successful!")
}

// Logout destroys the session, if any, and redirects to the login page.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Destroy(w, r); err != nil {
		h.log.WithError(err).Warn("failed to destroy session")
	}
	http.Redirect(w, r, "/", http.StatusFound)
}
