package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/leadbase/apiserver/internal/session"
	"github.com/leadbase/apiserver/internal/storage"
	"github.com/sirupsen/logrus"
)

// LoginPrompt is served instead of a gated page when there is no session.
const LoginPrompt = `Please login to view this page! <a href="/">Login</a>`

// PageHandler serves HTML pages that require an authenticated session.
type PageHandler struct {
	sessions *session.Manager
	pages    *storage.Storage
	log      logrus.FieldLogger
}

func NewPageHandler(sessions *session.Manager, pages *storage.Storage, log logrus.FieldLogger) *PageHandler {
	return &PageHandler{sessions: sessions, pages: pages, log: log}
}

// PageRouter registers the gated pages on the given router.
func PageRouter(r chi.Router, sessions *session.Manager, pages *storage.Storage, log logrus.FieldLogger) {
	handler := NewPageHandler(sessions, pages, log)

	r.Get("/admin", handler.Serve("admin.html"))
	r.Get("/relatorios", handler.Serve("relatorios.html"))
}

// Serve returns a handler for the named page.
func (h *PageHandler) Serve(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")

		if !h.sessions.Authenticated(r) {
			w.WriteHeader(http.StatusOK)
			_, _ = io.WriteString(w, LoginPrompt)
			return
		}

		page, err := h.pages.Page(r.Context(), name)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				http.Error(w, "page not found", http.StatusNotFound)
				return
			}
			h.log.WithError(err).WithField("page", name).Error("failed to load page")
			http.Error(w, "failed to load page", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(page)
	}
}
