package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/leadbase/apiserver/internal/services"
	"github.com/leadbase/apiserver/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// LeadHandler serves lead intake, CRUD and report endpoints.
type LeadHandler struct {
	leads          *services.LeadService
	log            logrus.FieldLogger
	intakeFailures prometheus.Counter
}

// NewLeadHandler constructs a LeadHandler. intakeFailures may be nil.
func NewLeadHandler(leads *services.LeadService, log logrus.FieldLogger, intakeFailures prometheus.Counter) *LeadHandler {
	return &LeadHandler{leads: leads, log: log, intakeFailures: intakeFailures}
}

// LeadRouter registers lead and report routes on the given router.
func LeadRouter(r chi.Router, leads *services.LeadService, log logrus.FieldLogger, intakeFailures prometheus.Counter) {
	handler := NewLeadHandler(leads, log, intakeFailures)

	r.Post("/dados", handler.Intake)
	r.Get("/leads", handler.List)
	r.Put("/leads/{leadID}", handler.Update)
	r.Delete("/leads/{leadID}", handler.Delete)
	r.Get("/reportByGender", handler.ReportByGender)
	r.Get("/reportByStatus", handler.ReportByStatus)
}

// Intake stores a lead from the public form and always redirects to the
// confirmation page. Failures are only logged.
func (h *LeadHandler) Intake(w http.ResponseWriter, r *http.Request) {
	defer http.Redirect(w, r, "/return.html", http.StatusFound)

	body, err := readFields(r)
	if err != nil {
		h.intakeFailed(err, "failed to read lead")
		return
	}

	// situacao is deliberately not read; the service sets it.
	input := types.LeadInput{
		Name:   body.get("name"),
		Email:  body.get("email"),
		Phone:  body.get("celular"),
		Gender: body.get("genero"),
	}
	if _, err := h.leads.Create(r.Context(), input); err != nil {
		h.intakeFailed(err, "failed to store lead")
	}
}

func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	leads, err := h.leads.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if leads == nil {
		leads = []types.Lead{}
	}
	writeJSON(w, http.StatusOK, leads)
}

// Update overwrites all five lead fields. A missing field is stored as NULL.
func (h *LeadHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseLeadID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid lead id")
		return
	}

	body, err := readFields(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	changes, err := h.leads.Update(r.Context(), id, types.LeadInput{
		Name:   body.get("name"),
		Email:  body.get("email"),
		Phone:  body.get("celular"),
		Gender: body.get("genero"),
		Status: body.get("situacao"),
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, ChangesResponse{Message: "Lead updated", Changes: changes})
}

func (h *LeadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseLeadID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid lead id")
		return
	}

	changes, err := h.leads.Delete(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, ChangesResponse{Message: "Lead deleted", Changes: changes})
}

func (h *LeadHandler) intakeFailed(err error, msg string) {
	if h.intakeFailures != nil {
		h.intakeFailures.Inc()
	}
	h.log.WithError(err).Error(msg)
}
