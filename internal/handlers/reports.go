package handlers

import (
	"net/http"

	"github.com/leadbase/apiserver/types"
)

// ReportByGender returns the number of leads per gender value.
func (h *LeadHandler) ReportByGender(w http.ResponseWriter, r *http.Request) {
	rows, err := h.leads.CountByGender(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if rows == nil {
		rows = []types.GenderCount{}
	}
	writeJSON(w, http.StatusOK, rows)
}

// ReportByStatus returns the number of leads per status value.
func (h *LeadHandler) ReportByStatus(w http.ResponseWriter, r *http.Request) {
	rows, err := h.leads.CountByStatus(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if rows == nil {
		rows = []types.StatusCount{}
	}
	writeJSON(w, http.StatusOK, rows)
}
