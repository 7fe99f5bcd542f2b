package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"riskpulse/internal/service"
	"riskpulse/internal/transport/rest/middleware"
)

// RiskHandler handles risk analysis endpoints
type RiskHandler struct {
	riskSvc *service.RiskService
}

// NewRiskHandler creates a new risk handler
func NewRiskHandler(riskSvc *service.RiskService) *RiskHandler {
	return &RiskHandler{riskSvc: riskSvc}
}

// FormRisk handles GET /v1/forms/{formId}/risk
func (h *RiskHandler) FormRisk(w http.ResponseWriter, r *http.Request) {
	formID := mux.Vars(r)["formId"]

	result, err := h.riskSvc.AnalyzeForm(r.Context(), formID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Chart handles GET /v1/forms/{formId}/risk/chart
func (h *RiskHandler) Chart(w http.ResponseWriter, r *http.Request) {
	formID := mux.Vars(r)["formId"]

	chart, err := h.riskSvc.ChartData(r.Context(), formID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, chart)
}

// Snapshot handles GET /v1/forms/{formId}/risk/snapshot
func (h *RiskHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	formID := mux.Vars(r)["formId"]

	snapshot, err := h.riskSvc.LatestSnapshot(r.Context(), formID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, snapshot)
}

// IndividualRisk handles GET /v1/responses/{responseId}/risk. Admins can read
// any respondent's profile, respondents only their own.
func (h *RiskHandler) IndividualRisk(w http.ResponseWriter, r *http.Request) {
	responseID := mux.Vars(r)["responseId"]

	adminID := middleware.GetAdminID(r.Context())
	respondentID := middleware.GetRespondentID(r.Context())
	if adminID == "" && respondentID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	risk, err := h.riskSvc.IndividualAnalysis(r.Context(), responseID, respondentID, adminID != "")
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, risk)
}

// RunAnalysis handles POST /v1/analysis/run. Recomputes risk results for
// every published form and reports per-form outcomes.
func (h *RiskHandler) RunAnalysis(w http.ResponseWriter, r *http.Request) {
	outcomes, err := h.riskSvc.PerformRiskAnalysis(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"forms":    len(outcomes),
		"outcomes": outcomes,
	})
}
