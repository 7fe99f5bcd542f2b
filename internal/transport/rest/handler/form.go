package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"riskpulse/internal/model"
	"riskpulse/internal/service"
	"riskpulse/internal/transport/rest/middleware"
)

// FormHandler handles form endpoints
type FormHandler struct {
	formSvc *service.FormService
}

// NewFormHandler creates a new form handler
func NewFormHandler(formSvc *service.FormService) *FormHandler {
	return &FormHandler{formSvc: formSvc}
}

// CreateFormRequest is the request body for creating a form
type CreateFormRequest struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Questions   []model.Question `json:"questions"`
}

// Create handles POST /v1/forms
func (h *FormHandler) Create(w http.ResponseWriter, r *http.Request) {
	adminID := middleware.GetAdminID(r.Context())
	if adminID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req CreateFormRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	form := &model.Form{
		OwnerID:     adminID,
		Title:       req.Title,
		Description: req.Description,
		Status:      model.FormDraft,
		Questions:   req.Questions,
	}

	id, err := h.formSvc.Create(r.Context(), form)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"formId": id})
}

// Get handles GET /v1/forms/{formId}
func (h *FormHandler) Get(w http.ResponseWriter, r *http.Request) {
	formID := mux.Vars(r)["formId"]

	form, err := h.formSvc.GetByID(r.Context(), formID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	// Respondents only ever see published forms
	if middleware.GetAdminID(r.Context()) == "" && form.Status != model.FormPublished {
		writeError(w, http.StatusNotFound, "form not found")
		return
	}

	writeJSON(w, http.StatusOK, form)
}

// List handles GET /v1/forms (published forms)
func (h *FormHandler) List(w http.ResponseWriter, r *http.Request) {
	forms, err := h.formSvc.ListPublished(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"forms": forms})
}

// StatusRequest is the request body for lifecycle changes
type StatusRequest struct {
	Status model.FormStatus `json:"status"`
}

// SetStatus handles PUT /v1/forms/{formId}/status
func (h *FormHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	formID := mux.Vars(r)["formId"]
	adminID := middleware.GetAdminID(r.Context())
	if adminID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req StatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	switch req.Status {
	case model.FormDraft, model.FormPublished, model.FormArchived:
	default:
		writeError(w, http.StatusBadRequest, "unknown status")
		return
	}

	if err := h.formSvc.SetStatus(r.Context(), formID, req.Status); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"formId": formID, "status": string(req.Status)})
}
