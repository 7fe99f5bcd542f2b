package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"riskpulse/internal/model"
	"riskpulse/internal/service"
	"riskpulse/internal/transport/rest/middleware"
)

// ResponseHandler handles respondent intake endpoints
type ResponseHandler struct {
	responseSvc *service.ResponseService
	authSvc     *service.AuthService
}

// NewResponseHandler creates a new response handler
func NewResponseHandler(responseSvc *service.ResponseService, authSvc *service.AuthService) *ResponseHandler {
	return &ResponseHandler{
		responseSvc: responseSvc,
		authSvc:     authSvc,
	}
}

// Start handles POST /v1/forms/{formId}/responses. A fresh respondent gets
// an identity and a scoped token; a returning respondent presents their
// token and resumes their response.
func (h *ResponseHandler) Start(w http.ResponseWriter, r *http.Request) {
	formID := mux.Vars(r)["formId"]

	respondentID := middleware.GetRespondentID(r.Context())
	issueToken := false
	if respondentID == "" {
		respondentID = service.NewRespondentID()
		issueToken = true
	}

	response, err := h.responseSvc.Start(r.Context(), formID, respondentID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	body := map[string]interface{}{
		"response": response,
	}
	if issueToken {
		token, err := h.authSvc.GenerateRespondentToken(respondentID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		body["token"] = token
	}

	writeJSON(w, http.StatusCreated, body)
}

// AnswerRequest is the request body for saving an answer
type AnswerRequest struct {
	QuestionID string           `json:"questionId"`
	Data       model.AnswerData `json:"data"`
}

// SaveAnswer handles PUT /v1/responses/{responseId}/answers
func (h *ResponseHandler) SaveAnswer(w http.ResponseWriter, r *http.Request) {
	responseID := mux.Vars(r)["responseId"]
	respondentID := middleware.GetRespondentID(r.Context())
	if respondentID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.responseSvc.SaveAnswer(r.Context(), responseID, respondentID, req.QuestionID, req.Data); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

// Submit handles POST /v1/responses/{responseId}/submit
func (h *ResponseHandler) Submit(w http.ResponseWriter, r *http.Request) {
	responseID := mux.Vars(r)["responseId"]
	respondentID := middleware.GetRespondentID(r.Context())
	if respondentID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	response, err := h.responseSvc.Submit(r.Context(), responseID, respondentID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, response)
}
