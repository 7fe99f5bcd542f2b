package handler

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"riskpulse/internal/service"
)

// ReportHandler handles aggregate report and export endpoints
type ReportHandler struct {
	aggregationSvc *service.AggregationService
	exportSvc      *service.ExportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(aggregationSvc *service.AggregationService, exportSvc *service.ExportService) *ReportHandler {
	return &ReportHandler{
		aggregationSvc: aggregationSvc,
		exportSvc:      exportSvc,
	}
}

// Aggregate handles GET /v1/forms/{formId}/report
func (h *ReportHandler) Aggregate(w http.ResponseWriter, r *http.Request) {
	formID := mux.Vars(r)["formId"]

	report, err := h.aggregationSvc.Aggregate(r.Context(), formID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// Export handles GET /v1/forms/{formId}/report/export
func (h *ReportHandler) Export(w http.ResponseWriter, r *http.Request) {
	formID := mux.Vars(r)["formId"]

	export, err := h.exportSvc.ExportCSV(r.Context(), formID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", export.MIMEType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename))
	w.WriteHeader(http.StatusOK)
	w.Write(export.Content)
}
