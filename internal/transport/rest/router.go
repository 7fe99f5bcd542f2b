package rest

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"riskpulse/internal/service"
	"riskpulse/internal/transport/rest/handler"
	"riskpulse/internal/transport/rest/middleware"
	"riskpulse/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService        *service.AuthService
	FormService        *service.FormService
	ResponseService    *service.ResponseService
	AggregationService *service.AggregationService
	RiskService        *service.RiskService
	ExportService      *service.ExportService
	WSHub              *ws.Hub
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	formHandler := handler.NewFormHandler(c.FormService)
	responseHandler := handler.NewResponseHandler(c.ResponseService, c.AuthService)
	reportHandler := handler.NewReportHandler(c.AggregationService, c.ExportService)
	riskHandler := handler.NewRiskHandler(c.RiskService)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	v1.HandleFunc("/forms", formHandler.List).Methods("GET", "OPTIONS")

	// WebSocket route (public with token in query param)
	v1.HandleFunc("/ws/admin", wsHandler.AdminWS).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Mixed routes: any valid identity, the handler decides visibility
	identityRoutes := v1.NewRoute().Subrouter()
	identityRoutes.Use(authMW.RequireIdentity)

	identityRoutes.HandleFunc("/forms/{formId}", formHandler.Get).Methods("GET", "OPTIONS")
	identityRoutes.HandleFunc("/responses/{responseId}/risk", riskHandler.IndividualRisk).Methods("GET", "OPTIONS")

	// Respondent intake: starting a response mints a token for newcomers
	startRoute := v1.NewRoute().Subrouter()
	startRoute.Use(authMW.OptionalRespondent)
	startRoute.HandleFunc("/forms/{formId}/responses", responseHandler.Start).Methods("POST", "OPTIONS")

	// Respondent routes (require respondent auth)
	respondentRoutes := v1.NewRoute().Subrouter()
	respondentRoutes.Use(authMW.RequireRespondent)

	respondentRoutes.HandleFunc("/responses/{responseId}/answers", responseHandler.SaveAnswer).Methods("PUT", "OPTIONS")
	respondentRoutes.HandleFunc("/responses/{responseId}/submit", responseHandler.Submit).Methods("POST", "OPTIONS")

	// Admin routes (require admin auth)
	adminRoutes := v1.NewRoute().Subrouter()
	adminRoutes.Use(authMW.RequireAdmin)

	adminRoutes.HandleFunc("/forms", formHandler.Create).Methods("POST", "OPTIONS")
	adminRoutes.HandleFunc("/forms/{formId}/status", formHandler.SetStatus).Methods("PUT", "OPTIONS")
	adminRoutes.HandleFunc("/forms/{formId}/report", reportHandler.Aggregate).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/forms/{formId}/report/export", reportHandler.Export).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/forms/{formId}/risk", riskHandler.FormRisk).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/forms/{formId}/risk/chart", riskHandler.Chart).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/forms/{formId}/risk/snapshot", riskHandler.Snapshot).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/analysis/run", riskHandler.RunAnalysis).Methods("POST", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		allowedMethods := os.Getenv("CORS_ALLOWED_METHODS")
		if allowedMethods == "" {
			allowedMethods = "GET, POST, PUT, DELETE, OPTIONS"
		}

		allowedHeaders := os.Getenv("CORS_ALLOWED_HEADERS")
		if allowedHeaders == "" {
			allowedHeaders = "Content-Type, Authorization"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
		w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
