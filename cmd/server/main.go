package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"riskpulse/config"
	"riskpulse/internal/cache"
	"riskpulse/internal/repository"
	"riskpulse/internal/service"
	"riskpulse/internal/transport/rest"
	"riskpulse/internal/transport/ws"
)

// @title RiskPulse Survey API
// @version 1.0
// @description Survey platform with risk-profiling analytics
// @host localhost:8080
// @BasePath /v1
func main() {
	log.Println("started")
	ctx := context.Background()

	cfg := config.Load()

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer mongoClient.Disconnect(ctx)

	// Ping MongoDB
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB:", err)
	}
	log.Println("Connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDatabase)

	// Redis connection
	redisAddr := strings.TrimPrefix(cfg.RedisAddr, "redis://")

	rdb := redis.NewClient(&redis.Options{
		Addr: redisAddr,
	})
	defer rdb.Close()

	// Ping Redis
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatal("Failed to ping Redis:", err)
	}
	log.Println("Connected to Redis")

	// Initialize WebSocket hub
	wsHub := ws.NewHub()
	log.Println("WebSocket hub started")

	// Initialize repositories
	formRepo := repository.NewFormRepo(db)
	responseRepo := repository.NewResponseRepo(db)
	analysisRepo := repository.NewAnalysisRepo(db)

	// Initialize caches
	reportCache := cache.NewReportCache(rdb)

	// Initialize services
	authSvc := service.NewAuthService(cfg.AdminUsername, cfg.AdminPassword, cfg.JWTSecret)
	formSvc := service.NewFormService(formRepo, reportCache)
	responseSvc := service.NewResponseService(formRepo, responseRepo)
	aggregationSvc := service.NewAggregationService(formRepo, responseRepo, reportCache)
	exportSvc := service.NewExportService(formRepo, responseRepo)
	riskSvc := service.NewRiskService(formRepo, responseRepo, analysisRepo, reportCache)

	// Inject broadcaster (wsHub implements service.Broadcaster)
	riskSvc.SetBroadcaster(wsHub)
	riskSvc.SetBatchWorkers(cfg.BatchWorkers)

	// Create router with container
	container := &rest.Container{
		AuthService:        authSvc,
		FormService:        formSvc,
		ResponseService:    responseSvc,
		AggregationService: aggregationSvc,
		RiskService:        riskSvc,
		ExportService:      exportSvc,
		WSHub:              wsHub,
	}

	router := rest.NewRouter(container)

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.HTTPPort)
		log.Printf("Admin auth: username=%s", cfg.AdminUsername)
		log.Println("Endpoints:")
		log.Println("  POST /v1/auth/login")
		log.Println("  POST/GET /v1/forms")
		log.Println("  POST /v1/forms/{formId}/responses")
		log.Println("  PUT  /v1/responses/{responseId}/answers")
		log.Println("  POST /v1/responses/{responseId}/submit")
		log.Println("  GET  /v1/forms/{formId}/report")
		log.Println("  GET  /v1/forms/{formId}/risk")
		log.Println("  POST /v1/analysis/run")
		log.Println("  WS   /v1/ws/admin")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
