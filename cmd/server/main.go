package main

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ranklens/ranklens/internal"
	"github.com/ranklens/ranklens/internal/analyzer"
	"github.com/ranklens/ranklens/internal/handler"
	"github.com/ranklens/ranklens/internal/metrics"
	"github.com/ranklens/ranklens/internal/middleware"
	"github.com/ranklens/ranklens/internal/repository"
	"github.com/ranklens/ranklens/internal/service"
)

func run() error {
	ctx := context.Background()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Initialize database connection
	db, err := sql.Open("pgx", cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	// Run migrations
	if err := internal.RunMigrations(ctx, db); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logger.Info("Database ready")

	// Initialize repository
	repo := repository.New(db)

	// Initialize services
	userService := service.NewUserService(repo, logger)
	usageService := service.NewUsageService(db, repo, logger)
	projectService := service.NewProjectService(repo, usageService, logger)
	submissionService := service.NewSubmissionService(repo, projectService, usageService, logger)
	backlinkService := service.NewBacklinkService(repo, projectService, usageService, logger)
	pageAnalyzer := analyzer.NewWithDeps(
		&http.Client{Timeout: cfg.AnalyzerTimeout},
		analyzer.NewSimulator(time.Now().UnixNano()),
		logger,
	)
	analysisService := service.NewAnalysisService(repo, projectService, usageService, pageAnalyzer, logger)
	reportService := service.NewReportService(repo, projectService, usageService, logger)
	adminService := service.NewAdminService(repo, logger)

	// Initialize middleware
	isSecure := cfg.Env != "development"
	authMw := middleware.NewAuthMiddleware(userService, logger, isSecure)
	loggingMw := middleware.NewRequestLoggingMiddleware(logger)
	authLimiter := middleware.NewAuthRateLimiter(logger)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(userService, logger, isSecure)
	projectHandler := handler.NewProjectHandler(projectService, submissionService, backlinkService, logger)
	analyzeHandler := handler.NewAnalyzeHandler(analysisService, logger)
	usageHandler := handler.NewUsageHandler(usageService, logger)
	reportHandler := handler.NewReportHandler(reportService, logger)
	adminHandler := handler.NewAdminHandler(adminService, logger)

	// ==========================================================================
	// Create router and register routes
	// ==========================================================================

	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Prometheus metrics, basic-auth-protected when credentials are set
	mux.Handle("GET /metrics", metricsAuth(cfg, promhttp.Handler()))

	// Middleware stacks
	public := middleware.Stack(loggingMw.Handler, metrics.Middleware)
	requireUser := middleware.Stack(loggingMw.Handler, metrics.Middleware, authMw.WithUser, authMw.RequireUser)
	requireAdmin := middleware.Stack(loggingMw.Handler, metrics.Middleware, authMw.WithUser, authMw.RequireAdmin)

	// Auth routes (public, rate limited)
	mux.Handle("POST /api/register", public(authLimiter.LimitRegister(http.HandlerFunc(authHandler.Register))))
	mux.Handle("POST /api/login", public(authLimiter.LimitLogin(http.HandlerFunc(authHandler.Login))))
	mux.Handle("POST /api/logout", public(http.HandlerFunc(authHandler.Logout)))

	// Usage dashboard
	mux.Handle("GET /api/usage", requireUser(http.HandlerFunc(usageHandler.Stats)))

	// Projects
	mux.Handle("GET /api/projects", requireUser(http.HandlerFunc(projectHandler.List)))
	mux.Handle("POST /api/projects", requireUser(http.HandlerFunc(projectHandler.Create)))
	mux.Handle("GET /api/projects/{id}", requireUser(http.HandlerFunc(projectHandler.Get)))
	mux.Handle("DELETE /api/projects/{id}", requireUser(http.HandlerFunc(projectHandler.Delete)))

	// Submissions
	mux.Handle("GET /api/projects/{id}/submissions", requireUser(http.HandlerFunc(projectHandler.ListSubmissions)))
	mux.Handle("POST /api/projects/{id}/submissions", requireUser(http.HandlerFunc(projectHandler.CreateSubmission)))

	// Backlinks
	mux.Handle("GET /api/projects/{id}/backlinks", requireUser(http.HandlerFunc(projectHandler.ListBacklinks)))
	mux.Handle("POST /api/projects/{id}/backlinks", requireUser(http.HandlerFunc(projectHandler.CreateBacklink)))
	mux.Handle("POST /api/projects/{id}/backlinks/{backlinkId}/lost", requireUser(http.HandlerFunc(projectHandler.MarkBacklinkLost)))

	// SEO tools
	mux.Handle("POST /api/analyze", requireUser(http.HandlerFunc(analyzeHandler.Analyze)))
	mux.Handle("GET /api/analyses", requireUser(http.HandlerFunc(analyzeHandler.History)))

	// Reports
	mux.Handle("POST /api/projects/{id}/reports", requireUser(http.HandlerFunc(reportHandler.Create)))
	mux.Handle("GET /api/reports/{id}/download", requireUser(http.HandlerFunc(reportHandler.Download)))

	// Admin
	mux.Handle("GET /api/admin/plans", requireAdmin(http.HandlerFunc(adminHandler.ListPlans)))
	mux.Handle("PUT /api/admin/plans/{plan}", requireAdmin(http.HandlerFunc(adminHandler.SetPlan)))
	mux.Handle("DELETE /api/admin/plans/{plan}", requireAdmin(http.HandlerFunc(adminHandler.DeletePlan)))
	mux.Handle("POST /api/admin/users/{id}/ban", requireAdmin(http.HandlerFunc(adminHandler.BanUser)))

	// ==========================================================================
	// Start server
	// ==========================================================================

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: mux,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Server started", "address", server.Addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
		}
	}()

	<-sigChan
	logger.Info("Shutdown signal received, initiating graceful shutdown...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Graceful shutdown complete")
	return nil
}

// metricsAuth wraps the metrics endpoint with basic auth when configured.
func metricsAuth(cfg *internal.Config, next http.Handler) http.Handler {
	if cfg.MetricsUsername == "" && cfg.MetricsPassword == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok ||
			subtle.ConstantTimeCompare([]byte(user), []byte(cfg.MetricsUsername)) != 1 ||
			subtle.ConstantTimeCompare([]byte(pass), []byte(cfg.MetricsPassword)) != 1 {
			w.Header().Set("WWW-Authenticate", `Basic realm="metrics"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
