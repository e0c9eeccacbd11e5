package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog/v2"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ehsaudit/application"
	"ehsaudit/database"
	"ehsaudit/domain/contracts"
	"ehsaudit/infrastructure/analysis"
	"ehsaudit/infrastructure/config"
	"ehsaudit/infrastructure/metrics"
	"ehsaudit/infrastructure/repositories"
	"ehsaudit/infrastructure/serialization"
	"ehsaudit/infrastructure/sinks"
	"ehsaudit/interfaces/reports"
	"ehsaudit/interfaces/web/handlers"
	"ehsaudit/interfaces/web/presenters"
	"ehsaudit/logging"
	"ehsaudit/platform/events"
)

func main() {
	// Create app-wide context for graceful shutdown
	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	// Initialize configuration
	loadEnvironment()
	cfg := config.LoadAppConfigFromEnv()

	// Initialize logging
	logger := initializeLogging(cfg)

	// The database only backs the export archive
	var db *database.Database
	if cfg.Exports.ArchiveEnabled {
		db = initializeDatabase(cfg, logger)
		defer db.Close()
	}

	// Build dependencies with app context
	deps := buildDependencies(appCtx, cfg, db, logger)

	// Setup routes and start server
	router := setupRoutes(deps, cfg)
	startServer(router, cfg.HTTPAddr, logger, deps, appCancel)
}

// ApplicationServices holds application services.
type ApplicationServices struct {
	SessionService *application.SessionServiceImpl
	ExportService  *application.ExportService
	EventBus       *events.RegisterEventBus
}

// PresentationLayer groups all presentation components
type PresentationLayer struct {
	// Presenters
	FindingPresenter *presenters.FindingPresenter
	SessionPresenter *presenters.SessionPresenter
	ExportPresenter  *presenters.ExportPresenter

	// Handlers
	SessionHandlers *handlers.SessionHandlers
	FindingHandlers *handlers.FindingHandlers
	ReportHandlers  *handlers.ReportHandlers
	ExportHandlers  *handlers.ExportHandlers
	SSEManager      *handlers.SSEManager
}

// Dependencies holds all application dependencies organized by layer
type Dependencies struct {
	// Infrastructure
	DB       *database.Database
	Logger   *logging.Logger
	Registry *prometheus.Registry

	// Repositories
	ExportArchive contracts.ExportArchive

	// Application Layer
	Services *ApplicationServices

	// Presentation Layer
	Presentation *PresentationLayer
}

func loadEnvironment() {
	if err := godotenv.Load(); err != nil {
		println("No .env file found, using environment variables")
	} else {
		println("Loaded configuration from .env file")
	}
}

func initializeLogging(cfg *config.AppConfig) *logging.Logger {
	logger := logging.NewLogger(cfg.Logging)
	logging.SetDefault(logger)

	logger.Info("Application starting",
		"version", "1.0.0",
		"log_level", cfg.Logging.Level,
		"log_format", cfg.Logging.Format,
		"session_ttl", cfg.Sessions.TTL.String(),
		"export_dir", cfg.Exports.Dir,
		"archive_enabled", cfg.Exports.ArchiveEnabled,
	)

	return logger
}

func initializeDatabase(cfg *config.AppConfig, logger *logging.Logger) *database.Database {
	db, err := database.New(*cfg.Database, logger)
	if err != nil {
		logger.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	return db
}

func initializeMetrics(logger *logging.Logger) (*prometheus.Registry, application.ReviewMetrics) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	reviewMetrics, err := metrics.NewReviewMetrics(registry)
	if err != nil {
		logger.Error("Failed to register review metrics, continuing without them", "error", err)
		return registry, application.NoOpMetrics{}
	}
	return registry, reviewMetrics
}

// buildSinks creates the export destinations. The archive sink is only
// added when the database is available.
func buildSinks(cfg *config.AppConfig, archive contracts.ExportArchive, logger *logging.Logger) []contracts.DocumentSink {
	documentSinks := []contracts.DocumentSink{sinks.NewFileSink(cfg.Exports.Dir, logger)}
	if archive != nil {
		documentSinks = append(documentSinks, sinks.NewArchiveSink(archive, logger))
	}
	return documentSinks
}

// buildApplicationServices creates application services with dependency injection.
func buildApplicationServices(cfg *config.AppConfig, archive contracts.ExportArchive, reviewMetrics application.ReviewMetrics, logger *logging.Logger) *ApplicationServices {
	// Create event bus for register events
	eventBus := events.NewRegisterEventBus()
	clock := clockwork.NewRealClock()

	sessionService := application.NewSessionService(
		cfg.Sessions.TTL,
		cfg.Sessions.CleanupInterval,
		clock,
		eventBus,
		reviewMetrics,
	)
	exportService := application.NewExportService(
		reports.NewRenderer(),
		buildSinks(cfg, archive, logger),
		cfg.Exports.FilePrefix,
		clock,
		reviewMetrics,
	)

	return &ApplicationServices{
		SessionService: sessionService,
		ExportService:  exportService,
		EventBus:       eventBus,
	}
}

// buildPresentationLayer creates all presenters and handlers
func buildPresentationLayer(appCtx context.Context, services *ApplicationServices, archive contracts.ExportArchive, logger *logging.Logger) *PresentationLayer {
	// Build presenters (view logic)
	findingPresenter := presenters.NewFindingPresenter()
	sessionPresenter := presenters.NewSessionPresenter(findingPresenter)
	exportPresenter := presenters.NewExportPresenter()
	serializer := serialization.NewRegisterSerializer()

	// Build handlers - orchestrate services & presenters
	sseManager := handlers.NewSSEManager(appCtx)
	sessionHandlers := handlers.NewSessionHandlers(
		services.SessionService,
		analysis.NewIntake(logger),
		serializer,
		sessionPresenter,
	)
	findingHandlers := handlers.NewFindingHandlers(services.SessionService, serializer, findingPresenter)
	reportHandlers := handlers.NewReportHandlers(services.SessionService, services.ExportService)
	exportHandlers := handlers.NewExportHandlers(services.SessionService, services.ExportService, archive, exportPresenter)

	// Setup event system for register notifications
	setupEventHandlers(services, sseManager)

	return &PresentationLayer{
		FindingPresenter: findingPresenter,
		SessionPresenter: sessionPresenter,
		ExportPresenter:  exportPresenter,
		SessionHandlers:  sessionHandlers,
		FindingHandlers:  findingHandlers,
		ReportHandlers:   reportHandlers,
		ExportHandlers:   exportHandlers,
		SSEManager:       sseManager,
	}
}

// buildDependencies creates all application dependencies
func buildDependencies(appCtx context.Context, cfg *config.AppConfig, db *database.Database, logger *logging.Logger) *Dependencies {
	var archive contracts.ExportArchive
	if db != nil {
		archive = repositories.NewSQLiteExportRepository(db)
	}

	// Build each layer
	registry, reviewMetrics := initializeMetrics(logger)
	services := buildApplicationServices(cfg, archive, reviewMetrics, logger)
	presentation := buildPresentationLayer(appCtx, services, archive, logger)

	return &Dependencies{
		DB:            db,
		Logger:        logger,
		Registry:      registry,
		ExportArchive: archive,
		Services:      services,
		Presentation:  presentation,
	}
}

func setupRoutes(deps *Dependencies, cfg *config.AppConfig) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	setupHTTPLogging(r, deps, cfg)
	r.Use(middleware.Recoverer)

	// System endpoints
	setupSystemRoutes(r, deps)

	// Review API
	setupSessionRoutes(r, deps)

	// Report pages
	setupReportRoutes(r, deps)

	return r
}

func setupHTTPLogging(r *chi.Mux, deps *Dependencies, cfg *config.AppConfig) {
	if cfg.HTTPLogPath == "" {
		// No HTTP logging configured, skip
		return
	}

	logFile, err := os.OpenFile(cfg.HTTPLogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		deps.Logger.Error("Failed to open HTTP log file", "error", err, "path", cfg.HTTPLogPath)
		return
	}
	// Note: logFile is not closed here as it needs to stay open for the server lifetime

	httpLogger := httplog.NewLogger("ehsaudit", httplog.Options{
		Writer: logFile,
		JSON:   true,
	})
	r.Use(httplog.RequestLogger(httpLogger))

	deps.Logger.Info("HTTP request logging enabled", "path", cfg.HTTPLogPath)
}

func setupSystemRoutes(r *chi.Mux, deps *Dependencies) {
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		response := map[string]interface{}{
			"status":   "ok",
			"sessions": deps.Services.SessionService.Count(),
		}

		if deps.DB != nil {
			stats, err := deps.DB.Health(r.Context())
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			response["database"] = stats
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	})

	r.Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{Registry: deps.Registry}))
	r.Get("/events", deps.Presentation.SSEManager.HandleSSEConnection)
}

func setupSessionRoutes(r *chi.Mux, deps *Dependencies) {
	sessions := deps.Presentation.SessionHandlers
	findings := deps.Presentation.FindingHandlers
	reports := deps.Presentation.ReportHandlers
	exports := deps.Presentation.ExportHandlers

	r.Route("/api/sessions", func(r chi.Router) {
		r.Post("/", sessions.CreateSession)
		r.Get("/", sessions.ListSessions)

		r.Route("/{sessionID}", func(r chi.Router) {
			r.Get("/", sessions.GetSession)
			r.Delete("/", sessions.DeleteSession)
			r.Get("/analysis", sessions.GetAnalysisReport)

			// Register
			r.Get("/findings", findings.ListFindings)
			r.Get("/findings/{findingID}", findings.GetFinding)
			r.Patch("/findings/{findingID}", findings.UpdateFinding)
			r.Post("/findings/{findingID}/status", findings.ChangeStatus)

			// Documents
			r.Get("/report", reports.GetReport)
			r.Post("/exports", exports.CreateExport)
			r.Get("/exports", exports.ListExports)
		})
	})

	// Archived exports outlive their session
	r.Get("/api/exports/{exportID}", exports.GetExport)
}

func setupReportRoutes(r *chi.Mux, deps *Dependencies) {
	r.Get("/sessions/{sessionID}/report", deps.Presentation.ReportHandlers.ViewReport)
	r.Get("/sessions/{sessionID}/print", deps.Presentation.ReportHandlers.PrintReport)
}

func startServer(router *chi.Mux, addr string, logger *logging.Logger, deps *Dependencies, appCancel context.CancelFunc) {
	server := &http.Server{Addr: addr, Handler: router}

	serverCtx, serverStopCtx := context.WithCancel(context.Background())

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sig
		logger.Info("Shutdown signal received")

		// Cancel app-wide context first to stop background routines
		appCancel()

		// Close SSE connections immediately
		logger.Info("Closing SSE connections...")
		deps.Presentation.SSEManager.CloseAll()

		shutdownCtx, cancel := context.WithTimeout(serverCtx, 30*time.Second)
		defer cancel()

		go func() {
			<-shutdownCtx.Done()
			if shutdownCtx.Err() == context.DeadlineExceeded {
				logger.Error("Graceful shutdown timed out, forcing exit")
				os.Exit(1)
			}
		}()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
			os.Exit(1)
		}
		serverStopCtx()
	}()

	logger.Info("Server starting", "address", addr)
	err := server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		logger.Error("Server failed", "error", err)
		os.Exit(1)
	}

	<-serverCtx.Done()
	logger.Info("Server stopped")
}

// setupEventHandlers wires up the event handlers for register notifications
func setupEventHandlers(services *ApplicationServices, sseManager *handlers.SSEManager) {
	notificationHandlers := events.NewNotificationEventHandlers(sseManager)
	notificationHandlers.RegisterHandlers(services.EventBus)
}
