package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"carelog/internal/config"
	"carelog/internal/database"
	"carelog/internal/handlers"
	"carelog/internal/middleware"
	"carelog/internal/repository"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Load environment variables; a missing .env is fine
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := newLogger(cfg.Server.Environment)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatal("failed to open database", zap.String("path", cfg.Database.Path), zap.Error(err))
	}
	defer db.Close()

	events := repository.NewCareEventRepository(db, logger)
	users := repository.NewUserProfileRepository(db, logger)
	caseRecords := repository.NewCaseRecordRepository(db, logger)
	settings := repository.NewSettingsRepository(db, logger)
	backup := repository.NewBackupRepository(db, logger)

	rateLimiter := middleware.NewRateLimiter(cfg.Security.RateLimitRequests, cfg.Security.RateLimitWindow)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))
	r.Use(middleware.SecurityHeaders(cfg.Security.CSPEnabled, cfg.Security.HSTSEnabled))
	r.Use(rateLimiter.Middleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://localhost:*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/events", func(r chi.Router) {
			r.Get("/", handlers.HandleListCareEvents(events))
			r.Post("/", handlers.HandleCreateCareEvent(events))
			r.Get("/{id}", handlers.HandleGetCareEvent(events))
			r.Delete("/{id}", handlers.HandleDeleteCareEvent(events))
			r.Put("/{id}/photos", handlers.HandleAttachPhotos(events))
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", handlers.HandleListUserProfiles(users))
			r.Post("/", handlers.HandleSaveUserProfile(users))
			r.Post("/rename", handlers.HandleRenameUser(users, events, settings, logger))
			r.Get("/{id}", handlers.HandleGetUserProfile(users))
			r.Delete("/{id}", handlers.HandleDeleteUserProfile(users))
		})

		r.Route("/case-records", func(r chi.Router) {
			r.Get("/", handlers.HandleListCaseRecords(caseRecords))
			r.Post("/", handlers.HandleSaveCaseRecord(caseRecords))
			r.Delete("/{id}", handlers.HandleDeleteCaseRecord(caseRecords))
		})

		r.Get("/daily-log", handlers.HandleGetDailyLog(events))

		r.Route("/export", func(r chi.Router) {
			r.Get("/csv", handlers.HandleExportCSV(events, logger))
			r.Get("/pdf", handlers.HandleExportPDF(events, cfg.Export.PDFFontPath, logger))
			r.Get("/xlsx", handlers.HandleExportXLSX(events, logger))
		})

		r.Route("/backup", func(r chi.Router) {
			r.Get("/", handlers.HandleExportBackup(backup, logger))
			r.Post("/", handlers.HandleImportBackup(backup, logger))
			r.Delete("/", handlers.HandleClearData(backup, logger))
			r.Get("/info", handlers.HandleStorageInfo(backup))
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/", handlers.HandleGetAppSettings(settings))
			r.Put("/", handlers.HandleSaveAppSettings(settings))
			r.Get("/user-names", handlers.HandleGetCustomUserNames(settings))
			r.Put("/user-names", handlers.HandleSaveCustomUserNames(settings))
			r.Get("/form-options", handlers.HandleGetFormOptions(settings))
			r.Put("/form-options", handlers.HandleSaveFormOptions(settings))
			r.Delete("/form-options", handlers.HandleResetFormOptions(settings))
		})
	})

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	logger.Info("server starting",
		zap.String("addr", addr),
		zap.String("environment", cfg.Server.Environment),
		zap.String("database", cfg.Database.Path))

	if err := http.ListenAndServe(addr, r); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}

func newLogger(environment string) (*zap.Logger, error) {
	if environment == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
