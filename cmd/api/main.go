//	@title			Piclens API
//	@version		1.0
//	@description	Image gallery backend: upload, list, inspect and delete images.
//
//	@host		localhost:8080
//	@BasePath	/api/v1

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	"github.com/piclens/service/internal/config"
	"github.com/piclens/service/internal/db"
	"github.com/piclens/service/internal/image"
	appMiddleware "github.com/piclens/service/internal/middleware"
	"github.com/piclens/service/internal/storage"

	_ "github.com/piclens/service/docs/swagger"
)

func main() {
	cfg := config.Load()

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	pool, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	defer pool.Close()

	if err := db.Migrate(cfg.DatabaseURL); err != nil {
		logger.Fatal("database migration failed", zap.Error(err))
	}
	logger.Info("database ready")

	// Backend selection happens exactly once, here: credentials configured
	// selects the S3-compatible store, otherwise bytes go to local disk.
	// Everything downstream sees only the storage.Backend interface.
	var backend storage.Backend
	var localBackend *storage.LocalBackend
	if cfg.UseObjectStorage() {
		backend, err = storage.NewMinioBackend(
			cfg.StorageEndpoint,
			cfg.StorageAccessKey,
			cfg.StorageSecretKey,
			cfg.StorageBucket,
			cfg.StoragePublicBase,
			cfg.StorageUseSSL,
			logger,
		)
		if err != nil {
			logger.Fatal("object storage init failed", zap.Error(err))
		}
		logger.Info("using object storage backend",
			zap.String("endpoint", cfg.StorageEndpoint),
			zap.String("bucket", cfg.StorageBucket))
	} else {
		localBackend, err = storage.NewLocalBackend(cfg.UploadDir, cfg.UploadPublicPrefix, logger)
		if err != nil {
			logger.Fatal("local storage init failed", zap.Error(err))
		}
		backend = localBackend
		logger.Info("using local storage backend", zap.String("dir", cfg.UploadDir))
	}

	// Wire dependencies: repository → service → handler
	imageRepo := image.NewRepository(pool)
	imageSvc := image.NewService(imageRepo, backend, logger)
	imageHandler := image.NewHandler(imageSvc)

	// Router
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(appMiddleware.Logger(logger))
	r.Use(chiMiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Swagger UI — available at http://localhost:8080/swagger/
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/images", imageHandler.Routes)
	})

	// With the local backend the service serves the uploaded bytes itself;
	// with object storage the bucket endpoint does.
	if localBackend != nil {
		fs := http.StripPrefix(cfg.UploadPublicPrefix, http.FileServer(http.Dir(localBackend.Root())))
		r.Get(cfg.UploadPublicPrefix+"/*", fs.ServeHTTP)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine; wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("server listening",
			zap.String("port", cfg.Port),
			zap.String("env", cfg.AppEnv))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("shutting down gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("forced shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}

// newLogger builds a development or production zap logger per APP_ENV.
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
