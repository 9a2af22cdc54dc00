package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"portfolio-backend/config"
	_ "portfolio-backend/docs" // Important for Swagger
	"portfolio-backend/internal/delivery/http/middleware"
	v1 "portfolio-backend/internal/delivery/http/v1"
	"portfolio-backend/internal/domain"
	"portfolio-backend/internal/repository/memory"
	"portfolio-backend/internal/repository/postgres"
	"portfolio-backend/internal/repository/sqlite"
	"portfolio-backend/internal/usecase"
	"portfolio-backend/pkg/database"
	"portfolio-backend/pkg/email"
	"portfolio-backend/pkg/logger"
	"portfolio-backend/pkg/redis"
	"portfolio-backend/pkg/security"
	"portfolio-backend/pkg/validation"

	"github.com/gin-gonic/gin"
)

// @title           Portfolio Contact API
// @version         1.0
// @description     Contact form relay for the portfolio site: stores messages and emails the owner.
// @host            localhost:8080
// @BasePath        /api
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// 2. Setup Loggers
	appLog := logger.New(cfg.Environment)
	audit := security.NewSecurityLogger("portfolio-backend", cfg.Environment)
	defer audit.Sync()
	appLog.Info("Starting portfolio backend", "port", cfg.Port, "env", cfg.Environment, "store", cfg.StoreDriver)

	ctx := context.Background()
	checks := map[string]domain.HealthChecker{}

	// 3. Setup Message Store
	contactRepo, closeStore, err := openContactStore(ctx, cfg, appLog, checks)
	if err != nil {
		appLog.Error("Failed to open message store", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	// 4. Setup Rate Limit backend (optional)
	var limiter middleware.Limiter
	if cfg.RedisURL != "" {
		redisClient, err := redis.NewClient(ctx, redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword})
		if err != nil {
			appLog.Warn("Redis unavailable - rate limiting falls back to in-memory", "error", err)
		} else {
			defer redisClient.Close()
			limiter = middleware.NewRedisLimiter(redisClient)
			checks["redis"] = domain.HealthCheckerFunc(func(ctx context.Context) error {
				return redisClient.Ping(ctx).Err()
			})
		}
	}

	// 5. Setup Email Service
	emailService := email.NewEmailService(cfg)
	if !emailService.IsConfigured() {
		appLog.Warn("Email credentials not configured - contact messages are stored but not emailed")
	} else if !cfg.IsProduction() {
		appLog.Info("Non-production mode - contact email sending is skipped")
	}

	// 6. Setup UseCases
	contactUC := usecase.NewContactUsecase(
		contactRepo,
		emailService,
		validation.NewSchema(),
		usecase.ContactOptions{
			Production:      cfg.IsProduction(),
			EmailConfigured: emailService.IsConfigured(),
		},
		appLog,
		audit,
	)
	healthUC := usecase.NewHealthUsecase(checks)

	// 7. Setup Router
	router, err := v1.NewRouter(v1.RouterDeps{
		ContactUC:   contactUC,
		HealthUC:    healthUC,
		RateLimiter: limiter,
		Logger:      appLog,
		Audit:       audit,
		Config:      cfg,
	})
	if err != nil {
		appLog.Error("Failed to build router", "error", err)
		os.Exit(1)
	}

	// 8. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.Error("Listen failed", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.Error("Server forced to shutdown", "error", err)
	}

	appLog.Info("Server exiting")
}

// openContactStore builds the repository for the configured driver and
// registers its health check.
func openContactStore(ctx context.Context, cfg *config.Config, log *slog.Logger, checks map[string]domain.HealthChecker) (domain.ContactRepository, func(), error) {
	switch cfg.StoreDriver {
	case config.StorePostgres:
		pool, err := database.NewPostgresConnection(ctx, cfg.DBUrl, log)
		if err != nil {
			return nil, nil, err
		}
		checks["store"] = domain.HealthCheckerFunc(pool.Ping)
		return postgres.NewContactRepository(pool), pool.Close, nil

	case config.StoreSQLite:
		db, err := database.NewSQLiteConnection(ctx, cfg.SQLitePath, log)
		if err != nil {
			return nil, nil, err
		}
		checks["store"] = domain.HealthCheckerFunc(db.PingContext)
		return sqlite.NewContactRepository(db), closeSQL(db, log), nil

	case config.StoreMemory:
		repo := memory.NewContactRepository()
		checks["store"] = repo
		return repo, func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
}

func closeSQL(db *sql.DB, log *slog.Logger) func() {
	return func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close sqlite", "error", err)
		}
	}
}
