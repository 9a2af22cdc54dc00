package v1

import (
	"fmt"
	"log/slog"

	"portfolio-backend/config"
	"portfolio-backend/internal/delivery/http/middleware"
	"portfolio-backend/internal/domain"
	"portfolio-backend/pkg/security"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	ContactUC domain.ContactUsecase
	HealthUC  domain.HealthUsecase
	// RateLimiter is the shared limiter (Redis); nil uses the in-memory one
	RateLimiter middleware.Limiter
	Logger      *slog.Logger
	Audit       *security.SecurityLogger
	Config      *config.Config
}

func NewRouter(deps RouterDeps) (*gin.Engine, error) {
	r := gin.New()

	// ClientIP keys the rate limiter; forwarded headers count only from these peers
	if err := r.SetTrustedProxies(deps.Config.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid TRUSTED_PROXIES: %w", err)
	}

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(deps.Config.AllowedOrigins)) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeadersMiddleware(deps.Config.IsProduction()))
	r.Use(middleware.ErrorHandler(deps.Logger))

	api := r.Group("/api")

	NewHealthHandler(api, deps.HealthUC)

	contactLimit := middleware.RateLimitMiddleware(
		middleware.ContactRateLimitConfig(deps.Config.ContactRateLimit, deps.Config.ContactRateWindow()),
		deps.RateLimiter,
		middleware.NewMemoryLimiter(),
		deps.Audit,
	)
	NewContactHandler(api, deps.ContactUC, deps.Audit, contactLimit)

	api.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r, nil
}
