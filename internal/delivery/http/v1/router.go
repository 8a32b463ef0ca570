package v1

import (
	"context"
	"net/http"
	"time"

	"lion-connect-backend/config"
	"lion-connect-backend/internal/delivery/http/middleware"
	"lion-connect-backend/internal/delivery/http/response"
	"lion-connect-backend/internal/domain"
	"lion-connect-backend/pkg/auth"
	"lion-connect-backend/pkg/monitoring"
	"lion-connect-backend/pkg/security"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// HealthChecker reports per-dependency status and overall health.
type HealthChecker interface {
	Check(ctx context.Context) (map[string]string, bool)
}

type RouterDeps struct {
	AuthUC           domain.AuthUsecase
	ProfileUC        domain.ProfileUsecase
	CompanyProfileUC domain.CompanyProfileUsecase
	PostUC           domain.PostUsecase
	SkillUC          domain.SkillUsecase
	MatchUC          domain.MatchUsecase
	Health           HealthChecker

	Tokens         auth.TokenService
	RateLimiter    *middleware.RateLimiter
	UploadLimiter  *security.UploadLimiter
	SecurityLogger *security.Logger
	Config         *config.Config

	// Served at Config.PublicAssetsPath when set (local storage driver)
	StaticDir string
}

func NewRouter(deps RouterDeps) *gin.Engine {
	cfg := deps.Config
	r := gin.New()

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(cfg.CORSAllowedOrigins)) // CORS must be first!
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(monitoring.MetricsMiddleware())
	r.Use(middleware.ErrorHandler())

	window := time.Duration(cfg.RateLimitWindowSeconds) * time.Second
	var loginLimit gin.HandlerFunc
	if deps.RateLimiter != nil {
		r.Use(deps.RateLimiter.Middleware(middleware.GlobalRateLimitConfig(cfg.RateLimitGlobalThreshold, window)))
		loginLimit = deps.RateLimiter.Middleware(middleware.LoginRateLimitConfig(cfg.RateLimitLoginThreshold, window))
	}

	r.GET("/metrics", monitoring.PrometheusHandler())
	if deps.StaticDir != "" {
		r.Static(cfg.PublicAssetsPath, deps.StaticDir)
	}

	v1 := r.Group("/v1")

	// Health Check
	v1.GET("/health", func(c *gin.Context) {
		if deps.Health == nil {
			response.Success(c, http.StatusOK, "System operational", nil)
			return
		}
		status, healthy := deps.Health.Check(c.Request.Context())
		if !healthy {
			response.Error(c, http.StatusServiceUnavailable, "System degraded", status)
			return
		}
		response.Success(c, http.StatusOK, "System operational", status)
	})

	// Swagger
	v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Public routes
	NewSkillHandler(v1, deps.SkillUC)

	// Protected routes
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(deps.Tokens))
	{
		NewAuthHandler(v1, protected, deps.AuthUC, loginLimit)
		NewUserHandler(protected, deps.ProfileUC, deps.UploadLimiter, deps.SecurityLogger, cfg.UploadMaxBytes)
		NewCompanyProfileHandler(protected, deps.CompanyProfileUC)
		NewPostHandler(v1, protected, deps.PostUC)
		NewMatchHandler(protected, deps.MatchUC)
	}

	return r
}
