// Package api exposes the services over HTTP with gin.
package api

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/wallofhumanity/backend/internal/metrics"
	"github.com/wallofhumanity/backend/internal/middleware"
	"github.com/wallofhumanity/backend/internal/service"
)

// Services are the business operations the handlers call.
type Services struct {
	Auth       service.IAuthService
	Donations  service.IDonationService
	Requests   service.IRequestService
	NGOs       service.INGOService
	Volunteers service.IVolunteerService
	FreeFood   service.IFreeFoodService
	Stats      service.IStatsService
}

// Options carries infrastructure used by routing.
type Options struct {
	DB      *gorm.DB
	Redis   *redis.Client
	Metrics *metrics.Metrics
	Logger  *zap.Logger
	// RateLimitPerHour caps login, registration and request creation per
	// hour. It needs Redis; zero disables limiting.
	RateLimitPerHour int
	// UploadDir is served under UploadPath when the local storage driver
	// is active.
	UploadDir  string
	UploadPath string
}

// RegisterRoutes registers all API routes
func RegisterRoutes(router *gin.Engine, svc Services, opts Options) {
	health := NewHealthHandler(opts.DB, opts.Redis)
	router.GET("/health", health.Check)
	router.GET("/api/health", health.Check)

	if opts.Metrics != nil {
		router.GET("/metrics", opts.Metrics.Handler())
	}
	if opts.UploadDir != "" && opts.UploadPath != "" {
		router.Static(opts.UploadPath, opts.UploadDir)
	}

	loginLimiter := middleware.NewLoginRateLimiter(opts.Redis, opts.RateLimitPerHour, opts.Logger)
	requestLimiter := middleware.NewRequestCreationRateLimiter(opts.Redis, opts.RateLimitPerHour, opts.Logger)

	v := router.Group("/api")
	NewAuthHandler(svc.Auth).RegisterRoutes(v, loginLimiter.ByClientIP())
	NewDonationHandler(svc.Donations, svc.Stats, svc.Auth).RegisterRoutes(v)
	NewRequestHandler(svc.Requests, svc.Auth).RegisterRoutes(v, requestLimiter.ByUser())
	NewNGOHandler(svc.NGOs, svc.Auth).RegisterRoutes(v)
	NewVolunteerHandler(svc.Volunteers, svc.Auth).RegisterRoutes(v)
	NewFreeFoodHandler(svc.FreeFood, svc.Auth).RegisterRoutes(v)

	router.NoRoute(middleware.NotFound)
}
