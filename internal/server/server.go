// Package server assembles the HTTP server from configuration: database,
// storage, mail transport, services and routes.
package server

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/wallofhumanity/backend/config"
	"github.com/wallofhumanity/backend/internal/api"
	"github.com/wallofhumanity/backend/internal/database"
	"github.com/wallofhumanity/backend/internal/mailer"
	"github.com/wallofhumanity/backend/internal/metrics"
	"github.com/wallofhumanity/backend/internal/middleware"
	"github.com/wallofhumanity/backend/internal/service"
	"github.com/wallofhumanity/backend/internal/storage"
)

const shutdownTimeout = 10 * time.Second

// Server represents the HTTP server
type Server struct {
	cfg       *config.Config
	router    *gin.Engine
	http      *http.Server
	db        *gorm.DB
	redis     *redis.Client
	logger    *zap.Logger
	notifier  *service.EmailNotifier
	transport mailer.Transport
}

// New wires the services over db and builds the router. Redis is optional:
// when it cannot be reached rate limiting is disabled and startup continues.
func New(ctx context.Context, cfg *config.Config, db *gorm.DB, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Env == config.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		client, err := database.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			logger.Warn("redis unavailable, rate limiting disabled", zap.Error(err))
		} else {
			rdb = client
		}
	}

	store, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		return nil, err
	}

	transport, err := mailer.New(cfg.Mail, logger)
	if err != nil {
		return nil, err
	}

	m := metrics.New()
	notifier := service.NewEmailNotifier(
		service.NewEmailService(cfg.Mail.OperatorEmail, cfg.FrontendURL),
		transport, logger, m,
	)

	deps := service.Deps{
		DB:             db,
		Store:          store,
		Notifier:       notifier,
		Logger:         logger,
		Metrics:        m,
		MaxUploadBytes: cfg.Storage.MaxUploadBytes,
	}
	auth := service.NewAuthService(deps, cfg.JWTSecret)
	svc := api.Services{
		Auth:       auth,
		Donations:  service.NewDonationService(deps),
		Requests:   service.NewRequestService(deps),
		NGOs:       service.NewNGOService(deps),
		Volunteers: service.NewVolunteerService(deps, auth),
		FreeFood:   service.NewFreeFoodService(deps),
		Stats:      service.NewStatsService(deps),
	}

	opts := api.Options{
		DB:               db,
		Redis:            rdb,
		Metrics:          m,
		Logger:           logger,
		RateLimitPerHour: cfg.RateLimitPerHour,
	}
	if local, ok := store.(*storage.Local); ok {
		opts.UploadDir = local.Root()
		opts.UploadPath = local.BaseURL()
	}

	router := gin.New()
	exposeDetail := cfg.Env != config.Production
	router.Use(
		middleware.Recovery(logger, exposeDetail),
		middleware.CORS(cfg.CORSOrigins),
		m.Middleware(),
		middleware.RequestLogger(logger),
		middleware.ErrorHandler(logger, exposeDetail),
	)
	api.RegisterRoutes(router, svc, opts)

	return &Server{
		cfg:       cfg,
		router:    router,
		db:        db,
		redis:     rdb,
		logger:    logger,
		notifier:  notifier,
		transport: transport,
	}, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled or SIGINT/SIGTERM arrives, then drains
// in-flight requests and pending notifications.
func (s *Server) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s.http = &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", zap.String("addr", s.http.Addr), zap.String("env", string(s.cfg.Env)))
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			s.close()
			return err
		}
	case <-ctx.Done():
		s.logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := s.Stop(shutdownCtx)
	s.close()
	return err
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	if s.http != nil {
		return s.http.Shutdown(ctx)
	}
	return nil
}

func (s *Server) close() {
	s.notifier.Wait()
	if err := s.transport.Close(); err != nil {
		s.logger.Warn("closing mail transport", zap.Error(err))
	}
	if s.redis != nil {
		_ = s.redis.Close()
	}
	if sqlDB, err := s.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
