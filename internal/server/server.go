package server

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"brand-catalog/internal/config"
	"brand-catalog/internal/database"
	custommiddleware "brand-catalog/internal/middleware"
	"brand-catalog/internal/repository"
	"brand-catalog/internal/service"
	"brand-catalog/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     *sql.DB
	redis  *redis.Client
}

func NewServer(cfg *config.Config, logger *zap.Logger, db *sql.DB) *Server {
	router := chi.NewRouter()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(db, dbStatsName(cfg)),
	)
	metrics := custommiddleware.NewMetrics(registry)

	router.Use(custommiddleware.DefaultMiddlewareStack()...)
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(metrics.Middleware)
	router.Use(custommiddleware.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.Server.IsDevelopment()))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		health := database.Health(r.Context(), db)

		status := http.StatusOK
		if health["status"] != "up" {
			status = http.StatusServiceUnavailable
		}
		custommiddleware.RespondWithJSON(w, status, health)
	})
	router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	// Initialize repositories
	brandRepo := repository.NewBrandRepository(db)
	productRepo := repository.NewProductRepository(db)

	// Initialize services
	brandService := service.NewBrandService(brandRepo, productRepo)

	// Initialize handlers
	brandHandler := transport.NewBrandHandler(brandService, logger)

	s := &Server{
		config: cfg,
		logger: logger,
		db:     db,
	}

	// Authenticated routes are rate limited per user once the token is verified
	protected := custommiddleware.AuthMiddleware(cfg.JWT.Secret, logger)
	if cfg.RateLimit.Enabled {
		s.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := s.redis.Ping(pingCtx).Err(); err != nil {
			logger.Warn("Redis unreachable, rate limiter will fail open", zap.Error(err))
		}
		cancel()

		protected = chain(protected, custommiddleware.RateLimitMiddleware(s.redis, custommiddleware.RateLimitConfig{
			RequestsPerWindow: cfg.RateLimit.Requests,
			Window:            cfg.RateLimit.Window,
			KeyPrefix:         "brand_catalog:ratelimit",
			BreakerTimeout:    cfg.RateLimit.BreakerTimeout,
		}, logger))
	}

	brandHandler.RegisterRoutes(router, protected)

	s.Server = &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return s
}

// chain applies outer first, then inner
func chain(outer, inner func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return outer(inner(next))
	}
}

func dbStatsName(cfg *config.Config) string {
	if cfg.Database.Database != "" {
		return cfg.Database.Database
	}
	return "brand_catalog"
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis connection", zap.Error(err))
		}
	}

	// Close database connection
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
