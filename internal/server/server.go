package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"catalog-api/internal/config"
	"catalog-api/internal/database"
	custommiddleware "catalog-api/internal/middleware"
	"catalog-api/internal/repository"
	"catalog-api/internal/service"
	"catalog-api/internal/transport"

	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2/manager"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     *database.Service
	redis  *redis.Client
}

// healthChecker reports dependency status, "status" is "up" when healthy
type healthChecker interface {
	Health(ctx context.Context) map[string]string
}

func NewServer(cfg *config.Config, logger *zap.Logger, db *database.Service) *Server {
	debug := cfg.Server.IsDevelopment()

	// Create router
	router := chi.NewRouter()

	// Add basic middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.MetricsMiddleware)
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger, debug))
	router.Use(custommiddleware.CORSMiddleware(cfg.Server.AllowedOrigins))

	var redisClient *redis.Client
	if cfg.RateLimit.Enabled {
		redisClient = newRedisClient(cfg.Redis, logger)
		router.Use(custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
			RequestsPerWindow: cfg.RateLimit.Requests,
			Window:            cfg.RateLimit.Window,
			KeyPrefix:         "ratelimit",
		}, logger))
	}

	if err := prometheus.Register(database.NewPoolStatsCollector(db.Pool())); err != nil {
		var already prometheus.AlreadyRegisteredError
		if !errors.As(err, &already) {
			logger.Warn("Failed to register pool metrics", zap.Error(err))
		}
	}

	// Health check and metrics endpoints
	router.Get("/health", healthHandler(db))
	router.Handle("/metrics", promhttp.Handler())

	// Initialize repositories
	pool := db.Pool()
	categoryRepo := repository.NewCategoryRepository(pool)
	productRepo := repository.NewProductRepository(pool)
	imageRepo := repository.NewImageRepository(pool)

	trManager := manager.Must(trmpgx.NewDefaultFactory(pool))

	// Initialize services
	categoryService := service.NewCategoryService(categoryRepo, trManager)
	productService := service.NewProductService(productRepo, categoryRepo, imageRepo, trManager)

	// Register routes
	transport.NewCategoryHandler(categoryService, logger, debug).RegisterRoutes(router)
	transport.NewProductHandler(productService, logger, debug).RegisterRoutes(router)

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		db:     db,
		redis:  redisClient,
	}

	return server
}

func newRedisClient(cfg config.RedisConfig, logger *zap.Logger) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	// Rate limiting fails open, so an unreachable Redis only warrants a warning
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis is unreachable, requests will not be rate limited",
			zap.String("addr", cfg.Addr()),
			zap.Error(err),
		)
	}

	return client
}

func healthHandler(checker healthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		health := checker.Health(r.Context())

		if health["status"] != "up" {
			custommiddleware.RespondWithErrorDetails(w, http.StatusServiceUnavailable, "Database unavailable", map[string]interface{}{
				"database": health,
			})
			return
		}

		custommiddleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
			"status":   "ok",
			"database": health,
		})
	}
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis client", zap.Error(err))
		}
	}

	// Close database connection
	if s.db != nil {
		s.db.Close()
	}

	s.logger.Sync()
	return nil
}
