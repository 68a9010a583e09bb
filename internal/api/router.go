package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/Rrens/thai-travel-share/internal/api/handler"
	customMiddleware "github.com/Rrens/thai-travel-share/internal/api/middleware"
	"github.com/Rrens/thai-travel-share/internal/config"
	"github.com/Rrens/thai-travel-share/internal/repository/postgres"
	"github.com/Rrens/thai-travel-share/internal/repository/redis"
	"github.com/Rrens/thai-travel-share/internal/security"
	"github.com/Rrens/thai-travel-share/internal/service"
)

// NewRouter creates and configures the HTTP router. redisClient may be nil,
// in which case the catalog is read straight from the database and requests
// are not rate limited.
func NewRouter(cfg *config.Config, db *postgres.DB, redisClient *redis.Client, startedAt time.Time) (http.Handler, error) {
	r := chi.NewRouter()

	var metrics *customMiddleware.HTTPMetrics
	if cfg.Metrics.Enabled {
		var err error
		metrics, err = customMiddleware.NewHTTPMetrics(customMiddleware.HTTPMetricsOptions{
			Registerer: prometheus.DefaultRegisterer,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create http metrics: %w", err)
		}
	}

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Handler)
	r.Use(middleware.Timeout(cfg.Server.MiddlewareTimeout))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Initialize security components
	jwtManager, err := security.NewJWTManager(
		cfg.Auth.JWTSecret,
		cfg.Auth.SigningMethod,
		cfg.Auth.AccessTokenTTL,
		cfg.Auth.RefreshTokenTTL,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create jwt manager: %w", err)
	}

	encryptor, err := newEncryptor(cfg)
	if err != nil {
		return nil, err
	}

	hasher := security.NewBcryptHasher(cfg.Auth.BcryptCost)

	// Initialize repositories
	userRepo := postgres.NewUserRepository(db)
	provinceRepo := postgres.NewProvinceRepository(db)
	planRepo := postgres.NewTravelPlanRepository(db)
	statsRepo := postgres.NewStatsRepository(db)

	var provinceCache service.ProvinceCache
	var rateLimiter *redis.RateLimiter
	if redisClient != nil {
		provinceCache = redis.NewProvinceCache(redisClient, cfg.Catalog.CacheTTL)
		rateLimiter = redis.NewRateLimiter(
			redisClient,
			cfg.Security.RateLimit.RequestsPerMinute,
			cfg.Security.RateLimit.Burst,
		)
	}

	// Initialize services
	authService := service.NewAuthService(userRepo, db, hasher, jwtManager, encryptor)
	userService := service.NewUserService(userRepo, db, hasher)
	provinceService := service.NewProvinceService(provinceRepo, provinceCache)
	planService := service.NewTravelPlanService(planRepo, provinceRepo, db)
	systemService := service.NewSystemService(db, statsRepo, service.AppInfo{
		Name:    cfg.App.Name,
		Version: cfg.App.Version,
		BaseURL: "/v1",
	}, startedAt)

	// Initialize handlers
	userHandler := handler.NewUserHandler(authService, userService)
	provinceHandler := handler.NewProvinceHandler(provinceService)
	planHandler := handler.NewTravelPlanHandler(planService)
	systemHandler := handler.NewSystemHandler(systemService)

	authMiddleware := customMiddleware.NewAuthMiddleware(authService)
	limit := func(next http.Handler) http.Handler { return next }
	if rateLimiter != nil {
		limit = customMiddleware.NewRateLimitMiddleware(rateLimiter).Limit
	}

	// Health checks
	r.Get("/health", handler.HealthCheck)
	r.Get("/ready", handler.ReadyCheck(db))
	if metrics != nil {
		r.Handle(cfg.Metrics.Path, promhttp.Handler())
	}

	r.Route("/v1", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(limit)
				r.Post("/register", userHandler.Register)
				r.Post("/login", userHandler.Login)
				r.Post("/refresh", userHandler.Refresh)
			})

			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.Authenticate)
				r.Use(limit)

				r.Get("/me", userHandler.Me)
				r.Get("/{userID}", userHandler.Get)
				r.Put("/{userID}/update", userHandler.Update)
				r.Put("/{userID}/change_password", userHandler.ChangePassword)
			})
		})

		r.Route("/provinces", func(r chi.Router) {
			r.Get("/", provinceHandler.List)
			r.Get("/secondary", provinceHandler.Secondary)
			r.Get("/regions", provinceHandler.Regions)
			r.Get("/{provinceID}", provinceHandler.Get)
			r.Get("/{provinceID}/tax-benefits", provinceHandler.TaxBenefits)
		})

		r.Route("/travel-plans", func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Use(limit)

			r.Post("/", planHandler.Create)
			r.Get("/", planHandler.List)
			r.Get("/{planID}", planHandler.Get)
			r.Put("/{planID}", planHandler.Update)
			r.Delete("/{planID}", planHandler.Delete)
			r.Get("/{planID}/tax-info", planHandler.TaxInfo)
		})

		r.Route("/system", func(r chi.Router) {
			r.Get("/health", systemHandler.Health)
			r.Get("/info", systemHandler.Info)
			r.Get("/stats", systemHandler.Stats)
		})
	})

	return r, nil
}

// newEncryptor builds the national-id encryptor. Outside production a missing
// key is derived from the JWT secret with HKDF.
func newEncryptor(cfg *config.Config) (*security.Encryptor, error) {
	if cfg.Security.EncryptionKey != "" {
		encryptor, err := security.NewEncryptorFromBase64(cfg.Security.EncryptionKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create encryptor: %w", err)
		}
		return encryptor, nil
	}

	log.Warn().Msg("ENCRYPTION_KEY not set, deriving national id key from JWT secret")
	key, err := security.DeriveKey(cfg.Auth.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to derive encryption key: %w", err)
	}
	encryptor, err := security.NewEncryptor(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create encryptor: %w", err)
	}
	return encryptor, nil
}
