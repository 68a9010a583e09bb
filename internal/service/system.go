package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Rrens/thai-travel-share/internal/domain"
)

const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
	popularLimit    = 5
)

// Database is the subset of the store the system endpoints inspect
type Database interface {
	Ping(ctx context.Context) error
	Tables(ctx context.Context) ([]string, error)
}

// AppInfo identifies the running service
type AppInfo struct {
	Name    string
	Version string
	BaseURL string
}

// SystemService reports health, API information and usage statistics
type SystemService struct {
	db        Database
	statsRepo domain.StatsRepository
	app       AppInfo
	startedAt time.Time
	now       Clock
}

// NewSystemService creates a new system service. Uptime is measured from startedAt.
func NewSystemService(db Database, statsRepo domain.StatsRepository, app AppInfo, startedAt time.Time) *SystemService {
	return &SystemService{
		db:        db,
		statsRepo: statsRepo,
		app:       app,
		startedAt: startedAt,
		now:       utcNow,
	}
}

// Health pings the database and reports uptime. It never fails; an
// unreachable database is reported in the result.
func (s *SystemService) Health(ctx context.Context) *domain.Health {
	health := &domain.Health{
		Service:   s.app.Name,
		Status:    statusHealthy,
		Timestamp: s.now(),
		Version:   s.app.Version,
		Database:  domain.DatabaseHealth{Status: "connected", Tables: []string{}},
		Uptime:    FormatUptime(s.uptime()),
	}

	if err := s.db.Ping(ctx); err != nil {
		log.Warn().Err(err).Msg("health check: database unreachable")
		health.Status = statusUnhealthy
		health.Database.Status = "disconnected"
		return health
	}

	tables, err := s.db.Tables(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("health check: failed to list tables")
	} else {
		health.Database.Tables = tables
	}

	return health
}

// Info describes the public API
func (s *SystemService) Info() *domain.APIInfo {
	return &domain.APIInfo{
		APIName:     s.app.Name,
		Version:     s.app.Version,
		Description: "API for planning travel in Thailand with tax reduction calculations",
		BaseURL:     s.app.BaseURL,
		Endpoints: map[string]map[string]string{
			"authentication": {
				"POST /v1/users/register": "Register a new user",
				"POST /v1/users/login":    "User login",
				"POST /v1/users/refresh":  "Exchange a refresh token",
				"GET /v1/users/me":        "Get current user info",
			},
			"provinces": {
				"GET /v1/provinces":                  "Get all provinces",
				"GET /v1/provinces/secondary":        "Get secondary provinces",
				"GET /v1/provinces/regions":          "Get all regions",
				"GET /v1/provinces/{id}/tax-benefits": "Calculate tax benefits",
			},
			"travel_plans": {
				"POST /v1/travel-plans":              "Create travel plan",
				"GET /v1/travel-plans":               "Get user's travel plans",
				"PUT /v1/travel-plans/{id}":          "Update travel plan",
				"DELETE /v1/travel-plans/{id}":       "Delete travel plan",
				"GET /v1/travel-plans/{id}/tax-info": "Get tax information for a plan",
			},
		},
		Authentication: map[string]string{
			"type":              "Bearer Token (JWT)",
			"login_endpoint":    "/v1/users/login",
			"register_endpoint": "/v1/users/register",
		},
		RateLimits: map[string]string{
			"authenticated": "per-user limit per minute, see X-RateLimit-* headers",
		},
	}
}

// Stats aggregates usage statistics
func (s *SystemService) Stats(ctx context.Context) (*domain.Stats, error) {
	totals, err := s.statsRepo.Totals(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load totals: %w", err)
	}

	popular, err := s.statsRepo.PopularProvinces(ctx, popularLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load popular provinces: %w", err)
	}

	tables := int64(0)
	if names, err := s.db.Tables(ctx); err == nil {
		tables = int64(len(names))
	}

	return &domain.Stats{
		TotalUsers:                totals.Users,
		TotalProvinces:            totals.Provinces,
		TotalTravelPlans:          totals.TravelPlans,
		TotalTaxSavingsCalculated: totals.EstimatedTaxReduction,
		MostPopularProvinces:      popular,
		UserActivityStats: map[string]int{
			"active_users":     totals.ActiveUsers,
			"users_with_plans": totals.UsersWithPlans,
		},
		SystemStats: map[string]int64{
			"server_uptime_seconds": int64(s.uptime().Seconds()),
			"database_tables":       tables,
		},
		LastUpdated: s.now(),
	}, nil
}

func (s *SystemService) uptime() time.Duration {
	d := s.now().Sub(s.startedAt)
	if d < 0 {
		return 0
	}
	return d
}

// FormatUptime renders d as "D days, H hours, M minutes"
func FormatUptime(d time.Duration) string {
	total := int64(d / time.Minute)
	days := total / (24 * 60)
	hours := (total % (24 * 60)) / 60
	minutes := total % 60
	return fmt.Sprintf("%d days, %d hours, %d minutes", days, hours, minutes)
}
