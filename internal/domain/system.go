package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Health reports service and database status
type Health struct {
	Service   string         `json:"service"`
	Status    string         `json:"status"`
	Timestamp time.Time      `json:"timestamp"`
	Version   string         `json:"version"`
	Database  DatabaseHealth `json:"database"`
	Uptime    string         `json:"uptime"`
}

// DatabaseHealth is the database part of a health report
type DatabaseHealth struct {
	Status string   `json:"status"`
	Tables []string `json:"tables"`
}

// Totals are row counts across the main tables
type Totals struct {
	Users                 int             `json:"total_users"`
	ActiveUsers           int             `json:"active_users"`
	UsersWithPlans        int             `json:"users_with_plans"`
	Provinces             int             `json:"total_provinces"`
	TravelPlans           int             `json:"total_travel_plans"`
	EstimatedTaxReduction decimal.Decimal `json:"total_tax_savings_calculated"`
}

// PopularProvince is a province ranked by how many plans target it
type PopularProvince struct {
	ProvinceID      int    `json:"province_id"`
	NameTH          string `json:"name_th"`
	NameEN          string `json:"name_en"`
	TravelPlanCount int    `json:"travel_plan_count"`
}

// Stats is the API usage summary
type Stats struct {
	TotalUsers                int               `json:"total_users"`
	TotalProvinces            int               `json:"total_provinces"`
	TotalTravelPlans          int               `json:"total_travel_plans"`
	TotalTaxSavingsCalculated decimal.Decimal   `json:"total_tax_savings_calculated"`
	MostPopularProvinces      []PopularProvince `json:"most_popular_provinces"`
	UserActivityStats         map[string]int    `json:"user_activity_stats"`
	SystemStats               map[string]int64  `json:"system_stats"`
	LastUpdated               time.Time         `json:"last_updated"`
}

// StatsRepository exposes aggregate queries
type StatsRepository interface {
	Totals(ctx context.Context) (*Totals, error)
	PopularProvinces(ctx context.Context, limit int) ([]PopularProvince, error)
}

// APIInfo describes the API surface for the info endpoint
type APIInfo struct {
	APIName        string                       `json:"api_name"`
	Version        string                       `json:"version"`
	Description    string                       `json:"description"`
	BaseURL        string                       `json:"base_url"`
	Endpoints      map[string]map[string]string `json:"endpoints"`
	Authentication map[string]string            `json:"authentication"`
	RateLimits     map[string]string            `json:"rate_limits"`
}
