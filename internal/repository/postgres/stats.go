package postgres

import (
	"context"
	"fmt"

	"github.com/Rrens/thai-travel-share/internal/domain"
)

// StatsRepository runs aggregate queries for the system endpoints
type StatsRepository struct {
	db *DB
}

// NewStatsRepository creates a new stats repository
func NewStatsRepository(db *DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// Totals counts rows across users, provinces and travel plans
func (r *StatsRepository) Totals(ctx context.Context) (*domain.Totals, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM users WHERE is_active),
			(SELECT COUNT(DISTINCT user_id) FROM travel_plans),
			(SELECT COUNT(*) FROM provinces),
			(SELECT COUNT(*) FROM travel_plans),
			(SELECT COALESCE(SUM(estimated_tax_reduction), 0) FROM travel_plans)
	`

	var t domain.Totals
	err := r.db.q(ctx).QueryRow(ctx, query).Scan(
		&t.Users,
		&t.ActiveUsers,
		&t.UsersWithPlans,
		&t.Provinces,
		&t.TravelPlans,
		&t.EstimatedTaxReduction,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to count totals: %w", err)
	}

	return &t, nil
}

// PopularProvinces ranks provinces by number of travel plans
func (r *StatsRepository) PopularProvinces(ctx context.Context, limit int) ([]domain.PopularProvince, error) {
	query := `
		SELECT p.id, p.name_th, p.name_en, COUNT(tp.id) AS plan_count
		FROM provinces p
		INNER JOIN travel_plans tp ON tp.province_id = p.id
		GROUP BY p.id, p.name_th, p.name_en
		ORDER BY plan_count DESC, p.id
		LIMIT $1
	`

	rows, err := r.db.q(ctx).Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to rank provinces: %w", err)
	}
	defer rows.Close()

	popular := []domain.PopularProvince{}
	for rows.Next() {
		var p domain.PopularProvince
		if err := rows.Scan(&p.ProvinceID, &p.NameTH, &p.NameEN, &p.TravelPlanCount); err != nil {
			return nil, fmt.Errorf("failed to scan popular province: %w", err)
		}
		popular = append(popular, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to rank provinces: %w", err)
	}

	return popular, nil
}
