package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/Rrens/thai-travel-share/internal/domain"
)

const travelPlanColumns = `
	tp.id, tp.user_id, tp.province_id, tp.start_date, tp.end_date, tp.budget,
	tp.estimated_tax_reduction, tp.status, tp.notes, tp.created_at, tp.updated_at
`

// TravelPlanRepository handles travel plan data access
type TravelPlanRepository struct {
	db *DB
}

// NewTravelPlanRepository creates a new travel plan repository
func NewTravelPlanRepository(db *DB) *TravelPlanRepository {
	return &TravelPlanRepository{db: db}
}

// Create creates a new travel plan
func (r *TravelPlanRepository) Create(ctx context.Context, plan *domain.TravelPlan) error {
	query := `
		INSERT INTO travel_plans (
			id, user_id, province_id, start_date, end_date, budget,
			estimated_tax_reduction, status, notes, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.q(ctx).Exec(ctx, query,
		plan.ID,
		plan.UserID,
		plan.ProvinceID,
		plan.StartDate,
		plan.EndDate,
		plan.Budget,
		plan.EstimatedTaxReduction,
		string(plan.Status),
		plan.Notes,
		plan.CreatedAt,
		plan.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create travel plan: %w", err)
	}

	return nil
}

// GetByID retrieves a travel plan by ID regardless of owner
func (r *TravelPlanRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.TravelPlan, error) {
	query := `SELECT ` + travelPlanColumns + ` FROM travel_plans tp WHERE tp.id = $1`

	var plan domain.TravelPlan
	if err := scanTravelPlan(r.db.q(ctx).QueryRow(ctx, query, id), &plan); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get travel plan: %w", err)
	}

	return &plan, nil
}

// ListByOwner returns the owner's plans with their provinces, newest first.
// An empty status matches every status.
func (r *TravelPlanRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, status string) ([]domain.TravelPlanDetail, error) {
	query := `
		SELECT ` + travelPlanColumns + `,
			p.id, p.name_th, p.name_en, p.region, p.is_secondary_province,
			p.tax_reduction_percentage, p.description
		FROM travel_plans tp
		INNER JOIN provinces p ON p.id = tp.province_id
		WHERE tp.user_id = $1 AND ($2::text = '' OR tp.status = $2::text)
		ORDER BY tp.created_at DESC
	`

	rows, err := r.db.q(ctx).Query(ctx, query, ownerID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list travel plans: %w", err)
	}
	defer rows.Close()

	plans := []domain.TravelPlanDetail{}
	for rows.Next() {
		var d domain.TravelPlanDetail
		var start, end time.Time
		var budget, estimate decimal.NullDecimal
		var status string

		if err := rows.Scan(
			&d.ID, &d.UserID, &d.ProvinceID, &start, &end, &budget,
			&estimate, &status, &d.Notes, &d.CreatedAt, &d.UpdatedAt,
			&d.Province.ID, &d.Province.NameTH, &d.Province.NameEN, &d.Province.Region,
			&d.Province.IsSecondaryProvince, &d.Province.TaxReductionPercentage, &d.Province.Description,
		); err != nil {
			return nil, fmt.Errorf("failed to scan travel plan: %w", err)
		}

		d.StartDate = start.UTC()
		d.EndDate = end.UTC()
		d.Budget = nullDecimal(budget)
		d.EstimatedTaxReduction = nullDecimal(estimate)
		d.Status = domain.TravelPlanStatus(status)

		plans = append(plans, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list travel plans: %w", err)
	}

	return plans, nil
}

// Update writes every mutable column of plan
func (r *TravelPlanRepository) Update(ctx context.Context, plan *domain.TravelPlan) error {
	query := `
		UPDATE travel_plans
		SET start_date = $2,
		    end_date = $3,
		    budget = $4,
		    estimated_tax_reduction = $5,
		    status = $6,
		    notes = $7,
		    updated_at = $8
		WHERE id = $1
	`

	tag, err := r.db.q(ctx).Exec(ctx, query,
		plan.ID,
		plan.StartDate,
		plan.EndDate,
		plan.Budget,
		plan.EstimatedTaxReduction,
		string(plan.Status),
		plan.Notes,
		plan.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update travel plan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTravelPlanNotFound
	}

	return nil
}

// DeleteOwned deletes the plan only if ownerID owns it and reports whether a row was removed
func (r *TravelPlanRepository) DeleteOwned(ctx context.Context, id, ownerID uuid.UUID) (bool, error) {
	query := `DELETE FROM travel_plans WHERE id = $1 AND user_id = $2`

	tag, err := r.db.q(ctx).Exec(ctx, query, id, ownerID)
	if err != nil {
		return false, fmt.Errorf("failed to delete travel plan: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

func scanTravelPlan(row pgx.Row, plan *domain.TravelPlan) error {
	var start, end time.Time
	var budget, estimate decimal.NullDecimal
	var status string

	if err := row.Scan(
		&plan.ID, &plan.UserID, &plan.ProvinceID, &start, &end, &budget,
		&estimate, &status, &plan.Notes, &plan.CreatedAt, &plan.UpdatedAt,
	); err != nil {
		return err
	}

	plan.StartDate = start.UTC()
	plan.EndDate = end.UTC()
	plan.Budget = nullDecimal(budget)
	plan.EstimatedTaxReduction = nullDecimal(estimate)
	plan.Status = domain.TravelPlanStatus(status)
	return nil
}

func nullDecimal(n decimal.NullDecimal) *decimal.Decimal {
	if !n.Valid {
		return nil
	}
	d := n.Decimal
	return &d
}
