package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TravelPlanStatus is the lifecycle state of a travel plan
type TravelPlanStatus string

const (
	StatusPlanned   TravelPlanStatus = "planned"
	StatusOngoing   TravelPlanStatus = "ongoing"
	StatusConfirmed TravelPlanStatus = "confirmed"
	StatusCompleted TravelPlanStatus = "completed"
	StatusCancelled TravelPlanStatus = "cancelled"
)

// IsUpcoming reports whether a plan in this status still counts as a future trip
func (s TravelPlanStatus) IsUpcoming() bool {
	return s == StatusPlanned || s == StatusConfirmed
}

// TravelPlan is a user-owned trip to a province
type TravelPlan struct {
	ID                    uuid.UUID        `json:"id"`
	UserID                uuid.UUID        `json:"user_id"`
	ProvinceID            int              `json:"province_id"`
	StartDate             time.Time        `json:"start_date"`
	EndDate               time.Time        `json:"end_date"`
	Budget                *decimal.Decimal `json:"budget"`
	EstimatedTaxReduction *decimal.Decimal `json:"estimated_tax_reduction"`
	Status                TravelPlanStatus `json:"status"`
	Notes                 *string          `json:"notes"`
	CreatedAt             time.Time        `json:"created_at"`
	UpdatedAt             *time.Time       `json:"updated_at,omitempty"`
}

// TravelPlanDetail is a travel plan together with its province
type TravelPlanDetail struct {
	TravelPlan
	Province Province `json:"province"`
}

// TravelPlanTaxInfo adds the realised savings of a completed trip
type TravelPlanTaxInfo struct {
	TravelPlanDetail
	ActualTaxSavings *decimal.Decimal `json:"actual_tax_savings"`
}

// TravelPlanCreate represents travel plan creation data
type TravelPlanCreate struct {
	ProvinceID int              `json:"province_id" validate:"required,gt=0"`
	StartDate  Timestamp        `json:"start_date"`
	EndDate    Timestamp        `json:"end_date"`
	Budget     *decimal.Decimal `json:"budget,omitempty"`
	Notes      *string          `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// TravelPlanPatch holds the fields a caller explicitly supplied on update.
// A nil field is left untouched.
type TravelPlanPatch struct {
	StartDate *Timestamp       `json:"start_date,omitempty"`
	EndDate   *Timestamp       `json:"end_date,omitempty"`
	Budget    *decimal.Decimal `json:"budget,omitempty"`
	Status    *string          `json:"status,omitempty" validate:"omitempty,oneof=planned ongoing confirmed completed cancelled"`
	Notes     *string          `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// Apply merges the supplied fields into p and reports which fields changed
func (patch TravelPlanPatch) Apply(p *TravelPlan) []string {
	updated := []string{}
	if patch.StartDate != nil {
		p.StartDate = patch.StartDate.Time
		updated = append(updated, "start_date")
	}
	if patch.EndDate != nil {
		p.EndDate = patch.EndDate.Time
		updated = append(updated, "end_date")
	}
	if patch.Budget != nil {
		budget := *patch.Budget
		p.Budget = &budget
		updated = append(updated, "budget")
	}
	if patch.Status != nil {
		p.Status = TravelPlanStatus(*patch.Status)
		updated = append(updated, "status")
	}
	if patch.Notes != nil {
		notes := *patch.Notes
		p.Notes = &notes
		updated = append(updated, "notes")
	}
	return updated
}

// TravelPlanTaxBenefits summarises the benefit of a newly created plan
type TravelPlanTaxBenefits struct {
	EstimatedReduction  decimal.Decimal `json:"estimated_reduction"`
	TaxRate             decimal.Decimal `json:"tax_rate"`
	IsSecondaryProvince bool            `json:"is_secondary_province"`
}

// TravelPlanCreation is returned after a plan is created
type TravelPlanCreation struct {
	TravelPlan  TravelPlanDetail      `json:"travel_plan"`
	Message     string                `json:"message"`
	TaxBenefits TravelPlanTaxBenefits `json:"tax_benefits"`
	Suggestions []string              `json:"suggestions"`
	NextSteps   []string              `json:"next_steps"`
}

// TravelPlanUpdate is returned after a plan is changed
type TravelPlanUpdate struct {
	TravelPlanDetail
	UpdatedFields []string `json:"updated_fields"`
}

// TravelPlanList is the owner's plans plus summary figures
type TravelPlanList struct {
	TravelPlans           []TravelPlanDetail `json:"travel_plans"`
	TotalCount            int                `json:"total_count"`
	TotalEstimatedSavings decimal.Decimal    `json:"total_estimated_savings"`
	PlansByStatus         map[string]int     `json:"plans_by_status"`
	UpcomingTrips         []TravelPlanDetail `json:"upcoming_trips"`
}

// TravelPlanRepository defines the persistence operations for travel plans
type TravelPlanRepository interface {
	Create(ctx context.Context, plan *TravelPlan) error
	GetByID(ctx context.Context, id uuid.UUID) (*TravelPlan, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, status string) ([]TravelPlanDetail, error)
	Update(ctx context.Context, plan *TravelPlan) error
	DeleteOwned(ctx context.Context, id, ownerID uuid.UUID) (bool, error)
}
