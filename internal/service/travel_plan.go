package service

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Rrens/thai-travel-share/internal/domain"
	"github.com/Rrens/thai-travel-share/internal/tax"
)

const maxUpcomingTrips = 5

// maxBudget is the exclusive upper bound on a plan budget
var maxBudget = decimal.New(1, 12)

var travelPlanNextSteps = []string{
	"Review your itinerary",
	"Book accommodations",
	"Prepare necessary documents",
	"Check weather conditions",
}

var validStatuses = []domain.TravelPlanStatus{
	domain.StatusPlanned,
	domain.StatusOngoing,
	domain.StatusConfirmed,
	domain.StatusCompleted,
	domain.StatusCancelled,
}

// TravelPlanService manages travel plans. Every operation is scoped to the
// calling user; plans owned by someone else are reported as not found.
type TravelPlanService struct {
	planRepo     domain.TravelPlanRepository
	provinceRepo domain.ProvinceRepository
	tx           Transactor
	now          Clock
}

// NewTravelPlanService creates a new travel plan service
func NewTravelPlanService(
	planRepo domain.TravelPlanRepository,
	provinceRepo domain.ProvinceRepository,
	tx Transactor,
) *TravelPlanService {
	return &TravelPlanService{
		planRepo:     planRepo,
		provinceRepo: provinceRepo,
		tx:           tx,
		now:          utcNow,
	}
}

// Create creates a plan for ownerID and estimates its tax reduction
func (s *TravelPlanService) Create(ctx context.Context, ownerID uuid.UUID, input domain.TravelPlanCreate) (*domain.TravelPlanCreation, error) {
	if input.StartDate.IsZero() {
		return nil, domain.NewValidationError("start_date", "Start date is required")
	}
	if input.EndDate.IsZero() {
		return nil, domain.NewValidationError("end_date", "End date is required")
	}
	if err := validatePlan(input.StartDate.Time, input.EndDate.Time, input.Budget); err != nil {
		return nil, err
	}

	var result *domain.TravelPlanCreation
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		province, err := s.province(ctx, input.ProvinceID)
		if err != nil {
			return err
		}

		plan := &domain.TravelPlan{
			ID:                    uuid.New(),
			UserID:                ownerID,
			ProvinceID:            province.ID,
			StartDate:             input.StartDate.Time,
			EndDate:               input.EndDate.Time,
			Budget:                input.Budget,
			EstimatedTaxReduction: tax.EstimateOptional(input.Budget, province.TaxReductionPercentage),
			Status:                domain.StatusPlanned,
			Notes:                 input.Notes,
			CreatedAt:             s.now(),
		}

		if err := s.planRepo.Create(ctx, plan); err != nil {
			return err
		}

		estimate := decimal.Zero
		if plan.EstimatedTaxReduction != nil {
			estimate = *plan.EstimatedTaxReduction
		}

		result = &domain.TravelPlanCreation{
			TravelPlan: domain.TravelPlanDetail{TravelPlan: *plan, Province: *province},
			Message:    "Travel plan created successfully",
			TaxBenefits: domain.TravelPlanTaxBenefits{
				EstimatedReduction:  estimate,
				TaxRate:             province.TaxReductionPercentage,
				IsSecondaryProvince: province.IsSecondaryProvince,
			},
			Suggestions: []string{
				fmt.Sprintf("Visit %s during off-peak season for better deals", province.NameTH),
				"Consider extending your stay to maximize tax benefits",
				"Keep all receipts for tax deduction claims",
			},
			NextSteps: travelPlanNextSteps,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// List returns the owner's plans, newest first, with summary figures.
// An empty status matches every plan.
func (s *TravelPlanService) List(ctx context.Context, ownerID uuid.UUID, status string) (*domain.TravelPlanList, error) {
	if status != "" && !slices.Contains(validStatuses, domain.TravelPlanStatus(status)) {
		return nil, domain.NewValidationError("status", "Unknown travel plan status")
	}

	plans, err := s.planRepo.ListByOwner(ctx, ownerID, status)
	if err != nil {
		return nil, err
	}

	now := s.now()
	total := decimal.Zero
	byStatus := map[string]int{}
	upcoming := []domain.TravelPlanDetail{}

	for _, p := range plans {
		if p.EstimatedTaxReduction != nil {
			total = total.Add(*p.EstimatedTaxReduction)
		}
		byStatus[string(p.Status)]++
		if p.Status.IsUpcoming() && p.StartDate.After(now) && len(upcoming) < maxUpcomingTrips {
			upcoming = append(upcoming, p)
		}
	}

	return &domain.TravelPlanList{
		TravelPlans:           plans,
		TotalCount:            len(plans),
		TotalEstimatedSavings: total,
		PlansByStatus:         byStatus,
		UpcomingTrips:         upcoming,
	}, nil
}

// Get returns one of the owner's plans with its province
func (s *TravelPlanService) Get(ctx context.Context, ownerID, planID uuid.UUID) (*domain.TravelPlanDetail, error) {
	plan, err := s.owned(ctx, ownerID, planID)
	if err != nil {
		return nil, err
	}

	province, err := s.province(ctx, plan.ProvinceID)
	if err != nil {
		return nil, err
	}

	return &domain.TravelPlanDetail{TravelPlan: *plan, Province: *province}, nil
}

// Update applies patch to one of the owner's plans. A changed budget
// re-estimates the tax reduction.
func (s *TravelPlanService) Update(ctx context.Context, ownerID, planID uuid.UUID, patch domain.TravelPlanPatch) (*domain.TravelPlanUpdate, error) {
	var result *domain.TravelPlanUpdate
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		plan, err := s.owned(ctx, ownerID, planID)
		if err != nil {
			return err
		}

		province, err := s.province(ctx, plan.ProvinceID)
		if err != nil {
			return err
		}

		updated := patch.Apply(plan)
		if err := validatePlan(plan.StartDate, plan.EndDate, plan.Budget); err != nil {
			return err
		}
		if !slices.Contains(validStatuses, plan.Status) {
			return domain.NewValidationError("status", "Unknown travel plan status")
		}

		if patch.Budget != nil {
			plan.EstimatedTaxReduction = tax.EstimateOptional(plan.Budget, province.TaxReductionPercentage)
		}

		now := s.now()
		plan.UpdatedAt = &now

		if err := s.planRepo.Update(ctx, plan); err != nil {
			return err
		}

		result = &domain.TravelPlanUpdate{
			TravelPlanDetail: domain.TravelPlanDetail{TravelPlan: *plan, Province: *province},
			UpdatedFields:    updated,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// Delete removes one of the owner's plans
func (s *TravelPlanService) Delete(ctx context.Context, ownerID, planID uuid.UUID) error {
	deleted, err := s.planRepo.DeleteOwned(ctx, planID, ownerID)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrTravelPlanNotFound
	}
	return nil
}

// TaxInfo returns a plan with its realised savings, known once it is completed
func (s *TravelPlanService) TaxInfo(ctx context.Context, ownerID, planID uuid.UUID) (*domain.TravelPlanTaxInfo, error) {
	detail, err := s.Get(ctx, ownerID, planID)
	if err != nil {
		return nil, err
	}

	return &domain.TravelPlanTaxInfo{
		TravelPlanDetail: *detail,
		ActualTaxSavings: tax.ActualSavings(detail.Budget, detail.Province.TaxReductionPercentage, detail.Status),
	}, nil
}

func (s *TravelPlanService) owned(ctx context.Context, ownerID, planID uuid.UUID) (*domain.TravelPlan, error) {
	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan == nil || plan.UserID != ownerID {
		return nil, domain.ErrTravelPlanNotFound
	}
	return plan, nil
}

func (s *TravelPlanService) province(ctx context.Context, id int) (*domain.Province, error) {
	province, err := s.provinceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get province: %w", err)
	}
	if province == nil {
		return nil, domain.ErrProvinceNotFound
	}
	return province, nil
}

func validatePlan(start, end time.Time, budget *decimal.Decimal) error {
	if end.Before(start) {
		return domain.NewValidationError("end_date", "End date must not be before start date")
	}
	if budget == nil {
		return nil
	}
	switch {
	case budget.IsNegative():
		return domain.NewValidationError("budget", "Budget must not be negative")
	case !budget.Equal(budget.Truncate(2)):
		return domain.NewValidationError("budget", "Budget must have at most 2 decimal places")
	case budget.GreaterThanOrEqual(maxBudget):
		return domain.NewValidationError("budget", "Budget must be less than "+maxBudget.String())
	}
	return nil
}
