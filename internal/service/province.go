package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/Rrens/thai-travel-share/internal/domain"
	"github.com/Rrens/thai-travel-share/internal/tax"
)

const catalogLastUpdated = "2025-07-13"

// ProvinceService serves the province catalog and tax-benefit calculations
type ProvinceService struct {
	provinceRepo domain.ProvinceRepository
	cache        ProvinceCache
}

// NewProvinceService creates a new province service. cache may be nil.
func NewProvinceService(provinceRepo domain.ProvinceRepository, cache ProvinceCache) *ProvinceService {
	return &ProvinceService{
		provinceRepo: provinceRepo,
		cache:        cache,
	}
}

// List returns the catalog narrowed by filter, highest rate first
func (s *ProvinceService) List(ctx context.Context, filter domain.ProvinceFilter) (*domain.ProvinceList, error) {
	all, err := s.catalog(ctx)
	if err != nil {
		return nil, err
	}

	provinces := make([]domain.Province, 0, len(all))
	secondary := 0
	for _, p := range all {
		if filter.Region != "" && p.Region != filter.Region {
			continue
		}
		if filter.SecondaryOnly != nil && p.IsSecondaryProvince != *filter.SecondaryOnly {
			continue
		}
		if p.IsSecondaryProvince {
			secondary++
		}
		provinces = append(provinces, p)
	}

	var region any
	if filter.Region != "" {
		region = filter.Region
	}

	return &domain.ProvinceList{
		Provinces:              provinces,
		TotalCount:             len(provinces),
		SecondaryProvinceCount: secondary,
		Regions:                regionsOf(provinces),
		Metadata: map[string]any{
			"description":  "List of Thai provinces with tax reduction information",
			"last_updated": catalogLastUpdated,
			"filter_applied": map[string]any{
				"region":         region,
				"secondary_only": filter.SecondaryOnly,
			},
		},
	}, nil
}

// Secondary summarises the secondary provinces
func (s *ProvinceService) Secondary(ctx context.Context) (*domain.SecondaryProvinces, error) {
	all, err := s.catalog(ctx)
	if err != nil {
		return nil, err
	}

	provinces := []domain.Province{}
	for _, p := range all {
		if p.IsSecondaryProvince {
			provinces = append(provinces, p)
		}
	}

	result := &domain.SecondaryProvinces{
		Provinces:           provinces,
		TotalCount:          len(provinces),
		AverageTaxReduction: decimal.Zero,
	}

	low, high := decimal.Zero, decimal.Zero
	if len(provinces) > 0 {
		sum := decimal.Zero
		highest := provinces[0]
		low = provinces[0].TaxReductionPercentage
		for _, p := range provinces {
			rate := p.TaxReductionPercentage
			sum = sum.Add(rate)
			if rate.GreaterThan(highest.TaxReductionPercentage) {
				highest = p
			}
			if rate.LessThan(low) {
				low = rate
			}
		}
		high = highest.TaxReductionPercentage
		result.AverageTaxReduction = sum.Div(decimal.NewFromInt(int64(len(provinces))))
		result.HighestReductionProvince = &highest
	}

	result.BenefitsSummary = map[string]string{
		"total_provinces":      strconv.Itoa(len(provinces)),
		"average_savings_rate": result.AverageTaxReduction.StringFixed(2) + "%",
		"range":                low.StringFixed(2) + "% - " + high.StringFixed(2) + "%",
	}

	return result, nil
}

// Regions returns the distinct regions in alphabetical order
func (s *ProvinceService) Regions(ctx context.Context) ([]string, error) {
	all, err := s.catalog(ctx)
	if err != nil {
		return nil, err
	}
	return regionsOf(all), nil
}

// Get returns a single province
func (s *ProvinceService) Get(ctx context.Context, id int) (*domain.Province, error) {
	province, err := s.provinceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get province: %w", err)
	}
	if province == nil {
		return nil, domain.ErrProvinceNotFound
	}
	return province, nil
}

// TaxBenefits estimates the reduction for budget in the province and compares
// it with the rest of the catalog
func (s *ProvinceService) TaxBenefits(ctx context.Context, id int, budget decimal.Decimal) (*domain.TaxBenefits, error) {
	if budget.IsNegative() {
		return nil, domain.NewValidationError("budget", "Budget must not be negative")
	}

	province, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	all, err := s.catalog(ctx)
	if err != nil {
		return nil, err
	}

	estimate := tax.Estimate(budget, province.TaxReductionPercentage)

	return &domain.TaxBenefits{
		Province:                     *province,
		Budget:                       budget,
		EstimatedTaxReduction:        estimate,
		TaxReductionRate:             tax.RateFraction(province.TaxReductionPercentage),
		ComparisonWithOtherProvinces: tax.Top(tax.Compare(budget, *province, all), tax.ComparisonLimit),
		SavingsInfo:                  tax.Savings(estimate, *province),
	}, nil
}

// catalog returns every province, preferring the cache
func (s *ProvinceService) catalog(ctx context.Context) ([]domain.Province, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("province cache read failed")
		} else if cached != nil {
			return cached, nil
		}
	}

	provinces, err := s.provinceRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list provinces: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, provinces); err != nil {
			log.Warn().Err(err).Msg("province cache write failed")
		}
	}

	return provinces, nil
}

func regionsOf(provinces []domain.Province) []string {
	seen := make(map[string]struct{})
	regions := []string{}
	for _, p := range provinces {
		if _, ok := seen[p.Region]; ok {
			continue
		}
		seen[p.Region] = struct{}{}
		regions = append(regions, p.Region)
	}
	sort.Strings(regions)
	return regions
}
