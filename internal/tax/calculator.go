// Package tax computes travel tax reductions from province rates.
//
// All arithmetic is exact decimal arithmetic; rates are percentages in [0, 100].
package tax

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/Rrens/thai-travel-share/internal/domain"
)

// ComparisonLimit is the number of provinces shown in a tax-benefit comparison
const ComparisonLimit = 10

var (
	hundred = decimal.NewFromInt(100)
	twelve  = decimal.NewFromInt(12)
)

// Estimate returns budget * ratePercent / 100
func Estimate(budget, ratePercent decimal.Decimal) decimal.Decimal {
	return budget.Mul(ratePercent).Div(hundred)
}

// EstimateOptional is Estimate for an optional budget. A nil budget yields nil.
func EstimateOptional(budget *decimal.Decimal, ratePercent decimal.Decimal) *decimal.Decimal {
	if budget == nil {
		return nil
	}
	estimate := Estimate(*budget, ratePercent)
	return &estimate
}

// RateFraction converts a percentage into a fraction, e.g. 15 -> 0.15
func RateFraction(ratePercent decimal.Decimal) decimal.Decimal {
	return ratePercent.Div(hundred)
}

// Compare estimates budget against every candidate and measures each against
// the reference province. Rows are ordered by estimate, highest first; ties
// keep candidate order.
func Compare(budget decimal.Decimal, reference domain.Province, candidates []domain.Province) []domain.ProvinceComparison {
	base := Estimate(budget, reference.TaxReductionPercentage)

	rows := make([]domain.ProvinceComparison, 0, len(candidates))
	for _, p := range candidates {
		estimate := Estimate(budget, p.TaxReductionPercentage)
		difference := estimate.Sub(base)
		rows = append(rows, domain.ProvinceComparison{
			ProvinceID:             p.ID,
			ProvinceName:           p.NameTH,
			TaxReductionPercentage: p.TaxReductionPercentage,
			EstimatedReduction:     estimate,
			Difference:             difference,
			IsBetter:               difference.IsPositive(),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].EstimatedReduction.GreaterThan(rows[j].EstimatedReduction)
	})

	return rows
}

// Top returns at most n leading comparisons
func Top(rows []domain.ProvinceComparison, n int) []domain.ProvinceComparison {
	if n < 0 {
		n = 0
	}
	if len(rows) > n {
		return rows[:n]
	}
	return rows
}

// ActualSavings is the realised reduction of a trip. It is only known once the
// trip is completed and has a budget.
func ActualSavings(budget *decimal.Decimal, ratePercent decimal.Decimal, status domain.TravelPlanStatus) *decimal.Decimal {
	if status != domain.StatusCompleted {
		return nil
	}
	return EstimateOptional(budget, ratePercent)
}

// MonthlySavings spreads an estimate over twelve months
func MonthlySavings(estimate decimal.Decimal) decimal.Decimal {
	return estimate.Div(twelve)
}

// Savings builds the savings breakdown shown next to a tax-benefit estimate
func Savings(estimate decimal.Decimal, province domain.Province) domain.SavingsInfo {
	return domain.SavingsInfo{
		MonthlySavings:             MonthlySavings(estimate),
		AnnualPotential:            estimate,
		IsSecondaryProvinceBenefit: province.IsSecondaryProvince,
	}
}
