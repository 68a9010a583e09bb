package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// Province is a catalog entry carrying a tax-reduction rate
type Province struct {
	ID                     int             `json:"id"`
	NameTH                 string          `json:"name_th"`
	NameEN                 string          `json:"name_en"`
	Region                 string          `json:"region"`
	IsSecondaryProvince    bool            `json:"is_secondary_province"`
	TaxReductionPercentage decimal.Decimal `json:"tax_reduction_percentage"`
	Description            *string         `json:"description"`
}

// ProvinceFilter narrows a province listing
type ProvinceFilter struct {
	Region        string
	SecondaryOnly *bool
}

// ProvinceList is the response for a province listing
type ProvinceList struct {
	Provinces              []Province     `json:"provinces"`
	TotalCount             int            `json:"total_count"`
	SecondaryProvinceCount int            `json:"secondary_province_count"`
	Regions                []string       `json:"regions"`
	Metadata               map[string]any `json:"metadata"`
}

// SecondaryProvinces summarises the provinces with promotional rates
type SecondaryProvinces struct {
	Provinces                []Province        `json:"provinces"`
	TotalCount               int               `json:"total_count"`
	AverageTaxReduction      decimal.Decimal   `json:"average_tax_reduction"`
	HighestReductionProvince *Province         `json:"highest_reduction_province"`
	BenefitsSummary          map[string]string `json:"benefits_summary"`
}

// ProvinceComparison is one row of a tax-benefit comparison
type ProvinceComparison struct {
	ProvinceID             int             `json:"province_id"`
	ProvinceName           string          `json:"province_name"`
	TaxReductionPercentage decimal.Decimal `json:"tax_reduction_percentage"`
	EstimatedReduction     decimal.Decimal `json:"estimated_reduction"`
	Difference             decimal.Decimal `json:"difference"`
	IsBetter               bool            `json:"is_better"`
}

// SavingsInfo breaks an estimated reduction down over a year
type SavingsInfo struct {
	MonthlySavings             decimal.Decimal `json:"monthly_savings"`
	AnnualPotential            decimal.Decimal `json:"annual_potential"`
	IsSecondaryProvinceBenefit bool            `json:"is_secondary_province_benefit"`
}

// TaxBenefits is the result of a tax-benefit calculation for one province
type TaxBenefits struct {
	Province                     Province             `json:"province"`
	Budget                       decimal.Decimal      `json:"budget"`
	EstimatedTaxReduction        decimal.Decimal      `json:"estimated_tax_reduction"`
	TaxReductionRate             decimal.Decimal      `json:"tax_reduction_rate"`
	ComparisonWithOtherProvinces []ProvinceComparison `json:"comparison_with_other_provinces"`
	SavingsInfo                  SavingsInfo          `json:"savings_info"`
}

// ProvinceRepository defines read access to the province catalog
type ProvinceRepository interface {
	List(ctx context.Context) ([]Province, error)
	GetByID(ctx context.Context, id int) (*Province, error)
}
