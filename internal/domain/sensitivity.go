package domain

import (
	"github.com/shopspring/decimal"
)

// Sensitivity parameters that can be swept
const (
	ParamSuperBalance    = "super_balance"
	ParamNonSuperAssets  = "non_super_assets"
	ParamCombinedIncome  = "combined_income"
	ParamAge             = "age"
	ParamRetirementYears = "retirement_years"
)

// SensitivityParameters lists every sweepable parameter
var SensitivityParameters = []string{
	ParamSuperBalance,
	ParamNonSuperAssets,
	ParamCombinedIncome,
	ParamAge,
	ParamRetirementYears,
}

// SensitivityParameter represents a parameter to sweep in sensitivity analysis
type SensitivityParameter struct {
	Name     string          `yaml:"name" json:"name"`
	MinValue decimal.Decimal `yaml:"min_value" json:"minValue"`
	MaxValue decimal.Decimal `yaml:"max_value" json:"maxValue"`
	Steps    int             `yaml:"steps" json:"steps"`
}

// SensitivityPoint is the outcome at one parameter value
type SensitivityPoint struct {
	Value                 decimal.Decimal `json:"value"`
	RecommendedProduct    Product         `json:"recommendedProduct"`
	InitialPension        decimal.Decimal `json:"initialPension"`
	AdjustedPension       decimal.Decimal `json:"adjustedPension"`
	PensionIncrease       decimal.Decimal `json:"pensionIncrease"`
	TotalRetirementIncome decimal.Decimal `json:"totalRetirementIncome"`
	Eligibility           Eligibility     `json:"eligibility"`
}

// ProductChange marks where the recommended product switches between two sweep points
type ProductChange struct {
	From      Product         `json:"from"`
	To        Product         `json:"to"`
	FromValue decimal.Decimal `json:"fromValue"`
	ToValue   decimal.Decimal `json:"toValue"`
}

// SensitivityAnalysis is a complete single-parameter sweep
type SensitivityAnalysis struct {
	ScenarioName   string               `json:"scenarioName"`
	Parameter      SensitivityParameter `json:"parameter"`
	Points         []SensitivityPoint   `json:"points"`
	ProductChanges []ProductChange      `json:"productChanges"`
	BestValue      decimal.Decimal      `json:"bestValue"` // value with the highest total income
	BestIncome     decimal.Decimal      `json:"bestIncome"`
	IncomeRange    decimal.Decimal      `json:"incomeRange"` // max - min total income across the sweep
}
