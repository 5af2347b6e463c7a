package calculation

import (
	"github.com/shopspring/decimal"
	"github.com/thomasyao15/retirement-income-calc/internal/domain"
)

var (
	oneHundred   = decimal.NewFromInt(100)
	oneThousand  = decimal.NewFromInt(1000)
	defaultRules = domain.DefaultAgePensionRules()
)

// AgePensionCalculator applies the Age Pension means tests and the income product rules.
// Every method is pure; the rules are read-only after construction.
type AgePensionCalculator struct {
	Rules domain.AgePensionRules
}

// NewAgePensionCalculator creates a calculator with the built-in rules
func NewAgePensionCalculator() *AgePensionCalculator {
	return NewAgePensionCalculatorWithConfig(defaultRules)
}

// NewAgePensionCalculatorWithConfig creates a calculator with configurable rules
func NewAgePensionCalculatorWithConfig(rules domain.AgePensionRules) *AgePensionCalculator {
	return &AgePensionCalculator{Rules: rules.Normalized()}
}

// FortnightsPerYear returns the configured number of pension payments per year
func (apc *AgePensionCalculator) FortnightsPerYear() decimal.Decimal {
	if apc.Rules.FortnightsPerYear <= 0 {
		return decimal.NewFromInt(26)
	}
	return decimal.NewFromInt(int64(apc.Rules.FortnightsPerYear))
}

// FortnightlyToAnnual converts a fortnightly amount to an annual one
func (apc *AgePensionCalculator) FortnightlyToAnnual(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(apc.FortnightsPerYear())
}

// AnnualToFortnightly converts an annual amount to a fortnightly one
func (apc *AgePensionCalculator) AnnualToFortnightly(amount decimal.Decimal) decimal.Decimal {
	return amount.Div(apc.FortnightsPerYear())
}

// FullPensionAnnual returns the maximum annual pension for a relationship status
func (apc *AgePensionCalculator) FullPensionAnnual(status domain.RelationshipStatus) decimal.Decimal {
	return apc.FortnightlyToAnnual(apc.Rules.FullPension.For(status))
}

// CalculateIncomeTest returns the annual pension allowed by the income test.
// Income above the free area reduces the fortnightly pension by the taper rate.
func (apc *AgePensionCalculator) CalculateIncomeTest(incomePerFortnight decimal.Decimal, status domain.RelationshipStatus) decimal.Decimal {
	fullPension := apc.Rules.FullPension.For(status)
	freeArea := apc.Rules.IncomeFreeArea.For(status)

	reduction := decimal.Zero
	if incomePerFortnight.GreaterThan(freeArea) {
		reduction = incomePerFortnight.Sub(freeArea).Mul(apc.Rules.IncomeTaperRate)
	}

	fortnightly := decimal.Max(fullPension.Sub(reduction), decimal.Zero)
	return apc.FortnightlyToAnnual(fortnightly)
}

// CalculateAssetTest returns the annual pension allowed by the assets test.
// Full pension at or below the lower threshold, nothing at or above the upper threshold,
// and a linear taper per $1,000 in between.
func (apc *AgePensionCalculator) CalculateAssetTest(totalAssets decimal.Decimal, status domain.RelationshipStatus, homeOwner bool) decimal.Decimal {
	fullPension := apc.Rules.FullPension.For(status)
	lower := apc.Rules.AssetLower.For(status, homeOwner)
	upper := apc.Rules.AssetUpper.For(status, homeOwner)

	switch {
	case totalAssets.LessThanOrEqual(lower):
		return apc.FortnightlyToAnnual(fullPension)
	case totalAssets.GreaterThanOrEqual(upper):
		return decimal.Zero
	}

	reduction := totalAssets.Sub(lower).Div(oneThousand).Mul(apc.Rules.AssetTaperPer1000)
	fortnightly := decimal.Max(fullPension.Sub(reduction), decimal.Zero)
	return apc.FortnightlyToAnnual(fortnightly)
}

// CalculatePension runs both means tests and keeps the lower result
func (apc *AgePensionCalculator) CalculatePension(input domain.PensionInput) domain.PensionResult {
	incomeTest := apc.CalculateIncomeTest(input.IncomePerFortnight, input.RelationshipStatus)
	assetTest := apc.CalculateAssetTest(input.TotalAssets, input.RelationshipStatus, input.HomeOwner)
	finalPension := decimal.Min(incomeTest, assetTest)

	percentage := decimal.Zero
	if fullAnnual := apc.FullPensionAnnual(input.RelationshipStatus); fullAnnual.IsPositive() {
		percentage = finalPension.Div(fullAnnual).Mul(oneHundred)
	}
	percentage = decimal.Min(decimal.Max(percentage, decimal.Zero), oneHundred)

	return domain.PensionResult{
		IncomeTestPension: incomeTest,
		AssetTestPension:  assetTest,
		FinalPension:      finalPension,
		PensionPercentage: percentage,
		Eligibility:       domain.EligibilityFor(percentage),
	}
}

// CalculateAdjustedPension re-runs the means tests after excluding part of the
// lifetime income purchase from assessable assets
func (apc *AgePensionCalculator) CalculateAdjustedPension(input domain.PensionInput, lifetimeAmount decimal.Decimal) domain.PensionResult {
	adjusted := input
	adjusted.TotalAssets = apc.ApplyLifetimeDiscount(input.TotalAssets, lifetimeAmount)
	return apc.CalculatePension(adjusted)
}
