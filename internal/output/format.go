package output

import (
	"github.com/shopspring/decimal"
	"github.com/thomasyao15/retirement-income-calc/internal/domain"
)

// FormatCurrency formats a decimal as currency
func FormatCurrency(amount decimal.Decimal) string {
	return "$" + amount.StringFixed(2)
}

// FormatPercentage formats a decimal as percentage
func FormatPercentage(amount decimal.Decimal) string {
	return amount.StringFixed(2) + "%"
}

// Recommendation identifies the scenario with the highest total retirement income
type Recommendation struct {
	ScenarioName     string
	Product          domain.Product
	TotalIncome      decimal.Decimal
	SafetyNet        decimal.Decimal
	IncomeChange     decimal.Decimal // against the first scenario
	PercentageChange decimal.Decimal
}

// AnalyzeScenarios picks the best scenario by total retirement income. With
// fewer than two scenarios there is nothing to recommend and the zero value is returned.
func AnalyzeScenarios(results *domain.ScenarioComparison) Recommendation {
	if results == nil || len(results.Scenarios) < 2 {
		return Recommendation{}
	}

	first := results.Scenarios[0].Results
	if first == nil {
		return Recommendation{}
	}

	best := results.Scenarios[0]
	for _, sc := range results.Scenarios[1:] {
		if sc.Results == nil {
			continue
		}
		if sc.Results.TotalRetirementIncome.GreaterThan(best.Results.TotalRetirementIncome) {
			best = sc
		}
	}

	change := best.Results.TotalRetirementIncome.Sub(first.TotalRetirementIncome)
	pct := decimal.Zero
	if !first.TotalRetirementIncome.IsZero() {
		pct = change.Div(first.TotalRetirementIncome).Mul(decimal.NewFromInt(100))
	}

	return Recommendation{
		ScenarioName:     best.Name,
		Product:          best.Results.RecommendedProduct,
		TotalIncome:      best.Results.TotalRetirementIncome,
		SafetyNet:        best.Results.SafetyNetAmount,
		IncomeChange:     change,
		PercentageChange: pct,
	}
}

func assumptionsFor(results *domain.ScenarioComparison) []string {
	if len(results.Assumptions) > 0 {
		return results.Assumptions
	}
	return DefaultAssumptions
}
