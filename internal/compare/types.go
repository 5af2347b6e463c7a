package compare

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/thomasyao15/retirement-income-calc/internal/domain"
)

// ComparisonResult represents one product allocation for a household with its key metrics
type ComparisonResult struct {
	Name        string                    `json:"name"`
	Product     domain.Product            `json:"product"`
	Description string                    `json:"description"`
	Results     *domain.RetirementResults `json:"-"`

	// Key Metrics
	ChoiceAmount          decimal.Decimal `json:"choiceAmount"`
	LifetimeAmount        decimal.Decimal `json:"lifetimeAmount"`
	AdjustedPension       decimal.Decimal `json:"adjustedPension"`
	LifetimeIncome        decimal.Decimal `json:"lifetimeIncome"`
	ChoiceIncome          decimal.Decimal `json:"choiceIncome"`
	SafetyNet             decimal.Decimal `json:"safetyNet"`
	TotalRetirementIncome decimal.Decimal `json:"totalRetirementIncome"`

	// Comparison to Base
	IncomeDiffFromBase    decimal.Decimal `json:"incomeDiffFromBase"`
	IncomePctFromBase     decimal.Decimal `json:"incomePctFromBase"`
	PensionDiffFromBase   decimal.Decimal `json:"pensionDiffFromBase"`
	SafetyNetDiffFromBase decimal.Decimal `json:"safetyNetDiffFromBase"`
}

// ComparisonSet compares the recommended product against the alternatives
type ComparisonSet struct {
	ScenarioName       string             `json:"scenarioName"`
	BaseProduct        domain.Product     `json:"baseProduct"`
	BaseResult         *ComparisonResult  `json:"baseResult"`
	AlternativeResults []ComparisonResult `json:"alternativeResults"`
	Recommendations    []string           `json:"recommendations"`
	ConfigPath         string             `json:"configPath,omitempty"`
	Assumptions        []string           `json:"assumptions,omitempty"`
}

// ToScenarioComparison converts a ComparisonSet into per-product scenario results for the report formatters
func (cs *ComparisonSet) ToScenarioComparison() *domain.ScenarioComparison {
	scenarios := make([]domain.ScenarioResult, 0, len(cs.AlternativeResults)+1)

	if cs.BaseResult != nil && cs.BaseResult.Results != nil {
		scenarios = append(scenarios, domain.ScenarioResult{
			Name:        cs.BaseResult.Name,
			Description: cs.BaseResult.Description,
			Results:     cs.BaseResult.Results,
		})
	}

	for _, result := range cs.AlternativeResults {
		if result.Results != nil {
			scenarios = append(scenarios, domain.ScenarioResult{
				Name:        result.Name,
				Description: result.Description,
				Results:     result.Results,
			})
		}
	}

	return &domain.ScenarioComparison{
		Scenarios:   scenarios,
		Assumptions: cs.Assumptions,
	}
}

// MetricsCalculator extracts key metrics from calculation results
type MetricsCalculator struct{}

// NewMetricsCalculator creates a new metrics calculator
func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{}
}

// CalculateMetrics computes all comparison metrics for one product's results
func (mc *MetricsCalculator) CalculateMetrics(scenarioName string, results *domain.RetirementResults) ComparisonResult {
	alloc := results.Allocation
	return ComparisonResult{
		Name:                  fmt.Sprintf("%s - Product %s", scenarioName, alloc.Product),
		Product:               alloc.Product,
		Description:           fmt.Sprintf("%d%% Choice Income / %d%% Lifetime Income", alloc.ChoicePercent, alloc.LifetimePercent),
		Results:               results,
		ChoiceAmount:          alloc.ChoiceAmount,
		LifetimeAmount:        alloc.LifetimeAmount,
		AdjustedPension:       results.AdjustedPension.FinalPension,
		LifetimeIncome:        results.LifetimeIncomeAnnual,
		ChoiceIncome:          results.ChoiceIncomeAnnual,
		SafetyNet:             results.SafetyNetAmount,
		TotalRetirementIncome: results.TotalRetirementIncome,
	}
}

// CalculateComparison computes comparison metrics between a result and the base
func (mc *MetricsCalculator) CalculateComparison(result, base ComparisonResult) ComparisonResult {
	result.IncomeDiffFromBase = result.TotalRetirementIncome.Sub(base.TotalRetirementIncome)

	if !base.TotalRetirementIncome.IsZero() {
		result.IncomePctFromBase = result.IncomeDiffFromBase.
			Div(base.TotalRetirementIncome).
			Mul(decimal.NewFromInt(100))
	}

	result.PensionDiffFromBase = result.AdjustedPension.Sub(base.AdjustedPension)
	result.SafetyNetDiffFromBase = result.SafetyNet.Sub(base.SafetyNet)

	return result
}

// GenerateRecommendations creates recommendations based on comparison results
func GenerateRecommendations(compSet *ComparisonSet) []string {
	recommendations := []string{}

	if compSet.BaseResult == nil || len(compSet.AlternativeResults) == 0 {
		return recommendations
	}

	// Highest total income
	bestIncome := compSet.BaseResult
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if alt.TotalRetirementIncome.GreaterThan(bestIncome.TotalRetirementIncome) {
			bestIncome = alt
		}
	}

	if bestIncome != compSet.BaseResult {
		diff := bestIncome.TotalRetirementIncome.Sub(compSet.BaseResult.TotalRetirementIncome)
		recommendations = append(recommendations,
			"Highest Income: Product "+string(bestIncome.Product)+" provides $"+diff.StringFixed(0)+
				" more per year than the recommended Product "+string(compSet.BaseProduct))
	} else {
		recommendations = append(recommendations,
			"Highest Income: the recommended Product "+string(compSet.BaseProduct)+" provides the most income per year")
	}

	// Largest guaranteed income (lifetime income + Age Pension)
	bestSafetyNet := compSet.BaseResult
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if alt.SafetyNet.GreaterThan(bestSafetyNet.SafetyNet) {
			bestSafetyNet = alt
		}
	}

	if bestSafetyNet != compSet.BaseResult {
		diff := bestSafetyNet.SafetyNet.Sub(compSet.BaseResult.SafetyNet)
		recommendations = append(recommendations,
			"Largest Safety Net: Product "+string(bestSafetyNet.Product)+" guarantees $"+diff.StringFixed(0)+
				" more per year for life")
	}

	// Highest Age Pension
	bestPension := compSet.BaseResult
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if alt.AdjustedPension.GreaterThan(bestPension.AdjustedPension) {
			bestPension = alt
		}
	}

	if bestPension != compSet.BaseResult {
		diff := bestPension.AdjustedPension.Sub(compSet.BaseResult.AdjustedPension)
		recommendations = append(recommendations,
			"Highest Age Pension: Product "+string(bestPension.Product)+" adds $"+diff.StringFixed(0)+
				" of Age Pension per year")
	}

	return recommendations
}
