package calculation

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/thomasyao15/retirement-income-calc/internal/domain"
)

// SensitivityAnalyzer performs parameter sweep analysis
type SensitivityAnalyzer struct {
	calculationEngine *CalculationEngine
}

// NewSensitivityAnalyzer creates a new sensitivity analyzer with the built-in rules
func NewSensitivityAnalyzer() *SensitivityAnalyzer {
	return &SensitivityAnalyzer{
		calculationEngine: NewCalculationEngine(),
	}
}

// NewSensitivityAnalyzerWithEngine creates a sensitivity analyzer that reuses an engine
func NewSensitivityAnalyzerWithEngine(engine *CalculationEngine) *SensitivityAnalyzer {
	return &SensitivityAnalyzer{calculationEngine: engine}
}

// AnalyzeScenario sweeps one parameter of a named scenario
func (sa *SensitivityAnalyzer) AnalyzeScenario(ctx context.Context, scenario domain.Scenario, parameter domain.SensitivityParameter) (*domain.SensitivityAnalysis, error) {
	analysis, err := sa.AnalyzeParameter(ctx, scenario.Household, parameter)
	if err != nil {
		return nil, err
	}
	analysis.ScenarioName = scenario.Name
	return analysis, nil
}

// AnalyzeParameter recalculates the household at evenly spaced values of one parameter
func (sa *SensitivityAnalyzer) AnalyzeParameter(ctx context.Context, household domain.Household, parameter domain.SensitivityParameter) (*domain.SensitivityAnalysis, error) {
	if err := validateSensitivityParameter(parameter); err != nil {
		return nil, err
	}

	values := generateParameterValues(parameter)
	points := make([]domain.SensitivityPoint, 0, len(values))

	for _, value := range values {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		modified := ModifyHouseholdParameter(household, parameter.Name, value)
		results, err := sa.calculationEngine.Calculate(modified)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate %s=%s: %w", parameter.Name, value.String(), err)
		}

		points = append(points, domain.SensitivityPoint{
			Value:                 value,
			RecommendedProduct:    results.RecommendedProduct,
			InitialPension:        results.InitialPension.FinalPension,
			AdjustedPension:       results.AdjustedPension.FinalPension,
			PensionIncrease:       results.PensionIncrease,
			TotalRetirementIncome: results.TotalRetirementIncome,
			Eligibility:           results.Eligibility,
		})
	}

	analysis := &domain.SensitivityAnalysis{
		Parameter: parameter,
		Points:    points,
	}
	summarizeSensitivity(analysis)
	return analysis, nil
}

func validateSensitivityParameter(p domain.SensitivityParameter) error {
	known := false
	for _, name := range domain.SensitivityParameters {
		if p.Name == name {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("unknown sensitivity parameter %q (valid: %v)", p.Name, domain.SensitivityParameters)
	}
	if p.Steps < 2 {
		return fmt.Errorf("steps must be at least 2, got %d", p.Steps)
	}
	if p.MinValue.GreaterThanOrEqual(p.MaxValue) {
		return fmt.Errorf("min value %s must be less than max value %s", p.MinValue.String(), p.MaxValue.String())
	}
	if p.MinValue.IsNegative() {
		return fmt.Errorf("min value cannot be negative, got %s", p.MinValue.String())
	}
	return nil
}

// generateParameterValues spaces Steps values evenly from MinValue to MaxValue inclusive
func generateParameterValues(param domain.SensitivityParameter) []decimal.Decimal {
	values := make([]decimal.Decimal, 0, param.Steps)
	stepSize := param.MaxValue.Sub(param.MinValue).Div(decimal.NewFromInt(int64(param.Steps - 1)))
	for i := 0; i < param.Steps; i++ {
		values = append(values, param.MinValue.Add(stepSize.Mul(decimal.NewFromInt(int64(i)))))
	}
	// avoid drift on the last step
	values[len(values)-1] = param.MaxValue
	return values
}

// ModifyHouseholdParameter returns a copy of the household with one answer replaced
func ModifyHouseholdParameter(h domain.Household, name string, value decimal.Decimal) domain.Household {
	modified := h
	switch name {
	case domain.ParamSuperBalance:
		modified.SuperBalance = domain.DecimalPtr(value)
	case domain.ParamNonSuperAssets:
		modified.NonSuperAssets = domain.DecimalPtr(value)
	case domain.ParamCombinedIncome:
		modified.CombinedIncome = domain.DecimalPtr(value)
	case domain.ParamAge:
		modified.Age = domain.IntPtr(int(value.Round(0).IntPart()))
	case domain.ParamRetirementYears:
		modified.RetirementYears = domain.IntPtr(int(value.Round(0).IntPart()))
	}
	return modified
}

func summarizeSensitivity(analysis *domain.SensitivityAnalysis) {
	if len(analysis.Points) == 0 {
		return
	}

	best := analysis.Points[0]
	minIncome := best.TotalRetirementIncome
	for i, point := range analysis.Points {
		if point.TotalRetirementIncome.GreaterThan(best.TotalRetirementIncome) {
			best = point
		}
		if point.TotalRetirementIncome.LessThan(minIncome) {
			minIncome = point.TotalRetirementIncome
		}
		if i > 0 {
			prev := analysis.Points[i-1]
			if prev.RecommendedProduct != point.RecommendedProduct {
				analysis.ProductChanges = append(analysis.ProductChanges, domain.ProductChange{
					From:      prev.RecommendedProduct,
					To:        point.RecommendedProduct,
					FromValue: prev.Value,
					ToValue:   point.Value,
				})
			}
		}
	}

	analysis.BestValue = best.Value
	analysis.BestIncome = best.TotalRetirementIncome
	analysis.IncomeRange = best.TotalRetirementIncome.Sub(minIncome)
}
