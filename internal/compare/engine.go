package compare

import (
	"context"
	"fmt"

	"github.com/thomasyao15/retirement-income-calc/internal/calculation"
	"github.com/thomasyao15/retirement-income-calc/internal/domain"
)

// CompareEngine orchestrates product comparison
type CompareEngine struct {
	CalcEngine        *calculation.CalculationEngine
	MetricsCalculator *MetricsCalculator
}

// NewCompareEngine creates a new comparison engine
func NewCompareEngine(calcEngine *calculation.CalculationEngine) *CompareEngine {
	return &CompareEngine{
		CalcEngine:        calcEngine,
		MetricsCalculator: NewMetricsCalculator(),
	}
}

// CompareProducts compares the recommended product against every other product
func (ce *CompareEngine) CompareProducts(ctx context.Context, scenario domain.Scenario) (*ComparisonSet, error) {
	return ce.CompareProductList(ctx, scenario, domain.AllProducts)
}

// CompareProductList compares the recommended product against the listed products.
// The recommended product is skipped if it appears in the list.
func (ce *CompareEngine) CompareProductList(
	ctx context.Context,
	scenario domain.Scenario,
	products []domain.Product,
) (*ComparisonSet, error) {

	// Calculate base scenario with the recommended product
	baseResults, err := ce.CalcEngine.Calculate(scenario.Household)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate base scenario: %w", err)
	}

	baseResult := ce.MetricsCalculator.CalculateMetrics(scenario.Name, baseResults)
	baseResult.Description += " (recommended)"

	// Calculate alternatives with a forced allocation
	alternatives := []ComparisonResult{}

	for _, product := range products {
		if product == baseResults.RecommendedProduct {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		altResults, err := ce.CalcEngine.CalculateWithProduct(scenario.Household, product)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate product %s: %w", product, err)
		}

		altResult := ce.MetricsCalculator.CalculateMetrics(scenario.Name, altResults)
		altResult = ce.MetricsCalculator.CalculateComparison(altResult, baseResult)

		alternatives = append(alternatives, altResult)
	}

	// Create comparison set
	compSet := &ComparisonSet{
		ScenarioName:       scenario.Name,
		BaseProduct:        baseResults.RecommendedProduct,
		BaseResult:         &baseResult,
		AlternativeResults: alternatives,
		Assumptions:        ce.CalcEngine.Assumptions(),
	}

	// Generate recommendations
	compSet.Recommendations = GenerateRecommendations(compSet)

	return compSet, nil
}
