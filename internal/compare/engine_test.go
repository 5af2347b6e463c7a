package compare

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/thomasyao15/retirement-income-calc/internal/calculation"
	"github.com/thomasyao15/retirement-income-calc/internal/domain"
)

func testScenario() domain.Scenario {
	return domain.Scenario{
		Name: "Base",
		Household: domain.Household{
			Age:                domain.IntPtr(67),
			RetirementYears:    domain.IntPtr(18),
			SuperBalance:       domain.DecimalPtr(decimal.NewFromInt(300000)),
			NonSuperAssets:     domain.DecimalPtr(decimal.NewFromInt(100000)),
			RelationshipStatus: "single",
			HomeOwnership:      "yes",
			CombinedIncome:     domain.DecimalPtr(decimal.NewFromInt(7800)),
		},
	}
}

func TestCompareEngine_CompareProducts(t *testing.T) {
	engine := NewCompareEngine(calculation.NewCalculationEngine())

	compSet, err := engine.CompareProducts(context.Background(), testScenario())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if compSet.BaseProduct != domain.ProductB {
		t.Errorf("expected recommended product B, got %s", compSet.BaseProduct)
	}
	if compSet.BaseResult == nil || compSet.BaseResult.Product != domain.ProductB {
		t.Fatalf("expected base result for product B, got %+v", compSet.BaseResult)
	}
	if len(compSet.AlternativeResults) != 3 {
		t.Fatalf("expected 3 alternatives, got %d", len(compSet.AlternativeResults))
	}

	expected := []domain.Product{domain.ProductA, domain.ProductC, domain.ProductD}
	for i, alt := range compSet.AlternativeResults {
		if alt.Product != expected[i] {
			t.Errorf("alternative %d: expected product %s, got %s", i, expected[i], alt.Product)
		}
		if alt.Results.RecommendedProduct != domain.ProductB {
			t.Errorf("alternative %s should still report B as recommended", alt.Product)
		}
		diff := alt.TotalRetirementIncome.Sub(compSet.BaseResult.TotalRetirementIncome)
		if !alt.IncomeDiffFromBase.Equal(diff) {
			t.Errorf("alternative %s: income diff %s, expected %s", alt.Product, alt.IncomeDiffFromBase, diff)
		}
	}

	// Product C puts more into lifetime income, so its pension beats B's
	var productC ComparisonResult
	for _, alt := range compSet.AlternativeResults {
		if alt.Product == domain.ProductC {
			productC = alt
		}
	}
	if !productC.PensionDiffFromBase.IsPositive() {
		t.Errorf("expected product C to raise the Age Pension, diff %s", productC.PensionDiffFromBase)
	}

	if len(compSet.Recommendations) == 0 {
		t.Error("expected recommendations")
	}
	if len(compSet.Assumptions) == 0 {
		t.Error("expected assumptions")
	}
}

func TestCompareEngine_CompareProductList(t *testing.T) {
	engine := NewCompareEngine(calculation.NewCalculationEngine())

	compSet, err := engine.CompareProductList(context.Background(), testScenario(), []domain.Product{domain.ProductB, domain.ProductD})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(compSet.AlternativeResults) != 1 {
		t.Fatalf("expected recommended product to be skipped, got %d alternatives", len(compSet.AlternativeResults))
	}
	if compSet.AlternativeResults[0].Product != domain.ProductD {
		t.Errorf("expected product D, got %s", compSet.AlternativeResults[0].Product)
	}
}

func TestCompareEngine_Errors(t *testing.T) {
	engine := NewCompareEngine(calculation.NewCalculationEngine())

	bad := testScenario()
	bad.Household.SuperBalance = domain.DecimalPtr(decimal.NewFromInt(-1))
	if _, err := engine.CompareProducts(context.Background(), bad); err == nil {
		t.Error("expected error for negative super balance")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := engine.CompareProducts(ctx, testScenario()); err == nil {
		t.Error("expected error for cancelled context")
	}

	_, err := engine.CompareProductList(context.Background(), testScenario(), []domain.Product{"Z"})
	if err == nil || !strings.Contains(err.Error(), "product Z") {
		t.Errorf("expected unknown product error, got %v", err)
	}
}

func TestComparisonSet_ToScenarioComparison(t *testing.T) {
	engine := NewCompareEngine(calculation.NewCalculationEngine())

	compSet, err := engine.CompareProducts(context.Background(), testScenario())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	comparison := compSet.ToScenarioComparison()

	if len(comparison.Scenarios) != 4 {
		t.Fatalf("expected 4 scenarios, got %d", len(comparison.Scenarios))
	}
	if comparison.Scenarios[0].Name != "Base - Product B" {
		t.Errorf("expected base first, got %s", comparison.Scenarios[0].Name)
	}
	if len(comparison.Assumptions) == 0 {
		t.Error("expected assumptions to carry over")
	}
}

func TestComparisonSet_ToScenarioComparison_NilBaseResult(t *testing.T) {
	compSet := &ComparisonSet{ScenarioName: "Empty"}

	comparison := compSet.ToScenarioComparison()

	if len(comparison.Scenarios) != 0 {
		t.Errorf("expected no scenarios, got %d", len(comparison.Scenarios))
	}
}
