package calculation

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thomasyao15/retirement-income-calc/internal/domain"
)

func TestNewCalculationEngine(t *testing.T) {
	engine := NewCalculationEngine()

	assert.NotNil(t, engine, "Should create engine")
	assert.NotNil(t, engine.PensionCalc, "Should initialize pension calculator")
	assert.NotNil(t, engine.Logger, "Should initialize logger")
	assert.False(t, engine.Debug)
}

func TestCalculationEngine_SetLogger(t *testing.T) {
	engine := NewCalculationEngine()

	// Test setting a custom logger
	customLogger := &TestLogger{}
	engine.SetLogger(customLogger)

	assert.Equal(t, customLogger, engine.Logger, "Should set custom logger")

	// Test setting nil logger (should use no-op logger)
	engine.SetLogger(nil)

	assert.NotNil(t, engine.Logger, "Should not be nil")
	assert.IsType(t, NopLogger{}, engine.Logger, "Should be no-op logger")
}

// singleHomeowner has $400,000 of assets and $300 a fortnight of income
func singleHomeowner() domain.Household {
	return domain.Household{
		Age:                domain.IntPtr(67),
		RetirementYears:    domain.IntPtr(18),
		SuperBalance:       domain.DecimalPtr(d("300000")),
		NonSuperAssets:     domain.DecimalPtr(d("100000")),
		RelationshipStatus: "single",
		HomeOwnership:      "yes",
		CombinedIncome:     domain.DecimalPtr(d("7800")),
	}
}

func TestCalculationEngine_Calculate(t *testing.T) {
	engine := NewCalculationEngine()

	results, err := engine.Calculate(singleHomeowner())
	require.NoError(t, err)

	assert.True(t, results.InitialTotalAssets.Equal(d("400000")))
	assert.True(t, results.FortnightlyIncome.Equal(d("300")))
	assert.True(t, results.InitialPension.FinalPension.Equal(d("21210.8")), "initial: %s", results.InitialPension.FinalPension)

	// 77.6% -> B, 80/20
	assert.Equal(t, domain.ProductB, results.RecommendedProduct)
	assert.Equal(t, domain.ProductB, results.Allocation.Product)
	assert.True(t, results.Allocation.ChoiceAmount.Equal(d("240000")))
	assert.True(t, results.Allocation.LifetimeAmount.Equal(d("60000")))

	assert.True(t, results.AssetReduction.Equal(d("24000")))
	assert.True(t, results.AdjustedTotalAssets.Equal(d("376000")))
	assert.True(t, results.AdjustedPension.FinalPension.Equal(d("23082.8")), "adjusted: %s", results.AdjustedPension.FinalPension)
	assert.True(t, results.PensionIncrease.Equal(d("1872")))
	assert.True(t, results.PensionIncreasePercentage.IsPositive())

	assert.True(t, results.LifetimeIncomeAnnual.Equal(d("4020")))
	assert.True(t, results.SafetyNetAmount.Equal(d("27102.8")))

	expectedChoice := engine.PensionCalc.ProjectChoiceIncomeAnnualAverage(d("240000"), 67, 18)
	assert.True(t, results.ChoiceIncomeAnnual.Equal(expectedChoice))
	assert.True(t, results.TotalRetirementIncome.Equal(expectedChoice.Add(d("4020")).Add(d("23082.8"))))

	assert.Equal(t, domain.EligibilityPartial, results.Eligibility)
	assert.True(t, results.PensionPercentage.Equal(results.AdjustedPension.PensionPercentage))

	require.Len(t, results.YearlyBreakdown, 18)
	first := results.YearlyBreakdown[0]
	assert.Equal(t, 1, first.Year)
	assert.Equal(t, 67, first.Age)
	assert.True(t, first.ChoiceWithdrawal.Equal(d("12000")))
	assert.True(t, first.TotalIncome.Equal(d("12000").Add(d("27102.8"))))
	assert.Equal(t, 84, results.YearlyBreakdown[17].Age)
}

func TestCalculationEngine_Calculate_Defaults(t *testing.T) {
	engine := NewCalculationEngine()

	results, err := engine.Calculate(domain.Household{RelationshipStatus: "single"})
	require.NoError(t, err)

	assert.Equal(t, 67, results.Age)
	assert.Equal(t, 18, results.RetirementYears, "85 - 67")
	assert.False(t, results.HomeOwner)
	assert.True(t, results.InitialTotalAssets.IsZero())
	assert.Equal(t, domain.EligibilityFull, results.Eligibility)
	assert.Equal(t, domain.ProductA, results.RecommendedProduct)
	assert.True(t, results.TotalRetirementIncome.Equal(d("27333.8")))
	assert.True(t, results.PensionIncreasePercentage.IsZero())
}

func TestCalculationEngine_Normalize(t *testing.T) {
	engine := NewCalculationEngine()

	t.Run("relationship mapping", func(t *testing.T) {
		for status, expected := range map[string]domain.RelationshipStatus{
			"married":   domain.RelationshipCouple,
			"defacto":   domain.RelationshipCouple,
			"single":    domain.RelationshipSingle,
			"divorced":  domain.RelationshipSingle,
			"widowed":   domain.RelationshipSingle,
			"separated": domain.RelationshipSingle,
		} {
			snap := engine.Normalize(domain.Household{RelationshipStatus: status})
			assert.Equal(t, expected, snap.Pension.RelationshipStatus, status)
		}
	})

	t.Run("income streams only when flagged", func(t *testing.T) {
		h := domain.Household{
			RelationshipStatus:  "single",
			IncomeStreamsAmount: domain.DecimalPtr(d("2600")),
			CombinedIncome:      domain.DecimalPtr(d("5200")),
		}
		assert.True(t, engine.Normalize(h).AnnualIncome.Equal(d("5200")))

		h.HasIncomeStreams = true
		snap := engine.Normalize(h)
		assert.True(t, snap.AnnualIncome.Equal(d("7800")))
		assert.True(t, snap.Pension.IncomePerFortnight.Equal(d("300")))
	})

	t.Run("retirement years from longevity", func(t *testing.T) {
		h := domain.Household{Age: domain.IntPtr(70), ExpectedLongevity: domain.IntPtr(95)}
		assert.Equal(t, 25, engine.Normalize(h).RetirementYears)

		h.RetirementYears = domain.IntPtr(10)
		assert.Equal(t, 10, engine.Normalize(h).RetirementYears)
	})

	t.Run("home ownership", func(t *testing.T) {
		assert.True(t, engine.Normalize(domain.Household{HomeOwnership: "yes"}).Pension.HomeOwner)
		assert.False(t, engine.Normalize(domain.Household{HomeOwnership: "no"}).Pension.HomeOwner)
		assert.False(t, engine.Normalize(domain.Household{}).Pension.HomeOwner)
	})
}

func TestCalculationEngine_Calculate_RecommendsFromUndiscountedPension(t *testing.T) {
	engine := NewCalculationEngine()

	// Sweep assets so that some households cross a band only after the discount
	for assets := int64(300000); assets <= 800000; assets += 10000 {
		h := domain.Household{
			RelationshipStatus: "single",
			HomeOwnership:      "yes",
			SuperBalance:       domain.DecimalPtr(decimal.NewFromInt(assets)),
		}
		results, err := engine.Calculate(h)
		require.NoError(t, err)

		expected := engine.PensionCalc.RecommendProduct(results.InitialPension.PensionPercentage)
		assert.Equal(t, expected, results.RecommendedProduct, "assets %d", assets)
		assert.True(t, results.AdjustedPension.FinalPension.GreaterThanOrEqual(results.InitialPension.FinalPension))
	}
}

func TestCalculationEngine_Calculate_RejectsNegativeMoney(t *testing.T) {
	engine := NewCalculationEngine()

	h := singleHomeowner()
	h.SuperBalance = domain.DecimalPtr(d("-1"))

	_, err := engine.Calculate(h)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "super balance")
}

func TestCalculationEngine_Calculate_LogsSteps(t *testing.T) {
	engine := NewCalculationEngine()
	logger := &TestLogger{}
	engine.SetLogger(logger)
	engine.Debug = true

	_, err := engine.Calculate(singleHomeowner())
	require.NoError(t, err)

	assert.NotEmpty(t, logger.messages)
	assert.Contains(t, logger.messages, "DEBUG: recommended product: %s (allocating %s)")
	assert.Contains(t, logger.messages, "DEBUG: year %d (age %d): rate=%s withdrawal=%s balance=%s total=%s")
}

func TestCalculationEngine_CalculateWithProduct(t *testing.T) {
	engine := NewCalculationEngine()
	h := singleHomeowner()

	base, err := engine.Calculate(h)
	require.NoError(t, err)

	same, err := engine.CalculateWithProduct(h, base.RecommendedProduct)
	require.NoError(t, err)
	assert.Equal(t, base, same)

	forced, err := engine.CalculateWithProduct(h, domain.ProductC)
	require.NoError(t, err)
	assert.Equal(t, domain.ProductB, forced.RecommendedProduct, "recommendation is unchanged")
	assert.Equal(t, domain.ProductC, forced.Allocation.Product)
	assert.True(t, forced.Allocation.LifetimeAmount.Equal(d("90000")))

	_, err = engine.CalculateWithProduct(h, domain.Product("X"))
	assert.Error(t, err)
}

func TestCalculationEngine_AdjustedPensionMatchesCalculator(t *testing.T) {
	engine := NewCalculationEngine()
	h := singleHomeowner()
	input := engine.Normalize(h).Pension

	for _, product := range []domain.Product{domain.ProductA, domain.ProductB, domain.ProductC, domain.ProductD} {
		t.Run(string(product), func(t *testing.T) {
			results, err := engine.CalculateWithProduct(h, product)
			require.NoError(t, err)

			expected := engine.PensionCalc.CalculateAdjustedPension(input, results.Allocation.LifetimeAmount)
			assert.Equal(t, expected, results.AdjustedPension)
			assert.True(t, results.AdjustedTotalAssets.Equal(
				engine.PensionCalc.ApplyLifetimeDiscount(input.TotalAssets, results.Allocation.LifetimeAmount)))
		})
	}
}

func TestCalculationEngine_RunScenarios(t *testing.T) {
	engine := NewCalculationEngine()

	config := &domain.Configuration{}
	for i := 0; i < 8; i++ {
		h := singleHomeowner()
		h.SuperBalance = domain.DecimalPtr(decimal.NewFromInt(int64(i * 100000)))
		config.Scenarios = append(config.Scenarios, domain.Scenario{
			Name:      fmt.Sprintf("scenario-%d", i),
			Household: h,
		})
	}

	comparison, err := engine.RunScenarios(context.Background(), config)
	require.NoError(t, err)

	require.Len(t, comparison.Scenarios, 8)
	for i, sr := range comparison.Scenarios {
		assert.Equal(t, fmt.Sprintf("scenario-%d", i), sr.Name)
		assert.True(t, sr.Results.SuperBalance.Equal(decimal.NewFromInt(int64(i*100000))))
	}
	assert.NotEmpty(t, comparison.Assumptions)
}

func TestCalculationEngine_RunScenarios_Errors(t *testing.T) {
	engine := NewCalculationEngine()

	t.Run("no scenarios", func(t *testing.T) {
		_, err := engine.RunScenarios(context.Background(), &domain.Configuration{})
		assert.Error(t, err)
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		config := &domain.Configuration{Scenarios: []domain.Scenario{{Name: "a", Household: singleHomeowner()}}}

		_, err := engine.RunScenarios(ctx, config)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("bad scenario", func(t *testing.T) {
		bad := singleHomeowner()
		bad.NonSuperAssets = domain.DecimalPtr(d("-10"))
		config := &domain.Configuration{Scenarios: []domain.Scenario{
			{Name: "good", Household: singleHomeowner()},
			{Name: "bad", Household: bad},
		}}

		_, err := engine.RunScenarios(context.Background(), config)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "scenario bad")
	})
}

func TestCalculationEngine_ConcurrentCalculate(t *testing.T) {
	engine := NewCalculationEngine()
	expected, err := engine.Calculate(singleHomeowner())
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]*domain.RetirementResults, 16)
	for i := range results {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			results[idx], _ = engine.Calculate(singleHomeowner())
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, expected, r)
	}
}

// TestLogger is a simple logger for testing
type TestLogger struct {
	mu       sync.Mutex
	messages []string
}

func (tl *TestLogger) record(msg string) {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	tl.messages = append(tl.messages, msg)
}

func (tl *TestLogger) Debugf(format string, args ...interface{}) {
	tl.record("DEBUG: " + format)
}

func (tl *TestLogger) Infof(format string, args ...interface{}) {
	tl.record("INFO: " + format)
}

func (tl *TestLogger) Warnf(format string, args ...interface{}) {
	tl.record("WARN: " + format)
}

func (tl *TestLogger) Errorf(format string, args ...interface{}) {
	tl.record("ERROR: " + format)
}
