package integration

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thomasyao15/retirement-income-calc/internal/calculation"
	"github.com/thomasyao15/retirement-income-calc/internal/compare"
	"github.com/thomasyao15/retirement-income-calc/internal/config"
	"github.com/thomasyao15/retirement-income-calc/internal/domain"
	"github.com/thomasyao15/retirement-income-calc/internal/output"
)

const (
	householdFile = "../../testdata/household.yaml"
	rulesFile     = "../../testdata/rules.yaml"
)

func loadResults(t *testing.T) (*domain.Configuration, *domain.ScenarioComparison) {
	t.Helper()
	parser := config.NewInputParser()
	configData, err := parser.LoadFromFile(householdFile)
	require.NoError(t, err)

	engine := calculation.NewCalculationEngineWithConfig(config.EffectiveRules(configData))
	results, err := engine.RunScenarios(context.Background(), configData)
	require.NoError(t, err)
	return configData, results
}

// TestBasicIntegration tests basic end-to-end functionality
func TestBasicIntegration(t *testing.T) {
	t.Run("configuration_loading", func(t *testing.T) {
		parser := config.NewInputParser()
		configData, err := parser.LoadFromFile(householdFile)
		require.NoError(t, err, "Should load configuration successfully")

		assert.Len(t, configData.Scenarios, 3)
		assert.Nil(t, configData.Rules, "Scenario file carries no rules")
	})

	t.Run("calculation_engine", func(t *testing.T) {
		configData, results := loadResults(t)

		require.Len(t, results.Scenarios, len(configData.Scenarios))
		for i, scenario := range results.Scenarios {
			assert.Equal(t, configData.Scenarios[i].Name, scenario.Name, "Scenario order should be preserved")
			require.NotNil(t, scenario.Results)
		}
		assert.NotEmpty(t, results.Assumptions)
	})

	t.Run("single_homeowner_scenario", func(t *testing.T) {
		_, results := loadResults(t)
		r := results.Scenarios[0].Results

		assert.Equal(t, domain.ProductB, r.RecommendedProduct)
		assert.True(t, r.InitialPension.FinalPension.Equal(decimal.RequireFromString("21210.8")), "got %s", r.InitialPension.FinalPension)
		assert.True(t, r.AdjustedTotalAssets.Equal(decimal.NewFromInt(376000)))
		assert.True(t, r.AdjustedPension.FinalPension.Equal(decimal.RequireFromString("23082.8")))
		assert.True(t, r.LifetimeIncomeAnnual.Equal(decimal.NewFromInt(4020)))
		assert.True(t, r.SafetyNetAmount.Equal(decimal.RequireFromString("27102.8")))
	})

	t.Run("comfortable_homeowner_scenario", func(t *testing.T) {
		_, results := loadResults(t)
		r := results.Scenarios[2].Results

		assert.Equal(t, domain.RelationshipCouple, r.RelationshipStatus, "defacto is assessed as a couple")
		assert.Equal(t, domain.ProductD, r.RecommendedProduct)
		assert.Equal(t, domain.EligibilityNone, r.Eligibility)
		assert.True(t, r.AdjustedPension.FinalPension.IsZero())
	})

	t.Run("output_generation", func(t *testing.T) {
		_, results := loadResults(t)

		for _, name := range output.AvailableFormatterNames() {
			t.Run(fmt.Sprintf("format_%s", name), func(t *testing.T) {
				formatter := output.GetFormatterByName(name)
				require.NotNil(t, formatter)

				data, err := formatter.Format(results)
				require.NoError(t, err)
				assert.NotEmpty(t, data)
			})
		}
	})
}

// TestDataConsistency checks the relationships every result must satisfy
func TestDataConsistency(t *testing.T) {
	_, results := loadResults(t)
	hundred := decimal.NewFromInt(100)

	for _, sc := range results.Scenarios {
		r := sc.Results
		t.Run(sc.Name, func(t *testing.T) {
			assert.Equal(t, 100, r.Allocation.ChoicePercent+r.Allocation.LifetimePercent)
			assert.True(t, r.Allocation.ChoiceAmount.Add(r.Allocation.LifetimeAmount).Equal(r.SuperBalance))

			assert.True(t, r.AdjustedPension.FinalPension.GreaterThanOrEqual(r.InitialPension.FinalPension),
				"the lifetime discount never lowers the pension")
			assert.True(t, r.SafetyNetAmount.Equal(r.LifetimeIncomeAnnual.Add(r.AdjustedPension.FinalPension)))
			assert.True(t, r.TotalRetirementIncome.Equal(r.ChoiceIncomeAnnual.Add(r.SafetyNetAmount)))

			for _, p := range []domain.PensionResult{r.InitialPension, r.AdjustedPension} {
				assert.True(t, p.FinalPension.Equal(decimal.Min(p.IncomeTestPension, p.AssetTestPension)))
				assert.False(t, p.PensionPercentage.IsNegative())
				assert.True(t, p.PensionPercentage.LessThanOrEqual(hundred))
			}

			require.Len(t, r.YearlyBreakdown, r.RetirementYears)
			for i := 1; i < len(r.YearlyBreakdown); i++ {
				assert.True(t, r.YearlyBreakdown[i].ChoiceBalance.LessThanOrEqual(r.YearlyBreakdown[i-1].ChoiceBalance))
			}
		})
	}
}

// TestIntegrationRegression checks repeated runs agree
func TestIntegrationRegression(t *testing.T) {
	t.Run("calculation_consistency", func(t *testing.T) {
		_, first := loadResults(t)
		_, second := loadResults(t)

		for i := range first.Scenarios {
			a, b := first.Scenarios[i].Results, second.Scenarios[i].Results
			assert.True(t, a.TotalRetirementIncome.Equal(b.TotalRetirementIncome), "scenario %s", first.Scenarios[i].Name)
			assert.Equal(t, a.RecommendedProduct, b.RecommendedProduct)
		}
	})

	t.Run("output_format_consistency", func(t *testing.T) {
		_, results := loadResults(t)

		for _, format := range []string{"csv", "json", "html", "console-lite"} {
			t.Run(fmt.Sprintf("format_%s", format), func(t *testing.T) {
				formatter := output.GetFormatterByName(format)
				a, err := formatter.Format(results)
				require.NoError(t, err)
				b, err := formatter.Format(results)
				require.NoError(t, err)
				assert.True(t, bytes.Equal(a, b), "format %s should be deterministic", format)
			})
		}
	})
}

// TestRulesOverride runs the pipeline with the example rules file laid over the defaults
func TestRulesOverride(t *testing.T) {
	parser := config.NewInputParser()
	configData, err := parser.LoadFromFileWithRules(householdFile, rulesFile)
	require.NoError(t, err)
	require.NotNil(t, configData.Rules)

	engine := calculation.NewCalculationEngineWithConfig(*configData.Rules)
	results, err := engine.RunScenarios(context.Background(), configData)
	require.NoError(t, err)

	_, defaults := loadResults(t)

	r := results.Scenarios[0].Results
	assert.True(t, r.LifetimeIncomeAnnual.Equal(decimal.NewFromInt(4200)), "7%% of 60000, got %s", r.LifetimeIncomeAnnual)
	assert.True(t, r.InitialPension.FinalPension.GreaterThan(defaults.Scenarios[0].Results.InitialPension.FinalPension),
		"higher full rate raises the pension")
}

// TestCompareAndSensitivity exercises the supplementary analyses on the example file
func TestCompareAndSensitivity(t *testing.T) {
	configData, _ := loadResults(t)
	engine := calculation.NewCalculationEngine()

	scenario, ok := configData.FindScenario("Couple renting")
	require.True(t, ok)

	compSet, err := compare.NewCompareEngine(engine).CompareProducts(context.Background(), *scenario)
	require.NoError(t, err)
	assert.Len(t, compSet.AlternativeResults, 3)
	assert.NotEmpty(t, (&compare.TableFormatter{}).Format(compSet))

	analysis, err := calculation.NewSensitivityAnalyzerWithEngine(engine).AnalyzeScenario(context.Background(), *scenario,
		domain.SensitivityParameter{
			Name:     domain.ParamSuperBalance,
			MinValue: decimal.NewFromInt(0),
			MaxValue: decimal.NewFromInt(1500000),
			Steps:    7,
		})
	require.NoError(t, err)
	assert.Len(t, analysis.Points, 7)
	assert.NotEmpty(t, analysis.ProductChanges, "the product should change across such a wide range")

	out, err := output.NewSensitivityFormatter("table").FormatSensitivityAnalysis(analysis)
	require.NoError(t, err)
	assert.Contains(t, out, "SUPER BALANCE")
}

// TestErrorHandling covers bad inputs at the file boundary
func TestErrorHandling(t *testing.T) {
	parser := config.NewInputParser()

	_, err := parser.LoadFromFile("../../testdata/does-not-exist.yaml")
	assert.Error(t, err)

	_, err = parser.LoadFromFileWithRules(householdFile, "../../testdata/does-not-exist.yaml")
	assert.Error(t, err)

	engine := calculation.NewCalculationEngine()
	_, err = engine.RunScenarios(context.Background(), &domain.Configuration{})
	assert.Error(t, err)
}
