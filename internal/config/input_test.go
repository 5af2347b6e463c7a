package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thomasyao15/retirement-income-calc/internal/domain"
)

const validScenarioYAML = `
scenarios:
  - name: Base
    description: Single homeowner
    household:
      age: 67
      retirement_years: 20
      super_balance: 300000
      relationship_status: single
      non_super_assets: 100000
      has_income_streams: true
      income_streams_amount: 2600
      home_ownership: "yes"
      combined_income: 5200
  - name: Couple
    household:
      age: 70
      expected_longevity: 92
      super_balance: "650000.50"
      relationship_status: married
      home_ownership: "no"
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func validHousehold() domain.Household {
	return domain.Household{
		Age:                domain.IntPtr(67),
		SuperBalance:       domain.DecimalPtr(decimal.NewFromInt(300000)),
		RelationshipStatus: "single",
		HomeOwnership:      "yes",
	}
}

func TestLoadFromFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "household.yaml", validScenarioYAML)

	config, err := NewInputParser().LoadFromFile(path)
	require.NoError(t, err)

	require.Len(t, config.Scenarios, 2)
	base := config.Scenarios[0]
	assert.Equal(t, "Base", base.Name)
	assert.Equal(t, "Single homeowner", base.Description)
	require.NotNil(t, base.Household.Age)
	assert.Equal(t, 67, *base.Household.Age)
	assert.Equal(t, 20, *base.Household.RetirementYears)
	assert.True(t, base.Household.SuperBalance.Equal(decimal.NewFromInt(300000)))
	assert.True(t, base.Household.HasIncomeStreams)
	assert.True(t, base.Household.IsHomeOwner())

	couple := config.Scenarios[1]
	assert.Nil(t, couple.Household.RetirementYears)
	assert.Equal(t, 92, *couple.Household.ExpectedLongevity)
	assert.True(t, couple.Household.SuperBalance.Equal(decimal.RequireFromString("650000.50")))
	assert.Nil(t, couple.Household.NonSuperAssets)

	assert.Nil(t, config.Rules, "no rules block means built-in rules")
}

func TestLoadFromFile_Errors(t *testing.T) {
	dir := t.TempDir()
	parser := NewInputParser()

	_, err := parser.LoadFromFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read file")

	bad := writeFile(t, dir, "bad.yaml", "scenarios: [\n")
	_, err = parser.LoadFromFile(bad)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")

	invalid := writeFile(t, dir, "invalid.yaml", `
scenarios:
  - name: Base
    household:
      age: 12
      relationship_status: single
`)
	_, err = parser.LoadFromFile(invalid)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scenario 0 (Base) validation failed: age must be between 18 and 120")
}

func TestParse_RulesBlockOverlaysDefaults(t *testing.T) {
	config, err := NewInputParser().Parse([]byte(`
rules:
  lifetime_income:
    rate: 0.07
    asset_discount: 0.4
  allocations:
    D:
      choice: 95
      lifetime: 5
scenarios:
  - name: Base
    household:
      relationship_status: single
`))
	require.NoError(t, err)
	require.NotNil(t, config.Rules)

	assert.True(t, config.Rules.LifetimeIncome.Rate.Equal(decimal.NewFromFloat(0.07)))
	assert.Equal(t, 95, config.Rules.Allocations[domain.ProductD].ChoicePercent)
	// untouched values keep their defaults
	assert.Equal(t, 85, config.Rules.Allocations[domain.ProductA].ChoicePercent)
	assert.True(t, config.Rules.FullPension.Single.Equal(decimal.RequireFromString("1051.30")))
	assert.Len(t, config.Rules.ProductBands, 4)
}

func TestLoadFromFileWithRules(t *testing.T) {
	dir := t.TempDir()
	scenarios := writeFile(t, dir, "household.yaml", validScenarioYAML)
	rulesFile := writeFile(t, dir, "rules.yaml", `
full_pension:
  single: 1100
  couple: 1650
`)

	config, err := NewInputParser().LoadFromFileWithRules(scenarios, rulesFile)
	require.NoError(t, err)
	require.NotNil(t, config.Rules)

	assert.True(t, config.Rules.FullPension.Single.Equal(decimal.NewFromInt(1100)))
	assert.True(t, config.Rules.IncomeFreeArea.Single.Equal(decimal.NewFromInt(218)))
}

func TestLoadFromFileWithRules_InvalidRules(t *testing.T) {
	dir := t.TempDir()
	scenarios := writeFile(t, dir, "household.yaml", validScenarioYAML)
	rulesFile := writeFile(t, dir, "rules.yaml", `
allocations:
  B:
    choice: 80
    lifetime: 30
`)

	_, err := NewInputParser().LoadFromFileWithRules(scenarios, rulesFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "allocation must sum to 100")
}

func TestLoadRulesFromFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "rules.yaml", `
product_bands:
  - product: A
    min_percent: 80
  - product: D
    min_percent: 0
  - product: B
    min_percent: 40
  - product: C
    min_percent: 5
`)

	rules, err := NewInputParser().LoadRulesFromFile(path)
	require.NoError(t, err)
	assert.Len(t, rules.ProductBands, 4)

	_, err = NewInputParser().LoadRulesFromFile(filepath.Join(dir, "nope.yaml"))
	assert.Error(t, err)
}

func TestValidateConfiguration(t *testing.T) {
	parser := NewInputParser()

	tests := []struct {
		name   string
		config domain.Configuration
		errMsg string
	}{
		{
			name:   "no scenarios",
			config: domain.Configuration{},
			errMsg: "no scenarios provided",
		},
		{
			name:   "missing name",
			config: domain.Configuration{Scenarios: []domain.Scenario{{Household: validHousehold()}}},
			errMsg: "name is required",
		},
		{
			name: "duplicate names",
			config: domain.Configuration{Scenarios: []domain.Scenario{
				{Name: "A", Household: validHousehold()},
				{Name: "A", Household: validHousehold()},
			}},
			errMsg: "duplicate scenario name",
		},
		{
			name: "bad rules",
			config: domain.Configuration{
				Scenarios: []domain.Scenario{{Name: "A", Household: validHousehold()}},
				Rules:     &domain.AgePensionRules{},
			},
			errMsg: "rules validation failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := parser.ValidateConfiguration(&tt.config)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}

	valid := domain.Configuration{Scenarios: []domain.Scenario{{Name: "A", Household: validHousehold()}}}
	assert.NoError(t, parser.ValidateConfiguration(&valid))
}

func TestValidateHousehold(t *testing.T) {
	parser := NewInputParser()

	tests := []struct {
		name   string
		modify func(h *domain.Household)
		errMsg string
	}{
		{"valid", func(h *domain.Household) {}, ""},
		{"unset optional answers", func(h *domain.Household) { *h = domain.Household{RelationshipStatus: "widowed"} }, ""},
		{"age too low", func(h *domain.Household) { h.Age = domain.IntPtr(17) }, "age must be between 18 and 120"},
		{"age too high", func(h *domain.Household) { h.Age = domain.IntPtr(121) }, "age must be between 18 and 120"},
		{"age bounds inclusive", func(h *domain.Household) { h.Age = domain.IntPtr(18) }, ""},
		{"zero retirement years", func(h *domain.Household) { h.RetirementYears = domain.IntPtr(0) }, "retirement years must be at least 1"},
		{"longevity below age", func(h *domain.Household) { h.ExpectedLongevity = domain.IntPtr(60) }, "expected longevity (60) must be greater than age (67)"},
		{"negative super", func(h *domain.Household) { h.SuperBalance = domain.DecimalPtr(decimal.NewFromInt(-1)) }, "super balance cannot be negative"},
		{"negative assets", func(h *domain.Household) { h.NonSuperAssets = domain.DecimalPtr(decimal.NewFromInt(-1)) }, "non-super assets cannot be negative"},
		{"negative income", func(h *domain.Household) { h.CombinedIncome = domain.DecimalPtr(decimal.NewFromInt(-1)) }, "combined income cannot be negative"},
		{"negative streams", func(h *domain.Household) { h.IncomeStreamsAmount = domain.DecimalPtr(decimal.NewFromInt(-1)) }, "income streams amount cannot be negative"},
		{"missing status", func(h *domain.Household) { h.RelationshipStatus = "" }, "relationship status is required"},
		{"unknown status", func(h *domain.Household) { h.RelationshipStatus = "complicated" }, "invalid relationship status"},
		{"status case-insensitive", func(h *domain.Household) { h.RelationshipStatus = "Married" }, ""},
		{"bad home ownership", func(h *domain.Household) { h.HomeOwnership = "maybe" }, "home ownership must be"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := validHousehold()
			tt.modify(&h)
			err := parser.ValidateHousehold(&h, domain.DefaultAgePensionRules().Defaults)
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestValidateHousehold_UsesRulesDefaultAge(t *testing.T) {
	parser := NewInputParser()
	defaults := domain.HouseholdDefaults{Age: 70, ExpectedLongevity: 90}

	h := validHousehold()
	h.Age = nil
	h.ExpectedLongevity = domain.IntPtr(68)

	err := parser.ValidateHousehold(&h, defaults)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected longevity (68) must be greater than age (70)")

	h.Age = domain.IntPtr(65)
	assert.NoError(t, parser.ValidateHousehold(&h, defaults))
}

func TestValidateConfiguration_RulesDefaultAge(t *testing.T) {
	parser := NewInputParser()
	rules := domain.DefaultAgePensionRules()
	rules.Defaults.Age = 70

	h := validHousehold()
	h.Age = nil
	h.ExpectedLongevity = domain.IntPtr(68)
	config := &domain.Configuration{
		Scenarios: []domain.Scenario{{Name: "Late", Household: h}},
	}
	require.NoError(t, parser.ValidateConfiguration(config))

	config.Rules = &rules
	err := parser.ValidateConfiguration(config)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be greater than age (70)")
}

func TestValidatePensionInput(t *testing.T) {
	parser := NewInputParser()

	valid := domain.PensionInput{Age: 67, RelationshipStatus: domain.RelationshipSingle, TotalAssets: decimal.NewFromInt(1000)}
	assert.NoError(t, parser.ValidatePensionInput(&valid))

	noAge := valid
	noAge.Age = 0
	assert.NoError(t, parser.ValidatePensionInput(&noAge))

	badStatus := valid
	badStatus.RelationshipStatus = "married"
	assert.Error(t, parser.ValidatePensionInput(&badStatus))

	negative := valid
	negative.IncomePerFortnight = decimal.NewFromInt(-5)
	assert.Error(t, parser.ValidatePensionInput(&negative))
}

func TestValidateRules(t *testing.T) {
	parser := NewInputParser()

	defaults := domain.DefaultAgePensionRules()
	assert.NoError(t, parser.ValidateRules(&defaults))

	tests := []struct {
		name   string
		modify func(r *domain.AgePensionRules)
		errMsg string
	}{
		{"negative full pension", func(r *domain.AgePensionRules) { r.FullPension.Single = decimal.NewFromInt(-1) }, "full pension amounts cannot be negative"},
		{"zero fortnights", func(r *domain.AgePensionRules) { r.FortnightsPerYear = 0 }, "fortnights per year must be positive"},
		{"inverted thresholds", func(r *domain.AgePensionRules) { r.AssetUpper.Single.HomeOwner = decimal.NewFromInt(1000) }, "single homeowner lower threshold must be below"},
		{"bands miss zero", func(r *domain.AgePensionRules) { r.ProductBands = r.ProductBands[1:] }, "product bands must start at 0"},
		{"duplicate band", func(r *domain.AgePensionRules) { r.ProductBands[2].MinPercent = decimal.NewFromInt(10) }, "distinct minimums"},
		{"allocation missing", func(r *domain.AgePensionRules) { delete(r.Allocations, domain.ProductC) }, "no allocation configured for product C"},
		{"allocation sum", func(r *domain.AgePensionRules) {
			r.Allocations[domain.ProductA] = domain.ProductAllocation{ChoicePercent: 50, LifetimePercent: 40}
		}, "allocation must sum to 100"},
		{"discount over one", func(r *domain.AgePensionRules) { r.LifetimeIncome.AssetDiscount = decimal.NewFromFloat(1.5) }, "asset discount must be between 0 and 1"},
		{"drawdown over one", func(r *domain.AgePensionRules) { r.DrawdownRates[3].Rate = decimal.NewFromInt(2) }, "rate must be between 0 and 1"},
		{"default longevity", func(r *domain.AgePensionRules) { r.Defaults.ExpectedLongevity = 60 }, "default expected longevity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules := domain.DefaultAgePensionRules()
			tt.modify(&rules)
			err := parser.ValidateRules(&rules)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestEffectiveRules(t *testing.T) {
	assert.Equal(t, domain.DefaultAgePensionRules(), EffectiveRules(nil))

	custom := domain.DefaultAgePensionRules()
	custom.FortnightsPerYear = 27
	assert.Equal(t, 27, EffectiveRules(&domain.Configuration{Rules: &custom}).FortnightsPerYear)
}
