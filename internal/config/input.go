package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/thomasyao15/retirement-income-calc/internal/domain"
	"gopkg.in/yaml.v3"
)

// DefaultRulesFile is picked up from the working directory when no rules file is given
const DefaultRulesFile = "rules.yaml"

// Questionnaire answers accepted for relationship status
var validRelationshipStatuses = []string{"single", "couple", "married", "defacto", "divorced", "widowed", "separated"}

// InputParser handles parsing of input configuration files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// rawConfiguration keeps the rules block undecoded so it can be laid over the defaults
type rawConfiguration struct {
	Rules     yaml.Node         `yaml:"rules"`
	Scenarios []domain.Scenario `yaml:"scenarios"`
}

// LoadFromFile loads and validates a scenario file
func (ip *InputParser) LoadFromFile(filename string) (*domain.Configuration, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	config, err := ip.Parse(data)
	if err != nil {
		return nil, err
	}

	if err := ip.ValidateConfiguration(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// LoadFromFileWithRules loads a scenario file and lays a rules file over its rules.
// An empty rulesFile falls back to rules.yaml in the working directory, if present.
func (ip *InputParser) LoadFromFileWithRules(filename, rulesFile string) (*domain.Configuration, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	config, err := ip.Parse(data)
	if err != nil {
		return nil, err
	}

	if rulesFile == "" && fileExists(DefaultRulesFile) {
		rulesFile = DefaultRulesFile
	}
	if rulesFile != "" {
		rules, err := ip.loadRulesOver(rulesFile, EffectiveRules(config))
		if err != nil {
			return nil, err
		}
		config.Rules = &rules
	}

	if err := ip.ValidateConfiguration(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Parse decodes a scenario document without validating it
func (ip *InputParser) Parse(data []byte) (*domain.Configuration, error) {
	var raw rawConfiguration
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	config := &domain.Configuration{Scenarios: raw.Scenarios}
	if !raw.Rules.IsZero() {
		rules := domain.DefaultAgePensionRules()
		if err := raw.Rules.Decode(&rules); err != nil {
			return nil, fmt.Errorf("failed to parse rules: %w", err)
		}
		config.Rules = &rules
	}
	return config, nil
}

// LoadRulesFromFile loads a rules file over the built-in defaults and validates the result
func (ip *InputParser) LoadRulesFromFile(filename string) (domain.AgePensionRules, error) {
	rules, err := ip.loadRulesOver(filename, domain.DefaultAgePensionRules())
	if err != nil {
		return domain.AgePensionRules{}, err
	}
	if err := ip.ValidateRules(&rules); err != nil {
		return domain.AgePensionRules{}, fmt.Errorf("rules validation failed: %w", err)
	}
	return rules, nil
}

func (ip *InputParser) loadRulesOver(filename string, base domain.AgePensionRules) (domain.AgePensionRules, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return domain.AgePensionRules{}, fmt.Errorf("failed to read rules file %s: %w", filename, err)
	}

	rules := base.Normalized()
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return domain.AgePensionRules{}, fmt.Errorf("failed to parse rules file %s: %w", filename, err)
	}
	return rules, nil
}

// EffectiveRules returns the configuration's rules, or the defaults when it has none
func EffectiveRules(config *domain.Configuration) domain.AgePensionRules {
	if config == nil || config.Rules == nil {
		return domain.DefaultAgePensionRules()
	}
	return *config.Rules
}

// ValidateConfiguration validates the loaded configuration
func (ip *InputParser) ValidateConfiguration(config *domain.Configuration) error {
	if len(config.Scenarios) == 0 {
		return fmt.Errorf("no scenarios provided")
	}

	defaults := EffectiveRules(config).Defaults
	seen := make(map[string]bool, len(config.Scenarios))
	for i, scenario := range config.Scenarios {
		if strings.TrimSpace(scenario.Name) == "" {
			return fmt.Errorf("scenario %d: name is required", i)
		}
		if seen[scenario.Name] {
			return fmt.Errorf("scenario %d: duplicate scenario name %q", i, scenario.Name)
		}
		seen[scenario.Name] = true

		if err := ip.ValidateHousehold(&scenario.Household, defaults); err != nil {
			return fmt.Errorf("scenario %d (%s) validation failed: %w", i, scenario.Name, err)
		}
	}

	if config.Rules != nil {
		if err := ip.ValidateRules(config.Rules); err != nil {
			return fmt.Errorf("rules validation failed: %w", err)
		}
	}
	return nil
}

// ValidateHousehold rejects answers the calculator cannot accept. A missing
// age is checked as defaults.Age, matching what the engine will assume.
func (ip *InputParser) ValidateHousehold(h *domain.Household, defaults domain.HouseholdDefaults) error {
	if h.Age != nil && (*h.Age < 18 || *h.Age > 120) {
		return fmt.Errorf("age must be between 18 and 120, got %d", *h.Age)
	}
	if h.RetirementYears != nil && *h.RetirementYears < 1 {
		return fmt.Errorf("retirement years must be at least 1, got %d", *h.RetirementYears)
	}
	if h.ExpectedLongevity != nil {
		age := defaults.Age
		if h.Age != nil {
			age = *h.Age
		}
		if *h.ExpectedLongevity <= age {
			return fmt.Errorf("expected longevity (%d) must be greater than age (%d)", *h.ExpectedLongevity, age)
		}
	}

	for name, amount := range map[string]*decimal.Decimal{
		"super balance":         h.SuperBalance,
		"non-super assets":      h.NonSuperAssets,
		"income streams amount": h.IncomeStreamsAmount,
		"combined income":       h.CombinedIncome,
	} {
		if amount != nil && amount.IsNegative() {
			return fmt.Errorf("%s cannot be negative", name)
		}
	}

	status := strings.ToLower(strings.TrimSpace(h.RelationshipStatus))
	if status == "" {
		return fmt.Errorf("relationship status is required")
	}
	if !contains(validRelationshipStatuses, status) {
		return fmt.Errorf("invalid relationship status %q (valid: %s)", h.RelationshipStatus, strings.Join(validRelationshipStatuses, ", "))
	}

	if h.HomeOwnership != "" && h.HomeOwnership != "yes" && h.HomeOwnership != "no" {
		return fmt.Errorf("home ownership must be \"yes\" or \"no\", got %q", h.HomeOwnership)
	}
	return nil
}

// ValidatePensionInput validates a direct means test request.
// An age of zero means the age was not given.
func (ip *InputParser) ValidatePensionInput(input *domain.PensionInput) error {
	if input.Age != 0 && (input.Age < 18 || input.Age > 120) {
		return fmt.Errorf("age must be between 18 and 120, got %d", input.Age)
	}
	if !input.RelationshipStatus.Valid() {
		return fmt.Errorf("relationship status must be single or couple, got %q", input.RelationshipStatus)
	}
	if input.IncomePerFortnight.IsNegative() {
		return fmt.Errorf("income per fortnight cannot be negative")
	}
	if input.TotalAssets.IsNegative() {
		return fmt.Errorf("total assets cannot be negative")
	}
	return nil
}

// ValidateRules checks a rules table for internal consistency
func (ip *InputParser) ValidateRules(rules *domain.AgePensionRules) error {
	for name, amounts := range map[string]domain.StatusAmounts{
		"full pension":     rules.FullPension,
		"income free area": rules.IncomeFreeArea,
	} {
		if amounts.Single.IsNegative() || amounts.Couple.IsNegative() {
			return fmt.Errorf("%s amounts cannot be negative", name)
		}
	}
	if rules.IncomeTaperRate.IsNegative() {
		return fmt.Errorf("income taper rate cannot be negative")
	}
	if rules.AssetTaperPer1000.IsNegative() {
		return fmt.Errorf("asset taper cannot be negative")
	}
	if rules.FortnightsPerYear <= 0 {
		return fmt.Errorf("fortnights per year must be positive")
	}

	if err := validateThresholds("single", rules.AssetLower.Single, rules.AssetUpper.Single); err != nil {
		return err
	}
	if err := validateThresholds("couple", rules.AssetLower.Couple, rules.AssetUpper.Couple); err != nil {
		return err
	}

	normalized := rules.Normalized()
	if err := validateProductBands(normalized.ProductBands); err != nil {
		return err
	}

	for _, band := range normalized.ProductBands {
		if _, ok := rules.Allocations[band.Product]; !ok {
			return fmt.Errorf("no allocation configured for product %s", band.Product)
		}
	}
	for product, split := range rules.Allocations {
		if !product.Valid() {
			return fmt.Errorf("allocation for unknown product %q", product)
		}
		if split.ChoicePercent < 0 || split.LifetimePercent < 0 {
			return fmt.Errorf("product %s: allocation percentages cannot be negative", product)
		}
		if split.ChoicePercent+split.LifetimePercent != 100 {
			return fmt.Errorf("product %s: allocation must sum to 100, got %d", product, split.ChoicePercent+split.LifetimePercent)
		}
	}

	if rules.LifetimeIncome.Rate.IsNegative() {
		return fmt.Errorf("lifetime income rate cannot be negative")
	}
	if rules.LifetimeIncome.AssetDiscount.IsNegative() || rules.LifetimeIncome.AssetDiscount.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("lifetime asset discount must be between 0 and 1")
	}

	if err := validateDrawdownRates(normalized.DrawdownRates); err != nil {
		return err
	}

	if rules.Defaults.Age < 18 || rules.Defaults.Age > 120 {
		return fmt.Errorf("default age must be between 18 and 120, got %d", rules.Defaults.Age)
	}
	if rules.Defaults.ExpectedLongevity <= rules.Defaults.Age {
		return fmt.Errorf("default expected longevity must be greater than default age")
	}
	return nil
}

func validateThresholds(status string, lower, upper domain.HomeOwnerAmounts) error {
	if lower.HomeOwner.IsNegative() || lower.NonHomeOwner.IsNegative() {
		return fmt.Errorf("%s lower asset thresholds cannot be negative", status)
	}
	if !lower.HomeOwner.LessThan(upper.HomeOwner) {
		return fmt.Errorf("%s homeowner lower threshold must be below the upper threshold", status)
	}
	if !lower.NonHomeOwner.LessThan(upper.NonHomeOwner) {
		return fmt.Errorf("%s non-homeowner lower threshold must be below the upper threshold", status)
	}
	return nil
}

func validateProductBands(bands []domain.ProductBand) error {
	if len(bands) == 0 {
		return fmt.Errorf("at least one product band is required")
	}
	if !bands[0].MinPercent.IsZero() {
		return fmt.Errorf("product bands must start at 0, got %s", bands[0].MinPercent.String())
	}
	for i, band := range bands {
		if !band.Product.Valid() {
			return fmt.Errorf("product band %d: unknown product %q", i, band.Product)
		}
		if band.MinPercent.GreaterThan(decimal.NewFromInt(100)) {
			return fmt.Errorf("product band %d: minimum percentage cannot exceed 100", i)
		}
		if i > 0 && band.MinPercent.Equal(bands[i-1].MinPercent) {
			return fmt.Errorf("product bands must have distinct minimums (%s repeated)", band.MinPercent.String())
		}
	}
	return nil
}

func validateDrawdownRates(bands []domain.DrawdownBand) error {
	for i, band := range bands {
		if band.MinAge < 0 {
			return fmt.Errorf("drawdown band %d: age cannot be negative", i)
		}
		if band.Rate.IsNegative() || band.Rate.GreaterThan(decimal.NewFromInt(1)) {
			return fmt.Errorf("drawdown band %d: rate must be between 0 and 1", i)
		}
		if i > 0 && band.MinAge == bands[i-1].MinAge {
			return fmt.Errorf("drawdown bands must have distinct ages (age %d repeated)", band.MinAge)
		}
	}
	return nil
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}

func fileExists(filename string) bool {
	_, err := os.Stat(filename)
	return err == nil
}
