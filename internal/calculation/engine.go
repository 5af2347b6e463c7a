package calculation

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/thomasyao15/retirement-income-calc/internal/domain"
)

// CalculationEngine orchestrates the retirement income pipeline for a household
type CalculationEngine struct {
	PensionCalc *AgePensionCalculator
	Logger      Logger
	Debug       bool // Log the per-year schedule as well as the pipeline steps
}

// NewCalculationEngine creates a new calculation engine with the built-in rules
func NewCalculationEngine() *CalculationEngine {
	return &CalculationEngine{
		PensionCalc: NewAgePensionCalculator(),
		Logger:      NopLogger{},
	}
}

// NewCalculationEngineWithConfig creates a new calculation engine with configurable rules
func NewCalculationEngineWithConfig(rules domain.AgePensionRules) *CalculationEngine {
	return &CalculationEngine{
		PensionCalc: NewAgePensionCalculatorWithConfig(rules),
		Logger:      NopLogger{},
	}
}

// SetLogger sets the logger; nil restores the no-op logger
func (ce *CalculationEngine) SetLogger(l Logger) {
	if l == nil {
		ce.Logger = NopLogger{}
		return
	}
	ce.Logger = l
}

// Rules returns the rules the engine calculates with
func (ce *CalculationEngine) Rules() domain.AgePensionRules {
	return ce.PensionCalc.Rules
}

// HouseholdSnapshot is a household after defaults have been applied
type HouseholdSnapshot struct {
	Pension           domain.PensionInput
	SuperBalance      decimal.Decimal
	NonSuperAssets    decimal.Decimal
	AnnualIncome      decimal.Decimal
	RetirementYears   int
	ExpectedLongevity int
}

// Normalize fills unanswered questions with defaults and derives the means test input
func (ce *CalculationEngine) Normalize(h domain.Household) HouseholdSnapshot {
	rules := ce.PensionCalc.Rules

	nonSuper := valueOrZero(h.NonSuperAssets)
	super := valueOrZero(h.SuperBalance)

	annualIncome := valueOrZero(h.CombinedIncome)
	if h.HasIncomeStreams {
		annualIncome = annualIncome.Add(valueOrZero(h.IncomeStreamsAmount))
	}

	age := rules.Defaults.Age
	if h.Age != nil {
		age = *h.Age
	}

	longevity := rules.Defaults.ExpectedLongevity
	if h.ExpectedLongevity != nil {
		longevity = *h.ExpectedLongevity
	}

	years := longevity - age
	if h.RetirementYears != nil {
		years = *h.RetirementYears
	}
	if years < 0 {
		years = 0
	}

	return HouseholdSnapshot{
		Pension: domain.PensionInput{
			Age:                age,
			RelationshipStatus: domain.MapRelationshipStatus(h.RelationshipStatus),
			HomeOwner:          h.IsHomeOwner(),
			IncomePerFortnight: ce.PensionCalc.AnnualToFortnightly(annualIncome),
			TotalAssets:        nonSuper.Add(super),
		},
		SuperBalance:      super,
		NonSuperAssets:    nonSuper,
		AnnualIncome:      annualIncome,
		RetirementYears:   years,
		ExpectedLongevity: longevity,
	}
}

// Calculate runs the full pipeline, recommending the product from the undiscounted pension
func (ce *CalculationEngine) Calculate(h domain.Household) (*domain.RetirementResults, error) {
	return ce.calculate(h, "")
}

// CalculateWithProduct runs the pipeline with the allocation forced to the given product.
// The results still report the product the household would have been recommended.
func (ce *CalculationEngine) CalculateWithProduct(h domain.Household, product domain.Product) (*domain.RetirementResults, error) {
	if !product.Valid() {
		return nil, fmt.Errorf("unknown product %q", product)
	}
	return ce.calculate(h, product)
}

func (ce *CalculationEngine) calculate(h domain.Household, override domain.Product) (*domain.RetirementResults, error) {
	snap := ce.Normalize(h)
	if err := checkSnapshot(snap); err != nil {
		return nil, err
	}
	pc := ce.PensionCalc
	input := snap.Pension

	ce.Logger.Debugf("household: age=%d status=%s homeOwner=%t assets=%s income/fortnight=%s years=%d",
		input.Age, input.RelationshipStatus, input.HomeOwner, input.TotalAssets.StringFixed(2),
		input.IncomePerFortnight.StringFixed(2), snap.RetirementYears)

	// 1. Pension on the undiscounted assets
	initial := pc.CalculatePension(input)
	ce.Logger.Debugf("initial pension: income test=%s asset test=%s final=%s (%s%%)",
		initial.IncomeTestPension.StringFixed(2), initial.AssetTestPension.StringFixed(2),
		initial.FinalPension.StringFixed(2), initial.PensionPercentage.StringFixed(2))

	// 2. Product from the initial percentage only
	recommended := pc.RecommendProduct(initial.PensionPercentage)
	product := recommended
	if override != "" {
		product = override
	}
	ce.Logger.Debugf("recommended product: %s (allocating %s)", recommended, product)

	// 3. Split the super balance
	allocation, err := pc.Allocate(product, snap.SuperBalance)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate super balance: %w", err)
	}
	ce.Logger.Debugf("allocation: choice %d%% = %s, lifetime %d%% = %s",
		allocation.ChoicePercent, allocation.ChoiceAmount.StringFixed(2),
		allocation.LifetimePercent, allocation.LifetimeAmount.StringFixed(2))

	// 4-5. Re-test with the lifetime discount applied
	adjustedAssets := pc.ApplyLifetimeDiscount(input.TotalAssets, allocation.LifetimeAmount)
	adjusted := pc.CalculateAdjustedPension(input, allocation.LifetimeAmount)
	ce.Logger.Debugf("adjusted pension: assets=%s final=%s (%s%%)",
		adjustedAssets.StringFixed(2), adjusted.FinalPension.StringFixed(2), adjusted.PensionPercentage.StringFixed(2))

	// 6-7. Income streams
	lifetimeAnnual := pc.ProjectLifetimeIncomeAnnual(allocation.LifetimeAmount, input.Age)
	choiceAnnual := pc.ProjectChoiceIncomeAnnualAverage(allocation.ChoiceAmount, input.Age, snap.RetirementYears)

	// 8. Total
	total := choiceAnnual.Add(lifetimeAnnual).Add(adjusted.FinalPension)
	ce.Logger.Debugf("income: choice=%s lifetime=%s pension=%s total=%s",
		choiceAnnual.StringFixed(2), lifetimeAnnual.StringFixed(2),
		adjusted.FinalPension.StringFixed(2), total.StringFixed(2))

	increase := adjusted.FinalPension.Sub(initial.FinalPension)
	increasePct := decimal.Zero
	if !initial.FinalPension.IsZero() {
		increasePct = increase.Div(initial.FinalPension).Mul(oneHundred)
	}

	results := &domain.RetirementResults{
		NonSuperAssets:            snap.NonSuperAssets,
		SuperBalance:              snap.SuperBalance,
		InitialTotalAssets:        input.TotalAssets,
		AdjustedTotalAssets:       adjustedAssets,
		AssetReduction:            input.TotalAssets.Sub(adjustedAssets),
		TotalAnnualIncome:         snap.AnnualIncome,
		FortnightlyIncome:         input.IncomePerFortnight,
		Age:                       input.Age,
		RetirementYears:           snap.RetirementYears,
		RelationshipStatus:        input.RelationshipStatus,
		HomeOwner:                 input.HomeOwner,
		InitialPension:            initial,
		AdjustedPension:           adjusted,
		PensionIncrease:           increase,
		PensionIncreasePercentage: increasePct,
		RecommendedProduct:        recommended,
		Allocation:                allocation,
		LifetimeIncomeAnnual:      lifetimeAnnual,
		ChoiceIncomeAnnual:        choiceAnnual,
		SafetyNetAmount:           lifetimeAnnual.Add(adjusted.FinalPension),
		TotalRetirementIncome:     total,
		Eligibility:               adjusted.Eligibility,
		PensionPercentage:         adjusted.PensionPercentage,
		YearlyBreakdown:           ce.yearlyBreakdown(allocation, input.Age, snap.RetirementYears, lifetimeAnnual, adjusted.FinalPension),
	}
	return results, nil
}

// yearlyBreakdown holds the adjusted pension and lifetime income flat; only Choice Income varies
func (ce *CalculationEngine) yearlyBreakdown(allocation domain.AllocationResult, age, years int, lifetimeAnnual, pension decimal.Decimal) []domain.YearlyIncome {
	schedule := ce.PensionCalc.ProjectChoiceIncomeSchedule(allocation.ChoiceAmount, age, years)
	rows := make([]domain.YearlyIncome, 0, len(schedule))
	for i, year := range schedule {
		row := domain.YearlyIncome{
			Year:             i + 1,
			Age:              year.Age,
			ChoiceWithdrawal: year.Withdrawal,
			ChoiceBalance:    year.Balance,
			LifetimeIncome:   lifetimeAnnual,
			AgePension:       pension,
			TotalIncome:      year.Withdrawal.Add(lifetimeAnnual).Add(pension),
		}
		if ce.Debug {
			ce.Logger.Debugf("year %d (age %d): rate=%s withdrawal=%s balance=%s total=%s",
				row.Year, row.Age, year.Rate.String(), row.ChoiceWithdrawal.StringFixed(2),
				row.ChoiceBalance.StringFixed(2), row.TotalIncome.StringFixed(2))
		}
		rows = append(rows, row)
	}
	return rows
}

// RunScenarios calculates every scenario concurrently, keeping the input order
func (ce *CalculationEngine) RunScenarios(ctx context.Context, config *domain.Configuration) (*domain.ScenarioComparison, error) {
	if config == nil || len(config.Scenarios) == 0 {
		return nil, fmt.Errorf("no scenarios to calculate")
	}

	results := make([]domain.ScenarioResult, len(config.Scenarios))
	errs := make([]error, len(config.Scenarios))

	var wg sync.WaitGroup
	for i := range config.Scenarios {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			if err := ctx.Err(); err != nil {
				errs[idx] = err
				return
			}

			scenario := config.Scenarios[idx]
			res, err := ce.Calculate(scenario.Household)
			if err != nil {
				errs[idx] = fmt.Errorf("failed to calculate scenario %s: %w", scenario.Name, err)
				return
			}
			results[idx] = domain.ScenarioResult{
				Name:        scenario.Name,
				Description: scenario.Description,
				Results:     res,
			}
		}(i)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	ce.Logger.Infof("calculated %d scenario(s)", len(results))
	return &domain.ScenarioComparison{
		Scenarios:   results,
		Assumptions: ce.Assumptions(),
	}, nil
}

// Assumptions describes the rates in effect, for display alongside results
func (ce *CalculationEngine) Assumptions() []string {
	r := ce.PensionCalc.Rules
	return []string{
		fmt.Sprintf("Full Age Pension: $%s single / $%s couple per fortnight",
			r.FullPension.Single.StringFixed(2), r.FullPension.Couple.StringFixed(2)),
		fmt.Sprintf("Income free area: $%s single / $%s couple per fortnight, taper %s per dollar",
			r.IncomeFreeArea.Single.StringFixed(2), r.IncomeFreeArea.Couple.StringFixed(2), r.IncomeTaperRate.String()),
		fmt.Sprintf("Assets test: $%s reduction per fortnight for each $1,000 above the lower threshold",
			r.AssetTaperPer1000.StringFixed(2)),
		fmt.Sprintf("Lifetime Income: %s%% of the purchase paid annually, %s%% excluded from the assets test",
			r.LifetimeIncome.Rate.Mul(oneHundred).String(), r.LifetimeIncome.AssetDiscount.Mul(oneHundred).String()),
		"Choice Income: age-based minimum drawdown, averaged over the retirement horizon",
		"Age Pension and Lifetime Income held constant in today's dollars",
	}
}

func checkSnapshot(snap HouseholdSnapshot) error {
	switch {
	case snap.SuperBalance.IsNegative():
		return fmt.Errorf("super balance cannot be negative")
	case snap.NonSuperAssets.IsNegative():
		return fmt.Errorf("non-super assets cannot be negative")
	case snap.AnnualIncome.IsNegative():
		return fmt.Errorf("income cannot be negative")
	}
	return nil
}

func valueOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
