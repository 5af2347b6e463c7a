package domain

import (
	"github.com/shopspring/decimal"
)

// RetirementResults is everything computed for one household
type RetirementResults struct {
	// Assets
	NonSuperAssets      decimal.Decimal `json:"nonSuperAssets"`
	SuperBalance        decimal.Decimal `json:"superBalance"`
	InitialTotalAssets  decimal.Decimal `json:"initialTotalAssets"`
	AdjustedTotalAssets decimal.Decimal `json:"adjustedTotalAssets"`
	AssetReduction      decimal.Decimal `json:"assetReduction"`

	// Income
	TotalAnnualIncome decimal.Decimal `json:"totalAnnualIncome"`
	FortnightlyIncome decimal.Decimal `json:"fortnightlyIncome"`

	// Age and horizon after defaults were applied
	Age                int                `json:"age"`
	RetirementYears    int                `json:"retirementYears"`
	RelationshipStatus RelationshipStatus `json:"relationshipStatus"`
	HomeOwner          bool               `json:"homeOwner"`

	InitialPension            PensionResult   `json:"initialPension"`  // before the lifetime income discount
	AdjustedPension           PensionResult   `json:"adjustedPension"` // after the discount
	PensionIncrease           decimal.Decimal `json:"pensionIncrease"`
	PensionIncreasePercentage decimal.Decimal `json:"pensionIncreasePercentage"`

	RecommendedProduct Product          `json:"recommendedProduct"`
	Allocation         AllocationResult `json:"allocation"`

	LifetimeIncomeAnnual decimal.Decimal `json:"lifetimeIncomeAnnual"`
	ChoiceIncomeAnnual   decimal.Decimal `json:"choiceIncomeAnnual"`

	SafetyNetAmount       decimal.Decimal `json:"safetyNetAmount"` // lifetime income + adjusted pension
	TotalRetirementIncome decimal.Decimal `json:"totalRetirementIncome"`

	Eligibility       Eligibility     `json:"eligibility"`
	PensionPercentage decimal.Decimal `json:"pensionPercentage"`

	YearlyBreakdown []YearlyIncome `json:"yearlyBreakdown,omitempty"`
}

// YearlyIncome is one row of the retirement income schedule
type YearlyIncome struct {
	Year             int             `json:"year"` // 1-based year of retirement
	Age              int             `json:"age"`
	ChoiceWithdrawal decimal.Decimal `json:"choiceWithdrawal"`
	ChoiceBalance    decimal.Decimal `json:"choiceBalance"` // remaining after the withdrawal
	LifetimeIncome   decimal.Decimal `json:"lifetimeIncome"`
	AgePension       decimal.Decimal `json:"agePension"`
	TotalIncome      decimal.Decimal `json:"totalIncome"`
}

// ScenarioResult pairs a scenario with its results
type ScenarioResult struct {
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Results     *RetirementResults `json:"results"`
}

// ScenarioComparison holds the results for every scenario of a configuration
type ScenarioComparison struct {
	Scenarios   []ScenarioResult `json:"scenarios"`
	Assumptions []string         `json:"assumptions"`
}
