package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// AgePensionRules contains every rate and threshold used by the calculator.
// Defaults come from DefaultAgePensionRules; a rules.yaml file may override them.
type AgePensionRules struct {
	Metadata          RulesMetadata                 `yaml:"metadata" json:"metadata"`
	FullPension       StatusAmounts                 `yaml:"full_pension" json:"fullPension"`               // per fortnight
	IncomeFreeArea    StatusAmounts                 `yaml:"income_free_area" json:"incomeFreeArea"`        // per fortnight
	IncomeTaperRate   decimal.Decimal               `yaml:"income_taper_rate" json:"incomeTaperRate"`      // reduction per dollar over the free area
	AssetLower        StatusThresholds              `yaml:"asset_lower_threshold" json:"assetLower"`       // full pension at or below
	AssetUpper        StatusThresholds              `yaml:"asset_upper_threshold" json:"assetUpper"`       // no pension at or above
	AssetTaperPer1000 decimal.Decimal               `yaml:"asset_taper_per_1000" json:"assetTaperPer1000"` // fortnightly reduction per $1,000
	FortnightsPerYear int                           `yaml:"fortnights_per_year" json:"fortnightsPerYear"`
	ProductBands      []ProductBand                 `yaml:"product_bands" json:"productBands"`
	Allocations       map[Product]ProductAllocation `yaml:"allocations" json:"allocations"`
	LifetimeIncome    LifetimeIncomeRules           `yaml:"lifetime_income" json:"lifetimeIncome"`
	DrawdownRates     []DrawdownBand                `yaml:"drawdown_rates" json:"drawdownRates"`
	Defaults          HouseholdDefaults             `yaml:"defaults" json:"defaults"`
}

// RulesMetadata describes where a rules table came from
type RulesMetadata struct {
	DataYear    int    `yaml:"data_year" json:"dataYear"`
	Description string `yaml:"description" json:"description"`
}

// StatusAmounts holds one amount per relationship status
type StatusAmounts struct {
	Single decimal.Decimal `yaml:"single" json:"single"`
	Couple decimal.Decimal `yaml:"couple" json:"couple"`
}

// For returns the amount for a relationship status
func (sa StatusAmounts) For(status RelationshipStatus) decimal.Decimal {
	if status == RelationshipCouple {
		return sa.Couple
	}
	return sa.Single
}

// HomeOwnerAmounts splits an amount by home ownership
type HomeOwnerAmounts struct {
	HomeOwner    decimal.Decimal `yaml:"home_owner" json:"homeOwner"`
	NonHomeOwner decimal.Decimal `yaml:"non_home_owner" json:"nonHomeOwner"`
}

// StatusThresholds holds asset thresholds by relationship status and home ownership
type StatusThresholds struct {
	Single HomeOwnerAmounts `yaml:"single" json:"single"`
	Couple HomeOwnerAmounts `yaml:"couple" json:"couple"`
}

// For returns the threshold for a relationship status and home ownership
func (st StatusThresholds) For(status RelationshipStatus, homeOwner bool) decimal.Decimal {
	amounts := st.Single
	if status == RelationshipCouple {
		amounts = st.Couple
	}
	if homeOwner {
		return amounts.HomeOwner
	}
	return amounts.NonHomeOwner
}

// ProductBand maps pension percentages at or above MinPercent to a product
type ProductBand struct {
	Product    Product         `yaml:"product" json:"product"`
	MinPercent decimal.Decimal `yaml:"min_percent" json:"minPercent"`
}

// ProductAllocation is a product's Choice/Lifetime split in whole percent
type ProductAllocation struct {
	ChoicePercent   int `yaml:"choice" json:"choice"`
	LifetimePercent int `yaml:"lifetime" json:"lifetime"`
}

// LifetimeIncomeRules configures the guaranteed lifetime income product
type LifetimeIncomeRules struct {
	Rate          decimal.Decimal `yaml:"rate" json:"rate"`                     // annual payment per dollar invested
	AssetDiscount decimal.Decimal `yaml:"asset_discount" json:"assetDiscount"` // share excluded from the assets test
}

// DrawdownBand applies Rate to every age at or above MinAge (until the next band)
type DrawdownBand struct {
	MinAge int             `yaml:"min_age" json:"minAge"`
	Rate   decimal.Decimal `yaml:"rate" json:"rate"`
}

// HouseholdDefaults fills questionnaire answers the household left blank
type HouseholdDefaults struct {
	Age               int `yaml:"age" json:"age"`
	ExpectedLongevity int `yaml:"expected_longevity" json:"expectedLongevity"`
}

// DefaultAgePensionRules returns the built-in rate tables
func DefaultAgePensionRules() AgePensionRules {
	return AgePensionRules{
		Metadata: RulesMetadata{
			DataYear:    2025,
			Description: "Simplified Age Pension means tests (built-in)",
		},
		FullPension: StatusAmounts{
			Single: decimal.NewFromFloat(1051.30),
			Couple: decimal.NewFromInt(1585),
		},
		IncomeFreeArea: StatusAmounts{
			Single: decimal.NewFromInt(218),
			Couple: decimal.NewFromInt(380),
		},
		IncomeTaperRate: decimal.NewFromFloat(0.5),
		AssetLower: StatusThresholds{
			Single: HomeOwnerAmounts{HomeOwner: decimal.NewFromInt(321500), NonHomeOwner: decimal.NewFromInt(579500)},
			Couple: HomeOwnerAmounts{HomeOwner: decimal.NewFromInt(481500), NonHomeOwner: decimal.NewFromInt(739500)},
		},
		AssetUpper: StatusThresholds{
			Single: HomeOwnerAmounts{HomeOwner: decimal.NewFromInt(704500), NonHomeOwner: decimal.NewFromInt(962500)},
			Couple: HomeOwnerAmounts{HomeOwner: decimal.NewFromInt(1059000), NonHomeOwner: decimal.NewFromInt(1317000)},
		},
		AssetTaperPer1000: decimal.NewFromInt(3),
		FortnightsPerYear: 26,
		ProductBands: []ProductBand{
			{Product: ProductD, MinPercent: decimal.Zero},
			{Product: ProductC, MinPercent: decimal.NewFromInt(10)},
			{Product: ProductB, MinPercent: decimal.NewFromInt(50)},
			{Product: ProductA, MinPercent: decimal.NewFromInt(90)},
		},
		Allocations: map[Product]ProductAllocation{
			ProductA: {ChoicePercent: 85, LifetimePercent: 15},
			ProductB: {ChoicePercent: 80, LifetimePercent: 20},
			ProductC: {ChoicePercent: 70, LifetimePercent: 30},
			ProductD: {ChoicePercent: 90, LifetimePercent: 10},
		},
		LifetimeIncome: LifetimeIncomeRules{
			Rate:          decimal.NewFromFloat(0.067),
			AssetDiscount: decimal.NewFromFloat(0.4),
		},
		DrawdownRates: []DrawdownBand{
			{MinAge: 0, Rate: decimal.Zero},
			{MinAge: 60, Rate: decimal.NewFromFloat(0.04)},
			{MinAge: 65, Rate: decimal.NewFromFloat(0.05)},
			{MinAge: 75, Rate: decimal.NewFromFloat(0.06)},
			{MinAge: 80, Rate: decimal.NewFromFloat(0.07)},
			{MinAge: 85, Rate: decimal.NewFromFloat(0.09)},
			{MinAge: 90, Rate: decimal.NewFromFloat(0.11)},
			{MinAge: 95, Rate: decimal.NewFromFloat(0.14)},
		},
		Defaults: HouseholdDefaults{
			Age:               67,
			ExpectedLongevity: 85,
		},
	}
}

// Normalized returns a copy with bands sorted ascending so lookups can scan them in order
func (r AgePensionRules) Normalized() AgePensionRules {
	bands := append([]ProductBand(nil), r.ProductBands...)
	sort.SliceStable(bands, func(i, j int) bool { return bands[i].MinPercent.LessThan(bands[j].MinPercent) })
	r.ProductBands = bands

	drawdown := append([]DrawdownBand(nil), r.DrawdownRates...)
	sort.SliceStable(drawdown, func(i, j int) bool { return drawdown[i].MinAge < drawdown[j].MinAge })
	r.DrawdownRates = drawdown

	allocations := make(map[Product]ProductAllocation, len(r.Allocations))
	for p, a := range r.Allocations {
		allocations[p] = a
	}
	r.Allocations = allocations
	return r
}
